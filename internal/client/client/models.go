package client

import "time"

type User struct {
	AccountID int64  `json:"accountId"`
	Handle    string `json:"handle"`
}

type Profile struct {
	ID               int64     `json:"id"`
	Handle           string    `json:"handle"`
	ThirdPartyHandle *string   `json:"thirdPartyHandle"`
	CreatedAt        time.Time `json:"createdAt"`
}

type Project struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"ownerId"`
	OwnerHandle string    `json:"ownerHandle"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"createdAt"`
}
