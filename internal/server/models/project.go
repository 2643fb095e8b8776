package models

import "time"

type Project struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"ownerId"`
	OwnerHandle string    `json:"ownerHandle"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"createdAt"`
}
