package services

import (
	"time"

	"github.com/dmitrijs2005/handlekeeper/internal/server/models"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// ProfileCache keeps recently served public profiles keyed by handle.
type ProfileCache struct {
	lru *expirable.LRU[string, models.Profile]
}

func NewProfileCache(size int, ttl time.Duration) *ProfileCache {
	return &ProfileCache{lru: expirable.NewLRU[string, models.Profile](size, nil, ttl)}
}

func (c *ProfileCache) Get(handle string) (models.Profile, bool) {
	if c == nil {
		return models.Profile{}, false
	}
	return c.lru.Get(handle)
}

func (c *ProfileCache) Put(p models.Profile) {
	if c == nil {
		return
	}
	c.lru.Add(p.Handle, p)
}

func (c *ProfileCache) Invalidate(handle string) {
	if c == nil {
		return
	}
	c.lru.Remove(handle)
}

func (c *ProfileCache) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}
