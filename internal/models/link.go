package models

import (
	"time"
)

// Link is a URL record owned by the dispensing service.
type Link struct {
	ID        int64     `json:"id"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
