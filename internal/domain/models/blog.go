package models

import (
	"time"

	"github.com/google/uuid"
)

// BlogPost is the persisted blog document. ImagePublicID is the media store
// deletion handle; it stays empty when the caller supplied imageUrl directly.
type BlogPost struct {
	ID            uuid.UUID `db:"id" json:"id"`
	Heading       string    `db:"heading" json:"heading"`
	Content       string    `db:"content" json:"content"`
	Excerpt       string    `db:"excerpt" json:"excerpt"`
	ImageURL      string    `db:"image_url" json:"imageUrl"`
	ImagePublicID string    `db:"image_public_id" json:"imagePublicId,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}
