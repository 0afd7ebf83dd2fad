package model

import (
	"time"
)

type Photo struct {
	ID         int64     `db:"id"`
	Filename   string    `db:"filename"`    // original upload name
	StorageKey string    `db:"storage_key"` // generated key inside the storage backend
	MimeType   string    `db:"mime_type"`
	Size       int64     `db:"size"`
	DishID     int64     `db:"recipe_id"`
	CreatedAt  time.Time `db:"created_at"`

	// Computed fields (not in database)
	URL string `db:"-"`
}
