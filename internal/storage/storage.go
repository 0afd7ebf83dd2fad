package storage

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	cfg "github.com/recipebox/recipebox/internal/config"
)

// Storage defines the interface for file storage operations
type Storage interface {
	// Save stores a file at the given key, replacing any previous content
	Save(key string, file io.Reader) error

	// Delete removes the file at the given key; a missing file is not an error
	Delete(key string) error

	// URL returns the URL browsers use to fetch the file
	URL(key string) string

	// List returns every stored object whose key starts with prefix
	List(prefix string) ([]Object, error)
}

// Object is a stored file as reported by List.
type Object struct {
	Key     string
	ModTime time.Time
}

// New creates the storage backend selected by STORAGE_DRIVER.
func New(c *cfg.Config) (Storage, error) {
	switch c.StorageDriver {
	case cfg.StorageDriverLocal, "":
		slog.Info("initializing local storage", "path", c.UploadFolder)
		return NewLocalStorage(c.UploadFolder, "/uploads")
	case cfg.StorageDriverS3:
		slog.Info("initializing S3 storage",
			"bucket", c.S3Bucket,
			"region", c.S3Region,
			"endpoint", c.S3Endpoint,
		)
		return NewS3Storage(S3Config{
			Region:        c.S3Region,
			Bucket:        c.S3Bucket,
			AccessKey:     c.S3AccessKey,
			SecretKey:     c.S3SecretKey,
			Endpoint:      c.S3Endpoint,
			PresignExpiry: c.S3PresignExpiry,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
}
