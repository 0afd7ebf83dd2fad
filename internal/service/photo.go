package service

import (
	"fmt"
	"log/slog"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/recipebox/recipebox/internal/model"
	"github.com/recipebox/recipebox/internal/storage"
	"github.com/recipebox/recipebox/internal/validation"
)

// PhotoPrefix is the storage folder for dish photos.
const PhotoPrefix = "dishes/"

// OrphanMinAge is how old an unreferenced photo must be before the sweep
// removes it. Younger files may belong to a create still in flight.
const OrphanMinAge = time.Hour

// PhotoService moves uploaded photos in and out of storage. It never
// touches the database; DishService records the staged photos.
type PhotoService struct {
	storage     storage.Storage
	constraints validation.FileConstraints
}

func NewPhotoService(storage storage.Storage, maxSize int64) *PhotoService {
	return &PhotoService{
		storage:     storage,
		constraints: validation.ImageConstraints.WithMaxSize(maxSize),
	}
}

// Uploads drops the empty parts browsers send for an untouched file input.
func Uploads(headers []*multipart.FileHeader) []*multipart.FileHeader {
	var uploads []*multipart.FileHeader
	for _, h := range headers {
		if h == nil || h.Filename == "" || h.Size == 0 {
			continue
		}
		uploads = append(uploads, h)
	}
	return uploads
}

// Validate checks every upload before anything is written.
func (s *PhotoService) Validate(uploads []*multipart.FileHeader) error {
	errs := validation.Errors{}
	for _, header := range uploads {
		_, err := validation.ValidateFile(header, s.constraints)
		if err != nil {
			errs.Add("photos", err.Error())
		}
	}
	return errs.Err()
}

// Stage writes the uploads to storage under generated keys and returns
// unsaved photo records. On failure nothing stays behind.
func (s *PhotoService) Stage(uploads []*multipart.FileHeader) ([]*model.Photo, error) {
	photos := make([]*model.Photo, 0, len(uploads))
	for _, header := range uploads {
		photo, err := s.stage(header)
		if err != nil {
			s.Discard(photos)
			return nil, err
		}
		photos = append(photos, photo)
	}
	return photos, nil
}

func (s *PhotoService) stage(header *multipart.FileHeader) (*model.Photo, error) {
	mimeType, err := validation.ValidateFile(header, s.constraints)
	if err != nil {
		return nil, validation.Errors{"photos": err.Error()}
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer func() { _ = file.Close() }()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	key := PhotoPrefix + uuid.New().String() + ext

	err = s.storage.Save(key, file)
	if err != nil {
		return nil, fmt.Errorf("failed to save photo: %w", err)
	}

	return &model.Photo{
		Filename:   path.Base(filepath.ToSlash(header.Filename)),
		StorageKey: key,
		MimeType:   mimeType,
		Size:       header.Size,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// Discard removes staged files whose records were never committed.
func (s *PhotoService) Discard(photos []*model.Photo) {
	keys := make([]string, 0, len(photos))
	for _, p := range photos {
		keys = append(keys, p.StorageKey)
	}
	s.DeleteFiles(keys)
}

// DeleteFiles removes files best effort. Failures are logged and left for
// SweepOrphans.
func (s *PhotoService) DeleteFiles(keys []string) int {
	failed := 0
	for _, key := range keys {
		err := s.storage.Delete(key)
		if err != nil {
			failed++
			slog.Error("failed to delete photo from storage", "error", err, "key", key)
		}
	}
	return failed
}

// URL returns the browser URL for a photo.
func (s *PhotoService) URL(photo *model.Photo) string {
	if photo == nil {
		return ""
	}
	return s.storage.URL(photo.StorageKey)
}

// SweepOrphans deletes stored photos that no database row references and
// that are at least minAge old. Only keys Stage could have produced are
// considered, so temporary files from in-progress writes are left alone.
func (s *PhotoService) SweepOrphans(referenced []string, minAge time.Duration, dryRun bool) ([]string, error) {
	known := make(map[string]bool, len(referenced))
	for _, key := range referenced {
		known[key] = true
	}

	objects, err := s.storage.List(PhotoPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}

	var orphans []string
	for _, obj := range objects {
		key := obj.Key
		if known[key] || !isPhotoKey(key) {
			continue
		}
		if minAge > 0 && time.Since(obj.ModTime) < minAge {
			continue
		}
		orphans = append(orphans, key)
		if dryRun {
			continue
		}
		err := s.storage.Delete(key)
		if err != nil {
			return orphans, fmt.Errorf("failed to delete orphan %s: %w", key, err)
		}
		slog.Info("removed orphaned photo", "key", key)
	}
	return orphans, nil
}

// isPhotoKey reports whether key has the shape Stage generates:
// PhotoPrefix, a UUID and an allowed image extension.
func isPhotoKey(key string) bool {
	name, ok := strings.CutPrefix(key, PhotoPrefix)
	if !ok {
		return false
	}
	ext := path.Ext(name)
	if ext != "" && !validation.ImageConstraints.AllowedExtensions[ext] {
		return false
	}
	_, err := uuid.Parse(strings.TrimSuffix(name, ext))
	return err == nil
}
