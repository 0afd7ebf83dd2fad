package repository

import (
	"github.com/jmoiron/sqlx"
	"github.com/recipebox/recipebox/internal/model"
)

type PhotoRepository interface {
	Create(photo *model.Photo) error
	ByDish(dishID int64) ([]*model.Photo, error)
	CountByDish(dishID int64) (int, error)
	StorageKeys() ([]string, error)
	WithTx(tx *sqlx.Tx) PhotoRepository
}

type photoRepository struct {
	db DBTX
}

func NewPhotoRepository(db *sqlx.DB) PhotoRepository {
	return &photoRepository{db: db}
}

func (r *photoRepository) WithTx(tx *sqlx.Tx) PhotoRepository {
	return &photoRepository{db: tx}
}

func (r *photoRepository) Create(photo *model.Photo) error {
	query := `INSERT INTO images (filename, storage_key, mime_type, size, recipe_id, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`

	return r.db.QueryRowx(query,
		photo.Filename,
		photo.StorageKey,
		photo.MimeType,
		photo.Size,
		photo.DishID,
		photo.CreatedAt,
	).Scan(&photo.ID)
}

func (r *photoRepository) ByDish(dishID int64) ([]*model.Photo, error) {
	photos := []*model.Photo{}
	query := `SELECT * FROM images WHERE recipe_id = $1 ORDER BY id`

	err := r.db.Select(&photos, query, dishID)
	if err != nil {
		return nil, err
	}

	return photos, nil
}

func (r *photoRepository) CountByDish(dishID int64) (int, error) {
	var count int
	err := r.db.QueryRowx(`SELECT COUNT(*) FROM images WHERE recipe_id = $1`, dishID).Scan(&count)
	return count, err
}

// StorageKeys lists every key referenced by an image row.
func (r *photoRepository) StorageKeys() ([]string, error) {
	keys := []string{}
	err := r.db.Select(&keys, `SELECT storage_key FROM images`)
	if err != nil {
		return nil, err
	}
	return keys, nil
}
