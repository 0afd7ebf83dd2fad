package repository

import (
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/recipebox/recipebox/internal/model"
)

var (
	ErrDuplicateReview = errors.New("review already exists for this dish and user")
)

type FeedbackRepository interface {
	Create(feedback *model.Feedback) error
	Exists(dishID, userID int64) (bool, error)
	ByDish(dishID int64) ([]*model.FeedbackEntry, error)
	CountByDish(dishID int64) (int, error)
}

type feedbackRepository struct {
	db *sqlx.DB
}

func NewFeedbackRepository(db *sqlx.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Create(feedback *model.Feedback) error {
	query := `INSERT INTO reviews (recipe_id, user_id, rating, comment, created_at)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`

	err := r.db.QueryRowx(query,
		feedback.DishID,
		feedback.UserID,
		feedback.Rating,
		feedback.Comment,
		feedback.CreatedAt,
	).Scan(&feedback.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateReview
		}
		return err
	}

	return nil
}

func (r *feedbackRepository) Exists(dishID, userID int64) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM reviews WHERE recipe_id = $1 AND user_id = $2`
	err := r.db.QueryRow(query, dishID, userID).Scan(&count)
	return count > 0, err
}

func (r *feedbackRepository) ByDish(dishID int64) ([]*model.FeedbackEntry, error) {
	entries := []*model.FeedbackEntry{}
	query := `SELECT f.id, f.recipe_id, f.user_id, f.rating, f.comment, f.created_at,
	                 u.last_name || ' ' || u.first_name AS author_name
	          FROM reviews f
	          JOIN users u ON u.id = f.user_id
	          WHERE f.recipe_id = $1
	          ORDER BY f.created_at DESC, f.id DESC`

	err := r.db.Select(&entries, query, dishID)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *feedbackRepository) CountByDish(dishID int64) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM reviews WHERE recipe_id = $1`, dishID).Scan(&count)
	return count, err
}
