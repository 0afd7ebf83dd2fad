package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/recipebox/recipebox/internal/model"
)

var (
	ErrDishNotFound   = errors.New("dish not found")
	ErrDuplicateTitle = errors.New("dish title already exists")
)

type DishRepository interface {
	Create(dish *model.Dish) error
	ByID(id int64) (*model.Dish, error)
	TitleTaken(title string, exceptID int64) (bool, error)
	Summaries(limit, offset int) ([]*model.DishSummary, error)
	Count() (int, error)
	Update(dish *model.Dish) error
	Delete(id int64) error
	WithTx(tx *sqlx.Tx) DishRepository
}

type dishRepository struct {
	db DBTX
}

func NewDishRepository(db *sqlx.DB) DishRepository {
	return &dishRepository{db: db}
}

func (r *dishRepository) WithTx(tx *sqlx.Tx) DishRepository {
	return &dishRepository{db: tx}
}

func (r *dishRepository) Create(dish *model.Dish) error {
	query := `INSERT INTO recipes (title, description, cooking_time, servings, ingredients, steps, user_id, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`

	err := r.db.QueryRowx(query,
		dish.Title,
		dish.Description,
		dish.CookingTime,
		dish.Servings,
		dish.Ingredients,
		dish.Steps,
		dish.UserID,
		dish.CreatedAt,
	).Scan(&dish.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateTitle
		}
		return err
	}

	return nil
}

func (r *dishRepository) ByID(id int64) (*model.Dish, error) {
	dish := &model.Dish{}
	query := `SELECT * FROM recipes WHERE id = $1`

	err := r.db.Get(dish, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrDishNotFound
	}
	if err != nil {
		return nil, err
	}

	return dish, nil
}

// TitleTaken reports whether a dish other than exceptID already uses title.
// Pass 0 for exceptID when creating.
func (r *dishRepository) TitleTaken(title string, exceptID int64) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM recipes WHERE title = $1 AND id <> $2`
	err := r.db.QueryRowx(query, title, exceptID).Scan(&count)
	return count > 0, err
}

func (r *dishRepository) Summaries(limit, offset int) ([]*model.DishSummary, error) {
	dishes := []*model.DishSummary{}
	query := `SELECT r.id, r.title, r.description, r.cooking_time, r.servings, r.ingredients, r.steps, r.user_id, r.created_at,
	                 u.last_name || ' ' || u.first_name AS author_name,
	                 COALESCE(AVG(f.rating), 0) AS avg_rating,
	                 COUNT(f.id) AS feedback_count
	          FROM recipes r
	          JOIN users u ON u.id = r.user_id
	          LEFT JOIN reviews f ON f.recipe_id = r.id
	          GROUP BY r.id, u.id
	          ORDER BY r.created_at DESC, r.id DESC
	          LIMIT $1 OFFSET $2`

	err := r.db.Select(&dishes, query, limit, offset)
	if err != nil {
		return nil, err
	}

	return dishes, nil
}

func (r *dishRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRowx(`SELECT COUNT(*) FROM recipes`).Scan(&count)
	return count, err
}

func (r *dishRepository) Update(dish *model.Dish) error {
	query := `UPDATE recipes
	          SET title = $1, description = $2, cooking_time = $3, servings = $4, ingredients = $5, steps = $6
	          WHERE id = $7`

	result, err := r.db.Exec(query,
		dish.Title,
		dish.Description,
		dish.CookingTime,
		dish.Servings,
		dish.Ingredients,
		dish.Steps,
		dish.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateTitle
		}
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrDishNotFound
	}

	return nil
}

// Delete removes the dish; images and reviews go with it through ON DELETE CASCADE.
func (r *dishRepository) Delete(id int64) error {
	result, err := r.db.Exec(`DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrDishNotFound
	}

	return nil
}
