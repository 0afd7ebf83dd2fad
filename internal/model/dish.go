package model

import (
	"time"
)

const DishPageSize = 10

type Dish struct {
	ID          int64     `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	CookingTime int       `db:"cooking_time"`
	Servings    int       `db:"servings"`
	Ingredients string    `db:"ingredients"`
	Steps       string    `db:"steps"`
	UserID      int64     `db:"user_id"`
	CreatedAt   time.Time `db:"created_at"`
}

// DishFields holds the editable attributes of a dish.
type DishFields struct {
	Title       string
	Description string
	CookingTime int
	Servings    int
	Ingredients string
	Steps       string
}

func (d *Dish) Fields() DishFields {
	return DishFields{
		Title:       d.Title,
		Description: d.Description,
		CookingTime: d.CookingTime,
		Servings:    d.Servings,
		Ingredients: d.Ingredients,
		Steps:       d.Steps,
	}
}

func (d *Dish) Apply(f DishFields) {
	d.Title = f.Title
	d.Description = f.Description
	d.CookingTime = f.CookingTime
	d.Servings = f.Servings
	d.Ingredients = f.Ingredients
	d.Steps = f.Steps
}

// DishSummary is a listing row annotated with review aggregates.
type DishSummary struct {
	Dish
	AuthorName    string  `db:"author_name"`
	AvgRating     float64 `db:"avg_rating"`
	FeedbackCount int     `db:"feedback_count"`
}

// DishDetail bundles everything the dish page shows.
type DishDetail struct {
	Dish       *Dish
	AuthorName string
	Photos     []*Photo
	Feedback   []*FeedbackEntry
}

type Page[T any] struct {
	Items    []T
	Page     int
	PageSize int
	Total    int
}

func (p Page[T]) Pages() int {
	if p.PageSize <= 0 || p.Total == 0 {
		return 0
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}

func (p Page[T]) HasPrev() bool {
	return p.Page > 1
}

func (p Page[T]) HasNext() bool {
	return p.Page < p.Pages()
}

func (p Page[T]) PrevPage() int {
	return p.Page - 1
}

func (p Page[T]) NextPage() int {
	return p.Page + 1
}
