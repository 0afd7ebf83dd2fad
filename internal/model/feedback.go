package model

import (
	"time"
)

const (
	RatingMin = 0
	RatingMax = 5
)

// RatingLabels maps each allowed score to its label, best first.
var RatingLabels = []RatingOption{
	{Value: 5, Label: "отлично"},
	{Value: 4, Label: "хорошо"},
	{Value: 3, Label: "удовлетворительно"},
	{Value: 2, Label: "неудовлетворительно"},
	{Value: 1, Label: "плохо"},
	{Value: 0, Label: "ужасно"},
}

type RatingOption struct {
	Value int
	Label string
}

func RatingLabel(rating int) string {
	for _, o := range RatingLabels {
		if o.Value == rating {
			return o.Label
		}
	}
	return ""
}

type Feedback struct {
	ID        int64     `db:"id"`
	DishID    int64     `db:"recipe_id"`
	UserID    int64     `db:"user_id"`
	Rating    int       `db:"rating"`
	Comment   string    `db:"comment"`
	CreatedAt time.Time `db:"created_at"`
}

// FeedbackEntry is a review joined with its author for display.
type FeedbackEntry struct {
	Feedback
	AuthorName string `db:"author_name"`
}

func (f *Feedback) RatingLabel() string {
	return RatingLabel(f.Rating)
}
