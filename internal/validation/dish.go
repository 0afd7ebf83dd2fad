package validation

import (
	"strconv"
	"strings"

	"github.com/recipebox/recipebox/internal/model"
	"golang.org/x/text/unicode/norm"
)

// NormalizeTitle trims surrounding space and converts to NFC so that
// visually identical titles compare equal.
func NormalizeTitle(title string) string {
	return norm.NFC.String(strings.TrimSpace(title))
}

// DishInput is the raw form submission for a dish.
type DishInput struct {
	Title       string
	Description string
	CookingTime string
	Servings    string
	Ingredients string
	Steps       string
}

// ParseDish validates a submission and converts it to dish fields.
func ParseDish(in DishInput) (model.DishFields, error) {
	errs := Errors{}
	fields := model.DishFields{
		Title:       NormalizeTitle(in.Title),
		Description: strings.TrimSpace(in.Description),
		Ingredients: strings.TrimSpace(in.Ingredients),
		Steps:       strings.TrimSpace(in.Steps),
	}

	if fields.Title == "" {
		errs.Add("title", "Title is required")
	} else if len(fields.Title) > 255 {
		errs.Add("title", "Title is too long (max 255 characters)")
	}
	if fields.Description == "" {
		errs.Add("description", "Description is required")
	}
	if fields.Ingredients == "" {
		errs.Add("ingredients", "Ingredients are required")
	}
	if fields.Steps == "" {
		errs.Add("steps", "Steps are required")
	}

	n, ok := positiveInt(in.CookingTime)
	if !ok {
		errs.Add("cooking_time", "Cooking time must be a positive whole number of minutes")
	}
	fields.CookingTime = n

	n, ok = positiveInt(in.Servings)
	if !ok {
		errs.Add("servings", "Servings must be a positive whole number")
	}
	fields.Servings = n

	return fields, errs.Err()
}

// ValidateDishFields checks fields that did not come from a form.
func ValidateDishFields(f model.DishFields) error {
	_, err := ParseDish(DishInput{
		Title:       f.Title,
		Description: f.Description,
		CookingTime: strconv.Itoa(f.CookingTime),
		Servings:    strconv.Itoa(f.Servings),
		Ingredients: f.Ingredients,
		Steps:       f.Steps,
	})
	return err
}

func positiveInt(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// ParseRating accepts only the enumerated scores.
func ParseRating(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < model.RatingMin || n > model.RatingMax {
		return 0, false
	}
	return n, true
}
