package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/recipebox/recipebox/internal/markdown"
	"github.com/recipebox/recipebox/internal/model"
)

// ImportService creates dishes from markdown files. The front matter
// carries the structured fields and the body becomes the description:
//
//	---
//	title: Pelmeni
//	cooking_time: 40
//	servings: 4
//	ingredients: [flour, water, meat]
//	steps:
//	  - Make the dough
//	  - Fill and boil
//	---
//	Siberian dumplings.
type ImportService struct {
	parser      *markdown.Parser
	dishService *DishService
}

func NewImportService(dishService *DishService) *ImportService {
	return &ImportService{
		parser:      markdown.NewParser(),
		dishService: dishService,
	}
}

// ParseDish reads dish fields from a markdown document.
func (s *ImportService) ParseDish(source []byte) (model.DishFields, error) {
	_, meta, err := s.parser.ParseWithFrontmatter(source)
	if err != nil {
		return model.DishFields{}, fmt.Errorf("failed to parse markdown: %w", err)
	}

	fields := model.DishFields{
		Description: strings.TrimSpace(markdown.Body(source)),
	}

	title, ok := meta["title"].(string)
	if ok {
		fields.Title = title
	}

	fields.CookingTime = metaInt(meta["cooking_time"])
	fields.Servings = metaInt(meta["servings"])
	fields.Ingredients = metaList(meta["ingredients"], func(int) string { return "- " })
	fields.Steps = metaList(meta["steps"], func(i int) string { return strconv.Itoa(i+1) + ". " })

	return fields, nil
}

// Import parses the document and creates the dish on behalf of principal.
func (s *ImportService) Import(principal *model.Principal, source []byte) (*model.Dish, error) {
	fields, err := s.ParseDish(source)
	if err != nil {
		return nil, err
	}
	return s.dishService.Create(principal, fields, nil)
}

func metaInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case uint64:
		return int(n)
	case float64:
		return int(n)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err == nil {
			return i
		}
	}
	return 0
}

// metaList renders a YAML list as a markdown list; plain strings pass through.
func metaList(v any, marker func(i int) string) string {
	switch items := v.(type) {
	case string:
		return items
	case []any:
		lines := make([]string, 0, len(items))
		for i, item := range items {
			lines = append(lines, marker(i)+fmt.Sprint(item))
		}
		return strings.Join(lines, "\n")
	}
	return ""
}
