// Package ui renders the HTML pages. Pages are html/template files wrapped
// as templ components so that handlers only deal with templ.Component.
package ui

import (
	"context"
	"embed"
	"html"
	"html/template"
	"io"
	"strconv"
	"sync"

	"github.com/a-h/templ"
	"github.com/recipebox/recipebox/internal/ctxkeys"
	"github.com/recipebox/recipebox/internal/markdown"
	"github.com/recipebox/recipebox/internal/model"
	"github.com/recipebox/recipebox/internal/validation"
)

//go:embed templates/*.html
var templatesFS embed.FS

var (
	parser   = markdown.NewParser()
	cacheMu  sync.Mutex
	compiled = map[string]*template.Template{}
)

var funcs = template.FuncMap{
	"markdown":      parser.Render,
	"ratingOptions": func() []model.RatingOption { return model.RatingLabels },
}

func pageTemplate(name string) (*template.Template, error) {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	if t, ok := compiled[name]; ok {
		return t, nil
	}
	t, err := template.New("layout.html").Funcs(funcs).ParseFS(templatesFS, "templates/layout.html", "templates/"+name)
	if err != nil {
		return nil, err
	}
	compiled[name] = t
	return t, nil
}

// pageData is what every template sees; Page holds the page specific part.
type pageData struct {
	AppName   string
	Path      string
	Principal *model.Principal
	Flashes   []ctxkeys.Flash
	CSRFToken string
	Nonce     string
	Page      any
}

func page(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		t, err := pageTemplate(name)
		if err != nil {
			return err
		}

		pd := pageData{
			AppName:   "Recipebox",
			Path:      ctxkeys.URLPath(ctx),
			Principal: ctxkeys.Principal(ctx),
			Flashes:   ctxkeys.Flashes(ctx),
			CSRFToken: ctxkeys.CSRFToken(ctx),
			Nonce:     templ.GetNonce(ctx),
			Page:      data,
		}
		if cfg := ctxkeys.Config(ctx); cfg != nil && cfg.AppName != "" {
			pd.AppName = cfg.AppName
		}

		return templ.FromGoHTML(t, pd).Render(ctx, w)
	})
}

func IndexPage(dishes *model.Page[*model.DishSummary]) templ.Component {
	return page("index.html", dishes)
}

// DishForm backs both the create and the edit form.
type DishForm struct {
	Heading string
	Action  string
	Editing bool
	DishID  int64
	Input   validation.DishInput
	Errors  validation.Errors
}

// DishFormFor prefills the edit form from a stored dish. Text fields are
// decoded so entities left by sanitizing show up as the characters the
// author typed.
func DishFormFor(dish *model.Dish) validation.DishInput {
	return validation.DishInput{
		Title:       html.UnescapeString(dish.Title),
		Description: html.UnescapeString(dish.Description),
		CookingTime: strconv.Itoa(dish.CookingTime),
		Servings:    strconv.Itoa(dish.Servings),
		Ingredients: html.UnescapeString(dish.Ingredients),
		Steps:       html.UnescapeString(dish.Steps),
	}
}

func DishFormPage(form DishForm) templ.Component {
	return page("dish_form.html", form)
}

type DishView struct {
	Detail      *model.DishDetail
	CanModify   bool
	HasReviewed bool
}

func DishPage(view DishView) templ.Component {
	return page("dish.html", view)
}

type FeedbackForm struct {
	Dish    *model.Dish
	Rating  int
	Comment string
	Errors  validation.Errors
}

func FeedbackPage(form FeedbackForm) templ.Component {
	return page("feedback_form.html", form)
}

type LoginForm struct {
	Username string
	Next     string
	Error    string
}

func LoginPage(form LoginForm) templ.Component {
	return page("login.html", form)
}

type RegisterForm struct {
	Username   string
	LastName   string
	FirstName  string
	MiddleName string
	RoleID     int64
	Roles      []*model.Role
	Errors     validation.Errors
}

func RegisterPage(form RegisterForm) templ.Component {
	return page("register.html", form)
}

func NotFoundPage() templ.Component {
	return page("not_found.html", nil)
}

func ErrorPage(message string) templ.Component {
	return page("error.html", message)
}
