package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/recipebox/recipebox/internal/ctxkeys"
	"github.com/recipebox/recipebox/internal/middleware"
	"github.com/recipebox/recipebox/internal/model"
	"github.com/recipebox/recipebox/internal/repository"
	"github.com/recipebox/recipebox/internal/service"
	"github.com/recipebox/recipebox/internal/ui"
	"github.com/recipebox/recipebox/internal/validation"
)

const msgAlreadyReviewed = "You have already reviewed this dish."

type FeedbackHandler struct {
	dishService     *service.DishService
	feedbackService *service.FeedbackService
}

func NewFeedbackHandler(dishService *service.DishService, feedbackService *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{
		dishService:     dishService,
		feedbackService: feedbackService,
	}
}

// loadDish resolves the dish and turns away principals who already reviewed it.
func (h *FeedbackHandler) loadDish(w http.ResponseWriter, r *http.Request) (*model.Dish, bool) {
	id, ok := pathID(r)
	if !ok {
		notFound(w, r)
		return nil, false
	}

	dish, err := h.dishService.ByID(id)
	if errors.Is(err, repository.ErrDishNotFound) {
		notFound(w, r)
		return nil, false
	}
	if err != nil {
		serverError(w, r, "failed to load dish", err)
		return nil, false
	}

	reviewed, err := h.feedbackService.HasReviewed(ctxkeys.Principal(r.Context()), id)
	if err != nil {
		serverError(w, r, "failed to check feedback", err)
		return nil, false
	}
	if reviewed {
		redirectWithFlash(w, r, fmt.Sprintf("/dish/%d", id), middleware.FlashWarning, msgAlreadyReviewed)
		return nil, false
	}

	return dish, true
}

func (h *FeedbackHandler) Page(w http.ResponseWriter, r *http.Request) {
	dish, ok := h.loadDish(w, r)
	if !ok {
		return
	}

	ui.Render(w, r, ui.FeedbackPage(ui.FeedbackForm{Dish: dish, Rating: model.RatingMax}))
}

func (h *FeedbackHandler) Add(w http.ResponseWriter, r *http.Request) {
	dish, ok := h.loadDish(w, r)
	if !ok {
		return
	}

	form := ui.FeedbackForm{
		Dish:    dish,
		Rating:  model.RatingMax,
		Comment: r.FormValue("comment"),
	}
	errs := validation.Errors{}

	rating, ok := validation.ParseRating(r.FormValue("rating"))
	if ok {
		form.Rating = rating
	} else {
		errs.Add("rating", "Choose a rating")
	}
	if strings.TrimSpace(form.Comment) == "" {
		errs.Add("comment", "Comment is required")
	}
	if len(errs) > 0 {
		form.Errors = errs
		ui.RenderStatus(w, r, http.StatusUnprocessableEntity, ui.FeedbackPage(form))
		return
	}

	target := fmt.Sprintf("/dish/%d", dish.ID)
	_, err := h.feedbackService.Add(ctxkeys.Principal(r.Context()), dish.ID, rating, form.Comment)
	switch {
	case err == nil:
		redirectWithFlash(w, r, target, middleware.FlashSuccess, "Review added!")
	case errors.Is(err, service.ErrAlreadyReviewed):
		redirectWithFlash(w, r, target, middleware.FlashWarning, msgAlreadyReviewed)
	case errors.Is(err, repository.ErrDishNotFound):
		notFound(w, r)
	case errors.As(err, &errs):
		form.Errors = errs
		ui.RenderStatus(w, r, http.StatusUnprocessableEntity, ui.FeedbackPage(form))
	default:
		slog.Error("failed to add feedback", "error", err, "dish_id", dish.ID)
		r = flashNow(r, middleware.FlashDanger, genericFailure)
		ui.RenderStatus(w, r, http.StatusInternalServerError, ui.FeedbackPage(form))
	}
}
