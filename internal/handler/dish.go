package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/recipebox/recipebox/internal/ctxkeys"
	"github.com/recipebox/recipebox/internal/middleware"
	"github.com/recipebox/recipebox/internal/repository"
	"github.com/recipebox/recipebox/internal/service"
	"github.com/recipebox/recipebox/internal/ui"
	"github.com/recipebox/recipebox/internal/validation"
)

const (
	msgTitleTaken = "A dish with this title already exists."
	msgNoRights   = "You do not have permission to change this dish."
)

type DishHandler struct {
	dishService     *service.DishService
	feedbackService *service.FeedbackService
}

func NewDishHandler(dishService *service.DishService, feedbackService *service.FeedbackService) *DishHandler {
	return &DishHandler{
		dishService:     dishService,
		feedbackService: feedbackService,
	}
}

func (h *DishHandler) Index(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		page = 1
	}

	dishes, err := h.dishService.List(page)
	if err != nil {
		serverError(w, r, "failed to list dishes", err)
		return
	}

	ui.Render(w, r, ui.IndexPage(dishes))
}

func (h *DishHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		notFound(w, r)
		return
	}
	principal := ctxkeys.Principal(r.Context())

	detail, err := h.dishService.Detail(id)
	if errors.Is(err, repository.ErrDishNotFound) {
		notFound(w, r)
		return
	}
	if err != nil {
		serverError(w, r, "failed to load dish", err)
		return
	}

	reviewed, err := h.feedbackService.HasReviewed(principal, id)
	if err != nil {
		slog.Warn("failed to check review state", "error", err, "dish_id", id)
	}

	ui.Render(w, r, ui.DishPage(ui.DishView{
		Detail:      detail,
		CanModify:   principal.CanModify(detail.Dish),
		HasReviewed: reviewed,
	}))
}

func (h *DishHandler) CreatePage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, ui.DishFormPage(createForm(validation.DishInput{}, nil)))
}

func (h *DishHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal := ctxkeys.Principal(r.Context())
	input := dishInput(r)

	fields, err := validation.ParseDish(input)
	if err != nil {
		h.renderForm(w, r, createForm(input, nil), err)
		return
	}

	dish, err := h.dishService.Create(principal, fields, photoUploads(r))
	if err != nil {
		h.renderForm(w, r, createForm(input, nil), err)
		return
	}

	redirectWithFlash(w, r, "/", middleware.FlashSuccess, fmt.Sprintf("Dish %q added!", dish.Title))
}

func (h *DishHandler) EditPage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		notFound(w, r)
		return
	}

	dish, err := h.dishService.ByID(id)
	if errors.Is(err, repository.ErrDishNotFound) {
		notFound(w, r)
		return
	}
	if err != nil {
		serverError(w, r, "failed to load dish", err)
		return
	}

	if !ctxkeys.Principal(r.Context()).CanModify(dish) {
		redirectWithFlash(w, r, "/", middleware.FlashWarning, msgNoRights)
		return
	}

	ui.Render(w, r, ui.DishFormPage(editForm(id, ui.DishFormFor(dish), nil)))
}

func (h *DishHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		notFound(w, r)
		return
	}
	principal := ctxkeys.Principal(r.Context())

	dish, err := h.dishService.ByID(id)
	if errors.Is(err, repository.ErrDishNotFound) {
		notFound(w, r)
		return
	}
	if err != nil {
		serverError(w, r, "failed to load dish", err)
		return
	}
	if !principal.CanModify(dish) {
		redirectWithFlash(w, r, "/", middleware.FlashWarning, msgNoRights)
		return
	}

	input := dishInput(r)
	fields, err := validation.ParseDish(input)
	if err != nil {
		h.renderForm(w, r, editForm(id, input, nil), err)
		return
	}

	dish, err = h.dishService.Update(principal, id, fields)
	if errors.Is(err, repository.ErrDishNotFound) {
		notFound(w, r)
		return
	}
	if errors.Is(err, service.ErrForbidden) {
		redirectWithFlash(w, r, "/", middleware.FlashWarning, msgNoRights)
		return
	}
	if err != nil {
		h.renderForm(w, r, editForm(id, input, nil), err)
		return
	}

	target := fmt.Sprintf("/dish/%d", dish.ID)

	_, err = h.dishService.AttachPhotos(principal, dish.ID, photoUploads(r))
	if err != nil {
		var errs validation.Errors
		if !errors.As(err, &errs) {
			slog.Error("failed to attach photos", "error", err, "dish_id", dish.ID)
		}
		redirectWithFlash(w, r, target, middleware.FlashWarning, "Dish updated, but the new photos could not be saved.")
		return
	}

	redirectWithFlash(w, r, target, middleware.FlashSuccess, "Dish updated!")
}

func (h *DishHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		notFound(w, r)
		return
	}

	err := h.dishService.Delete(ctxkeys.Principal(r.Context()), id)
	switch {
	case err == nil:
		redirectWithFlash(w, r, "/", middleware.FlashSuccess, "Dish deleted.")
	case errors.Is(err, repository.ErrDishNotFound):
		notFound(w, r)
	case errors.Is(err, service.ErrForbidden):
		redirectWithFlash(w, r, "/", middleware.FlashWarning, msgNoRights)
	default:
		slog.Error("failed to delete dish", "error", err, "dish_id", id)
		redirectWithFlash(w, r, "/", middleware.FlashDanger, "Failed to delete the dish.")
	}
}

// renderForm re-renders the dish form for a failed submission.
func (h *DishHandler) renderForm(w http.ResponseWriter, r *http.Request, form ui.DishForm, err error) {
	var errs validation.Errors
	switch {
	case errors.As(err, &errs):
		form.Errors = errs
		ui.RenderStatus(w, r, http.StatusUnprocessableEntity, ui.DishFormPage(form))
	case errors.Is(err, service.ErrTitleTaken):
		form.Errors = validation.Errors{"title": msgTitleTaken}
		r = flashNow(r, middleware.FlashWarning, msgTitleTaken)
		ui.RenderStatus(w, r, http.StatusConflict, ui.DishFormPage(form))
	default:
		slog.Error("failed to save dish", "error", err, "path", r.URL.Path)
		r = flashNow(r, middleware.FlashDanger, genericFailure)
		ui.RenderStatus(w, r, http.StatusInternalServerError, ui.DishFormPage(form))
	}
}

func createForm(input validation.DishInput, errs validation.Errors) ui.DishForm {
	return ui.DishForm{
		Heading: "Add a dish",
		Action:  "/create-dish",
		Input:   input,
		Errors:  errs,
	}
}

func editForm(id int64, input validation.DishInput, errs validation.Errors) ui.DishForm {
	return ui.DishForm{
		Heading: "Edit dish",
		Action:  fmt.Sprintf("/edit-dish/%d", id),
		Editing: true,
		DishID:  id,
		Input:   input,
		Errors:  errs,
	}
}

func dishInput(r *http.Request) validation.DishInput {
	return validation.DishInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		CookingTime: r.FormValue("cooking_time"),
		Servings:    r.FormValue("servings"),
		Ingredients: r.FormValue("ingredients"),
		Steps:       r.FormValue("steps"),
	}
}

func photoUploads(r *http.Request) []*multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	return service.Uploads(r.MultipartForm.File["photos"])
}
