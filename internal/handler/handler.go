package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/recipebox/recipebox/internal/ctxkeys"
	"github.com/recipebox/recipebox/internal/middleware"
	"github.com/recipebox/recipebox/internal/ui"
)

const genericFailure = "Something went wrong while saving your changes. Please try again."

// pathID parses the {id} wildcard; anything but a positive integer is a 404.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// flashNow adds a message to the page rendered by this very request.
func flashNow(r *http.Request, category, message string) *http.Request {
	flashes := append(ctxkeys.Flashes(r.Context()), ctxkeys.Flash{Category: category, Message: message})
	return r.WithContext(ctxkeys.WithFlashes(r.Context(), flashes))
}

func redirectWithFlash(w http.ResponseWriter, r *http.Request, target, category, message string) {
	middleware.SetFlash(w, category, message)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	ui.RenderStatus(w, r, http.StatusNotFound, ui.NotFoundPage())
}

func serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	slog.Error(msg, "error", err, "path", r.URL.Path)
	ui.RenderStatus(w, r, http.StatusInternalServerError, ui.ErrorPage("Please try again later."))
}

// safeRedirect only follows local paths.
func safeRedirect(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return "/"
	}
	return target
}

func checkbox(r *http.Request, name string) bool {
	switch strings.ToLower(r.FormValue(name)) {
	case "on", "true", "1", "y", "yes":
		return true
	}
	return false
}
