package middleware

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/recipebox/recipebox/internal/ctxkeys"
)

const flashCookieName = "flash"

// Flash categories understood by the layout.
const (
	FlashSuccess = "success"
	FlashWarning = "warning"
	FlashDanger  = "danger"
)

// SetFlash queues a message for the next page the browser renders.
func SetFlash(w http.ResponseWriter, category, message string) {
	payload, err := json.Marshal(ctxkeys.Flash{Category: category, Message: message})
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(payload),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Flash moves a pending flash message from its cookie into the request
// context and expires the cookie. Only page loads consume it.
func Flash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || isQuietPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie(flashCookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     flashCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		var flash ctxkeys.Flash
		raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
		if err != nil || json.Unmarshal(raw, &flash) != nil || flash.Message == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := ctxkeys.WithFlashes(r.Context(), []ctxkeys.Flash{flash})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
