package middleware

import (
	"net/http"
	"net/url"

	"github.com/recipebox/recipebox/internal/ctxkeys"
	"github.com/recipebox/recipebox/internal/service"
)

// LoginRequiredMessage is flashed when an anonymous visitor hits a protected page.
const LoginRequiredMessage = "Please log in to access this page."

// AuthMiddleware resolves the session cookie to a principal and stores it
// in the request context. Invalid or stale sessions are cleared.
func AuthMiddleware(authService *service.AuthService, userService *service.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(service.SessionCookieName)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := authService.UserIDFromToken(cookie.Value)
			if err != nil {
				authService.ClearSession(w)
				next.ServeHTTP(w, r)
				return
			}

			// The account may have been removed since the token was issued
			principal, err := userService.Principal(userID)
			if err != nil {
				authService.ClearSession(w)
				next.ServeHTTP(w, r)
				return
			}

			ctx := ctxkeys.WithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth sends anonymous visitors to the login page with a warning
// and remembers where they were headed.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.Principal(r.Context()) == nil {
			SetFlash(w, FlashWarning, LoginRequiredMessage)

			target := "/login"
			if r.Method == http.MethodGet && r.URL.Path != "/" {
				target += "?next=" + url.QueryEscape(r.URL.RequestURI())
			}
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	}
}

// RequireGuest keeps signed-in users away from the login and register pages.
func RequireGuest(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.Principal(r.Context()) != nil {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	}
}
