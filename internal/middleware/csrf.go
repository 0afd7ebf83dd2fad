package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/recipebox/recipebox/internal/ctxkeys"
)

const (
	csrfCookieName = "csrf_token"
	csrfFormField  = "csrf_token"
	csrfHeader     = "X-CSRF-Token"
	csrfTokenLen   = 32
	csrfCookieTTL  = 7 * 24 * time.Hour
)

// CSRFProtection issues a per-browser token cookie (double submit) and
// requires every unsafe request to echo it in the form or a header.
func CSRFProtection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := csrfCookie(w, r)
		r = r.WithContext(ctxkeys.WithCSRFToken(r.Context(), token))

		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes(r))
		submitted, err := submittedCSRFToken(r)
		if err != nil {
			slog.Warn("failed to parse form", "path", r.URL.Path, "error", err)
			http.Error(w, "Request too large", http.StatusRequestEntityTooLarge)
			return
		}

		if submitted == "" || subtle.ConstantTimeCompare([]byte(token), []byte(submitted)) != 1 {
			slog.Warn("csrf validation failed", "path", r.URL.Path, "method", r.Method, "ip", getClientIP(r))
			http.Error(w, "Invalid CSRF token", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// submittedCSRFToken reads the token from the header or the form body.
// Multipart bodies are parsed here so that dish forms carrying photos keep
// their files available to the handler.
func submittedCSRFToken(r *http.Request) (string, error) {
	if token := r.Header.Get(csrfHeader); token != "" {
		return token, nil
	}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err := r.ParseMultipartForm(32 << 20)
		if err != nil {
			return "", err
		}
		return r.FormValue(csrfFormField), nil
	}

	return r.PostFormValue(csrfFormField), nil
}

// maxUploadBytes caps a request body at ten photos plus the form fields.
func maxUploadBytes(r *http.Request) int64 {
	perFile := int64(5 << 20)
	if cfg := ctxkeys.Config(r.Context()); cfg != nil && cfg.UploadMaxSize > 0 {
		perFile = cfg.UploadMaxSize
	}
	return perFile*10 + 1<<20
}

// csrfCookie returns the browser's token, minting one when the cookie is
// missing or malformed.
func csrfCookie(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(csrfCookieName); err == nil && len(c.Value) == base64.RawURLEncoding.EncodedLen(csrfTokenLen) {
		return c.Value
	}

	raw := make([]byte, csrfTokenLen)
	if _, err := rand.Read(raw); err != nil {
		panic("csrf: random source failed: " + err.Error())
	}
	token := base64.RawURLEncoding.EncodeToString(raw)

	cfg := ctxkeys.Config(r.Context())
	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg != nil && cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(csrfCookieTTL.Seconds()),
	})
	return token
}
