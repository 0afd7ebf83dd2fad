package middleware

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/recipebox/recipebox/internal/config"
	"github.com/recipebox/recipebox/internal/ctxkeys"
)

// nonceKey keeps our own copy of the nonce so SecurityHeaders can read it;
// templates read it through templ.GetNonce.
type nonceKey struct{}

// NonceMiddleware attaches a fresh CSP nonce to every request.
func NonceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nonce, err := generateNonce()
		if err != nil {
			slog.Error("failed to generate csp nonce", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		ctx := templ.WithNonce(r.Context(), nonce)
		ctx = context.WithValue(ctx, nonceKey{}, nonce)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetNonce(ctx context.Context) string {
	nonce, _ := ctx.Value(nonceKey{}).(string)
	return nonce
}

func generateNonce() (string, error) {
	b := make([]byte, 16)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// SecurityHeaders sets the CSP and the usual hardening headers. Photos may
// come from the S3 bucket, so its origin joins img-src.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

		scriptSrc := "'self'"
		if nonce := GetNonce(r.Context()); nonce != "" {
			scriptSrc += fmt.Sprintf(" 'nonce-%s'", nonce)
		}

		imgSrc := "'self' data:"
		if origin := photoOrigin(ctxkeys.Config(r.Context())); origin != "" {
			imgSrc += " " + origin
		}

		h.Set("Content-Security-Policy", strings.Join([]string{
			"default-src 'self'",
			"script-src " + scriptSrc,
			"style-src 'self' 'unsafe-inline'",
			"img-src " + imgSrc,
			"form-action 'self'",
			"frame-ancestors 'none'",
			"base-uri 'self'",
		}, "; "))

		cfg := ctxkeys.Config(r.Context())
		if cfg != nil && cfg.IsProduction() {
			h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		}

		next.ServeHTTP(w, r)
	})
}

func photoOrigin(cfg *config.Config) string {
	if cfg == nil || cfg.StorageDriver != config.StorageDriverS3 {
		return ""
	}
	if cfg.S3Endpoint != "" {
		return strings.TrimSuffix(cfg.S3Endpoint, "/")
	}
	if cfg.S3Bucket != "" && cfg.S3Region != "" {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.S3Region)
	}
	return ""
}
