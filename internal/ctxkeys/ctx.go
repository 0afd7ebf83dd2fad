package ctxkeys

import (
	"context"

	"github.com/recipebox/recipebox/internal/config"
	"github.com/recipebox/recipebox/internal/model"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	PrincipalKey contextKey = "principal"
	FlashKey     contextKey = "flash"
	URLPathKey   contextKey = "url_path"
	ConfigKey    contextKey = "config"
	CSRFTokenKey contextKey = "csrf_token"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string
	Message  string
}

// Principal returns the signed-in account, or nil for anonymous requests.
func Principal(ctx context.Context) *model.Principal {
	p, _ := ctx.Value(PrincipalKey).(*model.Principal)
	return p
}

func WithPrincipal(ctx context.Context, p *model.Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}

func Flashes(ctx context.Context) []Flash {
	flashes, _ := ctx.Value(FlashKey).([]Flash)
	return flashes
}

func WithFlashes(ctx context.Context, flashes []Flash) context.Context {
	return context.WithValue(ctx, FlashKey, flashes)
}

func URLPath(ctx context.Context) string {
	path, _ := ctx.Value(URLPathKey).(string)
	return path
}

func WithURLPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, URLPathKey, path)
}

func Config(ctx context.Context) *config.Config {
	cfg, _ := ctx.Value(ConfigKey).(*config.Config)
	return cfg
}

func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, ConfigKey, cfg)
}

func CSRFToken(ctx context.Context) string {
	token, _ := ctx.Value(CSRFTokenKey).(string)
	return token
}

func WithCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, CSRFTokenKey, token)
}
