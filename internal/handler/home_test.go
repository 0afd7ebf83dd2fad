package handler_test

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/recipebox/recipebox/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, body := srv.browser(t).get("/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(body), &payload))
	assert.Equal(t, "ok", payload["status"])
}

func TestMetricsExposeRequestCounters(t *testing.T) {
	srv := newTestServer(t)

	b := srv.browser(t)
	b.get("/login")

	resp, body := b.get("/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "recipebox_http_requests_total")
	assert.Contains(t, body, `route="/login"`)
}

func TestUnknownPathIsNotFound(t *testing.T) {
	srv := newTestServer(t)

	resp, body := srv.browser(t).get("/no/such/page")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Page not found")
}

func TestPostWithoutCSRFTokenIsRejected(t *testing.T) {
	srv := newTestServer(t)
	srv.user(t, "alice", model.RoleUser)

	form := url.Values{"username": {"alice"}, "password": {"secret"}}
	resp, err := http.Post(srv.URL+"/login", "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestSecurityHeaders(t *testing.T) {
	srv := newTestServer(t)

	resp, body := srv.browser(t).get("/login")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	csp := resp.Header.Get("Content-Security-Policy")
	assert.Contains(t, csp, "default-src 'self'")
	assert.Contains(t, csp, "'nonce-")
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Contains(t, body, `<script nonce="`)
}
