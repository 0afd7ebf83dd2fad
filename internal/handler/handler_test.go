package handler_test

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/recipebox/recipebox/internal/app"
	"github.com/recipebox/recipebox/internal/config"
	"github.com/recipebox/recipebox/internal/routes"
	"github.com/recipebox/recipebox/internal/storage"
	"github.com/recipebox/recipebox/internal/testutil"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	*httptest.Server
	app *app.App
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		AppName:          "Recipebox",
		AppEnv:           "development",
		SessionSecret:    "test-secret",
		SessionExpiry:    time.Hour,
		RememberMeExpiry: 24 * time.Hour,
		StorageDriver:    config.StorageDriverLocal,
		UploadMaxSize:    1 << 20,
		MetricsEnabled:   true,
	}

	store, err := storage.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	a := app.Wire(cfg, testutil.SetupDB(t), store)
	srv := httptest.NewServer(routes.SetupRoutes(a))
	t.Cleanup(srv.Close)

	return &testServer{Server: srv, app: a}
}

// user creates an account directly in the database.
func (s *testServer) user(t *testing.T, username, roleName string) {
	t.Helper()
	testutil.CreateUser(t, s.app.DB, username, "secret", roleName)
}

func (s *testServer) dishID(t *testing.T, title string) int64 {
	t.Helper()
	var id int64
	require.NoError(t, s.app.DB.Get(&id, `SELECT id FROM recipes WHERE title = $1`, title))
	return id
}

// browser is a cookie-carrying client that follows redirects.
type browser struct {
	t      *testing.T
	srv    *testServer
	client *http.Client
}

func (s *testServer) browser(t *testing.T) *browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{t: t, srv: s, client: &http.Client{Jar: jar}}
}

// noRedirects makes the browser stop at the first response.
func (b *browser) noRedirects() *browser {
	b.client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return b
}

func (b *browser) do(req *http.Request) (*http.Response, string) {
	b.t.Helper()
	resp, err := b.client.Do(req)
	require.NoError(b.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	return resp, string(body)
}

func (b *browser) get(path string) (*http.Response, string) {
	b.t.Helper()
	req, err := http.NewRequest(http.MethodGet, b.srv.URL+path, nil)
	require.NoError(b.t, err)
	return b.do(req)
}

// csrfToken returns the token cookie, fetching a page first if needed.
func (b *browser) csrfToken() string {
	b.t.Helper()
	base, err := url.Parse(b.srv.URL)
	require.NoError(b.t, err)

	for i := 0; i < 2; i++ {
		for _, c := range b.client.Jar.Cookies(base) {
			if c.Name == "csrf_token" {
				return c.Value
			}
		}
		b.get("/healthz")
	}
	b.t.Fatal("no csrf cookie")
	return ""
}

func (b *browser) post(path string, form url.Values) (*http.Response, string) {
	b.t.Helper()
	if form == nil {
		form = url.Values{}
	}
	form.Set("csrf_token", b.csrfToken())

	req, err := http.NewRequest(http.MethodPost, b.srv.URL+path, strings.NewReader(form.Encode()))
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) postMultipart(path string, fields map[string]string, files map[string][]byte) (*http.Response, string) {
	b.t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(b.t, w.WriteField("csrf_token", b.csrfToken()))
	for k, v := range fields {
		require.NoError(b.t, w.WriteField(k, v))
	}
	for name, content := range files {
		part, err := w.CreateFormFile("photos", name)
		require.NoError(b.t, err)
		_, err = part.Write(content)
		require.NoError(b.t, err)
	}
	require.NoError(b.t, w.Close())

	req, err := http.NewRequest(http.MethodPost, b.srv.URL+path, &body)
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return b.do(req)
}

func (b *browser) login(username string) {
	b.t.Helper()
	resp, _ := b.post("/login", url.Values{"username": {username}, "password": {"secret"}})
	require.Equal(b.t, http.StatusOK, resp.StatusCode)
	require.Equal(b.t, "/", resp.Request.URL.Path)
}

func dishForm(title string) map[string]string {
	return map[string]string{
		"title":        title,
		"description":  "A **warm** soup",
		"cooking_time": "20",
		"servings":     "2",
		"ingredients":  "- water\n- salt",
		"steps":        "1. Boil",
	}
}

func dishPath(format string, id int64) string {
	return strings.Replace(format, "{id}", strconv.FormatInt(id, 10), 1)
}

var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}
