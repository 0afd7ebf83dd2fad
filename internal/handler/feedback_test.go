package handler_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/recipebox/recipebox/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddFeedbackOncePerDish(t *testing.T) {
	srv := newTestServer(t)
	srv.user(t, "alice", model.RoleUser)
	srv.user(t, "bob", model.RoleUser)

	alice := srv.browser(t)
	alice.login("alice")
	alice.postMultipart("/create-dish", dishForm("Soup"), nil)
	id := srv.dishID(t, "Soup")

	bob := srv.browser(t)
	bob.login("bob")

	resp, body := bob.get(dishPath("/dish/{id}/add-feedback", id))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "отлично")
	assert.Contains(t, body, "ужасно")

	resp, body = bob.post(dishPath("/dish/{id}/add-feedback", id), url.Values{
		"rating":  {"4"},
		"comment": {"Very *tasty*<script>alert(1)</script>"},
	})
	assert.Equal(t, dishPath("/dish/{id}", id), resp.Request.URL.Path)
	assert.Contains(t, body, "Review added!")
	assert.Contains(t, body, "хорошо")
	assert.Contains(t, body, "<em>tasty</em>")
	assert.NotContains(t, body, "alert(1)")
	assert.Contains(t, body, "You have reviewed this dish.")

	resp, body = bob.get(dishPath("/dish/{id}/add-feedback", id))
	assert.Equal(t, dishPath("/dish/{id}", id), resp.Request.URL.Path)
	assert.Contains(t, body, "You have already reviewed this dish.")

	resp, _ = bob.post(dishPath("/dish/{id}/add-feedback", id), url.Values{"rating": {"1"}, "comment": {"again"}})
	assert.Equal(t, dishPath("/dish/{id}", id), resp.Request.URL.Path)

	var count int
	require.NoError(t, srv.app.DB.Get(&count, `SELECT COUNT(*) FROM reviews WHERE recipe_id = $1`, id))
	assert.Equal(t, 1, count)

	_, body = alice.get("/")
	assert.Contains(t, body, "<td>4.0</td>")
}

func TestAddFeedbackValidation(t *testing.T) {
	srv := newTestServer(t)
	srv.user(t, "alice", model.RoleUser)

	b := srv.browser(t)
	b.login("alice")
	b.postMultipart("/create-dish", dishForm("Soup"), nil)
	id := srv.dishID(t, "Soup")

	cases := []url.Values{
		{"rating": {"6"}, "comment": {"ok"}},
		{"rating": {"x"}, "comment": {"ok"}},
		{"rating": {"3"}, "comment": {"   "}},
		{"rating": {"3"}, "comment": {"<script>x</script>"}},
	}
	for _, form := range cases {
		resp, body := b.post(dishPath("/dish/{id}/add-feedback", id), form)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, form.Encode())
		assert.Contains(t, body, "field-error", form.Encode())
	}

	resp, _ := b.post(dishPath("/dish/{id}/add-feedback", id), url.Values{"rating": {"0"}, "comment": {"burnt"}})
	assert.Equal(t, dishPath("/dish/{id}", id), resp.Request.URL.Path, "zero is a valid rating")
}
