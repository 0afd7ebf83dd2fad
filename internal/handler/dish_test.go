package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/recipebox/recipebox/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDishWithPhoto(t *testing.T) {
	srv := newTestServer(t)
	srv.user(t, "alice", model.RoleUser)

	b := srv.browser(t)
	b.login("alice")

	resp, body := b.postMultipart("/create-dish", dishForm("Soup"), map[string][]byte{"soup.png": pngBytes})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/", resp.Request.URL.Path)
	assert.Contains(t, body, "added!")
	assert.Contains(t, body, "Soup")
	assert.Contains(t, body, "Testov alice")

	id := srv.dishID(t, "Soup")
	var key string
	require.NoError(t, srv.app.DB.Get(&key, `SELECT storage_key FROM images WHERE recipe_id = $1`, id))

	resp, body = b.get(dishPath("/dish/{id}", id))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "<strong>warm</strong>")
	assert.Contains(t, body, "<li>water</li>")
	assert.Contains(t, body, `src="/uploads/`+key+`"`)
	assert.Contains(t, body, "Edit")

	resp, _ = b.get("/uploads/" + key)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	resp, _ = b.get("/uploads/dishes/")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "no directory listing")
}

func TestCreateDishValidation(t *testing.T) {
	srv := newTestServer(t)
	srv.user(t, "alice", model.RoleUser)

	b := srv.browser(t)
	b.login("alice")

	form := dishForm("")
	form["servings"] = "zero"
	resp, body := b.postMultipart("/create-dish", form, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "field-error")
	assert.Contains(t, body, `value="zero"`, "input is kept")

	_, _ = b.postMultipart("/create-dish", dishForm("Soup"), nil)
	resp, body = b.postMultipart("/create-dish", dishForm(" Soup "), nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, body, "A dish with this title already exists.")

	resp, _ = b.postMultipart("/create-dish", dishForm("Stew"), map[string][]byte{"stew.png": []byte("not an image")})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var count int
	require.NoError(t, srv.app.DB.Get(&count, `SELECT COUNT(*) FROM recipes`))
	assert.Equal(t, 1, count)
}

func TestEditAndDeleteAuthorization(t *testing.T) {
	srv := newTestServer(t)
	srv.user(t, "alice", model.RoleUser)
	srv.user(t, "bob", model.RoleUser)
	srv.user(t, "admin", model.RoleAdministrator)

	alice := srv.browser(t)
	alice.login("alice")
	alice.postMultipart("/create-dish", dishForm("Soup"), nil)
	id := srv.dishID(t, "Soup")

	bob := srv.browser(t)
	bob.login("bob")

	resp, body := bob.get(dishPath("/dish/{id}", id))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, body, dishPath(`href="/edit-dish/{id}"`, id))

	resp, body = bob.get(dishPath("/edit-dish/{id}", id))
	assert.Equal(t, "/", resp.Request.URL.Path)
	assert.Contains(t, body, "You do not have permission to change this dish.")

	resp, _ = bob.postMultipart(dishPath("/edit-dish/{id}", id), dishForm("Stolen"), nil)
	assert.Equal(t, "/", resp.Request.URL.Path)

	resp, body = bob.postMultipart(dishPath("/edit-dish/{id}", id), dishForm(""), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, "invalid edits are refused before validation")
	assert.Equal(t, "/", resp.Request.URL.Path)
	assert.Contains(t, body, "You do not have permission to change this dish.")
	assert.NotContains(t, body, "field-error")

	resp, _ = bob.post(dishPath("/delete-dish/{id}", id), nil)
	assert.Equal(t, "/", resp.Request.URL.Path)
	assert.Equal(t, id, srv.dishID(t, "Soup"), "still there")

	admin := srv.browser(t)
	admin.login("admin")

	resp, body = admin.get(dishPath("/edit-dish/{id}", id))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `value="Soup"`)

	resp, body = admin.postMultipart(dishPath("/edit-dish/{id}", id), dishForm("Admin soup"), nil)
	assert.Equal(t, dishPath("/dish/{id}", id), resp.Request.URL.Path)
	assert.Contains(t, body, "Dish updated!")
	assert.Contains(t, body, "Testov alice", "author unchanged")

	resp, body = alice.post(dishPath("/delete-dish/{id}", id), nil)
	assert.Equal(t, "/", resp.Request.URL.Path)
	assert.Contains(t, body, "Dish deleted.")

	resp, _ = alice.get(dishPath("/dish/{id}", id))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = alice.post(dishPath("/delete-dish/{id}", id), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEditFormShowsTypedCharacters(t *testing.T) {
	srv := newTestServer(t)
	srv.user(t, "alice", model.RoleUser)

	b := srv.browser(t)
	b.login("alice")

	form := dishForm("Mom's soup")
	form["description"] = "> Mom's \"secret\" tip\n\nSalt & pepper"
	resp, _ := b.postMultipart("/create-dish", form, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	id := srv.dishID(t, "Mom's soup")

	var stored string
	require.NoError(t, srv.app.DB.Get(&stored, `SELECT description FROM recipes WHERE id = $1`, id))
	assert.Equal(t, form["description"], stored)

	_, body := b.get(dishPath("/dish/{id}", id))
	assert.Contains(t, body, "<blockquote>")

	_, body = b.get(dishPath("/edit-dish/{id}", id))
	assert.Contains(t, body, "&gt; Mom&#39;s &#34;secret&#34; tip")
	assert.Contains(t, body, "Salt &amp; pepper")
	assert.NotContains(t, body, "&amp;#39;")
	assert.NotContains(t, body, "&amp;gt;")
}

func TestEditAttachesPhotos(t *testing.T) {
	srv := newTestServer(t)
	srv.user(t, "alice", model.RoleUser)

	b := srv.browser(t)
	b.login("alice")
	b.postMultipart("/create-dish", dishForm("Soup"), nil)
	id := srv.dishID(t, "Soup")

	resp, body := b.postMultipart(dishPath("/edit-dish/{id}", id), dishForm("Soup"), map[string][]byte{"a.png": pngBytes})
	assert.Equal(t, dishPath("/dish/{id}", id), resp.Request.URL.Path)
	assert.Contains(t, body, "Dish updated!")
	assert.Contains(t, body, `src="/uploads/dishes/`)

	resp, body = b.postMultipart(dishPath("/edit-dish/{id}", id), dishForm("Soup"), map[string][]byte{"b.png": []byte("text")})
	assert.Equal(t, dishPath("/dish/{id}", id), resp.Request.URL.Path)
	assert.Contains(t, body, "the new photos could not be saved")

	var photos int
	require.NoError(t, srv.app.DB.Get(&photos, `SELECT COUNT(*) FROM images WHERE recipe_id = $1`, id))
	assert.Equal(t, 1, photos)
}

func TestIndexPagination(t *testing.T) {
	srv := newTestServer(t)
	srv.user(t, "alice", model.RoleUser)

	b := srv.browser(t)
	b.login("alice")
	for i := 1; i <= model.DishPageSize+1; i++ {
		b.postMultipart("/create-dish", dishForm(fmt.Sprintf("Dish %02d", i)), nil)
	}

	_, body := b.get("/")
	assert.Contains(t, body, "Page 1 of 2")
	assert.Contains(t, body, "Dish 11")
	assert.NotContains(t, body, "Dish 01")

	_, body = b.get("/?page=2")
	assert.Contains(t, body, "Dish 01")

	resp, body := b.get("/?page=abc")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Page 1 of 2")
}

func TestUnknownDishIsNotFound(t *testing.T) {
	srv := newTestServer(t)
	srv.user(t, "alice", model.RoleUser)

	b := srv.browser(t)
	b.login("alice")

	for _, path := range []string{"/dish/999", "/dish/abc", "/edit-dish/999", "/dish/999/add-feedback"} {
		resp, body := b.get(path)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		assert.Contains(t, body, "Page not found", path)
	}
}
