package service

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/recipebox/recipebox/internal/model"
	"github.com/recipebox/recipebox/internal/repository"
	"github.com/recipebox/recipebox/internal/storage"
	"github.com/recipebox/recipebox/internal/testutil"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	db          *sqlx.DB
	uploadDir   string
	storage     *storage.LocalStorage
	auth        *AuthService
	users       *UserService
	photos      *PhotoService
	dishes      *DishService
	feedback    *FeedbackService
	importer    *ImportService
	photoRepo   repository.PhotoRepository
	feedbackRep repository.FeedbackRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	database := testutil.SetupDB(t)
	uploadDir := t.TempDir()
	store, err := storage.NewLocalStorage(uploadDir, "/uploads")
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(database)
	roleRepo := repository.NewRoleRepository(database)
	dishRepo := repository.NewDishRepository(database)
	photoRepo := repository.NewPhotoRepository(database)
	feedbackRepo := repository.NewFeedbackRepository(database)

	photos := NewPhotoService(store, 1<<20)
	dishes := NewDishService(dishRepo, photoRepo, feedbackRepo, userRepo, repository.NewTransactor(database), photos)

	return &testEnv{
		db:          database,
		uploadDir:   uploadDir,
		storage:     store,
		auth:        NewAuthService(userRepo, roleRepo, "test-secret", false, time.Hour, 24*time.Hour),
		users:       NewUserService(userRepo, roleRepo),
		photos:      photos,
		dishes:      dishes,
		feedback:    NewFeedbackService(feedbackRepo, dishRepo),
		importer:    NewImportService(dishes),
		photoRepo:   photoRepo,
		feedbackRep: feedbackRepo,
	}
}

func (e *testEnv) principal(t *testing.T, username, roleName string) *model.Principal {
	t.Helper()
	id := testutil.CreateUser(t, e.db, username, "pw", roleName)
	p, err := e.users.Principal(id)
	require.NoError(t, err)
	return p
}

func (e *testEnv) storedFiles(t *testing.T) []string {
	t.Helper()
	objects, err := e.storage.List(PhotoPrefix)
	require.NoError(t, err)
	keys := make([]string, 0, len(objects))
	for _, obj := range objects {
		keys = append(keys, obj.Key)
	}
	return keys
}

func soup() model.DishFields {
	return model.DishFields{
		Title:       "Soup",
		Description: "A warm soup",
		CookingTime: 20,
		Servings:    2,
		Ingredients: "- water\n- salt",
		Steps:       "1. Boil",
	}
}

var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

// uploads builds multipart file headers the way a browser form would.
func uploads(t *testing.T, files map[string][]byte) []*multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for name, content := range files {
		part, err := w.CreateFormFile("photos", name)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["photos"]
}

func fileExists(t *testing.T, root, key string) bool {
	t.Helper()
	_, err := os.Stat(filepath.Join(root, filepath.FromSlash(key)))
	return err == nil
}
