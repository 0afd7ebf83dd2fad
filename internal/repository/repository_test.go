package repository_test

import (
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/recipebox/recipebox/internal/model"
	"github.com/recipebox/recipebox/internal/repository"
	"github.com/recipebox/recipebox/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDish(t *testing.T, repo repository.DishRepository, userID int64, title string) *model.Dish {
	t.Helper()
	dish := &model.Dish{
		Title:       title,
		Description: "desc",
		CookingTime: 10,
		Servings:    2,
		Ingredients: "- salt",
		Steps:       "1. Stir",
		UserID:      userID,
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, repo.Create(dish))
	return dish
}

func TestDishRepositoryUniqueTitle(t *testing.T) {
	database := testutil.SetupDB(t)
	userID := testutil.CreateUser(t, database, "alice", "pw", model.RoleUser)
	repo := repository.NewDishRepository(database)

	soup := newDish(t, repo, userID, "Soup")

	dup := &model.Dish{Title: "Soup", Description: "d", CookingTime: 1, Servings: 1, Ingredients: "i", Steps: "s", UserID: userID}
	assert.ErrorIs(t, repo.Create(dup), repository.ErrDuplicateTitle)

	taken, err := repo.TitleTaken("Soup", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.TitleTaken("Soup", soup.ID)
	require.NoError(t, err)
	assert.False(t, taken, "a dish does not collide with itself")

	salad := newDish(t, repo, userID, "Salad")
	salad.Title = "Soup"
	assert.ErrorIs(t, repo.Update(salad), repository.ErrDuplicateTitle)
}

func TestDishRepositoryNotFound(t *testing.T) {
	database := testutil.SetupDB(t)
	repo := repository.NewDishRepository(database)

	_, err := repo.ByID(42)
	assert.ErrorIs(t, err, repository.ErrDishNotFound)
	assert.ErrorIs(t, repo.Update(&model.Dish{ID: 42, Title: "x"}), repository.ErrDishNotFound)
	assert.ErrorIs(t, repo.Delete(42), repository.ErrDishNotFound)
}

func TestDeleteCascades(t *testing.T) {
	database := testutil.SetupDB(t)
	userID := testutil.CreateUser(t, database, "alice", "pw", model.RoleUser)
	dishes := repository.NewDishRepository(database)
	photos := repository.NewPhotoRepository(database)
	feedback := repository.NewFeedbackRepository(database)

	dish := newDish(t, dishes, userID, "Soup")
	require.NoError(t, photos.Create(&model.Photo{
		Filename: "a.png", StorageKey: "dishes/a.png", MimeType: "image/png", DishID: dish.ID, CreatedAt: time.Now().UTC(),
	}))
	require.NoError(t, feedback.Create(&model.Feedback{
		DishID: dish.ID, UserID: userID, Rating: 5, Comment: "yum", CreatedAt: time.Now().UTC(),
	}))

	require.NoError(t, dishes.Delete(dish.ID))

	n, err := photos.CountByDish(dish.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = feedback.CountByDish(dish.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestFeedbackRepositoryOnePerUser(t *testing.T) {
	database := testutil.SetupDB(t)
	userID := testutil.CreateUser(t, database, "alice", "pw", model.RoleUser)
	dish := newDish(t, repository.NewDishRepository(database), userID, "Soup")
	repo := repository.NewFeedbackRepository(database)

	review := func() *model.Feedback {
		return &model.Feedback{DishID: dish.ID, UserID: userID, Rating: 3, Comment: "ok", CreatedAt: time.Now().UTC()}
	}
	require.NoError(t, repo.Create(review()))
	assert.ErrorIs(t, repo.Create(review()), repository.ErrDuplicateReview)

	exists, err := repo.Exists(dish.ID, userID)
	require.NoError(t, err)
	assert.True(t, exists)

	entries, err := repo.ByDish(dish.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Testov alice", entries[0].AuthorName)
	assert.Equal(t, "удовлетворительно", entries[0].RatingLabel())
}

func TestRatingOutOfRangeIsRejectedByTheDatabase(t *testing.T) {
	database := testutil.SetupDB(t)
	userID := testutil.CreateUser(t, database, "alice", "pw", model.RoleUser)
	dish := newDish(t, repository.NewDishRepository(database), userID, "Soup")

	err := repository.NewFeedbackRepository(database).Create(&model.Feedback{
		DishID: dish.ID, UserID: userID, Rating: 9, Comment: "x", CreatedAt: time.Now().UTC(),
	})
	assert.Error(t, err)
}

func TestRolesAreSeeded(t *testing.T) {
	database := testutil.SetupDB(t)
	repo := repository.NewRoleRepository(database)

	roles, err := repo.Roles()
	require.NoError(t, err)
	require.Len(t, roles, 2)

	admin, err := repo.ByName(model.RoleAdministrator)
	require.NoError(t, err)
	assert.True(t, admin.Capabilities.Has(model.CapabilityModifyAnyDish))

	user, err := repo.ByName(model.RoleUser)
	require.NoError(t, err)
	assert.Empty(t, user.Capabilities)
	assert.True(t, user.IsDefault())

	_, err = repo.ByID(99)
	assert.ErrorIs(t, err, repository.ErrRoleNotFound)
}

func TestUserRepository(t *testing.T) {
	database := testutil.SetupDB(t)
	repo := repository.NewUserRepository(database)
	role, err := repository.NewRoleRepository(database).ByName(model.RoleUser)
	require.NoError(t, err)

	middle := "Petrovna"
	user := &model.User{
		Username: "alice", PasswordHash: "x", LastName: "Ivanova", FirstName: "Alice",
		MiddleName: &middle, RoleID: role.ID, CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Create(user))

	dup := *user
	assert.ErrorIs(t, repo.Create(&dup), repository.ErrDuplicateUsername)

	found, err := repo.ByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, "Ivanova Alice Petrovna", found.FullName())

	_, err = repo.ByID(999)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestTransactorRollsBack(t *testing.T) {
	database := testutil.SetupDB(t)
	userID := testutil.CreateUser(t, database, "alice", "pw", model.RoleUser)
	dishes := repository.NewDishRepository(database)

	boom := errors.New("boom")
	err := repository.NewTransactor(database).InTx(func(tx *sqlx.Tx) error {
		newDish(t, dishes.WithTx(tx), userID, "Soup")
		return boom
	})
	assert.ErrorIs(t, err, boom)

	count, err := dishes.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}
