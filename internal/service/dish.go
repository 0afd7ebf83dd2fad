package service

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/recipebox/recipebox/internal/model"
	"github.com/recipebox/recipebox/internal/repository"
	"github.com/recipebox/recipebox/internal/sanitize"
	"github.com/recipebox/recipebox/internal/validation"
)

type DishService struct {
	dishRepository     repository.DishRepository
	photoRepository    repository.PhotoRepository
	feedbackRepository repository.FeedbackRepository
	userRepository     repository.UserRepository
	transactor         *repository.Transactor
	photoService       *PhotoService
}

func NewDishService(
	dishRepository repository.DishRepository,
	photoRepository repository.PhotoRepository,
	feedbackRepository repository.FeedbackRepository,
	userRepository repository.UserRepository,
	transactor *repository.Transactor,
	photoService *PhotoService,
) *DishService {
	return &DishService{
		dishRepository:     dishRepository,
		photoRepository:    photoRepository,
		feedbackRepository: feedbackRepository,
		userRepository:     userRepository,
		transactor:         transactor,
		photoService:       photoService,
	}
}

// List returns one page of dishes, newest first. Pages past the end are
// empty rather than an error.
func (s *DishService) List(page int) (*model.Page[*model.DishSummary], error) {
	if page < 1 {
		page = 1
	}

	total, err := s.dishRepository.Count()
	if err != nil {
		return nil, persistence("failed to count dishes", err)
	}

	result := &model.Page[*model.DishSummary]{
		Items:    []*model.DishSummary{},
		Page:     page,
		PageSize: model.DishPageSize,
		Total:    total,
	}

	offset := (page - 1) * model.DishPageSize
	if offset >= total {
		return result, nil
	}

	items, err := s.dishRepository.Summaries(model.DishPageSize, offset)
	if err != nil {
		return nil, persistence("failed to list dishes", err)
	}
	result.Items = items

	return result, nil
}

// ByID returns repository.ErrDishNotFound for unknown ids.
func (s *DishService) ByID(id int64) (*model.Dish, error) {
	return s.dishRepository.ByID(id)
}

func (s *DishService) Detail(id int64) (*model.DishDetail, error) {
	dish, err := s.dishRepository.ByID(id)
	if err != nil {
		return nil, err
	}

	detail := &model.DishDetail{Dish: dish}

	author, err := s.userRepository.ByID(dish.UserID)
	if err == nil {
		detail.AuthorName = author.FullName()
	} else {
		slog.Warn("failed to load dish author", "error", err, "dish_id", id)
	}

	detail.Photos, err = s.photoRepository.ByDish(id)
	if err != nil {
		return nil, persistence("failed to load photos", err)
	}
	for _, photo := range detail.Photos {
		photo.URL = s.photoService.URL(photo)
	}

	detail.Feedback, err = s.feedbackRepository.ByDish(id)
	if err != nil {
		return nil, persistence("failed to load feedback", err)
	}

	return detail, nil
}

// prepare normalises the title and strips disallowed markup from the
// free text fields.
func prepare(fields model.DishFields) model.DishFields {
	fields.Title = validation.NormalizeTitle(fields.Title)
	fields.Description = sanitize.Text(fields.Description)
	fields.Ingredients = sanitize.Text(fields.Ingredients)
	fields.Steps = sanitize.Text(fields.Steps)
	return fields
}

// Create stores a dish together with its photos. Files are staged first;
// the dish and photo rows are then inserted in one transaction, and the
// staged files are removed again if that transaction fails.
func (s *DishService) Create(principal *model.Principal, fields model.DishFields, uploads []*multipart.FileHeader) (*model.Dish, error) {
	if principal == nil {
		return nil, ErrUnauthenticated
	}

	fields = prepare(fields)
	err := validation.ValidateDishFields(fields)
	if err != nil {
		return nil, err
	}
	err = s.photoService.Validate(uploads)
	if err != nil {
		return nil, err
	}

	taken, err := s.dishRepository.TitleTaken(fields.Title, 0)
	if err != nil {
		return nil, persistence("failed to check title", err)
	}
	if taken {
		return nil, ErrTitleTaken
	}

	photos, err := s.stage(uploads)
	if err != nil {
		return nil, err
	}

	dish := &model.Dish{
		UserID:    principal.ID,
		CreatedAt: time.Now().UTC(),
	}
	dish.Apply(fields)

	err = s.transactor.InTx(func(tx *sqlx.Tx) error {
		err := s.dishRepository.WithTx(tx).Create(dish)
		if err != nil {
			return err
		}
		return s.insertPhotos(tx, dish.ID, photos)
	})
	if err != nil {
		s.photoService.Discard(photos)
		if errors.Is(err, repository.ErrDuplicateTitle) {
			return nil, ErrTitleTaken
		}
		return nil, persistence("failed to create dish", err)
	}

	slog.Info("dish created", "dish_id", dish.ID, "user_id", principal.ID, "photos", len(photos))
	return dish, nil
}

func (s *DishService) Update(principal *model.Principal, id int64, fields model.DishFields) (*model.Dish, error) {
	if principal == nil {
		return nil, ErrUnauthenticated
	}

	dish, err := s.dishRepository.ByID(id)
	if err != nil {
		return nil, err
	}
	if !principal.CanModify(dish) {
		return nil, ErrForbidden
	}

	fields = prepare(fields)
	err = validation.ValidateDishFields(fields)
	if err != nil {
		return nil, err
	}

	taken, err := s.dishRepository.TitleTaken(fields.Title, dish.ID)
	if err != nil {
		return nil, persistence("failed to check title", err)
	}
	if taken {
		return nil, ErrTitleTaken
	}

	dish.Apply(fields)
	err = s.dishRepository.Update(dish)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateTitle) {
			return nil, ErrTitleTaken
		}
		if errors.Is(err, repository.ErrDishNotFound) {
			return nil, err
		}
		return nil, persistence("failed to update dish", err)
	}

	slog.Info("dish updated", "dish_id", dish.ID, "user_id", principal.ID)
	return dish, nil
}

// AttachPhotos adds photos to an existing dish.
func (s *DishService) AttachPhotos(principal *model.Principal, dishID int64, uploads []*multipart.FileHeader) ([]*model.Photo, error) {
	if principal == nil {
		return nil, ErrUnauthenticated
	}
	if len(uploads) == 0 {
		return nil, nil
	}

	dish, err := s.dishRepository.ByID(dishID)
	if err != nil {
		return nil, err
	}
	if !principal.CanModify(dish) {
		return nil, ErrForbidden
	}

	err = s.photoService.Validate(uploads)
	if err != nil {
		return nil, err
	}

	photos, err := s.stage(uploads)
	if err != nil {
		return nil, err
	}

	err = s.transactor.InTx(func(tx *sqlx.Tx) error {
		return s.insertPhotos(tx, dishID, photos)
	})
	if err != nil {
		s.photoService.Discard(photos)
		return nil, persistence("failed to attach photos", err)
	}

	slog.Info("photos attached", "dish_id", dishID, "count", len(photos))
	return photos, nil
}

// Delete removes the dish and, through cascading deletes, its photos and
// feedback. Files go after the commit; any left behind are orphans for
// the upload sweep.
func (s *DishService) Delete(principal *model.Principal, id int64) error {
	if principal == nil {
		return ErrUnauthenticated
	}

	dish, err := s.dishRepository.ByID(id)
	if err != nil {
		return err
	}
	if !principal.CanModify(dish) {
		return ErrForbidden
	}

	var keys []string
	err = s.transactor.InTx(func(tx *sqlx.Tx) error {
		photos, err := s.photoRepository.WithTx(tx).ByDish(id)
		if err != nil {
			return err
		}
		for _, photo := range photos {
			keys = append(keys, photo.StorageKey)
		}
		return s.dishRepository.WithTx(tx).Delete(id)
	})
	if err != nil {
		if errors.Is(err, repository.ErrDishNotFound) {
			return err
		}
		return persistence("failed to delete dish", err)
	}

	failed := s.photoService.DeleteFiles(keys)
	if failed > 0 {
		slog.Warn("dish deleted with orphaned photos", "dish_id", id, "orphans", failed)
	}

	slog.Info("dish deleted", "dish_id", id, "user_id", principal.ID)
	return nil
}

// PhotoKeys lists every storage key recorded in the database.
func (s *DishService) PhotoKeys() ([]string, error) {
	return s.photoRepository.StorageKeys()
}

func (s *DishService) stage(uploads []*multipart.FileHeader) ([]*model.Photo, error) {
	photos, err := s.photoService.Stage(uploads)
	if err != nil {
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			return nil, err
		}
		return nil, persistence("failed to store photos", err)
	}
	return photos, nil
}

func (s *DishService) insertPhotos(tx *sqlx.Tx, dishID int64, photos []*model.Photo) error {
	photoRepository := s.photoRepository.WithTx(tx)
	for _, photo := range photos {
		photo.DishID = dishID
		err := photoRepository.Create(photo)
		if err != nil {
			return err
		}
	}
	return nil
}
