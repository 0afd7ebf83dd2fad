package service

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/recipebox/recipebox/internal/model"
	"github.com/recipebox/recipebox/internal/repository"
	"github.com/recipebox/recipebox/internal/sanitize"
	"github.com/recipebox/recipebox/internal/validation"
)

// FeedbackService records reviews. Reviews cannot be edited or removed
// except through deletion of their dish.
type FeedbackService struct {
	feedbackRepository repository.FeedbackRepository
	dishRepository     repository.DishRepository
}

func NewFeedbackService(
	feedbackRepository repository.FeedbackRepository,
	dishRepository repository.DishRepository,
) *FeedbackService {
	return &FeedbackService{
		feedbackRepository: feedbackRepository,
		dishRepository:     dishRepository,
	}
}

func (s *FeedbackService) HasReviewed(principal *model.Principal, dishID int64) (bool, error) {
	if principal == nil {
		return false, nil
	}
	return s.feedbackRepository.Exists(dishID, principal.ID)
}

func (s *FeedbackService) Add(principal *model.Principal, dishID int64, rating int, comment string) (*model.Feedback, error) {
	if principal == nil {
		return nil, ErrUnauthenticated
	}
	if rating < model.RatingMin || rating > model.RatingMax {
		return nil, ErrInvalidRating
	}

	_, err := s.dishRepository.ByID(dishID)
	if err != nil {
		return nil, err
	}

	exists, err := s.feedbackRepository.Exists(dishID, principal.ID)
	if err != nil {
		return nil, persistence("failed to check feedback", err)
	}
	if exists {
		return nil, ErrAlreadyReviewed
	}

	comment = strings.TrimSpace(sanitize.Text(comment))
	if comment == "" {
		return nil, validation.Errors{"comment": "Comment is required"}
	}

	feedback := &model.Feedback{
		DishID:    dishID,
		UserID:    principal.ID,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: time.Now().UTC(),
	}

	err = s.feedbackRepository.Create(feedback)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateReview) {
			return nil, ErrAlreadyReviewed
		}
		return nil, persistence("failed to save feedback", err)
	}

	slog.Info("feedback added", "dish_id", dishID, "user_id", principal.ID, "rating", rating)
	return feedback, nil
}

func (s *FeedbackService) ByDish(dishID int64) ([]*model.FeedbackEntry, error) {
	return s.feedbackRepository.ByDish(dishID)
}
