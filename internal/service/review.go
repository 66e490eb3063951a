package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/sakif/coffee-finder/internal/apperror"
	"github.com/sakif/coffee-finder/internal/model"
	"github.com/sakif/coffee-finder/internal/repository"
)

const (
	MinRating        = 1
	MaxRating        = 5
	MaxCommentLength = 2000
)

// ReviewService adds and lists shop reviews.
type ReviewService struct {
	repo   repository.ReviewRepository
	logger *slog.Logger
}

func NewReviewService(repo repository.ReviewRepository, logger *slog.Logger) *ReviewService {
	return &ReviewService{repo: repo, logger: logger}
}

// Add stores a review by userID of shopID. rating is the raw form value: blank
// means no rating, anything else must be a whole number from 1 to 5. The
// comment is stored verbatim.
func (s *ReviewService) Add(ctx context.Context, userID, shopID int64, rating, comment string) (*model.Review, error) {
	r, err := parseRating(rating)
	if err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(comment) > MaxCommentLength {
		return nil, apperror.ValidationFailed("comment",
			fmt.Sprintf("comment must be %d characters or less", MaxCommentLength))
	}

	review := &model.Review{
		UserID:  userID,
		ShopID:  shopID,
		Rating:  r,
		Comment: comment,
	}
	if err := s.repo.Add(ctx, review); err != nil {
		s.logger.Error("failed to add review",
			slog.Int64("shopID", shopID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("adding review: %w", err)
	}

	s.logger.Info("review added",
		slog.Int64("id", review.ID),
		slog.Int64("userID", userID),
		slog.Int64("shopID", shopID),
	)
	return review, nil
}

// List returns the reviews of shopID, newest first.
func (s *ReviewService) List(ctx context.Context, shopID int64) ([]model.ReviewView, error) {
	reviews, err := s.repo.ListByShop(ctx, shopID)
	if err != nil {
		return nil, fmt.Errorf("listing reviews: %w", err)
	}
	return reviews, nil
}

func parseRating(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v < MinRating || v > MaxRating {
		return nil, apperror.ValidationFailed("rating",
			fmt.Sprintf("rating must be a whole number from %d to %d", MinRating, MaxRating))
	}
	return &v, nil
}
