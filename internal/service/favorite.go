package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/coffee-finder/internal/model"
	"github.com/sakif/coffee-finder/internal/repository"
)

// FavoriteService records and lists favorite shops.
type FavoriteService struct {
	repo   repository.FavoriteRepository
	logger *slog.Logger
}

func NewFavoriteService(repo repository.FavoriteRepository, logger *slog.Logger) *FavoriteService {
	return &FavoriteService{repo: repo, logger: logger}
}

// Add stores a favorite of shopID for userID. Repeated favorites and
// favorites of ids that are not shops are both accepted.
func (s *FavoriteService) Add(ctx context.Context, userID, shopID int64) (*model.Favorite, error) {
	fav := &model.Favorite{UserID: userID, ShopID: shopID}
	if err := s.repo.Add(ctx, fav); err != nil {
		return nil, fmt.Errorf("adding favorite: %w", err)
	}

	s.logger.Info("favorite added",
		slog.Int64("userID", userID),
		slog.Int64("shopID", shopID),
	)
	return fav, nil
}

// List returns the shops userID favorited, most recently favorited first.
func (s *FavoriteService) List(ctx context.Context, userID int64) ([]model.Shop, error) {
	shops, err := s.repo.ListShops(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing favorites: %w", err)
	}
	return shops, nil
}
