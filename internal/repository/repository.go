// Package repository declares the storage interfaces the service layer
// depends on. The sqlite subpackage implements them; service tests use
// in-memory fakes.
package repository

import (
	"context"

	"github.com/sakif/coffee-finder/internal/model"
)

type ShopRepository interface {
	// List returns every shop in storage order.
	List(ctx context.Context) ([]model.Shop, error)
	// Search matches query case-insensitively against name or address.
	Search(ctx context.Context, query string) ([]model.Shop, error)
	GetByID(ctx context.Context, id int64) (*model.Shop, error)
	Create(ctx context.Context, shop *model.Shop) error
	// Update returns apperror.ErrNotFound when no shop has shop.ID.
	Update(ctx context.Context, shop *model.Shop) error
	// Delete removes the row if present. Deleting a missing id is not an error.
	Delete(ctx context.Context, id int64) error
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByGitHubID(ctx context.Context, githubID int64) (*model.User, error)
	LinkGitHub(ctx context.Context, userID, githubID int64) error
}

type FavoriteRepository interface {
	Add(ctx context.Context, fav *model.Favorite) error
	// ListShops returns the distinct shops a user favorited, most recent first.
	ListShops(ctx context.Context, userID int64) ([]model.Shop, error)
}

type ReviewRepository interface {
	Add(ctx context.Context, review *model.Review) error
	// ListByShop returns a shop's reviews joined with author emails,
	// newest first.
	ListByShop(ctx context.Context, shopID int64) ([]model.ReviewView, error)
}
