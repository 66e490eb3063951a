// Package service holds the business rules between the HTTP handlers and the
// stores:
//
//	Handler (HTTP) → Service (validation, rules) → Repository (SQLite)
//
// Services take plain strings and ids, never *http.Request, and return
// apperror values that the handlers map to status codes.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/sakif/coffee-finder/internal/apperror"
	"github.com/sakif/coffee-finder/internal/model"
	"github.com/sakif/coffee-finder/internal/repository"
)

// ShopForm is the admin add/edit form exactly as submitted.
type ShopForm struct {
	Name        string
	Address     string
	Lat         string
	Lon         string
	Description string
	Link        string
}

// ShopService lists, searches and edits coffee shops.
type ShopService struct {
	repo   repository.ShopRepository
	logger *slog.Logger
}

func NewShopService(repo repository.ShopRepository, logger *slog.Logger) *ShopService {
	return &ShopService{repo: repo, logger: logger}
}

// List returns every shop in storage order.
func (s *ShopService) List(ctx context.Context) ([]model.Shop, error) {
	shops, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing shops: %w", err)
	}
	return shops, nil
}

// Search matches query against shop names and addresses, ignoring case.
// A blank query returns every shop.
func (s *ShopService) Search(ctx context.Context, query string) ([]model.Shop, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.List(ctx)
	}

	shops, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("searching shops for %q: %w", query, err)
	}
	return shops, nil
}

// Get returns apperror.ErrNotFound for an unknown id.
func (s *ShopService) Get(ctx context.Context, id int64) (*model.Shop, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ShopService) Create(ctx context.Context, form ShopForm) (*model.Shop, error) {
	in, err := parseShopForm(form)
	if err != nil {
		return nil, err
	}

	shop := shopFromInput(in)
	if err := s.repo.Create(ctx, shop); err != nil {
		s.logger.Error("failed to create shop",
			slog.String("name", shop.Name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating shop: %w", err)
	}

	s.logger.Info("shop created",
		slog.Int64("id", shop.ID),
		slog.String("name", shop.Name),
	)
	return shop, nil
}

// Update overwrites all six fields of shop id. The form is validated before
// the lookup, so an invalid form for a missing id reports the validation
// error.
func (s *ShopService) Update(ctx context.Context, id int64, form ShopForm) (*model.Shop, error) {
	in, err := parseShopForm(form)
	if err != nil {
		return nil, err
	}

	shop := shopFromInput(in)
	shop.ID = id
	if err := s.repo.Update(ctx, shop); err != nil {
		return nil, err
	}

	s.logger.Info("shop updated",
		slog.Int64("id", shop.ID),
		slog.String("name", shop.Name),
	)
	return shop, nil
}

// Delete removes shop id. Favorites and reviews of the shop are kept.
func (s *ShopService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting shop %d: %w", id, err)
	}

	s.logger.Info("shop deleted", slog.Int64("id", id))
	return nil
}

func parseShopForm(form ShopForm) (model.ShopInput, error) {
	lat, err := parseCoordinate("lat", form.Lat)
	if err != nil {
		return model.ShopInput{}, err
	}
	lon, err := parseCoordinate("lon", form.Lon)
	if err != nil {
		return model.ShopInput{}, err
	}

	in := model.ShopInput{
		Name:        strings.TrimSpace(form.Name),
		Address:     strings.TrimSpace(form.Address),
		Lat:         lat,
		Lon:         lon,
		Description: strings.TrimSpace(form.Description),
		Link:        strings.TrimSpace(form.Link),
	}
	if err := validate.Struct(in); err != nil {
		return model.ShopInput{}, validationError(err)
	}
	return in, nil
}

func parseCoordinate(field, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, apperror.ValidationFailed(field, field+" is required")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apperror.ValidationFailed(field, field+" must be a number")
	}
	return v, nil
}

func shopFromInput(in model.ShopInput) *model.Shop {
	return &model.Shop{
		Name:        in.Name,
		Address:     in.Address,
		Lat:         in.Lat,
		Lon:         in.Lon,
		Description: in.Description,
		Link:        in.Link,
	}
}
