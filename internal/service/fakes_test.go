package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/sakif/coffee-finder/internal/apperror"
	"github.com/sakif/coffee-finder/internal/model"
)

// Hand-written in-memory fakes of the repository interfaces. They keep just
// enough behavior for the service rules to be observable.

var errStorage = errors.New("disk on fire")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeShopRepo struct {
	shops  map[int64]model.Shop
	nextID int64
	err    error
}

func newFakeShopRepo(seed ...model.Shop) *fakeShopRepo {
	r := &fakeShopRepo{shops: map[int64]model.Shop{}}
	for _, s := range seed {
		r.nextID++
		s.ID = r.nextID
		r.shops[s.ID] = s
	}
	return r
}

func (r *fakeShopRepo) sorted() []model.Shop {
	out := make([]model.Shop, 0, len(r.shops))
	for _, s := range r.shops {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakeShopRepo) List(_ context.Context) ([]model.Shop, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.sorted(), nil
}

func (r *fakeShopRepo) Search(_ context.Context, query string) ([]model.Shop, error) {
	if r.err != nil {
		return nil, r.err
	}
	q := strings.ToLower(query)
	out := []model.Shop{}
	for _, s := range r.sorted() {
		if strings.Contains(strings.ToLower(s.Name), q) || strings.Contains(strings.ToLower(s.Address), q) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeShopRepo) GetByID(_ context.Context, id int64) (*model.Shop, error) {
	s, ok := r.shops[id]
	if !ok {
		return nil, apperror.NotFound("shop", id)
	}
	return &s, nil
}

func (r *fakeShopRepo) Create(_ context.Context, shop *model.Shop) error {
	if r.err != nil {
		return r.err
	}
	r.nextID++
	shop.ID = r.nextID
	r.shops[shop.ID] = *shop
	return nil
}

func (r *fakeShopRepo) Update(_ context.Context, shop *model.Shop) error {
	if _, ok := r.shops[shop.ID]; !ok {
		return apperror.NotFound("shop", shop.ID)
	}
	r.shops[shop.ID] = *shop
	return nil
}

func (r *fakeShopRepo) Delete(_ context.Context, id int64) error {
	if r.err != nil {
		return r.err
	}
	delete(r.shops, id)
	return nil
}

type fakeUserRepo struct {
	users  map[int64]*model.User
	nextID int64
	err    error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*model.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if r.err != nil {
		return r.err
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return apperror.Conflict("user", user.Email)
		}
	}
	r.nextID++
	user.ID = r.nextID
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	out := *u
	return &out, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

func (r *fakeUserRepo) GetByGitHubID(_ context.Context, githubID int64) (*model.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.GitHubID != nil && *u.GitHubID == githubID {
			out := *u
			return &out, nil
		}
	}
	return nil, apperror.NotFound("user", githubID)
}

func (r *fakeUserRepo) LinkGitHub(_ context.Context, userID, githubID int64) error {
	u, ok := r.users[userID]
	if !ok {
		return apperror.NotFound("user", userID)
	}
	u.GitHubID = &githubID
	return nil
}

type fakeFavoriteRepo struct {
	favorites []model.Favorite
	shops     map[int64]model.Shop
	err       error
}

func (r *fakeFavoriteRepo) Add(_ context.Context, fav *model.Favorite) error {
	if r.err != nil {
		return r.err
	}
	fav.ID = int64(len(r.favorites) + 1)
	r.favorites = append(r.favorites, *fav)
	return nil
}

func (r *fakeFavoriteRepo) ListShops(_ context.Context, userID int64) ([]model.Shop, error) {
	if r.err != nil {
		return nil, r.err
	}
	seen := map[int64]bool{}
	out := []model.Shop{}
	for i := len(r.favorites) - 1; i >= 0; i-- {
		f := r.favorites[i]
		if f.UserID != userID || seen[f.ShopID] {
			continue
		}
		seen[f.ShopID] = true
		if s, ok := r.shops[f.ShopID]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeReviewRepo struct {
	reviews []model.Review
	err     error
}

func (r *fakeReviewRepo) Add(_ context.Context, review *model.Review) error {
	if r.err != nil {
		return r.err
	}
	review.ID = int64(len(r.reviews) + 1)
	review.CreatedAt = "2024-05-01 10:00:00"
	r.reviews = append(r.reviews, *review)
	return nil
}

func (r *fakeReviewRepo) ListByShop(_ context.Context, shopID int64) ([]model.ReviewView, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := []model.ReviewView{}
	for i := len(r.reviews) - 1; i >= 0; i-- {
		if r.reviews[i].ShopID == shopID {
			out = append(out, model.ReviewView{Review: r.reviews[i], UserEmail: "user@example.com"})
		}
	}
	return out, nil
}
