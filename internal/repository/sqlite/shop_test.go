package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sakif/coffee-finder/internal/apperror"
	"github.com/sakif/coffee-finder/internal/model"
)

func shopNames(shops []model.Shop) []string {
	names := make([]string, len(shops))
	for i, s := range shops {
		names[i] = s.Name
	}
	return names
}

func TestShopList_ReturnsSeededShops(t *testing.T) {
	db := newTestDB(t)

	shops, err := db.Shops().List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	want := DemoShops()
	for i := range want {
		want[i].ID = int64(i + 1)
	}
	if diff := cmp.Diff(want, shops); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}
}

func TestShopList_EmptyIsNotNil(t *testing.T) {
	db := newTestDBWith(t, Options{}, SeedOptions{})

	shops, err := db.Shops().List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if shops == nil {
		t.Error("List() returned nil, want empty slice")
	}
}

func TestShopSearch(t *testing.T) {
	db := newTestDB(t)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{
			name:  "name match ignores case",
			query: "CAFE",
			want:  []string{"Wander Cafe", "Selah Cafe", "Links Cafe", "Side Street Cafe"},
		},
		{
			name:  "address match",
			query: "lipata",
			want:  []string{"Links Cafe"},
		},
		{
			name:  "matches name or address",
			query: "highway",
			want:  []string{"Don Macchiato", "A Little Tea"},
		},
		{
			name:  "description is not searched",
			query: "hilltop",
			want:  []string{},
		},
		{
			name:  "percent matches literally",
			query: "%",
			want:  []string{},
		},
		{
			name:  "underscore matches literally",
			query: "_",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shops, err := db.Shops().Search(context.Background(), tt.query)
			if err != nil {
				t.Fatalf("Search(%q) error = %v", tt.query, err)
			}
			if diff := cmp.Diff(tt.want, shopNames(shops)); diff != "" {
				t.Errorf("Search(%q) mismatch (-want +got):\n%s", tt.query, diff)
			}
		})
	}
}

func TestLikePattern(t *testing.T) {
	if got := likePattern(`50%_Off\Now`); got != `%50\%\_off\\now%` {
		t.Errorf("likePattern() = %q", got)
	}
}

func TestShopCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	shop := &model.Shop{
		Name:        "Kape Kalye",
		Address:     "Poblacion, Talisay",
		Lat:         10.25,
		Lon:         123.84,
		Description: "Roadside pour-overs",
	}
	if err := db.Shops().Create(ctx, shop); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if shop.ID != int64(len(demoShops)+1) {
		t.Errorf("Create() set ID = %d, want %d", shop.ID, len(demoShops)+1)
	}

	got, err := db.Shops().GetByID(ctx, shop.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if diff := cmp.Diff(shop, got); diff != "" {
		t.Errorf("GetByID() mismatch (-want +got):\n%s", diff)
	}
}

func TestShopGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Shops().GetByID(context.Background(), 999)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestShopUpdate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	updated := &model.Shop{
		ID:          1,
		Name:        "Uncle's Brew II",
		Address:     "Tungkop, Minglanilla",
		Lat:         10.25,
		Lon:         123.80,
		Description: "",
		Link:        "https://example.com/uncles",
	}
	if err := db.Shops().Update(ctx, updated); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := db.Shops().GetByID(ctx, 1)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if diff := cmp.Diff(updated, got); diff != "" {
		t.Errorf("after Update() mismatch (-want +got):\n%s", diff)
	}
}

func TestShopUpdate_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.Shops().Update(context.Background(), &model.Shop{ID: 404, Name: "x", Address: "y"})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestShopDelete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.Shops().Delete(ctx, 2); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := db.Shops().GetByID(ctx, 2); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}

	// Deleting a missing row is not an error.
	if err := db.Shops().Delete(ctx, 2); err != nil {
		t.Errorf("second Delete() error = %v, want nil", err)
	}
}

func TestShopDelete_LeavesOrphans(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.Reviews().Add(ctx, &model.Review{UserID: 1, ShopID: 3, Comment: "nice"}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := db.Shops().Delete(ctx, 3); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	reviews, err := db.Reviews().ListByShop(ctx, 3)
	if err != nil {
		t.Fatalf("ListByShop() error = %v", err)
	}
	if len(reviews) != 1 {
		t.Errorf("got %d reviews for deleted shop, want the orphan to remain", len(reviews))
	}
}

func TestShopDelete_ForeignKeysEnforced(t *testing.T) {
	db := newTestDBWith(t, Options{ForeignKeys: true}, defaultSeed())
	ctx := context.Background()

	if err := db.Favorites().Add(ctx, &model.Favorite{UserID: 1, ShopID: 4}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := db.Shops().Delete(ctx, 4); err == nil {
		t.Error("Delete() should fail while a favorite references the shop")
	}
}
