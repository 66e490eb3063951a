package sqlite

import (
	"context"
	"fmt"

	"github.com/sakif/coffee-finder/internal/model"
	"github.com/sakif/coffee-finder/internal/repository"
)

var _ repository.FavoriteRepository = (*FavoriteStore)(nil)

// FavoriteStore reads and writes the favorites table.
type FavoriteStore struct {
	db *DB
}

// Add appends a favorite row. There is no duplicate check and, unless foreign
// keys are enforced, no check that the shop exists.
func (s *FavoriteStore) Add(ctx context.Context, fav *model.Favorite) error {
	fav.CreatedAt = s.db.timestamp()

	res, err := s.db.conn.ExecContext(ctx,
		`INSERT INTO favorites (user_id, cafe_id, created_at) VALUES (?, ?, ?)`,
		fav.UserID, fav.ShopID, fav.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: adding favorite (user=%d, shop=%d): %w", fav.UserID, fav.ShopID, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new favorite id: %w", err)
	}
	fav.ID = id
	return nil
}

// ListShops returns each shop the user favorited once, ordered by the most
// recent favorite. Favorites of deleted shops are skipped.
func (s *FavoriteStore) ListShops(ctx context.Context, userID int64) ([]model.Shop, error) {
	shops := []model.Shop{}
	err := s.db.conn.SelectContext(ctx, &shops,
		`SELECT s.id, s.name, s.address, s.lat, s.lon, s.description, s.link
		 FROM coffee_shops s
		 JOIN (
			SELECT cafe_id, MAX(id) AS last_id
			FROM favorites
			WHERE user_id = ?
			GROUP BY cafe_id
		 ) f ON f.cafe_id = s.id
		 ORDER BY f.last_id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing favorites of user %d: %w", userID, err)
	}
	return shops, nil
}
