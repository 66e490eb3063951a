package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sakif/coffee-finder/internal/apperror"
	"github.com/sakif/coffee-finder/internal/model"
	"github.com/sakif/coffee-finder/internal/repository"
)

// compile-time check that *ShopStore implements repository.ShopRepository
var _ repository.ShopRepository = (*ShopStore)(nil)

// ShopStore reads and writes the coffee_shops table.
type ShopStore struct {
	db *DB
}

const shopColumns = `id, name, address, lat, lon, description, link`

// List returns every shop ordered by id. The result is never nil, so it
// encodes as [] rather than null.
func (s *ShopStore) List(ctx context.Context) ([]model.Shop, error) {
	shops := []model.Shop{}
	err := s.db.conn.SelectContext(ctx, &shops,
		`SELECT `+shopColumns+` FROM coffee_shops ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing shops: %w", err)
	}
	return shops, nil
}

// Search returns the shops whose name or address contains query, ignoring
// case. LIKE wildcards in query match literally.
func (s *ShopStore) Search(ctx context.Context, query string) ([]model.Shop, error) {
	pattern := likePattern(query)

	shops := []model.Shop{}
	err := s.db.conn.SelectContext(ctx, &shops,
		`SELECT `+shopColumns+` FROM coffee_shops
		 WHERE lower(name) LIKE ? ESCAPE '\' OR lower(address) LIKE ? ESCAPE '\'
		 ORDER BY id`,
		pattern, pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: searching shops for %q: %w", query, err)
	}
	return shops, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(query string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
}

func (s *ShopStore) GetByID(ctx context.Context, id int64) (*model.Shop, error) {
	var shop model.Shop
	err := s.db.conn.GetContext(ctx, &shop,
		`SELECT `+shopColumns+` FROM coffee_shops WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("shop", id)
		}
		return nil, fmt.Errorf("sqlite: getting shop %d: %w", id, err)
	}
	return &shop, nil
}

// Create inserts shop and sets shop.ID to the new row id.
func (s *ShopStore) Create(ctx context.Context, shop *model.Shop) error {
	res, err := s.db.conn.ExecContext(ctx,
		`INSERT INTO coffee_shops (name, address, lat, lon, description, link)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		shop.Name, shop.Address, shop.Lat, shop.Lon, shop.Description, shop.Link,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating shop: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new shop id: %w", err)
	}
	shop.ID = id
	return nil
}

// Update overwrites all six editable fields. It returns apperror.ErrNotFound
// when no row has shop.ID.
func (s *ShopStore) Update(ctx context.Context, shop *model.Shop) error {
	res, err := s.db.conn.ExecContext(ctx,
		`UPDATE coffee_shops
		 SET name = ?, address = ?, lat = ?, lon = ?, description = ?, link = ?
		 WHERE id = ?`,
		shop.Name, shop.Address, shop.Lat, shop.Lon, shop.Description, shop.Link, shop.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating shop %d: %w", shop.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound("shop", shop.ID)
	}
	return nil
}

// Delete removes the shop. It does not check that the row existed and does
// not touch favorites or reviews pointing at it.
func (s *ShopStore) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.conn.ExecContext(ctx, `DELETE FROM coffee_shops WHERE id = ?`, id); err != nil {
		return fmt.Errorf("sqlite: deleting shop %d: %w", id, err)
	}
	return nil
}
