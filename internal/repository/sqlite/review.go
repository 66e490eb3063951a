package sqlite

import (
	"context"
	"fmt"

	"github.com/sakif/coffee-finder/internal/model"
	"github.com/sakif/coffee-finder/internal/repository"
)

var _ repository.ReviewRepository = (*ReviewStore)(nil)

// ReviewStore reads and writes the reviews table.
type ReviewStore struct {
	db *DB
}

// Add inserts review with a server-side created_at timestamp.
func (s *ReviewStore) Add(ctx context.Context, review *model.Review) error {
	review.CreatedAt = s.db.timestamp()

	res, err := s.db.conn.ExecContext(ctx,
		`INSERT INTO reviews (user_id, cafe_id, rating, comment, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		review.UserID, review.ShopID, review.Rating, review.Comment, review.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: adding review (user=%d, shop=%d): %w", review.UserID, review.ShopID, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new review id: %w", err)
	}
	review.ID = id
	return nil
}

// ListByShop returns the shop's reviews with their authors' emails, newest
// first. Reviews written in the same second are ordered by id, newest first.
// A shop without reviews yields an empty, non-nil slice.
func (s *ReviewStore) ListByShop(ctx context.Context, shopID int64) ([]model.ReviewView, error) {
	reviews := []model.ReviewView{}
	err := s.db.conn.SelectContext(ctx, &reviews,
		`SELECT r.id, r.user_id, r.cafe_id, r.rating, r.comment, r.created_at,
		        u.email AS user_email
		 FROM reviews r
		 JOIN users u ON r.user_id = u.id
		 WHERE r.cafe_id = ?
		 ORDER BY r.created_at DESC, r.id DESC`,
		shopID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing reviews of shop %d: %w", shopID, err)
	}
	return reviews, nil
}
