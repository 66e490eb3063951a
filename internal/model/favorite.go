package model

// Favorite marks a shop for a user. Rows are append-only and not
// deduplicated: favoriting the same shop twice stores two rows.
type Favorite struct {
	ID        int64  `json:"id"         db:"id"`
	UserID    int64  `json:"user_id"    db:"user_id"`
	ShopID    int64  `json:"cafe_id"    db:"cafe_id"`
	CreatedAt string `json:"created_at" db:"created_at"`
}
