package model

// TimestampLayout is the text format of every created_at column.
const TimestampLayout = "2006-01-02 15:04:05"

// Review is a rating and comment left by a user on one shop.
// Rating is nil when the reviewer left it blank.
type Review struct {
	ID        int64  `json:"id"         db:"id"`
	UserID    int64  `json:"user_id"    db:"user_id"`
	ShopID    int64  `json:"cafe_id"    db:"cafe_id"`
	Rating    *int   `json:"rating"     db:"rating"`
	Comment   string `json:"comment"    db:"comment"`
	CreatedAt string `json:"created_at" db:"created_at"`
}

// ReviewView is a review joined with its author's email, as returned by
// GET /api/reviews/{id}.
type ReviewView struct {
	Review
	UserEmail string `json:"user_email" db:"user_email"`
}
