// Package model defines the rows the application reads and writes.
//
// The json tags keep the snake_case keys of the public API (the map page and
// any existing clients read "lat", "lon", "cafe_id", "user_email"), and the db
// tags name the SQLite columns so sqlx can scan rows straight into structs.
package model

// Shop is one coffee-shop listing.
type Shop struct {
	ID          int64   `json:"id"          db:"id"`
	Name        string  `json:"name"        db:"name"`
	Address     string  `json:"address"     db:"address"`
	Lat         float64 `json:"lat"         db:"lat"`
	Lon         float64 `json:"lon"         db:"lon"`
	Description string  `json:"description" db:"description"`
	Link        string  `json:"link"        db:"link"`
}

// ShopInput carries the six editable shop fields as submitted by the admin
// forms, after the coordinate strings have been parsed.
type ShopInput struct {
	Name        string  `validate:"required,max=200"`
	Address     string  `validate:"required,max=300"`
	Lat         float64 `validate:"latitude"`
	Lon         float64 `validate:"longitude"`
	Description string  `validate:"max=2000"`
	Link        string  `validate:"omitempty,url,max=500"`
}
