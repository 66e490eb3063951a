package model

// User is an account that can log in, favorite shops and write reviews.
//
// PasswordHash is a bcrypt hash and never leaves the server (json:"-").
// Users created through GitHub login have an empty hash, which bcrypt can
// never match, so they cannot log in with a password.
type User struct {
	ID           int64  `json:"id"         db:"id"`
	Email        string `json:"email"      db:"email"`
	PasswordHash string `json:"-"          db:"password_hash"`
	IsAdmin      bool   `json:"is_admin"   db:"is_admin"`
	GitHubID     *int64 `json:"-"          db:"github_id"`
	CreatedAt    string `json:"created_at" db:"created_at"`
}
