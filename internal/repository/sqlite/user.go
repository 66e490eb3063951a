package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/sakif/coffee-finder/internal/apperror"
	"github.com/sakif/coffee-finder/internal/model"
	"github.com/sakif/coffee-finder/internal/repository"
)

// compile-time check that *UserStore implements repository.UserRepository
var _ repository.UserRepository = (*UserStore)(nil)

// UserStore reads and writes the users table.
type UserStore struct {
	db *DB
}

const userColumns = `id, email, password_hash, is_admin, github_id, created_at`

// Create inserts user, filling in ID and CreatedAt. A second user with the
// same email yields apperror.ErrConflict.
func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	user.CreatedAt = s.db.timestamp()

	res, err := s.db.conn.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, is_admin, github_id, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		user.Email, user.PasswordHash, user.IsAdmin, user.GitHubID, user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("user", user.Email)
		}
		return fmt.Errorf("sqlite: creating user %s: %w", user.Email, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new user id: %w", err)
	}
	user.ID = id
	return nil
}

func (s *UserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.getOne(ctx, "id", id, strconv.FormatInt(id, 10))
}

// GetByEmail matches the email exactly.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.getOne(ctx, "email", email, email)
}

func (s *UserStore) GetByGitHubID(ctx context.Context, githubID int64) (*model.User, error) {
	return s.getOne(ctx, "github_id", githubID, "github:"+strconv.FormatInt(githubID, 10))
}

// getOne looks a user up by a single column. column is always a constant
// chosen by the callers above, never user input.
func (s *UserStore) getOne(ctx context.Context, column string, value any, label string) (*model.User, error) {
	var u model.User
	err := s.db.conn.GetContext(ctx, &u,
		`SELECT `+userColumns+` FROM users WHERE `+column+` = ?`, value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", label)
		}
		return nil, fmt.Errorf("sqlite: getting user by %s: %w", column, err)
	}
	return &u, nil
}

// LinkGitHub attaches a GitHub account id to an existing user.
func (s *UserStore) LinkGitHub(ctx context.Context, userID, githubID int64) error {
	res, err := s.db.conn.ExecContext(ctx,
		`UPDATE users SET github_id = ? WHERE id = ?`, githubID, userID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("github account", strconv.FormatInt(githubID, 10))
		}
		return fmt.Errorf("sqlite: linking github account to user %d: %w", userID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound("user", userID)
	}
	return nil
}
