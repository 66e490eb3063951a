package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/coffee-finder/internal/apperror"
	"github.com/sakif/coffee-finder/internal/auth"
	"github.com/sakif/coffee-finder/internal/model"
	"github.com/sakif/coffee-finder/internal/repository"
)

// LoginFailedMessage is shown for every failed password login, whether the
// email is unknown or the password is wrong.
const LoginFailedMessage = "Invalid email or password!"

// MinPasswordLength applies to accounts created with CreateUser.
const MinPasswordLength = 8

// AuthService logs users in and creates accounts.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService builds the service. tokens may be nil when the service is
// only used to create users.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the user with the session token issued for them so the
// handler can set the cookie and redirect in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// SessionTTL is how long an issued token, and so the session cookie, lasts.
func (s *AuthService) SessionTTL() time.Duration {
	return s.tokens.TTL()
}

// Login checks email and password against the stored bcrypt hash. Any
// mismatch returns apperror.ErrUnauthorized with LoginFailedMessage.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperror.Unauthorized(LoginFailedMessage)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.logger.Info("login failed", slog.String("email", email), slog.String("reason", "unknown email"))
			return nil, apperror.Unauthorized(LoginFailedMessage)
		}
		return nil, fmt.Errorf("service/auth: looking up %s: %w", email, err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		s.logger.Info("login failed", slog.String("email", email), slog.String("reason", "wrong password"))
		return nil, apperror.Unauthorized(LoginFailedMessage)
	}

	s.logger.Info("user logged in",
		slog.Int64("userID", user.ID),
		slog.String("email", user.Email),
	)
	return s.issue(user)
}

// LoginGitHub logs in the owner of a GitHub account. The account is matched
// by GitHub id first, then linked to an existing user with the same email,
// and otherwise a new user without a usable password is created.
func (s *AuthService) LoginGitHub(ctx context.Context, gh *auth.GitHubUser) (*AuthResult, error) {
	if gh == nil {
		return nil, fmt.Errorf("service/auth: GitHub user must not be nil")
	}

	user, err := s.users.GetByGitHubID(ctx, gh.ID)
	switch {
	case err == nil:
	case errors.Is(err, apperror.ErrNotFound):
		user, err = s.linkOrCreateGitHubUser(ctx, gh)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("service/auth: looking up GitHub id %d: %w", gh.ID, err)
	}

	s.logger.Info("user logged in via GitHub",
		slog.Int64("userID", user.ID),
		slog.String("login", gh.Login),
	)
	return s.issue(user)
}

func (s *AuthService) linkOrCreateGitHubUser(ctx context.Context, gh *auth.GitHubUser) (*model.User, error) {
	user, err := s.users.GetByEmail(ctx, gh.Email)
	if err == nil {
		if err := s.users.LinkGitHub(ctx, user.ID, gh.ID); err != nil {
			return nil, fmt.Errorf("service/auth: linking GitHub id %d: %w", gh.ID, err)
		}
		githubID := gh.ID
		user.GitHubID = &githubID
		return user, nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/auth: looking up %s: %w", gh.Email, err)
	}

	githubID := gh.ID
	user = &model.User{Email: gh.Email, GitHubID: &githubID}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: creating GitHub user: %w", err)
	}
	s.logger.Info("user registered via GitHub",
		slog.Int64("userID", user.ID),
		slog.String("email", user.Email),
	)
	return user, nil
}

type newUserInput struct {
	Email    string `validate:"required,email,max=254"`
	Password string `validate:"required,min=8,max=72"`
}

// CreateUser adds an account with a bcrypt-hashed password. A taken email
// returns apperror.ErrConflict.
func (s *AuthService) CreateUser(ctx context.Context, email, password string, admin bool) (*model.User, error) {
	in := newUserInput{Email: strings.TrimSpace(email), Password: password}
	if err := validate.Struct(in); err != nil {
		return nil, validationError(err)
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: %w", err)
	}

	user := &model.User{Email: in.Email, PasswordHash: hash, IsAdmin: admin}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user created",
		slog.Int64("userID", user.ID),
		slog.String("email", user.Email),
		slog.Bool("admin", user.IsAdmin),
	)
	return user, nil
}

func (s *AuthService) issue(user *model.User) (*AuthResult, error) {
	token, err := s.tokens.Generate(auth.Session{
		UserID: user.ID,
		Email:  user.Email,
		Admin:  user.IsAdmin,
	})
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %d: %w", user.ID, err)
	}
	return &AuthResult{User: user, Token: token}, nil
}
