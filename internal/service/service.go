// Package service implements the application core: account registration,
// credential verification, URL shortening and the ownership rules that gate
// every mutation of a stored URL.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/thoas/go-funk"
	"golang.org/x/crypto/bcrypt"

	"github.com/DavidGir/tinyapp/internal/models"
	"github.com/DavidGir/tinyapp/internal/user"
)

type userKeeper interface {
	CreateUser(ctx context.Context, usr *user.User) (string, error)
	FindUserByEmail(ctx context.Context, email string) (*user.User, bool, error)
}

type urlsMapper interface {
	InsertURLMapping(ctx context.Context, short, full, userID string) error
	FindFullByShort(ctx context.Context, short string) (string, bool, error)
	IsUserURL(ctx context.Context, short, userID string) (bool, error)
	UpdateUserURL(ctx context.Context, short, userID, full string) error
	DeleteUserURL(ctx context.Context, short, userID string) error
}

type userUrlsKeeper interface {
	GetUserUrls(ctx context.Context, userID string) (map[string]string, error)
	GetNumberOfShortenedURLs(ctx context.Context) (int64, error)
	GetNumberOfUsers(ctx context.Context) (int64, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

type storage interface {
	userKeeper
	urlsMapper
	userUrlsKeeper
	pinger
}

type keyGenerator interface {
	Generate() string
}

// Service holds the storage backend, the short key generator, and the base
// used to render absolute short URLs.
type Service struct {
	db           storage
	keys         keyGenerator
	shortURLBase string
}

func New(db storage, keys keyGenerator, shortURLBase string) *Service {
	return &Service{
		db:           db,
		keys:         keys,
		shortURLBase: shortURLBase,
	}
}

// RegisterUser creates an account for the given credentials.
// It returns models.ErrValidation when either field is blank and
// models.ErrEmailTaken when the email is already registered. The password is
// hashed with bcrypt exactly once, here, from the submitted plaintext.
func (s *Service) RegisterUser(ctx context.Context, email, password string) (*user.User, error) {
	if email == "" || password == "" {
		return nil, models.ErrValidation
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error while `bcrypt.GenerateFromPassword()` calling: %w", err)
	}

	usr := &user.User{
		Email:        email,
		PasswordHash: string(passwordHash),
	}
	if _, err := s.db.CreateUser(ctx, usr); err != nil {
		return nil, err
	}

	return usr, nil
}

// AuthenticateUser verifies the credentials against the stored bcrypt hash.
// The comparison goes through bcrypt.CompareHashAndPassword, never plaintext
// equality. Unknown emails yield models.ErrUserNotFound; a hash mismatch
// yields models.ErrInvalidPassword.
func (s *Service) AuthenticateUser(ctx context.Context, email, password string) (*user.User, error) {
	usr, found, err := s.db.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, models.ErrUserNotFound
	}

	if bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(password)) != nil {
		return nil, models.ErrInvalidPassword
	}

	return usr, nil
}

// ShortenURL generates a short key for the URL, stores the mapping under the
// given owner and returns the absolute short URL. The operation always
// succeeds: a generated key that collides with an existing record overwrites it.
func (s *Service) ShortenURL(ctx context.Context, urlToShort, userID string) (string, error) {
	short := s.keys.Generate()
	if err := s.db.InsertURLMapping(ctx, short, urlToShort, userID); err != nil {
		return "", err
	}

	return s.GetShortURL(short), nil
}

// GetOriginalURL resolves a short key for the public redirect path.
func (s *Service) GetOriginalURL(ctx context.Context, short string) (string, bool, error) {
	return s.db.FindFullByShort(ctx, short)
}

// GetUserURLs lists the records owned by userID, with short keys rendered as
// absolute short URLs.
func (s *Service) GetUserURLs(ctx context.Context, userID string) (models.UserUrls, error) {
	urls, err := s.db.GetUserUrls(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := funk.Map(urls, func(short, full string) models.UserURL {
		return models.UserURL{
			ShortURL:    s.GetShortURL(short),
			OriginalURL: full,
		}
	}).([]models.UserURL)

	return result, nil
}

// IsUserURL reports whether the short key exists and belongs to userID.
func (s *Service) IsUserURL(ctx context.Context, short, userID string) (bool, error) {
	return s.db.IsUserURL(ctx, short, userID)
}

// UpdateUserURL replaces the original URL of an owned record.
// Missing keys yield models.ErrShortURLNotFound before any ownership check;
// foreign keys yield models.ErrForeignURL.
func (s *Service) UpdateUserURL(ctx context.Context, short, userID, newURL string) error {
	return s.db.UpdateUserURL(ctx, short, userID, newURL)
}

// DeleteUserURL removes an owned record under the same preconditions as
// UpdateUserURL.
func (s *Service) DeleteUserURL(ctx context.Context, short, userID string) error {
	return s.db.DeleteUserURL(ctx, short, userID)
}

// GetInternalStats returns totals of shortened URLs and registered users.
func (s *Service) GetInternalStats(ctx context.Context) (models.InternalStatsResponse, error) {
	urls, err := s.db.GetNumberOfShortenedURLs(ctx)
	if err != nil {
		return models.InternalStatsResponse{}, err
	}

	users, err := s.db.GetNumberOfUsers(ctx)
	if err != nil {
		return models.InternalStatsResponse{}, err
	}

	return models.InternalStatsResponse{
		URLs:  urls,
		Users: users,
	}, nil
}

// Ping checks the health of the storage layer.
func (s *Service) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// GetShortURL renders a short key as an absolute short URL.
func (s *Service) GetShortURL(shortKey string) string {
	return strings.TrimRight(s.shortURLBase, "/") + "/u/" + shortKey
}
