// Package memorystorage implements the in-memory storage backend.
// Both the user directory and the URL registry live in process memory and are
// guarded by a single RWMutex, so every read-check-then-write sequence is
// atomic with respect to concurrent requests.
package memorystorage

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/DavidGir/tinyapp/internal/models"
	"github.com/DavidGir/tinyapp/internal/user"
)

// URLRecord is a single short key mapping together with its owner.
type URLRecord struct {
	OriginalURL string
	UserID      string
}

// MemoryStorage keeps users and URL records in maps.
// The zero value is not usable; construct instances via New.
type MemoryStorage struct {
	mu    sync.RWMutex
	users map[string]*user.User
	urls  map[string]URLRecord
}

func New() (*MemoryStorage, error) {
	return &MemoryStorage{
		users: map[string]*user.User{},
		urls:  map[string]URLRecord{},
	}, nil
}

// CreateUser stores a new user under a freshly generated UUID and returns it.
// The duplicate-email check happens under the write lock, so two concurrent
// registrations of the same email cannot both succeed.
func (theStorage *MemoryStorage) CreateUser(ctx context.Context, usr *user.User) (string, error) {
	theStorage.mu.Lock()
	defer theStorage.mu.Unlock()

	for _, existing := range theStorage.users {
		if existing.Email == usr.Email {
			return "", models.ErrEmailTaken
		}
	}

	usr.ID = uuid.New().String()
	theStorage.users[usr.ID] = &user.User{
		ID:           usr.ID,
		Email:        usr.Email,
		PasswordHash: usr.PasswordHash,
	}

	return usr.ID, nil
}

// GetUserByID returns the user with the given ID, or found == false.
func (theStorage *MemoryStorage) GetUserByID(ctx context.Context, userID string) (*user.User, bool, error) {
	theStorage.mu.RLock()
	defer theStorage.mu.RUnlock()

	usr, found := theStorage.users[userID]
	if !found {
		return nil, false, nil
	}
	usrCopy := *usr

	return &usrCopy, true, nil
}

// FindUserByEmail scans all users for an exact, case-sensitive email match.
// Absence is reported through the found flag, never as an error.
func (theStorage *MemoryStorage) FindUserByEmail(ctx context.Context, email string) (*user.User, bool, error) {
	theStorage.mu.RLock()
	defer theStorage.mu.RUnlock()

	for _, usr := range theStorage.users {
		if usr.Email == email {
			usrCopy := *usr
			return &usrCopy, true, nil
		}
	}

	return nil, false, nil
}

// InsertURLMapping stores a short-to-original mapping owned by userID.
// An existing record under the same key is overwritten; the last writer wins.
func (theStorage *MemoryStorage) InsertURLMapping(ctx context.Context, short, full, userID string) error {
	theStorage.mu.Lock()
	defer theStorage.mu.Unlock()

	theStorage.urls[short] = URLRecord{
		OriginalURL: full,
		UserID:      userID,
	}

	return nil
}

// FindFullByShort resolves a short key to its original URL. The lookup carries
// no ownership check since redirection is public.
func (theStorage *MemoryStorage) FindFullByShort(ctx context.Context, short string) (string, bool, error) {
	theStorage.mu.RLock()
	defer theStorage.mu.RUnlock()

	record, found := theStorage.urls[short]
	if !found {
		return "", false, nil
	}

	return record.OriginalURL, true, nil
}

// IsUserURL reports whether the short key exists and belongs to userID.
func (theStorage *MemoryStorage) IsUserURL(ctx context.Context, short, userID string) (bool, error) {
	theStorage.mu.RLock()
	defer theStorage.mu.RUnlock()

	record, found := theStorage.urls[short]

	return found && record.UserID == userID, nil
}

// UpdateUserURL replaces the original URL of an owned record in place.
// Existence is checked before ownership so the caller can distinguish
// models.ErrShortURLNotFound from models.ErrForeignURL.
func (theStorage *MemoryStorage) UpdateUserURL(ctx context.Context, short, userID, full string) error {
	theStorage.mu.Lock()
	defer theStorage.mu.Unlock()

	record, found := theStorage.urls[short]
	if !found {
		return models.ErrShortURLNotFound
	}
	if record.UserID != userID {
		return models.ErrForeignURL
	}

	record.OriginalURL = full
	theStorage.urls[short] = record

	return nil
}

// DeleteUserURL removes an owned record. The precondition checks mirror
// UpdateUserURL.
func (theStorage *MemoryStorage) DeleteUserURL(ctx context.Context, short, userID string) error {
	theStorage.mu.Lock()
	defer theStorage.mu.Unlock()

	record, found := theStorage.urls[short]
	if !found {
		return models.ErrShortURLNotFound
	}
	if record.UserID != userID {
		return models.ErrForeignURL
	}

	delete(theStorage.urls, short)

	return nil
}

// GetUserUrls returns the short-to-original mapping of all records owned by
// userID. A user without records gets an empty map.
func (theStorage *MemoryStorage) GetUserUrls(ctx context.Context, userID string) (map[string]string, error) {
	theStorage.mu.RLock()
	defer theStorage.mu.RUnlock()

	result := map[string]string{}
	for short, record := range theStorage.urls {
		if record.UserID == userID {
			result[short] = record.OriginalURL
		}
	}

	return result, nil
}

func (theStorage *MemoryStorage) GetNumberOfShortenedURLs(ctx context.Context) (int64, error) {
	theStorage.mu.RLock()
	defer theStorage.mu.RUnlock()

	return int64(len(theStorage.urls)), nil
}

func (theStorage *MemoryStorage) GetNumberOfUsers(ctx context.Context) (int64, error) {
	theStorage.mu.RLock()
	defer theStorage.mu.RUnlock()

	return int64(len(theStorage.users)), nil
}

func (theStorage *MemoryStorage) Ping(ctx context.Context) error {
	return nil
}

func (theStorage *MemoryStorage) Close() error {
	return nil
}
