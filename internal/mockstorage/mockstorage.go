// Package mockstorage provides a testify-based mock implementation of the
// storage interfaces consumed by the service and router packages.
// It is used in unit tests to simulate storage behavior and failures.
package mockstorage

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/DavidGir/tinyapp/internal/user"
)

// StorageMock is a testify mock that implements all storage interfaces
// used by the service layer.
type StorageMock struct {
	mock.Mock
}

// CreateUser mocks storing a new user.
func (m *StorageMock) CreateUser(ctx context.Context, usr *user.User) (string, error) {
	args := m.Called(ctx, usr)
	return args.String(0), args.Error(1)
}

// GetUserByID mocks the lookup of a user by ID.
func (m *StorageMock) GetUserByID(ctx context.Context, userID string) (*user.User, bool, error) {
	args := m.Called(ctx, userID)
	usr, _ := args.Get(0).(*user.User)
	return usr, args.Bool(1), args.Error(2)
}

// FindUserByEmail mocks the linear email scan.
func (m *StorageMock) FindUserByEmail(ctx context.Context, email string) (*user.User, bool, error) {
	args := m.Called(ctx, email)
	usr, _ := args.Get(0).(*user.User)
	return usr, args.Bool(1), args.Error(2)
}

// InsertURLMapping mocks storing a short URL record.
func (m *StorageMock) InsertURLMapping(ctx context.Context, short, full, userID string) error {
	args := m.Called(ctx, short, full, userID)
	return args.Error(0)
}

// FindFullByShort mocks the public resolve path.
func (m *StorageMock) FindFullByShort(ctx context.Context, short string) (string, bool, error) {
	args := m.Called(ctx, short)
	return args.String(0), args.Bool(1), args.Error(2)
}

// IsUserURL mocks the ownership check.
func (m *StorageMock) IsUserURL(ctx context.Context, short, userID string) (bool, error) {
	args := m.Called(ctx, short, userID)
	return args.Bool(0), args.Error(1)
}

// UpdateUserURL mocks the owner-gated update.
func (m *StorageMock) UpdateUserURL(ctx context.Context, short, userID, full string) error {
	args := m.Called(ctx, short, userID, full)
	return args.Error(0)
}

// DeleteUserURL mocks the owner-gated delete.
func (m *StorageMock) DeleteUserURL(ctx context.Context, short, userID string) error {
	args := m.Called(ctx, short, userID)
	return args.Error(0)
}

// GetUserUrls mocks the owner-scoped listing.
func (m *StorageMock) GetUserUrls(ctx context.Context, userID string) (map[string]string, error) {
	args := m.Called(ctx, userID)
	urls, _ := args.Get(0).(map[string]string)
	return urls, args.Error(1)
}

// GetNumberOfShortenedURLs mocks the URL counter.
func (m *StorageMock) GetNumberOfShortenedURLs(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// GetNumberOfUsers mocks the user counter.
func (m *StorageMock) GetNumberOfUsers(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// Ping mocks the storage health check.
func (m *StorageMock) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close mocks releasing the storage.
func (m *StorageMock) Close() error {
	args := m.Called()
	return args.Error(0)
}
