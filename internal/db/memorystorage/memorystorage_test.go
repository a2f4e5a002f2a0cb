package memorystorage

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DavidGir/tinyapp/internal/models"
	"github.com/DavidGir/tinyapp/internal/user"
)

func TestUsers(t *testing.T) {
	t.Run("created users are findable by ID and email", func(t *testing.T) {
		theStorage, err := New()
		require.NoError(t, err)

		userID, err := theStorage.CreateUser(context.Background(), &user.User{
			Email:        "alice@example.com",
			PasswordHash: "some hash",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, userID)

		usr, found, err := theStorage.GetUserByID(context.Background(), userID)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "alice@example.com", usr.Email)

		usr, found, err = theStorage.FindUserByEmail(context.Background(), "alice@example.com")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, userID, usr.ID)
	})

	t.Run("absent users are reported through the found flag", func(t *testing.T) {
		theStorage, err := New()
		require.NoError(t, err)

		_, found, err := theStorage.FindUserByEmail(context.Background(), "nonexistent@example.com")
		require.NoError(t, err)
		assert.False(t, found)

		_, found, err = theStorage.GetUserByID(context.Background(), "no-such-id")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("email matching is case-sensitive", func(t *testing.T) {
		theStorage, err := New()
		require.NoError(t, err)

		_, err = theStorage.CreateUser(context.Background(), &user.User{Email: "Alice@example.com"})
		require.NoError(t, err)

		_, found, err := theStorage.FindUserByEmail(context.Background(), "alice@example.com")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("duplicate emails are rejected", func(t *testing.T) {
		theStorage, err := New()
		require.NoError(t, err)

		_, err = theStorage.CreateUser(context.Background(), &user.User{Email: "alice@example.com"})
		require.NoError(t, err)

		_, err = theStorage.CreateUser(context.Background(), &user.User{Email: "alice@example.com"})
		assert.ErrorIs(t, err, models.ErrEmailTaken)
	})
}

func TestURLs(t *testing.T) {
	t.Run("inserted mappings resolve to the original URL", func(t *testing.T) {
		theStorage, err := New()
		require.NoError(t, err)

		err = theStorage.InsertURLMapping(context.Background(), "b2xVn2", "http://www.lighthouselabs.ca", "owner-1")
		require.NoError(t, err)

		full, found, err := theStorage.FindFullByShort(context.Background(), "b2xVn2")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "http://www.lighthouselabs.ca", full)
	})

	t.Run("a colliding insert overwrites and the last writer wins", func(t *testing.T) {
		theStorage, err := New()
		require.NoError(t, err)

		require.NoError(t, theStorage.InsertURLMapping(context.Background(), "b2xVn2", "http://first.example", "owner-1"))
		require.NoError(t, theStorage.InsertURLMapping(context.Background(), "b2xVn2", "http://second.example", "owner-2"))

		full, found, err := theStorage.FindFullByShort(context.Background(), "b2xVn2")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "http://second.example", full)

		isOwner, err := theStorage.IsUserURL(context.Background(), "b2xVn2", "owner-2")
		require.NoError(t, err)
		assert.True(t, isOwner)
	})

	t.Run("ownership checks", func(t *testing.T) {
		theStorage, err := New()
		require.NoError(t, err)

		require.NoError(t, theStorage.InsertURLMapping(context.Background(), "9sm5xK", "http://www.google.com", "owner-1"))

		isOwner, err := theStorage.IsUserURL(context.Background(), "9sm5xK", "owner-1")
		require.NoError(t, err)
		assert.True(t, isOwner)

		isOwner, err = theStorage.IsUserURL(context.Background(), "9sm5xK", "owner-2")
		require.NoError(t, err)
		assert.False(t, isOwner)

		isOwner, err = theStorage.IsUserURL(context.Background(), "unknown", "owner-1")
		require.NoError(t, err)
		assert.False(t, isOwner)
	})

	t.Run("update checks existence before ownership", func(t *testing.T) {
		theStorage, err := New()
		require.NoError(t, err)

		require.NoError(t, theStorage.InsertURLMapping(context.Background(), "9sm5xK", "http://www.google.com", "owner-1"))

		err = theStorage.UpdateUserURL(context.Background(), "unknown", "owner-1", "http://new.example")
		assert.ErrorIs(t, err, models.ErrShortURLNotFound)

		err = theStorage.UpdateUserURL(context.Background(), "9sm5xK", "owner-2", "http://evil.test")
		assert.ErrorIs(t, err, models.ErrForeignURL)

		err = theStorage.UpdateUserURL(context.Background(), "9sm5xK", "owner-1", "http://new.example")
		require.NoError(t, err)

		full, found, err := theStorage.FindFullByShort(context.Background(), "9sm5xK")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "http://new.example", full)
	})

	t.Run("delete checks existence before ownership", func(t *testing.T) {
		theStorage, err := New()
		require.NoError(t, err)

		require.NoError(t, theStorage.InsertURLMapping(context.Background(), "9sm5xK", "http://www.google.com", "owner-1"))

		err = theStorage.DeleteUserURL(context.Background(), "unknown", "owner-1")
		assert.ErrorIs(t, err, models.ErrShortURLNotFound)

		err = theStorage.DeleteUserURL(context.Background(), "9sm5xK", "owner-2")
		assert.ErrorIs(t, err, models.ErrForeignURL)

		err = theStorage.DeleteUserURL(context.Background(), "9sm5xK", "owner-1")
		require.NoError(t, err)

		_, found, err := theStorage.FindFullByShort(context.Background(), "9sm5xK")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("GetUserUrls filters by owner", func(t *testing.T) {
		theStorage, err := New()
		require.NoError(t, err)

		urls, err := theStorage.GetUserUrls(context.Background(), "owner-1")
		require.NoError(t, err)
		assert.Empty(t, urls)

		require.NoError(t, theStorage.InsertURLMapping(context.Background(), "b2xVn2", "http://www.lighthouselabs.ca", "owner-1"))
		require.NoError(t, theStorage.InsertURLMapping(context.Background(), "9sm5xK", "http://www.google.com", "owner-1"))
		require.NoError(t, theStorage.InsertURLMapping(context.Background(), "a1b2c3", "http://example.org", "owner-2"))

		urls, err = theStorage.GetUserUrls(context.Background(), "owner-1")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			"b2xVn2": "http://www.lighthouselabs.ca",
			"9sm5xK": "http://www.google.com",
		}, urls)
	})
}

func TestConcurrentAccess(t *testing.T) {
	t.Run("concurrent registrations of one email cannot both succeed", func(t *testing.T) {
		theStorage, err := New()
		require.NoError(t, err)

		const attempts = 16
		errs := make([]error, attempts)

		var wg sync.WaitGroup
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = theStorage.CreateUser(context.Background(), &user.User{Email: "alice@example.com"})
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
			} else {
				assert.ErrorIs(t, err, models.ErrEmailTaken)
			}
		}
		assert.Equal(t, 1, succeeded, "exactly one registration should win the race")

		users, err := theStorage.GetNumberOfUsers(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(1), users)
	})

	t.Run("colliding inserts stay consistent and the last writer wins", func(t *testing.T) {
		theStorage, err := New()
		require.NoError(t, err)

		const writers = 16
		errs := make([]error, writers)

		var wg sync.WaitGroup
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = theStorage.InsertURLMapping(
					context.Background(),
					"b2xVn2",
					fmt.Sprintf("http://example.org/%d", i),
					fmt.Sprintf("owner-%d", i),
				)
			}(i)
		}
		wg.Wait()

		for _, err := range errs {
			assert.NoError(t, err)
		}

		full, found, err := theStorage.FindFullByShort(context.Background(), "b2xVn2")
		require.NoError(t, err)
		require.True(t, found)

		// The stored URL and owner must come from the same writer.
		var winner int
		_, err = fmt.Sscanf(full, "http://example.org/%d", &winner)
		require.NoError(t, err)

		isOwner, err := theStorage.IsUserURL(context.Background(), "b2xVn2", fmt.Sprintf("owner-%d", winner))
		require.NoError(t, err)
		assert.True(t, isOwner)
	})

	t.Run("a delete racing updates of one key resolves cleanly", func(t *testing.T) {
		theStorage, err := New()
		require.NoError(t, err)
		require.NoError(t, theStorage.InsertURLMapping(context.Background(), "9sm5xK", "http://www.google.com", "owner-1"))

		const workers = 8
		errs := make([]error, workers)

		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				if i == 0 {
					errs[i] = theStorage.DeleteUserURL(context.Background(), "9sm5xK", "owner-1")
					return
				}
				errs[i] = theStorage.UpdateUserURL(
					context.Background(),
					"9sm5xK",
					"owner-1",
					fmt.Sprintf("http://example.org/%d", i),
				)
			}(i)
		}
		wg.Wait()

		// The single delete always finds the key present; updates ordered
		// after it see a missing key, never a foreign one.
		assert.NoError(t, errs[0])
		for _, err := range errs[1:] {
			if err != nil {
				assert.ErrorIs(t, err, models.ErrShortURLNotFound)
			}
		}

		_, found, err := theStorage.FindFullByShort(context.Background(), "9sm5xK")
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestStatsPingAndClose(t *testing.T) {
	theStorage, err := New()
	require.NoError(t, err)

	_, err = theStorage.CreateUser(context.Background(), &user.User{Email: "alice@example.com"})
	require.NoError(t, err)
	require.NoError(t, theStorage.InsertURLMapping(context.Background(), "b2xVn2", "http://www.lighthouselabs.ca", "owner-1"))

	urls, err := theStorage.GetNumberOfShortenedURLs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), urls)

	users, err := theStorage.GetNumberOfUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), users)

	assert.NoError(t, theStorage.Ping(context.Background()))
	assert.NoError(t, theStorage.Close())
}
