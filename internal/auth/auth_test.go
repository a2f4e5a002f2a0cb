package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DavidGir/tinyapp/internal/db/memorystorage"
	"github.com/DavidGir/tinyapp/internal/logger"
	"github.com/DavidGir/tinyapp/internal/user"
)

const testCookieName = "tinyapp_session"

var testSigningKey = []byte("test-signing-key")

func init() {
	if err := logger.Init("debug"); err != nil {
		panic(err)
	}
}

func sessionCookie(t *testing.T, a *Auth, userID string) *http.Cookie {
	t.Helper()

	recorder := httptest.NewRecorder()
	require.NoError(t, a.EstablishSession(recorder, userID))

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)

	return cookies[0]
}

func userIDProbe(captured *string) http.Handler {
	return http.HandlerFunc(func(response http.ResponseWriter, request *http.Request) {
		*captured = UserIDFromContext(request.Context())
	})
}

func TestSessionRoundTrip(t *testing.T) {
	theStorage, err := memorystorage.New()
	require.NoError(t, err)

	userID, err := theStorage.CreateUser(context.Background(), &user.User{Email: "alice@example.com"})
	require.NoError(t, err)

	theAuth := New(theStorage, testCookieName, testSigningKey)

	t.Run("an established session authenticates subsequent requests", func(t *testing.T) {
		cookie := sessionCookie(t, theAuth, userID)

		var captured string
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.AddCookie(cookie)
		theAuth.AuthenticateUser(userIDProbe(&captured)).ServeHTTP(httptest.NewRecorder(), request)

		assert.Equal(t, userID, captured)
	})

	t.Run("a request without a cookie is anonymous", func(t *testing.T) {
		var captured string
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		theAuth.AuthenticateUser(userIDProbe(&captured)).ServeHTTP(httptest.NewRecorder(), request)

		assert.Empty(t, captured)
	})

	t.Run("a cookie signed with a different key is anonymous", func(t *testing.T) {
		foreignAuth := New(theStorage, testCookieName, []byte("another-signing-key"))
		cookie := sessionCookie(t, foreignAuth, userID)

		var captured string
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.AddCookie(cookie)
		theAuth.AuthenticateUser(userIDProbe(&captured)).ServeHTTP(httptest.NewRecorder(), request)

		assert.Empty(t, captured)
	})

	t.Run("a session for an unknown user is anonymous", func(t *testing.T) {
		cookie := sessionCookie(t, theAuth, "no-such-user")

		var captured string
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.AddCookie(cookie)
		theAuth.AuthenticateUser(userIDProbe(&captured)).ServeHTTP(httptest.NewRecorder(), request)

		assert.Empty(t, captured)
	})

	t.Run("ClearSession expires the cookie", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		theAuth.ClearSession(recorder)

		cookies := recorder.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Empty(t, cookies[0].Value)
		assert.Negative(t, cookies[0].MaxAge)
	})
}
