// Package auth implements cookie-based sessions. A session is a JWT signed
// with an HMAC secret, carried in a cookie, binding the request to a user ID.
// Login sets the cookie, logout expires it; a request without a valid cookie
// is treated as anonymous.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"github.com/DavidGir/tinyapp/internal/logger"
	"github.com/DavidGir/tinyapp/internal/user"
)

type userKeeper interface {
	GetUserByID(ctx context.Context, userID string) (*user.User, bool, error)
}

// Auth manages session cookies and user identification for HTTP requests.
type Auth struct {
	// db is the interface to the user data storage.
	db userKeeper

	// authCookieName is the name of the cookie used to store the session JWT.
	authCookieName string

	// authCookieSigningSecretKey is the key used to sign session JWTs.
	authCookieSigningSecretKey []byte
}

// Claims represents the session JWT claims.
// It embeds standard JWT claims and adds the user identifier.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// ContextKey is a custom type for storing values in context to avoid collisions.
type ContextKey string

// UserIDKey is the context key used to store and retrieve the authenticated
// user's ID. An empty value means the request is anonymous.
const UserIDKey ContextKey = "userID"

// New creates an Auth handler with the given user data access layer,
// cookie name, and JWT signing secret.
func New(db userKeeper, authCookieName string, authCookieSigningSecretKey []byte) *Auth {
	return &Auth{
		db:                         db,
		authCookieName:             authCookieName,
		authCookieSigningSecretKey: authCookieSigningSecretKey,
	}
}

// EstablishSession signs a JWT for userID and sets it as the session cookie.
// Login is atomic from the client's point of view: credentials are verified
// first and the cookie is written in the same response.
func (a *Auth) EstablishSession(response http.ResponseWriter, userID string) error {
	JWTString, err := a.buildJWTString(&Claims{UserID: userID})
	if err != nil {
		return fmt.Errorf("error while `a.buildJWTString()` calling: %w", err)
	}

	http.SetCookie(
		response,
		&http.Cookie{
			Name:     a.authCookieName,
			Value:    JWTString,
			Path:     "/",
			HttpOnly: true,
		},
	)

	return nil
}

// ClearSession expires the session cookie, returning the client to the
// anonymous state.
func (a *Auth) ClearSession(response http.ResponseWriter) {
	http.SetCookie(
		response,
		&http.Cookie{
			Name:     a.authCookieName,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			MaxAge:   -1,
			Expires:  time.Unix(0, 0),
		},
	)
}

// AuthenticateUser is an HTTP middleware that resolves the session cookie to
// a stored user and puts the user ID into the request context. Requests with
// a missing, invalid, or dangling session proceed as anonymous; the handlers
// decide whether anonymity is acceptable for the operation.
func (a *Auth) AuthenticateUser(h http.Handler) http.Handler {
	middleware := func(response http.ResponseWriter, request *http.Request) {
		userID := a.getUserIDFromCookie(request)
		if userID != "" {
			usr, found, err := a.db.GetUserByID(request.Context(), userID)
			if err != nil {
				logger.Log.Debugln("Error calling the `a.db.GetUserByID()`: ", zap.Error(err))
				response.WriteHeader(http.StatusInternalServerError)
				return
			}
			if !found {
				// A signed cookie referring to an unknown user, e.g. after a
				// process restart wiped the volatile store.
				userID = ""
			} else {
				userID = usr.ID
			}
		}

		ctx := context.WithValue(request.Context(), UserIDKey, userID)
		h.ServeHTTP(response, request.WithContext(ctx))
	}

	return http.HandlerFunc(middleware)
}

// UserIDFromContext extracts the authenticated user ID stored by
// AuthenticateUser. It returns an empty string for anonymous requests.
func UserIDFromContext(ctx context.Context) string {
	userID, ok := ctx.Value(UserIDKey).(string)
	if !ok {
		return ""
	}

	return userID
}

func (a *Auth) getUserIDFromCookie(request *http.Request) string {
	cookie, err := request.Cookie(a.authCookieName)
	if err != nil {
		return ""
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(
		cookie.Value,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return a.authCookieSigningSecretKey, nil
		},
	)
	if err != nil || !token.Valid {
		return ""
	}

	return claims.UserID
}

func (a *Auth) buildJWTString(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, *claims)

	tokenString, err := token.SignedString(a.authCookieSigningSecretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}
