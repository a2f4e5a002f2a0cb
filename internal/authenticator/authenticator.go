// Package authenticator declares the session management contract consumed by
// the router. It exists so handler tests can substitute a stub.
package authenticator

import "net/http"

type Authenticator interface {
	AuthenticateUser(h http.Handler) http.Handler
	EstablishSession(response http.ResponseWriter, userID string) error
	ClearSession(response http.ResponseWriter)
}
