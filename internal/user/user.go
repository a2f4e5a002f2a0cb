// Package user defines the user model used for authentication and
// user-specific URL ownership.
package user

// User represents a registered account.
//
// Email is the login key and is matched case-sensitively. PasswordHash holds
// the bcrypt hash of the credential; the plaintext is never stored.
type User struct {
	// ID is the unique identifier of the user, meaning a UUID.
	ID string

	Email        string
	PasswordHash string
}
