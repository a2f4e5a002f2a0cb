// Package models contains the request/response DTOs shared by the service and
// the HTTP layer, together with the sentinel errors the boundary maps to
// HTTP statuses.
package models

import "errors"

// CredentialsRequest carries the login/registration form fields.
type CredentialsRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ShortenRequest struct {
	URL string `json:"url" validate:"required,url"`
}

type ShortenResponse struct {
	Result string `json:"result"`
}

// UserURL is a single owner-scoped listing entry. ShortURL is rendered as an
// absolute URL by the service layer.
type UserURL struct {
	ShortURL    string `json:"short_url"`
	OriginalURL string `json:"original_url"`
}

type UserUrls []UserURL

// InternalStatsResponse reports store totals to the trusted-subnet endpoint.
type InternalStatsResponse struct {
	URLs  int64 `json:"urls"`
	Users int64 `json:"users"`
}

// ErrValidation is returned when a registration field is blank.
var ErrValidation = errors.New("email and password must not be empty")

// ErrEmailTaken is returned when the email is already registered.
var ErrEmailTaken = errors.New("the email is already registered")

// ErrUserNotFound is returned when no user matches the given email.
var ErrUserNotFound = errors.New("no user registered with such email")

// ErrInvalidPassword is returned when the password does not match the stored hash.
var ErrInvalidPassword = errors.New("the password does not match")

// ErrShortURLNotFound is returned for operations targeting an unknown short key.
// It is checked strictly before ownership so that a missing key and a foreign
// key stay distinguishable.
var ErrShortURLNotFound = errors.New("unknown short URL key")

// ErrForeignURL is returned when the short key exists but belongs to another user.
var ErrForeignURL = errors.New("the URL belongs to another user")
