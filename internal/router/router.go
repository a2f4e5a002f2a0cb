// Package router wires the HTTP surface of the service: account endpoints,
// the authenticated URL management API, and the public redirect path.
//
// Every mutating handler follows the same gate: resolve the session identity,
// reject anonymous requests with 401, then let the service distinguish a
// missing record (404) from a foreign one (403), strictly in that order.
package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/DavidGir/tinyapp/internal/auth"
	"github.com/DavidGir/tinyapp/internal/authenticator"
	"github.com/DavidGir/tinyapp/internal/gzippedhttp"
	"github.com/DavidGir/tinyapp/internal/ipchecker"
	"github.com/DavidGir/tinyapp/internal/logger"
	"github.com/DavidGir/tinyapp/internal/models"
	"github.com/DavidGir/tinyapp/internal/user"
)

type accountManager interface {
	RegisterUser(ctx context.Context, email, password string) (*user.User, error)
	AuthenticateUser(ctx context.Context, email, password string) (*user.User, error)
}

type urlShortener interface {
	ShortenURL(ctx context.Context, urlToShort, userID string) (string, error)
	GetOriginalURL(ctx context.Context, short string) (string, bool, error)
	GetUserURLs(ctx context.Context, userID string) (models.UserUrls, error)
	UpdateUserURL(ctx context.Context, short, userID, newURL string) error
	DeleteUserURL(ctx context.Context, short, userID string) error
}

type statsKeeper interface {
	GetInternalStats(ctx context.Context) (models.InternalStatsResponse, error)
	Ping(ctx context.Context) error
}

type shortenerService interface {
	accountManager
	urlShortener
	statsKeeper
}

// Router owns the handlers and their dependencies.
type Router struct {
	service   shortenerService
	auth      authenticator.Authenticator
	ipChecker *ipchecker.IPChecker
	validate  *validator.Validate
}

// New assembles the chi mux with logging, gzip, and session middleware.
func New(
	theService shortenerService,
	theAuth authenticator.Authenticator,
	theIPChecker *ipchecker.IPChecker,
) *chi.Mux {
	theRouter := &Router{
		service:   theService,
		auth:      theAuth,
		ipChecker: theIPChecker,
		validate:  validator.New(),
	}

	mux := chi.NewRouter()
	mux.Use(logger.WithLoggingHTTPMiddleware)
	mux.Use(gzippedhttp.UngzipRequest)
	mux.Use(gzippedhttp.GzipResponse)
	mux.Use(theAuth.AuthenticateUser)

	mux.Post(`/api/user/register`, theRouter.PostRegister)
	mux.Post(`/api/user/login`, theRouter.PostLogin)
	mux.Post(`/api/user/logout`, theRouter.PostLogout)

	mux.Post(`/api/shorten`, theRouter.PostShorten)
	mux.Get(`/api/user/urls`, theRouter.GetUserUrls)
	mux.Put(`/api/user/urls/{short}`, theRouter.PutUserURL)
	mux.Delete(`/api/user/urls/{short}`, theRouter.DeleteUserURL)

	mux.Get(`/api/internal/stats`, theRouter.GetInternalStats)
	mux.Get(`/ping`, theRouter.GetPing)
	mux.Get(`/u/{short}`, theRouter.GetRedirectToFullURL)

	return mux
}

func (r *Router) decodeAndValidate(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return err
	}

	return r.validate.Struct(target)
}

func writeJSON(response http.ResponseWriter, status int, payload interface{}) {
	response.Header().Set("Content-Type", "application/json")
	response.WriteHeader(status)
	if err := json.NewEncoder(response).Encode(payload); err != nil {
		logger.Log.Debugln("Error encoding the response payload: ", zap.Error(err))
	}
}

// PostRegister creates an account and establishes a session for it.
// Blank fields and duplicate emails both map to 400.
func (r *Router) PostRegister(response http.ResponseWriter, request *http.Request) {
	var credentials models.CredentialsRequest
	if err := r.decodeAndValidate(request, &credentials); err != nil {
		http.Error(response, err.Error(), http.StatusBadRequest)
		return
	}

	usr, err := r.service.RegisterUser(request.Context(), credentials.Email, credentials.Password)
	if errors.Is(err, models.ErrValidation) || errors.Is(err, models.ErrEmailTaken) {
		http.Error(response, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		logger.Log.Debugln("Error calling the `r.service.RegisterUser()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)
		return
	}

	if err := r.auth.EstablishSession(response, usr.ID); err != nil {
		logger.Log.Debugln("Error calling the `r.auth.EstablishSession()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)
		return
	}

	response.WriteHeader(http.StatusOK)
}

// PostLogin verifies the credentials and establishes a session.
// An unknown email and a wrong password both map to 403.
func (r *Router) PostLogin(response http.ResponseWriter, request *http.Request) {
	var credentials models.CredentialsRequest
	if err := r.decodeAndValidate(request, &credentials); err != nil {
		http.Error(response, err.Error(), http.StatusBadRequest)
		return
	}

	usr, err := r.service.AuthenticateUser(request.Context(), credentials.Email, credentials.Password)
	if errors.Is(err, models.ErrUserNotFound) || errors.Is(err, models.ErrInvalidPassword) {
		http.Error(response, err.Error(), http.StatusForbidden)
		return
	}
	if err != nil {
		logger.Log.Debugln("Error calling the `r.service.AuthenticateUser()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)
		return
	}

	if err := r.auth.EstablishSession(response, usr.ID); err != nil {
		logger.Log.Debugln("Error calling the `r.auth.EstablishSession()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)
		return
	}

	response.WriteHeader(http.StatusOK)
}

// PostLogout clears the session cookie. Logging out an anonymous client is
// not an error.
func (r *Router) PostLogout(response http.ResponseWriter, request *http.Request) {
	r.auth.ClearSession(response)
	response.WriteHeader(http.StatusOK)
}

// PostShorten creates a short URL owned by the session user.
func (r *Router) PostShorten(response http.ResponseWriter, request *http.Request) {
	userID := auth.UserIDFromContext(request.Context())
	if userID == "" {
		response.WriteHeader(http.StatusUnauthorized)
		return
	}

	var shortenRequest models.ShortenRequest
	if err := r.decodeAndValidate(request, &shortenRequest); err != nil {
		http.Error(response, err.Error(), http.StatusBadRequest)
		return
	}

	shortURL, err := r.service.ShortenURL(request.Context(), shortenRequest.URL, userID)
	if err != nil {
		logger.Log.Debugln("Error calling the `r.service.ShortenURL()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)
		return
	}

	writeJSON(response, http.StatusCreated, models.ShortenResponse{Result: shortURL})
}

// GetUserUrls lists the session user's records.
func (r *Router) GetUserUrls(response http.ResponseWriter, request *http.Request) {
	userID := auth.UserIDFromContext(request.Context())
	if userID == "" {
		response.WriteHeader(http.StatusUnauthorized)
		return
	}

	urls, err := r.service.GetUserURLs(request.Context(), userID)
	if err != nil {
		logger.Log.Debugln("Error calling the `r.service.GetUserURLs()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)
		return
	}
	if urls == nil {
		urls = models.UserUrls{}
	}

	writeJSON(response, http.StatusOK, urls)
}

// PutUserURL replaces the long URL of an owned record.
func (r *Router) PutUserURL(response http.ResponseWriter, request *http.Request) {
	userID := auth.UserIDFromContext(request.Context())
	if userID == "" {
		response.WriteHeader(http.StatusUnauthorized)
		return
	}

	var shortenRequest models.ShortenRequest
	if err := r.decodeAndValidate(request, &shortenRequest); err != nil {
		http.Error(response, err.Error(), http.StatusBadRequest)
		return
	}

	err := r.service.UpdateUserURL(request.Context(), chi.URLParam(request, "short"), userID, shortenRequest.URL)
	if r.writeOwnershipError(response, err) {
		return
	}

	response.WriteHeader(http.StatusOK)
}

// DeleteUserURL removes an owned record.
func (r *Router) DeleteUserURL(response http.ResponseWriter, request *http.Request) {
	userID := auth.UserIDFromContext(request.Context())
	if userID == "" {
		response.WriteHeader(http.StatusUnauthorized)
		return
	}

	err := r.service.DeleteUserURL(request.Context(), chi.URLParam(request, "short"), userID)
	if r.writeOwnershipError(response, err) {
		return
	}

	response.WriteHeader(http.StatusOK)
}

// writeOwnershipError maps the ownership-gate errors to their statuses:
// a missing key is 404, a foreign key is 403. It reports whether a response
// was written.
func (r *Router) writeOwnershipError(response http.ResponseWriter, err error) bool {
	switch {
	case err == nil:
		return false

	case errors.Is(err, models.ErrShortURLNotFound):
		http.Error(response, err.Error(), http.StatusNotFound)

	case errors.Is(err, models.ErrForeignURL):
		http.Error(response, err.Error(), http.StatusForbidden)

	default:
		logger.Log.Debugln("Error from the ownership gate: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)
	}

	return true
}

// GetRedirectToFullURL is the public redirect path; it performs no ownership
// check.
func (r *Router) GetRedirectToFullURL(response http.ResponseWriter, request *http.Request) {
	short := chi.URLParam(request, "short")

	full, found, err := r.service.GetOriginalURL(request.Context(), short)
	if err != nil {
		logger.Log.Debugln("Error calling the `r.service.GetOriginalURL()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)
		return
	}
	if !found {
		response.WriteHeader(http.StatusNotFound)
		return
	}

	http.Redirect(response, request, full, http.StatusTemporaryRedirect)
}

// GetPing reports storage health.
func (r *Router) GetPing(response http.ResponseWriter, request *http.Request) {
	if err := r.service.Ping(request.Context()); err != nil {
		logger.Log.Debugln("Error calling the `r.service.Ping()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)
		return
	}

	response.WriteHeader(http.StatusOK)
}

// GetInternalStats serves store totals to clients inside the trusted subnet.
func (r *Router) GetInternalStats(response http.ResponseWriter, request *http.Request) {
	clientIP, err := r.ipChecker.GetClientIP(request)
	if err != nil || !r.ipChecker.Check(clientIP) {
		response.WriteHeader(http.StatusForbidden)
		return
	}

	stats, err := r.service.GetInternalStats(request.Context())
	if err != nil {
		logger.Log.Debugln("Error calling the `r.service.GetInternalStats()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)
		return
	}

	writeJSON(response, http.StatusOK, stats)
}
