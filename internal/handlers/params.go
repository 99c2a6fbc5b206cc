package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"tradeBack/internal/models"
)

// getIntParam reads a pat path parameter as an int.
func getIntParam(r *http.Request, name string) (int, error) {
	return strconv.Atoi(r.URL.Query().Get(":" + name))
}

// userIDFrom returns the authenticated user id placed in the request
// context by the JWT middleware.
func userIDFrom(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(models.ContextKeyUserID).(int)
	return id, ok
}

// writeServiceError translates domain errors to HTTP statuses. Unknown
// errors are logged and reported as 500 without leaking detail.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNoRecord),
		errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrJobNotFound),
		errors.Is(err, models.ErrRequestNotFound),
		errors.Is(err, models.ErrChatNotFound),
		errors.Is(err, models.ErrCompletionNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, models.ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, models.ErrInvalidState):
		http.Error(w, "invalid state for this operation", http.StatusConflict)
	case errors.Is(err, models.ErrAlreadyReviewed):
		http.Error(w, "already reviewed", http.StatusConflict)
	case errors.Is(err, models.ErrDuplicateEmail):
		http.Error(w, "email already registered", http.StatusConflict)
	case errors.Is(err, models.ErrInvalidCode):
		http.Error(w, "invalid confirmation code", http.StatusBadRequest)
	case errors.Is(err, models.ErrInvalidRating):
		http.Error(w, "rating must be between 1 and 5", http.StatusBadRequest)
	case errors.Is(err, models.ErrEmptyMessage):
		http.Error(w, "message must not be empty", http.StatusBadRequest)
	case errors.Is(err, models.ErrSameUser):
		http.Error(w, "cannot target yourself", http.StatusBadRequest)
	case errors.Is(err, models.ErrInvalidCredentials):
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
	default:
		log.Printf("internal error: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
