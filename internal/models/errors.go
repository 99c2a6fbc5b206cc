package models

import (
	"errors"
)

var (
	ErrNoRecord           = errors.New("models: no matching record found")
	ErrInvalidCredentials = errors.New("models: invalid credentials")
	ErrDuplicateEmail     = errors.New("models: duplicate email")
	ErrUserNotFound       = errors.New("models: user not found")
	ErrJobNotFound        = errors.New("job not found")
	ErrRequestNotFound    = errors.New("job request not found")
	ErrChatNotFound       = errors.New("chat not found")
	ErrCompletionNotFound = errors.New("open job completion not found")

	ErrForbidden    = errors.New("forbidden")
	ErrInvalidState = errors.New("operation not valid for current status")
	ErrInvalidCode  = errors.New("invalid confirmation code")

	ErrAlreadyReviewed     = errors.New("request already reviewed")
	ErrAlreadyFavourite    = errors.New("tradesman already in favourites")
	ErrDuplicateActiveChat = errors.New("active chat already exists for pair")
	ErrDuplicateCode       = errors.New("confirmation code already taken")

	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	ErrEmptyMessage  = errors.New("message cannot be empty")
	ErrSameUser      = errors.New("chat requires two distinct users")
)
