package service

import (
	"errors"
	"fmt"
)

// Sentinel errors for expected business conditions. Handlers match them with
// errors.Is and translate them to HTTP status codes; anything else is treated
// as an internal failure.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrSellerNotFound = errors.New("seller not found")
	ErrAdvertNotFound = errors.New("advert not found")
	ErrImageNotFound  = errors.New("image not found")

	ErrEmailTaken      = errors.New("email already registered")
	ErrSellerExists    = errors.New("seller already exists")
	ErrFavoriteExists  = errors.New("favorite already exists")
	ErrFavoriteMissing = errors.New("favorite does not exist")
	ErrPrimaryImage    = errors.New("primary image cannot be deleted")

	ErrNotASeller       = errors.New("only sellers can create adverts")
	ErrNotOwner         = errors.New("caller does not own this advert")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrNoValidImages    = errors.New("no valid images were provided")
	ErrNoImagesUploaded = errors.New("no images could be uploaded")
	ErrImageLimit       = errors.New("advert image limit exceeded")
)

// ValidationError carries field-level validation messages.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Messages)
}

// NewValidationError builds a ValidationError from one or more messages.
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

// AsValidation extracts a *ValidationError from err, if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
