// Package services holds the business operations behind the HTTP handlers.
package services

import (
	"errors"
	"time"

	"github.com/Kartik1014/Rentit/internal/apperr"
	"github.com/Kartik1014/Rentit/internal/auth"
	"github.com/Kartik1014/Rentit/internal/events"
	"github.com/Kartik1014/Rentit/internal/repository"
	"github.com/Kartik1014/Rentit/internal/storage"
	"github.com/Kartik1014/Rentit/internal/validation"
	"go.uber.org/zap"
)

type Deps struct {
	Store     repository.Store
	Tokens    *auth.TokenManager
	Storage   storage.Storage
	Publisher events.Publisher
	Logger    *zap.Logger
	ResetTTL  time.Duration
	Now       func() time.Time
}

type Services struct {
	Auth       *AuthService
	Properties *PropertyService
	Bookings   *BookingService
	Reviews    *ReviewService
	Admin      *AdminService
	Images     *ImageService
}

func New(deps Deps) *Services {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Publisher == nil {
		deps.Publisher = events.Nop{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.ResetTTL <= 0 {
		deps.ResetTTL = time.Hour
	}

	v := validation.New()

	return &Services{
		Auth:       NewAuthService(deps.Store, deps.Tokens, v, deps.ResetTTL, deps.Now, deps.Logger),
		Properties: NewPropertyService(deps.Store, v, deps.Logger),
		Bookings:   NewBookingService(deps.Store, v, deps.Publisher, deps.Now, deps.Logger),
		Reviews:    NewReviewService(deps.Store, v, deps.Logger),
		Admin:      NewAdminService(deps.Store, deps.Logger),
		Images:     NewImageService(deps.Storage, deps.Logger),
	}
}

// lookup turns repository.ErrNotFound into a NotFound with msg and leaves
// application errors untouched. Anything else becomes Internal.
func lookup(err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(msg)
	}
	return internal(err)
}

func internal(err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperr.Internal(err)
}
