package creator

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/natepay/natepay/pkg/region"
	"github.com/natepay/natepay/pkg/utils"
)

var (
	// ErrCreatorNotFound is returned when a creator cannot be found in the
	// repository.
	ErrCreatorNotFound = errors.New("creator not found")
	// ErrCreatorUnauthorized is returned when a creator acts on a resource
	// they do not own.
	ErrCreatorUnauthorized = errors.New("creator unauthorized")
	// ErrUnsupportedCountry is returned for country codes outside the
	// region registry.
	ErrUnsupportedCountry = errors.New("unsupported country")
	// ErrHandleTaken is returned when the handle is already in use.
	ErrHandleTaken = errors.New("handle already taken")
	// ErrEmailTaken is returned when the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
)

// OnboardingStatus tracks how far a creator is through provider setup.
type OnboardingStatus string

const (
	OnboardingNone     OnboardingStatus = "none"
	OnboardingPending  OnboardingStatus = "pending"
	OnboardingComplete OnboardingStatus = "complete"
)

// Creator is an account holder with a public payment page.
type Creator struct {
	ID               uuid.UUID        `json:"id"`
	Handle           string           `json:"handle"`
	Email            string           `json:"email"`
	Password         string           `json:"password"`
	DisplayName      string           `json:"display_name"`
	Bio              string           `json:"bio"`
	CountryCode      string           `json:"country_code"`
	OnboardingStatus OnboardingStatus `json:"onboarding_status"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// New creates a Creator with a hashed password and current timestamps.
// The country must be in the region registry; it decides which payment
// providers the creator can onboard with.
func New(handle, email, password, countryCode string) (*Creator, error) {
	if handle == "" {
		return nil, errors.New("handle cannot be empty")
	}
	if email == "" {
		return nil, errors.New("email cannot be empty")
	}
	if !region.IsSupported(countryCode) {
		return nil, ErrUnsupportedCountry
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Creator{
		ID:               uuid.New(),
		Handle:           handle,
		Email:            email,
		Password:         hashed,
		CountryCode:      countryCode,
		OnboardingStatus: OnboardingNone,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}
