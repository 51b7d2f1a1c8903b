package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreatorCreate represents the data needed to create a creator account.
type CreatorCreate struct {
	ID          uuid.UUID `json:"id"`
	Handle      string    `json:"handle" validate:"required,min=3,max=50"`
	Email       string    `json:"email" validate:"required,email"`
	Password    string    `json:"password,omitempty" validate:"required,min=6"`
	CountryCode string    `json:"country_code" validate:"required,len=2"`
}

// CreatorUpdate represents the fields a creator can change after signup.
type CreatorUpdate struct {
	DisplayName      *string `json:"display_name,omitempty" validate:"omitempty,max=100"`
	Bio              *string `json:"bio,omitempty" validate:"omitempty,max=500"`
	Email            *string `json:"email,omitempty" validate:"omitempty,email"`
	Password         *string `json:"password,omitempty" validate:"omitempty,min=6"`
	StripeAccountID  *string `json:"stripe_account_id,omitempty"`
	PaystackSubCode  *string `json:"paystack_subaccount_code,omitempty"`
	OnboardingStatus *string `json:"onboarding_status,omitempty"`
}

// CreatorRead is a read-optimized view of a creator.
type CreatorRead struct {
	ID               uuid.UUID `json:"id"`
	Handle           string    `json:"handle"`
	Email            string    `json:"email"`
	HashedPassword   string    `json:"-"`
	DisplayName      string    `json:"display_name"`
	Bio              string    `json:"bio"`
	CountryCode      string    `json:"country_code"`
	StripeAccountID  string    `json:"stripe_account_id,omitempty"`
	PaystackSubCode  string    `json:"paystack_subaccount_code,omitempty"`
	OnboardingStatus string    `json:"onboarding_status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
