package models

import "time"

// WorkshopRegistration is a stored contact/workshop-interest submission
type WorkshopRegistration struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         *string   `json:"phone"`
	Role          string    `json:"role"`
	SecondaryRole *string   `json:"secondaryRole"`
	Experience    *string   `json:"experience"`
	Availability  *string   `json:"availability"`
	Message       *string   `json:"message"`
	CreatedAt     time.Time `json:"createdAt"`
}

// RegistrationInput is the body accepted by the registration endpoint
type RegistrationInput struct {
	Name          string  `json:"name" validate:"required,max=200"`
	Email         string  `json:"email" validate:"required,email"`
	Phone         *string `json:"phone,omitempty" validate:"omitempty,max=2000"`
	Role          string  `json:"role" validate:"required"`
	SecondaryRole *string `json:"secondaryRole,omitempty" validate:"omitempty,max=2000"`
	Experience    *string `json:"experience,omitempty" validate:"omitempty,max=2000"`
	Availability  *string `json:"availability,omitempty" validate:"omitempty,max=2000"`
	Message       *string `json:"message,omitempty" validate:"omitempty,max=2000"`
}
