package model

import (
	"github.com/google/uuid"
)

// Instructor teaches trainings. Belongs to exactly one unit and is never
// hard-deleted through the API.
type Instructor struct {
	Base
	Name       string    `json:"name" db:"name"`
	NationalID string    `json:"national_id" db:"national_id"`
	Email      string    `json:"email" db:"email"`
	Phone      string    `json:"phone" db:"phone"`
	Specialty  string    `json:"specialty" db:"specialty"`
	UnitID     uuid.UUID `json:"unit_id" db:"unit_id"`
	AvatarURL  *string   `json:"avatar_url,omitempty" db:"avatar_url"`
	Active     bool      `json:"active" db:"active"`
}

type CreateInstructorRequest struct {
	Name       string `json:"name" binding:"required"`
	NationalID string `json:"national_id" binding:"required,nationalid"`
	Email      string `json:"email" binding:"omitempty,email"`
	Phone      string `json:"phone"`
	Specialty  string `json:"specialty" binding:"required"`
	UnitID     string `json:"unit_id" binding:"required,uuid"`
}

type UpdateInstructorRequest struct {
	Name      *string `json:"name"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Phone     *string `json:"phone"`
	Specialty *string `json:"specialty"`
	UnitID    *string `json:"unit_id" binding:"omitempty,uuid"`
	Active    *bool   `json:"active"`
}
