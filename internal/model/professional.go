package model

import (
	"github.com/google/uuid"
)

// Professional status constants
const (
	ProfessionalStatusActive   = "active"
	ProfessionalStatusInactive = "inactive"
)

// Professional is a health worker enrolled in trainings. The national ID
// is the natural key: creating a professional with an ID that already
// exists updates the existing row instead of inserting a duplicate.
type Professional struct {
	Base
	Name       string     `json:"name" db:"name"`
	NationalID string     `json:"national_id" db:"national_id"`
	Email      string     `json:"email" db:"email"`
	Phone      string     `json:"phone" db:"phone"`
	Role       string     `json:"role" db:"role"`
	UnitID     *uuid.UUID `json:"unit_id" db:"unit_id"`
	AvatarURL  *string    `json:"avatar_url,omitempty" db:"avatar_url"`
	Status     string     `json:"status" db:"status"`
}

type CreateProfessionalRequest struct {
	Name       string `json:"name" binding:"required"`
	NationalID string `json:"national_id" binding:"required,nationalid"`
	Email      string `json:"email" binding:"omitempty,email"`
	Phone      string `json:"phone"`
	Role       string `json:"role"`
	UnitID     string `json:"unit_id" binding:"omitempty,uuid"`
}

type UpdateProfessionalRequest struct {
	Name   *string `json:"name"`
	Email  *string `json:"email" binding:"omitempty,email"`
	Phone  *string `json:"phone"`
	Role   *string `json:"role"`
	UnitID *string `json:"unit_id" binding:"omitempty,uuid"`
	Status *string `json:"status" binding:"omitempty,oneof=active inactive"`
}

type ProfessionalFilters struct {
	UnitID     uuid.UUID
	Status     string
	SearchTerm string
}
