package model

import (
	"github.com/google/uuid"
)

// Training is a course definition. Its lifecycle is independent from the
// classes scheduled for it.
type Training struct {
	Base
	Name         string     `json:"name" db:"name"`
	Description  string     `json:"description" db:"description"`
	DurationMins int        `json:"duration_mins" db:"duration_mins"`
	Capacity     int        `json:"capacity" db:"capacity"`
	MaterialURL  *string    `json:"material_url,omitempty" db:"material_url"`
	InstructorID *uuid.UUID `json:"instructor_id,omitempty" db:"instructor_id"`
}

type CreateTrainingRequest struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	DurationMins int    `json:"duration_mins" binding:"required,gt=0"`
	Capacity     int    `json:"capacity" binding:"required,gt=0"`
	InstructorID string `json:"instructor_id" binding:"omitempty,uuid"`
}

type UpdateTrainingRequest struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	DurationMins *int    `json:"duration_mins" binding:"omitempty,gt=0"`
	Capacity     *int    `json:"capacity" binding:"omitempty,gt=0"`
	InstructorID *string `json:"instructor_id" binding:"omitempty,uuid"`
}
