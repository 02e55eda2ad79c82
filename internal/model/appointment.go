package model

import (
	"time"

	"github.com/google/uuid"
)

// Appointment channel constants describe how the booking was made.
const (
	AppointmentChannelAdmin    = "admin"
	AppointmentChannelWhatsApp = "whatsapp"
)

// Appointment binds a professional to a class of a training. Status is a
// free-text string drawn from the class-status registry; every status
// change appends exactly one history row.
type Appointment struct {
	Base
	ProfessionalID uuid.UUID  `json:"professional_id" db:"professional_id"`
	TrainingID     uuid.UUID  `json:"training_id" db:"training_id"`
	ClassID        *uuid.UUID `json:"class_id,omitempty" db:"class_id"`
	Channel        string     `json:"channel" db:"channel"`
	Status         string     `json:"status" db:"status"`
	Notes          string     `json:"notes,omitempty" db:"notes"`
}

// AppointmentHistory is an immutable record of one status transition.
type AppointmentHistory struct {
	ID            uuid.UUID `json:"id" db:"id"`
	AppointmentID uuid.UUID `json:"appointment_id" db:"appointment_id"`
	Status        string    `json:"status" db:"status"`
	Actor         string    `json:"actor" db:"actor"`
	ChangedAt     time.Time `json:"changed_at" db:"changed_at"`
}

type CreateAppointmentRequest struct {
	ProfessionalID string `json:"professional_id" binding:"required,uuid"`
	TrainingID     string `json:"training_id" binding:"required,uuid"`
	ClassID        string `json:"class_id" binding:"omitempty,uuid"`
	Channel        string `json:"channel" binding:"omitempty,oneof=admin whatsapp"`
	Status         string `json:"status"`
	Notes          string `json:"notes" binding:"max=1000"`
}

type UpdateAppointmentRequest struct {
	ClassID *string `json:"class_id" binding:"omitempty,uuid"`
	Status  *string `json:"status"`
	Notes   *string `json:"notes" binding:"omitempty,max=1000"`
}

type AppointmentFilters struct {
	ProfessionalID uuid.UUID
	TrainingID     uuid.UUID
	ClassID        uuid.UUID
	Status         string
}
