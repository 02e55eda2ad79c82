package model

import (
	"time"

	"github.com/google/uuid"
)

// Class is a concrete offering of a training on a date/time range. The
// status is a free-text string constrained only by the class-status
// registry at the edit surface, not by the database.
type Class struct {
	Base
	TrainingID uuid.UUID `json:"training_id" db:"training_id"`
	StartTime  time.Time `json:"start_time" db:"start_time"`
	EndTime    time.Time `json:"end_time" db:"end_time"`
	Capacity   int       `json:"capacity" db:"capacity"`
	Status     string    `json:"status" db:"status"`
	Location   string    `json:"location" db:"location"`
}

type CreateClassRequest struct {
	TrainingID string    `json:"training_id" binding:"required,uuid"`
	StartTime  time.Time `json:"start_time" binding:"required"`
	EndTime    time.Time `json:"end_time" binding:"required,gtfield=StartTime"`
	Capacity   int       `json:"capacity" binding:"required,gt=0"`
	Status     string    `json:"status"`
	Location   string    `json:"location"`
}

type UpdateClassRequest struct {
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	Capacity  *int       `json:"capacity" binding:"omitempty,gt=0"`
	Status    *string    `json:"status"`
	Location  *string    `json:"location"`
}

// ClassStatus is a user-managed vocabulary entry for class and
// appointment status fields. Names are not unique and deleting an entry
// never cascades to rows that stored its name.
type ClassStatus struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// DefaultClassStatuses seeds the registry on first start.
func DefaultClassStatuses() []ClassStatus {
	return []ClassStatus{
		{ID: "planned", Name: "Planned", Color: "#64748b"},
		{ID: "scheduled", Name: "Scheduled", Color: "#a855f7"},
		{ID: "open", Name: "Open", Color: "#22c55e"},
		{ID: "full", Name: "Full", Color: "#f59e0b"},
		{ID: "cancelled", Name: "Cancelled", Color: "#ef4444"},
		{ID: "completed", Name: "Completed", Color: "#3b82f6"},
	}
}
