package model

import (
	"time"

	"github.com/google/uuid"
)

// Communication delivery status constants
const (
	CommunicationStatusSent   = "sent"
	CommunicationStatusFailed = "failed"
)

// Communication is an append-only record of one outbound notification
// delivery attempt. Failed deliveries are recorded here instead of
// failing the action that triggered them.
type Communication struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Kind      string    `json:"kind" db:"kind"`
	Channel   string    `json:"channel" db:"channel"`
	Recipient string    `json:"recipient" db:"recipient"`
	Content   string    `json:"content" db:"content"`
	Status    string    `json:"status" db:"status"`
	LastError string    `json:"last_error,omitempty" db:"last_error"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
