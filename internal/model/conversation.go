package model

import (
	"time"

	"github.com/google/uuid"
)

// Message sender kinds
const (
	SenderUser  = "user"
	SenderBot   = "bot"
	SenderAgent = "agent"
)

// Conversation groups WhatsApp messages exchanged with one phone number,
// optionally linked to a professional.
type Conversation struct {
	Base
	Phone          string     `json:"phone" db:"phone"`
	DisplayName    string     `json:"display_name" db:"display_name"`
	ProfessionalID *uuid.UUID `json:"professional_id,omitempty" db:"professional_id"`
	LastMessageAt  *time.Time `json:"last_message_at,omitempty" db:"last_message_at"`
}

// Message is one entry in a conversation. Intent and BotAction are
// advisory annotations, never enforced.
type Message struct {
	ID             uuid.UUID `json:"id" db:"id"`
	ConversationID uuid.UUID `json:"conversation_id" db:"conversation_id"`
	Sender         string    `json:"sender" db:"sender"`
	Content        string    `json:"content" db:"content"`
	Intent         *string   `json:"intent,omitempty" db:"intent"`
	BotAction      *string   `json:"bot_action,omitempty" db:"bot_action"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// SendMessageRequest's sender defaults to agent when omitted.
type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
	Sender  string `json:"sender" binding:"omitempty,oneof=user bot agent"`
}

type StartConversationRequest struct {
	Phone       string `json:"phone" binding:"required"`
	DisplayName string `json:"display_name"`
}
