package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/treinasus/admin-api/internal/model"
	"github.com/treinasus/admin-api/internal/repository"
	apperrors "github.com/treinasus/admin-api/pkg/errors"
)

type conversationRepository struct {
	db *sqlx.DB
}

func NewConversationRepository(db *sqlx.DB) repository.ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) Create(ctx context.Context, conv *model.Conversation) error {
	query := `
		INSERT INTO conversations (id, phone, display_name, professional_id, last_message_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	conv.CreatedAt = time.Now()
	conv.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		conv.ID,
		conv.Phone,
		conv.DisplayName,
		conv.ProfessionalID,
		conv.LastMessageAt,
		conv.CreatedAt,
		conv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}
	return nil
}

func (r *conversationRepository) Get(ctx context.Context, id uuid.UUID) (*model.Conversation, error) {
	query := `SELECT * FROM conversations WHERE id = $1`
	var conv model.Conversation
	err := r.db.GetContext(ctx, &conv, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("conversation", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return &conv, nil
}

func (r *conversationRepository) GetByPhone(ctx context.Context, phone string) (*model.Conversation, error) {
	query := `SELECT * FROM conversations WHERE phone = $1`
	var conv model.Conversation
	err := r.db.GetContext(ctx, &conv, query, phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("conversation", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation by phone: %w", err)
	}
	return &conv, nil
}

func (r *conversationRepository) List(ctx context.Context) ([]*model.Conversation, error) {
	query := `SELECT * FROM conversations ORDER BY last_message_at DESC NULLS LAST`
	var convs []*model.Conversation
	if err := r.db.SelectContext(ctx, &convs, query); err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return convs, nil
}

func (r *conversationRepository) AppendMessage(ctx context.Context, msg *model.Message) error {
	query := `
		INSERT INTO messages (id, conversation_id, sender, content, intent, bot_action, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		msg.ID,
		msg.ConversationID,
		msg.Sender,
		msg.Content,
		msg.Intent,
		msg.BotAction,
		msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}

	touch := `UPDATE conversations SET last_message_at = $1, updated_at = $1 WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, touch, msg.CreatedAt, msg.ConversationID); err != nil {
		return fmt.Errorf("failed to touch conversation: %w", err)
	}
	return nil
}

func (r *conversationRepository) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]*model.Message, error) {
	query := `SELECT * FROM messages WHERE conversation_id = $1 ORDER BY created_at ASC`
	var msgs []*model.Message
	if err := r.db.SelectContext(ctx, &msgs, query, conversationID); err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return msgs, nil
}
