package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/treinasus/admin-api/internal/model"
	"github.com/treinasus/admin-api/internal/repository"
)

// Service writes append-only audit entries. Logging is best effort: a
// failed audit write is reported to the logger, never to the caller.
type Service struct {
	repo   repository.AuditRepository
	logger *zerolog.Logger
}

func NewService(repo repository.AuditRepository, logger *zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

type LogOptions struct {
	Changes   interface{}
	Metadata  interface{}
	IPAddress string
}

func (s *Service) Log(ctx context.Context, userID uuid.UUID, action, entityType string, entityID uuid.UUID, opts *LogOptions) {
	var changes, metadata json.RawMessage
	var ipAddress string

	if opts != nil {
		if opts.Changes != nil {
			changes, _ = json.Marshal(opts.Changes)
		}
		if opts.Metadata != nil {
			metadata, _ = json.Marshal(opts.Metadata)
		}
		ipAddress = opts.IPAddress
	}

	entry := &model.AuditLog{
		ID:         uuid.New(),
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Changes:    changes,
		Metadata:   metadata,
		IPAddress:  ipAddress,
		CreatedAt:  time.Now(),
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Error().
			Err(err).
			Str("action", action).
			Str("entity_type", entityType).
			Msg("failed to write audit log")
	}
}

func (s *Service) List(ctx context.Context, filters map[string]interface{}) ([]*model.AuditLog, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Cleanup(ctx context.Context, before time.Time) (int64, error) {
	return s.repo.DeleteBefore(ctx, before)
}
