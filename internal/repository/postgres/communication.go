package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/treinasus/admin-api/internal/model"
	"github.com/treinasus/admin-api/internal/repository"
)

type communicationRepository struct {
	db *sqlx.DB
}

func NewCommunicationRepository(db *sqlx.DB) repository.CommunicationRepository {
	return &communicationRepository{db: db}
}

func (r *communicationRepository) Create(ctx context.Context, comm *model.Communication) error {
	query := `
		INSERT INTO communications (id, kind, channel, recipient, content, status, last_error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		comm.ID,
		comm.Kind,
		comm.Channel,
		comm.Recipient,
		comm.Content,
		comm.Status,
		comm.LastError,
		comm.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create communication record: %w", err)
	}
	return nil
}

func (r *communicationRepository) List(ctx context.Context, limit int) ([]*model.Communication, error) {
	query := `SELECT * FROM communications ORDER BY created_at DESC`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	var comms []*model.Communication
	if err := r.db.SelectContext(ctx, &comms, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list communications: %w", err)
	}
	return comms, nil
}
