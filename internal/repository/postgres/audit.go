package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/treinasus/admin-api/internal/model"
	"github.com/treinasus/admin-api/internal/repository"
)

type auditRepository struct {
	db *sqlx.DB
}

func NewAuditRepository(db *sqlx.DB) repository.AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, log *model.AuditLog) error {
	query := `
		INSERT INTO audit_logs (
			id, user_id, action, entity_type, entity_id,
			changes, metadata, ip_address, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		log.ID,
		log.UserID,
		log.Action,
		log.EntityType,
		log.EntityID,
		log.Changes,
		log.Metadata,
		log.IPAddress,
		log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

// auditFilterColumns lists the filterable columns in a fixed order so the
// generated SQL is deterministic regardless of map iteration.
var auditFilterColumns = []string{"user_id", "entity_type", "entity_id", "action"}

func buildAuditListQuery(filters map[string]interface{}) (string, []interface{}) {
	query := `SELECT * FROM audit_logs WHERE 1=1`
	var args []interface{}

	for _, col := range auditFilterColumns {
		if v, ok := filters[col]; ok {
			query += fmt.Sprintf(" AND %s = $%d", col, len(args)+1)
			args = append(args, v)
		}
	}

	query += " ORDER BY created_at DESC"
	return query, args
}

func (r *auditRepository) List(ctx context.Context, filters map[string]interface{}) ([]*model.AuditLog, error) {
	query, args := buildAuditListQuery(filters)

	var logs []*model.AuditLog
	if err := r.db.SelectContext(ctx, &logs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return logs, nil
}

func (r *auditRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM audit_logs WHERE created_at < $1`
	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old audit logs: %w", err)
	}
	return result.RowsAffected()
}
