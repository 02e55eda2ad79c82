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

type classRepository struct {
	db *sqlx.DB
}

func NewClassRepository(db *sqlx.DB) repository.ClassRepository {
	return &classRepository{db: db}
}

func (r *classRepository) Create(ctx context.Context, class *model.Class) error {
	query := `
		INSERT INTO classes (
			id, training_id, start_time, end_time, capacity,
			status, location, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	class.CreatedAt = time.Now()
	class.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		class.ID,
		class.TrainingID,
		class.StartTime,
		class.EndTime,
		class.Capacity,
		class.Status,
		class.Location,
		class.CreatedAt,
		class.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create class: %w", err)
	}
	return nil
}

func (r *classRepository) Get(ctx context.Context, id uuid.UUID) (*model.Class, error) {
	query := `SELECT * FROM classes WHERE id = $1`
	var class model.Class
	err := r.db.GetContext(ctx, &class, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("class", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get class: %w", err)
	}
	return &class, nil
}

func (r *classRepository) Update(ctx context.Context, class *model.Class) error {
	query := `
		UPDATE classes
		SET start_time = $1, end_time = $2, capacity = $3,
			status = $4, location = $5, updated_at = $6
		WHERE id = $7
	`
	class.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		class.StartTime,
		class.EndTime,
		class.Capacity,
		class.Status,
		class.Location,
		class.UpdatedAt,
		class.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update class: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("class", nil)
	}
	return nil
}

func (r *classRepository) List(ctx context.Context, trainingID uuid.UUID) ([]*model.Class, error) {
	query := `SELECT * FROM classes WHERE 1=1`
	var args []interface{}

	if trainingID != uuid.Nil {
		query += " AND training_id = $1"
		args = append(args, trainingID)
	}
	query += " ORDER BY start_time ASC"

	var classes []*model.Class
	if err := r.db.SelectContext(ctx, &classes, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list classes: %w", err)
	}
	return classes, nil
}
