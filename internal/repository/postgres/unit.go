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

type unitRepository struct {
	db *sqlx.DB
}

func NewUnitRepository(db *sqlx.DB) repository.UnitRepository {
	return &unitRepository{db: db}
}

func (r *unitRepository) Create(ctx context.Context, unit *model.Unit) error {
	query := `
		INSERT INTO units (id, name, type, abbreviation, address, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	unit.CreatedAt = time.Now()
	unit.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		unit.ID,
		unit.Name,
		unit.Type,
		unit.Abbreviation,
		unit.Address,
		unit.Active,
		unit.CreatedAt,
		unit.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create unit: %w", err)
	}
	return nil
}

func (r *unitRepository) Get(ctx context.Context, id uuid.UUID) (*model.Unit, error) {
	query := `SELECT * FROM units WHERE id = $1`
	var unit model.Unit
	err := r.db.GetContext(ctx, &unit, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("unit", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get unit: %w", err)
	}
	return &unit, nil
}

func (r *unitRepository) Update(ctx context.Context, unit *model.Unit) error {
	query := `
		UPDATE units
		SET name = $1, type = $2, abbreviation = $3, address = $4, active = $5, updated_at = $6
		WHERE id = $7
	`
	unit.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		unit.Name,
		unit.Type,
		unit.Abbreviation,
		unit.Address,
		unit.Active,
		unit.UpdatedAt,
		unit.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update unit: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("unit", nil)
	}
	return nil
}

func (r *unitRepository) List(ctx context.Context) ([]*model.Unit, error) {
	query := `SELECT * FROM units ORDER BY name ASC`
	var units []*model.Unit
	if err := r.db.SelectContext(ctx, &units, query); err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	return units, nil
}

func (r *unitRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `UPDATE units SET active = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, active, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to set unit active flag: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("unit", nil)
	}
	return nil
}
