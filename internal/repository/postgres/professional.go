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

type professionalRepository struct {
	db *sqlx.DB
}

func NewProfessionalRepository(db *sqlx.DB) repository.ProfessionalRepository {
	return &professionalRepository{db: db}
}

func (r *professionalRepository) Create(ctx context.Context, p *model.Professional) error {
	query := `
		INSERT INTO professionals (
			id, name, national_id, email, phone, role,
			unit_id, avatar_url, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.NationalID,
		p.Email,
		p.Phone,
		p.Role,
		p.UnitID,
		p.AvatarURL,
		p.Status,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create professional: %w", err)
	}
	return nil
}

func (r *professionalRepository) Get(ctx context.Context, id uuid.UUID) (*model.Professional, error) {
	query := `SELECT * FROM professionals WHERE id = $1`
	var p model.Professional
	err := r.db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("professional", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get professional: %w", err)
	}
	return &p, nil
}

func (r *professionalRepository) GetByNationalID(ctx context.Context, nationalID string) (*model.Professional, error) {
	query := `SELECT * FROM professionals WHERE national_id = $1`
	var p model.Professional
	err := r.db.GetContext(ctx, &p, query, nationalID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("professional", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get professional by national id: %w", err)
	}
	return &p, nil
}

func (r *professionalRepository) Update(ctx context.Context, p *model.Professional) error {
	query := `
		UPDATE professionals
		SET name = $1, email = $2, phone = $3, role = $4,
			unit_id = $5, avatar_url = $6, status = $7, updated_at = $8
		WHERE id = $9
	`
	p.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		p.Name,
		p.Email,
		p.Phone,
		p.Role,
		p.UnitID,
		p.AvatarURL,
		p.Status,
		p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update professional: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("professional", nil)
	}
	return nil
}

func (r *professionalRepository) List(ctx context.Context, filters *model.ProfessionalFilters) ([]*model.Professional, error) {
	query := `SELECT * FROM professionals WHERE 1=1`
	var args []interface{}

	if filters != nil {
		if filters.UnitID != uuid.Nil {
			query += fmt.Sprintf(" AND unit_id = $%d", len(args)+1)
			args = append(args, filters.UnitID)
		}
		if filters.Status != "" {
			query += fmt.Sprintf(" AND status = $%d", len(args)+1)
			args = append(args, filters.Status)
		}
		if filters.SearchTerm != "" {
			query += fmt.Sprintf(" AND (name ILIKE $%d OR national_id ILIKE $%d)", len(args)+1, len(args)+1)
			args = append(args, "%"+filters.SearchTerm+"%")
		}
	}

	query += " ORDER BY name ASC"

	var professionals []*model.Professional
	if err := r.db.SelectContext(ctx, &professionals, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list professionals: %w", err)
	}
	return professionals, nil
}
