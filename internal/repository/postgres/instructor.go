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

type instructorRepository struct {
	db *sqlx.DB
}

func NewInstructorRepository(db *sqlx.DB) repository.InstructorRepository {
	return &instructorRepository{db: db}
}

func (r *instructorRepository) Create(ctx context.Context, instructor *model.Instructor) error {
	query := `
		INSERT INTO instructors (
			id, name, national_id, email, phone, specialty,
			unit_id, avatar_url, active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	instructor.CreatedAt = time.Now()
	instructor.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		instructor.ID,
		instructor.Name,
		instructor.NationalID,
		instructor.Email,
		instructor.Phone,
		instructor.Specialty,
		instructor.UnitID,
		instructor.AvatarURL,
		instructor.Active,
		instructor.CreatedAt,
		instructor.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create instructor: %w", err)
	}
	return nil
}

func (r *instructorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Instructor, error) {
	query := `SELECT * FROM instructors WHERE id = $1`
	var instructor model.Instructor
	err := r.db.GetContext(ctx, &instructor, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("instructor", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get instructor: %w", err)
	}
	return &instructor, nil
}

func (r *instructorRepository) Update(ctx context.Context, instructor *model.Instructor) error {
	query := `
		UPDATE instructors
		SET name = $1, email = $2, phone = $3, specialty = $4,
			unit_id = $5, avatar_url = $6, active = $7, updated_at = $8
		WHERE id = $9
	`
	instructor.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		instructor.Name,
		instructor.Email,
		instructor.Phone,
		instructor.Specialty,
		instructor.UnitID,
		instructor.AvatarURL,
		instructor.Active,
		instructor.UpdatedAt,
		instructor.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update instructor: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("instructor", nil)
	}
	return nil
}

func (r *instructorRepository) List(ctx context.Context, unitID uuid.UUID) ([]*model.Instructor, error) {
	query := `SELECT * FROM instructors WHERE 1=1`
	var args []interface{}

	if unitID != uuid.Nil {
		query += " AND unit_id = $1"
		args = append(args, unitID)
	}
	query += " ORDER BY name ASC"

	var instructors []*model.Instructor
	if err := r.db.SelectContext(ctx, &instructors, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list instructors: %w", err)
	}
	return instructors, nil
}

func (r *instructorRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `UPDATE instructors SET active = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, active, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to set instructor active flag: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("instructor", nil)
	}
	return nil
}
