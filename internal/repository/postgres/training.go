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

type trainingRepository struct {
	db *sqlx.DB
}

func NewTrainingRepository(db *sqlx.DB) repository.TrainingRepository {
	return &trainingRepository{db: db}
}

func (r *trainingRepository) Create(ctx context.Context, training *model.Training) error {
	query := `
		INSERT INTO trainings (
			id, name, description, duration_mins, capacity,
			material_url, instructor_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	training.CreatedAt = time.Now()
	training.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		training.ID,
		training.Name,
		training.Description,
		training.DurationMins,
		training.Capacity,
		training.MaterialURL,
		training.InstructorID,
		training.CreatedAt,
		training.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create training: %w", err)
	}
	return nil
}

func (r *trainingRepository) Get(ctx context.Context, id uuid.UUID) (*model.Training, error) {
	query := `SELECT * FROM trainings WHERE id = $1`
	var training model.Training
	err := r.db.GetContext(ctx, &training, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("training", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get training: %w", err)
	}
	return &training, nil
}

func (r *trainingRepository) Update(ctx context.Context, training *model.Training) error {
	query := `
		UPDATE trainings
		SET name = $1, description = $2, duration_mins = $3, capacity = $4,
			material_url = $5, instructor_id = $6, updated_at = $7
		WHERE id = $8
	`
	training.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		training.Name,
		training.Description,
		training.DurationMins,
		training.Capacity,
		training.MaterialURL,
		training.InstructorID,
		training.UpdatedAt,
		training.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update training: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("training", nil)
	}
	return nil
}

func (r *trainingRepository) SetMaterialURL(ctx context.Context, id uuid.UUID, url string) error {
	query := `UPDATE trainings SET material_url = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, url, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to set training material url: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("training", nil)
	}
	return nil
}

func (r *trainingRepository) List(ctx context.Context) ([]*model.Training, error) {
	query := `SELECT * FROM trainings ORDER BY name ASC`
	var trainings []*model.Training
	if err := r.db.SelectContext(ctx, &trainings, query); err != nil {
		return nil, fmt.Errorf("failed to list trainings: %w", err)
	}
	return trainings, nil
}
