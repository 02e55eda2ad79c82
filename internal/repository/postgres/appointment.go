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

type appointmentRepository struct {
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, professional_id, training_id, class_id,
			channel, status, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.ProfessionalID,
		appointment.TrainingID,
		appointment.ClassID,
		appointment.Channel,
		appointment.Status,
		appointment.Notes,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT * FROM appointments WHERE id = $1`
	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("appointment", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	query := `
		UPDATE appointments
		SET class_id = $1, status = $2, notes = $3, updated_at = $4
		WHERE id = $5
	`
	appointment.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		appointment.ClassID,
		appointment.Status,
		appointment.Notes,
		appointment.UpdatedAt,
		appointment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("appointment", nil)
	}
	return nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM appointments WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("appointment", nil)
	}
	return nil
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	query := `SELECT * FROM appointments WHERE 1=1`
	var args []interface{}

	if filters != nil {
		if filters.ProfessionalID != uuid.Nil {
			query += fmt.Sprintf(" AND professional_id = $%d", len(args)+1)
			args = append(args, filters.ProfessionalID)
		}
		if filters.TrainingID != uuid.Nil {
			query += fmt.Sprintf(" AND training_id = $%d", len(args)+1)
			args = append(args, filters.TrainingID)
		}
		if filters.ClassID != uuid.Nil {
			query += fmt.Sprintf(" AND class_id = $%d", len(args)+1)
			args = append(args, filters.ClassID)
		}
		if filters.Status != "" {
			query += fmt.Sprintf(" AND status = $%d", len(args)+1)
			args = append(args, filters.Status)
		}
	}

	query += " ORDER BY created_at DESC"

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) AppendHistory(ctx context.Context, entry *model.AppointmentHistory) error {
	query := `
		INSERT INTO appointment_status_history (id, appointment_id, status, actor, changed_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.AppointmentID,
		entry.Status,
		entry.Actor,
		entry.ChangedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append appointment history: %w", err)
	}
	return nil
}

func (r *appointmentRepository) ListHistory(ctx context.Context, appointmentID uuid.UUID) ([]*model.AppointmentHistory, error) {
	query := `
		SELECT * FROM appointment_status_history
		WHERE appointment_id = $1
		ORDER BY changed_at ASC
	`
	var history []*model.AppointmentHistory
	if err := r.db.SelectContext(ctx, &history, query, appointmentID); err != nil {
		return nil, fmt.Errorf("failed to list appointment history: %w", err)
	}
	return history, nil
}
