package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/treinasus/admin-api/internal/model"
)

// All repository interfaces in one file
type (
	// ProfessionalRepository resolves professionals by surrogate id or by
	// the national-ID natural key used for upsert-by-identity.
	ProfessionalRepository interface {
		Create(ctx context.Context, p *model.Professional) error
		Get(ctx context.Context, id uuid.UUID) (*model.Professional, error)
		GetByNationalID(ctx context.Context, nationalID string) (*model.Professional, error)
		Update(ctx context.Context, p *model.Professional) error
		List(ctx context.Context, filters *model.ProfessionalFilters) ([]*model.Professional, error)
	}

	UnitRepository interface {
		Create(ctx context.Context, unit *model.Unit) error
		Get(ctx context.Context, id uuid.UUID) (*model.Unit, error)
		Update(ctx context.Context, unit *model.Unit) error
		List(ctx context.Context) ([]*model.Unit, error)
		SetActive(ctx context.Context, id uuid.UUID, active bool) error
	}

	InstructorRepository interface {
		Create(ctx context.Context, instructor *model.Instructor) error
		Get(ctx context.Context, id uuid.UUID) (*model.Instructor, error)
		Update(ctx context.Context, instructor *model.Instructor) error
		List(ctx context.Context, unitID uuid.UUID) ([]*model.Instructor, error)
		SetActive(ctx context.Context, id uuid.UUID, active bool) error
	}

	TrainingRepository interface {
		Create(ctx context.Context, training *model.Training) error
		Get(ctx context.Context, id uuid.UUID) (*model.Training, error)
		Update(ctx context.Context, training *model.Training) error
		SetMaterialURL(ctx context.Context, id uuid.UUID, url string) error
		List(ctx context.Context) ([]*model.Training, error)
	}

	ClassRepository interface {
		Create(ctx context.Context, class *model.Class) error
		Get(ctx context.Context, id uuid.UUID) (*model.Class, error)
		Update(ctx context.Context, class *model.Class) error
		List(ctx context.Context, trainingID uuid.UUID) ([]*model.Class, error)
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		AppendHistory(ctx context.Context, entry *model.AppointmentHistory) error
		ListHistory(ctx context.Context, appointmentID uuid.UUID) ([]*model.AppointmentHistory, error)
	}

	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		Update(ctx context.Context, user *model.User) error
		UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
		SetStatus(ctx context.Context, id uuid.UUID, status string) error
		List(ctx context.Context) ([]*model.User, error)
	}

	AuditRepository interface {
		Create(ctx context.Context, log *model.AuditLog) error
		List(ctx context.Context, filters map[string]interface{}) ([]*model.AuditLog, error)
		DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
	}

	CommunicationRepository interface {
		Create(ctx context.Context, comm *model.Communication) error
		List(ctx context.Context, limit int) ([]*model.Communication, error)
	}

	ConversationRepository interface {
		Create(ctx context.Context, conv *model.Conversation) error
		Get(ctx context.Context, id uuid.UUID) (*model.Conversation, error)
		GetByPhone(ctx context.Context, phone string) (*model.Conversation, error)
		List(ctx context.Context) ([]*model.Conversation, error)
		AppendMessage(ctx context.Context, msg *model.Message) error
		ListMessages(ctx context.Context, conversationID uuid.UUID) ([]*model.Message, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error
		ReleaseStale(ctx context.Context, olderThan time.Time) (int64, error)
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
