package appointment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/treinasus/admin-api/internal/model"
	"github.com/treinasus/admin-api/internal/repository"
	"github.com/treinasus/admin-api/internal/service/audit"
	"github.com/treinasus/admin-api/internal/service/notifier"
	apperrors "github.com/treinasus/admin-api/pkg/errors"
)

// DefaultStatus is assigned to appointments created without one.
const DefaultStatus = "Scheduled"

// Notifier delivers rendered notifications. Dispatch must be non-fatal:
// the write that triggered it has already committed.
type Notifier interface {
	Dispatch(ctx context.Context, kind string, target notifier.Target, variables map[string]string, channels []string) error
}

type Service struct {
	repo       repository.AppointmentRepository
	profRepo   repository.ProfessionalRepository
	trainRepo  repository.TrainingRepository
	classRepo  repository.ClassRepository
	outboxRepo repository.OutboxRepository
	notifier   Notifier
	auditor    *audit.Service
}

func NewService(
	repo repository.AppointmentRepository,
	profRepo repository.ProfessionalRepository,
	trainRepo repository.TrainingRepository,
	classRepo repository.ClassRepository,
	outboxRepo repository.OutboxRepository,
	n Notifier,
	auditor *audit.Service,
) *Service {
	return &Service{
		repo:       repo,
		profRepo:   profRepo,
		trainRepo:  trainRepo,
		classRepo:  classRepo,
		outboxRepo: outboxRepo,
		notifier:   n,
		auditor:    auditor,
	}
}

// Create books a professional into a training. The write commits first;
// the confirmation notification and audit entry follow and never undo
// it. The initial status is recorded as the first history row.
func (s *Service) Create(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	professionalID, err := uuid.Parse(req.ProfessionalID)
	if err != nil {
		return nil, apperrors.BadRequest("invalid professional id", err)
	}
	trainingID, err := uuid.Parse(req.TrainingID)
	if err != nil {
		return nil, apperrors.BadRequest("invalid training id", err)
	}

	professional, err := s.profRepo.Get(ctx, professionalID)
	if err != nil {
		return nil, err
	}
	training, err := s.trainRepo.Get(ctx, trainingID)
	if err != nil {
		return nil, err
	}

	appt := &model.Appointment{
		Base:           model.Base{ID: uuid.New()},
		ProfessionalID: professionalID,
		TrainingID:     trainingID,
		Channel:        req.Channel,
		Status:         req.Status,
		Notes:          req.Notes,
	}
	if appt.Channel == "" {
		appt.Channel = model.AppointmentChannelAdmin
	}
	if appt.Status == "" {
		appt.Status = DefaultStatus
	}

	var class *model.Class
	if req.ClassID != "" {
		classID, err := uuid.Parse(req.ClassID)
		if err != nil {
			return nil, apperrors.BadRequest("invalid class id", err)
		}
		class, err = s.classRepo.Get(ctx, classID)
		if err != nil {
			return nil, err
		}
		if class.TrainingID != trainingID {
			return nil, apperrors.BadRequest("class does not belong to the training", nil)
		}
		appt.ClassID = &classID
	}

	if err := s.repo.Create(ctx, appt); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}
	if err := s.appendHistory(ctx, appt.ID, appt.Status, actorLabel(ctx)); err != nil {
		return nil, err
	}

	variables := map[string]string{
		"name":     professional.Name,
		"training": training.Name,
		"date":     classDate(class),
	}
	target := notifier.Target{
		Name:  professional.Name,
		Phone: professional.Phone,
		Email: professional.Email,
	}
	_ = s.notifier.Dispatch(ctx, notifier.KindConfirmation, target, variables, []string{notifier.ChannelWhatsApp})

	s.enqueueEvent(ctx, "appointment.created", appt)
	s.auditor.Log(ctx, actorFrom(ctx), model.AuditActionCreate, model.AuditEntityAppointment, appt.ID, &audit.LogOptions{
		Changes: appt,
	})
	return appt, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) ListHistory(ctx context.Context, id uuid.UUID) ([]*model.AppointmentHistory, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListHistory(ctx, id)
}

// Update applies a partial patch. A change to the status field appends
// exactly one history row and triggers a status-change notification;
// patches that leave the status untouched append nothing.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	appt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	previousStatus := appt.Status

	if req.ClassID != nil {
		classID, err := uuid.Parse(*req.ClassID)
		if err != nil {
			return nil, apperrors.BadRequest("invalid class id", err)
		}
		class, err := s.classRepo.Get(ctx, classID)
		if err != nil {
			return nil, err
		}
		if class.TrainingID != appt.TrainingID {
			return nil, apperrors.BadRequest("class does not belong to the training", nil)
		}
		appt.ClassID = &classID
	}
	if req.Status != nil {
		appt.Status = *req.Status
	}
	if req.Notes != nil {
		appt.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, appt); err != nil {
		return nil, err
	}

	if appt.Status != previousStatus {
		if err := s.appendHistory(ctx, appt.ID, appt.Status, actorLabel(ctx)); err != nil {
			return nil, err
		}
		s.notifyStatusChange(ctx, appt)
	}

	s.enqueueEvent(ctx, "appointment.updated", appt)
	s.auditor.Log(ctx, actorFrom(ctx), model.AuditActionUpdate, model.AuditEntityAppointment, appt.ID, &audit.LogOptions{
		Changes: req,
	})
	return appt, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.enqueueEvent(ctx, "appointment.deleted", map[string]string{"id": id.String()})
	s.auditor.Log(ctx, actorFrom(ctx), model.AuditActionDelete, model.AuditEntityAppointment, id, nil)
	return nil
}

func (s *Service) notifyStatusChange(ctx context.Context, appt *model.Appointment) {
	professional, err := s.profRepo.Get(ctx, appt.ProfessionalID)
	if err != nil {
		return
	}
	trainingName := ""
	if training, err := s.trainRepo.Get(ctx, appt.TrainingID); err == nil {
		trainingName = training.Name
	}

	variables := map[string]string{
		"name":     professional.Name,
		"training": trainingName,
		"status":   appt.Status,
	}
	target := notifier.Target{
		Name:  professional.Name,
		Phone: professional.Phone,
		Email: professional.Email,
	}
	_ = s.notifier.Dispatch(ctx, notifier.KindStatusChange, target, variables, []string{notifier.ChannelWhatsApp})
}

func (s *Service) appendHistory(ctx context.Context, appointmentID uuid.UUID, status, actor string) error {
	entry := &model.AppointmentHistory{
		ID:            uuid.New(),
		AppointmentID: appointmentID,
		Status:        status,
		Actor:         actor,
		ChangedAt:     time.Now(),
	}
	if err := s.repo.AppendHistory(ctx, entry); err != nil {
		return fmt.Errorf("failed to append appointment history: %w", err)
	}
	return nil
}

func (s *Service) enqueueEvent(ctx context.Context, eventType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	_ = s.outboxRepo.Create(ctx, &model.OutboxEvent{
		EventType: eventType,
		Payload:   data,
		CreatedAt: time.Now(),
	})
}

func classDate(class *model.Class) string {
	if class == nil {
		return "a definir"
	}
	return class.StartTime.Format("02/01/2006 15:04")
}

func actorFrom(ctx context.Context) uuid.UUID {
	if userID, ok := ctx.Value("user_id").(uuid.UUID); ok {
		return userID
	}
	return uuid.Nil
}

func actorLabel(ctx context.Context) string {
	if id := actorFrom(ctx); id != uuid.Nil {
		return id.String()
	}
	return "system"
}
