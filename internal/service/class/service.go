package class

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/treinasus/admin-api/internal/model"
	"github.com/treinasus/admin-api/internal/repository"
	"github.com/treinasus/admin-api/internal/service/audit"
	"github.com/treinasus/admin-api/internal/status"
	apperrors "github.com/treinasus/admin-api/pkg/errors"
)

// DefaultStatus is assigned to classes created without one.
const DefaultStatus = "Planned"

type Service struct {
	repo         repository.ClassRepository
	trainingRepo repository.TrainingRepository
	registry     *status.Registry
	auditor      *audit.Service
}

func NewService(repo repository.ClassRepository, trainingRepo repository.TrainingRepository, registry *status.Registry, auditor *audit.Service) *Service {
	return &Service{
		repo:         repo,
		trainingRepo: trainingRepo,
		registry:     registry,
		auditor:      auditor,
	}
}

func (s *Service) Create(ctx context.Context, req *model.CreateClassRequest) (*model.Class, error) {
	trainingID, err := uuid.Parse(req.TrainingID)
	if err != nil {
		return nil, apperrors.BadRequest("invalid training id", err)
	}
	if _, err := s.trainingRepo.Get(ctx, trainingID); err != nil {
		return nil, err
	}

	class := &model.Class{
		Base:       model.Base{ID: uuid.New()},
		TrainingID: trainingID,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Capacity:   req.Capacity,
		Status:     req.Status,
		Location:   req.Location,
	}
	if class.Status == "" {
		class.Status = DefaultStatus
	}

	if err := s.repo.Create(ctx, class); err != nil {
		return nil, fmt.Errorf("failed to create class: %w", err)
	}

	s.auditor.Log(ctx, actorFrom(ctx), model.AuditActionCreate, model.AuditEntityClass, class.ID, &audit.LogOptions{
		Changes: class,
	})
	return class, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Class, error) {
	return s.repo.Get(ctx, id)
}

// List returns classes, scoped to one training when trainingID is
// non-zero.
func (s *Service) List(ctx context.Context, trainingID uuid.UUID) ([]*model.Class, error) {
	return s.repo.List(ctx, trainingID)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateClassRequest) (*model.Class, error) {
	class, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.StartTime != nil {
		class.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		class.EndTime = *req.EndTime
	}
	if !class.EndTime.After(class.StartTime) {
		return nil, apperrors.BadRequest("class must end after it starts", nil)
	}
	if req.Capacity != nil {
		class.Capacity = *req.Capacity
	}
	if req.Status != nil {
		class.Status = *req.Status
	}
	if req.Location != nil {
		class.Location = *req.Location
	}

	if err := s.repo.Update(ctx, class); err != nil {
		return nil, err
	}

	s.auditor.Log(ctx, actorFrom(ctx), model.AuditActionUpdate, model.AuditEntityClass, class.ID, &audit.LogOptions{
		Changes: req,
	})
	return class, nil
}

// StatusColor resolves the display color for a class status through the
// registry; unknown names fall back to the registry default.
func (s *Service) StatusColor(name string) string {
	return s.registry.GetColor(name)
}

func actorFrom(ctx context.Context) uuid.UUID {
	if userID, ok := ctx.Value("user_id").(uuid.UUID); ok {
		return userID
	}
	return uuid.Nil
}
