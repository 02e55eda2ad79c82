package training

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/treinasus/admin-api/internal/model"
	"github.com/treinasus/admin-api/internal/repository"
	"github.com/treinasus/admin-api/internal/service/audit"
	apperrors "github.com/treinasus/admin-api/pkg/errors"
	"github.com/treinasus/admin-api/pkg/storage"
)

type Service struct {
	repo           repository.TrainingRepository
	instructorRepo repository.InstructorRepository
	store          storage.Store
	auditor        *audit.Service
}

func NewService(repo repository.TrainingRepository, instructorRepo repository.InstructorRepository, store storage.Store, auditor *audit.Service) *Service {
	return &Service{
		repo:           repo,
		instructorRepo: instructorRepo,
		store:          store,
		auditor:        auditor,
	}
}

func (s *Service) Create(ctx context.Context, req *model.CreateTrainingRequest) (*model.Training, error) {
	training := &model.Training{
		Base:         model.Base{ID: uuid.New()},
		Name:         req.Name,
		Description:  req.Description,
		DurationMins: req.DurationMins,
		Capacity:     req.Capacity,
	}

	if req.InstructorID != "" {
		instructorID, err := uuid.Parse(req.InstructorID)
		if err != nil {
			return nil, apperrors.BadRequest("invalid instructor id", err)
		}
		if _, err := s.instructorRepo.Get(ctx, instructorID); err != nil {
			return nil, err
		}
		training.InstructorID = &instructorID
	}

	if err := s.repo.Create(ctx, training); err != nil {
		return nil, fmt.Errorf("failed to create training: %w", err)
	}

	s.auditor.Log(ctx, actorFrom(ctx), model.AuditActionCreate, model.AuditEntityTraining, training.ID, &audit.LogOptions{
		Changes: training,
	})
	return training, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Training, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*model.Training, error) {
	return s.repo.List(ctx)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateTrainingRequest) (*model.Training, error) {
	training, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		training.Name = *req.Name
	}
	if req.Description != nil {
		training.Description = *req.Description
	}
	if req.DurationMins != nil {
		training.DurationMins = *req.DurationMins
	}
	if req.Capacity != nil {
		training.Capacity = *req.Capacity
	}
	if req.InstructorID != nil {
		instructorID, err := uuid.Parse(*req.InstructorID)
		if err != nil {
			return nil, apperrors.BadRequest("invalid instructor id", err)
		}
		if _, err := s.instructorRepo.Get(ctx, instructorID); err != nil {
			return nil, err
		}
		training.InstructorID = &instructorID
	}

	if err := s.repo.Update(ctx, training); err != nil {
		return nil, err
	}

	s.auditor.Log(ctx, actorFrom(ctx), model.AuditActionUpdate, model.AuditEntityTraining, training.ID, &audit.LogOptions{
		Changes: req,
	})
	return training, nil
}

// UploadMaterial stores the course material and links its public URL to
// the training.
func (s *Service) UploadMaterial(ctx context.Context, id uuid.UUID, filename, contentType string, data []byte) (string, error) {
	training, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", err
	}

	url, err := s.store.UploadMaterial(ctx, training.ID, filename, contentType, data)
	if err != nil {
		return "", apperrors.Unavailable("failed to upload training material", err)
	}

	if err := s.repo.SetMaterialURL(ctx, training.ID, url); err != nil {
		return "", err
	}

	s.auditor.Log(ctx, actorFrom(ctx), model.AuditActionUpdate, model.AuditEntityTraining, training.ID, &audit.LogOptions{
		Metadata: map[string]string{"material_url": url},
	})
	return url, nil
}

func actorFrom(ctx context.Context) uuid.UUID {
	if userID, ok := ctx.Value("user_id").(uuid.UUID); ok {
		return userID
	}
	return uuid.Nil
}
