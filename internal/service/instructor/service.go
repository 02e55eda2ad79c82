package instructor

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
	repo     repository.InstructorRepository
	unitRepo repository.UnitRepository
	store    storage.Store
	auditor  *audit.Service
}

func NewService(repo repository.InstructorRepository, unitRepo repository.UnitRepository, store storage.Store, auditor *audit.Service) *Service {
	return &Service{
		repo:     repo,
		unitRepo: unitRepo,
		store:    store,
		auditor:  auditor,
	}
}

func (s *Service) Create(ctx context.Context, req *model.CreateInstructorRequest) (*model.Instructor, error) {
	unitID, err := uuid.Parse(req.UnitID)
	if err != nil {
		return nil, apperrors.BadRequest("invalid unit id", err)
	}
	if _, err := s.unitRepo.Get(ctx, unitID); err != nil {
		return nil, err
	}

	instructor := &model.Instructor{
		Base:       model.Base{ID: uuid.New()},
		Name:       req.Name,
		NationalID: req.NationalID,
		Email:      req.Email,
		Phone:      req.Phone,
		Specialty:  req.Specialty,
		UnitID:     unitID,
		Active:     true,
	}

	if err := s.repo.Create(ctx, instructor); err != nil {
		return nil, fmt.Errorf("failed to create instructor: %w", err)
	}

	s.auditor.Log(ctx, actorFrom(ctx), model.AuditActionCreate, model.AuditEntityInstructor, instructor.ID, &audit.LogOptions{
		Changes: instructor,
	})
	return instructor, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Instructor, error) {
	return s.repo.Get(ctx, id)
}

// List returns instructors, optionally scoped to one unit when unitID is
// non-zero.
func (s *Service) List(ctx context.Context, unitID uuid.UUID) ([]*model.Instructor, error) {
	return s.repo.List(ctx, unitID)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateInstructorRequest) (*model.Instructor, error) {
	instructor, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		instructor.Name = *req.Name
	}
	if req.Email != nil {
		instructor.Email = *req.Email
	}
	if req.Phone != nil {
		instructor.Phone = *req.Phone
	}
	if req.Specialty != nil {
		instructor.Specialty = *req.Specialty
	}
	if req.UnitID != nil {
		unitID, err := uuid.Parse(*req.UnitID)
		if err != nil {
			return nil, apperrors.BadRequest("invalid unit id", err)
		}
		if _, err := s.unitRepo.Get(ctx, unitID); err != nil {
			return nil, err
		}
		instructor.UnitID = unitID
	}
	if req.Active != nil {
		instructor.Active = *req.Active
	}

	if err := s.repo.Update(ctx, instructor); err != nil {
		return nil, err
	}

	s.auditor.Log(ctx, actorFrom(ctx), model.AuditActionUpdate, model.AuditEntityInstructor, instructor.ID, &audit.LogOptions{
		Changes: req,
	})
	return instructor, nil
}

func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		return err
	}
	s.auditor.Log(ctx, actorFrom(ctx), model.AuditActionDeactivate, model.AuditEntityInstructor, id, nil)
	return nil
}

func (s *Service) UploadAvatar(ctx context.Context, id uuid.UUID, contentType string, data []byte) (string, error) {
	instructor, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", err
	}

	url, err := s.store.UploadAvatar(ctx, instructor.ID, contentType, data)
	if err != nil {
		return "", apperrors.Unavailable("failed to upload avatar", err)
	}

	instructor.AvatarURL = &url
	if err := s.repo.Update(ctx, instructor); err != nil {
		return "", err
	}
	return url, nil
}

func actorFrom(ctx context.Context) uuid.UUID {
	if userID, ok := ctx.Value("user_id").(uuid.UUID); ok {
		return userID
	}
	return uuid.Nil
}
