package unit

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/treinasus/admin-api/internal/model"
	"github.com/treinasus/admin-api/internal/repository"
	"github.com/treinasus/admin-api/internal/service/audit"
)

type Service struct {
	repo    repository.UnitRepository
	auditor *audit.Service
}

func NewService(repo repository.UnitRepository, auditor *audit.Service) *Service {
	return &Service{repo: repo, auditor: auditor}
}

func (s *Service) Create(ctx context.Context, req *model.CreateUnitRequest) (*model.Unit, error) {
	unit := &model.Unit{
		Base:         model.Base{ID: uuid.New()},
		Name:         req.Name,
		Type:         req.Type,
		Abbreviation: req.Abbreviation,
		Address:      req.Address,
		Active:       true,
	}

	if err := s.repo.Create(ctx, unit); err != nil {
		return nil, fmt.Errorf("failed to create unit: %w", err)
	}

	s.auditor.Log(ctx, actorFrom(ctx), model.AuditActionCreate, model.AuditEntityUnit, unit.ID, &audit.LogOptions{
		Changes: unit,
	})
	return unit, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Unit, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*model.Unit, error) {
	return s.repo.List(ctx)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateUnitRequest) (*model.Unit, error) {
	unit, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		unit.Name = *req.Name
	}
	if req.Type != nil {
		unit.Type = *req.Type
	}
	if req.Abbreviation != nil {
		unit.Abbreviation = *req.Abbreviation
	}
	if req.Address != nil {
		unit.Address = *req.Address
	}
	if req.Active != nil {
		unit.Active = *req.Active
	}

	if err := s.repo.Update(ctx, unit); err != nil {
		return nil, err
	}

	s.auditor.Log(ctx, actorFrom(ctx), model.AuditActionUpdate, model.AuditEntityUnit, unit.ID, &audit.LogOptions{
		Changes: req,
	})
	return unit, nil
}

// Deactivate marks the unit inactive. Units referenced by professionals
// or instructors are never removed, only hidden from pickers.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		return err
	}
	s.auditor.Log(ctx, actorFrom(ctx), model.AuditActionDeactivate, model.AuditEntityUnit, id, nil)
	return nil
}

func actorFrom(ctx context.Context) uuid.UUID {
	if userID, ok := ctx.Value("user_id").(uuid.UUID); ok {
		return userID
	}
	return uuid.Nil
}
