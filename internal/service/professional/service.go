package professional

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/treinasus/admin-api/internal/model"
	"github.com/treinasus/admin-api/internal/repository"
	"github.com/treinasus/admin-api/internal/service/audit"
	apperrors "github.com/treinasus/admin-api/pkg/errors"
	"github.com/treinasus/admin-api/pkg/storage"
)

type Service struct {
	repo       repository.ProfessionalRepository
	outboxRepo repository.OutboxRepository
	store      storage.Store
	auditor    *audit.Service
}

func NewService(repo repository.ProfessionalRepository, outboxRepo repository.OutboxRepository, store storage.Store, auditor *audit.Service) *Service {
	return &Service{
		repo:       repo,
		outboxRepo: outboxRepo,
		store:      store,
		auditor:    auditor,
	}
}

// Upsert resolves the professional by national ID: an existing row is
// updated in place, otherwise a new one is inserted. The canonical
// post-write entity is returned either way, so the row count for one
// national ID never exceeds one. The boolean reports whether a new row
// was created.
func (s *Service) Upsert(ctx context.Context, req *model.CreateProfessionalRequest) (*model.Professional, bool, error) {
	existing, err := s.repo.GetByNationalID(ctx, req.NationalID)
	if err != nil && !apperrors.IsNotFound(err) {
		return nil, false, err
	}

	if existing != nil {
		existing.Name = req.Name
		existing.Email = req.Email
		existing.Phone = req.Phone
		existing.Role = req.Role
		if req.UnitID != "" {
			unitID, err := uuid.Parse(req.UnitID)
			if err != nil {
				return nil, false, apperrors.BadRequest("invalid unit id", err)
			}
			existing.UnitID = &unitID
		}

		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, false, err
		}

		s.enqueueEvent(ctx, "professional.updated", existing)
		s.auditor.Log(ctx, actorFrom(ctx), model.AuditActionUpdate, model.AuditEntityProfessional, existing.ID, &audit.LogOptions{
			Changes: existing,
		})
		return existing, false, nil
	}

	p := &model.Professional{
		Base:       model.Base{ID: uuid.New()},
		Name:       req.Name,
		NationalID: req.NationalID,
		Email:      req.Email,
		Phone:      req.Phone,
		Role:       req.Role,
		Status:     model.ProfessionalStatusActive,
	}
	if req.UnitID != "" {
		unitID, err := uuid.Parse(req.UnitID)
		if err != nil {
			return nil, false, apperrors.BadRequest("invalid unit id", err)
		}
		p.UnitID = &unitID
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, false, fmt.Errorf("failed to create professional: %w", err)
	}

	s.enqueueEvent(ctx, "professional.created", p)
	s.auditor.Log(ctx, actorFrom(ctx), model.AuditActionCreate, model.AuditEntityProfessional, p.ID, &audit.LogOptions{
		Changes: p,
	})
	return p, true, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Professional, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filters *model.ProfessionalFilters) ([]*model.Professional, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateProfessionalRequest) (*model.Professional, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Email != nil {
		p.Email = *req.Email
	}
	if req.Phone != nil {
		p.Phone = *req.Phone
	}
	if req.Role != nil {
		p.Role = *req.Role
	}
	if req.Status != nil {
		p.Status = *req.Status
	}
	if req.UnitID != nil {
		unitID, err := uuid.Parse(*req.UnitID)
		if err != nil {
			return nil, apperrors.BadRequest("invalid unit id", err)
		}
		p.UnitID = &unitID
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.enqueueEvent(ctx, "professional.updated", p)
	s.auditor.Log(ctx, actorFrom(ctx), model.AuditActionUpdate, model.AuditEntityProfessional, p.ID, &audit.LogOptions{
		Changes: req,
	})
	return p, nil
}

// UploadAvatar stores the image keyed by the professional's id and saves
// the public URL on the row.
func (s *Service) UploadAvatar(ctx context.Context, id uuid.UUID, contentType string, data []byte) (string, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", err
	}

	url, err := s.store.UploadAvatar(ctx, p.ID, contentType, data)
	if err != nil {
		return "", apperrors.Unavailable("failed to upload avatar", err)
	}

	p.AvatarURL = &url
	if err := s.repo.Update(ctx, p); err != nil {
		return "", err
	}
	return url, nil
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

func actorFrom(ctx context.Context) uuid.UUID {
	if userID, ok := ctx.Value("user_id").(uuid.UUID); ok {
		return userID
	}
	return uuid.Nil
}
