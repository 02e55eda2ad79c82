package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/treinasus/admin-api/internal/model"
	"github.com/treinasus/admin-api/internal/repository"
	"github.com/treinasus/admin-api/internal/service/audit"
	apperrors "github.com/treinasus/admin-api/pkg/errors"
)

// Service implements the admin-only account operations. Password hashes
// never leave this package.
type Service struct {
	repo    repository.UserRepository
	auditor *audit.Service
}

func NewService(repo repository.UserRepository, auditor *audit.Service) *Service {
	return &Service{repo: repo, auditor: auditor}
}

func (s *Service) Create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	if existing, err := s.repo.GetByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, apperrors.BadRequest("email is already registered", nil)
	} else if err != nil && !apperrors.IsNotFound(err) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &model.User{
		Base:         model.Base{ID: uuid.New()},
		Email:        req.Email,
		Name:         req.Name,
		NationalID:   req.NationalID,
		Phone:        req.Phone,
		Role:         req.Role,
		Status:       model.UserStatusActive,
		PasswordHash: string(hash),
	}
	if req.UnitID != "" {
		unitID, err := uuid.Parse(req.UnitID)
		if err != nil {
			return nil, apperrors.BadRequest("invalid unit id", err)
		}
		u.UnitID = &unitID
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.auditor.Log(ctx, actorFrom(ctx), model.AuditActionCreate, model.AuditEntityUser, u.ID, &audit.LogOptions{
		Metadata: map[string]string{"email": u.Email, "role": u.Role},
	})
	return u, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*model.User, error) {
	return s.repo.List(ctx)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateUserRequest) (*model.User, error) {
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.NationalID != nil {
		u.NationalID = *req.NationalID
	}
	if req.Phone != nil {
		u.Phone = *req.Phone
	}
	if req.Role != nil {
		u.Role = *req.Role
	}
	if req.Status != nil {
		u.Status = *req.Status
	}
	if req.UnitID != nil {
		unitID, err := uuid.Parse(*req.UnitID)
		if err != nil {
			return nil, apperrors.BadRequest("invalid unit id", err)
		}
		u.UnitID = &unitID
	}
	if req.Settings != nil {
		u.Settings = req.Settings
		if err := u.EncodeSettings(); err != nil {
			return nil, apperrors.BadRequest("invalid settings payload", err)
		}
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	s.auditor.Log(ctx, actorFrom(ctx), model.AuditActionUpdate, model.AuditEntityUser, u.ID, &audit.LogOptions{
		Changes: req,
	})
	return u, nil
}

// ChangePassword replaces the stored hash. The new password is never
// echoed back or audited.
func (s *Service) ChangePassword(ctx context.Context, id uuid.UUID, password string) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.repo.UpdatePassword(ctx, id, string(hash)); err != nil {
		return err
	}

	s.auditor.Log(ctx, actorFrom(ctx), model.AuditActionUpdate, model.AuditEntityUser, id, &audit.LogOptions{
		Metadata: map[string]string{"field": "password"},
	})
	return nil
}

// Deactivate blocks the account without deleting it.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SetStatus(ctx, id, model.UserStatusInactive); err != nil {
		return err
	}
	s.auditor.Log(ctx, actorFrom(ctx), model.AuditActionDeactivate, model.AuditEntityUser, id, nil)
	return nil
}

func actorFrom(ctx context.Context) uuid.UUID {
	if userID, ok := ctx.Value("user_id").(uuid.UUID); ok {
		return userID
	}
	return uuid.Nil
}
