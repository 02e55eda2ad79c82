package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/treinasus/admin-api/internal/model"
	"github.com/treinasus/admin-api/internal/repository"
	"github.com/treinasus/admin-api/internal/service/audit"
	"github.com/treinasus/admin-api/pkg/auth"
	apperrors "github.com/treinasus/admin-api/pkg/errors"
)

type Service struct {
	repo    repository.UserRepository
	jwt     *auth.JWTService
	auditor *audit.Service
}

func NewService(repo repository.UserRepository, jwt *auth.JWTService, auditor *audit.Service) *Service {
	return &Service{repo: repo, jwt: jwt, auditor: auditor}
}

// Login verifies credentials and issues an access token. Lookup misses
// and bad passwords produce the same error so the response does not leak
// which emails exist.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	u, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.Unauthorized("invalid credentials")
		}
		return nil, err
	}

	if u.Status != model.UserStatusActive {
		return nil, apperrors.Unauthorized("account is inactive")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.Unauthorized("invalid credentials")
	}

	token, err := s.jwt.GenerateToken(u.ID, u.Email, u.Role)
	if err != nil {
		return nil, err
	}

	s.auditor.Log(ctx, u.ID, model.AuditActionLogin, model.AuditEntityUser, u.ID, nil)

	u.PasswordHash = ""
	return &model.LoginResponse{Token: token, User: u}, nil
}

// ValidateToken re-exports token validation for the auth middleware.
func (s *Service) ValidateToken(token string) (*auth.Claims, error) {
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid or expired token")
	}
	return claims, nil
}
