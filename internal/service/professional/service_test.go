package professional

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treinasus/admin-api/internal/model"
	"github.com/treinasus/admin-api/internal/service/audit"
	apperrors "github.com/treinasus/admin-api/pkg/errors"
)

type fakeProfRepo struct {
	rows []*model.Professional
}

func (f *fakeProfRepo) Create(_ context.Context, p *model.Professional) error {
	clone := *p
	f.rows = append(f.rows, &clone)
	return nil
}

func (f *fakeProfRepo) Get(_ context.Context, id uuid.UUID) (*model.Professional, error) {
	for _, row := range f.rows {
		if row.ID == id {
			clone := *row
			return &clone, nil
		}
	}
	return nil, apperrors.NotFound("professional", nil)
}

func (f *fakeProfRepo) GetByNationalID(_ context.Context, nationalID string) (*model.Professional, error) {
	for _, row := range f.rows {
		if row.NationalID == nationalID {
			clone := *row
			return &clone, nil
		}
	}
	return nil, apperrors.NotFound("professional", nil)
}

func (f *fakeProfRepo) Update(_ context.Context, p *model.Professional) error {
	for i, row := range f.rows {
		if row.ID == p.ID {
			clone := *p
			f.rows[i] = &clone
			return nil
		}
	}
	return apperrors.NotFound("professional", nil)
}

func (f *fakeProfRepo) List(_ context.Context, _ *model.ProfessionalFilters) ([]*model.Professional, error) {
	return f.rows, nil
}

type fakeOutboxRepo struct {
	events []*model.OutboxEvent
}

func (f *fakeOutboxRepo) Create(_ context.Context, event *model.OutboxEvent) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeOutboxRepo) GetPendingEvents(_ context.Context, _ int) ([]*model.OutboxEvent, error) {
	return f.events, nil
}

func (f *fakeOutboxRepo) UpdateStatus(_ context.Context, _ uuid.UUID, _ model.OutboxStatus, _ *string) error {
	return nil
}

func (f *fakeOutboxRepo) DeleteProcessedBefore(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeOutboxRepo) ReleaseStale(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

type fakeAuditRepo struct {
	entries []*model.AuditLog
}

func (f *fakeAuditRepo) Create(_ context.Context, entry *model.AuditLog) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditRepo) List(_ context.Context, _ map[string]interface{}) ([]*model.AuditLog, error) {
	return f.entries, nil
}

func (f *fakeAuditRepo) DeleteBefore(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

type fakeStore struct{}

func (fakeStore) UploadAvatar(_ context.Context, ownerID uuid.UUID, _ string, _ []byte) (string, error) {
	return "https://cdn.example/avatars/" + ownerID.String(), nil
}

func (fakeStore) UploadMaterial(_ context.Context, trainingID uuid.UUID, filename, _ string, _ []byte) (string, error) {
	return "https://cdn.example/materials/" + trainingID.String() + "/" + filename, nil
}

func (fakeStore) PublicURL(bucket, key string) string {
	return "https://cdn.example/" + bucket + "/" + key
}

func newTestService() (*Service, *fakeProfRepo, *fakeAuditRepo) {
	repo := &fakeProfRepo{}
	auditRepo := &fakeAuditRepo{}
	logger := zerolog.Nop()
	svc := NewService(repo, &fakeOutboxRepo{}, fakeStore{}, audit.NewService(auditRepo, &logger))
	return svc, repo, auditRepo
}

func TestUpsertCreatesNewProfessional(t *testing.T) {
	svc, repo, auditRepo := newTestService()

	p, created, err := svc.Upsert(context.Background(), &model.CreateProfessionalRequest{
		Name:       "Ana Souza",
		NationalID: "12345678900",
		Phone:      "+5511999990000",
	})
	require.NoError(t, err)

	assert.True(t, created)
	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.Equal(t, model.ProfessionalStatusActive, p.Status)
	assert.Len(t, repo.rows, 1)
	require.Len(t, auditRepo.entries, 1)
	assert.Equal(t, model.AuditActionCreate, auditRepo.entries[0].Action)
}

func TestUpsertExistingNationalIDUpdatesInPlace(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	first, created, err := svc.Upsert(ctx, &model.CreateProfessionalRequest{
		Name:       "Ana Souza",
		NationalID: "12345678900",
	})
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := svc.Upsert(ctx, &model.CreateProfessionalRequest{
		Name:       "Ana S. Lima",
		NationalID: "12345678900",
		Email:      "ana@example.org",
	})
	require.NoError(t, err)
	assert.False(t, created)

	// Same national ID must never produce a second row.
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.rows, 1)
	assert.Equal(t, "Ana S. Lima", repo.rows[0].Name)
	assert.Equal(t, "ana@example.org", repo.rows[0].Email)
}

func TestUpsertDifferentNationalIDsCreateSeparateRows(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	_, _, err := svc.Upsert(ctx, &model.CreateProfessionalRequest{Name: "Ana", NationalID: "111"})
	require.NoError(t, err)
	_, _, err = svc.Upsert(ctx, &model.CreateProfessionalRequest{Name: "Bia", NationalID: "222"})
	require.NoError(t, err)

	assert.Len(t, repo.rows, 2)
}

func TestUpdateAppliesPartialPatch(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	p, _, err := svc.Upsert(ctx, &model.CreateProfessionalRequest{Name: "Ana", NationalID: "111", Phone: "+55"})
	require.NoError(t, err)

	newName := "Ana Lima"
	updated, err := svc.Update(ctx, p.ID, &model.UpdateProfessionalRequest{Name: &newName})
	require.NoError(t, err)

	assert.Equal(t, "Ana Lima", updated.Name)
	assert.Equal(t, "+55", updated.Phone)
	assert.Len(t, repo.rows, 1)
}

func TestUpdateUnknownProfessional(t *testing.T) {
	svc, _, _ := newTestService()

	name := "Nobody"
	_, err := svc.Update(context.Background(), uuid.New(), &model.UpdateProfessionalRequest{Name: &name})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUploadAvatarStoresURL(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	p, _, err := svc.Upsert(ctx, &model.CreateProfessionalRequest{Name: "Ana", NationalID: "111"})
	require.NoError(t, err)

	url, err := svc.UploadAvatar(ctx, p.ID, "image/png", []byte{0x89, 0x50})
	require.NoError(t, err)
	assert.Contains(t, url, p.ID.String())
	require.NotNil(t, repo.rows[0].AvatarURL)
	assert.Equal(t, url, *repo.rows[0].AvatarURL)
}
