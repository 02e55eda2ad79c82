package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treinasus/admin-api/internal/model"
	"github.com/treinasus/admin-api/internal/service/audit"
	"github.com/treinasus/admin-api/internal/service/notifier"
	apperrors "github.com/treinasus/admin-api/pkg/errors"
)

type fakeApptRepo struct {
	rows    map[uuid.UUID]*model.Appointment
	history []*model.AppointmentHistory
}

func newFakeApptRepo() *fakeApptRepo {
	return &fakeApptRepo{rows: make(map[uuid.UUID]*model.Appointment)}
}

func (f *fakeApptRepo) Create(_ context.Context, appt *model.Appointment) error {
	clone := *appt
	f.rows[appt.ID] = &clone
	return nil
}

func (f *fakeApptRepo) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	if appt, ok := f.rows[id]; ok {
		clone := *appt
		return &clone, nil
	}
	return nil, apperrors.NotFound("appointment", nil)
}

func (f *fakeApptRepo) Update(_ context.Context, appt *model.Appointment) error {
	if _, ok := f.rows[appt.ID]; !ok {
		return apperrors.NotFound("appointment", nil)
	}
	clone := *appt
	f.rows[appt.ID] = &clone
	return nil
}

func (f *fakeApptRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.rows, id)
	return nil
}

func (f *fakeApptRepo) List(_ context.Context, _ *model.AppointmentFilters) ([]*model.Appointment, error) {
	out := make([]*model.Appointment, 0, len(f.rows))
	for _, appt := range f.rows {
		out = append(out, appt)
	}
	return out, nil
}

func (f *fakeApptRepo) AppendHistory(_ context.Context, entry *model.AppointmentHistory) error {
	f.history = append(f.history, entry)
	return nil
}

func (f *fakeApptRepo) ListHistory(_ context.Context, appointmentID uuid.UUID) ([]*model.AppointmentHistory, error) {
	var out []*model.AppointmentHistory
	for _, entry := range f.history {
		if entry.AppointmentID == appointmentID {
			out = append(out, entry)
		}
	}
	return out, nil
}

type fakeProfRepo struct {
	p *model.Professional
}

func (f *fakeProfRepo) Create(_ context.Context, _ *model.Professional) error { return nil }
func (f *fakeProfRepo) Update(_ context.Context, _ *model.Professional) error { return nil }
func (f *fakeProfRepo) List(_ context.Context, _ *model.ProfessionalFilters) ([]*model.Professional, error) {
	return nil, nil
}
func (f *fakeProfRepo) GetByNationalID(_ context.Context, _ string) (*model.Professional, error) {
	return nil, apperrors.NotFound("professional", nil)
}
func (f *fakeProfRepo) Get(_ context.Context, id uuid.UUID) (*model.Professional, error) {
	if f.p != nil && f.p.ID == id {
		return f.p, nil
	}
	return nil, apperrors.NotFound("professional", nil)
}

type fakeTrainingRepo struct {
	t *model.Training
}

func (f *fakeTrainingRepo) Create(_ context.Context, _ *model.Training) error          { return nil }
func (f *fakeTrainingRepo) Update(_ context.Context, _ *model.Training) error          { return nil }
func (f *fakeTrainingRepo) SetMaterialURL(_ context.Context, _ uuid.UUID, _ string) error { return nil }
func (f *fakeTrainingRepo) List(_ context.Context) ([]*model.Training, error)          { return nil, nil }
func (f *fakeTrainingRepo) Get(_ context.Context, id uuid.UUID) (*model.Training, error) {
	if f.t != nil && f.t.ID == id {
		return f.t, nil
	}
	return nil, apperrors.NotFound("training", nil)
}

type fakeClassRepo struct {
	c *model.Class
}

func (f *fakeClassRepo) Create(_ context.Context, _ *model.Class) error { return nil }
func (f *fakeClassRepo) Update(_ context.Context, _ *model.Class) error { return nil }
func (f *fakeClassRepo) List(_ context.Context, _ uuid.UUID) ([]*model.Class, error) {
	return nil, nil
}
func (f *fakeClassRepo) Get(_ context.Context, id uuid.UUID) (*model.Class, error) {
	if f.c != nil && f.c.ID == id {
		return f.c, nil
	}
	return nil, apperrors.NotFound("class", nil)
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

type fakeAuditRepo struct{}

func (fakeAuditRepo) Create(_ context.Context, _ *model.AuditLog) error { return nil }
func (fakeAuditRepo) List(_ context.Context, _ map[string]interface{}) ([]*model.AuditLog, error) {
	return nil, nil
}
func (fakeAuditRepo) DeleteBefore(_ context.Context, _ time.Time) (int64, error) { return 0, nil }

type fakeNotifier struct {
	kinds []string
	err   error
}

func (f *fakeNotifier) Dispatch(_ context.Context, kind string, _ notifier.Target, _ map[string]string, _ []string) error {
	f.kinds = append(f.kinds, kind)
	return f.err
}

type testEnv struct {
	svc      *Service
	repo     *fakeApptRepo
	outbox   *fakeOutboxRepo
	notifier *fakeNotifier
	prof     *model.Professional
	training *model.Training
	class    *model.Class
}

func newTestEnv() *testEnv {
	prof := &model.Professional{
		Base:       model.Base{ID: uuid.New()},
		Name:       "Ana Souza",
		NationalID: "12345678900",
		Phone:      "+5511999990000",
	}
	training := &model.Training{
		Base: model.Base{ID: uuid.New()},
		Name: "Imunização",
	}
	class := &model.Class{
		Base:       model.Base{ID: uuid.New()},
		TrainingID: training.ID,
		StartTime:  time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
	}

	repo := newFakeApptRepo()
	outbox := &fakeOutboxRepo{}
	n := &fakeNotifier{}
	logger := zerolog.Nop()

	svc := NewService(
		repo,
		&fakeProfRepo{p: prof},
		&fakeTrainingRepo{t: training},
		&fakeClassRepo{c: class},
		outbox,
		n,
		audit.NewService(fakeAuditRepo{}, &logger),
	)

	return &testEnv{svc: svc, repo: repo, outbox: outbox, notifier: n, prof: prof, training: training, class: class}
}

func TestCreateAppointmentRecordsInitialHistory(t *testing.T) {
	env := newTestEnv()

	appt, err := env.svc.Create(context.Background(), &model.CreateAppointmentRequest{
		ProfessionalID: env.prof.ID.String(),
		TrainingID:     env.training.ID.String(),
		ClassID:        env.class.ID.String(),
	})
	require.NoError(t, err)

	assert.Equal(t, DefaultStatus, appt.Status)
	assert.Equal(t, model.AppointmentChannelAdmin, appt.Channel)

	require.Len(t, env.repo.history, 1)
	assert.Equal(t, appt.ID, env.repo.history[0].AppointmentID)
	assert.Equal(t, DefaultStatus, env.repo.history[0].Status)

	assert.Equal(t, []string{notifier.KindConfirmation}, env.notifier.kinds)
	assert.Len(t, env.outbox.events, 1)
}

func TestCreateAppointmentNotificationFailureIsNonFatal(t *testing.T) {
	env := newTestEnv()
	env.notifier.err = errors.New("provider down")

	_, err := env.svc.Create(context.Background(), &model.CreateAppointmentRequest{
		ProfessionalID: env.prof.ID.String(),
		TrainingID:     env.training.ID.String(),
	})
	require.NoError(t, err)
	assert.Len(t, env.repo.rows, 1)
}

func TestCreateAppointmentClassFromOtherTraining(t *testing.T) {
	env := newTestEnv()
	env.class.TrainingID = uuid.New()

	_, err := env.svc.Create(context.Background(), &model.CreateAppointmentRequest{
		ProfessionalID: env.prof.ID.String(),
		TrainingID:     env.training.ID.String(),
		ClassID:        env.class.ID.String(),
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrBadRequest, apperrors.CodeOf(err))
}

func TestUpdateStatusAppendsExactlyOneHistoryRow(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	appt, err := env.svc.Create(ctx, &model.CreateAppointmentRequest{
		ProfessionalID: env.prof.ID.String(),
		TrainingID:     env.training.ID.String(),
	})
	require.NoError(t, err)
	require.Len(t, env.repo.history, 1)

	confirmed := "Confirmed"
	_, err = env.svc.Update(ctx, appt.ID, &model.UpdateAppointmentRequest{Status: &confirmed})
	require.NoError(t, err)

	history, err := env.svc.ListHistory(ctx, appt.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "Confirmed", history[1].Status)

	assert.Contains(t, env.notifier.kinds, notifier.KindStatusChange)
}

func TestUpdateWithoutStatusChangeAppendsNothing(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	appt, err := env.svc.Create(ctx, &model.CreateAppointmentRequest{
		ProfessionalID: env.prof.ID.String(),
		TrainingID:     env.training.ID.String(),
	})
	require.NoError(t, err)

	notes := "prefers morning classes"
	_, err = env.svc.Update(ctx, appt.ID, &model.UpdateAppointmentRequest{Notes: &notes})
	require.NoError(t, err)

	// Only the creation row.
	assert.Len(t, env.repo.history, 1)
	assert.NotContains(t, env.notifier.kinds, notifier.KindStatusChange)
}

func TestUpdateSameStatusValueAppendsNothing(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	appt, err := env.svc.Create(ctx, &model.CreateAppointmentRequest{
		ProfessionalID: env.prof.ID.String(),
		TrainingID:     env.training.ID.String(),
		Status:         "Confirmed",
	})
	require.NoError(t, err)

	same := "Confirmed"
	_, err = env.svc.Update(ctx, appt.ID, &model.UpdateAppointmentRequest{Status: &same})
	require.NoError(t, err)

	assert.Len(t, env.repo.history, 1)
}

func TestDeleteAppointment(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	appt, err := env.svc.Create(ctx, &model.CreateAppointmentRequest{
		ProfessionalID: env.prof.ID.String(),
		TrainingID:     env.training.ID.String(),
	})
	require.NoError(t, err)

	require.NoError(t, env.svc.Delete(ctx, appt.ID))

	_, err = env.svc.Get(ctx, appt.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDeleteUnknownAppointment(t *testing.T) {
	env := newTestEnv()
	err := env.svc.Delete(context.Background(), uuid.New())
	assert.True(t, apperrors.IsNotFound(err))
}
