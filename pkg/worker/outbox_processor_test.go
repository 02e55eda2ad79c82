package worker

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treinasus/admin-api/internal/model"
	"github.com/treinasus/admin-api/pkg/logger"
	"github.com/treinasus/admin-api/pkg/metrics"
)

var testMetrics = metrics.New("worker_test")

type fakeOutboxRepo struct {
	pending  []*model.OutboxEvent
	statuses map[uuid.UUID]model.OutboxStatus
	errors   map[uuid.UUID]string
}

func newFakeOutboxRepo(events ...*model.OutboxEvent) *fakeOutboxRepo {
	return &fakeOutboxRepo{
		pending:  events,
		statuses: make(map[uuid.UUID]model.OutboxStatus),
		errors:   make(map[uuid.UUID]string),
	}
}

func (f *fakeOutboxRepo) Create(_ context.Context, event *model.OutboxEvent) error {
	f.pending = append(f.pending, event)
	return nil
}

// GetPendingEvents mimics the claim semantics: returned events are no
// longer pending and will not be handed out twice.
func (f *fakeOutboxRepo) GetPendingEvents(_ context.Context, limit int) ([]*model.OutboxEvent, error) {
	if limit > len(f.pending) {
		limit = len(f.pending)
	}
	claimed := f.pending[:limit]
	f.pending = f.pending[limit:]
	for _, event := range claimed {
		f.statuses[event.ID] = model.OutboxStatusProcessing
	}
	return claimed, nil
}

func (f *fakeOutboxRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error {
	f.statuses[id] = status
	if errMsg != nil {
		f.errors[id] = *errMsg
	}
	return nil
}

func (f *fakeOutboxRepo) DeleteProcessedBefore(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeOutboxRepo) ReleaseStale(_ context.Context, _ time.Time) (int64, error) {
	var released int64
	for id, status := range f.statuses {
		if status == model.OutboxStatusProcessing {
			f.statuses[id] = model.OutboxStatusPending
			released++
		}
	}
	return released, nil
}

type fakeBroker struct {
	published  []interface{}
	publishErr error
}

func (f *fakeBroker) Publish(_ context.Context, _ string, message interface{}) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, message)
	return nil
}

func (f *fakeBroker) Subscribe(_ context.Context, _ string) (<-chan []byte, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeBroker) Close() error { return nil }

func testProcessor(repo *fakeOutboxRepo, broker *fakeBroker) *OutboxProcessor {
	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	return NewOutboxProcessor(repo, broker, OutboxProcessorConfig{
		BatchSize:     10,
		PollInterval:  time.Second,
		RetryAttempts: 2,
		RetryDelay:    time.Millisecond,
	}, log, testMetrics)
}

func pendingEvent(eventType string) *model.OutboxEvent {
	return &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: eventType,
		Payload:   []byte(`{}`),
		Status:    string(model.OutboxStatusPending),
		CreatedAt: time.Now(),
	}
}

func TestProcessEventsPublishesAndMarksProcessed(t *testing.T) {
	first := pendingEvent("professional.created")
	second := pendingEvent("appointment.updated")
	repo := newFakeOutboxRepo(first, second)
	broker := &fakeBroker{}

	require.NoError(t, testProcessor(repo, broker).processEvents(context.Background()))

	assert.Len(t, broker.published, 2)
	assert.Equal(t, model.OutboxStatusProcessed, repo.statuses[first.ID])
	assert.Equal(t, model.OutboxStatusProcessed, repo.statuses[second.ID])
	assert.Empty(t, repo.pending)
}

// Every claimed event must end in a terminal status; a claim that the
// broker rejects is marked failed with the error, not left in limbo.
func TestProcessEventsMarksFailedWhenPublishFails(t *testing.T) {
	event := pendingEvent("professional.created")
	repo := newFakeOutboxRepo(event)
	broker := &fakeBroker{publishErr: errors.New("broker down")}

	require.NoError(t, testProcessor(repo, broker).processEvents(context.Background()))

	assert.Equal(t, model.OutboxStatusFailed, repo.statuses[event.ID])
	assert.Contains(t, repo.errors[event.ID], "broker down")
}

func TestProcessEventsEmptyBatch(t *testing.T) {
	repo := newFakeOutboxRepo()
	broker := &fakeBroker{}

	require.NoError(t, testProcessor(repo, broker).processEvents(context.Background()))
	assert.Empty(t, broker.published)
}
