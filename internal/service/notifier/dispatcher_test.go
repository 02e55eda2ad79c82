package notifier

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treinasus/admin-api/internal/model"
	"github.com/treinasus/admin-api/pkg/metrics"
)

var testMetrics = metrics.New("notifier_test")

type fakeSender struct {
	sendErr error
	convErr error
	sent    []string
}

func (f *fakeSender) FindOrCreateConversation(_ context.Context, phone, displayName string) (*model.Conversation, error) {
	if f.convErr != nil {
		return nil, f.convErr
	}
	return &model.Conversation{Base: model.Base{ID: uuid.New()}, Phone: phone, DisplayName: displayName}, nil
}

func (f *fakeSender) SendMessage(_ context.Context, _ uuid.UUID, content, _ string) (*model.Message, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.sent = append(f.sent, content)
	return &model.Message{ID: uuid.New(), Content: content}, nil
}

type fakeCommRepo struct {
	rows []*model.Communication
}

func (f *fakeCommRepo) Create(_ context.Context, comm *model.Communication) error {
	f.rows = append(f.rows, comm)
	return nil
}

func (f *fakeCommRepo) List(_ context.Context, _ int) ([]*model.Communication, error) {
	return f.rows, nil
}

func newTestDispatcher(t *testing.T, sender *fakeSender, commRepo *fakeCommRepo) *Dispatcher {
	t.Helper()
	store, err := NewTemplateStore("")
	require.NoError(t, err)
	logger := zerolog.Nop()
	return NewDispatcher(store, sender, commRepo, EmailConfig{}, testMetrics, &logger)
}

func TestDispatchSendsWhatsAppAndRecords(t *testing.T) {
	sender := &fakeSender{}
	commRepo := &fakeCommRepo{}
	d := newTestDispatcher(t, sender, commRepo)

	target := Target{Name: "Ana", Phone: "+5511999990000"}
	err := d.Dispatch(context.Background(), KindConfirmation, target, map[string]string{
		"name":     "Ana",
		"training": "Imunização",
		"date":     "01/09/2026 09:00",
	}, []string{ChannelWhatsApp})
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0], "Ana")
	assert.NotContains(t, sender.sent[0], "{{")

	require.Len(t, commRepo.rows, 1)
	assert.Equal(t, model.CommunicationStatusSent, commRepo.rows[0].Status)
	assert.Equal(t, "+5511999990000", commRepo.rows[0].Recipient)
}

func TestDispatchDeliveryFailureIsNonFatal(t *testing.T) {
	sender := &fakeSender{sendErr: errors.New("provider down")}
	commRepo := &fakeCommRepo{}
	d := newTestDispatcher(t, sender, commRepo)

	target := Target{Name: "Ana", Phone: "+5511999990000"}
	err := d.Dispatch(context.Background(), KindStatusChange, target, map[string]string{
		"name":   "Ana",
		"status": "Confirmed",
	}, []string{ChannelWhatsApp})

	// The triggering write already committed; delivery failures must not
	// surface to the caller.
	require.NoError(t, err)

	require.Len(t, commRepo.rows, 1)
	assert.Equal(t, model.CommunicationStatusFailed, commRepo.rows[0].Status)
	assert.Contains(t, commRepo.rows[0].LastError, "provider down")
}

func TestDispatchMissingPhoneRecordsFailure(t *testing.T) {
	sender := &fakeSender{}
	commRepo := &fakeCommRepo{}
	d := newTestDispatcher(t, sender, commRepo)

	err := d.Dispatch(context.Background(), KindConfirmation, Target{Name: "Ana"}, nil, []string{ChannelWhatsApp})
	require.NoError(t, err)

	assert.Empty(t, sender.sent)
	require.Len(t, commRepo.rows, 1)
	assert.Equal(t, model.CommunicationStatusFailed, commRepo.rows[0].Status)
}

func TestDispatchUnknownKindSkips(t *testing.T) {
	sender := &fakeSender{}
	commRepo := &fakeCommRepo{}
	d := newTestDispatcher(t, sender, commRepo)

	err := d.Dispatch(context.Background(), "no-such-kind", Target{Phone: "+55"}, nil, []string{ChannelWhatsApp})
	require.NoError(t, err)
	assert.Empty(t, sender.sent)
	assert.Empty(t, commRepo.rows)
}

func TestDispatchUnknownChannelSkips(t *testing.T) {
	sender := &fakeSender{}
	commRepo := &fakeCommRepo{}
	d := newTestDispatcher(t, sender, commRepo)

	err := d.Dispatch(context.Background(), KindConfirmation, Target{Phone: "+55"}, nil, []string{"carrier-pigeon"})
	require.NoError(t, err)
	assert.Empty(t, commRepo.rows)
}
