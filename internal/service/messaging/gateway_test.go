package messaging

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treinasus/admin-api/internal/model"
	"github.com/treinasus/admin-api/internal/whatsapp"
	apperrors "github.com/treinasus/admin-api/pkg/errors"
)

type fakeConvRepo struct {
	byPhone  map[string]*model.Conversation
	messages []*model.Message
}

func newFakeConvRepo() *fakeConvRepo {
	return &fakeConvRepo{byPhone: make(map[string]*model.Conversation)}
}

func (f *fakeConvRepo) Create(_ context.Context, conv *model.Conversation) error {
	f.byPhone[conv.Phone] = conv
	return nil
}

func (f *fakeConvRepo) Get(_ context.Context, id uuid.UUID) (*model.Conversation, error) {
	for _, conv := range f.byPhone {
		if conv.ID == id {
			return conv, nil
		}
	}
	return nil, apperrors.NotFound("conversation", nil)
}

func (f *fakeConvRepo) GetByPhone(_ context.Context, phone string) (*model.Conversation, error) {
	if conv, ok := f.byPhone[phone]; ok {
		return conv, nil
	}
	return nil, apperrors.NotFound("conversation", nil)
}

func (f *fakeConvRepo) List(_ context.Context) ([]*model.Conversation, error) {
	out := make([]*model.Conversation, 0, len(f.byPhone))
	for _, conv := range f.byPhone {
		out = append(out, conv)
	}
	return out, nil
}

func (f *fakeConvRepo) AppendMessage(_ context.Context, msg *model.Message) error {
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakeConvRepo) ListMessages(_ context.Context, conversationID uuid.UUID) ([]*model.Message, error) {
	var out []*model.Message
	for _, msg := range f.messages {
		if msg.ConversationID == conversationID {
			out = append(out, msg)
		}
	}
	return out, nil
}

type fakeProvider struct {
	calls int
	err   error
	resp  *whatsapp.ProviderResponse
}

func (f *fakeProvider) SendMessage(_ context.Context, _ *whatsapp.Credentials, _, _ string) (*whatsapp.ProviderResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.resp != nil {
		return f.resp, nil
	}
	return &whatsapp.ProviderResponse{Success: true}, nil
}

type staticCreds struct {
	creds whatsapp.Credentials
}

func (s *staticCreds) WhatsAppCredentials(_ context.Context) *whatsapp.Credentials {
	return &s.creds
}

type fakeBroker struct {
	published []interface{}
	subCh     chan []byte
}

func (f *fakeBroker) Publish(_ context.Context, _ string, message interface{}) error {
	f.published = append(f.published, message)
	return nil
}

func (f *fakeBroker) Subscribe(ctx context.Context, _ string) (<-chan []byte, error) {
	f.subCh = make(chan []byte, 10)
	go func() {
		<-ctx.Done()
		close(f.subCh)
	}()
	return f.subCh, nil
}

func (f *fakeBroker) Close() error { return nil }

func validCreds() *staticCreds {
	return &staticCreds{creds: whatsapp.Credentials{
		BaseURL:    "https://provider.example",
		InstanceID: "inst-1",
		Token:      "secret",
	}}
}

func TestFindOrCreateConversationIsIdempotent(t *testing.T) {
	g := NewGateway(newFakeConvRepo(), &fakeProvider{}, validCreds(), &fakeBroker{})
	ctx := context.Background()

	first, err := g.FindOrCreateConversation(ctx, "+5511999990000", "Ana")
	require.NoError(t, err)

	second, err := g.FindOrCreateConversation(ctx, "+5511999990000", "Other Name")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Ana", second.DisplayName)
}

func TestSendMessageWithoutCredentials(t *testing.T) {
	provider := &fakeProvider{}
	g := NewGateway(newFakeConvRepo(), provider, &staticCreds{}, &fakeBroker{})
	ctx := context.Background()

	conv, err := g.FindOrCreateConversation(ctx, "+5511999990000", "Ana")
	require.NoError(t, err)

	_, err = g.SendMessage(ctx, conv.ID, "hello", model.SenderAgent)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrConfiguration, apperrors.CodeOf(err))
	assert.Zero(t, provider.calls)
}

func TestSendMessageUserSenderSkipsProvider(t *testing.T) {
	provider := &fakeProvider{}
	repo := newFakeConvRepo()
	g := NewGateway(repo, provider, &staticCreds{}, &fakeBroker{})
	ctx := context.Background()

	conv, err := g.FindOrCreateConversation(ctx, "+5511999990000", "Ana")
	require.NoError(t, err)

	// Simulated inbound messages are recorded even with no credentials
	// configured: nothing goes out to the provider.
	msg, err := g.SendMessage(ctx, conv.ID, "oi", model.SenderUser)
	require.NoError(t, err)
	assert.Equal(t, model.SenderUser, msg.Sender)
	assert.Zero(t, provider.calls)
	assert.Len(t, repo.messages, 1)
}

func TestSendMessageProviderFailure(t *testing.T) {
	provider := &fakeProvider{err: errors.New("timeout")}
	repo := newFakeConvRepo()
	g := NewGateway(repo, provider, validCreds(), &fakeBroker{})
	ctx := context.Background()

	conv, err := g.FindOrCreateConversation(ctx, "+5511999990000", "Ana")
	require.NoError(t, err)

	_, err = g.SendMessage(ctx, conv.ID, "hello", model.SenderBot)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrUnavailable, apperrors.CodeOf(err))
	assert.Empty(t, repo.messages)
}

func TestSendMessageProviderRejection(t *testing.T) {
	provider := &fakeProvider{resp: &whatsapp.ProviderResponse{Success: false, Error: "blocked"}}
	g := NewGateway(newFakeConvRepo(), provider, validCreds(), &fakeBroker{})
	ctx := context.Background()

	conv, err := g.FindOrCreateConversation(ctx, "+5511999990000", "Ana")
	require.NoError(t, err)

	_, err = g.SendMessage(ctx, conv.ID, "hello", model.SenderBot)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrUnavailable, apperrors.CodeOf(err))
}

func TestSendMessagePublishesChangeSignal(t *testing.T) {
	broker := &fakeBroker{}
	g := NewGateway(newFakeConvRepo(), &fakeProvider{}, validCreds(), broker)
	ctx := context.Background()

	conv, err := g.FindOrCreateConversation(ctx, "+5511999990000", "Ana")
	require.NoError(t, err)

	_, err = g.SendMessage(ctx, conv.ID, "hello", model.SenderAgent)
	require.NoError(t, err)
	assert.Len(t, broker.published, 1)
}

func TestSubscribeUnsubscribeIsSafeTwice(t *testing.T) {
	g := NewGateway(newFakeConvRepo(), &fakeProvider{}, validCreds(), &fakeBroker{})

	unsubscribe, err := g.Subscribe(context.Background(), func() {})
	require.NoError(t, err)

	unsubscribe()
	unsubscribe()
}
