package messaging

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/treinasus/admin-api/internal/model"
	"github.com/treinasus/admin-api/internal/repository"
	"github.com/treinasus/admin-api/internal/whatsapp"
	apperrors "github.com/treinasus/admin-api/pkg/errors"
	"github.com/treinasus/admin-api/pkg/messaging"
)

// CredentialsSource supplies the provider credentials configured for the
// installation. Returning invalid credentials makes outbound sends fail
// with a configuration error.
type CredentialsSource interface {
	WhatsAppCredentials(ctx context.Context) *whatsapp.Credentials
}

// Provider is the subset of the WhatsApp client the gateway needs.
type Provider interface {
	SendMessage(ctx context.Context, creds *whatsapp.Credentials, phone, content string) (*whatsapp.ProviderResponse, error)
}

// Gateway mediates between the admin UI and the WhatsApp channel:
// conversation retrieval, sends, and a coarse change subscription.
type Gateway struct {
	repo     repository.ConversationRepository
	provider Provider
	creds    CredentialsSource
	broker   messaging.Broker
}

func NewGateway(repo repository.ConversationRepository, provider Provider, creds CredentialsSource, broker messaging.Broker) *Gateway {
	return &Gateway{
		repo:     repo,
		provider: provider,
		creds:    creds,
		broker:   broker,
	}
}

// ListConversations returns conversations most-recent-first by last
// message time.
func (g *Gateway) ListConversations(ctx context.Context) ([]*model.Conversation, error) {
	return g.repo.List(ctx)
}

// ListMessages returns a conversation's messages in chronological order.
func (g *Gateway) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]*model.Message, error) {
	if _, err := g.repo.Get(ctx, conversationID); err != nil {
		return nil, err
	}
	return g.repo.ListMessages(ctx, conversationID)
}

// FindOrCreateConversation is an idempotent lookup-or-insert keyed by
// phone number.
func (g *Gateway) FindOrCreateConversation(ctx context.Context, phone, displayName string) (*model.Conversation, error) {
	conv, err := g.repo.GetByPhone(ctx, phone)
	if err == nil {
		return conv, nil
	}
	if !apperrors.IsNotFound(err) {
		return nil, err
	}

	conv = &model.Conversation{
		Base:        model.Base{ID: uuid.New()},
		Phone:       phone,
		DisplayName: displayName,
	}
	if err := g.repo.Create(ctx, conv); err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	return conv, nil
}

// SendMessage records the message and, for bot/agent senders, forwards
// it through the provider. A simulated end-user message is recorded as
// an inbound event with no outbound call.
func (g *Gateway) SendMessage(ctx context.Context, conversationID uuid.UUID, content, sender string) (*model.Message, error) {
	conv, err := g.repo.Get(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	if sender != model.SenderUser {
		creds := g.creds.WhatsAppCredentials(ctx)
		if !creds.Valid() {
			return nil, apperrors.Configuration("whatsapp credentials are not configured")
		}

		resp, err := g.provider.SendMessage(ctx, creds, conv.Phone, content)
		if err != nil {
			return nil, apperrors.Unavailable("failed to deliver whatsapp message", err)
		}
		if !resp.Success {
			return nil, apperrors.Unavailable(fmt.Sprintf("provider rejected message: %s", resp.Error), nil)
		}
	}

	msg := &model.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		Sender:         sender,
		Content:        content,
		CreatedAt:      time.Now(),
	}
	if err := g.repo.AppendMessage(ctx, msg); err != nil {
		return nil, err
	}

	// Best effort: subscribers refetch on any signal, a missed publish
	// only delays their next refresh.
	_ = g.broker.Publish(ctx, messaging.ChannelMessages, map[string]string{
		"conversation_id": conversationID.String(),
	})

	return msg, nil
}

// Subscribe registers a listener for message-table change signals. The
// payload is a coarse "something changed" notification; consumers are
// expected to refetch. The returned function cancels the subscription.
func (g *Gateway) Subscribe(ctx context.Context, listener func()) (func(), error) {
	subCtx, cancel := context.WithCancel(ctx)

	ch, err := g.broker.Subscribe(subCtx, messaging.ChannelMessages)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to subscribe to message changes: %w", err)
	}

	var once sync.Once
	go func() {
		for range ch {
			listener()
		}
	}()

	return func() {
		once.Do(cancel)
	}, nil
}
