package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/treinasus/admin-api/internal/model"
	"github.com/treinasus/admin-api/internal/repository"
	"github.com/treinasus/admin-api/pkg/metrics"
)

// Delivery channels.
const (
	ChannelWhatsApp = "whatsapp"
	ChannelEmail    = "email"
)

// MessageSender delivers rendered content to a WhatsApp conversation.
// Implemented by the messaging gateway.
type MessageSender interface {
	FindOrCreateConversation(ctx context.Context, phone, displayName string) (*model.Conversation, error)
	SendMessage(ctx context.Context, conversationID uuid.UUID, content, sender string) (*model.Message, error)
}

// EmailConfig holds SMTP settings for the email channel.
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Target is one recipient of a notification.
type Target struct {
	Name  string
	Phone string
	Email string
}

// Dispatcher renders a template for an event kind and routes the result
// to the enabled channels. Delivery failure is recorded as a failed
// communication row and never propagated: the action that triggered the
// notification must not be blocked by a provider outage.
type Dispatcher struct {
	templates *TemplateStore
	sender    MessageSender
	commRepo  repository.CommunicationRepository
	email     EmailConfig
	metrics   *metrics.Metrics
	logger    *zerolog.Logger
}

func NewDispatcher(
	templates *TemplateStore,
	sender MessageSender,
	commRepo repository.CommunicationRepository,
	email EmailConfig,
	m *metrics.Metrics,
	logger *zerolog.Logger,
) *Dispatcher {
	return &Dispatcher{
		templates: templates,
		sender:    sender,
		commRepo:  commRepo,
		email:     email,
		metrics:   m,
		logger:    logger,
	}
}

// Dispatch renders the template for kind and delivers it on every
// requested channel. Always returns nil; failures are logged and stored.
func (d *Dispatcher) Dispatch(ctx context.Context, kind string, target Target, variables map[string]string, channels []string) error {
	template, ok := d.templates.Get(kind)
	if !ok {
		d.logger.Warn().Str("kind", kind).Msg("no template for notification kind, skipping dispatch")
		return nil
	}

	content := Render(template, variables)

	for _, channel := range channels {
		var err error
		var recipient string

		switch channel {
		case ChannelWhatsApp:
			recipient = target.Phone
			err = d.sendWhatsApp(ctx, target, content)
		case ChannelEmail:
			recipient = target.Email
			err = d.sendEmail(target, kind, content)
		default:
			d.logger.Warn().Str("channel", channel).Msg("unknown notification channel, skipping")
			continue
		}

		d.record(ctx, kind, channel, recipient, content, err)
	}

	return nil
}

func (d *Dispatcher) sendWhatsApp(ctx context.Context, target Target, content string) error {
	if target.Phone == "" {
		return fmt.Errorf("target has no phone number")
	}

	conv, err := d.sender.FindOrCreateConversation(ctx, target.Phone, target.Name)
	if err != nil {
		return err
	}
	_, err = d.sender.SendMessage(ctx, conv.ID, content, model.SenderBot)
	return err
}

func (d *Dispatcher) sendEmail(target Target, kind, content string) error {
	if target.Email == "" {
		return fmt.Errorf("target has no email address")
	}
	if d.email.Host == "" {
		return fmt.Errorf("smtp is not configured")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", d.email.From)
	m.SetHeader("To", target.Email)
	m.SetHeader("Subject", subjectFor(kind))
	m.SetBody("text/plain", content)

	dialer := gomail.NewDialer(d.email.Host, d.email.Port, d.email.Username, d.email.Password)
	return dialer.DialAndSend(m)
}

func subjectFor(kind string) string {
	switch kind {
	case KindConfirmation:
		return "Inscrição confirmada"
	case KindStatusChange:
		return "Atualização de inscrição"
	default:
		return "Notificação"
	}
}

func (d *Dispatcher) record(ctx context.Context, kind, channel, recipient, content string, deliveryErr error) {
	comm := &model.Communication{
		ID:        uuid.New(),
		Kind:      kind,
		Channel:   channel,
		Recipient: recipient,
		Content:   content,
		Status:    model.CommunicationStatusSent,
		CreatedAt: time.Now(),
	}

	if deliveryErr != nil {
		comm.Status = model.CommunicationStatusFailed
		comm.LastError = deliveryErr.Error()
		d.metrics.NotificationsFailed.WithLabelValues(channel).Inc()
		d.logger.Warn().
			Err(deliveryErr).
			Str("kind", kind).
			Str("channel", channel).
			Msg("notification delivery failed")
	} else {
		d.metrics.NotificationsSent.WithLabelValues(channel).Inc()
	}

	if err := d.commRepo.Create(ctx, comm); err != nil {
		d.logger.Error().Err(err).Msg("failed to record communication")
	}
}
