package messaging

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/treinasus/admin-api/internal/model"
	messagingService "github.com/treinasus/admin-api/internal/service/messaging"
	"github.com/treinasus/admin-api/internal/service/notifier"
	"github.com/treinasus/admin-api/internal/whatsapp"
	apperrors "github.com/treinasus/admin-api/pkg/errors"
	"github.com/treinasus/admin-api/pkg/httputil"
)

type Handler struct {
	gateway   *messagingService.Gateway
	client    *whatsapp.Client
	creds     messagingService.CredentialsSource
	templates *notifier.TemplateStore
}

func NewHandler(gateway *messagingService.Gateway, client *whatsapp.Client, creds messagingService.CredentialsSource, templates *notifier.TemplateStore) *Handler {
	return &Handler{
		gateway:   gateway,
		client:    client,
		creds:     creds,
		templates: templates,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	conversations := r.Group("/conversations")
	{
		conversations.GET("", h.ListConversations)
		conversations.POST("", h.FindOrCreateConversation)
		conversations.GET("/:id/messages", h.ListMessages)
		conversations.POST("/:id/messages", h.SendMessage)
	}

	wa := r.Group("/whatsapp")
	{
		wa.POST("/test-connection", h.TestConnection)
		wa.POST("/webhook-config", h.ConfigureWebhook)
		wa.POST("/simulate-incoming", h.SimulateIncoming)
	}

	templates := r.Group("/message-templates")
	{
		templates.GET("", h.ListTemplates)
		templates.PUT("/:kind", h.SetTemplate)
	}
}

func (h *Handler) ListConversations(c *gin.Context) {
	conversations, err := h.gateway.ListConversations(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, conversations)
}

func (h *Handler) FindOrCreateConversation(c *gin.Context) {
	var req model.StartConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	conv, err := h.gateway.FindOrCreateConversation(c.Request.Context(), req.Phone, req.DisplayName)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, conv)
}

func (h *Handler) ListMessages(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid conversation ID", err))
		return
	}

	messages, err := h.gateway.ListMessages(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, messages)
}

func (h *Handler) SendMessage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid conversation ID", err))
		return
	}

	var req model.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}
	if req.Sender == "" {
		req.Sender = model.SenderAgent
	}

	msg, err := h.gateway.SendMessage(c.Request.Context(), id, req.Content, req.Sender)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, msg)
}

func (h *Handler) TestConnection(c *gin.Context) {
	creds := h.creds.WhatsAppCredentials(c.Request.Context())
	if !creds.Valid() {
		httputil.RespondWithError(c, apperrors.Configuration("whatsapp credentials are not configured"))
		return
	}

	resp, err := h.client.TestConnection(c.Request.Context(), creds)
	if err != nil {
		httputil.RespondWithError(c, apperrors.Unavailable("provider is unreachable", err))
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, resp)
}

type webhookConfigRequest struct {
	WebhookURL string `json:"webhook_url" binding:"required,url"`
}

func (h *Handler) ConfigureWebhook(c *gin.Context) {
	creds := h.creds.WhatsAppCredentials(c.Request.Context())
	if !creds.Valid() {
		httputil.RespondWithError(c, apperrors.Configuration("whatsapp credentials are not configured"))
		return
	}

	var req webhookConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	resp, err := h.client.ConfigureWebhook(c.Request.Context(), creds, req.WebhookURL)
	if err != nil {
		httputil.RespondWithError(c, apperrors.Unavailable("provider is unreachable", err))
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, resp)
}

type simulateIncomingRequest struct {
	Phone   string `json:"phone" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// SimulateIncoming records an end-user message as if it arrived from the
// provider webhook, for testing the inbound flow without a real device.
func (h *Handler) SimulateIncoming(c *gin.Context) {
	var req simulateIncomingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	conv, err := h.gateway.FindOrCreateConversation(c.Request.Context(), req.Phone, "")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	msg, err := h.gateway.SendMessage(c.Request.Context(), conv.ID, req.Content, model.SenderUser)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, msg)
}

func (h *Handler) ListTemplates(c *gin.Context) {
	httputil.RespondWithSuccess(c, http.StatusOK, h.templates.List())
}

type templateRequest struct {
	Template string `json:"template" binding:"required"`
}

func (h *Handler) SetTemplate(c *gin.Context) {
	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	if err := h.templates.Set(c.Param("kind"), req.Template); err != nil {
		httputil.RespondWithError(c, apperrors.Internal(err))
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, gin.H{
		"kind":     c.Param("kind"),
		"template": req.Template,
	})
}
