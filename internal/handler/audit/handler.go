package audit

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	auditService "github.com/treinasus/admin-api/internal/service/audit"
	apperrors "github.com/treinasus/admin-api/pkg/errors"
	"github.com/treinasus/admin-api/pkg/httputil"
)

type Handler struct {
	service *auditService.Service
}

func NewHandler(service *auditService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	logs := r.Group("/audit-logs")
	{
		logs.GET("", h.List)
	}
}

func (h *Handler) List(c *gin.Context) {
	filters := make(map[string]interface{})
	if entityType := c.Query("entity_type"); entityType != "" {
		filters["entity_type"] = entityType
	}
	if action := c.Query("action"); action != "" {
		filters["action"] = action
	}
	if raw := c.Query("entity_id"); raw != "" {
		entityID, err := uuid.Parse(raw)
		if err != nil {
			httputil.RespondWithError(c, apperrors.BadRequest("invalid entity ID", err))
			return
		}
		filters["entity_id"] = entityID
	}

	logs, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, logs)
}
