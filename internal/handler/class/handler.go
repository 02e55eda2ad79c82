package class

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/treinasus/admin-api/internal/model"
	classService "github.com/treinasus/admin-api/internal/service/class"
	"github.com/treinasus/admin-api/internal/status"
	apperrors "github.com/treinasus/admin-api/pkg/errors"
	"github.com/treinasus/admin-api/pkg/httputil"
)

type Handler struct {
	service  *classService.Service
	registry *status.Registry
}

func NewHandler(service *classService.Service, registry *status.Registry) *Handler {
	return &Handler{service: service, registry: registry}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	classes := r.Group("/classes")
	{
		classes.POST("", h.Create)
		classes.GET("", h.List)
		classes.GET("/:id", h.Get)
		classes.PATCH("/:id", h.Update)
	}

	statuses := r.Group("/class-statuses")
	{
		statuses.GET("", h.ListStatuses)
		statuses.POST("", h.AddStatus)
		statuses.PATCH("/:id", h.UpdateStatus)
		statuses.DELETE("/:id", h.DeleteStatus)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	class, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, class)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid class ID", err))
		return
	}

	class, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, class)
}

func (h *Handler) List(c *gin.Context) {
	var trainingID uuid.UUID
	if raw := c.Query("training_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			httputil.RespondWithError(c, apperrors.BadRequest("invalid training ID", err))
			return
		}
		trainingID = parsed
	}

	classes, err := h.service.List(c.Request.Context(), trainingID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, classes)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid class ID", err))
		return
	}

	var req model.UpdateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	class, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, class)
}

type statusRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
}

type statusPatchRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

func (h *Handler) ListStatuses(c *gin.Context) {
	httputil.RespondWithSuccess(c, http.StatusOK, h.registry.List())
}

func (h *Handler) AddStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	st, err := h.registry.Add(req.Name, req.Color)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, st)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	var req statusPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	st, err := h.registry.Update(c.Param("id"), status.UpdateStatusPatch{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, st)
}

// DeleteStatus removes a registry entry. Classes and appointments that
// stored the name keep it as free text and render with the default
// color.
func (h *Handler) DeleteStatus(c *gin.Context) {
	if err := h.registry.Delete(c.Param("id")); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, nil)
}
