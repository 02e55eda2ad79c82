package instructor

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/treinasus/admin-api/internal/model"
	instructorService "github.com/treinasus/admin-api/internal/service/instructor"
	apperrors "github.com/treinasus/admin-api/pkg/errors"
	"github.com/treinasus/admin-api/pkg/httputil"
)

const maxAvatarBytes = 5 << 20

type Handler struct {
	service *instructorService.Service
}

func NewHandler(service *instructorService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	instructors := r.Group("/instructors")
	{
		instructors.POST("", h.Create)
		instructors.GET("", h.List)
		instructors.GET("/:id", h.Get)
		instructors.PATCH("/:id", h.Update)
		instructors.DELETE("/:id", h.Deactivate)
		instructors.POST("/:id/avatar", h.UploadAvatar)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateInstructorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	instructor, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, instructor)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid instructor ID", err))
		return
	}

	instructor, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, instructor)
}

func (h *Handler) List(c *gin.Context) {
	var unitID uuid.UUID
	if raw := c.Query("unit_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			httputil.RespondWithError(c, apperrors.BadRequest("invalid unit ID", err))
			return
		}
		unitID = parsed
	}

	instructors, err := h.service.List(c.Request.Context(), unitID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, instructors)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid instructor ID", err))
		return
	}

	var req model.UpdateInstructorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	instructor, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, instructor)
}

func (h *Handler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid instructor ID", err))
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, nil)
}

func (h *Handler) UploadAvatar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid instructor ID", err))
		return
	}

	file, header, err := c.Request.FormFile("avatar")
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("avatar file is required", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxAvatarBytes+1))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("failed to read avatar file", err))
		return
	}
	if len(data) > maxAvatarBytes {
		httputil.RespondWithError(c, apperrors.BadRequest("avatar file exceeds 5MB", nil))
		return
	}

	url, err := h.service.UploadAvatar(c.Request.Context(), id, header.Header.Get("Content-Type"), data)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, gin.H{"avatar_url": url})
}
