package professional

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/treinasus/admin-api/internal/model"
	professionalService "github.com/treinasus/admin-api/internal/service/professional"
	apperrors "github.com/treinasus/admin-api/pkg/errors"
	"github.com/treinasus/admin-api/pkg/httputil"
)

const maxAvatarBytes = 5 << 20

type Handler struct {
	service *professionalService.Service
}

func NewHandler(service *professionalService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	professionals := r.Group("/professionals")
	{
		professionals.POST("", h.Upsert)
		professionals.GET("", h.List)
		professionals.GET("/:id", h.Get)
		professionals.PATCH("/:id", h.Update)
		professionals.POST("/:id/avatar", h.UploadAvatar)
	}
}

// Upsert handles POST /professionals. The national ID is the identity:
// posting an existing one updates the row and returns 200, a new one
// inserts and returns 201.
func (h *Handler) Upsert(c *gin.Context) {
	var req model.CreateProfessionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	p, created, err := h.service.Upsert(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	httputil.RespondWithSuccess(c, status, p)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid professional ID", err))
		return
	}

	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, p)
}

func (h *Handler) List(c *gin.Context) {
	filters := &model.ProfessionalFilters{
		Status:     c.Query("status"),
		SearchTerm: c.Query("search"),
	}
	if unitID := c.Query("unit_id"); unitID != "" {
		parsed, err := uuid.Parse(unitID)
		if err != nil {
			httputil.RespondWithError(c, apperrors.BadRequest("invalid unit ID", err))
			return
		}
		filters.UnitID = parsed
	}

	professionals, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, professionals)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid professional ID", err))
		return
	}

	var req model.UpdateProfessionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	p, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, p)
}

func (h *Handler) UploadAvatar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid professional ID", err))
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
