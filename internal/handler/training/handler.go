package training

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/treinasus/admin-api/internal/model"
	trainingService "github.com/treinasus/admin-api/internal/service/training"
	apperrors "github.com/treinasus/admin-api/pkg/errors"
	"github.com/treinasus/admin-api/pkg/httputil"
)

const maxMaterialBytes = 25 << 20

type Handler struct {
	service *trainingService.Service
}

func NewHandler(service *trainingService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	trainings := r.Group("/trainings")
	{
		trainings.POST("", h.Create)
		trainings.GET("", h.List)
		trainings.GET("/:id", h.Get)
		trainings.PATCH("/:id", h.Update)
		trainings.POST("/:id/material", h.UploadMaterial)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateTrainingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	training, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, training)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid training ID", err))
		return
	}

	training, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, training)
}

func (h *Handler) List(c *gin.Context) {
	trainings, err := h.service.List(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, trainings)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid training ID", err))
		return
	}

	var req model.UpdateTrainingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	training, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, training)
}

func (h *Handler) UploadMaterial(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid training ID", err))
		return
	}

	file, header, err := c.Request.FormFile("material")
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("material file is required", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxMaterialBytes+1))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("failed to read material file", err))
		return
	}
	if len(data) > maxMaterialBytes {
		httputil.RespondWithError(c, apperrors.BadRequest("material file exceeds 25MB", nil))
		return
	}

	url, err := h.service.UploadMaterial(c.Request.Context(), id, header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, gin.H{"material_url": url})
}
