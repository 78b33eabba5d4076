package handler

import (
	"lenormand-api/internal/adapter/http/dto"
	"lenormand-api/internal/adapter/http/middleware"
	"lenormand-api/internal/core/ports"
	"lenormand-api/pkg/apperror"
	"lenormand-api/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReadingHandler handles the reading CRUD endpoints. All routes sit behind
// the session auth middleware, so a user id is always present.
type ReadingHandler struct {
	readingSvc ports.ReadingService
}

// NewReadingHandler creates a new ReadingHandler.
func NewReadingHandler(readingSvc ports.ReadingService) *ReadingHandler {
	return &ReadingHandler{readingSvc: readingSvc}
}

// List handles GET /api/readings.
func (h *ReadingHandler) List(c *gin.Context) {
	readings, err := h.readingSvc.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, readings)
}

// Get handles GET /api/readings/:id.
func (h *ReadingHandler) Get(c *gin.Context) {
	id, ok := readingID(c)
	if !ok {
		return
	}

	reading, err := h.readingSvc.Get(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, reading)
}

// Create handles POST /api/readings.
func (h *ReadingHandler) Create(c *gin.Context) {
	var req dto.CreateReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	reading, err := h.readingSvc.Create(c.Request.Context(), currentUserID(c), req.ToDomain())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, reading)
}

// UpdateReflection handles PATCH /api/readings/:id.
func (h *ReadingHandler) UpdateReflection(c *gin.Context) {
	id, ok := readingID(c)
	if !ok {
		return
	}

	var req dto.UpdateReflectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	reading, err := h.readingSvc.UpdateReflection(c.Request.Context(), currentUserID(c), id, req.Reflection)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, reading)
}

// Delete handles DELETE /api/readings/:id.
func (h *ReadingHandler) Delete(c *gin.Context) {
	id, ok := readingID(c)
	if !ok {
		return
	}

	if err := h.readingSvc.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Reading deleted")
}

func currentUserID(c *gin.Context) uuid.UUID {
	return c.MustGet(middleware.CtxUserID).(uuid.UUID)
}

// readingID parses the :id path parameter. A malformed id cannot match any
// stored reading, so it reports NotFound rather than a validation error.
func readingID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.ErrNotFound("Reading"))
		return uuid.Nil, false
	}
	return id, true
}
