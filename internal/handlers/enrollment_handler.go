package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qazaqedu/course-service/internal/models"
	"github.com/qazaqedu/course-service/internal/services"
	"github.com/qazaqedu/course-service/internal/utils"
	"github.com/qazaqedu/course-service/internal/validator"
)

type EnrollmentHandler struct {
	BaseHandler
	service services.EnrollmentService
}

func NewEnrollmentHandler(service services.EnrollmentService, logger utils.Logger, devMode bool) *EnrollmentHandler {
	return &EnrollmentHandler{
		BaseHandler: NewBaseHandler(logger, devMode),
		service:     service,
	}
}

// ListMine returns the calling user's enrollments with course details.
func (h *EnrollmentHandler) ListMine(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	resp, err := h.service.ListByUser(c.Request.Context(), actor.UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateStatus moves an enrollment through its lifecycle.
func (h *EnrollmentHandler) UpdateStatus(c *gin.Context) {
	h.LogRequest(c, "Updating enrollment status")

	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req validator.EnrollmentStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	enrollment, err := h.service.UpdateStatus(c.Request.Context(), id, models.EnrollmentStatus(req.Status), actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, enrollment)
}
