package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qazaqedu/course-service/internal/models"
	"github.com/qazaqedu/course-service/internal/services"
	"github.com/qazaqedu/course-service/internal/utils"
	"github.com/qazaqedu/course-service/internal/validator"
)

// BaseHandler carries the shared handler plumbing: logging and the mapping
// from service errors to HTTP responses.
type BaseHandler struct {
	logger utils.Logger
	// devMode exposes internal error text in responses; off in production.
	devMode bool
}

func NewBaseHandler(logger utils.Logger, devMode bool) BaseHandler {
	return BaseHandler{logger: logger, devMode: devMode}
}

func (h *BaseHandler) LogRequest(c *gin.Context, msg string) {
	utils.LoggerFromContext(c, h.logger).Info(msg,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, msg string) {
	utils.LoggerFromContext(c, h.logger).Error(msg,
		"error", err,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	)
}

// parseIDParam parses a numeric path parameter; on failure it writes a 400
// response and returns 0.
func (h *BaseHandler) parseIDParam(c *gin.Context, param string) uint {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Message: "Invalid " + param,
			Errors: []models.FieldError{
				{Field: param, Message: "must be a positive number"},
			},
		})
		return 0
	}
	return uint(id)
}

// handleServiceError maps service sentinel errors to HTTP status codes.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Message: "Validation failed",
			Errors:  fieldErrors(err),
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Message: "Invalid email or password",
		})
	case errors.Is(err, services.ErrDuplicateEmail):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Message: "Email already registered",
		})
	case errors.Is(err, services.ErrAlreadyEnrolled):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Message: "Already enrolled in this course",
		})
	case errors.Is(err, services.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Message: "Invalid enrollment status transition",
		})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Message: "Authentication required",
		})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, models.ErrorResponse{
			Message: "Access denied",
		})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Message: "Resource not found",
		})
	default:
		h.LogError(c, err, "Unexpected service error")
		resp := models.ErrorResponse{Message: "Internal server error"}
		if h.devMode {
			resp.Details = err.Error()
		}
		c.JSON(http.StatusInternalServerError, resp)
	}
}

// bindJSON binds the request body; on failure it writes a 400 response and
// returns false.
func (h *BaseHandler) bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Message: "Invalid request body",
			Errors: []models.FieldError{
				{Field: "body", Message: err.Error()},
			},
		})
		return false
	}
	return true
}

func fieldErrors(err error) []models.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]models.FieldError, 0, len(verrs))
	for _, ve := range verrs {
		out = append(out, models.FieldError{Field: ve.Field, Message: ve.Message})
	}
	return out
}

// actorFromContext builds the service-layer actor from the auth middleware's
// context values.
func actorFromContext(c *gin.Context) (services.Actor, bool) {
	userID, exists := c.Get(ContextUserIDKey)
	if !exists {
		return services.Actor{}, false
	}
	role, exists := c.Get(ContextUserRoleKey)
	if !exists {
		return services.Actor{}, false
	}

	id, okID := userID.(uint)
	userRole, okRole := role.(models.UserRole)
	if !okID || !okRole {
		return services.Actor{}, false
	}
	return services.Actor{UserID: id, Role: userRole}, true
}

// requireActor aborts with 401 when the request carries no authenticated
// user.
func (h *BaseHandler) requireActor(c *gin.Context) (services.Actor, bool) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Message: "Authentication required",
		})
	}
	return actor, ok
}
