package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qazaqedu/course-service/internal/services"
	"github.com/qazaqedu/course-service/internal/utils"
)

type AuthHandler struct {
	BaseHandler
	service services.AuthService
}

func NewAuthHandler(service services.AuthService, logger utils.Logger, devMode bool) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger, devMode),
		service:     service,
	}
}

// Register creates a new account and returns a signed token.
func (h *AuthHandler) Register(c *gin.Context) {
	h.LogRequest(c, "Registering user")

	var req services.RegisterRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Login authenticates by email and password.
func (h *AuthHandler) Login(c *gin.Context) {
	h.LogRequest(c, "Logging in user")

	var req services.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetMe returns the authenticated user's account.
func (h *AuthHandler) GetMe(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	user, err := h.service.GetMe(c.Request.Context(), actor.UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
