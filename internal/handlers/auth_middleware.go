package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/qazaqedu/course-service/internal/auth"
	"github.com/qazaqedu/course-service/internal/models"
	"github.com/qazaqedu/course-service/internal/repositories"
)

// Context keys set by the auth middleware.
const (
	ContextUserIDKey   = "user_id"
	ContextUserRoleKey = "user_role"
)

// AuthMiddleware verifies bearer tokens and attaches the caller's identity
// to the request context.
type AuthMiddleware struct {
	tokens   *auth.TokenManager
	userRepo repositories.UserRepository
}

func NewAuthMiddleware(tokens *auth.TokenManager, userRepo repositories.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		tokens:   tokens,
		userRepo: userRepo,
	}
}

// RequireAuth rejects requests without a valid token.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Message: "No token, authorization denied",
			})
			return
		}

		claims, err := am.tokens.Verify(token)
		if err != nil {
			message := "Token is not valid"
			if errors.Is(err, auth.ErrExpiredToken) {
				message = "Token has expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Message: message,
			})
			return
		}

		// A token outliving its account must not grant access.
		if _, err := am.userRepo.GetByID(c.Request.Context(), claims.UserID); err != nil {
			if errors.Is(err, repositories.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
					Message: "Token is not valid",
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
				Message: "Internal server error",
			})
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextUserRoleKey, claims.Role)
		c.Next()
	}
}

// OptionalAuth attaches identity when a valid token is present and lets
// anonymous requests through untouched.
func (am *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.Next()
			return
		}

		claims, err := am.tokens.Verify(token)
		if err != nil {
			c.Next()
			return
		}

		if _, err := am.userRepo.GetByID(c.Request.Context(), claims.UserID); err == nil {
			c.Set(ContextUserIDKey, claims.UserID)
			c.Set(ContextUserRoleKey, claims.Role)
		}
		c.Next()
	}
}

// RequireRole allows exactly the listed roles; with no roles listed any
// authenticated user passes. Admin access is granted by listing RoleAdmin,
// never implicitly.
func (am *AuthMiddleware) RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(ContextUserRoleKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Message: "Authentication required",
			})
			return
		}

		role, ok := value.(models.UserRole)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, models.ErrorResponse{
				Message: "Access denied",
			})
			return
		}

		if len(roles) == 0 {
			c.Next()
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, models.ErrorResponse{
			Message: "Access denied",
		})
	}
}

// extractToken reads the token from the Authorization header (Bearer
// scheme) or the legacy x-auth-token header.
func extractToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	return strings.TrimSpace(c.GetHeader("x-auth-token"))
}
