package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/qazaqedu/course-service/internal/auth"
	"github.com/qazaqedu/course-service/internal/models"
	"github.com/qazaqedu/course-service/internal/repositories"
)

type stubUserRepo struct {
	users map[uint]*models.User
}

func (s *stubUserRepo) Create(context.Context, *models.User) error { return nil }

func (s *stubUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, repositories.ErrRecordNotFound
	}
	return u, nil
}

func (s *stubUserRepo) GetByEmail(context.Context, string) (*models.User, error) {
	return nil, repositories.ErrRecordNotFound
}
func (s *stubUserRepo) ExistsByEmail(context.Context, string) (bool, error) { return false, nil }
func (s *stubUserRepo) UpdateEmail(context.Context, uint, string) error     { return nil }
func (s *stubUserRepo) Delete(context.Context, uint) error                  { return nil }

func newTestRouter(t *testing.T) (*gin.Engine, *auth.TokenManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	repo := &stubUserRepo{users: map[uint]*models.User{
		1: {ID: 1, Email: "student@example.com", Role: models.RoleStudent},
		2: {ID: 2, Email: "admin@example.com", Role: models.RoleAdmin},
	}}
	gate := NewAuthMiddleware(tokens, repo)

	router := gin.New()
	router.GET("/protected", gate.RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetUint(ContextUserIDKey)})
	})
	router.GET("/admin", gate.RequireAuth(), gate.RequireRole(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/any-role", gate.RequireAuth(), gate.RequireRole(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/catalog", gate.OptionalAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetUint(ContextUserIDKey)})
	})
	return router, tokens
}

func TestRequireAuth(t *testing.T) {
	router, tokens := newTestRouter(t)

	studentToken, err := tokens.Issue(1, models.RoleStudent)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	deletedUserToken, err := tokens.Issue(99, models.RoleStudent)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	tests := []struct {
		name       string
		header     string
		value      string
		wantStatus int
	}{
		{name: "no token", wantStatus: http.StatusUnauthorized},
		{name: "bearer token", header: "Authorization", value: "Bearer " + studentToken, wantStatus: http.StatusOK},
		{name: "legacy header", header: "x-auth-token", value: studentToken, wantStatus: http.StatusOK},
		{name: "malformed scheme", header: "Authorization", value: "Token " + studentToken, wantStatus: http.StatusUnauthorized},
		{name: "garbage token", header: "Authorization", value: "Bearer garbage", wantStatus: http.StatusUnauthorized},
		{name: "token for deleted user", header: "Authorization", value: "Bearer " + deletedUserToken, wantStatus: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected %d, got %d (body %s)", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	router, tokens := newTestRouter(t)

	studentToken, _ := tokens.Issue(1, models.RoleStudent)
	adminToken, _ := tokens.Issue(2, models.RoleAdmin)

	tests := []struct {
		name       string
		path       string
		token      string
		wantStatus int
	}{
		{name: "student blocked from admin route", path: "/admin", token: studentToken, wantStatus: http.StatusForbidden},
		{name: "admin allowed", path: "/admin", token: adminToken, wantStatus: http.StatusOK},
		{name: "empty role list admits any authenticated user", path: "/any-role", token: studentToken, wantStatus: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	router, tokens := newTestRouter(t)

	studentToken, _ := tokens.Issue(1, models.RoleStudent)

	tests := []struct {
		name       string
		header     map[string]string
		wantUserID float64
	}{
		{name: "anonymous passes through", wantUserID: 0},
		{name: "valid token attaches identity", header: map[string]string{"Authorization": "Bearer " + studentToken}, wantUserID: 1},
		{name: "garbage token treated as anonymous", header: map[string]string{"Authorization": "Bearer garbage"}, wantUserID: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/catalog", nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			router.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d", w.Code)
			}
			var body map[string]float64
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("Failed to decode body: %v", err)
			}
			if body["user_id"] != tt.wantUserID {
				t.Errorf("Expected user_id %v, got %v", tt.wantUserID, body["user_id"])
			}
		})
	}
}
