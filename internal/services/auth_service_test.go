package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/qazaqedu/course-service/internal/auth"
	"github.com/qazaqedu/course-service/internal/events"
	"github.com/qazaqedu/course-service/internal/models"
	"github.com/qazaqedu/course-service/internal/validator"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newAuthFixture() (AuthService, *mockRepository, *events.MockEventPublisher) {
	repo := newMockRepository()
	publisher := events.NewMockEventPublisher()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	service := NewAuthService(repo, tokens, validator.New(), publisher, testLogger())
	return service, repo, publisher
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user and returns token", func(t *testing.T) {
		service, repo, publisher := newAuthFixture()

		resp, err := service.Register(ctx, &RegisterRequest{
			FirstName: "Aigerim",
			LastName:  "Bekova",
			Email:     "Aigerim@Example.COM",
			Password:  "secret123",
		})
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if resp.Token == "" {
			t.Error("Expected a token in the response")
		}
		if resp.User.Role != models.RoleStudent {
			t.Errorf("Expected default role student, got %s", resp.User.Role)
		}
		if resp.User.Email != "aigerim@example.com" {
			t.Errorf("Expected lowercased email, got %s", resp.User.Email)
		}

		stored, err := repo.users.GetByEmail(ctx, "aigerim@example.com")
		if err != nil {
			t.Fatalf("User not persisted: %v", err)
		}
		if stored.Password == "secret123" {
			t.Error("Password stored in plaintext")
		}
		if !auth.CheckPassword(stored.Password, "secret123") {
			t.Error("Stored hash does not verify against the password")
		}

		published := publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.EventUserRegistered {
			t.Errorf("Expected one %s event, got %+v", events.EventUserRegistered, published)
		}
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		service, _, _ := newAuthFixture()

		req := &RegisterRequest{
			FirstName: "Aigerim",
			LastName:  "Bekova",
			Email:     "dup@example.com",
			Password:  "secret123",
		}
		if _, err := service.Register(ctx, req); err != nil {
			t.Fatalf("First registration failed: %v", err)
		}
		if _, err := service.Register(ctx, req); !errors.Is(err, ErrDuplicateEmail) {
			t.Errorf("Expected ErrDuplicateEmail, got %v", err)
		}
	})

	t.Run("rejects invalid payload", func(t *testing.T) {
		service, _, _ := newAuthFixture()

		_, err := service.Register(ctx, &RegisterRequest{
			FirstName: "A",
			LastName:  "B",
			Email:     "not-an-email",
			Password:  "x",
		})
		if !errors.Is(err, ErrValidationFailed) {
			t.Fatalf("Expected ErrValidationFailed, got %v", err)
		}

		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) || len(verrs) == 0 {
			t.Error("Expected field-level validation errors")
		}
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newAuthFixture()

	if _, err := service.Register(ctx, &RegisterRequest{
		FirstName: "Daniyar",
		LastName:  "Akhmetov",
		Email:     "daniyar@example.com",
		Password:  "secret123",
		Role:      "teacher",
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "valid credentials", email: "daniyar@example.com", password: "secret123"},
		{name: "email case-insensitive", email: "Daniyar@Example.com", password: "secret123"},
		{name: "wrong password", email: "daniyar@example.com", password: "wrong", wantErr: ErrInvalidCredentials},
		{name: "unknown email", email: "nobody@example.com", password: "secret123", wantErr: ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := service.Login(ctx, &LoginRequest{Email: tt.email, Password: tt.password})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Login failed: %v", err)
			}
			if resp.Token == "" {
				t.Error("Expected a token")
			}
			if resp.User.Role != models.RoleTeacher {
				t.Errorf("Expected teacher role, got %s", resp.User.Role)
			}
		})
	}
}

func TestAuthService_GetMe(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newAuthFixture()

	resp, err := service.Register(ctx, &RegisterRequest{
		FirstName: "Aliya",
		LastName:  "Nurmagambetova",
		Email:     "aliya@example.com",
		Password:  "secret123",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	user, err := service.GetMe(ctx, resp.User.ID)
	if err != nil {
		t.Fatalf("GetMe failed: %v", err)
	}
	if user.Email != "aliya@example.com" {
		t.Errorf("Unexpected email %s", user.Email)
	}

	if _, err := service.GetMe(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown user, got %v", err)
	}
}
