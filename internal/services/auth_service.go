package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/qazaqedu/course-service/internal/auth"
	"github.com/qazaqedu/course-service/internal/events"
	"github.com/qazaqedu/course-service/internal/models"
	"github.com/qazaqedu/course-service/internal/repositories"
	"github.com/qazaqedu/course-service/internal/validator"
)

// ===== SERVICE IMPLEMENTATION =====

type authService struct {
	repo      repositories.Repository
	tokens    *auth.TokenManager
	validator *validator.Validator
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewAuthService(repo repositories.Repository, tokens *auth.TokenManager, v *validator.Validator, publisher events.EventPublisher, logger *slog.Logger) AuthService {
	return &authService{
		repo:      repo,
		tokens:    tokens,
		validator: v,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*models.AuthResponse, error) {
	if verrs := s.validator.Validate(req); verrs != nil {
		return nil, errors.Join(ErrValidationFailed, verrs)
	}

	email := normalizeEmail(req.Email)

	// Friendly pre-check; the unique index stays the arbiter under
	// concurrent registrations.
	exists, err := s.repo.User().ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, ErrDuplicateEmail
	}

	role := models.UserRole(req.Role)
	if req.Role == "" {
		role = models.RoleStudent
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     email,
		Password:  hash,
		Role:      role,
	}

	if err := s.repo.User().Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	if err := s.publisher.Publish(ctx, events.EventUserRegistered, user.Summary()); err != nil {
		s.logger.Error("Failed to publish user registered event", "error", err, "user_id", user.ID)
	}

	s.logger.Info("User registered", "user_id", user.ID, "role", user.Role)

	return &models.AuthResponse{
		Success: true,
		Token:   token,
		User:    user.Summary(),
	}, nil
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*models.AuthResponse, error) {
	if verrs := s.validator.Validate(req); verrs != nil {
		return nil, errors.Join(ErrValidationFailed, verrs)
	}

	user, err := s.repo.User().GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("User logged in", "user_id", user.ID)

	return &models.AuthResponse{
		Success: true,
		Token:   token,
		User:    user.Summary(),
	}, nil
}

func (s *authService) GetMe(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
