package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/qazaqedu/course-service/internal/events"
	"github.com/qazaqedu/course-service/internal/models"
	"github.com/qazaqedu/course-service/internal/repositories"
)

// ===== SERVICE IMPLEMENTATION =====

type enrollmentService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewEnrollmentService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger) EnrollmentService {
	return &enrollmentService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// Enroll creates the enrollment row and bumps the course's student counter
// in one transaction. The composite unique index on (user_id, course_id)
// decides duplicates, so two concurrent enrollments for the same pair
// cannot both succeed.
func (s *enrollmentService) Enroll(ctx context.Context, userID, courseID uint) (*models.Enrollment, error) {
	if _, err := s.repo.Course().GetByID(ctx, courseID); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	// Friendly pre-check; the unique index still decides under concurrency.
	if _, err := s.repo.Enrollment().GetByUserAndCourse(ctx, userID, courseID); err == nil {
		return nil, ErrAlreadyEnrolled
	} else if !errors.Is(err, repositories.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check enrollment: %w", err)
	}

	enrollment := &models.Enrollment{
		UserID:     userID,
		CourseID:   courseID,
		Status:     models.EnrollmentActive,
		EnrolledAt: time.Now().UTC(),
	}

	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Enrollment().Create(ctx, enrollment); err != nil {
			return err
		}
		if err := txRepo.Course().IncrementStudents(ctx, courseID, 1); err != nil {
			return fmt.Errorf("failed to increment student count: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrAlreadyEnrolled
		}
		return nil, fmt.Errorf("failed to enroll: %w", err)
	}

	if err := s.publisher.Publish(ctx, events.EventEnrollmentCreated, map[string]uint{
		"enrollment_id": enrollment.ID,
		"user_id":       userID,
		"course_id":     courseID,
	}); err != nil {
		s.logger.Error("Failed to publish enrollment created event", "error", err, "enrollment_id", enrollment.ID)
	}

	s.logger.Info("User enrolled", "user_id", userID, "course_id", courseID, "enrollment_id", enrollment.ID)
	return enrollment, nil
}

func (s *enrollmentService) ListByUser(ctx context.Context, userID uint) (*models.EnrollmentListResponse, error) {
	enrollments, total, err := s.repo.Enrollment().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	return &models.EnrollmentListResponse{Enrollments: enrollments, Total: total}, nil
}

// UpdateStatus applies the enrollment lifecycle: active may move to
// completed or dropped, terminal states never change again. Setting the
// current status again is a no-op, not an error.
func (s *enrollmentService) UpdateStatus(ctx context.Context, id uint, status models.EnrollmentStatus, actor Actor) (*models.Enrollment, error) {
	if !status.Valid() {
		return nil, ErrInvalidTransition
	}

	enrollment, err := s.repo.Enrollment().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}

	if enrollment.UserID != actor.UserID && !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	if enrollment.Status == status {
		return enrollment, nil
	}
	if enrollment.Status.Terminal() {
		return nil, ErrInvalidTransition
	}

	previous := enrollment.Status
	enrollment.Status = status
	if status == models.EnrollmentCompleted {
		now := time.Now().UTC()
		enrollment.CompletedAt = &now
	}

	if err := s.repo.Enrollment().Update(ctx, enrollment); err != nil {
		return nil, fmt.Errorf("failed to update enrollment: %w", err)
	}

	if err := s.publisher.Publish(ctx, events.EventEnrollmentStatusChanged, map[string]interface{}{
		"enrollment_id": enrollment.ID,
		"user_id":       enrollment.UserID,
		"course_id":     enrollment.CourseID,
		"from":          previous,
		"to":            status,
	}); err != nil {
		s.logger.Error("Failed to publish status changed event", "error", err, "enrollment_id", enrollment.ID)
	}

	s.logger.Info("Enrollment status changed", "enrollment_id", id, "from", previous, "to", status)
	return enrollment, nil
}
