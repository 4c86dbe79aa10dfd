package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/qazaqedu/course-service/internal/events"
	"github.com/qazaqedu/course-service/internal/models"
	"github.com/qazaqedu/course-service/internal/repositories"
	"github.com/qazaqedu/course-service/internal/validator"
)

// ===== SERVICE IMPLEMENTATION =====

type courseService struct {
	repo      repositories.Repository
	validator *validator.Validator
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewCourseService(repo repositories.Repository, v *validator.Validator, publisher events.EventPublisher, logger *slog.Logger) CourseService {
	return &courseService{
		repo:      repo,
		validator: v,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *courseService) Create(ctx context.Context, req *CreateCourseRequest, instructorID uint) (*models.Course, error) {
	if verrs := s.validator.Validate(req); verrs != nil {
		return nil, errors.Join(ErrValidationFailed, verrs)
	}

	course := &models.Course{
		Title:        req.Title,
		Description:  req.Description,
		Image:        req.Image,
		Category:     models.CourseCategory(req.Category),
		Level:        models.CourseLevel(req.Level),
		Duration:     req.Duration,
		InstructorID: instructorID,
	}
	if course.Image == "" {
		course.Image = models.DefaultCourseImage
	}

	if err := s.repo.Course().Create(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	s.logger.Info("Course created", "course_id", course.ID, "instructor_id", instructorID)

	return s.GetByID(ctx, course.ID)
}

func (s *courseService) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	course, err := s.repo.Course().GetByIDWithDetails(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return course, nil
}

func (s *courseService) List(ctx context.Context, filters CourseListFilters) (*models.CourseListResponse, error) {
	if verrs := s.validator.Validate(&filters); verrs != nil {
		return nil, errors.Join(ErrValidationFailed, verrs)
	}

	repoFilters := repositories.CourseFilters{Search: filters.Search}
	if filters.Category != "" && filters.Category != "all" {
		category := models.CourseCategory(filters.Category)
		repoFilters.Category = &category
	}
	if filters.Level != "" && filters.Level != "all" {
		level := models.CourseLevel(filters.Level)
		repoFilters.Level = &level
	}

	courses, total, err := s.repo.Course().List(ctx, repoFilters)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	return &models.CourseListResponse{Courses: courses, Total: total}, nil
}

func (s *courseService) Update(ctx context.Context, id uint, req *UpdateCourseRequest, actor Actor) (*models.Course, error) {
	if verrs := s.validator.Validate(req); verrs != nil {
		return nil, errors.Join(ErrValidationFailed, verrs)
	}

	course, err := s.getOwnedCourse(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Image != nil {
		course.Image = *req.Image
	}
	if req.Category != nil {
		course.Category = models.CourseCategory(*req.Category)
	}
	if req.Level != nil {
		course.Level = models.CourseLevel(*req.Level)
	}
	if req.Duration != nil {
		course.Duration = *req.Duration
	}

	if err := s.repo.Course().Update(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to update course: %w", err)
	}

	s.logger.Info("Course updated", "course_id", id, "actor_id", actor.UserID)

	return s.GetByID(ctx, id)
}

// Delete removes a course together with its lessons and enrollments in one
// transaction, so a failure mid-way leaves the catalog untouched.
func (s *courseService) Delete(ctx context.Context, id uint, actor Actor) error {
	if _, err := s.getOwnedCourse(ctx, id, actor); err != nil {
		return err
	}

	// Counted before the cascade so downstream consumers learn how many
	// enrollments the deletion displaced.
	displaced, err := s.repo.Enrollment().CountByCourse(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count enrollments: %w", err)
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Lesson().DeleteByCourse(ctx, id); err != nil {
			return fmt.Errorf("failed to delete lessons: %w", err)
		}
		if err := txRepo.Enrollment().DeleteByCourse(ctx, id); err != nil {
			return fmt.Errorf("failed to delete enrollments: %w", err)
		}
		if err := txRepo.Course().Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete course: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete course %d: %w", id, err)
	}

	if err := s.publisher.Publish(ctx, events.EventCourseDeleted, map[string]interface{}{
		"course_id":             id,
		"enrollments_displaced": displaced,
	}); err != nil {
		s.logger.Error("Failed to publish course deleted event", "error", err, "course_id", id)
	}

	s.logger.Info("Course deleted", "course_id", id, "actor_id", actor.UserID)
	return nil
}

// ===== LESSONS =====

func (s *courseService) AddLesson(ctx context.Context, courseID uint, req *CreateLessonRequest, actor Actor) (*models.Lesson, error) {
	if verrs := s.validator.Validate(req); verrs != nil {
		return nil, errors.Join(ErrValidationFailed, verrs)
	}

	if _, err := s.getOwnedCourse(ctx, courseID, actor); err != nil {
		return nil, err
	}

	lesson := &models.Lesson{
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		VideoURL:    req.VideoURL,
		Duration:    req.Duration,
		Order:       req.Order,
		CourseID:    courseID,
	}

	if err := s.repo.Lesson().Create(ctx, lesson); err != nil {
		return nil, fmt.Errorf("failed to create lesson: %w", err)
	}

	s.logger.Info("Lesson added", "lesson_id", lesson.ID, "course_id", courseID)
	return lesson, nil
}

func (s *courseService) ListLessons(ctx context.Context, courseID uint) ([]*models.Lesson, error) {
	if _, err := s.repo.Course().GetByID(ctx, courseID); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	lessons, err := s.repo.Lesson().ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lessons: %w", err)
	}
	return lessons, nil
}

func (s *courseService) UpdateLesson(ctx context.Context, courseID, lessonID uint, req *UpdateLessonRequest, actor Actor) (*models.Lesson, error) {
	if verrs := s.validator.Validate(req); verrs != nil {
		return nil, errors.Join(ErrValidationFailed, verrs)
	}

	lesson, err := s.getCourseLesson(ctx, courseID, lessonID, actor)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		lesson.Title = *req.Title
	}
	if req.Description != nil {
		lesson.Description = *req.Description
	}
	if req.Content != nil {
		lesson.Content = *req.Content
	}
	if req.VideoURL != nil {
		lesson.VideoURL = req.VideoURL
	}
	if req.Duration != nil {
		lesson.Duration = *req.Duration
	}
	if req.Order != nil {
		lesson.Order = *req.Order
	}

	if err := s.repo.Lesson().Update(ctx, lesson); err != nil {
		return nil, fmt.Errorf("failed to update lesson: %w", err)
	}

	s.logger.Info("Lesson updated", "lesson_id", lessonID, "course_id", courseID)
	return lesson, nil
}

func (s *courseService) DeleteLesson(ctx context.Context, courseID, lessonID uint, actor Actor) error {
	if _, err := s.getCourseLesson(ctx, courseID, lessonID, actor); err != nil {
		return err
	}

	if err := s.repo.Lesson().Delete(ctx, lessonID); err != nil {
		return fmt.Errorf("failed to delete lesson: %w", err)
	}

	s.logger.Info("Lesson deleted", "lesson_id", lessonID, "course_id", courseID)
	return nil
}

// ===== HELPERS =====

// getOwnedCourse loads a course and verifies the actor may modify it: the
// owning instructor or an admin.
func (s *courseService) getOwnedCourse(ctx context.Context, id uint, actor Actor) (*models.Course, error) {
	course, err := s.repo.Course().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	if course.InstructorID != actor.UserID && !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return course, nil
}

func (s *courseService) getCourseLesson(ctx context.Context, courseID, lessonID uint, actor Actor) (*models.Lesson, error) {
	if _, err := s.getOwnedCourse(ctx, courseID, actor); err != nil {
		return nil, err
	}

	lesson, err := s.repo.Lesson().GetByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get lesson: %w", err)
	}

	// A lesson addressed through the wrong course is treated as missing.
	if lesson.CourseID != courseID {
		return nil, ErrNotFound
	}
	return lesson, nil
}
