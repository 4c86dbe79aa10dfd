package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/qazaqedu/course-service/internal/auth"
	"github.com/qazaqedu/course-service/internal/events"
	"github.com/qazaqedu/course-service/internal/models"
	"github.com/qazaqedu/course-service/internal/repositories"
	"github.com/qazaqedu/course-service/internal/validator"
)

const generatedPasswordLength = 12

// ===== SERVICE IMPLEMENTATION =====

type studentService struct {
	repo      repositories.Repository
	validator *validator.Validator
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewStudentService(repo repositories.Repository, v *validator.Validator, publisher events.EventPublisher, logger *slog.Logger) StudentService {
	return &studentService{
		repo:      repo,
		validator: v,
		publisher: publisher,
		logger:    logger,
	}
}

// Create provisions a managed student record together with its login
// account. Both rows are written in one transaction so a student never
// exists without a matching user, or the other way around.
func (s *studentService) Create(ctx context.Context, req *CreateStudentRequest) (*models.CreatedStudentResponse, error) {
	if verrs := s.validator.Validate(req); verrs != nil {
		return nil, errors.Join(ErrValidationFailed, verrs)
	}

	email := normalizeEmail(req.Email)

	// Friendly pre-check; the unique indexes stay the arbiter under
	// concurrent creates.
	exists, err := s.repo.Student().ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, ErrDuplicateEmail
	}

	password := ""
	generated := ""
	if req.Password != nil {
		password = *req.Password
	} else {
		var err error
		password, err = auth.GeneratePassword(generatedPasswordLength)
		if err != nil {
			return nil, fmt.Errorf("failed to generate password: %w", err)
		}
		generated = password
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	status := models.StudentStatus(req.Status)
	if req.Status == "" {
		status = models.StudentActive
	}

	var student *models.Student
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		user := &models.User{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     email,
			Password:  hash,
			Role:      models.RoleStudent,
		}
		if err := txRepo.User().Create(ctx, user); err != nil {
			return fmt.Errorf("failed to create user account: %w", err)
		}

		student = &models.Student{
			FirstName:      req.FirstName,
			LastName:       req.LastName,
			Email:          email,
			Phone:          req.Phone,
			DateOfBirth:    req.DateOfBirth,
			Address:        req.Address,
			EnrollmentDate: time.Now().UTC(),
			Status:         status,
			UserID:         user.ID,
		}
		if err := txRepo.Student().Create(ctx, student); err != nil {
			return fmt.Errorf("failed to create student record: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	if err := s.publisher.Publish(ctx, events.EventStudentCreated, map[string]uint{
		"student_id": student.ID,
		"user_id":    student.UserID,
	}); err != nil {
		s.logger.Error("Failed to publish student created event", "error", err, "student_id", student.ID)
	}

	s.logger.Info("Student created", "student_id", student.ID, "user_id", student.UserID)

	return &models.CreatedStudentResponse{
		Student:           student,
		GeneratedPassword: generated,
	}, nil
}

func (s *studentService) GetByID(ctx context.Context, id uint, actor Actor) (*models.Student, error) {
	student, err := s.repo.Student().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	// Students may only read their own record.
	if student.UserID != actor.UserID && !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return student, nil
}

func (s *studentService) GetProfile(ctx context.Context, userID uint) (*models.Student, error) {
	student, err := s.repo.Student().GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get student profile: %w", err)
	}
	return student, nil
}

func (s *studentService) List(ctx context.Context, filters StudentListFilters) (*models.StudentListResponse, error) {
	if verrs := s.validator.Validate(&filters); verrs != nil {
		return nil, errors.Join(ErrValidationFailed, verrs)
	}

	repoFilters := repositories.StudentFilters{Search: filters.Search}
	if filters.Status != "" && filters.Status != "all" {
		status := models.StudentStatus(filters.Status)
		repoFilters.Status = &status
	}

	students, total, err := s.repo.Student().List(ctx, repoFilters)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	return &models.StudentListResponse{Students: students, Total: total}, nil
}

func (s *studentService) Update(ctx context.Context, id uint, req *UpdateStudentRequest, actor Actor) (*models.Student, error) {
	if verrs := s.validator.Validate(req); verrs != nil {
		return nil, errors.Join(ErrValidationFailed, verrs)
	}

	student, err := s.repo.Student().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	if req.FirstName != nil {
		student.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		student.LastName = *req.LastName
	}
	if req.Phone != nil {
		student.Phone = *req.Phone
	}
	if req.DateOfBirth != nil {
		student.DateOfBirth = req.DateOfBirth
	}
	if req.Address != nil {
		student.Address = *req.Address
	}
	if req.Status != nil {
		student.Status = models.StudentStatus(*req.Status)
	}
	if req.GraduationDate != nil {
		student.GraduationDate = req.GraduationDate
	}

	emailChanged := req.Email != nil && normalizeEmail(*req.Email) != student.Email
	if emailChanged {
		student.Email = normalizeEmail(*req.Email)
	}

	// An email change must land on the student row and the login account
	// together, hence the transaction.
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if emailChanged {
			if err := txRepo.User().UpdateEmail(ctx, student.UserID, student.Email); err != nil {
				return fmt.Errorf("failed to update user email: %w", err)
			}
		}
		if err := txRepo.Student().Update(ctx, student); err != nil {
			return fmt.Errorf("failed to update student: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	s.logger.Info("Student updated", "student_id", id, "actor_id", actor.UserID)
	return student, nil
}

// Delete removes the student record and its login account atomically.
func (s *studentService) Delete(ctx context.Context, id uint) error {
	student, err := s.repo.Student().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get student: %w", err)
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Student().Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete student: %w", err)
		}
		if err := txRepo.User().Delete(ctx, student.UserID); err != nil {
			return fmt.Errorf("failed to delete user account: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.publisher.Publish(ctx, events.EventStudentDeleted, map[string]uint{
		"student_id": id,
		"user_id":    student.UserID,
	}); err != nil {
		s.logger.Error("Failed to publish student deleted event", "error", err, "student_id", id)
	}

	s.logger.Info("Student deleted", "student_id", id, "user_id", student.UserID)
	return nil
}
