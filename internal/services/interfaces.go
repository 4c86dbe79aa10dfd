package services

import (
	"context"

	"github.com/qazaqedu/course-service/internal/models"
	"github.com/qazaqedu/course-service/internal/validator"
)

// ===== REQUEST DTOs =====

// Use business validator types
type RegisterRequest = validator.RegisterRequest
type LoginRequest = validator.LoginRequest
type CreateCourseRequest = validator.CourseCreateRequest
type UpdateCourseRequest = validator.CourseUpdateRequest
type CourseListFilters = validator.CourseListQuery
type CreateLessonRequest = validator.LessonCreateRequest
type UpdateLessonRequest = validator.LessonUpdateRequest
type CreateStudentRequest = validator.StudentCreateRequest
type UpdateStudentRequest = validator.StudentUpdateRequest
type StudentListFilters = validator.StudentListQuery

// Actor identifies the authenticated caller on operations that need
// ownership or role checks.
type Actor struct {
	UserID uint
	Role   models.UserRole
}

func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

// ===== SERVICE INTERFACES =====

type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*models.AuthResponse, error)
	GetMe(ctx context.Context, userID uint) (*models.User, error)
}

type CourseService interface {
	// Catalog
	Create(ctx context.Context, req *CreateCourseRequest, instructorID uint) (*models.Course, error)
	GetByID(ctx context.Context, id uint) (*models.Course, error)
	List(ctx context.Context, filters CourseListFilters) (*models.CourseListResponse, error)
	Update(ctx context.Context, id uint, req *UpdateCourseRequest, actor Actor) (*models.Course, error)
	Delete(ctx context.Context, id uint, actor Actor) error

	// Lessons
	AddLesson(ctx context.Context, courseID uint, req *CreateLessonRequest, actor Actor) (*models.Lesson, error)
	ListLessons(ctx context.Context, courseID uint) ([]*models.Lesson, error)
	UpdateLesson(ctx context.Context, courseID, lessonID uint, req *UpdateLessonRequest, actor Actor) (*models.Lesson, error)
	DeleteLesson(ctx context.Context, courseID, lessonID uint, actor Actor) error
}

type StudentService interface {
	Create(ctx context.Context, req *CreateStudentRequest) (*models.CreatedStudentResponse, error)
	GetByID(ctx context.Context, id uint, actor Actor) (*models.Student, error)
	GetProfile(ctx context.Context, userID uint) (*models.Student, error)
	List(ctx context.Context, filters StudentListFilters) (*models.StudentListResponse, error)
	Update(ctx context.Context, id uint, req *UpdateStudentRequest, actor Actor) (*models.Student, error)
	Delete(ctx context.Context, id uint) error
}

type EnrollmentService interface {
	Enroll(ctx context.Context, userID, courseID uint) (*models.Enrollment, error)
	ListByUser(ctx context.Context, userID uint) (*models.EnrollmentListResponse, error)
	UpdateStatus(ctx context.Context, id uint, status models.EnrollmentStatus, actor Actor) (*models.Enrollment, error)
}

type ExportService interface {
	// StudentsWorkbook renders the filtered roster as an xlsx workbook.
	StudentsWorkbook(ctx context.Context, filters StudentListFilters) ([]byte, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Auth() AuthService
	Course() CourseService
	Student() StudentService
	Enrollment() EnrollmentService
	Export() ExportService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
