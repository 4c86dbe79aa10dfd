package repositories

import (
	"context"
	"errors"

	"github.com/qazaqedu/course-service/internal/models"
)

// Sentinel errors surfaced by repository implementations. Services translate
// these into their own error taxonomy.
var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateKey   = errors.New("duplicate key")
)

// ===== FILTERS =====

type CourseFilters struct {
	Category *models.CourseCategory
	Level    *models.CourseLevel
	// Search matches title or description, case-insensitive substring.
	Search string
}

type StudentFilters struct {
	Status *models.StudentStatus
	// Search matches first name, last name or email, case-insensitive.
	Search string
}

// ===== REPOSITORIES =====

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateEmail(ctx context.Context, id uint, email string) error
	Delete(ctx context.Context, id uint) error
}

type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id uint) (*models.Student, error)
	GetByUserID(ctx context.Context, userID uint) (*models.Student, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, filters StudentFilters) ([]*models.Student, int64, error)
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id uint) error
}

type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id uint) (*models.Course, error)
	GetByIDWithDetails(ctx context.Context, id uint) (*models.Course, error)
	List(ctx context.Context, filters CourseFilters) ([]*models.Course, int64, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id uint) error

	// IncrementStudents moves the cached enrollment counter atomically in
	// the database so concurrent enrollments never lose an update.
	IncrementStudents(ctx context.Context, id uint, delta int) error
}

type LessonRepository interface {
	Create(ctx context.Context, lesson *models.Lesson) error
	GetByID(ctx context.Context, id uint) (*models.Lesson, error)
	ListByCourse(ctx context.Context, courseID uint) ([]*models.Lesson, error)
	Update(ctx context.Context, lesson *models.Lesson) error
	Delete(ctx context.Context, id uint) error
	DeleteByCourse(ctx context.Context, courseID uint) error
}

type EnrollmentRepository interface {
	// Create returns ErrDuplicateKey when an enrollment for the same
	// (user, course) pair already exists; the unique index is the arbiter
	// under concurrency, not an application-level lookup.
	Create(ctx context.Context, enrollment *models.Enrollment) error
	GetByID(ctx context.Context, id uint) (*models.Enrollment, error)
	GetByUserAndCourse(ctx context.Context, userID, courseID uint) (*models.Enrollment, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.Enrollment, int64, error)
	CountByCourse(ctx context.Context, courseID uint) (int64, error)
	Update(ctx context.Context, enrollment *models.Enrollment) error
	DeleteByCourse(ctx context.Context, courseID uint) error
}
