package repositories

import "context"

// Repository aggregates all entity repositories.
type Repository interface {
	User() UserRepository
	Student() StudentRepository
	Course() CourseRepository
	Lesson() LessonRepository
	Enrollment() EnrollmentRepository

	// WithTransaction runs fn against a repository view bound to one
	// database transaction; fn returning an error rolls everything back.
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager manages repository lifecycle.
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
