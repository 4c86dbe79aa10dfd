package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/qazaqedu/course-service/internal/auth"
	"github.com/qazaqedu/course-service/internal/events"
	"github.com/qazaqedu/course-service/internal/repositories"
	"github.com/qazaqedu/course-service/internal/validator"
)

// serviceManager implements ServiceManager
type serviceManager struct {
	// Dependencies
	repo      repositories.Repository
	tokens    *auth.TokenManager
	validator *validator.Validator
	publisher events.EventPublisher
	logger    *slog.Logger

	// Service instances
	authService       AuthService
	courseService     CourseService
	studentService    StudentService
	enrollmentService EnrollmentService
	exportService     ExportService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a service manager with all dependencies wired in.
func NewServiceManager(repo repositories.Repository, tokens *auth.TokenManager, v *validator.Validator, publisher events.EventPublisher, logger *slog.Logger) ServiceManager {
	return &serviceManager{
		repo:      repo,
		tokens:    tokens,
		validator: v,
		publisher: publisher,
		logger:    logger,
	}
}

// Initialize constructs all services and verifies their dependencies.
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	sm.authService = NewAuthService(sm.repo, sm.tokens, sm.validator, sm.publisher, sm.logger)
	sm.courseService = NewCourseService(sm.repo, sm.validator, sm.publisher, sm.logger)
	sm.studentService = NewStudentService(sm.repo, sm.validator, sm.publisher, sm.logger)
	sm.enrollmentService = NewEnrollmentService(sm.repo, sm.publisher, sm.logger)
	sm.exportService = NewExportService(sm.repo, sm.validator, sm.logger)

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository not reachable: %w", err)
	}

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")
	return nil
}

// ===== SERVICE GETTERS =====

func (sm *serviceManager) Auth() AuthService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.authService
}

func (sm *serviceManager) Course() CourseService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.courseService
}

func (sm *serviceManager) Student() StudentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.studentService
}

func (sm *serviceManager) Enrollment() EnrollmentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.enrollmentService
}

func (sm *serviceManager) Export() ExportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.exportService
}

// ===== HEALTH AND LIFECYCLE =====

func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}
	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if err := sm.publisher.Close(); err != nil {
		sm.logger.Error("Failed to close event publisher", "error", err)
	}

	if err := sm.repo.Close(); err != nil {
		sm.logger.Error("Failed to close repository", "error", err)
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down completed")
	return nil
}
