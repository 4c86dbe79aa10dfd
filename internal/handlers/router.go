package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qazaqedu/course-service/internal/auth"
	"github.com/qazaqedu/course-service/internal/models"
	"github.com/qazaqedu/course-service/internal/repositories"
	"github.com/qazaqedu/course-service/internal/services"
	"github.com/qazaqedu/course-service/internal/utils"
)

type HandlerManager struct {
	authHandler       *AuthHandler
	courseHandler     *CourseHandler
	studentHandler    *StudentHandler
	enrollmentHandler *EnrollmentHandler
	authMiddleware    *AuthMiddleware
	serviceManager    services.ServiceManager
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	tokens *auth.TokenManager,
	userRepo repositories.UserRepository,
	logger utils.Logger,
	devMode bool,
) *HandlerManager {
	return &HandlerManager{
		authHandler:       NewAuthHandler(serviceManager.Auth(), logger, devMode),
		courseHandler:     NewCourseHandler(serviceManager.Course(), serviceManager.Enrollment(), logger, devMode),
		studentHandler:    NewStudentHandler(serviceManager.Student(), serviceManager.Export(), logger, devMode),
		enrollmentHandler: NewEnrollmentHandler(serviceManager.Enrollment(), logger, devMode),
		authMiddleware:    NewAuthMiddleware(tokens, userRepo),
		serviceManager:    serviceManager,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	gate := hm.authMiddleware

	api := router.Group("/api")
	{
		// Auth routes
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", hm.authHandler.Register)
			authGroup.POST("/login", hm.authHandler.Login)
			authGroup.GET("/me", gate.RequireAuth(), hm.authHandler.GetMe)
		}

		// Course routes: the catalog is public, writes belong to teachers
		// and admins.
		courses := api.Group("/courses")
		{
			courses.GET("", gate.OptionalAuth(), hm.courseHandler.ListCourses)
			courses.GET("/:id", gate.OptionalAuth(), hm.courseHandler.GetCourse)
			courses.GET("/:id/lessons", gate.OptionalAuth(), hm.courseHandler.ListLessons)

			courses.POST("", gate.RequireAuth(), gate.RequireRole(models.RoleTeacher, models.RoleAdmin), hm.courseHandler.CreateCourse)
			courses.PUT("/:id", gate.RequireAuth(), gate.RequireRole(models.RoleTeacher, models.RoleAdmin), hm.courseHandler.UpdateCourse)
			courses.DELETE("/:id", gate.RequireAuth(), gate.RequireRole(models.RoleTeacher, models.RoleAdmin), hm.courseHandler.DeleteCourse)

			courses.POST("/:id/lessons", gate.RequireAuth(), gate.RequireRole(models.RoleTeacher, models.RoleAdmin), hm.courseHandler.AddLesson)
			courses.PUT("/:id/lessons/:lesson_id", gate.RequireAuth(), gate.RequireRole(models.RoleTeacher, models.RoleAdmin), hm.courseHandler.UpdateLesson)
			courses.DELETE("/:id/lessons/:lesson_id", gate.RequireAuth(), gate.RequireRole(models.RoleTeacher, models.RoleAdmin), hm.courseHandler.DeleteLesson)

			courses.POST("/:id/enroll", gate.RequireAuth(), hm.courseHandler.Enroll)
		}

		// Student roster routes: admin-only, except the self profile and
		// the per-record read which the service limits to the owner.
		students := api.Group("/students")
		{
			students.GET("", gate.RequireAuth(), gate.RequireRole(models.RoleAdmin), hm.studentHandler.ListStudents)
			students.POST("", gate.RequireAuth(), gate.RequireRole(models.RoleAdmin), hm.studentHandler.CreateStudent)
			students.GET("/export", gate.RequireAuth(), gate.RequireRole(models.RoleAdmin), hm.studentHandler.ExportStudents)
			students.GET("/profile", gate.RequireAuth(), hm.studentHandler.GetProfile)

			students.GET("/:id", gate.RequireAuth(), hm.studentHandler.GetStudent)
			students.PUT("/:id", gate.RequireAuth(), gate.RequireRole(models.RoleAdmin), hm.studentHandler.UpdateStudent)
			students.DELETE("/:id", gate.RequireAuth(), gate.RequireRole(models.RoleAdmin), hm.studentHandler.DeleteStudent)
		}

		// Enrollment routes
		enrollments := api.Group("/enrollments")
		enrollments.Use(gate.RequireAuth())
		{
			enrollments.GET("/me", hm.enrollmentHandler.ListMine)
			enrollments.PUT("/:id/status", hm.enrollmentHandler.UpdateStatus)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"service": "course-service",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "course-service",
		})
	})
}
