package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qazaqedu/course-service/internal/models"
	"github.com/qazaqedu/course-service/internal/services"
	"github.com/qazaqedu/course-service/internal/utils"
)

type CourseHandler struct {
	BaseHandler
	courses     services.CourseService
	enrollments services.EnrollmentService
}

func NewCourseHandler(courses services.CourseService, enrollments services.EnrollmentService, logger utils.Logger, devMode bool) *CourseHandler {
	return &CourseHandler{
		BaseHandler: NewBaseHandler(logger, devMode),
		courses:     courses,
		enrollments: enrollments,
	}
}

// ===== CATALOG =====

// ListCourses returns the catalog, optionally filtered by category, level
// and a search term.
func (h *CourseHandler) ListCourses(c *gin.Context) {
	var filters services.CourseListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Message: "Invalid query parameters",
			Errors: []models.FieldError{
				{Field: "query", Message: err.Error()},
			},
		})
		return
	}

	resp, err := h.courses.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetCourse returns a single course with instructor and lessons.
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	course, err := h.courses.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// CreateCourse creates a course owned by the calling instructor.
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	h.LogRequest(c, "Creating course")

	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	var req services.CreateCourseRequest
	if !h.bindJSON(c, &req) {
		return
	}

	course, err := h.courses.Create(c.Request.Context(), &req, actor.UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, course)
}

// UpdateCourse applies a partial update; only the owning instructor or an
// admin may modify a course.
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	h.LogRequest(c, "Updating course")

	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateCourseRequest
	if !h.bindJSON(c, &req) {
		return
	}

	course, err := h.courses.Update(c.Request.Context(), id, &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// DeleteCourse removes a course with its lessons and enrollments.
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	h.LogRequest(c, "Deleting course")

	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.courses.Delete(c.Request.Context(), id, actor); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{
		Success: true,
		Message: "Course deleted",
	})
}

// ===== LESSONS =====

func (h *CourseHandler) ListLessons(c *gin.Context) {
	courseID := h.parseIDParam(c, "id")
	if courseID == 0 {
		return
	}

	lessons, err := h.courses.ListLessons(c.Request.Context(), courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"lessons": lessons})
}

func (h *CourseHandler) AddLesson(c *gin.Context) {
	h.LogRequest(c, "Adding lesson")

	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	courseID := h.parseIDParam(c, "id")
	if courseID == 0 {
		return
	}

	var req services.CreateLessonRequest
	if !h.bindJSON(c, &req) {
		return
	}

	lesson, err := h.courses.AddLesson(c.Request.Context(), courseID, &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, lesson)
}

func (h *CourseHandler) UpdateLesson(c *gin.Context) {
	h.LogRequest(c, "Updating lesson")

	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	courseID := h.parseIDParam(c, "id")
	if courseID == 0 {
		return
	}
	lessonID := h.parseIDParam(c, "lesson_id")
	if lessonID == 0 {
		return
	}

	var req services.UpdateLessonRequest
	if !h.bindJSON(c, &req) {
		return
	}

	lesson, err := h.courses.UpdateLesson(c.Request.Context(), courseID, lessonID, &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, lesson)
}

func (h *CourseHandler) DeleteLesson(c *gin.Context) {
	h.LogRequest(c, "Deleting lesson")

	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	courseID := h.parseIDParam(c, "id")
	if courseID == 0 {
		return
	}
	lessonID := h.parseIDParam(c, "lesson_id")
	if lessonID == 0 {
		return
	}

	if err := h.courses.DeleteLesson(c.Request.Context(), courseID, lessonID, actor); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{
		Success: true,
		Message: "Lesson deleted",
	})
}

// ===== ENROLLMENT =====

// Enroll enrolls the calling user into the course.
func (h *CourseHandler) Enroll(c *gin.Context) {
	h.LogRequest(c, "Enrolling in course")

	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	courseID := h.parseIDParam(c, "id")
	if courseID == 0 {
		return
	}

	enrollment, err := h.enrollments.Enroll(c.Request.Context(), actor.UserID, courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, enrollment)
}
