package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/qazaqedu/course-service/internal/models"
	"github.com/qazaqedu/course-service/internal/services"
	"github.com/qazaqedu/course-service/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type StudentHandler struct {
	BaseHandler
	students services.StudentService
	export   services.ExportService
}

func NewStudentHandler(students services.StudentService, export services.ExportService, logger utils.Logger, devMode bool) *StudentHandler {
	return &StudentHandler{
		BaseHandler: NewBaseHandler(logger, devMode),
		students:    students,
		export:      export,
	}
}

// ListStudents returns the roster, filtered by status and a search term.
func (h *StudentHandler) ListStudents(c *gin.Context) {
	var filters services.StudentListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Message: "Invalid query parameters",
			Errors: []models.FieldError{
				{Field: "query", Message: err.Error()},
			},
		})
		return
	}

	resp, err := h.students.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetProfile returns the student record bound to the calling user.
func (h *StudentHandler) GetProfile(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	student, err := h.students.GetProfile(c.Request.Context(), actor.UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

// GetStudent returns a single student record. Students may only read their
// own record; admins may read any.
func (h *StudentHandler) GetStudent(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	student, err := h.students.GetByID(c.Request.Context(), id, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

// CreateStudent provisions a student record with a paired login account.
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	h.LogRequest(c, "Creating student")

	var req services.CreateStudentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.students.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// UpdateStudent applies a partial update to a student record.
func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	h.LogRequest(c, "Updating student")

	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateStudentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	student, err := h.students.Update(c.Request.Context(), id, &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

// DeleteStudent removes a student record together with its login account.
func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	h.LogRequest(c, "Deleting student")

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.students.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{
		Success: true,
		Message: "Student deleted",
	})
}

// ExportStudents streams the filtered roster as an xlsx workbook.
func (h *StudentHandler) ExportStudents(c *gin.Context) {
	h.LogRequest(c, "Exporting students")

	var filters services.StudentListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Message: "Invalid query parameters",
			Errors: []models.FieldError{
				{Field: "query", Message: err.Error()},
			},
		})
		return
	}

	workbook, err := h.export.StudentsWorkbook(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("students_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, workbook)
}
