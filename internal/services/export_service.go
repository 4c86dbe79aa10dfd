package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/qazaqedu/course-service/internal/models"
	"github.com/qazaqedu/course-service/internal/repositories"
	"github.com/qazaqedu/course-service/internal/validator"
	"github.com/xuri/excelize/v2"
)

const studentSheetName = "Students"

var studentSheetHeader = []string{
	"ID", "First Name", "Last Name", "Email", "Phone",
	"Status", "Enrollment Date", "Graduation Date",
}

// ===== SERVICE IMPLEMENTATION =====

type exportService struct {
	repo      repositories.Repository
	validator *validator.Validator
	logger    *slog.Logger
}

func NewExportService(repo repositories.Repository, v *validator.Validator, logger *slog.Logger) ExportService {
	return &exportService{
		repo:      repo,
		validator: v,
		logger:    logger,
	}
}

func (s *exportService) StudentsWorkbook(ctx context.Context, filters StudentListFilters) ([]byte, error) {
	if verrs := s.validator.Validate(&filters); verrs != nil {
		return nil, errors.Join(ErrValidationFailed, verrs)
	}

	repoFilters := repositories.StudentFilters{Search: filters.Search}
	if filters.Status != "" && filters.Status != "all" {
		status := models.StudentStatus(filters.Status)
		repoFilters.Status = &status
	}

	students, _, err := s.repo.Student().List(ctx, repoFilters)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", studentSheetName); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	for col, title := range studentSheetHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to build header cell: %w", err)
		}
		if err := f.SetCellValue(studentSheetName, cell, title); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetCellStyle(studentSheetName, "A1", "H1", headerStyle)
	}

	for i, student := range students {
		row := i + 2
		graduation := ""
		if student.GraduationDate != nil {
			graduation = student.GraduationDate.Format("2006-01-02")
		}

		values := []interface{}{
			student.ID,
			student.FirstName,
			student.LastName,
			student.Email,
			student.Phone,
			string(student.Status),
			student.EnrollmentDate.Format("2006-01-02"),
			graduation,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, fmt.Errorf("failed to build cell: %w", err)
			}
			if err := f.SetCellValue(studentSheetName, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", row, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}

	s.logger.Info("Student roster exported", "rows", len(students))
	return buf.Bytes(), nil
}
