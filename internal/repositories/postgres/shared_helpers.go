package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/qazaqedu/course-service/internal/repositories"
)

// translateError maps gorm errors onto the repository sentinels. The
// duplicate-key translation relies on gorm's TranslateError option being
// enabled on the connection (see pkg.InitDatabase).
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repositories.ErrRecordNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repositories.ErrDuplicateKey
	default:
		return err
	}
}

// applyCourseFilters applies catalog filters to a course query.
func applyCourseFilters(query *gorm.DB, filters repositories.CourseFilters) *gorm.DB {
	if filters.Category != nil {
		query = query.Where("category = ?", *filters.Category)
	}
	if filters.Level != nil {
		query = query.Where("level = ?", *filters.Level)
	}
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	return query
}

// applyStudentFilters applies roster filters to a student query.
func applyStudentFilters(query *gorm.DB, filters repositories.StudentFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		query = query.Where("first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?", pattern, pattern, pattern)
	}
	return query
}
