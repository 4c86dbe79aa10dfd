package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/qazaqedu/course-service/internal/models"
	"github.com/qazaqedu/course-service/internal/repositories"
)

type EnrollmentPostgreSQL struct {
	db *gorm.DB
}

func NewEnrollmentPostgreSQL(db *gorm.DB) repositories.EnrollmentRepository {
	return &EnrollmentPostgreSQL{db: db}
}

// Create inserts the enrollment row. The composite unique index on
// (user_id, course_id) rejects concurrent duplicates; the resulting
// constraint violation surfaces as ErrDuplicateKey.
func (r *EnrollmentPostgreSQL) Create(ctx context.Context, enrollment *models.Enrollment) error {
	return translateError(r.db.WithContext(ctx).Create(enrollment).Error)
}

func (r *EnrollmentPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := r.db.WithContext(ctx).First(&enrollment, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &enrollment, nil
}

func (r *EnrollmentPostgreSQL) GetByUserAndCourse(ctx context.Context, userID, courseID uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &enrollment, nil
}

func (r *EnrollmentPostgreSQL) ListByUser(ctx context.Context, userID uint) ([]*models.Enrollment, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	var enrollments []*models.Enrollment
	err := query.
		Preload("Course", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, title, image, category, level, duration")
		}).
		Order("enrolled_at DESC").
		Find(&enrollments).Error
	if err != nil {
		return nil, 0, translateError(err)
	}
	return enrollments, total, nil
}

func (r *EnrollmentPostgreSQL) CountByCourse(ctx context.Context, courseID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	return count, translateError(err)
}

func (r *EnrollmentPostgreSQL) Update(ctx context.Context, enrollment *models.Enrollment) error {
	return translateError(r.db.WithContext(ctx).Save(enrollment).Error)
}

func (r *EnrollmentPostgreSQL) DeleteByCourse(ctx context.Context, courseID uint) error {
	return translateError(
		r.db.WithContext(ctx).
			Where("course_id = ?", courseID).
			Delete(&models.Enrollment{}).Error,
	)
}
