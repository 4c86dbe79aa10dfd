package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/qazaqedu/course-service/internal/models"
	"github.com/qazaqedu/course-service/internal/repositories"
)

type LessonPostgreSQL struct {
	db *gorm.DB
}

func NewLessonPostgreSQL(db *gorm.DB) repositories.LessonRepository {
	return &LessonPostgreSQL{db: db}
}

func (r *LessonPostgreSQL) Create(ctx context.Context, lesson *models.Lesson) error {
	return translateError(r.db.WithContext(ctx).Create(lesson).Error)
}

func (r *LessonPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Lesson, error) {
	var lesson models.Lesson
	if err := r.db.WithContext(ctx).First(&lesson, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &lesson, nil
}

func (r *LessonPostgreSQL) ListByCourse(ctx context.Context, courseID uint) ([]*models.Lesson, error) {
	var lessons []*models.Lesson
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("position ASC").
		Find(&lessons).Error
	if err != nil {
		return nil, translateError(err)
	}
	return lessons, nil
}

func (r *LessonPostgreSQL) Update(ctx context.Context, lesson *models.Lesson) error {
	return translateError(r.db.WithContext(ctx).Save(lesson).Error)
}

func (r *LessonPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Lesson{}, id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrRecordNotFound
	}
	return nil
}

func (r *LessonPostgreSQL) DeleteByCourse(ctx context.Context, courseID uint) error {
	return translateError(
		r.db.WithContext(ctx).
			Where("course_id = ?", courseID).
			Delete(&models.Lesson{}).Error,
	)
}
