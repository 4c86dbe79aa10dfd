package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/qazaqedu/course-service/internal/models"
	"github.com/qazaqedu/course-service/internal/repositories"
)

type StudentPostgreSQL struct {
	db *gorm.DB
}

func NewStudentPostgreSQL(db *gorm.DB) repositories.StudentRepository {
	return &StudentPostgreSQL{db: db}
}

func (r *StudentPostgreSQL) Create(ctx context.Context, student *models.Student) error {
	return translateError(r.db.WithContext(ctx).Create(student).Error)
}

func (r *StudentPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Student, error) {
	var student models.Student
	err := r.db.WithContext(ctx).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, first_name, last_name, email, role")
		}).
		First(&student, id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &student, nil
}

func (r *StudentPostgreSQL) GetByUserID(ctx context.Context, userID uint) (*models.Student, error) {
	var student models.Student
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&student).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &student, nil
}

func (r *StudentPostgreSQL) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Student{}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, translateError(err)
}

func (r *StudentPostgreSQL) List(ctx context.Context, filters repositories.StudentFilters) ([]*models.Student, int64, error) {
	query := applyStudentFilters(r.db.WithContext(ctx).Model(&models.Student{}), filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	var students []*models.Student
	err := query.
		Order("created_at DESC").
		Find(&students).Error
	if err != nil {
		return nil, 0, translateError(err)
	}
	return students, total, nil
}

func (r *StudentPostgreSQL) Update(ctx context.Context, student *models.Student) error {
	return translateError(r.db.WithContext(ctx).Save(student).Error)
}

func (r *StudentPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Student{}, id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrRecordNotFound
	}
	return nil
}
