package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/qazaqedu/course-service/internal/cache"
	"github.com/qazaqedu/course-service/internal/models"
	"github.com/qazaqedu/course-service/internal/repositories"
)

type CoursePostgreSQL struct {
	db    *gorm.DB
	cache *cache.CacheHelper
}

func NewCoursePostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.CourseRepository {
	return &CoursePostgreSQL{
		db:    db,
		cache: cache.NewCacheHelper(redisClient, cache.CourseCacheConfig.Prefix),
	}
}

func (r *CoursePostgreSQL) Create(ctx context.Context, course *models.Course) error {
	if err := translateError(r.db.WithContext(ctx).Create(course).Error); err != nil {
		return err
	}
	r.invalidate(ctx, course.ID)
	return nil
}

func (r *CoursePostgreSQL) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).First(&course, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &course, nil
}

func (r *CoursePostgreSQL) GetByIDWithDetails(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course

	cacheKey := fmt.Sprintf("detail:%d", id)
	if err := r.cache.Get(ctx, cacheKey, &course); err == nil {
		return &course, nil
	}

	err := r.db.WithContext(ctx).
		Preload("Instructor", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, first_name, last_name, email, role")
		}).
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&course, id).Error
	if err != nil {
		return nil, translateError(err)
	}

	_ = r.cache.Set(ctx, cacheKey, &course, cache.CourseCacheConfig.TTL)
	return &course, nil
}

func (r *CoursePostgreSQL) List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	var courses []*models.Course

	// Only the unfiltered catalog listing is cached; filtered queries go to
	// the database.
	unfiltered := filters.Category == nil && filters.Level == nil && filters.Search == ""
	if unfiltered {
		if err := r.cache.Get(ctx, "list:all", &courses); err == nil {
			return courses, int64(len(courses)), nil
		}
	}

	query := applyCourseFilters(r.db.WithContext(ctx).Model(&models.Course{}), filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	err := query.
		Preload("Instructor", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, first_name, last_name")
		}).
		Order("created_at DESC").
		Find(&courses).Error
	if err != nil {
		return nil, 0, translateError(err)
	}

	if unfiltered {
		_ = r.cache.Set(ctx, "list:all", courses, cache.CourseCacheConfig.TTL)
	}
	return courses, total, nil
}

func (r *CoursePostgreSQL) Update(ctx context.Context, course *models.Course) error {
	if err := translateError(r.db.WithContext(ctx).Save(course).Error); err != nil {
		return err
	}
	r.invalidate(ctx, course.ID)
	return nil
}

func (r *CoursePostgreSQL) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Course{}, id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrRecordNotFound
	}
	r.invalidate(ctx, id)
	return nil
}

// IncrementStudents moves the cached student counter with a single atomic
// UPDATE so concurrent enrollments cannot lose increments.
func (r *CoursePostgreSQL) IncrementStudents(ctx context.Context, id uint, delta int) error {
	result := r.db.WithContext(ctx).
		Model(&models.Course{}).
		Where("id = ?", id).
		UpdateColumn("students", gorm.Expr("students + ?", delta))
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrRecordNotFound
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *CoursePostgreSQL) invalidate(ctx context.Context, id uint) {
	_ = r.cache.Delete(ctx, "list:all")
	_ = r.cache.Delete(ctx, fmt.Sprintf("detail:%d", id))
}
