package postgres

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/qazaqedu/course-service/internal/cache"
	"github.com/qazaqedu/course-service/internal/models"
	"github.com/qazaqedu/course-service/internal/repositories"
)

type UserPostgreSQL struct {
	db *gorm.DB
	// cache holds short-lived positive existence answers for the
	// registration pre-check; negatives are never cached so a fresh
	// signup is visible immediately.
	cache *cache.CacheHelper
}

func NewUserPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.UserRepository {
	return &UserPostgreSQL{
		db:    db,
		cache: cache.NewCacheHelper(redisClient, cache.ExistsCacheConfig.Prefix),
	}
}

func (r *UserPostgreSQL) Create(ctx context.Context, user *models.User) error {
	return translateError(r.db.WithContext(ctx).Create(user).Error)
}

func (r *UserPostgreSQL) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (r *UserPostgreSQL) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (r *UserPostgreSQL) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	cacheKey := "user:" + email
	var cached bool
	if err := r.cache.Get(ctx, cacheKey, &cached); err == nil && cached {
		return true, nil
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", email).
		Count(&count).Error
	if err != nil {
		return false, translateError(err)
	}

	if count > 0 {
		_ = r.cache.Set(ctx, cacheKey, true, cache.ExistsCacheConfig.TTL)
	}
	return count > 0, nil
}

func (r *UserPostgreSQL) UpdateEmail(ctx context.Context, id uint, email string) error {
	user, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("email", email)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrRecordNotFound
	}

	_ = r.cache.Delete(ctx, "user:"+user.Email)
	return nil
}

func (r *UserPostgreSQL) Delete(ctx context.Context, id uint) error {
	user, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&models.User{}, id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrRecordNotFound
	}

	_ = r.cache.Delete(ctx, "user:"+user.Email)
	return nil
}
