package pkg

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/qazaqedu/course-service/internal/config"
	"github.com/qazaqedu/course-service/internal/models"
)

// InitDatabase opens the PostgreSQL connection and migrates the schema.
// Connection attempts are retried with a growing delay so the service
// survives the database coming up after it.
func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		// TranslateError surfaces duplicate-key violations as
		// gorm.ErrDuplicatedKey instead of driver-specific errors.
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	}
	if cfg.DBLogQueries {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}

	var db *gorm.DB
	var err error
	for attempt := 1; attempt <= cfg.DBRetryCount; attempt++ {
		db, err = gorm.Open(postgres.Open(cfg.DatabaseURL), gormConfig)
		if err == nil {
			break
		}

		delay := time.Duration(attempt) * cfg.DBRetryDelay
		log.Printf("Database connection attempt %d/%d failed: %v, retrying in %s", attempt, cfg.DBRetryCount, err, delay)
		time.Sleep(delay)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", cfg.DBRetryCount, err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Student{},
		&models.Course{},
		&models.Lesson{},
		&models.Enrollment{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return db, nil
}
