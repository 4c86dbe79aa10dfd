package models

import (
	"time"
)

type Lesson struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Title       string  `json:"title" gorm:"not null;size:200"`
	Description string  `json:"description" gorm:"not null;type:text"`
	Content     string  `json:"content" gorm:"not null;type:text"`
	VideoURL    *string `json:"video_url" gorm:"size:500"`

	// Duration in minutes, at least 1.
	Duration int `json:"duration" gorm:"not null;check:duration >= 1"`

	// Order is the lesson's position within its course.
	Order int `json:"order" gorm:"column:position;not null"`

	CourseID uint `json:"course_id" gorm:"not null;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Lesson) TableName() string {
	return "lessons"
}
