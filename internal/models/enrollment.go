package models

import (
	"time"

	"gorm.io/datatypes"
)

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentDropped   EnrollmentStatus = "dropped"
)

func (s EnrollmentStatus) Valid() bool {
	switch s {
	case EnrollmentActive, EnrollmentCompleted, EnrollmentDropped:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed out of s.
func (s EnrollmentStatus) Terminal() bool {
	return s == EnrollmentCompleted || s == EnrollmentDropped
}

// Enrollment links a user to a course. The (user_id, course_id) pair is
// unique at the database level so concurrent duplicate requests cannot
// both commit.
type Enrollment struct {
	ID       uint `json:"id" gorm:"primaryKey"`
	UserID   uint `json:"user_id" gorm:"not null;uniqueIndex:idx_enrollments_user_course"`
	CourseID uint `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollments_user_course"`

	Progress         int                       `json:"progress" gorm:"not null;default:0;check:progress >= 0 AND progress <= 100"`
	CompletedLessons datatypes.JSONSlice[uint] `json:"completed_lessons"`

	Status      EnrollmentStatus `json:"status" gorm:"type:varchar(20);not null;default:'active'"`
	EnrolledAt  time.Time        `json:"enrolled_at" gorm:"not null"`
	CompletedAt *time.Time       `json:"completed_at"`

	Course *Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
