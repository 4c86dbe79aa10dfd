package validator

import (
	"time"
)

// ===== AUTH =====

type RegisterRequest struct {
	FirstName string `json:"first_name" validate:"required,min=2,max=50"`
	LastName  string `json:"last_name" validate:"required,min=2,max=50"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
	Role      string `json:"role" validate:"omitempty,oneof=student teacher admin"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ===== COURSES =====

type CourseCreateRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"required,min=1"`
	Image       string `json:"image" validate:"omitempty,url,max=500"`
	Category    string `json:"category" validate:"required,oneof=programming mathematics languages science humanities business"`
	Level       string `json:"level" validate:"required,oneof=beginner intermediate advanced"`
	Duration    string `json:"duration" validate:"required,max=50"`
}

// CourseUpdateRequest uses pointer fields: nil means the field was omitted
// and keeps its current value; a present empty value is rejected by the
// per-field rules rather than silently ignored.
type CourseUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,min=1"`
	Image       *string `json:"image" validate:"omitempty,url,max=500"`
	Category    *string `json:"category" validate:"omitempty,oneof=programming mathematics languages science humanities business"`
	Level       *string `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	Duration    *string `json:"duration" validate:"omitempty,min=1,max=50"`
}

// CourseListQuery carries catalog filters. Values outside the closed enum
// sets are a validation error, not silently ignored.
type CourseListQuery struct {
	Category string `form:"category" validate:"omitempty,oneof=all programming mathematics languages science humanities business"`
	Level    string `form:"level" validate:"omitempty,oneof=all beginner intermediate advanced"`
	Search   string `form:"search" validate:"omitempty,max=200"`
}

// ===== LESSONS =====

type LessonCreateRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	Description string  `json:"description" validate:"required,min=1"`
	Content     string  `json:"content" validate:"required,min=1"`
	VideoURL    *string `json:"video_url" validate:"omitempty,url,max=500"`
	Duration    int     `json:"duration" validate:"required,min=1"`
	Order       int     `json:"order" validate:"required,min=1"`
}

type LessonUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,min=1"`
	Content     *string `json:"content" validate:"omitempty,min=1"`
	VideoURL    *string `json:"video_url" validate:"omitempty,url,max=500"`
	Duration    *int    `json:"duration" validate:"omitempty,min=1"`
	Order       *int    `json:"order" validate:"omitempty,min=1"`
}

// ===== STUDENTS =====

type StudentCreateRequest struct {
	FirstName   string     `json:"first_name" validate:"required,min=2,max=50"`
	LastName    string     `json:"last_name" validate:"required,min=2,max=50"`
	Email       string     `json:"email" validate:"required,email,max=255"`
	Phone       string     `json:"phone" validate:"required,phone"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Address     string     `json:"address" validate:"omitempty,max=200"`
	Status      string     `json:"status" validate:"omitempty,oneof=active inactive graduated"`
	// Password is optional; when absent a random one is generated.
	Password *string `json:"password" validate:"omitempty,min=6,max=72"`
}

type StudentUpdateRequest struct {
	FirstName      *string    `json:"first_name" validate:"omitempty,min=2,max=50"`
	LastName       *string    `json:"last_name" validate:"omitempty,min=2,max=50"`
	Email          *string    `json:"email" validate:"omitempty,email,max=255"`
	Phone          *string    `json:"phone" validate:"omitempty,phone"`
	DateOfBirth    *time.Time `json:"date_of_birth"`
	Address        *string    `json:"address" validate:"omitempty,max=200"`
	Status         *string    `json:"status" validate:"omitempty,oneof=active inactive graduated"`
	GraduationDate *time.Time `json:"graduation_date"`
}

// StudentListQuery carries admin roster filters.
type StudentListQuery struct {
	Status string `form:"status" validate:"omitempty,oneof=all active inactive graduated"`
	Search string `form:"search" validate:"omitempty,max=200"`
}

// ===== ENROLLMENTS =====

type EnrollmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active completed dropped"`
}
