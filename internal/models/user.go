package models

import (
	"time"
)

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
	RoleAdmin   UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID        uint     `json:"id" gorm:"primaryKey"`
	FirstName string   `json:"first_name" gorm:"not null;size:50"`
	LastName  string   `json:"last_name" gorm:"not null;size:50"`
	Email     string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Password  string   `json:"-" gorm:"not null;size:100"`
	Role      UserRole `json:"role" gorm:"type:varchar(20);not null;default:'student'"`

	// Profile info
	Avatar string `json:"avatar" gorm:"size:500"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// UserSummary is the public projection of a user attached to courses and
// student profiles. The password hash never leaves the model layer.
type UserSummary struct {
	ID        uint     `json:"id"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Email     string   `json:"email"`
	Role      UserRole `json:"role"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      u.Role,
	}
}
