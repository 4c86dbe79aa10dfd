package models

import (
	"time"
)

type StudentStatus string

const (
	StudentActive    StudentStatus = "active"
	StudentInactive  StudentStatus = "inactive"
	StudentGraduated StudentStatus = "graduated"
)

func (s StudentStatus) Valid() bool {
	switch s {
	case StudentActive, StudentInactive, StudentGraduated:
		return true
	}
	return false
}

// Student is the managed profile record. It always references a backing
// user account; the pair is created and deleted in one transaction.
type Student struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	FirstName string `json:"first_name" gorm:"not null;size:50"`
	LastName  string `json:"last_name" gorm:"not null;size:50"`
	Email     string `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Phone     string `json:"phone" gorm:"not null;size:20"`

	DateOfBirth *time.Time `json:"date_of_birth"`
	Address     string     `json:"address" gorm:"size:200"`

	EnrollmentDate time.Time     `json:"enrollment_date" gorm:"not null"`
	GraduationDate *time.Time    `json:"graduation_date"`
	Status         StudentStatus `json:"status" gorm:"type:varchar(20);not null;default:'active'"`

	UserID uint  `json:"user_id" gorm:"uniqueIndex;not null"`
	User   *User `json:"user,omitempty" gorm:"foreignKey:UserID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Student) TableName() string {
	return "students"
}

func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// Age in full years, 0 when date of birth is unknown.
func (s *Student) Age() int {
	if s.DateOfBirth == nil {
		return 0
	}
	now := time.Now()
	age := now.Year() - s.DateOfBirth.Year()
	if now.YearDay() < s.DateOfBirth.YearDay() {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

func (s *Student) IsActive() bool {
	return s.Status == StudentActive
}
