package models

import (
	"time"
)

type CourseCategory string

const (
	CategoryProgramming CourseCategory = "programming"
	CategoryMathematics CourseCategory = "mathematics"
	CategoryLanguages   CourseCategory = "languages"
	CategoryScience     CourseCategory = "science"
	CategoryHumanities  CourseCategory = "humanities"
	CategoryBusiness    CourseCategory = "business"
)

func (c CourseCategory) Valid() bool {
	switch c {
	case CategoryProgramming, CategoryMathematics, CategoryLanguages,
		CategoryScience, CategoryHumanities, CategoryBusiness:
		return true
	}
	return false
}

type CourseLevel string

const (
	LevelBeginner     CourseLevel = "beginner"
	LevelIntermediate CourseLevel = "intermediate"
	LevelAdvanced     CourseLevel = "advanced"
)

func (l CourseLevel) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

const DefaultCourseImage = "https://source.unsplash.com/random/300x200/?education"

type Course struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Title       string         `json:"title" gorm:"not null;size:200"`
	Description string         `json:"description" gorm:"not null;type:text"`
	Image       string         `json:"image" gorm:"size:500"`
	Category    CourseCategory `json:"category" gorm:"type:varchar(30);not null;index"`
	Level       CourseLevel    `json:"level" gorm:"type:varchar(20);not null;index"`
	Duration    string         `json:"duration" gorm:"not null;size:50"`

	InstructorID uint  `json:"instructor_id" gorm:"not null;index"`
	Instructor   *User `json:"instructor,omitempty" gorm:"foreignKey:InstructorID"`

	Rating float64 `json:"rating" gorm:"not null;default:0;check:rating >= 0 AND rating <= 5"`

	// Students caches the enrollment count. It is only ever moved with an
	// atomic in-database increment, never read-modify-write.
	Students int `json:"students" gorm:"not null;default:0"`

	Lessons []Lesson `json:"lessons,omitempty" gorm:"foreignKey:CourseID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Course) TableName() string {
	return "courses"
}

func (c *Course) LessonCount() int {
	return len(c.Lessons)
}
