package course

import (
	"github.com/google/uuid"
)

// Lesson is an ordered unit of reading content inside a course.
type Lesson struct {
	Base
	CourseID  uuid.UUID `json:"course_id" gorm:"type:uuid;index;not null"`
	Title     string    `json:"title" gorm:"not null"`
	Content   string    `json:"content" gorm:"type:text"`
	Sequence  int       `json:"sequence" gorm:"index"`
	WordCount int       `json:"word_count"`
}
