package course

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type PaymentMethod string

const (
	PaymentPayFast PaymentMethod = "payfast"
	PaymentManual  PaymentMethod = "manual"
	PaymentFree    PaymentMethod = "free"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentPayFast, PaymentManual, PaymentFree:
		return true
	}
	return false
}

type CompletedLesson struct {
	LessonID        uuid.UUID `json:"lesson_id"`
	CompletedAt     time.Time `json:"completed_at"`
	ReadingProgress int       `json:"reading_progress"`
}

// Enrollment tracks one student's progress, quiz attempts and certificate in one course.
// The composite unique index is the storage-level guard against double enrollment.
type Enrollment struct {
	Base
	CourseID   uuid.UUID `json:"course_id" gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_course_user"`
	UserID     uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_course_user;index"`
	EnrolledAt time.Time `json:"enrolled_at"`

	Progress      int             `json:"progress"`
	AmountPaid    decimal.Decimal `json:"amount_paid" gorm:"type:decimal(12,2);not null"`
	PaymentMethod PaymentMethod   `json:"payment_method" gorm:"size:16;not null"`

	CompletedLessons datatypes.JSONSlice[CompletedLesson] `json:"completed_lessons"`
	QuizAttempts     datatypes.JSONSlice[QuizAttempt]     `json:"quiz_attempts"`
	LastQuizAttempt  *time.Time                           `json:"last_quiz_attempt"`

	Certificate Certificate `json:"certificate" gorm:"embedded;embeddedPrefix:certificate_"`

	// Version is bumped on every write; updates are conditional on the value that was read.
	Version int64 `json:"-" gorm:"not null"`
}

func (e *Enrollment) HasCompleted(lessonID uuid.UUID) bool {
	for _, cl := range e.CompletedLessons {
		if cl.LessonID == lessonID {
			return true
		}
	}
	return false
}

// CompleteLesson appends the lesson unless it is already recorded. It reports whether the
// enrollment changed.
func (e *Enrollment) CompleteLesson(lessonID uuid.UUID, now time.Time, totalLessons int) bool {
	if e.HasCompleted(lessonID) {
		return false
	}
	e.CompletedLessons = append(e.CompletedLessons, CompletedLesson{
		LessonID:        lessonID,
		CompletedAt:     now,
		ReadingProgress: 100,
	})
	e.RecomputeProgress(totalLessons)
	return true
}

// RecomputeProgress never lowers progress.
func (e *Enrollment) RecomputeProgress(totalLessons int) {
	p := Percent(len(e.CompletedLessons), totalLessons)
	if p > e.Progress {
		e.Progress = p
	}
}

func (e *Enrollment) LastAttempt() (QuizAttempt, bool) {
	if len(e.QuizAttempts) == 0 {
		return QuizAttempt{}, false
	}
	return e.QuizAttempts[len(e.QuizAttempts)-1], true
}

// Attempt resolves an attempt index where a negative value means the latest.
func (e *Enrollment) Attempt(index int) (QuizAttempt, bool) {
	if index < 0 {
		return e.LastAttempt()
	}
	if index >= len(e.QuizAttempts) {
		return QuizAttempt{}, false
	}
	return e.QuizAttempts[index], true
}

func (e *Enrollment) PassedQuiz() bool {
	for _, a := range e.QuizAttempts {
		if a.Passed {
			return true
		}
	}
	return false
}

// Percent is round-half-up of 100*part/total in integer arithmetic. A zero total yields 0.
func Percent(part, total int) int {
	if total <= 0 || part <= 0 {
		return 0
	}
	if part >= total {
		return 100
	}
	return (200*part + total) / (2 * total)
}
