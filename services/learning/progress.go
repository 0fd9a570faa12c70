package learning

import (
	"context"
	"fmt"

	"lms/models/course"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProgressSnapshot struct {
	CompletedLessons     int                      `json:"completed_lessons"`
	TotalLessons         int                      `json:"total_lessons"`
	CompletionPercentage int                      `json:"completion_percentage"`
	Certificate          course.Certificate       `json:"certificate"`
	CanAttemptQuiz       bool                     `json:"can_attempt_quiz"`
	QuizAttempts         int                      `json:"quiz_attempts"`
	PassedQuiz           bool                     `json:"passed_quiz"`
	Completed            []course.CompletedLesson `json:"completed_lesson_list"`
	Attempts             []course.QuizAttempt     `json:"attempts"`
}

func snapshot(c *course.Course, e *course.Enrollment) *ProgressSnapshot {
	total := len(c.Lessons)
	completed := len(e.CompletedLessons)
	out := &ProgressSnapshot{
		CompletedLessons:     completed,
		TotalLessons:         total,
		CompletionPercentage: course.Percent(completed, total),
		Certificate:          e.Certificate,
		CanAttemptQuiz:       total > 0 && completed >= total,
		QuizAttempts:         len(e.QuizAttempts),
		PassedQuiz:           e.PassedQuiz(),
		Completed:            e.CompletedLessons,
		Attempts:             e.QuizAttempts,
	}
	if out.Completed == nil {
		out.Completed = []course.CompletedLesson{}
	}
	if out.Attempts == nil {
		out.Attempts = []course.QuizAttempt{}
	}
	return out
}

// CompleteLesson marks a lesson read. Repeating it for the same lesson writes nothing.
func (s *Service) CompleteLesson(ctx context.Context, courseID, userID, lessonID uuid.UUID) (*ProgressSnapshot, error) {
	var out *ProgressSnapshot
	err := s.withEnrollmentLock(ctx, courseID, userID, func(tx *gorm.DB) error {
		c, err := s.loadCourse(ctx, tx, courseID, true)
		if err != nil {
			return err
		}
		e, err := s.loadEnrollment(ctx, tx, courseID, userID)
		if err != nil {
			return err
		}
		if _, ok := c.FindLesson(lessonID); !ok {
			return course.ErrLessonNotFound
		}

		if !e.CompleteLesson(lessonID, s.now(), len(c.Lessons)) {
			out = snapshot(c, e)
			return nil
		}
		if err := s.saveEnrollment(ctx, tx, e); err != nil {
			return err
		}
		if err := s.users.UpdateCourseProgress(ctx, tx, userID, courseID, e.Progress); err != nil {
			return fmt.Errorf("mirror progress: %w", err)
		}
		out = snapshot(c, e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) GetStudentProgress(ctx context.Context, courseID, userID uuid.UUID) (*ProgressSnapshot, error) {
	c, err := s.loadCourse(ctx, s.db, courseID, true)
	if err != nil {
		return nil, err
	}
	e, err := s.loadEnrollment(ctx, s.db, courseID, userID)
	if err != nil {
		return nil, err
	}
	return snapshot(c, e), nil
}
