package learning

import (
	"context"
	"errors"
	"fmt"

	"lms/models"
	"lms/models/course"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func authorize(actor Actor, c *course.Course) error {
	if actor.IsAdmin() || actor.ID == c.InstructorID {
		return nil
	}
	return course.ErrForbidden
}

func (s *Service) CreateCourse(ctx context.Context, actor Actor, in course.NewCourse) (*course.Course, error) {
	if actor.Role != models.RoleInstructor && !actor.IsAdmin() {
		return nil, course.ErrForbidden
	}
	c, err := in.Build(actor.ID)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		var domainErr *course.Error
		if errors.As(err, &domainErr) {
			return nil, err
		}
		return nil, fmt.Errorf("create course: %w", err)
	}
	s.log.Info("course created", "course_id", c.ID, "lessons", c.TotalLessons)
	return c, nil
}

var courseUpdateColumns = []string{
	"title", "description", "category", "thumbnail", "price", "require_passing", "quiz_retry_cooldown",
	"discount_amount", "discount_original_price", "discount_expires_at", "discounted_price", "updated_at",
}

func (s *Service) UpdateCourse(ctx context.Context, actor Actor, courseID uuid.UUID, in course.UpdateCourse) (*course.Course, error) {
	var c *course.Course
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		c, err = s.loadCourse(ctx, tx, courseID, false)
		if err != nil {
			return err
		}
		if err := authorize(actor, c); err != nil {
			return err
		}
		if err := in.Apply(c); err != nil {
			return err
		}
		return tx.Model(c).Select(courseUpdateColumns).Updates(c).Error
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// AddLessons appends lessons and re-saves the whole lesson list so sequences and word counts
// stay normalized.
func (s *Service) AddLessons(ctx context.Context, actor Actor, courseID uuid.UUID, lessons []course.NewLesson) (*course.Course, error) {
	var c *course.Course
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		c, err = s.loadCourse(ctx, tx, courseID, true)
		if err != nil {
			return err
		}
		if err := authorize(actor, c); err != nil {
			return err
		}
		for _, l := range lessons {
			lesson := l.Build()
			lesson.CourseID = c.ID
			c.Lessons = append(c.Lessons, lesson)
		}
		c.NormalizeLessons()
		if err := tx.Save(&c.Lessons).Error; err != nil {
			return fmt.Errorf("save lessons: %w", err)
		}
		return tx.Model(c).UpdateColumn("total_lessons", c.TotalLessons).Error
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) SetApproval(ctx context.Context, actor Actor, courseID uuid.UUID, approved bool) (*course.Course, error) {
	if !actor.IsAdmin() {
		return nil, course.ErrForbidden
	}
	var c *course.Course
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		c, err = s.loadCourse(ctx, tx, courseID, false)
		if err != nil {
			return err
		}
		c.SetApproved(approved, actor.ID, s.now())
		return tx.Model(c).Select("approved", "approved_at", "approved_by", "updated_at").Updates(c).Error
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("course approval changed", "course_id", courseID, "approved", approved)
	return c, nil
}

func (s *Service) GetCourse(ctx context.Context, courseID uuid.UUID) (*course.Course, error) {
	return s.loadCourse(ctx, s.db, courseID, true)
}

type CourseFilter struct {
	Category string
	Page     int
	Limit    int
}

// ListApprovedCourses sweeps expired discounts first so listed prices are current.
func (s *Service) ListApprovedCourses(ctx context.Context, f CourseFilter) ([]course.Course, int64, error) {
	if _, err := s.SweepExpiredDiscounts(ctx); err != nil {
		s.log.Warn("discount sweep before listing failed", "error", err)
	}
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Page <= 0 {
		f.Page = 1
	}

	q := s.db.WithContext(ctx).Model(&course.Course{}).Where("approved = ?", true)
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}
	var out []course.Course
	if err := q.Order("created_at desc").Offset((f.Page - 1) * f.Limit).Limit(f.Limit).Find(&out).Error; err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}
	return out, total, nil
}

func (s *Service) CreateQuiz(ctx context.Context, actor Actor, courseID uuid.UUID, in course.NewQuiz) (*course.Quiz, error) {
	var quiz *course.Quiz
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := s.loadCourse(ctx, tx, courseID, false)
		if err != nil {
			return err
		}
		if err := authorize(actor, c); err != nil {
			return err
		}
		if c.QuizID != nil {
			return course.ErrQuizExists
		}
		quiz = in.Build(courseID, actor.ID)
		if err := quiz.Validate(); err != nil {
			return err
		}
		if err := tx.Create(quiz).Error; err != nil {
			return fmt.Errorf("create quiz: %w", err)
		}
		return tx.Model(c).UpdateColumn("quiz_id", quiz.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return quiz, nil
}

// quizForAuthor loads a quiz and checks the actor may edit its course.
func (s *Service) quizForAuthor(ctx context.Context, tx *gorm.DB, actor Actor, quizID uuid.UUID) (*course.Quiz, error) {
	quiz, err := s.loadQuiz(ctx, tx, quizID)
	if err != nil {
		return nil, err
	}
	c, err := s.loadCourse(ctx, tx, quiz.CourseID, false)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, c); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *Service) GetAuthorQuiz(ctx context.Context, actor Actor, courseID uuid.UUID) (*course.Quiz, error) {
	c, err := s.loadCourse(ctx, s.db, courseID, false)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, c); err != nil {
		return nil, err
	}
	return s.linkedQuiz(ctx, s.db, c)
}

// mutateQuiz applies fn to the quiz, validates, and writes the listed columns.
func (s *Service) mutateQuiz(ctx context.Context, actor Actor, quizID uuid.UUID, columns []string, fn func(q *course.Quiz) error) (*course.Quiz, error) {
	var quiz *course.Quiz
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		quiz, err = s.quizForAuthor(ctx, tx, actor, quizID)
		if err != nil {
			return err
		}
		if err := fn(quiz); err != nil {
			return err
		}
		if err := quiz.Validate(); err != nil {
			return err
		}
		return tx.Model(quiz).Select(append(columns, "updated_at")).Updates(quiz).Error
	})
	if err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *Service) AddQuestions(ctx context.Context, actor Actor, quizID uuid.UUID, in []course.NewQuestion) (*course.Quiz, error) {
	return s.mutateQuiz(ctx, actor, quizID, []string{"questions"}, func(q *course.Quiz) error {
		for _, question := range in {
			q.AddQuestions(question.Build())
		}
		return nil
	})
}

var quizSettingColumns = []string{
	"title", "description", "passing_score", "time_limit", "max_attempts",
	"shuffle_questions", "shuffle_options", "show_correct_answers",
}

func (s *Service) UpdateQuiz(ctx context.Context, actor Actor, quizID uuid.UUID, in course.UpdateQuiz) (*course.Quiz, error) {
	return s.mutateQuiz(ctx, actor, quizID, quizSettingColumns, func(q *course.Quiz) error {
		in.Apply(q)
		return nil
	})
}

func (s *Service) UpdateQuestion(ctx context.Context, actor Actor, quizID, questionID uuid.UUID, in course.UpdateQuestion) (*course.Quiz, error) {
	return s.mutateQuiz(ctx, actor, quizID, []string{"questions"}, func(q *course.Quiz) error {
		i := q.QuestionIndex(questionID)
		if i < 0 {
			return course.ErrQuestionNotFound
		}
		in.Apply(&q.Questions[i])
		return nil
	})
}

func (s *Service) DeleteQuestion(ctx context.Context, actor Actor, quizID, questionID uuid.UUID) (*course.Quiz, error) {
	return s.mutateQuiz(ctx, actor, quizID, []string{"questions"}, func(q *course.Quiz) error {
		i := q.QuestionIndex(questionID)
		if i < 0 {
			return course.ErrQuestionNotFound
		}
		q.Questions = append(q.Questions[:i], q.Questions[i+1:]...)
		return nil
	})
}

type QuestionStat struct {
	QuestionID  uuid.UUID `json:"question_id"`
	Question    string    `json:"question"`
	Attempts    int       `json:"attempts"`
	Correct     int       `json:"correct"`
	SuccessRate int       `json:"success_rate"`
}

type QuizStats struct {
	TotalAttempts int            `json:"total_attempts"`
	AverageScore  int            `json:"average_score"`
	PassRate      int            `json:"pass_rate"`
	Questions     []QuestionStat `json:"questions"`
}

// QuizStats aggregates every recorded attempt of the quiz's course.
func (s *Service) QuizStats(ctx context.Context, actor Actor, quizID uuid.UUID) (*QuizStats, error) {
	quiz, err := s.quizForAuthor(ctx, s.db, actor, quizID)
	if err != nil {
		return nil, err
	}
	var enrollments []course.Enrollment
	if err := s.db.WithContext(ctx).Select("id", "quiz_attempts").
		Where("course_id = ?", quiz.CourseID).Find(&enrollments).Error; err != nil {
		return nil, fmt.Errorf("load attempts: %w", err)
	}

	stats := &QuizStats{Questions: make([]QuestionStat, len(quiz.Questions))}
	index := make(map[uuid.UUID]int, len(quiz.Questions))
	for i, q := range quiz.Questions {
		index[q.ID] = i
		stats.Questions[i] = QuestionStat{QuestionID: q.ID, Question: q.Question}
	}
	scoreSum, passed := 0, 0
	for _, e := range enrollments {
		for _, a := range e.QuizAttempts {
			stats.TotalAttempts++
			scoreSum += a.Score
			if a.Passed {
				passed++
			}
			for _, ans := range a.Answers {
				i, ok := index[ans.QuestionID]
				if !ok {
					continue
				}
				stats.Questions[i].Attempts++
				if ans.IsCorrect {
					stats.Questions[i].Correct++
				}
			}
		}
	}
	if stats.TotalAttempts > 0 {
		stats.AverageScore = course.Percent(scoreSum, 100*stats.TotalAttempts)
		stats.PassRate = course.Percent(passed, stats.TotalAttempts)
	}
	for i := range stats.Questions {
		stats.Questions[i].SuccessRate = course.Percent(stats.Questions[i].Correct, stats.Questions[i].Attempts)
	}
	return stats, nil
}
