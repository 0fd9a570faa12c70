package learning

import (
	"context"
	"fmt"
	"time"

	"lms/models"
	"lms/models/course"
	"lms/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StudentQuestion is a question as shown to a student: no correct answer, no explanation.
type StudentQuestion struct {
	ID       uuid.UUID `json:"id"`
	Question string    `json:"question"`
	Options  []string  `json:"options"`
	Points   int       `json:"points"`
}

type StudentQuiz struct {
	ID           uuid.UUID         `json:"id"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	TimeLimit    int               `json:"time_limit"`
	PassingScore int               `json:"passing_score"`
	Questions    []StudentQuestion `json:"questions"`
}

type QuizOverview struct {
	QuizID            uuid.UUID           `json:"quiz_id"`
	Title             string              `json:"title"`
	CanAttempt        bool                `json:"can_attempt"`
	LastAttempt       *course.QuizAttempt `json:"last_attempt"`
	TotalQuestions    int                 `json:"total_questions"`
	PassingScore      int                 `json:"passing_score"`
	TimeLimit         int                 `json:"time_limit"`
	HasCertificate    bool                `json:"has_certificate"`
	AttemptsRemaining *int                `json:"attempts_remaining"`
	CanRetry          bool                `json:"can_retry"`
	RetryCooldown     int                 `json:"retry_cooldown"`
}

type AttemptResult struct {
	Score             int       `json:"score"`
	Passed            bool      `json:"passed"`
	PassingScore      int       `json:"passing_score"`
	CertificateEarned bool      `json:"certificate_earned"`
	CertificateID     string    `json:"certificate_id,omitempty"`
	CertificateURL    string    `json:"certificate_url,omitempty"`
	AttemptNumber     int       `json:"attempt_number"`
	AttemptDate       time.Time `json:"attempt_date"`
}

type ResultQuestion struct {
	ID             uuid.UUID `json:"id"`
	Question       string    `json:"question"`
	Options        []string  `json:"options"`
	SelectedOption *int      `json:"selected_option"`
	CorrectAnswer  int       `json:"correct_answer"`
	IsCorrect      bool      `json:"is_correct"`
	Explanation    string    `json:"explanation"`
}

type DetailedResult struct {
	AttemptNumber int              `json:"attempt_number"`
	AttemptDate   time.Time        `json:"attempt_date"`
	Score         int              `json:"score"`
	Passed        bool             `json:"passed"`
	PassingScore  int              `json:"passing_score"`
	TimeTaken     int              `json:"time_taken"`
	Questions     []ResultQuestion `json:"questions"`
}

// GetQuizForStudent returns the quiz without answers, in a fresh random order on every call.
func (s *Service) GetQuizForStudent(ctx context.Context, courseID, userID uuid.UUID) (*StudentQuiz, error) {
	c, err := s.loadCourse(ctx, s.db, courseID, false)
	if err != nil {
		return nil, err
	}
	e, err := s.loadEnrollment(ctx, s.db, courseID, userID)
	if err != nil {
		return nil, err
	}
	if e.Progress < 100 {
		return nil, course.ErrQuizIncomplete
	}
	quiz, err := s.linkedQuiz(ctx, s.db, c)
	if err != nil {
		return nil, err
	}

	out := &StudentQuiz{
		ID:           quiz.ID,
		Title:        quiz.Title,
		Description:  quiz.Description,
		TimeLimit:    quiz.TimeLimit,
		PassingScore: quiz.PassingScore,
		Questions:    make([]StudentQuestion, 0, len(quiz.Questions)),
	}
	for _, q := range quiz.Questions {
		out.Questions = append(out.Questions, StudentQuestion{
			ID:       q.ID,
			Question: q.Question,
			Options:  append([]string(nil), q.Options...),
			Points:   q.Points,
		})
	}
	if quiz.ShuffleQuestions {
		utils.Shuffle(out.Questions)
	}
	return out, nil
}

func (s *Service) GetQuizOverview(ctx context.Context, courseID, userID uuid.UUID) (*QuizOverview, error) {
	c, err := s.loadCourse(ctx, s.db, courseID, false)
	if err != nil {
		return nil, err
	}
	e, err := s.loadEnrollment(ctx, s.db, courseID, userID)
	if err != nil {
		return nil, err
	}
	quiz, err := s.linkedQuiz(ctx, s.db, c)
	if err != nil {
		return nil, err
	}

	out := &QuizOverview{
		QuizID:         quiz.ID,
		Title:          quiz.Title,
		TotalQuestions: len(quiz.Questions),
		PassingScore:   quiz.PassingScore,
		TimeLimit:      quiz.TimeLimit,
		HasCertificate: e.Certificate.Issued,
		RetryCooldown:  c.QuizRetryCooldown,
	}
	exhausted := false
	if left, limited := quiz.AttemptsRemaining(len(e.QuizAttempts)); limited {
		out.AttemptsRemaining = &left
		exhausted = left == 0
	}
	if last, ok := e.LastAttempt(); ok {
		out.LastAttempt = &last
	}
	out.CanAttempt = e.Progress >= 100 && !exhausted
	out.CanRetry = out.CanAttempt && out.LastAttempt != nil && !e.Certificate.Issued
	return out, nil
}

// AttemptQuiz grades a submission, records it and issues the certificate on the first pass.
// Every write happens in one transaction.
func (s *Service) AttemptQuiz(ctx context.Context, courseID, userID uuid.UUID, answers map[string]any, timeTaken int) (*AttemptResult, error) {
	var (
		result *AttemptResult
		c      *course.Course
		e      *course.Enrollment
	)
	err := s.withEnrollmentLock(ctx, courseID, userID, func(tx *gorm.DB) error {
		var err error
		c, err = s.loadCourse(ctx, tx, courseID, false)
		if err != nil {
			return err
		}
		e, err = s.loadEnrollment(ctx, tx, courseID, userID)
		if err != nil {
			return err
		}
		if e.Progress < 100 {
			return course.ErrQuizIncomplete
		}
		quiz, err := s.linkedQuiz(ctx, tx, c)
		if err != nil {
			return err
		}
		if len(quiz.Questions) == 0 {
			return course.NewValidationError(map[string]string{"questions": "Quiz has no questions!"})
		}
		if left, limited := quiz.AttemptsRemaining(len(e.QuizAttempts)); limited && left == 0 {
			return course.ErrAttemptsExhausted
		}
		if missing := course.MissingAnswers(quiz, answers); missing > 0 {
			return course.NewMissingAnswersError(missing)
		}

		now := s.now()
		attempt := course.Grade(quiz, answers, timeTaken, len(e.QuizAttempts)+1, now)
		e.QuizAttempts = append(e.QuizAttempts, attempt)
		e.LastQuizAttempt = &now

		earned := attempt.Passed && e.IssueCertificate(attempt, now)
		if err := s.saveEnrollment(ctx, tx, e); err != nil {
			return err
		}
		if earned {
			if _, err := s.users.AddCertificate(ctx, tx, models.UserCertificate{
				UserID:        userID,
				CourseID:      courseID,
				CourseTitle:   c.Title,
				CertificateID: e.Certificate.CertificateID,
				IssuedAt:      now,
				Score:         attempt.Score,
				DownloadURL:   e.Certificate.DownloadURL,
			}); err != nil {
				return fmt.Errorf("mirror certificate: %w", err)
			}
		}

		result = &AttemptResult{
			Score:             attempt.Score,
			Passed:            attempt.Passed,
			PassingScore:      quiz.PassingScore,
			CertificateEarned: earned,
			AttemptNumber:     attempt.AttemptNumber,
			AttemptDate:       attempt.AttemptDate,
		}
		if e.Certificate.Issued {
			result.CertificateID = e.Certificate.CertificateID
			result.CertificateURL = e.Certificate.DownloadURL
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("quiz attempted",
		"course_id", courseID,
		"attempt", result.AttemptNumber,
		"score", result.Score,
		"passed", result.Passed,
	)
	if result.CertificateEarned {
		certificateID := result.CertificateID
		s.notify(func(n Notifier) {
			user, err := s.users.FindByID(context.Background(), nil, userID)
			if err != nil {
				s.log.Warn("certificate notification skipped", "course_id", courseID, "error", err)
				return
			}
			n.CertificateIssued(user, c, certificateID)
		})
	}
	return result, nil
}

// GetQuizResults explains one attempt. A negative index selects the latest attempt.
func (s *Service) GetQuizResults(ctx context.Context, courseID, userID uuid.UUID, attemptIndex int) (*DetailedResult, error) {
	c, err := s.loadCourse(ctx, s.db, courseID, false)
	if err != nil {
		return nil, err
	}
	e, err := s.loadEnrollment(ctx, s.db, courseID, userID)
	if err != nil {
		return nil, err
	}
	quiz, err := s.linkedQuiz(ctx, s.db, c)
	if err != nil {
		return nil, err
	}
	attempt, ok := e.Attempt(attemptIndex)
	if !ok {
		return nil, course.ErrNoAttempts
	}

	answers := make(map[uuid.UUID]course.AttemptAnswer, len(attempt.Answers))
	for _, a := range attempt.Answers {
		answers[a.QuestionID] = a
	}
	out := &DetailedResult{
		AttemptNumber: attempt.AttemptNumber,
		AttemptDate:   attempt.AttemptDate,
		Score:         attempt.Score,
		Passed:        attempt.Passed,
		PassingScore:  quiz.PassingScore,
		TimeTaken:     attempt.TimeTaken,
		Questions:     make([]ResultQuestion, 0, len(quiz.Questions)),
	}
	for _, q := range quiz.Questions {
		a, answered := answers[q.ID]
		if !answered {
			continue
		}
		out.Questions = append(out.Questions, ResultQuestion{
			ID:             q.ID,
			Question:       q.Question,
			Options:        q.Options,
			SelectedOption: a.SelectedOption,
			CorrectAnswer:  q.CorrectAnswer,
			IsCorrect:      a.IsCorrect,
			Explanation:    q.Explanation,
		})
	}
	return out, nil
}
