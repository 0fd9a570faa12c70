package learning

import (
	"context"
	"encoding/json"
	"regexp"
	"sync"
	"testing"
	"time"

	"lms/models/course"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var certificateIDPattern = regexp.MustCompile(`^CERT-[0-9a-f]{4}-[0-9a-f]{4}-[0-9]{6}$`)

func TestQuizLockedUntilAllLessonsComplete(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	_, err := f.svc.GetQuizForStudent(ctx, f.course.ID, f.student.ID)
	assert.ErrorIs(t, err, course.ErrNotEnrolled)

	f.enroll(t, f.student.ID)
	_, err = f.svc.CompleteLesson(ctx, f.course.ID, f.student.ID, f.course.Lessons[0].ID)
	require.NoError(t, err)

	_, err = f.svc.GetQuizForStudent(ctx, f.course.ID, f.student.ID)
	assert.ErrorIs(t, err, course.ErrQuizIncomplete)
	_, err = f.svc.AttemptQuiz(ctx, f.course.ID, f.student.ID, f.answers(), 60)
	assert.ErrorIs(t, err, course.ErrQuizIncomplete)
}

func TestStudentQuizHidesAnswers(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	f.enroll(t, f.student.ID)
	f.completeAll(t, f.student.ID)

	q, err := f.svc.GetQuizForStudent(ctx, f.course.ID, f.student.ID)
	require.NoError(t, err)
	require.Len(t, q.Questions, 3)
	assert.Equal(t, course.DefaultQuizTitle, q.Title)
	assert.Equal(t, course.DefaultPassingScore, q.PassingScore)

	want := make([]uuid.UUID, 0, len(f.quiz.Questions))
	for _, question := range f.quiz.Questions {
		want = append(want, question.ID)
	}
	got := make([]uuid.UUID, 0, len(q.Questions))
	for _, question := range q.Questions {
		got = append(got, question.ID)
		assert.Len(t, question.Options, 4)
	}
	assert.ElementsMatch(t, want, got)

	raw, err := json.Marshal(q)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "correct_answer")
	assert.NotContains(t, string(raw), "explanation")
}

func TestAttemptQuizFailThenPass(t *testing.T) {
	notifier := &recordingNotifier{}
	f := newFixture(t, Options{Notifier: notifier})
	ctx := context.Background()
	f.enroll(t, f.student.ID)
	f.completeAll(t, f.student.ID)

	failed, err := f.svc.AttemptQuiz(ctx, f.course.ID, f.student.ID, f.answers(0), 120)
	require.NoError(t, err)
	assert.Equal(t, 67, failed.Score)
	assert.False(t, failed.Passed)
	assert.False(t, failed.CertificateEarned)
	assert.Equal(t, 1, failed.AttemptNumber)
	assert.Empty(t, failed.CertificateID)

	passed, err := f.svc.AttemptQuiz(ctx, f.course.ID, f.student.ID, f.answers(), 90)
	require.NoError(t, err)
	assert.Equal(t, 100, passed.Score)
	assert.True(t, passed.Passed)
	assert.True(t, passed.CertificateEarned)
	assert.Equal(t, 2, passed.AttemptNumber)
	assert.Regexp(t, certificateIDPattern, passed.CertificateID)
	assert.Equal(t, course.CourseCertificateURL(f.course.ID, passed.CertificateID), passed.CertificateURL)

	again, err := f.svc.AttemptQuiz(ctx, f.course.ID, f.student.ID, f.answers(), 30)
	require.NoError(t, err)
	assert.True(t, again.Passed)
	assert.False(t, again.CertificateEarned)
	assert.Equal(t, 3, again.AttemptNumber)
	assert.Equal(t, passed.CertificateID, again.CertificateID)
	assert.Equal(t, passed.CertificateURL, again.CertificateURL)

	p, err := f.svc.GetStudentProgress(ctx, f.course.ID, f.student.ID)
	require.NoError(t, err)
	assert.True(t, p.PassedQuiz)
	assert.Equal(t, 3, p.QuizAttempts)
	assert.Len(t, p.Attempts, 3)
	assert.True(t, p.Certificate.Issued)
	assert.Equal(t, passed.CertificateID, p.Certificate.CertificateID)
	assert.Equal(t, 100, p.Certificate.QuizScore)
	assert.Equal(t, 2, p.Certificate.IssuedForAttempt)

	certs, err := f.users.ListCertificates(ctx, f.student.ID)
	require.NoError(t, err)
	require.Len(t, certs, 1)
	assert.Equal(t, passed.CertificateID, certs[0].CertificateID)

	assert.Eventually(t, func() bool {
		_, n := notifier.counts()
		return n == 1
	}, time.Second, 10*time.Millisecond)
}

func TestAttemptQuizMissingAnswers(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	f.enroll(t, f.student.ID)
	f.completeAll(t, f.student.ID)

	answers := f.answers()
	delete(answers, f.quiz.Questions[1].ID.String())
	answers["not-a-question"] = 1

	_, err := f.svc.AttemptQuiz(ctx, f.course.ID, f.student.ID, answers, 10)

	require.ErrorIs(t, err, course.ErrMissingAnswers)
	var domainErr *course.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, 1, domainErr.Missing)

	p, err := f.svc.GetStudentProgress(ctx, f.course.ID, f.student.ID)
	require.NoError(t, err)
	assert.Zero(t, p.QuizAttempts)
	assert.Empty(t, p.Attempts)
}

func TestAttemptQuizCoercesAnswers(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	f.enroll(t, f.student.ID)
	f.completeAll(t, f.student.ID)

	answers := map[string]any{
		f.quiz.Questions[0].ID.String(): "0",
		f.quiz.Questions[1].ID.String(): float64(1),
		f.quiz.Questions[2].ID.String(): "two",
	}
	res, err := f.svc.AttemptQuiz(ctx, f.course.ID, f.student.ID, answers, 10)
	require.NoError(t, err)
	assert.Equal(t, 67, res.Score)

	detail, err := f.svc.GetQuizResults(ctx, f.course.ID, f.student.ID, -1)
	require.NoError(t, err)
	require.Len(t, detail.Questions, 3)
	for _, q := range detail.Questions {
		if q.ID == f.quiz.Questions[2].ID {
			assert.Nil(t, q.SelectedOption)
			assert.False(t, q.IsCorrect)
			assert.Equal(t, 2, q.CorrectAnswer)
			continue
		}
		require.NotNil(t, q.SelectedOption)
		assert.True(t, q.IsCorrect)
	}
}

func TestAttemptQuizHonoursMaxAttempts(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	_, err := f.svc.UpdateQuiz(ctx, f.instructorActor(), f.quiz.ID, course.UpdateQuiz{MaxAttempts: intPtr(1)})
	require.NoError(t, err)
	f.enroll(t, f.student.ID)
	f.completeAll(t, f.student.ID)

	_, err = f.svc.AttemptQuiz(ctx, f.course.ID, f.student.ID, f.answers(0, 1), 10)
	require.NoError(t, err)
	_, err = f.svc.AttemptQuiz(ctx, f.course.ID, f.student.ID, f.answers(), 10)
	assert.ErrorIs(t, err, course.ErrAttemptsExhausted)

	overview, err := f.svc.GetQuizOverview(ctx, f.course.ID, f.student.ID)
	require.NoError(t, err)
	require.NotNil(t, overview.AttemptsRemaining)
	assert.Equal(t, 0, *overview.AttemptsRemaining)
	assert.False(t, overview.CanAttempt)
	assert.False(t, overview.CanRetry)
}

func TestConcurrentPassingAttemptsIssueOneCertificate(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	f.enroll(t, f.student.ID)
	f.completeAll(t, f.student.ID)

	const workers = 5
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers []int
		earned  int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.svc.AttemptQuiz(ctx, f.course.ID, f.student.ID, f.answers(), 45)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			numbers = append(numbers, res.AttemptNumber)
			if res.CertificateEarned {
				earned++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, earned)
	assert.ElementsMatch(t, []int{1, 2, 3, 4, 5}, numbers)

	certs, err := f.users.ListCertificates(ctx, f.student.ID)
	require.NoError(t, err)
	assert.Len(t, certs, 1)
}

func TestGetQuizResults(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	f.enroll(t, f.student.ID)
	f.completeAll(t, f.student.ID)

	_, err := f.svc.GetQuizResults(ctx, f.course.ID, f.student.ID, -1)
	assert.ErrorIs(t, err, course.ErrNoAttempts)

	_, err = f.svc.AttemptQuiz(ctx, f.course.ID, f.student.ID, f.answers(2), 50)
	require.NoError(t, err)
	_, err = f.svc.AttemptQuiz(ctx, f.course.ID, f.student.ID, f.answers(), 40)
	require.NoError(t, err)

	first, err := f.svc.GetQuizResults(ctx, f.course.ID, f.student.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, first.AttemptNumber)
	assert.Equal(t, 67, first.Score)
	assert.Equal(t, 50, first.TimeTaken)
	require.Len(t, first.Questions, 3)
	assert.Equal(t, f.quiz.Questions[2].Explanation, first.Questions[2].Explanation)
	assert.False(t, first.Questions[2].IsCorrect)

	latest, err := f.svc.GetQuizResults(ctx, f.course.ID, f.student.ID, -1)
	require.NoError(t, err)
	assert.Equal(t, 2, latest.AttemptNumber)
	assert.True(t, latest.Passed)

	_, err = f.svc.GetQuizResults(ctx, f.course.ID, f.student.ID, 5)
	assert.ErrorIs(t, err, course.ErrNoAttempts)
}

func TestQuizOverviewBeforeAndAfterPassing(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	f.enroll(t, f.student.ID)

	overview, err := f.svc.GetQuizOverview(ctx, f.course.ID, f.student.ID)
	require.NoError(t, err)
	assert.False(t, overview.CanAttempt)
	assert.Nil(t, overview.AttemptsRemaining)
	assert.Equal(t, 3, overview.TotalQuestions)

	f.completeAll(t, f.student.ID)
	_, err = f.svc.AttemptQuiz(ctx, f.course.ID, f.student.ID, f.answers(0, 1), 10)
	require.NoError(t, err)

	overview, err = f.svc.GetQuizOverview(ctx, f.course.ID, f.student.ID)
	require.NoError(t, err)
	assert.True(t, overview.CanAttempt)
	assert.True(t, overview.CanRetry)
	require.NotNil(t, overview.LastAttempt)
	assert.Equal(t, 33, overview.LastAttempt.Score)

	_, err = f.svc.AttemptQuiz(ctx, f.course.ID, f.student.ID, f.answers(), 10)
	require.NoError(t, err)
	overview, err = f.svc.GetQuizOverview(ctx, f.course.ID, f.student.ID)
	require.NoError(t, err)
	assert.True(t, overview.HasCertificate)
	assert.False(t, overview.CanRetry)
}

func TestTwoLessonCourseLifecycle(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	c, err := f.svc.CreateCourse(ctx, f.instructorActor(), course.NewCourse{
		Title:    "Knife skills",
		Category: "cooking",
		Price:    decimal.Zero,
		Lessons: []course.NewLesson{
			{Title: "Grip", Content: "pinch the blade"},
			{Title: "Dice", Content: "plank then stick then cube"},
		},
	})
	require.NoError(t, err)
	_, err = f.svc.SetApproval(ctx, f.adminActor(), c.ID, true)
	require.NoError(t, err)
	quiz, err := f.svc.CreateQuiz(ctx, f.instructorActor(), c.ID, course.NewQuiz{
		PassingScore: intPtr(70),
		Questions: []course.NewQuestion{
			{Question: "Which hand guides?", Options: []string{"left", "right"}, CorrectAnswer: intPtr(0)},
			{Question: "First cut?", Options: []string{"cube", "plank"}, CorrectAnswer: intPtr(1)},
		},
	})
	require.NoError(t, err)
	c, err = f.svc.GetCourse(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, c.Lessons, 2)

	_, err = f.svc.Enroll(ctx, c.ID, f.student.ID, nil)
	require.NoError(t, err)

	p, err := f.svc.CompleteLesson(ctx, c.ID, f.student.ID, c.Lessons[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 50, p.CompletionPercentage)
	assert.False(t, p.CanAttemptQuiz)

	_, err = f.svc.GetQuizForStudent(ctx, c.ID, f.student.ID)
	assert.ErrorIs(t, err, course.ErrQuizIncomplete)
	_, err = f.svc.AttemptQuiz(ctx, c.ID, f.student.ID, map[string]any{}, 5)
	assert.ErrorIs(t, err, course.ErrQuizIncomplete)

	p, err = f.svc.CompleteLesson(ctx, c.ID, f.student.ID, c.Lessons[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 100, p.CompletionPercentage)
	assert.True(t, p.CanAttemptQuiz)

	q0, q1 := quiz.Questions[0].ID.String(), quiz.Questions[1].ID.String()

	first, err := f.svc.AttemptQuiz(ctx, c.ID, f.student.ID, map[string]any{q0: 0, q1: 0}, 30)
	require.NoError(t, err)
	assert.Equal(t, 50, first.Score)
	assert.False(t, first.Passed)
	assert.False(t, first.CertificateEarned)
	assert.Empty(t, first.CertificateID)

	second, err := f.svc.AttemptQuiz(ctx, c.ID, f.student.ID, map[string]any{q0: 0, q1: 1}, 30)
	require.NoError(t, err)
	assert.Equal(t, 100, second.Score)
	assert.True(t, second.CertificateEarned)
	assert.Equal(t, 2, second.AttemptNumber)
	assert.Regexp(t, certificateIDPattern, second.CertificateID)

	third, err := f.svc.AttemptQuiz(ctx, c.ID, f.student.ID, map[string]any{q0: 0, q1: 1}, 30)
	require.NoError(t, err)
	assert.Equal(t, 100, third.Score)
	assert.False(t, third.CertificateEarned)
	assert.Equal(t, 3, third.AttemptNumber)
	assert.Equal(t, second.CertificateID, third.CertificateID)
	assert.Equal(t, second.CertificateURL, third.CertificateURL)

	p, err = f.svc.GetStudentProgress(ctx, c.ID, f.student.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, p.CompletedLessons)
	assert.Equal(t, 3, p.QuizAttempts)
	assert.True(t, p.PassedQuiz)
}
