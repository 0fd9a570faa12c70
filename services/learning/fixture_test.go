package learning

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"lms/models"
	"lms/models/course"
	"lms/services/users"
	"lms/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db         *gorm.DB
	svc        *Service
	users      *users.Store
	admin      *models.User
	instructor *models.User
	student    *models.User
	course     *course.Course
	quiz       *course.Quiz
}

func intPtr(v int) *int { return &v }

func (f *fixture) adminActor() Actor      { return Actor{ID: f.admin.ID, Role: models.RoleAdmin} }
func (f *fixture) instructorActor() Actor { return Actor{ID: f.instructor.ID, Role: models.RoleInstructor} }

// newFixture seeds an approved three-lesson course priced 1000 with a three-question quiz.
func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	ctx := context.Background()

	db := testutil.DB(t)
	store := users.NewStore(db)
	f := &fixture{
		db:         db,
		users:      store,
		svc:        NewService(db, store, opts),
		admin:      testutil.SeedUser(t, db, "Ayesha Admin", models.RoleAdmin),
		instructor: testutil.SeedUser(t, db, "Imran Instructor", models.RoleInstructor),
		student:    testutil.SeedUser(t, db, "Sara Student", models.RoleUser),
	}

	c, err := f.svc.CreateCourse(ctx, f.instructorActor(), course.NewCourse{
		Title:       "Intro to Budgeting",
		Description: "Personal finance basics",
		Category:    "finance",
		Price:       decimal.NewFromInt(1000),
		Lessons: []course.NewLesson{
			{Title: "Income", Content: "know what comes in"},
			{Title: "Expenses", Content: "know what goes out"},
			{Title: "Savings", Content: "pay yourself first"},
		},
	})
	require.NoError(t, err)
	_, err = f.svc.SetApproval(ctx, f.adminActor(), c.ID, true)
	require.NoError(t, err)

	questions := make([]course.NewQuestion, 3)
	for i := range questions {
		questions[i] = course.NewQuestion{
			Question:      fmt.Sprintf("Question %d", i+1),
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: intPtr(i % 4),
			Explanation:   fmt.Sprintf("Because %d", i),
		}
	}
	f.quiz, err = f.svc.CreateQuiz(ctx, f.instructorActor(), c.ID, course.NewQuiz{Questions: questions})
	require.NoError(t, err)

	f.course, err = f.svc.GetCourse(ctx, c.ID)
	require.NoError(t, err)
	return f
}

func (f *fixture) enroll(t *testing.T, userID uuid.UUID) *course.Enrollment {
	t.Helper()
	e, err := f.svc.Enroll(context.Background(), f.course.ID, userID, nil)
	require.NoError(t, err)
	return e
}

func (f *fixture) completeAll(t *testing.T, userID uuid.UUID) {
	t.Helper()
	for _, l := range f.course.Lessons {
		_, err := f.svc.CompleteLesson(context.Background(), f.course.ID, userID, l.ID)
		require.NoError(t, err)
	}
}

// answers answers every question correctly except the question indexes listed in wrong.
func (f *fixture) answers(wrong ...int) map[string]any {
	out := make(map[string]any, len(f.quiz.Questions))
	for i, q := range f.quiz.Questions {
		out[q.ID.String()] = q.CorrectAnswer
		for _, w := range wrong {
			if w == i {
				out[q.ID.String()] = (q.CorrectAnswer + 1) % len(q.Options)
			}
		}
	}
	return out
}

type recordingNotifier struct {
	mu           sync.Mutex
	enrollments  []uuid.UUID
	certificates []string
}

func (n *recordingNotifier) EnrollmentConfirmed(user *models.User, c *course.Course) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enrollments = append(n.enrollments, user.ID)
}

func (n *recordingNotifier) CertificateIssued(user *models.User, c *course.Course, certificateID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.certificates = append(n.certificates, certificateID)
}

func (n *recordingNotifier) counts() (int, int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.enrollments), len(n.certificates)
}
