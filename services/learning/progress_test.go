package learning

import (
	"context"
	"testing"

	"lms/models/course"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteLessonProgress(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	f.enroll(t, f.student.ID)

	want := []int{33, 67, 100}
	for i, l := range f.course.Lessons {
		p, err := f.svc.CompleteLesson(ctx, f.course.ID, f.student.ID, l.ID)
		require.NoError(t, err)
		assert.Equal(t, want[i], p.CompletionPercentage)
		assert.Equal(t, i+1, p.CompletedLessons)
		assert.Len(t, p.Completed, i+1)
		assert.Equal(t, 3, p.TotalLessons)
	}

	p, err := f.svc.GetStudentProgress(ctx, f.course.ID, f.student.ID)
	require.NoError(t, err)
	assert.True(t, p.CanAttemptQuiz)
	assert.False(t, p.PassedQuiz)
	assert.Equal(t, 3, p.CompletedLessons)
	assert.Zero(t, p.QuizAttempts)
	assert.Empty(t, p.Attempts)

	mirrored, err := f.users.ListEnrolledCourses(ctx, f.student.ID)
	require.NoError(t, err)
	require.Len(t, mirrored, 1)
	assert.Equal(t, 100, mirrored[0].Progress)
}

func TestCompleteLessonIsIdempotent(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	f.enroll(t, f.student.ID)
	lesson := f.course.Lessons[0]

	first, err := f.svc.CompleteLesson(ctx, f.course.ID, f.student.ID, lesson.ID)
	require.NoError(t, err)
	second, err := f.svc.CompleteLesson(ctx, f.course.ID, f.student.ID, lesson.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, second.CompletedLessons)
	require.Len(t, second.Completed, 1)
	assert.Equal(t, first.CompletionPercentage, second.CompletionPercentage)
	assert.True(t, first.Completed[0].CompletedAt.Equal(second.Completed[0].CompletedAt))

	var e course.Enrollment
	require.NoError(t, f.db.Where("course_id = ? AND user_id = ?", f.course.ID, f.student.ID).First(&e).Error)
	assert.EqualValues(t, 2, e.Version)
}

func TestCompleteLessonErrors(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	_, err := f.svc.CompleteLesson(ctx, f.course.ID, f.student.ID, f.course.Lessons[0].ID)
	assert.ErrorIs(t, err, course.ErrNotEnrolled)

	f.enroll(t, f.student.ID)
	_, err = f.svc.CompleteLesson(ctx, f.course.ID, f.student.ID, uuid.New())
	assert.ErrorIs(t, err, course.ErrLessonNotFound)

	_, err = f.svc.CompleteLesson(ctx, uuid.New(), f.student.ID, f.course.Lessons[0].ID)
	assert.ErrorIs(t, err, course.ErrCourseNotFound)

	_, err = f.svc.GetStudentProgress(ctx, f.course.ID, f.admin.ID)
	assert.ErrorIs(t, err, course.ErrNotEnrolled)
}

func TestProgressOfCourseWithoutLessons(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	empty, err := f.svc.CreateCourse(ctx, f.instructorActor(), course.NewCourse{
		Title:       "Coming soon",
		Description: "No lessons yet",
		Category:    "finance",
		Price:       decimal.Zero,
	})
	require.NoError(t, err)
	_, err = f.svc.SetApproval(ctx, f.adminActor(), empty.ID, true)
	require.NoError(t, err)
	_, err = f.svc.Enroll(ctx, empty.ID, f.student.ID, nil)
	require.NoError(t, err)

	p, err := f.svc.GetStudentProgress(ctx, empty.ID, f.student.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, p.TotalLessons)
	assert.Equal(t, 0, p.CompletionPercentage)
	assert.False(t, p.CanAttemptQuiz)
}

func TestAddLessonsKeepsProgressMonotonic(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	f.enroll(t, f.student.ID)
	f.completeAll(t, f.student.ID)

	c, err := f.svc.AddLessons(ctx, f.instructorActor(), f.course.ID, []course.NewLesson{
		{Title: "Investing", Content: "time in the market beats timing the market"},
	})
	require.NoError(t, err)
	require.Len(t, c.Lessons, 4)
	assert.Equal(t, 4, c.TotalLessons)
	assert.Equal(t, 4, c.Lessons[3].Sequence)
	assert.Equal(t, 8, c.Lessons[3].WordCount)

	p, err := f.svc.CompleteLesson(ctx, f.course.ID, f.student.ID, c.Lessons[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 3, p.CompletedLessons)

	var e course.Enrollment
	require.NoError(t, f.db.Where("course_id = ? AND user_id = ?", f.course.ID, f.student.ID).First(&e).Error)
	assert.Equal(t, 100, e.Progress)
}
