package learning

import (
	"context"
	"testing"

	"lms/models"
	"lms/models/course"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func passQuiz(t *testing.T, f *fixture, userID uuid.UUID) *AttemptResult {
	t.Helper()
	f.completeAll(t, userID)
	res, err := f.svc.AttemptQuiz(context.Background(), f.course.ID, userID, f.answers(), 60)
	require.NoError(t, err)
	require.True(t, res.CertificateEarned)
	return res
}

func TestGenerateCertificateDataRequiresPass(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	_, err := f.svc.GenerateCertificateData(ctx, f.course.ID, f.student.ID)
	assert.ErrorIs(t, err, course.ErrNotEnrolled)

	f.enroll(t, f.student.ID)
	_, err = f.svc.GenerateCertificateData(ctx, f.course.ID, f.student.ID)
	assert.ErrorIs(t, err, course.ErrCertificateNotEarned)
}

func TestGenerateCertificateDataIsStable(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	f.enroll(t, f.student.ID)
	res := passQuiz(t, f, f.student.ID)

	first, err := f.svc.GenerateCertificateData(ctx, f.course.ID, f.student.ID)
	require.NoError(t, err)
	assert.Equal(t, "Intro to Budgeting", first.CourseTitle)
	assert.Equal(t, f.student.Name, first.StudentName)
	assert.Equal(t, f.instructor.Name, first.InstructorName)
	assert.Equal(t, 100, first.QuizScore)
	assert.Equal(t, res.CertificateID, first.CertificateID)
	assert.Equal(t, res.CertificateURL, first.DownloadURL)
	assert.False(t, first.CompletionDate.IsZero())

	second, err := f.svc.GenerateCertificateData(ctx, f.course.ID, f.student.ID)
	require.NoError(t, err)
	assert.Equal(t, first.CertificateID, second.CertificateID)
	assert.Equal(t, first.DownloadURL, second.DownloadURL)
	assert.True(t, first.CompletionDate.Equal(second.CompletionDate))
}

func TestGenerateCertificateDataFillsMissingURL(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	f.enroll(t, f.student.ID)
	res := passQuiz(t, f, f.student.ID)

	require.NoError(t, f.db.Model(&course.Enrollment{}).
		Where("course_id = ? AND user_id = ?", f.course.ID, f.student.ID).
		UpdateColumn("certificate_download_url", "").Error)

	data, err := f.svc.GenerateCertificateData(ctx, f.course.ID, f.student.ID)
	require.NoError(t, err)
	want := course.CertificateDownloadURL(res.CertificateID)
	assert.Equal(t, want, data.DownloadURL)

	again, err := f.svc.GenerateCertificateData(ctx, f.course.ID, f.student.ID)
	require.NoError(t, err)
	assert.Equal(t, want, again.DownloadURL)

	certs, err := f.users.ListCertificates(ctx, f.student.ID)
	require.NoError(t, err)
	require.Len(t, certs, 1)
	assert.Equal(t, want, certs[0].DownloadURL)
}

func TestGenerateCertificateDataFallsBackToDefaultInstructor(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	f.enroll(t, f.student.ID)
	passQuiz(t, f, f.student.ID)

	require.NoError(t, f.db.Delete(&models.User{}, "id = ?", f.instructor.ID).Error)

	data, err := f.svc.GenerateCertificateData(ctx, f.course.ID, f.student.ID)
	require.NoError(t, err)
	assert.Equal(t, "Course Instructor", data.InstructorName)
}

func TestCertificateByID(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	f.enroll(t, f.student.ID)
	res := passQuiz(t, f, f.student.ID)

	data, err := f.svc.CertificateByID(ctx, f.student.ID, res.CertificateID)
	require.NoError(t, err)
	assert.Equal(t, res.CertificateID, data.CertificateID)

	_, err = f.svc.CertificateByID(ctx, f.admin.ID, res.CertificateID)
	assert.ErrorIs(t, err, course.ErrCertificateNotFound)
	_, err = f.svc.CertificateByID(ctx, f.student.ID, "CERT-0000-0000-000000")
	assert.ErrorIs(t, err, course.ErrCertificateNotFound)
}

func TestReconcileUserMirror(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	f.enroll(t, f.student.ID)
	passQuiz(t, f, f.student.ID)

	created, err := f.svc.ReconcileUserMirror(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	require.NoError(t, f.db.Where("user_id = ?", f.student.ID).Delete(&models.EnrolledCourse{}).Error)
	require.NoError(t, f.db.Where("user_id = ?", f.student.ID).Delete(&models.UserCertificate{}).Error)

	created, err = f.svc.ReconcileUserMirror(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	mirrored, err := f.users.ListEnrolledCourses(ctx, f.student.ID)
	require.NoError(t, err)
	require.Len(t, mirrored, 1)
	assert.Equal(t, 100, mirrored[0].Progress)

	certs, err := f.users.ListCertificates(ctx, f.student.ID)
	require.NoError(t, err)
	require.Len(t, certs, 1)
	assert.Equal(t, "Intro to Budgeting", certs[0].CourseTitle)
}
