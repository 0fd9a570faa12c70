package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"lms/models"
	"lms/models/course"
	"lms/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindByIDMissingUser(t *testing.T) {
	store := NewStore(testutil.DB(t))

	_, err := store.FindByID(context.Background(), nil, uuid.New())

	assert.True(t, errors.Is(err, course.ErrUserNotFound))
}

func TestAddEnrolledCourseHasSetSemantics(t *testing.T) {
	db := testutil.DB(t)
	store := NewStore(db)
	ctx := context.Background()
	user := testutil.SeedUser(t, db, "Ayesha", models.RoleUser)
	courseID := uuid.New()

	rec := models.EnrolledCourse{UserID: user.ID, CourseID: courseID, EnrolledAt: time.Now(), AmountPaid: decimal.NewFromInt(10)}
	created, err := store.AddEnrolledCourse(ctx, nil, rec)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = store.AddEnrolledCourse(ctx, nil, rec)
	require.NoError(t, err)
	assert.False(t, created)

	require.NoError(t, store.UpdateCourseProgress(ctx, nil, user.ID, courseID, 50))

	list, err := store.ListEnrolledCourses(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 50, list[0].Progress)
}

func TestAddCertificateRollsBackWithTransaction(t *testing.T) {
	db := testutil.DB(t)
	store := NewStore(db)
	ctx := context.Background()
	user := testutil.SeedUser(t, db, "Bilal", models.RoleUser)

	tx := db.Begin()
	_, err := store.AddCertificate(ctx, tx, models.UserCertificate{UserID: user.ID, CourseID: uuid.New(), CertificateID: "CERT-1", IssuedAt: time.Now()})
	require.NoError(t, err)
	require.NoError(t, tx.Rollback().Error)

	certs, err := store.ListCertificates(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, certs)
}
