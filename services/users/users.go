package users

import (
	"context"
	"errors"
	"fmt"

	"lms/models"
	"lms/models/course"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store keeps the user-side copies of enrollments and certificates. Every method takes the
// caller's transaction so the mirror commits together with the enrollment it reflects.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	transaction := tx
	if transaction == nil {
		transaction = s.db
	}
	return transaction.WithContext(ctx)
}

func (s *Store) FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx, tx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, course.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user %s: %w", id, err)
	}
	return &user, nil
}

func (s *Store) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	return s.conn(ctx, tx).Create(user).Error
}

// AddEnrolledCourse inserts the mirror row unless one already exists for the pair.
// It reports whether a row was created.
func (s *Store) AddEnrolledCourse(ctx context.Context, tx *gorm.DB, rec models.EnrolledCourse) (bool, error) {
	res := s.conn(ctx, tx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}, {Name: "course_id"}}, DoNothing: true}).
		Create(&rec)
	return res.RowsAffected > 0, res.Error
}

func (s *Store) UpdateCourseProgress(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID, progress int) error {
	return s.conn(ctx, tx).
		Model(&models.EnrolledCourse{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Update("progress", progress).Error
}

func (s *Store) AddCertificate(ctx context.Context, tx *gorm.DB, rec models.UserCertificate) (bool, error) {
	res := s.conn(ctx, tx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}, {Name: "certificate_id"}}, DoNothing: true}).
		Create(&rec)
	return res.RowsAffected > 0, res.Error
}

func (s *Store) UpdateCertificateURL(ctx context.Context, tx *gorm.DB, userID uuid.UUID, certificateID, url string) error {
	return s.conn(ctx, tx).
		Model(&models.UserCertificate{}).
		Where("user_id = ? AND certificate_id = ?", userID, certificateID).
		Update("download_url", url).Error
}

func (s *Store) ListEnrolledCourses(ctx context.Context, userID uuid.UUID) ([]models.EnrolledCourse, error) {
	var out []models.EnrolledCourse
	err := s.conn(ctx, nil).Where("user_id = ?", userID).Order("enrolled_at desc").Find(&out).Error
	return out, err
}

func (s *Store) ListCertificates(ctx context.Context, userID uuid.UUID) ([]models.UserCertificate, error) {
	var out []models.UserCertificate
	err := s.conn(ctx, nil).Where("user_id = ?", userID).Order("issued_at desc").Find(&out).Error
	return out, err
}
