package learning

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lms/logger"
	"lms/models"
	"lms/models/course"
	"lms/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserDirectory is the user store. Writes take the caller's transaction.
type UserDirectory interface {
	FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.User, error)
	AddEnrolledCourse(ctx context.Context, tx *gorm.DB, rec models.EnrolledCourse) (bool, error)
	UpdateCourseProgress(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID, progress int) error
	AddCertificate(ctx context.Context, tx *gorm.DB, rec models.UserCertificate) (bool, error)
	UpdateCertificateURL(ctx context.Context, tx *gorm.DB, userID uuid.UUID, certificateID, url string) error
}

// Notifier is told about committed enrollments and certificates. Calls are fire-and-forget.
type Notifier interface {
	EnrollmentConfirmed(user *models.User, c *course.Course)
	CertificateIssued(user *models.User, c *course.Course, certificateID string)
}

// Actor is the authenticated caller of an authoring operation.
type Actor struct {
	ID   uuid.UUID
	Role string
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

type Options struct {
	Locker            utils.Locker
	Notifier          Notifier
	Logger            *logger.Logger
	OptimisticRetries int
	Now               func() time.Time
}

type Service struct {
	db       *gorm.DB
	users    UserDirectory
	locker   utils.Locker
	notifier Notifier
	log      *logger.Logger
	retries  int
	now      func() time.Time
}

func NewService(db *gorm.DB, users UserDirectory, opts Options) *Service {
	s := &Service{
		db:       db,
		users:    users,
		locker:   opts.Locker,
		notifier: opts.Notifier,
		log:      opts.Logger,
		retries:  opts.OptimisticRetries,
		now:      opts.Now,
	}
	if s.locker == nil {
		s.locker = utils.NewLocalLocker()
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	s.log = s.log.With("service", "LearningService")
	if s.retries <= 0 {
		s.retries = 3
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// withEnrollmentLock runs fn while holding the (course, user) lock and retries it when an
// optimistic write lost a race.
func (s *Service) withEnrollmentLock(ctx context.Context, courseID, userID uuid.UUID, fn func(tx *gorm.DB) error) error {
	unlock, err := s.locker.Lock(ctx, utils.EnrollmentLockKey(courseID, userID))
	if err != nil {
		return fmt.Errorf("lock enrollment: %w", err)
	}
	defer unlock()

	for attempt := 0; ; attempt++ {
		err = s.db.WithContext(ctx).Transaction(fn)
		if !errors.Is(err, course.ErrConflict) || attempt >= s.retries {
			return err
		}
		s.log.Warn("optimistic write conflict, retrying", "course_id", courseID, "attempt", attempt+1)
	}
}

func (s *Service) loadCourse(ctx context.Context, tx *gorm.DB, id uuid.UUID, withLessons bool) (*course.Course, error) {
	q := tx.WithContext(ctx)
	if withLessons {
		q = q.Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence asc")
		})
	}
	var c course.Course
	if err := q.Where("id = ?", id).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, course.ErrCourseNotFound
		}
		return nil, fmt.Errorf("load course %s: %w", id, err)
	}
	return &c, nil
}

func (s *Service) loadEnrollment(ctx context.Context, tx *gorm.DB, courseID, userID uuid.UUID) (*course.Enrollment, error) {
	var e course.Enrollment
	err := tx.WithContext(ctx).Where("course_id = ? AND user_id = ?", courseID, userID).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, course.ErrNotEnrolled
		}
		return nil, fmt.Errorf("load enrollment: %w", err)
	}
	return &e, nil
}

func (s *Service) loadQuiz(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*course.Quiz, error) {
	var q course.Quiz
	if err := tx.WithContext(ctx).Where("id = ?", id).First(&q).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, course.ErrQuizNotFound
		}
		return nil, fmt.Errorf("load quiz %s: %w", id, err)
	}
	return &q, nil
}

func (s *Service) linkedQuiz(ctx context.Context, tx *gorm.DB, c *course.Course) (*course.Quiz, error) {
	if c.QuizID == nil {
		return nil, course.ErrQuizNotFound
	}
	return s.loadQuiz(ctx, tx, *c.QuizID)
}

// saveEnrollment writes every mutable column if the row still has the version that was read.
func (s *Service) saveEnrollment(ctx context.Context, tx *gorm.DB, e *course.Enrollment) error {
	prev := e.Version
	e.Version = prev + 1
	res := tx.WithContext(ctx).
		Model(e).
		Where("version = ?", prev).
		Select("*").
		Omit("ID", "CreatedAt", "DeletedAt", "CourseID", "UserID", "EnrolledAt").
		Updates(e)
	if res.Error != nil {
		e.Version = prev
		return fmt.Errorf("save enrollment %s: %w", e.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		e.Version = prev
		return course.ErrConflict
	}
	return nil
}

func (s *Service) notify(fn func(n Notifier)) {
	if s.notifier == nil {
		return
	}
	go fn(s.notifier)
}
