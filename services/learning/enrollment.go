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

// Enroll registers a student in an approved course. A nil payment means a free enrollment
// at the current price.
func (s *Service) Enroll(ctx context.Context, courseID, userID uuid.UUID, payment *course.PaymentInfo) (*course.Enrollment, error) {
	var (
		enrollment *course.Enrollment
		c          *course.Course
		user       *models.User
	)
	err := s.withEnrollmentLock(ctx, courseID, userID, func(tx *gorm.DB) error {
		var err error
		c, err = s.loadCourse(ctx, tx, courseID, false)
		if err != nil {
			return err
		}
		if !c.Approved {
			return course.ErrNotApproved
		}
		user, err = s.users.FindByID(ctx, tx, userID)
		if err != nil {
			return err
		}

		var existing int64
		if err := tx.Model(&course.Enrollment{}).
			Where("course_id = ? AND user_id = ?", courseID, userID).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("check enrollment: %w", err)
		}
		if existing > 0 {
			return course.ErrAlreadyEnrolled
		}

		now := s.now()
		expired := c.CheckDiscountExpiry(now) || c.DiscountExpiredOnLoad()
		amount := c.CurrentPrice(now)
		method := course.PaymentFree
		if payment != nil {
			if payment.Amount != nil && payment.Amount.IsNegative() {
				return course.NewValidationError(map[string]string{"amount": "Amount paid cannot be negative!"})
			}
			if payment.Amount != nil {
				amount = *payment.Amount
			}
			if payment.Method != "" {
				method = payment.Method
			}
		}

		enrollment = &course.Enrollment{
			CourseID:      courseID,
			UserID:        userID,
			EnrolledAt:    now,
			AmountPaid:    amount,
			PaymentMethod: method,
			Version:       1,
		}
		if err := tx.Create(enrollment).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return course.ErrAlreadyEnrolled
			}
			return fmt.Errorf("create enrollment: %w", err)
		}

		columns := map[string]interface{}{
			"total_students": gorm.Expr("total_students + ?", 1),
		}
		if expired {
			columns["discounted_price"] = c.DiscountedPrice
			columns["discount_amount"] = nil
			columns["discount_original_price"] = nil
			columns["discount_expires_at"] = nil
		}
		if err := tx.Model(&course.Course{}).Where("id = ?", courseID).UpdateColumns(columns).Error; err != nil {
			return fmt.Errorf("update course counters: %w", err)
		}
		c.TotalStudents++

		if _, err := s.users.AddEnrolledCourse(ctx, tx, models.EnrolledCourse{
			UserID:     userID,
			CourseID:   courseID,
			EnrolledAt: now,
			AmountPaid: amount,
		}); err != nil {
			return fmt.Errorf("mirror enrollment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("student enrolled", "course_id", courseID, "user_id", userID, "amount_paid", enrollment.AmountPaid.String())
	s.notify(func(n Notifier) { n.EnrollmentConfirmed(user, c) })
	return enrollment, nil
}

// IsEnrolled backs the enrollment-status endpoint.
func (s *Service) IsEnrolled(ctx context.Context, courseID, userID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&course.Enrollment{}).
		Where("course_id = ? AND user_id = ?", courseID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return count > 0, nil
}

// ListEnrollments returns every enrollment of a course, newest first.
func (s *Service) ListEnrollments(ctx context.Context, actor Actor, courseID uuid.UUID) ([]course.Enrollment, error) {
	c, err := s.loadCourse(ctx, s.db, courseID, false)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, c); err != nil {
		return nil, err
	}
	var out []course.Enrollment
	if err := s.db.WithContext(ctx).Where("course_id = ?", courseID).Order("enrolled_at desc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return out, nil
}
