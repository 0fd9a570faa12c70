package learning

import (
	"context"
	"fmt"
	"time"

	"lms/models/course"

	"github.com/google/uuid"
	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

const discountSweepBatch = 100

var discountColumns = []string{"discount_amount", "discount_original_price", "discount_expires_at", "discounted_price", "updated_at"}

// SweepExpiredDiscounts clears every discount whose expiry has passed, in batches.
func (s *Service) SweepExpiredDiscounts(ctx context.Context) (int64, error) {
	cutoff := s.now().UTC()
	var cleared int64
	for {
		var ids []uuid.UUID
		err := s.db.WithContext(ctx).Model(&course.Course{}).
			Where("discount_amount IS NOT NULL AND discount_expires_at IS NOT NULL AND discount_expires_at <= ?", cutoff).
			Limit(discountSweepBatch).
			Pluck("id", &ids).Error
		if err != nil {
			return cleared, fmt.Errorf("find expired discounts: %w", err)
		}
		if len(ids) == 0 {
			break
		}

		res := s.db.WithContext(ctx).Model(&course.Course{}).
			Where("id IN ?", ids).
			UpdateColumns(map[string]interface{}{
				"discounted_price":        gorm.Expr("price"),
				"discount_amount":         nil,
				"discount_original_price": nil,
				"discount_expires_at":     nil,
			})
		if res.Error != nil {
			return cleared, fmt.Errorf("clear expired discounts: %w", res.Error)
		}
		cleared += res.RowsAffected
		if len(ids) < discountSweepBatch {
			break
		}
	}
	if cleared > 0 {
		s.log.Info("expired discounts cleared", "count", cleared)
	}
	return cleared, nil
}

// SetDiscount attaches a discount. ExpiresOn takes precedence over ExpiresAt and runs to the
// end of that day.
func (s *Service) SetDiscount(ctx context.Context, actor Actor, courseID uuid.UUID, in course.DiscountInput) (*course.Course, error) {
	expiresAt := in.ExpiresAt
	if in.ExpiresOn != "" {
		day, err := time.Parse("2006-01-02", in.ExpiresOn)
		if err != nil {
			return nil, course.NewValidationError(map[string]string{"expires_on": "Expiry date must be YYYY-MM-DD!"})
		}
		end := now.With(day).EndOfDay()
		expiresAt = &end
	}

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
		if err := c.SetDiscount(in.Amount, expiresAt, s.now()); err != nil {
			return err
		}
		return tx.Model(c).Select(discountColumns).Updates(c).Error
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) ClearDiscount(ctx context.Context, actor Actor, courseID uuid.UUID) (*course.Course, error) {
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
		c.ClearDiscount()
		return tx.Model(c).Select(discountColumns).Updates(c).Error
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}
