package course

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const DefaultCurrency = "PKR"

// Discount is stored inline on the course row. It is present only while Amount is valid.
type Discount struct {
	Amount        decimal.NullDecimal `json:"amount" gorm:"type:decimal(12,2)"`
	OriginalPrice decimal.NullDecimal `json:"original_price" gorm:"type:decimal(12,2)"`
	ExpiresAt     *time.Time          `json:"expires_at"`
}

func (d Discount) Present() bool {
	return d.Amount.Valid
}

// Course is the aggregate root. Lessons are saved with it, enrollments and the quiz live in
// their own tables keyed by course id.
type Course struct {
	Base
	Title        string    `json:"title" gorm:"size:100;not null"`
	Description  string    `json:"description" gorm:"type:text"`
	Category     string    `json:"category" gorm:"index"`
	Thumbnail    string    `json:"thumbnail"`
	InstructorID uuid.UUID `json:"instructor_id" gorm:"type:uuid;index;not null"`

	Price           decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	Currency        string          `json:"currency" gorm:"size:8;not null"`
	Discount        Discount        `json:"discount" gorm:"embedded;embeddedPrefix:discount_"`
	DiscountedPrice decimal.Decimal `json:"discounted_price" gorm:"type:decimal(12,2);not null"`

	Lessons       []Lesson `json:"lessons,omitempty" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
	TotalLessons  int      `json:"total_lessons"`
	TotalStudents int      `json:"total_students"`

	QuizID            *uuid.UUID `json:"quiz_id" gorm:"type:uuid"`
	RequirePassing    bool       `json:"require_passing_quiz"`
	QuizRetryCooldown int        `json:"quiz_retry_cooldown"`

	Approved   bool       `json:"approved" gorm:"index"`
	ApprovedAt *time.Time `json:"approved_at"`
	ApprovedBy *uuid.UUID `json:"approved_by" gorm:"type:uuid"`

	expiredOnLoad bool
}

// BeforeSave keeps the derived fields consistent on every write of the course row.
func (c *Course) BeforeSave(tx *gorm.DB) error {
	if c.Currency == "" {
		c.Currency = DefaultCurrency
	}
	if err := c.ApplyPricing(time.Now()); err != nil {
		return err
	}
	c.NormalizeLessons()
	return nil
}

// AfterFind hides a discount that expired since the row was written. The sweep persists it.
func (c *Course) AfterFind(tx *gorm.DB) error {
	c.expiredOnLoad = c.CheckDiscountExpiry(time.Now())
	return nil
}

// DiscountExpiredOnLoad reports whether the stored row still carries a discount that was
// already expired when it was read.
func (c *Course) DiscountExpiredOnLoad() bool {
	return c.expiredOnLoad
}

// CheckDiscountExpiry clears an expired discount and resets the discounted price. It reports
// whether anything changed.
func (c *Course) CheckDiscountExpiry(now time.Time) bool {
	if !c.Discount.Present() || c.Discount.ExpiresAt == nil || c.Discount.ExpiresAt.After(now) {
		return false
	}
	c.Discount = Discount{}
	c.DiscountedPrice = c.Price
	return true
}

// ApplyPricing recomputes DiscountedPrice from Price and the active discount.
func (c *Course) ApplyPricing(now time.Time) error {
	c.CheckDiscountExpiry(now)
	if !c.Discount.Present() {
		c.DiscountedPrice = c.Price
		return nil
	}
	amount := c.Discount.Amount.Decimal
	if amount.IsNegative() {
		return NewValidationError(map[string]string{"discount.amount": "Discount amount cannot be negative!"})
	}
	if amount.GreaterThan(c.Price) {
		return NewValidationError(map[string]string{"discount.amount": "Discount amount cannot exceed course price!"})
	}
	c.Discount.OriginalPrice = decimal.NewNullDecimal(c.Price)
	c.DiscountedPrice = c.Price.Sub(amount)
	return nil
}

// SetDiscount validates and attaches a discount. A nil expiry never expires.
func (c *Course) SetDiscount(amount decimal.Decimal, expiresAt *time.Time, now time.Time) error {
	if expiresAt != nil && !expiresAt.After(now) {
		return NewValidationError(map[string]string{"expires_at": "Discount expiry must be in the future!"})
	}
	if expiresAt != nil {
		utc := expiresAt.UTC()
		expiresAt = &utc
	}
	prev := c.Discount
	c.Discount = Discount{Amount: decimal.NewNullDecimal(amount), ExpiresAt: expiresAt}
	if err := c.ApplyPricing(now); err != nil {
		c.Discount = prev
		_ = c.ApplyPricing(now)
		return err
	}
	return nil
}

func (c *Course) ClearDiscount() {
	c.Discount = Discount{}
	c.DiscountedPrice = c.Price
}

// CurrentPrice is the amount a student pays right now.
func (c *Course) CurrentPrice(now time.Time) decimal.Decimal {
	c.CheckDiscountExpiry(now)
	if c.Discount.Present() {
		return c.DiscountedPrice
	}
	return c.Price
}

// NormalizeLessons assigns missing sequences, recounts words, sorts and updates TotalLessons.
// A nil Lessons slice means the lessons were not loaded and is left alone.
func (c *Course) NormalizeLessons() {
	if c.Lessons == nil {
		return
	}
	for i := range c.Lessons {
		if c.Lessons[i].Sequence == 0 {
			c.Lessons[i].Sequence = i + 1
		}
		c.Lessons[i].WordCount = CountWords(c.Lessons[i].Content)
	}
	sort.SliceStable(c.Lessons, func(i, j int) bool {
		return c.Lessons[i].Sequence < c.Lessons[j].Sequence
	})
	c.TotalLessons = len(c.Lessons)
}

func (c *Course) FindLesson(id uuid.UUID) (*Lesson, bool) {
	for i := range c.Lessons {
		if c.Lessons[i].ID == id {
			return &c.Lessons[i], true
		}
	}
	return nil, false
}

// SetApproved flips approval and keeps ApprovedAt/ApprovedBy in step.
func (c *Course) SetApproved(approved bool, by uuid.UUID, now time.Time) {
	if approved == c.Approved {
		return
	}
	c.Approved = approved
	if approved {
		c.ApprovedAt = &now
		c.ApprovedBy = &by
		return
	}
	c.ApprovedAt = nil
	c.ApprovedBy = nil
}

func CountWords(content string) int {
	return len(strings.Fields(content))
}
