package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	RoleUser       = "USER"
	RoleInstructor = "INSTRUCTOR"
	RoleAdmin      = "ADMIN"
)

type User struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
	ProfileImage string         `json:"profile_image"`
	Name         string         `json:"name"`
	Email        string         `json:"email" gorm:"unique;not null"`
	Role         string         `json:"role" gorm:"size:16;not null"` // USER, INSTRUCTOR, ADMIN
	IsBlocked    bool           `json:"is_blocked"`

	EnrolledCourses []EnrolledCourse  `json:"enrolled_courses,omitempty" gorm:"foreignKey:UserID"`
	Certificates    []UserCertificate `json:"certificates,omitempty" gorm:"foreignKey:UserID"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// EnrolledCourse mirrors an enrollment on the user side. The course enrollment row is the
// source of truth; this table is a read cache.
type EnrolledCourse struct {
	ID         uint            `json:"-" gorm:"primaryKey"`
	UserID     uuid.UUID       `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_user_enrolled_course"`
	CourseID   uuid.UUID       `json:"course_id" gorm:"type:uuid;not null;uniqueIndex:idx_user_enrolled_course"`
	EnrolledAt time.Time       `json:"enrolled_at"`
	Progress   int             `json:"progress"`
	AmountPaid decimal.Decimal `json:"amount_paid" gorm:"type:decimal(12,2);not null"`
}

// UserCertificate mirrors an issued certificate for the user's profile.
type UserCertificate struct {
	ID            uint      `json:"-" gorm:"primaryKey"`
	UserID        uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_user_certificate"`
	CourseID      uuid.UUID `json:"course_id" gorm:"type:uuid;not null;index"`
	CourseTitle   string    `json:"course_title"`
	CertificateID string    `json:"certificate_id" gorm:"size:64;not null;uniqueIndex:idx_user_certificate"`
	IssuedAt      time.Time `json:"issued_at"`
	Score         int       `json:"score"`
	DownloadURL   string    `json:"download_url"`
}
