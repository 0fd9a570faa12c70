package course

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Certificate is embedded in the enrollment row as certificate_* columns.
type Certificate struct {
	Issued           bool       `json:"issued" gorm:"not null"`
	IssuedAt         *time.Time `json:"issued_at"`
	CertificateID    string     `json:"certificate_id" gorm:"column:id;size:64;index"`
	DownloadURL      string     `json:"download_url"`
	QuizScore        int        `json:"quiz_score"`
	IssuedForAttempt int        `json:"issued_for_attempt"`
}

// NewCertificateID builds CERT-{last4 course}-{last4 user}-{last6 epoch millis}.
func NewCertificateID(courseID, userID uuid.UUID, at time.Time) string {
	millis := fmt.Sprintf("%d", at.UnixMilli())
	return fmt.Sprintf("CERT-%s-%s-%s", lastN(courseID.String(), 4), lastN(userID.String(), 4), lastN(millis, 6))
}

func CourseCertificateURL(courseID uuid.UUID, certificateID string) string {
	return fmt.Sprintf("/api/v1/courses/%s/certificates/%s", courseID, certificateID)
}

func CertificateDownloadURL(certificateID string) string {
	return fmt.Sprintf("/api/v1/certificate/%s/download", certificateID)
}

// IssueCertificate marks the certificate issued for the given attempt. It is a no-op once issued.
func (e *Enrollment) IssueCertificate(attempt QuizAttempt, now time.Time) bool {
	if e.Certificate.Issued {
		return false
	}
	id := NewCertificateID(e.CourseID, e.UserID, now)
	issuedAt := now
	e.Certificate = Certificate{
		Issued:           true,
		IssuedAt:         &issuedAt,
		CertificateID:    id,
		DownloadURL:      CourseCertificateURL(e.CourseID, id),
		QuizScore:        attempt.Score,
		IssuedForAttempt: attempt.AttemptNumber,
	}
	return true
}

func lastN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
