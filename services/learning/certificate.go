package learning

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lms/models"
	"lms/models/course"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultInstructorName = "Course Instructor"

type CertificateData struct {
	CourseTitle    string    `json:"course_title"`
	StudentName    string    `json:"student_name"`
	CompletionDate time.Time `json:"completion_date"`
	QuizScore      int       `json:"quiz_score"`
	CertificateID  string    `json:"certificate_id"`
	InstructorName string    `json:"instructor_name"`
	DownloadURL    string    `json:"download_url"`
}

// GenerateCertificateData returns what a renderer needs for the student's certificate. The
// download URL is filled in once if it was never set; later calls change nothing.
func (s *Service) GenerateCertificateData(ctx context.Context, courseID, userID uuid.UUID) (*CertificateData, error) {
	var out *CertificateData
	err := s.withEnrollmentLock(ctx, courseID, userID, func(tx *gorm.DB) error {
		c, err := s.loadCourse(ctx, tx, courseID, false)
		if err != nil {
			return err
		}
		e, err := s.loadEnrollment(ctx, tx, courseID, userID)
		if err != nil {
			return err
		}
		if !e.Certificate.Issued {
			return course.ErrCertificateNotEarned
		}
		student, err := s.users.FindByID(ctx, tx, userID)
		if err != nil {
			return err
		}
		instructorName := defaultInstructorName
		instructor, err := s.users.FindByID(ctx, tx, c.InstructorID)
		switch {
		case err == nil && instructor.Name != "":
			instructorName = instructor.Name
		case err != nil && !errors.Is(err, course.ErrUserNotFound):
			return err
		}

		if e.Certificate.DownloadURL == "" {
			e.Certificate.DownloadURL = course.CertificateDownloadURL(e.Certificate.CertificateID)
			if err := s.saveEnrollment(ctx, tx, e); err != nil {
				return err
			}
			if err := s.users.UpdateCertificateURL(ctx, tx, userID, e.Certificate.CertificateID, e.Certificate.DownloadURL); err != nil {
				return fmt.Errorf("mirror certificate url: %w", err)
			}
		}

		out = &CertificateData{
			CourseTitle:    c.Title,
			StudentName:    student.Name,
			QuizScore:      e.Certificate.QuizScore,
			CertificateID:  e.Certificate.CertificateID,
			InstructorName: instructorName,
			DownloadURL:    e.Certificate.DownloadURL,
		}
		if e.Certificate.IssuedAt != nil {
			out.CompletionDate = *e.Certificate.IssuedAt
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CertificateByID resolves a certificate id owned by userID.
func (s *Service) CertificateByID(ctx context.Context, userID uuid.UUID, certificateID string) (*CertificateData, error) {
	var e course.Enrollment
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND certificate_id = ? AND certificate_issued = ?", userID, certificateID, true).
		First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, course.ErrCertificateNotFound
		}
		return nil, fmt.Errorf("find certificate: %w", err)
	}
	return s.GenerateCertificateData(ctx, e.CourseID, userID)
}

const reconcileBatchSize = 100

// ReconcileUserMirror re-creates user-side enrollment and certificate rows from the
// enrollments table and resyncs mirrored progress. It returns the number of rows created.
func (s *Service) ReconcileUserMirror(ctx context.Context) (int, error) {
	titles := make(map[uuid.UUID]string)
	created := 0
	var lastID uuid.UUID
	for {
		var batch []course.Enrollment
		q := s.db.WithContext(ctx).Order("id asc").Limit(reconcileBatchSize)
		if lastID != uuid.Nil {
			q = q.Where("id > ?", lastID)
		}
		if err := q.Find(&batch).Error; err != nil {
			return created, fmt.Errorf("load enrollments: %w", err)
		}
		for i := range batch {
			n, err := s.reconcileOne(ctx, &batch[i], titles)
			if err != nil {
				s.log.Warn("reconcile enrollment failed", "enrollment_id", batch[i].ID, "error", err)
				continue
			}
			created += n
		}
		if len(batch) < reconcileBatchSize {
			break
		}
		lastID = batch[len(batch)-1].ID
	}
	if created > 0 {
		s.log.Info("user mirror repaired", "rows_created", created)
	}
	return created, nil
}

func (s *Service) reconcileOne(ctx context.Context, e *course.Enrollment, titles map[uuid.UUID]string) (int, error) {
	created := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := s.users.AddEnrolledCourse(ctx, tx, models.EnrolledCourse{
			UserID:     e.UserID,
			CourseID:   e.CourseID,
			EnrolledAt: e.EnrolledAt,
			Progress:   e.Progress,
			AmountPaid: e.AmountPaid,
		})
		if err != nil {
			return err
		}
		if ok {
			created++
		} else if err := s.users.UpdateCourseProgress(ctx, tx, e.UserID, e.CourseID, e.Progress); err != nil {
			return err
		}

		if !e.Certificate.Issued {
			return nil
		}
		title, known := titles[e.CourseID]
		if !known {
			c, err := s.loadCourse(ctx, tx, e.CourseID, false)
			if err != nil {
				return err
			}
			title = c.Title
			titles[e.CourseID] = title
		}
		rec := models.UserCertificate{
			UserID:        e.UserID,
			CourseID:      e.CourseID,
			CourseTitle:   title,
			CertificateID: e.Certificate.CertificateID,
			Score:         e.Certificate.QuizScore,
			DownloadURL:   e.Certificate.DownloadURL,
		}
		if e.Certificate.IssuedAt != nil {
			rec.IssuedAt = *e.Certificate.IssuedAt
		}
		ok, err = s.users.AddCertificate(ctx, tx, rec)
		if err != nil {
			return err
		}
		if ok {
			created++
		}
		return nil
	})
	return created, err
}
