package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all student-facing routes under /api/v1.
func SetupCourseRoutes(app *fiber.App, h *controllers.Handler) {
	api := app.Group("/api/v1")

	// Catalogue
	api.Get("/courses", validators.CourseList(), h.CourseList)
	api.Get("/courses/:course_id", middleware.OptionalJWT, validators.CourseID(), h.CourseDetails)

	// Enrollment
	api.Post("/enrollment/courses/:course_id/enroll", middleware.JWTMiddleware, validators.CourseID(), validators.EnrollCourse(), h.EnrollInCourse)
	api.Get("/enrollment/courses/:course_id/enrollment-status", middleware.JWTMiddleware, validators.CourseID(), h.EnrollmentStatus)

	// Progress tracking
	api.Put("/progress/courses/:course_id/lessons/:lesson_id/complete", middleware.JWTMiddleware, validators.CourseID(), validators.LessonID(), h.CompleteLesson)
	api.Get("/progress/courses/:course_id/progress", middleware.JWTMiddleware, validators.CourseID(), h.StudentProgress)

	// Quiz taking
	api.Get("/quizzes/courses/:course_id/attempt-quiz", middleware.JWTMiddleware, validators.CourseID(), h.QuizForStudent)
	api.Get("/quizzes/courses/:course_id/overview", middleware.JWTMiddleware, validators.CourseID(), h.QuizOverview)
	api.Post("/quizzes/courses/:course_id/submit-quiz", middleware.JWTMiddleware, validators.CourseID(), validators.SubmitQuiz(), h.SubmitQuiz)
	api.Get("/quizzes/courses/:course_id/results", middleware.JWTMiddleware, validators.CourseID(), validators.QuizResults(), h.QuizResults)

	// Certificates
	api.Get("/certificate/courses/:course_id/certificate", middleware.JWTMiddleware, validators.CourseID(), h.CourseCertificate)
	api.Get("/certificate/:certificate_id/download", middleware.JWTMiddleware, validators.CertificateID(), h.DownloadCertificate)

	// User enrollments and certificates
	api.Get("/user/enrollments", middleware.JWTMiddleware, h.MyEnrollments)
	api.Get("/user/certificates", middleware.JWTMiddleware, h.MyCertificates)
}
