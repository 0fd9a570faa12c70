package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	"lms/models"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up the instructor and admin authoring routes.
func SetupAdminCourseRoutes(app *fiber.App, h *controllers.Handler) {
	api := app.Group("/api/v1")
	author := middleware.RequireRole(models.RoleInstructor, models.RoleAdmin)
	admin := middleware.RequireRole(models.RoleAdmin)

	// Course authoring
	api.Post("/courses", middleware.JWTMiddleware, author, validators.CreateCourse(), h.CreateCourse)
	api.Patch("/courses/:course_id", middleware.JWTMiddleware, author, validators.CourseID(), validators.UpdateCourse(), h.UpdateCourse)
	api.Post("/courses/:course_id/thumbnail", middleware.JWTMiddleware, author, validators.CourseID(), h.UploadThumbnail)
	api.Post("/courses/:course_id/lessons", middleware.JWTMiddleware, author, validators.CourseID(), validators.AddLessons(), h.AddLessons)
	api.Put("/courses/:course_id/discount", middleware.JWTMiddleware, author, validators.CourseID(), validators.SetDiscount(), h.SetDiscount)
	api.Delete("/courses/:course_id/discount", middleware.JWTMiddleware, author, validators.CourseID(), h.ClearDiscount)
	api.Get("/courses/:course_id/enrollments", middleware.JWTMiddleware, author, validators.CourseID(), h.CourseEnrollments)

	// Approval
	api.Patch("/courseapproval/:course_id/approve", middleware.JWTMiddleware, admin, validators.CourseID(), h.ApproveCourse())
	api.Patch("/courseapproval/:course_id/disapprove", middleware.JWTMiddleware, admin, validators.CourseID(), h.DisapproveCourse())

	// Quiz authoring
	api.Post("/quizzes/:course_id/quiz", middleware.JWTMiddleware, author, validators.CourseID(), validators.CreateQuiz(), h.CreateQuiz)
	api.Get("/quizzes/:course_id/quiz", middleware.JWTMiddleware, author, validators.CourseID(), h.AuthorQuiz)
	api.Patch("/quizzes/quiz/:quiz_id", middleware.JWTMiddleware, author, validators.QuizID(), validators.UpdateQuiz(), h.UpdateQuiz)
	api.Post("/quizzes/quiz/:quiz_id/questions", middleware.JWTMiddleware, author, validators.QuizID(), validators.AddQuestions(), h.AddQuestions)
	api.Patch("/quizzes/quiz/:quiz_id/questions/:question_id", middleware.JWTMiddleware, author, validators.QuizID(), validators.QuestionID(), validators.UpdateQuestion(), h.UpdateQuestion)
	api.Delete("/quizzes/quiz/:quiz_id/questions/:question_id", middleware.JWTMiddleware, author, validators.QuizID(), validators.QuestionID(), h.DeleteQuestion)
	api.Get("/quizzes/quiz/:quiz_id/stats", middleware.JWTMiddleware, author, validators.QuizID(), h.QuizStats)
}
