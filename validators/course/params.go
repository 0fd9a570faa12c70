package courseValidator

import (
	"strings"

	"lms/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// uuidParam parses a path id and stores it in Locals under the same name.
func uuidParam(name, label string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := strings.TrimSpace(c.Params(name))
		if raw == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, label+" is required!", nil)
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid "+label+"!", nil)
		}
		c.Locals(name, id)
		return c.Next()
	}
}

func CourseID() fiber.Handler   { return uuidParam("course_id", "Course ID") }
func LessonID() fiber.Handler   { return uuidParam("lesson_id", "Lesson ID") }
func QuizID() fiber.Handler     { return uuidParam("quiz_id", "Quiz ID") }
func QuestionID() fiber.Handler { return uuidParam("question_id", "Question ID") }

func CertificateID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Params("certificate_id"))
		if !strings.HasPrefix(id, "CERT-") {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Certificate ID!", nil)
		}
		c.Locals("certificate_id", id)
		return c.Next()
	}
}
