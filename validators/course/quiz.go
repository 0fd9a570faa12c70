package courseValidator

import (
	"lms/middleware"
	"lms/models/course"
	"lms/validators"

	"github.com/gofiber/fiber/v2"
)

type QuestionList struct {
	Questions []course.NewQuestion `json:"questions" validate:"required,min=1,dive"`
}

type ResultsQuery struct {
	// Attempt is a zero-based attempt index; absent means the latest attempt.
	Attempt *int `query:"attempt" json:"attempt" validate:"omitempty,min=0"`
}

func CreateQuiz() fiber.Handler     { return body[course.NewQuiz]("validatedQuiz", false) }
func UpdateQuiz() fiber.Handler     { return body[course.UpdateQuiz]("validatedQuizUpdate", false) }
func AddQuestions() fiber.Handler   { return body[QuestionList]("validatedQuestions", false) }
func UpdateQuestion() fiber.Handler { return body[course.UpdateQuestion]("validatedQuestion", false) }
func SubmitQuiz() fiber.Handler     { return body[course.SubmitQuiz]("validatedSubmission", false) }

func QuizResults() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ResultsQuery)
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}
		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}
		c.Locals("validatedResults", reqData)
		return c.Next()
	}
}
