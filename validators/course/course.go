package courseValidator

import (
	"lms/middleware"
	"lms/models/course"
	"lms/validators"

	"github.com/gofiber/fiber/v2"
)

type LessonList struct {
	Lessons []course.NewLesson `json:"lessons" validate:"required,min=1,dive"`
}

type CourseListQuery struct {
	Category string `query:"category" json:"category"`
	Page     int    `query:"page" json:"page" validate:"omitempty,min=1"`
	Limit    int    `query:"limit" json:"limit" validate:"omitempty,min=1,max=100"`
}

func CreateCourse() fiber.Handler { return body[course.NewCourse]("validatedCourse", false) }
func UpdateCourse() fiber.Handler { return body[course.UpdateCourse]("validatedCourseUpdate", false) }
func AddLessons() fiber.Handler   { return body[LessonList]("validatedLessons", false) }
func SetDiscount() fiber.Handler  { return body[course.DiscountInput]("validatedDiscount", false) }

// EnrollCourse accepts an empty body for free enrollment.
func EnrollCourse() fiber.Handler { return body[course.PaymentInfo]("validatedPayment", true) }

func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CourseListQuery)
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedList", reqData)
		return c.Next()
	}
}
