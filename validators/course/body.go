package courseValidator

import (
	"lms/middleware"
	"lms/validators"

	"github.com/gofiber/fiber/v2"
)

// body parses the request body into a T, validates its tags and stores it in Locals.
func body[T any](local string, optional bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(T)
		if len(c.Body()) > 0 || !optional {
			if err := c.BodyParser(reqData); err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
			}
		}

		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals(local, reqData)
		return c.Next()
	}
}
