package middleware

import (
	"errors"

	"lms/models/course"

	"github.com/gofiber/fiber/v2"
)

var kindStatus = map[course.ErrorKind]int{
	course.KindNotFound:             fiber.StatusNotFound,
	course.KindNotEnrolled:          fiber.StatusForbidden,
	course.KindAlreadyEnrolled:      fiber.StatusConflict,
	course.KindNotApproved:          fiber.StatusForbidden,
	course.KindQuizIncomplete:       fiber.StatusBadRequest,
	course.KindMissingAnswers:       fiber.StatusBadRequest,
	course.KindNoAttempts:           fiber.StatusNotFound,
	course.KindCertificateNotEarned: fiber.StatusBadRequest,
	course.KindAttemptsExhausted:    fiber.StatusBadRequest,
	course.KindForbidden:            fiber.StatusForbidden,
	course.KindValidation:           fiber.StatusUnprocessableEntity,
	course.KindConflict:             fiber.StatusConflict,
}

// StatusFor maps a domain error to its HTTP status. Anything else is a 500.
func StatusFor(err error) int {
	var domainErr *course.Error
	if errors.As(err, &domainErr) {
		if status, ok := kindStatus[domainErr.Kind]; ok {
			return status
		}
	}
	return fiber.StatusInternalServerError
}

// ErrorResponse renders err in the standard envelope. Internal errors get a generic message.
func ErrorResponse(c *fiber.Ctx, err error) error {
	var domainErr *course.Error
	if !errors.As(err, &domainErr) {
		return JsonResponse(c, fiber.StatusInternalServerError, false, "Something went wrong!", nil)
	}
	var data interface{}
	switch {
	case domainErr.Kind == course.KindValidation && len(domainErr.Fields) > 0:
		data = domainErr.Fields
	case domainErr.Kind == course.KindMissingAnswers:
		data = fiber.Map{"missing": domainErr.Missing}
	}
	return JsonResponse(c, StatusFor(err), false, domainErr.Message, data)
}
