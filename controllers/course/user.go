package controllers

import (
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) MyEnrollments(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	enrollments, err := h.users.ListEnrolledCourses(c.UserContext(), userID)
	if err != nil {
		return h.fail(c, "my enrollments", err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", enrollments)
}

func (h *Handler) MyCertificates(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	certificates, err := h.users.ListCertificates(c.UserContext(), userID)
	if err != nil {
		return h.fail(c, "my certificates", err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", certificates)
}
