package controllers

import (
	"lms/middleware"
	"lms/models/course"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) EnrollInCourse(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	courseID := paramID(c, "course_id")

	var payment *course.PaymentInfo
	if reqData, ok := c.Locals("validatedPayment").(*course.PaymentInfo); ok && (reqData.Amount != nil || reqData.Method != "") {
		payment = reqData
	}

	enrollment, err := h.learning.Enroll(c.UserContext(), courseID, userID, payment)
	if err != nil {
		return h.fail(c, "enroll", err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrolled in course successfully!", enrollment)
}

func (h *Handler) EnrollmentStatus(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	enrolled, err := h.learning.IsEnrolled(c.UserContext(), paramID(c, "course_id"), userID)
	if err != nil {
		return h.fail(c, "enrollment status", err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment status fetched successfully!", fiber.Map{
		"enrolled": enrolled,
	})
}

func (h *Handler) CourseEnrollments(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return unauthorized(c)
	}
	enrollments, err := h.learning.ListEnrollments(c.UserContext(), actor, paramID(c, "course_id"))
	if err != nil {
		return h.fail(c, "list enrollments", err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": enrollments,
		"total":       len(enrollments),
	})
}

func (h *Handler) CompleteLesson(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	progress, err := h.learning.CompleteLesson(c.UserContext(), paramID(c, "course_id"), userID, paramID(c, "lesson_id"))
	if err != nil {
		return h.fail(c, "complete lesson", err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson marked as completed!", progress)
}

func (h *Handler) StudentProgress(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	progress, err := h.learning.GetStudentProgress(c.UserContext(), paramID(c, "course_id"), userID)
	if err != nil {
		return h.fail(c, "student progress", err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", progress)
}
