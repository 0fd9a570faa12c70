package controllers

import (
	"errors"

	"lms/middleware"
	"lms/models/course"
	"lms/services/learning"
	"lms/utils"
	courseValidator "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) CourseList(c *fiber.Ctx) error {
	filter := learning.CourseFilter{}
	if reqData, ok := c.Locals("validatedList").(*courseValidator.CourseListQuery); ok {
		filter = learning.CourseFilter{Category: reqData.Category, Page: reqData.Page, Limit: reqData.Limit}
	}
	courses, total, err := h.learning.ListApprovedCourses(c.UserContext(), filter)
	if err != nil {
		return h.fail(c, "list courses", err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
		"pagination": fiber.Map{
			"total": total,
			"page":  max(filter.Page, 1),
			"limit": filter.Limit,
		},
	})
}

func (h *Handler) CourseDetails(c *fiber.Ctx) error {
	found, err := h.learning.GetCourse(c.UserContext(), paramID(c, "course_id"))
	if err != nil {
		return h.fail(c, "course details", err)
	}
	if !found.Approved {
		actor, ok := currentActor(c)
		if !ok || (!actor.IsAdmin() && actor.ID != found.InstructorID) {
			return middleware.ErrorResponse(c, course.ErrCourseNotFound)
		}
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", found)
}

func (h *Handler) CreateCourse(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return unauthorized(c)
	}
	reqData := c.Locals("validatedCourse").(*course.NewCourse)
	created, err := h.learning.CreateCourse(c.UserContext(), actor, *reqData)
	if err != nil {
		return h.fail(c, "create course", err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", created)
}

func (h *Handler) UpdateCourse(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return unauthorized(c)
	}
	reqData := c.Locals("validatedCourseUpdate").(*course.UpdateCourse)
	updated, err := h.learning.UpdateCourse(c.UserContext(), actor, paramID(c, "course_id"), *reqData)
	if err != nil {
		return h.fail(c, "update course", err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", updated)
}

// UploadThumbnail stores a multipart "thumbnail" image and points the course at it.
func (h *Handler) UploadThumbnail(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return unauthorized(c)
	}
	file, err := c.FormFile("thumbnail")
	if err != nil {
		return middleware.ValidationErrorResponse(c, map[string]string{"thumbnail": "Thumbnail image is required!"})
	}
	courseID := paramID(c, "course_id")
	if _, err := h.learning.GetCourse(c.UserContext(), courseID); err != nil {
		return h.fail(c, "upload thumbnail", err)
	}

	name, err := utils.SaveUploadedImage(file, h.thumbnailDir)
	if errors.Is(err, utils.ErrUnsupportedImage) {
		return middleware.ValidationErrorResponse(c, map[string]string{"thumbnail": "Thumbnail must be a png, jpg or webp image!"})
	}
	if err != nil {
		h.log.Error("thumbnail save failed", "course_id", courseID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save thumbnail!", nil)
	}

	url := utils.GetFileURL(name)
	updated, err := h.learning.UpdateCourse(c.UserContext(), actor, courseID, course.UpdateCourse{Thumbnail: &url})
	if err != nil {
		return h.fail(c, "upload thumbnail", err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Thumbnail uploaded successfully!", updated)
}

func (h *Handler) AddLessons(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return unauthorized(c)
	}
	reqData := c.Locals("validatedLessons").(*courseValidator.LessonList)
	updated, err := h.learning.AddLessons(c.UserContext(), actor, paramID(c, "course_id"), reqData.Lessons)
	if err != nil {
		return h.fail(c, "add lessons", err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lessons added successfully!", updated)
}

func (h *Handler) SetDiscount(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return unauthorized(c)
	}
	reqData := c.Locals("validatedDiscount").(*course.DiscountInput)
	updated, err := h.learning.SetDiscount(c.UserContext(), actor, paramID(c, "course_id"), *reqData)
	if err != nil {
		return h.fail(c, "set discount", err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Discount applied successfully!", updated)
}

func (h *Handler) ClearDiscount(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return unauthorized(c)
	}
	updated, err := h.learning.ClearDiscount(c.UserContext(), actor, paramID(c, "course_id"))
	if err != nil {
		return h.fail(c, "clear discount", err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Discount removed successfully!", updated)
}

func (h *Handler) approval(approved bool, message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := currentActor(c)
		if !ok {
			return unauthorized(c)
		}
		updated, err := h.learning.SetApproval(c.UserContext(), actor, paramID(c, "course_id"), approved)
		if err != nil {
			return h.fail(c, "course approval", err)
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, message, updated)
	}
}

func (h *Handler) ApproveCourse() fiber.Handler {
	return h.approval(true, "Course approved successfully!")
}

func (h *Handler) DisapproveCourse() fiber.Handler {
	return h.approval(false, "Course disapproved successfully!")
}
