package controllers

import (
	"lms/logger"
	"lms/middleware"
	"lms/services/learning"
	"lms/services/users"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handler serves the course, enrollment, quiz and certificate endpoints.
type Handler struct {
	learning     *learning.Service
	users        *users.Store
	renderer     *utils.CertificateRenderer
	thumbnailDir string
	log          *logger.Logger
}

func NewHandler(svc *learning.Service, store *users.Store, renderer *utils.CertificateRenderer, thumbnailDir string, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{
		learning:     svc,
		users:        store,
		renderer:     renderer,
		thumbnailDir: thumbnailDir,
		log:          log.With("component", "CourseHandler"),
	}
}

func currentUser(c *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals("userId").(uuid.UUID)
	return id, ok && id != uuid.Nil
}

func currentActor(c *fiber.Ctx) (learning.Actor, bool) {
	id, ok := currentUser(c)
	if !ok {
		return learning.Actor{}, false
	}
	role, _ := c.Locals("role").(string)
	return learning.Actor{ID: id, Role: role}, true
}

func unauthorized(c *fiber.Ctx) error {
	return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
}

// fail logs unexpected errors and renders every error in the response envelope.
func (h *Handler) fail(c *fiber.Ctx, op string, err error) error {
	if middleware.StatusFor(err) == fiber.StatusInternalServerError {
		h.log.Error(op+" failed", "path", c.Path(), "error", err)
	}
	return middleware.ErrorResponse(c, err)
}

func paramID(c *fiber.Ctx, name string) uuid.UUID {
	id, _ := c.Locals(name).(uuid.UUID)
	return id
}
