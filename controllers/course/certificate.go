package controllers

import (
	"fmt"

	"lms/middleware"
	"lms/services/learning"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) CourseCertificate(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	data, err := h.learning.GenerateCertificateData(c.UserContext(), paramID(c, "course_id"), userID)
	if err != nil {
		return h.fail(c, "certificate data", err)
	}
	if c.Query("format") == "pdf" {
		return h.sendPDF(c, data)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate fetched successfully!", data)
}

// DownloadCertificate renders the certificate when a renderer is configured and falls back to
// the raw certificate data otherwise.
func (h *Handler) DownloadCertificate(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	certificateID, _ := c.Locals("certificate_id").(string)
	data, err := h.learning.CertificateByID(c.UserContext(), userID, certificateID)
	if err != nil {
		return h.fail(c, "certificate by id", err)
	}
	if h.renderer == nil || !h.renderer.Enabled() {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate fetched successfully!", data)
	}
	return h.sendPDF(c, data)
}

func (h *Handler) sendPDF(c *fiber.Ctx, data *learning.CertificateData) error {
	if h.renderer == nil || !h.renderer.Enabled() {
		return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "Certificate rendering is not configured!", nil)
	}
	pdf, err := h.renderer.Render(c.UserContext(), data)
	if err != nil {
		h.log.Error("certificate render failed", "certificate_id", data.CertificateID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to render certificate!", nil)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", data.CertificateID+".pdf"))
	return c.Status(fiber.StatusOK).Send(pdf)
}
