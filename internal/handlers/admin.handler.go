package handlers

import (
	"errors"
	"fmt"

	"agency/internal/app"
	adminController "agency/internal/controllers/admin"
	"agency/internal/logger"
	. "agency/internal/models"
	"agency/internal/repositories"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Handler
	controller *adminController.AdminController
}

func NewAdminHandler(app app.App, router fiber.Router) *AdminHandler {
	log := logger.New("handlers").File("admin_handler")
	return &AdminHandler{
		controller: app.AdminController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AdminHandler) Register() {
	admin := h.router.Group("/admin")
	protected := h.middleware.RequireAdmin

	admin.Get("/dashboard", protected, h.getDashboard)

	admin.Get("/leads", protected, h.getLeads)
	admin.Get("/leads/:id", protected, h.getLead)
	admin.Patch("/leads/:id/status", protected, h.updateLeadStatus)
	admin.Delete("/leads/:id", protected, h.deleteLead)

	admin.Get("/applicants", protected, h.getApplicants)
	admin.Get("/applicants/:id", protected, h.getApplicant)
	admin.Patch("/applicants/:id/status", protected, h.updateApplicantStatus)
	admin.Delete("/applicants/:id", protected, h.deleteApplicant)
	admin.Get("/applicants/:id/resume", protected, h.getResumeURL)

	admin.Get("/export/:tab", protected, h.export)
}

func filterFromQuery(c *fiber.Ctx) adminController.Filter {
	return adminController.Filter{
		Search: c.Query("search"),
		Status: c.Query("status", StatusAll),
	}
}

func (h *AdminHandler) getDashboard(c *fiber.Ctx) error {
	snapshot := h.controller.Fetch(c.Context())
	return c.JSON(fiber.Map{
		"message":    "success",
		"stats":      snapshot.Stats(),
		"leads":      snapshot.Leads,
		"applicants": snapshot.Applicants,
	})
}

func (h *AdminHandler) getLeads(c *fiber.Ctx) error {
	snapshot := h.controller.Fetch(c.Context())
	return c.JSON(fiber.Map{
		"message": "success",
		"leads":   adminController.FilterLeads(snapshot.Leads, filterFromQuery(c)),
	})
}

func (h *AdminHandler) getApplicants(c *fiber.Ctx) error {
	snapshot := h.controller.Fetch(c.Context())
	return c.JSON(fiber.Map{
		"message":    "success",
		"applicants": adminController.FilterApplicants(snapshot.Applicants, filterFromQuery(c)),
	})
}

func (h *AdminHandler) getLead(c *fiber.Ctx) error {
	log := h.log.Function("getLead")

	detail, err := h.controller.LeadDetail(c.Context(), c.Params("id"))
	if errors.Is(err, repositories.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).
			JSON(fiber.Map{"message": "lead not found"})
	}
	if err != nil {
		log.Er("failed to get lead", err, "leadID", c.Params("id"))
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "failed to get lead"})
	}

	return c.JSON(fiber.Map{"message": "success", "lead": detail})
}

func (h *AdminHandler) getApplicant(c *fiber.Ctx) error {
	log := h.log.Function("getApplicant")

	applicant, err := h.controller.ApplicantDetail(c.Context(), c.Params("id"))
	if errors.Is(err, repositories.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).
			JSON(fiber.Map{"message": "applicant not found"})
	}
	if err != nil {
		log.Er("failed to get applicant", err, "applicantID", c.Params("id"))
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "failed to get applicant"})
	}

	return c.JSON(fiber.Map{"message": "success", "applicant": applicant})
}

// mutationResponse maps the shared errors of status updates and deletes onto
// HTTP and returns the refreshed dashboard otherwise.
func mutationResponse(c *fiber.Ctx, snapshot adminController.Snapshot, err error, failure string) error {
	switch {
	case err == nil:
		return c.JSON(fiber.Map{
			"message":    "success",
			"stats":      snapshot.Stats(),
			"leads":      snapshot.Leads,
			"applicants": snapshot.Applicants,
		})
	case errors.Is(err, adminController.ErrInvalidStatus):
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, adminController.ErrNotConfirmed):
		return c.Status(fiber.StatusConflict).
			JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, repositories.ErrNotFound):
		return c.Status(fiber.StatusNotFound).
			JSON(fiber.Map{"message": failure + ": " + err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": failure + ": " + err.Error()})
	}
}

func (h *AdminHandler) updateLeadStatus(c *fiber.Ctx) error {
	var request StatusUpdateRequest
	if err := c.BodyParser(&request); err != nil {
		h.log.Function("updateLeadStatus").Er("failed to parse status request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse status request"})
	}

	snapshot, err := h.controller.UpdateLeadStatus(c.Context(), c.Params("id"), request.Status)
	return mutationResponse(c, snapshot, err, "Error updating client status")
}

func (h *AdminHandler) updateApplicantStatus(c *fiber.Ctx) error {
	var request StatusUpdateRequest
	if err := c.BodyParser(&request); err != nil {
		h.log.Function("updateApplicantStatus").Er("failed to parse status request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse status request"})
	}

	snapshot, err := h.controller.UpdateApplicantStatus(c.Context(), c.Params("id"), request.Status)
	return mutationResponse(c, snapshot, err, "Error updating applicant status")
}

func deleteRequest(c *fiber.Ctx) (DeleteRequest, error) {
	var request DeleteRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&request); err != nil {
			return request, err
		}
	}
	if c.QueryBool("confirm") {
		request.Confirm = true
	}
	return request, nil
}

func (h *AdminHandler) deleteLead(c *fiber.Ctx) error {
	request, err := deleteRequest(c)
	if err != nil {
		h.log.Function("deleteLead").Er("failed to parse delete request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse delete request"})
	}

	snapshot, err := h.controller.DeleteLead(c.Context(), c.Params("id"), request.Confirm)
	return mutationResponse(c, snapshot, err, "Error deleting client")
}

func (h *AdminHandler) deleteApplicant(c *fiber.Ctx) error {
	request, err := deleteRequest(c)
	if err != nil {
		h.log.Function("deleteApplicant").Er("failed to parse delete request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse delete request"})
	}

	snapshot, err := h.controller.DeleteApplicant(c.Context(), c.Params("id"), request.Confirm)
	return mutationResponse(c, snapshot, err, "Error deleting applicant")
}

func (h *AdminHandler) getResumeURL(c *fiber.Ctx) error {
	url, err := h.controller.ResumeURL(c.Context(), c.Params("id"))
	switch {
	case err == nil:
		return c.JSON(fiber.Map{"message": "success", "url": url})
	case errors.Is(err, repositories.ErrNotFound), errors.Is(err, adminController.ErrNoResume):
		return c.Status(fiber.StatusNotFound).
			JSON(fiber.Map{"message": err.Error()})
	default:
		return c.Status(fiber.StatusBadGateway).
			JSON(fiber.Map{"message": adminController.ErrResumeUnavailable.Error()})
	}
}

func (h *AdminHandler) export(c *fiber.Ctx) error {
	log := h.log.Function("export")

	tab := c.Params("tab")
	export, err := h.controller.Export(c.Context(), tab, filterFromQuery(c), c.Query("format"))
	switch {
	case errors.Is(err, adminController.ErrUnknownTab), errors.Is(err, adminController.ErrUnknownFormat):
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": err.Error()})
	case err != nil:
		log.Er("failed to export", err, "tab", tab)
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "failed to export"})
	}

	c.Set(fiber.HeaderContentType, export.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, export.Filename))
	return c.Send(export.Body)
}
