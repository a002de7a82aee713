package handlers

import (
	"errors"

	"agency/internal/app"
	submissionController "agency/internal/controllers/submission"
	"agency/internal/logger"
	. "agency/internal/models"

	"github.com/gofiber/fiber/v2"
)

type SubmissionHandler struct {
	Handler
	controller *submissionController.SubmissionController
}

func NewSubmissionHandler(app app.App, router fiber.Router) *SubmissionHandler {
	log := logger.New("handlers").File("submission_handler")
	return &SubmissionHandler{
		controller: app.SubmissionController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *SubmissionHandler) Register() {
	h.router.Post("/leads", h.submitLead)
	h.router.Post("/applications", h.submitApplication)
}

func submissionError(c *fiber.Ctx, err error) error {
	var validationErr *submissionController.ValidationError
	if errors.As(err, &validationErr) {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": validationErr.Message, "fields": validationErr.Fields})
	}
	return c.Status(fiber.StatusInternalServerError).
		JSON(fiber.Map{"message": err.Error()})
}

func (h *SubmissionHandler) submitLead(c *fiber.Ctx) error {
	log := h.log.Function("submitLead")

	var form LeadForm
	if err := c.BodyParser(&form); err != nil {
		log.Er("failed to parse lead form", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse lead form"})
	}

	lead, err := h.controller.SubmitLead(c.Context(), form)
	if err != nil {
		return submissionError(c, err)
	}

	return c.Status(fiber.StatusCreated).
		JSON(fiber.Map{"message": "success", "id": lead.ID})
}

func (h *SubmissionHandler) submitApplication(c *fiber.Ctx) error {
	log := h.log.Function("submitApplication")

	var form ApplicationForm
	if err := c.BodyParser(&form); err != nil {
		log.Er("failed to parse application form", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse application form"})
	}

	var resume *submissionController.Resume
	if header, err := c.FormFile("resume"); err == nil {
		file, err := header.Open()
		if err != nil {
			log.Er("failed to open resume upload", err, "filename", header.Filename)
			return c.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"message": "failed to read resume"})
		}
		defer file.Close()
		resume = &submissionController.Resume{Filename: header.Filename, Body: file}
	}

	applicant, err := h.controller.SubmitApplication(c.Context(), form, resume)
	if err != nil {
		return submissionError(c, err)
	}

	return c.Status(fiber.StatusCreated).
		JSON(fiber.Map{"message": "success", "id": applicant.ID})
}
