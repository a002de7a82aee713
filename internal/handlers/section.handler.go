package handlers

import (
	"errors"

	"agency/internal/app"
	sectionController "agency/internal/controllers/section"
	"agency/internal/handlers/middleware"
	"agency/internal/logger"
	. "agency/internal/models"

	"github.com/gofiber/fiber/v2"
)

type SectionHandler struct {
	Handler
	controller *sectionController.SectionController
}

func NewSectionHandler(app app.App, router fiber.Router) *SectionHandler {
	log := logger.New("handlers").File("section_handler")
	return &SectionHandler{
		controller: app.SectionController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *SectionHandler) Register() {
	h.router.Get("/sections/resolve", h.middleware.VisitorSession, h.middleware.OptionalAdmin, h.resolve)
	h.router.Post("/navigate", h.middleware.VisitorSession, h.middleware.OptionalAdmin, h.navigate)
}

func visitInfo(c *fiber.Ctx) sectionController.VisitInfo {
	return sectionController.VisitInfo{
		SessionID: middleware.VisitorID(c),
		Referrer:  c.Get(fiber.HeaderReferer),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	}
}

func (h *SectionHandler) resolve(c *fiber.Ctx) error {
	path := c.Query("path", "/")

	route := h.controller.HandleRouteChange(
		c.Context(),
		path,
		middleware.Authenticated(c),
		visitInfo(c),
	)

	return c.JSON(fiber.Map{"message": "success", "route": route})
}

func (h *SectionHandler) navigate(c *fiber.Ctx) error {
	log := h.log.Function("navigate")

	var request NavigateRequest
	if err := c.BodyParser(&request); err != nil {
		log.Er("failed to parse navigate request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse navigate request"})
	}

	route, err := h.controller.Navigate(
		c.Context(),
		request.Section,
		middleware.Authenticated(c),
		visitInfo(c),
	)
	if errors.Is(err, sectionController.ErrUnknownSection) {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "unknown section", "section": request.Section})
	}
	if err != nil {
		log.Er("failed to navigate", err, "section", request.Section)
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "failed to navigate"})
	}

	return c.JSON(fiber.Map{"message": "success", "route": route})
}
