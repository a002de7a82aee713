package handlers

import (
	"errors"
	"time"

	"agency/internal/app"
	authController "agency/internal/controllers/auth"
	"agency/internal/handlers/middleware"
	"agency/internal/logger"
	. "agency/internal/models"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	Handler
	controller *authController.AuthController
	sessionTTL time.Duration
}

func NewUserHandler(app app.App, router fiber.Router) *UserHandler {
	log := logger.New("handlers").File("user_handler")
	return &UserHandler{
		controller: app.AuthController,
		sessionTTL: time.Duration(app.Config.SessionTTLHours) * time.Hour,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *UserHandler) Register() {
	h.router.Post("/admin/login", h.login)
	h.router.Post("/admin/logout", h.middleware.RequireAdmin, h.logout)
	h.router.Get("/admin/session", h.middleware.OptionalAdmin, h.getSession)
}

func (h *UserHandler) getSession(c *fiber.Ctx) error {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		return c.JSON(fiber.Map{"message": "success", "authenticated": false})
	}

	return c.JSON(fiber.Map{
		"message":       "success",
		"authenticated": true,
		"user":          fiber.Map{"id": session.UserID, "email": session.Email, "role": session.Role},
	})
}

func (h *UserHandler) logout(c *fiber.Ctx) error {
	log := h.log.Function("logout")

	session, _ := middleware.CurrentSession(c)
	if err := h.controller.Logout(c.Context(), session); err != nil {
		log.Er("failed to sign out", err, "userID", session.UserID)
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "failed to sign out"})
	}

	h.middleware.ClearSessionCookie(c)
	return c.JSON(fiber.Map{"message": "success", "view": "home"})
}

func (h *UserHandler) login(c *fiber.Ctx) error {
	log := h.log.Function("login")

	var loginRequest LoginRequest
	if err := c.BodyParser(&loginRequest); err != nil {
		log.Er("failed to parse login request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse login request"})
	}

	session, err := h.controller.Login(c.Context(), loginRequest.Email, loginRequest.Password)
	if errors.Is(err, authController.ErrInvalidCredentials) {
		return c.Status(fiber.StatusUnauthorized).
			JSON(fiber.Map{"message": err.Error()})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "failed to sign in"})
	}

	h.middleware.SetSessionCookie(c, session.Token, h.sessionTTL)
	return c.JSON(fiber.Map{
		"message": "success",
		"token":   session.Token,
		"user":    fiber.Map{"id": session.UserID, "email": session.Email, "role": session.Role},
		"view":    "admin_dashboard",
	})
}
