package handlers

import (
	"errors"
	"mime"
	"net/url"
	"path/filepath"

	"agency/internal/app"
	"agency/internal/logger"
	"agency/internal/services"

	"github.com/gofiber/fiber/v2"
)

type StorageHandler struct {
	Handler
	storage *services.StorageService
}

func NewStorageHandler(app app.App, router fiber.Router) *StorageHandler {
	log := logger.New("handlers").File("storage_handler")
	return &StorageHandler{
		storage: app.StorageService,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *StorageHandler) Register() {
	h.router.Get("/storage/"+services.ResumeBucket+"/:name", h.downloadResume)
}

// downloadResume serves a bucket object to whoever holds a valid signed token
// for it; no session is needed.
func (h *StorageHandler) downloadResume(c *fiber.Ctx) error {
	log := h.log.Function("downloadResume")

	name, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "invalid object name"})
	}

	if err := h.storage.VerifySignedToken(name, c.Query("token")); err != nil {
		return c.Status(fiber.StatusForbidden).
			JSON(fiber.Map{"message": err.Error()})
	}

	file, err := h.storage.Open(name)
	if errors.Is(err, services.ErrObjectNotFound) || errors.Is(err, services.ErrInvalidName) {
		return c.Status(fiber.StatusNotFound).
			JSON(fiber.Map{"message": "resume not found"})
	}
	if err != nil {
		log.Er("failed to open resume", err, "name", name)
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "failed to open resume"})
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		log.Er("failed to stat resume", err, "name", name)
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "failed to open resume"})
	}

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = fiber.MIMEOctetStream
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderCacheControl, "private, max-age=60")

	return c.SendStream(file, int(info.Size()))
}
