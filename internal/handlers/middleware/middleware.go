package middleware

import (
	"context"
	"fmt"
	"strings"
	"time"

	"agency/config"
	"agency/internal/logger"
	. "agency/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	SessionCookie = "session"
	VisitorCookie = "visitor_session"

	LocalSession       = "session"
	LocalAuthenticated = "authenticated"
	LocalVisitor       = "visitorSession"
)

type SessionChecker interface {
	Check(ctx context.Context, token string) (Session, bool)
}

type Middleware struct {
	auth   SessionChecker
	config config.Config
	log    logger.Logger
}

func New(auth SessionChecker, config config.Config) Middleware {
	return Middleware{
		auth:   auth,
		config: config,
		log:    logger.New("middleware"),
	}
}

// SessionToken reads the admin token from the session cookie, falling back to
// an Authorization bearer header.
func SessionToken(c *fiber.Ctx) string {
	if token := c.Cookies(SessionCookie); token != "" {
		return token
	}
	header := c.Get(fiber.HeaderAuthorization)
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// RequireAdmin rejects callers without a live admin session.
func (m Middleware) RequireAdmin(c *fiber.Ctx) error {
	session, ok := m.auth.Check(c.Context(), SessionToken(c))
	if !ok {
		m.log.Function("RequireAdmin").Debug("rejected unauthenticated request", "path", c.Path())
		return c.Status(fiber.StatusUnauthorized).
			JSON(fiber.Map{"message": "unauthorized"})
	}

	c.Locals(LocalSession, session)
	c.Locals(LocalAuthenticated, true)
	return c.Next()
}

// OptionalAdmin records whether the caller is signed in without rejecting
// anyone.
func (m Middleware) OptionalAdmin(c *fiber.Ctx) error {
	session, ok := m.auth.Check(c.Context(), SessionToken(c))
	if ok {
		c.Locals(LocalSession, session)
	}
	c.Locals(LocalAuthenticated, ok)
	return c.Next()
}

// VisitorSession gives every browser a stable id for the life of its session
// cookie, used to dedupe visit logging.
func (m Middleware) VisitorSession(c *fiber.Ctx) error {
	id := c.Cookies(VisitorCookie)
	if id == "" {
		id = NewVisitorID(time.Now())
		c.Cookie(&fiber.Cookie{
			Name:     VisitorCookie,
			Value:    id,
			Path:     "/",
			HTTPOnly: true,
			Secure:   m.config.Environment == "production",
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}

	c.Locals(LocalVisitor, id)
	return c.Next()
}

// NewVisitorID is "<unix-millis>-<9 random hex chars>".
func NewVisitorID(now time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%d-%s", now.UnixMilli(), random[:9])
}

func (m Middleware) SetSessionCookie(c *fiber.Ctx, token string, ttl time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		Secure:   m.config.Environment == "production",
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (m Middleware) ClearSessionCookie(c *fiber.Ctx) {
	c.ClearCookie(SessionCookie)
}

func Authenticated(c *fiber.Ctx) bool {
	ok, _ := c.Locals(LocalAuthenticated).(bool)
	return ok
}

func CurrentSession(c *fiber.Ctx) (Session, bool) {
	session, ok := c.Locals(LocalSession).(Session)
	return session, ok
}

func VisitorID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalVisitor).(string)
	return id
}
