package authController

import (
	"context"
	"errors"
	"strings"
	"time"

	"agency/internal/events"
	"agency/internal/logger"
	. "agency/internal/models"
	"agency/internal/repositories"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrUnauthorized       = errors.New("not signed in")
)

const (
	ActionSignedIn  = "signed_in"
	ActionSignedOut = "signed_out"
)

// AuthController is the admin session gate: a single sign-in attempt either
// produces a session or an error, and sign-out ends it.
type AuthController struct {
	userRepo    repositories.UserRepository
	sessionRepo repositories.SessionRepository
	eventBus    events.Publisher
	sessionTTL  time.Duration
	log         logger.Logger
}

func New(
	userRepo repositories.UserRepository,
	sessionRepo repositories.SessionRepository,
	eventBus events.Publisher,
	sessionTTL time.Duration,
) *AuthController {
	return &AuthController{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		eventBus:    eventBus,
		sessionTTL:  sessionTTL,
		log:         logger.New("AuthController"),
	}
}

func (ac *AuthController) Login(ctx context.Context, email, password string) (Session, error) {
	log := ac.log.Function("Login")

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return Session{}, ErrInvalidCredentials
	}

	user, err := ac.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		log.Warn("login for unknown email", "email", email)
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, log.Err("failed to look up user", err, "email", email)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Warn("login with wrong password", "email", email)
		return Session{}, ErrInvalidCredentials
	}

	session := Session{
		Token:  uuid.NewString(),
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}

	if err := ac.sessionRepo.Save(ctx, session, ac.sessionTTL); err != nil {
		return Session{}, log.Err("failed to save session", err, "userID", user.ID)
	}

	ac.publish(ActionSignedIn, session)
	log.Info("Admin signed in", "userID", user.ID)

	return session, nil
}

// Check resolves a session token. An unknown or expired token is not an error,
// just an unauthenticated caller.
func (ac *AuthController) Check(ctx context.Context, token string) (Session, bool) {
	if token == "" {
		return Session{}, false
	}

	session, found, err := ac.sessionRepo.Get(ctx, token)
	if err != nil {
		ac.log.Function("Check").Warn("session lookup failed", "error", err)
		return Session{}, false
	}

	return session, found
}

func (ac *AuthController) Logout(ctx context.Context, session Session) error {
	log := ac.log.Function("Logout")

	if err := ac.sessionRepo.Delete(ctx, session.Token); err != nil {
		return log.Err("failed to end session", err, "userID", session.UserID)
	}

	ac.publish(ActionSignedOut, session)
	log.Info("Admin signed out", "userID", session.UserID)

	return nil
}

func (ac *AuthController) publish(action string, session Session) {
	if ac.eventBus == nil {
		return
	}

	event := events.NewEvent(events.ChannelAuth, "session", action, map[string]any{
		"token": session.Token,
	})
	event.UserID = session.UserID

	if err := ac.eventBus.Publish(events.ChannelAuth, event); err != nil {
		ac.log.Function("publish").Warn("failed to publish auth change", "action", action, "error", err)
	}
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
