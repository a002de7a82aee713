package app

import (
	"context"
	"time"

	"agency/config"
	"agency/internal/database"
	"agency/internal/events"
	"agency/internal/handlers/middleware"
	"agency/internal/logger"
	"agency/internal/repositories"
	"agency/internal/services"
	"agency/internal/websockets"

	adminController "agency/internal/controllers/admin"
	authController "agency/internal/controllers/auth"
	sectionController "agency/internal/controllers/section"
	submissionController "agency/internal/controllers/submission"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	Websocket  *websockets.Manager
	EventBus   *events.EventBus
	Config     config.Config

	// Services
	TransactionService *services.TransactionService
	StorageService     *services.StorageService
	TrackingService    *services.TrackingService

	// Repositories
	LeadRepo      repositories.LeadRepository
	ApplicantRepo repositories.ApplicantRepository
	VisitRepo     repositories.VisitRepository
	VisitFlagRepo repositories.VisitFlagRepository
	UserRepo      repositories.UserRepository
	SessionRepo   repositories.SessionRepository

	// Controllers
	SubmissionController *submissionController.SubmissionController
	AuthController       *authController.AuthController
	AdminController      *adminController.AdminController
	SectionController    *sectionController.SectionController

	cancel context.CancelFunc
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.InitConfig()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	if _, err := db.Migrate(database.Dialect(config.DatabaseDriver), database.MigrateUp); err != nil {
		_ = db.Close()
		return &App{}, log.Err("failed to migrate database", err)
	}

	eventBus := events.New(db.Cache.Events, config)

	// Initialize services
	transactionService := services.NewTransactionService(db)
	storageService := services.NewStorageService(
		config.StorageResumeDir,
		config.StoragePublicURL,
		config.SecuritySigningSecret,
	)
	trackingService := services.NewTrackingService(eventBus, config.PixelID)

	// Initialize repositories
	leadRepo := repositories.NewLead(db)
	applicantRepo := repositories.NewApplicant(db)
	visitRepo := repositories.NewVisit(db)
	visitFlagRepo := repositories.NewVisitFlag(db)
	userRepo := repositories.NewUser(db)
	sessionRepo := repositories.NewSession(db)

	// Initialize controllers with repositories and services
	sessionTTL := time.Duration(config.SessionTTLHours) * time.Hour
	authController := authController.New(userRepo, sessionRepo, eventBus, sessionTTL)
	submissionController := submissionController.New(
		leadRepo,
		applicantRepo,
		storageService,
		trackingService,
		eventBus,
	)
	adminController := adminController.New(leadRepo, applicantRepo, visitRepo, storageService, eventBus)
	sectionController := sectionController.New(visitRepo, visitFlagRepo, trackingService)

	middleware := middleware.New(authController, config)

	websocket := websockets.New(eventBus)
	ctx, cancel := context.WithCancel(context.Background())
	if err := websocket.Start(ctx); err != nil {
		cancel()
		_ = db.Close()
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	app := &App{
		Database:             db,
		Config:               config,
		Middleware:           middleware,
		TransactionService:   transactionService,
		StorageService:       storageService,
		TrackingService:      trackingService,
		LeadRepo:             leadRepo,
		ApplicantRepo:        applicantRepo,
		VisitRepo:            visitRepo,
		VisitFlagRepo:        visitFlagRepo,
		UserRepo:             userRepo,
		SessionRepo:          sessionRepo,
		SubmissionController: submissionController,
		AuthController:       authController,
		AdminController:      adminController,
		SectionController:    sectionController,
		Websocket:            websocket,
		EventBus:             eventBus,
		cancel:               cancel,
	}

	if err := app.validate(); err != nil {
		_ = app.Close()
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.Websocket,
		a.EventBus,
		a.TransactionService,
		a.StorageService,
		a.TrackingService,
		a.LeadRepo,
		a.ApplicantRepo,
		a.VisitRepo,
		a.VisitFlagRepo,
		a.UserRepo,
		a.SessionRepo,
		a.SubmissionController,
		a.AuthController,
		a.AdminController,
		a.SectionController,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.cancel != nil {
		a.cancel()
	}

	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
