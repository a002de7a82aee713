package sectionController

import (
	"context"
	"errors"

	"agency/internal/logger"
	. "agency/internal/models"
	"agency/internal/repositories"
)

type Section string

const (
	SectionHome    Section = "home"
	SectionQuote   Section = "quote"
	SectionLearn   Section = "learn"
	SectionCareers Section = "careers"
	SectionAdmin   Section = "admin"
)

const (
	ViewAdminDashboard = "admin_dashboard"
	ViewAdminLogin     = "admin_login"
)

var ErrUnknownSection = errors.New("unknown section")

var sectionsByPath = map[string]Section{
	"/":        SectionHome,
	"/quote":   SectionQuote,
	"/learn":   SectionLearn,
	"/careers": SectionCareers,
	"/admin":   SectionAdmin,
}

// Resolve maps a URL path onto a section. Anything unrecognised is home.
func Resolve(path string) Section {
	if section, ok := sectionsByPath[path]; ok {
		return section
	}
	return SectionHome
}

func ParseSection(name string) (Section, bool) {
	switch section := Section(name); section {
	case SectionHome, SectionQuote, SectionLearn, SectionCareers, SectionAdmin:
		return section, true
	}
	return "", false
}

func PathFor(section Section) string {
	if section == SectionHome {
		return "/"
	}
	return "/" + string(section)
}

// View is what gets rendered for a section. Admin splits on whether the caller
// is signed in; every other section renders as itself.
func View(section Section, authenticated bool) string {
	if section != SectionAdmin {
		return string(section)
	}
	if authenticated {
		return ViewAdminDashboard
	}
	return ViewAdminLogin
}

type VisitInfo struct {
	SessionID string
	Referrer  string
	UserAgent string
}

type RouteResult struct {
	Section   Section `json:"section"`
	View      string  `json:"view"`
	Path      string  `json:"path"`
	PushState bool    `json:"pushState"`
}

type PageTracker interface {
	PageView(path string)
}

type SectionController struct {
	visitRepo     repositories.VisitRepository
	visitFlagRepo repositories.VisitFlagRepository
	tracker       PageTracker
	log           logger.Logger
}

func New(
	visitRepo repositories.VisitRepository,
	visitFlagRepo repositories.VisitFlagRepository,
	tracker PageTracker,
) *SectionController {
	return &SectionController{
		visitRepo:     visitRepo,
		visitFlagRepo: visitFlagRepo,
		tracker:       tracker,
		log:           logger.New("SectionController"),
	}
}

// HandleRouteChange handles a first load or a back/forward move to path. The
// visit is logged against the path as requested, not the resolved section.
func (sc *SectionController) HandleRouteChange(
	ctx context.Context,
	path string,
	authenticated bool,
	visit VisitInfo,
) RouteResult {
	section := Resolve(path)

	sc.LogVisit(ctx, path, visit)
	sc.pageView(path)

	return RouteResult{
		Section: section,
		View:    View(section, authenticated),
		Path:    path,
	}
}

// Navigate is an in-app move to a named section; the caller pushes the returned
// path onto history.
func (sc *SectionController) Navigate(
	ctx context.Context,
	name string,
	authenticated bool,
	visit VisitInfo,
) (RouteResult, error) {
	section, ok := ParseSection(name)
	if !ok {
		return RouteResult{}, ErrUnknownSection
	}

	path := PathFor(section)
	sc.LogVisit(ctx, path, visit)
	sc.pageView(path)

	return RouteResult{
		Section:   section,
		View:      View(section, authenticated),
		Path:      path,
		PushState: true,
	}, nil
}

// LogVisit records at most one visit per session and path. The path is claimed
// before the insert and released again when the insert fails, so a failed
// visit is retried on the next route change. Failures are logged and dropped.
func (sc *SectionController) LogVisit(ctx context.Context, path string, visit VisitInfo) {
	log := sc.log.Function("LogVisit")

	if visit.SessionID == "" {
		log.Warn("visit without session id", "path", path)
		return
	}

	claimed, err := sc.visitFlagRepo.Claim(ctx, visit.SessionID, path)
	if err != nil {
		log.Warn("visit log failed", "path", path, "error", err)
		if claimed {
			sc.release(ctx, visit.SessionID, path)
		}
		return
	}
	if !claimed {
		return
	}

	record := &Visit{
		Path:      path,
		Referrer:  optional(visit.Referrer),
		UserAgent: optional(visit.UserAgent),
		SessionID: visit.SessionID,
	}
	if err := sc.visitRepo.Create(ctx, record); err != nil {
		log.Warn("visit log failed", "path", path, "error", err)
		sc.release(ctx, visit.SessionID, path)
	}
}

func (sc *SectionController) release(ctx context.Context, sessionID, path string) {
	if err := sc.visitFlagRepo.Release(ctx, sessionID, path); err != nil {
		sc.log.Function("release").Warn("failed to release visit flag", "path", path, "error", err)
	}
}

func (sc *SectionController) pageView(path string) {
	if sc.tracker != nil {
		sc.tracker.PageView(path)
	}
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
