package adminController

import (
	"context"
	"errors"
	"strings"
	"time"

	"agency/internal/events"
	"agency/internal/logger"
	. "agency/internal/models"
	"agency/internal/repositories"
	"agency/internal/utils"

	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidStatus     = errors.New("invalid status")
	ErrNotConfirmed      = errors.New("deletion was not confirmed")
	ErrNoResume          = errors.New("applicant has no resume on file")
	ErrResumeUnavailable = errors.New("Unable to load resume. Please try again.")
	ErrUnknownTab        = errors.New("unknown export tab")
	ErrUnknownFormat     = errors.New("unknown export format")
)

const (
	TabClients    = "clients"
	TabApplicants = "applicants"

	ResumeURLTTL = 60 * time.Second
)

type ResumeSigner interface {
	CreateSignedURL(name string, ttl time.Duration) (string, error)
}

// Snapshot is one full read of the dashboard. A failed query leaves its part
// empty rather than failing the whole read.
type Snapshot struct {
	Leads      []Lead      `json:"leads"`
	Applicants []Applicant `json:"applicants"`
	Visits     VisitTotals `json:"visits"`
}

type Stats struct {
	TotalLeads         int         `json:"total_leads"`
	NewLeads           int         `json:"new_leads"`
	TotalApplicants    int         `json:"total_applicants"`
	LicensedApplicants int         `json:"licensed_applicants"`
	Visits             VisitTotals `json:"visits"`
}

func (s Snapshot) Stats() Stats {
	stats := Stats{
		TotalLeads:      len(s.Leads),
		TotalApplicants: len(s.Applicants),
		Visits:          s.Visits,
	}
	for _, lead := range s.Leads {
		if lead.Status == LeadStatusNew {
			stats.NewLeads++
		}
	}
	for _, applicant := range s.Applicants {
		if applicant.IsLicensed {
			stats.LicensedApplicants++
		}
	}
	return stats
}

type Filter struct {
	Search string
	Status string
}

func (f Filter) matches(name, email, status string) bool {
	if f.Status != "" && f.Status != StatusAll && f.Status != status {
		return false
	}
	term := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(name), term) ||
		strings.Contains(strings.ToLower(email), term)
}

func FilterLeads(leads []Lead, filter Filter) []Lead {
	filtered := []Lead{}
	for _, lead := range leads {
		if filter.matches(lead.Name, lead.Email, string(lead.Status)) {
			filtered = append(filtered, lead)
		}
	}
	return filtered
}

func FilterApplicants(applicants []Applicant, filter Filter) []Applicant {
	filtered := []Applicant{}
	for _, applicant := range applicants {
		if filter.matches(applicant.FullName, applicant.Email, string(applicant.Status)) {
			filtered = append(filtered, applicant)
		}
	}
	return filtered
}

type AdminController struct {
	leadRepo      repositories.LeadRepository
	applicantRepo repositories.ApplicantRepository
	visitRepo     repositories.VisitRepository
	resumes       ResumeSigner
	eventBus      events.Publisher
	log           logger.Logger
	now           func() time.Time
}

func New(
	leadRepo repositories.LeadRepository,
	applicantRepo repositories.ApplicantRepository,
	visitRepo repositories.VisitRepository,
	resumes ResumeSigner,
	eventBus events.Publisher,
) *AdminController {
	return &AdminController{
		leadRepo:      leadRepo,
		applicantRepo: applicantRepo,
		visitRepo:     visitRepo,
		resumes:       resumes,
		eventBus:      eventBus,
		log:           logger.New("AdminController"),
		now:           time.Now,
	}
}

// Fetch runs the four dashboard reads in parallel.
func (ac *AdminController) Fetch(ctx context.Context) Snapshot {
	log := ac.log.Function("Fetch")

	snapshot := Snapshot{Leads: []Lead{}, Applicants: []Applicant{}}
	now := ac.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var g errgroup.Group
	g.Go(func() error {
		leads, err := ac.leadRepo.GetAll(ctx)
		if err != nil {
			return err
		}
		snapshot.Leads = leads
		return nil
	})
	g.Go(func() error {
		applicants, err := ac.applicantRepo.GetAll(ctx)
		if err != nil {
			return err
		}
		snapshot.Applicants = applicants
		return nil
	})
	g.Go(func() error {
		total, err := ac.visitRepo.CountAll(ctx)
		if err != nil {
			return err
		}
		snapshot.Visits.Total = total
		return nil
	})
	g.Go(func() error {
		today, err := ac.visitRepo.CountSince(ctx, midnight)
		if err != nil {
			return err
		}
		snapshot.Visits.Today = today
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Warn("dashboard loaded with missing data", "error", err)
	}

	return snapshot
}

func (ac *AdminController) LeadDetail(ctx context.Context, id string) (LeadDetail, error) {
	lead, err := ac.leadRepo.GetByID(ctx, id)
	if err != nil {
		return LeadDetail{}, err
	}
	return NewLeadDetail(*lead, ac.now()), nil
}

func (ac *AdminController) ApplicantDetail(ctx context.Context, id string) (*Applicant, error) {
	return ac.applicantRepo.GetByID(ctx, id)
}

func (ac *AdminController) UpdateLeadStatus(ctx context.Context, id string, status string) (Snapshot, error) {
	log := ac.log.Function("UpdateLeadStatus")

	if !LeadStatus(status).Valid() {
		return Snapshot{}, ErrInvalidStatus
	}
	if err := ac.leadRepo.UpdateStatus(ctx, id, LeadStatus(status)); err != nil {
		return Snapshot{}, log.Err("failed to update lead status", err, "leadID", id, "status", status)
	}

	ac.broadcast("lead", "updated", id)
	return ac.Fetch(ctx), nil
}

func (ac *AdminController) UpdateApplicantStatus(ctx context.Context, id string, status string) (Snapshot, error) {
	log := ac.log.Function("UpdateApplicantStatus")

	if !ApplicantStatus(status).Valid() {
		return Snapshot{}, ErrInvalidStatus
	}
	if err := ac.applicantRepo.UpdateStatus(ctx, id, ApplicantStatus(status)); err != nil {
		return Snapshot{}, log.Err("failed to update applicant status", err, "applicantID", id, "status", status)
	}

	ac.broadcast("applicant", "updated", id)
	return ac.Fetch(ctx), nil
}

// DeleteLead permanently removes a lead. Nothing is touched unless the admin
// confirmed the deletion.
func (ac *AdminController) DeleteLead(ctx context.Context, id string, confirmed bool) (Snapshot, error) {
	if !confirmed {
		return Snapshot{}, ErrNotConfirmed
	}
	if err := ac.leadRepo.Delete(ctx, id); err != nil {
		return Snapshot{}, ac.log.Function("DeleteLead").Err("failed to delete lead", err, "leadID", id)
	}

	ac.broadcast("lead", "deleted", id)
	return ac.Fetch(ctx), nil
}

func (ac *AdminController) DeleteApplicant(ctx context.Context, id string, confirmed bool) (Snapshot, error) {
	if !confirmed {
		return Snapshot{}, ErrNotConfirmed
	}
	if err := ac.applicantRepo.Delete(ctx, id); err != nil {
		return Snapshot{}, ac.log.Function("DeleteApplicant").Err("failed to delete applicant", err, "applicantID", id)
	}

	ac.broadcast("applicant", "deleted", id)
	return ac.Fetch(ctx), nil
}

// ResumeURL returns a link the admin can open. Stored http(s) references are
// passed through; anything else is a bucket object and gets a signed URL.
func (ac *AdminController) ResumeURL(ctx context.Context, id string) (string, error) {
	log := ac.log.Function("ResumeURL")

	applicant, err := ac.applicantRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	path := applicant.ResumeFilePath
	if path == "" {
		return "", ErrNoResume
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path, nil
	}

	url, err := ac.resumes.CreateSignedURL(path, ResumeURLTTL)
	if err != nil {
		log.Er("failed to sign resume url", err, "applicantID", id)
		return "", ErrResumeUnavailable
	}

	return url, nil
}

type Export struct {
	Filename    string
	ContentType string
	Body        []byte
}

// Export renders the filtered rows of one dashboard tab.
func (ac *AdminController) Export(ctx context.Context, tab string, filter Filter, format string) (Export, error) {
	log := ac.log.Function("Export")

	var records any
	switch tab {
	case TabClients:
		leads, err := ac.leadRepo.GetAll(ctx)
		if err != nil {
			return Export{}, log.Err("failed to load leads for export", err)
		}
		records = FilterLeads(leads, filter)
	case TabApplicants:
		applicants, err := ac.applicantRepo.GetAll(ctx)
		if err != nil {
			return Export{}, log.Err("failed to load applicants for export", err)
		}
		records = FilterApplicants(applicants, filter)
	default:
		return Export{}, ErrUnknownTab
	}

	if format == "" {
		format = utils.ExportFormatCSV
	}

	export := Export{Filename: utils.ExportFilename(tab, ac.now(), format)}
	switch format {
	case utils.ExportFormatCSV:
		body, err := utils.ExportCSV(records)
		if err != nil {
			return Export{}, log.Err("failed to build csv", err, "tab", tab)
		}
		export.ContentType = "text/csv"
		export.Body = []byte(body)
	case utils.ExportFormatXLSX:
		body, err := utils.ExportXLSX(tab, records)
		if err != nil {
			return Export{}, log.Err("failed to build spreadsheet", err, "tab", tab)
		}
		export.ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		export.Body = body
	default:
		return Export{}, ErrUnknownFormat
	}

	return export, nil
}

func (ac *AdminController) broadcast(recordType, action, id string) {
	if ac.eventBus == nil {
		return
	}

	event := events.NewEvent(events.ChannelAdmin, recordType, action, map[string]any{"id": id})
	if err := ac.eventBus.Publish(events.ChannelAdmin, event); err != nil {
		ac.log.Function("broadcast").Er("failed to publish event", err, "type", recordType, "action", action)
	}
}
