package submissionController

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"agency/internal/events"
	"agency/internal/logger"
	. "agency/internal/models"
	"agency/internal/repositories"
	"agency/internal/services"
	"agency/internal/utils"

	"github.com/go-playground/validator/v10"
)

type ResumeStore interface {
	Upload(ctx context.Context, name string, body io.Reader, opts services.UploadOptions) error
}

type Tracker interface {
	Conversion(kind, contentName string, value int)
}

// Resume is an optional file attached to a job application.
type Resume struct {
	Filename string
	Body     io.Reader
}

type SubmissionController struct {
	leadRepo      repositories.LeadRepository
	applicantRepo repositories.ApplicantRepository
	resumes       ResumeStore
	tracker       Tracker
	eventBus      events.Publisher
	validate      *validator.Validate
	log           logger.Logger
	now           func() time.Time
}

func New(
	leadRepo repositories.LeadRepository,
	applicantRepo repositories.ApplicantRepository,
	resumes ResumeStore,
	tracker Tracker,
	eventBus events.Publisher,
) *SubmissionController {
	return &SubmissionController{
		leadRepo:      leadRepo,
		applicantRepo: applicantRepo,
		resumes:       resumes,
		tracker:       tracker,
		eventBus:      eventBus,
		validate:      newValidator(),
		log:           logger.New("SubmissionController"),
		now:           time.Now,
	}
}

func (sc *SubmissionController) SubmitLead(ctx context.Context, form LeadForm) (*Lead, error) {
	log := sc.log.Function("SubmitLead")

	trimStrings(&form)
	if form.MaritalStatus != MaritalStatusMarried {
		clearSpouse(&form)
	}
	form.Birthdate = utils.NormalizeDate(form.Birthdate)
	form.SpouseBirthdate = utils.NormalizeDate(form.SpouseBirthdate)
	if err := validateForm(sc.validate, form); err != nil {
		return nil, err
	}

	lead, err := buildLead(form)
	if err != nil {
		return nil, err
	}

	if err := sc.leadRepo.Create(ctx, lead); err != nil {
		return nil, log.Err("failed to submit lead", err, "email", lead.Email)
	}

	log.Info("Lead submitted", "leadID", lead.ID)
	sc.notify("lead", lead.ID)
	if sc.tracker != nil {
		sc.tracker.Conversion(services.ConversionLead, "Insurance Quote Form Submission", lead.DesiredCoverageAmount)
	}

	return lead, nil
}

func buildLead(form LeadForm) (*Lead, error) {
	coverage, err := strconv.Atoi(form.DesiredCoverageAmount)
	if err != nil || !ValidCoverageAmount(coverage) {
		return nil, &ValidationError{
			Message: "desired_coverage_amount must be one of the offered amounts",
			Fields:  map[string]string{"desired_coverage_amount": "is invalid"},
		}
	}

	lead := &Lead{
		Name:                  form.Name,
		Email:                 form.Email,
		Phone:                 form.Phone,
		Address:               form.Address,
		City:                  form.City,
		State:                 form.State,
		ZipCode:               form.ZipCode,
		Gender:                form.Gender,
		Height:                form.Height,
		Weight:                form.Weight,
		SmokingStatus:         form.SmokingStatus,
		MedicalIssues:         form.MedicalIssues,
		Medications:           form.Medications,
		Occupation:            form.Occupation,
		MaritalStatus:         form.MaritalStatus,
		DesiredCoverageAmount: coverage,
		Status:                LeadStatusNew,
	}

	lead.Birthdate, lead.Age, err = birthdateOrAge(form.Birthdate, form.Age)
	if err != nil {
		return nil, &ValidationError{Message: "age must be a whole number", Fields: map[string]string{"age": "is invalid"}}
	}

	if form.MaritalStatus == MaritalStatusMarried {
		spouse, err := buildSpouse(form)
		if err != nil {
			return nil, err
		}
		lead.Spouse = spouse
	}

	return lead, nil
}

// birthdateOrAge keeps exactly one of the two: a supplied birthdate wins and the
// age is left null so it is always derived when displayed.
func birthdateOrAge(birthdate, age string) (*string, *int, error) {
	if birthdate != "" {
		return &birthdate, nil, nil
	}
	if age == "" {
		return nil, nil, nil
	}
	years, err := strconv.Atoi(age)
	if err != nil {
		return nil, nil, err
	}
	return nil, &years, nil
}

// clearSpouse drops spouse input from a form that is not married, so stale
// values are neither validated nor stored.
func clearSpouse(form *LeadForm) {
	form.SpouseName = ""
	form.SpouseEmail = ""
	form.SpousePhone = ""
	form.SpouseGender = ""
	form.SpouseHeight = ""
	form.SpouseWeight = ""
	form.SpouseSmokingStatus = ""
	form.SpouseMedicalIssues = ""
	form.SpouseMedications = ""
	form.SpouseBirthdate = ""
	form.SpouseAge = ""
	form.SpouseOccupation = ""
}

func buildSpouse(form LeadForm) (Spouse, error) {
	required := map[string]string{
		"spouse_name":           form.SpouseName,
		"spouse_email":          form.SpouseEmail,
		"spouse_phone":          form.SpousePhone,
		"spouse_gender":         form.SpouseGender,
		"spouse_height":         form.SpouseHeight,
		"spouse_weight":         form.SpouseWeight,
		"spouse_smoking_status": form.SpouseSmokingStatus,
		"spouse_occupation":     form.SpouseOccupation,
	}

	missing := map[string]string{}
	for field, value := range required {
		if value == "" {
			missing[field] = "is required"
		}
	}
	if form.SpouseAge == "" && form.SpouseBirthdate == "" {
		missing["spouse_age"] = "is required"
	}
	if len(missing) > 0 {
		return Spouse{}, &ValidationError{Message: SpouseIncompleteMessage, Fields: missing}
	}

	birthdate, age, err := birthdateOrAge(form.SpouseBirthdate, form.SpouseAge)
	if err != nil {
		return Spouse{}, &ValidationError{
			Message: "spouse_age must be a whole number",
			Fields:  map[string]string{"spouse_age": "is invalid"},
		}
	}

	return Spouse{
		SpouseName:          &form.SpouseName,
		SpouseEmail:         &form.SpouseEmail,
		SpousePhone:         &form.SpousePhone,
		SpouseGender:        &form.SpouseGender,
		SpouseHeight:        &form.SpouseHeight,
		SpouseWeight:        &form.SpouseWeight,
		SpouseSmokingStatus: &form.SpouseSmokingStatus,
		SpouseMedicalIssues: &form.SpouseMedicalIssues,
		SpouseMedications:   &form.SpouseMedications,
		SpouseBirthdate:     birthdate,
		SpouseAge:           age,
		SpouseOccupation:    &form.SpouseOccupation,
	}, nil
}

func (sc *SubmissionController) SubmitApplication(
	ctx context.Context,
	form ApplicationForm,
	resume *Resume,
) (*Applicant, error) {
	log := sc.log.Function("SubmitApplication")

	trimStrings(&form)
	if err := validateForm(sc.validate, form); err != nil {
		return nil, err
	}

	applicant := &Applicant{
		FullName:    form.FullName,
		PhoneNumber: form.PhoneNumber,
		Email:       form.Email,
		IsLicensed:  form.IsLicensed,
		Status:      ApplicantStatusNew,
	}

	if resume != nil && resume.Body != nil {
		name := ResumeObjectName(sc.now(), form.FullName, resume.Filename)
		err := sc.resumes.Upload(ctx, name, resume.Body, services.UploadOptions{
			CacheControl: "3600",
			Upsert:       false,
		})
		if err != nil {
			return nil, log.Err("failed to upload resume", err, "name", name)
		}
		applicant.ResumeFilePath = name
	}

	if err := sc.applicantRepo.Create(ctx, applicant); err != nil {
		return nil, log.Err("failed to submit application", err, "email", applicant.Email)
	}

	log.Info("Application submitted", "applicantID", applicant.ID)
	sc.notify("applicant", applicant.ID)
	if sc.tracker != nil {
		sc.tracker.Conversion(services.ConversionApplication, "Job Application Form Submission", 0)
	}

	return applicant, nil
}

// ResumeObjectName builds the stored file name: upload time in unix millis, the
// applicant's name with whitespace runs collapsed to underscores, and the
// original extension.
func ResumeObjectName(now time.Time, fullName, filename string) string {
	safeName := strings.Join(strings.Fields(fullName), "_")
	safeName = strings.NewReplacer("/", "_", "\\", "_").Replace(safeName)
	return fmt.Sprintf("%d_%s%s", now.UnixMilli(), safeName, filepath.Ext(filename))
}

func (sc *SubmissionController) notify(recordType, id string) {
	if sc.eventBus == nil {
		return
	}
	event := events.NewEvent(events.ChannelAdmin, recordType, "created", map[string]any{"id": id})
	if err := sc.eventBus.Publish(events.ChannelAdmin, event); err != nil {
		sc.log.Function("notify").Warn("failed to notify dashboards", "type", recordType, "error", err)
	}
}
