package submissionController

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"agency/internal/events"
	. "agency/internal/models"
	"agency/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockLeadRepo struct {
	mock.Mock
}

func (m *mockLeadRepo) Create(ctx context.Context, lead *Lead) error {
	return m.Called(ctx, lead).Error(0)
}

func (m *mockLeadRepo) GetAll(ctx context.Context) ([]Lead, error) {
	args := m.Called(ctx)
	return args.Get(0).([]Lead), args.Error(1)
}

func (m *mockLeadRepo) GetByID(ctx context.Context, id string) (*Lead, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*Lead), args.Error(1)
}

func (m *mockLeadRepo) UpdateStatus(ctx context.Context, id string, status LeadStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockLeadRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockApplicantRepo struct {
	mock.Mock
}

func (m *mockApplicantRepo) Create(ctx context.Context, applicant *Applicant) error {
	return m.Called(ctx, applicant).Error(0)
}

func (m *mockApplicantRepo) GetAll(ctx context.Context) ([]Applicant, error) {
	args := m.Called(ctx)
	return args.Get(0).([]Applicant), args.Error(1)
}

func (m *mockApplicantRepo) GetByID(ctx context.Context, id string) (*Applicant, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*Applicant), args.Error(1)
}

func (m *mockApplicantRepo) UpdateStatus(ctx context.Context, id string, status ApplicantStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockApplicantRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockResumeStore struct {
	mock.Mock
}

func (m *mockResumeStore) Upload(ctx context.Context, name string, body io.Reader, opts services.UploadOptions) error {
	return m.Called(ctx, name, body, opts).Error(0)
}

type recordingTracker struct {
	kinds  []string
	values []int
}

func (r *recordingTracker) Conversion(kind, contentName string, value int) {
	r.kinds = append(r.kinds, kind)
	r.values = append(r.values, value)
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, events.Event) error { return nil }

type fixture struct {
	controller *SubmissionController
	leads      *mockLeadRepo
	applicants *mockApplicantRepo
	resumes    *mockResumeStore
	tracker    *recordingTracker
}

func newFixture() fixture {
	f := fixture{
		leads:      &mockLeadRepo{},
		applicants: &mockApplicantRepo{},
		resumes:    &mockResumeStore{},
		tracker:    &recordingTracker{},
	}
	f.controller = New(f.leads, f.applicants, f.resumes, f.tracker, nopPublisher{})
	f.controller.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return f
}

func validLeadForm() LeadForm {
	return LeadForm{
		Name:                  "Jane Doe",
		Email:                 "jane@example.com",
		Phone:                 "555-0100",
		Address:               "1 Main St",
		City:                  "Austin",
		State:                 "TX",
		ZipCode:               "78701",
		Gender:                "female",
		Height:                "5'6\"",
		Weight:                "140",
		SmokingStatus:         "never",
		Age:                   "34",
		Occupation:            "Engineer",
		MaritalStatus:         "single",
		DesiredCoverageAmount: "250000",
	}
}

func marriedLeadForm() LeadForm {
	form := validLeadForm()
	form.MaritalStatus = "married"
	form.SpouseName = "Sam Doe"
	form.SpouseEmail = "sam@example.com"
	form.SpousePhone = "555-0101"
	form.SpouseGender = "male"
	form.SpouseHeight = "6'0\""
	form.SpouseWeight = "180"
	form.SpouseSmokingStatus = "former"
	form.SpouseOccupation = "Teacher"
	form.SpouseAge = "36"
	return form
}

func TestSubmitLead_Valid(t *testing.T) {
	f := newFixture()
	f.leads.On("Create", mock.Anything, mock.AnythingOfType("*models.Lead")).Return(nil).Once()

	lead, err := f.controller.SubmitLead(context.Background(), validLeadForm())
	require.NoError(t, err)

	assert.Equal(t, LeadStatusNew, lead.Status)
	assert.Equal(t, 250000, lead.DesiredCoverageAmount)
	require.NotNil(t, lead.Age)
	assert.Equal(t, 34, *lead.Age)
	assert.Nil(t, lead.Birthdate)
	assert.Empty(t, lead.ID, "identity is assigned by storage, not the controller")
	assert.False(t, lead.Spouse.Present())

	assert.Equal(t, []string{services.ConversionLead}, f.tracker.kinds)
	assert.Equal(t, []int{250000}, f.tracker.values)
	f.leads.AssertExpectations(t)
}

func TestSubmitLead_BirthdateStoresNullAge(t *testing.T) {
	f := newFixture()
	f.leads.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	form := validLeadForm()
	form.Birthdate = "2000-01-01"
	form.Age = ""

	lead, err := f.controller.SubmitLead(context.Background(), form)
	require.NoError(t, err)

	assert.Nil(t, lead.Age)
	require.NotNil(t, lead.Birthdate)
	assert.Equal(t, "2000-01-01", *lead.Birthdate)

	displayed := lead.DisplayAge(time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC))
	require.NotNil(t, displayed)
	assert.Equal(t, 26, *displayed)
}

func TestSubmitLead_NormalizesBirthdate(t *testing.T) {
	f := newFixture()
	f.leads.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	form := validLeadForm()
	form.Birthdate = "07/04/1990"

	lead, err := f.controller.SubmitLead(context.Background(), form)
	require.NoError(t, err)
	assert.Equal(t, "1990-07-04", *lead.Birthdate)
}

func TestSubmitLead_BirthdateWinsOverAge(t *testing.T) {
	f := newFixture()
	f.leads.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	form := validLeadForm()
	form.Birthdate = "1990-06-15"
	form.Age = "99"

	lead, err := f.controller.SubmitLead(context.Background(), form)
	require.NoError(t, err)
	assert.Nil(t, lead.Age)
	assert.Equal(t, "1990-06-15", *lead.Birthdate)
}

func TestSubmitLead_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*LeadForm)
		field  string
	}{
		{name: "missing name", mutate: func(f *LeadForm) { f.Name = "" }, field: "name"},
		{name: "blank name", mutate: func(f *LeadForm) { f.Name = "   " }, field: "name"},
		{name: "bad email", mutate: func(f *LeadForm) { f.Email = "not-an-email" }, field: "email"},
		{name: "bad gender", mutate: func(f *LeadForm) { f.Gender = "unknown" }, field: "gender"},
		{name: "no age or birthdate", mutate: func(f *LeadForm) { f.Age = "" }, field: "age"},
		{name: "non numeric age", mutate: func(f *LeadForm) { f.Age = "thirty" }, field: "age"},
		{name: "bad birthdate", mutate: func(f *LeadForm) { f.Birthdate = "not-a-date" }, field: "birthdate"},
		{name: "coverage outside set", mutate: func(f *LeadForm) { f.DesiredCoverageAmount = "123" }, field: "desired_coverage_amount"},
		{name: "bad marital status", mutate: func(f *LeadForm) { f.MaritalStatus = "complicated" }, field: "marital_status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			form := validLeadForm()
			tt.mutate(&form)

			_, err := f.controller.SubmitLead(context.Background(), form)
			require.Error(t, err)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Contains(t, validationErr.Fields, tt.field)

			f.leads.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			assert.Empty(t, f.tracker.kinds)
		})
	}
}

func TestSubmitLead_MarriedSpouseRule(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*LeadForm)
		wantErr bool
	}{
		{name: "complete with age", mutate: func(*LeadForm) {}},
		{name: "complete with birthdate", mutate: func(f *LeadForm) {
			f.SpouseAge = ""
			f.SpouseBirthdate = "1988-03-02"
		}},
		{name: "missing age and birthdate", mutate: func(f *LeadForm) { f.SpouseAge = "" }, wantErr: true},
		{name: "missing spouse name", mutate: func(f *LeadForm) { f.SpouseName = "" }, wantErr: true},
		{name: "missing spouse occupation", mutate: func(f *LeadForm) { f.SpouseOccupation = "  " }, wantErr: true},
		{name: "missing spouse smoking status", mutate: func(f *LeadForm) { f.SpouseSmokingStatus = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.leads.On("Create", mock.Anything, mock.Anything).Return(nil).Maybe()

			form := marriedLeadForm()
			tt.mutate(&form)

			lead, err := f.controller.SubmitLead(context.Background(), form)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, SpouseIncompleteMessage, err.Error())
				f.leads.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}

			require.NoError(t, err)
			assert.True(t, lead.Spouse.Present())
			assert.Equal(t, "Sam Doe", *lead.SpouseName)
		})
	}
}

func TestSubmitLead_SpouseBirthdateNullsSpouseAge(t *testing.T) {
	f := newFixture()
	f.leads.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	form := marriedLeadForm()
	form.SpouseBirthdate = "1988-03-02"

	lead, err := f.controller.SubmitLead(context.Background(), form)
	require.NoError(t, err)
	assert.Nil(t, lead.SpouseAge)
	assert.Equal(t, "1988-03-02", *lead.SpouseBirthdate)
}

func TestSubmitLead_SpouseDroppedUnlessMarried(t *testing.T) {
	f := newFixture()
	f.leads.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	form := marriedLeadForm()
	form.MaritalStatus = "divorced"

	lead, err := f.controller.SubmitLead(context.Background(), form)
	require.NoError(t, err)
	assert.False(t, lead.Spouse.Present())
}

func TestSubmitLead_StaleSpouseInputIgnoredUnlessMarried(t *testing.T) {
	f := newFixture()
	f.leads.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	form := validLeadForm()
	form.MaritalStatus = "single"
	form.SpouseEmail = "not-an-email"
	form.SpouseGender = "unknown"
	form.SpouseSmokingStatus = "sometimes"
	form.SpouseBirthdate = "not-a-date"
	form.SpouseAge = "thirty"

	lead, err := f.controller.SubmitLead(context.Background(), form)
	require.NoError(t, err)
	assert.False(t, lead.Spouse.Present())
	f.leads.AssertExpectations(t)
}

func TestSubmitLead_StorageFailure(t *testing.T) {
	f := newFixture()
	f.leads.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection refused")).Once()

	_, err := f.controller.SubmitLead(context.Background(), validLeadForm())
	require.Error(t, err)
	assert.False(t, IsValidationError(err))
	assert.Contains(t, err.Error(), "connection refused")
	assert.Empty(t, f.tracker.kinds)
}

func validApplicationForm() ApplicationForm {
	return ApplicationForm{
		FullName:    "Alex  Q Agent",
		PhoneNumber: "555-0199",
		Email:       "alex@example.com",
		IsLicensed:  true,
	}
}

func TestSubmitApplication_WithResume(t *testing.T) {
	f := newFixture()
	body := strings.NewReader("%PDF")

	f.resumes.On("Upload", mock.Anything, "1700000000000_Alex_Q_Agent.pdf", body, services.UploadOptions{
		CacheControl: "3600",
		Upsert:       false,
	}).Return(nil).Once()
	f.applicants.On("Create", mock.Anything, mock.MatchedBy(func(a *Applicant) bool {
		return a.ResumeFilePath == "1700000000000_Alex_Q_Agent.pdf" && a.IsLicensed
	})).Return(nil).Once()

	applicant, err := f.controller.SubmitApplication(
		context.Background(),
		validApplicationForm(),
		&Resume{Filename: "resume.pdf", Body: body},
	)
	require.NoError(t, err)
	assert.Equal(t, ApplicantStatusNew, applicant.Status)
	assert.Equal(t, []string{services.ConversionApplication}, f.tracker.kinds)

	f.resumes.AssertExpectations(t)
	f.applicants.AssertExpectations(t)
}

func TestSubmitApplication_WithoutResume(t *testing.T) {
	f := newFixture()
	f.applicants.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	applicant, err := f.controller.SubmitApplication(context.Background(), validApplicationForm(), nil)
	require.NoError(t, err)
	assert.Empty(t, applicant.ResumeFilePath)
	f.resumes.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitApplication_UploadFailureCreatesNoRow(t *testing.T) {
	f := newFixture()
	f.resumes.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(services.ErrObjectExists).Once()

	_, err := f.controller.SubmitApplication(
		context.Background(),
		validApplicationForm(),
		&Resume{Filename: "resume.pdf", Body: strings.NewReader("x")},
	)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "failed to upload resume: "))
	assert.ErrorIs(t, err, services.ErrObjectExists)

	f.applicants.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Empty(t, f.tracker.kinds)
}

func TestSubmitApplication_Validation(t *testing.T) {
	f := newFixture()

	form := validApplicationForm()
	form.Email = ""

	_, err := f.controller.SubmitApplication(context.Background(), form, nil)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	f.applicants.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestResumeObjectName(t *testing.T) {
	now := time.UnixMilli(1700000000000)

	tests := []struct {
		name     string
		fullName string
		filename string
		want     string
	}{
		{name: "simple", fullName: "Jane Doe", filename: "cv.pdf", want: "1700000000000_Jane_Doe.pdf"},
		{name: "whitespace runs", fullName: "Jane \t Mary  Doe", filename: "cv.docx", want: "1700000000000_Jane_Mary_Doe.docx"},
		{name: "no extension", fullName: "Jane", filename: "resume", want: "1700000000000_Jane"},
		{name: "path separators", fullName: "A/B", filename: "x.pdf", want: "1700000000000_A_B.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResumeObjectName(now, tt.fullName, tt.filename))
		})
	}
}
