package models

import "time"

var CoverageAmounts = []int{50000, 100000, 250000, 500000, 750000, 1000000}

func ValidCoverageAmount(amount int) bool {
	for _, allowed := range CoverageAmounts {
		if amount == allowed {
			return true
		}
	}
	return false
}

const MaritalStatusMarried = "married"

type Lead struct {
	BaseUUIDModel
	Name          string  `gorm:"type:varchar(255);not null" json:"name"`
	Email         string  `gorm:"type:varchar(255);not null" json:"email"`
	Phone         string  `gorm:"type:varchar(64);not null"  json:"phone"`
	Address       string  `gorm:"type:varchar(255)"          json:"address"`
	City          string  `gorm:"type:varchar(255)"          json:"city"`
	State         string  `gorm:"type:varchar(64)"           json:"state"`
	ZipCode       string  `gorm:"type:varchar(32)"           json:"zip_code"`
	Gender        string  `gorm:"type:varchar(16)"           json:"gender"`
	Height        string  `gorm:"type:varchar(32)"           json:"height"`
	Weight        string  `gorm:"type:varchar(32)"           json:"weight"`
	SmokingStatus string  `gorm:"type:varchar(16)"           json:"smoking_status"`
	MedicalIssues string  `gorm:"type:text"                  json:"medical_issues"`
	Medications   string  `gorm:"type:text"                  json:"medications"`
	Birthdate     *string `gorm:"type:varchar(10)"           json:"birthdate"`
	Age           *int    `gorm:"type:int"                   json:"age"`
	Occupation    string  `gorm:"type:varchar(255)"          json:"occupation"`
	MaritalStatus string  `gorm:"type:varchar(16)"           json:"marital_status"`
	Spouse
	DesiredCoverageAmount int        `gorm:"not null"                            json:"desired_coverage_amount"`
	Status                LeadStatus `gorm:"type:varchar(16);not null;default:new" json:"status"`
	Notes                 string     `gorm:"type:text"                           json:"notes"`
}

func (Lead) TableName() string {
	return "clients"
}

// Spouse mirrors the applicant's demographic block. Every field is nil unless the
// lead was submitted as married.
type Spouse struct {
	SpouseName          *string `gorm:"type:varchar(255)" json:"spouse_name"`
	SpouseEmail         *string `gorm:"type:varchar(255)" json:"spouse_email"`
	SpousePhone         *string `gorm:"type:varchar(64)"  json:"spouse_phone"`
	SpouseGender        *string `gorm:"type:varchar(16)"  json:"spouse_gender"`
	SpouseHeight        *string `gorm:"type:varchar(32)"  json:"spouse_height"`
	SpouseWeight        *string `gorm:"type:varchar(32)"  json:"spouse_weight"`
	SpouseSmokingStatus *string `gorm:"type:varchar(16)"  json:"spouse_smoking_status"`
	SpouseMedicalIssues *string `gorm:"type:text"         json:"spouse_medical_issues"`
	SpouseMedications   *string `gorm:"type:text"         json:"spouse_medications"`
	SpouseBirthdate     *string `gorm:"type:varchar(10)"  json:"spouse_birthdate"`
	SpouseAge           *int    `gorm:"type:int"          json:"spouse_age"`
	SpouseOccupation    *string `gorm:"type:varchar(255)" json:"spouse_occupation"`
}

func (s Spouse) Present() bool {
	for _, field := range []*string{
		s.SpouseName, s.SpouseEmail, s.SpousePhone, s.SpouseGender,
		s.SpouseHeight, s.SpouseWeight, s.SpouseSmokingStatus,
		s.SpouseMedicalIssues, s.SpouseMedications, s.SpouseBirthdate,
		s.SpouseOccupation,
	} {
		if field != nil && *field != "" {
			return true
		}
	}
	return s.SpouseAge != nil
}

// DisplayAge is the age shown to admins: derived from the birthdate when one was
// stored, otherwise the age typed into the form.
func (l Lead) DisplayAge(now time.Time) *int {
	return displayAge(l.Birthdate, l.Age, now)
}

func (s Spouse) DisplaySpouseAge(now time.Time) *int {
	return displayAge(s.SpouseBirthdate, s.SpouseAge, now)
}

func displayAge(birthdate *string, age *int, now time.Time) *int {
	if birthdate != nil && *birthdate != "" {
		dob, err := time.Parse(DateLayout, *birthdate)
		if err == nil {
			years := AgeOn(dob, now)
			return &years
		}
	}
	return age
}

const DateLayout = "2006-01-02"

// AgeOn counts whole years between dob and now; the birthday itself counts.
func AgeOn(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	return years
}

type LeadDetail struct {
	Lead
	DisplayAge       *int `json:"display_age"`
	HasSpouse        bool `json:"has_spouse"`
	SpouseDisplayAge *int `json:"spouse_display_age,omitempty"`
}

func NewLeadDetail(lead Lead, now time.Time) LeadDetail {
	detail := LeadDetail{
		Lead:       lead,
		DisplayAge: lead.DisplayAge(now),
		HasSpouse:  lead.Spouse.Present(),
	}
	if detail.HasSpouse {
		detail.SpouseDisplayAge = lead.DisplaySpouseAge(now)
	}
	return detail
}
