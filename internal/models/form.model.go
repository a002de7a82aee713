package models

// LeadForm is the quote request exactly as the public form posts it: every value a
// string, numeric fields parsed only after validation.
type LeadForm struct {
	Name          string `json:"name"           form:"name"           validate:"required"`
	Email         string `json:"email"          form:"email"          validate:"required,email"`
	Phone         string `json:"phone"          form:"phone"          validate:"required"`
	Address       string `json:"address"        form:"address"        validate:"required"`
	City          string `json:"city"           form:"city"           validate:"required"`
	State         string `json:"state"          form:"state"          validate:"required"`
	ZipCode       string `json:"zip_code"       form:"zip_code"       validate:"required"`
	Gender        string `json:"gender"         form:"gender"         validate:"required,oneof=male female other"`
	Height        string `json:"height"         form:"height"         validate:"required"`
	Weight        string `json:"weight"         form:"weight"         validate:"required"`
	SmokingStatus string `json:"smoking_status" form:"smoking_status" validate:"required,oneof=never former current"`
	MedicalIssues string `json:"medical_issues" form:"medical_issues"`
	Medications   string `json:"medications"    form:"medications"`
	Birthdate     string `json:"birthdate"      form:"birthdate"      validate:"omitempty,datetime=2006-01-02"`
	Age           string `json:"age"            form:"age"            validate:"required_without=Birthdate,omitempty,number"`
	Occupation    string `json:"occupation"     form:"occupation"     validate:"required"`
	MaritalStatus string `json:"marital_status" form:"marital_status" validate:"required,oneof=single married divorced widowed"`

	SpouseName          string `json:"spouse_name"           form:"spouse_name"`
	SpouseEmail         string `json:"spouse_email"          form:"spouse_email"          validate:"omitempty,email"`
	SpousePhone         string `json:"spouse_phone"          form:"spouse_phone"`
	SpouseGender        string `json:"spouse_gender"         form:"spouse_gender"         validate:"omitempty,oneof=male female other"`
	SpouseHeight        string `json:"spouse_height"         form:"spouse_height"`
	SpouseWeight        string `json:"spouse_weight"         form:"spouse_weight"`
	SpouseSmokingStatus string `json:"spouse_smoking_status" form:"spouse_smoking_status" validate:"omitempty,oneof=never former current"`
	SpouseMedicalIssues string `json:"spouse_medical_issues" form:"spouse_medical_issues"`
	SpouseMedications   string `json:"spouse_medications"    form:"spouse_medications"`
	SpouseBirthdate     string `json:"spouse_birthdate"      form:"spouse_birthdate"      validate:"omitempty,datetime=2006-01-02"`
	SpouseAge           string `json:"spouse_age"            form:"spouse_age"            validate:"omitempty,number"`
	SpouseOccupation    string `json:"spouse_occupation"     form:"spouse_occupation"`

	DesiredCoverageAmount string `json:"desired_coverage_amount" form:"desired_coverage_amount" validate:"required,oneof=50000 100000 250000 500000 750000 1000000"`
}

type ApplicationForm struct {
	FullName    string `json:"full_name"    form:"full_name"    validate:"required"`
	PhoneNumber string `json:"phone_number" form:"phone_number" validate:"required"`
	Email       string `json:"email"        form:"email"        validate:"required,email"`
	IsLicensed  bool   `json:"is_licensed"  form:"is_licensed"`
}

type StatusUpdateRequest struct {
	Status string `json:"status"`
}

type DeleteRequest struct {
	Confirm bool `json:"confirm"`
}

type NavigateRequest struct {
	Section string `json:"section"`
}
