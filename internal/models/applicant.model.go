package models

type Applicant struct {
	BaseUUIDModel
	FullName       string          `gorm:"type:varchar(255);not null"              json:"full_name"`
	PhoneNumber    string          `gorm:"type:varchar(64);not null"               json:"phone_number"`
	Email          string          `gorm:"type:varchar(255);not null"              json:"email"`
	ResumeFilePath string          `gorm:"type:varchar(512)"                       json:"resume_file_path"`
	IsLicensed     bool            `gorm:"not null;default:false"                  json:"is_licensed"`
	Status         ApplicantStatus `gorm:"type:varchar(16);not null;default:new"   json:"status"`
	Notes          string          `gorm:"type:text"                               json:"notes"`
}

func (Applicant) TableName() string {
	return "job_applicants"
}
