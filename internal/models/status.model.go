package models

type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusClosed    LeadStatus = "closed"
	LeadStatusRejected  LeadStatus = "rejected"
)

var LeadStatuses = []LeadStatus{
	LeadStatusNew,
	LeadStatusContacted,
	LeadStatusQualified,
	LeadStatusClosed,
	LeadStatusRejected,
}

func (s LeadStatus) Valid() bool {
	for _, status := range LeadStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type ApplicantStatus string

const (
	ApplicantStatusNew       ApplicantStatus = "new"
	ApplicantStatusReviewing ApplicantStatus = "reviewing"
	ApplicantStatusInterview ApplicantStatus = "interview"
	ApplicantStatusHired     ApplicantStatus = "hired"
	ApplicantStatusRejected  ApplicantStatus = "rejected"
)

var ApplicantStatuses = []ApplicantStatus{
	ApplicantStatusNew,
	ApplicantStatusReviewing,
	ApplicantStatusInterview,
	ApplicantStatusHired,
	ApplicantStatusRejected,
}

func (s ApplicantStatus) Valid() bool {
	for _, status := range ApplicantStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// StatusAll is the dashboard filter value that matches every status.
const StatusAll = "all"
