// Package records reshapes upstream tracker issues into the authority's
// domain records: mining licenses, transport permits, and complaints, plus
// officer account administration. The heavy lifting (authz, attribution)
// happens before these services run; they stay thin on purpose.
package records

import (
	"time"

	"permit-gateway/internal/tracker"
)

// Upstream tracker types and the status filter for pending permits. These
// mirror the fixed taxonomy configured in the tracker instance.
const (
	trackerIDLicense   = 1
	trackerIDPermit    = 2
	trackerIDComplaint = 3

	statusPending = "open"
)

// License is a mining license as presented to clients.
type License struct {
	ID        int64     `json:"id"`
	Subject   string    `json:"subject"`
	Status    string    `json:"status"`
	Holder    string    `json:"holder"`
	CreatedOn time.Time `json:"createdOn"`
	UpdatedOn time.Time `json:"updatedOn"`
}

// Permit is a transport permit application.
type Permit struct {
	ID        int64     `json:"id"`
	Subject   string    `json:"subject"`
	Status    string    `json:"status"`
	Applicant string    `json:"applicant"`
	CreatedOn time.Time `json:"createdOn"`
}

// NewPermit is a permit application submitted by a license owner.
type NewPermit struct {
	Subject     string `json:"subject"`
	Description string `json:"description"`
}

// Complaint is a field report filed by an officer.
type Complaint struct {
	ID          int64     `json:"id"`
	Subject     string    `json:"subject"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	ReportedBy  string    `json:"reportedBy"`
	CreatedOn   time.Time `json:"createdOn"`
}

// NewComplaint is a complaint as submitted by an officer.
type NewComplaint struct {
	Subject     string `json:"subject"`
	Description string `json:"description"`
}

// Officer is an account holding an officer role in the authority's project.
type Officer struct {
	ID    int64    `json:"id"`
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
}

// NewOfficer is the provisioning payload for an officer account.
type NewOfficer struct {
	Login    string `json:"login"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func licenseFromIssue(in tracker.Issue) License {
	return License{
		ID:        in.ID,
		Subject:   in.Subject,
		Status:    in.Status.Name,
		Holder:    in.AssignedTo.Name,
		CreatedOn: in.CreatedOn,
		UpdatedOn: in.UpdatedOn,
	}
}

func permitFromIssue(in tracker.Issue) Permit {
	return Permit{
		ID:        in.ID,
		Subject:   in.Subject,
		Status:    in.Status.Name,
		Applicant: in.Author.Name,
		CreatedOn: in.CreatedOn,
	}
}

func complaintFromIssue(in tracker.Issue) Complaint {
	return Complaint{
		ID:          in.ID,
		Subject:     in.Subject,
		Description: in.Description,
		Status:      in.Status.Name,
		ReportedBy:  in.Author.Name,
		CreatedOn:   in.CreatedOn,
	}
}
