package tracker

import "time"

// Wire schemas for the upstream issue tracker. Fields are declared explicitly
// so shape drift upstream surfaces as a typed decode failure at the boundary
// instead of a silent zero value deeper in a handler.

// Account is an upstream user record. APIKey is only populated on the
// authenticated-account and admin lookups; it is sensitive and must never be
// logged or echoed.
type Account struct {
	ID     int64  `json:"id"`
	Login  string `json:"login"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	APIKey string `json:"api_key"`
}

// NewAccount is the payload for admin-lane account provisioning.
type NewAccount struct {
	Login    string `json:"login"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RoleRef is a role as reported on a project membership.
type RoleRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// AccountRef is the short account form embedded in memberships and issues.
type AccountRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Membership ties an account to its roles within a project.
type Membership struct {
	ID      int64      `json:"id"`
	Account AccountRef `json:"account"`
	Roles   []RoleRef  `json:"roles"`
}

// NamedRef is a generic {id,name} reference (status, tracker, project).
type NamedRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CustomField carries the tracker's free-form per-record attributes; the
// domain record shapes live on top of these.
type CustomField struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Issue is an upstream record: license, permit, or complaint depending on its
// tracker type.
type Issue struct {
	ID           int64         `json:"id"`
	Subject      string        `json:"subject"`
	Description  string        `json:"description"`
	Project      NamedRef      `json:"project"`
	Tracker      NamedRef      `json:"tracker"`
	Status       NamedRef      `json:"status"`
	Author       AccountRef    `json:"author"`
	AssignedTo   AccountRef    `json:"assigned_to"`
	CustomFields []CustomField `json:"custom_fields"`
	CreatedOn    time.Time     `json:"created_on"`
	UpdatedOn    time.Time     `json:"updated_on"`
}

// NewIssue is the payload for creating an upstream record.
type NewIssue struct {
	ProjectID    string        `json:"project_id"`
	TrackerID    int64         `json:"tracker_id"`
	Subject      string        `json:"subject"`
	Description  string        `json:"description,omitempty"`
	AssignedToID int64         `json:"assigned_to_id,omitempty"`
	CustomFields []CustomField `json:"custom_fields,omitempty"`
}

// IssueQuery narrows an issue listing.
type IssueQuery struct {
	ProjectID    string
	TrackerID    int64
	StatusID     string
	AssignedToID int64
}

type accountEnvelope struct {
	Account *Account `json:"account"`
}

type accountsEnvelope struct {
	Accounts []Account `json:"accounts"`
}

type membershipsEnvelope struct {
	Memberships []Membership `json:"memberships"`
}

type issueEnvelope struct {
	Issue *Issue `json:"issue"`
}

type issuesEnvelope struct {
	Issues []Issue `json:"issues"`
}
