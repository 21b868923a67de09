package records

import (
	"context"
	"log/slog"
	"strings"

	"permit-gateway/internal/auth/models"
	"permit-gateway/internal/tracker"
	dErrors "permit-gateway/pkg/domain-errors"
)

// Caller is the authenticated session a record operation runs as.
// UpstreamKey is populated when the session token carried a sealed key
// (refresh-issued access tokens); it lets the operation skip the upstream
// key lookup for the duration of that token.
type Caller struct {
	ID          int64
	UpstreamKey string
}

// KeyResolver maps an authenticated account to its upstream API key so
// reads and writes are attributed to the caller, not the gateway.
type KeyResolver interface {
	Resolve(ctx context.Context, subjectID int64) (string, error)
}

// IssueBrowser is the per-user slice of the tracker client.
type IssueBrowser interface {
	ListIssues(ctx context.Context, q tracker.IssueQuery) ([]tracker.Issue, error)
	CreateIssue(ctx context.Context, in tracker.NewIssue) (*tracker.Issue, error)
}

// AdminDirectory is the administrative slice used for officer management.
type AdminDirectory interface {
	ProjectMemberships(ctx context.Context, project string) ([]tracker.Membership, error)
	CreateAccount(ctx context.Context, in tracker.NewAccount) (*tracker.Account, error)
}

// LaneFactory opens a user-credentialed tracker lane for an API key.
type LaneFactory func(apiKey string) IssueBrowser

type Service struct {
	resolver KeyResolver
	lanes    LaneFactory
	admin    AdminDirectory
	project  string
	logger   *slog.Logger
}

func New(resolver KeyResolver, lanes LaneFactory, admin AdminDirectory, project string, logger *slog.Logger) *Service {
	return &Service{
		resolver: resolver,
		lanes:    lanes,
		admin:    admin,
		project:  project,
		logger:   logger,
	}
}

// laneFor opens the caller's own upstream lane. Every record operation goes
// through here so nothing is ever read or written with gateway credentials
// on a user's behalf. A key carried by the session token is used as-is;
// otherwise the resolver fetches the current key over the admin lane.
func (s *Service) laneFor(ctx context.Context, caller Caller) (IssueBrowser, error) {
	if caller.UpstreamKey != "" {
		return s.lanes(caller.UpstreamKey), nil
	}
	key, err := s.resolver.Resolve(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	return s.lanes(key), nil
}

// OwnLicenses lists the licenses held by the calling account.
func (s *Service) OwnLicenses(ctx context.Context, caller Caller) ([]License, error) {
	lane, err := s.laneFor(ctx, caller)
	if err != nil {
		return nil, err
	}

	issues, err := lane.ListIssues(ctx, tracker.IssueQuery{
		ProjectID:    s.project,
		TrackerID:    trackerIDLicense,
		AssignedToID: caller.ID,
	})
	if err != nil {
		return nil, err
	}

	out := make([]License, 0, len(issues))
	for _, issue := range issues {
		out = append(out, licenseFromIssue(issue))
	}
	return out, nil
}

// AllLicenses lists every license visible to the calling account.
func (s *Service) AllLicenses(ctx context.Context, caller Caller) ([]License, error) {
	lane, err := s.laneFor(ctx, caller)
	if err != nil {
		return nil, err
	}

	issues, err := lane.ListIssues(ctx, tracker.IssueQuery{
		ProjectID: s.project,
		TrackerID: trackerIDLicense,
	})
	if err != nil {
		return nil, err
	}

	out := make([]License, 0, len(issues))
	for _, issue := range issues {
		out = append(out, licenseFromIssue(issue))
	}
	return out, nil
}

// FileComplaint records a complaint under the calling officer's identity.
func (s *Service) FileComplaint(ctx context.Context, caller Caller, in NewComplaint) (*Complaint, error) {
	if strings.TrimSpace(in.Subject) == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "subject is required")
	}

	lane, err := s.laneFor(ctx, caller)
	if err != nil {
		return nil, err
	}

	issue, err := lane.CreateIssue(ctx, tracker.NewIssue{
		ProjectID:   s.project,
		TrackerID:   trackerIDComplaint,
		Subject:     in.Subject,
		Description: in.Description,
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "complaint filed",
		slog.Int64("complaint_id", issue.ID),
		slog.Int64("account_id", caller.ID),
	)
	complaint := complaintFromIssue(*issue)
	return &complaint, nil
}

// Complaints lists complaints visible to the calling account.
func (s *Service) Complaints(ctx context.Context, caller Caller) ([]Complaint, error) {
	lane, err := s.laneFor(ctx, caller)
	if err != nil {
		return nil, err
	}

	issues, err := lane.ListIssues(ctx, tracker.IssueQuery{
		ProjectID: s.project,
		TrackerID: trackerIDComplaint,
	})
	if err != nil {
		return nil, err
	}

	out := make([]Complaint, 0, len(issues))
	for _, issue := range issues {
		out = append(out, complaintFromIssue(issue))
	}
	return out, nil
}

// ApplyPermit submits a transport permit application for the calling owner.
func (s *Service) ApplyPermit(ctx context.Context, caller Caller, in NewPermit) (*Permit, error) {
	if strings.TrimSpace(in.Subject) == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "subject is required")
	}

	lane, err := s.laneFor(ctx, caller)
	if err != nil {
		return nil, err
	}

	issue, err := lane.CreateIssue(ctx, tracker.NewIssue{
		ProjectID:   s.project,
		TrackerID:   trackerIDPermit,
		Subject:     in.Subject,
		Description: in.Description,
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "permit application submitted",
		slog.Int64("permit_id", issue.ID),
		slog.Int64("account_id", caller.ID),
	)
	permit := permitFromIssue(*issue)
	return &permit, nil
}

// PendingPermits lists permit applications awaiting review.
func (s *Service) PendingPermits(ctx context.Context, caller Caller) ([]Permit, error) {
	lane, err := s.laneFor(ctx, caller)
	if err != nil {
		return nil, err
	}

	issues, err := lane.ListIssues(ctx, tracker.IssueQuery{
		ProjectID: s.project,
		TrackerID: trackerIDPermit,
		StatusID:  statusPending,
	})
	if err != nil {
		return nil, err
	}

	out := make([]Permit, 0, len(issues))
	for _, issue := range issues {
		out = append(out, permitFromIssue(issue))
	}
	return out, nil
}

// officerRoles is the subset of project roles that count as officers.
var officerRoles = map[string]struct{}{
	string(models.RoleFieldOfficer): {},
	string(models.RoleLawOfficer):   {},
	string(models.RoleEngineer):     {},
}

// Officers lists accounts holding an officer role in the authority's
// project. This is the one read that runs on the admin lane: memberships are
// not visible to regular accounts.
func (s *Service) Officers(ctx context.Context) ([]Officer, error) {
	memberships, err := s.admin.ProjectMemberships(ctx, s.project)
	if err != nil {
		return nil, err
	}

	out := make([]Officer, 0, len(memberships))
	for _, m := range memberships {
		var roles []string
		for _, role := range m.Roles {
			if _, ok := officerRoles[role.Name]; ok {
				roles = append(roles, role.Name)
			}
		}
		if len(roles) == 0 {
			continue
		}
		out = append(out, Officer{ID: m.Account.ID, Name: m.Account.Name, Roles: roles})
	}
	return out, nil
}

// ProvisionOfficer creates an upstream account for a new officer. Role
// assignment happens in the tracker afterwards; the account alone grants no
// access here.
func (s *Service) ProvisionOfficer(ctx context.Context, in NewOfficer) (*Officer, error) {
	if in.Login == "" || in.Email == "" || in.Password == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "login, email and password are required")
	}

	account, err := s.admin.CreateAccount(ctx, tracker.NewAccount{
		Login:    in.Login,
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "officer account provisioned",
		slog.Int64("account_id", account.ID),
		slog.String("login", account.Login),
	)
	return &Officer{ID: account.ID, Name: account.Name}, nil
}
