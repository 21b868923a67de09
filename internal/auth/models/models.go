package models

// Role is the authorization role carried in session tokens and checked by the
// route gates. The named constants below are the roles routes may declare;
// the value itself is whatever role name the upstream membership reports, so
// an upstream role outside this set authenticates but matches no gate.
type Role string

const (
	RoleOwner        Role = "Owner"
	RoleFieldOfficer Role = "FieldOfficer"
	RoleLawOfficer   Role = "LawOfficer"
	RoleEngineer     Role = "Engineer"
	RoleManagement   Role = "Management"
	RoleDirector     Role = "Director"
	RolePublic       Role = "Public"
)

var knownRoles = map[Role]bool{
	RoleOwner:        true,
	RoleFieldOfficer: true,
	RoleLawOfficer:   true,
	RoleEngineer:     true,
	RoleManagement:   true,
	RoleDirector:     true,
	RolePublic:       true,
}

// IsKnown reports whether the role is one of the enumerated gateway roles.
func (r Role) IsKnown() bool { return knownRoles[r] }

func (r Role) String() string { return string(r) }

// Identity is an authenticated caller. It is constructed at credential
// exchange or token decode time and never persisted by this service; the
// upstream tracker is the system of record.
type Identity struct {
	ID    int64
	Login string
	Name  string
	Role  Role
}

// LoginResult is what the credential exchange hands back to the transport.
type LoginResult struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Role         string `json:"role"`
	Username     string `json:"username"`
	UserID       int64  `json:"userId"`
}

// RefreshResult carries the replacement access token issued by the refresh
// flow. The embedded upstream key rides inside the token, never beside it.
type RefreshResult struct {
	AccessToken string `json:"access_token"`
}
