package service

import (
	"time"

	"permit-gateway/internal/auth/models"
	"permit-gateway/internal/tracker"
	dErrors "permit-gateway/pkg/domain-errors"
)

// nowFunc is swapped in tests.
var nowFunc = time.Now

// firstRole maps a project membership list to exactly one authorization role:
// the first role of the account's first membership wins.
//
// The tie-break is deliberate. A caller holding several roles gets the first
// one the upstream reports, NOT the most privileged; picking by privilege
// would silently change authorization semantics for existing accounts.
func firstRole(memberships []tracker.Membership, accountID int64) (models.Role, error) {
	for _, m := range memberships {
		if m.Account.ID != accountID {
			continue
		}
		if len(m.Roles) == 0 {
			break
		}
		return models.Role(m.Roles[0].Name), nil
	}
	return "", dErrors.New(dErrors.CodeNoRole, "account has no role in this system")
}
