package service

import (
	"context"

	dErrors "permit-gateway/pkg/domain-errors"
)

// Resolver turns an authenticated subject id into a currently valid upstream
// API key at the moment it is needed. Keys are fetched on demand rather than
// trusted from long-lived tokens, so a rotated upstream key takes effect on
// the caller's next request.
type Resolver struct {
	directory Directory
}

func NewResolver(directory Directory) *Resolver {
	return &Resolver{directory: directory}
}

// Resolve fetches the subject's current upstream API key over the admin lane.
// Every per-user upstream call must be attributed with a key resolved here;
// only the named administrative operations use the admin key directly.
func (r *Resolver) Resolve(ctx context.Context, subjectID int64) (string, error) {
	account, err := r.directory.AccountByID(ctx, subjectID)
	if err != nil {
		return "", err
	}
	if account.APIKey == "" {
		return "", dErrors.New(dErrors.CodeNotFound, "no upstream key for account")
	}
	return account.APIKey, nil
}
