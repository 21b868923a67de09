package httptransport

import (
	"context"
	"net/http"

	"permit-gateway/internal/records"
	authmw "permit-gateway/pkg/platform/middleware/auth"
)

// RecordsService is the domain-record surface behind the role-gated routes.
type RecordsService interface {
	OwnLicenses(ctx context.Context, caller records.Caller) ([]records.License, error)
	AllLicenses(ctx context.Context, caller records.Caller) ([]records.License, error)
	FileComplaint(ctx context.Context, caller records.Caller, in records.NewComplaint) (*records.Complaint, error)
	Complaints(ctx context.Context, caller records.Caller) ([]records.Complaint, error)
	ApplyPermit(ctx context.Context, caller records.Caller, in records.NewPermit) (*records.Permit, error)
	PendingPermits(ctx context.Context, caller records.Caller) ([]records.Permit, error)
	Officers(ctx context.Context) ([]records.Officer, error)
	ProvisionOfficer(ctx context.Context, in records.NewOfficer) (*records.Officer, error)
}

// callerOf rebuilds the session the role gate stored on the context. The
// upstream key is present only when the access token carried one.
func callerOf(r *http.Request) records.Caller {
	ctx := r.Context()
	return records.Caller{
		ID:          authmw.GetUserID(ctx),
		UpstreamKey: authmw.GetUpstreamKey(ctx),
	}
}

type RecordsHandler struct {
	records RecordsService
}

func NewRecordsHandler(service RecordsService) *RecordsHandler {
	return &RecordsHandler{records: service}
}

func (h *RecordsHandler) handleOwnLicenses(w http.ResponseWriter, r *http.Request) {
	licenses, err := h.records.OwnLicenses(r.Context(), callerOf(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, licenses)
}

func (h *RecordsHandler) handleAllLicenses(w http.ResponseWriter, r *http.Request) {
	licenses, err := h.records.AllLicenses(r.Context(), callerOf(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, licenses)
}

func (h *RecordsHandler) handleFileComplaint(w http.ResponseWriter, r *http.Request) {
	var req records.NewComplaint
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	complaint, err := h.records.FileComplaint(r.Context(), callerOf(r), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, complaint)
}

func (h *RecordsHandler) handleComplaints(w http.ResponseWriter, r *http.Request) {
	complaints, err := h.records.Complaints(r.Context(), callerOf(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, complaints)
}

func (h *RecordsHandler) handleApplyPermit(w http.ResponseWriter, r *http.Request) {
	var req records.NewPermit
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	permit, err := h.records.ApplyPermit(r.Context(), callerOf(r), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, permit)
}

func (h *RecordsHandler) handlePendingPermits(w http.ResponseWriter, r *http.Request) {
	permits, err := h.records.PendingPermits(r.Context(), callerOf(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, permits)
}

func (h *RecordsHandler) handleOfficers(w http.ResponseWriter, r *http.Request) {
	officers, err := h.records.Officers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, officers)
}

func (h *RecordsHandler) handleProvisionOfficer(w http.ResponseWriter, r *http.Request) {
	var req records.NewOfficer
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	officer, err := h.records.ProvisionOfficer(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, officer)
}
