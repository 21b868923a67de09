// Package tracker is the HTTP client for the upstream issue tracker that acts
// as the system of record for accounts, role memberships, and domain records.
//
// Calls run on one of two credential lanes that are never mixed implicitly:
// the per-user lane (a caller's own API key, so upstream attributes the call
// to that caller) and the admin lane (a privileged shared key reserved for
// provisioning, role lookups, and credential updates).
package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	dErrors "permit-gateway/pkg/domain-errors"
)

var requestDurationMs = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "permit_gateway_upstream_request_duration_ms",
	Help:    "Latency of upstream tracker calls in milliseconds",
	Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
}, []string{"operation"})

const (
	apiKeyHeader = "X-Api-Key"

	// Upstream error bodies are diagnostics, not caller-facing content; cap
	// what we keep so full responses never end up in logs verbatim.
	maxDiagnosticBytes = 200
)

// Client owns the shared transport and base URL. Obtain a lane via Admin or
// ForUser before issuing calls.
type Client struct {
	baseURL    string
	adminKey   string
	httpClient *http.Client
}

func New(baseURL, adminKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:  baseURL,
		adminKey: adminKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// AdminLane issues calls under the privileged shared key.
type AdminLane struct {
	c *Client
}

// UserLane issues calls attributed to a single caller's API key.
type UserLane struct {
	c      *Client
	apiKey string
}

func (c *Client) Admin() *AdminLane { return &AdminLane{c: c} }

func (c *Client) ForUser(apiKey string) *UserLane { return &UserLane{c: c, apiKey: apiKey} }

// AuthenticateAccount verifies a username/password pair against the upstream
// tracker and returns the account, including its current API key. This is the
// only call that sends the primary credential, and the credential is never
// stored.
func (c *Client) AuthenticateAccount(ctx context.Context, username, password string) (*Account, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/accounts/current", nil, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(username, password)

	var env accountEnvelope
	if err := c.do(req, "authenticate_account", http.StatusOK, &env); err != nil {
		if dErrors.Is(err, dErrors.CodeUnauthorized) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid username or password")
		}
		return nil, err
	}
	if env.Account == nil || env.Account.ID == 0 {
		return nil, dErrors.New(dErrors.CodeInternal, "unexpected upstream response shape")
	}
	return env.Account, nil
}

// AccountByID fetches an account, including its API key, under the admin lane.
func (a *AdminLane) AccountByID(ctx context.Context, id int64) (*Account, error) {
	req, err := a.c.newRequest(ctx, http.MethodGet, "/accounts/"+strconv.FormatInt(id, 10), nil, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(apiKeyHeader, a.c.adminKey)

	var env accountEnvelope
	if err := a.c.do(req, "account_by_id", http.StatusOK, &env); err != nil {
		return nil, err
	}
	if env.Account == nil || env.Account.ID == 0 {
		return nil, dErrors.New(dErrors.CodeInternal, "unexpected upstream response shape")
	}
	return env.Account, nil
}

// AccountByEmail looks an account up by email under the admin lane. A missing
// account is CodeNotFound; the identity-provider login path translates that
// into a provisioning-gap error.
func (a *AdminLane) AccountByEmail(ctx context.Context, email string) (*Account, error) {
	q := url.Values{"email": {email}}
	req, err := a.c.newRequest(ctx, http.MethodGet, "/accounts", q, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(apiKeyHeader, a.c.adminKey)

	var env accountsEnvelope
	if err := a.c.do(req, "account_by_email", http.StatusOK, &env); err != nil {
		return nil, err
	}
	if len(env.Accounts) == 0 {
		return nil, dErrors.New(dErrors.CodeNotFound, "no account for email")
	}
	return &env.Accounts[0], nil
}

// AccountByPhone looks an account up by its registered phone number under the
// admin lane. The mobile reset flow uses this to tie a one-time code subject
// back to an upstream account.
func (a *AdminLane) AccountByPhone(ctx context.Context, phone string) (*Account, error) {
	q := url.Values{"phone": {phone}}
	req, err := a.c.newRequest(ctx, http.MethodGet, "/accounts", q, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(apiKeyHeader, a.c.adminKey)

	var env accountsEnvelope
	if err := a.c.do(req, "account_by_phone", http.StatusOK, &env); err != nil {
		return nil, err
	}
	if len(env.Accounts) == 0 {
		return nil, dErrors.New(dErrors.CodeNotFound, "no account for phone number")
	}
	return &env.Accounts[0], nil
}

// ProjectMemberships lists role memberships of the given project under the
// admin lane.
func (a *AdminLane) ProjectMemberships(ctx context.Context, project string) ([]Membership, error) {
	path := "/projects/" + url.PathEscape(project) + "/memberships"
	req, err := a.c.newRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(apiKeyHeader, a.c.adminKey)

	var env membershipsEnvelope
	if err := a.c.do(req, "project_memberships", http.StatusOK, &env); err != nil {
		return nil, err
	}
	return env.Memberships, nil
}

// CreateAccount provisions a new upstream account under the admin lane.
func (a *AdminLane) CreateAccount(ctx context.Context, in NewAccount) (*Account, error) {
	body := map[string]NewAccount{"account": in}
	req, err := a.c.newRequest(ctx, http.MethodPost, "/accounts", nil, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set(apiKeyHeader, a.c.adminKey)

	var env accountEnvelope
	if err := a.c.do(req, "create_account", http.StatusCreated, &env); err != nil {
		return nil, err
	}
	if env.Account == nil || env.Account.ID == 0 {
		return nil, dErrors.New(dErrors.CodeInternal, "unexpected upstream response shape")
	}
	return env.Account, nil
}

// UpdateAccountPassword replaces an account's password under the admin lane.
// Used only by the reset flows after a one-time token was consumed.
func (a *AdminLane) UpdateAccountPassword(ctx context.Context, id int64, newPassword string) error {
	body := map[string]map[string]string{"account": {"password": newPassword}}
	req, err := a.c.newRequest(ctx, http.MethodPut, "/accounts/"+strconv.FormatInt(id, 10), nil, body)
	if err != nil {
		return err
	}
	req.Header.Set(apiKeyHeader, a.c.adminKey)
	return a.c.do(req, "update_account_password", http.StatusNoContent, nil)
}

// ListIssues lists records on the caller's own lane.
func (u *UserLane) ListIssues(ctx context.Context, q IssueQuery) ([]Issue, error) {
	values := url.Values{}
	if q.ProjectID != "" {
		values.Set("project_id", q.ProjectID)
	}
	if q.TrackerID != 0 {
		values.Set("tracker_id", strconv.FormatInt(q.TrackerID, 10))
	}
	if q.StatusID != "" {
		values.Set("status_id", q.StatusID)
	}
	if q.AssignedToID != 0 {
		values.Set("assigned_to_id", strconv.FormatInt(q.AssignedToID, 10))
	}

	req, err := u.c.newRequest(ctx, http.MethodGet, "/issues", values, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(apiKeyHeader, u.apiKey)

	var env issuesEnvelope
	if err := u.c.do(req, "list_issues", http.StatusOK, &env); err != nil {
		return nil, err
	}
	return env.Issues, nil
}

// CreateIssue files a record attributed to the caller.
func (u *UserLane) CreateIssue(ctx context.Context, in NewIssue) (*Issue, error) {
	body := map[string]NewIssue{"issue": in}
	req, err := u.c.newRequest(ctx, http.MethodPost, "/issues", nil, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set(apiKeyHeader, u.apiKey)

	var env issueEnvelope
	if err := u.c.do(req, "create_issue", http.StatusCreated, &env); err != nil {
		return nil, err
	}
	if env.Issue == nil || env.Issue.ID == 0 {
		return nil, dErrors.New(dErrors.CodeInternal, "unexpected upstream response shape")
	}
	return env.Issue, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode upstream request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to build upstream request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// do executes the request and decodes a 2xx body into out. Transport errors
// and timeouts become CodeUnavailable; upstream 401/404 keep their meaning;
// everything else is CodeInternal with a truncated diagnostic.
func (c *Client) do(req *http.Request, operation string, wantStatus int, out any) error {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	requestDurationMs.WithLabelValues(operation).Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "upstream tracker unavailable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		diag := readDiagnostic(resp.Body)
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return dErrors.Wrap(fmt.Errorf("upstream %s: %s", resp.Status, diag),
				dErrors.CodeUnauthorized, "upstream rejected credentials")
		case http.StatusNotFound:
			return dErrors.Wrap(fmt.Errorf("upstream %s: %s", resp.Status, diag),
				dErrors.CodeNotFound, "upstream record not found")
		default:
			return dErrors.Wrap(fmt.Errorf("upstream %s %s: %s", operation, resp.Status, diag),
				dErrors.CodeInternal, "unexpected upstream response")
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "unexpected upstream response shape")
	}
	return nil
}

func readDiagnostic(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, maxDiagnosticBytes))
	return string(b)
}
