// Package testutil carries shared helpers for handler tests: request
// builders, an in-memory round trip, and assertions over the gateway's
// JSON envelopes.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// errorBody is the shape every error response uses: a stable machine
// code plus a human message.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// NewJSONRequest builds a request whose body is the JSON encoding of v.
func NewJSONRequest(t *testing.T, method, path string, v any) *http.Request {
	t.Helper()

	var body io.Reader
	if v != nil {
		encoded, err := json.Marshal(v)
		require.NoError(t, err, "encode request body")
		body = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// NewRequest builds a bodyless request.
func NewRequest(t *testing.T, method, path string) *http.Request {
	t.Helper()
	return httptest.NewRequest(method, path, nil)
}

// NewRequestWithBody builds a request carrying body verbatim. Use it to
// send payloads that are deliberately not valid JSON.
func NewRequestWithBody(t *testing.T, method, path, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// DoRequest runs req through handler in memory and returns the recorder.
func DoRequest(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

// UnmarshalResponse decodes the recorded body into T.
func UnmarshalResponse[T any](t *testing.T, rr *httptest.ResponseRecorder) *T {
	t.Helper()
	var out T
	decodeBody(t, rr, &out)
	return &out
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, out any) {
	t.Helper()
	body := rr.Body.Bytes()
	require.NoError(t, json.Unmarshal(body, out), "decode response body: %s", body)
}

// AssertStatusOK asserts a 200 response.
func AssertStatusOK(t *testing.T, rr *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, http.StatusOK, rr.Code, "unexpected status code")
}

// AssertStatusAndError asserts the status code and the error code in the
// response envelope.
func AssertStatusAndError(t *testing.T, rr *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	assert.Equal(t, status, rr.Code, "unexpected status code")
	var envelope errorBody
	decodeBody(t, rr, &envelope)
	assert.Equal(t, code, envelope.Error, "unexpected error code (message: %q)", envelope.Message)
}

// AssertJSONContains asserts the response object holds value under key.
func AssertJSONContains(t *testing.T, rr *httptest.ResponseRecorder, key string, value any) {
	t.Helper()
	var out map[string]any
	decodeBody(t, rr, &out)
	assert.Equal(t, value, out[key], "unexpected value for key %q", key)
}

// AssertJSONHasKey asserts the response object holds key, whatever the value.
func AssertJSONHasKey(t *testing.T, rr *httptest.ResponseRecorder, key string) {
	t.Helper()
	var out map[string]any
	decodeBody(t, rr, &out)
	_, ok := out[key]
	assert.True(t, ok, "expected key %q in response", key)
}
