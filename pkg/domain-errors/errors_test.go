package dErrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Is_MatchesCode(t *testing.T) {
	err := New(CodeNoRole, "no role assigned")
	assert.True(t, Is(err, CodeNoRole))
	assert.False(t, Is(err, CodeUnauthorized))
	assert.False(t, Is(errors.New("plain"), CodeNoRole))
}

func Test_Is_MatchesThroughWrapping(t *testing.T) {
	inner := New(CodeUnavailable, "upstream unreachable")
	wrapped := fmt.Errorf("login: %w", inner)
	assert.True(t, Is(wrapped, CodeUnavailable))
}

func Test_Wrap_PreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeUnavailable, "upstream unreachable")
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, "upstream unreachable", MessageOf(err))
}

func Test_CodeOf_DefaultsToInternal(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	assert.Equal(t, "internal error", MessageOf(errors.New("boom")))
}

func Test_ToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeInvalidInput:   http.StatusBadRequest,
		CodeUnauthorized:   http.StatusUnauthorized,
		CodeNoRole:         http.StatusUnauthorized,
		CodeNotProvisioned: http.StatusUnauthorized,
		CodeForbidden:      http.StatusForbidden,
		CodeNotFound:       http.StatusNotFound,
		CodeConflict:       http.StatusConflict,
		CodeUnavailable:    http.StatusServiceUnavailable,
		CodeInternal:       http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, ToHTTPStatus(code), "code %s", code)
	}
}
