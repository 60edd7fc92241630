package apperr

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestKindAndStatus(t *testing.T) {
	cases := []struct {
		err    error
		kind   Kind
		status int
	}{
		{Validation("bad input"), KindValidation, 400},
		{NotFound("missing"), KindNotFound, 404},
		{Conflict("dup"), KindConflict, 409},
		{Transient(errors.New("deadlock")), KindTransient, 503},
		{Unexpected(errors.New("boom")), KindUnexpected, 500},
		{errors.New("plain"), KindUnexpected, 500},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.kind, KindOf(tc.err))
		assert.Equal(t, tc.status, HTTPStatus(tc.err))
	}
}

func TestMessageHidesInternalDetail(t *testing.T) {
	err := Unexpected(errors.New("password=hunter2"))
	assert.Equal(t, "internal server error", Message(err))
	assert.Contains(t, err.Error(), "hunter2") // full detail stays for the logs
}

func TestKindSurvivesWrapping(t *testing.T) {
	inner := NotFound("category not found")
	wrapped := errors.Wrap(inner, "loading category")
	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.Equal(t, "category not found", Message(wrapped))
}

func TestFormatting(t *testing.T) {
	err := Validation("invalid %s: %d", "limit", 0)
	assert.Equal(t, "invalid limit: 0", err.Msg)
}
