package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForwardError_Retryable(t *testing.T) {
	tests := []struct {
		kind ForwardFailure
		want bool
	}{
		{ForwardThrottled, true},
		{ForwardOther, true},
		{ForwardUnauthorized, false},
		{ForwardNotFound, false},
		{ForwardRejected, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, (&ForwardError{Kind: tt.kind}).Retryable())
		})
	}
}

func TestAsForwardError(t *testing.T) {
	cause := errors.New("connection reset")

	fe := AsForwardError(cause)
	assert.Equal(t, ForwardOther, fe.Kind)
	assert.ErrorIs(t, fe, cause)

	typed := &ForwardError{Kind: ForwardRejected, Err: cause}
	assert.Same(t, typed, AsForwardError(typed))
}

func TestTeardownError(t *testing.T) {
	stop := errors.New("stop failed")
	remove := errors.New("remove failed")

	both := &TeardownError{WorkloadID: "abc", Stop: stop, Remove: remove}
	assert.ErrorIs(t, both, stop)
	assert.ErrorIs(t, both, remove)
	assert.Contains(t, both.Error(), "stop: stop failed; remove: remove failed")

	onlyRemove := &TeardownError{WorkloadID: "abc", Remove: remove}
	assert.NotErrorIs(t, onlyRemove, stop)
	assert.Equal(t, "teardown of abc failed: remove: remove failed", onlyRemove.Error())
}

func TestWrappingErrors(t *testing.T) {
	cause := errors.New("boom")

	errs := []error{
		&ProvisionError{Resource: "log group", Name: "g", Err: cause},
		&WorkloadStartError{Image: "alpine", Err: cause},
		&SourceError{Err: cause},
	}
	for _, err := range errs {
		assert.ErrorIs(t, err, cause)
	}
	assert.Equal(t, `failed to provision log group "g": boom`, errs[0].Error())
}
