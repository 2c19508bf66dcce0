package models

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGateCheckoutPresent(t *testing.T) {
	d := GateCheckout(true, nil)
	assert.True(t, d.Proceed)
	assert.Equal(t, http.StatusOK, d.Status)
}

func TestGateCheckoutAbsent(t *testing.T) {
	d := GateCheckout(false, nil)
	assert.False(t, d.Proceed)
	assert.Equal(t, http.StatusPreconditionFailed, d.Status)
	assert.Equal(t, "tax_info_required", d.Code)
}

func TestGateCheckoutLookupError(t *testing.T) {
	// A failed lookup must never be conflated with absence: the purchase is
	// blocked with a retryable error, not sent to the tax-info form.
	d := GateCheckout(false, errors.New("db down"))
	assert.False(t, d.Proceed)
	assert.Equal(t, http.StatusServiceUnavailable, d.Status)
	assert.Equal(t, "tax_info_check_failed", d.Code)

	// Even a lookup that claimed to find a record is blocked when it errored.
	d = GateCheckout(true, errors.New("db down"))
	assert.False(t, d.Proceed)
	assert.Equal(t, "tax_info_check_failed", d.Code)
}
