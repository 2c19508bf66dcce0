package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuotaSpent(t *testing.T) {
	cases := []struct {
		name        string
		quota, used int64
		spent       bool
	}{
		{"untouched", 50000, 0, false},
		{"partial", 50000, 49999, false},
		{"exactly at quota", 50000, 50000, true},
		{"over quota", 50000, 50001, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.spent, quotaSpent(tc.quota, tc.used))
		})
	}
}

func TestQuotaRemainingClampsAtZero(t *testing.T) {
	assert.Equal(t, int64(50000), quotaRemaining(50000, 0))
	assert.Equal(t, int64(1), quotaRemaining(50000, 49999))
	assert.Equal(t, int64(0), quotaRemaining(50000, 50000))
	assert.Equal(t, int64(0), quotaRemaining(50000, 60000))
}
