package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdvanceStepForwardOnly(t *testing.T) {
	cases := []struct {
		current, next, want int
	}{
		{StepProfile, StepOrganization, StepOrganization},
		{StepOrganization, StepComplete, StepComplete},
		{StepProfile, StepComplete, StepComplete}, // skipping ahead is allowed
		{StepOrganization, StepProfile, StepOrganization}, // no backward moves
		{StepComplete, StepProfile, StepComplete},
		{StepComplete, StepComplete, StepComplete},
		{StepProfile, 99, StepComplete}, // clamped to the terminal step
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, AdvanceStep(tc.current, tc.next), "AdvanceStep(%d, %d)", tc.current, tc.next)
	}
}

func TestResumeStep(t *testing.T) {
	assert.Equal(t, StepProfile, ResumeStep(-1))
	assert.Equal(t, StepProfile, ResumeStep(StepProfile))
	assert.Equal(t, StepOrganization, ResumeStep(StepOrganization))
	assert.Equal(t, StepComplete, ResumeStep(StepComplete))
	assert.Equal(t, StepComplete, ResumeStep(7))
}
