package models

// Onboarding wizard steps. The step index is the wizard's only durable state;
// everything else is collected client-side and submitted in one save-all call.
const (
	StepProfile      = 0
	StepOrganization = 1
	StepComplete     = 2
)

// AdvanceStep applies a step transition. Transitions are strictly forward:
// a completion callback may only move the user to a later step, and never past
// StepComplete. Anything else keeps the current step.
func AdvanceStep(current, next int) int {
	if next <= current {
		return current
	}
	if next > StepComplete {
		return StepComplete
	}
	return next
}

// ResumeStep normalizes a persisted step index read on wizard mount.
func ResumeStep(persisted int) int {
	if persisted < StepProfile {
		return StepProfile
	}
	if persisted > StepComplete {
		return StepComplete
	}
	return persisted
}

type OnboardingProfile struct {
	Name     string  `json:"name"`
	Company  *string `json:"company"`
	JobTitle *string `json:"job_title"`
	Country  *string `json:"country"`
	Phone    *string `json:"phone"`
	Bio      *string `json:"bio"`
	Website  *string `json:"website"`
}

type OnboardingOrganization struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description"`
}

// SaveAllRequest is the combined submission issued at the end of the
// organization step: one atomic write instead of two partial ones.
type SaveAllRequest struct {
	Profile      OnboardingProfile      `json:"profile"`
	Organization OnboardingOrganization `json:"organization"`
}
