package models

import "time"

type User struct {
	ID                  int64     `json:"id"`
	Email               string    `json:"email"`
	PasswordHash        string    `json:"-"`
	Name                string    `json:"name"`
	Company             *string   `json:"company"`
	JobTitle            *string   `json:"job_title"`
	Country             *string   `json:"country"`
	Phone               *string   `json:"phone"`
	Bio                 *string   `json:"bio"`
	Website             *string   `json:"website"`
	ImagePath           *string   `json:"image_path"`
	OnboardingStep      int       `json:"onboarding_step"`
	OnboardingCompleted bool      `json:"onboarding_completed"`
	CreatedAt           time.Time `json:"created_at"`
}
