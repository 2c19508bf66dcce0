package models

import (
	"net/http"
	"time"
)

type Plan struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	PriceCents  int64  `json:"price_cents"`
	Currency    string `json:"currency"`
	TokenPoints int    `json:"token_points"`
}

const (
	SubStatusPending  = "pending"
	SubStatusActive   = "active"
	SubStatusCanceled = "canceled"
)

type Subscription struct {
	ID        int64     `json:"id"`
	PlanCode  string    `json:"plan_code"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// BillingRecord mirrors one NFS-e issued for the user.
type BillingRecord struct {
	ID          int64     `json:"id"`
	NfseNumber  *string   `json:"nfse_number"`
	Description string    `json:"description"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	IssuedAt    time.Time `json:"issued_at"`
}

// GateDecision is the outcome of the tax-info check in front of checkout.
type GateDecision struct {
	Proceed bool
	Status  int
	Code    string
	Message string
}

// GateCheckout decides whether a purchase may reach the payment provider.
// Checkout is reachable only once tax info is confirmed present: a failed
// lookup is surfaced as its own error and never treated as absence, so an
// unchecked purchase can never slip through.
func GateCheckout(hasTaxInfo bool, checkErr error) GateDecision {
	if checkErr != nil {
		return GateDecision{
			Status:  http.StatusServiceUnavailable,
			Code:    "tax_info_check_failed",
			Message: "could not verify tax information, try again",
		}
	}
	if !hasTaxInfo {
		return GateDecision{
			Status:  http.StatusPreconditionFailed,
			Code:    "tax_info_required",
			Message: "tax information is required before purchase",
		}
	}
	return GateDecision{Proceed: true, Status: http.StatusOK}
}
