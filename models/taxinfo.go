package models

import (
	"strings"
	"time"

	"orbita/backend/utils"
)

// TaxInfo is the fiscal record required before any purchase. The field set is
// a tagged union keyed by country: "BR" carries the full municipal address and
// CPF/CNPJ, everything else is just the legal name plus an optional tax ID.
type TaxInfo struct {
	UserID       int64     `json:"-"`
	Country      string    `json:"country"`
	FullName     string    `json:"fullName"`
	CpfCnpj      *string   `json:"cpfCnpj,omitempty"`
	PostalCode   *string   `json:"postalCode,omitempty"`
	State        *string   `json:"state,omitempty"`
	CityCode     *string   `json:"cityCode,omitempty"`
	City         *string   `json:"city,omitempty"`
	Address      *string   `json:"address,omitempty"`
	Number       *string   `json:"number,omitempty"`
	Complement   *string   `json:"complement,omitempty"`
	Neighborhood *string   `json:"neighborhood,omitempty"`
	NIF          *string   `json:"nif,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func empty(p *string) bool {
	return p == nil || strings.TrimSpace(*p) == ""
}

// Validate runs the country branch exhaustively and returns every failing
// field, not just the first.
func (t *TaxInfo) Validate() []FieldError {
	var errs []FieldError
	if strings.TrimSpace(t.Country) == "" {
		errs = append(errs, FieldError{"country", "country is required"})
	}
	if strings.TrimSpace(t.FullName) == "" {
		errs = append(errs, FieldError{"fullName", "full legal name is required"})
	}
	if strings.ToUpper(strings.TrimSpace(t.Country)) == "BR" {
		errs = append(errs, t.validateBrazil()...)
	}
	// International branch: nothing beyond fullName; nif stays optional.
	return errs
}

func (t *TaxInfo) validateBrazil() []FieldError {
	var errs []FieldError
	if empty(t.CpfCnpj) {
		errs = append(errs, FieldError{"cpfCnpj", "CPF or CNPJ is required"})
	} else if ok, _ := utils.ValidCPFCNPJ(*t.CpfCnpj); !ok {
		errs = append(errs, FieldError{"cpfCnpj", "invalid CPF/CNPJ"})
	}
	if empty(t.PostalCode) {
		errs = append(errs, FieldError{"postalCode", "postal code is required"})
	} else if !validCEP(*t.PostalCode) {
		errs = append(errs, FieldError{"postalCode", "invalid postal code"})
	}
	if empty(t.State) {
		errs = append(errs, FieldError{"state", "state is required"})
	} else if !ValidUF(strings.ToUpper(strings.TrimSpace(*t.State))) {
		errs = append(errs, FieldError{"state", "unknown state code"})
	}
	if empty(t.CityCode) {
		errs = append(errs, FieldError{"cityCode", "city is required"})
	}
	if empty(t.Address) {
		errs = append(errs, FieldError{"address", "address is required"})
	}
	if empty(t.Number) {
		errs = append(errs, FieldError{"number", "number is required"})
	}
	if empty(t.Neighborhood) {
		errs = append(errs, FieldError{"neighborhood", "neighborhood is required"})
	}
	return errs
}

// validCEP accepts "00000-000" or bare 8 digits.
func validCEP(s string) bool {
	s = strings.ReplaceAll(strings.TrimSpace(s), "-", "")
	if len(s) != 8 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
