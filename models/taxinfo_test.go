package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

func brazilianTaxInfo() TaxInfo {
	return TaxInfo{
		Country:      "BR",
		FullName:     "Maria da Silva",
		CpfCnpj:      str("529.982.247-25"),
		PostalCode:   str("01310-100"),
		State:        str("SP"),
		CityCode:     str("3550308"),
		City:         str("São Paulo"),
		Address:      str("Avenida Paulista"),
		Number:       str("1578"),
		Neighborhood: str("Bela Vista"),
	}
}

func fieldNames(errs []FieldError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Field
	}
	return out
}

func TestValidateBrazilianComplete(t *testing.T) {
	info := brazilianTaxInfo()
	assert.Empty(t, info.Validate())
}

func TestValidateBrazilianMissingFields(t *testing.T) {
	info := brazilianTaxInfo()
	info.CpfCnpj = nil
	info.PostalCode = nil
	info.State = nil
	info.Neighborhood = nil

	errs := info.Validate()
	fields := fieldNames(errs)
	assert.Contains(t, fields, "cpfCnpj")
	assert.Contains(t, fields, "postalCode")
	assert.Contains(t, fields, "state")
	assert.Contains(t, fields, "neighborhood")
	assert.NotContains(t, fields, "fullName")
}

func TestValidateBrazilianBadDocument(t *testing.T) {
	info := brazilianTaxInfo()
	info.CpfCnpj = str("111.111.111-11")
	errs := info.Validate()
	require.Len(t, errs, 1)
	assert.Equal(t, "cpfCnpj", errs[0].Field)
}

func TestValidateBrazilianUnknownState(t *testing.T) {
	info := brazilianTaxInfo()
	info.State = str("XX")
	errs := info.Validate()
	require.Len(t, errs, 1)
	assert.Equal(t, "state", errs[0].Field)
}

func TestValidateInternationalMinimal(t *testing.T) {
	// Outside Brazil only the legal name is required; nif stays optional.
	info := TaxInfo{Country: "PT", FullName: "John Doe"}
	assert.Empty(t, info.Validate())

	info.NIF = str("123456789")
	assert.Empty(t, info.Validate())
}

func TestValidateInternationalMissingName(t *testing.T) {
	info := TaxInfo{Country: "US"}
	errs := info.Validate()
	require.Len(t, errs, 1)
	assert.Equal(t, "fullName", errs[0].Field)
}

func TestValidateMissingCountry(t *testing.T) {
	info := TaxInfo{FullName: "John Doe"}
	errs := info.Validate()
	require.Len(t, errs, 1)
	assert.Equal(t, "country", errs[0].Field)
}

func TestValidateCountryCaseInsensitive(t *testing.T) {
	info := brazilianTaxInfo()
	info.Country = "br"
	info.CpfCnpj = nil
	errs := info.Validate()
	assert.Contains(t, fieldNames(errs), "cpfCnpj")
}

func TestValidUF(t *testing.T) {
	assert.True(t, ValidUF("SP"))
	assert.True(t, ValidUF("DF"))
	assert.False(t, ValidUF("XX"))
	assert.False(t, ValidUF(""))
	assert.Len(t, BrazilianStates, 27)
}
