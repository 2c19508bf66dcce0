package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidCPF(t *testing.T) {
	valid := []string{"529.982.247-25", "52998224725", "111.444.777-35"}
	for _, v := range valid {
		assert.True(t, ValidCPF(v), "expected valid CPF: %s", v)
	}

	invalid := []string{
		"111.111.111-11", // repeated digits
		"529.982.247-26", // wrong check digit
		"123",            // too short
		"529982247250",   // too long
		"52998224a25",    // non-digit
		"",
	}
	for _, v := range invalid {
		assert.False(t, ValidCPF(v), "expected invalid CPF: %s", v)
	}
}

func TestValidCNPJ(t *testing.T) {
	valid := []string{"11.444.777/0001-61", "11444777000161"}
	for _, v := range valid {
		assert.True(t, ValidCNPJ(v), "expected valid CNPJ: %s", v)
	}

	invalid := []string{
		"11.444.777/0001-62",
		"00.000.000/0000-00",
		"11444777",
		"",
	}
	for _, v := range invalid {
		assert.False(t, ValidCNPJ(v), "expected invalid CNPJ: %s", v)
	}
}

func TestValidCPFCNPJ(t *testing.T) {
	ok, kind := ValidCPFCNPJ("529.982.247-25")
	assert.True(t, ok)
	assert.Equal(t, "cpf", kind)

	ok, kind = ValidCPFCNPJ("11.444.777/0001-61")
	assert.True(t, ok)
	assert.Equal(t, "cnpj", kind)

	ok, kind = ValidCPFCNPJ("not-a-document")
	assert.False(t, ok)
	assert.Empty(t, kind)
}

func TestFormatCPFCNPJ(t *testing.T) {
	assert.Equal(t, "529.982.247-25", FormatCPFCNPJ("52998224725"))
	assert.Equal(t, "11.444.777/0001-61", FormatCPFCNPJ("11444777000161"))
	// Unknown lengths pass through untouched.
	assert.Equal(t, "12345", FormatCPFCNPJ("12345"))
}
