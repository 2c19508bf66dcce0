package utils

import "strings"

// CPF (11 digits) and CNPJ (14 digits) check-digit validation. Input may be
// formatted ("123.456.789-09") or bare digits; anything else is invalid.

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else if r != '.' && r != '-' && r != '/' && r != ' ' {
			return ""
		}
	}
	return b.String()
}

func allSame(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

func cpfDigit(digits string, startWeight int) int {
	sum := 0
	for i, w := 0, startWeight; w >= 2; i, w = i+1, w-1 {
		sum += int(digits[i]-'0') * w
	}
	d := 11 - sum%11
	if d >= 10 {
		return 0
	}
	return d
}

func ValidCPF(value string) bool {
	d := onlyDigits(value)
	if len(d) != 11 || allSame(d) {
		return false
	}
	if cpfDigit(d[:9], 10) != int(d[9]-'0') {
		return false
	}
	return cpfDigit(d[:10], 11) == int(d[10]-'0')
}

var cnpjWeights = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}

func cnpjDigit(digits string) int {
	w := cnpjWeights[len(cnpjWeights)-len(digits):]
	sum := 0
	for i := range digits {
		sum += int(digits[i]-'0') * w[i]
	}
	mod := sum % 11
	if mod < 2 {
		return 0
	}
	return 11 - mod
}

func ValidCNPJ(value string) bool {
	d := onlyDigits(value)
	if len(d) != 14 || allSame(d) {
		return false
	}
	if cnpjDigit(d[:12]) != int(d[12]-'0') {
		return false
	}
	return cnpjDigit(d[:13]) == int(d[13]-'0')
}

// ValidCPFCNPJ accepts either document type, returning which one matched:
// "cpf", "cnpj", or "" when invalid.
func ValidCPFCNPJ(value string) (bool, string) {
	d := onlyDigits(value)
	switch len(d) {
	case 11:
		if ValidCPF(d) {
			return true, "cpf"
		}
	case 14:
		if ValidCNPJ(d) {
			return true, "cnpj"
		}
	}
	return false, ""
}

// FormatCPFCNPJ renders the canonical punctuation for a valid document.
// Returns the input unchanged when it is not a bare 11/14-digit string.
func FormatCPFCNPJ(value string) string {
	d := onlyDigits(value)
	switch len(d) {
	case 11:
		return d[:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:]
	case 14:
		return d[:2] + "." + d[2:5] + "." + d[5:8] + "/" + d[8:12] + "-" + d[12:]
	}
	return value
}
