package models

// BrazilianState is one federative unit, with its IBGE numeric code (the same
// code the municipality lookup is scoped by).
type BrazilianState struct {
	Code string `json:"code"`
	Name string `json:"name"`
	IBGE int    `json:"ibge_code"`
}

var BrazilianStates = []BrazilianState{
	{"AC", "Acre", 12},
	{"AL", "Alagoas", 27},
	{"AP", "Amapá", 16},
	{"AM", "Amazonas", 13},
	{"BA", "Bahia", 29},
	{"CE", "Ceará", 23},
	{"DF", "Distrito Federal", 53},
	{"ES", "Espírito Santo", 32},
	{"GO", "Goiás", 52},
	{"MA", "Maranhão", 21},
	{"MT", "Mato Grosso", 51},
	{"MS", "Mato Grosso do Sul", 50},
	{"MG", "Minas Gerais", 31},
	{"PA", "Pará", 15},
	{"PB", "Paraíba", 25},
	{"PR", "Paraná", 41},
	{"PE", "Pernambuco", 26},
	{"PI", "Piauí", 22},
	{"RJ", "Rio de Janeiro", 33},
	{"RN", "Rio Grande do Norte", 24},
	{"RS", "Rio Grande do Sul", 43},
	{"RO", "Rondônia", 11},
	{"RR", "Roraima", 14},
	{"SC", "Santa Catarina", 42},
	{"SP", "São Paulo", 35},
	{"SE", "Sergipe", 28},
	{"TO", "Tocantins", 17},
}

func ValidUF(code string) bool {
	for _, s := range BrazilianStates {
		if s.Code == code {
			return true
		}
	}
	return false
}
