package normalize

import (
	"sort"
	"strings"
)

type Country struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Flag string `json:"flag"`
}

var countryNames = map[string]string{
	"IN": "India",
	"US": "United States",
	"GB": "United Kingdom",
	"AE": "United Arab Emirates",
	"AU": "Australia",
	"CA": "Canada",
	"DE": "Germany",
	"FR": "France",
	"SG": "Singapore",
	"JP": "Japan",
}

// NormalizeCode trims and upper-cases a country code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CountryName falls back to the code itself for unknown countries.
func CountryName(code string) string {
	code = NormalizeCode(code)
	if n, ok := countryNames[code]; ok {
		return n
	}
	return code
}

func KnownCountry(code string) bool {
	_, ok := countryNames[NormalizeCode(code)]
	return ok
}

// FlagEmoji builds the regional-indicator pair for a two-letter code.
func FlagEmoji(code string) string {
	code = NormalizeCode(code)
	if len(code) != 2 || !isLetter(code[0]) || !isLetter(code[1]) {
		return "🧭"
	}
	const base = 0x1F1E6
	return string([]rune{base + rune(code[0]-'A'), base + rune(code[1]-'A')})
}

func isLetter(c byte) bool { return c >= 'A' && c <= 'Z' }

// Countries lists the catalog sorted by code.
func Countries() []Country {
	out := make([]Country, 0, len(countryNames))
	for code, name := range countryNames {
		out = append(out, Country{Code: code, Name: name, Flag: FlagEmoji(code)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
