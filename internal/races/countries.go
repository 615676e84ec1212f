package races

import "strings"

// countryNames maps the country codes that actually occur in the UM races
// dataset onto display names. Codes outside this table pass through
// uppercased; the dataset mixes IOC and ISO spellings so we make no attempt
// to be exhaustive.
var countryNames = map[string]string{
	"ARG": "Argentina",
	"AUS": "Australia",
	"AUT": "Austria",
	"BEL": "Belgium",
	"BRA": "Brazil",
	"CAN": "Canada",
	"CHE": "Switzerland",
	"CHI": "Chile",
	"CHN": "China",
	"CZE": "Czech Republic",
	"DEU": "Germany",
	"DNK": "Denmark",
	"ESP": "Spain",
	"EST": "Estonia",
	"FIN": "Finland",
	"FRA": "France",
	"GBR": "United Kingdom",
	"HUN": "Hungary",
	"IRL": "Ireland",
	"ITA": "Italy",
	"JPN": "Japan",
	"MEX": "Mexico",
	"NED": "Netherlands",
	"NOR": "Norway",
	"NZL": "New Zealand",
	"POL": "Poland",
	"PRT": "Portugal",
	"ROU": "Romania",
	"SWE": "Sweden",
	"USA": "United States",
}

// NormalizeCountry resolves a country code to a display name. Unknown codes
// are returned uppercased as-is; an empty code yields "Unknown".
func NormalizeCountry(code string) string {
	c := strings.ToUpper(strings.TrimSpace(code))
	if c == "" {
		return "Unknown"
	}
	if name, ok := countryNames[c]; ok {
		return name
	}
	return c
}
