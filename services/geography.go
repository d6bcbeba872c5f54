package services

// ContinentOther is the fallback bucket for countries we have no mapping for.
// It is counted in continents_breakdown but never in unique_continents.
const ContinentOther = "Other"

// countryToContinent maps geocoded country names to their continent bucket.
// Lookup is exact and case-sensitive; only the synonyms listed here are
// recognized (e.g. both "United States" and "USA").
var countryToContinent = map[string]string{
	// Europe
	"Italy": "Europe", "Germany": "Europe", "France": "Europe", "Spain": "Europe",
	"United Kingdom": "Europe", "UK": "Europe", "Netherlands": "Europe", "Belgium": "Europe",
	"Switzerland": "Europe", "Austria": "Europe", "Portugal": "Europe", "Poland": "Europe",
	"Sweden": "Europe", "Norway": "Europe", "Denmark": "Europe", "Finland": "Europe",
	"Ireland": "Europe", "Greece": "Europe", "Czech Republic": "Europe", "Romania": "Europe",
	// Asia
	"Japan": "Asia", "China": "Asia", "South Korea": "Asia", "India": "Asia",
	"Thailand": "Asia", "Vietnam": "Asia", "Singapore": "Asia", "Indonesia": "Asia",
	"Malaysia": "Asia", "Philippines": "Asia", "Taiwan": "Asia", "Hong Kong": "Asia",
	// Americas
	"United States": "Americas", "USA": "Americas", "Canada": "Americas", "Mexico": "Americas",
	"Brazil": "Americas", "Argentina": "Americas", "Colombia": "Americas", "Chile": "Americas",
	// Africa
	"South Africa": "Africa", "Egypt": "Africa", "Morocco": "Africa", "Kenya": "Africa",
	"Nigeria": "Africa", "Ghana": "Africa",
	// Oceania
	"Australia": "Oceania", "New Zealand": "Oceania",
}

// ContinentOf classifies a country name into its continent bucket. Unknown
// names fall back to ContinentOther; the function is total over all strings.
func ContinentOf(country string) string {
	if continent, ok := countryToContinent[country]; ok {
		return continent
	}
	return ContinentOther
}
