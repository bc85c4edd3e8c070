package types

import "strings"

// InstrumentRecord is one row of an instrument search result.
type InstrumentRecord struct {
	Identifier string `yaml:"identifier" json:"identifier" csv:"identifier"`
	Name       string `yaml:"name" json:"name" csv:"name"`
	Market     string `yaml:"market" json:"market" csv:"market"`
	// DetailRef is the relative link to the instrument's detail page,
	// empty when the result row carried no link.
	DetailRef string `yaml:"detail_ref" json:"detail_ref" csv:"detail_ref"`
}

// WKNFromISIN derives the six-character WKN from a German ISIN
// (DE000 followed by the WKN and a check digit). Identifiers that do not
// match that shape are returned unchanged so they can be used in URLs
// directly.
func WKNFromISIN(isin string) string {
	isin = strings.TrimSpace(isin)

	upper := strings.ToUpper(isin)
	if len(upper) == 12 && strings.HasPrefix(upper, "DE000") {
		return upper[5:11]
	}

	return isin
}
