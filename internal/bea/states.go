package bea

import "strings"

// StateName resolves a GeoFIPS code to its census state name. State and
// territory rows carry a five-digit code whose last three digits are
// zero; the two-digit prefix is the ANSI state code. Aggregate regions
// ("00000", BEA region codes) are not states and report ok=false.
func StateName(geoFIPS string) (string, bool) {
	code := strings.TrimSpace(geoFIPS)
	switch {
	case len(code) == 5 && strings.HasSuffix(code, "000"):
		code = code[:2]
	case len(code) == 2:
	default:
		return "", false
	}
	name, ok := stateNames[code]
	return name, ok
}
