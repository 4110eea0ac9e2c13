package types

import (
	"sort"
	"strings"

	"github.com/dshills/nhs-mcp/internal/geo"
)

// Organisation is a single NHS organisation returned by a proximity search
type Organisation struct {
	Name       string          `json:"name"`
	TypeCode   string          `json:"organisationType"`
	ODSCode    string          `json:"odsCode,omitempty"`
	Address    string          `json:"address,omitempty"`
	Postcode   string          `json:"postcode,omitempty"`
	Coordinate *geo.Coordinate `json:"coordinates,omitempty"`
	Distance   *float64        `json:"distanceKm,omitempty"` // Set only when Coordinate is known
}

// Validate checks if the organisation is well formed
func (o *Organisation) Validate() error {
	if o.Name == "" {
		return ErrInvalidOrganisationID
	}
	if o.TypeCode == "" {
		return ErrInvalidTypeCode
	}
	if o.Distance != nil && *o.Distance < 0 {
		return ErrNegativeDistance
	}
	return nil
}

// SetDistanceFrom computes the distance from origin when the coordinate is
// known. Otherwise the distance is cleared
func (o *Organisation) SetDistanceFrom(origin geo.Coordinate) {
	if o.Coordinate == nil {
		o.Distance = nil
		return
	}
	d := origin.DistanceTo(*o.Coordinate)
	o.Distance = &d
}

// DistanceKm reports the computed distance and whether it is known
func (o Organisation) DistanceKm() (float64, bool) {
	if o.Distance == nil {
		return 0, false
	}
	return *o.Distance, true
}

// JoinAddress concatenates the non-blank address lines with ", "
func JoinAddress(lines ...string) string {
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, ", ")
}

// OrganisationType pairs a type code with its description
type OrganisationType struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// organisationTypes is the fixed set of organisation types the backend indexes
var organisationTypes = map[string]string{
	"CCG":  "Clinical Commissioning Group",
	"CLI":  "Clinics",
	"DEN":  "Dentists",
	"GDOS": "Generic Directory of Services",
	"GPB":  "GP",
	"GPP":  "GP Practice",
	"GSD":  "Generic Service Directory",
	"HA":   "Health Authority",
	"HOS":  "Hospital",
	"HWB":  "Health and Wellbeing Board",
	"LA":   "Local Authority",
	"LAT":  "Area Team",
	"MIU":  "Minor Injury Unit",
	"OPT":  "Optician",
	"PHA":  "Pharmacy",
	"RAT":  "Regional Area Team",
	"SCL":  "Social Care Provider Location",
	"SCP":  "Social Care Provider",
	"SHA":  "Strategic Health Authority",
	"STP":  "Sustainability and Transformation Partnership",
	"TRU":  "Trust",
	"UC":   "Urgent Care",
	"UNK":  "UNKNOWN",
}

// OrganisationTypes returns every known type ordered by code
func OrganisationTypes() []OrganisationType {
	out := make([]OrganisationType, 0, len(organisationTypes))
	for code, desc := range organisationTypes {
		out = append(out, OrganisationType{Code: code, Description: desc})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// OrganisationTypeMap returns a copy of the code to description table
func OrganisationTypeMap() map[string]string {
	out := make(map[string]string, len(organisationTypes))
	for code, desc := range organisationTypes {
		out[code] = desc
	}
	return out
}

// LookupOrganisationType normalises code to upper case and returns its
// description
func LookupOrganisationType(code string) (string, string, bool) {
	normalised := strings.ToUpper(strings.TrimSpace(code))
	desc, ok := organisationTypes[normalised]
	return normalised, desc, ok
}
