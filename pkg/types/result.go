package types

import (
	"strings"

	"github.com/dshills/nhs-mcp/internal/geo"
)

// PostcodeResult is a geocoded UK postcode
type PostcodeResult struct {
	Postcode  string  `json:"postcode"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Coordinate returns the postcode location as a Coordinate
func (p *PostcodeResult) Coordinate() geo.Coordinate {
	return geo.Coordinate{Latitude: p.Latitude, Longitude: p.Longitude}
}

// SearchResult is the outcome of a proximity search
type SearchResult struct {
	Postcode                    string         `json:"postcode,omitempty"`
	Coordinates                 geo.Coordinate `json:"coordinates"`
	OrganisationType            string         `json:"organisationType"`
	OrganisationTypeDescription string         `json:"organisationTypeDescription"`
	ResultCount                 int            `json:"resultCount"`
	Organisations               []Organisation `json:"organisations"`
}

// HealthTopic is an NHS health condition article
type HealthTopic struct {
	Name         string               `json:"name"`
	Description  string               `json:"description"`
	URL          string               `json:"url"`
	LastReviewed string               `json:"lastReviewed,omitempty"`
	DateModified string               `json:"dateModified,omitempty"`
	Genre        []string             `json:"genre"`
	SectionCount int                  `json:"sectionCount"`
	Sections     []HealthTopicSection `json:"sections"`
}

// HealthTopicSection is one content block of a health topic
type HealthTopicSection struct {
	Headline    string `json:"headline,omitempty"`
	Text        string `json:"text,omitempty"`
	Description string `json:"description,omitempty"`
}

// IsEmpty reports whether every field is blank
func (s HealthTopicSection) IsEmpty() bool {
	return strings.TrimSpace(s.Headline) == "" &&
		strings.TrimSpace(s.Text) == "" &&
		strings.TrimSpace(s.Description) == ""
}
