package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/buger/jsonparser"

	"github.com/dshills/nhs-mcp/internal/geo"
	"github.com/dshills/nhs-mcp/pkg/types"
)

const opSearch = "search"

// searchRequest is the body of a service-search query
type searchRequest struct {
	Search     string `json:"search"`
	Filter     string `json:"filter"`
	SearchMode string `json:"searchMode"`
	OrderBy    string `json:"orderby"`
	Top        int    `json:"top"`
	Count      bool   `json:"count"`
}

// newSearchRequest filters by organisation type and orders by distance from origin
func newSearchRequest(typeCode string, origin geo.Coordinate, top int) searchRequest {
	return searchRequest{
		Search:     "*",
		Filter:     fmt.Sprintf("OrganisationTypeId eq '%s'", typeCode),
		SearchMode: "all",
		OrderBy: fmt.Sprintf("geo.distance(Geocode, geography'POINT(%s %s)')",
			formatDegrees(origin.Longitude), formatDegrees(origin.Latitude)),
		Top:   top,
		Count: true,
	}
}

// SearchOrganisations returns up to top organisations of typeCode near origin,
// in backend order. Distances are left unset
func (c *Client) SearchOrganisations(ctx context.Context, typeCode string, origin geo.Coordinate, top int) ([]types.Organisation, error) {
	payload, err := json.Marshal(newSearchRequest(typeCode, origin, top))
	if err != nil {
		return nil, fmt.Errorf("encode search request: %w", err)
	}

	u := fmt.Sprintf("%s/search?api-version=%s", c.endpoint, APIVersion)
	req, err := c.newRequest(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	c.logger.DebugContext(ctx, "searching organisations",
		"type", typeCode,
		"latitude", origin.Latitude,
		"longitude", origin.Longitude,
		"top", top,
	)

	body, err := c.do(req, opSearch)
	if err != nil {
		return nil, err
	}

	return parseSearchResponse(body)
}

// parseSearchResponse converts the value array into organisations
func parseSearchResponse(body []byte) ([]types.Organisation, error) {
	if _, dataType, _, err := jsonparser.Get(body, "value"); err != nil || dataType != jsonparser.Array {
		return nil, fmt.Errorf("parse search response: missing value array")
	}

	orgs := []types.Organisation{}
	var parseErr error
	_, err := jsonparser.ArrayEach(body, func(item []byte, dataType jsonparser.ValueType, _ int, err error) {
		if err != nil {
			parseErr = err
			return
		}
		if dataType != jsonparser.Object {
			return
		}
		orgs = append(orgs, parseOrganisation(item))
	}, "value")
	if err != nil {
		return nil, fmt.Errorf("parse search response: %w", err)
	}
	if parseErr != nil {
		return nil, fmt.Errorf("parse search response: %w", parseErr)
	}
	return orgs, nil
}

func parseOrganisation(item []byte) types.Organisation {
	org := types.Organisation{
		Name:     stringField(item, "OrganisationName"),
		TypeCode: stringField(item, "OrganisationTypeId"),
		ODSCode:  stringField(item, "ODSCode"),
		Address: types.JoinAddress(
			stringField(item, "Address1"),
			stringField(item, "Address2"),
			stringField(item, "Address3"),
			stringField(item, "City"),
			stringField(item, "County"),
		),
		Postcode: stringField(item, "Postcode"),
	}

	lat, latOK := numberField(item, "Latitude")
	lon, lonOK := numberField(item, "Longitude")
	if latOK && lonOK {
		org.Coordinate = &geo.Coordinate{Latitude: lat, Longitude: lon}
	}
	return org
}

func formatDegrees(v float64) string {
	return fmt.Sprintf("%g", v)
}
