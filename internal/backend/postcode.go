package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/buger/jsonparser"

	"github.com/dshills/nhs-mcp/pkg/types"
)

const opPostcode = "postcode"

// Field names the postcode index has used for coordinates, in lookup order
var (
	latitudeKeys  = []string{"Latitude", "latitude", "lat"}
	longitudeKeys = []string{"Longitude", "longitude", "lng", "lon"}
)

// NormalizePostcode strips all whitespace and upper-cases the postcode
func NormalizePostcode(postcode string) string {
	return strings.ToUpper(strings.Join(strings.Fields(postcode), ""))
}

// GeocodePostcode resolves a UK postcode to coordinates. It returns nil with no
// error when the backend has no match
func (c *Client) GeocodePostcode(ctx context.Context, postcode string) (*types.PostcodeResult, error) {
	u := fmt.Sprintf("%s/postcodesandplaces/?search=%s&api-version=%s",
		c.endpoint, url.QueryEscape(NormalizePostcode(postcode)), APIVersion)

	req, err := c.newRequest(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	c.logger.DebugContext(ctx, "geocoding postcode", "postcode", postcode)

	body, err := c.do(req, opPostcode)
	if err != nil {
		return nil, err
	}

	result, err := parsePostcodeResponse(body, postcode)
	if err != nil {
		return nil, err
	}
	if result == nil {
		c.logger.WarnContext(ctx, "no coordinates for postcode", "postcode", postcode)
	}
	return result, nil
}

// parsePostcodeResponse reads the first entry of the value array
func parsePostcodeResponse(body []byte, postcode string) (*types.PostcodeResult, error) {
	first, dataType, _, err := jsonparser.Get(body, "value", "[0]")
	if err == jsonparser.KeyPathNotFoundError || dataType == jsonparser.NotExist {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("parse postcode response: %w", err)
	}
	if dataType != jsonparser.Object {
		return nil, nil
	}

	lat, ok := firstNumberField(first, latitudeKeys...)
	if !ok {
		return nil, nil
	}
	lon, ok := firstNumberField(first, longitudeKeys...)
	if !ok {
		return nil, nil
	}

	return &types.PostcodeResult{
		Postcode:  postcode,
		Latitude:  lat,
		Longitude: lon,
	}, nil
}
