package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/nhs-mcp/internal/service"
)

// Tool names
const (
	ToolGetOrganisationTypes          = "get_organisation_types"
	ToolConvertPostcode               = "convert_postcode_to_coordinates"
	ToolSearchOrganisationsByPostcode = "search_organisations_by_postcode"
	ToolSearchOrganisationsByCoords   = "search_organisations_by_coordinates"
	ToolGetHealthTopic                = "get_health_topic"
)

// Tools returns every tool definition in registration order
func Tools() []mcp.Tool {
	return []mcp.Tool{
		getOrganisationTypesTool(),
		convertPostcodeTool(),
		searchByPostcodeTool(),
		searchByCoordinatesTool(),
		getHealthTopicTool(),
	}
}

func organisationTypeProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Organisation type code (e.g. PHA for pharmacy, GPB for GP). Use get_organisation_types for the full list",
	}
}

func maxResultsProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": "Maximum number of results to return (1-50)",
		"default":     service.DefaultMaxResults,
		"minimum":     service.MinMaxResults,
		"maximum":     service.MaxMaxResults,
	}
}

// getOrganisationTypesTool returns the tool definition for get_organisation_types
func getOrganisationTypesTool() mcp.Tool {
	return mcp.Tool{
		Name:        ToolGetOrganisationTypes,
		Description: "Get a list of all available NHS organisation types",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// convertPostcodeTool returns the tool definition for convert_postcode_to_coordinates
func convertPostcodeTool() mcp.Tool {
	return mcp.Tool{
		Name:        ToolConvertPostcode,
		Description: "Convert a UK postcode to latitude and longitude coordinates",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"postcode": map[string]interface{}{
					"type":        "string",
					"description": "UK postcode (e.g. SW1A 1AA)",
				},
			},
			Required: []string{"postcode"},
		},
	}
}

// searchByPostcodeTool returns the tool definition for search_organisations_by_postcode
func searchByPostcodeTool() mcp.Tool {
	return mcp.Tool{
		Name:        ToolSearchOrganisationsByPostcode,
		Description: "Search for NHS organisations near a UK postcode, nearest first",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"organisationType": organisationTypeProperty(),
				"postcode": map[string]interface{}{
					"type":        "string",
					"description": "UK postcode to search around",
				},
				"maxResults": maxResultsProperty(),
			},
			Required: []string{"organisationType", "postcode"},
		},
	}
}

// searchByCoordinatesTool returns the tool definition for search_organisations_by_coordinates
func searchByCoordinatesTool() mcp.Tool {
	return mcp.Tool{
		Name:        ToolSearchOrganisationsByCoords,
		Description: "Search for NHS organisations near a latitude/longitude, nearest first",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"organisationType": organisationTypeProperty(),
				"latitude": map[string]interface{}{
					"type":        "number",
					"description": "Latitude in decimal degrees (-90 to 90)",
					"minimum":     -90,
					"maximum":     90,
				},
				"longitude": map[string]interface{}{
					"type":        "number",
					"description": "Longitude in decimal degrees (-180 to 180)",
					"minimum":     -180,
					"maximum":     180,
				},
				"maxResults": maxResultsProperty(),
			},
			Required: []string{"organisationType", "latitude", "longitude"},
		},
	}
}

// getHealthTopicTool returns the tool definition for get_health_topic
func getHealthTopicTool() mcp.Tool {
	return mcp.Tool{
		Name:        ToolGetHealthTopic,
		Description: "Get information about a health condition or topic from the NHS website",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"topic": map[string]interface{}{
					"type":        "string",
					"description": "Health topic slug (e.g. asthma, diabetes, flu)",
				},
			},
			Required: []string{"topic"},
		},
	}
}
