// Package mcp implements the Model Context Protocol (MCP) server for NHS lookups.
//
// The MCP server exposes five tools to AI assistants:
//   - get_organisation_types: List the NHS organisation type codes
//   - convert_postcode_to_coordinates: Geocode a UK postcode
//   - search_organisations_by_postcode: Nearest organisations of a type to a postcode
//   - search_organisations_by_coordinates: Nearest organisations of a type to a point
//   - get_health_topic: Fetch an NHS health condition article
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol. Two transports are provided:
//
//	nhs-mcp stdio   // newline-delimited JSON-RPC on stdin/stdout
//	nhs-mcp http    // POST /mcp, one JSON-RPC message per request
//
// The HTTP transport is stateless: every request is handled on its own and
// no session header is required.
//
// # Tool: search_organisations_by_coordinates
//
//	Request:
//	{
//	  "name": "search_organisations_by_coordinates",
//	  "arguments": {
//	    "organisationType": "PHA",
//	    "latitude": 51.5074,
//	    "longitude": -0.1278,
//	    "maxResults": 5
//	  }
//	}
//
//	Response (text content):
//	{
//	  "coordinates": {"latitude": 51.5074, "longitude": -0.1278},
//	  "organisationType": "PHA",
//	  "organisationTypeDescription": "Pharmacy",
//	  "resultCount": 5,
//	  "organisations": [
//	    {
//	      "name": "Boots",
//	      "organisationType": "PHA",
//	      "odsCode": "FA001",
//	      "address": "1 High St, London",
//	      "postcode": "WC2N 5DU",
//	      "coordinates": {"latitude": 51.508, "longitude": -0.128},
//	      "distanceKm": 0.06
//	    }
//	  ]
//	}
//
// # Error Handling
//
// Invalid input, unknown postcodes or topics and backend failures are
// returned as tool results with isError set and text "Error: <message>".
// Arguments that are not a JSON object produce a JSON-RPC error (-32602).
//
// # Logging
//
// The MCP server logs to stderr (stdout is reserved for MCP protocol).
package mcp
