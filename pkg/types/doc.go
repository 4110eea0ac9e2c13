// Package types provides shared type definitions for the NHS MCP server.
//
// These types flow from the search backend client through the service layer
// to every transport (MCP, SSE, REST) unchanged.
//
// # Organisations
//
// Organisation is built fresh from each backend response. Its distance is
// only set when the backend supplied both latitude and longitude:
//
//	org := types.Organisation{
//	    Name:       "Boots",
//	    TypeCode:   "PHA",
//	    Address:    types.JoinAddress("1 High St", "", "Leeds"),
//	    Coordinate: &geo.Coordinate{Latitude: 53.8, Longitude: -1.55},
//	}
//	org.SetDistanceFrom(origin)
//
// An organisation without a coordinate keeps a nil Distance and is never
// ranked ahead of one with a known distance.
//
// # Organisation Types
//
// The organisation type table is fixed. Lookups are case-insensitive:
//
//	code, desc, ok := types.LookupOrganisationType("pha") // "PHA", "Pharmacy", true
//
// # Errors
//
// ValidationError and NotFoundError satisfy errors.Is against ErrInvalidInput
// and ErrNotFound respectively, which transports map to their own shapes.
package types
