// Package backend is the HTTP client for the NHS API Management search backend.
//
// Three resources are used:
//
//	GET  {endpoint}/postcodesandplaces/?search=SW1A1AA&api-version=2
//	POST {endpoint}/search?api-version=2
//	GET  {root}/conditions/{slug}
//
// where {root} is the endpoint with "/service-search" removed. Every request
// carries the "subscription-key" header.
//
// # Not Found
//
// A postcode with no usable coordinates and a health topic answered with 404
// both return (nil, nil). Any other non-2xx answer is a *StatusError.
//
// # Parsing
//
// Responses are read with github.com/buger/jsonparser rather than decoded into
// structs, since field names vary (Latitude, latitude, lat) and health topic
// sections nest to arbitrary depth via hasPart.
//
// Each call is a single attempt bound to the caller's context and the client
// timeout. Outbound requests are traced through otelhttp and counted in
// Metrics when configured.
package backend
