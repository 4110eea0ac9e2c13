// Package httpapi serves the HTTP surface: REST lookups, one Server-Sent
// Events stream per tool call, the tool catalogue, and health endpoints.
//
// # REST
//
//	GET  /api/organisation-types
//	GET  /api/postcode/{postcode}
//	GET  /api/search/postcode?organisationType=PHA&postcode=LS1+4AP&maxResults=5
//	GET  /api/search/coordinates?organisationType=PHA&latitude=53.8&longitude=-1.55
//	GET  /api/health-topic/{topic}
//	POST /api/GetContent            {"topic": "asthma"}
//
// Responses are wrapped as {"success": true, "data": ...}. Failures use
// {"success": false, "error": {"code": ..., "message": ...}} with status 400
// for invalid input, 404 for unknown postcodes or topics, 503 when no
// subscription key is configured and 502 for backend failures.
//
// # Streams
//
// GET (query arguments) or POST (JSON body) /mcp/tools/{tool} answers with
// text/event-stream frames:
//
//	event: metadata
//	data: {"organisationType":"PHA",...}
//
//	event: organisation
//	data: {"name":"Boots",...}
//
//	event: complete
//	data: {"success":true,"resultCount":1}
//
// A failure is sent as a single error event and ends the stream.
package httpapi
