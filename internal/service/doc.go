// Package service implements the NHS lookup operations independent of any
// transport. The MCP, SSE and REST fronts are thin adapters over Service.
//
// Operations validate their input, call the search backend once per step and
// return domain errors from pkg/types. Search results are always re-ranked
// locally by Haversine distance, with backend order breaking ties.
package service
