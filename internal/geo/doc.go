// Package geo computes great-circle distances and ranks results by proximity.
//
// Distances use the Haversine formula over a spherical Earth of radius
// 6371 km:
//
//	km := geo.Distance(51.5074, -0.1278, 53.4808, -2.2426) // ~262 km
//
// SortByDistance is a stable nearest-first sort. Entries whose distance is
// unknown (no coordinate) are placed after every ranked entry:
//
//	geo.SortByDistance(orgs, func(o types.Organisation) (float64, bool) {
//	    if o.Distance == nil {
//	        return 0, false
//	    }
//	    return *o.Distance, true
//	})
//
// Distance is pure and safe for concurrent use. Range validation is the
// caller's responsibility; use Coordinate.Validate at input boundaries.
package geo
