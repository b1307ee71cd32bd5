package flights

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/akashkottil/Flight-Tracker-V2-sub001/iata"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/geo"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/logger"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/progress"
)

// AirportStore looks up airport coordinates not covered by the record or
// the embedded table, typically the Postgres airports table.
type AirportStore interface {
	AirportLocation(ctx context.Context, code string) (iata.Location, error)
}

// Route is a record resolved to geometry and progress inputs.
type Route struct {
	From   geo.GeoPoint    `json:"from"`
	To     geo.GeoPoint    `json:"to"`
	Window progress.Window `json:"window"`
}

// Resolver turns records into Routes. Coordinates come from the record
// first, then the iata table, then the optional store.
type Resolver struct {
	store AirportStore
}

// NewResolver returns a Resolver. store may be nil.
func NewResolver(store AirportStore) *Resolver {
	return &Resolver{store: store}
}

// Resolve returns the route of d. It fails with ErrNoCoordinates when either
// endpoint cannot be placed.
func (r *Resolver) Resolve(ctx context.Context, d *Detail) (Route, error) {
	from, depTz, err := r.endpoint(ctx, d.Departure)
	if err != nil {
		return Route{}, fmt.Errorf("departure %s: %w", d.Departure.Code, err)
	}
	to, arrTz, err := r.endpoint(ctx, d.Arrival)
	if err != nil {
		return Route{}, fmt.Errorf("arrival %s: %w", d.Arrival.Code, err)
	}

	w := d.Window()
	w.DepartureLocation = TimeZone(depTz)
	w.ArrivalLocation = TimeZone(arrTz)
	return Route{From: from, To: to, Window: w}, nil
}

func (r *Resolver) endpoint(ctx context.Context, e Endpoint) (geo.GeoPoint, string, error) {
	loc, known := iata.Lookup(e.Code)
	if p, ok := e.Point(); ok {
		return p, loc.Tz, nil
	}
	if known {
		return geo.Pt(loc.Lat, loc.Lon), loc.Tz, nil
	}
	if r.store != nil && e.Code != "" {
		stored, err := r.store.AirportLocation(ctx, e.Code)
		if err == nil {
			p := geo.Pt(stored.Lat, stored.Lon)
			if p.IsValid() {
				return p, stored.Tz, nil
			}
		} else if ctx.Err() != nil {
			return geo.GeoPoint{}, "", ctx.Err()
		} else {
			logger.Debug("Airport store lookup failed", "iata", e.Code, "error", err)
		}
	}
	return geo.GeoPoint{}, "", ErrNoCoordinates
}

var timeZoneCache sync.Map // map[string]*time.Location

// TimeZone loads tz once. Unknown or empty zones yield nil, which leaves
// zone-less timestamps to the calculator's default.
func TimeZone(tz string) *time.Location {
	if tz == "" || tz == iata.NotSupported {
		return nil
	}
	if cached, ok := timeZoneCache.Load(tz); ok {
		return cached.(*time.Location)
	}

	location, err := time.LoadLocation(tz)
	if err != nil {
		location = nil
	}
	timeZoneCache.Store(tz, location)
	return location
}

// AirportTimeZone returns the zone of an airport in the embedded table, or
// nil when the code is unknown.
func AirportTimeZone(code string) *time.Location {
	loc, ok := iata.Lookup(code)
	if !ok {
		return nil
	}
	return TimeZone(loc.Tz)
}
