// Package flights fetches flight-detail records from the upstream flight
// data service and resolves them into route endpoints and time windows.
package flights

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/geo"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/progress"
)

var (
	ErrFlightNotFound = errors.New("flight not found")
	ErrNoCoordinates  = errors.New("airport coordinates unavailable")
)

// Endpoint is one end of a flight as reported by the upstream record.
type Endpoint struct {
	Code string   `json:"iata" msgpack:"iata"`
	Name string   `json:"name,omitempty" msgpack:"name,omitempty"`
	City string   `json:"city,omitempty" msgpack:"city,omitempty"`
	Lat  *float64 `json:"lat,omitempty" msgpack:"lat,omitempty"`
	Lng  *float64 `json:"lng,omitempty" msgpack:"lng,omitempty"`

	Scheduled string `json:"scheduled,omitempty" msgpack:"scheduled,omitempty"`
	Estimated string `json:"estimated,omitempty" msgpack:"estimated,omitempty"`
	Actual    string `json:"actual,omitempty" msgpack:"actual,omitempty"`
}

// Point returns the endpoint's coordinates when the record carries valid ones.
func (e Endpoint) Point() (geo.GeoPoint, bool) {
	if e.Lat == nil || e.Lng == nil {
		return geo.GeoPoint{}, false
	}
	p := geo.Pt(*e.Lat, *e.Lng)
	return p, p.IsValid()
}

func (e Endpoint) equal(o Endpoint) bool {
	return e.Code == o.Code && e.Name == o.Name && e.City == o.City &&
		floatPtrEqual(e.Lat, o.Lat) && floatPtrEqual(e.Lng, o.Lng) &&
		e.Scheduled == o.Scheduled && e.Estimated == o.Estimated && e.Actual == o.Actual
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Detail is a flight-detail record.
type Detail struct {
	ID           string   `json:"id" msgpack:"id"`
	FlightNumber string   `json:"flight_number" msgpack:"flight_number"`
	Airline      string   `json:"airline,omitempty" msgpack:"airline,omitempty"`
	Status       string   `json:"status" msgpack:"status"`
	Departure    Endpoint `json:"departure" msgpack:"departure"`
	Arrival      Endpoint `json:"arrival" msgpack:"arrival"`
}

// Window returns the progress inputs of the record. Time zones are left
// for the Resolver to fill in.
func (d Detail) Window() progress.Window {
	return progress.Window{
		ScheduledDeparture: d.Departure.Scheduled,
		EstimatedDeparture: d.Departure.Estimated,
		ActualDeparture:    d.Departure.Actual,
		ScheduledArrival:   d.Arrival.Scheduled,
		EstimatedArrival:   d.Arrival.Estimated,
		ActualArrival:      d.Arrival.Actual,
		Status:             d.Status,
	}
}

// Equal reports whether two records carry the same data.
func (d Detail) Equal(o Detail) bool {
	return d.ID == o.ID && d.FlightNumber == o.FlightNumber && d.Airline == o.Airline &&
		d.Status == o.Status && d.Departure.equal(o.Departure) && d.Arrival.equal(o.Arrival)
}

func (d Detail) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "{FlightNumber: %s ", d.FlightNumber)
	fmt.Fprintf(&b, "Airline: %s ", d.Airline)
	fmt.Fprintf(&b, "Status: %s ", d.Status)
	fmt.Fprintf(&b, "Departure: %s %s ", d.Departure.Code, d.Departure.Scheduled)
	fmt.Fprintf(&b, "Arrival: %s %s}", d.Arrival.Code, d.Arrival.Scheduled)
	return b.String()
}

// Source provides flight-detail records by flight id.
type Source interface {
	Detail(ctx context.Context, flightID string) (*Detail, error)
}

// NormalizeID upper-cases a flight id and strips the spaces users type
// between carrier and number ("ba 117" -> "BA117").
func NormalizeID(flightID string) string {
	return strings.ToUpper(strings.Join(strings.Fields(flightID), ""))
}
