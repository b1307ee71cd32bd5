package mocks

import "github.com/akashkottil/Flight-Tracker-V2-sub001/flights"

// Float returns a pointer to v, for optional record coordinates.
func Float(v float64) *float64 { return &v }

// TransatlanticDetail is an airborne JFK to LHR record with coordinates
// present on both endpoints.
func TransatlanticDetail() *flights.Detail {
	return &flights.Detail{
		ID:           "BA117",
		FlightNumber: "BA117",
		Airline:      "British Airways",
		Status:       "Active",
		Departure: flights.Endpoint{
			Code:      "JFK",
			Name:      "John F. Kennedy International Airport",
			City:      "New York",
			Lat:       Float(40.6413),
			Lng:       Float(-73.7781),
			Scheduled: "2025-06-18T10:00:00Z",
		},
		Arrival: flights.Endpoint{
			Code:      "LHR",
			Name:      "Heathrow Airport",
			City:      "London",
			Lat:       Float(51.47),
			Lng:       Float(-0.4543),
			Scheduled: "2025-06-18T14:00:00Z",
		},
	}
}
