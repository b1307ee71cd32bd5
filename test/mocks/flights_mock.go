// Package mocks holds testify mocks of the service's collaborator interfaces.
package mocks

import (
	"context"

	"github.com/akashkottil/Flight-Tracker-V2-sub001/flights"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/iata"
	"github.com/stretchr/testify/mock"
)

// MockSource implements flights.Source
type MockSource struct {
	mock.Mock
}

func (m *MockSource) Detail(ctx context.Context, flightID string) (*flights.Detail, error) {
	args := m.Called(ctx, flightID)
	var d *flights.Detail
	if v := args.Get(0); v != nil {
		d = v.(*flights.Detail)
	}
	return d, args.Error(1)
}

// MockAirportStore implements flights.AirportStore
type MockAirportStore struct {
	mock.Mock
}

func (m *MockAirportStore) AirportLocation(ctx context.Context, code string) (iata.Location, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(iata.Location), args.Error(1)
}
