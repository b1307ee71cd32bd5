package main

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/akashkottil/Flight-Tracker-V2-sub001/config"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/flights"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/test/mocks"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newToolset(source flights.Source) *toolset {
	return &toolset{
		source:   source,
		resolver: flights.NewResolver(nil),
		anim:     config.LoadTestConfig().AnimationConfig,
		now:      func() time.Time { return time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC) },
	}
}

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]interface{}) (*mcp.CallToolResult, map[string]interface{}) {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	if res.IsError {
		return res, map[string]interface{}{"error": text.Text}
	}
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &out), text.Text)
	return res, out
}

func TestFlightRoute(t *testing.T) {
	ts := newToolset(nil)

	res, out := call(t, ts.handleRoute, map[string]interface{}{"from": "jfk", "to": "LHR", "include_points": true})
	require.False(t, res.IsError, out)
	assert.Equal(t, 100.0, out["segments"])
	assert.Len(t, out["points"], 101)
	assert.Equal(t, -1.0, out["curve_direction"])
	assert.InDelta(t, 3451, out["distance_miles"], 25)

	res, out = call(t, ts.handleRoute, map[string]interface{}{
		"from_lat": 0.0, "from_lng": 0.0, "to_lat": 0.0, "to_lng": -10.0, "segments": 4.0,
	})
	require.False(t, res.IsError, out)
	assert.Equal(t, 4.0, out["segments"])
	assert.Equal(t, 1.0, out["curve_direction"], "westbound routes bow the other way")
	assert.InDelta(t, 270, out["heading"], 1e-9, "headings are compass bearings")
	assert.NotContains(t, out, "points")

	res, _ = call(t, ts.handleRoute, map[string]interface{}{"from": "ZZZ", "to": "LHR"})
	assert.True(t, res.IsError)
	res, _ = call(t, ts.handleRoute, map[string]interface{}{"from": "JFK"})
	assert.True(t, res.IsError)
}

func TestFlightProgress_Timestamps(t *testing.T) {
	ts := newToolset(nil)

	res, out := call(t, ts.handleProgress, map[string]interface{}{
		"status":              "Active",
		"scheduled_departure": "2025-06-18T10:00:00Z",
		"scheduled_arrival":   "2025-06-18T14:00:00Z",
		"now":                 "2025-06-18T11:00:00Z",
	})
	require.False(t, res.IsError, out)
	assert.InDelta(t, 0.25, out["progress"], 1e-9)
	assert.Equal(t, "airborne", out["class"])

	res, out = call(t, ts.handleProgress, map[string]interface{}{"status": "Boarding"})
	require.False(t, res.IsError, out)
	assert.Equal(t, 0.0, out["progress"])

	res, _ = call(t, ts.handleProgress, map[string]interface{}{"now": "yesterday"})
	assert.True(t, res.IsError)

	res, _ = call(t, ts.handleProgress, map[string]interface{}{"flight_id": "BA117"})
	assert.True(t, res.IsError, "flight lookups need a source")
}

func TestFlightProgress_FlightID(t *testing.T) {
	source := new(mocks.MockSource)
	source.On("Detail", mock.Anything, "BA117").Return(mocks.TransatlanticDetail(), nil)
	source.On("Detail", mock.Anything, "XX1").Return(nil, flights.ErrFlightNotFound)
	ts := newToolset(source)

	res, out := call(t, ts.handleProgress, map[string]interface{}{"flight_id": "ba 117"})
	require.False(t, res.IsError, out)
	assert.InDelta(t, 0.5, out["progress"].(map[string]interface{})["progress"], 1e-9)
	assert.Contains(t, out, "position")

	res, out = call(t, ts.handleProgress, map[string]interface{}{"flight_id": "XX1"})
	assert.True(t, res.IsError)
	assert.Contains(t, out["error"], "not found")
}

func TestProjectPoint(t *testing.T) {
	ts := newToolset(nil)

	res, out := call(t, ts.handleProject, map[string]interface{}{
		"lat": 10.0, "lng": 20.0,
		"center_lat": 10.0, "center_lng": 20.0,
		"lat_span": 10.0, "lng_span": 20.0,
		"width": 400.0, "height": 200.0,
	})
	require.False(t, res.IsError, out)
	pixel := out["pixel"].(map[string]interface{})
	assert.InDelta(t, 200, pixel["x"], 1e-9)
	assert.InDelta(t, 100, pixel["y"], 1e-9)
	assert.Equal(t, true, out["on_screen"])

	res, _ = call(t, ts.handleProject, map[string]interface{}{"lat": 1.0})
	assert.True(t, res.IsError)

	res, _ = call(t, ts.handleProject, map[string]interface{}{
		"lat": 1.0, "lng": 1.0, "center_lat": 0.0, "center_lng": 0.0,
		"lat_span": 1.0, "lng_span": 1.0, "width": -5.0,
	})
	assert.True(t, res.IsError)
}
