package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/akashkottil/Flight-Tracker-V2-sub001/config"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/flights"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/iata"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/geo"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/progress"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// toolset holds what the tool handlers share. source may be nil, in which
// case flight_progress only accepts raw timestamps.
type toolset struct {
	source   flights.Source
	resolver *flights.Resolver
	anim     config.AnimationConfig
	now      func() time.Time
}

func (ts *toolset) register(s *server.MCPServer) {
	s.AddTool(routeTool(), ts.handleRoute)
	s.AddTool(progressTool(), ts.handleProgress)
	s.AddTool(projectTool(), ts.handleProject)
}

func routeTool() mcp.Tool {
	return mcp.NewTool("flight_route",
		mcp.WithDescription("Generate the curved map route between two airports or coordinates"),
		mcp.WithString("from",
			mcp.Description("Origin airport code (e.g., JFK). Alternatively pass from_lat and from_lng."),
		),
		mcp.WithString("to",
			mcp.Description("Destination airport code (e.g., LHR). Alternatively pass to_lat and to_lng."),
		),
		mcp.WithNumber("from_lat", mcp.Description("Origin latitude in degrees")),
		mcp.WithNumber("from_lng", mcp.Description("Origin longitude in degrees")),
		mcp.WithNumber("to_lat", mcp.Description("Destination latitude in degrees")),
		mcp.WithNumber("to_lng", mcp.Description("Destination longitude in degrees")),
		mcp.WithNumber("segments",
			mcp.Description("Number of curve segments (default 100, max 1000)"),
		),
		mcp.WithBoolean("include_points",
			mcp.Description("Include every sampled point in the result (default false)"),
		),
	)
}

func progressTool() mcp.Tool {
	return mcp.NewTool("flight_progress",
		mcp.WithDescription("Compute how far along its route a flight is, from a flight id or from raw timestamps"),
		mcp.WithString("flight_id",
			mcp.Description("Flight id (e.g., BA117). Requires the flight data API to be configured."),
		),
		mcp.WithString("status", mcp.Description("Flight status text (e.g., Active, Landed)")),
		mcp.WithString("scheduled_departure", mcp.Description("Scheduled departure timestamp")),
		mcp.WithString("estimated_departure", mcp.Description("Estimated departure timestamp")),
		mcp.WithString("actual_departure", mcp.Description("Actual departure timestamp")),
		mcp.WithString("scheduled_arrival", mcp.Description("Scheduled arrival timestamp")),
		mcp.WithString("estimated_arrival", mcp.Description("Estimated arrival timestamp")),
		mcp.WithString("actual_arrival", mcp.Description("Actual arrival timestamp")),
		mcp.WithString("departure_airport",
			mcp.Description("Departure airport code; its time zone applies to timestamps without an offset"),
		),
		mcp.WithString("arrival_airport",
			mcp.Description("Arrival airport code; its time zone applies to timestamps without an offset"),
		),
		mcp.WithString("now", mcp.Description("Evaluate at this RFC3339 instant instead of the current time")),
	)
}

func projectTool() mcp.Tool {
	return mcp.NewTool("project_point",
		mcp.WithDescription("Project a coordinate into pixel space for a map viewport"),
		mcp.WithNumber("lat", mcp.Required(), mcp.Description("Point latitude")),
		mcp.WithNumber("lng", mcp.Required(), mcp.Description("Point longitude")),
		mcp.WithNumber("center_lat", mcp.Required(), mcp.Description("Viewport center latitude")),
		mcp.WithNumber("center_lng", mcp.Required(), mcp.Description("Viewport center longitude")),
		mcp.WithNumber("lat_span", mcp.Required(), mcp.Description("Viewport latitude span in degrees")),
		mcp.WithNumber("lng_span", mcp.Required(), mcp.Description("Viewport longitude span in degrees")),
		mcp.WithNumber("width", mcp.Description("Viewport width in pixels (default 390)")),
		mcp.WithNumber("height", mcp.Description("Viewport height in pixels (default 844)")),
	)
}

func arguments(request mcp.CallToolRequest) (map[string]interface{}, bool) {
	argsMap, ok := request.Params.Arguments.(map[string]interface{})
	return argsMap, ok
}

func numberArg(args map[string]interface{}, key string) (float64, bool) {
	v, ok := args[key].(float64)
	return v, ok
}

// endpointArg resolves "<name>" as an airport code or "<name>_lat" and
// "<name>_lng" as coordinates.
func endpointArg(args map[string]interface{}, name string) (geo.GeoPoint, error) {
	if code, _ := args[name].(string); code != "" {
		loc, ok := iata.Lookup(code)
		if !ok {
			return geo.GeoPoint{}, fmt.Errorf("unknown airport code %q", code)
		}
		return geo.Pt(loc.Lat, loc.Lon), nil
	}
	lat, latOK := numberArg(args, name+"_lat")
	lng, lngOK := numberArg(args, name+"_lng")
	if !latOK || !lngOK {
		return geo.GeoPoint{}, fmt.Errorf("%s requires an airport code or %s_lat and %s_lng", name, name, name)
	}
	p := geo.Pt(lat, lng)
	if !p.IsValid() {
		return geo.GeoPoint{}, fmt.Errorf("%s coordinates out of range", name)
	}
	return p, nil
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error marshaling response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (ts *toolset) handleRoute(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := arguments(request)
	if !ok {
		return mcp.NewToolResultError("Invalid arguments format"), nil
	}

	from, err := endpointArg(args, "from")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	to, err := endpointArg(args, "to")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	segments := ts.anim.PathSegments
	if n, ok := numberArg(args, "segments"); ok && n >= 1 {
		segments = min(int(n), 1000)
	}
	path := geo.GeneratePathN(from, to, segments)

	response := map[string]interface{}{
		"from":             from,
		"to":               to,
		"segments":         path.Segments(),
		"distance_miles":   geo.DistanceMiles(from, to),
		"distance_km":      geo.DistanceKm(from, to),
		"distance_degrees": geo.DegreeDistance(from, to),
		"curve_magnitude":  path.Magnitude(),
		"curve_direction":  path.Direction(),
		"control_point":    path.Control(),
		"heading":          geo.NormalizeHeading(geo.Heading(from, to)),
		"midpoint":         path.At(path.IndexFor(0.5)),
		"viewport":         geo.FitRoute(from, to, ts.anim.FitPadding, ts.anim.BottomPanel),
	}
	if include, _ := args["include_points"].(bool); include {
		response["points"] = path.Points()
	}
	return jsonResult(response)
}

func (ts *toolset) handleProgress(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := arguments(request)
	if !ok {
		return mcp.NewToolResultError("Invalid arguments format"), nil
	}

	now := ts.now()
	if raw, _ := args["now"].(string); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid now: %v", err)), nil
		}
		now = t
	}

	calc := progress.NewCalculator(time.UTC)

	if id, _ := args["flight_id"].(string); strings.TrimSpace(id) != "" {
		if ts.source == nil {
			return mcp.NewToolResultError("flight_id lookups need FLIGHT_API_BASE_URL and FLIGHT_API_KEY"), nil
		}
		detail, err := ts.source.Detail(ctx, flights.NormalizeID(id))
		if err != nil {
			if errors.Is(err, flights.ErrFlightNotFound) {
				return mcp.NewToolResultError(fmt.Sprintf("Flight %s not found", id)), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("Error fetching flight: %v", err)), nil
		}
		route, err := ts.resolver.Resolve(ctx, detail)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error resolving route: %v", err)), nil
		}
		result := calc.Evaluate(route.Window, now)
		path := geo.GeneratePathN(route.From, route.To, ts.anim.PathSegments)
		return jsonResult(map[string]interface{}{
			"flight":         detail,
			"progress":       result,
			"position":       path.At(path.IndexFor(result.Progress)),
			"distance_miles": geo.DistanceMiles(route.From, route.To),
		})
	}

	str := func(key string) string {
		s, _ := args[key].(string)
		return s
	}
	w := progress.Window{
		ScheduledDeparture: str("scheduled_departure"),
		EstimatedDeparture: str("estimated_departure"),
		ActualDeparture:    str("actual_departure"),
		ScheduledArrival:   str("scheduled_arrival"),
		EstimatedArrival:   str("estimated_arrival"),
		ActualArrival:      str("actual_arrival"),
		Status:             str("status"),
		DepartureLocation:  flights.AirportTimeZone(str("departure_airport")),
		ArrivalLocation:    flights.AirportTimeZone(str("arrival_airport")),
	}
	return jsonResult(calc.Evaluate(w, now))
}

func (ts *toolset) handleProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := arguments(request)
	if !ok {
		return mcp.NewToolResultError("Invalid arguments format"), nil
	}

	values := make(map[string]float64)
	for _, key := range []string{"lat", "lng", "center_lat", "center_lng", "lat_span", "lng_span"} {
		v, ok := numberArg(args, key)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("%s is required", key)), nil
		}
		values[key] = v
	}

	size := geo.Size{W: ts.anim.ViewportWidth, H: ts.anim.ViewportHeight}
	if w, ok := numberArg(args, "width"); ok {
		size.W = w
	}
	if h, ok := numberArg(args, "height"); ok {
		size.H = h
	}
	if size.W <= 0 || size.H <= 0 {
		return mcp.NewToolResultError("width and height must be positive"), nil
	}

	viewport := geo.NewViewport(geo.Pt(values["center_lat"], values["center_lng"]), values["lat_span"], values["lng_span"])
	pixel := geo.Project(geo.Pt(values["lat"], values["lng"]), viewport, size)
	return jsonResult(map[string]interface{}{
		"pixel":     pixel,
		"on_screen": geo.OnScreen(pixel, size),
		"size":      size,
	})
}
