// Package iata holds the coordinates and time zones of major airports, keyed
// by IATA code. Coordinates are airport reference points in decimal degrees.
package iata

import (
	"sort"
	"strings"

	// Airport zones must resolve in minimal containers without a system
	// zoneinfo database.
	_ "time/tzdata"
)

// Location contains airport location data including city, timezone, and coordinates.
type Location struct {
	City string  `json:"city"`
	Tz   string  `json:"tz"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// NotSupported is returned in City and Tz by IATATimeZone for unknown codes.
const NotSupported = "Not supported IATA Code"

// Lookup returns the location of the airport with the given IATA code.
// The code is case-insensitive.
func Lookup(code string) (Location, bool) {
	loc, ok := airports[strings.ToUpper(strings.TrimSpace(code))]
	return loc, ok
}

// IATATimeZone turns IATA airport codes into the time zone where the airport is located.
// If IATATimeZone can't find an IATA airport code, then it returns NotSupported.
func IATATimeZone(code string) Location {
	if loc, ok := Lookup(code); ok {
		return loc
	}
	return Location{NotSupported, NotSupported, 0, 0}
}

// Codes returns every known IATA code in sorted order.
func Codes() []string {
	codes := make([]string, 0, len(airports))
	for code := range airports {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

var airports = map[string]Location{
	"ADD": {"Addis Ababa", "Africa/Addis_Ababa", 8.977890, 38.799301},
	"ADL": {"Adelaide", "Australia/Adelaide", -34.945000, 138.531006},
	"AKL": {"Auckland", "Pacific/Auckland", -37.008099, 174.792007},
	"AMM": {"Amman", "Asia/Amman", 31.722601, 35.993198},
	"AMS": {"Amsterdam", "Europe/Amsterdam", 52.308601, 4.763890},
	"ANC": {"Anchorage", "America/Anchorage", 61.174400, -149.996002},
	"ARN": {"Stockholm", "Europe/Stockholm", 59.651901, 17.918600},
	"ATH": {"Athens", "Europe/Athens", 37.936401, 23.944500},
	"ATL": {"Atlanta", "America/New_York", 33.636700, -84.428101},
	"AUH": {"Abu Dhabi", "Asia/Dubai", 24.433001, 54.651100},
	"AUS": {"Austin", "America/Chicago", 30.194500, -97.669899},
	"BAH": {"Manama", "Asia/Bahrain", 26.270800, 50.633598},
	"BCN": {"Barcelona", "Europe/Madrid", 41.297100, 2.078460},
	"BKK": {"Bangkok", "Asia/Bangkok", 13.681100, 100.747002},
	"BLR": {"Bangalore", "Asia/Kolkata", 13.197900, 77.706299},
	"BNA": {"Nashville", "America/Chicago", 36.124500, -86.678200},
	"BNE": {"Brisbane", "Australia/Brisbane", -27.384199, 153.117004},
	"BOG": {"Bogota", "America/Bogota", 4.701590, -74.146900},
	"BOM": {"Mumbai", "Asia/Kolkata", 19.088699, 72.867897},
	"BOS": {"Boston", "America/New_York", 42.364300, -71.005203},
	"BRU": {"Brussels", "Europe/Brussels", 50.901402, 4.484440},
	"BUD": {"Budapest", "Europe/Budapest", 47.436901, 19.255600},
	"BWI": {"Baltimore", "America/New_York", 39.175400, -76.668297},
	"CAI": {"Cairo", "Africa/Cairo", 30.121901, 31.405600},
	"CAN": {"Guangzhou", "Asia/Shanghai", 23.392401, 113.299004},
	"CCU": {"Kolkata", "Asia/Kolkata", 22.654699, 88.446701},
	"CDG": {"Paris", "Europe/Paris", 49.012798, 2.550000},
	"CGK": {"Jakarta", "Asia/Jakarta", -6.125570, 106.655998},
	"CHC": {"Christchurch", "Pacific/Auckland", -43.489399, 172.531998},
	"CLT": {"Charlotte", "America/New_York", 35.214001, -80.943100},
	"CMB": {"Colombo", "Asia/Colombo", 7.180760, 79.884102},
	"CMN": {"Casablanca", "Africa/Casablanca", 33.367500, -7.589970},
	"COK": {"Cochin", "Asia/Kolkata", 10.152000, 76.401901},
	"CPH": {"Copenhagen", "Europe/Copenhagen", 55.617901, 12.656000},
	"CPT": {"Cape Town", "Africa/Johannesburg", -33.964802, 18.601700},
	"CTU": {"Chengdu", "Asia/Shanghai", 30.578501, 103.946999},
	"CUN": {"Cancun", "America/Cancun", 21.036501, -86.877098},
	"DAC": {"Dhaka", "Asia/Dhaka", 23.843347, 90.397783},
	"DCA": {"Washington", "America/New_York", 38.852100, -77.037697},
	"DEL": {"New Delhi", "Asia/Kolkata", 28.566500, 77.103104},
	"DEN": {"Denver", "America/Denver", 39.861698, -104.672997},
	"DFW": {"Dallas-Fort Worth", "America/Chicago", 32.896801, -97.038002},
	"DOH": {"Doha", "Asia/Qatar", 25.260595, 51.613766},
	"DPS": {"Denpasar-Bali Island", "Asia/Makassar", -8.748170, 115.167000},
	"DTW": {"Detroit", "America/Detroit", 42.212399, -83.353401},
	"DUB": {"Dublin", "Europe/Dublin", 53.421299, -6.270070},
	"DXB": {"Dubai", "Asia/Dubai", 25.252800, 55.364399},
	"EDI": {"Edinburgh", "Europe/London", 55.950001, -3.372500},
	"EWR": {"Newark", "America/New_York", 40.692501, -74.168701},
	"EZE": {"Ezeiza", "America/Argentina/Buenos_Aires", -34.822200, -58.535800},
	"FCO": {"Rome", "Europe/Rome", 41.804501, 12.250800},
	"FLL": {"Fort Lauderdale", "America/New_York", 26.072599, -80.152702},
	"FRA": {"Frankfurt-am-Main", "Europe/Berlin", 50.026402, 8.543130},
	"GDL": {"Guadalajara", "America/Mexico_City", 20.521799, -103.310997},
	"GIG": {"Rio De Janeiro", "America/Sao_Paulo", -22.809999, -43.250557},
	"GMP": {"Seoul", "Asia/Seoul", 37.558300, 126.791000},
	"GRU": {"Sao Paulo", "America/Sao_Paulo", -23.435556, -46.473057},
	"GVA": {"Geneva", "Europe/Paris", 46.238098, 6.108950},
	"HAN": {"Hanoi", "Asia/Bangkok", 21.221201, 105.806999},
	"HEL": {"Helsinki", "Europe/Helsinki", 60.317200, 24.963301},
	"HKG": {"Hong Kong", "Asia/Hong_Kong", 22.308901, 113.915001},
	"HKT": {"Phuket", "Asia/Bangkok", 8.113200, 98.316902},
	"HND": {"Tokyo", "Asia/Tokyo", 35.552299, 139.779999},
	"HNL": {"Honolulu", "Pacific/Honolulu", 21.318701, -157.921997},
	"HYD": {"Hyderabad", "Asia/Kolkata", 17.231318, 78.429855},
	"IAD": {"Dulles", "America/New_York", 38.944500, -77.455803},
	"IAH": {"Houston", "America/Chicago", 29.984400, -95.341400},
	"ICN": {"Seoul", "Asia/Seoul", 37.469101, 126.450996},
	"ISB": {"Islamabad", "Asia/Karachi", 33.549083, 72.825650},
	"IST": {"Arnavutkoy", "Europe/Istanbul", 41.262222, 28.727778},
	"JED": {"Jeddah", "Asia/Riyadh", 21.679600, 39.156502},
	"JFK": {"New York", "America/New_York", 40.639801, -73.778900},
	"JNB": {"Johannesburg", "Africa/Johannesburg", -26.133333, 28.250000},
	"KEF": {"Reykjavik", "Atlantic/Reykjavik", 63.985001, -22.605600},
	"KHI": {"Karachi", "Asia/Karachi", 24.906500, 67.160797},
	"KIX": {"Osaka", "Asia/Tokyo", 34.427299, 135.244003},
	"KTM": {"Kathmandu", "Asia/Kathmandu", 27.696600, 85.359100},
	"KUL": {"Kuala Lumpur", "Asia/Kuala_Lumpur", 2.745580, 101.709999},
	"KWI": {"Kuwait City", "Asia/Kuwait", 29.226601, 47.968899},
	"LAS": {"Las Vegas", "America/Los_Angeles", 36.080101, -115.152000},
	"LAX": {"Los Angeles", "America/Los_Angeles", 33.942501, -118.407997},
	"LGA": {"New York", "America/New_York", 40.777199, -73.872597},
	"LGW": {"London", "Europe/London", 51.148102, -0.190278},
	"LHR": {"London", "Europe/London", 51.470600, -0.461941},
	"LIM": {"Lima", "America/Lima", -12.021900, -77.114304},
	"LIS": {"Lisbon", "Europe/Lisbon", 38.781300, -9.135920},
	"LOS": {"Lagos", "Africa/Lagos", 6.577370, 3.321160},
	"MAA": {"Chennai", "Asia/Kolkata", 12.990005, 80.169296},
	"MAD": {"Madrid", "Europe/Madrid", 40.493600, -3.566760},
	"MAN": {"Manchester", "Europe/London", 53.353699, -2.274950},
	"MCO": {"Orlando", "America/New_York", 28.429399, -81.308998},
	"MCT": {"Muscat", "Asia/Muscat", 23.593300, 58.284401},
	"MDW": {"Chicago", "America/Chicago", 41.785999, -87.752403},
	"MEL": {"Melbourne", "Australia/Melbourne", -37.673302, 144.843002},
	"MEX": {"Mexico City", "America/Mexico_City", 19.436300, -99.072098},
	"MIA": {"Miami", "America/New_York", 25.793200, -80.290604},
	"MNL": {"Manila", "Asia/Manila", 14.508600, 121.019997},
	"MSP": {"Minneapolis", "America/Chicago", 44.882000, -93.221802},
	"MUC": {"Munich", "Europe/Berlin", 48.353802, 11.786100},
	"MXP": {"Milan", "Europe/Rome", 45.630600, 8.728110},
	"NBO": {"Nairobi", "Africa/Nairobi", -1.319240, 36.927799},
	"NRT": {"Tokyo", "Asia/Tokyo", 35.764702, 140.386002},
	"ORD": {"Chicago", "America/Chicago", 41.978600, -87.904800},
	"ORY": {"Paris", "Europe/Paris", 48.725300, 2.359440},
	"OSL": {"Oslo", "Europe/Oslo", 60.193901, 11.100400},
	"PEK": {"Beijing", "Asia/Shanghai", 40.080101, 116.584999},
	"PER": {"Perth", "Australia/Perth", -31.940300, 115.967003},
	"PHL": {"Philadelphia", "America/New_York", 39.871899, -75.241096},
	"PHX": {"Phoenix", "America/Phoenix", 33.434299, -112.012001},
	"PKX": {"Beijing", "Asia/Shanghai", 39.509167, 116.410556},
	"PRG": {"Prague", "Europe/Prague", 50.100800, 14.260000},
	"PTY": {"Tocumen", "America/Panama", 9.071360, -79.383499},
	"PVG": {"Shanghai", "Asia/Shanghai", 31.143400, 121.805000},
	"RUH": {"Riyadh", "Asia/Riyadh", 24.957600, 46.698799},
	"SAN": {"San Diego", "America/Los_Angeles", 32.733601, -117.190002},
	"SCL": {"Santiago", "America/Santiago", -33.393002, -70.785797},
	"SEA": {"Seattle", "America/Los_Angeles", 47.449001, -122.308998},
	"SFO": {"San Francisco", "America/Los_Angeles", 37.618999, -122.375000},
	"SGN": {"Ho Chi Minh City", "Asia/Ho_Chi_Minh", 10.818800, 106.652000},
	"SIN": {"Singapore", "Asia/Singapore", 1.350190, 103.994003},
	"SLC": {"Salt Lake City", "America/Denver", 40.788399, -111.977997},
	"SYD": {"Sydney", "Australia/Sydney", -33.946098, 151.177002},
	"SZX": {"Shenzhen", "Asia/Shanghai", 22.639299, 113.810997},
	"TLV": {"Tel Aviv", "Asia/Jerusalem", 32.011398, 34.886700},
	"TPA": {"Tampa", "America/New_York", 27.975500, -82.533203},
	"TPE": {"Taipei", "Asia/Taipei", 25.077700, 121.233002},
	"TRV": {"Trivandrum", "Asia/Kolkata", 8.482120, 76.920097},
	"VIE": {"Vienna", "Europe/Vienna", 48.110298, 16.569700},
	"WAW": {"Warsaw", "Europe/Warsaw", 52.165699, 20.967100},
	"YUL": {"Montreal", "America/Toronto", 45.470600, -73.740799},
	"YVR": {"Vancouver", "America/Vancouver", 49.193901, -123.183998},
	"YYC": {"Calgary", "America/Edmonton", 51.113899, -114.019997},
	"YYZ": {"Toronto", "America/Toronto", 43.677200, -79.630600},
	"ZRH": {"Zurich", "Europe/Zurich", 47.464699, 8.549170},
}
