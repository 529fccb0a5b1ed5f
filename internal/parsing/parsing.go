// Package parsing extracts typed values from the loosely structured JSON the
// booking backend returns. Field naming is not contractually fixed, so every
// lookup tries an ordered list of candidate keys and accepts the first value
// that coerces; the first documented alias wins when several are present.
// Nothing in this package panics or returns an error: absence of a required
// value is signalled by a false ok.
package parsing

import (
	"encoding/json"
	"strconv"
	"strings"

	"bitbucket.org/crgw/booking-client/internal/schema"
)

var (
	quotePriceKeys = []string{"price", "taxiPrice", "amount", "fare"}
	quoteIDKeys    = []string{"requestId", "bookingId", "id"}

	driverLatKeys     = []string{"driverLat", "lat", "latitude"}
	driverLngKeys     = []string{"driverLng", "lng", "lon", "longitude"}
	driverNameKeys    = []string{"driverName", "name", "driverId"}
	driverVehicleKeys = []string{"vehicle", "car", "vehicleInfo"}
	driverETAKeys     = []string{"eta", "etaMinutes", "etaMins", "etaText"}
	driverStatusKeys  = []string{"status", "message", "state"}

	bookingIDKeys = []string{"bookingId", "requestId", "id"}
)

// FirstString returns the value of the first candidate key that is present,
// non-null and, after trimming, neither empty nor the literal "null".
func FirstString(obj map[string]any, keys ...string) (string, bool) {
	for _, key := range keys {
		value, ok := obj[key]
		if !ok || value == nil {
			continue
		}

		s := stringify(value)
		trimmed := strings.TrimSpace(s)
		if trimmed == "" || strings.EqualFold(trimmed, "null") {
			continue
		}

		return s, true
	}

	return "", false
}

// FirstFloat returns the value of the first candidate key that is present,
// non-null and coercible to a float, accepting either a JSON number or a
// numeric string.
func FirstFloat(obj map[string]any, keys ...string) (float64, bool) {
	for _, key := range keys {
		value, ok := obj[key]
		if !ok || value == nil {
			continue
		}

		switch v := value.(type) {
		case float64:
			return v, true
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err == nil {
				return f, true
			}
		case json.Number:
			f, err := v.Float64()
			if err == nil {
				return f, true
			}
		}
	}

	return 0, false
}

// ParseQuote reads a submit response. The price is required; the request id
// may legitimately be absent in which case it stays empty.
func ParseQuote(body string) (schema.BookingQuote, bool) {
	obj, ok := decode(body)
	if !ok {
		return schema.BookingQuote{}, false
	}

	price, ok := FirstFloat(obj, quotePriceKeys...)
	if !ok {
		return schema.BookingQuote{}, false
	}

	requestID, _ := FirstString(obj, quoteIDKeys...)

	return schema.BookingQuote{
		Price:     price,
		RequestID: requestID,
	}, true
}

// ParseDriverUpdate reads a poll response. Both coordinates are required;
// name, vehicle, eta and status are optional.
func ParseDriverUpdate(body string) (schema.DriverUpdate, bool) {
	obj, ok := decode(body)
	if !ok {
		return schema.DriverUpdate{}, false
	}

	lat, latOK := FirstFloat(obj, driverLatKeys...)
	lng, lngOK := FirstFloat(obj, driverLngKeys...)
	if !latOK || !lngOK {
		return schema.DriverUpdate{}, false
	}

	name, _ := FirstString(obj, driverNameKeys...)
	vehicle, _ := FirstString(obj, driverVehicleKeys...)
	eta, _ := FirstString(obj, driverETAKeys...)
	status, _ := FirstString(obj, driverStatusKeys...)

	return schema.DriverUpdate{
		Lat:     lat,
		Lng:     lng,
		Name:    name,
		Vehicle: vehicle,
		ETA:     eta,
		Status:  status,
	}, true
}

// ParseBookingID refines the tracking identifier from a price confirmation
// response.
func ParseBookingID(body string) (string, bool) {
	obj, ok := decode(body)
	if !ok {
		return "", false
	}

	return FirstString(obj, bookingIDKeys...)
}

func decode(body string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(body), &obj); err != nil {
		return nil, false
	}

	return obj, obj != nil
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}
