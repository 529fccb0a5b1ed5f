package schema

import "strings"

// BookingQuote is the parsed result of a submit response. The quote is
// consumed immediately: it populates BookingData and drives the price
// confirmation prompt.
type BookingQuote struct {
	Price     float64
	RequestID string
}

// DriverUpdate is the parsed result of a single poll response. Everything
// except the coordinates is optional.
type DriverUpdate struct {
	Lat     float64
	Lng     float64
	Name    string
	Vehicle string
	ETA     string
	Status  string
}

// Terminal reports whether the update's status string marks the trip as
// over. Matching is case-insensitive substring, so "Driver Arrived" counts.
func (u DriverUpdate) Terminal() bool {
	status := strings.ToLower(u.Status)
	return strings.Contains(status, "arrived") ||
		strings.Contains(status, "completed") ||
		strings.Contains(status, "cancelled")
}

// BookingData is the mutable session record. It is owned by the booking
// session and must only be touched from the presentation goroutine.
type BookingData struct {
	RequestID string
	BookingID string
	Price     *float64

	DriverLat     *float64
	DriverLng     *float64
	DriverName    string
	DriverVehicle string
	DriverETA     string
	DriverStatus  string
}

// TrackingID is the identifier used for poll and cancel calls: the booking
// id when known, else the request id. Empty means neither exists and no
// poll/cancel may be attempted.
func (d *BookingData) TrackingID() string {
	if strings.TrimSpace(d.BookingID) != "" {
		return d.BookingID
	}
	return d.RequestID
}

// ApplyDriverUpdate overwrites the driver fields with the latest poll
// result. Fields are replaced wholesale, never merged.
func (d *BookingData) ApplyDriverUpdate(u DriverUpdate) {
	lat, lng := u.Lat, u.Lng
	d.DriverLat = &lat
	d.DriverLng = &lng
	d.DriverName = u.Name
	d.DriverVehicle = u.Vehicle
	d.DriverETA = u.ETA
	d.DriverStatus = u.Status
}

// ClearDriver drops everything learned from polling.
func (d *BookingData) ClearDriver() {
	d.DriverLat = nil
	d.DriverLng = nil
	d.DriverName = ""
	d.DriverVehicle = ""
	d.DriverETA = ""
	d.DriverStatus = ""
}

// ResetIdentifiers forgets the booking once it has ended.
func (d *BookingData) ResetIdentifiers() {
	d.RequestID = ""
	d.BookingID = ""
	d.Price = nil
}
