package schema

// MarkerRole names the labeled points the display manages.
type MarkerRole string

const (
	MarkerStart       MarkerRole = "start"
	MarkerDestination MarkerRole = "destination"
	MarkerDriver      MarkerRole = "driver"
)

// Severity colours status and indicator text.
type Severity int

const (
	SeverityNeutral Severity = iota
	SeverityOK
	SeverityError
)

// TrackingInfo is the driver panel content pushed to the display on every
// successful poll. Empty strings mean "not available".
type TrackingInfo struct {
	DriverName string
	Vehicle    string
	Distance   string
	ETA        string
	LiveStatus string
}
