package booking

import (
	"context"

	"bitbucket.org/crgw/booking-client/internal/schema"
)

// API is the outbound port to the booking backend: the four logical
// operations against a single user-supplied endpoint.
type API interface {
	SubmitLocations(ctx context.Context, endpoint string, start, dest schema.GeoPoint) (string, error)
	ConfirmPrice(ctx context.Context, endpoint, requestID string) (string, error)
	PollDriver(ctx context.Context, endpoint, trackingID string) (string, error)
	CancelBooking(ctx context.Context, endpoint, trackingID string) (string, error)
}

// Display is the map/panel surface the session drives. The session only
// calls these capabilities; it never reads display internals beyond the
// single viewport containment query needed for auto-fit.
type Display interface {
	PlaceMarker(role schema.MarkerRole, p schema.GeoPoint)
	RemoveMarker(role schema.MarkerRole)
	FitToBounds(points []schema.GeoPoint)
	ViewportContains(p schema.GeoPoint) bool

	SetStatusText(text string, severity schema.Severity)
	SetCoordinateReadout(role schema.MarkerRole, p schema.GeoPoint)
	SetTrackingPanelVisible(visible bool)
	SetTrackingInfo(info schema.TrackingInfo)
	SetPollingIndicator(text string, severity schema.Severity)
	SetBusy(busy bool)

	ShowNotice(text string)
	PromptPriceConfirmation(quote schema.BookingQuote, start, dest *schema.GeoPoint)
}
