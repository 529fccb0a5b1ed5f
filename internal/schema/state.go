package schema

// BookingState is the phase of the booking flow. The string values are also
// the snapshot keys, so they must stay stable across releases.
type BookingState string

const (
	StateLocationSelection        BookingState = "LOCATION_SELECTION"
	StateWaitingPriceConfirmation BookingState = "WAITING_PRICE_CONFIRMATION"
	StateTracking                 BookingState = "TRACKING"
)

func (s BookingState) String() string {
	return string(s)
}

// ParseBookingState maps a persisted state name back to a BookingState,
// falling back to location selection on anything unknown or corrupt.
func ParseBookingState(name string) BookingState {
	switch BookingState(name) {
	case StateWaitingPriceConfirmation:
		return StateWaitingPriceConfirmation
	case StateTracking:
		return StateTracking
	default:
		return StateLocationSelection
	}
}
