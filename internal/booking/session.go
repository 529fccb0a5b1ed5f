// Package booking owns the booking lifecycle: the state machine that walks a
// trip from location selection through price confirmation into driver
// tracking, and the periodic poller that feeds it while tracking.
//
// A Session and its Display belong to a single presentation goroutine.
// Network calls run on background goroutines and marshal their results back
// through the session's dispatch function; result handlers re-check state
// before mutating anything, so a call that completes after the session moved
// on is dropped.
package booking

import (
	"context"
	"strings"
	"time"

	"bitbucket.org/crgw/booking-client/internal/parsing"
	"bitbucket.org/crgw/booking-client/internal/schema"
	"bitbucket.org/crgw/booking-client/internal/snapshot"
	"github.com/rs/zerolog"
)

const DefaultPollInterval = 8 * time.Second

type Config struct {
	API          API
	Display      Display
	Logger       *zerolog.Logger
	Endpoint     string
	PollInterval time.Duration

	// Dispatch marshals a function onto the presentation goroutine. Leaving
	// it nil runs callbacks inline, which is only safe in tests that drive
	// the session from a single goroutine.
	Dispatch func(func())
}

type Session struct {
	api      API
	display  Display
	dispatch func(func())
	logger   *zerolog.Logger

	endpoint     string
	pollInterval time.Duration

	state schema.BookingState
	data  schema.BookingData
	start *schema.GeoPoint
	dest  *schema.GeoPoint

	busy       bool
	pollErrors int
	poller     *poller
}

func NewSession(cfg Config) *Session {
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	dispatch := cfg.Dispatch
	if dispatch == nil {
		dispatch = func(f func()) { f() }
	}

	return &Session{
		api:          cfg.API,
		display:      cfg.Display,
		dispatch:     dispatch,
		logger:       cfg.Logger,
		endpoint:     strings.TrimSpace(cfg.Endpoint),
		pollInterval: interval,
		state:        schema.StateLocationSelection,
	}
}

func (s *Session) State() schema.BookingState { return s.state }

func (s *Session) Data() schema.BookingData { return s.data }

func (s *Session) Endpoint() string { return s.endpoint }

func (s *Session) ConsecutivePollErrors() int { return s.pollErrors }

func (s *Session) StartPoint() *schema.GeoPoint { return s.start }

func (s *Session) DestinationPoint() *schema.GeoPoint { return s.dest }

// SetEndpoint updates the backend address. Only allowed while still
// selecting locations; once a request is in flight the endpoint is pinned.
func (s *Session) SetEndpoint(endpoint string) {
	if s.state != schema.StateLocationSelection || s.busy {
		return
	}

	s.endpoint = strings.TrimSpace(endpoint)
}

// SetStart records the start point and redraws its marker.
func (s *Session) SetStart(p schema.GeoPoint) {
	if s.state != schema.StateLocationSelection || s.busy {
		return
	}

	point := p
	s.start = &point
	s.display.PlaceMarker(schema.MarkerStart, point)
	s.display.SetCoordinateReadout(schema.MarkerStart, point)
	s.display.SetStatusText("Start point set", schema.SeverityNeutral)
}

// SetDestination records the destination point and redraws its marker.
func (s *Session) SetDestination(p schema.GeoPoint) {
	if s.state != schema.StateLocationSelection || s.busy {
		return
	}

	point := p
	s.dest = &point
	s.display.PlaceMarker(schema.MarkerDestination, point)
	s.display.SetCoordinateReadout(schema.MarkerDestination, point)
	s.display.SetStatusText("Destination set", schema.SeverityNeutral)
}

// MoveStart follows a marker drag: the point moves but the status line and
// selection mode stay put.
func (s *Session) MoveStart(p schema.GeoPoint) {
	if s.state != schema.StateLocationSelection {
		return
	}

	point := p
	s.start = &point
	s.display.SetCoordinateReadout(schema.MarkerStart, point)
}

// MoveDestination follows a marker drag of the destination.
func (s *Session) MoveDestination(p schema.GeoPoint) {
	if s.state != schema.StateLocationSelection {
		return
	}

	point := p
	s.dest = &point
	s.display.SetCoordinateReadout(schema.MarkerDestination, point)
}

// Submit sends the selected locations for a quote. Validation failures are
// surfaced immediately and never reach the network; while the request is in
// flight the session is busy and further actions are ignored.
func (s *Session) Submit() {
	if s.state != schema.StateLocationSelection || s.busy {
		return
	}

	if s.start == nil || s.dest == nil {
		s.display.ShowNotice("Select both start and destination points first")
		return
	}

	if s.endpoint == "" {
		s.display.ShowNotice("Enter the booking API endpoint")
		return
	}

	start, dest := *s.start, *s.dest
	endpoint := s.endpoint

	s.setBusy(true)
	s.display.SetStatusText("Submitting locations...", schema.SeverityNeutral)

	go func() {
		body, err := s.api.SubmitLocations(context.Background(), endpoint, start, dest)
		s.dispatch(func() { s.finishSubmit(body, err) })
	}()
}

func (s *Session) finishSubmit(body string, err error) {
	s.setBusy(false)

	if s.state != schema.StateLocationSelection {
		return
	}

	if err != nil {
		s.display.SetStatusText("Network error: "+err.Error(), schema.SeverityError)
		s.display.ShowNotice(err.Error())
		return
	}

	quote, ok := parsing.ParseQuote(body)
	if !ok {
		s.display.SetStatusText("Invalid price response", schema.SeverityError)
		s.display.ShowNotice(body)
		return
	}

	s.data.RequestID = quote.RequestID
	price := quote.Price
	s.data.Price = &price

	s.state = schema.StateWaitingPriceConfirmation
	s.logInfo().Str("requestId", quote.RequestID).Float64("price", quote.Price).Msg("quote received")

	s.display.PromptPriceConfirmation(quote, s.start, s.dest)
}

// AcceptPrice confirms the quoted price with the backend and, on success,
// enters tracking with an immediate first poll.
func (s *Session) AcceptPrice() {
	if s.state != schema.StateWaitingPriceConfirmation || s.busy {
		return
	}

	if s.endpoint == "" {
		s.display.ShowNotice("Enter the booking API endpoint")
		s.state = schema.StateLocationSelection
		return
	}

	endpoint := s.endpoint
	requestID := s.data.RequestID

	s.setBusy(true)
	s.display.SetStatusText("Confirming price...", schema.SeverityNeutral)

	go func() {
		body, err := s.api.ConfirmPrice(context.Background(), endpoint, requestID)
		s.dispatch(func() { s.finishConfirm(body, err) })
	}()
}

func (s *Session) finishConfirm(body string, err error) {
	s.setBusy(false)

	if s.state != schema.StateWaitingPriceConfirmation {
		return
	}

	if err != nil {
		s.state = schema.StateLocationSelection
		s.display.SetStatusText("Network error: "+err.Error(), schema.SeverityError)
		s.display.ShowNotice(err.Error())
		return
	}

	bookingID, ok := parsing.ParseBookingID(body)
	if !ok || strings.TrimSpace(bookingID) == "" {
		bookingID = s.data.RequestID
	}
	s.data.BookingID = bookingID

	s.state = schema.StateTracking
	s.logInfo().Str("bookingId", bookingID).Msg("booking confirmed")

	s.display.SetTrackingPanelVisible(true)
	s.display.SetStatusText("Booking confirmed, tracking driver", schema.SeverityOK)
	s.display.SetTrackingInfo(schema.TrackingInfo{LiveStatus: "Searching for driver"})

	s.startPolling(true)
}

// RejectPrice declines the quote and returns to location selection.
func (s *Session) RejectPrice() {
	if s.state != schema.StateWaitingPriceConfirmation || s.busy {
		return
	}

	s.state = schema.StateLocationSelection
	s.display.SetStatusText("Ready", schema.SeverityNeutral)
}

// Cancel ends tracking. The cancellation request is fire-and-forget: its
// outcome surfaces as a notice but the session resets regardless.
func (s *Session) Cancel() {
	if s.state != schema.StateTracking {
		return
	}

	s.stopPolling()

	endpoint := s.endpoint
	trackingID := s.data.TrackingID()

	if endpoint != "" && strings.TrimSpace(trackingID) != "" {
		go func() {
			body, err := s.api.CancelBooking(context.Background(), endpoint, trackingID)
			s.dispatch(func() {
				if err != nil {
					s.display.ShowNotice(err.Error())
					return
				}
				s.display.ShowNotice(body)
			})
		}()
	}

	s.resetBooking()
	s.display.SetStatusText("Ready", schema.SeverityNeutral)
}

// ResumeTracking restarts the poller after a session restore. The first
// tick is delayed a full interval to avoid a redundant immediate load.
func (s *Session) ResumeTracking() {
	if s.state != schema.StateTracking {
		return
	}

	s.startPolling(false)
}

// StopPolling halts the poll loop without touching booking state. Used on
// process suspension; ResumeTracking picks the loop back up.
func (s *Session) StopPolling() {
	s.stopPolling()
}

func (s *Session) resetBooking() {
	s.state = schema.StateLocationSelection
	s.data.ResetIdentifiers()
	s.data.ClearDriver()
	s.pollErrors = 0

	s.display.RemoveMarker(schema.MarkerDriver)
	s.display.SetTrackingInfo(schema.TrackingInfo{LiveStatus: "Searching for driver"})
	s.display.SetTrackingPanelVisible(false)
}

func (s *Session) setBusy(busy bool) {
	s.busy = busy
	s.display.SetBusy(busy)
}

// Snapshot captures the minimal state needed to resume this session after a
// process restart.
func (s *Session) Snapshot() snapshot.Snapshot {
	snap := snapshot.Snapshot{
		State:     s.state.String(),
		RequestID: s.data.RequestID,
		BookingID: s.data.BookingID,
		Endpoint:  s.endpoint,
	}

	if s.start != nil {
		snap.Start = &snapshot.Coordinates{Lat: s.start.Lat, Lng: s.start.Lng}
	}
	if s.dest != nil {
		snap.Destination = &snapshot.Coordinates{Lat: s.dest.Lat, Lng: s.dest.Lng}
	}
	if s.data.DriverLat != nil && s.data.DriverLng != nil {
		snap.Driver = &snapshot.Coordinates{Lat: *s.data.DriverLat, Lng: *s.data.DriverLng}
	}

	return snap
}

// Restore replays a snapshot into the session. Points go through the same
// set-start/set-destination path as user picks so markers and readouts are
// rebuilt; an unknown state name falls back to location selection. Polling
// is never resumed here; the caller re-checks state and calls
// ResumeTracking when appropriate.
func (s *Session) Restore(snap snapshot.Snapshot) {
	s.stopPolling()
	s.state = schema.StateLocationSelection
	s.busy = false

	if snap.Endpoint != "" {
		s.endpoint = strings.TrimSpace(snap.Endpoint)
	}

	if snap.Start != nil {
		s.SetStart(schema.GeoPoint{Lat: snap.Start.Lat, Lng: snap.Start.Lng})
	}
	if snap.Destination != nil {
		s.SetDestination(schema.GeoPoint{Lat: snap.Destination.Lat, Lng: snap.Destination.Lng})
	}

	s.data.RequestID = snap.RequestID
	s.data.BookingID = snap.BookingID
	s.state = schema.ParseBookingState(snap.State)

	if snap.Driver != nil {
		driver := schema.GeoPoint{Lat: snap.Driver.Lat, Lng: snap.Driver.Lng}
		lat, lng := driver.Lat, driver.Lng
		s.data.DriverLat = &lat
		s.data.DriverLng = &lng
		s.display.PlaceMarker(schema.MarkerDriver, driver)
	}

	s.display.SetTrackingPanelVisible(s.state == schema.StateTracking)
}

func (s *Session) logInfo() *zerolog.Event {
	if s.logger == nil {
		nop := zerolog.Nop()
		return nop.Info()
	}
	return s.logger.Info()
}
