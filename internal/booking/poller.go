package booking

import (
	"context"
	"fmt"
	"time"

	"bitbucket.org/crgw/booking-client/internal/geo"
	"bitbucket.org/crgw/booking-client/internal/parsing"
	"bitbucket.org/crgw/booking-client/internal/schema"
)

// poller owns one periodic tracking loop. The cancellation context both
// prevents future ticks and interrupts the in-flight wait; results of a
// tick that was already on the wire when the poller stopped are dropped by
// the state re-check in the session's handlers.
type poller struct {
	interval time.Duration
	tick     func(ctx context.Context)
	cancel   context.CancelFunc
}

// startPoller launches the loop. An immediate poller fires its first tick
// right away; a resumed one waits a full interval first.
func startPoller(interval time.Duration, immediate bool, tick func(ctx context.Context)) *poller {
	ctx, cancel := context.WithCancel(context.Background())

	p := &poller{
		interval: interval,
		tick:     tick,
		cancel:   cancel,
	}

	go p.run(ctx, immediate)

	return p
}

func (p *poller) run(ctx context.Context, immediate bool) {
	delay := p.interval
	if immediate {
		delay = 0
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			p.tick(ctx)
			timer.Reset(p.interval)
		}
	}
}

func (p *poller) stop() {
	p.cancel()
}

// startPolling replaces any live poller with a fresh one, so at most one
// periodic loop exists at any time. The endpoint and tracking id are pinned
// at start, matching how the booking was confirmed.
func (s *Session) startPolling(immediate bool) {
	s.stopPollerOnly()

	endpoint := s.endpoint
	trackingID := s.data.TrackingID()

	if endpoint == "" || trackingID == "" {
		s.display.SetPollingIndicator("Missing endpoint or booking id", schema.SeverityError)
		return
	}

	s.display.SetPollingIndicator("Polling active", schema.SeverityOK)

	s.poller = startPoller(s.pollInterval, immediate, func(ctx context.Context) {
		s.pollTick(ctx, endpoint, trackingID)
	})
}

func (s *Session) stopPolling() {
	s.stopPollerOnly()
	s.display.SetPollingIndicator("Polling stopped", schema.SeverityNeutral)
}

func (s *Session) stopPollerOnly() {
	if s.poller != nil {
		s.poller.stop()
		s.poller = nil
	}
}

// pollTick runs on the poller goroutine: one network call, result marshaled
// back to the presentation goroutine.
func (s *Session) pollTick(ctx context.Context, endpoint, trackingID string) {
	if ctx.Err() != nil {
		return
	}

	body, err := s.api.PollDriver(ctx, endpoint, trackingID)

	s.dispatch(func() {
		if s.state != schema.StateTracking {
			return
		}

		if err != nil {
			s.handlePollError(err.Error())
			return
		}

		s.pollErrors = 0
		s.handlePollSuccess(body)
	})
}

func (s *Session) handlePollSuccess(body string) {
	update, ok := parsing.ParseDriverUpdate(body)
	if !ok {
		s.handlePollError("invalid driver location")
		return
	}

	s.data.ApplyDriverUpdate(update)

	point := schema.GeoPoint{Lat: update.Lat, Lng: update.Lng}
	s.display.PlaceMarker(schema.MarkerDriver, point)
	s.display.SetTrackingInfo(s.trackingInfo(update))
	s.autoFit(point)

	if update.Terminal() {
		s.logInfo().Str("status", update.Status).Msg("trip reached terminal status")
		s.stopPolling()
	}
}

func (s *Session) handlePollError(message string) {
	s.pollErrors++

	s.display.SetPollingIndicator(fmt.Sprintf("Polling error (%d)", s.pollErrors), schema.SeverityError)

	// Notify on the first error and every third one after, so persistent
	// failure stays visible without flooding the user.
	if s.pollErrors == 1 || s.pollErrors%3 == 0 {
		s.display.ShowNotice(message)
	}
}

func (s *Session) trackingInfo(update schema.DriverUpdate) schema.TrackingInfo {
	info := schema.TrackingInfo{
		DriverName: update.Name,
		Vehicle:    update.Vehicle,
		ETA:        update.ETA,
		LiveStatus: update.Status,
	}

	if s.start != nil {
		meters := geo.Haversine(*s.start, schema.GeoPoint{Lat: update.Lat, Lng: update.Lng})
		info.Distance = geo.FormatDistance(meters)
	}

	return info
}

// autoFit asks the display to widen its view when the driver has moved out
// of sight and both trip endpoints are known.
func (s *Session) autoFit(driver schema.GeoPoint) {
	if s.start == nil || s.dest == nil {
		return
	}

	if s.display.ViewportContains(driver) {
		return
	}

	s.display.FitToBounds([]schema.GeoPoint{*s.start, *s.dest, driver})
}
