// Package client issues the four logical booking requests against a single
// user-supplied endpoint and normalizes every transport failure into one
// error shape. It performs no retries; retry cadence belongs to the caller.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"bitbucket.org/crgw/booking-client/internal/schema"
	"bitbucket.org/crgw/booking-client/internal/tools/requesting"
	"github.com/rs/zerolog"
)

const DefaultTimeout = 15 * time.Second

type Client struct {
	httpClient *http.Client
	logger     *zerolog.Logger
}

func New(timeout time.Duration, logger *zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &requesting.InterceptorTransport{
				Transport: http.DefaultTransport,
				Middlewares: []requesting.TransportMiddleware{
					requesting.NewCorrelationTransportMiddleware(),
					requesting.NewLoggingTransportMiddleware(logger),
				},
			},
		},
		logger: logger,
	}
}

// SubmitLocations posts the selected start and destination pair and returns
// the raw quote body.
func (c *Client) SubmitLocations(ctx context.Context, endpoint string, start, dest schema.GeoPoint) (string, error) {
	return c.post(ctx, endpoint, map[string]any{
		"startLat": start.Lat,
		"startLng": start.Lng,
		"destLat":  dest.Lat,
		"destLng":  dest.Lng,
	})
}

// ConfirmPrice accepts the quoted price for a submitted request. The request
// id is omitted from the body when blank; the backend then matches on its
// own session.
func (c *Client) ConfirmPrice(ctx context.Context, endpoint, requestID string) (string, error) {
	body := map[string]any{
		"confirmation": "yes",
	}
	if strings.TrimSpace(requestID) != "" {
		body["requestId"] = requestID
	}

	return c.post(ctx, endpoint, body)
}

// PollDriver fetches the latest driver position for a tracked booking. The
// caller must not invoke this without a tracking identifier.
func (c *Client) PollDriver(ctx context.Context, endpoint, trackingID string) (string, error) {
	body := map[string]any{}
	if strings.TrimSpace(trackingID) != "" {
		body["bookingId"] = trackingID
	}

	return c.post(ctx, endpoint, body)
}

// CancelBooking asks the backend to abandon a booking.
func (c *Client) CancelBooking(ctx context.Context, endpoint, trackingID string) (string, error) {
	body := map[string]any{
		"cancel": true,
	}
	if strings.TrimSpace(trackingID) != "" {
		body["bookingId"] = trackingID
	}

	return c.post(ctx, endpoint, body)
}

// post runs one JSON request. The response body is read in full regardless
// of status so error bodies make it into the message, and the body is closed
// on every path.
func (c *Client) post(ctx context.Context, endpoint string, payload map[string]any) (string, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer response.Body.Close()

	bodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	body := string(bodyBytes)

	if !requesting.IsSuccess(response.StatusCode) {
		return "", fmt.Errorf("HTTP %d: %s", response.StatusCode, body)
	}

	return body, nil
}
