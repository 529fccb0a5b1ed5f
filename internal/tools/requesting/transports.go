package requesting

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type TransportMiddleware func(http.RoundTripper) http.RoundTripper

// InterceptorTransport chains middlewares around a base RoundTripper so
// every outgoing booking call gets the same treatment.
type InterceptorTransport struct {
	Transport   http.RoundTripper
	Middlewares []TransportMiddleware
}

func (t *InterceptorTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	transport := t.Transport
	for _, middleware := range t.Middlewares {
		transport = middleware(transport)
	}

	resp, err := transport.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	return resp, nil
}

type LoggingTransportMiddleware struct {
	Transport http.RoundTripper
	log       *zerolog.Logger
}

func NewLoggingTransportMiddleware(log *zerolog.Logger) TransportMiddleware {
	return func(rt http.RoundTripper) http.RoundTripper {
		return &LoggingTransportMiddleware{
			log:       log,
			Transport: rt,
		}
	}
}

func (t *LoggingTransportMiddleware) RoundTrip(req *http.Request) (*http.Response, error) {
	startTime := time.Now()

	message := t.log.Info().
		Str("label", "outgoing-request").
		Str("method", req.Method).
		Str("url", req.URL.String())

	defer func() {
		message.
			Float64("duration", time.Since(startTime).Seconds()).
			Msg("")
	}()

	resp, err := t.Transport.RoundTrip(req)
	if err != nil {
		message.Str("error", err.Error())
		return nil, err
	}

	message.Int("code", resp.StatusCode)

	return resp, nil
}

type CorrelationTransportMiddleware struct {
	Transport http.RoundTripper
}

// NewCorrelationTransportMiddleware tags each outgoing request with a fresh
// correlation id so client and backend logs can be matched up.
func NewCorrelationTransportMiddleware() TransportMiddleware {
	return func(rt http.RoundTripper) http.RoundTripper {
		return &CorrelationTransportMiddleware{
			Transport: rt,
		}
	}
}

func (t *CorrelationTransportMiddleware) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("x-correlation-id") == "" {
		req.Header.Set("x-correlation-id", uuid.New().String())
	}

	return t.Transport.RoundTrip(req)
}
