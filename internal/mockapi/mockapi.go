// Package mockapi is a toy booking backend for local development and
// end-to-end runs of the client. It speaks the same loosely-typed JSON
// protocol the client tolerates: all four operations POST to one route and
// are told apart by their body fields.
package mockapi

import (
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"bitbucket.org/crgw/booking-client/internal/geo"
	"bitbucket.org/crgw/booking-client/internal/parsing"
	"bitbucket.org/crgw/booking-client/internal/schema"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	baseFare      = 3.50
	farePerKm     = 1.25
	arrivalRadius = 30.0 // meters
)

// SetupRouter wires the mock backend with the usual middleware chain.
func SetupRouter(log *zerolog.Logger) *gin.Engine {
	startTime := time.Now()

	router := gin.New()

	if os.Getenv("ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router.
		Use(StartRequest).
		Use(CorrelationId).
		Use(RegisterLogger(log)).
		Use(TraceLog).
		Use(PanicRecovery)

	router.GET("/status", func(c *gin.Context) {
		response := struct {
			Uptime float64 `json:"uptime"`
		}{
			Uptime: time.Since(startTime).Seconds(),
		}

		c.JSON(http.StatusOK, response)
	})

	pprof.Register(router)

	backend := newBackend()
	router.POST("/booking", backend.handle)

	return router
}

type trip struct {
	id        string
	start     schema.GeoPoint
	dest      schema.GeoPoint
	price     float64
	confirmed bool
	cancelled bool
	driver    schema.GeoPoint
	polls     int
}

type backend struct {
	sync.Mutex
	trips map[string]*trip
}

func newBackend() *backend {
	return &backend{trips: map[string]*trip{}}
}

// handle discriminates the four request shapes by their fields, the same way
// the client's parser tolerates alias fields in responses.
func (b *backend) handle(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	b.Lock()
	defer b.Unlock()

	switch {
	case hasKey(body, "startLat"):
		b.submit(c, body)
	case hasKey(body, "confirmation"):
		b.confirm(c, body)
	case hasKey(body, "cancel"):
		b.cancel(c, body)
	case hasKey(body, "bookingId"):
		b.poll(c, body)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unrecognized request"})
	}
}

func (b *backend) submit(c *gin.Context, body map[string]any) {
	startLat, ok1 := parsing.FirstFloat(body, "startLat")
	startLng, ok2 := parsing.FirstFloat(body, "startLng")
	destLat, ok3 := parsing.FirstFloat(body, "destLat")
	destLng, ok4 := parsing.FirstFloat(body, "destLng")

	if !ok1 || !ok2 || !ok3 || !ok4 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "both coordinate pairs are required"})
		return
	}

	t := &trip{
		id:    uuid.New().String(),
		start: schema.GeoPoint{Lat: startLat, Lng: startLng},
		dest:  schema.GeoPoint{Lat: destLat, Lng: destLng},
	}
	t.price = baseFare + farePerKm*geo.Haversine(t.start, t.dest)/1000
	// driver spawns a little north-east of the pickup
	t.driver = schema.GeoPoint{Lat: t.start.Lat + 0.02, Lng: t.start.Lng + 0.02}

	b.trips[t.id] = t

	c.JSON(http.StatusOK, gin.H{
		"price":     schema.RoundedFloat(t.price),
		"requestId": t.id,
	})
}

func (b *backend) confirm(c *gin.Context, body map[string]any) {
	t := b.lookup(body, "requestId", "bookingId", "id")
	if t == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown request id"})
		return
	}

	t.confirmed = true

	c.JSON(http.StatusOK, gin.H{"bookingId": t.id, "status": "confirmed"})
}

func (b *backend) poll(c *gin.Context, body map[string]any) {
	t := b.lookup(body, "bookingId", "requestId", "id")
	if t == nil || !t.confirmed {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active booking"})
		return
	}

	if t.cancelled {
		c.JSON(http.StatusOK, gin.H{
			"driverLat": t.driver.Lat,
			"driverLng": t.driver.Lng,
			"status":    "cancelled",
		})
		return
	}

	// walk a quarter of the remaining way toward the pickup on each poll
	t.polls++
	t.driver.Lat += (t.start.Lat - t.driver.Lat) / 4
	t.driver.Lng += (t.start.Lng - t.driver.Lng) / 4

	remaining := geo.Haversine(t.driver, t.start)
	status := "en route"
	if remaining <= arrivalRadius {
		status = "arrived"
	}

	c.JSON(http.StatusOK, gin.H{
		"driverLat":  t.driver.Lat,
		"driverLng":  t.driver.Lng,
		"driverName": "Mock Driver",
		"vehicle":    "Blue Prius",
		"eta":        etaText(remaining),
		"status":     status,
	})
}

func (b *backend) cancel(c *gin.Context, body map[string]any) {
	t := b.lookup(body, "bookingId", "requestId", "id")
	if t == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown booking id"})
		return
	}

	t.cancelled = true

	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

func (b *backend) lookup(body map[string]any, keys ...string) *trip {
	id, ok := parsing.FirstString(body, keys...)
	if !ok {
		return nil
	}

	return b.trips[id]
}

func hasKey(body map[string]any, key string) bool {
	_, ok := body[key]
	return ok
}

func etaText(remainingMeters float64) string {
	if remainingMeters <= arrivalRadius {
		return "now"
	}

	minutes := int(remainingMeters/500) + 1
	return fmt.Sprintf("%d min", minutes)
}
