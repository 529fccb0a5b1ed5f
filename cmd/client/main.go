package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"bitbucket.org/crgw/booking-client/internal/booking"
	"bitbucket.org/crgw/booking-client/internal/client"
	"bitbucket.org/crgw/booking-client/internal/config"
	"bitbucket.org/crgw/booking-client/internal/logger"
	"bitbucket.org/crgw/booking-client/internal/schema"
	"bitbucket.org/crgw/booking-client/internal/snapshot"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	_ = godotenv.Load(".env")

	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	store := snapshotStore(cfg)

	// presentation queue: everything that touches the session or display
	// runs on this goroutine
	ui := make(chan func(), 64)
	done := make(chan struct{})

	session := booking.NewSession(booking.Config{
		API:          client.New(cfg.HTTPTimeout, log),
		Display:      &terminalDisplay{},
		Logger:       log,
		Endpoint:     cfg.Endpoint,
		PollInterval: cfg.PollInterval,
		Dispatch:     func(f func()) { ui <- f },
	})

	if snap, ok, err := store.Load(context.Background()); err != nil {
		log.Warn().Err(err).Msg("could not load session snapshot")
	} else if ok {
		session.Restore(snap)
		if session.State() == schema.StateTracking {
			session.ResumeTracking()
		}
		log.Info().Str("state", session.State().String()).Msg("session restored")
	}

	go readCommands(session, ui, done)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	fmt.Println("commands: endpoint <url> | start <lat> <lng> | dest <lat> <lng> | submit | yes | no | cancel | state | quit")

	for {
		select {
		case f := <-ui:
			f()
		case <-stop:
			suspend(session, store, log)
			return
		case <-done:
			suspend(session, store, log)
			return
		}
	}
}

// suspend mirrors process suspension in the original flow: polling halts
// and the minimal session state is written out for the next start.
func suspend(session *booking.Session, store snapshot.Store, log *zerolog.Logger) {
	session.StopPolling()

	if err := store.Save(context.Background(), session.Snapshot()); err != nil {
		log.Warn().Err(err).Msg("could not save session snapshot")
		return
	}

	log.Info().Msg("session snapshot saved")
}

func snapshotStore(cfg config.Config) snapshot.Store {
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return snapshot.NewRedisStore(redisClient, cfg.RedisKey)
	}

	return snapshot.NewFileStore(cfg.SnapshotPath)
}

// readCommands turns stdin lines into session actions, marshaled onto the
// presentation queue like any other input event.
func readCommands(session *booking.Session, ui chan<- func(), done chan<- struct{}) {
	scanner := bufio.NewScanner(os.Stdin)

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch strings.ToLower(fields[0]) {
		case "endpoint":
			if len(fields) == 2 {
				url := fields[1]
				ui <- func() { session.SetEndpoint(url) }
			}
		case "start":
			if p, ok := parsePoint(fields); ok {
				ui <- func() { session.SetStart(p) }
			}
		case "dest":
			if p, ok := parsePoint(fields); ok {
				ui <- func() { session.SetDestination(p) }
			}
		case "submit":
			ui <- session.Submit
		case "yes":
			ui <- session.AcceptPrice
		case "no":
			ui <- session.RejectPrice
		case "cancel":
			ui <- session.Cancel
		case "state":
			ui <- func() { fmt.Printf("[state] %s\n", session.State()) }
		case "quit", "exit":
			done <- struct{}{}
			return
		default:
			fmt.Println("unknown command")
		}
	}

	done <- struct{}{}
}

func parsePoint(fields []string) (schema.GeoPoint, bool) {
	if len(fields) != 3 {
		fmt.Println("expected: <command> <lat> <lng>")
		return schema.GeoPoint{}, false
	}

	lat, errLat := strconv.ParseFloat(fields[1], 64)
	lng, errLng := strconv.ParseFloat(fields[2], 64)
	if errLat != nil || errLng != nil {
		fmt.Println("coordinates must be numbers")
		return schema.GeoPoint{}, false
	}

	return schema.GeoPoint{Lat: lat, Lng: lng}, true
}
