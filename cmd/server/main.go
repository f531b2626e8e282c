package main // Entry point package

import (
	"log"  // Logging library
	"time" // Timer for the room sweeper

	"github.com/joho/godotenv"    // Loads .env files for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/seat-live/internal/config"     // Internal config loader
	"github.com/iliyamo/seat-live/internal/gateway"    // Realtime hub
	"github.com/iliyamo/seat-live/internal/handler"    // HTTP handlers
	"github.com/iliyamo/seat-live/internal/middleware" // Internal auth and rate limiting
	"github.com/iliyamo/seat-live/internal/queue"      // Booking confirmation consumer
	"github.com/iliyamo/seat-live/internal/router"     // Route registration
	"github.com/iliyamo/seat-live/internal/store"      // In-memory seat state
)

func main() {
	_ = godotenv.Load() // best-effort .env load; real deployments set the environment directly

	cfg := config.Load()        // Load environment config
	st := store.New()           // The one seat-state store for the process
	hub := gateway.NewHub(st)   // Hub owns the store from here on

	e := echo.New() // Create Echo instance
	ws := handler.NewWSHandler(hub, cfg.WSCheckOrigin)
	booking := handler.NewBookingHandler(hub)

	// Guards for the internal surface: caller authentication first, then
	// the Redis token bucket.  Both degrade to pass-through when left
	// unconfigured, matching local development expectations.
	guards := []echo.MiddlewareFunc{middleware.InternalAuth(cfg.InternalAuth)}
	if rdb := config.NewRedisClient(); rdb != nil {
		guards = append(guards, middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	} else {
		log.Printf("redis unavailable; reconciliation endpoint runs without rate limiting")
	}

	router.RegisterRoutes(e, ws)                        // Public surface
	router.RegisterInternal(e, booking, guards...)      // Trusted internal surface

	// Booking confirmations can also arrive over RabbitMQ; the consumer
	// pushes them through the same hub path as the HTTP endpoint.
	if cfg.QueueEnabled {
		go func() {
			if err := queue.StartBookingConsumer(hub); err != nil {
				log.Printf("booking-consumer: stopped: %v", err)
			}
		}()
	}

	// Sweep seat state for rooms whose showtime has long passed.  Interval
	// zero disables the sweeper and rooms accumulate for the process
	// lifetime, which matches short-lived deployments.
	if cfg.SweepInterval > 0 {
		go func() {
			t := time.NewTicker(cfg.SweepInterval)
			defer t.Stop()
			for range t.C {
				if swept := hub.SweepRooms(cfg.SweepRoomIdle); len(swept) > 0 {
					log.Printf("sweeper: pruned %d idle room(s)", len(swept))
				}
			}
		}()
	}

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
