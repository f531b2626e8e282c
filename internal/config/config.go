package config // package config loads application configuration from environment variables

import (
	"log"  // log is used to report configuration errors and halt execution
	"os"   // os provides access to environment variables
	"time" // time provides the duration types used by the sweeper settings
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Required values go through must() and abort
// startup when missing; operational knobs fall back to sensible defaults.
type Config struct {
	Env           string        // application environment (e.g. "dev", "prod")
	Port          string        // HTTP port to listen on
	WSCheckOrigin bool          // enforce same-origin checks on websocket upgrades
	SweepInterval time.Duration // how often idle rooms are swept; 0 disables sweeping
	SweepRoomIdle time.Duration // how long a room must be idle before it is swept
	QueueEnabled  bool          // consume booking confirmations from RabbitMQ
	InternalAuth  InternalAuthConfig
}

// InternalAuthConfig configures authentication of the trusted internal
// caller on the reconciliation endpoint.  Either mechanism may be used;
// when both are empty the endpoint is open, which is acceptable only for
// local development.
type InternalAuthConfig struct {
	JWTSecret string // HS256 secret for service-issued bearer tokens
	TokenHash string // bcrypt hash of the static X-Internal-Token value
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:           must("APP_ENV"),  // environment (dev/test/prod)
		Port:          must("APP_PORT"), // port to bind the HTTP server
		WSCheckOrigin: envBool("WS_CHECK_ORIGIN", false),
		SweepInterval: envDur("SWEEP_INTERVAL", 10*time.Minute),
		SweepRoomIdle: envDur("SWEEP_ROOM_IDLE", 2*time.Hour),
		QueueEnabled:  envBool("BOOKING_QUEUE_ENABLED", false),
		InternalAuth: InternalAuthConfig{
			JWTSecret: os.Getenv("INTERNAL_JWT_SECRET"),  // empty disables JWT mode
			TokenHash: os.Getenv("INTERNAL_TOKEN_HASH"), // empty disables static-token mode
		},
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
