package configs

import "time"

// Scheduler configures the campaign lifecycle scheduler. The interval is a
// tunable, not a correctness requirement: scans are idempotent.
type Scheduler struct {
	// Enabled starts the scheduler with the server.
	Enabled bool `env:"ENABLED" envDefault:"true"`
	// Interval is the time between lifecycle scans. Defaults to one minute.
	Interval time.Duration `env:"INTERVAL" envDefault:"1m"`
}
