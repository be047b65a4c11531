package session

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// DefaultSweepSchedule runs the expiry sweep every five minutes.
const DefaultSweepSchedule = "@every 5m"

// Sweeper periodically removes expired sessions from a Store. The schedule
// is a standard cron expression or a descriptor like "@every 5m".
type Sweeper struct {
	store    *Store
	schedule cron.Schedule
	spec     string
	stopCh   chan struct{}
	running  bool
}

// NewSweeper creates a sweeper for the given store.
func NewSweeper(store *Store, spec string) (*Sweeper, error) {
	if spec == "" {
		spec = DefaultSweepSchedule
	}

	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", spec, err)
	}

	return &Sweeper{
		store:    store,
		schedule: schedule,
		spec:     spec,
		stopCh:   make(chan struct{}),
	}, nil
}

// Start begins the sweep loop in a background goroutine.
func (sw *Sweeper) Start() error {
	if sw.running {
		return fmt.Errorf("sweeper is already running")
	}
	sw.running = true
	go sw.run()

	log.Info().Str("schedule", sw.spec).Msg("Session sweeper started")
	return nil
}

// Stop halts the sweep loop.
func (sw *Sweeper) Stop() error {
	if !sw.running {
		return fmt.Errorf("sweeper is not running")
	}
	close(sw.stopCh)
	sw.running = false

	log.Info().Msg("Session sweeper stopped")
	return nil
}

func (sw *Sweeper) run() {
	for {
		next := sw.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-timer.C:
			sw.store.Sweep()
		case <-sw.stopCh:
			timer.Stop()
			return
		}
	}
}
