package cache

import (
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Janitor periodically sweeps expired entries out of a cache store.
type Janitor struct {
	store Store
	cron  *cron.Cron
	log   zerolog.Logger
}

// NewJanitor creates a janitor sweeping on the given cron schedule
// (e.g. "@hourly").
func NewJanitor(store Store, schedule string, log zerolog.Logger) (*Janitor, error) {
	j := &Janitor{
		store: store,
		cron:  cron.New(),
		log:   log.With().Str("component", "cache_janitor").Logger(),
	}
	if _, err := j.cron.AddFunc(schedule, j.sweep); err != nil {
		return nil, err
	}
	return j, nil
}

// Start begins the sweep schedule in its own goroutine.
func (j *Janitor) Start() {
	j.cron.Start()
	j.log.Info().Msg("Cache janitor started")
}

// Stop halts the schedule, waiting for a running sweep to finish.
func (j *Janitor) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
	j.log.Info().Msg("Cache janitor stopped")
}

func (j *Janitor) sweep() {
	dropped, err := j.store.Sweep()
	if err != nil {
		j.log.Warn().Err(err).Msg("Cache sweep failed")
		return
	}
	if dropped > 0 {
		j.log.Info().Int("dropped", dropped).Msg("Cache sweep removed expired entries")
	}
}
