package app

import (
	"context"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/guttosm/cryptopulse/internal/ingestion"
	"github.com/guttosm/cryptopulse/internal/logger"
)

// StartScheduler runs import cycles on the given cron spec (e.g. "@every 1m"
// or a standard 5-field expression).
//
// The pipeline must not run twice at the same time; a mutex TryLock skips a
// trigger that fires while the previous cycle is still in flight, logging the
// skip instead of queueing up overlapping cycles.
//
// Returns the started cron so the caller can Stop() it on shutdown.
func StartScheduler(spec string, pipeline *ingestion.Pipeline) (*cron.Cron, error) {
	var running sync.Mutex

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if !running.TryLock() {
			logger.L().Warn().Msg("previous import cycle still running, skipping trigger")
			return
		}
		defer running.Unlock()

		if _, err := pipeline.Run(context.Background()); err != nil {
			logger.L().Error().Err(err).Msg("scheduled import cycle failed")
		}
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	logger.L().Info().Str("cron", spec).Msg("ingestion scheduler started")
	return c, nil
}
