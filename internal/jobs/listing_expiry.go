// File: internal/jobs/listing_expiry.go

// Package jobs holds scheduled background work.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/ldw80203/house-video/internal/config"
	"github.com/ldw80203/house-video/internal/listing"
)

// cronLogger adapts zap to the cron.Logger interface.
type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Infow(msg, keysAndValues...)
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}

// ListingExpiryJob unpublishes listings older than the configured lifespan
// on a schedule. A lifespan of zero disables the job entirely.
type ListingExpiryJob struct {
	cron     *cron.Cron
	listings listing.Service
	cfg      *config.Config
	logger   *zap.Logger
}

// NewListingExpiryJob creates the expiry job.
func NewListingExpiryJob(listings listing.Service, cfg *config.Config, logger *zap.Logger) *ListingExpiryJob {
	return &ListingExpiryJob{
		listings: listings,
		cfg:      cfg,
		logger:   logger,
	}
}

// Start registers and starts the schedule. Safe to call when disabled.
func (j *ListingExpiryJob) Start() error {
	if j.cfg.ListingLifespanDays <= 0 {
		j.logger.Info("Listing expiry job disabled; LISTING_LIFESPAN_DAYS is not set.")
		return nil
	}

	j.cron = cron.New(cron.WithLogger(&cronLogger{logger: j.logger.Sugar().Named("cron")}))
	_, err := j.cron.AddFunc(j.cfg.ListingExpiryJobSchedule, j.run)
	if err != nil {
		return err
	}
	j.cron.Start()
	j.logger.Info("Listing expiry job scheduled",
		zap.String("schedule", j.cfg.ListingExpiryJobSchedule),
		zap.Int("lifespanDays", j.cfg.ListingLifespanDays))
	return nil
}

func (j *ListingExpiryJob) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	count, err := j.listings.UnpublishExpired(ctx, j.cfg.ListingLifespanDays)
	if err != nil {
		j.logger.Error("Listing expiry run failed", zap.Error(err))
		return
	}
	j.logger.Info("Listing expiry run complete", zap.Int64("unpublished", count))
}

// Stop halts the schedule and waits for a running job to finish.
func (j *ListingExpiryJob) Stop() {
	if j.cron == nil {
		return
	}
	ctx := j.cron.Stop()
	<-ctx.Done()
	j.logger.Info("Listing expiry job stopped.")
}
