package jobs

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"freight-dispatch/internal/config"
	"freight-dispatch/internal/logger"
	draftUsecase "freight-dispatch/internal/usecase/draft"
)

// Scheduler runs the recurring maintenance jobs. Currently just the nightly
// purge of unreviewed drafts that have gone stale.
type Scheduler struct {
	cron *cron.Cron
}

func NewScheduler(cfg *config.JobsConfig, drafts *draftUsecase.Service) (*Scheduler, error) {
	c := cron.New()

	_, err := c.AddFunc(cfg.DraftPurgeSchedule, func() {
		drafts.PurgeStale(context.Background(), cfg.DraftMaxAge)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid draft purge schedule %q: %w", cfg.DraftPurgeSchedule, err)
	}

	return &Scheduler{cron: c}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("Job scheduler started", zap.Int("jobs", len(s.cron.Entries())))
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Job scheduler stopped")
}
