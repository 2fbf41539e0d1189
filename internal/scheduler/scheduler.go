package scheduler

import (
	"context"
	"errors"

	"github.com/roylee0704/gron"

	"protostats/internal/providers"
	"protostats/internal/scheduler/interfaces"
	"protostats/internal/services"
	"protostats/internal/snapshot"
	"protostats/internal/structures"
)

// Scheduler re-primes the snapshot on a fixed interval. Refresh runs through
// the same single-flight path as request-triggered refreshes, so a tick that
// collides with one simply skips.
type Scheduler struct {
	config  *structures.Config
	logger  providers.Logger
	service services.AnalysisServiceInterface
	cron    *gron.Cron
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	s.cron.AddFunc(gron.Every(s.config.Snapshot.RefreshInterval), func() {
		err := s.service.Refresh(context.Background())
		switch {
		case errors.Is(err, snapshot.ErrRefreshInFlight):
			s.logger.Debugf(providers.TypeApp, "Scheduled refresh skipped, another refresh in flight")
		case err != nil:
			s.logger.Errorf(providers.TypeApp, "Scheduled refresh failed: %s", err)
		}
	})

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Prime runs the initial blocking populate. A failure here is reported but
// not fatal: the daemon starts degraded and recovers on the next tick.
func (s *Scheduler) Prime() error {
	return s.service.Refresh(context.Background())
}

func NewScheduler(config *structures.Config, logger providers.Logger, service services.AnalysisServiceInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:  config,
		logger:  logger,
		service: service,
	}
}
