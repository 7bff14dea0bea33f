package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// PlanCleanupScheduler purges plan history older than the retention window
// on a cron schedule (seconds field included).
type PlanCleanupScheduler struct {
	tripPlanService TripPlanServiceInterface
	schedule        string
	retention       time.Duration
	logger          *zap.Logger
	cron            *cron.Cron
}

func NewPlanCleanupScheduler(tripPlanService TripPlanServiceInterface, schedule string, retention time.Duration, logger *zap.Logger) *PlanCleanupScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanCleanupScheduler{
		tripPlanService: tripPlanService,
		schedule:        schedule,
		retention:       retention,
		logger:          logger.Named("plan_cleanup"),
	}
}

func (s *PlanCleanupScheduler) Start() error {
	c := cron.New(cron.WithSeconds())
	if _, err := c.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		_, _ = s.RunOnce(ctx)
	}); err != nil {
		return fmt.Errorf("invalid purge schedule %q: %w", s.schedule, err)
	}

	s.cron = c
	c.Start()
	s.logger.Info("plan cleanup scheduled",
		zap.String("schedule", s.schedule),
		zap.Duration("retention", s.retention))
	return nil
}

// Stop waits for a running purge to finish or for ctx to expire.
func (s *PlanCleanupScheduler) Stop(ctx context.Context) error {
	if s.cron == nil {
		return nil
	}
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *PlanCleanupScheduler) RunOnce(ctx context.Context) (int64, error) {
	n, err := s.tripPlanService.PurgeExpiredPlans(ctx, s.retention)
	if err != nil {
		s.logger.Error("plan purge failed", zap.Error(err))
		return 0, err
	}
	s.logger.Info("plan purge completed", zap.Int64("deleted", n))
	return n, nil
}
