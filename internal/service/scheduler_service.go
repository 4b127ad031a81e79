package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const resetJobTimeout = 30 * time.Second

// scheduleParser accepts 5-field specs, an optional leading seconds field, and descriptors like @weekly.
var scheduleParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// SchedulerService wraps cron-based jobs.
type SchedulerService struct {
	cron *cron.Cron
	log  *zap.Logger
}

func NewSchedulerService(loc *time.Location, log *zap.Logger) *SchedulerService {
	return &SchedulerService{
		cron: cron.New(cron.WithLocation(loc), cron.WithParser(scheduleParser)),
		log:  log,
	}
}

// ScheduleReset zeroes every balance on the given cron spec.
func (s *SchedulerService) ScheduleReset(spec string, users UserService) (cron.EntryID, error) {
	id, err := s.cron.AddFunc(spec, s.resetJob(users))
	if err != nil {
		return 0, fmt.Errorf("invalid reset schedule %q: %w", spec, err)
	}
	return id, nil
}

func (s *SchedulerService) resetJob(users UserService) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), resetJobTimeout)
		defer cancel()
		if err := users.ResetAll(ctx); err != nil {
			s.log.Error("scheduled reset failed", zap.Error(err))
			return
		}
		s.log.Info("scheduled reset done")
	}
}

func (s *SchedulerService) Len() int {
	return len(s.cron.Entries())
}

func (s *SchedulerService) Start() {
	s.cron.Start()
}

func (s *SchedulerService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
