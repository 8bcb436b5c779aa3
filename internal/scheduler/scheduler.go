package scheduler

import (
	"context"
	"log"
	"time"

	"backend/internal/service"

	"github.com/robfig/cron/v3"
)

// Scheduler drives time-based work: generating work orders from maintenance
// plans that have fallen due. One instance per process.
type Scheduler struct {
	cron  *cron.Cron
	plans service.MaintenancePlanService
}

func New(plans service.MaintenancePlanService) *Scheduler {
	return &Scheduler{cron: cron.New(), plans: plans}
}

// Start registers the plan sweep on the given cron spec and begins running.
// An empty spec falls back to hourly.
func (s *Scheduler) Start(spec string) error {
	if spec == "" {
		spec = "@hourly"
	}

	_, err := s.cron.AddFunc(spec, s.sweepPlans)
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("Scheduler started with spec %q", spec)
	return nil
}

func (s *Scheduler) sweepPlans() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if _, err := s.plans.GenerateDueWorkOrders(ctx); err != nil {
		log.Printf("Plan sweep failed: %v", err)
	}
}

// Stop halts the cron loop, waiting for a running sweep to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
