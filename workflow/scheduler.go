package workflow

import (
	"context"
	"os"
	"time"

	"github.com/mmdatafocus/erp_backend/config"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const defaultReconcileSchedule = "0 30 2 * * *"

// Scheduler runs periodic ledger jobs.
type Scheduler struct {
	cron       *cron.Cron
	reconciler *Reconciler
	logger     *logrus.Logger
}

func NewScheduler(reconciler *Reconciler, logger *logrus.Logger) (*Scheduler, error) {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)
	s := &Scheduler{cron: c, reconciler: reconciler, logger: logger}

	schedule := os.Getenv("RECONCILE_CRON")
	if schedule == "" {
		schedule = defaultReconcileSchedule
	}
	if _, err := s.cron.AddFunc(schedule, s.reconcile); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) reconcile() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()
	found := s.reconciler.ReconcileAll(ctx)
	config.LogInfo(s.logger, "Scheduler", "reconcile", "ledger reconciliation finished", map[string]int{"businesses_with_mismatches": len(found)})
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
