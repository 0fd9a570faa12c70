package utils

import (
	"context"
	"time"

	"lms/logger"

	"github.com/robfig/cron/v3"
)

type DiscountSweeper interface {
	SweepExpiredDiscounts(ctx context.Context) (int64, error)
}

type MirrorReconciler interface {
	ReconcileUserMirror(ctx context.Context) (int, error)
}

// InitializeLearningScheduler registers the discount sweep and the nightly user-mirror repair.
// The caller owns the returned cron and stops it on shutdown.
func InitializeLearningScheduler(sweepSpec, reconcileSpec string, sweeper DiscountSweeper, reconciler MirrorReconciler, log *logger.Logger) (*cron.Cron, error) {
	log = log.With("component", "LearningScheduler")
	log.Info("initializing scheduler", "sweep", sweepSpec, "reconcile", reconcileSpec)

	c := cron.New()

	if _, err := c.AddFunc(sweepSpec, func() {
		RunDiscountSweep(sweeper, log)
	}); err != nil {
		return nil, err
	}

	if _, err := c.AddFunc(reconcileSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		created, err := reconciler.ReconcileUserMirror(ctx)
		if err != nil {
			log.Error("user mirror reconciliation failed", "error", err)
			return
		}
		log.Info("user mirror reconciled", "rows_created", created)
	}); err != nil {
		return nil, err
	}

	c.Start()
	log.Info("scheduler started")
	return c, nil
}

// RunDiscountSweep clears expired discounts once.
func RunDiscountSweep(sweeper DiscountSweeper, log *logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cleared, err := sweeper.SweepExpiredDiscounts(ctx)
	if err != nil {
		log.Error("discount sweep failed", "error", err)
		return
	}
	if cleared > 0 {
		log.Info("discount sweep finished", "cleared", cleared)
	}
}
