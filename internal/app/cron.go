package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tiendita/pos-core/internal/models"
	pkgcron "github.com/tiendita/pos-core/internal/pkg/cron"
)

// registerCronJobs registers all scheduled background jobs.
func (a *App) registerCronJobs() {
	log := a.logger.Named("cron")

	a.sched.Register(pkgcron.Job{
		Name:        "sweep_sessions",
		Description: "Delete expired and revoked login sessions",
		Interval:    time.Hour,
		Fn: func(ctx context.Context) error {
			n, err := a.sessions.SweepExpired()
			if err != nil {
				log.Warn("session sweep failed", zap.Error(err))
				return err
			}
			if n > 0 {
				log.Info(fmt.Sprintf("session sweep removed %d rows", n))
			}
			return nil
		},
	})

	a.sched.Register(pkgcron.Job{
		Name:        "stale_registers",
		Description: "Warn about registers left open for more than 24 hours",
		Interval:    6 * time.Hour,
		Fn: func(ctx context.Context) error {
			cutoff := time.Now().Add(-24 * time.Hour)
			var stale []models.CashRegisterModel
			err := a.db.WithContext(ctx).
				Where("status = ? AND opened_at < ?", models.RegisterOpen, cutoff).
				Find(&stale).Error
			if err != nil {
				return err
			}
			for _, row := range stale {
				log.Warn("register open for more than 24h",
					zap.String("register", row.ID),
					zap.String("checkout", row.CheckoutID),
					zap.Time("opened_at", row.OpenedAt),
				)
			}
			return nil
		},
	})
}
