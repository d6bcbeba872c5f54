// services/scheduler.go
package services

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartStatsScheduler kicks off the nightly full statistics sweep.
func (s *StatsService) StartStatsScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Every 24h: recompute every user's snapshot
	_, _ = sched.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
			defer cancel()

			updated, failed, err := s.RecalculateAll(ctx)
			if err != nil {
				log.Printf("[Scheduler] Stats sweep error: %v", err)
				return
			}
			log.Printf("✅ [Scheduler] Nightly stats sweep: %d updated, %d skipped", updated, failed)
		}),
	)
}
