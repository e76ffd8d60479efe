package cron

import (
	"context"
	"log"
	"time"

	"guidely/config"
	"guidely/services/booking"

	"github.com/hibiken/asynq"
)

const TypePayoutRun = "payout:run"

// PayoutInterval is the fixed cadence of the payout scheduler.
const PayoutInterval = 15 * time.Minute

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitPayoutWorker runs the asynq worker and the periodic payout trigger in
// the background. A payout run that errors is retried on the next tick.
func InitPayoutWorker(bookingSvc booking.BookingService) {
	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			// Payout runs must not overlap themselves; one at a time.
			Concurrency: 1,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypePayoutRun, handlePayoutTask(bookingSvc))

	go func() {
		log.Println("[PayoutWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[PayoutWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[PayoutWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()

	startPayoutScheduler()
}

func handlePayoutTask(bookingSvc booking.BookingService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		stats, err := bookingSvc.RunPayouts(ctx, time.Now().UTC())
		if err != nil {
			log.Printf("[PayoutWorker] payout run failed: %v", err)
			return err
		}
		log.Printf("[PayoutWorker] payout run: examined=%d paid=%d skipped=%d failed=%d",
			stats.Examined, stats.Paid, stats.Skipped, stats.Failed)
		return nil
	}
}

// startPayoutScheduler enqueues the payout task on the fixed cadence.
func startPayoutScheduler() {
	scheduler := asynq.NewScheduler(redisOpts(), nil)

	if _, err := scheduler.Register("@every 15m", asynq.NewTask(TypePayoutRun, nil)); err != nil {
		log.Fatalf("[PayoutWorker] failed to register payout schedule: %v", err)
	}

	go func() {
		if err := scheduler.Run(); err != nil {
			log.Fatalf("[PayoutWorker] scheduler failed: %v", err)
		}
	}()
}
