package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"fitbook/config"
	"fitbook/services/booking"
	"fitbook/services/tasks"

	"github.com/hibiken/asynq"
)

// InitConfirmWorker runs the async worker that fires deferred booking
// confirmations in the background.
func InitConfirmWorker(svc booking.BookingService) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeBookingConfirm, handleConfirmTask(svc))

	go func() {
		log.Println("[ConfirmWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ConfirmWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ConfirmWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

// handleConfirmTask applies the deferred held -> confirmed transition. A
// booking that already left held (canceled, or confirmed by an earlier
// delivery) is left alone rather than retried.
func handleConfirmTask(svc booking.BookingService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.BookingConfirmPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ConfirmHandler] invalid payload: %v", err)
			return err
		}

		err := svc.ConfirmBooking(p.BookingID)
		switch booking.ErrorCode(err) {
		case booking.CodeInconsistentState, booking.CodeNotFound:
			log.Printf("[ConfirmHandler] confirm %s skipped: %v", p.BookingID, err)
			return nil
		default:
			if err != nil {
				log.Printf("[ConfirmHandler] confirm %s failed, will retry: %v", p.BookingID, err)
			}
			return err
		}
	}
}
