// Package rostercheck drives a running activities service with concurrent
// signups and unregisters and verifies the rosters it reports afterwards.
package rostercheck

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/mergington/pkg/logger"
)

const defaultWorkers = 8

// Run executes the complete roster check.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	log := logger.Named("rostercheck")
	stats := &Stats{StartTime: time.Now()}
	client := NewClient(cfg.BaseURL, cfg.Timeout)

	log.Info(ctx, "starting roster check",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("students", cfg.Students),
		logger.Int("workers", cfg.Workers),
		logger.String("timeout", cfg.Timeout.String()),
		logger.Bool("keepRoster", cfg.KeepRoster),
	)

	// Step 1: Check service health
	if err := client.Health(ctx); err != nil {
		return stats, err
	}
	enforced, err := client.CapacityEnforced(ctx)
	if err != nil {
		return stats, err
	}

	// Step 2: Plan assignments against the current registry
	before, err := client.Activities(ctx)
	if err != nil {
		return stats, err
	}
	plan, err := Plan(cfg.Students, cfg.Domain, cfg.Activities, before)
	if err != nil {
		return stats, err
	}
	stats.Assigned = len(plan)

	// Step 3: Sign everyone up concurrently, then repeat each accepted
	// signup and expect the duplicate to be rejected
	outcomes := fanOut(ctx, cfg.Workers, plan, func(ctx context.Context, a Assignment) Outcome {
		o, err := client.Signup(ctx, a.Activity, a.Email)
		if err != nil && cfg.Verbose {
			log.Warn(ctx, "signup failed", logger.String("activity", a.Activity), logger.Error(err))
		}
		switch o {
		case OutcomeOK:
		case OutcomeDuplicate:
			// a fresh email can't already be on a roster
			return OutcomeFailed
		default:
			return o
		}
		if again, _ := client.Signup(ctx, a.Activity, a.Email); again == OutcomeDuplicate {
			return OutcomeDuplicate
		}
		return OutcomeFailed
	})

	var accepted, rejected []Assignment
	var errs []error
	for i, o := range outcomes {
		switch o {
		case OutcomeDuplicate:
			// first signup succeeded, repeat was rejected
			accepted = append(accepted, plan[i])
			stats.DuplicatesRejected++
		case OutcomeFull:
			rejected = append(rejected, plan[i])
			stats.Full++
		case OutcomeNotFound:
			rejected = append(rejected, plan[i])
		default:
			stats.Failed++
		}
	}
	stats.SignedUp = len(accepted)
	if stats.Failed > 0 {
		errs = append(errs, fmt.Errorf("%d signups failed or were not rejected on repeat", stats.Failed))
	}
	log.Info(ctx, "signup phase completed",
		logger.Int("signedUp", stats.SignedUp),
		logger.Int("full", stats.Full),
		logger.Int("failed", stats.Failed),
	)

	// Step 4: Verify rosters
	after, err := client.Activities(ctx)
	if err != nil {
		return finish(ctx, stats, append(errs, err)...)
	}
	stats.ActivitiesChecked = len(after)
	stats.ParticipantsObserved = countParticipants(after)
	errs = append(errs, VerifyPresent(after, accepted, rejected))
	if enforced {
		errs = append(errs, VerifyCapacity(after))
	}

	if cfg.KeepRoster {
		return finish(ctx, stats, errs...)
	}

	// Step 5: Unregister everyone that got in and verify they are gone
	undo := fanOut(ctx, cfg.Workers, accepted, func(ctx context.Context, a Assignment) Outcome {
		o, err := client.Unregister(ctx, a.Activity, a.Email)
		if err != nil && cfg.Verbose {
			log.Warn(ctx, "unregister failed", logger.String("activity", a.Activity), logger.Error(err))
		}
		return o
	})
	for _, o := range undo {
		if o == OutcomeOK {
			stats.Unregistered++
		}
	}
	if stats.Unregistered != len(accepted) {
		errs = append(errs, fmt.Errorf("%w: unregistered %d of %d", ErrRosterMismatch, stats.Unregistered, len(accepted)))
	}

	final, err := client.Activities(ctx)
	if err != nil {
		return finish(ctx, stats, append(errs, err)...)
	}
	errs = append(errs, VerifyAbsent(final, accepted))

	return finish(ctx, stats, errs...)
}

func finish(ctx context.Context, stats *Stats, errs ...error) (*Stats, error) {
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)
	return stats, errors.Join(errs...)
}

// fanOut runs fn over items with a bounded worker pool. Results keep the
// order of items; items skipped after ctx is done report OutcomeFailed.
func fanOut(ctx context.Context, workers int, items []Assignment, fn func(context.Context, Assignment) Outcome) []Outcome {
	if workers <= 0 {
		workers = defaultWorkers
	}
	results := make([]Outcome, len(items))
	for i := range results {
		results[i] = OutcomeFailed
	}

	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					continue
				}
				results[i] = fn(ctx, items[i])
			}
		}()
	}

feed:
	for i := range items {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
	return results
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var perSecond float64
	if stats.Duration > 0 {
		perSecond = float64(stats.Assigned) / stats.Duration.Seconds()
	}

	logger.Named("rostercheck").Info(ctx, "final statistics",
		logger.Int("assigned", stats.Assigned),
		logger.Int("signedUp", stats.SignedUp),
		logger.Int("duplicatesRejected", stats.DuplicatesRejected),
		logger.Int("full", stats.Full),
		logger.Int("unregistered", stats.Unregistered),
		logger.Int("failed", stats.Failed),
		logger.Int("activitiesChecked", stats.ActivitiesChecked),
		logger.Int("participantsObserved", stats.ParticipantsObserved),
		logger.String("duration", stats.Duration.String()),
		logger.Any("studentsPerSecond", perSecond),
	)
}
