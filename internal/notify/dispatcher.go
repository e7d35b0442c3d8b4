package notify

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/gearguard/gearguard/pkg/plugin"
	"github.com/gearguard/gearguard/pkg/roles"
	"go.uber.org/zap"
)

// Dispatcher drains the notification queue with a pool of delivery
// workers. Jobs are claimed with a conditional update so concurrent
// pollers never deliver the same job twice.
type Dispatcher struct {
	store  *JobStore
	sinks  []Sink
	bus    plugin.EventBus
	logger *zap.Logger
	cfg    NotifyConfig
	now    func() time.Time

	jobs chan Job
	wg   sync.WaitGroup
}

// NewDispatcher creates a dispatcher over the given sinks.
func NewDispatcher(store *JobStore, sinks []Sink, bus plugin.EventBus, cfg NotifyConfig, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		store:  store,
		sinks:  sinks,
		bus:    bus,
		logger: logger,
		cfg:    cfg,
		now:    func() time.Time { return time.Now().UTC() },
		jobs:   make(chan Job, cfg.Workers*2),
	}
}

// Run starts the poller and worker pool and blocks until ctx is done.
func (d *Dispatcher) Run(ctx context.Context) {
	for i := 0; i < d.cfg.Workers; i++ {
		d.wg.Add(1)
		go d.worker(ctx)
	}

	ticker := time.NewTicker(d.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			close(d.jobs)
			d.wg.Wait()
			return
		case <-ticker.C:
			d.poll(ctx)
		}
	}
}

// poll claims due jobs and hands them to the worker pool.
func (d *Dispatcher) poll(ctx context.Context) {
	due, err := d.store.ListDue(ctx, d.now(), cap(d.jobs))
	if err != nil {
		d.logger.Warn("failed to list due notification jobs", zap.Error(err))
		return
	}

	for _, j := range due {
		claimed, err := d.store.Claim(ctx, j.ID)
		if err != nil {
			d.logger.Warn("failed to claim notification job",
				zap.String("job_id", j.ID),
				zap.Error(err),
			)
			continue
		}
		if !claimed {
			continue
		}
		select {
		case d.jobs <- j:
		case <-ctx.Done():
			return
		}
	}
}

func (d *Dispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for j := range d.jobs {
		d.process(ctx, j)
	}
}

// process makes one delivery attempt for a claimed job.
func (d *Dispatcher) process(ctx context.Context, j Job) {
	var n roles.AlertNotification
	if err := json.Unmarshal([]byte(j.Payload), &n); err != nil {
		// A corrupt payload will never deliver; park it immediately.
		d.logger.Error("corrupt notification payload",
			zap.String("job_id", j.ID),
			zap.Error(err),
		)
		d.fail(ctx, j, j.AttemptCount+1, "corrupt payload: "+err.Error())
		return
	}

	attempts := j.AttemptCount + 1
	if err := d.deliver(ctx, n); err != nil {
		deliveryFailuresTotal.Inc()
		if attempts >= d.cfg.MaxAttempts {
			d.fail(ctx, j, attempts, err.Error())
			return
		}

		delay := backoffDelay(d.cfg.BackoffBase, attempts)
		next := d.now().Add(delay)
		d.logger.Warn("notification delivery failed, will retry",
			zap.String("job_id", j.ID),
			zap.String("alert_id", j.AlertID),
			zap.Int("attempt", attempts),
			zap.Duration("retry_in", delay),
			zap.Error(err),
		)
		if err := d.store.Reschedule(ctx, j.ID, attempts, err.Error(), next); err != nil {
			d.logger.Error("failed to reschedule notification job",
				zap.String("job_id", j.ID),
				zap.Error(err),
			)
		}
		return
	}

	if err := d.store.MarkDelivered(ctx, j.ID, attempts, d.now()); err != nil {
		d.logger.Error("failed to mark job delivered",
			zap.String("job_id", j.ID),
			zap.Error(err),
		)
		return
	}
	deliveriesTotal.Inc()
	d.logger.Info("notification delivered",
		zap.String("job_id", j.ID),
		zap.String("alert_id", j.AlertID),
		zap.Int("attempts", attempts),
	)
	if d.bus != nil {
		d.bus.PublishAsync(ctx, plugin.Event{
			Topic:     TopicDelivered,
			Source:    "notify",
			Timestamp: d.now(),
			Payload:   map[string]any{"job_id": j.ID, "alert_id": j.AlertID},
		})
	}
}

// deliver fans the notification out to every configured sink. The
// attempt fails if any sink fails; a retry re-sends to all sinks.
func (d *Dispatcher) deliver(ctx context.Context, n roles.AlertNotification) error {
	var errs []string
	for _, sink := range d.sinks {
		if err := sink.Deliver(ctx, n); err != nil {
			errs = append(errs, sink.Name()+": "+err.Error())
		}
	}
	if len(errs) > 0 {
		return &deliveryError{detail: strings.Join(errs, "; ")}
	}
	return nil
}

// fail parks a job in the failure queue.
func (d *Dispatcher) fail(ctx context.Context, j Job, attempts int, lastError string) {
	lastError = ErrDeliveryExhausted.Error() + ": " + lastError
	if err := d.store.MarkFailed(ctx, j.ID, attempts, lastError); err != nil {
		d.logger.Error("failed to park notification job",
			zap.String("job_id", j.ID),
			zap.Error(err),
		)
		return
	}
	deliveriesExhaustedTotal.Inc()
	d.logger.Error("notification delivery exhausted",
		zap.String("job_id", j.ID),
		zap.String("alert_id", j.AlertID),
		zap.Int("attempts", attempts),
		zap.String("last_error", lastError),
	)
	if d.bus != nil {
		d.bus.PublishAsync(ctx, plugin.Event{
			Topic:     TopicDeliveryExhausted,
			Source:    "notify",
			Timestamp: d.now(),
			Payload: map[string]any{
				"job_id":     j.ID,
				"alert_id":   j.AlertID,
				"last_error": lastError,
			},
		})
	}
}

// backoffDelay doubles the base delay with each failed attempt.
func backoffDelay(base time.Duration, attempts int) time.Duration {
	delay := base
	for i := 1; i < attempts; i++ {
		delay *= 2
	}
	return delay
}

type deliveryError struct {
	detail string
}

func (e *deliveryError) Error() string {
	return "delivery failed: " + e.detail
}
