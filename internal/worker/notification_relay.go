package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/bernardito-luis/eurodelivery/internal/domain/model"
)

// RelayFacade exposes the subset of application functionality required by the relay.
type RelayFacade interface {
	ClaimNotifications(ctx context.Context, relayID string, limit int, staleBefore time.Time) ([]model.Notification, error)
	RenewNotification(ctx context.Context, id int64, relayID string) error
	DeliverNotification(ctx context.Context, n model.Notification) error
	CompleteNotification(ctx context.Context, id int64, relayID string) error
	FailNotification(ctx context.Context, id int64, relayID, reason string, maxAttempts int) error
}

// RelayOptions tune outbox polling and delivery.
type RelayOptions struct {
	PollInterval  time.Duration
	BatchSize     int
	Workers       int
	MaxAttempts   int
	RatePerSecond float64
}

// NotificationRelay drains the notification outbox with a pool of senders.
type NotificationRelay struct {
	facade  RelayFacade
	id      string
	opts    RelayOptions
	lease   time.Duration
	limiter *rate.Limiter
	now     func() time.Time
	logger  *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewNotificationRelay constructs relay worker pool.
func NewNotificationRelay(facade RelayFacade, opts RelayOptions, logger *slog.Logger) *NotificationRelay {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 1
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = time.Second
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 1
	}

	limit := rate.Inf
	if opts.RatePerSecond > 0 {
		limit = rate.Limit(opts.RatePerSecond)
	}

	id := uuid.NewString()
	return &NotificationRelay{
		facade: facade,
		id:     id,
		opts:   opts,
		// claims older than a few poll cycles belong to a crashed relay
		lease:   opts.PollInterval * 10,
		limiter: rate.NewLimiter(limit, opts.Workers),
		now:     time.Now,
		logger:  logger.With(slog.String("relay_id", id)),
	}
}

// ID returns identifier recorded on claimed rows.
func (r *NotificationRelay) ID() string {
	return r.id
}

// Start launches background delivery.
func (r *NotificationRelay) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	jobs := make(chan model.Notification, r.opts.BatchSize*r.opts.Workers)

	for i := 0; i < r.opts.Workers; i++ {
		r.wg.Add(1)
		go r.worker(runCtx, jobs)
	}

	r.wg.Add(1)
	go r.dispatch(runCtx, jobs)
}

// Stop waits for all workers to finish.
func (r *NotificationRelay) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *NotificationRelay) dispatch(ctx context.Context, jobs chan<- model.Notification) {
	defer r.wg.Done()
	defer close(jobs)
	ticker := time.NewTicker(r.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.claimAndDispatch(ctx, jobs)
		}
	}
}

func (r *NotificationRelay) claimAndDispatch(ctx context.Context, jobs chan<- model.Notification) {
	batch, err := r.facade.ClaimNotifications(ctx, r.id, r.opts.BatchSize, r.now().Add(-r.lease))
	if err != nil {
		r.logger.Error("claim notifications failed", slog.String("error", err.Error()))
		return
	}
	for _, n := range batch {
		select {
		case <-ctx.Done():
			return
		case jobs <- n:
		}
	}
}

func (r *NotificationRelay) worker(ctx context.Context, jobs <-chan model.Notification) {
	defer r.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-jobs:
			if !ok {
				return
			}
			r.deliver(ctx, n)
		}
	}
}

func (r *NotificationRelay) deliver(ctx context.Context, n model.Notification) {
	if err := r.limiter.Wait(ctx); err != nil {
		return
	}
	// the row may have sat in the queue past its lease and been reclaimed
	if err := r.facade.RenewNotification(ctx, n.ID, r.id); err != nil {
		r.logger.Warn("notification skipped",
			slog.Int64("notification_id", n.ID),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := r.facade.DeliverNotification(ctx, n); err != nil {
		r.logger.Warn("notification delivery failed",
			slog.Int64("notification_id", n.ID),
			slog.Int64("order_id", n.OrderID),
			slog.Int("attempt", n.Attempts+1),
			slog.String("error", err.Error()),
		)
		if err := r.facade.FailNotification(ctx, n.ID, r.id, err.Error(), r.opts.MaxAttempts); err != nil {
			r.logger.Error("record delivery failure failed", slog.Int64("notification_id", n.ID), slog.String("error", err.Error()))
		}
		return
	}

	if err := r.facade.CompleteNotification(ctx, n.ID, r.id); err != nil {
		r.logger.Error("mark notification sent failed", slog.Int64("notification_id", n.ID), slog.String("error", err.Error()))
	}
}
