package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"ctv-ads/internal/config/configs"
	"ctv-ads/internal/core/domain"
	"ctv-ads/internal/core/port"
	"ctv-ads/internal/metrics"
)

const (
	defaultBatchSize     = 100
	defaultBatchInterval = 5 * time.Second
	defaultMaxQueue      = 100000
)

// ImpressionBatcher queues delivery events in memory and persists them in
// batches, either when the queue reaches the batch size or when the flush
// timer fires.
//
// Delivery is at-least-once only for events that reach a committed flush:
// events still queued when the process crashes are lost. A failed batch is
// put back at the head of the queue and retried after an exponential
// backoff. The queue is bounded by maxQueue; beyond it the oldest events
// are dropped.
type ImpressionBatcher struct {
	repo   port.ImpressionRepository
	logger *slog.Logger

	size         int
	maxQueue     int
	interval     time.Duration
	maxBackoff   time.Duration
	flushTimeout time.Duration

	mu       sync.Mutex
	queue    []domain.Impression
	failures int
	retryAt  time.Time
	dropping bool

	// flushMu serializes flushes. Threshold flushes use TryLock so Track
	// never queues up behind a slow flush.
	flushMu sync.Mutex

	now func() time.Time
}

// NewImpressionBatcher creates a batcher persisting into repo. Call Run to
// start the flush timer.
func NewImpressionBatcher(repo port.ImpressionRepository, cfg configs.Batch, logger *slog.Logger) *ImpressionBatcher {
	b := &ImpressionBatcher{
		repo:         repo,
		logger:       logger,
		size:         cfg.Size,
		maxQueue:     cfg.MaxQueue,
		interval:     cfg.Interval,
		maxBackoff:   cfg.MaxBackoff,
		flushTimeout: cfg.FlushTimeout,
		now:          time.Now,
	}
	if b.size <= 0 {
		b.size = defaultBatchSize
	}
	if b.interval <= 0 {
		b.interval = defaultBatchInterval
	}
	if b.maxQueue <= 0 {
		b.maxQueue = defaultMaxQueue
	}
	if b.maxQueue < b.size {
		b.maxQueue = b.size
	}
	if b.maxBackoff < b.interval {
		b.maxBackoff = b.interval
	}
	return b
}

var _ port.ImpressionTracker = (*ImpressionBatcher)(nil)

// Track validates imp and appends it to the queue. When the queue reaches
// the batch size the batch is flushed before Track returns.
func (b *ImpressionBatcher) Track(ctx context.Context, imp domain.Impression) error {
	if err := imp.Normalize(b.now()); err != nil {
		return fmt.Errorf("%w: %v", port.ErrInvalidImpression, err)
	}

	b.mu.Lock()
	b.queue = append(b.queue, imp)
	dropped := b.trimLocked()
	warn := dropped > 0 && !b.dropping
	if dropped > 0 {
		b.dropping = true
	}
	depth := len(b.queue)
	full := depth >= b.size && b.dueLocked()
	metrics.ImpressionQueueDepth.Set(float64(depth))
	b.mu.Unlock()

	metrics.ImpressionsTrackedTotal.Inc()
	if warn {
		b.logger.Warn("impression queue full, dropping oldest events", slog.Int("max_queue", b.maxQueue))
	}
	if full {
		b.tryFlush(context.WithoutCancel(ctx))
	}
	return nil
}

// Pending returns the number of queued impressions.
func (b *ImpressionBatcher) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue)
}

// Flush persists everything queued right now, waiting for a flush already
// in progress. It ignores the retry backoff.
func (b *ImpressionBatcher) Flush(ctx context.Context) error {
	b.flushMu.Lock()
	defer b.flushMu.Unlock()
	return b.flushLocked(ctx)
}

// Run fires a flush every interval until ctx is cancelled, then makes a
// final best-effort flush.
func (b *ImpressionBatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			b.shutdown(context.WithoutCancel(ctx))
			return nil
		case <-ticker.C:
			b.mu.Lock()
			due := b.dueLocked()
			b.mu.Unlock()
			if due {
				b.tryFlush(ctx)
			}
		}
	}
}

func (b *ImpressionBatcher) shutdown(ctx context.Context) {
	if err := b.Flush(ctx); err != nil {
		b.logger.Error("final impression flush failed, queued events are lost",
			slog.Int("pending", b.Pending()), slog.Any("error", err))
		return
	}
	b.logger.Info("impression queue drained")
}

func (b *ImpressionBatcher) tryFlush(ctx context.Context) {
	if !b.flushMu.TryLock() {
		return
	}
	defer b.flushMu.Unlock()
	// Errors are logged by flushLocked and the batch is already re-queued.
	_ = b.flushLocked(ctx)
}

// flushLocked swaps the queue for an empty one and saves the batch. Events
// tracked meanwhile land in the new queue. Callers must hold flushMu.
func (b *ImpressionBatcher) flushLocked(ctx context.Context) error {
	b.mu.Lock()
	batch := b.queue
	b.queue = nil
	b.mu.Unlock()
	metrics.ImpressionQueueDepth.Set(0)
	if len(batch) == 0 {
		return nil
	}

	if b.flushTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.flushTimeout)
		defer cancel()
	}
	start := time.Now()
	err := b.repo.SaveBatch(ctx, batch)
	metrics.ImpressionFlushDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		b.mu.Lock()
		b.failures++
		delay := b.backoffLocked()
		b.retryAt = b.now().Add(delay)
		b.queue = append(batch, b.queue...)
		dropped := b.trimLocked()
		failures, depth := b.failures, len(b.queue)
		b.mu.Unlock()

		metrics.ImpressionFlushFailuresTotal.Inc()
		metrics.ImpressionQueueDepth.Set(float64(depth))
		b.logger.Error("impression flush failed, batch re-queued",
			slog.Int("batch", len(batch)),
			slog.Int("failures", failures),
			slog.Duration("retry_in", delay),
			slog.Any("error", err))
		if dropped > 0 {
			b.logger.Warn("impression queue over bound, oldest events dropped",
				slog.Int("dropped", dropped), slog.Int("max_queue", b.maxQueue))
		}
		return fmt.Errorf("flush %d impressions: %w", len(batch), err)
	}

	b.mu.Lock()
	b.failures = 0
	b.retryAt = time.Time{}
	b.dropping = false
	depth := len(b.queue)
	b.mu.Unlock()

	metrics.ImpressionsFlushedTotal.Add(float64(len(batch)))
	metrics.ImpressionQueueDepth.Set(float64(depth))
	b.logger.Debug("impressions flushed", slog.Int("batch", len(batch)))
	return nil
}

// dueLocked reports whether the retry backoff has elapsed.
func (b *ImpressionBatcher) dueLocked() bool {
	return b.failures == 0 || !b.now().Before(b.retryAt)
}

// backoffLocked doubles the interval per consecutive failure, capped at
// maxBackoff.
func (b *ImpressionBatcher) backoffLocked() time.Duration {
	d := b.interval
	for i := 1; i < b.failures && d < b.maxBackoff; i++ {
		d *= 2
	}
	return min(d, b.maxBackoff)
}

// trimLocked drops the oldest events beyond maxQueue and returns how many
// were dropped.
func (b *ImpressionBatcher) trimLocked() int {
	n := len(b.queue) - b.maxQueue
	if n <= 0 {
		return 0
	}
	b.queue = b.queue[n:]
	metrics.ImpressionsDroppedTotal.Add(float64(n))
	return n
}
