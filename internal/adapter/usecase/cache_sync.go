package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ctv-ads/internal/config/configs"
	"ctv-ads/internal/core/domain"
	"ctv-ads/internal/core/port"
	"ctv-ads/internal/metrics"
)

const defaultSyncInterval = 5 * time.Second

const (
	syncModeFull     = "full"
	syncModeTargeted = "targeted"
)

// CacheSync keeps the fast cache eventually consistent with the system of
// record. A full sync runs every interval; targeted syncs for single
// entities are queued through Notify and applied between full cycles by the
// same goroutine, so writes to the cache never race each other.
type CacheSync struct {
	repo   port.CatalogRepository
	cache  port.CacheWriter
	logger *slog.Logger

	interval time.Duration
	timeout  time.Duration
	notify   chan domain.Mutation

	now func() time.Time
}

// NewCacheSync creates a synchronizer. Call Run to start it.
func NewCacheSync(repo port.CatalogRepository, cache port.CacheWriter, cfg configs.Sync, logger *slog.Logger) *CacheSync {
	buf := cfg.NotifyBuffer
	if buf <= 0 {
		buf = 1
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultSyncInterval
	}
	return &CacheSync{
		repo:     repo,
		cache:    cache,
		logger:   logger,
		interval: interval,
		timeout:  cfg.Timeout,
		notify:   make(chan domain.Mutation, buf),
		now:      time.Now,
	}
}

var _ port.CatalogNotifier = (*CacheSync)(nil)

// Notify queues a targeted sync. It never blocks: when the queue is full the
// notification is dropped and the next full sync picks the change up.
func (s *CacheSync) Notify(m domain.Mutation) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("%w: %v", port.ErrInvalidMutation, err)
	}
	select {
	case s.notify <- m:
	default:
		metrics.CacheNotificationsDropped.Inc()
		s.logger.Warn("targeted sync queue full, notification dropped",
			slog.String("entity", string(m.Entity)), slog.Int64("id", m.ID))
	}
	return nil
}

// Run performs an initial full sync and then serves the ticker and the
// notification queue until ctx is cancelled. Failed cycles are logged and
// retried on the next tick.
func (s *CacheSync) Run(ctx context.Context) error {
	s.runFull(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.runFull(ctx)
		case m := <-s.notify:
			s.runTargeted(ctx, m)
		}
	}
}

func (s *CacheSync) runFull(ctx context.Context) {
	if err := s.observe(ctx, syncModeFull, s.FullSync); err != nil {
		s.logger.Error("full cache sync failed", slog.Any("error", err))
	}
}

func (s *CacheSync) runTargeted(ctx context.Context, m domain.Mutation) {
	err := s.observe(ctx, syncModeTargeted, func(ctx context.Context) error {
		return s.SyncEntity(ctx, m)
	})
	if err != nil {
		s.logger.Error("targeted cache sync failed",
			slog.String("entity", string(m.Entity)), slog.Int64("id", m.ID), slog.Any("error", err))
	}
}

func (s *CacheSync) observe(ctx context.Context, mode string, fn func(context.Context) error) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	start := time.Now()
	err := fn(ctx)
	metrics.CacheSyncDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.CacheSyncTotal.WithLabelValues(mode, result).Inc()
	return err
}

// FullSync reads the whole catalog and rewrites the cache. The ranked set is
// rebuilt from scratch, so running it twice over unchanged data yields the
// same cache state. Nothing is written when a read fails.
func (s *CacheSync) FullSync(ctx context.Context) error {
	campaigns, err := s.repo.ListCampaigns(ctx)
	if err != nil {
		return fmt.Errorf("list campaigns: %w", err)
	}
	creatives, err := s.repo.ListCreatives(ctx)
	if err != nil {
		return fmt.Errorf("list creatives: %w", err)
	}

	now := s.now()
	snap := port.CatalogSnapshot{Campaigns: campaigns, Creatives: creatives}
	for _, c := range campaigns {
		if c.Eligible(now) {
			snap.Ranked = append(snap.Ranked, c.ID)
		}
	}
	if err = s.cache.ReplaceCatalog(ctx, snap); err != nil {
		return fmt.Errorf("replace catalog: %w", err)
	}
	s.logger.Debug("full cache sync done",
		slog.Int("campaigns", len(campaigns)),
		slog.Int("creatives", len(creatives)),
		slog.Int("ranked", len(snap.Ranked)))
	return nil
}

// SyncEntity refreshes the cache entries of a single entity from the
// system of record. An entity that no longer exists upstream is removed.
func (s *CacheSync) SyncEntity(ctx context.Context, m domain.Mutation) error {
	switch m.Entity {
	case domain.EntityCampaign:
		return s.syncCampaign(ctx, m.ID)
	case domain.EntityCreative:
		return s.syncCreative(ctx, m.ID)
	default:
		return fmt.Errorf("%w: unknown entity %q", port.ErrInvalidMutation, m.Entity)
	}
}

func (s *CacheSync) syncCampaign(ctx context.Context, id int64) error {
	camp, err := s.repo.GetCampaign(ctx, id)
	if err != nil {
		return fmt.Errorf("get campaign %d: %w", id, err)
	}
	if camp == nil {
		return s.cache.RemoveCampaign(ctx, id)
	}
	ranked := camp.Eligible(s.now())
	if err = s.cache.PutCampaign(ctx, *camp, ranked); err != nil {
		return fmt.Errorf("put campaign %d: %w", id, err)
	}
	// A campaign that becomes servable needs its creatives cached too; they
	// may have expired while it was paused.
	if !ranked {
		return nil
	}
	creatives, err := s.repo.ListCampaignCreatives(ctx, id)
	if err != nil {
		return fmt.Errorf("list creatives of campaign %d: %w", id, err)
	}
	for _, cr := range creatives {
		if err = s.cache.PutCreative(ctx, cr); err != nil {
			return fmt.Errorf("put creative %d: %w", cr.ID, err)
		}
	}
	return nil
}

func (s *CacheSync) syncCreative(ctx context.Context, id int64) error {
	cr, err := s.repo.GetCreative(ctx, id)
	if err != nil {
		return fmt.Errorf("get creative %d: %w", id, err)
	}
	if cr == nil {
		return s.cache.RemoveCreative(ctx, id)
	}
	return s.cache.PutCreative(ctx, *cr)
}
