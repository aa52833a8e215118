package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"ctv-ads/internal/config/configs"
	"ctv-ads/internal/core/domain"
	"ctv-ads/internal/core/port"
	"ctv-ads/internal/metrics"
)

// counterTimeout bounds the detached pacing counter update.
const counterTimeout = 250 * time.Millisecond

// AdUseCase picks ads using only the fast cache. It never touches the
// system of record, and every cache failure degrades to no-fill.
type AdUseCase struct {
	cache  port.AdCache
	logger *slog.Logger

	timeout  time.Duration
	pageSize int

	now  func() time.Time
	pick func(n int) int
}

// NewAdUseCase creates a decision service reading from cache.
func NewAdUseCase(cache port.AdCache, cfg configs.Decision, logger *slog.Logger) *AdUseCase {
	return &AdUseCase{
		cache:    cache,
		logger:   logger,
		timeout:  cfg.Timeout,
		pageSize: cfg.PageSize,
		now:      time.Now,
		pick:     rand.IntN,
	}
}

// RequestAd walks the ranked campaigns and returns the first one that is
// still eligible and has an active creative. It returns nil on no-fill.
// Cached records may be stale, so eligibility is checked again for every
// candidate.
func (u *AdUseCase) RequestAd(ctx context.Context, req domain.AdRequest) (*port.AdResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", port.ErrInvalidRequest, err)
	}
	start := time.Now()
	defer func() { metrics.AdDecisionDuration.Observe(time.Since(start).Seconds()) }()

	if u.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.timeout)
		defer cancel()
	}

	resp, err := u.decide(ctx)
	if err != nil {
		u.logger.Warn("ad decision degraded to no-fill",
			slog.String("device_id", req.DeviceID), slog.Any("error", err))
		metrics.AdDecisionsTotal.WithLabelValues(metrics.OutcomeDegraded).Inc()
		return nil, nil
	}
	if resp == nil {
		metrics.AdDecisionsTotal.WithLabelValues(metrics.OutcomeNoFill).Inc()
		return nil, nil
	}

	metrics.AdDecisionsTotal.WithLabelValues(metrics.OutcomeFill).Inc()
	go u.countRequest(resp.CampaignID)
	return resp, nil
}

// decide pages through the ranked set until a campaign fills or the set is
// exhausted. The request deadline bounds the walk.
func (u *AdUseCase) decide(ctx context.Context) (*port.AdResponse, error) {
	now := u.now()
	for offset := 0; ; offset += u.pageSize {
		ids, err := u.cache.RankedCampaignIDs(ctx, offset, u.pageSize)
		if err != nil {
			return nil, fmt.Errorf("ranked campaigns: %w", err)
		}
		resp, err := u.firstFill(ctx, ids, now)
		if resp != nil || err != nil {
			return resp, err
		}
		if u.pageSize <= 0 || len(ids) < u.pageSize {
			return nil, nil
		}
	}
}

func (u *AdUseCase) firstFill(ctx context.Context, ids []int64, now time.Time) (*port.AdResponse, error) {
	for _, id := range ids {
		camp, err := u.cache.GetCampaign(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("campaign %d: %w", id, err)
		}
		if camp == nil || !camp.Eligible(now) {
			continue
		}

		creatives, err := u.cache.CampaignCreatives(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("campaign %d creatives: %w", id, err)
		}
		cr, ok := u.chooseCreative(id, creatives)
		if !ok {
			continue
		}
		return &port.AdResponse{
			CampaignID: camp.ID,
			CreativeID: cr.ID,
			VideoURL:   cr.VideoURL,
			Duration:   cr.Duration,
			Format:     cr.Format,
		}, nil
	}
	return nil, nil
}

// chooseCreative selects uniformly among the active creatives owned by
// campaignID.
func (u *AdUseCase) chooseCreative(campaignID int64, creatives []domain.Creative) (domain.Creative, bool) {
	active := make([]domain.Creative, 0, len(creatives))
	for _, cr := range creatives {
		if cr.Active() && cr.CampaignID == campaignID {
			active = append(active, cr)
		}
	}
	if len(active) == 0 {
		return domain.Creative{}, false
	}
	return active[u.pick(len(active))], true
}

// countRequest increments the pacing counter without holding up the
// response. Failures are only logged.
func (u *AdUseCase) countRequest(campaignID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), counterTimeout)
	defer cancel()
	if err := u.cache.IncrRequestCounter(ctx, campaignID); err != nil {
		u.logger.Debug("pacing counter update failed",
			slog.Int64("campaign_id", campaignID), slog.Any("error", err))
	}
}
