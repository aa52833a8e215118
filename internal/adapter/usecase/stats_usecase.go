package usecase

import (
	"context"

	"ctv-ads/internal/core/domain"
	"ctv-ads/internal/core/port"
)

// StatsUseCase serves reporting queries from the daily rollup table.
type StatsUseCase struct {
	repo port.StatsRepository
}

func NewStatsUseCase(repo port.StatsRepository) *StatsUseCase {
	return &StatsUseCase{repo: repo}
}

// GetDailyStats returns rollup rows for the days touched by req.
func (u *StatsUseCase) GetDailyStats(ctx context.Context, req port.StatsReq) ([]domain.DailyRollup, error) {
	req.From = domain.Day(req.From)
	req.To = domain.Day(req.To)
	return u.repo.GetDailyStats(ctx, req)
}

// GetStats sums impressions over the days touched by req.
func (u *StatsUseCase) GetStats(ctx context.Context, req port.StatsReq) (*port.StatsResp, error) {
	rows, err := u.GetDailyStats(ctx, req)
	if err != nil {
		return nil, err
	}
	resp := &port.StatsResp{}
	days := make(map[int64]struct{}, len(rows))
	for _, r := range rows {
		resp.Impressions += r.Impressions
		days[r.Date.Unix()] = struct{}{}
	}
	resp.Days = len(days)
	return resp, nil
}
