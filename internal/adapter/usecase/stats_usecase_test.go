package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ctv-ads/internal/core/domain"
	"ctv-ads/internal/core/port"
	"ctv-ads/internal/core/port/mocks"
)

func TestGetStatsSumsRollups(t *testing.T) {
	repo := mocks.NewMockStatsRepository(t)
	day := domain.Day(testNow)
	id := int64(3)

	repo.EXPECT().
		GetDailyStats(mock.Anything, port.StatsReq{From: day.AddDate(0, 0, -1), To: day, CampaignID: &id}).
		Return([]domain.DailyRollup{
			{CampaignID: 3, Date: day.AddDate(0, 0, -1), Impressions: 40},
			{CampaignID: 3, Date: day, Impressions: 60},
		}, nil)

	svc := NewStatsUseCase(repo)
	resp, err := svc.GetStats(context.Background(), port.StatsReq{
		From:       testNow.Add(-24 * time.Hour),
		To:         testNow,
		CampaignID: &id,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(100), resp.Impressions)
	assert.Equal(t, 2, resp.Days)
}

func TestGetStatsPropagatesError(t *testing.T) {
	repo := mocks.NewMockStatsRepository(t)
	repo.EXPECT().GetDailyStats(mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	_, err := NewStatsUseCase(repo).GetStats(context.Background(), port.StatsReq{From: testNow, To: testNow})
	assert.Error(t, err)
}
