package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	redisadapter "ctv-ads/internal/adapter/redis"
	"ctv-ads/internal/config/configs"
	"ctv-ads/internal/core/domain"
	"ctv-ads/internal/core/port"
	"ctv-ads/internal/core/port/mocks"
)

func newSync(t *testing.T, cfg configs.Sync) (*CacheSync, *mocks.MockCatalogRepository, *redisadapter.AdCache, *miniredis.Miniredis) {
	t.Helper()
	repo := mocks.NewMockCatalogRepository(t)
	cache, mr := newRedisCache(t)
	s := NewCacheSync(repo, cache, cfg, discardLogger())
	s.now = func() time.Time { return testNow }
	return s, repo, cache, mr
}

func catalogFixture() ([]domain.Campaign, []domain.Creative) {
	paused := activeCampaign(4, 500, 0)
	paused.Status = domain.CampaignPaused
	ended := activeCampaign(5, 500, 0)
	ended.EndDate = testNow.Add(-time.Hour)

	campaigns := []domain.Campaign{
		activeCampaign(1, 100, 90), // remaining 10
		activeCampaign(2, 100, 10), // remaining 90
		activeCampaign(3, 300, 0),  // remaining 300
		paused,
		ended,
		activeCampaign(6, 100, 100), // exhausted
		activeCampaign(7, 200, 150), // remaining 50
	}
	creatives := []domain.Creative{
		activeCreative(10, 1),
		activeCreative(20, 2),
		activeCreative(21, 2),
		activeCreative(30, 3),
		activeCreative(40, 4),
	}
	return campaigns, creatives
}

// TestFullSyncRoundTrip checks the ranked set holds exactly the servable
// campaigns ordered by remaining budget.
func TestFullSyncRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, repo, cache, mr := newSync(t, configs.Sync{})
	campaigns, creatives := catalogFixture()
	repo.EXPECT().ListCampaigns(mock.Anything).Return(campaigns, nil)
	repo.EXPECT().ListCreatives(mock.Anything).Return(creatives, nil)

	require.NoError(t, s.FullSync(ctx))

	ids, err := cache.RankedCampaignIDs(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 2, 7, 1}, ids)

	for _, c := range campaigns {
		got, err := cache.GetCampaign(ctx, c.ID)
		require.NoError(t, err)
		require.NotNil(t, got, "campaign %d must be mirrored", c.ID)
		assert.Equal(t, c, *got)
		assert.Equal(t, cacheTTL, mr.TTL(redisadapter.CampaignKey(c.ID)))
	}
	set, err := cache.CampaignCreatives(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, set, 2)
	assert.Equal(t, cacheTTL, mr.TTL(redisadapter.ActiveCampaignsKey))
}

func TestFullSyncIdempotent(t *testing.T) {
	ctx := context.Background()
	s, repo, _, mr := newSync(t, configs.Sync{})
	campaigns, creatives := catalogFixture()
	repo.EXPECT().ListCampaigns(mock.Anything).Return(campaigns, nil).Times(2)
	repo.EXPECT().ListCreatives(mock.Anything).Return(creatives, nil).Times(2)

	require.NoError(t, s.FullSync(ctx))
	first := cacheState(mr)
	require.NoError(t, s.FullSync(ctx))
	assert.Equal(t, first, cacheState(mr))
}

func TestFullSyncRebuildsRanking(t *testing.T) {
	ctx := context.Background()
	s, repo, cache, _ := newSync(t, configs.Sync{})
	a := activeCampaign(1, 100, 0)
	b := activeCampaign(2, 100, 50)
	pausedA := a
	pausedA.Status = domain.CampaignPaused

	repo.EXPECT().ListCampaigns(mock.Anything).Return([]domain.Campaign{a, b}, nil).Once()
	repo.EXPECT().ListCampaigns(mock.Anything).Return([]domain.Campaign{pausedA, b}, nil).Once()
	repo.EXPECT().ListCreatives(mock.Anything).Return(nil, nil)

	require.NoError(t, s.FullSync(ctx))
	ids, err := cache.RankedCampaignIDs(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids)

	require.NoError(t, s.FullSync(ctx))
	ids, err = cache.RankedCampaignIDs(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, ids)
}

func TestFullSyncFailureLeavesCacheUntouched(t *testing.T) {
	ctx := context.Background()
	s, repo, _, mr := newSync(t, configs.Sync{})
	campaigns, creatives := catalogFixture()
	repo.EXPECT().ListCampaigns(mock.Anything).Return(campaigns, nil).Once()
	repo.EXPECT().ListCreatives(mock.Anything).Return(creatives, nil).Once()
	repo.EXPECT().ListCampaigns(mock.Anything).Return(nil, errors.New("connection refused")).Once()

	require.NoError(t, s.FullSync(ctx))
	before := cacheState(mr)

	err := s.FullSync(ctx)
	require.Error(t, err)
	assert.Equal(t, before, cacheState(mr))
}

func TestFullSyncCacheFailure(t *testing.T) {
	s, repo, _, mr := newSync(t, configs.Sync{})
	repo.EXPECT().ListCampaigns(mock.Anything).Return([]domain.Campaign{activeCampaign(1, 10, 0)}, nil)
	repo.EXPECT().ListCreatives(mock.Anything).Return(nil, nil)
	mr.SetError("READONLY")

	assert.Error(t, s.FullSync(context.Background()))
}

func TestSyncEntityCampaignPaused(t *testing.T) {
	ctx := context.Background()
	s, repo, cache, _ := newSync(t, configs.Sync{})
	a := activeCampaign(1, 100, 0)
	require.NoError(t, cache.PutCampaign(ctx, a, true))

	paused := a
	paused.Status = domain.CampaignPaused
	repo.EXPECT().GetCampaign(mock.Anything, int64(1)).Return(&paused, nil)

	require.NoError(t, s.SyncEntity(ctx, domain.Mutation{Entity: domain.EntityCampaign, ID: 1, Change: domain.ChangeStatus}))

	ids, err := cache.RankedCampaignIDs(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, ids)
	got, err := cache.GetCampaign(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, domain.CampaignPaused, got.Status)
}

func TestSyncEntityCampaignActivated(t *testing.T) {
	ctx := context.Background()
	s, repo, cache, _ := newSync(t, configs.Sync{})
	a := activeCampaign(1, 100, 40)
	repo.EXPECT().GetCampaign(mock.Anything, int64(1)).Return(&a, nil)
	repo.EXPECT().ListCampaignCreatives(mock.Anything, int64(1)).
		Return([]domain.Creative{activeCreative(10, 1), activeCreative(11, 1)}, nil)

	require.NoError(t, s.SyncEntity(ctx, domain.Mutation{Entity: domain.EntityCampaign, ID: 1, Change: domain.ChangeStatus}))

	ids, err := cache.RankedCampaignIDs(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids)
	creatives, err := cache.CampaignCreatives(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, creatives, 2)
}

func TestSyncEntityCampaignDeleted(t *testing.T) {
	ctx := context.Background()
	s, repo, cache, mr := newSync(t, configs.Sync{})
	require.NoError(t, cache.PutCampaign(ctx, activeCampaign(1, 100, 0), true))
	require.NoError(t, cache.PutCreative(ctx, activeCreative(10, 1)))
	repo.EXPECT().GetCampaign(mock.Anything, int64(1)).Return(nil, nil)

	require.NoError(t, s.SyncEntity(ctx, domain.Mutation{Entity: domain.EntityCampaign, ID: 1, Change: domain.ChangeDelete}))

	assert.False(t, mr.Exists(redisadapter.CampaignKey(1)))
	assert.False(t, mr.Exists(redisadapter.CreativeKey(10)))
	assert.False(t, mr.Exists(redisadapter.CampaignCreativesKey(1)))
	ids, err := cache.RankedCampaignIDs(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestSyncEntityCreative(t *testing.T) {
	ctx := context.Background()
	s, repo, cache, mr := newSync(t, configs.Sync{})
	cr := activeCreative(10, 1)
	cr.Status = domain.CreativeInactive
	repo.EXPECT().GetCreative(mock.Anything, int64(10)).Return(&cr, nil).Once()
	repo.EXPECT().GetCreative(mock.Anything, int64(10)).Return(nil, nil).Once()

	require.NoError(t, s.SyncEntity(ctx, domain.Mutation{Entity: domain.EntityCreative, ID: 10, Change: domain.ChangeUpdate}))
	got, err := cache.GetCreative(ctx, 10)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, domain.CreativeInactive, got.Status)

	require.NoError(t, s.SyncEntity(ctx, domain.Mutation{Entity: domain.EntityCreative, ID: 10, Change: domain.ChangeDelete}))
	assert.False(t, mr.Exists(redisadapter.CreativeKey(10)))
}

func TestSyncEntityUpstreamError(t *testing.T) {
	s, repo, _, _ := newSync(t, configs.Sync{})
	repo.EXPECT().GetCampaign(mock.Anything, int64(1)).Return(nil, errors.New("timeout"))

	err := s.SyncEntity(context.Background(), domain.Mutation{Entity: domain.EntityCampaign, ID: 1, Change: domain.ChangeUpdate})
	assert.Error(t, err)
}

func TestNotify(t *testing.T) {
	s, _, _, _ := newSync(t, configs.Sync{NotifyBuffer: 1})

	err := s.Notify(domain.Mutation{Entity: "banner", ID: 1, Change: domain.ChangeUpdate})
	assert.ErrorIs(t, err, port.ErrInvalidMutation)

	m := domain.Mutation{Entity: domain.EntityCampaign, ID: 1, Change: domain.ChangeUpdate}
	require.NoError(t, s.Notify(m))
	// The queue holds one entry; the second is dropped without blocking.
	require.NoError(t, s.Notify(m))
	assert.Len(t, s.notify, 1)
}

func TestRunAppliesNotifications(t *testing.T) {
	s, repo, cache, _ := newSync(t, configs.Sync{Interval: time.Hour, NotifyBuffer: 4})
	a := activeCampaign(1, 100, 0)
	paused := a
	paused.Status = domain.CampaignPaused

	repo.EXPECT().ListCampaigns(mock.Anything).Return([]domain.Campaign{a}, nil).Once()
	repo.EXPECT().ListCreatives(mock.Anything).Return([]domain.Creative{activeCreative(10, 1)}, nil).Once()
	repo.EXPECT().GetCampaign(mock.Anything, int64(1)).Return(&paused, nil).Once()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool {
		ids, err := cache.RankedCampaignIDs(context.Background(), 0, 0)
		return err == nil && len(ids) == 1
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, s.Notify(domain.Mutation{Entity: domain.EntityCampaign, ID: 1, Change: domain.ChangeStatus}))
	require.Eventually(t, func() bool {
		ids, err := cache.RankedCampaignIDs(context.Background(), 0, 0)
		return err == nil && len(ids) == 0
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancellation")
	}
}

// TestFullSyncRanksOnlyServableCampaigns keeps campaigns that have not
// started out of the ranked set so they cannot crowd out live ones.
func TestFullSyncRanksOnlyServableCampaigns(t *testing.T) {
	ctx := context.Background()
	s, repo, cache, _ := newSync(t, configs.Sync{})

	var (
		campaigns []domain.Campaign
		creatives []domain.Creative
	)
	for i := int64(1); i <= 50; i++ {
		c := activeCampaign(i, 10000, 0)
		c.StartDate = testNow.AddDate(0, 0, 7)
		campaigns = append(campaigns, c)
		creatives = append(creatives, activeCreative(1000+i, i))
	}
	campaigns = append(campaigns, activeCampaign(100, 100, 10))
	creatives = append(creatives, activeCreative(5000, 100))
	repo.EXPECT().ListCampaigns(mock.Anything).Return(campaigns, nil)
	repo.EXPECT().ListCreatives(mock.Anything).Return(creatives, nil)

	require.NoError(t, s.FullSync(ctx))

	ids, err := cache.RankedCampaignIDs(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{100}, ids)

	u := NewAdUseCase(cache, configs.Decision{Timeout: time.Second, PageSize: 50}, discardLogger())
	u.now = func() time.Time { return testNow }
	resp, err := u.RequestAd(ctx, testRequest)
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, int64(100), resp.CampaignID)
}

func TestSyncEntityCampaignNotStarted(t *testing.T) {
	ctx := context.Background()
	s, repo, cache, _ := newSync(t, configs.Sync{})
	c := activeCampaign(9, 1000, 0)
	c.StartDate = testNow.Add(time.Hour)
	repo.EXPECT().GetCampaign(mock.Anything, int64(9)).Return(&c, nil)

	require.NoError(t, s.SyncEntity(ctx, domain.Mutation{Entity: domain.EntityCampaign, ID: 9, Change: domain.ChangeInsert}))

	ids, err := cache.RankedCampaignIDs(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, ids)
	got, err := cache.GetCampaign(ctx, 9)
	require.NoError(t, err)
	assert.NotNil(t, got)
}
