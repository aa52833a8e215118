package usecase

import (
	"encoding/json"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	redisadapter "ctv-ads/internal/adapter/redis"
	"ctv-ads/internal/core/domain"
)

const cacheTTL = time.Hour

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRedisCache(t *testing.T) (*redisadapter.AdCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return redisadapter.NewAdCache(client, cacheTTL), mr
}

func activeCampaign(id, total, spent int64) domain.Campaign {
	return domain.Campaign{
		ID:          id,
		Name:        "campaign " + strconv.FormatInt(id, 10),
		Status:      domain.CampaignActive,
		BudgetTotal: total,
		BudgetSpent: spent,
		StartDate:   testNow.AddDate(0, 0, -1),
		EndDate:     testNow.AddDate(0, 1, 0),
	}
}

func activeCreative(id, campaignID int64) domain.Creative {
	return domain.Creative{
		ID:         id,
		CampaignID: campaignID,
		VideoURL:   "https://cdn.example.com/" + strconv.FormatInt(id, 10) + ".mp4",
		Duration:   30,
		Format:     "mp4",
		Status:     domain.CreativeActive,
	}
}

// injectCampaign writes a campaign record and ranked-set entry straight into
// Redis, bypassing the eligibility rules applied by the synchronizer.
func injectCampaign(t *testing.T, mr *miniredis.Miniredis, c domain.Campaign, score float64, creatives ...domain.Creative) {
	t.Helper()
	data, err := json.Marshal(c)
	require.NoError(t, err)
	require.NoError(t, mr.Set(redisadapter.CampaignKey(c.ID), string(data)))
	_, err = mr.ZAdd(redisadapter.ActiveCampaignsKey, score, strconv.FormatInt(c.ID, 10))
	require.NoError(t, err)
	for _, cr := range creatives {
		data, err = json.Marshal(cr)
		require.NoError(t, err)
		require.NoError(t, mr.Set(redisadapter.CreativeKey(cr.ID), string(data)))
		_, err = mr.SAdd(redisadapter.CampaignCreativesKey(c.ID), strconv.FormatInt(cr.ID, 10))
		require.NoError(t, err)
	}
}

// cacheState captures every key and TTL of the fake Redis.
func cacheState(mr *miniredis.Miniredis) map[string]string {
	state := map[string]string{"dump": mr.Dump()}
	for _, k := range mr.Keys() {
		state["ttl:"+k] = mr.TTL(k).String()
	}
	return state
}

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock(t time.Time) *testClock { return &testClock{t: t} }

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}
