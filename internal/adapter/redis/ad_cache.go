package redisadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"ctv-ads/internal/core/domain"
	"ctv-ads/internal/core/port"
)

// AdCache implements port.AdCache and port.CacheWriter on top of Redis.
// Records are stored as JSON strings, creative membership as sets and the
// active ranking as a sorted set.
type AdCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAdCache returns a cache whose catalog keys live for ttl.
func NewAdCache(client *redis.Client, ttl time.Duration) *AdCache {
	return &AdCache{client: client, ttl: ttl}
}

var (
	_ port.AdCache     = (*AdCache)(nil)
	_ port.CacheWriter = (*AdCache)(nil)
)

// RankedCampaignIDs returns up to limit ids of the ranked set starting at
// offset, highest remaining budget first. A non-positive limit returns the
// rest of the set.
func (c *AdCache) RankedCampaignIDs(ctx context.Context, offset, limit int) ([]int64, error) {
	start := int64(max(offset, 0))
	stop := int64(-1)
	if limit > 0 {
		stop = start + int64(limit) - 1
	}
	members, err := c.client.ZRevRange(ctx, ActiveCampaignsKey, start, stop).Result()
	if err != nil {
		return nil, err
	}
	return parseIDs(members), nil
}

// GetCampaign returns the cached campaign record or nil on a miss.
func (c *AdCache) GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error) {
	var camp domain.Campaign
	ok, err := c.getJSON(ctx, CampaignKey(id), &camp)
	if err != nil || !ok {
		return nil, err
	}
	return &camp, nil
}

// GetCreative returns the cached creative record or nil on a miss.
func (c *AdCache) GetCreative(ctx context.Context, id int64) (*domain.Creative, error) {
	var cr domain.Creative
	ok, err := c.getJSON(ctx, CreativeKey(id), &cr)
	if err != nil || !ok {
		return nil, err
	}
	return &cr, nil
}

// CampaignCreatives resolves the creative set of a campaign into records,
// ordered by id. Members whose record has expired are skipped.
func (c *AdCache) CampaignCreatives(ctx context.Context, campaignID int64) ([]domain.Creative, error) {
	members, err := c.client.SMembers(ctx, CampaignCreativesKey(campaignID)).Result()
	if err != nil {
		return nil, err
	}
	ids := parseIDs(members)
	if len(ids) == 0 {
		return nil, nil
	}
	slices.Sort(ids)

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = CreativeKey(id)
	}
	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	creatives := make([]domain.Creative, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var cr domain.Creative
		if err = json.Unmarshal([]byte(raw), &cr); err != nil {
			return nil, fmt.Errorf("decode %s: %w", keys[i], err)
		}
		creatives = append(creatives, cr)
	}
	return creatives, nil
}

// IncrRequestCounter increments the pacing counter of a campaign. The
// counter expires with the rest of the catalog.
func (c *AdCache) IncrRequestCounter(ctx context.Context, campaignID int64) error {
	key := RequestCounterKey(campaignID)
	_, err := c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, c.ttl)
		return nil
	})
	return err
}

// ReplaceCatalog rewrites the whole catalog in a single pipeline. The ranked
// set is built under a staging key and renamed into place so readers never
// observe it half populated.
func (c *AdCache) ReplaceCatalog(ctx context.Context, snap port.CatalogSnapshot) error {
	remaining := make(map[int64]int64, len(snap.Campaigns))
	for _, camp := range snap.Campaigns {
		remaining[camp.ID] = camp.RemainingBudget()
	}
	byCampaign := make(map[int64][]any, len(snap.Campaigns))
	for _, cr := range snap.Creatives {
		byCampaign[cr.CampaignID] = append(byCampaign[cr.CampaignID], cr.ID)
	}

	_, err := c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, camp := range snap.Campaigns {
			if err := c.setJSON(ctx, pipe, CampaignKey(camp.ID), camp); err != nil {
				return err
			}
		}
		for _, cr := range snap.Creatives {
			if err := c.setJSON(ctx, pipe, CreativeKey(cr.ID), cr); err != nil {
				return err
			}
		}
		for _, camp := range snap.Campaigns {
			key := CampaignCreativesKey(camp.ID)
			pipe.Del(ctx, key)
			if ids := byCampaign[camp.ID]; len(ids) > 0 {
				pipe.SAdd(ctx, key, ids...)
				pipe.Expire(ctx, key, c.ttl)
			}
		}

		members := make([]redis.Z, 0, len(snap.Ranked))
		for _, id := range snap.Ranked {
			members = append(members, redis.Z{Score: float64(remaining[id]), Member: id})
		}
		if len(members) == 0 {
			pipe.Del(ctx, ActiveCampaignsKey)
			return nil
		}
		pipe.Del(ctx, stagingKey)
		pipe.ZAdd(ctx, stagingKey, members...)
		pipe.Rename(ctx, stagingKey, ActiveCampaignsKey)
		pipe.Expire(ctx, ActiveCampaignsKey, c.ttl)
		return nil
	})
	return err
}

// PutCampaign writes one campaign record and adds it to or removes it from
// the ranked set. The ranked set keeps its TTL; a set created here gets a
// fresh one.
func (c *AdCache) PutCampaign(ctx context.Context, camp domain.Campaign, ranked bool) error {
	_, err := c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		if err := c.setJSON(ctx, pipe, CampaignKey(camp.ID), camp); err != nil {
			return err
		}
		if ranked {
			pipe.ZAdd(ctx, ActiveCampaignsKey, redis.Z{Score: float64(camp.RemainingBudget()), Member: camp.ID})
			// Only full sync extends the ranking's lifetime.
			pipe.ExpireNX(ctx, ActiveCampaignsKey, c.ttl)
		} else {
			pipe.ZRem(ctx, ActiveCampaignsKey, camp.ID)
		}
		return nil
	})
	return err
}

// RemoveCampaign deletes a campaign together with its creatives.
func (c *AdCache) RemoveCampaign(ctx context.Context, id int64) error {
	members, err := c.client.SMembers(ctx, CampaignCreativesKey(id)).Result()
	if err != nil {
		return err
	}
	keys := []string{CampaignKey(id), CampaignCreativesKey(id), RequestCounterKey(id)}
	for _, crID := range parseIDs(members) {
		keys = append(keys, CreativeKey(crID))
	}
	_, err = c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, keys...)
		pipe.ZRem(ctx, ActiveCampaignsKey, id)
		return nil
	})
	return err
}

// PutCreative writes a creative record and its campaign set membership. A
// creative moved to another campaign leaves its previous set.
func (c *AdCache) PutCreative(ctx context.Context, cr domain.Creative) error {
	prev, err := c.GetCreative(ctx, cr.ID)
	if err != nil {
		return err
	}
	_, err = c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		if err := c.setJSON(ctx, pipe, CreativeKey(cr.ID), cr); err != nil {
			return err
		}
		if prev != nil && prev.CampaignID != cr.CampaignID {
			pipe.SRem(ctx, CampaignCreativesKey(prev.CampaignID), cr.ID)
		}
		key := CampaignCreativesKey(cr.CampaignID)
		pipe.SAdd(ctx, key, cr.ID)
		pipe.Expire(ctx, key, c.ttl)
		return nil
	})
	return err
}

// RemoveCreative deletes a creative record and its set membership.
func (c *AdCache) RemoveCreative(ctx context.Context, id int64) error {
	prev, err := c.GetCreative(ctx, id)
	if err != nil {
		return err
	}
	_, err = c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, CreativeKey(id))
		if prev != nil {
			pipe.SRem(ctx, CampaignCreativesKey(prev.CampaignID), id)
		}
		return nil
	})
	return err
}

func (c *AdCache) setJSON(ctx context.Context, pipe redis.Pipeliner, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	pipe.Set(ctx, key, data, c.ttl)
	return nil
}

func (c *AdCache) getJSON(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err = json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// parseIDs converts set members to ids, skipping foreign values.
func parseIDs(members []string) []int64 {
	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
