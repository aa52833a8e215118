package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ctv-ads/internal/core/domain"
	"ctv-ads/internal/core/port"
)

var impressionColumns = []string{"id", "creative_id", "campaign_id", "device_id", "metadata", "served_at"}

const (
	createIncoming = `CREATE TEMP TABLE impressions_incoming (LIKE impressions INCLUDING DEFAULTS) ON COMMIT DROP`

	// Ids already stored by an earlier attempt are skipped, so a batch whose
	// commit outcome was unknown can be saved again.
	insertIncoming = `
INSERT INTO impressions (id, creative_id, campaign_id, device_id, metadata, served_at)
SELECT id, creative_id, campaign_id, device_id, metadata, served_at FROM impressions_incoming
ON CONFLICT (id) DO NOTHING
RETURNING campaign_id, served_at`

	upsertDailyStats = `
INSERT INTO campaign_daily_stats (campaign_id, date, impressions_count)
VALUES ($1, $2, $3)
ON CONFLICT (campaign_id, date)
DO UPDATE SET impressions_count = campaign_daily_stats.impressions_count + EXCLUDED.impressions_count,
              updated_at = now()`
)

// ImpressionRepository implements port.ImpressionRepository and
// port.StatsRepository.
type ImpressionRepository struct {
	pool *pgxpool.Pool
}

// NewImpressionRepository returns a new repository instance.
func NewImpressionRepository(pool *pgxpool.Pool) *ImpressionRepository {
	return &ImpressionRepository{pool: pool}
}

var (
	_ port.ImpressionRepository = (*ImpressionRepository)(nil)
	_ port.StatsRepository      = (*ImpressionRepository)(nil)
)

// SaveBatch stores the batch and adds the per-day counts of the newly
// inserted events to campaign_daily_stats within one transaction. Events
// whose id is already stored are skipped and not counted again.
func (r *ImpressionRepository) SaveBatch(ctx context.Context, batch []domain.Impression) error {
	if len(batch) == 0 {
		return nil
	}
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		// no-op once committed
		_ = tx.Rollback(ctx)
	}()

	if _, err = tx.Exec(ctx, createIncoming); err != nil {
		return fmt.Errorf("create staging table: %w", err)
	}
	_, err = tx.CopyFrom(ctx, pgx.Identifier{"impressions_incoming"}, impressionColumns,
		pgx.CopyFromSlice(len(batch), func(i int) ([]any, error) {
			imp := batch[i]
			return []any{imp.ID, imp.CreativeID, imp.CampaignID, imp.DeviceID, imp.Metadata, imp.ServedAt}, nil
		}))
	if err != nil {
		return fmt.Errorf("copy impressions: %w", err)
	}

	rows, err := tx.Query(ctx, insertIncoming)
	if err != nil {
		return fmt.Errorf("insert impressions: %w", err)
	}
	inserted, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Impression, error) {
		var imp domain.Impression
		err := row.Scan(&imp.CampaignID, &imp.ServedAt)
		return imp, err
	})
	if err != nil {
		return fmt.Errorf("insert impressions: %w", err)
	}

	if rollups := domain.RollupImpressions(inserted); len(rollups) > 0 {
		b := &pgx.Batch{}
		for _, r := range rollups {
			b.Queue(upsertDailyStats, r.CampaignID, r.Date, r.Impressions)
		}
		if err = tx.SendBatch(ctx, b).Close(); err != nil {
			return fmt.Errorf("upsert daily stats: %w", err)
		}
	}
	return tx.Commit(ctx)
}

// GetDailyStats returns rollup rows between req.From and req.To inclusive.
func (r *ImpressionRepository) GetDailyStats(ctx context.Context, req port.StatsReq) ([]domain.DailyRollup, error) {
	args := []any{req.From, req.To}
	whereCampaign := ""
	if req.CampaignID != nil {
		whereCampaign = "AND campaign_id = $3"
		args = append(args, *req.CampaignID)
	}
	query := fmt.Sprintf(`SELECT campaign_id, date, impressions_count FROM campaign_daily_stats
WHERE date >= $1 AND date <= $2 %s ORDER BY date, campaign_id`, whereCampaign)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.DailyRollup, error) {
		var d domain.DailyRollup
		err := row.Scan(&d.CampaignID, &d.Date, &d.Impressions)
		return d, err
	})
}
