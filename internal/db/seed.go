package db

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var seedFormats = []string{"mp4", "webm", "hls"}

// Seed inserts demo campaigns and creatives. Rows that already exist are
// left untouched so the seed is safe to run on every start.
func Seed(ctx context.Context, db *pgxpool.Pool) error {
	now := time.Now().UTC()
	b := &pgx.Batch{}

	for i := 1; i <= 5; i++ {
		status := "active"
		if i == 5 {
			status = "paused"
		}
		total := int64(500000) * int64(i)
		spent := int64(rand.IntN(100000))
		b.Queue(`INSERT INTO campaigns (id, name, status, budget_total, budget_spent, start_date, end_date)
VALUES ($1,$2,$3,$4,$5,$6,$7) ON CONFLICT DO NOTHING`,
			i, fmt.Sprintf("Campaign %d", i), status, total, spent, now.AddDate(0, 0, -1), now.AddDate(0, 1, 0))

		for j := 1; j <= 4; j++ {
			crID := (i-1)*4 + j
			b.Queue(`INSERT INTO creatives (id, campaign_id, video_url, duration, format, status)
VALUES ($1,$2,$3,$4,$5,'active') ON CONFLICT DO NOTHING`,
				crID, i, fmt.Sprintf("https://cdn.example.com/video/%d.mp4", crID),
				15*(1+rand.IntN(4)), seedFormats[rand.IntN(len(seedFormats))])
		}
	}

	// keep BIGSERIAL ahead of the explicit ids
	b.Queue(`SELECT setval('campaigns_id_seq', (SELECT max(id) FROM campaigns))`)
	b.Queue(`SELECT setval('creatives_id_seq', (SELECT max(id) FROM creatives))`)

	return db.SendBatch(ctx, b).Close()
}
