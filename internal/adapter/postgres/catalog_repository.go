package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ctv-ads/internal/core/domain"
	"ctv-ads/internal/core/port"
)

const (
	campaignColumns = `id, name, status, budget_total, budget_spent, start_date, end_date`
	creativeColumns = `id, campaign_id, video_url, duration, format, status`
)

// CatalogRepository implements port.CatalogRepository using pgxpool.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository returns a new repository instance.
func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

var _ port.CatalogRepository = (*CatalogRepository)(nil)

// ListCampaigns returns all campaigns ordered by id.
func (r *CatalogRepository) ListCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+campaignColumns+` FROM campaigns ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanCampaign)
}

// ListCreatives returns all creatives ordered by id.
func (r *CatalogRepository) ListCreatives(ctx context.Context) ([]domain.Creative, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+creativeColumns+` FROM creatives ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanCreative)
}

// ListCampaignCreatives returns the creatives of one campaign.
func (r *CatalogRepository) ListCampaignCreatives(ctx context.Context, campaignID int64) ([]domain.Creative, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+creativeColumns+` FROM creatives WHERE campaign_id = $1 ORDER BY id`, campaignID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanCreative)
}

// GetCampaign returns a campaign by id.
func (r *CatalogRepository) GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	c, err := pgx.CollectExactlyOneRow(rows, scanCampaign)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetCreative returns a creative by id.
func (r *CatalogRepository) GetCreative(ctx context.Context, id int64) (*domain.Creative, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+creativeColumns+` FROM creatives WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	cr, err := pgx.CollectExactlyOneRow(rows, scanCreative)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cr, nil
}

func scanCampaign(row pgx.CollectableRow) (domain.Campaign, error) {
	var c domain.Campaign
	err := row.Scan(&c.ID, &c.Name, &c.Status, &c.BudgetTotal, &c.BudgetSpent, &c.StartDate, &c.EndDate)
	return c, err
}

func scanCreative(row pgx.CollectableRow) (domain.Creative, error) {
	var cr domain.Creative
	err := row.Scan(&cr.ID, &cr.CampaignID, &cr.VideoURL, &cr.Duration, &cr.Format, &cr.Status)
	return cr, err
}
