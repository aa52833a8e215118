package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ctv-ads/internal/core/domain"
)

const listenRetryDelay = 2 * time.Second

// CatalogListener turns Postgres NOTIFY messages emitted by the catalog
// triggers into targeted sync notifications.
type CatalogListener struct {
	pool    *pgxpool.Pool
	channel string
	logger  *slog.Logger
}

// NewCatalogListener listens on channel once Run is called.
func NewCatalogListener(pool *pgxpool.Pool, channel string, logger *slog.Logger) *CatalogListener {
	return &CatalogListener{pool: pool, channel: channel, logger: logger}
}

// Run blocks until ctx is cancelled, reconnecting after connection errors.
// Every decoded notification is passed to notify.
func (l *CatalogListener) Run(ctx context.Context, notify func(domain.Mutation) error) error {
	for {
		err := l.listen(ctx, notify)
		if ctx.Err() != nil {
			return nil
		}
		l.logger.Warn("catalog listener disconnected", slog.String("channel", l.channel), slog.Any("error", err))
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(listenRetryDelay):
		}
	}
}

func (l *CatalogListener) listen(ctx context.Context, notify func(domain.Mutation) error) error {
	pooled, err := l.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	// A LISTENing connection must not go back to the pool.
	conn := pooled.Hijack()
	defer conn.Close(context.Background())

	if _, err = conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
		return err
	}
	l.logger.Info("catalog listener started", slog.String("channel", l.channel))

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		m, err := parseMutation(n.Payload)
		if err != nil {
			l.logger.Warn("skipping malformed catalog notification",
				slog.String("payload", n.Payload), slog.Any("error", err))
			continue
		}
		if err = notify(m); err != nil {
			l.logger.Warn("catalog notification rejected", slog.Any("error", err))
		}
	}
}

func parseMutation(payload string) (domain.Mutation, error) {
	var m domain.Mutation
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		return m, fmt.Errorf("decode payload: %w", err)
	}
	if err := m.Validate(); err != nil {
		return m, err
	}
	return m, nil
}
