// Package postgres reads transcript tokens from and writes their standard
// orthography to the transcription database.
package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ieee0824/dialectmt/config"
)

// ApplicationName identifies annotation sessions in pg_stat_activity.
const ApplicationName = "dialectmt-annotate"

// poolConfig turns DatabaseConfig into a pgxpool configuration. The pool
// never grows beyond what the transcript fetch can use at once.
func poolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse database DSN: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	if fetch := int32(cfg.FetchConcurrency); fetch > 0 && fetch < poolCfg.MaxConns {
		poolCfg.MaxConns = fetch
	}
	poolCfg.MinConns = min(cfg.MinConns, poolCfg.MaxConns)
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolCfg.ConnConfig.RuntimeParams["application_name"] = ApplicationName
	return poolCfg, nil
}

// NewPool opens the token database and pings it before returning.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping %s: %w", poolCfg.ConnConfig.Host, err)
	}

	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("token database connected",
		"host", poolCfg.ConnConfig.Host,
		"database", poolCfg.ConnConfig.Database,
		"max_conns", poolCfg.MaxConns,
		"min_conns", poolCfg.MinConns,
	)
	return pool, nil
}
