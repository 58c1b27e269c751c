package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ieee0824/dialectmt/config"
)

func TestPoolConfig(t *testing.T) {
	cfg := config.DatabaseConfig{
		DSN:              "postgres://u:p@db.local:5432/dioe",
		MaxConns:         8,
		MinConns:         6,
		MaxConnLifetime:  time.Hour,
		MaxConnIdleTime:  time.Minute,
		FetchConcurrency: 4,
	}

	pc, err := poolConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, int32(4), pc.MaxConns, "capped by fetch concurrency")
	assert.Equal(t, int32(4), pc.MinConns)
	assert.Equal(t, time.Hour, pc.MaxConnLifetime)
	assert.Equal(t, "db.local", pc.ConnConfig.Host)
	assert.Equal(t, "dioe", pc.ConnConfig.Database)
	assert.Equal(t, ApplicationName, pc.ConnConfig.RuntimeParams["application_name"])

	cfg.FetchConcurrency = 16
	pc, err = poolConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, int32(8), pc.MaxConns)
	assert.Equal(t, int32(6), pc.MinConns)
}

func TestPoolConfigBadDSN(t *testing.T) {
	_, err := poolConfig(config.DatabaseConfig{DSN: "postgres://u:p@db.local:notaport/dioe"})
	assert.Error(t, err)
}
