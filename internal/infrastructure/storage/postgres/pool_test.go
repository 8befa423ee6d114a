package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolConfig(t *testing.T) {
	tests := []struct {
		name    string
		opts    []PoolOption
		max     int32
		min     int32
		appName string
	}{
		{"defaults", nil, 10, 2, "stationdesk"},
		{"worker", []PoolOption{WithMaxConns(4), WithApplicationName("stationdesk-worker")}, 4, 2, "stationdesk-worker"},
		{"single conn", []PoolOption{WithMaxConns(1)}, 1, 1, "stationdesk"},
		{"ignored zero values", []PoolOption{WithMaxConns(0), WithApplicationName("")}, 10, 2, "stationdesk"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := poolConfig("postgres://station:pw@localhost:5432/stationdesk", tt.opts...)
			require.NoError(t, err)
			assert.Equal(t, tt.max, cfg.MaxConns)
			assert.Equal(t, tt.min, cfg.MinConns)
			assert.Equal(t, tt.appName, cfg.ConnConfig.RuntimeParams["application_name"])
			assert.Equal(t, "UTC", cfg.ConnConfig.RuntimeParams["timezone"])
		})
	}
}

func TestPoolConfig_BadURL(t *testing.T) {
	_, err := poolConfig("postgres://%zz")
	assert.ErrorContains(t, err, "parse database url")
}
