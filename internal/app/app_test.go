package app

import (
	"context"
	"testing"

	"github.com/athebyme/gomarket-stocksync/config"
	"github.com/athebyme/gomarket-stocksync/internal/adapters/logger"
	"github.com/athebyme/gomarket-stocksync/internal/adapters/supplier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("SELLER_TOKEN", "ozon-key")
	t.Setenv("CLIENT_ID", "1")
	t.Setenv("MARKET_TOKEN", "ya")
	t.Setenv("FBS_ID", "11")
	t.Setenv("DBS_ID", "22")
	t.Setenv("WAREHOUSE_FBS_ID", "33")
	t.Setenv("WAREHOUSE_DBS_ID", "44")

	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

func TestBuildTargets(t *testing.T) {
	cfg := testConfig(t)

	names := func() []string {
		var out []string
		for _, target := range BuildTargets(cfg) {
			out = append(out, target.Name())
		}
		return out
	}

	assert.Equal(t, []string{"ozon", "yandex-fbs", "yandex-dbs"}, names())
	assert.Equal(t, cfg.EnabledTargets(), names())

	cfg.Yandex.FBS.Enabled = false
	assert.Equal(t, []string{"ozon", "yandex-dbs"}, names())

	cfg.Ozon.Enabled = false
	cfg.Yandex.DBS.Enabled = false
	assert.Empty(t, names())
}

func TestNew_WithoutOptionalDependencies(t *testing.T) {
	cfg := testConfig(t)

	a, err := New(context.Background(), cfg, logger.NewNopLogger())
	require.NoError(t, err)
	defer a.Close()

	require.NotNil(t, a.Service)
	assert.Equal(t, []string{"ozon", "yandex-fbs", "yandex-dbs"}, a.Service.Targets())
	assert.NotNil(t, a.Metrics.Gatherer())
}

func TestFeedConfig(t *testing.T) {
	cfg := testConfig(t)

	fc := feedConfig(cfg)
	require.NotNil(t, fc.HeaderRow)
	assert.Equal(t, supplier.DefaultHeaderRow, *fc.HeaderRow)
	assert.Equal(t, "Количество", fc.Columns.Quantity)
	assert.Equal(t, "ostatki.xls", fc.FileName)
}
