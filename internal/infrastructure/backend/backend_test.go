package backend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/logistica-api/pkg/config"
	"github.com/jhoicas/logistica-api/pkg/logger"
)

func TestOpen_Memory(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Backend: config.BackendMemory}}
	b, err := Open(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, config.BackendMemory, b.Name)
	assert.False(t, b.Tx.Transactional())
	assert.NoError(t, b.Ping(context.Background()))
}

func TestOpen_SQLiteAndSeedOnce(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		Storage: config.StorageConfig{Backend: config.BackendSQLite},
		SQLite:  config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "seed.db")},
	}
	b, err := Open(ctx, cfg, logger.Nop())
	require.NoError(t, err)
	defer b.Close()
	assert.True(t, b.Tx.Transactional())

	require.NoError(t, SeedDemoData(ctx, b, logger.Nop()))
	require.NoError(t, SeedDemoData(ctx, b, logger.Nop()))

	products, err := b.Products.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 3)
	p, err := b.Products.GetByBarcode(ctx, "1234567890")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 100, p.Stock)
	assert.Equal(t, 20, p.GrossPackingQuantity)

	routines, err := b.Routines.List(ctx)
	require.NoError(t, err)
	assert.Len(t, routines, 4)
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{Storage: config.StorageConfig{Backend: "redis"}}, logger.Nop())
	assert.Error(t, err)
}
