package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/valpere/i18nsync/internal/orchestrator"
)

func dryRunConfig(t *testing.T, db string) *Config {
	t.Helper()
	defaults := orchestrator.DefaultConfig()
	return &Config{
		Dir:         t.TempDir(),
		GeneratedBy: "i18nsync",
		Primary:     defaults.Primary,
		Secondary:   defaults.Secondary,
		DB:          db,
		History:     true,
	}
}

func TestBuildPipeline_DryRunDoesNotCreateDatabase(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "data")
	c := dryRunConfig(t, filepath.Join(dataDir, "i18nsync.db"))

	p, err := buildPipeline(context.Background(), c, true, false, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer p.Close()

	assert.Nil(t, p.db)
	_, err = os.Stat(dataDir)
	assert.True(t, os.IsNotExist(err), "dry run created %s", dataDir)
}

func TestBuildPipeline_DryRunReadsExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "i18nsync.db")
	db, err := openDB(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	p, err := buildPipeline(context.Background(), dryRunConfig(t, path), true, false, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer p.Close()

	assert.NotNil(t, p.db)
}
