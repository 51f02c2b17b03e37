package moviegraph_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rlch/moviegraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_WalksUp(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	content := `
strategy: fluent
connection:
  uri: neo4j://localhost:7687
  username: neo4j
  max_retry_time: 15s
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(root, ".moviegraph.yaml"), []byte(content), 0o600))

	cfg, err := moviegraph.LoadConfig(nested)
	require.NoError(t, err)

	assert.Equal(t, "fluent", cfg.Strategy)
	assert.Equal(t, "neo4j://localhost:7687", cfg.Connection.URI)
	assert.Equal(t, "neo4j", cfg.Connection.Username)
	assert.Equal(t, 15*time.Second, cfg.Connection.MaxRetryTime)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Defaults survive for keys the file does not set.
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "auto", cfg.Output.Format)
	require.NoError(t, cfg.Validate())
}

func TestFindConfig_NotFound(t *testing.T) {
	t.Parallel()

	_, err := moviegraph.FindConfig(t.TempDir())
	if err != nil && !errors.Is(err, moviegraph.ErrConfigNotFound) {
		t.Fatalf("got %v, want ErrConfigNotFound", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	valid := func() *moviegraph.Config {
		cfg := moviegraph.DefaultConfig()
		cfg.Connection.URI = "bolt://localhost:7687"

		return cfg
	}

	require.NoError(t, valid().Validate())

	missingURI := moviegraph.DefaultConfig()
	assert.Error(t, missingURI.Validate())

	badStrategy := valid()
	badStrategy.Strategy = "orm"
	assert.Error(t, badStrategy.Validate())

	badLevel := valid()
	badLevel.Log.Level = "trace"
	assert.Error(t, badLevel.Validate())

	negative := valid()
	negative.Connection.MaxConnections = -1
	assert.Error(t, negative.Validate())
}
