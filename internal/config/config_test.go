package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Game.Slot.Rows)
	assert.Equal(t, 3, cfg.Game.Slot.Cols)
	assert.Equal(t, 3, cfg.Game.Slot.MaxLines)
	assert.Equal(t, int64(1), cfg.Game.Slot.MinBet)
	assert.Equal(t, int64(100), cfg.Game.Slot.MaxBet)
	assert.Equal(t, DefaultSymbols(), cfg.Game.Slot.Symbols)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 3, cfg.Database.RetryTimes)
	assert.Equal(t, time.Second, cfg.Database.RetryInterval)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "file", cfg.Log.Output)

	total := 0
	for _, s := range cfg.Game.Slot.Symbols {
		total += s.Weight
	}
	assert.Equal(t, 20, total)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
game:
  seed: 42
  slot:
    name: mini
    rows: 2
    cols: 4
    max_lines: 2
    min_bet: 5
    max_bet: 50
    symbols:
      - symbol: X
        weight: 3
        value: 10
      - symbol: Y
        weight: 1
        value: 20
log:
  level: debug
  output: stdout
database:
  enabled: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, int64(42), cfg.Game.Seed)
	assert.Equal(t, "mini", cfg.Game.Slot.Name)
	assert.Equal(t, 2, cfg.Game.Slot.Rows)
	assert.Equal(t, 4, cfg.Game.Slot.Cols)
	assert.Equal(t, int64(5), cfg.Game.Slot.MinBet)
	require.Len(t, cfg.Game.Slot.Symbols, 2)
	assert.Equal(t, SymbolConfig{Symbol: "Y", Weight: 1, Value: 20}, cfg.Game.Slot.Symbols[1])
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.False(t, cfg.Database.Enabled)
	// 未覆盖的项保持默认值
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SLOT_SIM_GAME_SLOT_MAX_BET", "250")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, int64(250), cfg.Game.Slot.MaxBet)
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("game: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
