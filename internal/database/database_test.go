package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wfunc/slot-sim/internal/config"
	"github.com/wfunc/slot-sim/internal/errors"
	"github.com/wfunc/slot-sim/internal/models"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func memoryConfig() *config.DatabaseConfig {
	return &config.DatabaseConfig{
		Enabled:      true,
		Driver:       "sqlite",
		DSN:          ":memory:",
		MaxIdleConns: 1,
		MaxOpenConns: 1,
		LogLevel:     "silent",
		AutoMigrate:  true,
	}
}

func TestOpenAndMigrate(t *testing.T) {
	db, err := Open(memoryConfig())
	require.NoError(t, err)

	require.NoError(t, Migrate(db))
	assert.True(t, db.Migrator().HasTable(&models.Round{}))

	round := &models.Round{
		RoundID:      "r-1",
		SessionID:    "s-1",
		Lines:        3,
		BetPerLine:   2,
		TotalBet:     6,
		Winnings:     8,
		WinningLines: []int{1, 3},
		Grid:         [][]string{{"A", "B", "C"}, {"A", "B", "C"}, {"A", "D", "C"}},
	}
	require.NoError(t, db.Create(round).Error)

	var loaded models.Round
	require.NoError(t, db.Where("round_id = ?", "r-1").First(&loaded).Error)
	assert.Equal(t, []int{1, 3}, loaded.WinningLines)
	assert.Equal(t, round.Grid, loaded.Grid)
}

func TestInitSetsGlobal(t *testing.T) {
	defer func() {
		_ = Close()
		DB = nil
	}()

	require.NoError(t, Init(memoryConfig()))
	assert.NotNil(t, GetDB())
	assert.True(t, IsConnected())
	assert.True(t, GetDB().Migrator().HasTable("slot_rounds"))
}

func TestInit_RetriesConnectFailures(t *testing.T) {
	defer func() {
		openDB = Open
		_ = Close()
		DB = nil
	}()

	tests := []struct {
		name      string
		failures  int
		failCode  errors.ErrorCode
		retries   int
		wantCalls int
		wantCode  errors.ErrorCode
	}{
		{name: "重试后成功", failures: 2, failCode: errors.ErrDatabaseConnect, retries: 3, wantCalls: 3},
		{name: "重试次数用尽", failures: 5, failCode: errors.ErrDatabaseConnect, retries: 1, wantCalls: 2, wantCode: errors.ErrDatabaseConnect},
		{name: "不可重试的错误", failures: 5, failCode: errors.ErrConfigValidate, retries: 3, wantCalls: 1, wantCode: errors.ErrConfigValidate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			openDB = func(cfg *config.DatabaseConfig) (*gorm.DB, error) {
				calls++
				if calls <= tt.failures {
					return nil, errors.New(tt.failCode)
				}
				return Open(cfg)
			}

			cfg := memoryConfig()
			cfg.RetryTimes = tt.retries
			cfg.RetryInterval = time.Millisecond

			err := Init(cfg)
			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantCode == 0 {
				assert.NoError(t, err)
				assert.True(t, IsConnected())
				_ = Close()
				DB = nil
				return
			}
			assert.True(t, errors.Is(err, tt.wantCode), "got %v", err)
		})
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	cfg := memoryConfig()
	cfg.Driver = "oracle"

	_, err := Open(cfg)
	assert.True(t, errors.Is(err, errors.ErrConfigValidate))
}

func TestAutoMigrate_NotInitialized(t *testing.T) {
	DB = nil
	assert.Error(t, AutoMigrate())
	assert.False(t, IsConnected())
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, parseLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, parseLogLevel("error"))
	assert.Equal(t, gormlogger.Warn, parseLogLevel("warn"))
	assert.Equal(t, gormlogger.Info, parseLogLevel("debug"))
}
