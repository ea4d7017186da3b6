package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config 全局配置结构体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Game     GameConfig     `mapstructure:"game"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig HTTP模拟接口配置
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxSimulations  int           `mapstructure:"max_simulations"`
}

// DatabaseConfig 回合日志数据库配置
type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Driver          string        `mapstructure:"driver"`
	DSN             string        `mapstructure:"dsn"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	LogLevel        string        `mapstructure:"log_level"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
	RetryTimes      int           `mapstructure:"retry_times"`    // 连接失败后的重试次数
	RetryInterval   time.Duration `mapstructure:"retry_interval"` // 重试间隔
}

// GameConfig 游戏配置
type GameConfig struct {
	Slot SlotConfig `mapstructure:"slot"`
	Seed int64      `mapstructure:"seed"` // 0 表示使用加密随机源
}

// SlotConfig 老虎机配置
type SlotConfig struct {
	Name     string         `mapstructure:"name"`
	Rows     int            `mapstructure:"rows"`
	Cols     int            `mapstructure:"cols"`
	MaxLines int            `mapstructure:"max_lines"`
	MinBet   int64          `mapstructure:"min_bet"`
	MaxBet   int64          `mapstructure:"max_bet"`
	Symbols  []SymbolConfig `mapstructure:"symbols"`
}

// SymbolConfig 符号配置：权重决定每列符号池中的数量，倍率决定中奖赔付
type SymbolConfig struct {
	Symbol string `mapstructure:"symbol"`
	Weight int    `mapstructure:"weight"`
	Value  int64  `mapstructure:"value"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level   string            `mapstructure:"level"`
	Format  string            `mapstructure:"format"`
	Output  string            `mapstructure:"output"`
	File    LogFileConfig     `mapstructure:"file"`
	Modules map[string]string `mapstructure:"modules"`
}

// LogFileConfig 日志文件配置
type LogFileConfig struct {
	Path       string `mapstructure:"path"`
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
}

var (
	cfg  *Config
	once sync.Once
	mu   sync.RWMutex
	v    *viper.Viper
)

// Init 初始化配置
func Init(configPath string) error {
	var err error
	once.Do(func() {
		v = viper.New()
		var loaded *Config
		loaded, err = load(v, configPath)
		if err != nil {
			return
		}
		mu.Lock()
		cfg = loaded
		mu.Unlock()
	})

	return err
}

// Load 读取一份独立的配置（不影响全局实例），主要用于测试和工具命令
func Load(configPath string) (*Config, error) {
	return load(viper.New(), configPath)
}

func load(v *viper.Viper, configPath string) (*Config, error) {
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// 环境变量前缀
	v.SetEnvPrefix("SLOT_SIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// 配置文件不存在时使用默认配置
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	if len(c.Game.Slot.Symbols) == 0 {
		c.Game.Slot.Symbols = DefaultSymbols()
	}

	return c, nil
}

// DefaultSymbols 默认四符号表（权重合计20）
func DefaultSymbols() []SymbolConfig {
	return []SymbolConfig{
		{Symbol: "A", Weight: 2, Value: 5},
		{Symbol: "B", Weight: 4, Value: 4},
		{Symbol: "C", Weight: 6, Value: 3},
		{Symbol: "D", Weight: 8, Value: 2},
	}
}

// setDefaults 设置默认配置值
func setDefaults(v *viper.Viper) {
	// HTTP默认配置
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.shutdown_timeout", "5s")
	v.SetDefault("server.max_simulations", 1000000)

	// 数据库默认配置（内存库，仅保存本次运行的回合）
	v.SetDefault("database.enabled", true)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "file::memory:?cache=shared")
	v.SetDefault("database.max_idle_conns", 1)
	v.SetDefault("database.max_open_conns", 1)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("database.retry_times", 3)
	v.SetDefault("database.retry_interval", "1s")

	// 游戏默认配置
	v.SetDefault("game.seed", 0)
	v.SetDefault("game.slot.name", "classic_3x3")
	v.SetDefault("game.slot.rows", 3)
	v.SetDefault("game.slot.cols", 3)
	v.SetDefault("game.slot.max_lines", 3)
	v.SetDefault("game.slot.min_bet", 1)
	v.SetDefault("game.slot.max_bet", 100)

	// 日志默认配置：控制台交互时日志只写文件
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "file")
	v.SetDefault("log.file.path", "./logs")
	v.SetDefault("log.file.filename", "slot-sim.log")
	v.SetDefault("log.file.max_size", 100)
	v.SetDefault("log.file.max_age", 30)
	v.SetDefault("log.file.max_backups", 7)
	v.SetDefault("log.file.compress", true)
}

// Get 获取配置实例
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

// Watch 监听配置文件变化
func Watch(callback func(*Config)) {
	if v == nil {
		return
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		newCfg := &Config{}
		if err := v.Unmarshal(newCfg); err != nil {
			fmt.Printf("配置重载失败: %v\n", err)
			return
		}
		if len(newCfg.Game.Slot.Symbols) == 0 {
			newCfg.Game.Slot.Symbols = DefaultSymbols()
		}

		mu.Lock()
		cfg = newCfg
		mu.Unlock()

		if callback != nil {
			callback(newCfg)
		}
	})
	v.WatchConfig()
}
