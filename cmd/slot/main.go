package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/slot-sim/internal/api"
	"github.com/wfunc/slot-sim/internal/config"
	"github.com/wfunc/slot-sim/internal/database"
	"github.com/wfunc/slot-sim/internal/errors"
	"github.com/wfunc/slot-sim/internal/game/session"
	"github.com/wfunc/slot-sim/internal/game/slot"
	"github.com/wfunc/slot-sim/internal/logger"
	"github.com/wfunc/slot-sim/internal/models"
	"github.com/wfunc/slot-sim/internal/repository"
	"go.uber.org/zap"
)

// 版本信息
var (
	Version   = "1.0.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// options 命令行参数
type options struct {
	configPath string
	mode       string
	spins      int
	lines      int
	bet        int64
	seed       int64
}

// App 应用实例
type App struct {
	cfg     *config.Config
	opts    options
	machine *slot.Machine
	rng     slot.RandomSource
	repo    repository.RoundRepository
	logger  *zap.Logger
}

func main() {
	var (
		opts        options
		showVersion bool
	)
	flag.StringVar(&opts.configPath, "config", "", "配置文件路径")
	flag.StringVar(&opts.mode, "mode", "play", "运行模式: play | simulate | serve")
	flag.IntVar(&opts.spins, "spins", 100000, "simulate 模式的旋转次数")
	flag.IntVar(&opts.lines, "lines", slot.DefaultMaxLines, "simulate 模式的下注线数")
	flag.Int64Var(&opts.bet, "bet", slot.DefaultMinBet, "simulate 模式的单线投注")
	flag.Int64Var(&opts.seed, "seed", 0, "随机种子，非0时结果可复现（覆盖配置 game.seed）")
	flag.BoolVar(&showVersion, "version", false, "显示版本信息")
	flag.Parse()

	if showVersion {
		printVersion()
		os.Exit(0)
	}

	if err := config.Init(opts.configPath); err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Get()

	if err := logger.Init(&cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Cleanup()

	app, err := NewApp(cfg, opts)
	if err != nil {
		logger.LogError(err, "初始化失败", zap.Bool("critical", errors.IsCritical(err)))
		fmt.Fprintf(os.Stderr, "初始化失败: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	if err := app.Run(); err != nil {
		logger.LogError(err, "运行失败", zap.String("mode", opts.mode))
		fmt.Fprintf(os.Stderr, "运行失败: %v\n", err)
		os.Exit(1)
	}
}

// NewApp 按配置构建机器、随机源与回合日志
func NewApp(cfg *config.Config, opts options) (*App, error) {
	machine, err := slot.NewMachineFromConfig(&cfg.Game.Slot)
	if err != nil {
		return nil, err
	}

	seed := cfg.Game.Seed
	if opts.seed != 0 {
		seed = opts.seed
	}

	app := &App{
		cfg:     cfg,
		opts:    opts,
		machine: machine,
		rng:     slot.NewRandomSource(seed),
		logger:  logger.GetLogger(),
	}

	if cfg.Database.Enabled {
		if err := database.Init(&cfg.Database); err != nil {
			return nil, err
		}
		app.repo = repository.NewRoundRepository(database.GetDB())
	}

	app.logger.Info("机器已加载",
		zap.String("machine", machine.Name),
		zap.Int("rows", machine.Rows),
		zap.Int("cols", machine.Cols),
		zap.Int64("seed", seed),
		zap.Bool("journal", app.repo != nil),
	)
	return app, nil
}

// Run 按模式运行
func (a *App) Run() error {
	switch a.opts.mode {
	case "play":
		return a.play(os.Stdin, os.Stdout)
	case "simulate":
		return a.simulate(os.Stdout)
	case "serve":
		return a.serve()
	default:
		return errors.Newf(errors.ErrValidation, "未知运行模式: %s", a.opts.mode)
	}
}

// Close 关闭资源
func (a *App) Close() {
	if err := database.Close(); err != nil {
		a.logger.Error("关闭数据库失败", zap.Error(err))
	}
}

// play 控制台交互
func (a *App) play(in io.Reader, out io.Writer) error {
	var opts []session.Option
	if a.repo != nil {
		opts = append(opts, session.WithRecorder(
			repository.NewRoundJournal(a.repo, models.RoundSourceConsole)))
	}

	controller := session.NewController(a.machine, a.rng, in, out, opts...)
	balance, err := controller.Run(context.Background())
	if err != nil {
		return err
	}

	stats := controller.Stats()
	a.logger.Info("会话结束",
		zap.String("session_id", controller.SessionID()),
		zap.Int64("balance", balance),
		zap.Int("spins", stats.Spins),
		zap.Int64("total_bet", stats.TotalBet),
		zap.Int64("total_win", stats.TotalWin),
	)
	return nil
}

// simulate 批量模拟并输出报告
func (a *App) simulate(out io.Writer) error {
	bet := slot.BetConfiguration{Lines: a.opts.lines, BetPerLine: a.opts.bet}
	result, err := a.machine.SimulateBatch(bet, a.opts.spins, a.rng)
	if err != nil {
		return err
	}
	return writeReport(out, a.machine, bet, result)
}

// serve 启动HTTP模拟接口，收到退出信号后优雅关闭
func (a *App) serve() error {
	gin.SetMode(a.cfg.Server.Mode)

	var recorder api.RoundRecorder
	if a.repo != nil {
		recorder = repository.NewRoundJournal(a.repo, models.RoundSourceAPI)
	}
	handler := api.NewSlotHandler(a.machine, a.rng, recorder, a.cfg.Server.MaxSimulations, logger.WithModule("api"))
	router := api.NewRouter(handler, a.logger)

	// 配置文件变化时重新加载符号表
	config.Watch(func(newCfg *config.Config) {
		m, err := slot.NewMachineFromConfig(&newCfg.Game.Slot)
		if err != nil {
			a.logger.Error("新机器配置无效，保留原配置", zap.Error(err))
			return
		}
		handler.SetMachine(m)
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port),
		Handler:      router.Handler(),
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP服务启动", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err, ok := <-errCh:
		if ok {
			return errors.Wrap(err, errors.ErrUnknown, "HTTP服务启动失败")
		}
		return nil
	case <-ctx.Done():
		a.logger.Info("收到退出信号，正在优雅关闭...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, errors.ErrTimeout, "关闭超时")
	}

	a.logger.Info("HTTP服务已安全关闭")
	return nil
}

// printVersion 打印版本信息
func printVersion() {
	fmt.Printf("老虎机模拟器\n")
	fmt.Printf("版本: %s\n", Version)
	fmt.Printf("构建时间: %s\n", BuildTime)
	fmt.Printf("Git提交: %s\n", GitCommit)
	fmt.Printf("Go版本: %s\n", runtime.Version())
	fmt.Printf("操作系统: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}
