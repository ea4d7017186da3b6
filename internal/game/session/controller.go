package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/wfunc/slot-sim/internal/errors"
	"github.com/wfunc/slot-sim/internal/game/slot"
	"github.com/wfunc/slot-sim/internal/logger"
	"go.uber.org/zap"
)

// RoundRecorder 回合日志记录器
type RoundRecorder interface {
	Record(ctx context.Context, sessionID string, outcome *slot.SpinOutcome, balanceAfter int64) (string, error)
}

// Stats 会话统计
type Stats struct {
	Spins    int   `json:"spins"`
	Wins     int   `json:"wins"`
	TotalBet int64 `json:"total_bet"`
	TotalWin int64 `json:"total_win"`
}

// maxInputLine 单行输入上限，超出部分丢弃
const maxInputLine = 4096

// Controller 控制台会话：充值、选线、下注、旋转，直到玩家退出
//
// 余额只在这里修改，且下注总额不会超过余额，所以余额始终非负。
// 余额加上一次最大赢取不能超过 int64 上限。
type Controller struct {
	machine   *slot.Machine
	rng       slot.RandomSource
	in        *bufio.Reader
	out       io.Writer
	recorder  RoundRecorder
	log       *zap.Logger
	sessionID string

	balance int64
	stats   Stats
}

// Option 会话选项
type Option func(*Controller)

// WithRecorder 设置回合日志记录器
func WithRecorder(r RoundRecorder) Option {
	return func(c *Controller) {
		c.recorder = r
	}
}

// WithLogger 设置日志
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithSessionID 指定会话ID
func WithSessionID(id string) Option {
	return func(c *Controller) {
		c.sessionID = id
	}
}

// NewController 创建会话控制器
func NewController(machine *slot.Machine, rng slot.RandomSource, in io.Reader, out io.Writer, opts ...Option) *Controller {
	if rng == nil {
		rng = slot.NewCryptoRandomGenerator()
	}

	c := &Controller{
		machine:   machine,
		rng:       rng,
		in:        bufio.NewReaderSize(in, maxInputLine),
		out:       out,
		log:       logger.WithModule("game"),
		sessionID: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SessionID 会话ID
func (c *Controller) SessionID() string {
	return c.sessionID
}

// Balance 当前余额
func (c *Controller) Balance() int64 {
	return c.balance
}

// Stats 会话统计
func (c *Controller) Stats() Stats {
	return c.stats
}

// Run 运行交互循环，返回离场余额
//
// 输入结束视同退出。
func (c *Controller) Run(ctx context.Context) (int64, error) {
	logger.LogGameEvent("session_start", c.sessionID, map[string]interface{}{
		"machine": c.machine.Name,
	})

	err := c.loop(ctx)
	if errors.Is(err, errors.ErrSessionClosed) {
		err = nil
	}

	c.printf("You left with $%d\n", c.balance)
	logger.LogGameEvent("session_end", c.sessionID, map[string]interface{}{
		"balance":   c.balance,
		"spins":     c.stats.Spins,
		"total_bet": c.stats.TotalBet,
		"total_win": c.stats.TotalWin,
	})

	return c.balance, err
}

func (c *Controller) loop(ctx context.Context) error {
	if err := c.promptDeposit(); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, errors.ErrCanceled)
		}

		c.printf("Current balance is $%d\n", c.balance)
		answer, err := c.readLine("Press enter to play (q to quit).")
		if err != nil {
			return err
		}
		if answer == "q" {
			return nil
		}

		if err := c.playRound(ctx); err != nil {
			return err
		}
	}
}

// playRound 收集下注并完成一次旋转
func (c *Controller) playRound(ctx context.Context) error {
	lines, err := c.promptLines()
	if err != nil {
		return err
	}

	var bet int64
	for {
		bet, err = c.promptBet()
		if err != nil {
			return err
		}
		// 余额不足时只重新询问单线投注
		if int64(lines)*bet > c.balance {
			c.printf("You do not have enough to bet that amount, your current balance is: $%d\n", c.balance)
			continue
		}
		break
	}

	betCfg := slot.BetConfiguration{Lines: lines, BetPerLine: bet}
	c.printf("You are betting $%d on %d lines. Total bet is equal to: $%d\n", bet, lines, betCfg.TotalBet())

	outcome, err := c.Spin(ctx, betCfg)
	if err != nil {
		if errors.IsUserInput(err) {
			// 下注被拒绝，余额不变，回到主循环
			c.log.Info("下注被拒绝", zap.String("session_id", c.sessionID), zap.Error(err))
			c.printf("Your bet was not accepted, your current balance is: $%d\n", c.balance)
			return nil
		}
		return err
	}

	if err := slot.RenderTo(c.out, outcome.Grid); err != nil {
		return errors.Wrap(err, errors.ErrUnknown, "输出网格失败")
	}
	c.printf("You won $%d.\n", outcome.Result.Winnings)
	c.printf("You won on lines:%s\n", joinLines(outcome.Result.WinningLines))
	return nil
}

// Deposit 充值，充值后余额须为一次最大赢取留出空间
func (c *Controller) Deposit(amount int64) error {
	if amount <= 0 {
		return errors.Newf(errors.ErrInvalidDeposit, "充值金额 %d 必须大于0", amount)
	}
	if limit := c.depositLimit(); amount > limit {
		return errors.Newf(errors.ErrInvalidDeposit, "充值金额 %d 超过上限 %d", amount, limit)
	}
	c.balance += amount
	c.log.Info("充值", zap.String("session_id", c.sessionID), zap.Int64("amount", amount), zap.Int64("balance", c.balance))
	return nil
}

// Spin 校验下注并旋转一次，按净输赢更新余额并写入回合日志
func (c *Controller) Spin(ctx context.Context, bet slot.BetConfiguration) (*slot.SpinOutcome, error) {
	if err := c.machine.ValidateBet(bet); err != nil {
		return nil, err
	}
	if bet.TotalBet() > c.balance {
		return nil, errors.Newf(errors.ErrInsufficientBalance, "下注总额 %d 超过余额 %d", bet.TotalBet(), c.balance)
	}
	if c.balance > c.balanceCeiling() {
		return nil, errors.Newf(errors.ErrBalanceLimit, "余额 %d 超过上限 %d", c.balance, c.balanceCeiling())
	}

	outcome, err := c.machine.Spin(bet, c.rng)
	if err != nil {
		return nil, err
	}

	c.balance += outcome.Net()
	c.stats.Spins++
	c.stats.TotalBet += bet.TotalBet()
	c.stats.TotalWin += outcome.Result.Winnings
	if outcome.Result.HasWin() {
		c.stats.Wins++
	}

	c.log.Info("旋转完成",
		zap.String("session_id", c.sessionID),
		zap.Int("lines", bet.Lines),
		zap.Int64("bet_per_line", bet.BetPerLine),
		zap.Int64("winnings", outcome.Result.Winnings),
		zap.Ints("winning_lines", outcome.Result.WinningLines),
		zap.Int64("balance", c.balance),
	)

	if c.recorder != nil {
		if _, err := c.recorder.Record(ctx, c.sessionID, outcome, c.balance); err != nil {
			// 日志写入失败不影响游戏
			c.log.Warn("回合日志写入失败", zap.String("session_id", c.sessionID), zap.Error(err))
		}
	}

	return outcome, nil
}

// balanceCeiling 允许旋转的最高余额
func (c *Controller) balanceCeiling() int64 {
	return math.MaxInt64 - c.machine.MaxWin()
}

// depositLimit 当前可充值的最大金额，可能为负
func (c *Controller) depositLimit() int64 {
	return c.balanceCeiling() - c.balance
}

func (c *Controller) promptDeposit() error {
	for {
		line, err := c.readLine("What would you like to deposit? $")
		if err != nil {
			return err
		}
		amount, ok := parseAmount(line)
		if !ok {
			c.printf("Please enter a number.\n")
			continue
		}
		if amount <= 0 {
			c.printf("Amount must be greater than 0.\n")
			continue
		}
		if err := c.Deposit(amount); err != nil {
			if errors.IsUserInput(err) {
				c.printf("Amount must be at most $%d.\n", c.depositLimit())
				continue
			}
			return err
		}
		return nil
	}
}

func (c *Controller) promptLines() (int, error) {
	prompt := fmt.Sprintf("Enter the number of lines to bet on (1-%d)? ", c.machine.MaxLines)
	for {
		line, err := c.readLine(prompt)
		if err != nil {
			return 0, err
		}
		lines, ok := parseAmount(line)
		if !ok {
			c.printf("Please enter a number.\n")
			continue
		}
		if lines < 1 || lines > int64(c.machine.MaxLines) {
			c.printf("Enter a valid number of lines.\n")
			continue
		}
		return int(lines), nil
	}
}

func (c *Controller) promptBet() (int64, error) {
	for {
		line, err := c.readLine("What would you like to bet on each line? $")
		if err != nil {
			return 0, err
		}
		bet, ok := parseAmount(line)
		if !ok {
			c.printf("Please enter a number.\n")
			continue
		}
		if bet < c.machine.MinBet || bet > c.machine.MaxBet {
			c.printf("Amount must be between $%d - $%d.\n", c.machine.MinBet, c.machine.MaxBet)
			continue
		}
		return bet, nil
	}
}

// readLine 输出提示并读取一行，输入结束时返回 ErrSessionClosed
//
// 超过 maxInputLine 的行只保留开头部分，这样的内容不会是合法数字。
func (c *Controller) readLine(prompt string) (string, error) {
	c.printf("%s", prompt)
	line, isPrefix, err := c.in.ReadLine()
	if err == io.EOF {
		return "", errors.New(errors.ErrSessionClosed)
	}
	if err != nil {
		return "", errors.Wrap(err, errors.ErrUnknown, "读取输入失败")
	}

	text := string(line)
	for isPrefix {
		if _, isPrefix, err = c.in.ReadLine(); err != nil {
			break
		}
	}
	return strings.TrimRight(text, "\r"), nil
}

func (c *Controller) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}

// parseAmount 仅接受非负十进制整数，前后空白忽略
func parseAmount(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func joinLines(lines []int) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(l))
	}
	return b.String()
}
