package api

import (
	"context"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/wfunc/slot-sim/internal/errors"
	"github.com/wfunc/slot-sim/internal/game/slot"
	"github.com/wfunc/slot-sim/internal/middleware"
	"go.uber.org/zap"
)

// RoundRecorder 回合日志记录器
type RoundRecorder interface {
	Record(ctx context.Context, sessionID string, outcome *slot.SpinOutcome, balanceAfter int64) (string, error)
}

// SlotHandler 老虎机模拟处理器
//
// 接口无状态，不维护余额；随机源在请求间共享，需加锁。
type SlotHandler struct {
	mu             sync.RWMutex
	machine        *slot.Machine
	rng            slot.RandomSource
	recorder       RoundRecorder
	maxSimulations int
	logger         *zap.Logger
}

// NewSlotHandler 创建老虎机处理器，recorder 可为 nil
func NewSlotHandler(machine *slot.Machine, rng slot.RandomSource, recorder RoundRecorder, maxSimulations int, logger *zap.Logger) *SlotHandler {
	if rng == nil {
		rng = slot.NewCryptoRandomGenerator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SlotHandler{
		machine:        machine,
		rng:            slot.NewLockedRandomSource(rng),
		recorder:       recorder,
		maxSimulations: maxSimulations,
		logger:         logger,
	}
}

// SetMachine 替换机器配置（配置热更新）
func (h *SlotHandler) SetMachine(m *slot.Machine) {
	h.mu.Lock()
	h.machine = m
	h.mu.Unlock()
	h.logger.Info("机器配置已更新", zap.String("machine", m.Name))
}

func (h *SlotHandler) currentMachine() *slot.Machine {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.machine
}

// SymbolInfo 符号信息
type SymbolInfo struct {
	Symbol string `json:"symbol"`
	Weight int    `json:"weight"`
	Value  int64  `json:"value"`
}

// MachineResponse 机器配置响应
type MachineResponse struct {
	Name           string       `json:"name"`
	Rows           int          `json:"rows"`
	Cols           int          `json:"cols"`
	MaxLines       int          `json:"max_lines"`
	MinBet         int64        `json:"min_bet"`
	MaxBet         int64        `json:"max_bet"`
	Symbols        []SymbolInfo `json:"symbols"`
	TheoreticalRTP float64      `json:"theoretical_rtp"`
}

// SpinRequest 旋转请求
type SpinRequest struct {
	Lines int   `json:"lines" binding:"required"`
	Bet   int64 `json:"bet" binding:"required"`
}

// SpinResponse 旋转响应
type SpinResponse struct {
	RoundID      string         `json:"round_id"`
	Grid         [][]string     `json:"grid"`
	Display      string         `json:"display"`
	Winnings     int64          `json:"winnings"`
	WinningLines []int          `json:"winning_lines"`
	LineWins     []slot.LineWin `json:"line_wins"`
	TotalBet     int64          `json:"total_bet"`
	Net          int64          `json:"net"`
}

// SimulationRequest 批量模拟请求
type SimulationRequest struct {
	Spins int   `json:"spins" binding:"required"`
	Lines int   `json:"lines" binding:"required"`
	Bet   int64 `json:"bet" binding:"required"`
}

// Machine 获取机器配置
func (h *SlotHandler) Machine(c *gin.Context) {
	m := h.currentMachine()

	symbols := make([]SymbolInfo, 0, len(m.Symbols))
	for _, s := range m.Symbols {
		symbols = append(symbols, SymbolInfo{
			Symbol: string(s),
			Weight: m.Weights[s],
			Value:  m.Values[s],
		})
	}

	c.JSON(http.StatusOK, MachineResponse{
		Name:           m.Name,
		Rows:           m.Rows,
		Cols:           m.Cols,
		MaxLines:       m.MaxLines,
		MinBet:         m.MinBet,
		MaxBet:         m.MaxBet,
		Symbols:        symbols,
		TheoreticalRTP: m.TheoreticalRTP(),
	})
}

// Spin 旋转一次
func (h *SlotHandler) Spin(c *gin.Context) {
	var req SpinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, errors.Wrap(err, errors.ErrValidation))
		return
	}

	bet := slot.BetConfiguration{Lines: req.Lines, BetPerLine: req.Bet}
	outcome, err := h.currentMachine().Spin(bet, h.rng)
	if err != nil {
		h.respondError(c, err)
		return
	}

	requestID := middleware.GetRequestID(c)
	roundID := ""
	if h.recorder != nil {
		roundID, err = h.recorder.Record(c.Request.Context(), requestID, outcome, 0)
		if err != nil {
			h.logger.Warn("回合日志写入失败", zap.String("request_id", requestID), zap.Error(err))
		}
	}
	if roundID == "" {
		roundID = uuid.NewString()
	}

	h.logger.Debug("旋转完成",
		zap.String("round_id", roundID),
		zap.Int("lines", bet.Lines),
		zap.Int64("bet_per_line", bet.BetPerLine),
		zap.Int64("winnings", outcome.Result.Winnings),
	)

	c.JSON(http.StatusOK, SpinResponse{
		RoundID:      roundID,
		Grid:         outcome.Grid.Strings(),
		Display:      slot.Render(outcome.Grid),
		Winnings:     outcome.Result.Winnings,
		WinningLines: outcome.Result.WinningLines,
		LineWins:     outcome.Result.LineWins,
		TotalBet:     bet.TotalBet(),
		Net:          outcome.Net(),
	})
}

// Simulate 批量模拟并返回RTP统计
func (h *SlotHandler) Simulate(c *gin.Context) {
	var req SimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, errors.Wrap(err, errors.ErrValidation))
		return
	}
	if h.maxSimulations > 0 && req.Spins > h.maxSimulations {
		h.respondError(c, errors.Newf(errors.ErrValidation, "模拟次数 %d 超过上限 %d", req.Spins, h.maxSimulations))
		return
	}

	bet := slot.BetConfiguration{Lines: req.Lines, BetPerLine: req.Bet}
	result, err := h.currentMachine().SimulateBatch(bet, req.Spins, h.rng)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.logger.Info("批量模拟完成",
		zap.Int("spins", result.TotalSpins),
		zap.Float64("rtp", result.RTP),
		zap.Float64("theoretical_rtp", result.TheoreticalRTP),
	)
	c.JSON(http.StatusOK, result)
}

// respondError 输出统一错误响应，不暴露调用栈
func (h *SlotHandler) respondError(c *gin.Context, err error) {
	appErr, ok := err.(*errors.AppError)
	if !ok {
		appErr = errors.Wrap(err, errors.ErrUnknown)
	}

	body := *appErr
	body.Stack = nil
	status := appErr.HTTPStatus()
	switch {
	case errors.IsCritical(appErr):
		// 配置类错误需要人工处理，带上调用栈
		h.logger.Error("请求处理失败", zap.Error(err), zap.Bool("critical", true), zap.String("stack", appErr.GetStack()))
	case status >= http.StatusInternalServerError:
		h.logger.Error("请求处理失败", zap.Error(err))
	}
	c.JSON(status, errors.NewErrorResponse(&body, middleware.GetRequestID(c)))
}
