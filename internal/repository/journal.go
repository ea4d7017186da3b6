package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wfunc/slot-sim/internal/game/slot"
	"github.com/wfunc/slot-sim/internal/models"
)

// RoundJournal 将旋转结果写入回合日志
//
// 机器名取自每次旋转结果，配置热更新后记录新机器。
type RoundJournal struct {
	repo   RoundRepository
	source string
	now    func() time.Time
}

// NewRoundJournal 创建回合日志记录器，source 标记回合来源（console/api）
func NewRoundJournal(repo RoundRepository, source string) *RoundJournal {
	return &RoundJournal{
		repo:   repo,
		source: source,
		now:    time.Now,
	}
}

// Record 记录一次旋转，返回生成的回合ID
func (j *RoundJournal) Record(ctx context.Context, sessionID string, outcome *slot.SpinOutcome, balanceAfter int64) (string, error) {
	round := &models.Round{
		RoundID:      uuid.NewString(),
		SessionID:    sessionID,
		Source:       j.source,
		Machine:      outcome.Machine,
		Lines:        outcome.Bet.Lines,
		BetPerLine:   outcome.Bet.BetPerLine,
		TotalBet:     outcome.Bet.TotalBet(),
		Winnings:     outcome.Result.Winnings,
		Net:          outcome.Net(),
		BalanceAfter: balanceAfter,
		WinningLines: outcome.Result.WinningLines,
		Grid:         outcome.Grid.Strings(),
		PlayedAt:     j.now(),
	}

	if err := j.repo.Create(ctx, round); err != nil {
		return "", err
	}
	return round.RoundID, nil
}
