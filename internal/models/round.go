package models

import (
	"time"
)

// 回合来源
const (
	RoundSourceConsole = "console" // 控制台会话
	RoundSourceAPI     = "api"     // HTTP接口
)

// Round 旋转回合日志
type Round struct {
	BaseModel
	RoundID      string     `gorm:"uniqueIndex;size:64;not null" json:"round_id"`
	SessionID    string     `gorm:"index;size:64" json:"session_id"`
	Source       string     `gorm:"size:20;default:'console'" json:"source"`
	Machine      string     `gorm:"size:64" json:"machine"`
	Lines        int        `gorm:"not null" json:"lines"`
	BetPerLine   int64      `gorm:"not null" json:"bet_per_line"`
	TotalBet     int64      `gorm:"not null" json:"total_bet"`
	Winnings     int64      `gorm:"default:0" json:"winnings"`
	Net          int64      `json:"net"`
	BalanceAfter int64      `json:"balance_after"`
	WinningLines []int      `gorm:"serializer:json" json:"winning_lines"`
	Grid         [][]string `gorm:"serializer:json" json:"grid"`
	PlayedAt     time.Time  `gorm:"index" json:"played_at"`
}

// TableName 表名
func (Round) TableName() string {
	return "slot_rounds"
}

// IsWin 是否中奖
func (r *Round) IsWin() bool {
	return r.Winnings > 0
}
