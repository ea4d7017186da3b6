package repository

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/wfunc/slot-sim/internal/errors"
	"github.com/wfunc/slot-sim/internal/logger"
	"github.com/wfunc/slot-sim/internal/models"
	"gorm.io/gorm"
)

// RoundRepository 回合日志仓储接口
type RoundRepository interface {
	BaseRepository
	Create(ctx context.Context, round *models.Round) error
	BatchCreate(ctx context.Context, rounds []*models.Round) error
	FindByRoundID(ctx context.Context, roundID string) (*models.Round, error)
	FindBySessionID(ctx context.Context, sessionID string, pagination *Pagination) ([]*models.Round, error)
	GetStatistics(ctx context.Context, sessionID string) (*RoundStatistics, error)
}

// RoundStatistics 回合统计
type RoundStatistics struct {
	TotalRounds int     `json:"total_rounds"`
	TotalBet    int64   `json:"total_bet"`
	TotalWin    int64   `json:"total_win"`
	Net         int64   `json:"net"`
	WinCount    int     `json:"win_count"`
	LossCount   int     `json:"loss_count"`
	MaxWin      int64   `json:"max_win"`
	RTP         float64 `json:"rtp"`
}

// roundRepo 回合日志仓储实现
type roundRepo struct {
	*BaseRepo
}

// NewRoundRepository 创建回合日志仓储
func NewRoundRepository(db *gorm.DB) RoundRepository {
	return &roundRepo{
		BaseRepo: NewBaseRepo(db),
	}
}

// Create 写入回合
func (r *roundRepo) Create(ctx context.Context, round *models.Round) error {
	start := time.Now()
	err := r.db.WithContext(ctx).Create(round).Error
	logger.LogDatabaseOperation("insert", round.TableName(), time.Since(start), err)
	if err != nil {
		return errors.Wrap(err, errors.ErrDatabaseInsert, "写入回合日志失败")
	}
	return nil
}

// BatchCreate 在同一事务中批量写入回合，任一失败则全部回滚
func (r *roundRepo) BatchCreate(ctx context.Context, rounds []*models.Round) error {
	if len(rounds) == 0 {
		return nil
	}

	start := time.Now()
	err := r.Transaction(ctx, func(tx *gorm.DB) error {
		return tx.CreateInBatches(rounds, 100).Error
	})
	logger.LogDatabaseOperation("batch_insert", models.Round{}.TableName(), time.Since(start), err)
	if err != nil {
		return errors.Wrap(err, errors.ErrDatabaseInsert, "批量写入回合日志失败")
	}
	return nil
}

// FindByRoundID 根据回合ID查找
func (r *roundRepo) FindByRoundID(ctx context.Context, roundID string) (*models.Round, error) {
	var round models.Round
	err := r.db.WithContext(ctx).Where("round_id = ?", roundID).First(&round).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Newf(errors.ErrNotFound, "回合 %s 不存在", roundID)
		}
		return nil, errors.Wrap(err, errors.ErrDatabaseQuery)
	}
	return &round, nil
}

// FindBySessionID 按会话分页查询，按时间先后排序
func (r *roundRepo) FindBySessionID(ctx context.Context, sessionID string, pagination *Pagination) ([]*models.Round, error) {
	bySession := func(db *gorm.DB) *gorm.DB {
		return db.Model(&models.Round{}).Where("session_id = ?", sessionID)
	}

	if err := r.db.WithContext(ctx).Scopes(bySession).Count(&pagination.Total).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrDatabaseQuery)
	}

	var rounds []*models.Round
	err := r.db.WithContext(ctx).Scopes(bySession, Paginate(pagination)).
		Order("played_at ASC, id ASC").
		Find(&rounds).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrDatabaseQuery)
	}
	return rounds, nil
}

// GetStatistics 获取统计数据，sessionID 为空时统计全部回合
func (r *roundRepo) GetStatistics(ctx context.Context, sessionID string) (*RoundStatistics, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Model(&models.Round{})
		if sessionID != "" {
			db = db.Where("session_id = ?", sessionID)
		}
		return db
	}

	var result struct {
		TotalRounds int
		TotalBet    int64
		TotalWin    int64
		MaxWin      int64
	}

	err := r.db.WithContext(ctx).Scopes(scope).Select(`
		COUNT(*) as total_rounds,
		COALESCE(SUM(total_bet), 0) as total_bet,
		COALESCE(SUM(winnings), 0) as total_win,
		COALESCE(MAX(winnings), 0) as max_win
	`).Scan(&result).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrDatabaseQuery)
	}

	var winCount int64
	if err := r.db.WithContext(ctx).Scopes(scope).Where("winnings > 0").Count(&winCount).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrDatabaseQuery)
	}

	stats := &RoundStatistics{
		TotalRounds: result.TotalRounds,
		TotalBet:    result.TotalBet,
		TotalWin:    result.TotalWin,
		Net:         result.TotalWin - result.TotalBet,
		WinCount:    int(winCount),
		LossCount:   result.TotalRounds - int(winCount),
		MaxWin:      result.MaxWin,
	}
	if stats.TotalBet > 0 {
		stats.RTP = float64(stats.TotalWin) / float64(stats.TotalBet)
	}
	return stats, nil
}
