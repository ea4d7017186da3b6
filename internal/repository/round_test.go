package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/wfunc/slot-sim/internal/errors"
	"github.com/wfunc/slot-sim/internal/game/slot"
	"github.com/wfunc/slot-sim/internal/models"
	"gorm.io/gorm"
)

// RoundRepositoryTestSuite 回合日志仓储测试套件
type RoundRepositoryTestSuite struct {
	suite.Suite
	db   *gorm.DB
	repo RoundRepository
}

// SetupSuite 设置测试套件
func (s *RoundRepositoryTestSuite) SetupSuite() {
	s.db = SetupTestDB()
	s.repo = NewRoundRepository(s.db)
}

// TearDownSuite 清理测试套件
func (s *RoundRepositoryTestSuite) TearDownSuite() {
	CleanupTestDB(s.db)
}

// SetupTest 每个测试前清空表
func (s *RoundRepositoryTestSuite) SetupTest() {
	s.db.Exec("DELETE FROM slot_rounds")
}

func (s *RoundRepositoryTestSuite) newRound(sessionID string, i int, winnings int64) *models.Round {
	return &models.Round{
		RoundID:      fmt.Sprintf("%s-%d", sessionID, i),
		SessionID:    sessionID,
		Source:       models.RoundSourceConsole,
		Lines:        3,
		BetPerLine:   1,
		TotalBet:     3,
		Winnings:     winnings,
		Net:          winnings - 3,
		WinningLines: []int{},
		Grid:         [][]string{{"A"}},
		PlayedAt:     time.Date(2024, 1, 1, 0, 0, i, 0, time.UTC),
	}
}

func (s *RoundRepositoryTestSuite) TestCreateAndFind() {
	ctx := context.Background()
	round := s.newRound("s1", 1, 8)
	round.WinningLines = []int{1, 3}

	s.Require().NoError(s.repo.Create(ctx, round))
	s.NotZero(round.ID)

	found, err := s.repo.FindByRoundID(ctx, "s1-1")
	s.Require().NoError(err)
	s.Equal(int64(8), found.Winnings)
	s.Equal([]int{1, 3}, found.WinningLines)
	s.True(found.IsWin())
}

func (s *RoundRepositoryTestSuite) TestFindByRoundID_NotFound() {
	_, err := s.repo.FindByRoundID(context.Background(), "missing")
	s.True(errors.Is(err, errors.ErrNotFound))
}

func (s *RoundRepositoryTestSuite) TestCreate_DuplicateRoundID() {
	ctx := context.Background()
	s.Require().NoError(s.repo.Create(ctx, s.newRound("s1", 1, 0)))

	err := s.repo.Create(ctx, s.newRound("s1", 1, 0))
	s.True(errors.Is(err, errors.ErrDatabaseInsert))
}

func (s *RoundRepositoryTestSuite) TestBatchCreate_RollsBackOnFailure() {
	ctx := context.Background()
	s.Require().NoError(s.repo.Create(ctx, s.newRound("s1", 2, 0)))

	err := s.repo.BatchCreate(ctx, []*models.Round{
		s.newRound("s1", 0, 0),
		s.newRound("s1", 1, 0),
		s.newRound("s1", 2, 0),
	})
	s.True(errors.Is(err, errors.ErrDatabaseInsert))

	_, err = s.repo.FindByRoundID(ctx, "s1-0")
	s.True(errors.Is(err, errors.ErrNotFound), "失败的批次不应留下部分数据")

	stats, err := s.repo.GetStatistics(ctx, "s1")
	s.Require().NoError(err)
	s.Equal(1, stats.TotalRounds)
}

func (s *RoundRepositoryTestSuite) TestFindBySessionID_Pagination() {
	ctx := context.Background()
	var rounds []*models.Round
	for i := 0; i < 5; i++ {
		rounds = append(rounds, s.newRound("s1", i, 0))
	}
	rounds = append(rounds, s.newRound("s2", 0, 0))
	s.Require().NoError(s.repo.BatchCreate(ctx, rounds))

	page := NewPagination(2, 2)
	found, err := s.repo.FindBySessionID(ctx, "s1", page)
	s.Require().NoError(err)
	s.Equal(int64(5), page.Total)
	s.Require().Len(found, 2)
	s.Equal("s1-2", found[0].RoundID)
	s.Equal("s1-3", found[1].RoundID)
}

func (s *RoundRepositoryTestSuite) TestGetStatistics() {
	ctx := context.Background()
	s.Require().NoError(s.repo.BatchCreate(ctx, []*models.Round{
		s.newRound("s1", 0, 0),
		s.newRound("s1", 1, 12),
		s.newRound("s1", 2, 4),
		s.newRound("s2", 0, 100),
	}))

	stats, err := s.repo.GetStatistics(ctx, "s1")
	s.Require().NoError(err)
	s.Equal(3, stats.TotalRounds)
	s.Equal(int64(9), stats.TotalBet)
	s.Equal(int64(16), stats.TotalWin)
	s.Equal(int64(7), stats.Net)
	s.Equal(2, stats.WinCount)
	s.Equal(1, stats.LossCount)
	s.Equal(int64(12), stats.MaxWin)
	s.InDelta(16.0/9.0, stats.RTP, 1e-9)

	all, err := s.repo.GetStatistics(ctx, "")
	s.Require().NoError(err)
	s.Equal(4, all.TotalRounds)
}

func (s *RoundRepositoryTestSuite) TestRoundJournal_Record() {
	ctx := context.Background()
	journal := NewRoundJournal(s.repo, models.RoundSourceAPI)
	outcome := &slot.SpinOutcome{
		Machine: "classic_3x3",
		Grid:    slot.Grid{{"A", "B", "C"}, {"A", "B", "C"}, {"A", "D", "C"}},
		Bet:     slot.BetConfiguration{Lines: 3, BetPerLine: 2},
		Result: slot.EvaluationResult{
			Winnings:     16,
			WinningLines: []int{1, 3},
		},
	}

	roundID, err := journal.Record(ctx, "session-1", outcome, 110)
	s.Require().NoError(err)
	s.NotEmpty(roundID)

	saved, err := s.repo.FindByRoundID(ctx, roundID)
	s.Require().NoError(err)
	s.Equal(models.RoundSourceAPI, saved.Source)
	s.Equal("classic_3x3", saved.Machine)
	s.Equal(int64(6), saved.TotalBet)
	s.Equal(int64(10), saved.Net)
	s.Equal(int64(110), saved.BalanceAfter)
	s.Equal(outcome.Grid.Strings(), saved.Grid)
}

func TestRoundRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RoundRepositoryTestSuite))
}

func TestPagination(t *testing.T) {
	p := NewPagination(0, 500)
	require.Equal(t, 1, p.Page)
	assert.Equal(t, 100, p.PageSize)
	assert.Equal(t, 0, p.Offset())

	p = NewPagination(3, 0)
	assert.Equal(t, 10, p.PageSize)
	assert.Equal(t, 20, p.Offset())
}
