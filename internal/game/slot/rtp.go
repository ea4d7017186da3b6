package slot

import (
	"math"

	"github.com/wfunc/slot-sim/internal/errors"
)

// SimulationResult 批量模拟结果
type SimulationResult struct {
	TotalSpins     int              `json:"total_spins"`
	WinningSpins   int              `json:"winning_spins"`
	TotalBet       int64            `json:"total_bet"`
	TotalWin       int64            `json:"total_win"`
	RTP            float64          `json:"rtp"`
	TheoreticalRTP float64          `json:"theoretical_rtp"`
	HitRate        float64          `json:"hit_rate"`
	MaxWin         int64            `json:"max_win"`
	LineHits       []int64          `json:"line_hits"`   // 下标 i 对应第 i+1 条线
	SymbolHits     map[Symbol]int64 `json:"symbol_hits"` // 各符号中奖线次数
}

// SimulateBatch 以固定下注连续模拟 spins 次，用于评估RTP
func (m *Machine) SimulateBatch(bet BetConfiguration, spins int, rng RandomSource) (*SimulationResult, error) {
	if spins < 1 {
		return nil, errors.Newf(errors.ErrValidation, "模拟次数 %d 必须大于0", spins)
	}
	if err := m.ValidateBet(bet); err != nil {
		return nil, err
	}

	result := &SimulationResult{
		TotalSpins:     spins,
		TheoreticalRTP: m.TheoreticalRTP(),
		LineHits:       make([]int64, bet.Lines),
		SymbolHits:     make(map[Symbol]int64),
	}

	for i := 0; i < spins; i++ {
		outcome, err := m.Spin(bet, rng)
		if err != nil {
			return nil, err
		}

		result.TotalBet += bet.TotalBet()
		result.TotalWin += outcome.Result.Winnings
		if outcome.Result.HasWin() {
			result.WinningSpins++
		}
		if outcome.Result.Winnings > result.MaxWin {
			result.MaxWin = outcome.Result.Winnings
		}
		for _, win := range outcome.Result.LineWins {
			result.LineHits[win.Line-1]++
			result.SymbolHits[win.Symbol]++
		}
	}

	result.RTP = CalculateRTP(result.TotalWin, result.TotalBet)
	result.HitRate = float64(result.WinningSpins) / float64(spins)

	return result, nil
}

// TheoreticalRTP 单条支付线的理论返还率
//
// 无放回抽样下每个位置的边际分布仍为 w/W，列之间相互独立，
// 因此某行全为符号 s 的概率为 (w_s/W)^cols。
func (m *Machine) TheoreticalRTP() float64 {
	total := float64(m.Weights.TotalWeight())
	if total == 0 {
		return 0
	}

	rtp := 0.0
	for symbol, weight := range m.Weights {
		p := math.Pow(float64(weight)/total, float64(m.Cols))
		rtp += p * float64(m.Values[symbol])
	}
	return rtp
}

// CalculateRTP 计算当前RTP
func CalculateRTP(totalWin, totalBet int64) float64 {
	if totalBet == 0 {
		return 0
	}
	return float64(totalWin) / float64(totalBet)
}
