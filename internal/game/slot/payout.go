package slot

import (
	"github.com/wfunc/slot-sim/internal/errors"
)

// Evaluate 计算网格在给定下注下的赔付
//
// 支付线即行号：第 r 行（0起）在所有列上符号相同则中奖，
// 赔付为 values[符号] × betPerLine，中奖线以 r+1 升序记录。
// 只有一列时每条线都视为中奖。任何前置条件不满足时直接返回错误，不返回部分结果。
func Evaluate(grid Grid, lines int, betPerLine int64, values ValueTable) (EvaluationResult, error) {
	if len(grid) == 0 {
		return EvaluationResult{}, errors.New(errors.ErrIndexOutOfRange, "网格为空")
	}
	if lines < 1 {
		return EvaluationResult{}, errors.Newf(errors.ErrValidation, "支付线数量 %d 必须大于0", lines)
	}
	if betPerLine <= 0 {
		return EvaluationResult{}, errors.Newf(errors.ErrValidation, "单线投注 %d 必须大于0", betPerLine)
	}
	for col, column := range grid {
		if lines > len(column) {
			return EvaluationResult{}, errors.Newf(errors.ErrIndexOutOfRange,
				"支付线数量 %d 超出第 %d 列的行数 %d", lines, col, len(column))
		}
	}

	result := EvaluationResult{WinningLines: []int{}, LineWins: []LineWin{}}
	for row := 0; row < lines; row++ {
		symbol, ok := matchRow(grid, row)
		if !ok {
			continue
		}

		value, exists := values[symbol]
		if !exists {
			return EvaluationResult{}, errors.Newf(errors.ErrConfiguration, "赔率表缺少符号 %s", symbol)
		}

		payout := value * betPerLine
		result.Winnings += payout
		result.WinningLines = append(result.WinningLines, row+1)
		result.LineWins = append(result.LineWins, LineWin{
			Line:   row + 1,
			Symbol: symbol,
			Payout: payout,
		})
	}

	return result, nil
}

// matchRow 检查一行是否全部为第一列的符号
func matchRow(grid Grid, row int) (Symbol, bool) {
	symbol := grid.At(0, row)
	for col := 1; col < grid.Cols(); col++ {
		if grid.At(col, row) != symbol {
			return symbol, false
		}
	}
	return symbol, true
}
