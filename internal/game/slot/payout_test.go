package slot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wfunc/slot-sim/internal/errors"
)

var testValues = ValueTable{"A": 5, "B": 4, "C": 3, "D": 2}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name         string
		grid         Grid
		lines        int
		bet          int64
		wantWinnings int64
		wantLines    []int
	}{
		{
			name: "三行全部一致",
			grid: Grid{
				{"A", "B", "C"},
				{"A", "B", "C"},
				{"A", "B", "C"},
			},
			lines:        3,
			bet:          1,
			wantWinnings: 12,
			wantLines:    []int{1, 2, 3},
		},
		{
			name: "第二行第三列不一致",
			grid: Grid{
				{"A", "B", "C"},
				{"A", "B", "C"},
				{"A", "D", "C"},
			},
			lines:        3,
			bet:          1,
			wantWinnings: 8,
			wantLines:    []int{1, 3},
		},
		{
			name: "只下注一条线只检查第一行",
			grid: Grid{
				{"A", "B", "C"},
				{"A", "B", "C"},
				{"A", "B", "C"},
			},
			lines:        1,
			bet:          1,
			wantWinnings: 5,
			wantLines:    []int{1},
		},
		{
			name: "单线投注放大赔付",
			grid: Grid{
				{"D", "A", "B"},
				{"D", "C", "B"},
				{"D", "A", "B"},
			},
			lines:        3,
			bet:          10,
			wantWinnings: 20 + 40,
			wantLines:    []int{1, 3},
		},
		{
			name: "无中奖",
			grid: Grid{
				{"A", "B", "C"},
				{"B", "C", "A"},
				{"C", "A", "B"},
			},
			lines:        3,
			bet:          5,
			wantWinnings: 0,
			wantLines:    []int{},
		},
		{
			name:         "单列网格每条线都中奖",
			grid:         Grid{{"A", "D", "C"}},
			lines:        2,
			bet:          2,
			wantWinnings: 10 + 4,
			wantLines:    []int{1, 2},
		},
		{
			name: "行数多于下注线数",
			grid: Grid{
				{"A", "B", "C", "D"},
				{"B", "B", "C", "D"},
			},
			lines:        2,
			bet:          1,
			wantWinnings: 4,
			wantLines:    []int{2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Evaluate(tt.grid, tt.lines, tt.bet, testValues)
			require.NoError(t, err)
			assert.Equal(t, tt.wantWinnings, result.Winnings)
			assert.Equal(t, tt.wantLines, result.WinningLines)
			assert.Len(t, result.LineWins, len(tt.wantLines))

			var sum int64
			for _, win := range result.LineWins {
				sum += win.Payout
				assert.Equal(t, testValues[win.Symbol]*tt.bet, win.Payout)
			}
			assert.Equal(t, result.Winnings, sum)
		})
	}
}

func TestEvaluate_PureAndNoMutation(t *testing.T) {
	grid := Grid{
		{"A", "B", "C"},
		{"A", "B", "C"},
		{"A", "D", "C"},
	}
	snapshot := grid.Clone()

	first, err := Evaluate(grid, 3, 3, testValues)
	require.NoError(t, err)
	second, err := Evaluate(grid, 3, 3, testValues)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, grid)
}

func TestEvaluate_Errors(t *testing.T) {
	square := Grid{
		{"A", "B", "C"},
		{"A", "B", "C"},
		{"A", "B", "C"},
	}

	tests := []struct {
		name     string
		grid     Grid
		lines    int
		bet      int64
		values   ValueTable
		wantCode errors.ErrorCode
	}{
		{name: "线数超过行数", grid: square, lines: 4, bet: 1, values: testValues, wantCode: errors.ErrIndexOutOfRange},
		{name: "空网格", grid: Grid{}, lines: 1, bet: 1, values: testValues, wantCode: errors.ErrIndexOutOfRange},
		{name: "不规则网格", grid: Grid{{"A", "B"}, {"A"}}, lines: 2, bet: 1, values: testValues, wantCode: errors.ErrIndexOutOfRange},
		{name: "线数为0", grid: square, lines: 0, bet: 1, values: testValues, wantCode: errors.ErrValidation},
		{name: "单线投注为0", grid: square, lines: 3, bet: 0, values: testValues, wantCode: errors.ErrValidation},
		{name: "赔率表缺少符号", grid: square, lines: 3, bet: 1, values: ValueTable{"A": 5}, wantCode: errors.ErrConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Evaluate(tt.grid, tt.lines, tt.bet, tt.values)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, errors.GetCode(err))
			assert.Equal(t, EvaluationResult{}, result, "出错时不返回部分结果")
		})
	}
}
