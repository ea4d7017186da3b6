package slot

import (
	"sort"

	"github.com/wfunc/slot-sim/internal/errors"
)

// MaxPoolSize 单列符号池（权重合计）的上限
const MaxPoolSize = 1 << 20

// Symbol 游戏符号
type Symbol string

// WeightTable 符号权重表：每个符号在单列符号池中的数量
type WeightTable map[Symbol]int

// ValueTable 符号赔率表：整条支付线中奖时的倍率
type ValueTable map[Symbol]int64

// TotalWeight 权重合计
func (w WeightTable) TotalWeight() int {
	total := 0
	for _, count := range w {
		total += count
	}
	return total
}

// PoolSize 校验权重并返回展开后的符号池大小
//
// 逐个累加时检查上限，权重合计不会溢出。
func (w WeightTable) PoolSize() (int, error) {
	if len(w) == 0 {
		return 0, errors.New(errors.ErrConfiguration, "符号权重表为空")
	}

	total := 0
	for _, symbol := range w.Symbols() {
		count := w[symbol]
		if count < 1 {
			return 0, errors.Newf(errors.ErrConfiguration, "符号 %s 的权重 %d 必须大于0", symbol, count)
		}
		if count > MaxPoolSize-total {
			return 0, errors.Newf(errors.ErrConfiguration, "权重合计超过上限 %d", MaxPoolSize)
		}
		total += count
	}
	return total, nil
}

// Symbols 返回按名称排序的符号列表，保证相同随机序列下结果可复现
func (w WeightTable) Symbols() []Symbol {
	symbols := make([]Symbol, 0, len(w))
	for s := range w {
		symbols = append(symbols, s)
	}
	sort.Slice(symbols, func(i, j int) bool { return symbols[i] < symbols[j] })
	return symbols
}

// Grid 一次旋转的符号网格，按列存储：grid[col][row]
type Grid [][]Symbol

// Cols 列数
func (g Grid) Cols() int {
	return len(g)
}

// Rows 行数（以第一列为准）
func (g Grid) Rows() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// At 获取指定位置的符号
func (g Grid) At(col, row int) Symbol {
	return g[col][row]
}

// Row 获取一行符号（从左到右）
func (g Grid) Row(row int) []Symbol {
	symbols := make([]Symbol, len(g))
	for col := range g {
		symbols[col] = g[col][row]
	}
	return symbols
}

// Clone 深拷贝
func (g Grid) Clone() Grid {
	clone := make(Grid, len(g))
	for i, column := range g {
		clone[i] = append([]Symbol(nil), column...)
	}
	return clone
}

// Strings 转换为字符串二维数组，便于序列化
func (g Grid) Strings() [][]string {
	out := make([][]string, len(g))
	for i, column := range g {
		out[i] = make([]string, len(column))
		for j, s := range column {
			out[i][j] = string(s)
		}
	}
	return out
}

// BetConfiguration 下注配置
type BetConfiguration struct {
	Lines      int   `json:"lines"`        // 下注支付线数量
	BetPerLine int64 `json:"bet_per_line"` // 单线投注
}

// TotalBet 总投注 = 线数 × 单线投注
func (b BetConfiguration) TotalBet() int64 {
	return int64(b.Lines) * b.BetPerLine
}

// LineWin 单条中奖线
type LineWin struct {
	Line   int    `json:"line"`   // 支付线编号（从1开始）
	Symbol Symbol `json:"symbol"` // 中奖符号
	Payout int64  `json:"payout"` // 该线赔付
}

// EvaluationResult 赔付计算结果
type EvaluationResult struct {
	Winnings     int64     `json:"winnings"`      // 总赢取
	WinningLines []int     `json:"winning_lines"` // 中奖线编号，升序
	LineWins     []LineWin `json:"line_wins"`     // 中奖线明细
}

// HasWin 是否中奖
func (r EvaluationResult) HasWin() bool {
	return len(r.WinningLines) > 0
}

// SpinOutcome 一次完整旋转：网格、下注与结果
type SpinOutcome struct {
	Machine string           `json:"machine"` // 产生该回合的机器
	Grid    Grid             `json:"grid"`
	Bet     BetConfiguration `json:"bet"`
	Result  EvaluationResult `json:"result"`
}

// Net 净输赢 = 赢取 - 总投注
func (o *SpinOutcome) Net() int64 {
	return o.Result.Winnings - o.Bet.TotalBet()
}
