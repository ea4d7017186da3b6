package slot

import (
	"math"

	"github.com/wfunc/slot-sim/internal/config"
	"github.com/wfunc/slot-sim/internal/errors"
)

// 经典3x3机器的默认参数
const (
	DefaultRows     = 3
	DefaultCols     = 3
	DefaultMaxLines = 3
	DefaultMinBet   = 1
	DefaultMaxBet   = 100
)

// Machine 老虎机配置：网格尺寸、下注范围与符号表
type Machine struct {
	Name     string      `json:"name"`
	Rows     int         `json:"rows"`
	Cols     int         `json:"cols"`
	MaxLines int         `json:"max_lines"`
	MinBet   int64       `json:"min_bet"`
	MaxBet   int64       `json:"max_bet"`
	Symbols  []Symbol    `json:"symbols"` // 展示顺序
	Weights  WeightTable `json:"weights"`
	Values   ValueTable  `json:"values"`
}

// GetDefaultConfig 获取默认配置（经典3x3，四符号，权重合计20）
func GetDefaultConfig() *Machine {
	return &Machine{
		Name:     "classic_3x3",
		Rows:     DefaultRows,
		Cols:     DefaultCols,
		MaxLines: DefaultMaxLines,
		MinBet:   DefaultMinBet,
		MaxBet:   DefaultMaxBet,
		Symbols:  []Symbol{"A", "B", "C", "D"},
		Weights:  WeightTable{"A": 2, "B": 4, "C": 6, "D": 8},
		Values:   ValueTable{"A": 5, "B": 4, "C": 3, "D": 2},
	}
}

// NewMachineFromConfig 由配置文件构建机器并校验
func NewMachineFromConfig(cfg *config.SlotConfig) (*Machine, error) {
	m := &Machine{
		Name:     cfg.Name,
		Rows:     cfg.Rows,
		Cols:     cfg.Cols,
		MaxLines: cfg.MaxLines,
		MinBet:   cfg.MinBet,
		MaxBet:   cfg.MaxBet,
		Weights:  make(WeightTable, len(cfg.Symbols)),
		Values:   make(ValueTable, len(cfg.Symbols)),
	}

	for _, sc := range cfg.Symbols {
		symbol := Symbol(sc.Symbol)
		if symbol == "" {
			return nil, errors.New(errors.ErrConfiguration, "符号名称不能为空")
		}
		if _, dup := m.Weights[symbol]; dup {
			return nil, errors.Newf(errors.ErrConfiguration, "符号 %s 重复", symbol)
		}
		m.Symbols = append(m.Symbols, symbol)
		m.Weights[symbol] = sc.Weight
		m.Values[symbol] = sc.Value
	}

	if err := ValidateConfig(m); err != nil {
		return nil, err
	}
	return m, nil
}

// ValidateConfig 验证配置
func ValidateConfig(m *Machine) error {
	if m.Rows < 1 || m.Cols < 1 {
		return errors.Newf(errors.ErrConfiguration, "网格尺寸无效: rows=%d cols=%d", m.Rows, m.Cols)
	}
	// 支付线即行号，线数不能超过行数
	if m.MaxLines < 1 || m.MaxLines > m.Rows {
		return errors.Newf(errors.ErrConfiguration, "最大支付线 %d 必须在 1-%d 之间", m.MaxLines, m.Rows)
	}
	if m.MinBet < 1 || m.MaxBet < m.MinBet {
		return errors.Newf(errors.ErrConfiguration, "投注范围无效: %d-%d", m.MinBet, m.MaxBet)
	}
	total, err := m.Weights.PoolSize()
	if err != nil {
		return err
	}
	if total < m.Rows {
		return errors.Newf(errors.ErrConfiguration, "总权重 %d 小于行数 %d", total, m.Rows)
	}

	var top int64
	for _, symbol := range m.Weights.Symbols() {
		value, ok := m.Values[symbol]
		if !ok {
			return errors.Newf(errors.ErrConfiguration, "赔率表缺少符号 %s", symbol)
		}
		if value < 1 {
			return errors.Newf(errors.ErrConfiguration, "符号 %s 的倍率 %d 必须大于0", symbol, value)
		}
		if value > top {
			top = value
		}
	}
	// 单次最大赢取必须能用 int64 表示
	if top > math.MaxInt64/m.MaxBet/int64(m.MaxLines) {
		return errors.Newf(errors.ErrConfiguration, "最大赢取超出范围: %d 线 × %d × %d", m.MaxLines, m.MaxBet, top)
	}
	return nil
}

// MaxWin 单次旋转的最大赢取：全部支付线以最高投注命中最高倍率
func (m *Machine) MaxWin() int64 {
	var top int64
	for _, value := range m.Values {
		if value > top {
			top = value
		}
	}
	return int64(m.MaxLines) * m.MaxBet * top
}

// ValidateBet 校验线数与单线投注是否在机器范围内
func (m *Machine) ValidateBet(bet BetConfiguration) error {
	if bet.Lines < 1 || bet.Lines > m.MaxLines {
		return errors.Newf(errors.ErrInvalidLines, "线数 %d 不在 1-%d 之间", bet.Lines, m.MaxLines)
	}
	if bet.BetPerLine < m.MinBet || bet.BetPerLine > m.MaxBet {
		return errors.Newf(errors.ErrInvalidBet, "单线投注 %d 不在 %d-%d 之间", bet.BetPerLine, m.MinBet, m.MaxBet)
	}
	return nil
}

// Spin 校验下注后依次生成网格并计算赔付
func (m *Machine) Spin(bet BetConfiguration, rng RandomSource) (*SpinOutcome, error) {
	if err := m.ValidateBet(bet); err != nil {
		return nil, err
	}

	grid, err := Generate(m.Rows, m.Cols, m.Weights, rng)
	if err != nil {
		return nil, err
	}

	result, err := Evaluate(grid, bet.Lines, bet.BetPerLine, m.Values)
	if err != nil {
		return nil, err
	}

	return &SpinOutcome{
		Machine: m.Name,
		Grid:    grid,
		Bet:     bet,
		Result:  result,
	}, nil
}
