package slot

import (
	"github.com/wfunc/slot-sim/internal/errors"
)

// Generate 生成一次旋转的符号网格
//
// 每一列都从一个全新的符号池开始：池中每个符号按权重重复出现，
// 然后无放回地均匀抽取 rows 次。列与列之间不共享池状态，
// 因此单列中某符号出现次数不会超过其权重。rng 为 nil 时使用加密随机源。
func Generate(rows, cols int, weights WeightTable, rng RandomSource) (Grid, error) {
	if rows < 1 || cols < 1 {
		return nil, errors.Newf(errors.ErrConfiguration, "网格尺寸无效: rows=%d cols=%d", rows, cols)
	}

	pool, err := buildPool(weights)
	if err != nil {
		return nil, err
	}
	if len(pool) < rows {
		return nil, errors.Newf(errors.ErrConfiguration, "总权重 %d 小于行数 %d，无法无放回填满一列", len(pool), rows)
	}

	if rng == nil {
		rng = NewCryptoRandomGenerator()
	}

	grid := make(Grid, cols)
	current := make([]Symbol, len(pool))
	for col := 0; col < cols; col++ {
		// 每列重新拷贝完整符号池
		remaining := current[:copy(current, pool)]
		column := make([]Symbol, rows)
		for row := 0; row < rows; row++ {
			idx := rng.Intn(len(remaining))
			column[row] = remaining[idx]
			last := len(remaining) - 1
			remaining[idx] = remaining[last]
			remaining = remaining[:last]
		}
		grid[col] = column
	}

	return grid, nil
}

// buildPool 按权重展开符号池
func buildPool(weights WeightTable) ([]Symbol, error) {
	size, err := weights.PoolSize()
	if err != nil {
		return nil, err
	}

	pool := make([]Symbol, 0, size)
	for _, symbol := range weights.Symbols() {
		for i := 0; i < weights[symbol]; i++ {
			pool = append(pool, symbol)
		}
	}
	return pool, nil
}
