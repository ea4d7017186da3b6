package slot

import (
	"io"
	"strings"
)

// Render 按行输出网格，列之间以 " | " 分隔，最后一列后不加分隔符
func Render(grid Grid) string {
	var b strings.Builder
	for row := 0; row < grid.Rows(); row++ {
		for col, symbol := range grid.Row(row) {
			if col > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(string(symbol))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// RenderTo 将网格写入 w
func RenderTo(w io.Writer, grid Grid) error {
	_, err := io.WriteString(w, Render(grid))
	return err
}
