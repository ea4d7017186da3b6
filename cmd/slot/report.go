package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/wfunc/slot-sim/internal/game/slot"
)

// writeReport 输出模拟报告
func writeReport(w io.Writer, m *slot.Machine, bet slot.BetConfiguration, r *slot.SimulationResult) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Machine:         %s (%dx%d)\n", m.Name, m.Rows, m.Cols)
	fmt.Fprintf(&b, "Bet:             $%d on %d lines (total $%d)\n", bet.BetPerLine, bet.Lines, bet.TotalBet())
	fmt.Fprintf(&b, "Spins:           %d\n", r.TotalSpins)
	fmt.Fprintf(&b, "Total bet:       $%d\n", r.TotalBet)
	fmt.Fprintf(&b, "Total won:       $%d\n", r.TotalWin)
	fmt.Fprintf(&b, "RTP:             %.4f (theoretical %.4f)\n", r.RTP, r.TheoreticalRTP)
	fmt.Fprintf(&b, "Hit rate:        %.4f\n", r.HitRate)
	fmt.Fprintf(&b, "Biggest win:     $%d\n", r.MaxWin)
	for i, hits := range r.LineHits {
		fmt.Fprintf(&b, "Line %d hits:     %d\n", i+1, hits)
	}
	for _, s := range m.Symbols {
		fmt.Fprintf(&b, "Symbol %s hits:   %d\n", s, r.SymbolHits[s])
	}

	_, err := io.WriteString(w, b.String())
	return err
}
