// Package report renders holdings and run logs for the terminal.
package report

import (
	"fmt"
	"io"
	"math/big"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"panicsell-go/internal/liquidation"
	"panicsell-go/internal/portfolio"
)

var (
	danger  = lipgloss.AdaptiveColor{Light: "#D7263D", Dark: "#FF5F5F"}
	special = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	subtle  = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#A8A8A8"}

	errorStyle   = lipgloss.NewStyle().Foreground(danger).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(special).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(subtle)
	totalStyle   = lipgloss.NewStyle().Foreground(danger).Bold(true)
)

// FormatAmount renders a raw token amount with decimals applied and trailing zeros trimmed.
func FormatAmount(raw uint64, decimals uint8) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(raw), -int32(decimals)).String()
}

// Holdings writes a table of v's holdings, their quoted value, and the run summary.
func Holdings(w io.Writer, v *portfolio.Valuation, includeNative bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SYMBOL\tNAME\tBALANCE\tUSDC\tMINT")
	for _, h := range v.Holdings {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", h.Label(), h.Name, FormatAmount(h.Balance, h.Decimals), usd(v.Quote(h.Mint) != nil, v.Value(h.Mint)), h.Mint)
	}
	if v.NativeLamports > 0 {
		name := "Solana"
		if !includeNative {
			name += " (kept)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", liquidation.NativeSymbol, name, v.NativeSOL().String(), usd(includeNative && v.NativeQuote != nil, v.NativeValue()), "native")
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush table: %w", err)
	}

	n := len(liquidation.Plan(v, includeNative))
	_, err := fmt.Fprintf(w, "\n%s  (%d swap transactions)\n", totalStyle.Render("Total liquidation value: $"+v.Total(includeNative).StringFixed(2)+" USDC"), n)
	return err
}

func usd(quoted bool, value decimal.Decimal) string {
	if !quoted {
		return "-"
	}
	return "$" + value.StringFixed(2)
}

// LogLine formats a run log entry as a timestamped, severity-styled line.
func LogLine(e liquidation.Entry) string {
	style := infoStyle
	switch e.Severity {
	case liquidation.Error:
		style = errorStyle
	case liquidation.Success:
		style = successStyle
	}
	return fmt.Sprintf("[%s] %s", e.Time.Format("15:04:05"), style.Render(e.Message))
}
