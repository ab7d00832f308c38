package report

// terminal.go — lipgloss-styled summary for the CLI.

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"komodo/internal/verify"
)

var (
	headerStyle     = lipgloss.NewStyle().Bold(true)
	verifiedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	unverifiedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	violatedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	missingStyle    = lipgloss.NewStyle().Faint(true)
	locStyle        = lipgloss.NewStyle().Faint(true)
)

// styleFor returns the style for a status.
func styleFor(s verify.Status) lipgloss.Style {
	switch s {
	case verify.Verified:
		return verifiedStyle
	case verify.Violated:
		return violatedStyle
	case verify.Missing:
		return missingStyle
	default:
		return unverifiedStyle
	}
}

// RenderTerminal formats the reports for terminal display: one block per
// contract, one line per result, then a totals line.
func RenderTerminal(a *Artifact) string {
	var b strings.Builder
	for _, r := range a.Reports {
		b.WriteString(headerStyle.Render(fmt.Sprintf("%s (%s)", r.ContractName, r.File)))
		b.WriteString("\n")
		for _, res := range r.Results {
			b.WriteString(fmt.Sprintf("  %s @%-17s %s %s %s\n",
				styleFor(res.Status).Render(fmt.Sprintf("%-10s", res.Status)),
				res.Tag,
				res.Expression,
				locStyle.Render(fmt.Sprintf("(%s:%d)", res.File, res.Line)),
				res.Message,
			))
			for _, d := range res.Details {
				b.WriteString("      " + locStyle.Render(d) + "\n")
			}
		}
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("%d specs: %s, %s, %s, %s\n",
		a.Totals.Total,
		verifiedStyle.Render(fmt.Sprintf("%d verified", a.Totals.Verified)),
		unverifiedStyle.Render(fmt.Sprintf("%d unverified", a.Totals.Unverified)),
		violatedStyle.Render(fmt.Sprintf("%d violated", a.Totals.Violated)),
		missingStyle.Render(fmt.Sprintf("%d missing", a.Totals.Missing)),
	))
	return b.String()
}
