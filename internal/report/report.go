// Package report renders a run as styled terminal tables.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/spendwise/internal/model"
	"github.com/cleared-dev/spendwise/internal/pipeline"
	"github.com/cleared-dev/spendwise/internal/savings"
)

var (
	colorBorder = lipgloss.Color("#575653")
	colorAccent = lipgloss.Color("#3AA99F")
	colorMuted  = lipgloss.Color("#6F6E69")

	tierColors = map[model.Tier]lipgloss.Color{
		model.TierLow:    lipgloss.Color("#879A39"),
		model.TierMedium: lipgloss.Color("#D0A215"),
		model.TierHigh:   lipgloss.Color("#D14D41"),
	}
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 2)

	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	numberStyle  = cellStyle.Align(lipgloss.Right)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
)

// Write renders the tier summary, savings and forecast of state to w.
func Write(w io.Writer, state *pipeline.State) error {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Spending analysis"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(summaryLine(state)))
	b.WriteString("\n\n")

	section(&b, "Tiers", tierTable(state.Transactions))
	section(&b, fmt.Sprintf("Savings plan (target %s)", state.Target.StringFixed(2)), savingsTable(state.Result.SavingsRecommendations))
	if len(state.Result.ExpenseForecast) == 0 {
		b.WriteString(sectionStyle.Render("Forecast"))
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("Not enough monthly history to forecast any tier."))
		b.WriteString("\n\n")
	} else {
		section(&b, "Forecast", forecastTable(state.Result.ExpenseForecast))
	}

	b.WriteString(mutedStyle.Render("Charts: " + state.Result.PieChart + ", " + state.Result.ScatterPlot))
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func summaryLine(state *pipeline.State) string {
	s := fmt.Sprintf("%d transactions imported, %d rows dropped", state.Stats.Imported, state.Stats.Dropped())
	switch {
	case state.Degenerate:
		s += "; all amounts equal, single tier"
	case state.Selection.Fallback:
		s += fmt.Sprintf("; clustering: %s (%s, fallback)", state.Selection.Family, state.Selection.Params)
	default:
		s += fmt.Sprintf("; clustering: %s (%s, silhouette %.3f)",
			state.Selection.Family, state.Selection.Params, state.Selection.MeanScore)
	}
	return s
}

func section(b *strings.Builder, title string, t *table.Table) {
	b.WriteString(sectionStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(t.Render())
	b.WriteString("\n\n")
}

func newTable(headers []string, rows [][]string, numeric map[int]bool, tierCol int) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			style := cellStyle
			if numeric[col] {
				style = numberStyle
			}
			if col == tierCol && row >= 0 && row < len(rows) {
				if c, ok := tierColors[model.Tier(rows[row][col])]; ok {
					style = style.Foreground(c)
				}
			}
			return style
		})
}

func tierTable(txns []model.Transaction) *table.Table {
	spend := make(map[model.Tier]decimal.Decimal)
	count := make(map[model.Tier]int)
	total := decimal.Zero
	for _, t := range txns {
		spend[t.Category] = spend[t.Category].Add(t.DebitedAmount)
		count[t.Category]++
		total = total.Add(t.DebitedAmount)
	}

	var rows [][]string
	for _, tier := range model.Tiers {
		if count[tier] == 0 {
			continue
		}
		share := "-"
		if !total.IsZero() {
			share = spend[tier].Div(total).Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
		}
		rows = append(rows, []string{string(tier), fmt.Sprint(count[tier]), spend[tier].StringFixed(2), share})
	}
	return newTable([]string{"Tier", "Transactions", "Spend", "Share"}, rows, map[int]bool{1: true, 2: true, 3: true}, 0)
}

func savingsTable(recs []model.SavingsRecord) *table.Table {
	rows := make([][]string, 0, len(recs)+1)
	for _, r := range recs {
		name := r.TransactionName
		if name == "" {
			name = "(unnamed)"
		}
		rows = append(rows, []string{name, string(r.Category), r.DebitedAmount.StringFixed(2), r.RecommendedSavings.StringFixed(2)})
	}
	rows = append(rows, []string{"Total", "", "", savings.Total(recs).StringFixed(2)})
	return newTable([]string{"Transaction", "Tier", "Amount", "Save"}, rows, map[int]bool{2: true, 3: true}, 1)
}

func forecastTable(points []model.ForecastPoint) *table.Table {
	rows := make([][]string, 0, len(points))
	for _, p := range points {
		rows = append(rows, []string{string(p.Category), p.Month, p.PredictedExpense.StringFixed(2)})
	}
	return newTable([]string{"Tier", "Month", "Predicted"}, rows, map[int]bool{2: true}, 0)
}
