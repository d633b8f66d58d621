package picker

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/tverner/pickr/internal/model"
)

// FormatWeights renders a table of all persons with their counters, current
// weight, and selection chance. Excluded persons show a marker instead of a
// chance, since they cannot be drawn.
func FormatWeights(s *model.Settings) []string {
	total := 0.0
	for _, p := range s.Persons {
		if p.Active {
			total += Weight(p, s.UnproposedFactor, s.RejectedFactor)
		}
	}

	headers := []string{"Name", "Unproposed", "Rejected", "Weight", "Chance"}
	rows := make([][]string, 0, len(s.Persons))
	for _, p := range s.Persons {
		w := Weight(p, s.UnproposedFactor, s.RejectedFactor)
		chance := "excluded"
		if p.Active && total > 0 {
			chance = fmt.Sprintf("%.1f%%", w/total*100)
		}
		rows = append(rows, []string{
			p.Name,
			fmt.Sprintf("%d", p.TimesUnproposed),
			fmt.Sprintf("%d", p.TimesRejected),
			fmt.Sprintf("%.2f", w),
			chance,
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true}
	return formatTable(headers, rows, rightAlign)
}

func formatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	colCount := len(headers)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	for i, header := range headers {
		widths[i] = displayWidth(header)
	}
	for _, row := range rows {
		for i := 0; i < colCount; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if w := displayWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, formatRow(headers, widths, rightAlignCols))
	}
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, rightAlignCols))
	}
	return lines
}

func formatRow(row []string, widths []int, rightAlignCols map[int]bool) string {
	var b strings.Builder
	for i := 0; i < len(widths); i++ {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(padCell(cell, widths[i], rightAlignCols[i]))
	}
	return b.String()
}

func padCell(value string, width int, rightAlign bool) string {
	valueWidth := displayWidth(value)
	if valueWidth >= width {
		return value
	}
	padding := width - valueWidth
	if rightAlign {
		return strings.Repeat(" ", padding) + value
	}
	return value + strings.Repeat(" ", padding)
}

// Person names can contain wide runes, so padding uses display width rather
// than rune count.
func displayWidth(value string) int {
	return runewidth.StringWidth(value)
}
