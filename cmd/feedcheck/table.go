package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"retro-hunt/internal/model"

	"github.com/mattn/go-runewidth"
)

var tableHeader = []string{"ID", "TITLE", "CATEGORY", "CONDITION", "YEN", "USD", "FEATURED", "LINK"}

// maxTitleWidth keeps long listing titles from pushing the table off screen.
const maxTitleWidth = 40

// writeTable prints products as an aligned table. Widths are measured in
// terminal cells so Japanese titles line up with ASCII ones.
func writeTable(out io.Writer, products []model.Product) {
	rows := make([][]string, 0, len(products)+1)
	rows = append(rows, tableHeader)
	for _, p := range products {
		featured := ""
		if p.IsFeatured {
			featured = "yes"
		}
		rows = append(rows, []string{
			p.ID,
			runewidth.Truncate(p.Title, maxTitleWidth, "…"),
			string(p.Category),
			string(p.Condition),
			strconv.Itoa(p.PriceYen),
			strconv.Itoa(p.PriceUSD),
			featured,
			p.AffiliateLink,
		})
	}

	widths := make([]int, len(tableHeader))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	for _, row := range rows {
		var sb strings.Builder
		for i, cell := range row {
			if i > 0 {
				sb.WriteString("  ")
			}
			sb.WriteString(cell)
			// The last column is not padded to avoid trailing spaces.
			if i < len(row)-1 {
				sb.WriteString(strings.Repeat(" ", widths[i]-runewidth.StringWidth(cell)))
			}
		}
		fmt.Fprintln(out, sb.String())
	}
}
