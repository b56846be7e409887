// Package feed reads raw listing rows from tabular sources and normalizes them
// into catalogue products.
package feed

import (
	"context"
	"fmt"
	"strings"
)

// Column names of the listing sheet.
const (
	ColStatus        = "status"
	ColID            = "id"
	ColProductName   = "product_name"
	ColAICaption     = "ai_caption"
	ColPriceYen      = "price_yen"
	ColImageURL      = "image_url"
	ColAffiliateLink = "affiliate_link"
	ColSourceURL     = "source_url"
	ColCategory      = "category"
	ColIsFeatured    = "is_featured"
)

// Columns lists every column the normalizer reads.
var Columns = []string{
	ColStatus, ColID, ColProductName, ColAICaption, ColPriceYen,
	ColImageURL, ColAffiliateLink, ColSourceURL, ColCategory, ColIsFeatured,
}

// Row is one record of the listing sheet keyed by column name.
// A missing key and an empty value are both treated as absent.
type Row map[string]string

// Get returns the value of the named column, or "" when absent.
func (r Row) Get(column string) string {
	return r[column]
}

// Source defines the interface for loading raw listing rows.
type Source interface {
	// Rows returns every row of the listing sheet in sheet order.
	// Either all rows are returned or an error; never a partial set.
	Rows(ctx context.Context) ([]Row, error)

	// Name identifies the source in logs and errors.
	Name() string
}

// rowsFromTable maps a header-first table into rows. Cells beyond the header
// width are ignored and short rows leave the trailing columns absent.
func rowsFromTable(table [][]string) []Row {
	if len(table) == 0 {
		return []Row{}
	}

	header := make([]string, len(table[0]))
	for i, name := range table[0] {
		header[i] = strings.TrimSpace(name)
	}

	rows := make([]Row, 0, len(table)-1)
	for _, cells := range table[1:] {
		row := make(Row, len(header))
		for i, value := range cells {
			if i >= len(header) || header[i] == "" || value == "" {
				continue
			}
			row[header[i]] = value
		}
		rows = append(rows, row)
	}

	return rows
}

// stringTable converts API cell values into strings.
func stringTable(values [][]interface{}) [][]string {
	table := make([][]string, len(values))
	for i, cells := range values {
		table[i] = make([]string, len(cells))
		for j, cell := range cells {
			if cell == nil {
				continue
			}
			if s, ok := cell.(string); ok {
				table[i][j] = s
				continue
			}
			table[i][j] = fmt.Sprint(cell)
		}
	}
	return table
}
