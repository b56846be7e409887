//go:build ignore

package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// generateSampleFeed creates a workbook shaped like the curation sheet.
// Rows 1, 2, 4 and 6 are approved; row 3 is pending and row 5 rejected.
// Run with: go run scripts/generate_sample_feed.go
func main() {
	path := filepath.Join("data", "feed.xlsx")
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	header := []interface{}{
		"status", "id", "product_name", "ai_caption", "price_yen",
		"image_url", "affiliate_link", "source_url", "category", "is_featured",
	}

	rows := [][]interface{}{
		{"Approve", "1", "Canon AE-1 Program", "The legendary 35mm SLR camera.", 25000,
			"", "", "https://page.auctions.yahoo.co.jp/jp/auction/x987654321", "Camera", "TRUE"},
		{"Approve", "2", "Nintendo Game Boy Color (Atomic Purple)", "", "12,000円",
			"", "", "https://auctions.yahoo.co.jp/search/search/gameboy%20color/0/", "Game", "true"},
		{"Pending", "3", "Seiko 5 Sports Speedtimer", "", 45000,
			"", "", "", "Watch", "FALSE"},
		{"Approve", "4", "Contax T2", "Titanium body, Carl Zeiss Sonnar lens.", 150000,
			"", "https://ebay.com/itm/example-contax", "", "Camera", "FALSE"},
		{"Reject", "5", "Broken Walkman", "", 800,
			"", "", "", "Game", ""},
		{"Approve", "", "Casio G-Shock DW-5600C", "", 15000,
			"", "", "https://page.auctions.yahoo.co.jp/jp/auction/g55566677", "Watch", ""},
	}

	if err := createFeedWorkbook(path, "Items", header, rows); err != nil {
		log.Fatalf("Failed to create %s: %v", path, err)
	}

	fmt.Printf("Created %s with %d rows\n", path, len(rows))
	fmt.Println("\nApproved rows served by the storefront: 4")
	fmt.Println("  - row 6 has no id and is numbered by position")
	fmt.Println("  - Yahoo! Auctions source URLs are rewritten to Buyee")
	fmt.Println("\nUse it with FEED_SOURCE=xlsx FEED_XLSX_PATH=" + path)
}

func createFeedWorkbook(path, sheet string, header []interface{}, rows [][]interface{}) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	return nil
}
