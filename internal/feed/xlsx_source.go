package feed

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// xlsxSource implements Source for a workbook exported from the listing sheet.
type xlsxSource struct {
	path       string
	sheetTitle string
	logger     zerolog.Logger
}

// NewXLSXSource creates a source that reads a local .xlsx export.
func NewXLSXSource(path, sheetTitle string, logger zerolog.Logger) Source {
	if sheetTitle == "" {
		sheetTitle = DefaultSheetTitle
	}

	return &xlsxSource{
		path:       path,
		sheetTitle: sheetTitle,
		logger:     logger.With().Str("component", "xlsx-source").Logger(),
	}
}

func (s *xlsxSource) Name() string {
	return "xlsx"
}

// Rows reads the listing worksheet from the workbook on disk.
func (s *xlsxSource) Rows(ctx context.Context) ([]Row, error) {
	s.logger.Info().Str("file", s.path).Msg("loading workbook")

	file, err := os.Open(s.path)
	if err != nil {
		s.logger.Error().Err(err).Str("file", s.path).Msg("failed to open workbook")
		return nil, fmt.Errorf("failed to open workbook %s: %w", s.path, err)
	}
	defer file.Close()

	rows, err := readWorkbook(ctx, file, s.sheetTitle)
	if err != nil {
		s.logger.Error().Err(err).Str("file", s.path).Msg("failed to read workbook")
		return nil, fmt.Errorf("failed to read workbook %s: %w", s.path, err)
	}

	s.logger.Info().
		Str("file", s.path).
		Int("rows", len(rows)).
		Msg("workbook loaded successfully")

	return rows, nil
}

// readWorkbook parses an .xlsx stream and returns the rows of the named sheet.
func readWorkbook(ctx context.Context, r io.Reader, sheetTitle string) ([]Row, error) {
	workbook, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer workbook.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if index, err := workbook.GetSheetIndex(sheetTitle); err != nil || index < 0 {
		return nil, fmt.Errorf("sheet named %q not found in the workbook", sheetTitle)
	}

	table, err := workbook.GetRows(sheetTitle)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows of %q: %w", sheetTitle, err)
	}

	return rowsFromTable(table), nil
}
