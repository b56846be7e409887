package feed

import (
	"context"
	"fmt"
	"strings"

	"retro-hunt/internal/model"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Environment keys named in configuration errors.
const (
	EnvServiceAccountEmail = "GOOGLE_SERVICE_ACCOUNT_EMAIL"
	EnvPrivateKey          = "GOOGLE_PRIVATE_KEY"
	EnvSheetID             = "GOOGLE_SHEET_ID"
)

// DefaultSheetTitle is the worksheet that holds the listings.
const DefaultSheetTitle = "Items"

// SheetsConfig holds the service account and spreadsheet settings.
type SheetsConfig struct {
	ServiceAccountEmail string
	PrivateKey          string
	SheetID             string
	SheetTitle          string
}

// sheetsSource implements Source for a Google Sheets spreadsheet.
type sheetsSource struct {
	cfg    SheetsConfig
	opts   []option.ClientOption
	logger zerolog.Logger
}

// NewSheetsSource creates a Google Sheets backed source. Extra client options
// replace the service account transport, which lets tests point the client at
// a local server.
func NewSheetsSource(cfg SheetsConfig, logger zerolog.Logger, opts ...option.ClientOption) Source {
	if cfg.SheetTitle == "" {
		cfg.SheetTitle = DefaultSheetTitle
	}

	return &sheetsSource{
		cfg:    cfg,
		opts:   opts,
		logger: logger.With().Str("component", "sheets-source").Logger(),
	}
}

func (s *sheetsSource) Name() string {
	return "sheets"
}

// Rows loads the listing worksheet. Credentials and the sheet id are checked
// before any request is made.
func (s *sheetsSource) Rows(ctx context.Context) ([]Row, error) {
	if err := s.checkConfig(); err != nil {
		return nil, err
	}

	service, err := s.newService(ctx)
	if err != nil {
		return nil, err
	}

	spreadsheet, err := service.Spreadsheets.Get(s.cfg.SheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		s.logger.Error().Err(err).Str("sheet_id", s.cfg.SheetID).Msg("failed to load spreadsheet info")
		return nil, fmt.Errorf("failed to load spreadsheet %s: %w", s.cfg.SheetID, err)
	}

	if !hasSheet(spreadsheet, s.cfg.SheetTitle) {
		return nil, fmt.Errorf("sheet named %q not found in the spreadsheet", s.cfg.SheetTitle)
	}

	values, err := service.Spreadsheets.Values.Get(s.cfg.SheetID, s.cfg.SheetTitle).
		Context(ctx).
		Do()
	if err != nil {
		s.logger.Error().Err(err).Str("sheet", s.cfg.SheetTitle).Msg("failed to read sheet values")
		return nil, fmt.Errorf("failed to read sheet %q: %w", s.cfg.SheetTitle, err)
	}

	rows := rowsFromTable(stringTable(values.Values))

	s.logger.Debug().
		Str("sheet", s.cfg.SheetTitle).
		Int("rows", len(rows)).
		Msg("sheet rows loaded")

	return rows, nil
}

func (s *sheetsSource) newService(ctx context.Context) (*sheets.Service, error) {
	opts := s.opts
	if len(opts) == 0 {
		jwtConfig := &jwt.Config{
			Email:      s.cfg.ServiceAccountEmail,
			PrivateKey: []byte(UnescapePrivateKey(s.cfg.PrivateKey)),
			Scopes:     []string{sheets.SpreadsheetsReadonlyScope},
			TokenURL:   google.JWTTokenURL,
		}
		opts = []option.ClientOption{option.WithHTTPClient(jwtConfig.Client(ctx))}
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	return service, nil
}

func (s *sheetsSource) checkConfig() error {
	switch {
	case s.cfg.SheetID == "":
		return &model.ConfigurationError{Key: EnvSheetID}
	case s.cfg.ServiceAccountEmail == "":
		return &model.ConfigurationError{Key: EnvServiceAccountEmail}
	case s.cfg.PrivateKey == "":
		return &model.ConfigurationError{Key: EnvPrivateKey}
	}
	return nil
}

// UnescapePrivateKey turns literal "\n" sequences, as stored in .env files,
// back into newlines.
func UnescapePrivateKey(key string) string {
	return strings.ReplaceAll(key, `\n`, "\n")
}

func hasSheet(spreadsheet *sheets.Spreadsheet, title string) bool {
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == title {
			return true
		}
	}
	return false
}
