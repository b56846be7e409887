package feed

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// s3Source implements Source for a workbook export stored in AWS S3.
type s3Source struct {
	client     *s3.Client
	bucket     string
	key        string
	sheetTitle string
	logger     zerolog.Logger
}

// NewS3Source creates a new S3-based source for the workbook at bucket/key.
func NewS3Source(ctx context.Context, bucket, region, key, sheetTitle string, logger zerolog.Logger) (Source, error) {
	logger = logger.With().Str("component", "s3-source").Logger()

	if sheetTitle == "" {
		sheetTitle = DefaultSheetTitle
	}

	// Load AWS configuration
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Str("key", key).
		Msg("S3 source initialised")

	return &s3Source{
		client:     s3.NewFromConfig(cfg),
		bucket:     bucket,
		key:        key,
		sheetTitle: sheetTitle,
		logger:     logger,
	}, nil
}

func (s *s3Source) Name() string {
	return "s3"
}

// Rows downloads the workbook and reads the listing worksheet.
func (s *s3Source) Rows(ctx context.Context) ([]Row, error) {
	s.logger.Info().
		Str("bucket", s.bucket).
		Str("key", s.key).
		Msg("loading workbook from S3")

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("bucket", s.bucket).
			Str("key", s.key).
			Msg("failed to get object from S3")
		return nil, fmt.Errorf("failed to get object from S3 (bucket=%s, key=%s): %w", s.bucket, s.key, err)
	}
	defer result.Body.Close()

	rows, err := readWorkbook(ctx, result.Body, s.sheetTitle)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("bucket", s.bucket).
			Str("key", s.key).
			Msg("failed to read workbook from S3")
		return nil, fmt.Errorf("failed to read workbook from S3 %s: %w", s.key, err)
	}

	s.logger.Info().
		Str("bucket", s.bucket).
		Str("key", s.key).
		Int("rows", len(rows)).
		Msg("workbook loaded successfully from S3")

	return rows, nil
}

// fallbackSource tries a primary source first, then falls back to a secondary one.
type fallbackSource struct {
	primary   Source
	secondary Source
	logger    zerolog.Logger
}

// NewFallbackSource creates a source that reads from primary and, when that
// fails, from secondary. A nil primary reads from secondary only.
func NewFallbackSource(primary, secondary Source, logger zerolog.Logger) Source {
	return &fallbackSource{
		primary:   primary,
		secondary: secondary,
		logger:    logger.With().Str("component", "fallback-source").Logger(),
	}
}

func (s *fallbackSource) Name() string {
	if s.primary == nil {
		return s.secondary.Name()
	}
	return s.primary.Name() + "+" + s.secondary.Name()
}

// Rows returns the primary rows, or the secondary rows if the primary fails.
// Each source returns a complete sheet, so no rows are ever mixed.
func (s *fallbackSource) Rows(ctx context.Context) ([]Row, error) {
	if s.primary != nil {
		rows, err := s.primary.Rows(ctx)
		if err == nil {
			return rows, nil
		}

		s.logger.Warn().
			Err(err).
			Str("primary", s.primary.Name()).
			Str("secondary", s.secondary.Name()).
			Msg("failed to load from primary source, falling back")
	} else {
		s.logger.Debug().
			Str("secondary", s.secondary.Name()).
			Msg("primary source not configured, using secondary")
	}

	return s.secondary.Rows(ctx)
}
