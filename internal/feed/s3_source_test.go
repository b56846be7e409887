package feed

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSource is a mock implementation of the Source interface for testing.
type mockSource struct {
	name     string
	rowsFunc func(ctx context.Context) ([]Row, error)
}

func (m *mockSource) Name() string {
	return m.name
}

func (m *mockSource) Rows(ctx context.Context) ([]Row, error) {
	if m.rowsFunc != nil {
		return m.rowsFunc(ctx)
	}
	return nil, errors.New("not implemented")
}

func TestFallbackSource_PrimarySuccess(t *testing.T) {
	primary := &mockSource{
		name: "s3",
		rowsFunc: func(ctx context.Context) ([]Row, error) {
			return []Row{{ColStatus: StatusApproved, ColID: "S3"}}, nil
		},
	}
	secondary := &mockSource{
		name: "xlsx",
		rowsFunc: func(ctx context.Context) ([]Row, error) {
			t.Error("secondary source should not be called when primary succeeds")
			return nil, errors.New("should not be called")
		},
	}

	source := NewFallbackSource(primary, secondary, zerolog.Nop())
	assert.Equal(t, "s3+xlsx", source.Name())

	rows, err := source.Rows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "S3", rows[0].Get(ColID))
}

func TestFallbackSource_PrimaryFailsFallsBackToSecondary(t *testing.T) {
	primary := &mockSource{
		name: "s3",
		rowsFunc: func(ctx context.Context) ([]Row, error) {
			return nil, errors.New("S3 connection failed")
		},
	}
	secondary := &mockSource{
		name: "xlsx",
		rowsFunc: func(ctx context.Context) ([]Row, error) {
			return []Row{{ColStatus: StatusApproved, ColID: "LOCAL"}}, nil
		},
	}

	rows, err := NewFallbackSource(primary, secondary, zerolog.Nop()).Rows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "LOCAL", rows[0].Get(ColID))
}

func TestFallbackSource_BothFail(t *testing.T) {
	primary := &mockSource{name: "s3"}
	secondary := &mockSource{
		name: "xlsx",
		rowsFunc: func(ctx context.Context) ([]Row, error) {
			return nil, errors.New("file not found")
		},
	}

	rows, err := NewFallbackSource(primary, secondary, zerolog.Nop()).Rows(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")
	assert.Nil(t, rows)
}

func TestFallbackSource_NilPrimary(t *testing.T) {
	secondary := &mockSource{
		name: "xlsx",
		rowsFunc: func(ctx context.Context) ([]Row, error) {
			return []Row{}, nil
		},
	}

	source := NewFallbackSource(nil, secondary, zerolog.Nop())
	assert.Equal(t, "xlsx", source.Name())

	rows, err := source.Rows(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}
