package irradiance

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amritPVre/BAESS-Solar-sub008/pkg/validation"
)

func TestLoadStatic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "irradiance.yaml")
	require.NoError(t, os.WriteFile(path,
		[]byte("monthly: [4, 4, 5, 6, 7, 7, 7, 6, 6, 5, 4, 4]\n"), 0o644))

	s, err := LoadStatic(path)
	require.NoError(t, err)
	m, err := s.Monthly(context.Background(), Request{})
	require.NoError(t, err)
	assert.InDelta(t, 7, m[4], 1e-9)
}

func TestNewStaticRejectsBadSeries(t *testing.T) {
	_, err := NewStatic([]float64{1, 2, 3})
	assert.True(t, errors.Is(err, validation.ErrValidation))

	_, err = NewStatic([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, -1})
	assert.True(t, errors.Is(err, validation.ErrValidation))
}

func TestStaticRespectsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := (&Static{}).Monthly(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMonthlyMean(t *testing.T) {
	m := Monthly{5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5}
	assert.InDelta(t, 5, m.Mean(), 1e-9)
}
