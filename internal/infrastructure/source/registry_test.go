package source

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pmwatch/internal/application/port"
	"pmwatch/internal/domain/model"
)

type fixedSource struct {
	baseURL string
	timeout time.Duration
}

func (f *fixedSource) Name() string { return "fixed" }

func (f *fixedSource) Fetch(ctx context.Context, wallet string, limit int) ([]model.Activity, error) {
	return nil, nil
}

func TestRegisterAndNew(t *testing.T) {
	Register("fixed-test", func(baseURL string, timeout time.Duration) port.ActivitySource {
		return &fixedSource{baseURL: baseURL, timeout: timeout}
	})

	src, err := New("fixed-test", "http://example.invalid", 3*time.Second)
	require.NoError(t, err)
	fs, ok := src.(*fixedSource)
	require.True(t, ok)
	assert.Equal(t, "http://example.invalid", fs.baseURL)
	assert.Equal(t, 3*time.Second, fs.timeout)
	assert.Contains(t, Names(), "fixed-test")
}

func TestNewUnknownSource(t *testing.T) {
	_, err := New("does-not-exist", "", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does-not-exist")
}

func TestRegisterNilFactoryIgnored(t *testing.T) {
	Register("nil-factory", nil)
	_, ok := Get("nil-factory")
	assert.False(t, ok)
}
