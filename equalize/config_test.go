package equalize

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig(64, "Global", "hillis-steele")
	require.NoError(t, err)
	require.Equal(t, 64, cfg.Bins())
	require.Equal(t, Global, cfg.Mode())
	require.Equal(t, HillisSteele, cfg.Scan())
	require.Equal(t, "bins=64 mode=global scan=hillis_steele", cfg.String())

	cfg, err = ParseConfig(2, "local", "bl")
	require.NoError(t, err)
	require.Equal(t, Blelloch, cfg.Scan())
}

func TestParseConfigSuggestions(t *testing.T) {
	cases := []struct {
		mode, scan string
		suggestion string
	}{
		{"local", "blelloc", "blelloch"},
		{"local", "hilis_steel", "hillis_steele"},
		{"globl", "blelloch", "global"},
		{"loacl", "blelloch", "local"},
		{"local", "quicksort", ""},
	}
	for _, c := range cases {
		_, err := ParseConfig(256, c.mode, c.scan)
		require.ErrorIs(t, err, ErrConfiguration, "%s/%s", c.mode, c.scan)

		var cerr *ConfigError
		require.True(t, errors.As(err, &cerr))
		require.Equal(t, c.suggestion, cerr.Suggestion, "%s/%s", c.mode, c.scan)
		if c.suggestion != "" {
			require.Contains(t, err.Error(), `did you mean "`+c.suggestion+`"?`)
		}
	}
}

func TestNewConfigRejectsBins(t *testing.T) {
	for _, bins := range []int{-4, 0, 1, 3, 100, 512} {
		_, err := NewConfig(bins, Local, Blelloch)
		require.ErrorIs(t, err, ErrConfiguration, "bins %d", bins)
		require.Contains(t, err.Error(), "power of two")
	}
	_, err := NewConfig(8, AccumulationMode(7), Blelloch)
	require.ErrorIs(t, err, ErrConfiguration)
	_, err = NewConfig(8, Local, ScanAlgorithm(-1))
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.Equal(t, 256, cfg.Bins())
	require.Equal(t, Local, cfg.Mode())
	require.Equal(t, Blelloch, cfg.Scan())
}
