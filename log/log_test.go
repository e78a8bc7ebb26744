package log_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krypticmouse/dsgo/log"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		"debug":         {in: "debug", want: slog.LevelDebug},
		"info":          {in: "info", want: slog.LevelInfo},
		"warn":          {in: "warn", want: slog.LevelWarn},
		"warning alias": {in: "warning", want: slog.LevelWarn},
		"error":         {in: "error", want: slog.LevelError},
		"mixed case":    {in: "INFO", want: slog.LevelInfo},
		"unknown":       {in: "loud", wantErr: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := log.ParseLevel(tc.in)

			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, log.ErrUnknownLevel)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	got, err := log.ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, log.FormatJSON, got)

	_, err = log.ParseFormat("xml")
	require.Error(t, err)
	assert.ErrorIs(t, err, log.ErrUnknownFormat)
}

func TestNewHandlerFromStrings(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	h, err := log.NewHandlerFromStrings(&buf, "info", "json")
	require.NoError(t, err)

	logger := slog.New(h)
	logger.Info("hello", slog.String("k", "v"))
	logger.Debug("filtered out")

	out := buf.String()
	assert.Contains(t, out, `"msg":"hello"`)
	assert.NotContains(t, out, "filtered out")
}

func TestConfigNewHandler(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	cfg := log.NewConfig()
	cfg.Level = "debug"

	h, err := cfg.NewHandler(&buf)
	require.NoError(t, err)

	slog.New(h).Debug("visible")
	assert.True(t, strings.Contains(buf.String(), "visible"))
}
