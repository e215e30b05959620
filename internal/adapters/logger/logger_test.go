package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/prcl/internal/adapters/logger"
	"go.trai.ch/prcl/internal/core/domain"
	"go.trai.ch/prcl/internal/core/ports"
	"go.trai.ch/zerr"
)

// newTestLogger creates a logger writing to a buffer without ANSI escape codes.
func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New()
	lg.SetOutput(buf)
	return lg, buf
}

func TestInterfaceSatisfaction(_ *testing.T) {
	var _ ports.Logger = (*logger.Logger)(nil)
}

func TestLogger_Info(t *testing.T) {
	tests := []struct {
		name       string
		msg        string
		goldenName string
	}{
		{
			name:       "simple message",
			msg:        "some message",
			goldenName: "info_basic",
		},
		{
			name:       "multiline message",
			msg:        "line1\nline2",
			goldenName: "info_multiline",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.Info(tt.msg)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_Warn(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Warn("some warning")

	g := goldie.New(t)
	g.Assert(t, "warn_basic", buf.Bytes())
}

func TestLogger_Debug(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.Debug("hidden")
	assert.Empty(t, buf.String())

	lg.SetVerbose(true)
	lg.Debug("resolve took 2ms")
	assert.Equal(t, "resolve took 2ms\n", buf.String())

	lg.SetVerbose(false)
	lg.Debug("hidden again")
	assert.Equal(t, "resolve took 2ms\n", buf.String())
}

func TestLogger_Error(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		goldenName string
	}{
		{
			name:       "standard error",
			err:        errors.New("boom"),
			goldenName: "error_standard",
		},
		{
			name: "wrapped chain",
			err: zerr.Wrap(
				zerr.Wrap(errors.New("root cause"), "middle layer"),
				"outer layer",
			),
			goldenName: "error_chain",
		},
		{
			name:       "resolution error",
			err:        domain.NewResolutionError("./x", "/p/main.js"),
			goldenName: "error_resolution",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.Error(tt.err)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_ErrorNil(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(nil)
	assert.Empty(t, buf.String())
}

func TestLogger_JSON(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)

	lg.Info("bundled 3 files")
	lg.Error(domain.NewResolutionError("./x", "/p/main.js"))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var info map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &info))
	assert.Equal(t, "INFO", info["level"])
	assert.Equal(t, "bundled 3 files", info["msg"])

	var failure map[string]any
	require.NoError(t, json.Unmarshal(lines[1], &failure))
	assert.Equal(t, "ERROR", failure["level"])
	assert.Equal(t, "operation failed", failure["msg"])
	assert.Equal(t, "./x", failure["specifier"])
	assert.Equal(t, "/p/main.js", failure["parent"])
	assert.Contains(t, failure["error"], "could not resolve module name: ./x in /p/main.js")

	lg.SetJSON(false)
	buf.Reset()
	lg.Info("plain")
	assert.Equal(t, "plain\n", buf.String())
}

func TestCollectErrorEntries(t *testing.T) {
	err := zerr.With(zerr.Wrap(
		zerr.With(errors.New("permission denied"), "path", "/p/a.js"),
		"failed to read file",
	), "attempt", 1)

	entries := logger.CollectErrorEntries(err)
	require.Len(t, entries, 2)

	assert.Equal(t, "failed to read file", entries[0].Message())
	assert.Equal(t, map[string]any{"attempt": 1, "path": "/p/a.js"}, entries[0].Meta())
	assert.Equal(t, "permission denied", entries[1].Message())
	assert.Nil(t, entries[1].Meta())
}

func TestFormatErrorEntries_Multiline(t *testing.T) {
	got := logger.FormatErrorEntries(logger.CollectErrorEntries(
		zerr.Wrap(errors.New("cause\ndetail"), "first\nsecond"),
	))
	want := "Error: first\n" +
		"       second\n" +
		"\n" +
		"  Caused by:\n" +
		"    → cause\n" +
		"      detail"
	assert.Equal(t, want, got)
}
