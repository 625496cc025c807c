package runtime

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/feedtime/internal/config"
	"github.com/manav03panchal/feedtime/internal/errors"
	"github.com/manav03panchal/feedtime/internal/output"
)

// =============================================================================
// Context Tests
// =============================================================================

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	assert.Empty(t, opts.DeviceAddr)
	assert.Equal(t, output.FormatCLI, opts.Format)
	assert.Equal(t, output.ColorAuto, opts.ColorMode)
	assert.False(t, opts.Debug)
}

func TestNew(t *testing.T) {
	ctx, err := New(DefaultOptions())
	require.NoError(t, err)
	defer ctx.Close()

	assert.NotNil(t, ctx.DB)
	assert.NotNil(t, ctx.Store)
	assert.NotNil(t, ctx.Device)
	assert.NotNil(t, ctx.Feeder)
	assert.NotNil(t, ctx.Formatter)
	assert.Equal(t, config.Global.Device.Address, ctx.Device.BaseURL())
}

func TestNewWithOptions(t *testing.T) {
	ctx, err := New(Options{
		DeviceAddr: "http://10.0.0.7:8080/",
		Format:     output.FormatJSON,
		ColorMode:  output.ColorNever,
		Debug:      true,
	})
	require.NoError(t, err)
	defer ctx.Close()

	assert.Equal(t, "http://10.0.0.7:8080", ctx.Device.BaseURL())
	assert.Equal(t, output.FormatJSON, ctx.Formatter.Format)
	assert.Equal(t, output.ColorNever, ctx.Formatter.ColorMode)
	assert.True(t, ctx.IsJSON())
	assert.True(t, ctx.Debug)
}

func TestNewInvalidDevice(t *testing.T) {
	_, err := New(Options{DeviceAddr: "ftp://feeder"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidDeviceURL)
}

func TestNewStartsEmpty(t *testing.T) {
	ctx, err := New(DefaultOptions())
	require.NoError(t, err)
	defer ctx.Close()

	list, err := ctx.Feeder.Schedules()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCloseIdempotentOnEmptyContext(t *testing.T) {
	c := &Context{}
	assert.NoError(t, c.Close())
}

func TestPrintError(t *testing.T) {
	t.Run("cli", func(t *testing.T) {
		var buf bytes.Buffer
		c := &Context{Formatter: &output.Formatter{Writer: &buf, Format: output.FormatCLI, ColorMode: output.ColorNever}}
		c.PrintError(errors.NewUserError("Bad", "Fix it"))
		assert.Contains(t, buf.String(), "✗ Bad")
		assert.Contains(t, buf.String(), "Fix it")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		c := &Context{Formatter: &output.Formatter{Writer: &buf, Format: output.FormatJSON}}
		c.PrintError(errors.NewUserError("Bad", "Fix it"))
		assert.Contains(t, buf.String(), `"status": "error"`)
	})
}

func TestCloseTwice(t *testing.T) {
	ctx, err := New(DefaultOptions())
	require.NoError(t, err)

	require.NoError(t, ctx.Close())
	assert.NoError(t, ctx.Close())
}
