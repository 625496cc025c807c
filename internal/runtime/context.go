// Package runtime provides application runtime context for feedtime.
package runtime

import (
	"github.com/manav03panchal/feedtime/internal/config"
	"github.com/manav03panchal/feedtime/internal/device"
	"github.com/manav03panchal/feedtime/internal/errors"
	"github.com/manav03panchal/feedtime/internal/feeder"
	"github.com/manav03panchal/feedtime/internal/output"
	"github.com/manav03panchal/feedtime/internal/storage"
)

// Context holds the application runtime context.
type Context struct {
	DB        *storage.DB
	Store     *storage.ScheduleStore
	Device    *device.Client
	Feeder    *feeder.Feeder
	Formatter *output.Formatter

	// Debug mode
	Debug bool
}

// Options configures the runtime context.
type Options struct {
	// DeviceAddr overrides the configured device address when set.
	DeviceAddr string
	Format     output.Format
	ColorMode  output.ColorMode
	Debug      bool
}

// DefaultOptions returns default runtime options.
func DefaultOptions() Options {
	return Options{
		Format:    output.FormatCLI,
		ColorMode: output.ColorAuto,
		Debug:     false,
	}
}

// New creates a new runtime context. Schedules live in memory and are gone
// when the context is closed.
func New(opts Options) (*Context, error) {
	devCfg := config.Global.Device
	if opts.DeviceAddr != "" {
		devCfg.Address = opts.DeviceAddr
	}

	client, err := device.NewClient(devCfg)
	if err != nil {
		return nil, err
	}

	db, err := storage.Open()
	if err != nil {
		return nil, errors.Wrap(err, "open schedule store")
	}
	store := storage.NewScheduleStore(db)

	// Create formatter
	formatter := output.NewFormatter()
	if opts.Format != "" {
		formatter.Format = opts.Format
	}
	if opts.ColorMode != "" {
		formatter.ColorMode = opts.ColorMode
	}

	return &Context{
		DB:        db,
		Store:     store,
		Device:    client,
		Feeder:    feeder.New(store, client),
		Formatter: formatter,
		Debug:     opts.Debug,
	}, nil
}

// Close stops the feeder and closes the database. Closing twice is a no-op.
func (c *Context) Close() error {
	if c.Feeder != nil {
		c.Feeder.Stop()
	}
	if c.DB != nil {
		db := c.DB
		c.DB = nil
		return db.Close()
	}
	return nil
}

// CLIFormatter returns a CLI formatter.
func (c *Context) CLIFormatter() *output.CLIFormatter {
	return output.NewCLIFormatter(c.Formatter)
}

// JSONFormatter returns a JSON formatter.
func (c *Context) JSONFormatter() *output.JSONFormatter {
	return output.NewJSONFormatter(c.Formatter)
}

// IsJSON returns true if output format is JSON.
func (c *Context) IsJSON() bool {
	return c.Formatter.Format == output.FormatJSON
}

// PrintError reports err in the active output format.
func (c *Context) PrintError(err error) {
	if c.IsJSON() {
		_ = c.JSONFormatter().PrintError(err)
		return
	}
	c.CLIFormatter().PrintError(err)
}
