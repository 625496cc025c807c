// Package config provides centralized configuration for feedtime runtime values.
package config

import (
	"os"
	"strconv"
	"time"
)

// RuntimeConfig holds all runtime configuration values.
type RuntimeConfig struct {
	// Device configuration
	Device DeviceConfig

	// Scheduler configuration
	Scheduler SchedulerConfig

	// History configuration
	History HistoryConfig
}

// DeviceConfig holds feeder device configuration.
type DeviceConfig struct {
	// Address is the base URL of the feeder.
	// Default: http://192.168.1.3
	Address string

	// Timeout bounds each device request. Zero leaves requests bounded only
	// by the transport's own defaults.
	// Default: 0
	Timeout time.Duration
}

// SchedulerConfig holds poller configuration.
type SchedulerConfig struct {
	// PollSpec is the cron spec (with seconds) the poller runs on.
	// Default: "0 * * * * *" (second zero of every minute)
	PollSpec string

	// SleepThreshold is the gap between checks that indicates the host was
	// asleep. Gaps are logged; missed minutes never fire retroactively.
	// Default: 1h
	SleepThreshold time.Duration
}

// HistoryConfig holds feed history configuration.
type HistoryConfig struct {
	// Size is the number of feed events kept in memory.
	// Default: 20
	Size int
}

// DefaultDeviceAddress is the feeder's fixed LAN address.
const DefaultDeviceAddress = "http://192.168.1.3"

// DefaultRuntimeConfig returns the default runtime configuration.
func DefaultRuntimeConfig() *RuntimeConfig {
	return &RuntimeConfig{
		Device: DeviceConfig{
			Address: DefaultDeviceAddress,
			Timeout: 0,
		},
		Scheduler: SchedulerConfig{
			PollSpec:       "0 * * * * *",
			SleepThreshold: 1 * time.Hour,
		},
		History: HistoryConfig{
			Size: 20,
		},
	}
}

// Global holds the global runtime configuration instance.
// It is initialized with defaults and can be overridden via environment variables.
var Global = initGlobal()

// initGlobal initializes the global config with defaults and environment overrides.
func initGlobal() *RuntimeConfig {
	cfg := DefaultRuntimeConfig()
	cfg.loadFromEnv()
	return cfg
}

// loadFromEnv loads configuration overrides from environment variables.
func (c *RuntimeConfig) loadFromEnv() {
	// Device configuration
	if v := os.Getenv("FEEDTIME_DEVICE_ADDR"); v != "" {
		c.Device.Address = v
	}
	if v := os.Getenv("FEEDTIME_DEVICE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			c.Device.Timeout = d
		}
	}

	// Scheduler configuration
	if v := os.Getenv("FEEDTIME_POLL_SPEC"); v != "" {
		c.Scheduler.PollSpec = v
	}
	if v := os.Getenv("FEEDTIME_SLEEP_THRESHOLD"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Scheduler.SleepThreshold = d
		}
	}

	// History configuration
	if v := os.Getenv("FEEDTIME_HISTORY_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.History.Size = n
		}
	}
}

// Reset resets the configuration to defaults.
// This is primarily useful for testing.
func (c *RuntimeConfig) Reset() {
	defaults := DefaultRuntimeConfig()
	*c = *defaults
}
