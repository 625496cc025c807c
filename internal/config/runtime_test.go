package config

import (
	"testing"
	"time"
)

func TestDefaultRuntimeConfig(t *testing.T) {
	cfg := DefaultRuntimeConfig()

	// Test device defaults
	if cfg.Device.Address != "http://192.168.1.3" {
		t.Errorf("expected Device.Address = http://192.168.1.3, got %q", cfg.Device.Address)
	}
	if cfg.Device.Timeout != 0 {
		t.Errorf("expected Device.Timeout = 0, got %v", cfg.Device.Timeout)
	}

	// Test scheduler defaults
	if cfg.Scheduler.PollSpec != "0 * * * * *" {
		t.Errorf("expected Scheduler.PollSpec = every minute, got %q", cfg.Scheduler.PollSpec)
	}
	if cfg.Scheduler.SleepThreshold != 1*time.Hour {
		t.Errorf("expected Scheduler.SleepThreshold = 1h, got %v", cfg.Scheduler.SleepThreshold)
	}

	// Test history defaults
	if cfg.History.Size != 20 {
		t.Errorf("expected History.Size = 20, got %d", cfg.History.Size)
	}
}

func TestGlobalConfigExists(t *testing.T) {
	if Global == nil {
		t.Fatal("Global config should not be nil")
	}
}

func TestLoadFromEnvDevice(t *testing.T) {
	t.Setenv("FEEDTIME_DEVICE_ADDR", "http://feeder.local")
	t.Setenv("FEEDTIME_DEVICE_TIMEOUT", "5s")

	cfg := DefaultRuntimeConfig()
	cfg.loadFromEnv()

	if cfg.Device.Address != "http://feeder.local" {
		t.Errorf("expected Device.Address = http://feeder.local, got %q", cfg.Device.Address)
	}
	if cfg.Device.Timeout != 5*time.Second {
		t.Errorf("expected Device.Timeout = 5s, got %v", cfg.Device.Timeout)
	}
}

func TestLoadFromEnvScheduler(t *testing.T) {
	t.Setenv("FEEDTIME_POLL_SPEC", "@every 10s")
	t.Setenv("FEEDTIME_SLEEP_THRESHOLD", "30m")
	t.Setenv("FEEDTIME_HISTORY_SIZE", "5")

	cfg := DefaultRuntimeConfig()
	cfg.loadFromEnv()

	if cfg.Scheduler.PollSpec != "@every 10s" {
		t.Errorf("expected Scheduler.PollSpec = @every 10s, got %q", cfg.Scheduler.PollSpec)
	}
	if cfg.Scheduler.SleepThreshold != 30*time.Minute {
		t.Errorf("expected Scheduler.SleepThreshold = 30m, got %v", cfg.Scheduler.SleepThreshold)
	}
	if cfg.History.Size != 5 {
		t.Errorf("expected History.Size = 5, got %d", cfg.History.Size)
	}
}

func TestLoadFromEnvInvalidValues(t *testing.T) {
	t.Setenv("FEEDTIME_DEVICE_TIMEOUT", "not-a-duration")
	t.Setenv("FEEDTIME_SLEEP_THRESHOLD", "bogus")
	t.Setenv("FEEDTIME_HISTORY_SIZE", "-3")

	cfg := DefaultRuntimeConfig()
	cfg.loadFromEnv()

	// Invalid values should keep defaults
	if cfg.Device.Timeout != 0 {
		t.Errorf("expected Device.Timeout to remain 0, got %v", cfg.Device.Timeout)
	}
	if cfg.Scheduler.SleepThreshold != 1*time.Hour {
		t.Errorf("expected Scheduler.SleepThreshold to remain 1h, got %v", cfg.Scheduler.SleepThreshold)
	}
	if cfg.History.Size != 20 {
		t.Errorf("expected History.Size to remain 20, got %d", cfg.History.Size)
	}
}

func TestReset(t *testing.T) {
	cfg := DefaultRuntimeConfig()
	cfg.Device.Address = "http://changed"
	cfg.History.Size = 1

	cfg.Reset()

	if cfg.Device.Address != DefaultDeviceAddress {
		t.Errorf("expected Device.Address reset, got %q", cfg.Device.Address)
	}
	if cfg.History.Size != 20 {
		t.Errorf("expected History.Size reset to 20, got %d", cfg.History.Size)
	}
}

