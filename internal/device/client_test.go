package device

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/manav03panchal/feedtime/internal/config"
	"github.com/manav03panchal/feedtime/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient(config.DeviceConfig{Address: srv.URL + "/"})
	require.NoError(t, err)
	return c, srv
}

func TestNewClientRejectsBadAddress(t *testing.T) {
	_, err := NewClient(config.DeviceConfig{Address: "192.168.1.3"})
	assert.ErrorIs(t, err, errors.ErrInvalidDeviceURL)
}

func TestNewClientTrimsSlash(t *testing.T) {
	c, err := NewClient(config.DeviceConfig{Address: "http://192.168.1.3/"})
	require.NoError(t, err)
	assert.Equal(t, "http://192.168.1.3", c.BaseURL())
}

func TestFeedNow(t *testing.T) {
	var gotPath, gotMethod, gotUA string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		gotUA = r.UserAgent()
		w.WriteHeader(http.StatusOK)
	})

	res := c.FeedNow(context.Background())
	require.NoError(t, res.Err)
	assert.True(t, res.OK())
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "/open", gotPath)
	assert.Equal(t, http.MethodGet, gotMethod)
	assert.Equal(t, UserAgent, gotUA)
	assert.False(t, c.Feeding())
}

func TestFeedingFlagWhileInFlight(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
	})

	done := make(chan Result)
	go func() { done <- c.FeedNow(context.Background()) }()

	<-entered
	assert.True(t, c.Feeding())
	close(release)

	res := <-done
	assert.True(t, res.OK())
	assert.False(t, c.Feeding())
}

func TestRegisterSchedule(t *testing.T) {
	var gotPath, gotQuery string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
	})

	res := c.RegisterSchedule(context.Background(), 7, 5)
	assert.True(t, res.OK())
	assert.Equal(t, "/set-schedule", gotPath)
	assert.Equal(t, "hour=7&minute=5", gotQuery)
}

func TestRegisterScheduleOutOfRange(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	tests := []struct {
		name         string
		hour, minute int
	}{
		{"hour_high", 24, 0},
		{"hour_negative", -1, 0},
		{"minute_high", 10, 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := c.RegisterSchedule(context.Background(), tt.hour, tt.minute)
			assert.ErrorIs(t, res.Err, errors.ErrInvalidDeviceValue)
			assert.False(t, res.OK())
		})
	}
	assert.Equal(t, int32(0), calls.Load())
}

func TestServerErrorIsSingleAttempt(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "jammed", http.StatusInternalServerError)
	})

	res := c.FeedNow(context.Background())
	require.Error(t, res.Err)
	assert.False(t, res.OK())
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.Contains(t, res.Err.Error(), "jammed")
	assert.Equal(t, int32(1), calls.Load())
}

func TestUnreachableDevice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	addr := srv.URL
	srv.Close()

	c, err := NewClient(config.DeviceConfig{Address: addr})
	require.NoError(t, err)

	res := c.FeedNow(context.Background())
	assert.ErrorIs(t, res.Err, errors.ErrDeviceUnreachable)
	assert.True(t, errors.IsSystemError(res.Err))
	assert.Zero(t, res.StatusCode)
	assert.False(t, c.Feeding())
}

func TestConfiguredTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	c, err := NewClient(config.DeviceConfig{Address: srv.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	res := c.FeedNow(context.Background())
	assert.ErrorIs(t, res.Err, errors.ErrDeviceUnreachable)
}

func TestContextCancel(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := c.FeedNow(ctx)
	assert.Error(t, res.Err)
}
