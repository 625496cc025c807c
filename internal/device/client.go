// Package device talks to the feeder over its plain HTTP command surface.
package device

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/manav03panchal/feedtime/internal/config"
	"github.com/manav03panchal/feedtime/internal/errors"
	"github.com/manav03panchal/feedtime/internal/logging"
	"github.com/manav03panchal/feedtime/internal/validate"
)

// Device command paths.
const (
	PathOpen        = "/open"
	PathSetSchedule = "/set-schedule"
)

// UserAgent is sent with every command.
const UserAgent = "feedtime/1.0"

// maxErrorBody caps how much of an error response is kept.
const maxErrorBody = 512

// Result contains the outcome of one device command.
type Result struct {
	StatusCode int
	Duration   time.Duration
	Err        error
}

// OK reports whether the request reached the device and got a 2xx reply.
func (r Result) OK() bool {
	return r.Err == nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Client sends commands to the feeder. Each command is a single attempt.
type Client struct {
	client  *http.Client
	baseURL string

	inFlight atomic.Int32
}

// NewClient creates a client for the device described by cfg.
// A zero Timeout leaves the request bounded only by ctx and the transport.
func NewClient(cfg config.DeviceConfig) (*Client, error) {
	if err := validate.DeviceURL(cfg.Address); err != nil {
		return nil, err
	}
	return &Client{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: strings.TrimRight(cfg.Address, "/"),
	}, nil
}

// BaseURL returns the device address commands are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Feeding reports whether a feed command is in flight.
func (c *Client) Feeding() bool {
	return c.inFlight.Load() > 0
}

// FeedNow asks the feeder to dispense immediately.
func (c *Client) FeedNow(ctx context.Context) Result {
	c.inFlight.Add(1)
	defer c.inFlight.Add(-1)

	return c.get(ctx, PathOpen, nil)
}

// RegisterSchedule tells the feeder about a schedule's hour and minute.
// Out-of-range values fail before anything is sent.
func (c *Client) RegisterSchedule(ctx context.Context, hour, minute int) Result {
	if err := validate.DeviceHour(hour); err != nil {
		return Result{Err: err}
	}
	if err := validate.DeviceMinute(minute); err != nil {
		return Result{Err: err}
	}

	q := url.Values{}
	q.Set("hour", strconv.Itoa(hour))
	q.Set("minute", strconv.Itoa(minute))
	return c.get(ctx, PathSetSchedule, q)
}

func (c *Client) get(ctx context.Context, path string, query url.Values) Result {
	start := time.Now()
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	logger := logging.LoggerFromContext(ctx).With(logging.KeyDevice, target)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Result{Err: fmt.Errorf("failed to create request: %w", err), Duration: time.Since(start)}
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		logger.Debug("device request failed", logging.KeyError, err)
		return Result{
			Err:      errors.NewSystemErrorWithOp(path, "request failed", fmt.Errorf("%w: %w", errors.ErrDeviceUnreachable, err)),
			Duration: time.Since(start),
		}
	}
	defer resp.Body.Close()

	result := Result{StatusCode: resp.StatusCode}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		result.Err = fmt.Errorf("device error (HTTP %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	} else {
		_, _ = io.Copy(io.Discard, resp.Body)
	}
	result.Duration = time.Since(start)

	logger.Debug("device request done",
		logging.KeyStatus, result.StatusCode,
		logging.KeyDuration, result.Duration.Milliseconds())
	return result
}
