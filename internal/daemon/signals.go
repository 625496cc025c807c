// Package daemon runs the poller headless in the foreground until a signal
// arrives or there is nothing left to fire.
package daemon

import (
	"os"
	"os/signal"
	"syscall"
)

// SignalHandler handles OS signals for graceful shutdown.
type SignalHandler struct {
	signals chan os.Signal
}

// NewSignalHandler creates a new signal handler.
func NewSignalHandler() *SignalHandler {
	return &SignalHandler{
		signals: make(chan os.Signal, 1),
	}
}

// Setup registers for SIGINT and SIGTERM.
func (h *SignalHandler) Setup() {
	signal.Notify(h.signals, syscall.SIGINT, syscall.SIGTERM)
}

// Channel exposes the signal channel for callers that select on several
// sources at once.
func (h *SignalHandler) Channel() <-chan os.Signal {
	return h.signals
}

// Stop releases the signal registration. It is safe to call more than once.
func (h *SignalHandler) Stop() {
	signal.Stop(h.signals)
}
