// Package validate provides input validation helpers for feedtime.
package validate

import (
	"net/url"
	"strconv"

	"github.com/manav03panchal/feedtime/internal/errors"
)

// MaxURLLength is the maximum length for a device address.
const MaxURLLength = 2048

// DeviceURL validates the feeder's base address. Private LAN addresses are
// expected here, so only the shape of the URL is checked.
func DeviceURL(rawURL string) error {
	if rawURL == "" {
		return errors.NewUserError("Device address cannot be empty", "Provide the feeder's base URL").
			WithCause(errors.ErrInvalidDeviceURL)
	}
	if len(rawURL) > MaxURLLength {
		return errors.NewUserError("Device address too long", "Addresses must be 2048 characters or fewer").
			WithCause(errors.ErrInvalidDeviceURL)
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.NewUserErrorWithField("device", rawURL,
			"Invalid device address",
			"Use an address like http://192.168.1.3").
			WithCause(errors.ErrInvalidDeviceURL)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.NewUserErrorWithField("device", rawURL,
			"Invalid device address scheme",
			"Device addresses must start with http:// or https://").
			WithCause(errors.ErrInvalidDeviceURL)
	}

	if parsed.Hostname() == "" {
		return errors.NewUserErrorWithField("device", rawURL,
			"Invalid device address: missing host",
			"Use an address like http://192.168.1.3").
			WithCause(errors.ErrInvalidDeviceURL)
	}

	if parsed.RawQuery != "" || parsed.Fragment != "" {
		return errors.NewUserErrorWithField("device", rawURL,
			"Device address cannot carry a query or fragment",
			"Use only scheme, host and an optional path").
			WithCause(errors.ErrInvalidDeviceURL)
	}

	return nil
}

// DeviceHour validates the hour sent with a schedule registration.
func DeviceHour(h int) error {
	return InRange("hour", h, 0, 23)
}

// DeviceMinute validates the minute sent with a schedule registration.
func DeviceMinute(m int) error {
	return InRange("minute", m, 0, 59)
}

// InRange validates that an integer is within a range.
func InRange(field string, value, min, max int) error {
	if value < min || value > max {
		return errors.NewUserErrorWithField(field, strconv.Itoa(value),
			"Value out of range",
			"Must be between "+strconv.Itoa(min)+" and "+strconv.Itoa(max)).
			WithCause(errors.ErrInvalidDeviceValue)
	}
	return nil
}
