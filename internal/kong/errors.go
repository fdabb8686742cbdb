package kong

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kinds of GatewayRequestError, set where the transport hands back a failure.
const (
	KindHTTPError       = "HTTPError"
	KindConnectionError = "ConnectionError"
	KindTimeout         = "Timeout"
	KindDecodeError     = "DecodeError"
)

// ConfigurationError is returned when an operation is called with inputs that
// cannot be sent to the gateway. It is always detected before any request.
type ConfigurationError struct {
	Message string
}

func configurationError(format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{Message: fmt.Sprintf(format, args...)}
}

func (e *ConfigurationError) Error() string {
	return "invalid configuration: " + e.Message
}

// GatewayRequestError wraps any failed round trip to the admin API.
type GatewayRequestError struct {
	Kind       string
	Method     string
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *GatewayRequestError) Error() string {
	msg := fmt.Sprintf("[%s] %s %s", e.Kind, e.Method, e.URL)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": status %d", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Body != "" {
		msg += "\n[Request Text] " + e.Body
	}
	return msg
}

func (e *GatewayRequestError) Unwrap() error {
	return e.Err
}

// transportKind classifies an error returned by the HTTP transport.
func transportKind(err error) string {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return KindTimeout
	}
	return KindConnectionError
}

// ReferentialIntegrityError means a route points at a service id that is not
// part of the service listing it was joined against.
type ReferentialIntegrityError struct {
	RouteID   string
	ServiceID string
}

func (e *ReferentialIntegrityError) Error() string {
	if e.ServiceID == "" {
		return fmt.Sprintf("route %q does not reference any service", e.RouteID)
	}
	return fmt.Sprintf("route %q references unknown service %q", e.RouteID, e.ServiceID)
}

// IsNotFound reports whether err is a 404 from the gateway.
func IsNotFound(err error) bool {
	var requestErr *GatewayRequestError
	return errors.As(err, &requestErr) && requestErr.StatusCode == 404
}
