package spotify

import (
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/zmb3/spotify/v2"
)

var (
	// ErrNoActiveDevice means the player API had no device to act on.
	ErrNoActiveDevice = errors.New("no active device")
	// ErrTransport covers every other failure: network, auth, rate limits, 5xx.
	ErrTransport = errors.New("spotify request failed")
)

const noActiveDeviceReason = "NO_ACTIVE_DEVICE"

// classifiedError ties a wrapped cause to one of the package sentinels. Both
// the standard errors.Is and the cockroachdb one match it against kind.
type classifiedError struct {
	kind  error
	cause error
}

func (e *classifiedError) Error() string { return e.cause.Error() }

func (e *classifiedError) Unwrap() error { return e.cause }

func (e *classifiedError) Is(target error) bool { return target == e.kind }

func withKind(kind error, err error, op string) error {
	return &classifiedError{kind: kind, cause: errors.Wrap(err, op)}
}

// classify wraps err with op and tags it with ErrNoActiveDevice or ErrTransport.
func classify(err error, op string) error {
	if err == nil {
		return nil
	}
	if isNoActiveDevice(err) {
		return withKind(ErrNoActiveDevice, err, op)
	}
	return withKind(ErrTransport, err, op)
}

func apiError(err error) (spotify.Error, bool) {
	var apiErr spotify.Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	var apiErrPtr *spotify.Error
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return *apiErrPtr, true
	}
	return spotify.Error{}, false
}

func isNoActiveDevice(err error) bool {
	apiErr, ok := apiError(err)
	if !ok {
		return false
	}
	if apiErr.Status == http.StatusNotFound {
		return true
	}
	msg := strings.ToUpper(apiErr.Message)
	return strings.Contains(msg, noActiveDeviceReason) || strings.Contains(msg, "NO ACTIVE DEVICE")
}

// IsNoActiveDevice reports whether err came from a player call with no device.
func IsNoActiveDevice(err error) bool {
	return errors.Is(err, ErrNoActiveDevice)
}

// Reason is the message shown to the user for a failed request.
func Reason(err error) string {
	if apiErr, ok := apiError(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	return errors.UnwrapAll(err).Error()
}
