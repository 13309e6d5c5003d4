package journey

import (
	"errors"

	"github.com/theimaginaryfoundation/kingdom-journeys/journey/fileutils"
)

// OutputPreviewChars caps the raw model output kept on an OutputError.
const OutputPreviewChars = 300

var (
	// ErrEmptyResponse means the service returned no text.
	ErrEmptyResponse = errors.New("empty response from generative service")

	// ErrMalformedResponse means text came back but did not decode or validate as a Journey.
	ErrMalformedResponse = errors.New("malformed response from generative service")

	// ErrTransport means the outbound call itself failed.
	ErrTransport = errors.New("generative service call failed")
)

// Kind names the failure class of err for logs: "empty", "malformed", "transport" or "unknown".
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyResponse):
		return "empty"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed"
	case errors.Is(err, ErrTransport):
		return "transport"
	default:
		return "unknown"
	}
}

// OutputError is a decode or validation failure that carries a single-line preview of
// the raw model output for logs.
type OutputError struct {
	Preview string
	Err     error
}

func newOutputError(text string, err error) *OutputError {
	return &OutputError{Preview: fileutils.Preview(text, OutputPreviewChars), Err: err}
}

func (e *OutputError) Error() string { return e.Err.Error() }

func (e *OutputError) Unwrap() error { return e.Err }

// OutputPreview returns the raw output preview attached to err, or "".
func OutputPreview(err error) string {
	var oe *OutputError
	if errors.As(err, &oe) {
		return oe.Preview
	}
	return ""
}
