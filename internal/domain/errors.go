package domain

import "errors"

// ErrorKind classifies workflow failures. Every kind is recovered at the
// visit boundary and turned into a user-visible message.
type ErrorKind string

const (
	KindInputEmpty         ErrorKind = "input_empty"
	KindParse              ErrorKind = "parse_error"
	KindNotFound           ErrorKind = "not_found"
	KindServiceUnavailable ErrorKind = "service_unavailable"
	KindPermissionDenied   ErrorKind = "permission_denied"
	KindUnsupported        ErrorKind = "unsupported"
	KindBusy               ErrorKind = "busy"
	KindInvalidState       ErrorKind = "invalid_state"
	KindUnknown            ErrorKind = "unknown"
)

// User-facing messages.
const (
	MsgInvalidCoordinates         = "invalid coordinates"
	MsgInvalidCoordinatesReceived = "invalid coordinates received"
	MsgLocationNotFound           = "location not found"
	MsgGeocodeUnavailable         = "error fetching location, check that the geocoding service is reachable"
	MsgAnalysisFailed             = "analysis failed: ensure the analysis service is reachable"
	MsgPermissionDenied           = "could not get your location, please check permissions"
	MsgUnsupported                = "geolocation is not supported"
	MsgBusy                       = "another request is still in progress"
	MsgNotLocated                 = "select a location before generating a score"
	MsgVisitEnded                 = "this analysis is complete, start a new one"
)

// Error is a classified workflow failure. Message is safe to show to a user;
// Err carries the underlying cause for logs.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by kind and message, so sentinels like
// ErrInputEmpty work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

var (
	// ErrInputEmpty signals an empty address lookup. It is a no-op, not a failure.
	ErrInputEmpty = &Error{Kind: KindInputEmpty, Message: "empty query"}
	ErrBusy       = &Error{Kind: KindBusy, Message: MsgBusy}
	ErrNotLocated = &Error{Kind: KindInvalidState, Message: MsgNotLocated}
	ErrVisitEnded = &Error{Kind: KindInvalidState, Message: MsgVisitEnded}
)

func NewParseError(msg string, err error) *Error {
	return &Error{Kind: KindParse, Message: msg, Err: err}
}

func NewNotFoundError(msg string) *Error {
	if msg == "" {
		msg = MsgLocationNotFound
	}
	return &Error{Kind: KindNotFound, Message: msg}
}

func NewServiceUnavailableError(msg string, err error) *Error {
	return &Error{Kind: KindServiceUnavailable, Message: msg, Err: err}
}

func NewPermissionDeniedError(err error) *Error {
	return &Error{Kind: KindPermissionDenied, Message: MsgPermissionDenied, Err: err}
}

func NewUnsupportedError() *Error {
	return &Error{Kind: KindUnsupported, Message: MsgUnsupported}
}

// KindOf reports the kind of err, or KindUnknown for unclassified errors.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}

// UserMessage returns the text to surface for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return "something went wrong, please try again"
}
