// Package channel implements native.Toolkit over a method channel to a host
// process that owns the real toolkit.
//
// Every toolkit call is encoded as a method call on the "gbind/toolkit"
// channel and carried by a NativeBridge. Signal emissions flow back as events
// that the host delivers to Toolkit.HandleEvent.
package channel

import (
	"encoding/json"
	"errors"

	"github.com/go-drift/gbind/pkg/native"
)

// MessageCodec encodes and decodes channel payloads.
type MessageCodec interface {
	// Encode converts a Go value to bytes for transmission to the host.
	Encode(value any) ([]byte, error)

	// Decode converts bytes received from the host to a Go value.
	Decode(data []byte) (any, error)
}

// JsonCodec implements MessageCodec using JSON encoding.
type JsonCodec struct{}

// Encode serializes the value to JSON bytes.
func (c JsonCodec) Encode(value any) ([]byte, error) {
	return json.Marshal(value)
}

// Decode deserializes JSON bytes to a Go value. Numbers decode as float64.
func (c JsonCodec) Decode(data []byte) (any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var result any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// DecodeInto deserializes JSON bytes into a specific type.
func (c JsonCodec) DecodeInto(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// DefaultCodec is the codec used by toolkit channels.
var DefaultCodec MessageCodec = JsonCodec{}

// Standard channel errors.
var (
	// ErrUnavailable indicates no bridge to the host is installed.
	ErrUnavailable = errors.New("toolkit host unavailable")

	// ErrMethodNotFound indicates the host does not implement the method.
	ErrMethodNotFound = errors.New("method not implemented")

	// ErrInvalidArguments indicates the host rejected the call arguments.
	ErrInvalidArguments = errors.New("invalid arguments")

	// ErrBadResult indicates the host answered with a value of the wrong shape.
	ErrBadResult = errors.New("unexpected result from host")
)

// ChannelError is an error returned by the host.
type ChannelError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func (e *ChannelError) Error() string {
	if e.Message != "" {
		return e.Code + ": " + e.Message
	}
	return e.Code
}

var codeSentinels = map[string]error{
	"not_implemented":   ErrMethodNotFound,
	"invalid_arguments": ErrInvalidArguments,
	"null_handle":       native.ErrNullHandle,
	"unknown_handle":    native.ErrUnknownHandle,
	"unknown_type":      native.ErrUnknownType,
	"not_container":     native.ErrNotContainer,
	"unknown_property":  native.ErrUnknownProperty,
}

// Is maps well-known host codes onto sentinels, so
// errors.Is(err, native.ErrUnknownHandle) holds for an "unknown_handle" reply.
func (e *ChannelError) Is(target error) bool {
	s, ok := codeSentinels[e.Code]
	return ok && s == target
}

// NewChannelError creates a ChannelError with the given code and message.
func NewChannelError(code, message string) *ChannelError {
	return &ChannelError{Code: code, Message: message}
}
