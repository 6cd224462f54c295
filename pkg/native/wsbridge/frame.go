// Package wsbridge carries toolkit channel traffic over a websocket.
//
// A Client implements channel.NativeBridge: every call is a "call" frame
// answered by a "reply" frame with the same id. The host pushes signal
// emissions as "event" frames at any time. Server is the host side; it
// serves a channel.Host per connection.
package wsbridge

import (
	"encoding/json"
	"errors"

	"github.com/go-drift/gbind/pkg/native/channel"
)

// Frame types.
const (
	TypeCall  = "call"
	TypeReply = "reply"
	TypeEvent = "event"
)

// Frame is one websocket message.
type Frame struct {
	ID      int64                 `json:"id,omitempty"`
	Type    string                `json:"type"`
	Channel string                `json:"channel,omitempty"`
	Method  string                `json:"method,omitempty"`
	Args    json.RawMessage       `json:"args,omitempty"`
	Result  json.RawMessage       `json:"result,omitempty"`
	Error   *channel.ChannelError `json:"error,omitempty"`
	Payload json.RawMessage       `json:"payload,omitempty"`
}

// ErrClosed is returned by calls made on, or pending when, the connection
// closes.
var ErrClosed = errors.New("wsbridge: connection closed")
