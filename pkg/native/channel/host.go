package channel

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-drift/gbind/pkg/native"
)

// callArgs is the union of every toolkit method's arguments.
type callArgs struct {
	Tag       string        `json:"tag"`
	Handle    native.Handle `json:"handle"`
	Container native.Handle `json:"container"`
	Child     native.Handle `json:"child"`
	Internal  bool          `json:"internal"`
	Signal    string        `json:"signal"`
	Name      string        `json:"name"`
	Value     any           `json:"value"`
	Args      []any         `json:"args"`
}

// Host serves toolkit method calls against a local native.Toolkit. It is
// the other end of a Toolkit: a host process runs one per connection and
// forwards every emission of a connected signal as an encoded Event.
type Host struct {
	tk native.Toolkit

	mu      sync.Mutex
	onEvent func(data []byte)
}

// NewHost returns a host serving tk.
func NewHost(tk native.Toolkit) *Host {
	return &Host{tk: tk}
}

// OnEvent sets the function encoded events are delivered to.
func (h *Host) OnEvent(fn func(data []byte)) {
	h.mu.Lock()
	h.onEvent = fn
	h.mu.Unlock()
}

// InvokeMethod implements NativeBridge, so a Toolkit can talk to a Host in
// the same process.
func (h *Host) InvokeMethod(ctx context.Context, channel, method string, args []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return h.HandleMethodCall(channel, method, args)
}

// HandleMethodCall decodes args, runs method on the toolkit and encodes the
// result. Toolkit errors are returned as *ChannelError with a stable code.
func (h *Host) HandleMethodCall(channel, method string, argsData []byte) ([]byte, error) {
	if channel != Name {
		return nil, NewChannelError("not_implemented", "unknown channel "+channel)
	}
	var a callArgs
	if len(argsData) > 0 {
		if err := (JsonCodec{}).DecodeInto(argsData, &a); err != nil {
			return nil, NewChannelError("invalid_arguments", err.Error())
		}
	}

	result, err := h.dispatch(method, a)
	if err != nil {
		return nil, toChannelError(err)
	}
	return DefaultCodec.Encode(result)
}

func (h *Host) dispatch(method string, a callArgs) (any, error) {
	tk := h.tk
	switch method {
	case "new":
		return tk.New(a.Tag)
	case "typeTag":
		tag := tk.TypeTag(a.Handle)
		if tag == "" {
			return nil, native.ErrUnknownHandle
		}
		return tag, nil
	case "isA":
		return tk.IsA(a.Handle, a.Tag), nil
	case "parent":
		return tk.Parent(a.Handle), nil
	case "children":
		var hs []native.Handle
		if a.Internal {
			hs = tk.AllChildren(a.Handle)
		} else {
			hs = tk.Children(a.Handle)
		}
		if hs == nil {
			hs = []native.Handle{}
		}
		return hs, nil
	case "add":
		return nil, tk.Add(a.Container, a.Child)
	case "remove":
		return nil, tk.Remove(a.Container, a.Child)
	case "destroy":
		return nil, tk.Destroy(a.Handle)
	case "connect":
		return nil, tk.Connect(a.Handle, a.Signal, h.forward)
	case "emit":
		return nil, tk.Emit(a.Handle, a.Signal, a.Args...)
	case "getProperty":
		return tk.Property(a.Handle, a.Name)
	case "setProperty":
		return nil, tk.SetProperty(a.Handle, a.Name, a.Value)
	}
	return nil, fmt.Errorf("%w: %s", ErrMethodNotFound, method)
}

// forward is the trampoline the host connects for every subscribed signal.
func (h *Host) forward(origin native.Handle, signal string, args native.Args) {
	h.mu.Lock()
	fn := h.onEvent
	h.mu.Unlock()
	if fn == nil {
		return
	}
	data, err := DefaultCodec.Encode(Event{Handle: origin, Signal: signal, Args: []any(args)})
	if err != nil {
		return
	}
	fn(data)
}

func toChannelError(err error) *ChannelError {
	var ce *ChannelError
	if errors.As(err, &ce) {
		return ce
	}
	for code, sentinel := range codeSentinels {
		if errors.Is(err, sentinel) {
			return NewChannelError(code, err.Error())
		}
	}
	return NewChannelError("native_error", err.Error())
}
