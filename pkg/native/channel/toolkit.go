package channel

import (
	"context"
	stderrors "errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/go-drift/gbind/pkg/errors"
	"github.com/go-drift/gbind/pkg/native"
)

// Name is the channel toolkit calls are sent on.
const Name = "gbind/toolkit"

// NativeBridge carries encoded method calls to the host.
type NativeBridge interface {
	// InvokeMethod calls a method on the host and returns the encoded result.
	InvokeMethod(ctx context.Context, channel, method string, args []byte) ([]byte, error)
}

// Event is a signal emission reported by the host.
type Event struct {
	Handle native.Handle `json:"handle"`
	Signal string        `json:"signal"`
	Args   []any         `json:"args,omitempty"`
}

// Option configures a Toolkit.
type Option func(*Toolkit)

// WithTimeout bounds every call to the host. The default is 5 seconds; zero
// disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(t *Toolkit) { t.timeout = d }
}

// WithContext sets the parent context of every call. Cancelling it fails all
// pending and future calls.
func WithContext(ctx context.Context) Option {
	return func(t *Toolkit) { t.ctx = ctx }
}

// WithCodec replaces DefaultCodec.
func WithCodec(c MessageCodec) Option {
	return func(t *Toolkit) { t.codec = c }
}

var _ native.Toolkit = (*Toolkit)(nil)

// Toolkit is a native.Toolkit whose objects live in a host process.
//
// Query methods that cannot return an error (TypeTag, IsA, Parent, Children,
// AllChildren) report host failures through the errors package and return
// zero values.
type Toolkit struct {
	bridge  NativeBridge
	codec   MessageCodec
	ctx     context.Context
	timeout time.Duration

	mu       sync.Mutex
	handlers map[native.Handle]map[string][]native.Trampoline
}

// New returns a toolkit sending calls over bridge.
func New(bridge NativeBridge, opts ...Option) *Toolkit {
	t := &Toolkit{
		bridge:   bridge,
		codec:    DefaultCodec,
		ctx:      context.Background(),
		timeout:  5 * time.Second,
		handlers: make(map[native.Handle]map[string][]native.Trampoline),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// call sends method with args and returns the decoded result.
func (t *Toolkit) call(method string, args map[string]any) (any, error) {
	if t.bridge == nil {
		return nil, ErrUnavailable
	}
	data, err := t.codec.Encode(args)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", method, err)
	}
	ctx := t.ctx
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}
	res, err := t.bridge.InvokeMethod(ctx, Name, method, data)
	if err != nil {
		return nil, err
	}
	return t.codec.Decode(res)
}

func (t *Toolkit) report(op string, h native.Handle, err error) {
	errors.Report(&errors.BindError{
		Op:     "channel." + op,
		Kind:   errors.KindNative,
		Handle: uintptr(h),
		Err:    err,
	})
}

func handleOf(v any) (native.Handle, error) {
	h, err := native.Args{v}.Handle(0)
	if err != nil {
		return native.NullHandle, fmt.Errorf("%w: %v", ErrBadResult, err)
	}
	return h, nil
}

// New implements native.Toolkit.
func (t *Toolkit) New(tag string) (native.Handle, error) {
	res, err := t.call("new", map[string]any{"tag": tag})
	if err != nil {
		return native.NullHandle, err
	}
	h, err := handleOf(res)
	if err != nil {
		return native.NullHandle, err
	}
	if h.IsNull() {
		return native.NullHandle, fmt.Errorf("%w: host returned a null handle for %s", ErrBadResult, tag)
	}
	return h, nil
}

// TypeTag implements native.Toolkit. Unknown handles yield "".
func (t *Toolkit) TypeTag(h native.Handle) string {
	res, err := t.call("typeTag", map[string]any{"handle": h})
	if err != nil {
		if !stderrors.Is(err, native.ErrUnknownHandle) {
			t.report("TypeTag", h, err)
		}
		return ""
	}
	s, _ := res.(string)
	return s
}

// IsA implements native.Toolkit.
func (t *Toolkit) IsA(h native.Handle, tag string) bool {
	res, err := t.call("isA", map[string]any{"handle": h, "tag": tag})
	if err != nil {
		t.report("IsA", h, err)
		return false
	}
	ok, _ := res.(bool)
	return ok
}

// Parent implements native.Toolkit.
func (t *Toolkit) Parent(h native.Handle) native.Handle {
	res, err := t.call("parent", map[string]any{"handle": h})
	if err == nil {
		var p native.Handle
		if p, err = handleOf(res); err == nil {
			return p
		}
	}
	t.report("Parent", h, err)
	return native.NullHandle
}

// Children implements native.Toolkit.
func (t *Toolkit) Children(h native.Handle) []native.Handle {
	return t.children("Children", h, false)
}

// AllChildren implements native.Toolkit.
func (t *Toolkit) AllChildren(h native.Handle) []native.Handle {
	return t.children("AllChildren", h, true)
}

func (t *Toolkit) children(op string, h native.Handle, internal bool) []native.Handle {
	res, err := t.call("children", map[string]any{"handle": h, "internal": internal})
	if err != nil {
		t.report(op, h, err)
		return nil
	}
	if res == nil {
		return nil
	}
	list, ok := res.([]any)
	if !ok {
		t.report(op, h, fmt.Errorf("%w: children is %T", ErrBadResult, res))
		return nil
	}
	out := make([]native.Handle, 0, len(list))
	for _, v := range list {
		c, err := handleOf(v)
		if err != nil {
			t.report(op, h, err)
			return nil
		}
		out = append(out, c)
	}
	return out
}

// Add implements native.Toolkit.
func (t *Toolkit) Add(container, child native.Handle) error {
	_, err := t.call("add", map[string]any{"container": container, "child": child})
	return err
}

// Remove implements native.Toolkit.
func (t *Toolkit) Remove(container, child native.Handle) error {
	_, err := t.call("remove", map[string]any{"container": container, "child": child})
	return err
}

// Destroy implements native.Toolkit. The host reports the resulting
// "destroy" emission as an event like any other signal.
func (t *Toolkit) Destroy(h native.Handle) error {
	_, err := t.call("destroy", map[string]any{"handle": h})
	return err
}

// Connect implements native.Toolkit. Only the first trampoline for a
// (handle, signal) pair subscribes on the host; later ones share it.
func (t *Toolkit) Connect(h native.Handle, signal string, tr native.Trampoline) error {
	if h.IsNull() {
		return native.ErrNullHandle
	}
	t.mu.Lock()
	first := len(t.handlers[h][signal]) == 0
	t.mu.Unlock()

	if first {
		if _, err := t.call("connect", map[string]any{"handle": h, "signal": signal}); err != nil {
			return err
		}
	}

	t.mu.Lock()
	bySignal := t.handlers[h]
	if bySignal == nil {
		bySignal = make(map[string][]native.Trampoline)
		t.handlers[h] = bySignal
	}
	bySignal[signal] = append(bySignal[signal], tr)
	t.mu.Unlock()
	return nil
}

// Emit implements native.Toolkit. The emission comes back as an event.
func (t *Toolkit) Emit(h native.Handle, signal string, args ...any) error {
	if args == nil {
		args = []any{}
	}
	_, err := t.call("emit", map[string]any{"handle": h, "signal": signal, "args": args})
	return err
}

// Property implements native.Toolkit.
func (t *Toolkit) Property(h native.Handle, name string) (any, error) {
	return t.call("getProperty", map[string]any{"handle": h, "name": name})
}

// SetProperty implements native.Toolkit.
func (t *Toolkit) SetProperty(h native.Handle, name string, value any) error {
	_, err := t.call("setProperty", map[string]any{"handle": h, "name": name, "value": value})
	return err
}

// HandleEvent decodes a JSON event sent by the host and runs the
// trampolines connected for it, in connection order. A "destroy" event drops
// every trampoline of the handle after they ran. It must be called on the UI
// thread.
func (t *Toolkit) HandleEvent(data []byte) error {
	var ev Event
	if err := (JsonCodec{}).DecodeInto(data, &ev); err != nil {
		err = fmt.Errorf("decode event: %w", err)
		t.report("HandleEvent", native.NullHandle, err)
		return err
	}
	t.Deliver(ev)
	return nil
}

// Deliver runs the trampolines connected for ev.
func (t *Toolkit) Deliver(ev Event) {
	t.mu.Lock()
	trs := slices.Clone(t.handlers[ev.Handle][ev.Signal])
	t.mu.Unlock()

	for _, tr := range trs {
		tr(ev.Handle, ev.Signal, native.Args(ev.Args))
	}

	if ev.Signal == "destroy" {
		t.mu.Lock()
		delete(t.handlers, ev.Handle)
		t.mu.Unlock()
	}
}

// HandlerCount returns how many trampolines are connected to signal on h.
func (t *Toolkit) HandlerCount(h native.Handle, signal string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.handlers[h][signal])
}
