package wsbridge

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/go-drift/gbind/pkg/errors"
	"github.com/go-drift/gbind/pkg/native/channel"
)

// Connection limits and keepalive timing.
const (
	// Time allowed to write a frame to the host.
	writeWait = 10 * time.Second

	// Default time allowed to read the next frame or pong from the host.
	defaultPongWait = 60 * time.Second

	// Maximum frame size accepted from the host.
	maxFrameSize = 1 << 20
)

// Option configures a Client.
type Option func(*Client)

// WithDispatch sets the function used to schedule event delivery on the UI
// thread. Without it events are delivered in order on a private goroutine.
func WithDispatch(fn func(callback func())) Option {
	return func(c *Client) { c.dispatch = fn }
}

// WithEventHandler sets the function event payloads are delivered to,
// typically (*channel.Toolkit).HandleEvent.
func WithEventHandler(fn func(payload []byte) error) Option {
	return func(c *Client) { c.onEvent = fn }
}

// WithPongWait sets how long the client waits for any frame or pong from the
// host before it treats the connection as dead. Pings go out at half that
// interval.
func WithPongWait(d time.Duration) Option {
	return func(c *Client) { c.pongWait = d }
}

// WithHandshakeTimeout bounds the websocket handshake in Dial.
func WithHandshakeTimeout(d time.Duration) Option {
	return func(c *Client) { c.handshake = d }
}

var _ channel.NativeBridge = (*Client)(nil)

// Client is the binding side of a websocket toolkit connection.
type Client struct {
	conn      *websocket.Conn
	dispatch  func(callback func())
	onEvent   func(payload []byte) error
	handshake time.Duration
	pongWait  time.Duration

	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[int64]chan Frame
	nextID  atomic.Int64

	done      chan struct{}
	closeOnce sync.Once
	err       error
	events    chan func()
}

// Dial connects to the host at url.
func Dial(ctx context.Context, url string, opts ...Option) (*Client, error) {
	c := newClient(opts)
	dialer := websocket.Dialer{HandshakeTimeout: c.handshake}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("wsbridge: dial %s: %w", url, err)
	}
	c.start(conn)
	return c, nil
}

// NewClient wraps an established connection.
func NewClient(conn *websocket.Conn, opts ...Option) *Client {
	c := newClient(opts)
	c.start(conn)
	return c
}

func newClient(opts []Option) *Client {
	c := &Client{
		pending:   make(map[int64]chan Frame),
		done:      make(chan struct{}),
		handshake: 10 * time.Second,
		pongWait:  defaultPongWait,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.pongWait <= 0 {
		c.pongWait = defaultPongWait
	}
	return c
}

func (c *Client) start(conn *websocket.Conn) {
	c.conn = conn
	if c.dispatch == nil {
		c.events = make(chan func(), 256)
		c.dispatch = func(cb func()) {
			select {
			case c.events <- cb:
			case <-c.done:
			}
		}
		go c.deliverLoop()
	}
	go c.readLoop()
	go c.pingLoop()
}

// SetEventHandler replaces the event handler. It exists for the common case
// where the handler belongs to a Toolkit built on top of this client.
func (c *Client) SetEventHandler(fn func(payload []byte) error) {
	c.mu.Lock()
	c.onEvent = fn
	c.mu.Unlock()
}

// InvokeMethod implements channel.NativeBridge. It blocks until the host
// replies, ctx is done or the connection closes.
func (c *Client) InvokeMethod(ctx context.Context, ch, method string, args []byte) ([]byte, error) {
	id := c.nextID.Add(1)
	reply := make(chan Frame, 1)

	c.mu.Lock()
	if c.isClosed() {
		c.mu.Unlock()
		return nil, c.closedErr()
	}
	c.pending[id] = reply
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	if err := c.write(Frame{ID: id, Type: TypeCall, Channel: ch, Method: method, Args: args}); err != nil {
		return nil, fmt.Errorf("wsbridge: send %s: %w", method, err)
	}

	select {
	case f := <-reply:
		if f.Error != nil {
			return nil, f.Error
		}
		return f.Result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.done:
		return nil, c.closedErr()
	}
}

func (c *Client) write(f Frame) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(f)
}

func (c *Client) readLoop() {
	c.conn.SetReadLimit(maxFrameSize)
	c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
	})
	for {
		var f Frame
		if err := c.conn.ReadJSON(&f); err != nil {
			c.shutdown(err)
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
		switch f.Type {
		case TypeReply:
			c.mu.Lock()
			reply := c.pending[f.ID]
			c.mu.Unlock()
			if reply != nil {
				reply <- f
			}
		case TypeEvent:
			payload := f.Payload
			c.dispatch(func() { c.deliver(payload) })
		default:
			errors.Report(&errors.BindError{
				Op:   "wsbridge.read",
				Kind: errors.KindNative,
				Err:  fmt.Errorf("unexpected frame type %q", f.Type),
			})
		}
	}
}

// pingLoop keeps the connection alive and lets readLoop notice a host that
// stopped answering.
func (c *Client) pingLoop() {
	ticker := time.NewTicker(c.pongWait / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.writeMu.Lock()
			err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			c.writeMu.Unlock()
			if err != nil {
				c.shutdown(err)
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *Client) deliver(payload []byte) {
	c.mu.Lock()
	fn := c.onEvent
	c.mu.Unlock()
	if fn == nil {
		return
	}
	defer errors.Recover("wsbridge.event")
	if err := fn(payload); err != nil {
		errors.Report(&errors.BindError{
			Op:   "wsbridge.event",
			Kind: errors.KindNative,
			Err:  err,
		})
	}
}

func (c *Client) deliverLoop() {
	for {
		select {
		case cb := <-c.events:
			cb()
		case <-c.done:
			return
		}
	}
}

func (c *Client) shutdown(err error) {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.err = err
		c.mu.Unlock()
		close(c.done)
		c.conn.Close()
	})
}

func (c *Client) isClosed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func (c *Client) closedErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil && !websocket.IsCloseError(c.err, websocket.CloseNormalClosure) && c.err != ErrClosed {
		return fmt.Errorf("%w: %v", ErrClosed, c.err)
	}
	return ErrClosed
}

// Done is closed when the connection is gone.
func (c *Client) Done() <-chan struct{} { return c.done }

// Close sends a close frame and tears the connection down. Pending calls
// fail with ErrClosed.
func (c *Client) Close() error {
	c.writeMu.Lock()
	err := c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	c.writeMu.Unlock()
	c.shutdown(ErrClosed)
	if err == websocket.ErrCloseSent {
		return nil
	}
	return err
}
