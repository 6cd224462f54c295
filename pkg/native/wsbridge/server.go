package wsbridge

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/go-drift/gbind/pkg/errors"
	"github.com/go-drift/gbind/pkg/native"
	"github.com/go-drift/gbind/pkg/native/channel"
)

// Server is the host side of a websocket toolkit connection. Every
// connection gets its own channel.Host over the shared toolkit; calls from
// all connections are serialized because toolkits are single-threaded.
type Server struct {
	tk       native.Toolkit
	upgrader websocket.Upgrader
	mu       sync.Mutex

	connMu sync.Mutex
	conns  map[*websocket.Conn]struct{}
	closed bool
}

// NewServer returns a server exposing tk.
func NewServer(tk native.Toolkit) *Server {
	return &Server{
		tk:    tk,
		conns: make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the request and serves toolkit calls until the peer
// disconnects.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote an HTTP error.
		return
	}
	if !s.track(conn) {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server closed"),
			time.Now().Add(time.Second))
		conn.Close()
		return
	}
	defer s.untrack(conn)

	var writeMu sync.Mutex
	send := func(f Frame) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteJSON(f)
	}

	host := channel.NewHost(s.tk)
	host.OnEvent(func(data []byte) {
		if err := send(Frame{Type: TypeEvent, Channel: channel.Name, Payload: data}); err != nil {
			errors.Report(&errors.BindError{
				Op:   "wsbridge.ServeHTTP",
				Kind: errors.KindNative,
				Err:  err,
			})
		}
	})

	for {
		var f Frame
		if err := conn.ReadJSON(&f); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) && !s.isClosed() {
				errors.Report(&errors.BindError{
					Op:   "wsbridge.ServeHTTP",
					Kind: errors.KindNative,
					Err:  err,
				})
			}
			return
		}
		if f.Type != TypeCall {
			continue
		}

		s.mu.Lock()
		result, err := host.HandleMethodCall(f.Channel, f.Method, f.Args)
		s.mu.Unlock()

		reply := Frame{ID: f.ID, Type: TypeReply, Result: result}
		if err != nil {
			reply.Result = nil
			reply.Error = toChannelError(err)
		}
		if err := send(reply); err != nil {
			return
		}
	}
}

func (s *Server) track(conn *websocket.Conn) bool {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	if s.closed {
		return false
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *Server) untrack(conn *websocket.Conn) {
	s.connMu.Lock()
	delete(s.conns, conn)
	s.connMu.Unlock()
	conn.Close()
}

func (s *Server) isClosed() bool {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	return s.closed
}

// Close drops every open connection and refuses new ones. http.Server
// shutdown does not reach upgraded connections, so callers close the Server
// as well.
func (s *Server) Close() error {
	s.connMu.Lock()
	s.closed = true
	conns := s.conns
	s.conns = make(map[*websocket.Conn]struct{})
	s.connMu.Unlock()
	for conn := range conns {
		conn.Close()
	}
	return nil
}

func toChannelError(err error) *channel.ChannelError {
	if ce, ok := err.(*channel.ChannelError); ok {
		return ce
	}
	return channel.NewChannelError("native_error", err.Error())
}
