package wsbridge

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/websocket"

	binderrors "github.com/go-drift/gbind/pkg/errors"
	"github.com/go-drift/gbind/pkg/native"
	"github.com/go-drift/gbind/pkg/native/channel"
	"github.com/go-drift/gbind/pkg/native/nativetest"
	"github.com/go-drift/gbind/pkg/widgets"
)

// uiQueue stands in for a UI thread: events are queued by the client and run
// when the test drains them.
type uiQueue chan func()

func (q uiQueue) dispatch(cb func()) { q <- cb }

func (q uiQueue) drain() {
	for {
		select {
		case cb := <-q:
			cb()
		default:
			return
		}
	}
}

func startServer(t *testing.T) (*nativetest.Toolkit, *httptest.Server) {
	t.Helper()
	local := nativetest.New()
	srv := httptest.NewServer(NewServer(local))
	t.Cleanup(srv.Close)
	return local, srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, srv *httptest.Server, opts ...Option) *Client {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, err := Dial(ctx, wsURL(srv), opts...)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestWidgetsOverWebsocket(t *testing.T) {
	binderrors.CaptureForTest(t)
	local, srv := startServer(t)
	q := make(uiQueue, 64)
	client := dial(t, srv, WithDispatch(q.dispatch))
	tk := channel.New(client)
	client.SetEventHandler(tk.HandleEvent)
	r := widgets.NewResolver(tk, nil, nil, nil)

	win, err := widgets.NewWindow(r, "Remote")
	if err != nil {
		t.Fatal(err)
	}
	btn, _ := widgets.NewButton(r, "Press")
	if err := win.Add(btn); err != nil {
		t.Fatal(err)
	}

	var got []string
	btn.OnClicked(func(*widgets.Button) { got = append(got, "first") })
	btn.OnClicked(func(*widgets.Button) { got = append(got, "second") })

	btn.Clicked()
	if len(got) != 0 {
		t.Fatal("event ran outside the UI queue")
	}
	q.drain()

	if diff := cmp.Diff([]string{"first", "second"}, got); diff != "" {
		t.Errorf("closures mismatch (-want +got):\n%s", diff)
	}
	if local.Parent(btn.Handle()) != win.Handle() {
		t.Error("add did not reach the host")
	}
	if win.Title() != "Remote" {
		t.Errorf("Title = %q", win.Title())
	}

	win.Destroy()
	q.drain()
	if r.Registry().Len() != 0 {
		t.Errorf("registry holds %d entries after destroy", r.Registry().Len())
	}
	if local.Exists(btn.Handle()) {
		t.Error("button survived on the host")
	}
}

func TestRemoteErrors(t *testing.T) {
	binderrors.CaptureForTest(t)
	_, srv := startServer(t)
	client := dial(t, srv)
	tk := channel.New(client)

	_, err := tk.New("GtkNope")
	if !errors.Is(err, native.ErrUnknownType) {
		t.Errorf("New error = %v, want ErrUnknownType", err)
	}
	var ce *channel.ChannelError
	if !errors.As(err, &ce) || ce.Code != "unknown_type" {
		t.Errorf("error = %#v, want an unknown_type channel error", err)
	}

	_, err = client.InvokeMethod(context.Background(), "other/channel", "new", nil)
	if !errors.Is(err, channel.ErrMethodNotFound) {
		t.Errorf("unknown channel error = %v, want ErrMethodNotFound", err)
	}
}

func TestDefaultDispatch(t *testing.T) {
	binderrors.CaptureForTest(t)
	_, srv := startServer(t)
	client := dial(t, srv)
	tk := channel.New(client)
	client.SetEventHandler(tk.HandleEvent)

	h, err := tk.New("GtkButton")
	if err != nil {
		t.Fatal(err)
	}
	fired := make(chan string, 1)
	tk.Connect(h, "clicked", func(_ native.Handle, signal string, _ native.Args) {
		fired <- signal
	})
	if err := tk.Emit(h, "clicked"); err != nil {
		t.Fatal(err)
	}

	select {
	case s := <-fired:
		if s != "clicked" {
			t.Errorf("signal = %q", s)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("event never delivered")
	}
}

func TestClosedConnection(t *testing.T) {
	binderrors.CaptureForTest(t)
	_, srv := startServer(t)
	client := dial(t, srv)

	if err := client.Close(); err != nil {
		t.Fatal(err)
	}
	select {
	case <-client.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("Done not closed")
	}
	_, err := client.InvokeMethod(context.Background(), channel.Name, "new", []byte(`{"tag":"GtkBox"}`))
	if !errors.Is(err, ErrClosed) {
		t.Errorf("call after Close error = %v, want ErrClosed", err)
	}
}

func TestServerClose(t *testing.T) {
	binderrors.CaptureForTest(t)
	bridge := NewServer(nativetest.New())
	srv := httptest.NewServer(bridge)
	t.Cleanup(srv.Close)
	client := dial(t, srv)

	if err := bridge.Close(); err != nil {
		t.Fatal(err)
	}

	select {
	case <-client.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("client did not notice the disconnect")
	}
	if _, err := channel.New(client).New("GtkBox"); !errors.Is(err, ErrClosed) {
		t.Errorf("call after disconnect error = %v, want ErrClosed", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	late, err := Dial(ctx, wsURL(srv))
	if err != nil {
		t.Fatal(err)
	}
	defer late.Close()
	select {
	case <-late.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("closed server kept a new connection open")
	}
}

func TestKeepaliveDetectsSilentHost(t *testing.T) {
	binderrors.CaptureForTest(t)
	// The host upgrades and then never reads, so pings go unanswered.
	release := make(chan struct{})
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		<-release
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	client := dial(t, srv, WithPongWait(100*time.Millisecond))

	select {
	case <-client.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("client did not notice the silent host")
	}
	_, err := client.InvokeMethod(context.Background(), channel.Name, "new", []byte(`{"tag":"GtkBox"}`))
	if !errors.Is(err, ErrClosed) {
		t.Errorf("call after timeout error = %v, want ErrClosed", err)
	}
}

func TestKeepaliveHoldsIdleConnection(t *testing.T) {
	binderrors.CaptureForTest(t)
	_, srv := startServer(t)
	client := dial(t, srv, WithPongWait(200*time.Millisecond))

	// Several pong windows with no traffic; pongs keep the deadline moving.
	time.Sleep(800 * time.Millisecond)

	select {
	case <-client.Done():
		t.Fatal("idle connection dropped despite pongs")
	default:
	}
	if _, err := channel.New(client).New("GtkBox"); err != nil {
		t.Errorf("call on idle connection: %v", err)
	}
}

func TestDialFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := Dial(ctx, "ws://127.0.0.1:1/none"); err == nil {
		t.Error("dial to a closed port succeeded")
	}
}
