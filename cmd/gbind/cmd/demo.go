package cmd

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/go-drift/gbind/pkg/app"
	"github.com/go-drift/gbind/pkg/native"
	"github.com/go-drift/gbind/pkg/native/channel"
	"github.com/go-drift/gbind/pkg/native/nativetest"
	"github.com/go-drift/gbind/pkg/native/wsbridge"
	"github.com/go-drift/gbind/pkg/widgets"
)

func init() {
	RegisterCommand(&Command{
		Name:  "demo",
		Short: "Build a sample widget tree and print it",
		Long: `Build a small application and print its widget tree.

The demo creates a window holding a box with a label and a button, clicks
the button, opens a message dialog and answers it. By default the widgets
live in an in-memory toolkit; with --url they are created on a remote host
started with "gbind serve".

Flags:
  --url URL     Connect to a toolkit host (ws://host:port/)
  --internal    Include toolkit-internal children in the tree`,
		Usage: "gbind demo [--url URL] [--internal]",
		Run:   runDemo,
	})
}

type demoOptions struct {
	url      string
	internal bool
}

func runDemo(args []string) error {
	var opts demoOptions
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--url":
			if i+1 >= len(args) {
				return fmt.Errorf("--url requires a value")
			}
			opts.url = args[i+1]
			i++
		case strings.HasPrefix(arg, "--url="):
			opts.url = strings.TrimPrefix(arg, "--url=")
		case arg == "--internal":
			opts.internal = true
		default:
			return fmt.Errorf("unknown flag %q", arg)
		}
	}

	cfg, flush, err := loadConfig()
	if err != nil {
		return err
	}
	defer flush()

	table := widgets.DefaultTable()
	if err := cfg.Apply(table); err != nil {
		return err
	}

	// Remote events are queued here and run between steps, so widget code
	// never runs off this goroutine.
	queue := make(eventQueue, 256)
	tk := native.Toolkit(nativetest.New())
	if opts.url != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		client, err := wsbridge.Dial(ctx, opts.url, wsbridge.WithDispatch(queue.dispatch))
		cancel()
		if err != nil {
			return err
		}
		defer client.Close()
		ctk := channel.New(client)
		client.SetEventHandler(ctk.HandleEvent)
		tk = ctk
	}

	return runDemoApp(stdout, tk, cfg.AppID, table, queue, opts.internal)
}

// eventQueue is the demo's UI thread.
type eventQueue chan func()

func (q eventQueue) dispatch(cb func()) { q <- cb }

// drain runs queued callbacks until none arrives for a short while.
func (q eventQueue) drain() {
	for {
		select {
		case cb := <-q:
			cb()
		case <-time.After(50 * time.Millisecond):
			return
		}
	}
}

func runDemoApp(out io.Writer, tk native.Toolkit, id string, table *widgets.DispatchTable, queue eventQueue, internal bool) error {
	a, err := app.New(tk, id, app.WithTable(table))
	if err != nil {
		return err
	}
	defer a.Close()

	var win *widgets.ApplicationWindow
	var buildErr error
	a.OnActivate(func(a *app.Application) {
		win, buildErr = buildDemoWindow(a, out)
	})
	a.Activate()
	queue.drain()
	if buildErr != nil {
		return buildErr
	}
	if win == nil {
		return fmt.Errorf("activate handler did not run")
	}

	fmt.Fprintf(out, "Application %s\n\n", a.ID())
	printWidgetTree(out, win, internal)

	box, err := widgets.ResolveAs[*widgets.Box](a.Resolver(), win.Child().Handle())
	if err != nil {
		return err
	}
	var button *widgets.Button
	for _, c := range box.Children() {
		if b, ok := c.(*widgets.Button); ok {
			button = b
		}
	}
	if button == nil {
		return fmt.Errorf("demo button missing")
	}

	fmt.Fprintln(out)
	button.Clicked()
	queue.drain()

	md, err := widgets.NewMessageDialog(a.Resolver(), win, widgets.MessageQuestion, widgets.ButtonsYesNo, "Quit the demo?")
	if err != nil {
		return err
	}
	md.SetSecondaryText("The window and its children will be destroyed.")
	answered := widgets.ResponseNone
	md.OnResponse(func(_ *widgets.Dialog, id widgets.ResponseType) {
		answered = id
		fmt.Fprintf(out, "dialog answered %s\n", id)
	})
	fmt.Fprintln(out)
	printWidgetTree(out, md, internal)
	fmt.Fprintln(out)

	for _, c := range md.ActionArea().Children() {
		if b, ok := c.(*widgets.Button); ok && b.Label() == "Yes" {
			b.Clicked()
		}
	}
	queue.drain()
	if answered != widgets.ResponseYes {
		return fmt.Errorf("dialog response = %s, want yes", answered)
	}
	md.Destroy()
	queue.drain()

	fmt.Fprintf(out, "%d registered objects before close\n", a.Registry().Len())
	return nil
}

func buildDemoWindow(a *app.Application, out io.Writer) (*widgets.ApplicationWindow, error) {
	r := a.Resolver()
	win, err := widgets.NewApplicationWindow(r, "gbind demo")
	if err != nil {
		return nil, err
	}
	if err := a.AddWindow(win); err != nil {
		return nil, err
	}
	box, err := widgets.NewBox(r, widgets.OrientationVertical, 6)
	if err != nil {
		return nil, err
	}
	if err := win.Add(box); err != nil {
		return nil, err
	}
	label, err := widgets.NewLabel(r, "Hello, 世界")
	if err != nil {
		return nil, err
	}
	if err := box.PackStart(label, true, true, 0); err != nil {
		return nil, err
	}
	button, err := widgets.NewButton(r, "Press me")
	if err != nil {
		return nil, err
	}
	if err := box.PackEnd(button, false, false, 4); err != nil {
		return nil, err
	}

	clicks := 0
	button.OnClicked(func(b *widgets.Button) {
		clicks++
		label.SetText(fmt.Sprintf("Clicked %d time(s)", clicks))
	})
	button.OnClicked(func(b *widgets.Button) {
		fmt.Fprintf(out, "button %q clicked, label now %q\n", b.Label(), label.Text())
	})
	win.ShowAll()
	return win, nil
}

// printWidgetTree prints w and its descendants with the wrapper type and a
// short description of each widget.
func printWidgetTree(out io.Writer, w widgets.Widget, internal bool) {
	var rows []row
	visit := func(c widgets.Widget, depth int) bool {
		rows = append(rows, row{depth: depth, name: c.TypeTag(), note: describe(c)})
		return true
	}
	if internal {
		widgets.WalkAll(w, visit)
	} else {
		widgets.Walk(w, visit)
	}
	writeRows(out, rows)
}

func describe(w widgets.Widget) string {
	var parts []string
	parts = append(parts, fmt.Sprintf("%T", w))
	switch v := w.(type) {
	case widgets.IsTopLevel:
		parts = append(parts, fmt.Sprintf("title=%q", v.Title()))
	case *widgets.Button:
		parts = append(parts, fmt.Sprintf("label=%q", v.Label()))
	case *widgets.Label:
		parts = append(parts, fmt.Sprintf("text=%q", v.Text()))
	case *widgets.Box:
		parts = append(parts, fmt.Sprintf("spacing=%d", v.Spacing()))
	}
	if p := w.Parent(); p != nil && slices.Contains(p.InternalChildren(), w) {
		parts = append(parts, "internal")
	}
	return strings.Join(parts, " ")
}
