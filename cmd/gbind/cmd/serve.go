package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-drift/gbind/pkg/native/nativetest"
	"github.com/go-drift/gbind/pkg/native/wsbridge"
)

func init() {
	RegisterCommand(&Command{
		Name:  "serve",
		Short: "Serve an in-memory toolkit over websocket",
		Long: `Serve an in-memory toolkit to remote bindings.

Every websocket connection gets its own channel host over one shared
toolkit. Point "gbind demo --url ws://ADDR/" at it to drive widgets
remotely.

Flags:
  --addr ADDR   Listen address (default: 127.0.0.1:8765)`,
		Usage: "gbind serve [--addr ADDR]",
		Run:   runServe,
	})
}

func runServe(args []string) error {
	addr := "127.0.0.1:8765"
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--addr":
			if i+1 >= len(args) {
				return fmt.Errorf("--addr requires a value")
			}
			addr = args[i+1]
			i++
		case strings.HasPrefix(arg, "--addr="):
			addr = strings.TrimPrefix(arg, "--addr=")
		default:
			return fmt.Errorf("unknown flag %q", arg)
		}
	}

	_, flush, err := loadConfig()
	if err != nil {
		return err
	}
	defer flush()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	bridge := wsbridge.NewServer(nativetest.New())
	srv := &http.Server{
		Handler:           bridge,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	fmt.Fprintf(stdout, "Serving toolkit on ws://%s/ (Ctrl+C to stop)\n", ln.Addr())

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	// Shutdown does not reach upgraded connections.
	bridge.Close()
	fmt.Fprintln(stdout, "Stopped")
	return nil
}
