package errors

import (
	"bytes"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestBindErrorString(t *testing.T) {
	base := stderrors.New("boom")
	tests := []struct {
		name string
		err  *BindError
		want string
	}{
		{
			name: "op only",
			err:  &BindError{Op: "registry.Register", Kind: KindDuplicate, Err: base},
			want: "registry.Register [duplicate]: boom",
		},
		{
			name: "handle",
			err:  &BindError{Op: "widgets.Add", Kind: KindStructure, Handle: 0x10, Err: base},
			want: "widgets.Add [structure] handle=0x10: boom",
		},
		{
			name: "tag",
			err:  &BindError{Op: "config.Apply", Kind: KindConfig, Tag: "GtkVBox", Err: base},
			want: "config.Apply [config] tag=GtkVBox: boom",
		},
		{
			name: "handle and tag",
			err:  &BindError{Op: "widgets.Resolve", Kind: KindUnknownType, Handle: 0x2a, Tag: "GtkSpinner", Err: base},
			want: "widgets.Resolve [unknown-type] handle=0x2a tag=GtkSpinner: boom",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBindErrorUnwrap(t *testing.T) {
	sentinel := stderrors.New("sentinel")
	err := &BindError{Op: "x", Err: sentinel}
	if !stderrors.Is(err, sentinel) {
		t.Error("errors.Is should see the wrapped sentinel")
	}
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindNative, "native"},
		{KindDuplicate, "duplicate"},
		{KindUnknownType, "unknown-type"},
		{KindStructure, "structure"},
		{KindNullHandle, "null-handle"},
		{KindSignal, "signal"},
		{KindConfig, "config"},
		{KindPanic, "panic"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestPanicErrorString(t *testing.T) {
	err := &PanicError{Value: "test panic", Timestamp: time.Now()}
	if got, want := err.Error(), "panic: test panic"; got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
	err.Op = "signals.dispatch"
	if got, want := err.Error(), "panic in signals.dispatch: test panic"; got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
}

func TestReport(t *testing.T) {
	h := CaptureForTest(t)

	Report(&BindError{Op: "test.op", Kind: KindStructure, Err: stderrors.New("nope")})

	errs := h.Errors()
	if len(errs) != 1 {
		t.Fatalf("captured %d errors, want 1", len(errs))
	}
	if errs[0].Op != "test.op" {
		t.Errorf("Op = %q, want %q", errs[0].Op, "test.op")
	}
	if errs[0].Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
}

func TestReportNil(t *testing.T) {
	h := CaptureForTest(t)
	Report(nil)
	ReportPanic(nil)
	if len(h.Errors()) != 0 || len(h.Panics()) != 0 {
		t.Error("nil reports should be dropped")
	}
}

func TestRecover(t *testing.T) {
	h := CaptureForTest(t)

	func() {
		defer Recover("test.recover")
		panic("intentional test panic")
	}()

	panics := h.Panics()
	if len(panics) != 1 {
		t.Fatalf("captured %d panics, want 1", len(panics))
	}
	if panics[0].Value != "intentional test panic" {
		t.Errorf("Value = %v, want %q", panics[0].Value, "intentional test panic")
	}
	if panics[0].Op != "test.recover" {
		t.Errorf("Op = %q, want %q", panics[0].Op, "test.recover")
	}
}

func TestReportAttachesCallerStack(t *testing.T) {
	h := CaptureForTest(t)

	Report(&BindError{Op: "widgets.Add", Kind: KindStructure, Err: stderrors.New("has parent")})
	Report(&BindError{Op: "registry.Register", Kind: KindDuplicate, Err: stderrors.New("dup")})
	Report(&BindError{Op: "channel.call", Kind: KindNative, Err: stderrors.New("closed")})
	Report(&BindError{Op: "widgets.Remove", Kind: KindStructure, StackTrace: "kept", Err: stderrors.New("not a child")})

	errs := h.Errors()
	if len(errs) != 4 {
		t.Fatalf("captured %d errors, want 4", len(errs))
	}
	for _, e := range errs[:2] {
		first, _, _ := strings.Cut(e.StackTrace, "\n")
		if !strings.HasSuffix(first, ".TestReportAttachesCallerStack") {
			t.Errorf("%s stack starts at %q, want the reporting function", e.Op, first)
		}
	}
	if errs[2].StackTrace != "" {
		t.Errorf("native error got a stack: %q", errs[2].StackTrace)
	}
	if errs[3].StackTrace != "kept" {
		t.Errorf("existing stack replaced: %q", errs[3].StackTrace)
	}
}

func TestCaptureStack(t *testing.T) {
	stack := CaptureStack()
	first, _, _ := strings.Cut(stack, "\n")
	if !strings.HasSuffix(first, ".TestCaptureStack") {
		t.Errorf("stack starts at %q, want the calling test", first)
	}
	if !strings.Contains(stack, "testing.tRunner") {
		t.Errorf("stack missing the test runner frame:\n%s", stack)
	}
}

func TestSetHandlerNil(t *testing.T) {
	rec := &Recorder{}
	old := SetHandler(rec)
	defer SetHandler(old)

	if prev := SetHandler(nil); prev != ErrorHandler(rec) {
		t.Errorf("SetHandler returned %T, want the recorder", prev)
	}
	if _, ok := getHandler().(*LogHandler); !ok {
		t.Errorf("SetHandler(nil) should install a LogHandler, got %T", getHandler())
	}
}

func TestLogHandler(t *testing.T) {
	var buf bytes.Buffer
	h := &LogHandler{Out: &buf}
	h.HandleError(&BindError{Op: "widgets.Add", Kind: KindStructure, Err: stderrors.New("has parent")})
	h.HandlePanic(&PanicError{Op: "signals.dispatch", Value: "bad"})

	got := buf.String()
	for _, want := range []string{
		"[gbind error] widgets.Add: has parent",
		"[gbind panic] signals.dispatch: bad",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q missing %q", got, want)
		}
	}

	buf.Reset()
	h.Verbose = true
	h.HandleError(&BindError{Op: "widgets.Resolve", Kind: KindUnknownType, Handle: 7, Tag: "GtkSpinner", Err: stderrors.New("no entry")})
	if want := "[gbind error] widgets.Resolve [unknown-type] handle=0x7 tag=GtkSpinner: no entry"; !strings.Contains(buf.String(), want) {
		t.Errorf("verbose output %q missing %q", buf.String(), want)
	}
}

func TestZapHandlerLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	h := NewZapHandler(zap.New(core))

	h.HandleError(&BindError{Op: "registry.Register", Kind: KindDuplicate, Handle: 3, Err: stderrors.New("dup")})
	h.HandleError(&BindError{Op: "channel.Invoke", Kind: KindNative, Err: stderrors.New("closed")})
	h.HandlePanic(&PanicError{Op: "signals.dispatch", Value: "x"})

	entries := logs.All()
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	if entries[0].Level != zapcore.WarnLevel {
		t.Errorf("duplicate logged at %v, want warn", entries[0].Level)
	}
	if entries[0].ContextMap()["handle"] != uintptr(3) {
		t.Errorf("handle field = %v, want 3", entries[0].ContextMap()["handle"])
	}
	if entries[1].Level != zapcore.ErrorLevel {
		t.Errorf("native error logged at %v, want error", entries[1].Level)
	}
	if entries[2].Message != "gbind panic" {
		t.Errorf("panic message = %q", entries[2].Message)
	}
}
