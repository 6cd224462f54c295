package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	binderrors "github.com/go-drift/gbind/pkg/errors"
	"github.com/go-drift/gbind/pkg/widgets"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadOptionalMissing(t *testing.T) {
	cfg, err := LoadOptional(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(&Config{}, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadOptionalInvalid(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, "dispatch: [unclosed")
	if _, err := LoadOptional(dir); err == nil {
		t.Error("expected a parse error")
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module github.com/go-drift/gbind-demo\n\ngo 1.24\n")
	writeFile(t, dir, FileName, `
dispatch:
  version: ">=v1.0.0, <v2.0.0"
  aliases:
    GtkFlowBox: GtkContainer
log:
  verbose: true
  handler: Zap
`)

	res, err := Resolve(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := &Resolved{
		Root:       dir,
		ModulePath: "github.com/go-drift/gbind-demo",
		AppID:      "com.github.go_drift.gbind_demo",
		Dispatch: DispatchConfig{
			Version: ">=v1.0.0, <v2.0.0",
			Aliases: map[string]string{"GtkFlowBox": "GtkContainer"},
		},
		Log: LogConfig{Verbose: true, Handler: "zap", Level: "info"},
	}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Errorf("resolved mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module demo\n")
	res, err := Resolve(dir)
	if err != nil {
		t.Fatal(err)
	}
	if res.AppID != "org.example.demo" {
		t.Errorf("AppID = %q, want org.example.demo", res.AppID)
	}
	if res.Log.Handler != "stderr" || res.Log.Level != "info" {
		t.Errorf("log defaults = %+v", res.Log)
	}
	if err := res.CheckVersion("v0.0.1"); err != nil {
		t.Errorf("empty constraint rejected a version: %v", err)
	}
}

func TestResolveRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad app id", "app:\n  id: nodots\n"},
		{"digit segment", "app:\n  id: org.9lives\n"},
		{"bad handler", "log:\n  handler: syslog\n"},
		{"bad level", "log:\n  level: loud\n"},
		{"bad version", "dispatch:\n  version: \">=one\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, FileName, tt.yaml)
			if _, err := Resolve(dir); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestCheckVersion(t *testing.T) {
	tests := []struct {
		constraint string
		version    string
		ok         bool
	}{
		{">=v1.0.0", "v1.2.0", true},
		{">=v1.3.0", "v1.2.0", false},
		{">v1.2.0", "v1.2.0", false},
		{"<v2", "v1.9.9", true},
		{"<=1.2.0", "v1.2.0", true},
		{"v1.2.0", "v1.2.0", true},
		{"=v1.2.1", "v1.2.0", false},
		{"^v1.0.0", "v1.2.0", true},
		{"^v1.0.0", "v2.0.0", false},
		{">=v1.0.0, <v1.2.0", "v1.2.0", false},
	}
	for _, tt := range tests {
		r := &Resolved{Dispatch: DispatchConfig{Version: tt.constraint}}
		err := r.CheckVersion(tt.version)
		if (err == nil) != tt.ok {
			t.Errorf("CheckVersion(%q) against %q: err = %v, want ok=%v", tt.version, tt.constraint, err, tt.ok)
		}
	}
}

func TestApply(t *testing.T) {
	rec := binderrors.CaptureForTest(t)
	table := widgets.DefaultTable()
	r := &Resolved{Dispatch: DispatchConfig{
		Version: ">=v1.0.0",
		Aliases: map[string]string{
			"GtkFlowBox": "GtkContainer",
			"GtkLabel":   "GtkWidget",
			"GtkFancy":   "GtkMissing",
		},
	}}

	err := r.Apply(table)

	if !errors.Is(err, widgets.ErrDuplicateTag) || !errors.Is(err, widgets.ErrUnknownParentTag) {
		t.Errorf("Apply error = %v, want both alias failures", err)
	}
	if e, ok := table.Lookup("GtkFlowBox"); !ok || e.Tag != "GtkContainer" {
		t.Error("valid alias not installed")
	}
	kinds := rec.Kinds()
	if diff := cmp.Diff([]binderrors.ErrorKind{binderrors.KindConfig, binderrors.KindConfig}, kinds); diff != "" {
		t.Errorf("kinds mismatch (-want +got):\n%s", diff)
	}

	r.Dispatch = DispatchConfig{Version: ">=v9.0.0"}
	if err := r.Apply(table); err == nil {
		t.Error("version constraint not enforced")
	}
}

func TestHandler(t *testing.T) {
	r := &Resolved{Log: LogConfig{Handler: "stderr", Verbose: true, Level: "info"}}
	h, logger, err := r.Handler()
	if err != nil {
		t.Fatal(err)
	}
	if lh, ok := h.(*binderrors.LogHandler); !ok || !lh.Verbose || logger != nil {
		t.Errorf("stderr handler = %T %+v, logger %v", h, h, logger)
	}

	r.Log.Handler = "zap"
	h, logger, err = r.Handler()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := h.(*binderrors.ZapHandler); !ok || logger == nil {
		t.Errorf("zap handler = %T, logger %v", h, logger)
	}
}

func TestValidateAppID(t *testing.T) {
	for id, ok := range map[string]bool{
		"org.gnome.Calculator": true,
		"com.example.my-app":   true,
		"a._b":                 true,
		"single":               false,
		"org..gap":             false,
		"org.3d":               false,
		"org.sp ace":           false,
	} {
		if err := ValidateAppID(id); (err == nil) != ok {
			t.Errorf("ValidateAppID(%q) = %v, want ok=%v", id, err, ok)
		}
	}
}

func TestDefaultAppID(t *testing.T) {
	tests := []struct {
		module, dir, want string
	}{
		{"github.com/go-drift/gbind", "x", "com.github.go_drift.gbind"},
		{"example.org/tools/v2", "x", "org.example.tools.v2"},
		{"local", "x", "org.example.local"},
		{"", "2048", "org.example._2048"},
	}
	for _, tt := range tests {
		got := defaultAppID(tt.module, tt.dir)
		if got != tt.want {
			t.Errorf("defaultAppID(%q, %q) = %q, want %q", tt.module, tt.dir, got, tt.want)
		}
		if err := ValidateAppID(got); err != nil {
			t.Errorf("default id %q is invalid: %v", got, err)
		}
	}
}
