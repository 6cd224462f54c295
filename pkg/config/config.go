// Package config loads the optional gbind.yaml project configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"gopkg.in/yaml.v3"

	binderrors "github.com/go-drift/gbind/pkg/errors"
	"github.com/go-drift/gbind/pkg/widgets"
)

// FileName is the configuration file looked up in the project root.
const FileName = "gbind.yaml"

// Config represents the optional gbind.yaml configuration.
type Config struct {
	App      AppConfig      `yaml:"app"`
	Dispatch DispatchConfig `yaml:"dispatch"`
	Log      LogConfig      `yaml:"log"`
}

// AppConfig contains application metadata.
type AppConfig struct {
	ID string `yaml:"id,omitempty"`
}

// DispatchConfig tunes the type dispatch table.
type DispatchConfig struct {
	// Version constrains the dispatch table version, e.g. ">=v1.0.0" or
	// ">=v1.1.0, <v2.0.0".
	Version string `yaml:"version,omitempty"`

	// Aliases maps extra native type tags onto modeled ones.
	Aliases map[string]string `yaml:"aliases,omitempty"`
}

// LogConfig selects the diagnostic handler.
type LogConfig struct {
	Verbose bool   `yaml:"verbose,omitempty"`
	Handler string `yaml:"handler,omitempty"`
	Level   string `yaml:"level,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root       string
	ModulePath string
	AppID      string
	Dispatch   DispatchConfig
	Log        LogConfig
}

// LoadOptional reads gbind.yaml if present.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}

	return &cfg, nil
}

// Resolve loads gbind.yaml (if present) and resolves defaults. A go.mod in
// dir is optional; when present its module path seeds the default app ID.
func Resolve(dir string) (*Resolved, error) {
	modulePath, err := modulePath(dir)
	if err != nil {
		return nil, err
	}

	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}

	appID := strings.TrimSpace(cfg.App.ID)
	if appID == "" {
		appID = defaultAppID(modulePath, filepath.Base(dir))
	}
	if err := ValidateAppID(appID); err != nil {
		return nil, err
	}

	logCfg := cfg.Log
	logCfg.Handler = strings.ToLower(strings.TrimSpace(logCfg.Handler))
	if logCfg.Handler == "" {
		logCfg.Handler = "stderr"
	}
	if logCfg.Handler != "stderr" && logCfg.Handler != "zap" {
		return nil, fmt.Errorf("log.handler must be stderr or zap (got %q)", cfg.Log.Handler)
	}
	if logCfg.Level == "" {
		logCfg.Level = "info"
	}
	if _, err := zapcore.ParseLevel(logCfg.Level); err != nil {
		return nil, fmt.Errorf("log.level: %w", err)
	}

	if _, err := parseConstraint(cfg.Dispatch.Version); err != nil {
		return nil, err
	}

	return &Resolved{
		Root:       dir,
		ModulePath: modulePath,
		AppID:      appID,
		Dispatch:   cfg.Dispatch,
		Log:        logCfg,
	}, nil
}

// FindProjectRoot walks up from the current directory to find gbind.yaml or
// go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		for _, name := range []string{FileName, "go.mod"} {
			if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s or go.mod found", FileName)
		}
		dir = parent
	}
}

// CheckVersion reports whether version satisfies the dispatch.version
// constraint. An empty constraint accepts every version.
func (r *Resolved) CheckVersion(version string) error {
	cons, err := parseConstraint(r.Dispatch.Version)
	if err != nil {
		return err
	}
	for _, c := range cons {
		if !c.allows(version) {
			return fmt.Errorf("dispatch table %s does not satisfy %q", version, r.Dispatch.Version)
		}
	}
	return nil
}

// Apply checks the table version and installs the configured aliases.
// Every problem is reported as a config diagnostic; the returned error joins
// them. Valid aliases are installed even when others fail.
func (r *Resolved) Apply(table *widgets.DispatchTable) error {
	var errs []error
	if err := r.CheckVersion(table.Version()); err != nil {
		errs = append(errs, err)
	}

	aliases := make([]string, 0, len(r.Dispatch.Aliases))
	for alias := range r.Dispatch.Aliases {
		aliases = append(aliases, alias)
	}
	slices.Sort(aliases)
	for _, alias := range aliases {
		if err := table.Alias(alias, r.Dispatch.Aliases[alias]); err != nil {
			errs = append(errs, fmt.Errorf("dispatch.aliases: %w", err))
		}
	}

	for _, err := range errs {
		binderrors.Report(&binderrors.BindError{
			Op:   "config.Apply",
			Kind: binderrors.KindConfig,
			Err:  err,
		})
	}
	return errors.Join(errs...)
}

// Handler builds the diagnostic handler selected by log.handler. The zap
// logger is returned so the caller can sync it on exit; it is nil for the
// stderr handler.
func (r *Resolved) Handler() (binderrors.ErrorHandler, *zap.Logger, error) {
	if r.Log.Handler != "zap" {
		return &binderrors.LogHandler{Verbose: r.Log.Verbose}, nil, nil
	}
	level, err := zapcore.ParseLevel(r.Log.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("log.level: %w", err)
	}
	zcfg := zap.NewProductionConfig()
	if r.Log.Verbose {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	logger, err := zcfg.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build zap logger: %w", err)
	}
	h := binderrors.NewZapHandler(logger.Named("gbind"))
	h.Stacks = r.Log.Verbose
	return h, logger, nil
}

func modulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read go.mod: %w", err)
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", fmt.Errorf("could not determine module path from go.mod")
	}
	return path, nil
}

func defaultAppID(modulePath, dirName string) string {
	name := dirName
	if modName, _, ok := module.SplitPathVersion(modulePath); ok && modName != "" {
		parts := strings.Split(modName, "/")
		name = parts[len(parts)-1]
	}

	parts := strings.Split(modulePath, "/")
	if len(parts) < 2 || !strings.Contains(parts[0], ".") {
		return "org.example." + sanitizeSegment(name)
	}

	host := strings.Split(parts[0], ".")
	slices.Reverse(host)
	segments := host
	for _, p := range parts[1:] {
		if p != "" {
			segments = append(segments, p)
		}
	}
	for i, segment := range segments {
		segments[i] = sanitizeSegment(segment)
	}
	return strings.Join(segments, ".")
}

func sanitizeSegment(segment string) string {
	var out []rune
	for _, r := range strings.TrimSpace(segment) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			out = append(out, r)
		case r == '-' || r == '.':
			out = append(out, '_')
		}
	}
	if len(out) == 0 {
		return "app"
	}
	if out[0] >= '0' && out[0] <= '9' {
		out = append([]rune{'_'}, out...)
	}
	return string(out)
}

// ValidateAppID checks id against the toolkit's application identifier rules:
// at least two dot-separated segments of [A-Za-z0-9_-], no segment starting
// with a digit, at most 255 bytes.
func ValidateAppID(id string) error {
	if len(id) > 255 {
		return fmt.Errorf("app.id is longer than 255 bytes")
	}
	segments := strings.Split(id, ".")
	if len(segments) < 2 {
		return fmt.Errorf("app.id must contain at least one '.' (got %q)", id)
	}
	for _, segment := range segments {
		if segment == "" {
			return fmt.Errorf("app.id contains an empty segment (%q)", id)
		}
		if segment[0] >= '0' && segment[0] <= '9' {
			return fmt.Errorf("app.id segments cannot start with a digit (%q)", id)
		}
		for _, r := range segment {
			if !(r == '_' || r == '-' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
				return fmt.Errorf("app.id contains invalid character %q in %q", r, id)
			}
		}
	}
	return nil
}
