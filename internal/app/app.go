// Package app wires configuration, the language registry, Lua plugins, and
// the action dispatcher into the reflow application.
package app

import (
	"fmt"
	"os"
	"sync"

	"github.com/dshills/argfill/internal/config"
	"github.com/dshills/argfill/internal/dispatcher"
	"github.com/dshills/argfill/internal/dispatcher/execctx"
	"github.com/dshills/argfill/internal/dispatcher/handler"
	reflowhandler "github.com/dshills/argfill/internal/dispatcher/handlers/reflow"
	"github.com/dshills/argfill/internal/engine/buffer"
	"github.com/dshills/argfill/internal/engine/cursor"
	"github.com/dshills/argfill/internal/plugin/lua"
	"github.com/dshills/argfill/internal/scan"
)

// Options configures application startup.
type Options struct {
	// ConfigPath is the TOML configuration file. Empty uses defaults.
	ConfigPath string

	// PluginDir overrides the configured Lua plugin directory.
	PluginDir string

	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string

	// WatchConfig reloads the configuration when the file changes. Only
	// useful for long-running hosts.
	WatchConfig bool
}

// App is the assembled application.
type App struct {
	mu       sync.RWMutex
	cfg      *config.Config
	registry *scan.Registry
	dispatch *dispatcher.Dispatcher
	luaState *lua.State
	watcher  *config.Watcher
	logger   *Logger
}

// New builds an App from options: configuration, builtin and pack
// languages, plugin scripts, and the dispatcher.
func New(opts Options) (*App, error) {
	logger := NewLogger(ParseLogLevel(opts.LogLevel), nil)

	cfg := config.Default()
	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	a := &App{
		cfg:      cfg,
		registry: scan.NewRegistryWithBuiltins(),
		dispatch: dispatcher.New(),
		logger:   logger,
	}

	if err := a.loadLanguages(cfg); err != nil {
		return nil, err
	}

	pluginDir := opts.PluginDir
	if pluginDir == "" {
		pluginDir = cfg.PluginDir
	}
	if pluginDir != "" {
		a.luaState = lua.NewState()
		lua.NewBridge(a.registry).Register(a.luaState)
		if err := a.luaState.LoadDir(pluginDir); err != nil {
			a.luaState.Close()
			return nil, err
		}
	}

	a.dispatch.RegisterNamespace(reflowhandler.NewHandler())
	a.dispatch.AddHook(&logHook{logger: logger})

	if opts.WatchConfig && opts.ConfigPath != "" {
		w, err := config.NewWatcher(opts.ConfigPath, a.setConfig, func(err error) {
			logger.Warn("config reload failed: %v", err)
		})
		if err != nil {
			return nil, err
		}
		a.watcher = w
	}

	return a, nil
}

// Shutdown releases plugin and watcher resources. Safe on all exit paths.
func (a *App) Shutdown() {
	if a.watcher != nil {
		a.watcher.Close()
	}
	if a.luaState != nil {
		a.luaState.Close()
	}
}

// Config returns the current configuration snapshot.
func (a *App) Config() *config.Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cfg
}

// Registry returns the language registry.
func (a *App) Registry() *scan.Registry {
	return a.registry
}

// Logger returns the application logger.
func (a *App) Logger() *Logger {
	return a.logger
}

// LanguageFor resolves the language to use: an explicit name wins, then the
// file extension, then plain text.
func (a *App) LanguageFor(name, path string) (*scan.Language, error) {
	if name != "" {
		lang, ok := a.registry.Get(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownLanguage, name)
		}
		return lang, nil
	}
	return a.registry.ForFile(path), nil
}

// Process runs one action over src with the cursor at offset and returns
// the resulting text alongside the handler result.
func (a *App) Process(src string, lang *scan.Language, offset buffer.ByteOffset, action string) (string, handler.Result) {
	cfg := a.Config()

	buf := buffer.NewBufferFromString(src, buffer.WithLineEnding(buffer.DetectLineEnding(src)))
	ctx := execctx.New(buf, cursor.NewTracker(offset))
	ctx.Language = lang
	ctx.Policy = cfg.Policy()
	ctx.IndentUnit = cfg.IndentUnit()

	res := a.dispatch.Dispatch(handler.Action{Name: action}, ctx)
	return buf.Text(), res
}

// ProcessFile runs one action over the contents of path. When write is set
// and the action changed the text, the file is rewritten in place.
func (a *App) ProcessFile(path string, offset buffer.ByteOffset, action string, langName string, write bool) (string, handler.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", handler.Result{}, fmt.Errorf("reading %s: %w", path, err)
	}
	lang, err := a.LanguageFor(langName, path)
	if err != nil {
		return "", handler.Result{}, err
	}

	out, res := a.Process(string(data), lang, offset, action)
	if write && res.IsOK() && out != string(data) {
		info, err := os.Stat(path)
		if err != nil {
			return out, res, err
		}
		if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
			return out, res, fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return out, res, nil
}

// loadLanguages loads language packs and applies per-language separator
// overrides from the configuration.
func (a *App) loadLanguages(cfg *config.Config) error {
	for _, pack := range cfg.LanguagePacks {
		if err := a.registry.LoadPack(pack); err != nil {
			return err
		}
	}
	for name, ov := range cfg.Languages {
		lang, ok := a.registry.Get(name)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownLanguage, name)
		}
		updated := *lang
		updated.Separator = ov.Separator
		updated.SeparatorIsPattern = ov.SeparatorIsPattern
		a.registry.Register(&updated)
	}
	return nil
}

// setConfig swaps in a reloaded configuration.
func (a *App) setConfig(cfg *config.Config) {
	a.mu.Lock()
	a.cfg = cfg
	a.mu.Unlock()
	if err := a.loadLanguages(cfg); err != nil {
		a.logger.Warn("config reload: %v", err)
		return
	}
	a.logger.Info("configuration reloaded")
}

// logHook logs every dispatch.
type logHook struct {
	logger *Logger
}

func (h *logHook) Before(action handler.Action) {
	h.logger.Debug("dispatch %s", action.Name)
}

func (h *logHook) After(action handler.Action, result handler.Result) {
	if result.IsError() {
		h.logger.Error("%s: %v", action.Name, result.Error)
		return
	}
	h.logger.Debug("%s: %s", action.Name, result.Status)
}
