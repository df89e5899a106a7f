// Package hooks implements the orion build-hook plugin host.
// Plugins are loaded from ~/.orion/plugins/ as Go shared objects (.so files).
// Each .so must export an "OrionPlugin" symbol implementing api/v1.HookPluginV1.
package hooks

import (
	"context"
	"fmt"
	"path/filepath"
	"plugin"
	"sync"

	v1 "github.com/peaqe/orion-utils/api/v1"
	"github.com/peaqe/orion-utils/internal/core/logger"
)

// Host manages plugin lifecycle and hook dispatch.
type Host struct {
	mu      sync.RWMutex
	plugins map[string]v1.HookPluginV1 // name → plugin
	hooks   map[string][]v1.HookFunc   // hookName → ordered list
	log     *logger.Logger
}

// NewHost creates and returns an empty plugin host.
func NewHost(log *logger.Logger) *Host {
	if log == nil {
		log = logger.Nop()
	}
	return &Host{
		plugins: make(map[string]v1.HookPluginV1),
		hooks:   make(map[string][]v1.HookFunc),
		log:     log,
	}
}

// LoadDir scans dir for *.so files and attempts to load each as an orion plugin.
// Load failures are logged and skipped — they never abort the host startup.
func (h *Host) LoadDir(dir string) error {
	matches, err := filepath.Glob(filepath.Join(dir, "*.so"))
	if err != nil {
		return fmt.Errorf("glob plugins: %w", err)
	}

	for _, path := range matches {
		if err := h.loadPlugin(path); err != nil {
			h.log.Warn("plugin load failed, skipping",
				"path", path,
				"err", err,
			)
		}
	}
	return nil
}

// Register adds an in-process plugin without going through a shared object.
// Library consumers use this to hook the build pipeline directly.
func (h *Host) Register(impl v1.HookPluginV1) error {
	if impl.APIVersion() != v1.HookAPIVersion {
		return fmt.Errorf("API version mismatch: plugin=%q, host=%q",
			impl.APIVersion(), v1.HookAPIVersion)
	}
	if err := impl.Init(nil); err != nil {
		return fmt.Errorf("plugin Init() failed: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	name := impl.Name()
	h.plugins[name] = impl
	for hookName, fn := range impl.Hooks() {
		h.hooks[hookName] = append(h.hooks[hookName], fn)
	}
	return nil
}

// loadPlugin opens a single .so file and registers its hooks.
func (h *Host) loadPlugin(path string) (retErr error) {
	// Recover from plugin panics so a bad .so never crashes orion
	defer func() {
		if r := recover(); r != nil {
			retErr = fmt.Errorf("plugin panicked during load: %v", r)
		}
	}()

	p, err := plugin.Open(path)
	if err != nil {
		return fmt.Errorf("open shared object: %w", err)
	}

	sym, err := p.Lookup("OrionPlugin")
	if err != nil {
		return fmt.Errorf("symbol OrionPlugin not found: %w", err)
	}

	impl, ok := sym.(v1.HookPluginV1)
	if !ok {
		return fmt.Errorf("OrionPlugin does not implement HookPluginV1")
	}

	if err := h.Register(impl); err != nil {
		return err
	}

	h.log.Info("plugin loaded", "name", impl.Name(), "api_version", impl.APIVersion())
	return nil
}

// Fire dispatches a named hook to all registered plugins.
// Plugin errors are logged but do not prevent subsequent plugins from running.
// The context may be used to cancel long-running hook implementations.
func (h *Host) Fire(ctx context.Context, hookName string, hctx v1.HookContext) {
	h.mu.RLock()
	fns := h.hooks[hookName]
	h.mu.RUnlock()

	for _, fn := range fns {
		select {
		case <-ctx.Done():
			return
		default:
		}

		func(f v1.HookFunc) {
			defer func() {
				if r := recover(); r != nil {
					h.log.Error("plugin hook panicked",
						"hook", hookName,
						"panic", fmt.Sprintf("%v", r),
					)
				}
			}()
			if err := f(hctx); err != nil {
				h.log.Warn("plugin hook returned error",
					"hook", hookName,
					"err", err,
				)
			}
		}(fn)
	}
}

// Shutdown calls Shutdown() on every loaded plugin.
func (h *Host) Shutdown() {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for name, p := range h.plugins {
		if err := p.Shutdown(); err != nil {
			h.log.Warn("plugin shutdown error", "name", name, "err", err)
		}
	}
}

// List returns the names of all loaded plugins.
func (h *Host) List() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, 0, len(h.plugins))
	for name := range h.plugins {
		names = append(names, name)
	}
	return names
}
