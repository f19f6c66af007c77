// Package config loads typed configuration from an optional file, .env files
// and the process environment, backed by viper.
package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the current value of T and notifies watchers when the backing
// file changes.
type Config[T any] struct {
	v        *viper.Viper
	value    *T
	mu       sync.RWMutex
	watchers []func(old, new T)

	dotenv []string
	watch  bool

	debounceMu    sync.Mutex
	debounceTimer *time.Timer
	closed        bool
}

type Option[T any] func(*Config[T])

func WithDefaults[T any](defaults map[string]any) Option[T] {
	return func(c *Config[T]) {
		for k, v := range defaults {
			c.v.SetDefault(k, v)
		}
	}
}

// WithEnv reads PREFIX_KEY variables, with "." in nested keys mapped to "_".
func WithEnv[T any](prefix string) Option[T] {
	return func(c *Config[T]) {
		c.v.SetEnvPrefix(prefix)
		c.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		c.v.AutomaticEnv()
	}
}

// WithBindings binds keys to environment variables explicitly. Unmarshal only
// sees environment values for keys viper already knows about, so keys without
// a default or a file entry need a binding.
func WithBindings[T any](keys ...string) Option[T] {
	return func(c *Config[T]) {
		for _, k := range keys {
			_ = c.v.BindEnv(k)
		}
	}
}

// WithDotEnv loads variables from .env files before reading the environment.
// Missing files are ignored and variables already set in the process win.
func WithDotEnv[T any](paths ...string) Option[T] {
	return func(c *Config[T]) {
		c.dotenv = append(c.dotenv, paths...)
	}
}

// WithWatch reloads the configuration when the file changes. viper's file
// watcher cannot be stopped and lives as long as the process; Close only stops
// reloads and OnChange callbacks.
func WithWatch[T any]() Option[T] {
	return func(c *Config[T]) { c.watch = true }
}

// Load reads the file at path, overlaid with the environment.
func Load[T any](path string, opts ...Option[T]) (*Config[T], error) {
	v := viper.New()
	v.SetConfigFile(path)

	c := &Config[T]{v: v}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.loadDotEnv(); err != nil {
		return nil, err
	}
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	if err := c.unmarshal(); err != nil {
		return nil, err
	}
	if c.watch {
		c.startWatch()
	}
	return c, nil
}

// LoadEnv builds the configuration from defaults and the environment only.
func LoadEnv[T any](opts ...Option[T]) (*Config[T], error) {
	c := &Config[T]{v: viper.New()}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.loadDotEnv(); err != nil {
		return nil, err
	}
	if err := c.unmarshal(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config[T]) loadDotEnv() error {
	for _, p := range c.dotenv {
		if p == "" {
			continue
		}
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

func (c *Config[T]) unmarshal() error {
	var val T
	if err := c.v.Unmarshal(&val); err != nil {
		return err
	}
	c.mu.Lock()
	c.value = &val
	c.mu.Unlock()
	return nil
}

// Get returns a deep copy of the current value. Safe for concurrent use.
func (c *Config[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return deepCopy(*c.value)
}

func (c *Config[T]) OnChange(callback func(old, new T)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.watchers = append(c.watchers, callback)
}

// Changed reports whether two values differ.
func Changed[T any](old, new T) bool {
	return !reflect.DeepEqual(old, new)
}

// deepCopy round-trips through JSON, so unexported fields are dropped.
func deepCopy[T any](src T) T {
	var dst T
	data, _ := json.Marshal(src)
	_ = json.Unmarshal(data, &dst)
	return dst
}

func (c *Config[T]) startWatch() {
	c.v.OnConfigChange(func(_ fsnotify.Event) {
		c.debounceMu.Lock()
		defer c.debounceMu.Unlock()
		if c.closed {
			return
		}
		if c.debounceTimer != nil {
			c.debounceTimer.Stop()
		}
		c.debounceTimer = time.AfterFunc(100*time.Millisecond, c.handleConfigChange)
	})

	c.v.WatchConfig()
}

// Close stops reloading and notifying. Later file changes are ignored and
// Get keeps returning the last loaded value. It is safe to call more than once.
func (c *Config[T]) Close() error {
	c.debounceMu.Lock()
	defer c.debounceMu.Unlock()
	c.closed = true
	if c.debounceTimer != nil {
		c.debounceTimer.Stop()
		c.debounceTimer = nil
	}
	return nil
}

func (c *Config[T]) isClosed() bool {
	c.debounceMu.Lock()
	defer c.debounceMu.Unlock()
	return c.closed
}

func (c *Config[T]) handleConfigChange() {
	if c.isClosed() {
		return
	}
	oldConfig := c.Get()

	newConfig, watchers, ok := c.reloadConfig()
	if !ok || reflect.DeepEqual(oldConfig, newConfig) {
		return
	}

	for _, cb := range watchers {
		func() {
			defer func() { _ = recover() }()
			cb(oldConfig, newConfig)
		}()
	}
}

// reloadConfig returns the new value, a snapshot of the watchers and whether
// the reload succeeded. A broken file keeps the previous value.
func (c *Config[T]) reloadConfig() (T, []func(old, new T), bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	if err := c.v.ReadInConfig(); err != nil {
		return zero, nil, false
	}
	var val T
	if err := c.v.Unmarshal(&val); err != nil {
		return zero, nil, false
	}
	c.value = &val

	watchers := make([]func(old, new T), len(c.watchers))
	copy(watchers, c.watchers)

	return deepCopy(val), watchers, true
}
