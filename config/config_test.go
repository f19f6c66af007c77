package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type testConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
	Server  struct {
		Port int `mapstructure:"port"`
	} `mapstructure:"server"`
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadEnv_Bindings(t *testing.T) {
	t.Setenv("CGTEST_API_KEY", "from-env")
	t.Setenv("CGTEST_TIMEOUT", "3s")

	c, err := LoadEnv[testConfig](
		WithEnv[testConfig]("CGTEST"),
		WithBindings[testConfig]("api_key", "timeout"),
	)
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	got := c.Get()
	if got.APIKey != "from-env" {
		t.Fatalf("APIKey = %q", got.APIKey)
	}
	if got.Timeout != 3*time.Second {
		t.Fatalf("Timeout = %s", got.Timeout)
	}
}

func TestLoadEnv_DotEnv(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, ".env", "CGDOT_API_KEY=from-dotenv\n")
	t.Setenv("CGDOT_API_KEY", "")
	os.Unsetenv("CGDOT_API_KEY")

	c, err := LoadEnv[testConfig](
		WithEnv[testConfig]("CGDOT"),
		WithBindings[testConfig]("api_key"),
		WithDotEnv[testConfig](p, filepath.Join(dir, "missing.env")),
	)
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if got := c.Get().APIKey; got != "from-dotenv" {
		t.Fatalf("APIKey = %q", got)
	}
}

func TestLoadEnv_ProcessEnvWinsOverDotEnv(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, ".env", "CGWIN_API_KEY=from-dotenv\n")
	t.Setenv("CGWIN_API_KEY", "from-process")

	c, err := LoadEnv[testConfig](
		WithEnv[testConfig]("CGWIN"),
		WithBindings[testConfig]("api_key"),
		WithDotEnv[testConfig](p),
	)
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if got := c.Get().APIKey; got != "from-process" {
		t.Fatalf("APIKey = %q", got)
	}
}

func TestLoad_FileWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "config.yaml", "api_key: from-file\nserver:\n  port: 8080\n")
	t.Setenv("CGFILE_SERVER_PORT", "9090")

	c, err := Load[testConfig](p,
		WithEnv[testConfig]("CGFILE"),
		WithDefaults[testConfig](map[string]any{"timeout": "1s"}),
	)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := c.Get()
	if got.APIKey != "from-file" {
		t.Fatalf("APIKey = %q", got.APIKey)
	}
	if got.Server.Port != 9090 {
		t.Fatalf("Server.Port = %d", got.Server.Port)
	}
	if got.Timeout != time.Second {
		t.Fatalf("Timeout = %s", got.Timeout)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load[testConfig](filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestGet_ReturnsCopy(t *testing.T) {
	type withMap struct {
		Headers map[string]string `mapstructure:"headers"`
	}
	p := writeFile(t, t.TempDir(), "c.yaml", "headers:\n  accept: application/json\n")
	c, err := Load[withMap](p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	v := c.Get()
	v.Headers["accept"] = "text/plain"
	if got := c.Get().Headers["accept"]; got != "application/json" {
		t.Fatalf("stored value mutated through copy: %q", got)
	}
}

func TestChanged(t *testing.T) {
	if Changed(1, 1) {
		t.Fatalf("Changed(1, 1) = true")
	}
	if !Changed("a", "b") {
		t.Fatalf("Changed(a, b) = false")
	}
}

func TestWatch_OnChange(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "config.yaml", "api_key: one\n")

	c, err := Load[testConfig](p, WithWatch[testConfig]())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	changed := make(chan testConfig, 1)
	c.OnChange(func(old, new testConfig) {
		select {
		case changed <- new:
		default:
		}
	})

	writeFile(t, dir, "config.yaml", "api_key: two\n")

	select {
	case got := <-changed:
		if got.APIKey != "two" {
			t.Fatalf("APIKey = %q", got.APIKey)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("no change notification")
	}
	if got := c.Get().APIKey; got != "two" {
		t.Fatalf("Get().APIKey = %q", got)
	}
}

func TestWatch_CloseStopsReloads(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "config.yaml", "api_key: one\n")

	c, err := Load[testConfig](p, WithWatch[testConfig]())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	changed := make(chan struct{}, 1)
	c.OnChange(func(old, new testConfig) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})

	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	writeFile(t, dir, "config.yaml", "api_key: two\n")

	select {
	case <-changed:
		t.Fatalf("OnChange fired after Close")
	case <-time.After(500 * time.Millisecond):
	}
	if got := c.Get().APIKey; got != "one" {
		t.Fatalf("Get().APIKey = %q, want one", got)
	}
}
