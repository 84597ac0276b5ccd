package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/trackmap/pkg/errors"
	"github.com/matzehuels/trackmap/pkg/persist"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Editor.GridSize != 30 || cfg.Editor.HistoryLimit != 100 {
		t.Errorf("editor = %+v", cfg.Editor)
	}
	if cfg.Storage.Backend != persist.BackendFile || cfg.Storage.Cache != "file" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestDecodeFile(t *testing.T) {
	path := writeFile(t, "config.toml", `
project = "7"

[settings]
tracker_width = 50
padding = 4

[editor]
grid_size = 20

[storage]
backend = "sqlite"
sqlite_path = "/tmp/fields.db"
cache = "none"
cache_ttl = "90s"

[remote]
url = "https://fields.example.com"
timeout = "5s"
`)
	cfg := Default()
	if err := cfg.decodeFile(path); err != nil {
		t.Fatalf("decodeFile: %v", err)
	}
	if cfg.Project != "7" || cfg.Settings.TrackerWidth != 50 || cfg.Settings.Gap != 10 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Editor.GridSize != 20 || cfg.Editor.HistoryLimit != 100 {
		t.Errorf("editor = %+v", cfg.Editor)
	}
	if cfg.Storage.Backend != "sqlite" || cfg.Storage.SQLitePath != "/tmp/fields.db" || cfg.Storage.CacheTTL != 90*time.Second {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if cfg.Remote.Timeout != 5*time.Second {
		t.Errorf("remote = %+v", cfg.Remote)
	}
	if got := cfg.DocumentSettings(); got.TrackerWidth != 50 || got.Padding != 4 || got.StakeSize != 20 {
		t.Errorf("DocumentSettings() = %+v", got)
	}
}

func TestDecodeFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    errors.Code
	}{
		{"syntax", "project = ", errors.ErrCodeInvalidFormat},
		{"unknown key", "[editor]\nzoom = 2\n", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			err := cfg.decodeFile(writeFile(t, "c.toml", tt.content))
			if !errors.Is(err, tt.code) {
				t.Errorf("decodeFile() = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestDecodeMissingFile(t *testing.T) {
	cfg := Default()
	if err := cfg.decodeFile(filepath.Join(t.TempDir(), "absent.toml")); err != nil {
		t.Errorf("missing file should be ignored, got %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"TRACKMAP_BACKEND":       "redis",
		"TRACKMAP_REDIS_URL":     "redis://localhost:6379/0",
		"TRACKMAP_CACHE_TTL":     "1h",
		"TRACKMAP_GRID_SIZE":     "15",
		"TRACKMAP_HISTORY_LIMIT": "10",
		"TRACKMAP_ADDR":          ":9000",
	}
	dotenv := map[string]string{
		"TRACKMAP_ADDR":    ":1",
		"TRACKMAP_PROJECT": "from-dotenv",
	}
	cfg := Default()
	if err := cfg.applyEnv(chain(mapLookup(env), mapLookup(dotenv))); err != nil {
		t.Fatalf("applyEnv: %v", err)
	}
	if cfg.Storage.Backend != "redis" || cfg.Storage.CacheTTL != time.Hour {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if cfg.Editor.GridSize != 15 || cfg.Editor.HistoryLimit != 10 {
		t.Errorf("editor = %+v", cfg.Editor)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("Addr = %q, the environment must win over .env", cfg.Server.Addr)
	}
	if cfg.Project != "from-dotenv" {
		t.Errorf("Project = %q", cfg.Project)
	}
}

func TestApplyEnvErrors(t *testing.T) {
	for _, k := range []string{"TRACKMAP_CACHE_TTL", "TRACKMAP_GRID_SIZE", "TRACKMAP_HISTORY_LIMIT"} {
		cfg := Default()
		err := cfg.applyEnv(mapLookup(map[string]string{k: "lots"}))
		if !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("%s=lots: %v", k, err)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative grid", func(c *Config) { c.Editor.GridSize = -1 }},
		{"negative history", func(c *Config) { c.Editor.HistoryLimit = -1 }},
		{"unknown cache", func(c *Config) { c.Storage.Cache = "memcached" }},
		{"bad remote", func(c *Config) { c.Remote.URL = "fields.example.com" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if cfg.Validate() == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestEncodeMasksToken(t *testing.T) {
	cfg := Default()
	cfg.Remote.Token = "s3cret"
	var buf bytes.Buffer
	if err := cfg.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "s3cret") {
		t.Error("Encode() leaked the token")
	}
	if !strings.Contains(out, "[editor]") || !strings.Contains(out, "grid_size = 30.0") {
		t.Errorf("Encode() =\n%s", out)
	}
}

func TestOpenAdapterLocal(t *testing.T) {
	cfg := Default()
	cfg.Storage.Backend = persist.BackendMemory
	cfg.Storage.Cache = "none"

	a, closer, err := cfg.OpenAdapter(context.Background())
	if err != nil {
		t.Fatalf("OpenAdapter: %v", err)
	}
	defer closer.Close()
	if a == nil {
		t.Fatal("OpenAdapter() = nil")
	}
}

func TestOpenRemoteHTTP(t *testing.T) {
	cfg := Default()
	cfg.Remote.URL = "https://fields.example.com"
	r, closer, err := cfg.OpenRemote(context.Background())
	if err != nil {
		t.Fatalf("OpenRemote: %v", err)
	}
	defer closer.Close()
	if _, ok := r.(*persist.HTTPRemote); !ok {
		t.Errorf("OpenRemote() = %T, want *persist.HTTPRemote", r)
	}
}

func TestCacheScope(t *testing.T) {
	local := Default()
	local.Storage.Backend = persist.BackendSQLite
	if got := local.cacheScope(); got != "local:sqlite:" {
		t.Errorf("cacheScope() = %q", got)
	}

	a, b := Default(), Default()
	a.Remote.URL = "https://a.example.com"
	b.Remote.URL = "https://b.example.com"
	if a.cacheScope() == b.cacheScope() {
		t.Error("different remotes must not share a cache scope")
	}
	if !strings.HasPrefix(a.cacheScope(), "remote:") {
		t.Errorf("cacheScope() = %q, want remote: prefix", a.cacheScope())
	}
}
