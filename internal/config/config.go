// Package config loads trackmap configuration.
//
// Values are layered, later layers winning:
//
//  1. built-in defaults
//  2. the TOML file ($TRACKMAP_CONFIG, else $XDG_CONFIG_HOME/trackmap/config.toml)
//  3. a .env file in the working directory
//  4. TRACKMAP_* environment variables
//
// Command-line flags are applied on top by the CLI.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/trackmap/pkg/document"
	"github.com/matzehuels/trackmap/pkg/errors"
	"github.com/matzehuels/trackmap/pkg/payload"
	"github.com/matzehuels/trackmap/pkg/persist"
	"github.com/matzehuels/trackmap/pkg/sizing"
)

// Config is the full configuration.
type Config struct {
	Project  string   `toml:"project"`
	Settings Settings `toml:"settings"`
	Editor   Editor   `toml:"editor"`
	Storage  Storage  `toml:"storage"`
	Remote   Remote   `toml:"remote"`
	Server   Server   `toml:"server"`
}

// Settings are the geometry settings given to new documents.
type Settings struct {
	TrackerWidth   float64 `toml:"tracker_width"`
	Gap            float64 `toml:"gap"`
	Padding        float64 `toml:"padding"`
	ContourPadding float64 `toml:"contour_padding"`
	StakeSize      float64 `toml:"stake_size"`
	StakeGap       float64 `toml:"stake_gap"`
}

// Editor tunes the interactive editor.
type Editor struct {
	GridSize     float64 `toml:"grid_size"`
	HistoryLimit int     `toml:"history_limit"`
}

// Storage selects the persistence backend and the field cache.
type Storage struct {
	persist.Config
	Cache    string        `toml:"cache"` // none, file or redis
	CacheDir string        `toml:"cache_dir"`
	CacheTTL time.Duration `toml:"cache_ttl"`
}

// Remote points the CLI at a field API server. When URL is empty the CLI
// works against the local storage backend.
type Remote struct {
	URL     string        `toml:"url"`
	Token   string        `toml:"token"`
	Timeout time.Duration `toml:"timeout"`
}

// Server configures `trackmap serve`.
type Server struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	st := payload.DefaultSettings()
	return Config{
		Settings: Settings{
			TrackerWidth:   st.TrackerWidth,
			Gap:            st.Gap,
			Padding:        st.Padding,
			ContourPadding: st.ContourPadding,
			StakeSize:      st.StakeSize,
			StakeGap:       st.StakeGap,
		},
		Editor: Editor{
			GridSize:     sizing.DefaultGridSize,
			HistoryLimit: document.DefaultHistoryLimit,
		},
		Storage: Storage{
			Config:   persist.Config{Backend: persist.BackendFile},
			Cache:    "file",
			CacheTTL: persist.DefaultCacheTTL,
		},
		Remote: Remote{Timeout: 15 * time.Second},
		Server: Server{Addr: ":8080"},
	}
}

// Path returns the configuration file location.
func Path() string {
	if p := os.Getenv("TRACKMAP_CONFIG"); p != "" {
		return p
	}
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".", "trackmap.toml")
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "trackmap", "config.toml")
}

// Load reads the file at path (a missing file is not an error), then the
// .env file in the working directory, then the process environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if err := cfg.decodeFile(path); err != nil {
		return cfg, err
	}
	dotenv, err := godotenv.Read()
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("read .env: %w", err)
	}
	if err := cfg.applyEnv(chain(os.LookupEnv, mapLookup(dotenv))); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) decodeFile(path string) error {
	if path == "" {
		return nil
	}
	md, err := toml.DecodeFile(path, c)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errors.New(errors.ErrCodeInvalidInput, "%s: unknown key %q", path, undecoded[0].String())
	}
	return nil
}

// Validate rejects values no component can work with.
func (c Config) Validate() error {
	if c.Editor.GridSize < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "editor.grid_size must not be negative")
	}
	if c.Editor.HistoryLimit < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "editor.history_limit must not be negative")
	}
	switch c.Storage.Cache {
	case "", "none", "file", "redis":
	default:
		return errors.New(errors.ErrCodeInvalidInput, "storage.cache must be none, file or redis, got %q", c.Storage.Cache)
	}
	if c.Remote.URL != "" {
		if err := errors.ValidateURL(c.Remote.URL); err != nil {
			return err
		}
	}
	return nil
}

// DocumentSettings converts the geometry settings to their wire form.
func (c Config) DocumentSettings() payload.Settings {
	s := c.Settings
	return payload.Settings{
		TrackerWidth:   s.TrackerWidth,
		Gap:            s.Gap,
		Padding:        s.Padding,
		ContourPadding: s.ContourPadding,
		StakeSize:      s.StakeSize,
		StakeGap:       s.StakeGap,
	}.WithDefaults()
}

// DocumentOptions returns the store options implied by the configuration.
func (c Config) DocumentOptions() []document.Option {
	return []document.Option{
		document.WithSettings(c.DocumentSettings()),
		document.WithGridSize(c.Editor.GridSize),
		document.WithHistoryLimit(c.Editor.HistoryLimit),
	}
}

// Encode writes the configuration as TOML.
func (c Config) Encode(w io.Writer) error {
	out := c
	if out.Remote.Token != "" {
		out.Remote.Token = "********"
	}
	return toml.NewEncoder(w).Encode(out)
}

// =============================================================================
// Environment
// =============================================================================

type lookupFunc func(string) (string, bool)

func mapLookup(m map[string]string) lookupFunc {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

// chain consults each lookup in turn.
func chain(fns ...lookupFunc) lookupFunc {
	return func(k string) (string, bool) {
		for _, fn := range fns {
			if v, ok := fn(k); ok {
				return v, true
			}
		}
		return "", false
	}
}

func (c *Config) applyEnv(lookup lookupFunc) error {
	str := map[string]*string{
		"TRACKMAP_PROJECT":      &c.Project,
		"TRACKMAP_BACKEND":      &c.Storage.Backend,
		"TRACKMAP_DATA_DIR":     &c.Storage.Path,
		"TRACKMAP_SQLITE_PATH":  &c.Storage.SQLitePath,
		"TRACKMAP_REDIS_URL":    &c.Storage.RedisURL,
		"TRACKMAP_MONGO_URI":    &c.Storage.MongoURI,
		"TRACKMAP_MONGO_DB":     &c.Storage.MongoDatabase,
		"TRACKMAP_CACHE":        &c.Storage.Cache,
		"TRACKMAP_CACHE_DIR":    &c.Storage.CacheDir,
		"TRACKMAP_REMOTE_URL":   &c.Remote.URL,
		"TRACKMAP_REMOTE_TOKEN": &c.Remote.Token,
		"TRACKMAP_ADDR":         &c.Server.Addr,
	}
	for k, p := range str {
		if v, ok := lookup(k); ok {
			*p = v
		}
	}

	dur := map[string]*time.Duration{
		"TRACKMAP_CACHE_TTL":      &c.Storage.CacheTTL,
		"TRACKMAP_REMOTE_TIMEOUT": &c.Remote.Timeout,
	}
	for k, p := range dur {
		if v, ok := lookup(k); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "%s", k)
			}
			*p = d
		}
	}

	if v, ok := lookup("TRACKMAP_GRID_SIZE"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "TRACKMAP_GRID_SIZE")
		}
		c.Editor.GridSize = f
	}
	if v, ok := lookup("TRACKMAP_HISTORY_LIMIT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "TRACKMAP_HISTORY_LIMIT")
		}
		c.Editor.HistoryLimit = n
	}
	return nil
}
