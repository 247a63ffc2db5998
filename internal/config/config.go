// Package config loads the designer's YAML configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Carmen-Shannon/oxy-designer/common"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file read when no path is given, relative to the working directory.
const DefaultPath = "designer.yaml"

// ErrInvalid is returned when a config file decodes but holds an unusable value.
var ErrInvalid = errors.New("invalid config")

// Window configures the viewer window.
type Window struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// Config holds the designer's startup settings.
type Config struct {
	// AssetsDir is the asset root every asset path is relative to.
	AssetsDir string `yaml:"assets_dir"`

	// ObjectsDir is the folder under AssetsDir scanned for .object files at startup.
	ObjectsDir string `yaml:"objects_dir"`

	// CameraFile is the .camera file under AssetsDir applied to the viewer camera.
	CameraFile string `yaml:"camera_file"`

	// TickRate is the number of scene ticks per second.
	TickRate float64 `yaml:"tick_rate"`

	// FrameLimit caps render frames per second; 0 leaves rendering uncapped.
	FrameLimit float64 `yaml:"frame_limit"`

	// LoadWorkers is the number of asset load workers.
	LoadWorkers int `yaml:"load_workers"`

	// Watch enables hot reload of files changed on disk. Nil means true.
	Watch *bool `yaml:"watch"`

	// MaxTextureSize bounds the larger side of decoded textures.
	MaxTextureSize int `yaml:"max_texture_size"`

	// Headless runs without a window or GPU, using the recording renderer.
	Headless bool `yaml:"headless"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// Profiling enables the periodic profiler report.
	Profiling bool `yaml:"profiling"`

	// ProfileInterval is how often the profiler reports.
	ProfileInterval time.Duration `yaml:"profile_interval"`

	Window Window `yaml:"window"`
}

// Default returns the configuration used when no file is present.
//
// Returns:
//   - *Config: the default configuration
func Default() *Config {
	watch := true
	return &Config{
		AssetsDir:       "assets",
		ObjectsDir:      "objects",
		CameraFile:      "settings.camera",
		TickRate:        60,
		LoadWorkers:     4,
		Watch:           &watch,
		MaxTextureSize:  2048,
		LogLevel:        "info",
		ProfileInterval: 5 * time.Second,
		Window: Window{
			Title:  "Oxy Designer",
			Width:  1280,
			Height: 720,
		},
	}
}

// Load reads the config file at path. A missing file yields Default(); fields absent from the
// file keep their default values.
//
// Parameters:
//   - path: the config file path, DefaultPath if empty
//
// Returns:
//   - *Config: the loaded configuration
//   - error: an error if the file cannot be read, is malformed, or holds invalid values
func Load(path string) (*Config, error) {
	path = common.Coalesce(path, DefaultPath)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML config data on top of the defaults. Unknown keys are rejected.
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - *Config: the parsed configuration
//   - error: an error if the document is malformed or holds invalid values
func Parse(data []byte) (*Config, error) {
	var file Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse: %w", err)
	}
	cfg := merge(Default(), &file)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// merge returns def with every field set in file taking precedence.
func merge(def, file *Config) *Config {
	return &Config{
		AssetsDir:       common.Coalesce(file.AssetsDir, def.AssetsDir),
		ObjectsDir:      common.Coalesce(file.ObjectsDir, def.ObjectsDir),
		CameraFile:      common.Coalesce(file.CameraFile, def.CameraFile),
		TickRate:        common.Coalesce(file.TickRate, def.TickRate),
		FrameLimit:      common.Coalesce(file.FrameLimit, def.FrameLimit),
		LoadWorkers:     common.Coalesce(file.LoadWorkers, def.LoadWorkers),
		Watch:           common.Coalesce(file.Watch, def.Watch),
		MaxTextureSize:  common.Coalesce(file.MaxTextureSize, def.MaxTextureSize),
		Headless:        file.Headless,
		LogLevel:        common.Coalesce(file.LogLevel, def.LogLevel),
		Profiling:       file.Profiling,
		ProfileInterval: common.Coalesce(file.ProfileInterval, def.ProfileInterval),
		Window: Window{
			Title:  common.Coalesce(file.Window.Title, def.Window.Title),
			Width:  common.Coalesce(file.Window.Width, def.Window.Width),
			Height: common.Coalesce(file.Window.Height, def.Window.Height),
		},
	}
}

// Validate reports the first unusable value in the configuration.
//
// Returns:
//   - error: an ErrInvalid wrapping error, or nil
func (c *Config) Validate() error {
	switch {
	case c.TickRate < 0:
		return fmt.Errorf("%w: tick_rate must be positive, got %g", ErrInvalid, c.TickRate)
	case c.FrameLimit < 0:
		return fmt.Errorf("%w: frame_limit must not be negative, got %g", ErrInvalid, c.FrameLimit)
	case c.LoadWorkers < 0:
		return fmt.Errorf("%w: load_workers must be positive, got %d", ErrInvalid, c.LoadWorkers)
	case c.MaxTextureSize < 0:
		return fmt.Errorf("%w: max_texture_size must be positive, got %d", ErrInvalid, c.MaxTextureSize)
	case c.Window.Width < 0 || c.Window.Height < 0:
		return fmt.Errorf("%w: window size must be positive, got %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// WatchEnabled reports whether hot reload is on.
func (c *Config) WatchEnabled() bool {
	return c.Watch == nil || *c.Watch
}

// Level returns the slog level named by LogLevel.
//
// Returns:
//   - slog.Level: the level
//   - error: an ErrInvalid wrapping error for an unknown name
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("%w: log_level: %w", ErrInvalid, err)
	}
	return level, nil
}

// Logger builds the text logger described by the configuration.
//
// Parameters:
//   - w: the writer log records go to
//
// Returns:
//   - *slog.Logger: the logger
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := c.Level()
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
