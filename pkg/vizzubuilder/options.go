// Package vizzubuilder builds animated Vizzu charts and data stories from
// tabular datasets.
package vizzubuilder

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder/filter"
	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder/story"
	"gopkg.in/yaml.v3"
)

// Options configures sessions and the frontends built on them.
type Options struct {
	Server  ServerOptions  `yaml:"server"`
	Story   StoryOptions   `yaml:"story"`
	Share   ShareOptions   `yaml:"share"`
	Presets PresetOptions  `yaml:"presets"`
	Data    DataOptions    `yaml:"data"`
	Logging LoggingOptions `yaml:"logging"`
}

// ServerOptions configures the web frontend.
type ServerOptions struct {
	// Addr is the listen address.
	Addr string `yaml:"addr"`
	// SessionTTL is how long an idle browser session is kept; zero keeps
	// sessions until shutdown.
	SessionTTL time.Duration `yaml:"session_ttl"`
	// MaxSessions bounds the live browser sessions; the least recently used
	// one is closed to make room. Zero means no bound.
	MaxSessions int `yaml:"max_sessions"`
}

// StoryOptions configures the story player.
type StoryOptions struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// ShareOptions configures story sharing.
type ShareOptions struct {
	// Endpoint receives shared stories as multipart uploads.
	Endpoint string `yaml:"endpoint"`
	// Timeout bounds one upload.
	Timeout time.Duration `yaml:"timeout"`
}

// PresetOptions selects the preset table.
type PresetOptions struct {
	// Path is a preset JSON file. If empty, the embedded presets are used.
	Path string `yaml:"path"`
}

// DataOptions configures dataset loading and filtering.
type DataOptions struct {
	// CategoricalColumns are always treated as categories.
	CategoricalColumns []string `yaml:"categorical_columns,omitempty"`
	// CategoricalThreshold is the distinct-value count below which a column
	// is filtered as categorical.
	CategoricalThreshold int `yaml:"categorical_threshold"`
	// Sheet is the worksheet read from xlsx files; empty means the first one.
	Sheet string `yaml:"sheet"`
}

// LoggingOptions configures logging.
type LoggingOptions struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level"`
	// File receives logs instead of stderr when set.
	File string `yaml:"file"`
}

// DefaultOptions returns default options.
func DefaultOptions() Options {
	return Options{
		Server: ServerOptions{Addr: ":8501", SessionTTL: 30 * time.Minute, MaxSessions: 1000},
		Story:  StoryOptions{Width: story.DefaultWidth, Height: story.DefaultHeight},
		Share: ShareOptions{
			Endpoint: story.DefaultShareEndpoint,
			Timeout:  story.DefaultShareTimeout,
		},
		Data:    DataOptions{CategoricalThreshold: filter.DefaultCategoricalThreshold},
		Logging: LoggingOptions{Level: "info"},
	}
}

// LoadOptions loads options from a YAML file on top of the defaults. A
// missing file yields the defaults.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return opts, fmt.Errorf("failed to read options: %w", err)
		default:
			if err := yaml.Unmarshal(data, &opts); err != nil {
				return opts, fmt.Errorf("failed to parse options: %w", err)
			}
		}
	}
	opts.applyEnvOverrides()
	return opts, opts.Validate()
}

// Save writes the options as YAML.
func (o Options) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create options directory: %w", err)
	}
	data, err := yaml.Marshal(o)
	if err != nil {
		return fmt.Errorf("failed to marshal options: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write options: %w", err)
	}
	return nil
}

func (o *Options) applyEnvOverrides() {
	if addr := os.Getenv("VIZZU_BUILDER_ADDR"); addr != "" {
		o.Server.Addr = addr
	}
	if endpoint := os.Getenv("VIZZU_BUILDER_SHARE_ENDPOINT"); endpoint != "" {
		o.Share.Endpoint = endpoint
	}
}

// Validate checks the options for values no component can work with.
func (o Options) Validate() error {
	if o.Story.Width <= 0 || o.Story.Height <= 0 {
		return fmt.Errorf("invalid story size %dx%d", o.Story.Width, o.Story.Height)
	}
	if o.Server.SessionTTL < 0 || o.Server.MaxSessions < 0 {
		return fmt.Errorf("invalid session limits: ttl %s, max %d", o.Server.SessionTTL, o.Server.MaxSessions)
	}
	if o.Share.Timeout < 0 {
		return fmt.Errorf("invalid share timeout %s", o.Share.Timeout)
	}
	if o.Data.CategoricalThreshold < 0 {
		return fmt.Errorf("invalid categorical threshold %d", o.Data.CategoricalThreshold)
	}
	switch o.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level %q", o.Logging.Level)
	}
	return nil
}
