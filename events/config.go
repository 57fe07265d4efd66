package events

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/golobby/cast"
	"gopkg.in/yaml.v3"
)

// fileOptions is the on-disk shape of Options, using spec.md §6's option
// names except that the GC period is keyed "gc_interval". gc_interval
// accepts either a bare number of seconds or a duration string ("60s"),
// mirroring the teacher's BaseConfigFeeder tolerance for loosely-typed
// source data (feeders/base_config.go); every other field takes its plain
// type.
type fileOptions struct {
	CaptureRejections *bool       `yaml:"capture_rejections" toml:"capture_rejections" json:"capture_rejections"`
	MaxListeners      *int        `yaml:"max_listeners" toml:"max_listeners" json:"max_listeners"`
	WeakReferences    *bool       `yaml:"weak_references" toml:"weak_references" json:"weak_references"`
	ImmediateDispatch *bool       `yaml:"immediate_dispatch" toml:"immediate_dispatch" json:"immediate_dispatch"`
	ConcurrencyLimit  *int        `yaml:"concurrency_limit" toml:"concurrency_limit" json:"concurrency_limit"`
	BufferSize        *int        `yaml:"buffer_size" toml:"buffer_size" json:"buffer_size"`
	GCInterval        interface{} `yaml:"gc_interval" toml:"gc_interval" json:"gc_interval"`
}

// LoadOptions reads dispatcher options from a YAML, TOML or JSON file,
// chosen by extension (.yaml/.yml, .toml, .json — defaulting to YAML for any
// other extension), and overlays them onto DefaultOptions(). Unset fields
// keep their default, mirroring Options.withDefaults' "caller didn't set it"
// semantics (spec.md §6, SPEC_FULL.md §4.13).
func LoadOptions(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("events: failed to read config file %s: %w", path, err)
	}

	var fo fileOptions
	switch filepath.Ext(path) {
	case ".toml":
		if err := toml.Unmarshal(data, &fo); err != nil {
			return Options{}, fmt.Errorf("events: failed to unmarshal TOML config %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &fo); err != nil {
			return Options{}, fmt.Errorf("events: failed to unmarshal JSON config %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &fo); err != nil {
			return Options{}, fmt.Errorf("events: failed to unmarshal config %s: %w", path, err)
		}
	}

	return applyFileOptions(DefaultOptions(), fo)
}

func applyFileOptions(o Options, fo fileOptions) (Options, error) {
	if fo.CaptureRejections != nil {
		o.CaptureRejections = *fo.CaptureRejections
	}
	if fo.MaxListeners != nil {
		o.MaxListeners = *fo.MaxListeners
	}
	if fo.WeakReferences != nil {
		o.WeakReferences = *fo.WeakReferences
	}
	if fo.ImmediateDispatch != nil {
		o.ImmediateDispatch = *fo.ImmediateDispatch
	}
	if fo.ConcurrencyLimit != nil {
		o.ConcurrencyLimit = *fo.ConcurrencyLimit
	}
	if fo.BufferSize != nil {
		o.BufferSize = *fo.BufferSize
	}
	if fo.GCInterval != nil {
		d, err := castToDuration(fo.GCInterval)
		if err != nil {
			return o, fmt.Errorf("events: invalid gc_interval: %w", err)
		}
		o.GCInterval = d
	}
	return o, nil
}

// castToDuration accepts either a duration string ("60s") or a bare number
// of seconds, using golobby/cast for the numeric-to-string normalization a
// loosely-typed config source (YAML/TOML/JSON all decode numbers
// differently) requires before time.ParseDuration can run.
func castToDuration(v any) (time.Duration, error) {
	if s, ok := v.(string); ok {
		return time.ParseDuration(s)
	}
	seconds, err := cast.ToInt64(v)
	if err != nil {
		return 0, err
	}
	return time.Duration(seconds) * time.Second, nil
}
