package config

import (
	"os"
	"runtime"
	"slices"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// DefaultFileName is the configuration file looked up next to the sources
const DefaultFileName = "sol2ink.toml"

// Narrowing policies
const (
	NarrowingWarn  = "warn"
	NarrowingError = "error"
)

// ProjectConfig describes the configurable behavior of a translation run
type ProjectConfig struct {
	// Target describes the component framework code is generated for
	Target TargetConfig `toml:"target"`

	// Diagnostics controls how translation findings are reported
	Diagnostics DiagnosticsConfig `toml:"diagnostics"`

	// Layout controls storage layout persistence
	Layout LayoutConfig `toml:"layout"`

	// Pipeline controls batch translation
	Pipeline PipelineConfig `toml:"pipeline"`
}

// TargetConfig describes the target framework conventions
type TargetConfig struct {
	// NativeIntWidth is the widest integer the target supports natively.
	// Wider source integers are narrowed to it.
	NativeIntWidth int `toml:"native_int_width"`

	// MaxEventTopics is the number of topic fields an event may carry
	MaxEventTopics int `toml:"max_event_topics"`

	// HookPrefix marks internal functions that composing contracts may override
	HookPrefix string `toml:"hook_prefix"`

	// ReservedField names the trailing padding field of every storage aggregate
	ReservedField string `toml:"reserved_field"`

	// ErrorName and ErrorVariant name the single runtime error kind
	ErrorName    string `toml:"error_name"`
	ErrorVariant string `toml:"error_variant"`

	// ModularLibraries lists libraries whose arithmetic wraps instead of failing
	ModularLibraries []string `toml:"modular_libraries"`
}

// DiagnosticsConfig controls reporting
type DiagnosticsConfig struct {
	// Narrowing is "warn" or "error"
	Narrowing string `toml:"narrowing"`
}

// LayoutConfig controls the layout lock
type LayoutConfig struct {
	// LockFile is the bbolt database recording storage layouts. Empty disables it.
	LockFile string `toml:"lock_file"`
}

// PipelineConfig controls batch translation
type PipelineConfig struct {
	// Workers bounds the contracts translated in parallel; zero means one per CPU
	Workers int `toml:"workers"`
}

// Default obtains the default configuration
func Default() *ProjectConfig {
	return &ProjectConfig{
		Target: TargetConfig{
			NativeIntWidth:   128,
			MaxEventTopics:   4,
			HookPrefix:       "_",
			ReservedField:    "_reserved",
			ErrorName:        "Error",
			ErrorVariant:     "Custom",
			ModularLibraries: []string{},
		},
		Diagnostics: DiagnosticsConfig{
			Narrowing: NarrowingWarn,
		},
	}
}

// ReadConfigFromFile reads a TOML-serialized ProjectConfig from a provided file path.
// Keys missing from the file keep their default values.
func ReadConfigFromFile(path string) (*ProjectConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return Parse(b)
}

// Parse decodes TOML configuration data
func Parse(b []byte) (*ProjectConfig, error) {
	cfg := &ProjectConfig{}
	if err := toml.Unmarshal(b, cfg); err != nil {
		return nil, errors.Wrap(err, "error decoding TOML configuration")
	}
	cfg.fillDefaults()
	return cfg, nil
}

// WriteToFile writes the ProjectConfig to a provided file path in TOML format.
func (p *ProjectConfig) WriteToFile(path string) error {
	b, err := toml.Marshal(*p)
	if err != nil {
		return errors.WithStack(err)
	}

	err = os.WriteFile(path, b, 0644)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func (p *ProjectConfig) fillDefaults() {
	def := Default()
	if p.Target.NativeIntWidth == 0 {
		p.Target.NativeIntWidth = def.Target.NativeIntWidth
	}
	if p.Target.MaxEventTopics == 0 {
		p.Target.MaxEventTopics = def.Target.MaxEventTopics
	}
	if p.Target.HookPrefix == "" {
		p.Target.HookPrefix = def.Target.HookPrefix
	}
	if p.Target.ReservedField == "" {
		p.Target.ReservedField = def.Target.ReservedField
	}
	if p.Target.ErrorName == "" {
		p.Target.ErrorName = def.Target.ErrorName
	}
	if p.Target.ErrorVariant == "" {
		p.Target.ErrorVariant = def.Target.ErrorVariant
	}
	if p.Target.ModularLibraries == nil {
		p.Target.ModularLibraries = def.Target.ModularLibraries
	}
	if p.Diagnostics.Narrowing == "" {
		p.Diagnostics.Narrowing = def.Diagnostics.Narrowing
	}
}

// Validate validates that the ProjectConfig meets certain requirements.
func (p *ProjectConfig) Validate() error {
	switch p.Target.NativeIntWidth {
	case 8, 16, 32, 64, 128, 256:
	default:
		return errors.Errorf("native integer width must be one of 8, 16, 32, 64, 128, 256 (got %d)", p.Target.NativeIntWidth)
	}
	if p.Target.MaxEventTopics < 0 {
		return errors.Errorf("max event topics cannot be negative")
	}
	if p.Target.HookPrefix == "" {
		return errors.Errorf("hook prefix cannot be empty")
	}
	if p.Target.ReservedField == "" {
		return errors.Errorf("reserved field name cannot be empty")
	}
	if p.Diagnostics.Narrowing != NarrowingWarn && p.Diagnostics.Narrowing != NarrowingError {
		return errors.Errorf("diagnostics.narrowing must be %q or %q", NarrowingWarn, NarrowingError)
	}
	if p.Pipeline.Workers < 0 {
		return errors.Errorf("pipeline worker count cannot be negative")
	}
	return nil
}

// StrictNarrowing reports whether narrowing is an error
func (p *ProjectConfig) StrictNarrowing() bool {
	return p.Diagnostics.Narrowing == NarrowingError
}

// IsModular reports whether library arithmetic wraps
func (p *ProjectConfig) IsModular(library string) bool {
	return slices.Contains(p.Target.ModularLibraries, library)
}

// WorkerCount resolves the configured parallelism
func (p *ProjectConfig) WorkerCount() int {
	if p.Pipeline.Workers > 0 {
		return p.Pipeline.Workers
	}
	return runtime.NumCPU()
}
