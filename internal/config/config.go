package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file looked up next to the input.
const FileName = "gccbridge.toml"

// Config is the decoded gccbridge.toml.
type Config struct {
	Output    OutputConfig    `toml:"output"`
	Runtime   RuntimeConfig   `toml:"runtime"`
	Naming    NamingConfig    `toml:"naming"`
	Translate TranslateConfig `toml:"translate"`
	Trace     TraceConfig     `toml:"trace"`
}

type OutputConfig struct {
	Class string `toml:"class"` // class wrapping the emitted methods
}

type RuntimeConfig struct {
	MathClass     string `toml:"math_class"`
	BuiltinsClass string `toml:"builtins_class"`
}

type NamingConfig struct {
	LabelPrefix string `toml:"label_prefix"`
	TempPrefix  string `toml:"temp_prefix"`
}

type TranslateConfig struct {
	Jobs           int    `toml:"jobs"` // functions lowered concurrently
	MaxDiagnostics int    `toml:"max_diagnostics"`
	Cache          bool   `toml:"cache"`     // reuse bodies of unchanged functions
	CacheDir       string `toml:"cache_dir"` // default: the user cache directory
}

type TraceConfig struct {
	Level  string `toml:"level"`
	Output string `toml:"output"`
	Format string `toml:"format"`
}

// Default returns the configuration used when no file is found.
func Default() Config {
	return Config{
		Runtime: RuntimeConfig{
			MathClass:     "java.lang.Math",
			BuiltinsClass: "org.renjin.gcc.runtime.Builtins",
		},
		Naming: NamingConfig{
			LabelPrefix: "label",
			TempPrefix:  "$t",
		},
		Translate: TranslateConfig{
			Jobs:           runtime.GOMAXPROCS(0),
			MaxDiagnostics: 100,
		},
		Trace: TraceConfig{
			Level: "off",
		},
	}
}

// Find walks up from startDir looking for gccbridge.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load decodes path over the defaults. Unknown keys are rejected so typos
// do not silently fall back to a default.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover loads the nearest gccbridge.toml above startDir, or the defaults.
func Discover(startDir string) (Config, string, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, "", err
	}
	if !ok {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	if err != nil {
		return Config{}, "", err
	}
	return cfg, path, nil
}

// Validate checks values the decoder cannot.
func (c Config) Validate() error {
	if c.Translate.Jobs < 1 {
		return fmt.Errorf("translate.jobs must be at least 1, got %d", c.Translate.Jobs)
	}
	if c.Translate.MaxDiagnostics < 0 {
		return fmt.Errorf("translate.max_diagnostics must not be negative")
	}
	if c.Naming.LabelPrefix == "" || c.Naming.TempPrefix == "" {
		return fmt.Errorf("naming prefixes must not be empty")
	}
	if c.Naming.LabelPrefix == c.Naming.TempPrefix {
		return fmt.Errorf("label and temp prefixes must differ")
	}
	if c.Runtime.MathClass == "" || c.Runtime.BuiltinsClass == "" {
		return fmt.Errorf("runtime classes must not be empty")
	}
	return nil
}
