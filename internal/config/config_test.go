package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[runtime]
builtins_class = "com.example.Rt"

[naming]
label_prefix = "L"

[translate]
jobs = 2
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Runtime.BuiltinsClass != "com.example.Rt" || cfg.Runtime.MathClass != "java.lang.Math" {
		t.Fatalf("runtime = %+v", cfg.Runtime)
	}
	if cfg.Naming.LabelPrefix != "L" || cfg.Naming.TempPrefix != "$t" {
		t.Fatalf("naming = %+v", cfg.Naming)
	}
	if cfg.Translate.Jobs != 2 || cfg.Translate.MaxDiagnostics != 100 {
		t.Fatalf("translate = %+v", cfg.Translate)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[naming]\nlabel_prefx = \"L\"\n")
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "label_prefx") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[naming]\nlabel_prefix = \"$t\"\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[output]\nclass = \"Unit\"\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	cfg, path, err := Discover(nested)
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join(root, FileName) || cfg.Output.Class != "Unit" {
		t.Fatalf("Discover = %q, %+v", path, cfg.Output)
	}
}

func TestLoadCacheSettings(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[translate]\ncache = true\ncache_dir = \"/tmp/gb\"\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Translate.Cache || cfg.Translate.CacheDir != "/tmp/gb" {
		t.Fatalf("translate = %+v", cfg.Translate)
	}
	if Default().Translate.Cache {
		t.Fatalf("cache must be opt-in")
	}
}
