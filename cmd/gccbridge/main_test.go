package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const addUnit = `{
  "source": "add.json",
  "functions": [
    {
      "name": "add",
      "locals": [
        {"name": "a", "type": "int32"},
        {"name": "b", "type": "int32"},
        {"name": "c", "type": "int32"}
      ],
      "body": [
        {"op": "plus_expr", "dest": {"kind": "var", "name": "c", "type": "int32"},
         "operands": [{"kind": "var", "name": "a", "type": "int32"}, {"kind": "var", "name": "b", "type": "int32"}]}
      ]
    }
  ]
}`

const badUnit = `{
  "functions": [
    {
      "name": "bad",
      "locals": [
        {"name": "a", "type": "int32"},
        {"name": "x", "type": "real64"}
      ],
      "body": [
        {"op": "mult_expr", "dest": {"kind": "var", "name": "a", "type": "int32"},
         "operands": [{"kind": "var", "name": "a", "type": "int32"}, {"kind": "var", "name": "x", "type": "real64"}]}
      ]
    }
  ]
}`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--color", "off"}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestTranslateCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "gccbridge.toml", "[translate]\njobs = 1\n")
	input := writeFile(t, dir, "add.json", addUnit)

	out, _, err := execute(t, "--config", cfg, "translate", input)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	for _, want := range []string{"public class add extends java.lang.Object", "public static void add()", "    c = a + b;"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestTranslateCommandReportsDiagnostics(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "gccbridge.toml", "")
	input := writeFile(t, dir, "bad.json", badUnit)

	out, errOut, err := execute(t, "--config", cfg, "translate", input)
	if err == nil {
		t.Fatalf("expected failure")
	}
	if out != "" {
		t.Errorf("class written despite errors:\n%s", out)
	}
	if !strings.Contains(errOut, "bad.json:bad#0: ERROR LOW3002") {
		t.Errorf("stderr lacks the diagnostic:\n%s", errOut)
	}
}

func TestPackRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "gccbridge.toml", "")
	input := writeFile(t, dir, "add.json", addUnit)
	packed := filepath.Join(dir, "add.gimple")

	if _, _, err := execute(t, "pack", "-o", packed, input); err != nil {
		t.Fatalf("pack: %v", err)
	}
	fromJSON, _, err := execute(t, "--config", cfg, "translate", input)
	if err != nil {
		t.Fatal(err)
	}
	fromPacked, _, err := execute(t, "--config", cfg, "translate", packed)
	if err != nil {
		t.Fatal(err)
	}
	if fromJSON != fromPacked {
		t.Fatalf("packed unit lowers differently:\n%s\nvs\n%s", fromPacked, fromJSON)
	}
}

func TestClassFromSource(t *testing.T) {
	cases := map[string]string{
		"add.json":         "add",
		"dir/lib.c.gimple": "lib$c",
		"9lives.json":      "_9lives",
		"":                 "GimpleUnit",
	}
	for in, want := range cases {
		if got := classFromSource(in); got != want {
			t.Errorf("classFromSource(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestReadColorMode(t *testing.T) {
	for _, s := range []string{"", "auto", "ON", "off"} {
		if _, err := readColorMode(s); err != nil {
			t.Errorf("readColorMode(%q): %v", s, err)
		}
	}
	if _, err := readColorMode("sometimes"); err == nil {
		t.Errorf("expected error")
	}
}
