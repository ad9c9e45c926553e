package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"gccbridge/internal/config"
	"gccbridge/internal/diag"
	"gccbridge/internal/driver"
	"gccbridge/internal/gimple"
	"gccbridge/internal/jimple"
	"gccbridge/internal/observ"
	"gccbridge/internal/trace"
)

var translateCmd = &cobra.Command{
	Use:   "translate [flags] <unit.json|unit.gimple>",
	Short: "Lower a GIMPLE unit to a Jimple class",
	Args:  cobra.ExactArgs(1),
	RunE:  runTranslate,
}

func init() {
	translateCmd.Flags().StringP("output", "o", "", "write the class to this file instead of stdout")
	translateCmd.Flags().String("class", "", "name of the emitted class (default: output.class or the unit name)")
	translateCmd.Flags().Int("jobs", 0, "functions lowered in parallel (0 = translate.jobs)")
	translateCmd.Flags().String("format", "pretty", "diagnostic format (pretty|json)")
	translateCmd.Flags().Bool("partial", false, "emit the functions that lowered even when others failed")
	translateCmd.Flags().Bool("cache", false, "reuse lowered bodies of unchanged functions (overrides translate.cache)")
	translateCmd.Flags().Bool("progress", false, "show per-function progress on stderr when it is a terminal")
}

// runTranslate lowers one unit. Diagnostics go to stderr; the class is only
// written when every function lowered, unless --partial is set.
func runTranslate(cmd *cobra.Command, args []string) error {
	input := args[0]

	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	class, err := cmd.Flags().GetString("class")
	if err != nil {
		return fmt.Errorf("failed to get class flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	partial, err := cmd.Flags().GetBool("partial")
	if err != nil {
		return fmt.Errorf("failed to get partial flag: %w", err)
	}
	showProgress, err := cmd.Flags().GetBool("progress")
	if err != nil {
		return fmt.Errorf("failed to get progress flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	switch format {
	case "pretty", "json":
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	if jobs < 0 {
		return fmt.Errorf("--jobs must not be negative")
	}

	cfg, err := loadConfig(cmd, filepath.Dir(input))
	if err != nil {
		return err
	}
	if jobs > 0 {
		cfg.Translate.Jobs = jobs
	}
	if class == "" {
		class = cfg.Output.Class
	}
	if cmd.Flags().Changed("cache") {
		cfg.Translate.Cache, _ = cmd.Flags().GetBool("cache")
	}

	tracer, cleanup, err := setupTracing(cmd, cfg.Trace)
	if err != nil {
		return err
	}
	defer cleanup()

	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	cache, err := openCache(cfg.Translate)
	if err != nil {
		return err
	}

	timer := observ.NewTimer()
	phase := timer.Begin("read")
	u, err := gimple.ReadUnitFile(input)
	if err != nil {
		return fmt.Errorf("%s: %w", diag.IOReadFailed.ID(), err)
	}
	timer.End(phase, fmt.Sprintf("%d function(s)", len(u.Functions)))
	if class == "" {
		class = classFromSource(u.Source)
	}

	phase = timer.Begin("lower")
	var res *driver.UnitResult
	if showProgress && isTerminal(os.Stderr) {
		res, err = translateWithUI(cmd.Context(), u, cfg, cache)
	} else {
		res, err = driver.TranslateUnitCached(cmd.Context(), u, cfg, cache)
	}
	if err != nil {
		return err
	}
	timer.End(phase, lowerNote(res))
	res.Bag.Sort()

	failed := res.Bag.HasErrors()
	if !failed || partial {
		phase = timer.Begin("write")
		if err := writeClass(cmd, res, output, class); err != nil {
			return fmt.Errorf("%s: %w", diag.IOWriteFailed.ID(), err)
		}
		timer.End(phase, "")
	}
	if showTimings {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}

	if res.Bag.Len() > 0 {
		stderr := cmd.ErrOrStderr()
		if format == "json" {
			err = diag.JSON(stderr, res.Bag)
		} else {
			err = diag.Pretty(stderr, res.Bag, diag.PrettyOpts{Color: useColorFor(cmd, os.Stderr)})
		}
		if err != nil {
			return err
		}
	}

	if failed {
		// A ring-only tracer has kept quiet so far; show what led up to the failure.
		if tracer.Level() == trace.LevelError {
			_ = trace.DumpRing(tracer, cmd.ErrOrStderr())
		}
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("%d of %d function(s) failed", len(res.Functions)-res.Emitted(), len(res.Functions))
	}
	return nil
}

func lowerNote(res *driver.UnitResult) string {
	cached := 0
	for _, fr := range res.Functions {
		if fr.Cached {
			cached++
		}
	}
	if cached == 0 {
		return ""
	}
	return fmt.Sprintf("%d cached", cached)
}

func openCache(cfg config.TranslateConfig) (*driver.Cache, error) {
	if !cfg.Cache {
		return nil, nil
	}
	if cfg.CacheDir != "" {
		return driver.NewCache(cfg.CacheDir)
	}
	return driver.OpenCache("gccbridge")
}

func loadConfig(cmd *cobra.Command, startDir string) (config.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		return config.Load(path)
	}
	cfg, _, err := config.Discover(startDir)
	return cfg, err
}

func writeClass(cmd *cobra.Command, res *driver.UnitResult, output, class string) error {
	if output == "" {
		return res.WriteClass(cmd.OutOrStdout(), class)
	}
	var buf bytes.Buffer
	if err := res.WriteClass(&buf, class); err != nil {
		return err
	}
	return os.WriteFile(output, buf.Bytes(), 0o644)
}

// classFromSource derives a class name from the unit's file name.
func classFromSource(source string) string {
	base := filepath.Base(source)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." {
		return driver.DefaultClass
	}
	return jimple.ID(base)
}

func useColorFor(cmd *cobra.Command, f *os.File) bool {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false
	}
	mode, err := readColorMode(colorFlag)
	if err != nil {
		return false
	}
	return useColor(mode, f)
}
