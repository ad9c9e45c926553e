package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"gccbridge/internal/gimple"
)

var packCmd = &cobra.Command{
	Use:   "pack [flags] <unit.json>",
	Short: "Convert a JSON unit to the packed msgpack form",
	Args:  cobra.ExactArgs(1),
	RunE:  runPack,
}

func init() {
	packCmd.Flags().StringP("output", "o", "", "output file (default: input with the "+gimple.PackedExt+" extension)")
}

func runPack(cmd *cobra.Command, args []string) error {
	input := args[0]
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + gimple.PackedExt
	}
	if filepath.Clean(output) == filepath.Clean(input) {
		return fmt.Errorf("refusing to overwrite the input %s", input)
	}

	u, err := gimple.ReadUnitFile(input)
	if err != nil {
		return err
	}
	// Reject units whose instructions cannot be lowered structurally before
	// they are packed.
	for _, fn := range u.Functions {
		for i, instr := range fn.Body {
			if err := instr.Validate(); err != nil {
				return fmt.Errorf("%s: %s#%d: %w", input, fn.Name, i, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := gimple.EncodeUnit(&buf, u); err != nil {
		return err
	}
	if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "packed %d function(s) into %s\n", len(u.Functions), output)
	return nil
}
