package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/telekom/das-schiff-irr-resolver/pkg/inventory"
)

var grabFlags struct {
	inventory string
	out       string
	format    string
	strict    bool
}

var grabPrefixesCmd = &cobra.Command{
	Use:   "grab-prefixes",
	Short: "Resolve the prefixes of every autonomous system in an inventory",
	Long: `'grab-prefixes' walks the autonomous systems of an inventory file and resolves
IPv6 and IPv4 prefixes for each. A failing system is reported and skipped.`,
	Example: `  irr-resolver grab-prefixes --inventory peers.yaml
  irr-resolver grab-prefixes --inventory peers.yaml --format json --out prefixes.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		inv, err := inventory.Load(grabFlags.inventory)
		if err != nil {
			return err
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		results := inventory.NewRunner(newCollector(cfg)).Run(ctx, inv)

		if err := writeResults(cmd.OutOrStdout(), grabFlags.out, results, grabFlags.format); err != nil {
			return err
		}

		failed := inventory.Failed(results)
		setupLog.Info("grabbed prefixes", "systems", len(results), "failed", failed)
		if grabFlags.strict && failed > 0 {
			return fmt.Errorf("%d of %d autonomous systems failed", failed, len(results))
		}
		return nil
	},
}

// writeResults writes to path, or to stdout if path is empty. Errors closing
// the file are returned since they may hide a failed write.
func writeResults(stdout io.Writer, path string, results []inventory.Result, format string) error {
	if path == "" {
		return inventory.Write(stdout, results, format)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	if err := inventory.Write(f, results, format); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("error closing output file %s: %w", path, err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(grabPrefixesCmd)
	grabPrefixesCmd.Flags().StringVarP(&grabFlags.inventory, "inventory", "i", "", "Inventory file listing autonomous systems")
	grabPrefixesCmd.Flags().StringVar(&grabFlags.out, "out", "", "Write results to this file instead of stdout")
	grabPrefixesCmd.Flags().StringVar(&grabFlags.format, "format", inventory.FormatYAML, "Output format: yaml or json")
	grabPrefixesCmd.Flags().BoolVar(&grabFlags.strict, "strict", false, "Exit non-zero if any autonomous system failed")
	_ = grabPrefixesCmd.MarkFlagRequired("inventory")
}
