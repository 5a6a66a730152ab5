package main

import (
	"github.com/spf13/cobra"
	"github.com/telekom/das-schiff-irr-resolver/pkg/version"
)

var versionFlags struct {
	output string
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.Get()
		if versionFlags.output == outputText {
			return printOutput(cmd.OutOrStdout(), outputText, info.String())
		}
		return printOutput(cmd.OutOrStdout(), versionFlags.output, info)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().StringVarP(&versionFlags.output, "output", "o", outputText, "Output format: text, json or yaml")
}
