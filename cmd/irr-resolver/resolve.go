package main

import (
	"github.com/spf13/cobra"
	"github.com/telekom/das-schiff-irr-resolver/pkg/irr"
)

var resolveFlags struct {
	family string
	output string
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize ASN [AS-SET]",
	Short: "Split an AS-SET expression into the AS-SETs that would be resolved",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		asn, rawAsSet, err := parseTarget(args)
		if err != nil {
			return err
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		normalizer := irr.NewNormalizer(cfg.RecognizedSourceList())
		return printOutput(cmd.OutOrStdout(), resolveFlags.output, normalizer.Normalize(asn, rawAsSet))
	},
}

var prefixesCmd = &cobra.Command{
	Use:   "prefixes ASN [AS-SET]",
	Short: "Resolve the prefixes of an autonomous system",
	Long: `'prefixes' resolves the prefixes registered for the AS-SETs of an autonomous
system. Without --family both address families are resolved.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		asn, rawAsSet, err := parseTarget(args)
		if err != nil {
			return err
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		collector := newCollector(cfg)

		ctx, cancel := commandContext(cmd)
		defer cancel()

		if resolveFlags.family == "" {
			set, err := collector.AllPrefixes(ctx, asn, rawAsSet)
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), resolveFlags.output, set)
		}

		family, err := irr.ParseAddressFamily(resolveFlags.family)
		if err != nil {
			return err
		}
		prefixes, err := collector.Prefixes(ctx, asn, rawAsSet, family)
		if err != nil {
			return err
		}
		return printOutput(cmd.OutOrStdout(), resolveFlags.output, prefixes)
	},
}

var membersCmd = &cobra.Command{
	Use:   "members ASN [AS-SET]",
	Short: "Resolve the member ASNs of the AS-SETs of an autonomous system",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		asn, rawAsSet, err := parseTarget(args)
		if err != nil {
			return err
		}
		family := irr.IPv6
		if resolveFlags.family != "" {
			if family, err = irr.ParseAddressFamily(resolveFlags.family); err != nil {
				return err
			}
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		members, err := newCollector(cfg).Members(ctx, asn, rawAsSet, family)
		if err != nil {
			return err
		}
		return printOutput(cmd.OutOrStdout(), resolveFlags.output, members)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{normalizeCmd, prefixesCmd, membersCmd} {
		rootCmd.AddCommand(cmd)
		cmd.Flags().StringVarP(&resolveFlags.output, "output", "o", outputText, "Output format: text, json or yaml")
	}
	prefixesCmd.Flags().StringVarP(&resolveFlags.family, "family", "f", "", "Address family to resolve (4 or 6)")
	membersCmd.Flags().StringVarP(&resolveFlags.family, "family", "f", "", "Address family passed to the query (4 or 6)")
}

func parseTarget(args []string) (uint32, string, error) {
	asn, err := irr.ParseASN(args[0])
	if err != nil {
		return 0, "", err
	}
	rawAsSet := ""
	if len(args) > 1 {
		rawAsSet = args[1]
	}
	return asn, rawAsSet, nil
}
