/*
Copyright 2022.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/telekom/das-schiff-irr-resolver/pkg/bgpq"
	"github.com/telekom/das-schiff-irr-resolver/pkg/config"
	"github.com/telekom/das-schiff-irr-resolver/pkg/irr"
	"github.com/telekom/das-schiff-irr-resolver/pkg/prefixlist"
	"gopkg.in/natefinch/lumberjack.v2"
	logf "sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
)

const (
	logMaxSizeMB  = 100
	logMaxBackups = 5
	logMaxAgeDays = 28
)

var (
	setupLog = logf.Log.WithName("setup")

	zapOpts = zap.Options{
		Development: true,
	}

	rootFlags struct {
		configFile  string
		logFile     string
		timeout     time.Duration
		concurrency int
		deduplicate bool
		aggregate   bool
	}
)

var rootCmd = &cobra.Command{
	Use:   "irr-resolver",
	Short: "Resolve IRR AS-SETs into prefix lists and member ASNs",
	Long: `irr-resolver expands IRR AS-SET objects with bgpq3/bgpq4.

AS-SET expressions may be compound ("RIPE::AS-FOO, AS-BAR"); every AS-SET is
resolved separately and the results are concatenated in order. Without an
AS-SET the origin AS itself is resolved.`,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger()
	},
}

func init() {
	goFlags := flag.NewFlagSet("zap", flag.ExitOnError)
	zapOpts.BindFlags(goFlags)
	rootCmd.PersistentFlags().AddGoFlagSet(goFlags)

	rootCmd.PersistentFlags().StringVar(&rootFlags.configFile, "config", "",
		"Configuration file. Defaults to $IRR_RESOLVER_CONFIG or /opt/irr-resolver/config.yaml.")
	rootCmd.PersistentFlags().StringVar(&rootFlags.logFile, "log-file", "",
		"Write logs to this file with rotation instead of stderr.")
	rootCmd.PersistentFlags().DurationVar(&rootFlags.timeout, "timeout", 0,
		"Abort lookups after this duration. Zero waits for the tool indefinitely.")
	rootCmd.PersistentFlags().IntVar(&rootFlags.concurrency, "concurrency", 0,
		"Maximum number of parallel bgpq invocations (overrides the configuration).")
	rootCmd.PersistentFlags().BoolVar(&rootFlags.deduplicate, "deduplicate", false,
		"Drop repeated records (overrides the configuration).")
	rootCmd.PersistentFlags().BoolVar(&rootFlags.aggregate, "aggregate", false,
		"Aggregate prefixes across AS-SETs (overrides the configuration).")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func setupLogger() {
	opts := []zap.Opts{zap.UseFlagOptions(&zapOpts)}
	if rootFlags.logFile != "" {
		opts = append(opts, zap.WriteTo(&lumberjack.Logger{
			Filename:   rootFlags.logFile,
			MaxSize:    logMaxSizeMB,
			MaxBackups: logMaxBackups,
			MaxAge:     logMaxAgeDays,
			Compress:   true,
		}))
	}
	logf.SetLogger(zap.New(opts...))
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if rootFlags.configFile != "" {
		cfg, err = config.LoadConfigFromFile(rootFlags.configFile)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return nil, fmt.Errorf("unable to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("concurrency") {
		cfg.Collector.Concurrency = rootFlags.concurrency
	}
	if flags.Changed("deduplicate") {
		cfg.Collector.Deduplicate = rootFlags.deduplicate
	}
	if flags.Changed("aggregate") {
		cfg.Collector.Aggregate = rootFlags.aggregate
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	setupLog.V(1).Info("loaded config", "bgpq", cfg.BGPQ.Path, "host", cfg.BGPQ.Host, "sources", cfg.BGPQ.Sources)
	return cfg, nil
}

func newCollector(cfg *config.Config) *prefixlist.Collector {
	resolver := irr.NewResolver(cfg, bgpq.NewExecRunner())
	normalizer := irr.NewNormalizer(cfg.RecognizedSourceList())
	return prefixlist.NewCollector(normalizer, resolver, prefixlist.OptionsFromConfig(cfg.Collector))
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	if rootFlags.timeout > 0 {
		return context.WithTimeout(cmd.Context(), rootFlags.timeout)
	}
	return context.WithCancel(cmd.Context())
}
