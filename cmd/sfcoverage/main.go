package main

import (
	"fmt"
	"os"
	"time"

	"sfcoverage/internal/config"
	"sfcoverage/internal/logger"
	"sfcoverage/internal/sfcli"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagConfigPath     string
	flagAddr           string
	flagSFBin          string
	flagCommandTimeout int
	flagRequestTimeout int
	flagVerbose        bool
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "sfcoverage",
	Short: "Apex code-coverage reporting over the Salesforce CLI",
	Long: `sfcoverage is a thin read-only reporting layer over the Salesforce CLI.

It lists authenticated orgs, fetches org metadata and queries Apex
code-coverage aggregates, then renders the results as HTML pages and JSON
endpoints (serve) or as a one-shot text/CSV report (check). Authentication
and all org access stay with the sf tool itself.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfigPath, "config", "c", "", "path to config file (yaml)")
	rootCmd.PersistentFlags().StringVar(&flagSFBin, "sf-bin", "", "path to the sf executable, skips auto-detection")
	rootCmd.PersistentFlags().IntVar(&flagCommandTimeout, "command-timeout", 0, "timeout in seconds for a single sf invocation")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkCmd)
}

// loadConfig builds the effective configuration: defaults, then environment,
// then the optional config file, then explicit flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	c := config.NewConfig()
	c.ConfigPath = flagConfigPath

	if err := config.Init(c); err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("addr") {
		c.Addr = flagAddr
	}
	if cmd.Flags().Changed("sf-bin") {
		c.SFBin = flagSFBin
	}
	if cmd.Flags().Changed("command-timeout") {
		c.CommandTimeout = flagCommandTimeout
	}
	if cmd.Flags().Changed("request-timeout") {
		c.RequestTimeout = flagRequestTimeout
	}
	if flagVerbose {
		c.Verbose = true
	}

	return c, nil
}

// newCLI resolves the SF CLI for the current configuration. A missing
// installation is fatal here, at startup, not later per request.
func newCLI(cmd *cobra.Command, c *config.Config, sugar *zap.SugaredLogger) (*sfcli.CLI, error) {
	cli, err := sfcli.NewCLI(cmd.Context(), c.SFBin,
		time.Duration(c.CommandTimeout)*time.Second, sugar)
	if err != nil {
		return nil, fmt.Errorf("%w; install it with: npm install -g @salesforce/cli", err)
	}
	return cli, nil
}

func newLogger(c *config.Config) (*zap.SugaredLogger, error) {
	return logger.NewLogger(c.Verbose)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}
