// Package cli implements the bmicalc CLI commands.
package cli

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/rcliao/bmicalc/internal/config"
	"github.com/spf13/cobra"
)

var (
	configPath string
	formatFlag string
	verbose    bool

	cfg    = config.DefaultConfig()
	logger = log.New(io.Discard, "[bmicalc] ", log.LstdFlags)
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:               "bmicalc",
	Short:             "Body Mass Index calculator",
	Long:              "Compute BMI from metric or imperial height and weight, classify it, and keep a short history for the session.",
	PersistentPreRunE: loadConfig,
	SilenceUsage:      true,
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ~/.bmicalc/config.json)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "", "Output format: json or text (default from config, json)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log to stderr")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("format") {
		c.Format = formatFlag
	}
	if cmd.Flags().Changed("verbose") {
		c.Verbose = verbose
	}
	if err := c.Validate(); err != nil {
		return err
	}
	cfg = c

	if cfg.Verbose {
		logger.SetOutput(os.Stderr)
	} else {
		logger.SetOutput(io.Discard)
	}
	logger.Printf("config: units=%s format=%s classify=%s", cfg.Units, cfg.Format, cfg.Classify)
	return nil
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
