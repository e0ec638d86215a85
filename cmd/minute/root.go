package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"minute/internal/config"
	"minute/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

// cfg is resolved once before any subcommand runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "minute",
	Short: "Turn meeting recordings into structured notes in your vault",
	Long: "Minute processes a meeting recording into three artifacts:\n" +
		"a structured markdown note, a plain transcript, and a copy of the audio,\n" +
		"written atomically into a vault directory.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logging.ParseLevel(rootFlags.logLevel)
		if err != nil {
			return err
		}
		logging.Init(level, rootFlags.logFormat)

		cfg, err = config.Resolve(rootFlags.configPath)
		if err != nil {
			return err
		}
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.configPath, "config", "", "Config file (default: $MINUTE_CONFIG, else built-in defaults)")
	pf.StringVar(&rootFlags.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&rootFlags.logFormat, "log-format", "text", "Log format: text or json")

	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
