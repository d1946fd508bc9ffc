// Package main provides the Quill CLI application entry point. Quill is a
// modal text editor core designed to be driven programmatically: interactive
// rendering lives elsewhere, but macros can be applied to files in batch mode.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"quill/internal/app"
	"quill/internal/config"
	"quill/internal/logger"
	"quill/internal/syntax"
	"quill/pkg/keys"
)

var (
	logLevel   string
	logFile    string
	configPath string
	macro      string
	write      bool
	version    = "0.1.0" // set at build time
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "quill",
	Short: "Quill - scriptable modal text editor core",
	Long: `Quill is a modal text editor core driven entirely by key events.
It has no terminal frontend of its own; use batch mode to apply a key macro
to files, or embed the editor and harness packages in your own tests.`,
}

// batchCmd applies a key macro to files non-interactively
var batchCmd = &cobra.Command{
	Use:   "batch --keys <macro> [files...]",
	Short: "Apply a key macro to files in batch mode",
	Long: `Open the given files, run the key macro through the editor's event loop
until it quiesces, then print the focused document to stdout. With --write,
modified documents are saved back to their paths instead.`,
	RunE: runBatch,
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("Quill v%s\n", version)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Set log level (debug|info|warn|error) [default: info]")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to file instead of stderr")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML configuration file")

	batchCmd.Flags().StringVar(&macro, "keys", "", "Key macro to apply (e.g. '%d' or 'ihello<esc>')")
	batchCmd.Flags().BoolVar(&write, "write", false, "Save modified documents instead of printing to stdout")
	_ = batchCmd.MarkFlagRequired("keys")

	if err := viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level")); err != nil {
		fmt.Fprintf(os.Stderr, "Error binding log-level flag: %v\n", err)
		os.Exit(1)
	}
	if err := viper.BindPFlag("log-file", rootCmd.PersistentFlags().Lookup("log-file")); err != nil {
		fmt.Fprintf(os.Stderr, "Error binding log-file flag: %v\n", err)
		os.Exit(1)
	}
	viper.SetEnvPrefix("QUILL")
	viper.AutomaticEnv()

	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads the environment, configures logging, and resolves the editor
// configuration.
func setup() (*config.Config, error) {
	// .env is optional; ignore a missing file
	_ = godotenv.Load()

	if err := logger.Configure(viper.GetString("log-level"), viper.GetString("log-file")); err != nil {
		return nil, fmt.Errorf("configuring logger: %w", err)
	}

	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}

func runBatch(_ *cobra.Command, files []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	events, err := keys.ParseMacro(macro)
	if err != nil {
		return err
	}

	var args app.Args
	for _, path := range files {
		args.AddFile(path, nil)
	}

	a, err := app.New(args, cfg, syntax.DefaultLoader())
	if err != nil {
		return err
	}

	input := make(chan app.Input, len(events))
	for _, ev := range events {
		input <- app.Input{Key: ev}
	}

	alive := a.EventLoopUntilIdle(input)
	logger.Debug("Batch run quiesced", "alive", alive)

	if write {
		for _, doc := range a.Editor.Documents() {
			if doc.Modified() && doc.Path() != "" {
				if err := a.Editor.SaveDocument(doc); err != nil {
					return err
				}
			}
		}
	} else if doc := a.Editor.Current(); doc != nil {
		fmt.Print(doc.Text())
	}

	if errs := a.Close(); len(errs) > 0 {
		for _, err := range errs {
			logger.Error("Error closing editor", "error", err)
		}
		return fmt.Errorf("%d error(s) closing editor", len(errs))
	}

	return nil
}
