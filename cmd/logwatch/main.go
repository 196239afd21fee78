package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/IvanShishkin/logwatch/internal/config"
	"github.com/IvanShishkin/logwatch/internal/core"
	"github.com/IvanShishkin/logwatch/internal/filesystem"
	"github.com/IvanShishkin/logwatch/internal/report"
	"github.com/IvanShishkin/logwatch/pkg/models"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	version    = "0.1.0"
	logger     *zap.Logger
	verbose    bool
	configFile string
	noColor    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "logwatch",
		Short: "Logwatch - scan log directories for error lines",
		Long: `Recursively scan a directory for text files and report every line
that mentions an error, with bounded per-file processing time.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if noColor || !isatty.IsTerminal(os.Stdout.Fd()) {
				color.NoColor = true
			}
			return initLogger()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to a config file (yaml, json, toml)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	// Add commands
	rootCmd.AddCommand(scanCmd())
	rootCmd.AddCommand(filesCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("Error:"), err)
		os.Exit(1)
	}
}

// initLogger builds the development logger in verbose mode and an
// errors-only JSON logger otherwise
func initLogger() error {
	var err error
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		// Silent logger - only errors
		cfg := zap.Config{
			Level:            zap.NewAtomicLevelAt(zapcore.ErrorLevel),
			Encoding:         "json",
			OutputPaths:      []string{"stderr"},
			ErrorOutputPaths: []string{"stderr"},
			EncoderConfig:    zap.NewProductionEncoderConfig(),
		}
		logger, err = cfg.Build()
	}
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// loadConfig loads the config file and environment, then validates
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		logger.Error("Failed to load config", zap.Error(err))
		return nil, err
	}
	if noColor {
		cfg.NoColor = true
	}
	if cfg.NoColor {
		color.NoColor = true
	}
	return cfg, nil
}

// scanCmd creates the scan command
func scanCmd() *cobra.Command {
	var (
		workers      int
		timeout      time.Duration
		maxSize      string
		largeSize    string
		extensions   []string
		reportFormat string
		outputFile   string
		assumeYes    bool
	)

	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Scan a directory for error lines",
		Long: `Recursively scan a directory for text files and list every line containing
"error" in any case. Without a path an interactive menu offers /var/log or a
custom directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			// Override config with CLI flags
			if workers > 0 {
				cfg.Workers = workers
			}
			if timeout > 0 {
				cfg.Timeout = timeout
			}
			if maxSize != "" {
				cfg.MaxSize = maxSize
			}
			if largeSize != "" {
				cfg.LargeSize = largeSize
			}
			if len(extensions) > 0 {
				cfg.Extensions = extensions
			}
			if reportFormat != "" {
				cfg.ReportFormat = reportFormat
			}
			if outputFile != "" {
				cfg.OutputFile = outputFile
			}
			if assumeYes {
				cfg.AssumeYes = true
			}

			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			return runScan(cfg, args)
		},
	}

	// Flags
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Number of worker goroutines (default: CPU cores)")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 0, "Per-file processing budget (default: 30s)")
	cmd.Flags().StringVar(&maxSize, "max-size", "", "Skip files larger than this size (default: 1G)")
	cmd.Flags().StringVar(&largeSize, "large-size", "", "Flag files larger than this size (default: 100000000)")
	cmd.Flags().StringSliceVar(&extensions, "extensions", nil, "Extra text file extensions (comma-separated)")
	cmd.Flags().StringVarP(&reportFormat, "report", "r", "", "Report format: text, json, md, yaml (default: console output)")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

// runScan drives one interactive scan: directory, listing, confirmation,
// progress and report
func runScan(cfg *config.Config, args []string) error {
	printHeader(os.Stdout, time.Now())

	privileged := filesystem.IsPrivileged()
	if !privileged {
		printPrivilegeWarning(os.Stderr)
	}

	prompt := newPrompter(os.Stdin, os.Stdout, os.Stderr)

	root, err := resolveRoot(cfg, args, prompt)
	if err != nil {
		return err
	}
	fmt.Printf("\n%s %s\n", color.CyanString("Scanning directory:"), root)

	warnings := newWarningPrinter(os.Stderr)
	scanner := core.NewScanner(core.Options{
		Workers:    cfg.Workers,
		Limits:     cfg.ScanLimits(),
		Extensions: cfg.Extensions,
		Privileged: privileged,
	}, logger)
	scanner.SetWarningCallback(warnings.warn)

	color.Cyan("Scanning directory tree...")
	files, err := scanner.Discover(root)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no readable files found in %s: %w", root, models.ErrNoFilesProcessed)
	}

	printCandidates(os.Stdout, root, files)

	if !cfg.AssumeYes {
		proceed, err := prompt.confirm("Proceed with scanning?")
		if err != nil {
			return err
		}
		if !proceed {
			color.Yellow("Scan cancelled by user.")
			return nil
		}
	}

	fmt.Println()
	color.New(color.FgCyan, color.Bold).Println("Starting scan...")

	bar := newProgressBar(len(files), cfg.NoColor)
	if bar != nil {
		warnings.beforeEach(func() { _ = bar.Clear() })
		scanner.SetProgressCallback(func(current, total int, path string) {
			_ = bar.Add(1)
		})
	}

	result, err := scanner.Run(root, files)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		logger.Error("Scan failed", zap.Error(err))
		return err
	}

	generator, err := report.NewGenerator(cfg, logger)
	if err != nil {
		return err
	}
	reportPath, err := generator.Generate(result)
	if err != nil {
		return err
	}

	// Print report path if generated
	if reportPath != "" {
		fmt.Printf("\n%s %s\n\n", color.New(color.Faint).Sprint("Report:"), color.YellowString(reportPath))
	}

	return nil
}

// resolveRoot picks the scan root from the argument, the config or the
// interactive menu, and checks it is a directory
func resolveRoot(cfg *config.Config, args []string, prompt *prompter) (string, error) {
	var root string
	switch {
	case len(args) > 0:
		root = args[0]
	case cfg.AssumeYes:
		root = cfg.Path
	default:
		chosen, err := prompt.chooseDirectory()
		if err != nil {
			return "", err
		}
		root = chosen
	}

	if err := checkDirectory(root); err != nil {
		return "", err
	}
	return root, nil
}

// newProgressBar returns a progress bar on an interactive stderr, nil otherwise
func newProgressBar(total int, plain bool) *progressbar.ProgressBar {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		return nil
	}

	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Scanning"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionEnableColorCodes(!plain),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

// filesCmd lists the files a scan would read
func filesCmd() *cobra.Command {
	var extensions []string

	cmd := &cobra.Command{
		Use:   "files [path]",
		Short: "List the text files a scan would read",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if len(extensions) > 0 {
				cfg.Extensions = extensions
			}

			root := cfg.Path
			if len(args) > 0 {
				root = args[0]
			}
			if err := checkDirectory(root); err != nil {
				return err
			}

			warnings := newWarningPrinter(os.Stderr)
			scanner := core.NewScanner(core.Options{
				Extensions: cfg.Extensions,
				Privileged: filesystem.IsPrivileged(),
			}, logger)
			scanner.SetWarningCallback(warnings.warn)

			files, err := scanner.Discover(root)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return errors.New("no readable files found")
			}

			printCandidates(os.Stdout, root, files)
			fmt.Printf("\n%d files, %d warnings\n", len(files), warnings.count())
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&extensions, "extensions", nil, "Extra text file extensions (comma-separated)")
	return cmd
}

// versionCmd prints the version
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("logwatch %s\n", version)
		},
	}
}
