// Package cmd implements the postsync command tree.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/synclab/postsync"
	"github.com/synclab/postsync/internal/config"
	"github.com/synclab/postsync/pkg/logging"
)

var (
	configFile     string
	logLevel       string
	logFormat      string
	quiet          bool
	verbose        bool
	noColor        bool
	routesDir      string
	collectionFile string

	// cfg is the configuration loaded before any command runs.
	cfg *config.Config

	// Version information set by main.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// Date is the build date.
	Date = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "postsync",
	Short: "Keep a Postman collection in sync with your route files",
	Long: `Postsync scans the Fastify route declarations in a TypeScript codebase
and merges them into a persisted Postman collection document.

Hand-written descriptions, test scripts and saved examples survive the
merge. Routes that disappear from the codebase are marked deprecated
and removed after a retention window. The refreshed collection can be
pushed to the Postman API and staged in git automatically.

Configuration comes from POSTMAN_* environment variables, .env files,
or a .postsync.yaml config file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. It exits the process on failure.
func Execute(version, commit, date string) {
	Version = version
	Commit = commit
	Date = date

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default .postsync.yaml in . or $HOME)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (auto, console, json)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log warnings and errors")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&routesDir, "routes-dir", "", "directory scanned for route files (default from config)")
	rootCmd.PersistentFlags().StringVar(&collectionFile, "collection", "", "collection document path (default from config)")
}

// initConfig loads .env files and the configuration before any command
// runs, then configures logging from the resolved settings.
func initConfig() {
	config.LoadEnvFiles()

	loaded, err := config.Load(configFile)
	cobra.CheckErr(err)
	cfg = loaded

	configureLogging()
}

// configureLogging sets up the default logger from flags, environment
// and configuration, in falling precedence.
func configureLogging() {
	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	if verbose {
		level = zerolog.DebugLevel.String()
	}
	if quiet {
		level = zerolog.WarnLevel.String()
	}

	format := logFormat
	if format == "" {
		format = "auto"
	}

	logging.Configure(&logging.Config{
		Level:   level,
		Format:  format,
		Output:  "stderr",
		NoColor: noColor || os.Getenv("NO_COLOR") != "",
	})
}

// effectiveRoutesDir resolves the routes directory from the flag and
// the configuration.
func effectiveRoutesDir() string {
	if routesDir != "" {
		return routesDir
	}
	return cfg.RoutesDir
}

// effectiveCollectionFile resolves the collection document path from
// the flag and the configuration.
func effectiveCollectionFile() string {
	if collectionFile != "" {
		return collectionFile
	}
	return cfg.CollectionFile
}

// newSyncer builds a Syncer from the loaded configuration with the
// persistent flag overrides applied, plus any extra options.
func newSyncer(opts ...postsync.Option) (postsync.Syncer, error) {
	base := []postsync.Option{postsync.WithConfig(cfg)}
	if routesDir != "" {
		base = append(base, postsync.WithRoutesDir(routesDir))
	}
	if collectionFile != "" {
		base = append(base, postsync.WithCollectionFile(collectionFile))
	}
	return postsync.New(append(base, opts...)...)
}
