package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"imdbratings/pkg/auth"
	"imdbratings/pkg/config"
	errs "imdbratings/pkg/errors"
	"imdbratings/pkg/imdb"
	"imdbratings/pkg/logger"
	"imdbratings/pkg/profile"
	"imdbratings/pkg/scraper"
	"imdbratings/pkg/storage"
	"imdbratings/pkg/ui"
)

var (
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	configFile  string
	logLevel    string
	logFile     string
	cookiesFile string
	accountName string
	retries     int
	threads     int
	timeoutSecs int
	overwrite   bool
	quiet       bool
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "imdbratings <input-file> <output-dir>",
	Short: "Bulk download IMDb user rating exports",
	Long: `imdbratings downloads the ratings export of every IMDb user listed in a CSV
file of (username, profile URL) rows and writes <output-dir>/<username>.csv.

Failed downloads are retried in whole passes until they succeed or the
retry budget is spent. Exports that already exist are skipped unless
--overwrite is given.

An input file named like a subcommand (auth, config) must follow "--":
  imdbratings -- auth ./ratings`,
	Example: `  # Download with defaults (3 threads, 100 retries)
  imdbratings users.csv ./ratings

  # Authenticated session from a cookie file
  imdbratings users.csv ./ratings --cookies cookies.txt

  # Use cookies stored with 'imdbratings auth login'
  imdbratings users.csv ./ratings --account main --threads 5

  # Input file named "config"
  imdbratings --threads 5 -- config ./ratings`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	Args:          cobra.ExactArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

// Execute runs the root command and exits 1 on any returned error
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.PrintError("Error", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is ./.imdbratings.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "output.log", "log file path, empty to log to stderr")

	rootCmd.Flags().StringVar(&cookiesFile, "cookies", "", "path to a cookie file (key=value; key2=value2)")
	rootCmd.Flags().StringVarP(&accountName, "account", "a", "", "use cookies stored with 'auth login'")
	rootCmd.Flags().IntVar(&retries, "retries", 100, "number of retry passes after the first")
	rootCmd.Flags().IntVarP(&threads, "threads", "t", 3, "number of concurrent downloads")
	rootCmd.Flags().IntVar(&timeoutSecs, "timeout", 60, "request timeout in seconds")
	rootCmd.Flags().BoolVar(&overwrite, "overwrite", false, "download exports that already exist")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "only print pass results and the summary")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "also log to the console")

	rootCmd.SetVersionTemplate(`imdbratings {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// collectFlags returns only the flags the user actually set, so that
// unset flags never override the config file or the environment
func collectFlags(cmd *cobra.Command, outputDir string) map[string]interface{} {
	flags := map[string]interface{}{"output": outputDir}
	changed := cmd.Flags().Changed

	if changed("cookies") {
		flags["cookies"] = cookiesFile
	}
	if changed("account") {
		flags["account"] = accountName
	}
	if changed("retries") {
		flags["retries"] = retries
	}
	if changed("threads") {
		flags["threads"] = threads
	}
	if changed("timeout") {
		flags["timeout"] = time.Duration(timeoutSecs) * time.Second
	}
	if changed("overwrite") {
		flags["overwrite"] = overwrite
	}
	if changed("log-level") {
		flags["log-level"] = logLevel
	}
	if changed("log-file") {
		flags["log-file"] = logFile
	}
	if changed("verbose") {
		flags["log-console"] = verbose
	}
	return flags
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, collectFlags(cmd, args[1]))
	if err != nil {
		return err
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return errs.Config("cannot set up logging", err)
	}
	logger.WithField("version", version).Info("imdbratings starting")

	var manager *auth.Manager
	if cfg.Session.Account != "" {
		manager, err = auth.NewManager()
		if err != nil {
			return fmt.Errorf("failed to initialize credential manager: %w", err)
		}
	}

	_, err = export(cmd.Context(), cfg, args[0], manager, cmd.OutOrStdout())
	return err
}

// export runs one complete download. Residual failures are part of the
// summary; only configuration problems are returned as errors.
func export(ctx context.Context, cfg *config.Config, inputFile string, manager *auth.Manager, out io.Writer) (*scraper.Summary, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	log := logger.GetLogger()
	terminal := ui.NewTerminal(out)

	session, err := auth.ResolveSession(cfg.Session.CookiesFile, cfg.Session.Account, manager)
	if err != nil {
		return nil, err
	}

	profiles, err := profile.Load(inputFile)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewManager(cfg.Output.Directory)
	if err != nil {
		return nil, err
	}

	userAgent := cfg.Session.UserAgent
	if session.UserAgent != "" {
		userAgent = session.UserAgent
	}
	client, err := imdb.NewClient(imdb.Options{
		BaseURL:   cfg.Session.BaseURL,
		UserAgent: userAgent,
		Timeout:   cfg.Session.Timeout,
		Cookies:   session.Cookies,
		Logger:    log,
	})
	if err != nil {
		return nil, err
	}

	terminal.PrintInfo("Profiles", fmt.Sprintf("%d from %s", len(profiles), inputFile))
	terminal.PrintInfo("Output", store.GetOutputDir())
	terminal.PrintInfo("Session", fmt.Sprintf("%s (%d cookies)", session.Source, len(session.Cookies)))

	reporter := ui.NewPassReporter(out, len(profiles), quiet)
	s, err := scraper.New(client, store, reporter, scraper.Options{
		MaxRetries:  cfg.Download.Retries,
		Overwrite:   cfg.Download.Overwrite,
		Concurrency: cfg.Download.Threads,
	}, log)
	if err != nil {
		return nil, err
	}

	summary, err := s.Run(ctx, profiles)
	if err != nil {
		return nil, err
	}

	if summary.Clean() {
		terminal.PrintSuccess(fmt.Sprintf("Done in %s", reporter.Tracker().GetElapsedTime().Round(time.Millisecond)))
	} else {
		terminal.PrintWarning(fmt.Sprintf("%d export(s) could not be downloaded, see %s", len(summary.Failed), cfg.Logging.File))
	}
	return summary, nil
}
