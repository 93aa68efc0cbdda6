package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pocketbook/pocketbook/app/core/settings"
	"github.com/pocketbook/pocketbook/app/logger"
	"github.com/pocketbook/pocketbook/app/paniclogger"
	"github.com/pocketbook/pocketbook/app/pocketbook/cmd/utils/validator"
	"github.com/pocketbook/pocketbook/app/pocketbook/router"
	"github.com/pocketbook/pocketbook/app/pocketbook/session"
	"github.com/spf13/cobra"
)

// noSession marks commands that run without opening the data directory.
const noSession = "pocketbook/no-session"

var (
	rootPath string
	pageSize int
	verbose  bool

	cfg       *settings.Settings
	sess      *session.Session
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:     "pocketbook",
	Short:   "Contacts and notes in your terminal",
	Version: Version,
	Long: `
📒 pocketbook (` + Version + `)

Keep contacts and notes in a local, compressed data directory.

CONTACTS:
  contact     Add, edit, find and list contacts
  browse      Page through contacts or notes full screen

NOTES:
  note        Add, edit, tag, find and list notes

INTERACTIVE:
  shell       Type commands one after another ("help" lists them)

DATA MANAGEMENT:
  export      Write all data as JSON or YAML
  import      Read contacts and notes from an export
  backup      Archive the data directory as tar.gz
  restore     Replace the data with a backup archive
  stats       Show data file statistics
  config      Show or change the settings in <root>/.env

CONFIGURATION (environment or <root>/.env):
  POCKETBOOK_ROOT_PATH       data directory (default ~/.pocketbook)
  POCKETBOOK_PAGE_SIZE       records per page (default 3)
  POCKETBOOK_COMPRESSION     none, snappy, lz4 or zstd (default snappy)
  POCKETBOOK_MAX_BLOCK_SIZE  block size, e.g. 16KB (default 16KB)
  LOG_LEVEL                  debug, info, warn or error (default info)

EXAMPLES:
  pocketbook contact add John --phone 0501234567
  pocketbook contact show
  pocketbook note add "buy milk" --tags "home shop"
  pocketbook shell
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// help and the bare root command never touch the data directory
		if cmd.Annotations[noSession] == "true" || cmd.Name() == "help" || !cmd.HasParent() {
			return nil
		}
		return openSession(cmd.Context())
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// Execute runs the CLI and exits with status 1 on error.
func Execute() {
	err := rootCmd.ExecuteContext(context.Background())
	closeSession()
	if err != nil {
		fmt.Println("❌ Error:", describe(err))
		os.Exit(1)
	}
}

func init() {
	// Disable Cobra's automatic "completion" command
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("pocketbook {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&rootPath, "root", "", "Data directory (overrides POCKETBOOK_ROOT_PATH)")
	rootCmd.PersistentFlags().IntVar(&pageSize, "page-size", 0, "Records per page (overrides POCKETBOOK_PAGE_SIZE)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Mirror the log to stderr")
}

// openSession loads the settings, sets up logging and opens the books.
func openSession(ctx context.Context) error {
	var err error
	cfg, err = settings.Load(ctx, validator.New(), settings.Overrides{RootPath: rootPath, PageSize: pageSize})
	if err != nil {
		return err
	}

	log, closer, err := logger.New(logger.Config{
		Dir:     cfg.LogDir(),
		Level:   cfg.SlogLevel(),
		Console: verbose,
	})
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	logCloser = closer
	slog.SetDefault(log)

	if err := paniclogger.Init(cfg.LogDir()); err != nil {
		log.Warn("panic log unavailable", "error", err)
	}

	sess, err = session.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	for _, w := range sess.Warnings() {
		fmt.Fprintln(os.Stderr, "⚠️ ", w)
	}
	return nil
}

func closeSession() {
	if sess != nil {
		if err := sess.Close(); err != nil {
			slog.Error("failed to release the data directory lock", "error", err)
		}
		sess = nil
	}
	_ = paniclogger.Close()
	if logCloser != nil {
		_ = logCloser.Close()
		logCloser = nil
	}
}

// describe words errors for the terminal the same way the shell does.
func describe(err error) string {
	return strings.TrimPrefix(router.Describe(err), "Error: ")
}

// printResult prints the output of a session operation or returns its error.
func printResult(out string, err error) error {
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}
