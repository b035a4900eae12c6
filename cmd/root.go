// Package cmd is the shopstore command line. Every invocation opens the
// configured database, ensures the schema, runs one command and closes the
// database again.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/kendall-kelly/shopstore/config"
	"github.com/kendall-kelly/shopstore/logging"
	"github.com/kendall-kelly/shopstore/store"
)

// app carries the state shared by every command of one invocation
type app struct {
	databaseURL string
	logLevel    string
	logFormat   string

	cfg   *config.Config
	db    *gorm.DB
	store *store.Store
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "shopstore",
		Short: "Manage clients, products and orders",
		Long: `shopstore keeps clients, products and orders in a sqlite or PostgreSQL
database and turns product selections into stock-checked orders.

Examples:

  shopstore client add --name Ann --email ann@example.com --phone +1234567890
  shopstore product add --name Pen --price 1.5 --quantity 10
  shopstore order checkout --client 1 --item 1:3
  shopstore report top-clients
`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.open,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	flags := root.PersistentFlags()
	flags.StringVar(&a.databaseURL, "database", "", "sqlite path or postgres:// URL (default $DATABASE_URL or "+config.DefaultDatabaseURL+")")
	flags.StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error (default $LOG_LEVEL or info)")
	flags.StringVar(&a.logFormat, "log-format", "", "text or json (default $LOG_FORMAT, else json in production and text elsewhere)")

	root.AddCommand(
		a.newSchemaCmd(),
		a.newClientCmd(),
		a.newProductCmd(),
		a.newOrderCmd(),
		a.newReindexCmd(),
		a.newExportCmd(),
		a.newImportCmd(),
		a.newReportCmd(),
	)
	return root
}

// open loads configuration, applies flag overrides and connects the store
func (a *app) open(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.databaseURL != "" {
		cfg.DatabaseURL = a.databaseURL
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.logFormat != "" {
		cfg.LogFormat = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	logging.Setup(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)

	db, err := config.OpenDatabase(cfg)
	if err != nil {
		return err
	}
	a.db = db
	if err := store.EnsureSchema(db); err != nil {
		return err
	}
	a.store = store.New(db)
	return nil
}

func (a *app) close() error {
	if a.db == nil {
		return nil
	}
	err := config.CloseDatabase(a.db)
	a.db, a.store = nil, nil
	return err
}

// Run executes the command line in args, writing results to stdout and logs
// to stderr. The database is closed before Run returns.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := &app{}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	return errors.Join(err, a.close())
}

// Execute runs the CLI
func Execute() {
	if err := Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		color.New(color.FgRed, color.Bold).Fprint(os.Stderr, "✗ ")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseID(arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", arg)
	}
	return uint(id), nil
}
