// Command migrate manages the database schema and demo data.
package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/fatih/color"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"github.com/tourbook/backend/internal/infrastructure/config"
	"github.com/tourbook/backend/internal/infrastructure/logger"
	"github.com/tourbook/backend/internal/infrastructure/migration"
	"github.com/tourbook/backend/migrations"
	"go.uber.org/zap"
)

var version = "dev"

var (
	successColor = color.New(color.FgGreen, color.Bold)
	warnColor    = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	dimColor     = color.New(color.Faint)
)

// options are the persistent flags shared by every command
type options struct {
	path     string
	logLevel string
	noColor  bool
	yes      bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the Tourbook database schema",
		Long: `Apply, roll back and inspect SQL migrations, scaffold new migration
files and load demo fixtures. Migrations are read from the binary unless
--path points at a directory.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
	}

	root.PersistentFlags().StringVar(&opts.path, "path", "", "read migrations from this directory instead of the embedded set")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug|info|warn|error)")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	root.PersistentFlags().BoolVarP(&opts.yes, "yes", "y", false, "skip confirmation for destructive commands")

	root.AddCommand(
		newUpCmd(opts),
		newDownCmd(opts),
		newStepsCmd(opts),
		newGotoCmd(opts),
		newVersionCmd(opts),
		newForceCmd(opts),
		newDropCmd(opts),
		newCreateCmd(opts),
		newListCmd(opts),
		newSeedCmd(opts),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errorColor.Fprint(os.Stderr, "error: ")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env holds what a database command needs
type env struct {
	cfg *config.Config
	log *zap.Logger
}

func (o *options) env() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	log := logger.New(logger.Config{Level: o.logLevel, Format: "console", Output: "stderr"})
	return &env{cfg: cfg, log: log}, nil
}

func (o *options) source() migration.Source {
	if o.path != "" {
		return migration.FromDir(o.path)
	}
	return migration.FromFS(migrations.FS)
}

// withMigrator opens the database, runs fn and releases everything
func (o *options) withMigrator(fn func(m *migration.Migrator) error) error {
	e, err := o.env()
	if err != nil {
		return err
	}
	defer func() { _ = e.log.Sync() }()

	db, err := sql.Open("postgres", e.cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to reach database: %w", err)
	}

	src := o.source()
	e.log.Debug("Using migrations", zap.String("source", src.String()))
	m, err := migration.New(db, src, e.log)
	if err != nil {
		return err
	}
	defer m.Close()

	return fn(m)
}

// confirm asks before destructive commands unless --yes was given
func (o *options) confirm(cmd *cobra.Command, prompt string) bool {
	if o.yes {
		return true
	}
	warnColor.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", prompt)
	var answer string
	_, _ = fmt.Fscanln(cmd.InOrStdin(), &answer)
	return answer == "y" || answer == "Y" || answer == "yes"
}

func printStatus(cmd *cobra.Command, status migration.Status) {
	out := cmd.OutOrStdout()
	if !status.Applied {
		dimColor.Fprintln(out, "no migrations applied")
		return
	}
	if status.Dirty {
		errorColor.Fprintf(out, "version %d (dirty)\n", status.Version)
		dimColor.Fprintln(out, "fix the failed migration, then run: migrate force <version>")
		return
	}
	successColor.Fprintf(out, "version %d\n", status.Version)
}
