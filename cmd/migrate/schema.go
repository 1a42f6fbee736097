package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/tourbook/backend/internal/infrastructure/migration"
)

func newUpCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withMigrator(func(m *migration.Migrator) error {
				if err := m.Up(); err != nil {
					return err
				}
				return report(cmd, m)
			})
		},
	}
}

func newDownCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Roll back every migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !opts.confirm(cmd, "Roll back the whole schema?") {
				return errAborted
			}
			return opts.withMigrator(func(m *migration.Migrator) error {
				if err := m.Down(); err != nil {
					return err
				}
				return report(cmd, m)
			})
		},
	}
}

func newStepsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "steps <n>",
		Short: "Apply n migrations, or roll back when n is negative",
		Example: `  migrate steps 1
  migrate steps -- -1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil || n == 0 {
				return fmt.Errorf("invalid step count %q", args[0])
			}
			return opts.withMigrator(func(m *migration.Migrator) error {
				if err := m.Steps(n); err != nil {
					return err
				}
				return report(cmd, m)
			})
		},
	}
}

func newGotoCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "goto <version>",
		Short: "Migrate up or down to a specific version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseVersion(args[0])
			if err != nil {
				return err
			}
			return opts.withMigrator(func(m *migration.Migrator) error {
				if err := m.GoTo(v); err != nil {
					return err
				}
				return report(cmd, m)
			})
		},
	}
}

func newVersionCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withMigrator(func(m *migration.Migrator) error {
				return report(cmd, m)
			})
		},
	}
}

func newForceCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "force <version>",
		Short: "Record a version without running migrations",
		Long: `Record a version without running migrations. Use it to clear the dirty
flag after repairing a failed migration by hand.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := strconv.Atoi(args[0])
			if err != nil || v < -1 {
				return fmt.Errorf("invalid version %q", args[0])
			}
			return opts.withMigrator(func(m *migration.Migrator) error {
				if err := m.Force(v); err != nil {
					return err
				}
				return report(cmd, m)
			})
		},
	}
}

func newDropCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "drop",
		Short: "Drop every table in the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !opts.confirm(cmd, "Drop every table? All data will be lost.") {
				return errAborted
			}
			return opts.withMigrator(func(m *migration.Migrator) error {
				if err := m.Drop(); err != nil {
					return err
				}
				warnColor.Fprintln(cmd.OutOrStdout(), "database dropped")
				return nil
			})
		},
	}
}

func newCreateCmd(opts *options) *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Scaffold an empty up/down migration pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mf, err := migration.CreateMigration(migrationsDir(opts), args[0], description)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			successColor.Fprintf(out, "created migration %06d\n", mf.Version)
			fmt.Fprintln(out, "  "+mf.UpPath)
			fmt.Fprintln(out, "  "+mf.DownPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "description written into the file header")
	return cmd
}

func newListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List migration files on disk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := migration.ListMigrations(migrationsDir(opts))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(list) == 0 {
				dimColor.Fprintln(out, "no migrations found")
				return nil
			}
			for _, mi := range list {
				fmt.Fprintf(out, "%s %s\n", dimColor.Sprintf("%06d", mi.Version), mi.Name)
			}
			return nil
		},
	}
}

var errAborted = errors.New("aborted")

// migrationsDir is where create and list operate; they need real files
func migrationsDir(opts *options) string {
	if opts.path != "" {
		return opts.path
	}
	return "migrations"
}

func report(cmd *cobra.Command, m *migration.Migrator) error {
	status, err := m.Status()
	if err != nil {
		return err
	}
	printStatus(cmd, status)
	return nil
}

func parseVersion(s string) (uint, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid version %q", s)
	}
	return uint(v), nil
}
