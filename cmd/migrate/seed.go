package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/tourbook/backend/internal/infrastructure/migration"
	"github.com/tourbook/backend/internal/infrastructure/persistence"
)

func newSeedCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "seed [file]",
		Short: "Load demo fixtures from a YAML file",
		Long: `Load administrators, categories, destinations, attractions, tours and
team members from a YAML file. Records that already exist are skipped, so
the command can be run repeatedly.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := "seeds/tourbook.yaml"
			if len(args) == 1 {
				file = args[0]
			}
			data, err := migration.LoadSeedFile(file)
			if err != nil {
				return err
			}

			e, err := opts.env()
			if err != nil {
				return err
			}
			defer func() { _ = e.log.Sync() }()

			db, err := persistence.NewDatabase(&e.cfg.Database, persistence.Options{
				Logger:   e.log,
				LogLevel: "warn",
			})
			if err != nil {
				return err
			}
			defer db.Close()

			seeder := migration.NewSeeder(migration.SeedRepositories{
				Users:        persistence.NewGormUserRepository(db.DB),
				Team:         persistence.NewGormTeamMemberRepository(db.DB),
				Categories:   persistence.NewGormCategoryRepository(db.DB),
				Destinations: persistence.NewGormDestinationRepository(db.DB),
				Attractions:  persistence.NewGormAttractionRepository(db.DB),
				Tours:        persistence.NewGormTourRepository(db.DB),
			}, e.log)

			report, err := seeder.Seed(context.Background(), data)
			if report != nil {
				printSeedReport(cmd, report)
			}
			return err
		},
	}
}

func printSeedReport(cmd *cobra.Command, report *migration.SeedReport) {
	out := cmd.OutOrStdout()
	kinds := make([]string, 0, len(report.Created)+len(report.Skipped))
	seen := map[string]bool{}
	for k := range report.Created {
		kinds = append(kinds, k)
		seen[k] = true
	}
	for k := range report.Skipped {
		if !seen[k] {
			kinds = append(kinds, k)
		}
	}
	sort.Strings(kinds)

	for _, k := range kinds {
		fmt.Fprintf(out, "%-14s %s %s\n", k,
			successColor.Sprintf("%3d created", report.Created[k]),
			dimColor.Sprintf("%3d skipped", report.Skipped[k]))
	}
}
