package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/markdave123-py/Coursely/internal/app"
	db "github.com/markdave123-py/Coursely/internal/core/database"
	"github.com/markdave123-py/Coursely/internal/services"
)

var syncCoursesCmd = &cobra.Command{
	Use:   "sync-courses",
	Short: "Upsert the course registry from the catalogue spreadsheet",
	RunE:  runSyncCourses,
}

func init() {
	syncCoursesCmd.Flags().String("range", "", "Sheet range to read (defaults to GOOGLE_SHEETS_RANGE)")
}

func runSyncCourses(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	rng := cfg.SheetRange
	if v, _ := cmd.Flags().GetString("range"); v != "" {
		rng = v
	}

	ctx := cmd.Context()
	dbClient, err := db.NewDatabaseClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer dbClient.Close()

	src, err := app.SheetSource(ctx, cfg)
	if err != nil {
		return err
	}

	report, err := services.NewCourseService(dbClient, log).Sync(ctx, src, rng)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "synced %d courses", report.Upserted)
	if len(report.Skipped) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), ", skipped rows %v", report.Skipped)
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return nil
}
