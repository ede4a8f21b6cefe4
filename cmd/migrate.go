package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/mmt/internal/formatter"
	"github.com/desertthunder/mmt/internal/migrate"
	"github.com/desertthunder/mmt/internal/models"
	"github.com/urfave/cli/v3"
)

// MigrateUsers classifies and migrates remote users.
func (r *Runner) MigrateUsers(ctx context.Context, cmd *cli.Command) error {
	return r.runMigration(ctx, cmd, models.KindUser)
}

// MigrateTerms classifies and migrates taxonomy terms.
func (r *Runner) MigrateTerms(ctx context.Context, cmd *cli.Command) error {
	return r.runMigration(ctx, cmd, models.KindTerm)
}

// MigrateMedia migrates media attachments.
func (r *Runner) MigrateMedia(ctx context.Context, cmd *cli.Command) error {
	return r.runMigration(ctx, cmd, models.KindMedia)
}

// MigratePosts migrates posts with their terms and featured images.
func (r *Runner) MigratePosts(ctx context.Context, cmd *cli.Command) error {
	return r.runMigration(ctx, cmd, models.KindPost)
}

// MigrateAll migrates every collection in dependency order.
func (r *Runner) MigrateAll(ctx context.Context, cmd *cli.Command) error {
	return r.runMigration(ctx, cmd,
		models.KindUser, models.KindTerm, models.KindMedia, models.KindPost)
}

func (r *Runner) runMigration(ctx context.Context, cmd *cli.Command, kinds ...models.EntityKind) error {
	r.reloadConfig(cmd.String("config"))

	source, err := r.remoteSource()
	if err != nil {
		return err
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	engine := r.buildEngine(db, source)

	if cmd.Bool("ui") {
		return r.runTUI(ctx, engine, source.Name(), kinds)
	}

	kindNames := make([]string, len(kinds))
	for i, kind := range kinds {
		kindNames[i] = string(kind)
	}
	r.logger.Info("starting migration", "remote", source.Name(), "kinds", strings.Join(kindNames, ","))

	updates := make(chan migrate.ProgressUpdate, 64)
	engine.SetUpdates(updates)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range updates {
			switch update.Phase {
			case migrate.PhaseVerifying:
				r.writePlain("🔑 %s\n", update.Message)
			case migrate.PhaseFetching:
				r.writePlain("📥 [%s] %s\n", update.Kind, update.Message)
			case migrate.PhaseAdvancing:
				r.writePlain("   [%s] %s\n", update.Kind, update.Message)
			case migrate.PhaseComplete:
				r.writePlain("✓ [%s] %s\n", update.Kind, update.Message)
			case migrate.PhaseFailed:
				r.writePlain("✗ [%s] %s\n", update.Kind, update.Message)
			}
		}
	}()

	var reports []*migrate.Report
	var runErr error
	for _, kind := range kinds {
		var report *migrate.Report
		report, runErr = engine.Run(ctx, kind)
		if report != nil {
			reports = append(reports, report)
		}
		if runErr != nil {
			break
		}
	}
	close(updates)
	<-done

	if err := r.writeReports(cmd, reports); err != nil {
		return err
	}
	return runErr
}

// writeReports renders the run's reports in the requested format, to stdout or
// the --output path.
func (r *Runner) writeReports(cmd *cli.Command, reports []*migrate.Report) error {
	if len(reports) == 0 {
		return nil
	}

	format := cmd.String("format")
	outputPath := cmd.String("output")

	var data []byte
	var err error
	switch format {
	case "", "text":
		data, err = formatter.ExportToText(reports)
	case "json":
		data, err = formatter.ToJSON(reports)
	case "markdown", "md":
		data, err = formatter.ExportToMarkdown(reports)
	case "csv":
		data, err = formatter.ExportToCSV(reports)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
	if err != nil {
		return err
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		r.writePlain("Report written to %s\n", outputPath)
		return nil
	}

	r.writePlainHeader("Migration Summary")
	return r.writePlain("%s", string(data))
}
