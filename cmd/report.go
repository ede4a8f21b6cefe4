package main

import (
	"context"

	"github.com/desertthunder/mmt/internal/repositories"
	"github.com/urfave/cli/v3"
)

// StoreReport summarizes what the local content store holds.
type StoreReport struct {
	Users           int `json:"users"`
	ReferencedUsers int `json:"referenced_users"`
	Terms           int `json:"terms"`
	ReferencedTerms int `json:"referenced_terms"`
	Posts           int `json:"posts"`
	MigratedPosts   int `json:"migrated_posts"`
	Media           int `json:"media"`
	MigratedMedia   int `json:"migrated_media"`
}

// Report prints migration bookkeeping for the local store: how many records
// exist, how many arrived through a migration, and how many reference remote
// identities.
func (r *Runner) Report(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd.String("config"))

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	users := repositories.NewUserRepository(db)
	terms := repositories.NewTermRepository(db)
	content := repositories.NewContentRepository(db)

	var report StoreReport
	if report.Users, err = users.Count(); err != nil {
		return err
	}
	if report.ReferencedUsers, err = users.CountReferenced(); err != nil {
		return err
	}
	if report.Terms, err = terms.Count(false); err != nil {
		return err
	}
	if report.ReferencedTerms, err = terms.CountReferenced(); err != nil {
		return err
	}
	if report.Posts, err = content.Count("post"); err != nil {
		return err
	}
	if report.MigratedPosts, err = content.CountMigrated("post"); err != nil {
		return err
	}
	if report.Media, err = content.Count("attachment"); err != nil {
		return err
	}
	if report.MigratedMedia, err = content.CountMigrated("attachment"); err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(report, true)
	}

	r.writePlainHeader("Content Store Report")
	r.writePlain("Users: %d (%d referenced)\n", report.Users, report.ReferencedUsers)
	r.writePlain("Terms: %d (%d referenced)\n", report.Terms, report.ReferencedTerms)
	r.writePlain("Posts: %d (%d migrated)\n", report.Posts, report.MigratedPosts)
	r.writePlain("Media: %d (%d migrated)\n", report.Media, report.MigratedMedia)
	return nil
}
