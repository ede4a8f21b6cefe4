// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, accessCommand, migrateCommand, serveCommand, reportCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand initializes configuration and the local content store
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and the content store",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
		},
	}
}

// accessCommand verifies connectivity and the shared key against the remote
func accessCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "access",
		Usage:  "Verify the migration key against the remote site",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Access,
	}
}

// migrateCommand pulls remote collections into the local store
func migrateCommand(r *Runner) *cli.Command {
	migrationFlags := func() []cli.Flag {
		return []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "ui",
				Usage: "Run with the interactive terminal interface",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Report format: text, json, markdown, csv",
				Value:   "text",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the report to a file instead of stdout",
			},
		}
	}

	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Pull content from the remote site",
		Commands: []*cli.Command{
			{
				Name:   "users",
				Usage:  "Classify and migrate remote users",
				Flags:  migrationFlags(),
				Action: r.MigrateUsers,
			},
			{
				Name:   "terms",
				Usage:  "Classify and migrate taxonomy terms",
				Flags:  migrationFlags(),
				Action: r.MigrateTerms,
			},
			{
				Name:   "media",
				Usage:  "Migrate media attachments",
				Flags:  migrationFlags(),
				Action: r.MigrateMedia,
			},
			{
				Name:   "posts",
				Usage:  "Migrate posts with terms and featured images",
				Flags:  migrationFlags(),
				Action: r.MigratePosts,
			},
			{
				Name:   "all",
				Usage:  "Migrate everything in dependency order",
				Flags:  migrationFlags(),
				Action: r.MigrateAll,
			},
		},
	}
}

// serveCommand exposes the local store to a remote migration
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Serve the migration endpoints for a remote site to pull from",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Serve,
	}
}

// reportCommand summarizes the local store's migration state
func reportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Summarize migrated and referenced records in the local store",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Report,
	}
}
