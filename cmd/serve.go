package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/desertthunder/mmt/internal/migrate"
	"github.com/desertthunder/mmt/internal/repositories"
	"github.com/desertthunder/mmt/internal/server"
	"github.com/desertthunder/mmt/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve exposes the local store's migration endpoints until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd.String("config"))

	if r.config.Server.Key == "" {
		return fmt.Errorf("%w: server.key is not configured", shared.ErrMissingKey)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	users := repositories.NewUserRepository(db)
	terms := repositories.NewTermRepository(db)
	content := repositories.NewContentRepository(db)

	// Batch ingest on the serving side rewrites nothing: the pushing remote
	// has already rewritten guids to this site's URL.
	resolver := migrate.NewResolver(users, terms, content)
	rewriter := migrate.NewHostRewriter("", r.config.Server.BaseURL())
	importer := migrate.NewContentImporter(content, users, resolver, rewriter, r.config.Migration.FallbackAuthorID, r.logger)

	router := server.NewProtocolRouter(r.config.Server, users, terms, content, importer, r.logger)
	srv := server.New(r.config.Server, router, r.logger)

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r.writePlain("Serving migration endpoints on %s (ctrl+c to stop)\n", r.config.Server.Addr())
	return srv.Start(signalCtx)
}
