package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/mmt/internal/migrate"
	"github.com/desertthunder/mmt/internal/models"
	"github.com/desertthunder/mmt/internal/shared"
	"github.com/desertthunder/mmt/internal/ui"
)

// runTUI launches the interactive terminal UI for a migration run.
func (r *Runner) runTUI(ctx context.Context, engine *migrate.Engine, remoteName string, kinds []models.EntityKind) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/mmt-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, engine, remoteName, kinds)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
