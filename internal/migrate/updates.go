package migrate

import (
	"fmt"

	"github.com/desertthunder/mmt/internal/models"
)

// Phase names a stage of the transfer loop.
type Phase string

const (
	PhaseVerifying Phase = "verifying"
	PhaseFetching  Phase = "fetching"
	PhaseIngesting Phase = "ingesting"
	PhaseAdvancing Phase = "advancing"
	PhaseComplete  Phase = "complete"
	PhaseFailed    Phase = "failed"
)

// ProgressUpdate is a transfer status snapshot published to observers.
type ProgressUpdate struct {
	Kind       models.EntityKind
	Phase      Phase
	Page       int
	TotalPages int
	Percentage float64
	Message    string
}

// NewProgressUpdate creates an update for the given phase and state.
func NewProgressUpdate(kind models.EntityKind, phase Phase, state *models.TransferState, format string, args ...any) ProgressUpdate {
	update := ProgressUpdate{Kind: kind, Phase: phase, Message: fmt.Sprintf(format, args...)}
	if state != nil {
		update.Page = state.Page
		update.TotalPages = state.TotalPages
		update.Percentage = state.Percentage
	}
	return update
}
