package migrate

import (
	"time"

	"github.com/desertthunder/mmt/internal/models"
)

// Report summarizes one migration run for a single entity kind.
type Report struct {
	Kind       models.EntityKind      `json:"kind"`
	StartedAt  time.Time              `json:"started_at"`
	FinishedAt time.Time              `json:"finished_at"`
	Pages      int                    `json:"pages"`
	Created    int                    `json:"created"`
	Referenced int                    `json:"referenced"`
	Skipped    int                    `json:"skipped"`
	Conflicted int                    `json:"conflicted"`
	Failed     int                    `json:"failed"`
	Conflicts  []models.ConflictEntry `json:"conflicts,omitempty"`
	Terms      []models.MigratedTerm  `json:"terms,omitempty"`
}

// Total returns the number of records the run touched.
func (r *Report) Total() int {
	return r.Created + r.Referenced + r.Skipped + r.Conflicted + r.Failed
}

// tally folds per-item outcomes into the run counters.
func (r *Report) tally(outcomes []models.ImportOutcome) {
	for _, outcome := range outcomes {
		switch outcome.Status {
		case models.StatusCreated:
			r.Created++
		case models.StatusSkippedExists:
			r.Skipped++
		case models.StatusSkippedConflict:
			r.Conflicted++
		case models.StatusFailed:
			r.Failed++
		}
	}
}
