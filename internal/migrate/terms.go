package migrate

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mmt/internal/models"
	"github.com/desertthunder/mmt/internal/shared"
)

// TermImporter creates migrateable terms locally, resolving parent links by
// slug in dependency order.
type TermImporter struct {
	terms  TermStore
	logger *log.Logger
}

// NewTermImporter creates a new [TermImporter].
func NewTermImporter(terms TermStore, logger *log.Logger) *TermImporter {
	return &TermImporter{terms: terms, logger: logger}
}

// Import walks the worklist of migrateable terms until it drains. A term
// whose parent slug has no local row yet is deferred to the next pass; parents
// created mid-pass unblock their children on the following one. A full pass
// that creates nothing means the remaining parents can never resolve (missing
// from the batch, or a reference cycle), so the remainder fails instead of
// looping forever.
//
// A term whose slug gained a local row since classification is skipped rather
// than recreated, which keeps replays idempotent.
func (i *TermImporter) Import(items []models.RemoteTerm) ([]models.MigratedTerm, []models.ImportOutcome, error) {
	var migrated []models.MigratedTerm
	var outcomes []models.ImportOutcome

	pending := items
	for len(pending) > 0 {
		var deferred []models.RemoteTerm
		progress := 0

		for _, remote := range pending {
			existing, err := i.terms.FindBySlug(remote.Slug, remote.Taxonomy)
			if err != nil {
				return migrated, outcomes, fmt.Errorf("failed to check term %q: %w", remote.Slug, err)
			}
			if existing != nil {
				outcomes = append(outcomes, models.ImportOutcome{RecordID: remote.ID, Status: models.StatusSkippedExists})
				progress++
				continue
			}

			parentID, ok, err := i.resolveParent(remote)
			if err != nil {
				return migrated, outcomes, err
			}
			if !ok {
				deferred = append(deferred, remote)
				continue
			}

			term, err := i.terms.Create(remote, parentID)
			if err != nil {
				return migrated, outcomes, fmt.Errorf("%w: term %q: %v", shared.ErrCreateFailed, remote.Slug, err)
			}

			i.logger.Debug("created term", "slug", term.Slug, "taxonomy", term.Taxonomy, "parent_id", parentID)
			migrated = append(migrated, models.MigratedTerm{LocalID: term.ID, Name: term.Name, Slug: term.Slug})
			outcomes = append(outcomes, models.ImportOutcome{RecordID: remote.ID, Status: models.StatusCreated})
			progress++
		}

		if progress == 0 {
			for _, remote := range deferred {
				err := fmt.Errorf("%w: term %q parent %q", shared.ErrUnresolvedParent, remote.Slug, remote.MigrateParentSlug)
				i.logger.Warn("term parent never resolved", "slug", remote.Slug, "parent_slug", remote.MigrateParentSlug)
				outcomes = append(outcomes, models.ImportOutcome{RecordID: remote.ID, Status: models.StatusFailed, Err: err})
			}
			break
		}

		pending = deferred
	}

	return migrated, outcomes, nil
}

// resolveParent maps a term's parent slug to a local term id. Root terms
// resolve immediately to 0; so do terms whose remote parent was absent from
// the batch, which reparents them at the root rather than dropping them.
func (i *TermImporter) resolveParent(remote models.RemoteTerm) (int64, bool, error) {
	if remote.Parent == 0 {
		return 0, true, nil
	}
	if remote.MigrateParentSlug == "" {
		i.logger.Debug("term parent absent from batch, importing at root", "slug", remote.Slug)
		return 0, true, nil
	}

	parent, err := i.terms.FindBySlug(remote.MigrateParentSlug, remote.Taxonomy)
	if err != nil {
		return 0, false, fmt.Errorf("failed to resolve parent of term %q: %w", remote.Slug, err)
	}
	if parent == nil {
		return 0, false, nil
	}
	return parent.ID, true, nil
}
