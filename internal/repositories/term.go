package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/desertthunder/mmt/internal/models"
)

// TermRepository persists taxonomy terms. Slugs are unique within a taxonomy,
// never globally.
type TermRepository struct {
	db *sql.DB
}

// NewTermRepository creates a new [TermRepository] with the given database connection
func NewTermRepository(db *sql.DB) *TermRepository {
	return &TermRepository{db: db}
}

// FindBySlug looks up a term by slug within a taxonomy.
// Returns (nil, nil) when no term matches.
func (r *TermRepository) FindBySlug(slug, taxonomy string) (*models.Term, error) {
	query := `SELECT id, name, slug, taxonomy, parent_id FROM terms WHERE slug = ? AND taxonomy = ?`

	var term models.Term
	err := r.db.QueryRow(query, slug, taxonomy).Scan(&term.ID, &term.Name, &term.Slug, &term.Taxonomy, &term.ParentID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query term by slug: %w", err)
	}

	return &term, nil
}

// Create inserts a remote term as a new local term under the given local parent
// id (0 for a root term).
func (r *TermRepository) Create(remote models.RemoteTerm, parentID int64) (*models.Term, error) {
	query := `
		INSERT INTO terms (name, slug, taxonomy, description, parent_id)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query, remote.Name, remote.Slug, remote.Taxonomy, remote.Description, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert term: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get inserted term id: %w", err)
	}

	return &models.Term{ID: id, Name: remote.Name, Slug: remote.Slug, Taxonomy: remote.Taxonomy, ParentID: parentID}, nil
}

// SetReference annotates a local term with a link to the remote term it stands
// in for. Re-running a classification overwrites the previous link.
func (r *TermRepository) SetReference(termID int64, remote models.RemoteTerm) error {
	raw, err := json.Marshal(remote)
	if err != nil {
		return fmt.Errorf("failed to serialize remote term: %w", err)
	}

	if err := upsertMeta(r.db, "term_meta", "term_id", termID, "mmt_reference_term_id", fmt.Sprintf("%d", remote.ID)); err != nil {
		return fmt.Errorf("failed to write term reference id: %w", err)
	}
	if err := upsertMeta(r.db, "term_meta", "term_id", termID, "mmt_reference_term_object", string(raw)); err != nil {
		return fmt.Errorf("failed to write term reference object: %w", err)
	}

	return nil
}

// Count returns the number of local terms. When hideEmpty is set, terms with
// no attached content are excluded.
func (r *TermRepository) Count(hideEmpty bool) (int, error) {
	query := `SELECT COUNT(*) FROM terms`
	if hideEmpty {
		query = `SELECT COUNT(DISTINCT t.id) FROM terms t JOIN term_relationships tr ON tr.term_id = t.id`
	}

	var count int
	if err := r.db.QueryRow(query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count terms: %w", err)
	}
	return count, nil
}

// CountReferenced returns the number of local terms carrying a remote
// reference link.
func (r *TermRepository) CountReferenced() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM term_meta WHERE meta_key = 'mmt_reference_term_id'`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count referenced terms: %w", err)
	}
	return count, nil
}

// ListPage returns one page of local terms rendered in wire form, ordered by id.
// Parent references travel as local parent ids; the consuming side re-derives
// parent slugs during classification. When hideEmpty is set, terms with no
// attached content are excluded.
func (r *TermRepository) ListPage(page, perPage int, hideEmpty bool) ([]models.RemoteTerm, error) {
	if page < 1 {
		page = 1
	}

	query := `
		SELECT id, name, slug, taxonomy, description, parent_id
		FROM terms
		ORDER BY id ASC
		LIMIT ? OFFSET ?
	`
	if hideEmpty {
		query = `
			SELECT DISTINCT t.id, t.name, t.slug, t.taxonomy, t.description, t.parent_id
			FROM terms t
			JOIN term_relationships tr ON tr.term_id = t.id
			ORDER BY t.id ASC
			LIMIT ? OFFSET ?
		`
	}

	rows, err := r.db.Query(query, perPage, (page-1)*perPage)
	if err != nil {
		return nil, fmt.Errorf("failed to query terms: %w", err)
	}
	defer rows.Close()

	var terms []models.RemoteTerm
	for rows.Next() {
		var t models.RemoteTerm
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.Taxonomy, &t.Description, &t.Parent); err != nil {
			return nil, fmt.Errorf("failed to scan term: %w", err)
		}
		terms = append(terms, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return terms, nil
}

// Taxonomies returns the taxonomy names present locally and the term count per
// taxonomy, for the terms collection response.
func (r *TermRepository) Taxonomies() ([]string, map[string]int, error) {
	rows, err := r.db.Query(`SELECT taxonomy, COUNT(*) FROM terms GROUP BY taxonomy ORDER BY taxonomy ASC`)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query taxonomies: %w", err)
	}
	defer rows.Close()

	var names []string
	counts := make(map[string]int)
	for rows.Next() {
		var name string
		var count int
		if err := rows.Scan(&name, &count); err != nil {
			return nil, nil, fmt.Errorf("failed to scan taxonomy: %w", err)
		}
		names = append(names, name)
		counts[name] = count
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("row iteration error: %w", err)
	}

	return names, counts, nil
}
