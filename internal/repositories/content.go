package repositories

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/desertthunder/mmt/internal/models"
)

// ContentRepository persists posts and media attachments in the shared content
// table, distinguished by content_type.
type ContentRepository struct {
	db *sql.DB
}

// NewContentRepository creates a new [ContentRepository] with the given database connection
func NewContentRepository(db *sql.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// FindByGUID looks up a content row by guid, optionally restricted to the
// given content types. Returns (nil, nil) when no row matches.
func (r *ContentRepository) FindByGUID(guid string, contentTypes ...string) (*models.Post, error) {
	query := `SELECT id, guid, name, content_type, title, author_id FROM content WHERE guid = ?`
	args := []any{guid}

	switch len(contentTypes) {
	case 0:
	case 1:
		query += ` AND content_type = ?`
		args = append(args, contentTypes[0])
	default:
		query += ` AND content_type IN (?` + strings.Repeat(", ?", len(contentTypes)-1) + `)`
		for _, t := range contentTypes {
			args = append(args, t)
		}
	}

	return r.findOne(query, args...)
}

// FindByName looks up a content row by its path slug (post_name) and type.
// Returns (nil, nil) when no row matches.
func (r *ContentRepository) FindByName(name, contentType string) (*models.Post, error) {
	query := `SELECT id, guid, name, content_type, title, author_id FROM content WHERE name = ? AND content_type = ?`
	return r.findOne(query, name, contentType)
}

func (r *ContentRepository) findOne(query string, args ...any) (*models.Post, error) {
	var post models.Post
	err := r.db.QueryRow(query, args...).Scan(&post.ID, &post.GUID, &post.Name, &post.Type, &post.Title, &post.AuthorID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query content: %w", err)
	}

	return &post, nil
}

// Create inserts a remote post/media record as a new local content row.
// The caller has already rewritten guid and body URLs and resolved the author.
func (r *ContentRepository) Create(remote models.RemotePost, contentType string, authorID int64) (int64, error) {
	query := `
		INSERT INTO content (
			guid, name, content_type, title, body, excerpt, status, author_id,
			mime_type, menu_order, comment_status, ping_status, password,
			published_at, published_at_gmt, modified_at, modified_at_gmt
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		remote.GUID, remote.Name, contentType, remote.Title, remote.Content, remote.Excerpt,
		remote.Status, authorID, remote.MimeType, remote.MenuOrder, remote.CommentStatus,
		remote.PingStatus, remote.Password, remote.Date, remote.DateGMT, remote.Modified, remote.ModifiedGMT)
	if err != nil {
		return 0, fmt.Errorf("failed to insert content: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted content id: %w", err)
	}

	return id, nil
}

// AddMeta attaches a single metadata entry to a content row.
func (r *ContentRepository) AddMeta(contentID int64, key, value string) error {
	_, err := r.db.Exec(`INSERT INTO content_meta (content_id, meta_key, meta_value) VALUES (?, ?, ?)`, contentID, key, value)
	if err != nil {
		return fmt.Errorf("failed to insert content meta: %w", err)
	}
	return nil
}

// AssignTerms attaches existing local terms (looked up by slug within the
// taxonomy) to a content row. Slugs with no local term are skipped; the
// returned count covers the terms actually assigned.
func (r *ContentRepository) AssignTerms(contentID int64, taxonomy string, slugs []string) (int, error) {
	assigned := 0
	for _, slug := range slugs {
		var termID int64
		err := r.db.QueryRow(`SELECT id FROM terms WHERE slug = ? AND taxonomy = ?`, slug, taxonomy).Scan(&termID)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return assigned, fmt.Errorf("failed to look up term %q: %w", slug, err)
		}

		_, err = r.db.Exec(`INSERT OR IGNORE INTO term_relationships (content_id, term_id) VALUES (?, ?)`, contentID, termID)
		if err != nil {
			return assigned, fmt.Errorf("failed to assign term %q: %w", slug, err)
		}
		assigned++
	}

	return assigned, nil
}

// Count returns the number of local content rows of the given type.
func (r *ContentRepository) Count(contentType string) (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM content WHERE content_type = ?`, contentType).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count content: %w", err)
	}
	return count, nil
}

// CountMigrated returns the number of content rows of the given type that
// arrived through a migration, identified by their marker meta.
func (r *ContentRepository) CountMigrated(contentType string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM content c
		JOIN content_meta m ON m.content_id = c.id
		WHERE c.content_type = ? AND m.meta_key = ?
	`

	var count int
	if err := r.db.QueryRow(query, contentType, models.MigratedDataKey).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count migrated content: %w", err)
	}
	return count, nil
}

// ListPage returns one page of local content rendered in wire form: author
// swapped for email, metadata and taxonomy terms attached, ordered by id.
func (r *ContentRepository) ListPage(page, perPage int, contentType string) ([]models.RemotePost, error) {
	if page < 1 {
		page = 1
	}

	query := `
		SELECT c.id, c.guid, c.name, c.title, c.body, c.excerpt, c.status,
		       c.mime_type, c.menu_order, c.comment_status, c.ping_status, c.password,
		       c.published_at, c.published_at_gmt, c.modified_at, c.modified_at_gmt,
		       COALESCE(u.email, '')
		FROM content c
		LEFT JOIN users u ON u.id = c.author_id
		WHERE c.content_type = ?
		ORDER BY c.id ASC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.Query(query, contentType, perPage, (page-1)*perPage)
	if err != nil {
		return nil, fmt.Errorf("failed to query content: %w", err)
	}
	defer rows.Close()

	var posts []models.RemotePost
	for rows.Next() {
		var p models.RemotePost
		err := rows.Scan(&p.ID, &p.GUID, &p.Name, &p.Title, &p.Content, &p.Excerpt, &p.Status,
			&p.MimeType, &p.MenuOrder, &p.CommentStatus, &p.PingStatus, &p.Password,
			&p.Date, &p.DateGMT, &p.Modified, &p.ModifiedGMT, &p.AuthorEmail)
		if err != nil {
			return nil, fmt.Errorf("failed to scan content: %w", err)
		}
		p.Type = contentType
		posts = append(posts, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	for i := range posts {
		if posts[i].Meta, err = r.loadMeta(posts[i].ID); err != nil {
			return nil, err
		}
		if contentType == "post" {
			if posts[i].Terms, err = r.loadTerms(posts[i].ID); err != nil {
				return nil, err
			}
		}
	}

	return posts, nil
}

func (r *ContentRepository) loadMeta(contentID int64) (map[string][]string, error) {
	rows, err := r.db.Query(`SELECT meta_key, meta_value FROM content_meta WHERE content_id = ?`, contentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query content meta: %w", err)
	}
	defer rows.Close()

	meta := make(map[string][]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan content meta: %w", err)
		}
		meta[key] = append(meta[key], value)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return meta, nil
}

func (r *ContentRepository) loadTerms(contentID int64) (map[string][]string, error) {
	query := `
		SELECT t.taxonomy, t.slug
		FROM term_relationships tr
		JOIN terms t ON t.id = tr.term_id
		WHERE tr.content_id = ?
		ORDER BY t.taxonomy, t.slug
	`

	rows, err := r.db.Query(query, contentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query content terms: %w", err)
	}
	defer rows.Close()

	grouped := make(map[string][]string)
	for rows.Next() {
		var taxonomy, slug string
		if err := rows.Scan(&taxonomy, &slug); err != nil {
			return nil, fmt.Errorf("failed to scan content term: %w", err)
		}
		grouped[taxonomy] = append(grouped[taxonomy], slug)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return grouped, nil
}
