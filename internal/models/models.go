// package models defines remote records, local rows, and transfer state
package models

// EntityKind identifies the type of record moving through a transfer.
type EntityKind string

const (
	KindUser  EntityKind = "user"
	KindTerm  EntityKind = "term"
	KindPost  EntityKind = "post"
	KindMedia EntityKind = "media"
)

// ContentType returns the local content_type column value for post-like kinds.
func (k EntityKind) ContentType() string {
	if k == KindMedia {
		return "attachment"
	}
	return "post"
}

// RemoteUser is an identity record received from the source site.
type RemoteUser struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	Name           string `json:"name"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	URL            string `json:"url"`
	Description    string `json:"description"`
	Nickname       string `json:"nickname"`
	Slug           string `json:"slug"`
	RegisteredDate string `json:"registered_date"`
}

// RemoteTerm is a taxonomy term received from the source site.
//
// MigrateParentSlug is not part of the wire payload: classification derives it
// from the sibling record whose id matches Parent, so the importer can resolve
// hierarchy by slug after remote ids stop meaning anything.
type RemoteTerm struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Taxonomy    string `json:"taxonomy"`
	Description string `json:"description"`
	Parent      int64  `json:"parent"`

	MigrateParentSlug string `json:"migrate_parent,omitempty"`
}

// RemotePost is a post or media attachment received from the source site.
//
// The author travels as an email address, not an id; Meta values keep their
// transport representation (one-element lists) until import unwraps them.
type RemotePost struct {
	ID            int64               `json:"id"`
	AuthorEmail   string              `json:"post_author"`
	Date          string              `json:"post_date"`
	DateGMT       string              `json:"post_date_gmt"`
	Content       string              `json:"post_content"`
	Title         string              `json:"post_title"`
	Excerpt       string              `json:"post_excerpt"`
	Status        string              `json:"post_status"`
	CommentStatus string              `json:"comment_status"`
	PingStatus    string              `json:"ping_status"`
	Password      string              `json:"post_password"`
	Name          string              `json:"post_name"`
	Modified      string              `json:"post_modified"`
	ModifiedGMT   string              `json:"post_modified_gmt"`
	GUID          string              `json:"guid"`
	MenuOrder     int                 `json:"menu_order"`
	Type          string              `json:"post_type"`
	MimeType      string              `json:"post_mime_type"`
	Meta          map[string][]string `json:"post_meta,omitempty"`
	Terms         map[string][]string `json:"post_terms,omitempty"`
}

// FeaturedImageKey is the meta key carrying a post's featured image reference.
// The exporting side swaps the numeric id for the image's guid before sending.
const FeaturedImageKey = "_thumbnail_id"

// MigratedDataKey is the meta key marking an imported row and carrying
// migration bookkeeping (e.g. a media item's parent post name).
const MigratedDataKey = "_migrated_data"

// FeaturedImageGUID returns the guid reference carried in post meta, if any.
func (p RemotePost) FeaturedImageGUID() (string, bool) {
	vals, ok := p.Meta[FeaturedImageKey]
	if !ok || len(vals) == 0 || vals[0] == "" {
		return "", false
	}
	return vals[0], true
}

// User is a row in the local users table.
type User struct {
	ID       int64
	Username string
	Email    string
	Name     string
}

// Term is a row in the local terms table.
type Term struct {
	ID       int64
	Name     string
	Slug     string
	Taxonomy string
	ParentID int64
}

// Post is a row in the local content table (posts and attachments).
type Post struct {
	ID       int64
	GUID     string
	Name     string
	Type     string
	Title    string
	AuthorID int64
}

// ConflictReason identifies which natural key collided.
type ConflictReason string

const (
	ConflictUsername         ConflictReason = "username"
	ConflictEmail            ConflictReason = "email"
	ConflictUsernameAndEmail ConflictReason = "username_and_email"
	ConflictSlug             ConflictReason = "slug"
	ConflictGUID             ConflictReason = "guid"
)

// ConflictEntry records an identity collision between a remote record and a
// local match. Entries accumulate for the duration of a migration session and
// are never silently discarded.
type ConflictEntry struct {
	Kind        EntityKind     `json:"kind"`
	RemoteID    int64          `json:"remote_id"`
	RemoteLabel string         `json:"remote_label"`
	LocalID     int64          `json:"local_id,omitempty"`
	LocalLabel  string         `json:"local_label,omitempty"`
	Reason      ConflictReason `json:"reason"`
}

// ConflictRef is the wire form of a skipped post/media item: the remote id and
// the (rewritten) guid that already exists or could not be satisfied locally.
type ConflictRef struct {
	ID   int64  `json:"id"`
	GUID string `json:"guid"`
}

// ImportStatus describes what happened to a single record during import.
type ImportStatus string

const (
	StatusCreated         ImportStatus = "created"
	StatusSkippedExists   ImportStatus = "skipped_exists"
	StatusSkippedConflict ImportStatus = "skipped_conflict"
	StatusDeferred        ImportStatus = "deferred"
	StatusFailed          ImportStatus = "failed"
)

// ImportOutcome is the per-item result of an import attempt.
type ImportOutcome struct {
	RecordID int64
	Status   ImportStatus
	Err      error
}

// TransferState is the pagination and progress state owned by the transfer
// protocol. It round-trips between the two sides on every cycle and is the
// only in-flight state; resuming an interrupted transfer means replaying from
// page 1 (natural-key idempotency makes the replay safe).
type TransferState struct {
	Page       int           `json:"page"`
	PerPage    int           `json:"per_page"`
	TotalPages int           `json:"total_pages"`
	Percentage float64       `json:"percentage"`
	Conflicts  []ConflictRef `json:"conflicts,omitempty"`
}

// Advance computes the progress percentage for the just-ingested page and
// moves to the next one. Percentage never decreases and is clamped to 100
// once the final page has been ingested.
func (s *TransferState) Advance() {
	if s.TotalPages > 0 {
		s.Percentage = float64(s.Page) / float64(s.TotalPages) * 100
	}
	if s.Percentage > 100 || s.Page >= s.TotalPages {
		s.Percentage = 100
	}
	s.Page++
}

// Complete reports whether every page has been fetched and ingested. A remote
// reporting zero total pages has an empty collection: that still costs one
// fetch cycle, never more.
func (s *TransferState) Complete() bool {
	total := s.TotalPages
	if total < 1 {
		total = 1
	}
	return s.Page > total
}

// UserReference links a remote user to the local user it resolved to.
type UserReference struct {
	Remote RemoteUser
	Local  User
	Reason ConflictReason
}

// UserConflict is a remote user blocked by a username collision.
type UserConflict struct {
	Remote RemoteUser
	Local  User
	Reason ConflictReason
}

// UserBuckets is the three-way partition of a page of remote users.
type UserBuckets struct {
	Migrateable []RemoteUser
	Conflicted  []UserConflict
	Referenced  []UserReference
}

// TermReference links a remote term to the local term sharing its slug.
type TermReference struct {
	Remote RemoteTerm
	Local  Term
	Reason ConflictReason
}

// TermBuckets is the partition of a page of remote terms. Terms are never
// hard-conflicted: a slug collision always degrades to a reference link.
type TermBuckets struct {
	Migrateable []RemoteTerm
	Referenced  []TermReference
}

// MigratedTerm describes a term created locally, for progress reporting.
type MigratedTerm struct {
	LocalID int64  `json:"term_id"`
	Name    string `json:"name"`
	Slug    string `json:"slug"`
}
