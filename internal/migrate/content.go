package migrate

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mmt/internal/models"
	"github.com/desertthunder/mmt/internal/shared"
)

// ContentImporter ingests batches of remote posts and media attachments,
// deduplicating on guid and resolving authors and featured images to local
// rows.
type ContentImporter struct {
	content  ContentStore
	users    UserStore
	resolver *Resolver
	rewriter HostRewriter
	fallback int64
	logger   *log.Logger
}

// NewContentImporter creates a new [ContentImporter]. fallbackAuthorID owns
// any content whose remote author has no local account.
func NewContentImporter(content ContentStore, users UserStore, resolver *Resolver, rewriter HostRewriter, fallbackAuthorID int64, logger *log.Logger) *ContentImporter {
	return &ContentImporter{
		content:  content,
		users:    users,
		resolver: resolver,
		rewriter: rewriter,
		fallback: fallbackAuthorID,
		logger:   logger,
	}
}

// ImportBatch ingests one page of posts or media. Items whose rewritten guid
// already exists locally are skipped and reported as conflicts; posts whose
// featured image has not arrived yet are likewise held back whole rather than
// imported half-linked. Replaying a batch is safe: every item either exists
// (and skips) or imports once.
func (i *ContentImporter) ImportBatch(kind models.EntityKind, items []models.RemotePost) ([]models.ConflictRef, []models.ImportOutcome, error) {
	contentType := kind.ContentType()

	var conflicts []models.ConflictRef
	var outcomes []models.ImportOutcome

	for _, remote := range items {
		guid := i.rewriter.Rewrite(remote.GUID)

		existing, err := i.resolver.ResolveContent(guid, remote.Name, contentType)
		if err != nil {
			return conflicts, outcomes, fmt.Errorf("failed to check %s %q: %w", kind, guid, err)
		}
		if existing != nil {
			conflicts = append(conflicts, models.ConflictRef{ID: remote.ID, GUID: guid})
			outcomes = append(outcomes, models.ImportOutcome{RecordID: remote.ID, Status: models.StatusSkippedExists})
			continue
		}

		thumbID, ok, err := i.resolveFeaturedImage(remote)
		if err != nil {
			return conflicts, outcomes, err
		}
		if !ok {
			i.logger.Warn("featured image not yet local, holding post back", "guid", guid)
			conflicts = append(conflicts, models.ConflictRef{ID: remote.ID, GUID: guid})
			outcomes = append(outcomes, models.ImportOutcome{RecordID: remote.ID, Status: models.StatusSkippedConflict})
			continue
		}

		authorID, err := i.resolveAuthor(remote.AuthorEmail)
		if err != nil {
			return conflicts, outcomes, err
		}

		row := remote
		row.GUID = guid
		row.Content = i.rewriter.Rewrite(remote.Content)

		contentID, err := i.content.Create(row, contentType, authorID)
		if err != nil {
			return conflicts, outcomes, fmt.Errorf("%w: %s %q: %v", shared.ErrCreateFailed, kind, guid, err)
		}

		if err := i.attachMeta(contentID, remote, thumbID); err != nil {
			return conflicts, outcomes, err
		}

		if kind == models.KindPost {
			if err := i.attachTerms(contentID, remote); err != nil {
				return conflicts, outcomes, err
			}
		}

		i.logger.Debug("created content", "kind", kind, "guid", guid, "author_id", authorID)
		outcomes = append(outcomes, models.ImportOutcome{RecordID: remote.ID, Status: models.StatusCreated})
	}

	return conflicts, outcomes, nil
}

// resolveFeaturedImage maps a post's featured image guid to the local
// attachment id. Returns ok=false when the attachment has not been imported
// yet, which blocks the whole post.
func (i *ContentImporter) resolveFeaturedImage(remote models.RemotePost) (int64, bool, error) {
	guid, present := remote.FeaturedImageGUID()
	if !present {
		return 0, true, nil
	}

	attachment, err := i.content.FindByGUID(i.rewriter.Rewrite(guid), models.KindMedia.ContentType())
	if err != nil {
		return 0, false, fmt.Errorf("failed to resolve featured image %q: %w", guid, err)
	}
	if attachment == nil {
		return 0, false, nil
	}
	return attachment.ID, true, nil
}

// resolveAuthor maps the remote author email to a local user id, falling back
// to the configured default author.
func (i *ContentImporter) resolveAuthor(email string) (int64, error) {
	if email == "" {
		return i.fallback, nil
	}

	user, err := i.users.FindByEmail(email)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve author %q: %w", email, err)
	}
	if user == nil {
		i.logger.Debug("author has no local account, using fallback", "email", email)
		return i.fallback, nil
	}
	return user.ID, nil
}

// attachMeta copies remote metadata onto the new row, unwrapping the
// transport's one-element lists. The featured image key is rewritten to the
// local attachment id, and every imported row gets a migration marker.
func (i *ContentImporter) attachMeta(contentID int64, remote models.RemotePost, thumbID int64) error {
	for key, values := range remote.Meta {
		if key == models.FeaturedImageKey || len(values) == 0 {
			continue
		}
		if err := i.content.AddMeta(contentID, key, values[0]); err != nil {
			return err
		}
	}

	if thumbID != 0 {
		if err := i.content.AddMeta(contentID, models.FeaturedImageKey, strconv.FormatInt(thumbID, 10)); err != nil {
			return err
		}
	}

	marker, err := json.Marshal(map[string]any{"migrated": true, "remote_id": remote.ID})
	if err != nil {
		return fmt.Errorf("failed to serialize migration marker: %w", err)
	}
	return i.content.AddMeta(contentID, models.MigratedDataKey, string(marker))
}

// attachTerms assigns the post's taxonomy terms by slug. Slugs with no local
// term are dropped quietly; term migration runs first, so a miss here means
// the term was deliberately skipped upstream.
func (i *ContentImporter) attachTerms(contentID int64, remote models.RemotePost) error {
	for taxonomy, slugs := range remote.Terms {
		assigned, err := i.content.AssignTerms(contentID, taxonomy, slugs)
		if err != nil {
			return fmt.Errorf("failed to assign %s terms: %w", taxonomy, err)
		}
		if assigned < len(slugs) {
			i.logger.Debug("some terms had no local row", "taxonomy", taxonomy, "assigned", assigned, "wanted", len(slugs))
		}
	}
	return nil
}
