package migrate

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mmt/internal/models"
)

// UserClassifier partitions remote users into migrateable, conflicted, and
// referenced buckets by probing local usernames and emails.
type UserClassifier struct {
	resolver *Resolver
	users    UserStore
	logger   *log.Logger
}

// NewUserClassifier creates a new [UserClassifier].
func NewUserClassifier(resolver *Resolver, users UserStore, logger *log.Logger) *UserClassifier {
	return &UserClassifier{resolver: resolver, users: users, logger: logger}
}

// Classify partitions one page of remote users.
//
// A user matching both keys on the same local row is already here and becomes
// a reference. An email match alone also degrades to a reference, since email
// is the key content attribution travels on. A username match alone is a hard
// conflict: creating the user would collide, and referencing by email would
// attach content to a stranger.
func (c *UserClassifier) Classify(items []models.RemoteUser) (models.UserBuckets, error) {
	var buckets models.UserBuckets

	for _, remote := range items {
		byUsername, byEmail, err := c.resolver.ResolveUser(remote)
		if err != nil {
			return buckets, fmt.Errorf("failed to classify user %q: %w", remote.Username, err)
		}

		switch {
		case byUsername != nil && byEmail != nil:
			// when the keys hit different rows the username match carries the link
			buckets.Referenced = append(buckets.Referenced, models.UserReference{
				Remote: remote, Local: *byUsername, Reason: models.ConflictUsernameAndEmail,
			})
		case byEmail != nil:
			buckets.Referenced = append(buckets.Referenced, models.UserReference{
				Remote: remote, Local: *byEmail, Reason: models.ConflictEmail,
			})
		case byUsername != nil:
			buckets.Conflicted = append(buckets.Conflicted, models.UserConflict{
				Remote: remote, Local: *byUsername, Reason: models.ConflictUsername,
			})
		default:
			buckets.Migrateable = append(buckets.Migrateable, remote)
		}
	}

	return buckets, nil
}

// LinkReferences writes reference metadata for every referenced user, so the
// local row carries its remote identity. Re-running overwrites earlier links.
func (c *UserClassifier) LinkReferences(refs []models.UserReference) error {
	for _, ref := range refs {
		if err := c.users.SetReference(ref.Local.ID, ref.Remote); err != nil {
			return fmt.Errorf("failed to link user %q: %w", ref.Remote.Username, err)
		}
		c.logger.Debug("linked remote user", "username", ref.Remote.Username, "local_id", ref.Local.ID, "reason", ref.Reason)
	}
	return nil
}

// TermClassifier partitions remote terms into migrateable and referenced
// buckets by probing local (slug, taxonomy) pairs.
type TermClassifier struct {
	resolver *Resolver
	terms    TermStore
	logger   *log.Logger
}

// NewTermClassifier creates a new [TermClassifier].
func NewTermClassifier(resolver *Resolver, terms TermStore, logger *log.Logger) *TermClassifier {
	return &TermClassifier{resolver: resolver, terms: terms, logger: logger}
}

// Classify partitions one page of remote terms. A slug match within the
// taxonomy always degrades to a reference; terms never hard-conflict.
//
// Migrateable terms with a parent get MigrateParentSlug filled from the
// sibling record in the same page whose id matches, translating the hierarchy
// into slugs before remote ids stop meaning anything.
func (c *TermClassifier) Classify(items []models.RemoteTerm) (models.TermBuckets, error) {
	var buckets models.TermBuckets

	slugByID := make(map[int64]string, len(items))
	for _, remote := range items {
		slugByID[remote.ID] = remote.Slug
	}

	for _, remote := range items {
		local, err := c.resolver.ResolveTerm(remote)
		if err != nil {
			return buckets, fmt.Errorf("failed to classify term %q: %w", remote.Slug, err)
		}

		if local != nil {
			buckets.Referenced = append(buckets.Referenced, models.TermReference{
				Remote: remote, Local: *local, Reason: models.ConflictSlug,
			})
			continue
		}

		if remote.Parent != 0 {
			remote.MigrateParentSlug = slugByID[remote.Parent]
		}
		buckets.Migrateable = append(buckets.Migrateable, remote)
	}

	return buckets, nil
}

// LinkReferences writes reference metadata for every referenced term.
func (c *TermClassifier) LinkReferences(refs []models.TermReference) error {
	for _, ref := range refs {
		if err := c.terms.SetReference(ref.Local.ID, ref.Remote); err != nil {
			return fmt.Errorf("failed to link term %q: %w", ref.Remote.Slug, err)
		}
		c.logger.Debug("linked remote term", "slug", ref.Remote.Slug, "local_id", ref.Local.ID)
	}
	return nil
}
