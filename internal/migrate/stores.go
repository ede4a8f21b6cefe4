package migrate

import "github.com/desertthunder/mmt/internal/models"

// UserStore is the slice of user persistence the pipeline needs. Lookup
// methods return (nil, nil) when nothing matches.
type UserStore interface {
	FindByUsername(username string) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	Create(remote models.RemoteUser) (*models.User, error)
	SetReference(userID int64, remote models.RemoteUser) error
}

// TermStore is the slice of term persistence the pipeline needs. Lookup
// methods return (nil, nil) when nothing matches.
type TermStore interface {
	FindBySlug(slug, taxonomy string) (*models.Term, error)
	Create(remote models.RemoteTerm, parentID int64) (*models.Term, error)
	SetReference(termID int64, remote models.RemoteTerm) error
}

// ContentStore is the slice of post/media persistence the pipeline needs.
// Lookup methods return (nil, nil) when nothing matches.
type ContentStore interface {
	FindByGUID(guid string, contentTypes ...string) (*models.Post, error)
	FindByName(name, contentType string) (*models.Post, error)
	Create(remote models.RemotePost, contentType string, authorID int64) (int64, error)
	AddMeta(contentID int64, key, value string) error
	AssignTerms(contentID int64, taxonomy string, slugs []string) (int, error)
}
