package migrate

import (
	"strings"

	"github.com/desertthunder/mmt/internal/models"
	"github.com/desertthunder/mmt/internal/shared"
)

// HostRewriter substitutes the remote site URL with the local one inside guids
// and content bodies, so identity comparisons and links survive the move.
type HostRewriter struct {
	remote string
	local  string
}

// NewHostRewriter builds a rewriter from the two base URLs. Trailing slashes
// are stripped so both sides agree on the prefix being replaced.
func NewHostRewriter(remoteURL, localURL string) HostRewriter {
	return HostRewriter{remote: shared.TrimSlash(remoteURL), local: shared.TrimSlash(localURL)}
}

// Rewrite replaces every occurrence of the remote base URL with the local one.
// A rewriter with an empty remote URL passes text through unchanged.
func (h HostRewriter) Rewrite(s string) string {
	if h.remote == "" {
		return s
	}
	return strings.ReplaceAll(s, h.remote, h.local)
}

// Resolver answers "does this remote record already exist here?" questions
// against the local natural keys.
type Resolver struct {
	users   UserStore
	terms   TermStore
	content ContentStore
}

// NewResolver creates a new [Resolver] over the given stores.
func NewResolver(users UserStore, terms TermStore, content ContentStore) *Resolver {
	return &Resolver{users: users, terms: terms, content: content}
}

// ResolveUser looks a remote user up by both natural keys independently.
// Either result may be nil; both non-nil results may be the same local row.
func (r *Resolver) ResolveUser(remote models.RemoteUser) (byUsername, byEmail *models.User, err error) {
	if byUsername, err = r.users.FindByUsername(remote.Username); err != nil {
		return nil, nil, err
	}
	if byEmail, err = r.users.FindByEmail(remote.Email); err != nil {
		return nil, nil, err
	}
	return byUsername, byEmail, nil
}

// ResolveTerm looks a remote term up by slug within its taxonomy.
func (r *Resolver) ResolveTerm(remote models.RemoteTerm) (*models.Term, error) {
	return r.terms.FindBySlug(remote.Slug, remote.Taxonomy)
}

// ResolveContent looks content up by guid first, then falls back to the path
// slug. The guid must already be rewritten to the local host.
func (r *Resolver) ResolveContent(guid, name, contentType string) (*models.Post, error) {
	post, err := r.content.FindByGUID(guid, contentType)
	if err != nil || post != nil {
		return post, err
	}
	if name == "" {
		return nil, nil
	}
	return r.content.FindByName(name, contentType)
}
