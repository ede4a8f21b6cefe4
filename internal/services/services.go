// package services defines the RemoteSource interface for pulling paginated collections
package services

import (
	"context"

	"github.com/desertthunder/mmt/internal/models"
)

// RemoteSource defines the fetch side of the migration protocol: paginated
// reads from the remote site's collection endpoints.
type RemoteSource interface {
	// VerifyAccess checks the shared key against the remote access endpoint.
	VerifyAccess(ctx context.Context) error

	// FetchUsers retrieves one page of remote users.
	FetchUsers(ctx context.Context, page, perPage int) (*UsersPage, error)

	// FetchTerms retrieves one page of remote taxonomy terms. When includeEmpty
	// is false the remote filters out terms with no attached content.
	FetchTerms(ctx context.Context, page, perPage int, includeEmpty bool) (*TermsPage, error)

	// FetchContent retrieves one page of remote posts or media attachments.
	FetchContent(ctx context.Context, kind models.EntityKind, page, perPage int) (*ContentPage, error)

	// Name returns the remote base URL for display.
	Name() string
}

// UsersPage is one page of the remote users collection.
type UsersPage struct {
	Page       int                 `json:"page"`
	PerPage    int                 `json:"per_page"`
	TotalPages int                 `json:"total_pages"`
	Items      []models.RemoteUser `json:"items"`
}

// TermsPage is one page of the remote terms collection, along with the
// taxonomy names present and term counts per taxonomy.
type TermsPage struct {
	Page       int                 `json:"page"`
	PerPage    int                 `json:"per_page"`
	TotalPages int                 `json:"total_pages"`
	Items      []models.RemoteTerm `json:"items"`
	Taxonomies []string            `json:"taxonomies,omitempty"`
	Counts     map[string]int      `json:"counts,omitempty"`
}

// ContentPage is one page of the remote posts or media collection. It doubles
// as the batch ingest request body on the serving side.
type ContentPage struct {
	Page       int                 `json:"page"`
	PerPage    int                 `json:"per_page"`
	TotalPages int                 `json:"total_pages"`
	Items      []models.RemotePost `json:"items"`
}

// AccessResponse is the remote access endpoint's payload.
type AccessResponse struct {
	Access bool `json:"access"`
}

// BatchRequest is the batch ingest request body: the transfer state fields at
// the top level with one page of records alongside them.
type BatchRequest struct {
	models.TransferState
	Items []models.RemotePost `json:"items"`
}

// BatchResponse echoes the advanced transfer state after a batch is ingested.
// Items never travel back; accumulated conflicts ride in the state's conflicts
// field.
type BatchResponse struct {
	models.TransferState
}
