package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mmt/internal/models"
	"github.com/desertthunder/mmt/internal/repositories"
	"github.com/desertthunder/mmt/internal/services"
	"github.com/desertthunder/mmt/internal/shared"
)

// maxPerPage caps requested batch sizes so a single response stays bounded.
const maxPerPage = 100

// UserLister is the user read surface the collection endpoints need.
type UserLister interface {
	Count() (int, error)
	ListPage(page, perPage int) ([]models.RemoteUser, error)
}

// TermLister is the term read surface the collection endpoints need.
type TermLister interface {
	Count(hideEmpty bool) (int, error)
	ListPage(page, perPage int, hideEmpty bool) ([]models.RemoteTerm, error)
	Taxonomies() ([]string, map[string]int, error)
}

// ContentLister is the post/media read surface the collection endpoints need.
type ContentLister interface {
	Count(contentType string) (int, error)
	ListPage(page, perPage int, contentType string) ([]models.RemotePost, error)
}

// BatchImporter ingests pushed pages of posts or media.
type BatchImporter interface {
	ImportBatch(kind models.EntityKind, items []models.RemotePost) ([]models.ConflictRef, []models.ImportOutcome, error)
}

// pagination reads page and per_page from the query string, with defaults.
func pagination(r *http.Request) (page, perPage int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ = strconv.Atoi(r.URL.Query().Get("per_page"))
	if perPage < 1 {
		perPage = 10
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}

// AccessHandler answers the key check. The auth middleware has already
// verified the header by the time this runs.
type AccessHandler struct{}

func (h *AccessHandler) Routes() []string {
	return []string{services.Namespace + "/access"}
}

func (h *AccessHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, services.AccessResponse{Access: true})
}

// UsersHandler serves the paginated local users collection.
type UsersHandler struct {
	users  UserLister
	logger *log.Logger
}

// NewUsersHandler creates a new [UsersHandler].
func NewUsersHandler(users UserLister, logger *log.Logger) *UsersHandler {
	return &UsersHandler{users: users, logger: logger}
}

func (h *UsersHandler) Routes() []string {
	return []string{services.Namespace + "/users"}
}

func (h *UsersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	page, perPage := pagination(r)

	count, err := h.users.Count()
	if err != nil {
		h.logger.Error("failed to count users", "error", err)
		writeError(w, http.StatusInternalServerError, "storage_error", "failed to read users")
		return
	}

	items, err := h.users.ListPage(page, perPage)
	if err != nil {
		h.logger.Error("failed to list users", "error", err)
		writeError(w, http.StatusInternalServerError, "storage_error", "failed to read users")
		return
	}

	writeJSON(w, http.StatusOK, services.UsersPage{
		Page:       page,
		PerPage:    perPage,
		TotalPages: repositories.TotalPages(count, perPage),
		Items:      items,
	})
}

// TermsHandler serves the paginated local terms collection along with the
// taxonomies present and per-taxonomy counts.
type TermsHandler struct {
	terms  TermLister
	logger *log.Logger
}

// NewTermsHandler creates a new [TermsHandler].
func NewTermsHandler(terms TermLister, logger *log.Logger) *TermsHandler {
	return &TermsHandler{terms: terms, logger: logger}
}

func (h *TermsHandler) Routes() []string {
	return []string{services.Namespace + "/terms"}
}

func (h *TermsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	page, perPage := pagination(r)
	hideEmpty := r.URL.Query().Get("hide_empty") == "true"

	count, err := h.terms.Count(hideEmpty)
	if err != nil {
		h.logger.Error("failed to count terms", "error", err)
		writeError(w, http.StatusInternalServerError, "storage_error", "failed to read terms")
		return
	}

	items, err := h.terms.ListPage(page, perPage, hideEmpty)
	if err != nil {
		h.logger.Error("failed to list terms", "error", err)
		writeError(w, http.StatusInternalServerError, "storage_error", "failed to read terms")
		return
	}

	taxonomies, counts, err := h.terms.Taxonomies()
	if err != nil {
		h.logger.Error("failed to list taxonomies", "error", err)
		writeError(w, http.StatusInternalServerError, "storage_error", "failed to read terms")
		return
	}

	writeJSON(w, http.StatusOK, services.TermsPage{
		Page:       page,
		PerPage:    perPage,
		TotalPages: repositories.TotalPages(count, perPage),
		Items:      items,
		Taxonomies: taxonomies,
		Counts:     counts,
	})
}

// ContentHandler serves the paginated local posts and media collections.
type ContentHandler struct {
	content ContentLister
	logger  *log.Logger
}

// NewContentHandler creates a new [ContentHandler].
func NewContentHandler(content ContentLister, logger *log.Logger) *ContentHandler {
	return &ContentHandler{content: content, logger: logger}
}

func (h *ContentHandler) Routes() []string {
	return []string{services.Namespace + "/posts", services.Namespace + "/media"}
}

func (h *ContentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	page, perPage := pagination(r)
	kind := kindFromPath(r.URL.Path)

	count, err := h.content.Count(kind.ContentType())
	if err != nil {
		h.logger.Error("failed to count content", "error", err)
		writeError(w, http.StatusInternalServerError, "storage_error", "failed to read content")
		return
	}

	items, err := h.content.ListPage(page, perPage, kind.ContentType())
	if err != nil {
		h.logger.Error("failed to list content", "error", err)
		writeError(w, http.StatusInternalServerError, "storage_error", "failed to read content")
		return
	}

	writeJSON(w, http.StatusOK, services.ContentPage{
		Page:       page,
		PerPage:    perPage,
		TotalPages: repositories.TotalPages(count, perPage),
		Items:      items,
	})
}

// BatchHandler ingests pushed pages of posts or media and echoes the advanced
// transfer state, conflicts included and items stripped.
type BatchHandler struct {
	importer BatchImporter
	logger   *log.Logger
}

// NewBatchHandler creates a new [BatchHandler].
func NewBatchHandler(importer BatchImporter, logger *log.Logger) *BatchHandler {
	return &BatchHandler{importer: importer, logger: logger}
}

func (h *BatchHandler) Routes() []string {
	return []string{services.Namespace + "/posts/batch", services.Namespace + "/media/batch"}
}

func (h *BatchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "batch ingest is POST only")
		return
	}

	var req services.BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to decode batch request")
		return
	}

	kind := kindFromPath(r.URL.Path)
	conflicts, _, err := h.importer.ImportBatch(kind, req.Items)
	if err != nil {
		h.logger.Error("batch ingest failed", "kind", kind, "page", req.Page, "error", err)
		writeError(w, http.StatusInternalServerError, "ingest_error", "failed to ingest batch")
		return
	}

	state := req.TransferState
	state.Conflicts = append(state.Conflicts, conflicts...)
	state.Advance()

	writeJSON(w, http.StatusOK, services.BatchResponse{TransferState: state})
}

// kindFromPath maps an endpoint path to the entity kind it carries.
func kindFromPath(path string) models.EntityKind {
	if strings.Contains(path, "/media") {
		return models.KindMedia
	}
	return models.KindPost
}

// NewProtocolRouter assembles the full serving-side router: request logging,
// key auth, and every protocol endpoint.
func NewProtocolRouter(config shared.ServerConfig, users UserLister, terms TermLister, content ContentLister, importer BatchImporter, logger *log.Logger) *BasicRouter {
	router := NewBasicRouter()
	router.Use(RequestLogger(logger), KeyAuth(config.Key))

	router.Handler(&AccessHandler{})
	router.Handler(NewUsersHandler(users, logger))
	router.Handler(NewTermsHandler(terms, logger))
	router.Handler(NewContentHandler(content, logger))
	router.Handler(NewBatchHandler(importer, logger))

	return router
}
