package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/mmt/internal/migrate"
	"github.com/desertthunder/mmt/internal/models"
	"github.com/desertthunder/mmt/internal/repositories"
	"github.com/desertthunder/mmt/internal/services"
	"github.com/desertthunder/mmt/internal/shared"
	helpers "github.com/desertthunder/mmt/internal/testing"
)

const testKey = "secret"

func newTestRouter(t *testing.T) (*BasicRouter, *repositories.UserRepository, *repositories.TermRepository, *repositories.ContentRepository) {
	t.Helper()
	db := helpers.OpenTestDB(t)

	users := repositories.NewUserRepository(db)
	terms := repositories.NewTermRepository(db)
	content := repositories.NewContentRepository(db)

	logger := shared.NewLogger(io.Discard)
	resolver := migrate.NewResolver(users, terms, content)
	importer := migrate.NewContentImporter(content, users, resolver, migrate.NewHostRewriter("http://remote.test", "http://local.test"), 1, logger)

	config := shared.ServerConfig{Key: testKey}
	return NewProtocolRouter(config, users, terms, content, importer, logger), users, terms, content
}

func authedRequest(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set(services.KeyHeader, shared.HashKey(testKey))
	return req
}

func TestKeyAuth(t *testing.T) {
	router, _, _, _ := newTestRouter(t)

	tests := []struct {
		name       string
		key        string
		wantStatus int
	}{
		{name: "missing key", key: "", wantStatus: http.StatusUnauthorized},
		{name: "raw key instead of digest", key: testKey, wantStatus: http.StatusUnauthorized},
		{name: "wrong key digest", key: shared.HashKey("not-it"), wantStatus: http.StatusUnauthorized},
		{name: "valid digest", key: shared.HashKey(testKey), wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, services.Namespace+"/access", nil)
			if tt.key != "" {
				req.Header.Set(services.KeyHeader, tt.key)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestAccessEndpoint(t *testing.T) {
	router, _, _, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, services.Namespace+"/access", nil))

	var resp services.AccessResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !resp.Access {
		t.Error("access = false, want true")
	}
}

func TestUsersEndpoint(t *testing.T) {
	router, users, _, _ := newTestRouter(t)

	for _, u := range []models.RemoteUser{
		{Username: "alpha", Email: "alpha@example.com"},
		{Username: "beta", Email: "beta@example.com"},
		{Username: "gamma", Email: "gamma@example.com"},
	} {
		if _, err := users.Create(u); err != nil {
			t.Fatalf("Failed to seed user: %v", err)
		}
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, services.Namespace+"/users?page=1&per_page=2", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var page services.UsersPage
	if err := json.NewDecoder(rec.Body).Decode(&page); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if page.TotalPages != 2 {
		t.Errorf("total_pages = %d, want 2", page.TotalPages)
	}
	if len(page.Items) != 2 {
		t.Errorf("items = %d, want 2", len(page.Items))
	}
}

func TestTermsEndpointHideEmpty(t *testing.T) {
	router, _, terms, content := newTestRouter(t)

	used, err := terms.Create(models.RemoteTerm{Name: "Used", Slug: "used", Taxonomy: "category"}, 0)
	if err != nil {
		t.Fatalf("Failed to seed term: %v", err)
	}
	if _, err := terms.Create(models.RemoteTerm{Name: "Empty", Slug: "empty", Taxonomy: "category"}, 0); err != nil {
		t.Fatalf("Failed to seed term: %v", err)
	}

	postID, err := content.Create(models.RemotePost{GUID: "http://local.test/?p=1", Name: "post"}, "post", 1)
	if err != nil {
		t.Fatalf("Failed to seed post: %v", err)
	}
	if _, err := content.AssignTerms(postID, "category", []string{used.Slug}); err != nil {
		t.Fatalf("Failed to link term: %v", err)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, services.Namespace+"/terms?hide_empty=true", nil))

	var page services.TermsPage
	if err := json.NewDecoder(rec.Body).Decode(&page); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].Slug != "used" {
		t.Errorf("items = %+v, want only the attached term", page.Items)
	}
	if page.Counts["category"] != 2 {
		t.Errorf("counts = %v, want category:2 (counts cover all terms)", page.Counts)
	}
}

func TestBatchIngest(t *testing.T) {
	router, _, _, content := newTestRouter(t)

	body, err := json.Marshal(services.BatchRequest{
		TransferState: models.TransferState{Page: 1, PerPage: 10, TotalPages: 2},
		Items: []models.RemotePost{
			{ID: 1, GUID: "http://remote.test/?p=1", Name: "first"},
			{ID: 2, GUID: "http://remote.test/?p=2", Name: "second"},
		},
	})
	if err != nil {
		t.Fatalf("Failed to marshal request: %v", err)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, services.Namespace+"/posts/batch", bytes.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	raw := rec.Body.Bytes()

	// pagination fields sit at the top level of both bodies
	var flat map[string]any
	if err := json.Unmarshal(raw, &flat); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if _, ok := flat["page"]; !ok {
		t.Errorf("response body missing top-level page field: %s", raw)
	}
	if _, ok := flat["state"]; ok {
		t.Errorf("response body nests state: %s", raw)
	}

	var resp services.BatchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Page != 2 {
		t.Errorf("page = %d, want 2 (advanced)", resp.Page)
	}
	if resp.Percentage != 50 {
		t.Errorf("percentage = %f, want 50", resp.Percentage)
	}

	count, err := content.Count("post")
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 2 {
		t.Errorf("post count = %d, want 2", count)
	}

	// replaying the same batch reports both guids as conflicts
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, services.Namespace+"/posts/batch", bytes.NewReader(body)))
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode replay response: %v", err)
	}
	if len(resp.Conflicts) != 2 {
		t.Errorf("conflicts = %d, want 2", len(resp.Conflicts))
	}
}

func TestBatchIngestRejectsGet(t *testing.T) {
	router, _, _, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, services.Namespace+"/media/batch", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestBatchIngestRejectsBadBody(t *testing.T) {
	router, _, _, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, services.Namespace+"/posts/batch", bytes.NewBufferString("{broken")))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
