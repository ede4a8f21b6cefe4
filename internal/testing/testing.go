// package testing contains shared testing utilities
package testing

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/mmt/internal/models"
	"github.com/desertthunder/mmt/internal/services"
	"github.com/desertthunder/mmt/internal/shared"
	_ "github.com/mattn/go-sqlite3"
)

// MockSource is a canned test double for [services.RemoteSource]. Zero-value
// fields mean "empty page, no error".
type MockSource struct {
	AccessErr error
	Users     *services.UsersPage
	Terms     *services.TermsPage
	Content   map[models.EntityKind]*services.ContentPage
	FetchErr  error

	// FetchFunc, when set, overrides the canned pages for content fetches so a
	// test can vary responses per page.
	FetchFunc func(kind models.EntityKind, page, perPage int) (*services.ContentPage, error)
}

func (m *MockSource) VerifyAccess(ctx context.Context) error { return m.AccessErr }

func (m *MockSource) FetchUsers(ctx context.Context, page, perPage int) (*services.UsersPage, error) {
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	if m.Users != nil {
		return m.Users, nil
	}
	return &services.UsersPage{Page: page, PerPage: perPage, TotalPages: 1}, nil
}

func (m *MockSource) FetchTerms(ctx context.Context, page, perPage int, includeEmpty bool) (*services.TermsPage, error) {
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	if m.Terms != nil {
		return m.Terms, nil
	}
	return &services.TermsPage{Page: page, PerPage: perPage, TotalPages: 1}, nil
}

func (m *MockSource) FetchContent(ctx context.Context, kind models.EntityKind, page, perPage int) (*services.ContentPage, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(kind, page, perPage)
	}
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	if p, ok := m.Content[kind]; ok {
		return p, nil
	}
	return &services.ContentPage{Page: page, PerPage: perPage, TotalPages: 1}, nil
}

func (m *MockSource) Name() string { return "mock" }

// OpenTestDB opens an in-memory content store with the schema applied. The
// connection closes when the test ends.
func OpenTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
