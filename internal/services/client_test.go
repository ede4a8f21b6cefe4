package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/desertthunder/mmt/internal/models"
	"github.com/desertthunder/mmt/internal/shared"
)

// mockTripper returns a canned response or error for every request.
type mockTripper struct {
	response *http.Response
	err      error
}

func (m *mockTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func newTestClient(rt http.RoundTripper) *Client {
	return NewClient("http://remote.test/", "secret", &http.Client{Transport: rt}, nil)
}

func TestVerifyAccess(t *testing.T) {
	t.Run("access granted", func(t *testing.T) {
		rt := &mockTripper{response: jsonResponse(http.StatusOK, `{"access": true}`)}
		if err := newTestClient(rt).VerifyAccess(context.Background()); err != nil {
			t.Errorf("VerifyAccess() error = %v, want nil", err)
		}
	})

	t.Run("access denied in payload", func(t *testing.T) {
		rt := &mockTripper{response: jsonResponse(http.StatusOK, `{"access": false}`)}
		err := newTestClient(rt).VerifyAccess(context.Background())
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("VerifyAccess() error = %v, want ErrAuthFailed", err)
		}
	})

	t.Run("unauthorized status", func(t *testing.T) {
		rt := &mockTripper{response: jsonResponse(http.StatusUnauthorized, `{}`)}
		err := newTestClient(rt).VerifyAccess(context.Background())
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("VerifyAccess() error = %v, want ErrAuthFailed", err)
		}
	})

	t.Run("transport failure", func(t *testing.T) {
		rt := &mockTripper{err: errors.New("connection refused")}
		err := newTestClient(rt).VerifyAccess(context.Background())
		if !errors.Is(err, shared.ErrRemoteRequest) {
			t.Errorf("VerifyAccess() error = %v, want ErrRemoteRequest", err)
		}
	})
}

type headerCaptureTripper struct {
	captured *http.Request
	response *http.Response
}

func (h *headerCaptureTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	h.captured = req
	return h.response, nil
}

func TestClientSendsHashedKey(t *testing.T) {
	rt := &headerCaptureTripper{response: jsonResponse(http.StatusOK, `{"access": true}`)}
	client := NewClient("http://remote.test", "secret", &http.Client{Transport: rt}, nil)

	if err := client.VerifyAccess(context.Background()); err != nil {
		t.Fatalf("VerifyAccess() error = %v", err)
	}

	got := rt.captured.Header.Get(KeyHeader)
	if got != shared.HashKey("secret") {
		t.Errorf("key header = %q, want hashed key", got)
	}
	if got == "secret" {
		t.Error("raw key must not cross the wire")
	}
}

func TestFetchUsers(t *testing.T) {
	body := `{"page": 1, "per_page": 10, "total_pages": 2, "items": [{"id": 5, "username": "editor", "email": "editor@example.com"}]}`
	rt := &mockTripper{response: jsonResponse(http.StatusOK, body)}

	page, err := newTestClient(rt).FetchUsers(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("FetchUsers() error = %v", err)
	}
	if page.TotalPages != 2 {
		t.Errorf("TotalPages = %d, want 2", page.TotalPages)
	}
	if len(page.Items) != 1 || page.Items[0].Username != "editor" {
		t.Errorf("unexpected items: %+v", page.Items)
	}
}

func TestFetchTermsQuery(t *testing.T) {
	body := `{"page": 1, "per_page": 10, "total_pages": 1, "items": [], "taxonomies": ["category"], "counts": {"category": 3}}`
	rt := &headerCaptureTripper{response: jsonResponse(http.StatusOK, body)}
	client := NewClient("http://remote.test", "secret", &http.Client{Transport: rt}, nil)

	page, err := client.FetchTerms(context.Background(), 1, 10, false)
	if err != nil {
		t.Fatalf("FetchTerms() error = %v", err)
	}
	if page.Counts["category"] != 3 {
		t.Errorf("Counts = %v, want category:3", page.Counts)
	}

	query := rt.captured.URL.Query()
	if query.Get("hide_empty") != "true" {
		t.Errorf("hide_empty = %q, want \"true\" when empty terms are excluded", query.Get("hide_empty"))
	}
	if query.Get("page") != "1" || query.Get("per_page") != "10" {
		t.Errorf("pagination query = %v", query)
	}
}

func TestFetchContent(t *testing.T) {
	t.Run("posts path", func(t *testing.T) {
		rt := &headerCaptureTripper{response: jsonResponse(http.StatusOK, `{"page": 1, "total_pages": 1, "items": []}`)}
		client := NewClient("http://remote.test", "secret", &http.Client{Transport: rt}, nil)

		if _, err := client.FetchContent(context.Background(), models.KindPost, 1, 10); err != nil {
			t.Fatalf("FetchContent() error = %v", err)
		}
		if rt.captured.URL.Path != "/mmt/v1/posts" {
			t.Errorf("path = %q, want /mmt/v1/posts", rt.captured.URL.Path)
		}
	})

	t.Run("media path", func(t *testing.T) {
		rt := &headerCaptureTripper{response: jsonResponse(http.StatusOK, `{"page": 1, "total_pages": 1, "items": []}`)}
		client := NewClient("http://remote.test", "secret", &http.Client{Transport: rt}, nil)

		if _, err := client.FetchContent(context.Background(), models.KindMedia, 1, 10); err != nil {
			t.Fatalf("FetchContent() error = %v", err)
		}
		if rt.captured.URL.Path != "/mmt/v1/media" {
			t.Errorf("path = %q, want /mmt/v1/media", rt.captured.URL.Path)
		}
	})

	t.Run("unsupported kind", func(t *testing.T) {
		client := newTestClient(&mockTripper{response: nil})
		if _, err := client.FetchContent(context.Background(), models.KindUser, 1, 10); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("FetchContent() error = %v, want ErrInvalidArgument", err)
		}
	})
}

func TestGetDecodesFailure(t *testing.T) {
	rt := &mockTripper{response: jsonResponse(http.StatusOK, `{not json`)}
	_, err := newTestClient(rt).FetchUsers(context.Background(), 1, 10)
	if !errors.Is(err, shared.ErrRemoteRequest) {
		t.Errorf("FetchUsers() error = %v, want ErrRemoteRequest", err)
	}
}
