package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mmt/internal/models"
	"github.com/desertthunder/mmt/internal/shared"
)

// KeyHeader carries the hashed shared key on every protocol request.
const KeyHeader = "X-MMT-KEY"

// Namespace is the URL prefix every protocol endpoint lives under.
const Namespace = "/mmt/v1"

// Client pulls paginated collections from a remote site over HTTP. It
// implements [RemoteSource].
type Client struct {
	baseURL   string
	hashedKey string
	client    *http.Client
	logger    *log.Logger
}

// NewClient builds a client for the remote at baseURL, authenticating with the
// given shared key. A nil httpClient gets a default with a 30s timeout.
func NewClient(baseURL, key string, httpClient *http.Client, logger *log.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Client{
		baseURL:   shared.TrimSlash(baseURL),
		hashedKey: shared.HashKey(key),
		client:    httpClient,
		logger:    logger,
	}
}

// Name returns the remote base URL.
func (c *Client) Name() string {
	return c.baseURL
}

// VerifyAccess checks the shared key against the remote access endpoint.
func (c *Client) VerifyAccess(ctx context.Context) error {
	var resp AccessResponse
	if err := c.get(ctx, "/access", nil, &resp); err != nil {
		return err
	}
	if !resp.Access {
		return fmt.Errorf("%w: remote denied access", shared.ErrAuthFailed)
	}
	return nil
}

// FetchUsers retrieves one page of remote users.
func (c *Client) FetchUsers(ctx context.Context, page, perPage int) (*UsersPage, error) {
	var resp UsersPage
	if err := c.get(ctx, "/users", pageQuery(page, perPage), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FetchTerms retrieves one page of remote taxonomy terms.
func (c *Client) FetchTerms(ctx context.Context, page, perPage int, includeEmpty bool) (*TermsPage, error) {
	params := pageQuery(page, perPage)
	params.Set("hide_empty", strconv.FormatBool(!includeEmpty))

	var resp TermsPage
	if err := c.get(ctx, "/terms", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FetchContent retrieves one page of remote posts or media attachments.
func (c *Client) FetchContent(ctx context.Context, kind models.EntityKind, page, perPage int) (*ContentPage, error) {
	var path string
	switch kind {
	case models.KindPost:
		path = "/posts"
	case models.KindMedia:
		path = "/media"
	default:
		return nil, fmt.Errorf("%w: no content endpoint for kind %q", shared.ErrInvalidArgument, kind)
	}

	var resp ContentPage
	if err := c.get(ctx, path, pageQuery(page, perPage), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func pageQuery(page, perPage int) url.Values {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))
	return params
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := c.baseURL + Namespace + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to build request: %v", shared.ErrRemoteRequest, err)
	}
	req.Header.Set(KeyHeader, c.hashedKey)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("fetching remote page", "url", endpoint)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrRemoteRequest, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: remote returned %s", shared.ErrAuthFailed, resp.Status)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: remote returned %s: %s", shared.ErrRemoteRequest, resp.Status, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", shared.ErrRemoteRequest, err)
	}

	return nil
}
