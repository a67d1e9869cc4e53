// Package remote talks to the optional church directory endpoint configured
// at runtime. Every failure that is not a definite "no such church" comes
// back wrapped in repository.ErrNetworkUnavailable so the caller can fall
// back to the offline directory.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"churchmap/internal/domain/entities"
	"churchmap/internal/listing"
	"churchmap/internal/repository"
)

// maxErrorBody bounds how much of a failed response is quoted in the error.
const maxErrorBody = 512

// Client is a repository.ChurchSource backed by HTTP.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a client for baseURL. A zero timeout means no per-request
// limit beyond the caller's context.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the endpoint root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// List calls GET /?page&limit&searchTerm&sortKey&sortDirection.
func (c *Client) List(ctx context.Context, opts listing.Options) (listing.Page, error) {
	params := url.Values{}
	if opts.Page > 0 {
		params.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.Limit > 0 {
		params.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.SearchTerm != "" {
		params.Set("searchTerm", opts.SearchTerm)
	}
	if opts.SortKey != "" {
		dir := opts.SortDirection
		if dir == "" {
			dir = listing.Ascending
		}
		params.Set("sortKey", string(opts.SortKey))
		params.Set("sortDirection", string(dir))
	}

	path := "/"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var page listing.Page
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return listing.Page{}, err
	}
	return page, nil
}

// ListAll calls GET /all.
func (c *Client) ListAll(ctx context.Context) ([]entities.Church, error) {
	var churches []entities.Church
	if err := c.do(ctx, http.MethodGet, "/all", nil, &churches); err != nil {
		return nil, err
	}
	return churches, nil
}

// churchBody is what POST / and POST /bulk send: a church without identity.
type churchBody struct {
	Name          string               `json:"name"`
	Address       string               `json:"address"`
	Diocese       string               `json:"diocese"`
	Phone         string               `json:"phone"`
	MassTimes     entities.MassTimes   `json:"massTimes"`
	Announcements []string             `json:"announcements"`
	Media         []entities.MediaItem `json:"media"`
	Lat           float64              `json:"lat"`
	Lng           float64              `json:"lng"`
}

func withoutID(c entities.Church) churchBody {
	return churchBody{
		Name:          c.Name,
		Address:       c.Address,
		Diocese:       c.Diocese,
		Phone:         c.Phone,
		MassTimes:     c.MassTimes,
		Announcements: c.Announcements,
		Media:         c.Media,
		Lat:           c.Lat,
		Lng:           c.Lng,
	}
}

// Create calls POST / and returns the church with its assigned identity.
func (c *Client) Create(ctx context.Context, church entities.Church) (entities.Church, error) {
	var created entities.Church
	if err := c.do(ctx, http.MethodPost, "/", withoutID(church), &created); err != nil {
		return entities.Church{}, err
	}
	return created, nil
}

// Update calls PUT /{id} with the full church.
func (c *Client) Update(ctx context.Context, id string, church entities.Church) (entities.Church, error) {
	var updated entities.Church
	if err := c.do(ctx, http.MethodPut, "/"+url.PathEscape(id), church, &updated); err != nil {
		return entities.Church{}, err
	}
	return updated, nil
}

// Delete calls DELETE /{id}.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/"+url.PathEscape(id), nil, nil)
}

// BulkCreate calls POST /bulk and returns how many churches were stored.
func (c *Client) BulkCreate(ctx context.Context, churches []entities.Church) (int, error) {
	body := make([]churchBody, len(churches))
	for i, ch := range churches {
		body[i] = withoutID(ch)
	}
	var resp struct {
		Count int `json:"count"`
	}
	if err := c.do(ctx, http.MethodPost, "/bulk", body, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// do sends one request and decodes a 2xx body into out (when out is non-nil).
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%w: building %s %s: %v", repository.ErrNetworkUnavailable, method, path, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return ctxErr
		}
		return fmt.Errorf("%w: %s %s: %v", repository.ErrNetworkUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound && (method == http.MethodPut || method == http.MethodDelete) {
		return fmt.Errorf("%s %s: %w", method, path, repository.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: %s %s: status %d: %s",
			repository.ErrNetworkUnavailable, method, path, resp.StatusCode, strings.TrimSpace(string(excerpt)))
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding %s %s: %v", repository.ErrNetworkUnavailable, method, path, err)
	}
	return nil
}
