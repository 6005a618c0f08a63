// Package upbank is a typed client for the Up Bank public API
// (https://developer.up.com.au). Every method issues exactly one HTTP
// request and returns the raw JSON document the upstream produced — the
// JSON:API envelope (data/links) is preserved so pagination cursors survive
// the round trip untouched.
package upbank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shaunakg/up-mcp/internal/common"
)

// DefaultBaseURL is the production Up API endpoint.
const DefaultBaseURL = "https://api.up.com.au/api/v1"

const userAgent = "up-mcp/1.0 (+https://github.com/shaunakg/up-mcp)"

// Config holds client construction parameters.
type Config struct {
	Token   string
	BaseURL string
	Timeout time.Duration
}

// Client calls the Up Bank API with bearer authentication.
// Safe for concurrent use; all fields are read-only after construction.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *common.Logger
}

// NewClient creates a client. A non-empty personal access token is required.
func NewClient(cfg Config, logger *common.Logger) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("a non-empty Up personal access token is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

type contextKey struct{}

// ContextWithToken returns a context carrying a per-invocation bearer token.
// When present, it overrides the client's configured token for that call.
func ContextWithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, contextKey{}, token)
}

func (c *Client) bearerFor(ctx context.Context) string {
	if t, ok := ctx.Value(contextKey{}).(string); ok && t != "" {
		return t
	}
	return c.token
}

// PageOptions carries the upstream's cursor pagination parameters.
// Zero values are omitted from the query string.
type PageOptions struct {
	Size   int    // page[size]
	After  string // page[after] — opaque cursor
	Before string // page[before] — opaque cursor
}

func (p PageOptions) apply(q url.Values) {
	if p.Size > 0 {
		q.Set("page[size]", strconv.Itoa(p.Size))
	}
	if p.After != "" {
		q.Set("page[after]", p.After)
	}
	if p.Before != "" {
		q.Set("page[before]", p.Before)
	}
}

// TransactionFilter carries the upstream's transaction listing filters.
// Empty fields are omitted, which upstream treats as "no filter".
type TransactionFilter struct {
	Status   string // filter[status] — HELD or SETTLED
	Since    string // filter[since] — RFC 3339 timestamp
	Until    string // filter[until] — RFC 3339 timestamp
	Category string // filter[category] — not accepted on per-account listings
	Tag      string // filter[tag]
}

func (f TransactionFilter) apply(q url.Values, withCategory bool) {
	if f.Status != "" {
		q.Set("filter[status]", f.Status)
	}
	if f.Since != "" {
		q.Set("filter[since]", f.Since)
	}
	if f.Until != "" {
		q.Set("filter[until]", f.Until)
	}
	if withCategory && f.Category != "" {
		q.Set("filter[category]", f.Category)
	}
	if f.Tag != "" {
		q.Set("filter[tag]", f.Tag)
	}
}

// resourceIdentifier is the JSON:API {type, id} pair used by relationship writes.
type resourceIdentifier struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// do executes one HTTP request and returns the raw response body.
// 2xx passes the body through; everything else maps to *APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Msg("Up API Request")

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.bearerFor(ctx))
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.Error().Err(err).Str("path", path).Dur("duration", duration).Msg("Up API Request Failed")
		return nil, &APIError{Kind: ErrorKindUnreachable, Detail: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug().
		Str("status", resp.Status).
		Int("status_code", resp.StatusCode).
		Dur("duration", duration).
		Msg("Up API Response")

	if resp.StatusCode >= 400 {
		apiErr := errorFromResponse(resp.StatusCode, body)
		c.logger.Warn().
			Int("status_code", resp.StatusCode).
			Str("path", path).
			Str("detail", apiErr.Detail).
			Msg("Up API Error Response")
		return nil, apiErr
	}

	return body, nil
}

// --- Utility ---

// Ping performs a lightweight authenticated health check.
func (c *Client) Ping(ctx context.Context) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "/util/ping", nil, nil)
}

// --- Accounts ---

// ListAccounts lists accounts with optional pagination.
func (c *Client) ListAccounts(ctx context.Context, page PageOptions) ([]byte, error) {
	q := url.Values{}
	page.apply(q)
	return c.do(ctx, http.MethodGet, "/accounts", q, nil)
}

// GetAccount fetches one account by ID.
func (c *Client) GetAccount(ctx context.Context, accountID string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "/accounts/"+url.PathEscape(accountID), nil, nil)
}

// --- Transactions ---

// ListTransactions lists transactions across all accounts.
func (c *Client) ListTransactions(ctx context.Context, filter TransactionFilter, page PageOptions) ([]byte, error) {
	q := url.Values{}
	page.apply(q)
	filter.apply(q, true)
	return c.do(ctx, http.MethodGet, "/transactions", q, nil)
}

// GetTransaction fetches one transaction by ID.
func (c *Client) GetTransaction(ctx context.Context, transactionID string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "/transactions/"+url.PathEscape(transactionID), nil, nil)
}

// ListAccountTransactions lists transactions for one account. The upstream
// per-account listing accepts the same filters as the global one except
// filter[category].
func (c *Client) ListAccountTransactions(ctx context.Context, accountID string, filter TransactionFilter, page PageOptions) ([]byte, error) {
	q := url.Values{}
	page.apply(q)
	filter.apply(q, false)
	return c.do(ctx, http.MethodGet, "/accounts/"+url.PathEscape(accountID)+"/transactions", q, nil)
}

// --- Attachments ---

// ListAttachments lists attachments, optionally filtered to one transaction.
func (c *Client) ListAttachments(ctx context.Context, transactionID string, page PageOptions) ([]byte, error) {
	q := url.Values{}
	page.apply(q)
	if transactionID != "" {
		q.Set("filter[transaction]", transactionID)
	}
	return c.do(ctx, http.MethodGet, "/attachments", q, nil)
}

// GetAttachment fetches one attachment by ID.
func (c *Client) GetAttachment(ctx context.Context, attachmentID string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "/attachments/"+url.PathEscape(attachmentID), nil, nil)
}

// --- Categories ---

// ListCategories lists categories, optionally filtered to a parent category.
func (c *Client) ListCategories(ctx context.Context, parentCategoryID string, page PageOptions) ([]byte, error) {
	q := url.Values{}
	page.apply(q)
	if parentCategoryID != "" {
		q.Set("filter[parent]", parentCategoryID)
	}
	return c.do(ctx, http.MethodGet, "/categories", q, nil)
}

// GetCategory fetches one category by ID.
func (c *Client) GetCategory(ctx context.Context, categoryID string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "/categories/"+url.PathEscape(categoryID), nil, nil)
}

// CategorizeTransaction assigns a category to a transaction.
func (c *Client) CategorizeTransaction(ctx context.Context, transactionID, categoryID string) ([]byte, error) {
	payload := struct {
		Data resourceIdentifier `json:"data"`
	}{Data: resourceIdentifier{Type: "categories", ID: categoryID}}
	path := "/transactions/" + url.PathEscape(transactionID) + "/relationships/category"
	return c.do(ctx, http.MethodPost, path, nil, payload)
}

// ClearTransactionCategory removes the category assignment from a transaction.
func (c *Client) ClearTransactionCategory(ctx context.Context, transactionID string) ([]byte, error) {
	path := "/transactions/" + url.PathEscape(transactionID) + "/relationships/category"
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// --- Tags ---

// ListTags lists all tags currently in use.
func (c *Client) ListTags(ctx context.Context) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "/tags", nil, nil)
}

func tagPayload(tags []string) any {
	identifiers := make([]resourceIdentifier, len(tags))
	for i, tag := range tags {
		identifiers[i] = resourceIdentifier{Type: "tags", ID: tag}
	}
	return struct {
		Data []resourceIdentifier `json:"data"`
	}{Data: identifiers}
}

// AddTags adds one or more tags to a transaction.
func (c *Client) AddTags(ctx context.Context, transactionID string, tags []string) ([]byte, error) {
	if len(tags) == 0 {
		return nil, fmt.Errorf("at least one tag is required")
	}
	path := "/transactions/" + url.PathEscape(transactionID) + "/relationships/tags"
	return c.do(ctx, http.MethodPost, path, nil, tagPayload(tags))
}

// RemoveTags removes one or more tags from a transaction.
func (c *Client) RemoveTags(ctx context.Context, transactionID string, tags []string) ([]byte, error) {
	if len(tags) == 0 {
		return nil, fmt.Errorf("at least one tag is required")
	}
	path := "/transactions/" + url.PathEscape(transactionID) + "/relationships/tags"
	return c.do(ctx, http.MethodDelete, path, nil, tagPayload(tags))
}

// --- Webhooks ---

// ListWebhooks lists configured webhooks.
func (c *Client) ListWebhooks(ctx context.Context, page PageOptions) ([]byte, error) {
	q := url.Values{}
	page.apply(q)
	return c.do(ctx, http.MethodGet, "/webhooks", q, nil)
}

// webhookAttributes is the creation payload body; optional fields are
// dropped from the JSON when empty, matching upstream expectations.
type webhookAttributes struct {
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
	SecretKey   string `json:"secretKey,omitempty"`
}

// CreateWebhook registers a webhook for transaction events.
func (c *Client) CreateWebhook(ctx context.Context, webhookURL, description, secretKey string) ([]byte, error) {
	payload := struct {
		Data struct {
			Type       string            `json:"type"`
			Attributes webhookAttributes `json:"attributes"`
		} `json:"data"`
	}{}
	payload.Data.Type = "webhooks"
	payload.Data.Attributes = webhookAttributes{
		URL:         webhookURL,
		Description: description,
		SecretKey:   secretKey,
	}
	return c.do(ctx, http.MethodPost, "/webhooks", nil, payload)
}

// GetWebhook fetches one webhook by ID.
func (c *Client) GetWebhook(ctx context.Context, webhookID string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "/webhooks/"+url.PathEscape(webhookID), nil, nil)
}

// DeleteWebhook deletes a webhook by ID.
func (c *Client) DeleteWebhook(ctx context.Context, webhookID string) ([]byte, error) {
	return c.do(ctx, http.MethodDelete, "/webhooks/"+url.PathEscape(webhookID), nil, nil)
}

// PingWebhook triggers a ping event delivery for a webhook.
func (c *Client) PingWebhook(ctx context.Context, webhookID string) ([]byte, error) {
	return c.do(ctx, http.MethodPost, "/webhooks/"+url.PathEscape(webhookID)+"/ping", nil, nil)
}

// ListWebhookLogs lists delivery logs for a webhook.
func (c *Client) ListWebhookLogs(ctx context.Context, webhookID string, page PageOptions) ([]byte, error) {
	q := url.Values{}
	page.apply(q)
	return c.do(ctx, http.MethodGet, "/webhooks/"+url.PathEscape(webhookID)+"/logs", q, nil)
}
