package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"myfilms/internal/logging"
	"myfilms/internal/services"
)

const component = "catalog"

// API is the set of catalog operations the orchestrators depend on.
type API interface {
	Popular(ctx context.Context) ([]Item, error)
	Search(ctx context.Context, query string) ([]Item, error)
	Detail(ctx context.Context, id int64, kind MediaKind) (*Detail, error)
	PersonCredits(ctx context.Context, personID int64) (*Credits, error)
}

// Client provides access to the remote catalog.
type Client struct {
	token      string
	baseURL    string
	language   string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ API = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithLogger attaches a logger for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.NewComponentLogger(logger, component)
	}
}

// New creates a catalog client.
func New(token, baseURL, language string, opts ...Option) (*Client, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, services.Wrap(services.ErrConfiguration, component, "new", "bearer token required", nil)
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, services.Wrap(services.ErrConfiguration, component, "new", "base url required", nil)
	}
	client := &Client{
		token:      token,
		baseURL:    strings.TrimRight(baseURL, "/"),
		language:   strings.TrimSpace(language),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logging.NewComponentLogger(nil, component),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Popular returns page one of the popular movie listing. Items lacking a
// media type are tagged as movies; no poster filter applies here.
func (c *Client) Popular(ctx context.Context) ([]Item, error) {
	var payload page
	params := url.Values{}
	params.Set("page", "1")
	if err := c.get(ctx, "popular", "/movie/popular", params, &payload); err != nil {
		return nil, err
	}
	for i := range payload.Results {
		if payload.Results[i].MediaType == "" {
			payload.Results[i].MediaType = KindMovie
		}
	}
	return payload.Results, nil
}

// Search runs a multi-type search and drops results without a poster.
func (c *Client) Search(ctx context.Context, query string) ([]Item, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, services.Wrap(services.ErrValidation, component, "search", "query must not be empty", nil)
	}
	var payload page
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", "1")
	if err := c.get(ctx, "search", "/search/multi", params, &payload); err != nil {
		return nil, err
	}
	filtered := make([]Item, 0, len(payload.Results))
	for _, item := range payload.Results {
		if item.PosterPath != "" {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

// Detail fetches the extended record with credits and videos appended. The
// result is tagged with kind.
func (c *Client) Detail(ctx context.Context, id int64, kind MediaKind) (*Detail, error) {
	var payload Detail
	params := url.Values{}
	params.Set("append_to_response", "credits,videos")
	path := "/" + kind.detailSegment() + "/" + strconv.FormatInt(id, 10)
	if err := c.get(ctx, "detail", path, params, &payload); err != nil {
		return nil, err
	}
	payload.MediaType = kind
	return &payload, nil
}

// PersonCredits fetches a person's combined cast and crew credits.
func (c *Client) PersonCredits(ctx context.Context, personID int64) (*Credits, error) {
	var payload Credits
	path := "/person/" + strconv.FormatInt(personID, 10) + "/combined_credits"
	if err := c.get(ctx, "person_credits", path, url.Values{}, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) get(ctx context.Context, operation, path string, params url.Values, out any) error {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, component, operation, "parse url", err)
	}
	if c.language != "" {
		params.Set("language", c.language)
	}
	endpoint.RawQuery = params.Encode()

	requestID, ok := services.RequestIDFromContext(ctx)
	if !ok {
		requestID = uuid.NewString()
		ctx = services.WithRequestID(ctx, requestID)
	}
	logger := logging.WithContext(ctx, c.logger)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, component, operation, "build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return services.Wrap(services.ErrTransport, component, operation, fmt.Sprintf("execute request (latency=%v)", latency), err)
	}
	defer resp.Body.Close()

	logger.Debug("catalog request",
		logging.String("operation", operation),
		logging.String("path", path),
		logging.Int("status", resp.StatusCode),
		logging.Duration("latency", latency),
	)

	if resp.StatusCode != http.StatusOK {
		marker := services.ErrTransport
		if resp.StatusCode == http.StatusNotFound {
			marker = services.ErrNotFound
		}
		return services.Wrap(marker, component, operation, fmt.Sprintf("returned %d (latency=%v)", resp.StatusCode, latency), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return services.Wrap(services.ErrDecode, component, operation, "decode response", err)
	}
	return nil
}
