// Package pipedrive provides a client for the five Pipedrive REST endpoints
// the lead sync uses: organization, person and lead creation, lead custom
// field updates, and lead reads.
package pipedrive

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const (
	orgBodyExcerptMax  = 500
	leadBodyExcerptMax = 300
)

// Client defines the Pipedrive operations used by the lead pipeline.
type Client interface {
	// CreateOrganization creates an organization (v1) and returns its id.
	CreateOrganization(ctx context.Context, req OrganizationRequest) (int, error)
	// CreatePerson creates a person (v2) linked to an organization and
	// returns its id.
	CreatePerson(ctx context.Context, req PersonRequest) (int, error)
	// CreateLead creates a lead (v1) linked to an organization and a person
	// and returns its id. Lead ids are strings (UUIDs) on the remote side.
	CreateLead(ctx context.Context, req LeadRequest) (string, error)
	// UpdateLeadCustomFields patches custom field values onto an existing
	// lead. The fields map uses Pipedrive field API keys as keys.
	UpdateLeadCustomFields(ctx context.Context, leadID string, fields map[string]any) error
	// GetLead fetches a lead by id and returns the decoded response.
	GetLead(ctx context.Context, leadID string) (map[string]any, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimiter throttles outgoing requests. Pipedrive enforces per-token
// request budgets; a limiter avoids tripping them on bursty intake.
func WithRateLimiter(l *rate.Limiter) Option {
	return func(c *httpClient) {
		c.limiter = l
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		c.http.Timeout = d
	}
}

type httpClient struct {
	baseURL  string
	apiToken string
	limiter  *rate.Limiter
	http     *http.Client
}

// NewClient creates a Pipedrive client for the given API base URL and token.
func NewClient(baseURL, apiToken string, opts ...Option) Client {
	c := &httpClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiToken: apiToken,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// endpoint builds a full URL with the api_token query parameter appended.
func (c *httpClient) endpoint(path string) string {
	return c.baseURL + path + "?api_token=" + url.QueryEscape(c.apiToken)
}

// do sends a request and returns the raw body and status code. A returned
// error is always a *TransportError or a context error from the limiter.
func (c *httpClient) do(ctx context.Context, op, method, path string, payload any) ([]byte, int, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, 0, eris.Wrap(err, "pipedrive: rate limiter wait")
		}
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, eris.Wrapf(err, "pipedrive: %s: marshal payload", op)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return nil, 0, eris.Wrapf(err, "pipedrive: %s: create request", op)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &TransportError{Op: op, Err: err}
	}

	return raw, resp.StatusCode, nil
}

func success(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

func (c *httpClient) CreateOrganization(ctx context.Context, req OrganizationRequest) (int, error) {
	const op = "create organization"

	raw, status, err := c.do(ctx, op, http.MethodPost, "/api/v1/organizations", req)
	if err != nil {
		return 0, err
	}
	if !success(status) {
		return 0, &APIError{Op: op, StatusCode: status, Message: errorMessage(raw, status)}
	}

	var out struct {
		Data struct {
			ID *int `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &out); err != nil || out.Data.ID == nil {
		return 0, &ProtocolError{
			Op:          op,
			StatusCode:  status,
			Reason:      "response has no id",
			BodyExcerpt: excerpt(raw, orgBodyExcerptMax),
		}
	}
	return *out.Data.ID, nil
}

func (c *httpClient) CreatePerson(ctx context.Context, req PersonRequest) (int, error) {
	const op = "create person"

	raw, status, err := c.do(ctx, op, http.MethodPost, "/api/v2/persons", req)
	if err != nil {
		return 0, err
	}
	if !success(status) {
		return 0, &APIError{Op: op, StatusCode: status, Message: errorMessage(raw, status)}
	}

	// The person id must be an integer; a quoted numeric string is a
	// contract violation.
	var out struct {
		Data struct {
			ID json.RawMessage `json:"id"`
		} `json:"data"`
	}
	var id int
	if err := json.Unmarshal(raw, &out); err != nil ||
		len(out.Data.ID) == 0 ||
		json.Unmarshal(out.Data.ID, &id) != nil {
		return 0, &ProtocolError{
			Op:          op,
			StatusCode:  status,
			Reason:      "response has no integer id",
			BodyExcerpt: excerpt(raw, orgBodyExcerptMax),
		}
	}
	return id, nil
}

func (c *httpClient) CreateLead(ctx context.Context, req LeadRequest) (string, error) {
	const op = "create lead"

	raw, status, err := c.do(ctx, op, http.MethodPost, "/api/v1/leads", req)
	if err != nil {
		return "", err
	}
	if !success(status) {
		return "", &APIError{Op: op, StatusCode: status, Message: errorMessage(raw, status)}
	}

	var out struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &out); err != nil || out.Data.ID == "" {
		return "", &ProtocolError{
			Op:          op,
			StatusCode:  status,
			Reason:      "response has no lead id",
			BodyExcerpt: excerpt(raw, leadBodyExcerptMax),
		}
	}
	return out.Data.ID, nil
}

func (c *httpClient) UpdateLeadCustomFields(ctx context.Context, leadID string, fields map[string]any) error {
	const op = "update lead custom fields"

	raw, status, err := c.do(ctx, op, http.MethodPatch, "/api/v1/leads/"+url.PathEscape(leadID), fields)
	if err != nil {
		return err
	}

	// Gateways in front of the API have been seen returning HTML error
	// pages; reject anything that is not JSON before looking at the status.
	trimmed := strings.TrimLeft(string(raw), " \t\r\n")
	if trimmed == "" || (trimmed[0] != '{' && trimmed[0] != '[') {
		return &ProtocolError{
			Op:          op,
			StatusCode:  status,
			Reason:      "non-JSON response",
			BodyExcerpt: excerpt(raw, leadBodyExcerptMax),
		}
	}

	if !success(status) {
		return &APIError{Op: op, StatusCode: status, Message: errorMessage(raw, status)}
	}
	return nil
}

func (c *httpClient) GetLead(ctx context.Context, leadID string) (map[string]any, error) {
	const op = "get lead"

	raw, status, err := c.do(ctx, op, http.MethodGet, "/api/v1/leads/"+url.PathEscape(leadID), nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &APIError{Op: op, StatusCode: status, Message: errorMessage(raw, status)}
	}

	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &ProtocolError{
			Op:          op,
			StatusCode:  status,
			Reason:      "invalid JSON response",
			BodyExcerpt: excerpt(raw, leadBodyExcerptMax),
		}
	}
	return out, nil
}
