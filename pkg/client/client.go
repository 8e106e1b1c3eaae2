package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client is a Go SDK for the assessment-api
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new assessment-api client authenticating with a bearer token
func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError is a failed API call
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s - %s", e.StatusCode, e.Code, e.Message)
}

// ListOptions is the page window of list calls
type ListOptions struct {
	Limit  int
	Offset int
}

func (o ListOptions) query() string {
	v := url.Values{}
	if o.Limit > 0 {
		v.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Offset > 0 {
		v.Set("offset", strconv.Itoa(o.Offset))
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

// ListKits retrieves a page of assessment kits
func (c *Client) ListKits(ctx context.Context, opts ListOptions) ([]*Kit, error) {
	var data struct {
		Kits []*Kit `json:"kits"`
	}
	if err := c.get(ctx, "/api/v1/assessment-kits"+opts.query(), &data); err != nil {
		return nil, err
	}
	return data.Kits, nil
}

// GetKit retrieves the detail view of a kit
func (c *Client) GetKit(ctx context.Context, id int64) (*KitDetail, error) {
	var data KitDetail
	if err := c.get(ctx, fmt.Sprintf("/api/v1/assessment-kits/%d", id), &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetKitInfo retrieves the editable info of a kit
func (c *Client) GetKitInfo(ctx context.Context, id int64) (*KitInfo, error) {
	var data KitInfo
	if err := c.get(ctx, fmt.Sprintf("/api/v1/assessment-kits/%d/info", id), &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetKitStatistics retrieves the statistics of a kit
func (c *Client) GetKitStatistics(ctx context.Context, id int64) (*KitStatistics, error) {
	var data KitStatistics
	if err := c.get(ctx, fmt.Sprintf("/api/v1/assessment-kits/%d/stats", id), &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetKitReportInfo retrieves the report header of a kit
func (c *Client) GetKitReportInfo(ctx context.Context, id int64) (*KitReportInfo, error) {
	var data KitReportInfo
	if err := c.get(ctx, fmt.Sprintf("/api/v1/assessment-kits/%d/report-info", id), &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetKitDetails retrieves the full structure of a kit
func (c *Client) GetKitDetails(ctx context.Context, id int64) (*KitDetails, error) {
	var data KitDetails
	if err := c.get(ctx, fmt.Sprintf("/api/v1/assessment-kits/%d/details", id), &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// ListMaturityLevels retrieves a kit's maturity levels with their competences
func (c *Client) ListMaturityLevels(ctx context.Context, kitID int64) ([]MaturityLevel, error) {
	var data struct {
		MaturityLevels []MaturityLevel `json:"maturity_levels"`
	}
	if err := c.get(ctx, fmt.Sprintf("/api/v1/assessment-kits/%d/maturity-levels", kitID), &data); err != nil {
		return nil, err
	}
	return data.MaturityLevels, nil
}

// ListExpertGroupKits retrieves the kits published by an expert group
func (c *Client) ListExpertGroupKits(ctx context.Context, expertGroupID int64, opts ListOptions) ([]ExpertGroupKit, error) {
	var data struct {
		Kits []ExpertGroupKit `json:"kits"`
	}
	path := fmt.Sprintf("/api/v1/expert-groups/%d/assessment-kits", expertGroupID) + opts.query()
	if err := c.get(ctx, path, &data); err != nil {
		return nil, err
	}
	return data.Kits, nil
}

// ListSpaces retrieves the spaces of the authenticated user
func (c *Client) ListSpaces(ctx context.Context, opts ListOptions) ([]*Space, error) {
	var data struct {
		Spaces []*Space `json:"spaces"`
	}
	if err := c.get(ctx, "/api/v1/spaces"+opts.query(), &data); err != nil {
		return nil, err
	}
	return data.Spaces, nil
}

// GetSpace retrieves a space
func (c *Client) GetSpace(ctx context.Context, id int64) (*SpaceRef, error) {
	var data SpaceRef
	if err := c.get(ctx, fmt.Sprintf("/api/v1/spaces/%d", id), &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// AddMember grants an existing account access to a space. A rejection by
// assessment-core is returned as a Result, not an error.
func (c *Client) AddMember(ctx context.Context, spaceID int64, email string) (*MemberResult, error) {
	return c.member(ctx, fmt.Sprintf("/api/v1/spaces/%d/members", spaceID), email)
}

// InviteMember invites an unregistered address to a space
func (c *Client) InviteMember(ctx context.Context, spaceID int64, email string) (*MemberResult, error) {
	return c.member(ctx, fmt.Sprintf("/api/v1/spaces/%d/invite", spaceID), email)
}

// Health checks if the service is healthy
func (c *Client) Health(ctx context.Context) error {
	status, body, err := c.doRequest(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return err
	}
	return decodeEnvelope(status, body, nil)
}

func (c *Client) member(ctx context.Context, path, email string) (*MemberResult, error) {
	payload, err := json.Marshal(map[string]string{"email": email})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	status, body, err := c.doRequest(ctx, http.MethodPost, path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	// Forwarded calls answer with a membership result. Local rejections
	// (validation, auth, unknown space) use the API envelope.
	var result MemberResult
	if err := json.Unmarshal(body, &result); err == nil && result.StatusCode != 0 {
		return &result, nil
	}

	return nil, decodeEnvelope(status, body, nil)
}

func (c *Client) get(ctx context.Context, path string, data any) error {
	status, body, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return decodeEnvelope(status, body, data)
}

// decodeEnvelope unpacks {success, data, error} into data
func decodeEnvelope(status int, body []byte, data any) error {
	var result struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}

	// Authentication failures use {error, message} with a string error and
	// land in the first branch.
	if err := json.Unmarshal(body, &result); err != nil {
		if status >= 400 {
			return &APIError{StatusCode: status, Message: strings.TrimSpace(string(body))}
		}
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if !result.Success || status >= 400 {
		apiErr := &APIError{StatusCode: status}
		if result.Error != nil {
			apiErr.Code = result.Error.Code
			apiErr.Message = result.Error.Message
		}
		return apiErr
	}

	if data == nil || len(result.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(result.Data, data); err != nil {
		return fmt.Errorf("failed to unmarshal response data: %w", err)
	}
	return nil
}

// doRequest performs an HTTP request and returns the status and raw body
func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}

	return resp.StatusCode, respBody, nil
}
