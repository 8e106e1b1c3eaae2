// Package membership forwards space member requests to assessment-core.
package membership

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// ErrMalformedResponse is returned when assessment-core rejects a request
// with a body that is not JSON.
var ErrMalformedResponse = errors.New("malformed assessment-core response")

// Result is the normalized reply of a membership call. Body is null on success
// and holds the remote JSON error payload otherwise.
type Result struct {
	Success    bool            `json:"success"`
	Body       json.RawMessage `json:"body"`
	StatusCode int             `json:"status_code"`
}

// Proxy sends member and invite requests for spaces to assessment-core.
// Calls are made once with the client defaults. There is no retry.
type Proxy struct {
	baseURL string
	http    *resty.Client
}

// NewProxy creates a Proxy for the assessment-core instance at baseURL
func NewProxy(baseURL string) *Proxy {
	return NewProxyWithClient(baseURL, resty.New())
}

// NewProxyWithClient creates a Proxy that sends through the given client
func NewProxyWithClient(baseURL string, client *resty.Client) *Proxy {
	return &Proxy{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    client,
	}
}

// AddMember asks assessment-core to add a member to the space
func (p *Proxy) AddMember(ctx context.Context, spaceID int64, authorization string, body json.RawMessage) (*Result, error) {
	return p.post(ctx, fmt.Sprintf("%s/assessment-core/api/spaces/%d/members", p.baseURL, spaceID), authorization, body)
}

// InviteMember asks assessment-core to invite an unregistered address to the space
func (p *Proxy) InviteMember(ctx context.Context, spaceID int64, authorization string, body json.RawMessage) (*Result, error) {
	return p.post(ctx, fmt.Sprintf("%s/assessment-core/api/spaces/%d/invite", p.baseURL, spaceID), authorization, body)
}

func (p *Proxy) post(ctx context.Context, url, authorization string, body json.RawMessage) (*Result, error) {
	requestID := middleware.GetReqID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	resp, err := p.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("Authorization", authorization).
		SetHeader("X-Request-ID", requestID).
		SetBody([]byte(body)).
		Post(url)
	if err != nil {
		slog.Error("assessment-core call failed", "url", url, "request_id", requestID, "error", err)
		return nil, fmt.Errorf("failed to call assessment-core: %w", err)
	}

	status := resp.StatusCode()
	if status == http.StatusOK {
		return &Result{Success: true, StatusCode: status}, nil
	}

	payload := resp.Body()
	if len(payload) == 0 || !json.Valid(payload) {
		slog.Error("assessment-core returned non-json error", "url", url, "status", status, "request_id", requestID)
		return nil, fmt.Errorf("%w: status %d", ErrMalformedResponse, status)
	}

	slog.Debug("assessment-core rejected membership request", "url", url, "status", status, "request_id", requestID)

	return &Result{
		Success:    false,
		Body:       json.RawMessage(payload),
		StatusCode: status,
	}, nil
}
