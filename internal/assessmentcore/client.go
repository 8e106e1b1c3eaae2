// Package assessmentcore reads assessment counters from the assessment-core service.
package assessmentcore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/flickit-platform/assessment-api/internal/models"
)

// ErrInvalidFilter is returned when a filter selects neither a kit nor a space
var ErrInvalidFilter = errors.New("assessment count filter needs a kit or a space")

// Client calls the assessment-core counters endpoint
type Client struct {
	baseURL string
	http    *resty.Client
}

// New creates a Client for the assessment-core instance at baseURL
func New(baseURL string) *Client {
	return NewWithClient(baseURL, resty.New())
}

// NewWithClient creates a Client that sends through the given resty client
func NewWithClient(baseURL string, client *resty.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    client.SetHeader("Accept", "application/json"),
	}
}

// CountAssessments returns the requested counters for a kit or a space
func (c *Client) CountAssessments(ctx context.Context, filter models.AssessmentCountFilter) (*models.AssessmentCount, error) {
	params := QueryParams(filter)
	if params == nil {
		return nil, ErrInvalidFilter
	}

	var count models.AssessmentCount
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&count).
		Get(c.baseURL + "/assessment-core/api/assessments/counters")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assessment counters: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("assessment counters returned status %d: %s", resp.StatusCode(), strings.TrimSpace(resp.String()))
	}

	return &count, nil
}

// QueryParams renders a filter as counter query parameters. It returns nil
// when the filter selects neither a kit nor a space.
func QueryParams(filter models.AssessmentCountFilter) map[string]string {
	params := map[string]string{}

	switch {
	case filter.KitID != 0:
		params["assessmentKitId"] = strconv.FormatInt(filter.KitID, 10)
	case filter.SpaceID != 0:
		params["spaceId"] = strconv.FormatInt(filter.SpaceID, 10)
	default:
		return nil
	}

	params["total"] = strconv.FormatBool(filter.Total)
	params["deleted"] = strconv.FormatBool(filter.Deleted)
	params["notDeleted"] = strconv.FormatBool(filter.NotDeleted)

	return params
}
