package dashboard

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

	"spaceship-fleet/maintenance-portal/internal/apierr"
	"spaceship-fleet/maintenance-portal/internal/pagination"
	"spaceship-fleet/maintenance-portal/internal/repairmen"
	"spaceship-fleet/maintenance-portal/internal/requests"
	"spaceship-fleet/maintenance-portal/internal/spaceships"
)

// HTTPError is a non-2xx response from the portal API.
type HTTPError struct {
	StatusCode int
	Object     *apierr.Error
	Body       string
}

// Error prefers the human message of the error object, then its machine
// message, then the raw body.
func (e *HTTPError) Error() string {
	if e.Object != nil {
		if e.Object.HumanMessage != "" {
			return e.Object.HumanMessage
		}
		if e.Object.Message != "" {
			return e.Object.Message
		}
	}
	if body := strings.TrimSpace(e.Body); body != "" {
		return body
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// Unwrap exposes the error object so callers can match it with errors.Is.
func (e *HTTPError) Unwrap() error {
	if e.Object == nil {
		return nil
	}
	return e.Object
}

// Client talks to the portal REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the API root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) ListSpaceships(ctx context.Context, page pagination.Page) ([]spaceships.Spaceship, error) {
	var out []spaceships.Spaceship
	if err := c.do(ctx, http.MethodGet, pagedPath("/spaceships", page), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetSpaceship(ctx context.Context, serial int64) (*spaceships.Spaceship, error) {
	var out spaceships.Spaceship
	if err := c.do(ctx, http.MethodGet, "/spaceships/"+itoa(serial), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateSpaceship(ctx context.Context, req *spaceships.SpaceshipRequest) (*spaceships.Spaceship, error) {
	var out spaceships.Spaceship
	if err := c.do(ctx, http.MethodPost, "/spaceships", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateSpaceship(ctx context.Context, serial int64, req *spaceships.SpaceshipRequest) (*spaceships.Spaceship, error) {
	var out spaceships.Spaceship
	if err := c.do(ctx, http.MethodPut, "/spaceships/"+itoa(serial), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteSpaceship(ctx context.Context, serial int64) error {
	return c.do(ctx, http.MethodDelete, "/spaceships/"+itoa(serial), nil, nil)
}

func (c *Client) ListRepairmen(ctx context.Context, page pagination.Page) ([]repairmen.Repairman, error) {
	var out []repairmen.Repairman
	if err := c.do(ctx, http.MethodGet, pagedPath("/repairmen", page), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetRepairman(ctx context.Context, id int64) (*repairmen.Repairman, error) {
	var out repairmen.Repairman
	if err := c.do(ctx, http.MethodGet, "/repairmen/"+itoa(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateRepairman(ctx context.Context, req *repairmen.RepairmanRequest) (*repairmen.Repairman, error) {
	var out repairmen.Repairman
	if err := c.do(ctx, http.MethodPost, "/repairmen", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateRepairman(ctx context.Context, id int64, req *repairmen.RepairmanRequest) (*repairmen.Repairman, error) {
	var out repairmen.Repairman
	if err := c.do(ctx, http.MethodPut, "/repairmen/"+itoa(id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteRepairman(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/repairmen/"+itoa(id), nil, nil)
}

func (c *Client) ListRequests(ctx context.Context, page pagination.Page) ([]requests.MaintenanceRequest, error) {
	var out []requests.MaintenanceRequest
	if err := c.do(ctx, http.MethodGet, pagedPath("/maintenance-requests", page), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetRequest(ctx context.Context, id int64) (*requests.MaintenanceRequest, error) {
	var out requests.MaintenanceRequest
	if err := c.do(ctx, http.MethodGet, "/maintenance-requests/"+itoa(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateRequest(ctx context.Context, req *requests.MaintenanceRequestRequest) (*requests.MaintenanceRequest, error) {
	var out requests.MaintenanceRequest
	if err := c.do(ctx, http.MethodPost, "/maintenance-requests", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateRequest(ctx context.Context, id int64, req *requests.MaintenanceRequestRequest) (*requests.MaintenanceRequest, error) {
	var out requests.MaintenanceRequest
	if err := c.do(ctx, http.MethodPut, "/maintenance-requests/"+itoa(id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteRequest(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/maintenance-requests/"+itoa(id), nil, nil)
}

func (c *Client) RequestTransitions(ctx context.Context, id int64) (*requests.Transitions, error) {
	var out requests.Transitions
	if err := c.do(ctx, http.MethodGet, "/maintenance-requests/"+itoa(id)+"/transitions", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		httpErr := &HTTPError{StatusCode: resp.StatusCode, Body: string(data)}
		var obj apierr.Error
		if json.Unmarshal(data, &obj) == nil && (obj.Message != "" || obj.HumanMessage != "") {
			httpErr.Object = &obj
		}
		return httpErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func pagedPath(path string, page pagination.Page) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page.Number))
	q.Set("size", strconv.Itoa(page.Size))
	return path + "?" + q.Encode()
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
