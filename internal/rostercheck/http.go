package rostercheck

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/okian/mergington/internal/domain/model"
)

// Detail strings the service returns on 400.
const (
	detailAlreadySignedUp = "Student is already signed up"
	detailActivityFull    = "Activity is full"
	detailNotSignedUp     = "Student is not signed up for this activity"
)

// Client talks to the activities API.
type Client struct {
	http    *http.Client
	baseURL string
}

// NewClient creates a client with a per-request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Health returns nil when /healthz answers 200.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/healthz")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %w: %d", ErrUnhealthy, ErrUnexpectedCode, resp.StatusCode)
	}
	return nil
}

// Activities fetches the registry in server order.
func (c *Client) Activities(ctx context.Context) ([]model.Activity, error) {
	resp, err := c.do(ctx, http.MethodGet, "/activities")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list activities: %w: %d", ErrUnexpectedCode, resp.StatusCode)
	}
	return decodeActivities(json.NewDecoder(resp.Body))
}

// CapacityEnforced reads the capacityEnforced flag from /stats.
func (c *Client) CapacityEnforced(ctx context.Context) (bool, error) {
	resp, err := c.do(ctx, http.MethodGet, "/stats")
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("stats: %w: %d", ErrUnexpectedCode, resp.StatusCode)
	}
	var stats struct {
		CapacityEnforced bool `json:"capacityEnforced"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return false, fmt.Errorf("decode stats: %w", err)
	}
	return stats.CapacityEnforced, nil
}

// Signup posts a signup and classifies the response.
func (c *Client) Signup(ctx context.Context, activity, email string) (Outcome, error) {
	return c.roster(ctx, "signup", activity, email)
}

// Unregister posts an unregister and classifies the response.
func (c *Client) Unregister(ctx context.Context, activity, email string) (Outcome, error) {
	return c.roster(ctx, "unregister", activity, email)
}

func (c *Client) roster(ctx context.Context, op, activity, email string) (Outcome, error) {
	path := "/activities/" + url.PathEscape(activity) + "/" + op + "?email=" + url.QueryEscape(email)
	resp, err := c.do(ctx, http.MethodPost, path)
	if err != nil {
		return OutcomeFailed, err
	}
	defer resp.Body.Close()

	var body struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)

	switch {
	case resp.StatusCode == http.StatusOK:
		return OutcomeOK, nil
	case resp.StatusCode == http.StatusNotFound:
		return OutcomeNotFound, nil
	case resp.StatusCode == http.StatusBadRequest && body.Detail == detailAlreadySignedUp:
		return OutcomeDuplicate, nil
	case resp.StatusCode == http.StatusBadRequest && body.Detail == detailActivityFull:
		return OutcomeFull, nil
	case resp.StatusCode == http.StatusBadRequest && body.Detail == detailNotSignedUp:
		return OutcomeNotSignedUp, nil
	default:
		return OutcomeFailed, fmt.Errorf("%s %q: %w: %d %s", op, activity, ErrUnexpectedCode, resp.StatusCode, body.Detail)
	}
}

func (c *Client) do(ctx context.Context, method, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return c.http.Do(req)
}

// decodeActivities reads the name -> record object keeping key order.
func decodeActivities(dec *json.Decoder) ([]model.Activity, error) {
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decode activities: %w", err)
	}
	var out []model.Activity
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode activities: %w", err)
		}
		name, _ := tok.(string)
		var a model.Activity
		if err := dec.Decode(&a); err != nil {
			return nil, fmt.Errorf("decode activity %q: %w", name, err)
		}
		a.Name = name
		out = append(out, a)
	}
	return out, nil
}
