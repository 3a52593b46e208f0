package availability

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"medibook/models"
)

const (
	availabilityPath = "/api/practitioners/availability"
	timeSlotsPath    = "/api/practitioners/time-slots"
)

// APIError is a non-2xx answer from the availability API.
type APIError struct {
	StatusCode int
	Message    string
	Details    string
	Kind       string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("availability api: %d %s: %s", e.StatusCode, e.Message, e.Details)
	}
	return fmt.Sprintf("availability api: %d %s", e.StatusCode, e.Message)
}

// Unwrap maps a rejected range onto ErrInvalidTimeRange so callers can tell it from network failures.
func (e *APIError) Unwrap() error {
	if e.Kind == KindInvalidTimeRange {
		return ErrInvalidTimeRange
	}
	return nil
}

// KindInvalidTimeRange is the error kind the API reports for schedules that fail validation.
const KindInvalidTimeRange = "InvalidTimeRange"

// APIClient talks to the availability endpoints on behalf of one authenticated practitioner.
type APIClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// NewAPIClient builds a client with a bounded request timeout.
func NewAPIClient(baseURL, token string) *APIClient {
	return &APIClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Token:      token,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *APIClient) GetAvailability(ctx context.Context) (*models.AvailabilityDocument, error) {
	var doc models.AvailabilityDocument
	status, err := c.do(ctx, http.MethodGet, availabilityPath, nil, &doc)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNoContent || doc.Schedule == nil {
		return nil, nil
	}
	return &doc, nil
}

func (c *APIClient) PutAvailability(ctx context.Context, doc models.AvailabilityDocument) error {
	_, err := c.do(ctx, http.MethodPut, availabilityPath, doc, nil)
	return err
}

func (c *APIClient) ListTimeSlots(ctx context.Context, start, end string) ([]models.BookableTimeSlot, error) {
	q := url.Values{}
	q.Set("start", start)
	q.Set("end", end)
	var resp models.TimeSlotsResponse
	if _, err := c.do(ctx, http.MethodGet, timeSlotsPath+"?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.TimeSlots, nil
}

func (c *APIClient) do(ctx context.Context, method, path string, body, out interface{}) (int, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encoding request failed: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("building request failed: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var payload struct {
			Message string `json:"message"`
			Details string `json:"details"`
			Kind    string `json:"kind"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
			if payload.Message != "" {
				apiErr.Message = payload.Message
			}
			apiErr.Details = payload.Details
			apiErr.Kind = payload.Kind
		}
		return resp.StatusCode, apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return resp.StatusCode, fmt.Errorf("decoding response failed: %w", err)
	}
	return resp.StatusCode, nil
}
