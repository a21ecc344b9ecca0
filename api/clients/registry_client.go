// Package clients provides typed HTTP clients for the registry API.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/openrsvp/rsvp-registry/api"
	"github.com/openrsvp/rsvp-registry/interfaces"
)

// APIError is a structured rejection returned by the registry server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

// Error formats the rejection for logs.
func (e *APIError) Error() string {
	return fmt.Sprintf("registry API error (%d %s): %s", e.StatusCode, e.Code, e.Message)
}

// RegistryClient drives the registry HTTP API on behalf of one caller
// identity.
type RegistryClient struct {
	baseURL    string
	caller     interfaces.Identity
	httpClient *http.Client
}

// NewRegistryClient creates a client for the server at baseURL, acting as
// the given caller. A nil httpClient falls back to http.DefaultClient.
func NewRegistryClient(baseURL string, caller interfaces.Identity, httpClient *http.Client) *RegistryClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &RegistryClient{
		baseURL:    baseURL,
		caller:     caller,
		httpClient: httpClient,
	}
}

// CreateEvent creates a new event owned by the client's caller identity and
// returns the full record including the assigned id.
func (c *RegistryClient) CreateEvent(ctx context.Context, maxCapacity uint64, deposit *big.Int, name string) (*api.EventResponse, error) {
	req := api.CreateEventRequest{
		MaxCapacity: maxCapacity,
		Deposit:     (*hexutil.Big)(deposit),
		Name:        name,
	}
	return c.do(ctx, http.MethodPost, c.baseURL+"/api/events", req)
}

// Register registers the caller for the event, attaching the given payment.
func (c *RegistryClient) Register(ctx context.Context, eventID uint64, amount *big.Int, asset interfaces.Asset) (*api.EventResponse, error) {
	req := api.RegisterRequest{
		Amount: (*hexutil.Big)(amount),
		Asset:  asset.String(),
	}
	url := fmt.Sprintf("%s/api/events/%d/registrations", c.baseURL, eventID)
	return c.do(ctx, http.MethodPost, url, req)
}

// GetEvent fetches the stored record for the event, including its current
// registration count.
func (c *RegistryClient) GetEvent(ctx context.Context, eventID uint64) (*api.EventResponse, error) {
	url := fmt.Sprintf("%s/api/events/%d", c.baseURL, eventID)
	return c.do(ctx, http.MethodGet, url, nil)
}

func (c *RegistryClient) do(ctx context.Context, method, url string, payload any) (*api.EventResponse, error) {
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(api.CallerAddressHeader, c.caller.Hex())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling registry API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr api.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil {
			return nil, fmt.Errorf("registry API returned status %d", resp.StatusCode)
		}
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Code:       apiErr.Code,
			Message:    apiErr.Message,
		}
	}

	var ev api.EventResponse
	if err := json.NewDecoder(resp.Body).Decode(&ev); err != nil {
		return nil, fmt.Errorf("decoding event response: %w", err)
	}
	return &ev, nil
}
