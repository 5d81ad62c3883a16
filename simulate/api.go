package simulate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/0xmhha/tenderly-go/client"
)

// sharedSimulationURL is the public dashboard URL template for shared
// simulations. The URL is synthesized client-side; the service does not
// return it.
const sharedSimulationURL = "https://dashboard.tenderly.co/shared/simulation/%s"

// API exposes the simulation operations of a Tenderly project
type API struct {
	client *client.Client
}

// NewAPI creates a simulation API over the given client
func NewAPI(c *client.Client) *API {
	return &API{client: c}
}

// Simulate runs a single transaction simulation without broadcasting it
func (a *API) Simulate(ctx context.Context, req *SimulationRequest) (*SimulationResponse, error) {
	var resp SimulationResponse
	if err := a.client.Post(ctx, "/simulate", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SimulateBundle simulates an ordered bundle of transactions. Each
// transaction runs on top of the state changes of the previous ones.
func (a *API) SimulateBundle(ctx context.Context, req *BundleSimulationRequest) (*BundleSimulationResponse, error) {
	var resp BundleSimulationResponse
	if err := a.client.Post(ctx, "/simulate-bundle", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// List returns a page of saved simulations. Pages are 0-indexed; the
// service caps perPage at 100.
func (a *API) List(ctx context.Context, page, perPage uint32) (*SimulationListResponse, error) {
	query := url.Values{}
	query.Set("page", strconv.FormatUint(uint64(page), 10))
	query.Set("perPage", strconv.FormatUint(uint64(perPage), 10))

	var resp SimulationListResponse
	if err := a.client.Get(ctx, "/simulations", query, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Get fetches a saved simulation by ID
func (a *API) Get(ctx context.Context, id string) (*SimulationResponse, error) {
	var resp SimulationResponse
	path := "/simulations/" + client.EncodePathSegment(id)
	if err := a.client.Get(ctx, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Info fetches simulation metadata by ID
func (a *API) Info(ctx context.Context, id string) (json.RawMessage, error) {
	var resp json.RawMessage
	path := "/simulations/" + client.EncodePathSegment(id) + "/info"
	if err := a.client.Get(ctx, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Share makes a saved simulation publicly visible and returns its public
// dashboard URL.
func (a *API) Share(ctx context.Context, id string) (string, error) {
	encoded := client.EncodePathSegment(id)
	if err := a.client.PostEmpty(ctx, "/simulations/"+encoded+"/share", struct{}{}); err != nil {
		return "", err
	}
	return fmt.Sprintf(sharedSimulationURL, encoded), nil
}

// Unshare makes a shared simulation private again
func (a *API) Unshare(ctx context.Context, id string) error {
	path := "/simulations/" + client.EncodePathSegment(id) + "/unshare"
	return a.client.PostEmpty(ctx, path, struct{}{})
}

// Trace traces an already-executed transaction by hash
func (a *API) Trace(ctx context.Context, hash string) (json.RawMessage, error) {
	var resp json.RawMessage
	path := "/trace/" + client.EncodePathSegment(hash)
	if err := a.client.Get(ctx, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}
