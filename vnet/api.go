package vnet

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/0xmhha/tenderly-go/client"
)

// API exposes the Virtual TestNet operations of a Tenderly project
type API struct {
	client *client.Client
}

// NewAPI creates a VNet API over the given client
func NewAPI(c *client.Client) *API {
	return &API{client: c}
}

// Create provisions a new VNet forked from the configured network
func (a *API) Create(ctx context.Context, req *CreateVNetRequest) (*VNet, error) {
	var resp VNet
	if err := a.client.Post(ctx, "/vnets", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// List returns VNets matching the query. The service responds with a bare
// array, not an envelope.
func (a *API) List(ctx context.Context, query *ListVNetsQuery) ([]VNet, error) {
	values := url.Values{}
	if query != nil {
		if query.Slug != "" {
			values.Set("slug", query.Slug)
		}
		if query.Page > 0 {
			values.Set("page", strconv.FormatUint(uint64(query.Page), 10))
		}
		if query.PerPage > 0 {
			values.Set("per_page", strconv.FormatUint(uint64(query.PerPage), 10))
		}
	}

	var resp []VNet
	if err := a.client.Get(ctx, "/vnets", values, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Get fetches a VNet by id
func (a *API) Get(ctx context.Context, id string) (*VNet, error) {
	var resp VNet
	path := "/vnets/" + client.EncodePathSegment(id)
	if err := a.client.Get(ctx, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Update changes a VNet's settings
func (a *API) Update(ctx context.Context, id string, req *UpdateVNetRequest) (*VNet, error) {
	var resp VNet
	path := "/vnets/" + client.EncodePathSegment(id)
	if err := a.client.Post(ctx, path, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Delete tears down a single VNet. The wire shape is the same list shape
// DeleteMany uses.
func (a *API) Delete(ctx context.Context, id string) error {
	return a.client.PostEmpty(ctx, "/vnets/delete", SingleVNet(id))
}

// DeleteMany tears down several VNets in one call
func (a *API) DeleteMany(ctx context.Context, ids []string) error {
	return a.client.PostEmpty(ctx, "/vnets/delete", MultipleVNets(ids))
}

// Fork creates a new VNet from an existing one. The source VNet is left
// untouched.
func (a *API) Fork(ctx context.Context, req *ForkVNetRequest) (*VNet, error) {
	var resp VNet
	if err := a.client.Post(ctx, "/testnet/clone", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Transactions lists transactions executed on a VNet
func (a *API) Transactions(ctx context.Context, id string, query *ListVNetTransactionsQuery) (*ListVNetTransactionsResponse, error) {
	values := url.Values{}
	if query != nil {
		if query.Address != "" {
			values.Set("address", query.Address)
		}
		if query.Status != nil {
			values.Set("status", strconv.FormatBool(*query.Status))
		}
		if query.Page > 0 {
			values.Set("page", strconv.FormatUint(uint64(query.Page), 10))
		}
		if query.PerPage > 0 {
			values.Set("per_page", strconv.FormatUint(uint64(query.PerPage), 10))
		}
	}

	var resp ListVNetTransactionsResponse
	path := "/vnets/" + client.EncodePathSegment(id) + "/transactions"
	if err := a.client.Get(ctx, path, values, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SendTransaction executes a transaction on a VNet
func (a *API) SendTransaction(ctx context.Context, id string, req *SendVNetTransactionRequest) (*VNetTransaction, error) {
	var resp VNetTransaction
	path := "/vnets/" + client.EncodePathSegment(id) + "/transactions"
	if err := a.client.Post(ctx, path, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Simulate runs a transaction against a VNet's current state without
// executing it. The result is passed through undecoded; its shape is the
// service's contract, not this client's.
func (a *API) Simulate(ctx context.Context, id string, req *VNetSimulationRequest) (json.RawMessage, error) {
	var resp json.RawMessage
	path := "/vnets/" + client.EncodePathSegment(id) + "/simulate"
	if err := a.client.Post(ctx, path, req, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}
