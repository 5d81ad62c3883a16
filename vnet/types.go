package vnet

import (
	"encoding/json"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// CreateVNetRequest creates a new Virtual TestNet forked from a real
// network. By default the VNet presents the same chain id as the network it
// forks; ChainID overrides only the virtual network side, BlockNumber only
// the fork side.
type CreateVNetRequest struct {
	Slug                 string               `json:"slug"`
	DisplayName          string               `json:"display_name"`
	ForkConfig           ForkConfig           `json:"fork_config"`
	VirtualNetworkConfig VirtualNetworkConfig `json:"virtual_network_config"`
	SyncStateConfig      *SyncStateConfig     `json:"sync_state_config,omitempty"`
	ExplorerPageConfig   *ExplorerPageConfig  `json:"explorer_page_config,omitempty"`
}

// NewCreateVNetRequest creates a VNet request with minimal configuration.
// Both fork_config.network_id and virtual_network_config.chain_id start as
// networkID.
func NewCreateVNetRequest(slug, displayName string, networkID uint64) *CreateVNetRequest {
	return &CreateVNetRequest{
		Slug:        slug,
		DisplayName: displayName,
		ForkConfig: ForkConfig{
			NetworkID: networkID,
		},
		VirtualNetworkConfig: VirtualNetworkConfig{
			ChainID: networkID,
		},
	}
}

// AtBlock forks from a specific block instead of the latest
func (r *CreateVNetRequest) AtBlock(blockNumber uint64) *CreateVNetRequest {
	r.ForkConfig.BlockNumber = &blockNumber
	return r
}

// WithChainID sets a custom chain id for the virtual network
func (r *CreateVNetRequest) WithChainID(chainID uint64) *CreateVNetRequest {
	r.VirtualNetworkConfig.ChainID = chainID
	return r
}

// WithBaseFeePerGas sets the EIP-1559 base fee of the virtual network
func (r *CreateVNetRequest) WithBaseFeePerGas(fee uint64) *CreateVNetRequest {
	r.VirtualNetworkConfig.BaseFeePerGas = &fee
	return r
}

// WithSyncState enables or disables state sync from the parent network
func (r *CreateVNetRequest) WithSyncState(enabled bool) *CreateVNetRequest {
	r.SyncStateConfig = &SyncStateConfig{Enabled: enabled}
	return r
}

// WithExplorerPage configures the public explorer page
func (r *CreateVNetRequest) WithExplorerPage(enabled bool, verificationVisibility string) *CreateVNetRequest {
	r.ExplorerPageConfig = &ExplorerPageConfig{
		Enabled:                enabled,
		VerificationVisibility: verificationVisibility,
	}
	return r
}

// ForkConfig selects the network and block a VNet forks from
type ForkConfig struct {
	NetworkID   uint64  `json:"network_id"`
	BlockNumber *uint64 `json:"block_number,omitempty"`
}

// ForkConfigResponse is the fork configuration as returned by the service.
// The block number comes back as a hex string; absence means the VNet was
// created at the chain's latest block.
type ForkConfigResponse struct {
	NetworkID   uint64  `json:"network_id"`
	BlockNumber *string `json:"block_number,omitempty"`
}

// BlockNumberUint64 decodes the hex block number. The second return is
// false when the block number is absent or not valid hex.
func (f *ForkConfigResponse) BlockNumberUint64() (uint64, bool) {
	if f.BlockNumber == nil {
		return 0, false
	}
	n, err := hexutil.DecodeUint64(*f.BlockNumber)
	if err != nil {
		return 0, false
	}
	return n, true
}

// VirtualNetworkConfig is the chain-side configuration of a VNet request
type VirtualNetworkConfig struct {
	ChainID       uint64  `json:"chain_id"`
	BaseFeePerGas *uint64 `json:"base_fee_per_gas,omitempty"`
}

// VirtualNetworkConfigResponse is the chain-side configuration as returned
// by the service. Unlike the request, the chain id is nested one level
// deeper under chain_config.
type VirtualNetworkConfigResponse struct {
	ChainConfig   *ChainConfig      `json:"chain_config,omitempty"`
	BaseFeePerGas *uint64           `json:"base_fee_per_gas,omitempty"`
	Accounts      []json.RawMessage `json:"accounts,omitempty"`
}

// ChainID returns the effective chain id from the nested chain config.
// The second return is false when the sub-object is absent; callers must
// not assume the request-level flat field reappears.
func (v *VirtualNetworkConfigResponse) ChainID() (uint64, bool) {
	if v.ChainConfig == nil {
		return 0, false
	}
	return v.ChainConfig.ChainID, true
}

// ChainConfig is the nested chain configuration in responses
type ChainConfig struct {
	ChainID uint64 `json:"chain_id"`
}

// SyncStateConfig controls state sync with the parent network
type SyncStateConfig struct {
	Enabled bool `json:"enabled"`
}

// ExplorerPageConfig controls the public explorer page of a VNet
type ExplorerPageConfig struct {
	Enabled                bool   `json:"enabled"`
	VerificationVisibility string `json:"verification_visibility"`
}

// VNet is a Virtual TestNet as returned by the service
type VNet struct {
	ID                   string                       `json:"id"`
	Slug                 string                       `json:"slug"`
	DisplayName          string                       `json:"display_name"`
	ForkConfig           ForkConfigResponse           `json:"fork_config"`
	VirtualNetworkConfig VirtualNetworkConfigResponse `json:"virtual_network_config"`
	RPCs                 VNetRpcs                     `json:"rpcs"`
	CreatedAt            string                       `json:"created_at,omitempty"`
	Status               string                       `json:"status,omitempty"`
}

// RpcEndpoint is a single RPC endpoint of a VNet
type RpcEndpoint struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// VNetRpcs is the endpoint list of a VNet with role-based lookup. The
// service returns the list unordered and without role markers beyond the
// endpoint names.
type VNetRpcs struct {
	Endpoints []RpcEndpoint
}

// UnmarshalJSON decodes the wire shape, a bare array of endpoints
func (r *VNetRpcs) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &r.Endpoints)
}

// MarshalJSON encodes back to the bare array shape
func (r VNetRpcs) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Endpoints)
}

// Public returns the URL of the first endpoint whose name contains
// "public", case-insensitively. The second return is false when no
// endpoint matches.
func (r *VNetRpcs) Public() (string, bool) {
	return r.find("public")
}

// Admin returns the URL of the first endpoint whose name contains
// "admin", case-insensitively.
func (r *VNetRpcs) Admin() (string, bool) {
	return r.find("admin")
}

func (r *VNetRpcs) find(role string) (string, bool) {
	for _, e := range r.Endpoints {
		if strings.Contains(strings.ToLower(e.Name), role) {
			return e.URL, true
		}
	}
	return "", false
}

// ListVNetsQuery filters and paginates VNet listings
type ListVNetsQuery struct {
	Slug    string
	Page    uint32
	PerPage uint32
}

// NewListVNetsQuery creates an empty query
func NewListVNetsQuery() *ListVNetsQuery {
	return &ListVNetsQuery{}
}

// WithSlug filters by slug (partial match)
func (q *ListVNetsQuery) WithSlug(slug string) *ListVNetsQuery {
	q.Slug = slug
	return q
}

// WithPage sets the page number
func (q *ListVNetsQuery) WithPage(page uint32) *ListVNetsQuery {
	q.Page = page
	return q
}

// WithPerPage sets the page size
func (q *ListVNetsQuery) WithPerPage(perPage uint32) *ListVNetsQuery {
	q.PerPage = perPage
	return q
}

// DeleteVNetsRequest deletes one or more VNets. A single id serializes to
// the same list shape as many.
type DeleteVNetsRequest struct {
	IDs []string `json:"ids"`
}

// SingleVNet creates a delete request for one VNet
func SingleVNet(id string) *DeleteVNetsRequest {
	return &DeleteVNetsRequest{IDs: []string{id}}
}

// MultipleVNets creates a delete request for several VNets
func MultipleVNets(ids []string) *DeleteVNetsRequest {
	return &DeleteVNetsRequest{IDs: ids}
}

// ForkVNetRequest creates a new VNet from an existing one at an optional
// block on the source VNet's timeline. The source is not mutated.
type ForkVNetRequest struct {
	SourceVNetID string  `json:"srcTestnetId"`
	Slug         string  `json:"slug"`
	DisplayName  string  `json:"display_name"`
	BlockNumber  *uint64 `json:"block_number,omitempty"`
}

// NewForkVNetRequest creates a fork request
func NewForkVNetRequest(sourceVNetID, slug, displayName string) *ForkVNetRequest {
	return &ForkVNetRequest{
		SourceVNetID: sourceVNetID,
		Slug:         slug,
		DisplayName:  displayName,
	}
}

// AtBlock forks from a specific block on the source VNet
func (r *ForkVNetRequest) AtBlock(blockNumber uint64) *ForkVNetRequest {
	r.BlockNumber = &blockNumber
	return r
}

// UpdateVNetRequest mutates a VNet's settings; unset fields are left alone
type UpdateVNetRequest struct {
	DisplayName        string              `json:"display_name,omitempty"`
	Slug               string              `json:"slug,omitempty"`
	SyncStateConfig    *SyncStateConfig    `json:"sync_state_config,omitempty"`
	ExplorerPageConfig *ExplorerPageConfig `json:"explorer_page_config,omitempty"`
}

// NewUpdateVNetRequest creates an empty update; only the fields set through
// the setters are sent.
func NewUpdateVNetRequest() *UpdateVNetRequest {
	return &UpdateVNetRequest{}
}

// WithDisplayName renames the VNet
func (r *UpdateVNetRequest) WithDisplayName(displayName string) *UpdateVNetRequest {
	r.DisplayName = displayName
	return r
}

// WithSlug changes the VNet's slug
func (r *UpdateVNetRequest) WithSlug(slug string) *UpdateVNetRequest {
	r.Slug = slug
	return r
}

// WithSyncState enables or disables state sync from the parent network
func (r *UpdateVNetRequest) WithSyncState(enabled bool) *UpdateVNetRequest {
	r.SyncStateConfig = &SyncStateConfig{Enabled: enabled}
	return r
}

// WithExplorerPage configures the public explorer page
func (r *UpdateVNetRequest) WithExplorerPage(enabled bool, verificationVisibility string) *UpdateVNetRequest {
	r.ExplorerPageConfig = &ExplorerPageConfig{
		Enabled:                enabled,
		VerificationVisibility: verificationVisibility,
	}
	return r
}

// VNetTransaction is a transaction executed on a VNet. Only the hash is
// guaranteed; the service may return partial data depending on
// confirmation state.
type VNetTransaction struct {
	Hash        string  `json:"hash"`
	BlockNumber *uint64 `json:"block_number,omitempty"`
	From        string  `json:"from,omitempty"`
	To          string  `json:"to,omitempty"`
	Value       string  `json:"value,omitempty"`
	GasUsed     *uint64 `json:"gas_used,omitempty"`
	Status      *bool   `json:"status,omitempty"`
	Timestamp   string  `json:"timestamp,omitempty"`
}

// ListVNetTransactionsResponse is a page of VNet transactions
type ListVNetTransactionsResponse struct {
	Transactions []VNetTransaction `json:"transactions"`
}

// ListVNetTransactionsQuery filters and paginates VNet transaction listings
type ListVNetTransactionsQuery struct {
	Address string
	Status  *bool
	Page    uint32
	PerPage uint32
}

// NewListVNetTransactionsQuery creates an empty query
func NewListVNetTransactionsQuery() *ListVNetTransactionsQuery {
	return &ListVNetTransactionsQuery{}
}

// WithAddress filters by sender or recipient address
func (q *ListVNetTransactionsQuery) WithAddress(address string) *ListVNetTransactionsQuery {
	q.Address = address
	return q
}

// WithStatus filters by execution status
func (q *ListVNetTransactionsQuery) WithStatus(status bool) *ListVNetTransactionsQuery {
	q.Status = &status
	return q
}

// WithPage sets the page number
func (q *ListVNetTransactionsQuery) WithPage(page uint32) *ListVNetTransactionsQuery {
	q.Page = page
	return q
}

// WithPerPage sets the page size
func (q *ListVNetTransactionsQuery) WithPerPage(perPage uint32) *ListVNetTransactionsQuery {
	q.PerPage = perPage
	return q
}

// AccessListItem pre-declares storage the transaction will touch (EIP-2930)
type AccessListItem struct {
	Address     string   `json:"address"`
	StorageKeys []string `json:"storage_keys"`
}

// SendVNetTransactionRequest executes a transaction on a VNet. To may be
// empty for contract creation; both legacy and EIP-1559 fee fields are
// supported.
type SendVNetTransactionRequest struct {
	From                 string           `json:"from"`
	To                   string           `json:"to,omitempty"`
	Input                string           `json:"input,omitempty"`
	Value                string           `json:"value,omitempty"`
	Gas                  *uint64          `json:"gas,omitempty"`
	GasPrice             string           `json:"gas_price,omitempty"`
	MaxFeePerGas         string           `json:"max_fee_per_gas,omitempty"`
	MaxPriorityFeePerGas string           `json:"max_priority_fee_per_gas,omitempty"`
	Type                 *uint8           `json:"type,omitempty"`
	Nonce                *uint64          `json:"nonce,omitempty"`
	AccessList           []AccessListItem `json:"access_list,omitempty"`
}

// NewSendVNetTransactionRequest creates a transaction request from the
// sender address. Use the setters for the call target, calldata and fees;
// leaving To unset sends a contract creation.
func NewSendVNetTransactionRequest(from string) *SendVNetTransactionRequest {
	return &SendVNetTransactionRequest{From: from}
}

// WithTo sets the recipient
func (r *SendVNetTransactionRequest) WithTo(to string) *SendVNetTransactionRequest {
	r.To = to
	return r
}

// WithInput sets the calldata
func (r *SendVNetTransactionRequest) WithInput(input string) *SendVNetTransactionRequest {
	r.Input = input
	return r
}

// ValueWei sets the value from an integral wei amount, stored as canonical
// hex ("0x0" for zero, lowercase, no leading zeros). A nil amount clears
// the value.
func (r *SendVNetTransactionRequest) ValueWei(amount *big.Int) *SendVNetTransactionRequest {
	if amount == nil {
		r.Value = ""
		return r
	}
	r.Value = hexutil.EncodeBig(amount)
	return r
}

// WithGas sets the gas limit
func (r *SendVNetTransactionRequest) WithGas(gas uint64) *SendVNetTransactionRequest {
	r.Gas = &gas
	return r
}

// WithGasPrice sets the legacy gas price
func (r *SendVNetTransactionRequest) WithGasPrice(gasPrice string) *SendVNetTransactionRequest {
	r.GasPrice = gasPrice
	return r
}

// WithFeeCap sets the EIP-1559 fee fields and switches the transaction
// type to 2. Call WithType afterwards to override.
func (r *SendVNetTransactionRequest) WithFeeCap(maxFee, maxPriorityFee string) *SendVNetTransactionRequest {
	r.MaxFeePerGas = maxFee
	r.MaxPriorityFeePerGas = maxPriorityFee
	eip1559 := uint8(2)
	r.Type = &eip1559
	return r
}

// WithType sets the transaction type (0 legacy, 1 access list, 2 EIP-1559)
func (r *SendVNetTransactionRequest) WithType(txType uint8) *SendVNetTransactionRequest {
	r.Type = &txType
	return r
}

// WithNonce sets an explicit nonce
func (r *SendVNetTransactionRequest) WithNonce(nonce uint64) *SendVNetTransactionRequest {
	r.Nonce = &nonce
	return r
}

// WithAccessList sets the EIP-2930 access list
func (r *SendVNetTransactionRequest) WithAccessList(items []AccessListItem) *SendVNetTransactionRequest {
	r.AccessList = items
	return r
}

// VNetSimulationRequest simulates a transaction against a VNet's current
// state without executing it. Unlike SendVNetTransactionRequest the
// recipient and calldata are required.
type VNetSimulationRequest struct {
	From                 string  `json:"from"`
	To                   string  `json:"to"`
	Input                string  `json:"input"`
	Value                string  `json:"value,omitempty"`
	Gas                  *uint64 `json:"gas,omitempty"`
	GasPrice             string  `json:"gas_price,omitempty"`
	MaxFeePerGas         string  `json:"max_fee_per_gas,omitempty"`
	MaxPriorityFeePerGas string  `json:"max_priority_fee_per_gas,omitempty"`
	Type                 *uint8  `json:"type,omitempty"`
	Nonce                *uint64 `json:"nonce,omitempty"`
}

// NewVNetSimulationRequest creates a simulation request with the required
// fields
func NewVNetSimulationRequest(from, to, input string) *VNetSimulationRequest {
	return &VNetSimulationRequest{
		From:  from,
		To:    to,
		Input: input,
	}
}

// ValueWei sets the value from an integral wei amount, stored as canonical
// hex ("0x0" for zero, lowercase, no leading zeros). A nil amount clears
// the value.
func (r *VNetSimulationRequest) ValueWei(amount *big.Int) *VNetSimulationRequest {
	if amount == nil {
		r.Value = ""
		return r
	}
	r.Value = hexutil.EncodeBig(amount)
	return r
}

// WithGas sets the gas limit
func (r *VNetSimulationRequest) WithGas(gas uint64) *VNetSimulationRequest {
	r.Gas = &gas
	return r
}

// WithGasPrice sets the legacy gas price
func (r *VNetSimulationRequest) WithGasPrice(gasPrice string) *VNetSimulationRequest {
	r.GasPrice = gasPrice
	return r
}

// WithMaxFeePerGas sets the EIP-1559 max fee per gas and switches the
// transaction type to 2
func (r *VNetSimulationRequest) WithMaxFeePerGas(fee string) *VNetSimulationRequest {
	r.MaxFeePerGas = fee
	eip1559 := uint8(2)
	r.Type = &eip1559
	return r
}

// WithMaxPriorityFeePerGas sets the EIP-1559 max priority fee per gas and
// switches the transaction type to 2
func (r *VNetSimulationRequest) WithMaxPriorityFeePerGas(fee string) *VNetSimulationRequest {
	r.MaxPriorityFeePerGas = fee
	eip1559 := uint8(2)
	r.Type = &eip1559
	return r
}

// WithType sets the transaction type explicitly (0 legacy, 1 access list,
// 2 EIP-1559)
func (r *VNetSimulationRequest) WithType(txType uint8) *VNetSimulationRequest {
	r.Type = &txType
	return r
}

// WithNonce sets an explicit nonce
func (r *VNetSimulationRequest) WithNonce(nonce uint64) *VNetSimulationRequest {
	r.Nonce = &nonce
	return r
}
