package simulate

import (
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// SimulationRequest describes a single transaction simulation.
// Build one with NewSimulationRequest and the chained setters; no local
// validation happens here — malformed addresses or hex are rejected by the
// service at call time.
type SimulationRequest struct {
	NetworkID    string                  `json:"network_id,omitempty"`
	From         string                  `json:"from"`
	To           string                  `json:"to"`
	Input        string                  `json:"input"`
	Value        string                  `json:"value,omitempty"`
	Gas          uint64                  `json:"gas,omitempty"`
	GasPrice     string                  `json:"gas_price,omitempty"`
	BlockNumber  *uint64                 `json:"block_number,omitempty"`
	Save         bool                    `json:"save"`
	StateObjects map[string]*StateObject `json:"state_objects,omitempty"`
}

// StateObject is a per-account state override applied for the duration of
// one simulation only.
type StateObject struct {
	Balance string            `json:"balance,omitempty"`
	Nonce   uint64            `json:"nonce,omitempty"`
	Code    string            `json:"code,omitempty"`
	Storage map[string]string `json:"storage,omitempty"`
}

// NewSimulationRequest creates a simulation request with the required fields.
// Value, gas, block number and overrides are unset; save defaults to false.
func NewSimulationRequest(from, to, input string) *SimulationRequest {
	return &SimulationRequest{
		From:  from,
		To:    to,
		Input: input,
	}
}

// NetworkID sets the network to simulate against
func (r *SimulationRequest) WithNetworkID(networkID string) *SimulationRequest {
	r.NetworkID = networkID
	return r
}

// ValueWei sets the transaction value from an integral wei amount. The
// amount is stored as canonical hex: lowercase, no leading zeros, "0x0"
// for zero. A nil amount clears the value.
func (r *SimulationRequest) ValueWei(amount *big.Int) *SimulationRequest {
	if amount == nil {
		r.Value = ""
		return r
	}
	r.Value = hexutil.EncodeBig(amount)
	return r
}

// WithGas sets the gas limit
func (r *SimulationRequest) WithGas(gas uint64) *SimulationRequest {
	r.Gas = gas
	return r
}

// WithGasPrice sets the gas price for legacy transactions
func (r *SimulationRequest) WithGasPrice(gasPrice string) *SimulationRequest {
	r.GasPrice = gasPrice
	return r
}

// AtBlock simulates against state at the given block number. Block zero is
// a valid target; an unset block number means latest.
func (r *SimulationRequest) AtBlock(blockNumber uint64) *SimulationRequest {
	r.BlockNumber = &blockNumber
	return r
}

// WithSave persists the simulation so it can be fetched and shared later
func (r *SimulationRequest) WithSave(save bool) *SimulationRequest {
	r.Save = save
	return r
}

// OverrideBalance overrides an account's balance (decimal wei string).
// Address keys are used verbatim: two differently-cased spellings of the
// same address stay distinct entries.
func (r *SimulationRequest) OverrideBalance(address, balance string) *SimulationRequest {
	r.stateObject(address).Balance = balance
	return r
}

// OverrideStorage overrides one storage slot of an account. Repeated calls
// for the same address accumulate slots in the same entry.
func (r *SimulationRequest) OverrideStorage(address, slot, value string) *SimulationRequest {
	obj := r.stateObject(address)
	if obj.Storage == nil {
		obj.Storage = make(map[string]string)
	}
	obj.Storage[slot] = value
	return r
}

// OverrideCode overrides an account's bytecode
func (r *SimulationRequest) OverrideCode(address, code string) *SimulationRequest {
	r.stateObject(address).Code = code
	return r
}

func (r *SimulationRequest) stateObject(address string) *StateObject {
	if r.StateObjects == nil {
		r.StateObjects = make(map[string]*StateObject)
	}
	obj, ok := r.StateObjects[address]
	if !ok {
		obj = &StateObject{}
		r.StateObjects[address] = obj
	}
	return obj
}

// BundleSimulationRequest simulates an ordered list of transactions as one
// atomic sequence: transaction n sees the post-state of transactions 1..n-1,
// so reordering the list changes the result. The whole sequence is submitted
// in a single request.
type BundleSimulationRequest struct {
	NetworkID   string              `json:"network_id,omitempty"`
	BlockNumber *uint64             `json:"block_number,omitempty"`
	Simulations []SimulationRequest `json:"simulations"`
}

// NewBundleSimulationRequest creates a bundle over the given transactions,
// preserving their order.
func NewBundleSimulationRequest(networkID string, simulations ...SimulationRequest) *BundleSimulationRequest {
	return &BundleSimulationRequest{
		NetworkID:   networkID,
		Simulations: simulations,
	}
}

// AtBlock simulates the whole bundle against state at the given block
func (r *BundleSimulationRequest) AtBlock(blockNumber uint64) *BundleSimulationRequest {
	r.BlockNumber = &blockNumber
	return r
}

// Add appends a transaction to the end of the bundle
func (r *BundleSimulationRequest) Add(simulation SimulationRequest) *BundleSimulationRequest {
	r.Simulations = append(r.Simulations, simulation)
	return r
}

// SimulationResponse is the service's result for one simulation. Execution
// traces are passed through undecoded; their shape is the service's contract,
// not this client's.
type SimulationResponse struct {
	Transaction         json.RawMessage `json:"transaction,omitempty"`
	Simulation          json.RawMessage `json:"simulation,omitempty"`
	Contracts           json.RawMessage `json:"contracts,omitempty"`
	GeneratedAccessList json.RawMessage `json:"generated_access_list,omitempty"`
}

// BundleSimulationResponse carries one result entry per input transaction,
// in input order. A revert in the middle does not imply missing entries for
// the rest — that policy belongs to the service.
type BundleSimulationResponse struct {
	SimulationResults []SimulationResponse `json:"simulation_results"`
}

// SimulationListResponse is a page of saved simulations
type SimulationListResponse struct {
	Simulations []json.RawMessage `json:"simulations"`
}
