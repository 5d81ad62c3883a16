package simulate

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulationRequestBuilder(t *testing.T) {
	req := NewSimulationRequest("0x1234", "0x5678", "0xabcd").
		WithNetworkID("137").
		ValueWei(big.NewInt(1_000_000_000_000_000_000)).
		WithGas(100_000).
		AtBlock(12_345_678).
		WithSave(true)

	assert.Equal(t, "137", req.NetworkID)
	assert.Equal(t, "0x1234", req.From)
	assert.Equal(t, "0x5678", req.To)
	assert.Equal(t, "0xabcd", req.Input)
	assert.Equal(t, "0xde0b6b3a7640000", req.Value)
	assert.Equal(t, uint64(100_000), req.Gas)
	require.NotNil(t, req.BlockNumber)
	assert.Equal(t, uint64(12_345_678), *req.BlockNumber)
	assert.True(t, req.Save)
}

func TestValueWeiCanonicalHex(t *testing.T) {
	tests := []struct {
		name string
		wei  *big.Int
		want string
	}{
		{"zero", big.NewInt(0), "0x0"},
		{"one", big.NewInt(1), "0x1"},
		{"sixteen", big.NewInt(16), "0x10"},
		{"one ether", big.NewInt(1_000_000_000_000_000_000), "0xde0b6b3a7640000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := NewSimulationRequest("0x1", "0x2", "0x").ValueWei(tt.wei)
			assert.Equal(t, tt.want, req.Value)
		})
	}
}

func TestValueWeiRoundTrips(t *testing.T) {
	for _, wei := range []uint64{0, 1, 7, 255, 256, 1 << 40, 18_446_744_073_709_551_615} {
		req := NewSimulationRequest("0x1", "0x2", "0x").ValueWei(new(big.Int).SetUint64(wei))
		decoded, err := hexutil.DecodeBig(req.Value)
		require.NoError(t, err, "value %d produced unparsable hex %q", wei, req.Value)
		assert.Equal(t, wei, decoded.Uint64())
	}
}

func TestValueWeiNilClearsValue(t *testing.T) {
	req := NewSimulationRequest("0x1", "0x2", "0x").
		ValueWei(big.NewInt(1)).
		ValueWei(nil)
	assert.Empty(t, req.Value)

	data, err := json.Marshal(req)
	require.NoError(t, err)

	var wire map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &wire))
	assert.NotContains(t, wire, "value")
}

func TestAtBlockZeroIsOnWire(t *testing.T) {
	data, err := json.Marshal(NewSimulationRequest("0x1", "0x2", "0x3").AtBlock(0))
	require.NoError(t, err)

	var wire map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &wire))
	assert.Equal(t, float64(0), wire["block_number"])
}

func TestBundleAtBlockZeroIsOnWire(t *testing.T) {
	data, err := json.Marshal(NewBundleSimulationRequest("1").AtBlock(0))
	require.NoError(t, err)

	var wire map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &wire))
	assert.Equal(t, float64(0), wire["block_number"])
}

func TestStateOverridesAccumulate(t *testing.T) {
	req := NewSimulationRequest("0x1234", "0x5678", "0xabcd").
		OverrideBalance("0xaaaa", "1000000000000000000").
		OverrideStorage("0xbbbb", "0x0", "0x1").
		OverrideCode("0xcccc", "0x6080")

	require.Contains(t, req.StateObjects, "0xaaaa")
	require.Contains(t, req.StateObjects, "0xbbbb")
	require.Contains(t, req.StateObjects, "0xcccc")
	assert.Equal(t, "1000000000000000000", req.StateObjects["0xaaaa"].Balance)
	assert.Equal(t, "0x6080", req.StateObjects["0xcccc"].Code)
}

func TestStateOverridesMergePerAddress(t *testing.T) {
	req := NewSimulationRequest("0x1234", "0x5678", "0xabcd").
		OverrideStorage("0xaaaa", "0x0", "0x1").
		OverrideStorage("0xaaaa", "0x1", "0x2").
		OverrideBalance("0xaaaa", "500")

	require.Len(t, req.StateObjects, 1)
	obj := req.StateObjects["0xaaaa"]
	assert.Equal(t, "0x1", obj.Storage["0x0"])
	assert.Equal(t, "0x2", obj.Storage["0x1"])
	assert.Equal(t, "500", obj.Balance)
}

func TestStateOverrideKeysAreCaseSensitive(t *testing.T) {
	// Address keys are used verbatim; differently-cased spellings of the
	// same address stay distinct entries.
	req := NewSimulationRequest("0x1234", "0x5678", "0xabcd").
		OverrideBalance("0xAAAA", "1").
		OverrideBalance("0xaaaa", "2")

	require.Len(t, req.StateObjects, 2)
	assert.Equal(t, "1", req.StateObjects["0xAAAA"].Balance)
	assert.Equal(t, "2", req.StateObjects["0xaaaa"].Balance)
}

func TestOptionalFieldsOmittedFromWire(t *testing.T) {
	data, err := json.Marshal(NewSimulationRequest("0x1", "0x2", "0x3"))
	require.NoError(t, err)

	var wire map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &wire))

	assert.NotContains(t, wire, "value")
	assert.NotContains(t, wire, "gas")
	assert.NotContains(t, wire, "gas_price")
	assert.NotContains(t, wire, "block_number")
	assert.NotContains(t, wire, "state_objects")
	assert.NotContains(t, wire, "network_id")
	assert.Equal(t, false, wire["save"])
}

func TestBundlePreservesOrder(t *testing.T) {
	first := *NewSimulationRequest("0x1", "0x2", "0xaa")
	second := *NewSimulationRequest("0x3", "0x4", "0xbb")
	third := *NewSimulationRequest("0x5", "0x6", "0xcc")

	bundle := NewBundleSimulationRequest("1", first, second).Add(third).AtBlock(100)

	data, err := json.Marshal(bundle)
	require.NoError(t, err)

	var wire struct {
		Simulations []struct {
			Input string `json:"input"`
		} `json:"simulations"`
	}
	require.NoError(t, json.Unmarshal(data, &wire))
	require.Len(t, wire.Simulations, 3)
	assert.Equal(t, "0xaa", wire.Simulations[0].Input)
	assert.Equal(t, "0xbb", wire.Simulations[1].Input)
	assert.Equal(t, "0xcc", wire.Simulations[2].Input)
}

func TestBundleResponseOneEntryPerTransaction(t *testing.T) {
	// A revert in the middle still leaves entries for the other positions;
	// the client decodes whatever the service returns, in order.
	body := `{"simulation_results": [
		{"simulation": {"status": true}},
		{"simulation": {"status": false}},
		{"simulation": {"status": true}}
	]}`

	var resp BundleSimulationResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	assert.Len(t, resp.SimulationResults, 3)
}
