package contracts

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAddress = "0x5FbDB2315678afecb367f032d93F642f64180aa3"

func TestLoad_EmbeddedABIs(t *testing.T) {
	reg, err := Load([]Definition{
		{Name: RentalNFT, Address: testAddress},
		{Name: DeFiIntegration, Address: "0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512"},
		{Name: Escrow, Address: "0x9fE46736679d2D9a65F0992F2272dE9f3c7fa6e0"},
		{Name: Governance, Address: "0xCf7Ed3AccA5a467e9e704C703E8D87F634fB0Fc9"},
	})
	require.NoError(t, err)

	list := reg.List()
	require.Len(t, list, 4)
	for i, name := range Names {
		assert.Equal(t, name, list[i].Name)
	}

	nft, ok := reg.Get(RentalNFT)
	require.True(t, ok)
	assert.Contains(t, nft.ABI.Methods, MethodListProperty)
	assert.Contains(t, nft.ABI.Events, EventPropertyListed)

	// Governance ships as a bare ABI array
	gov, ok := reg.Get(Governance)
	require.True(t, ok)
	assert.Contains(t, gov.ABI.Methods, "proposalCount")
}

func TestLoad_SkipsEmptyAddress(t *testing.T) {
	reg, err := Load([]Definition{
		{Name: RentalNFT, Address: testAddress},
		{Name: Escrow},
	})
	require.NoError(t, err)

	_, ok := reg.Get(Escrow)
	assert.False(t, ok)
}

func TestLoad_RequiresRentalNFT(t *testing.T) {
	_, err := Load([]Definition{{Name: Escrow, Address: testAddress}})
	assert.Error(t, err)
}

func TestLoad_InvalidAddress(t *testing.T) {
	_, err := Load([]Definition{{Name: RentalNFT, Address: "0xabc"}})
	assert.Error(t, err)
}

func TestLoad_ABIFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"abi":[{"type":"function","name":"ping","inputs":[],"outputs":[]}]}`), 0o644))

	reg, err := Load([]Definition{
		{Name: RentalNFT, Address: testAddress},
		{Name: "Custom", Address: testAddress, ABIPath: path},
	})
	require.NoError(t, err)

	list := reg.List()
	require.Len(t, list, 2)
	assert.Equal(t, "Custom", list[1].Name)
	assert.Contains(t, list[1].ABI.Methods, "ping")
}

func TestParseABI_Errors(t *testing.T) {
	_, err := ParseABI([]byte("  "))
	assert.Error(t, err)

	_, err = ParseABI([]byte(`{"contractName":"X"}`))
	assert.Error(t, err)

	_, err = ParseABI([]byte(`[{"type":"function","name":`))
	assert.Error(t, err)
}

func TestNewRentalRegistry_MissingMethod(t *testing.T) {
	parsed, err := ParseABI([]byte(`[{"type":"function","name":"getPropertyCount","inputs":[],"outputs":[{"name":"","type":"uint256"}]}]`))
	require.NoError(t, err)

	_, err = NewRentalRegistry(&Contract{Name: RentalNFT, ABI: parsed}, nil)
	assert.Error(t, err)
}

// rentalABIWith returns the embedded RentalNFT ABI after edit has changed
// the entry with the given name.
func rentalABIWith(t *testing.T, name string, edit func(entry map[string]interface{})) []byte {
	t.Helper()
	data, err := EmbeddedABI(RentalNFT)
	require.NoError(t, err)

	var artifact struct {
		ABI []map[string]interface{} `json:"abi"`
	}
	require.NoError(t, json.Unmarshal(data, &artifact))
	for _, e := range artifact.ABI {
		if e["name"] == name {
			edit(e)
		}
	}
	out, err := json.Marshal(artifact.ABI)
	require.NoError(t, err)
	return out
}

func TestNewRentalRegistry_EmbeddedShape(t *testing.T) {
	data, err := EmbeddedABI(RentalNFT)
	require.NoError(t, err)
	parsed, err := ParseABI(data)
	require.NoError(t, err)

	_, err = NewRentalRegistry(&Contract{Name: RentalNFT, ABI: parsed}, nil)
	assert.NoError(t, err)
}

func TestNewRentalRegistry_ShapeMismatch(t *testing.T) {
	tests := []struct {
		name  string
		entry string
		edit  func(entry map[string]interface{})
	}{
		{
			name:  "properties with fewer outputs",
			entry: MethodProperties,
			edit: func(e map[string]interface{}) {
				outs := e["outputs"].([]interface{})
				e["outputs"] = outs[:3]
			},
		},
		{
			name:  "rentalRecords output type changed",
			entry: MethodRentalRecords,
			edit: func(e map[string]interface{}) {
				outs := e["outputs"].([]interface{})
				outs[3].(map[string]interface{})["type"] = "string"
			},
		},
		{
			name:  "listProperty missing an input",
			entry: MethodListProperty,
			edit: func(e map[string]interface{}) {
				ins := e["inputs"].([]interface{})
				e["inputs"] = ins[:5]
			},
		},
		{
			name:  "PropertyListed without location",
			entry: EventPropertyListed,
			edit: func(e map[string]interface{}) {
				var kept []interface{}
				for _, in := range e["inputs"].([]interface{}) {
					if in.(map[string]interface{})["name"] != "location" {
						kept = append(kept, in)
					}
				}
				e["inputs"] = kept
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := ParseABI(rentalABIWith(t, tt.entry, tt.edit))
			require.NoError(t, err)

			_, err = NewRentalRegistry(&Contract{Name: RentalNFT, ABI: parsed}, nil)
			assert.Error(t, err)
		})
	}
}
