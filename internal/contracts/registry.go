// Package contracts loads the ABI definitions of the on-chain contracts and
// exposes typed bindings over them.
package contracts

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Contract names.
const (
	RentalNFT       = "RentalNFT"
	DeFiIntegration = "DeFiIntegration"
	Escrow          = "Escrow"
	Governance      = "Governance"
)

// Names lists the known contracts in display order.
var Names = []string{RentalNFT, DeFiIntegration, Escrow, Governance}

//go:embed abi/*.json
var abiFS embed.FS

// Definition describes one contract deployment.
type Definition struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
	// ABIPath points at an ABI file; the embedded ABI is used when empty.
	ABIPath string `yaml:"abi"`
}

// Contract is a deployed contract with its parsed ABI.
type Contract struct {
	Name    string
	Address common.Address
	ABI     abi.ABI
}

// Registry is an immutable set of contracts keyed by name.
type Registry struct {
	contracts map[string]*Contract
}

// Load parses every definition. Definitions with an empty address are
// skipped, except RentalNFT which is required.
func Load(defs []Definition) (*Registry, error) {
	r := &Registry{contracts: make(map[string]*Contract)}

	for _, def := range defs {
		if def.Name == "" {
			return nil, fmt.Errorf("contract definition without name")
		}
		if def.Address == "" {
			continue
		}
		if !common.IsHexAddress(def.Address) {
			return nil, fmt.Errorf("contract %s: invalid address %q", def.Name, def.Address)
		}
		if _, dup := r.contracts[def.Name]; dup {
			return nil, fmt.Errorf("contract %s defined twice", def.Name)
		}

		data, err := readABI(def)
		if err != nil {
			return nil, fmt.Errorf("contract %s: %w", def.Name, err)
		}

		parsed, err := ParseABI(data)
		if err != nil {
			return nil, fmt.Errorf("contract %s: %w", def.Name, err)
		}

		r.contracts[def.Name] = &Contract{
			Name:    def.Name,
			Address: common.HexToAddress(def.Address),
			ABI:     parsed,
		}
	}

	if _, ok := r.contracts[RentalNFT]; !ok {
		return nil, fmt.Errorf("contract %s is required", RentalNFT)
	}

	return r, nil
}

func readABI(def Definition) ([]byte, error) {
	if def.ABIPath != "" {
		data, err := os.ReadFile(def.ABIPath)
		if err != nil {
			return nil, fmt.Errorf("read abi: %w", err)
		}
		return data, nil
	}
	return EmbeddedABI(def.Name)
}

// EmbeddedABI returns the ABI shipped with the binary for name.
func EmbeddedABI(name string) ([]byte, error) {
	data, err := abiFS.ReadFile("abi/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("no embedded abi for %s", name)
	}
	return data, nil
}

// ParseABI accepts either a bare ABI array or a build artifact with an "abi" key.
func ParseABI(data []byte) (abi.ABI, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return abi.ABI{}, fmt.Errorf("empty abi")
	}

	if trimmed[0] == '{' {
		var artifact struct {
			ABI json.RawMessage `json:"abi"`
		}
		if err := json.Unmarshal(trimmed, &artifact); err != nil {
			return abi.ABI{}, fmt.Errorf("decode artifact: %w", err)
		}
		if len(artifact.ABI) == 0 {
			return abi.ABI{}, fmt.Errorf("artifact has no abi field")
		}
		trimmed = artifact.ABI
	}

	parsed, err := abi.JSON(bytes.NewReader(trimmed))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("parse abi: %w", err)
	}
	return parsed, nil
}

// Get returns the contract registered under name.
func (r *Registry) Get(name string) (*Contract, bool) {
	c, ok := r.contracts[name]
	return c, ok
}

// List returns all contracts, known names first, then the rest by name.
func (r *Registry) List() []*Contract {
	out := make([]*Contract, 0, len(r.contracts))
	seen := make(map[string]bool, len(Names))
	for _, name := range Names {
		if c, ok := r.contracts[name]; ok {
			out = append(out, c)
			seen[name] = true
		}
	}

	var rest []string
	for name := range r.contracts {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		out = append(out, r.contracts[name])
	}
	return out
}
