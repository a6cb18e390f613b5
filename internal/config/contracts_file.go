package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Ken19931113/debook/internal/contracts"
)

// ContractsFile is the YAML layout of --contracts-file.
//
//	stablecoin: "0x..."
//	contracts:
//	  - name: RentalNFT
//	    address: "0x..."
//	    abi: build/RentalNFT.json
type ContractsFile struct {
	Stablecoin string                 `yaml:"stablecoin"`
	Contracts  []contracts.Definition `yaml:"contracts"`
}

// ReadContractsFile parses a contracts YAML file.
func ReadContractsFile(path string) (*ContractsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read contracts file: %w", err)
	}

	var f ContractsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse contracts file %s: %w", path, err)
	}
	for i, def := range f.Contracts {
		if def.Name == "" {
			return nil, fmt.Errorf("contracts file %s: entry %d has no name", path, i)
		}
	}
	return &f, nil
}

// MergeContracts overlays file entries on base by name. Empty fields in an
// entry keep the base value; unknown names are appended.
func MergeContracts(base, overrides []contracts.Definition) []contracts.Definition {
	out := make([]contracts.Definition, len(base))
	copy(out, base)

	index := make(map[string]int, len(out))
	for i, def := range out {
		index[def.Name] = i
	}

	for _, o := range overrides {
		i, ok := index[o.Name]
		if !ok {
			index[o.Name] = len(out)
			out = append(out, o)
			continue
		}
		if o.Address != "" {
			out[i].Address = o.Address
		}
		if o.ABIPath != "" {
			out[i].ABIPath = o.ABIPath
		}
	}
	return out
}
