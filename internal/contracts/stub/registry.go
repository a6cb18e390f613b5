// Package stub simulates the RentalNFT registry contract for tests.
package stub

import (
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/Ken19931113/debook/internal/contracts"
	"github.com/Ken19931113/debook/internal/ethrpc"
)

// ErrReverted is returned for calls the registry rejects.
var ErrReverted = errors.New("execution reverted")

// Registry answers eth_call and mines listProperty transactions in memory.
type Registry struct {
	mu sync.Mutex

	contract *contracts.Contract

	Properties map[uint64]*contracts.PropertyRecord
	Rentals    map[uint64]*contracts.RentalRecord
	Tenants    map[common.Address][]uint64
	Landlords  map[common.Address][]uint64

	// Quote answers calculateRentalPrice; nil reverts.
	Quote func(propertyID, start, end, advanceDays *big.Int) (*contracts.PriceRecord, error)

	// FailProperty makes properties(id) revert for the listed ids.
	FailProperty map[uint64]bool
	// FailCount makes getPropertyCount revert.
	FailCount bool
	// Count, when set, is returned by getPropertyCount instead of the highest id.
	Count *big.Int

	// OmitEvent mines listings without emitting PropertyListed.
	OmitEvent bool
	// Revert mines listings with status 0.
	Revert bool
	// Pending leaves submitted listings unmined.
	Pending bool

	Listed []*contracts.ListPropertyArgs
}

// NewRegistry creates a registry deployed at address using the embedded ABI.
func NewRegistry(address common.Address) *Registry {
	data, err := contracts.EmbeddedABI(contracts.RentalNFT)
	if err != nil {
		panic(err)
	}
	parsed, err := contracts.ParseABI(data)
	if err != nil {
		panic(err)
	}

	return &Registry{
		contract: &contracts.Contract{
			Name:    contracts.RentalNFT,
			Address: address,
			ABI:     parsed,
		},
		Properties:   make(map[uint64]*contracts.PropertyRecord),
		Rentals:      make(map[uint64]*contracts.RentalRecord),
		Tenants:      make(map[common.Address][]uint64),
		Landlords:    make(map[common.Address][]uint64),
		FailProperty: make(map[uint64]bool),
	}
}

// Contract returns the simulated contract.
func (r *Registry) Contract() *contracts.Contract {
	return r.contract
}

// AddProperty stores a property under id and indexes it by owner.
func (r *Registry) AddProperty(id uint64, rec contracts.PropertyRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.addPropertyLocked(id, rec)
}

func (r *Registry) addPropertyLocked(id uint64, rec contracts.PropertyRecord) {
	if rec.PricePerMonth == nil {
		rec.PricePerMonth = big.NewInt(0)
	}
	if rec.MinRentalDuration == nil {
		rec.MinRentalDuration = big.NewInt(0)
	}
	if rec.MaxRentalDuration == nil {
		rec.MaxRentalDuration = big.NewInt(0)
	}
	if rec.DepositRequirement == nil {
		rec.DepositRequirement = big.NewInt(0)
	}
	r.Properties[id] = &rec
	r.Landlords[rec.Owner] = append(r.Landlords[rec.Owner], id)
}

// AddRental stores a rental under id and indexes it by tenant.
func (r *Registry) AddRental(id uint64, rec contracts.RentalRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Rentals[id] = &rec
	r.Tenants[rec.Tenant] = append(r.Tenants[rec.Tenant], id)
}

// Handle answers an eth_call; it is shaped to plug into ethrpc stub.Chain.OnCall.
func (r *Registry) Handle(msg ethrpc.CallMsg) ([]byte, error) {
	if msg.To != r.contract.Address {
		return nil, nil
	}
	if len(msg.Data) < 4 {
		return nil, ErrReverted
	}

	method, err := r.contract.ABI.MethodById(msg.Data[:4])
	if err != nil {
		return nil, ErrReverted
	}
	in, err := method.Inputs.Unpack(msg.Data[4:])
	if err != nil {
		return nil, fmt.Errorf("stub: unpack %s: %w", method.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	switch method.Name {
	case contracts.MethodPropertyCount:
		if r.FailCount {
			return nil, ErrReverted
		}
		if r.Count != nil {
			return method.Outputs.Pack(r.Count)
		}
		return method.Outputs.Pack(new(big.Int).SetUint64(r.maxPropertyIDLocked()))

	case contracts.MethodProperties:
		id := in[0].(*big.Int).Uint64()
		if r.FailProperty[id] {
			return nil, ErrReverted
		}
		rec, ok := r.Properties[id]
		if !ok {
			rec = &contracts.PropertyRecord{}
			r.zeroFillProperty(rec)
		}
		return method.Outputs.Pack(rec.Owner, rec.Location, rec.PricePerMonth,
			rec.MinRentalDuration, rec.MaxRentalDuration, rec.Available,
			rec.PricingModel, rec.DepositRequirement, rec.MetadataURI)

	case contracts.MethodRentalRecords:
		id := in[0].(*big.Int).Uint64()
		rec, ok := r.Rentals[id]
		if !ok {
			rec = &contracts.RentalRecord{}
		}
		z := func(v *big.Int) *big.Int {
			if v == nil {
				return big.NewInt(0)
			}
			return v
		}
		return method.Outputs.Pack(z(rec.PropertyID), rec.Landlord, rec.Tenant,
			z(rec.StartDate), z(rec.EndDate), z(rec.BasePrice), z(rec.FinalPrice),
			z(rec.Deposit), z(rec.DiscountA), z(rec.DiscountBBase), z(rec.DiscountBPlus),
			rec.State, rec.AllowTransfer, z(rec.CancelDeadline), rec.MetadataURI)

	case contracts.MethodTenantRentals:
		return method.Outputs.Pack(toBig(r.Tenants[in[0].(common.Address)]))

	case contracts.MethodLandlordProperties:
		return method.Outputs.Pack(toBig(r.Landlords[in[0].(common.Address)]))

	case contracts.MethodCalculateRentalPrice:
		if r.Quote == nil {
			return nil, ErrReverted
		}
		q, err := r.Quote(in[0].(*big.Int), in[1].(*big.Int), in[2].(*big.Int), in[3].(*big.Int))
		if err != nil {
			return nil, err
		}
		return method.Outputs.Pack(q.BasePrice, q.DiscountA, q.FinalPrice)
	}

	return nil, ErrReverted
}

// Mine executes a submitted listProperty transaction; it is shaped to plug
// into ethrpc stub.Chain.OnSend.
func (r *Registry) Mine(tx *types.Transaction) *ethrpc.Receipt {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Pending {
		return nil
	}
	if tx.To() == nil || *tx.To() != r.contract.Address || r.Revert {
		return &ethrpc.Receipt{Status: ethrpc.ReceiptStatusFailed}
	}

	binding, err := contracts.NewRentalRegistry(r.contract, nil)
	if err != nil {
		return &ethrpc.Receipt{Status: ethrpc.ReceiptStatusFailed}
	}
	args, err := binding.UnpackListProperty(tx.Data())
	if err != nil {
		return &ethrpc.Receipt{Status: ethrpc.ReceiptStatusFailed}
	}
	sender, err := types.Sender(types.LatestSignerForChainID(tx.ChainId()), tx)
	if err != nil {
		return &ethrpc.Receipt{Status: ethrpc.ReceiptStatusFailed}
	}

	r.Listed = append(r.Listed, args)
	id := r.maxPropertyIDLocked() + 1
	r.addPropertyLocked(id, contracts.PropertyRecord{
		Owner:              sender,
		Location:           args.Location,
		PricePerMonth:      args.PricePerMonth,
		MinRentalDuration:  args.MinRentalDuration,
		MaxRentalDuration:  args.MaxRentalDuration,
		Available:          true,
		DepositRequirement: args.DepositRequirement,
		MetadataURI:        args.MetadataURI,
	})

	receipt := &ethrpc.Receipt{Status: ethrpc.ReceiptStatusSuccessful}
	if r.OmitEvent {
		return receipt
	}

	event := r.contract.ABI.Events[contracts.EventPropertyListed]
	data, err := event.Inputs.NonIndexed().Pack(args.Location, args.PricePerMonth)
	if err != nil {
		return &ethrpc.Receipt{Status: ethrpc.ReceiptStatusFailed}
	}
	receipt.Logs = []*types.Log{{
		Address: r.contract.Address,
		Topics: []common.Hash{
			event.ID,
			common.BigToHash(new(big.Int).SetUint64(id)),
			common.BytesToHash(sender.Bytes()),
		},
		Data: data,
	}}
	return receipt
}

func (r *Registry) maxPropertyIDLocked() uint64 {
	var top uint64
	for id := range r.Properties {
		if id > top {
			top = id
		}
	}
	return top
}

func (r *Registry) zeroFillProperty(rec *contracts.PropertyRecord) {
	rec.PricePerMonth = big.NewInt(0)
	rec.MinRentalDuration = big.NewInt(0)
	rec.MaxRentalDuration = big.NewInt(0)
	rec.DepositRequirement = big.NewInt(0)
}

func toBig(ids []uint64) []*big.Int {
	out := make([]*big.Int, len(ids))
	for i, id := range ids {
		out[i] = new(big.Int).SetUint64(id)
	}
	return out
}
