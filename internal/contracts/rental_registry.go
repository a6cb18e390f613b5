package contracts

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/Ken19931113/debook/internal/ethrpc"
)

// RentalNFT method and event names.
const (
	MethodPropertyCount        = "getPropertyCount"
	MethodProperties           = "properties"
	MethodRentalRecords        = "rentalRecords"
	MethodTenantRentals        = "getTenantRentals"
	MethodLandlordProperties   = "getLandlordProperties"
	MethodCalculateRentalPrice = "calculateRentalPrice"
	MethodListProperty         = "listProperty"
	EventPropertyListed        = "PropertyListed"
)

// methodShape lists the argument types a method must declare.
type methodShape struct {
	inputs  []string
	outputs []string
}

// rentalRegistryMethods are the methods the binding decodes by position.
var rentalRegistryMethods = map[string]methodShape{
	MethodPropertyCount: {outputs: []string{"uint256"}},
	MethodProperties: {
		inputs:  []string{"uint256"},
		outputs: []string{"address", "string", "uint256", "uint256", "uint256", "bool", "uint8", "uint256", "string"},
	},
	MethodRentalRecords: {
		inputs: []string{"uint256"},
		outputs: []string{"uint256", "address", "address", "uint256", "uint256", "uint256", "uint256", "uint256",
			"uint256", "uint256", "uint256", "uint8", "bool", "uint256", "string"},
	},
	MethodTenantRentals:        {inputs: []string{"address"}, outputs: []string{"uint256[]"}},
	MethodLandlordProperties:   {inputs: []string{"address"}, outputs: []string{"uint256[]"}},
	MethodCalculateRentalPrice: {inputs: []string{"uint256", "uint256", "uint256", "int256"}, outputs: []string{"uint256", "uint256", "uint256"}},
	MethodListProperty:         {inputs: []string{"string", "uint256", "uint256", "uint256", "uint256", "string"}},
}

// propertyListedFields are the PropertyListed inputs the binding reads by name.
var propertyListedFields = map[string]string{
	"propertyId":    "uint256",
	"owner":         "address",
	"location":      "string",
	"pricePerMonth": "uint256",
}

// ErrEventMismatch is returned when a log is not the requested event.
var ErrEventMismatch = errors.New("log does not match event")

// PropertyRecord is the raw output of properties(id).
type PropertyRecord struct {
	Owner              common.Address
	Location           string
	PricePerMonth      *big.Int
	MinRentalDuration  *big.Int
	MaxRentalDuration  *big.Int
	Available          bool
	PricingModel       uint8
	DepositRequirement *big.Int
	MetadataURI        string
}

// RentalRecord is the raw output of rentalRecords(id).
type RentalRecord struct {
	PropertyID     *big.Int
	Landlord       common.Address
	Tenant         common.Address
	StartDate      *big.Int
	EndDate        *big.Int
	BasePrice      *big.Int
	FinalPrice     *big.Int
	Deposit        *big.Int
	DiscountA      *big.Int
	DiscountBBase  *big.Int
	DiscountBPlus  *big.Int
	State          uint8
	AllowTransfer  bool
	CancelDeadline *big.Int
	MetadataURI    string
}

// PriceRecord is the raw output of calculateRentalPrice.
type PriceRecord struct {
	BasePrice  *big.Int
	DiscountA  *big.Int
	FinalPrice *big.Int
}

// ListPropertyArgs are the inputs of listProperty.
type ListPropertyArgs struct {
	Location           string
	PricePerMonth      *big.Int
	MinRentalDuration  *big.Int
	MaxRentalDuration  *big.Int
	DepositRequirement *big.Int
	MetadataURI        string
}

// PropertyListed is a decoded PropertyListed event.
type PropertyListed struct {
	PropertyID    *big.Int
	Owner         common.Address
	Location      string
	PricePerMonth *big.Int
	Raw           types.Log
}

// RentalRegistry is a typed binding of the RentalNFT registry contract.
type RentalRegistry struct {
	contract *Contract
	caller   ethrpc.Caller
}

// NewRentalRegistry binds c, checking it exposes every registry method.
func NewRentalRegistry(c *Contract, caller ethrpc.Caller) (*RentalRegistry, error) {
	for name, shape := range rentalRegistryMethods {
		m, ok := c.ABI.Methods[name]
		if !ok {
			return nil, fmt.Errorf("contract %s: abi lacks method %s", c.Name, name)
		}
		if err := checkArguments(m.Inputs, shape.inputs); err != nil {
			return nil, fmt.Errorf("contract %s: method %s inputs: %w", c.Name, name, err)
		}
		// outputs are only decoded for calls
		if name == MethodListProperty {
			continue
		}
		if err := checkArguments(m.Outputs, shape.outputs); err != nil {
			return nil, fmt.Errorf("contract %s: method %s outputs: %w", c.Name, name, err)
		}
	}

	event, ok := c.ABI.Events[EventPropertyListed]
	if !ok {
		return nil, fmt.Errorf("contract %s: abi lacks event %s", c.Name, EventPropertyListed)
	}
	declared := make(map[string]string, len(event.Inputs))
	for _, arg := range event.Inputs {
		declared[arg.Name] = arg.Type.String()
	}
	for field, typ := range propertyListedFields {
		if got, ok := declared[field]; !ok || got != typ {
			return nil, fmt.Errorf("contract %s: event %s needs %s %s", c.Name, EventPropertyListed, typ, field)
		}
	}
	return &RentalRegistry{contract: c, caller: caller}, nil
}

func checkArguments(args abi.Arguments, want []string) error {
	if len(args) != len(want) {
		return fmt.Errorf("got %d, want %d", len(args), len(want))
	}
	for i, arg := range args {
		if got := arg.Type.String(); got != want[i] {
			return fmt.Errorf("argument %d is %s, want %s", i, got, want[i])
		}
	}
	return nil
}

// Address returns the registry address.
func (r *RentalRegistry) Address() common.Address {
	return r.contract.Address
}

func (r *RentalRegistry) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	data, err := r.contract.ABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	out, err := r.caller.CallContract(ctx, ethrpc.CallMsg{To: r.contract.Address, Data: data})
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}

	values, err := r.contract.ABI.Unpack(method, out)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return values, nil
}

// PropertyCount calls getPropertyCount().
func (r *RentalRegistry) PropertyCount(ctx context.Context) (*big.Int, error) {
	out, err := r.call(ctx, MethodPropertyCount)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// Properties calls properties(id).
func (r *RentalRegistry) Properties(ctx context.Context, id *big.Int) (*PropertyRecord, error) {
	out, err := r.call(ctx, MethodProperties, id)
	if err != nil {
		return nil, err
	}

	rec := new(PropertyRecord)
	rec.Owner = *abi.ConvertType(out[0], new(common.Address)).(*common.Address)
	rec.Location = *abi.ConvertType(out[1], new(string)).(*string)
	rec.PricePerMonth = *abi.ConvertType(out[2], new(*big.Int)).(**big.Int)
	rec.MinRentalDuration = *abi.ConvertType(out[3], new(*big.Int)).(**big.Int)
	rec.MaxRentalDuration = *abi.ConvertType(out[4], new(*big.Int)).(**big.Int)
	rec.Available = *abi.ConvertType(out[5], new(bool)).(*bool)
	rec.PricingModel = *abi.ConvertType(out[6], new(uint8)).(*uint8)
	rec.DepositRequirement = *abi.ConvertType(out[7], new(*big.Int)).(**big.Int)
	rec.MetadataURI = *abi.ConvertType(out[8], new(string)).(*string)
	return rec, nil
}

// RentalRecords calls rentalRecords(id).
func (r *RentalRegistry) RentalRecords(ctx context.Context, id *big.Int) (*RentalRecord, error) {
	out, err := r.call(ctx, MethodRentalRecords, id)
	if err != nil {
		return nil, err
	}

	rec := new(RentalRecord)
	rec.PropertyID = *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)
	rec.Landlord = *abi.ConvertType(out[1], new(common.Address)).(*common.Address)
	rec.Tenant = *abi.ConvertType(out[2], new(common.Address)).(*common.Address)
	rec.StartDate = *abi.ConvertType(out[3], new(*big.Int)).(**big.Int)
	rec.EndDate = *abi.ConvertType(out[4], new(*big.Int)).(**big.Int)
	rec.BasePrice = *abi.ConvertType(out[5], new(*big.Int)).(**big.Int)
	rec.FinalPrice = *abi.ConvertType(out[6], new(*big.Int)).(**big.Int)
	rec.Deposit = *abi.ConvertType(out[7], new(*big.Int)).(**big.Int)
	rec.DiscountA = *abi.ConvertType(out[8], new(*big.Int)).(**big.Int)
	rec.DiscountBBase = *abi.ConvertType(out[9], new(*big.Int)).(**big.Int)
	rec.DiscountBPlus = *abi.ConvertType(out[10], new(*big.Int)).(**big.Int)
	rec.State = *abi.ConvertType(out[11], new(uint8)).(*uint8)
	rec.AllowTransfer = *abi.ConvertType(out[12], new(bool)).(*bool)
	rec.CancelDeadline = *abi.ConvertType(out[13], new(*big.Int)).(**big.Int)
	rec.MetadataURI = *abi.ConvertType(out[14], new(string)).(*string)
	return rec, nil
}

// TenantRentals calls getTenantRentals(tenant).
func (r *RentalRegistry) TenantRentals(ctx context.Context, tenant common.Address) ([]*big.Int, error) {
	out, err := r.call(ctx, MethodTenantRentals, tenant)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new([]*big.Int)).(*[]*big.Int), nil
}

// LandlordProperties calls getLandlordProperties(landlord).
func (r *RentalRegistry) LandlordProperties(ctx context.Context, landlord common.Address) ([]*big.Int, error) {
	out, err := r.call(ctx, MethodLandlordProperties, landlord)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new([]*big.Int)).(*[]*big.Int), nil
}

// CalculateRentalPrice calls calculateRentalPrice(propertyId, start, end, advanceBookingDays).
func (r *RentalRegistry) CalculateRentalPrice(ctx context.Context, propertyID, start, end, advanceDays *big.Int) (*PriceRecord, error) {
	out, err := r.call(ctx, MethodCalculateRentalPrice, propertyID, start, end, advanceDays)
	if err != nil {
		return nil, err
	}

	rec := new(PriceRecord)
	rec.BasePrice = *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)
	rec.DiscountA = *abi.ConvertType(out[1], new(*big.Int)).(**big.Int)
	rec.FinalPrice = *abi.ConvertType(out[2], new(*big.Int)).(**big.Int)
	return rec, nil
}

// PackListProperty encodes a listProperty call.
func (r *RentalRegistry) PackListProperty(args ListPropertyArgs) ([]byte, error) {
	return r.contract.ABI.Pack(MethodListProperty,
		args.Location,
		args.PricePerMonth,
		args.MinRentalDuration,
		args.MaxRentalDuration,
		args.DepositRequirement,
		args.MetadataURI,
	)
}

// UnpackListProperty decodes listProperty calldata.
func (r *RentalRegistry) UnpackListProperty(data []byte) (*ListPropertyArgs, error) {
	method := r.contract.ABI.Methods[MethodListProperty]
	if len(data) < 4 || string(data[:4]) != string(method.ID) {
		return nil, fmt.Errorf("calldata is not %s", MethodListProperty)
	}

	out, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return nil, fmt.Errorf("unpack %s input: %w", MethodListProperty, err)
	}

	args := new(ListPropertyArgs)
	args.Location = *abi.ConvertType(out[0], new(string)).(*string)
	args.PricePerMonth = *abi.ConvertType(out[1], new(*big.Int)).(**big.Int)
	args.MinRentalDuration = *abi.ConvertType(out[2], new(*big.Int)).(**big.Int)
	args.MaxRentalDuration = *abi.ConvertType(out[3], new(*big.Int)).(**big.Int)
	args.DepositRequirement = *abi.ConvertType(out[4], new(*big.Int)).(**big.Int)
	args.MetadataURI = *abi.ConvertType(out[5], new(string)).(*string)
	return args, nil
}

// ParsePropertyListed decodes log as a PropertyListed event emitted by the registry.
// Returns ErrEventMismatch for logs from another contract or event.
func (r *RentalRegistry) ParsePropertyListed(log types.Log) (*PropertyListed, error) {
	event := r.contract.ABI.Events[EventPropertyListed]
	if log.Address != r.contract.Address {
		return nil, ErrEventMismatch
	}
	if len(log.Topics) == 0 || log.Topics[0] != event.ID {
		return nil, ErrEventMismatch
	}

	var indexed abi.Arguments
	for _, arg := range event.Inputs {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}

	fields := make(map[string]interface{})
	if err := abi.ParseTopicsIntoMap(fields, indexed, log.Topics[1:]); err != nil {
		return nil, fmt.Errorf("parse %s topics: %w", EventPropertyListed, err)
	}
	if err := r.contract.ABI.UnpackIntoMap(fields, EventPropertyListed, log.Data); err != nil {
		return nil, fmt.Errorf("unpack %s data: %w", EventPropertyListed, err)
	}

	ev := &PropertyListed{Raw: log}
	ev.PropertyID = *abi.ConvertType(fields["propertyId"], new(*big.Int)).(**big.Int)
	ev.Owner = *abi.ConvertType(fields["owner"], new(common.Address)).(*common.Address)
	ev.Location = *abi.ConvertType(fields["location"], new(string)).(*string)
	ev.PricePerMonth = *abi.ConvertType(fields["pricePerMonth"], new(*big.Int)).(**big.Int)
	return ev, nil
}

// FindPropertyListed returns the first PropertyListed event in logs.
// The boolean is false when no log decodes as that event.
func (r *RentalRegistry) FindPropertyListed(logs []*types.Log) (*PropertyListed, bool) {
	for _, l := range logs {
		if l == nil {
			continue
		}
		ev, err := r.ParsePropertyListed(*l)
		if err != nil {
			continue
		}
		return ev, true
	}
	return nil, false
}
