package contracts_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ken19931113/debook/internal/contracts"
	cstub "github.com/Ken19931113/debook/internal/contracts/stub"
	"github.com/Ken19931113/debook/internal/ethrpc/stub"
)

var registryAddr = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")

func setup(t *testing.T) (*contracts.RentalRegistry, *cstub.Registry) {
	t.Helper()

	fake := cstub.NewRegistry(registryAddr)
	chain := stub.NewChain()
	chain.OnCall = fake.Handle

	binding, err := contracts.NewRentalRegistry(fake.Contract(), chain)
	require.NoError(t, err)
	return binding, fake
}

func TestRentalRegistry_Properties(t *testing.T) {
	binding, fake := setup(t)
	owner := common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")

	fake.AddProperty(1, contracts.PropertyRecord{
		Owner:              owner,
		Location:           "Taipei",
		PricePerMonth:      big.NewInt(5e17),
		MinRentalDuration:  big.NewInt(3),
		MaxRentalDuration:  big.NewInt(12),
		Available:          true,
		PricingModel:       2,
		DepositRequirement: big.NewInt(2),
		MetadataURI:        "ipfs://QmHash",
	})

	ctx := context.Background()

	count, err := binding.PropertyCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count.Int64())

	rec, err := binding.Properties(ctx, big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, owner, rec.Owner)
	assert.Equal(t, "Taipei", rec.Location)
	assert.Equal(t, int64(5e17), rec.PricePerMonth.Int64())
	assert.Equal(t, uint8(2), rec.PricingModel)
	assert.True(t, rec.Available)
	assert.Equal(t, "ipfs://QmHash", rec.MetadataURI)

	ids, err := binding.LandlordProperties(ctx, owner)
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.Equal(t, int64(1), ids[0].Int64())
}

func TestRentalRegistry_RentalRecords(t *testing.T) {
	binding, fake := setup(t)
	tenant := common.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC")

	fake.AddRental(7, contracts.RentalRecord{
		PropertyID:     big.NewInt(1),
		Tenant:         tenant,
		StartDate:      big.NewInt(1700000000),
		EndDate:        big.NewInt(1710000000),
		BasePrice:      big.NewInt(1e18),
		FinalPrice:     big.NewInt(9e17),
		State:          1,
		AllowTransfer:  true,
		CancelDeadline: big.NewInt(1699000000),
	})

	ctx := context.Background()

	ids, err := binding.TenantRentals(ctx, tenant)
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.Equal(t, int64(7), ids[0].Int64())

	rec, err := binding.RentalRecords(ctx, big.NewInt(7))
	require.NoError(t, err)
	assert.Equal(t, tenant, rec.Tenant)
	assert.Equal(t, int64(9e17), rec.FinalPrice.Int64())
	assert.Equal(t, uint8(1), rec.State)
	assert.True(t, rec.AllowTransfer)
}

func TestRentalRegistry_CalculateRentalPrice_NegativeLead(t *testing.T) {
	binding, fake := setup(t)

	var gotLead *big.Int
	fake.Quote = func(_, _, _, lead *big.Int) (*contracts.PriceRecord, error) {
		gotLead = lead
		return &contracts.PriceRecord{BasePrice: big.NewInt(100), DiscountA: big.NewInt(10), FinalPrice: big.NewInt(90)}, nil
	}

	rec, err := binding.CalculateRentalPrice(context.Background(),
		big.NewInt(1), big.NewInt(1000), big.NewInt(2000), big.NewInt(-3))
	require.NoError(t, err)
	assert.Equal(t, int64(90), rec.FinalPrice.Int64())
	assert.Equal(t, int64(-3), gotLead.Int64())
}

func TestRentalRegistry_CallError(t *testing.T) {
	binding, fake := setup(t)
	fake.FailCount = true

	_, err := binding.PropertyCount(context.Background())
	assert.Error(t, err)
}

func TestRentalRegistry_ListPropertyRoundTrip(t *testing.T) {
	binding, _ := setup(t)

	args := contracts.ListPropertyArgs{
		Location:           "Kaohsiung",
		PricePerMonth:      big.NewInt(1e18),
		MinRentalDuration:  big.NewInt(1),
		MaxRentalDuration:  big.NewInt(6),
		DepositRequirement: big.NewInt(2),
		MetadataURI:        "ipfs://QmMeta",
	}
	data, err := binding.PackListProperty(args)
	require.NoError(t, err)

	decoded, err := binding.UnpackListProperty(data)
	require.NoError(t, err)
	assert.Equal(t, args.Location, decoded.Location)
	assert.Equal(t, args.MetadataURI, decoded.MetadataURI)
	assert.Equal(t, 0, args.PricePerMonth.Cmp(decoded.PricePerMonth))

	_, err = binding.UnpackListProperty([]byte{0x01, 0x02})
	assert.Error(t, err)
}

func TestRentalRegistry_ParsePropertyListed(t *testing.T) {
	binding, fake := setup(t)
	owner := common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")

	event := fake.Contract().ABI.Events[contracts.EventPropertyListed]
	data, err := event.Inputs.NonIndexed().Pack("Tainan", big.NewInt(42))
	require.NoError(t, err)

	log := types.Log{
		Address: registryAddr,
		Topics: []common.Hash{
			event.ID,
			common.BigToHash(big.NewInt(12)),
			common.BytesToHash(owner.Bytes()),
		},
		Data: data,
	}

	ev, err := binding.ParsePropertyListed(log)
	require.NoError(t, err)
	assert.Equal(t, int64(12), ev.PropertyID.Int64())
	assert.Equal(t, owner, ev.Owner)
	assert.Equal(t, "Tainan", ev.Location)
	assert.Equal(t, int64(42), ev.PricePerMonth.Int64())

	// same event from another contract is ignored
	foreign := log
	foreign.Address = common.HexToAddress("0x01")
	_, err = binding.ParsePropertyListed(foreign)
	assert.ErrorIs(t, err, contracts.ErrEventMismatch)

	found, ok := binding.FindPropertyListed([]*types.Log{&foreign, &log})
	require.True(t, ok)
	assert.Equal(t, int64(12), found.PropertyID.Int64())

	_, ok = binding.FindPropertyListed([]*types.Log{&foreign})
	assert.False(t, ok)
}
