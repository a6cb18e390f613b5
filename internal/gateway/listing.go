package gateway

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/Ken19931113/debook/internal/contracts"
	"github.com/Ken19931113/debook/internal/domain"
	"github.com/Ken19931113/debook/internal/ethrpc"
	"github.com/Ken19931113/debook/internal/observability"
)

// validateListing checks required fields in a fixed order and names the
// first one missing.
func validateListing(in domain.ListingInput) error {
	switch {
	case in.Location == nil:
		return &domain.ValidationError{Field: "location"}
	case in.PricePerMonth == nil:
		return &domain.ValidationError{Field: "pricePerMonth"}
	case in.MinRentalDuration == nil:
		return &domain.ValidationError{Field: "minRentalDuration"}
	case in.MaxRentalDuration == nil:
		return &domain.ValidationError{Field: "maxRentalDuration"}
	case in.DepositRequirement == nil:
		return &domain.ValidationError{Field: "depositRequirement"}
	}
	if in.PricePerMonth.IsNegative() {
		return &domain.ValidationError{Field: "pricePerMonth", Reason: "must not be negative"}
	}
	return nil
}

// ListProperty submits listProperty on behalf of owner and waits for it to be
// mined. Metadata, when present, is published once before signing and its
// locator goes into the call. key may be nil, in which case owner must be the
// operator account.
func (g *Gateway) ListProperty(ctx context.Context, owner string, in domain.ListingInput, key *ecdsa.PrivateKey) (*domain.ListingReceipt, error) {
	if err := validateListing(in); err != nil {
		return nil, err
	}
	if !common.IsHexAddress(owner) {
		return nil, &domain.ValidationError{Field: "wallet_address", Reason: errInvalidAddress.Error()}
	}

	signer, err := g.resolveSigner(common.HexToAddress(owner), key)
	if err != nil {
		return nil, err
	}
	from := crypto.PubkeyToAddress(signer.PublicKey)

	var metadataURI string
	if in.Metadata != nil {
		if g.publisher == nil {
			return nil, domain.Upstream("publish metadata", errors.New("no metadata store configured"))
		}
		metadataURI, err = g.publisher.Publish(ctx, in.Metadata)
		if err != nil {
			return nil, err
		}
	}

	data, err := g.registry.PackListProperty(contracts.ListPropertyArgs{
		Location:           *in.Location,
		PricePerMonth:      domain.ToWei(*in.PricePerMonth),
		MinRentalDuration:  new(big.Int).SetUint64(*in.MinRentalDuration),
		MaxRentalDuration:  new(big.Int).SetUint64(*in.MaxRentalDuration),
		DepositRequirement: new(big.Int).SetUint64(*in.DepositRequirement),
		MetadataURI:        metadataURI,
	})
	if err != nil {
		return nil, fmt.Errorf("pack listProperty: %w", err)
	}

	txHash, err := g.send(ctx, signer, from, data)
	if err != nil {
		observability.RecordTransaction("send_failed")
		return nil, err
	}
	g.logger.Printf("listProperty submitted: tx=%s from=%s", txHash.Hex(), from.Hex())
	g.recorder.Record(ctx, domain.ActivityEvent{
		Kind:    domain.ActivityListingSubmit,
		Subject: from.Hex(),
		TxHash:  txHash.Hex(),
		Amount:  in.PricePerMonth.String(),
		Detail:  *in.Location,
	})

	receipt, err := g.waitReceipt(ctx, txHash)
	if err != nil {
		g.recordFailure(ctx, from, txHash, err)
		return nil, err
	}
	if receipt.Status == ethrpc.ReceiptStatusFailed {
		err := &domain.RevertedError{TxHash: txHash.Hex(), BlockNumber: receipt.BlockNumber}
		g.recordFailure(ctx, from, txHash, err)
		return nil, err
	}
	observability.RecordTransaction("mined")

	result := &domain.ListingReceipt{
		TxHash:      txHash.Hex(),
		BlockNumber: receipt.BlockNumber,
		MetadataURI: metadataURI,
	}
	ev := domain.ActivityEvent{
		Kind:    domain.ActivityListingMined,
		Subject: from.Hex(),
		TxHash:  txHash.Hex(),
	}

	if listed, ok := g.registry.FindPropertyListed(receipt.Logs); ok {
		id := listed.PropertyID.Uint64()
		result.PropertyID = &id
		ev.PropertyID = id
	} else {
		g.logger.Printf("tx %s mined without %s event", txHash.Hex(), contracts.EventPropertyListed)
		ev.Detail = "property id unknown"
	}
	g.recorder.Record(ctx, ev)

	return result, nil
}

// send builds, signs and submits a legacy EIP-155 transaction to the registry.
func (g *Gateway) send(ctx context.Context, signer *ecdsa.PrivateKey, from common.Address, data []byte) (common.Hash, error) {
	nonce, err := g.client.PendingNonceAt(ctx, from)
	if err != nil {
		return common.Hash{}, domain.Upstream("get nonce", err)
	}
	gasPrice, err := g.client.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, domain.Upstream("get gas price", err)
	}
	chainID, err := g.getChainID(ctx)
	if err != nil {
		return common.Hash{}, domain.Upstream("get chain id", err)
	}

	to := g.registry.Address()
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Value:    big.NewInt(0),
		Gas:      g.cfg.GasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})

	signed, err := types.SignTx(tx, types.NewEIP155Signer(chainID), signer)
	if err != nil {
		return common.Hash{}, fmt.Errorf("sign transaction: %w", err)
	}
	raw, err := signed.MarshalBinary()
	if err != nil {
		return common.Hash{}, fmt.Errorf("encode transaction: %w", err)
	}

	hash, err := g.client.SendRawTransaction(ctx, raw)
	if err != nil {
		return common.Hash{}, domain.Upstream("send transaction", err)
	}
	return hash, nil
}

// getChainID reads the chain id once and caches it.
func (g *Gateway) getChainID(ctx context.Context) (*big.Int, error) {
	g.chainMu.Lock()
	defer g.chainMu.Unlock()

	if g.chainID != nil {
		return g.chainID, nil
	}
	id, err := g.client.ChainID(ctx)
	if err != nil {
		return nil, err
	}
	g.chainID = id
	return id, nil
}

func (g *Gateway) recordFailure(ctx context.Context, from common.Address, txHash common.Hash, err error) {
	outcome := "failed"
	var timeout *domain.ReceiptTimeoutError
	var reverted *domain.RevertedError
	switch {
	case errors.As(err, &timeout):
		outcome = "timeout"
	case errors.As(err, &reverted):
		outcome = "reverted"
	}
	observability.RecordTransaction(outcome)
	g.logger.Printf("listProperty tx=%s %s: %v", txHash.Hex(), outcome, err)

	g.recorder.Record(ctx, domain.ActivityEvent{
		Kind:    domain.ActivityListingFailed,
		Subject: from.Hex(),
		TxHash:  txHash.Hex(),
		Detail:  err.Error(),
	})
}
