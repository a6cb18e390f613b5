package gateway

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/Ken19931113/debook/internal/domain"
)

var (
	errInvalidAddress = errors.New("invalid account address")
	errOutOfRange     = errors.New("contract value out of range")
)

// ParsePrivateKey parses a hex secp256k1 key, with or without 0x prefix.
func ParsePrivateKey(hexKey string) (*ecdsa.PrivateKey, error) {
	hexKey = strings.TrimPrefix(strings.TrimSpace(hexKey), "0x")
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	return key, nil
}

// resolveSigner picks the key for a write from sender: the caller's key when
// it controls sender, else the operator key if the operator is the sender.
func (g *Gateway) resolveSigner(sender common.Address, key *ecdsa.PrivateKey) (*ecdsa.PrivateKey, error) {
	if key != nil {
		if crypto.PubkeyToAddress(key.PublicKey) != sender {
			return nil, domain.ErrSigningAuthority
		}
		return key, nil
	}
	if g.operator != nil && g.operatorAddr == sender {
		return g.operator, nil
	}
	return nil, domain.ErrSigningAuthority
}
