// Package metadata resolves and publishes off-chain property documents kept
// in content-addressed stores. Documents are addressed by "scheme://hash"
// locators; the scheme selects the backend.
package metadata

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Ken19931113/debook/internal/domain"
)

var (
	// ErrUnresolvable is returned for empty, malformed or unknown-scheme locators.
	ErrUnresolvable = errors.New("metadata locator unresolvable")

	// ErrNotFound is returned when the backend has no document for a hash.
	ErrNotFound = errors.New("metadata not found")

	// ErrIntegrity is returned when fetched bytes do not match their address.
	ErrIntegrity = errors.New("metadata content does not match its address")
)

// Store is one content-addressed backend.
type Store interface {
	// Scheme returns the locator scheme served by this store ("ipfs", "s3", "mem").
	Scheme() string

	// Fetch returns the document stored under hash.
	Fetch(ctx context.Context, hash string) (domain.Metadata, error)

	// Publish stores doc and returns its hash.
	Publish(ctx context.Context, doc domain.Metadata) (string, error)
}

// Locator is a parsed "scheme://hash" address.
type Locator struct {
	Scheme string
	Hash   string
}

// String formats the locator as "scheme://hash".
func (l Locator) String() string {
	return l.Scheme + "://" + l.Hash
}

// ParseLocator splits uri into scheme and hash.
func ParseLocator(uri string) (Locator, error) {
	scheme, hash, ok := strings.Cut(strings.TrimSpace(uri), "://")
	if !ok || scheme == "" || hash == "" {
		return Locator{}, fmt.Errorf("%w: %q", ErrUnresolvable, uri)
	}
	return Locator{Scheme: strings.ToLower(scheme), Hash: strings.Trim(hash, "/")}, nil
}
