package metadata

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Ken19931113/debook/internal/domain"
	"github.com/Ken19931113/debook/internal/observability"
)

// Resolver dispatches locators to stores by scheme and publishes through
// a primary store.
type Resolver struct {
	stores  map[string]Store
	primary Store
	logger  *log.Logger
}

// NewResolver creates a resolver publishing to primary. Extra stores serve
// reads only.
func NewResolver(primary Store, readOnly ...Store) *Resolver {
	r := &Resolver{
		stores:  make(map[string]Store),
		primary: primary,
		logger:  log.New(os.Stdout, "[metadata] ", log.LstdFlags|log.Lshortfile),
	}
	for _, s := range readOnly {
		r.stores[s.Scheme()] = s
	}
	r.stores[primary.Scheme()] = primary
	return r
}

// SetLogger replaces the default logger.
func (r *Resolver) SetLogger(logger *log.Logger) {
	if logger != nil {
		r.logger = logger
	}
}

// Fetch resolves uri. Empty or unknown-scheme locators return ErrUnresolvable.
func (r *Resolver) Fetch(ctx context.Context, uri string) (domain.Metadata, error) {
	loc, err := ParseLocator(uri)
	if err != nil {
		return nil, err
	}
	store, ok := r.stores[loc.Scheme]
	if !ok {
		return nil, fmt.Errorf("%w: no store for scheme %q", ErrUnresolvable, loc.Scheme)
	}

	start := time.Now()
	doc, err := store.Fetch(ctx, loc.Hash)
	observability.RecordMetadataOp(loc.Scheme, "fetch", time.Since(start).Seconds(), err)
	if err != nil {
		return nil, domain.Upstream("fetch metadata "+uri, err)
	}
	return doc, nil
}

// Resolve returns the document behind uri, or placeholder metadata when it
// cannot be resolved. Failures other than an empty locator are logged.
func (r *Resolver) Resolve(ctx context.Context, uri string) domain.Metadata {
	doc, err := r.Fetch(ctx, uri)
	if err == nil {
		return doc
	}
	if uri != "" && !errors.Is(err, context.Canceled) {
		r.logger.Printf("resolve %q: %v", uri, err)
	}
	observability.RecordMetadataDefaulted()
	return domain.DefaultMetadata()
}

// Publish stores doc in the primary store and returns its locator.
func (r *Resolver) Publish(ctx context.Context, doc domain.Metadata) (string, error) {
	scheme := r.primary.Scheme()

	start := time.Now()
	hash, err := r.primary.Publish(ctx, doc)
	observability.RecordMetadataOp(scheme, "publish", time.Since(start).Seconds(), err)
	if err != nil {
		return "", domain.Upstream("publish metadata", err)
	}
	return Locator{Scheme: scheme, Hash: hash}.String(), nil
}
