// Package main runs the rental API server:
// - HTTP API (gin) over the RentalNFT registry and the identity store
// - Prometheus metrics on a separate address
// - optional newHeads subscription to speed up receipt waits
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ken19931113/debook/internal/account"
	"github.com/Ken19931113/debook/internal/api"
	"github.com/Ken19931113/debook/internal/catalog"
	"github.com/Ken19931113/debook/internal/config"
	"github.com/Ken19931113/debook/internal/contracts"
	"github.com/Ken19931113/debook/internal/ethrpc"
	"github.com/Ken19931113/debook/internal/gateway"
	"github.com/Ken19931113/debook/internal/journal"
	"github.com/Ken19931113/debook/internal/metadata"
	"github.com/Ken19931113/debook/internal/observability"
	"github.com/Ken19931113/debook/internal/pricing"
	"github.com/Ken19931113/debook/internal/storage"
	chstore "github.com/Ken19931113/debook/internal/storage/clickhouse"
	"github.com/Ken19931113/debook/internal/storage/memory"
	"github.com/Ken19931113/debook/internal/storage/migrations"
	pgstore "github.com/Ken19931113/debook/internal/storage/postgres"
	sqlitestore "github.com/Ken19931113/debook/internal/storage/sqlite"
)

const shutdownTimeout = 30 * time.Second

// stores holds the persistence backends.
type stores struct {
	users    storage.UserStore
	activity storage.ActivityStore
}

func main() {
	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, cleanup, err := createStores(ctx, cfg)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	srv, closeChain, err := buildServer(ctx, cfg, st, logger)
	if err != nil {
		logger.Fatalf("Failed to build server: %v", err)
	}
	defer closeChain()

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if cfg.MetricsAddr != "" {
		go startMetricsServer(cfg.MetricsAddr, logger)
	}

	done := make(chan struct{})
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
		defer stop()
		go func() {
			select {
			case sig := <-sigCh:
				logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
				os.Exit(1)
			case <-done:
			}
		}()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Printf("Graceful shutdown failed: %v", err)
		}
	}()

	logger.Printf("Serving API on %s (also under %s)", cfg.ListenAddr, cfg.APIPrefix)
	err = httpServer.ListenAndServe()
	close(done)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("Server error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// createStores opens the identity store named by DATABASE_URL and the
// activity journal store. Schemas are applied on open.
func createStores(ctx context.Context, cfg *config.Config) (*stores, func(), error) {
	driver, dsn, err := config.ParseDatabaseURL(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	st := &stores{}
	switch driver {
	case config.DriverMemory:
		st.users = memory.NewUserStore()
	case config.DriverSQLite:
		db, err := sqlitestore.Open(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() { db.Close() })
		st.users = sqlitestore.NewUserStore(db)
	case config.DriverPostgres:
		pool, err := pgstore.NewPool(ctx, dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to postgres: %w", err)
		}
		closers = append(closers, pool.Close)
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			cleanup()
			return nil, nil, err
		}
		st.users = pgstore.NewUserStore(pool)
	}

	if cfg.ClickhouseDSN == "" {
		st.activity = memory.NewActivityStore(0)
		return st, cleanup, nil
	}

	conn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickhouseDSN)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("connect to clickhouse: %w", err)
	}
	closers = append(closers, func() { conn.Close() })
	st.activity = chstore.NewActivityStore(conn)

	return st, cleanup, nil
}

// createMetadata builds the resolver. Every configured backend serves
// reads; the selected one also publishes.
func createMetadata(ctx context.Context, cfg *config.Config) (*metadata.Resolver, error) {
	ipfs := metadata.NewIPFSStore(cfg.IPFS)
	readOnly := []metadata.Store{ipfs}

	var s3 *metadata.S3Store
	if cfg.S3.Bucket != "" {
		var err error
		s3, err = metadata.NewS3Store(ctx, cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("create s3 metadata store: %w", err)
		}
		readOnly = append(readOnly, s3)
	}

	var primary metadata.Store
	switch cfg.MetadataBackend {
	case config.BackendS3:
		primary = s3
	case config.BackendMemory:
		primary = metadata.NewMemoryStore()
	default:
		primary = ipfs
	}
	return metadata.NewResolver(primary, readOnly...), nil
}

// buildServer wires the chain gateway, the services and the router.
func buildServer(ctx context.Context, cfg *config.Config, st *stores, logger *log.Logger) (*api.Server, func(), error) {
	registry, err := contracts.Load(cfg.Contracts)
	if err != nil {
		return nil, nil, err
	}
	rental, _ := registry.Get(contracts.RentalNFT)

	client := ethrpc.NewHTTPClient(cfg.RPCEndpoint, ethrpc.WithMaxRetries(cfg.RPCMaxRetries))
	binding, err := contracts.NewRentalRegistry(rental, client)
	if err != nil {
		return nil, nil, err
	}

	resolver, err := createMetadata(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	j := journal.New(st.activity)

	opts := []gateway.Option{gateway.WithRecorder(j)}
	if cfg.AdminPrivateKey != "" {
		key, err := gateway.ParsePrivateKey(cfg.AdminPrivateKey)
		if err != nil {
			return nil, nil, fmt.Errorf("admin private key: %w", err)
		}
		opts = append(opts, gateway.WithOperatorKey(key))
	}
	gw := gateway.New(client, binding, resolver, gateway.Config{
		GasLimit:       cfg.GasLimit,
		ReceiptTimeout: cfg.ReceiptTimeout,
		PollInterval:   cfg.PollInterval,
	}, opts...)
	if cfg.AdminPrivateKey != "" {
		logger.Printf("Operator account %s", gw.OperatorAddress().Hex())
	}

	closeChain := func() {}
	if cfg.WSEndpoint != "" {
		ws, err := ethrpc.NewWSClient(ctx, cfg.WSEndpoint, nil)
		if err != nil {
			logger.Printf("WebSocket unavailable, receipts will be polled: %v", err)
		} else if err := gw.WatchHeads(ctx, ws); err != nil {
			logger.Printf("newHeads subscription failed, receipts will be polled: %v", err)
			ws.Close()
		} else {
			closeChain = func() { ws.Close() }
		}
	}

	accounts := account.NewService(st.users, account.NewTokenIssuer(cfg.SecretKey),
		account.WithTokenTTL(cfg.TokenTTL),
		account.WithRecorder(j),
	)

	deps := api.Deps{
		Accounts:   accounts,
		Properties: catalog.New(gw, resolver, catalog.WithConcurrency(cfg.HydrationConcurrency)),
		Rentals:    catalog.NewLedger(gw, catalog.WithConcurrency(cfg.HydrationConcurrency)),
		Pricing:    pricing.New(gw, pricing.WithRecorder(j)),
		Lister:     gw,
		Activity:   j,
		Contracts:  contractList(registry, cfg.StablecoinAddress),
	}

	srv := api.NewServer(deps, api.Config{
		Prefix:           cfg.APIPrefix,
		CORSOrigins:      cfg.CORSOrigins,
		DefaultPageLimit: cfg.DefaultPageLimit,
		MaxPageLimit:     cfg.MaxPageLimit,
	})
	return srv, closeChain, nil
}

func contractList(registry *contracts.Registry, stablecoin string) []api.ContractResponse {
	var out []api.ContractResponse
	for _, c := range registry.List() {
		out = append(out, api.ContractResponse{Name: c.Name, Address: c.Address.Hex()})
	}
	if stablecoin != "" {
		out = append(out, api.ContractResponse{Name: "Stablecoin", Address: stablecoin})
	}
	return out
}

// startMetricsServer serves /metrics and /health.
func startMetricsServer(addr string, logger *log.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", observability.Handler())

	logger.Printf("Starting metrics server on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
		logger.Printf("Metrics server error: %v", err)
	}
}
