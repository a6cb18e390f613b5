// Package config loads server settings from flags, the environment and an
// optional .env file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Ken19931113/debook/internal/contracts"
	"github.com/Ken19931113/debook/internal/metadata"
)

// Metadata backends.
const (
	BackendIPFS   = "ipfs"
	BackendS3     = "s3"
	BackendMemory = "mem"
)

// Config holds every server setting.
type Config struct {
	// Auth
	SecretKey string
	TokenTTL  time.Duration

	// Storage
	DatabaseURL   string
	ClickhouseDSN string

	// Chain
	RPCEndpoint       string
	WSEndpoint        string
	RPCMaxRetries     int
	Contracts         []contracts.Definition
	ContractsFile     string
	StablecoinAddress string
	AdminPrivateKey   string
	GasLimit          uint64
	ReceiptTimeout    time.Duration
	PollInterval      time.Duration

	// Metadata
	MetadataBackend string
	IPFS            metadata.IPFSConfig
	S3              metadata.S3Config

	// HTTP
	ListenAddr           string
	MetricsAddr          string
	APIPrefix            string
	CORSOrigins          []string
	DefaultPageLimit     int
	MaxPageLimit         int
	HydrationConcurrency int
}

// Load reads .env from the working directory, without overriding variables
// already set, and then parses args.
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()
	return Parse(args)
}

// Parse builds a Config from args. Every flag defaults to its environment
// variable.
func Parse(args []string) (*Config, error) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	cfg := &Config{}

	fs.StringVar(&cfg.SecretKey, "secret-key", getEnv("SECRET_KEY", ""), "HS256 signing secret for access tokens")
	tokenMinutes := fs.Int("token-expire-minutes", getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 60*24*7), "Access token lifetime in minutes")

	fs.StringVar(&cfg.DatabaseURL, "database-url", getEnv("DATABASE_URL", "sqlite://./debook.db"), "User store: sqlite://path, postgres://dsn or memory://")
	fs.StringVar(&cfg.ClickhouseDSN, "clickhouse-dsn", getEnv("CLICKHOUSE_DSN", ""), "ClickHouse DSN for the activity journal (memory when empty)")

	fs.StringVar(&cfg.RPCEndpoint, "rpc-endpoint", getEnv("BLOCKCHAIN_PROVIDER", ""), "Ethereum JSON-RPC HTTP endpoint")
	fs.StringVar(&cfg.WSEndpoint, "ws-endpoint", getEnv("BLOCKCHAIN_WS_PROVIDER", ""), "Ethereum WebSocket endpoint for newHeads (optional)")
	fs.IntVar(&cfg.RPCMaxRetries, "rpc-max-retries", getEnvInt("RPC_MAX_RETRIES", 0), "Retries for failed RPC reads")
	rentalNFT := fs.String("rental-nft-address", getEnv("RENTAL_NFT_ADDRESS", ""), "RentalNFT contract address")
	defi := fs.String("defi-integration-address", getEnv("DEFI_INTEGRATION_ADDRESS", ""), "DeFiIntegration contract address")
	escrow := fs.String("escrow-address", getEnv("ESCROW_ADDRESS", ""), "Escrow contract address")
	governance := fs.String("governance-address", getEnv("GOVERNANCE_ADDRESS", ""), "Governance contract address")
	fs.StringVar(&cfg.StablecoinAddress, "stablecoin-address", getEnv("STABLECOIN_ADDRESS", ""), "Stablecoin token address")
	fs.StringVar(&cfg.ContractsFile, "contracts-file", getEnv("CONTRACTS_FILE", ""), "YAML file overriding contract addresses and ABI paths")
	fs.StringVar(&cfg.AdminPrivateKey, "admin-private-key", getEnv("ADMIN_PRIVATE_KEY", ""), "Operator signing key (hex)")
	fs.Uint64Var(&cfg.GasLimit, "gas-limit", getEnvUint64("GAS_LIMIT", 2_000_000), "Gas limit for listProperty")
	fs.DurationVar(&cfg.ReceiptTimeout, "receipt-timeout", getEnvDuration("RECEIPT_TIMEOUT", 2*time.Minute), "Maximum wait for a transaction receipt")
	fs.DurationVar(&cfg.PollInterval, "receipt-poll-interval", getEnvDuration("RECEIPT_POLL_INTERVAL", 2*time.Second), "Receipt polling interval")

	fs.StringVar(&cfg.MetadataBackend, "metadata-backend", getEnv("METADATA_BACKEND", BackendIPFS), "Metadata store for new listings: ipfs, s3 or mem")
	fs.StringVar(&cfg.IPFS.Gateway, "ipfs-gateway", getEnv("IPFS_GATEWAY", metadata.DefaultIPFSGateway), "IPFS HTTP gateway")
	fs.StringVar(&cfg.IPFS.API, "ipfs-api", getEnv("IPFS_API", metadata.DefaultIPFSAPI), "IPFS HTTP API")
	fs.StringVar(&cfg.IPFS.ProjectID, "ipfs-project-id", getEnv("IPFS_PROJECT_ID", ""), "IPFS API project id")
	fs.StringVar(&cfg.IPFS.ProjectSecret, "ipfs-project-secret", getEnv("IPFS_PROJECT_SECRET", ""), "IPFS API project secret")
	fs.StringVar(&cfg.S3.Bucket, "s3-bucket", getEnv("S3_BUCKET", ""), "S3 bucket for metadata")
	fs.StringVar(&cfg.S3.Region, "s3-region", getEnv("S3_REGION", "us-east-1"), "S3 region")
	fs.StringVar(&cfg.S3.Endpoint, "s3-endpoint", getEnv("S3_ENDPOINT", ""), "S3-compatible endpoint (optional)")
	fs.StringVar(&cfg.S3.AccessKeyID, "s3-access-key-id", getEnv("S3_ACCESS_KEY_ID", ""), "S3 access key id")
	fs.StringVar(&cfg.S3.SecretAccessKey, "s3-secret-access-key", getEnv("S3_SECRET_ACCESS_KEY", ""), "S3 secret access key")
	fs.StringVar(&cfg.S3.Prefix, "s3-prefix", getEnv("S3_PREFIX", ""), "Object key prefix")

	fs.StringVar(&cfg.ListenAddr, "listen-addr", getEnv("LISTEN_ADDR", ":8000"), "HTTP API address")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", getEnv("METRICS_ADDR", ":9090"), "Prometheus metrics address (empty disables)")
	fs.StringVar(&cfg.APIPrefix, "api-prefix", getEnv("API_V1_STR", "/api/v1"), "Prefix the API routes are also mounted under")
	corsOrigins := fs.String("cors-origins", getEnv("CORS_ORIGINS", "*"), "Comma-separated allowed CORS origins")
	fs.IntVar(&cfg.DefaultPageLimit, "default-page-limit", getEnvInt("DEFAULT_PAGINATION_LIMIT", 20), "Default page size")
	fs.IntVar(&cfg.MaxPageLimit, "max-page-limit", getEnvInt("MAX_PAGINATION_LIMIT", 100), "Maximum page size")
	fs.IntVar(&cfg.HydrationConcurrency, "hydration-concurrency", getEnvInt("HYDRATION_CONCURRENCY", 8), "Parallel chain reads per list request")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.TokenTTL = time.Duration(*tokenMinutes) * time.Minute
	cfg.CORSOrigins = splitList(*corsOrigins)
	cfg.Contracts = []contracts.Definition{
		{Name: contracts.RentalNFT, Address: *rentalNFT},
		{Name: contracts.DeFiIntegration, Address: *defi},
		{Name: contracts.Escrow, Address: *escrow},
		{Name: contracts.Governance, Address: *governance},
	}

	if cfg.ContractsFile != "" {
		file, err := ReadContractsFile(cfg.ContractsFile)
		if err != nil {
			return nil, err
		}
		cfg.Contracts = MergeContracts(cfg.Contracts, file.Contracts)
		if file.Stablecoin != "" {
			cfg.StablecoinAddress = file.Stablecoin
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that have no usable default.
func (c *Config) Validate() error {
	var errs []error

	if c.SecretKey == "" {
		errs = append(errs, errors.New("--secret-key (SECRET_KEY) is required"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("token lifetime must be positive"))
	}
	if c.RPCEndpoint == "" {
		errs = append(errs, errors.New("--rpc-endpoint (BLOCKCHAIN_PROVIDER) is required"))
	}
	if _, _, err := ParseDatabaseURL(c.DatabaseURL); err != nil {
		errs = append(errs, err)
	}
	if c.RPCMaxRetries < 0 {
		errs = append(errs, errors.New("--rpc-max-retries must not be negative"))
	}
	if c.DefaultPageLimit < 1 || c.MaxPageLimit < c.DefaultPageLimit {
		errs = append(errs, fmt.Errorf("page limits: need 1 <= default (%d) <= max (%d)", c.DefaultPageLimit, c.MaxPageLimit))
	}
	if c.HydrationConcurrency < 1 {
		errs = append(errs, errors.New("--hydration-concurrency must be at least 1"))
	}

	switch c.MetadataBackend {
	case BackendIPFS, BackendMemory:
	case BackendS3:
		if c.S3.Bucket == "" {
			errs = append(errs, errors.New("--s3-bucket (S3_BUCKET) is required for the s3 metadata backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown metadata backend %q", c.MetadataBackend))
	}

	return errors.Join(errs...)
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getEnvUint64(key string, def uint64) uint64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseUint(v, 10, 64); err == nil {
			return i
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
