package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/Ken19931113/debook/internal/domain"
)

// Default IPFS endpoints.
const (
	DefaultIPFSGateway = "https://ipfs.io/ipfs/"
	DefaultIPFSAPI     = "https://ipfs.infura.io:5001/api/v0"
)

// maxDocumentSize bounds fetched documents.
const maxDocumentSize = 1 << 20

// IPFSConfig configures an IPFSStore.
type IPFSConfig struct {
	Gateway string // prefix the hash is appended to
	API     string // HTTP API base, "/add" is appended
	// ProjectID and ProjectSecret enable basic auth on the API (Infura style).
	ProjectID     string
	ProjectSecret string
	Timeout       time.Duration
}

// IPFSStore reads through an HTTP gateway and publishes through the IPFS HTTP API.
type IPFSStore struct {
	cfg    IPFSConfig
	client *http.Client
}

// Compile-time interface check.
var _ Store = (*IPFSStore)(nil)

// NewIPFSStore creates an IPFS store.
func NewIPFSStore(cfg IPFSConfig) *IPFSStore {
	if cfg.Gateway == "" {
		cfg.Gateway = DefaultIPFSGateway
	}
	if cfg.API == "" {
		cfg.API = DefaultIPFSAPI
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &IPFSStore{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Scheme returns "ipfs".
func (s *IPFSStore) Scheme() string { return "ipfs" }

// Fetch downloads the document from the gateway.
func (s *IPFSStore) Fetch(ctx context.Context, hash string) (domain.Metadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.Gateway+hash, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return Decode(data)
}

type addResponse struct {
	Name string `json:"Name"`
	Hash string `json:"Hash"`
	Size string `json:"Size"`
}

// Publish uploads doc as a multipart "file" field to {API}/add.
func (s *IPFSStore) Publish(ctx context.Context, doc domain.Metadata) (string, error) {
	data, err := Encode(doc)
	if err != nil {
		return "", err
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", "metadata.json")
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("write form file: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close multipart: %w", err)
	}

	url := strings.TrimRight(s.cfg.API, "/") + "/add"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	if s.cfg.ProjectID != "" && s.cfg.ProjectSecret != "" {
		req.SetBasicAuth(s.cfg.ProjectID, s.cfg.ProjectSecret)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ipfs add status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var added addResponse
	if err := json.Unmarshal(respBody, &added); err != nil {
		return "", fmt.Errorf("unmarshal add response: %w", err)
	}
	if added.Hash == "" {
		return "", fmt.Errorf("ipfs add returned no hash")
	}
	return added.Hash, nil
}
