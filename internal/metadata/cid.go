package metadata

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/Ken19931113/debook/internal/domain"
)

// CIDv0 multihash prefix: sha2-256, 32-byte digest.
const (
	multihashSHA256 = 0x12
	sha256Length    = 0x20
)

// ComputeCID returns the CIDv0 ("Qm...") of data.
func ComputeCID(data []byte) string {
	sum := sha256.Sum256(data)
	buf := make([]byte, 0, 2+len(sum))
	buf = append(buf, multihashSHA256, sha256Length)
	buf = append(buf, sum[:]...)
	return base58.Encode(buf)
}

// ValidateCID checks that cid is a well-formed CIDv0.
func ValidateCID(cid string) error {
	raw, err := base58.Decode(cid)
	if err != nil {
		return fmt.Errorf("decode cid %q: %w", cid, err)
	}
	if len(raw) != 2+sha256.Size || raw[0] != multihashSHA256 || raw[1] != sha256Length {
		return fmt.Errorf("cid %q is not a sha2-256 CIDv0", cid)
	}
	return nil
}

// VerifyCID reports whether data hashes to cid.
func VerifyCID(cid string, data []byte) bool {
	return ComputeCID(data) == cid
}

// Encode returns the canonical JSON bytes of doc. Map keys are sorted, so
// equal documents always produce the same CID.
func Encode(doc domain.Metadata) ([]byte, error) {
	if doc == nil {
		doc = domain.Metadata{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Decode parses a JSON object document.
func Decode(data []byte) (domain.Metadata, error) {
	var doc domain.Metadata
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("decode metadata: document is not an object")
	}
	return doc, nil
}
