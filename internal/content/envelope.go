package content

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// EnvelopeVersion is the wire format version written into every envelope
const EnvelopeVersion = "1.0"

const objectKeyPrefix = "doc_"
const objectKeySuffix = ".json.gz"

// EnvelopeContentType is the MIME type stored alongside blob envelopes
const EnvelopeContentType = "application/gzip"

// Envelope is the blob-tier wire format: a gzip-compressed JSON object
// holding the structured delta and the derived HTML.
type Envelope struct {
	Delta     json.RawMessage `json:"delta"`
	HTML      string          `json:"html"`
	Timestamp string          `json:"timestamp"`
	Version   string          `json:"version"`
}

// Pack serializes and compresses content for object storage
func Pack(delta json.RawMessage, html string) ([]byte, error) {
	env := Envelope{
		Delta:     delta,
		HTML:      html,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   EnvelopeVersion,
	}

	payload, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("envelope marshal failed: %w", err)
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(payload); err != nil {
		return nil, fmt.Errorf("envelope compress failed: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("envelope compress failed: %w", err)
	}

	return buf.Bytes(), nil
}

// Unpack decompresses and parses a stored envelope. Any gzip or JSON
// error is returned as-is; callers decide how to surface it.
func Unpack(blob []byte) (json.RawMessage, string, error) {
	zr, err := gzip.NewReader(bytes.NewReader(blob))
	if err != nil {
		return nil, "", fmt.Errorf("envelope decompress failed: %w", err)
	}
	defer zr.Close()

	payload, err := io.ReadAll(zr)
	if err != nil {
		return nil, "", fmt.Errorf("envelope decompress failed: %w", err)
	}

	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, "", fmt.Errorf("envelope parse failed: %w", err)
	}

	delta := env.Delta
	if len(delta) == 0 {
		delta = EmptyDelta
	}
	return delta, env.HTML, nil
}

// NewObjectKey generates a unique object key for a document envelope
func NewObjectKey() string {
	return objectKeyPrefix + uuid.New().String() + objectKeySuffix
}
