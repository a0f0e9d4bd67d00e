package model

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Analysis kinds recorded by the store.
const (
	AnalysisKindExtraction = "extraction"
	AnalysisKindPII        = "pii"
	AnalysisKindCIM        = "cim"
)

// Analysis is a recorded analysis run. The sample text itself is never
// persisted, only its SHA-256, so stored runs cannot leak the PII they found.
type Analysis struct {
	ID          string          `json:"id"`
	Kind        string          `json:"kind"`
	InputSHA256 string          `json:"input_sha256"`
	// Source records where the analyzed input came from: the source locator
	// given on the command line (path, URL, or "-" for stdin), "api" when
	// the input arrived in an HTTP request body, or the CIM model name for
	// mapping runs, whose input is assembled from flags.
	Source string `json:"source,omitempty"`
	Result      json.RawMessage `json:"result"`
	CreatedAt   time.Time       `json:"created_at"`
}

// HashInput returns the hex SHA-256 of a sample, the value stored in
// Analysis.InputSHA256.
func HashInput(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
