package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Short returns the first 12 hex characters, enough for display.
func (h Hash) Short() string {
	if len(h) <= 12 {
		return string(h)
	}
	return string(h[:12])
}

// Domain-specific hash types
type (
	DatasetHash Hash
	CohortHash  Hash
)

func (h DatasetHash) String() string { return Hash(h).String() }
func (h CohortHash) String() string  { return Hash(h).String() }

// ComputeDatasetHash fingerprints a table by its header and row cells, in order.
func ComputeDatasetHash(headers []string, rows [][]string) DatasetHash {
	var data strings.Builder
	data.WriteString(strings.Join(headers, "\x1f"))
	for _, row := range rows {
		data.WriteByte('\x1e')
		data.WriteString(strings.Join(row, "\x1f"))
	}
	return DatasetHash(NewHash([]byte(data.String())))
}

// ComputeCohortHash fingerprints a filtered subset by its member IDs and the
// filter values that selected it. Order of ids and of filter keys is irrelevant.
func ComputeCohortHash(entityIDs []string, filters map[string]interface{}) CohortHash {
	ids := append([]string(nil), entityIDs...)
	sort.Strings(ids)

	var data strings.Builder
	for _, id := range ids {
		data.WriteString(id)
		data.WriteByte(',')
	}

	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		data.WriteString(key)
		data.WriteString(fmt.Sprintf("=%v;", filters[key]))
	}

	return CohortHash(NewHash([]byte(data.String())))
}
