// Package snapshot reduces a canonicalized catalog into one fingerprinted,
// order-independent state.
package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"

	"modelwatch/internal/canonical"
)

// Hasher computes canonical hashes for records and whole snapshots.
// Record encoding uses length-prefixed fields to avoid delimiter
// ambiguity: ${len}:${value}${len}:${value}... Algorithm: SHA-256,
// lowercase hex output.
type Hasher struct{}

// NewHasher creates a new hasher instance
func NewHasher() *Hasher {
	return &Hasher{}
}

// HashRecord computes the canonical hash of one record.
// Fields (in order): id, name, quantization, deprecated, replaced_by,
// then each price as (kind, dimension, rate, cached_rate). Prices are
// hashed in canonical order regardless of slice order.
func (h *Hasher) HashRecord(r canonical.Record) string {
	prices := make([]canonical.PriceRate, len(r.Prices))
	copy(prices, r.Prices)
	sort.Slice(prices, func(i, j int) bool {
		if prices[i].Kind != prices[j].Kind {
			return prices[i].Kind < prices[j].Kind
		}
		if prices[i].Dimension != prices[j].Dimension {
			return prices[i].Dimension < prices[j].Dimension
		}
		if prices[i].Rate != prices[j].Rate {
			return prices[i].Rate < prices[j].Rate
		}
		return prices[i].CachedRate < prices[j].CachedRate
	})

	deprecated := "0"
	if r.Deprecated {
		deprecated = "1"
	}

	fields := []string{r.ID, r.Name, r.Quantization, deprecated, r.ReplacedBy}
	for _, p := range prices {
		fields = append(fields, p.Kind, p.Dimension, p.Rate, p.CachedRate)
	}
	return hashFields(fields)
}

// Fingerprint reduces a set of records into one deterministic digest.
// Per-record digests are sorted lexicographically before the final hash,
// so the result is invariant to enumeration order.
func (h *Hasher) Fingerprint(records []canonical.Record) string {
	digests := make([]string, 0, len(records))
	for _, r := range records {
		digests = append(digests, h.HashRecord(r))
	}
	sort.Strings(digests)

	sum := sha256.Sum256([]byte(strings.Join(digests, "\n")))
	return hex.EncodeToString(sum[:])
}

// hashFields computes SHA-256 of length-prefixed fields
func hashFields(fields []string) string {
	var builder strings.Builder
	for _, field := range fields {
		builder.WriteString(strconv.Itoa(len(field)))
		builder.WriteByte(':')
		builder.WriteString(field)
	}
	sum := sha256.Sum256([]byte(builder.String()))
	return hex.EncodeToString(sum[:])
}
