// Package canonical converts raw catalog entries into canonical,
// order-insensitive records used for fingerprinting and comparison.
package canonical

import "sort"

// PriceRate is one canonical price on a record. Rates are fixed-precision
// decimal strings in the dimension's base unit, so equal effective prices
// are equal strings.
type PriceRate struct {
	Kind       string `json:"kind,omitempty"`
	Dimension  string `json:"dimension"`
	Rate       string `json:"rate"`
	CachedRate string `json:"cached_rate,omitempty"`
}

// Record is the canonical form of one catalog entry. Immutable once
// created: two semantically identical raw entries canonicalize to
// identical Records regardless of surface formatting.
type Record struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Prices       []PriceRate `json:"prices,omitempty"`
	Quantization string      `json:"quantization,omitempty"`
	Deprecated   bool        `json:"deprecated"`
	ReplacedBy   string      `json:"replaced_by,omitempty"`
}

// sortPrices fixes the price order: output order never depends on the
// order price fields appeared in the source.
func sortPrices(prices []PriceRate) {
	sort.SliceStable(prices, func(i, j int) bool {
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
}

// Equal reports whether two records have identical canonical content
func (r Record) Equal(other Record) bool {
	if r.ID != other.ID || r.Name != other.Name ||
		r.Quantization != other.Quantization ||
		r.Deprecated != other.Deprecated ||
		r.ReplacedBy != other.ReplacedBy ||
		len(r.Prices) != len(other.Prices) {
		return false
	}
	for i := range r.Prices {
		if r.Prices[i] != other.Prices[i] {
			return false
		}
	}
	return true
}
