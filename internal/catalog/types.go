// Package catalog defines the raw model listing as received from the
// external catalog source, and the HTTP client that fetches it.
package catalog

import "encoding/json"

// RawPrice is one price field as stated by the catalog.
// Amounts are kept as json.Number so no precision is lost before
// normalization.
type RawPrice struct {
	// Kind distinguishes multiple prices on one entry: "input", "output",
	// or "" for flat pricing
	Kind string `json:"kind,omitempty"`
	// Amount is the stated currency amount
	Amount json.Number `json:"amount"`
	// Unit is the descriptor the amount applies to, e.g. "per 1M tokens"
	// or "per 1024x1024 image"
	Unit string `json:"unit"`
	// CachedAmount is the optional cached/discounted amount in the same unit
	CachedAmount *json.Number `json:"cached_amount,omitempty"`
}

// Entry is one raw catalog listing. Loosely typed: optional fields come
// and go across catalog revisions, unknown fields are ignored.
type Entry struct {
	ID           string     `json:"id,omitempty"`
	Name         string     `json:"model_name"`
	Prices       []RawPrice `json:"prices,omitempty"`
	Quantization string     `json:"quantization,omitempty"`
	// Deprecated is the unix timestamp the model was deprecated, 0 if active
	Deprecated int64  `json:"deprecated,omitempty"`
	ReplacedBy string `json:"replaced_by,omitempty"`
}

// Key returns the entry's stable identifier. Older catalog revisions only
// carry model_name; id wins when both are present.
func (e Entry) Key() string {
	if e.ID != "" {
		return e.ID
	}
	return e.Name
}
