package diff

import (
	"fmt"
	"sort"
	"strings"

	"modelwatch/internal/canonical"
	"modelwatch/internal/pricing"
	"modelwatch/internal/snapshot"
)

// Engine compares two canonical snapshots. It never mutates its inputs.
type Engine struct{}

// NewEngine creates a new diff engine
func NewEngine() *Engine {
	return &Engine{}
}

// Compare classifies the differences between an old and a new snapshot.
// Prices are compared on canonical rates only: a price restated in
// different units with an unchanged effective rate is not a change.
func (e *Engine) Compare(oldSnap, newSnap *snapshot.Snapshot) *ChangeReport {
	report := &ChangeReport{
		OldFingerprint: oldSnap.Fingerprint,
		NewFingerprint: newSnap.Fingerprint,
		Added:          []string{},
		Removed:        []string{},
		Modified:       []ModelChange{},
	}

	oldByID := recordsByID(oldSnap)
	newByID := recordsByID(newSnap)

	for id := range newByID {
		if _, ok := oldByID[id]; !ok {
			report.Added = append(report.Added, id)
		}
	}
	for id, oldRecord := range oldByID {
		newRecord, ok := newByID[id]
		if !ok {
			report.Removed = append(report.Removed, id)
			continue
		}
		if fields := compareRecords(oldRecord, newRecord); len(fields) > 0 {
			report.Modified = append(report.Modified, ModelChange{
				ID:            id,
				ChangedFields: fields,
			})
		}
	}

	sort.Strings(report.Added)
	sort.Strings(report.Removed)
	sort.Slice(report.Modified, func(i, j int) bool {
		return report.Modified[i].ID < report.Modified[j].ID
	})

	return report
}

func recordsByID(s *snapshot.Snapshot) map[string]canonical.Record {
	byID := make(map[string]canonical.Record, s.Len())
	for _, r := range s.Records {
		byID[r.ID] = r
	}
	return byID
}

// compareRecords compares each canonical field independently and emits one
// FieldChange per differing field, in a fixed field order.
func compareRecords(oldRecord, newRecord canonical.Record) []FieldChange {
	var fields []FieldChange

	if oldRecord.Name != newRecord.Name {
		fields = append(fields, FieldChange{"name", oldRecord.Name, newRecord.Name})
	}

	fields = append(fields, comparePrices(oldRecord.Prices, newRecord.Prices)...)

	if oldRecord.Quantization != newRecord.Quantization {
		fields = append(fields, FieldChange{"quantization", oldRecord.Quantization, newRecord.Quantization})
	}
	if oldRecord.Deprecated != newRecord.Deprecated {
		fields = append(fields, FieldChange{"deprecated",
			formatBool(oldRecord.Deprecated), formatBool(newRecord.Deprecated)})
	}
	if oldRecord.ReplacedBy != newRecord.ReplacedBy {
		fields = append(fields, FieldChange{"replacement_id", oldRecord.ReplacedBy, newRecord.ReplacedBy})
	}

	return fields
}

// comparePrices matches prices by kind and compares canonical rates.
// A dimension change on a matched kind is a unit change, never a numeric
// ratio: rates in different dimensions are not comparable.
func comparePrices(oldPrices, newPrices []canonical.PriceRate) []FieldChange {
	oldByKind := pricesByKind(oldPrices)
	newByKind := pricesByKind(newPrices)

	kinds := make([]string, 0, len(oldByKind)+len(newByKind))
	seen := map[string]bool{}
	for kind := range oldByKind {
		kinds = append(kinds, kind)
		seen[kind] = true
	}
	for kind := range newByKind {
		if !seen[kind] {
			kinds = append(kinds, kind)
		}
	}
	sort.Strings(kinds)

	var fields []FieldChange
	for _, kind := range kinds {
		fields = append(fields, compareKind(kind, oldByKind[kind], newByKind[kind])...)
	}
	return fields
}

// compareKind compares the prices of one kind. A kind may carry several
// prices in distinct dimensions; they are matched per dimension, and a
// changed dimension set is a unit change.
func compareKind(kind string, oldPrices, newPrices []canonical.PriceRate) []FieldChange {
	switch {
	case len(oldPrices) == 0:
		fields := make([]FieldChange, 0, len(newPrices))
		for _, p := range newPrices {
			fields = append(fields, FieldChange{priceField("price", kind), "", formatRate(p)})
		}
		return fields
	case len(newPrices) == 0:
		fields := make([]FieldChange, 0, len(oldPrices))
		for _, p := range oldPrices {
			fields = append(fields, FieldChange{priceField("price", kind), formatRate(p), ""})
		}
		return fields
	}

	oldByDim := pricesByDimension(oldPrices)
	newByDim := pricesByDimension(newPrices)

	if oldDims, newDims := dimensionSet(oldByDim), dimensionSet(newByDim); oldDims != newDims {
		return []FieldChange{{priceField("price_unit", kind), oldDims, newDims}}
	}

	dims := make([]string, 0, len(oldByDim))
	for dim := range oldByDim {
		dims = append(dims, dim)
	}
	sort.Strings(dims)

	var fields []FieldChange
	for _, dim := range dims {
		oldPrice, newPrice := oldByDim[dim], newByDim[dim]
		if oldPrice.Rate != newPrice.Rate {
			fields = append(fields, FieldChange{priceField("price", kind),
				formatRate(oldPrice), formatRate(newPrice)})
		}
		if oldPrice.CachedRate != newPrice.CachedRate {
			fields = append(fields, FieldChange{priceField("cached_price", kind),
				formatCachedRate(oldPrice), formatCachedRate(newPrice)})
		}
	}
	return fields
}

func pricesByKind(prices []canonical.PriceRate) map[string][]canonical.PriceRate {
	byKind := make(map[string][]canonical.PriceRate, len(prices))
	for _, p := range prices {
		byKind[p.Kind] = append(byKind[p.Kind], p)
	}
	return byKind
}

func pricesByDimension(prices []canonical.PriceRate) map[string]canonical.PriceRate {
	byDim := make(map[string]canonical.PriceRate, len(prices))
	for _, p := range prices {
		byDim[p.Dimension] = p
	}
	return byDim
}

// dimensionSet renders the dimensions of a kind's prices as a sorted,
// comma-joined list: a single-dimension kind reads as its dimension name.
func dimensionSet(byDim map[string]canonical.PriceRate) string {
	dims := make([]string, 0, len(byDim))
	for dim := range byDim {
		dims = append(dims, dim)
	}
	sort.Strings(dims)
	return strings.Join(dims, ",")
}

func priceField(prefix, kind string) string {
	if kind == "" {
		return prefix
	}
	return fmt.Sprintf("%s[%s]", prefix, kind)
}

func formatRate(p canonical.PriceRate) string {
	return fmt.Sprintf("$%s per %s", p.Rate, pricing.Dimension(p.Dimension).BaseUnit())
}

func formatCachedRate(p canonical.PriceRate) string {
	if p.CachedRate == "" {
		return ""
	}
	return fmt.Sprintf("$%s per %s", p.CachedRate, pricing.Dimension(p.Dimension).BaseUnit())
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
