package canonical

import (
	"strings"

	"github.com/shopspring/decimal"

	"modelwatch/internal/catalog"
	"modelwatch/internal/errors"
	"modelwatch/internal/pricing"
)

// DefaultAliases returns the built-in quantization alias table. Keys are
// matched after lowering and stripping separators, so "FP16" and "fp-16"
// both hit the "fp16" row.
func DefaultAliases() map[string]string {
	return map[string]string{
		"fp32":     "fp32",
		"float32":  "fp32",
		"fp16":     "fp16",
		"float16":  "fp16",
		"half":     "fp16",
		"bf16":     "bf16",
		"bfloat16": "bf16",
		"fp8":      "fp8",
		"float8":   "fp8",
		"fp4":      "fp4",
		"int8":     "int8",
		"int4":     "int4",
		"awq":      "awq",
		"gptq":     "gptq",
	}
}

// MergeAliases extends the built-in alias table with user-supplied
// entries. Extra keys win over built-ins and are matched with the same
// lowering and separator stripping as lookups.
func MergeAliases(extra map[string]string) map[string]string {
	merged := DefaultAliases()
	for label, canonical := range extra {
		merged[aliasKey(label)] = canonical
	}
	return merged
}

// Canonicalizer maps raw catalog entries to canonical records
type Canonicalizer struct {
	normalizer *pricing.Normalizer
	aliases    map[string]string
}

// NewCanonicalizer creates a canonicalizer. A nil normalizer or alias
// table falls back to the defaults.
func NewCanonicalizer(normalizer *pricing.Normalizer, aliases map[string]string) *Canonicalizer {
	if normalizer == nil {
		normalizer = pricing.NewNormalizer()
	}
	if aliases == nil {
		aliases = DefaultAliases()
	}
	return &Canonicalizer{
		normalizer: normalizer,
		aliases:    aliases,
	}
}

// Canonicalize maps one raw entry to its canonical record.
// Returns a NORMALIZATION_ERROR when any price field is unparseable; the
// caller excludes the entry and continues with the rest of the catalog.
func (c *Canonicalizer) Canonicalize(entry catalog.Entry) (Record, error) {
	record := Record{
		ID:           entry.Key(),
		Name:         entry.Name,
		Quantization: c.NormalizeQuantization(entry.Quantization),
		Deprecated:   entry.Deprecated != 0,
		ReplacedBy:   entry.ReplacedBy,
	}
	if record.Name == "" {
		record.Name = record.ID
	}

	for _, raw := range entry.Prices {
		price, err := toPrice(raw)
		if err != nil {
			return Record{}, err
		}
		rate, err := c.normalizer.Normalize(price)
		if err != nil {
			return Record{}, err
		}
		record.Prices = append(record.Prices, PriceRate{
			Kind:       rate.Kind,
			Dimension:  string(rate.Dimension),
			Rate:       rate.CanonicalRate(),
			CachedRate: rate.CanonicalCachedRate(),
		})
	}
	sortPrices(record.Prices)

	return record, nil
}

// NormalizeQuantization resolves a quantization label through the alias
// table. Unrecognized labels are preserved verbatim so future labels still
// produce a stable, comparable value.
func (c *Canonicalizer) NormalizeQuantization(label string) string {
	if label == "" {
		return ""
	}
	if canonical, ok := c.aliases[aliasKey(label)]; ok {
		return canonical
	}
	return label
}

// aliasKey lowers a label and strips separator punctuation
func aliasKey(label string) string {
	key := strings.ToLower(strings.TrimSpace(label))
	for _, sep := range []string{"-", "_", " ", "."} {
		key = strings.ReplaceAll(key, sep, "")
	}
	return key
}

// toPrice converts a raw price field to the normalizer's input form
func toPrice(raw catalog.RawPrice) (pricing.Price, error) {
	amount, err := decimal.NewFromString(raw.Amount.String())
	if err != nil {
		return pricing.Price{}, errors.Newf(errors.NormalizationError, err,
			"unparseable price amount %q", raw.Amount.String())
	}

	price := pricing.Price{
		Kind:   raw.Kind,
		Amount: amount,
		Unit:   raw.Unit,
	}
	if raw.CachedAmount != nil {
		cached, err := decimal.NewFromString(raw.CachedAmount.String())
		if err != nil {
			return pricing.Price{}, errors.Newf(errors.NormalizationError, err,
				"unparseable cached amount %q", raw.CachedAmount.String())
		}
		price.Cached = &cached
	}
	return price, nil
}
