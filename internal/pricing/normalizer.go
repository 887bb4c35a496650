// Package pricing normalizes heterogeneous catalog price representations
// into canonical per-base-unit rates.
//
// Catalogs restate the same effective price in many surface forms:
// "$2 per 1M tokens", "$0.000002 per token", "$1 per 1024x1024 image".
// The normalizer reduces each to a fixed base unit for its dimension so
// that economically identical prices compare equal. Arithmetic uses
// decimal values end to end; repeated normalization of the same input is
// bit-stable.
package pricing

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"modelwatch/internal/errors"
)

// Dimension identifies what quantity a price is denominated in.
// Prices in different dimensions are never compared against each other.
type Dimension string

const (
	// DimensionTokens is priced per 1M tokens
	DimensionTokens Dimension = "tokens"
	// DimensionCharacters is priced per 1M characters
	DimensionCharacters Dimension = "characters"
	// DimensionSeconds is priced per second (runtime or audio length)
	DimensionSeconds Dimension = "seconds"
	// DimensionImages is priced per megapixel of generated image
	DimensionImages Dimension = "images"
	// DimensionRequests is priced per request
	DimensionRequests Dimension = "requests"
)

// BaseUnit returns the human label of the dimension's canonical base unit
func (d Dimension) BaseUnit() string {
	switch d {
	case DimensionTokens:
		return "1M tokens"
	case DimensionCharacters:
		return "1M characters"
	case DimensionSeconds:
		return "second"
	case DimensionImages:
		return "megapixel"
	case DimensionRequests:
		return "request"
	default:
		return string(d)
	}
}

// Price is one raw price field as stated by the catalog
type Price struct {
	// Kind distinguishes multiple prices on one entry ("input", "output",
	// or "" for flat pricing)
	Kind string
	// Amount is the stated currency amount
	Amount decimal.Decimal
	// Unit is the descriptor the amount applies to, e.g. "per 1M tokens"
	Unit string
	// Cached is the optional cached/discounted amount in the same unit
	Cached *decimal.Decimal
}

// Rate is a canonical price: currency per base unit of its dimension
type Rate struct {
	Kind       string
	Dimension  Dimension
	Rate       decimal.Decimal
	CachedRate *decimal.Decimal
}

// canonicalPlaces fixes the serialized precision of canonical rates.
// Equal rates must render to equal strings.
const canonicalPlaces = 10

// CanonicalRate returns the rate as a fixed-precision string
func (r Rate) CanonicalRate() string {
	return r.Rate.StringFixed(canonicalPlaces)
}

// CanonicalCachedRate returns the cached rate as a fixed-precision string,
// or "" when the price has no cached tier
func (r Rate) CanonicalCachedRate() string {
	if r.CachedRate == nil {
		return ""
	}
	return r.CachedRate.StringFixed(canonicalPlaces)
}

// UnitSpec maps a unit noun to its dimension and size.
// UnitInBase is how many canonical base units one descriptor unit
// represents (one token = 0.000001 of the 1M-token base).
type UnitSpec struct {
	Dimension  Dimension
	UnitInBase decimal.Decimal
}

// DefaultUnits returns the built-in unit table
func DefaultUnits() map[string]UnitSpec {
	perMillion := decimal.New(1, -6) // 0.000001
	one := decimal.New(1, 0)
	sixty := decimal.New(60, 0)

	units := map[string]UnitSpec{
		"token":     {DimensionTokens, perMillion},
		"character": {DimensionCharacters, perMillion},
		"char":      {DimensionCharacters, perMillion},
		"second":    {DimensionSeconds, one},
		"sec":       {DimensionSeconds, one},
		"minute":    {DimensionSeconds, sixty},
		"min":       {DimensionSeconds, sixty},
		"request":   {DimensionRequests, one},
	}

	// Accept plural nouns too
	for noun, spec := range units {
		units[noun+"s"] = spec
	}
	return units
}

// megapixel is 1024*1024 pixels, the canonical image base unit
var megapixel = decimal.New(1048576, 0)

var (
	imageUnitRegex   = regexp.MustCompile(`^per\s+(\d+)\s*[x×]\s*(\d+)(?:\s+images?)?$`)
	countedUnitRegex = regexp.MustCompile(`^per\s+(?:(\d+(?:\.\d+)?)\s*([km])?\s+|(million|thousand)\s+)?([a-z]+)$`)
)

// Normalizer converts raw prices to canonical rates
type Normalizer struct {
	units map[string]UnitSpec
}

// NewNormalizer creates a normalizer with the default unit table
func NewNormalizer() *Normalizer {
	return NewNormalizerWithUnits(DefaultUnits())
}

// NewNormalizerWithUnits creates a normalizer with an explicit unit table
func NewNormalizerWithUnits(units map[string]UnitSpec) *Normalizer {
	return &Normalizer{units: units}
}

// Normalize reduces a raw price to its canonical rate.
// Returns a NORMALIZATION_ERROR when the unit descriptor is unparseable;
// callers are expected to skip the entry and continue.
func (n *Normalizer) Normalize(p Price) (Rate, error) {
	descriptor := strings.ToLower(strings.TrimSpace(p.Unit))

	if m := imageUnitRegex.FindStringSubmatch(descriptor); m != nil {
		return n.normalizeImage(p, m[1], m[2])
	}

	m := countedUnitRegex.FindStringSubmatch(descriptor)
	if m == nil {
		return Rate{}, errors.Newf(errors.NormalizationError, nil,
			"unparseable price unit %q", p.Unit)
	}

	count, err := parseCount(m[1], m[2], m[3])
	if err != nil {
		return Rate{}, errors.Newf(errors.NormalizationError, err,
			"unparseable quantity in price unit %q", p.Unit)
	}

	noun := strings.TrimSpace(m[4])
	spec, ok := n.units[noun]
	if !ok {
		return Rate{}, errors.Newf(errors.NormalizationError, nil,
			"unknown price unit %q", p.Unit)
	}

	// rate per base unit = amount / (count * unitInBase)
	denominator := count.Mul(spec.UnitInBase)
	if denominator.IsZero() {
		return Rate{}, errors.Newf(errors.NormalizationError, nil,
			"zero denominator in price unit %q", p.Unit)
	}

	rate := Rate{
		Kind:      p.Kind,
		Dimension: spec.Dimension,
		Rate:      p.Amount.Div(denominator),
	}
	if p.Cached != nil {
		cached := p.Cached.Div(denominator)
		rate.CachedRate = &cached
	}
	return rate, nil
}

// normalizeImage reduces "per WxH image" pricing to currency per megapixel
func (n *Normalizer) normalizeImage(p Price, widthStr, heightStr string) (Rate, error) {
	width, err := decimal.NewFromString(widthStr)
	if err != nil {
		return Rate{}, errors.Newf(errors.NormalizationError, err,
			"unparseable image width in %q", p.Unit)
	}
	height, err := decimal.NewFromString(heightStr)
	if err != nil {
		return Rate{}, errors.Newf(errors.NormalizationError, err,
			"unparseable image height in %q", p.Unit)
	}

	pixels := width.Mul(height)
	if pixels.IsZero() {
		return Rate{}, errors.Newf(errors.NormalizationError, nil,
			"zero-area image in price unit %q", p.Unit)
	}

	rate := Rate{
		Kind:      p.Kind,
		Dimension: DimensionImages,
		Rate:      p.Amount.Mul(megapixel).Div(pixels),
	}
	if p.Cached != nil {
		cached := p.Cached.Mul(megapixel).Div(pixels)
		rate.CachedRate = &cached
	}
	return rate, nil
}

// parseCount resolves the quantity part of a descriptor.
// numeric+suffix ("1m", "1000") and word forms ("million", "thousand")
// are mutually exclusive capture groups; both absent means 1.
func parseCount(numeric, suffix, word string) (decimal.Decimal, error) {
	switch word {
	case "million":
		return decimal.New(1, 6), nil
	case "thousand":
		return decimal.New(1, 3), nil
	}

	if numeric == "" {
		return decimal.New(1, 0), nil
	}

	count, err := decimal.NewFromString(numeric)
	if err != nil {
		return decimal.Decimal{}, err
	}

	switch suffix {
	case "k":
		count = count.Mul(decimal.New(1, 3))
	case "m":
		count = count.Mul(decimal.New(1, 6))
	}
	return count, nil
}
