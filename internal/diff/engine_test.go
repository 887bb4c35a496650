package diff

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"modelwatch/internal/canonical"
	"modelwatch/internal/catalog"
	"modelwatch/internal/snapshot"
)

func mustCanonicalize(t *testing.T, entries ...catalog.Entry) *snapshot.Snapshot {
	t.Helper()
	c := canonical.NewCanonicalizer(nil, nil)

	var records []canonical.Record
	for _, entry := range entries {
		record, err := c.Canonicalize(entry)
		if err != nil {
			t.Fatalf("Canonicalize(%s) error = %v", entry.Name, err)
		}
		records = append(records, record)
	}
	return snapshot.New(records)
}

func tokenEntry(name, rate, quantization string) catalog.Entry {
	return catalog.Entry{
		Name: name,
		Prices: []catalog.RawPrice{
			{Amount: json.Number(rate), Unit: "per 1M tokens"},
		},
		Quantization: quantization,
	}
}

func TestCompareSelfIsEmpty(t *testing.T) {
	snap := mustCanonicalize(t,
		tokenEntry("m1", "2", "fp16"),
		tokenEntry("m2", "5", "int8"),
	)

	report := NewEngine().Compare(snap, snap)
	if !report.Empty() {
		t.Errorf("diffing a snapshot against itself should be empty: %+v", report)
	}
}

func TestCompareAddedRemovedModified(t *testing.T) {
	// Old: m1 at $2/1M tokens, fp16, active.
	// New: m1 at $2/1M tokens, int8, active; m2 appears.
	oldSnap := mustCanonicalize(t, tokenEntry("m1", "2", "fp16"))
	newSnap := mustCanonicalize(t,
		tokenEntry("m1", "2", "int8"),
		tokenEntry("m2", "1", "fp16"),
	)

	report := NewEngine().Compare(oldSnap, newSnap)

	if len(report.Added) != 1 || report.Added[0] != "m2" {
		t.Errorf("Added = %v, want [m2]", report.Added)
	}
	if len(report.Removed) != 0 {
		t.Errorf("Removed = %v, want []", report.Removed)
	}
	if len(report.Modified) != 1 {
		t.Fatalf("Modified = %+v, want one entry", report.Modified)
	}

	change := report.Modified[0]
	if change.ID != "m1" {
		t.Errorf("modified ID = %q, want m1", change.ID)
	}
	if len(change.ChangedFields) != 1 {
		t.Fatalf("ChangedFields = %+v, want one entry", change.ChangedFields)
	}
	field := change.ChangedFields[0]
	if field.Field != "quantization" || field.Old != "fp16" || field.New != "int8" {
		t.Errorf("field change = %+v, want quantization fp16 -> int8", field)
	}
}

func TestCompareEquivalentPriceRestatementIsNoOp(t *testing.T) {
	// The same effective rate stated per-token vs per-1M-tokens.
	oldSnap := mustCanonicalize(t, catalog.Entry{
		Name:   "m1",
		Prices: []catalog.RawPrice{{Amount: json.Number("0.000002"), Unit: "per token"}},
	})
	newSnap := mustCanonicalize(t, catalog.Entry{
		Name:   "m1",
		Prices: []catalog.RawPrice{{Amount: json.Number("2"), Unit: "per 1M tokens"}},
	})

	report := NewEngine().Compare(oldSnap, newSnap)
	if !report.Empty() {
		t.Errorf("restated price with unchanged rate should not be a change: %+v", report)
	}
}

func TestCompareImageResolutionChange(t *testing.T) {
	// "$1 per 1024x1024" -> "$1 per 512x512": same displayed amount,
	// 4x effective rate increase.
	oldSnap := mustCanonicalize(t, catalog.Entry{
		Name:   "m1",
		Prices: []catalog.RawPrice{{Amount: json.Number("1"), Unit: "per 1024x1024 image"}},
	})
	newSnap := mustCanonicalize(t, catalog.Entry{
		Name:   "m1",
		Prices: []catalog.RawPrice{{Amount: json.Number("1"), Unit: "per 512x512 image"}},
	})

	report := NewEngine().Compare(oldSnap, newSnap)
	if len(report.Modified) != 1 {
		t.Fatalf("Modified = %+v, want one entry", report.Modified)
	}

	fields := report.Modified[0].ChangedFields
	if len(fields) != 1 || fields[0].Field != "price" {
		t.Fatalf("ChangedFields = %+v, want single price change", fields)
	}
	if !strings.Contains(fields[0].Old, "1.0000000000") || !strings.Contains(fields[0].New, "4.0000000000") {
		t.Errorf("price change should show 4x rate increase: %+v", fields[0])
	}
}

func TestCompareDeprecationWithReplacement(t *testing.T) {
	oldSnap := mustCanonicalize(t, catalog.Entry{Name: "m1"})
	newSnap := mustCanonicalize(t, catalog.Entry{
		Name:       "m1",
		Deprecated: 1735689600,
		ReplacedBy: "m3",
	})

	report := NewEngine().Compare(oldSnap, newSnap)
	if len(report.Modified) != 1 {
		t.Fatalf("Modified = %+v, want one entry", report.Modified)
	}

	fields := report.Modified[0].ChangedFields
	if len(fields) != 2 {
		t.Fatalf("ChangedFields = %+v, want deprecated and replacement_id", fields)
	}
	byField := map[string]FieldChange{}
	for _, f := range fields {
		byField[f.Field] = f
	}

	dep, ok := byField["deprecated"]
	if !ok || dep.Old != "false" || dep.New != "true" {
		t.Errorf("deprecated change = %+v", dep)
	}
	rep, ok := byField["replacement_id"]
	if !ok || rep.Old != "" || rep.New != "m3" {
		t.Errorf("replacement_id change = %+v", rep)
	}
}

func TestCompareDimensionChange(t *testing.T) {
	// A price switching dimensions is a unit change, never a numeric ratio.
	oldSnap := mustCanonicalize(t, catalog.Entry{
		Name:   "m1",
		Prices: []catalog.RawPrice{{Amount: json.Number("1"), Unit: "per 1M tokens"}},
	})
	newSnap := mustCanonicalize(t, catalog.Entry{
		Name:   "m1",
		Prices: []catalog.RawPrice{{Amount: json.Number("1"), Unit: "per 1024x1024 image"}},
	})

	report := NewEngine().Compare(oldSnap, newSnap)
	if len(report.Modified) != 1 {
		t.Fatalf("Modified = %+v, want one entry", report.Modified)
	}

	fields := report.Modified[0].ChangedFields
	if len(fields) != 1 || fields[0].Field != "price_unit" {
		t.Fatalf("ChangedFields = %+v, want single price_unit change", fields)
	}
	if fields[0].Old != "tokens" || fields[0].New != "images" {
		t.Errorf("price_unit change = %+v, want tokens -> images", fields[0])
	}
}

func TestCompareTwoDimensionsSameKind(t *testing.T) {
	// A model may carry flat prices in several dimensions at once. A rate
	// change in one of them must surface even though they share a kind.
	oldSnap := mustCanonicalize(t, catalog.Entry{
		Name: "m1",
		Prices: []catalog.RawPrice{
			{Amount: json.Number("1"), Unit: "per 1024x1024 image"},
			{Amount: json.Number("2"), Unit: "per 1M tokens"},
		},
	})
	newSnap := mustCanonicalize(t, catalog.Entry{
		Name: "m1",
		Prices: []catalog.RawPrice{
			{Amount: json.Number("9"), Unit: "per 1024x1024 image"},
			{Amount: json.Number("2"), Unit: "per 1M tokens"},
		},
	})

	if oldSnap.Fingerprint == newSnap.Fingerprint {
		t.Fatal("fingerprints should differ")
	}

	report := NewEngine().Compare(oldSnap, newSnap)
	if report.Empty() {
		t.Fatal("snapshots with different fingerprints must not diff as empty")
	}
	if len(report.Modified) != 1 {
		t.Fatalf("Modified = %+v, want one entry", report.Modified)
	}

	fields := report.Modified[0].ChangedFields
	if len(fields) != 1 || fields[0].Field != "price" {
		t.Fatalf("ChangedFields = %+v, want single price change", fields)
	}
	if !strings.Contains(fields[0].Old, "1.0000000000") || !strings.Contains(fields[0].New, "9.0000000000") {
		t.Errorf("price change = %+v, want image rate 1 -> 9", fields[0])
	}
}

func TestCompareDimensionSetChange(t *testing.T) {
	// Dropping one of a kind's dimensions is a unit change naming both
	// dimension sets, never a numeric comparison.
	oldSnap := mustCanonicalize(t, catalog.Entry{
		Name: "m1",
		Prices: []catalog.RawPrice{
			{Amount: json.Number("1"), Unit: "per 1024x1024 image"},
			{Amount: json.Number("2"), Unit: "per 1M tokens"},
		},
	})
	newSnap := mustCanonicalize(t, catalog.Entry{
		Name: "m1",
		Prices: []catalog.RawPrice{
			{Amount: json.Number("2"), Unit: "per 1M tokens"},
		},
	})

	report := NewEngine().Compare(oldSnap, newSnap)
	if len(report.Modified) != 1 {
		t.Fatalf("Modified = %+v, want one entry", report.Modified)
	}

	fields := report.Modified[0].ChangedFields
	if len(fields) != 1 || fields[0].Field != "price_unit" {
		t.Fatalf("ChangedFields = %+v, want single price_unit change", fields)
	}
	if fields[0].Old != "images,tokens" || fields[0].New != "tokens" {
		t.Errorf("price_unit change = %+v, want images,tokens -> tokens", fields[0])
	}
}

func TestCompareCachedRateChange(t *testing.T) {
	cached := json.Number("0.07")
	oldSnap := mustCanonicalize(t, catalog.Entry{
		Name: "m1",
		Prices: []catalog.RawPrice{
			{Kind: "input", Amount: json.Number("0.27"), Unit: "per 1M tokens"},
		},
	})
	newSnap := mustCanonicalize(t, catalog.Entry{
		Name: "m1",
		Prices: []catalog.RawPrice{
			{Kind: "input", Amount: json.Number("0.27"), Unit: "per 1M tokens", CachedAmount: &cached},
		},
	})

	report := NewEngine().Compare(oldSnap, newSnap)
	if len(report.Modified) != 1 {
		t.Fatalf("Modified = %+v, want one entry", report.Modified)
	}

	fields := report.Modified[0].ChangedFields
	if len(fields) != 1 || fields[0].Field != "cached_price[input]" {
		t.Fatalf("ChangedFields = %+v, want single cached_price[input] change", fields)
	}
	if fields[0].Old != "" {
		t.Errorf("old cached rate = %q, want empty", fields[0].Old)
	}
}

func TestCompareOutputIsSorted(t *testing.T) {
	oldSnap := mustCanonicalize(t,
		tokenEntry("zeta", "1", "fp16"),
		tokenEntry("alpha", "1", "fp16"),
		tokenEntry("mid", "1", "fp16"),
	)
	newSnap := mustCanonicalize(t,
		tokenEntry("zeta", "2", "fp16"),
		tokenEntry("alpha", "2", "fp16"),
		tokenEntry("beta", "1", "fp16"),
		tokenEntry("omega", "1", "fp16"),
	)

	report := NewEngine().Compare(oldSnap, newSnap)

	if got := strings.Join(report.Added, ","); got != "beta,omega" {
		t.Errorf("Added = %v, want sorted [beta omega]", report.Added)
	}
	if got := strings.Join(report.Removed, ","); got != "mid" {
		t.Errorf("Removed = %v", report.Removed)
	}
	if len(report.Modified) != 2 || report.Modified[0].ID != "alpha" || report.Modified[1].ID != "zeta" {
		t.Errorf("Modified not sorted by ID: %+v", report.Modified)
	}
}

func TestCompareDoesNotMutateInputs(t *testing.T) {
	oldSnap := mustCanonicalize(t, tokenEntry("m1", "2", "fp16"))
	newSnap := mustCanonicalize(t, tokenEntry("m1", "3", "int8"))

	oldFingerprint := oldSnap.Fingerprint
	newFingerprint := newSnap.Fingerprint

	NewEngine().Compare(oldSnap, newSnap)

	if snapshot.NewHasher().Fingerprint(oldSnap.Records) != oldFingerprint {
		t.Error("Compare mutated the old snapshot")
	}
	if snapshot.NewHasher().Fingerprint(newSnap.Records) != newFingerprint {
		t.Error("Compare mutated the new snapshot")
	}
}

func TestToJSONFieldNames(t *testing.T) {
	oldSnap := mustCanonicalize(t, tokenEntry("m1", "2", "fp16"))
	newSnap := mustCanonicalize(t, tokenEntry("m1", "2", "int8"), tokenEntry("m2", "1", "fp16"))

	data, err := NewEngine().Compare(oldSnap, newSnap).ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("report JSON invalid: %v", err)
	}
	for _, key := range []string{"added", "removed", "modified"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("report JSON missing %q", key)
		}
	}

	modified := decoded["modified"].([]interface{})
	entry := modified[0].(map[string]interface{})
	if _, ok := entry["id"]; !ok {
		t.Error("modification missing id")
	}
	if _, ok := entry["changed_fields"]; !ok {
		t.Error("modification missing changed_fields")
	}
}

func TestRenderText(t *testing.T) {
	oldSnap := mustCanonicalize(t, tokenEntry("m1", "2", "fp16"))
	newSnap := mustCanonicalize(t,
		catalog.Entry{Name: "m1", Quantization: "fp16", Deprecated: 100,
			Prices: []catalog.RawPrice{{Amount: json.Number("2"), Unit: "per 1M tokens"}}},
		tokenEntry("m2", "1", "fp16"),
	)

	report := NewEngine().Compare(oldSnap, newSnap)

	var buf bytes.Buffer
	report.RenderText(&buf, false)
	out := buf.String()

	for _, want := range []string{"[ADDED]", "m2", "[DEPRECATED]", "m1", "- deprecated: false", "+ deprecated: true"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderText output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Error("plain output should not contain ANSI escapes")
	}

	buf.Reset()
	report.RenderText(&buf, true)
	if !strings.Contains(buf.String(), "\033[") {
		t.Error("colored output should contain ANSI escapes")
	}
}

func TestRenderTextEmptyReport(t *testing.T) {
	snap := mustCanonicalize(t, tokenEntry("m1", "2", "fp16"))
	report := NewEngine().Compare(snap, snap)

	var buf bytes.Buffer
	report.RenderText(&buf, false)

	if !strings.Contains(buf.String(), "No differences found") {
		t.Errorf("empty report output: %s", buf.String())
	}
}
