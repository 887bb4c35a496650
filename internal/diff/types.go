// Package diff classifies the differences between two stored snapshots
// into a structured change report.
package diff

import "encoding/json"

// FieldChange records one canonical field whose value differs between the
// old and new record
type FieldChange struct {
	Field string `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

// ModelChange collects the field changes for one model present in both
// snapshots
type ModelChange struct {
	ID            string        `json:"id"`
	ChangedFields []FieldChange `json:"changed_fields"`
}

// ChangeReport is the structured output of comparing two snapshots.
// Constructed fresh per comparison; collections are sorted by identifier
// so reports are reproducible regardless of internal storage order.
type ChangeReport struct {
	OldFingerprint string        `json:"old_fingerprint"`
	NewFingerprint string        `json:"new_fingerprint"`
	Added          []string      `json:"added"`
	Removed        []string      `json:"removed"`
	Modified       []ModelChange `json:"modified"`
}

// Empty reports whether the comparison found no differences
func (r *ChangeReport) Empty() bool {
	return len(r.Added) == 0 && len(r.Removed) == 0 && len(r.Modified) == 0
}

// ToJSON returns the report as indented JSON
func (r *ChangeReport) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
