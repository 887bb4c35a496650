package snapshot

import (
	"encoding/json"
	"sort"

	"modelwatch/internal/canonical"
	"modelwatch/internal/errors"
)

// Snapshot is one fingerprinted catalog state: a set of canonical records
// unique by identifier, plus the derived fingerprint. Immutable after
// construction.
type Snapshot struct {
	Fingerprint string             `json:"fingerprint"`
	Records     []canonical.Record `json:"records"`
}

// New builds a snapshot from canonical records. Records are deduplicated
// by identifier (later entries win, matching set semantics) and stored
// sorted by identifier; the fingerprint never depends on input order.
func New(records []canonical.Record) *Snapshot {
	byID := make(map[string]canonical.Record, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}

	members := make([]canonical.Record, 0, len(byID))
	for _, r := range byID {
		members = append(members, r)
	}
	sort.Slice(members, func(i, j int) bool {
		return members[i].ID < members[j].ID
	})

	return &Snapshot{
		Fingerprint: NewHasher().Fingerprint(members),
		Records:     members,
	}
}

// Len returns the number of member records
func (s *Snapshot) Len() int {
	return len(s.Records)
}

// Lookup returns the record with the given identifier
func (s *Snapshot) Lookup(id string) (canonical.Record, bool) {
	i := sort.Search(len(s.Records), func(i int) bool {
		return s.Records[i].ID >= id
	})
	if i < len(s.Records) && s.Records[i].ID == id {
		return s.Records[i], true
	}
	return canonical.Record{}, false
}

// Encode serializes the snapshot to its canonical JSON form.
// Records are already sorted, so the bytes are deterministic.
func (s *Snapshot) Encode() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, errors.New(errors.InternalError, "failed to encode snapshot", err)
	}
	return data, nil
}

// Decode deserializes a stored snapshot and verifies its fingerprint
// against the member records.
func Decode(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.New(errors.InternalError, "failed to decode snapshot", err)
	}

	if got := NewHasher().Fingerprint(s.Records); got != s.Fingerprint {
		return nil, errors.Newf(errors.InternalError, nil,
			"snapshot fingerprint mismatch: stored %s, computed %s", s.Fingerprint, got)
	}
	return &s, nil
}
