// Package monitor orchestrates a single catalog poll: fetch the raw
// catalog, canonicalize every entry, assemble a fingerprinted snapshot
// and persist it.
package monitor

import (
	"context"

	"modelwatch/internal/canonical"
	"modelwatch/internal/catalog"
	"modelwatch/internal/errors"
	"modelwatch/internal/logging"
	"modelwatch/internal/snapshot"
	"modelwatch/internal/store"
)

// Fetcher retrieves the raw model catalog.
type Fetcher interface {
	Fetch(ctx context.Context) ([]catalog.Entry, error)
}

// Runner executes monitor runs against a snapshot store.
type Runner struct {
	fetcher       Fetcher
	canonicalizer *canonical.Canonicalizer
	store         *store.Store
	logger        *logging.Logger
}

// NewRunner creates a runner. A nil canonicalizer uses the default
// normalizer and alias table.
func NewRunner(fetcher Fetcher, canonicalizer *canonical.Canonicalizer, st *store.Store, logger *logging.Logger) *Runner {
	if canonicalizer == nil {
		canonicalizer = canonical.NewCanonicalizer(nil, nil)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{
		fetcher:       fetcher,
		canonicalizer: canonicalizer,
		store:         st,
		logger:        logger,
	}
}

// Result describes the outcome of a single run.
type Result struct {
	Fingerprint string `json:"fingerprint"`
	Created     bool   `json:"created"`
	ModelCount  int    `json:"model_count"`
	Skipped     int    `json:"skipped"`
}

// Run performs one poll cycle. A fetch failure aborts the run without
// touching the store. Entries whose prices cannot be normalized are
// skipped with a warning; the rest still form a snapshot. If the
// snapshot cannot be persisted, Run returns the computed result
// alongside the store error so callers can still report the
// fingerprint.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	entries, err := r.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("catalog fetched", map[string]interface{}{
		"entries": len(entries),
	})

	records := make([]canonical.Record, 0, len(entries))
	skipped := 0
	for _, entry := range entries {
		record, cerr := r.canonicalizer.Canonicalize(entry)
		if cerr != nil {
			if !errors.HasCode(cerr, errors.NormalizationError) {
				return nil, cerr
			}
			skipped++
			r.logger.Warn("skipping entry with unparseable pricing", map[string]interface{}{
				"model": entry.Key(),
				"error": cerr.Error(),
			})
			continue
		}
		records = append(records, record)
	}

	snap := snapshot.New(records)
	result := &Result{
		Fingerprint: snap.Fingerprint,
		ModelCount:  snap.Len(),
		Skipped:     skipped,
	}

	created, err := r.store.Put(snap)
	if err != nil {
		return result, err
	}
	result.Created = created

	if created {
		r.logger.Info("snapshot stored", map[string]interface{}{
			"fingerprint": snap.Fingerprint,
			"models":      snap.Len(),
			"skipped":     skipped,
		})
	} else {
		r.logger.Info("catalog unchanged", map[string]interface{}{
			"fingerprint": snap.Fingerprint,
		})
	}
	return result, nil
}
