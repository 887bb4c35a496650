package store

import (
	"database/sql"
	"time"

	"modelwatch/internal/errors"
	"modelwatch/internal/snapshot"
)

// Info describes one stored snapshot without its payload
type Info struct {
	Fingerprint string    `json:"fingerprint"`
	CreatedAt   time.Time `json:"created_at"`
	ModelCount  int       `json:"model_count"`
}

// Put persists a snapshot keyed by its fingerprint. Returns false when a
// snapshot with the same fingerprint is already stored; the existing row
// is left untouched.
func (s *Store) Put(snap *snapshot.Snapshot) (bool, error) {
	data, err := snap.Encode()
	if err != nil {
		return false, err
	}
	payload := s.encoder.EncodeAll(data, nil)

	result, err := s.conn.Exec(`
		INSERT OR IGNORE INTO snapshots (fingerprint, created_at, model_count, payload)
		VALUES (?, ?, ?, ?)
	`, snap.Fingerprint, time.Now().UTC().Format(time.RFC3339), snap.Len(), payload)
	if err != nil {
		return false, errors.New(errors.StoreWriteError, "failed to persist snapshot", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, errors.New(errors.StoreWriteError, "failed to persist snapshot", err)
	}

	created := affected > 0
	if created {
		s.logger.Debug("Stored snapshot", map[string]interface{}{
			"fingerprint": snap.Fingerprint,
			"models":      snap.Len(),
			"payloadSize": len(payload),
		})
	}
	return created, nil
}

// Get loads the snapshot with the given fingerprint.
// Returns SNAPSHOT_NOT_FOUND for unknown fingerprints.
func (s *Store) Get(fingerprint string) (*snapshot.Snapshot, error) {
	var payload []byte
	err := s.conn.QueryRow(
		"SELECT payload FROM snapshots WHERE fingerprint = ?", fingerprint,
	).Scan(&payload)

	if err == sql.ErrNoRows {
		return nil, errors.Newf(errors.SnapshotNotFound, nil,
			"no snapshot stored for fingerprint %s", fingerprint)
	}
	if err != nil {
		return nil, errors.New(errors.InternalError, "snapshot lookup failed", err)
	}

	data, err := s.decoder.DecodeAll(payload, nil)
	if err != nil {
		return nil, errors.New(errors.InternalError, "failed to decompress snapshot payload", err)
	}
	return snapshot.Decode(data)
}

// List returns all stored snapshots, oldest first
func (s *Store) List() ([]Info, error) {
	rows, err := s.conn.Query(`
		SELECT fingerprint, created_at, model_count
		FROM snapshots
		ORDER BY created_at ASC, fingerprint ASC
	`)
	if err != nil {
		return nil, errors.New(errors.InternalError, "failed to list snapshots", err)
	}
	defer rows.Close()

	var infos []Info
	for rows.Next() {
		var info Info
		var createdAt string
		if err := rows.Scan(&info.Fingerprint, &createdAt, &info.ModelCount); err != nil {
			return nil, errors.New(errors.InternalError, "failed to scan snapshot row", err)
		}
		info.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, errors.New(errors.InternalError, "invalid created_at in snapshot row", err)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.New(errors.InternalError, "failed to list snapshots", err)
	}
	return infos, nil
}
