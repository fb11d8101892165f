// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package persist snapshots a computed fragility.Map to a local SQLite
// file and reloads it, so a caller can persist and re-query a sweep
// without recomputing it. This is a supplement beyond the core spec: the
// core itself has no notion of persistence.
package persist

import (
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/tembolo1284/georisk"
	"github.com/tembolo1284/georisk/fragility"
)

const schema = `
CREATE TABLE IF NOT EXISTS fragility_snapshots (
	id         TEXT PRIMARY KEY,
	label      TEXT NOT NULL,
	max_score  REAL NOT NULL,
	mean_score REAL NOT NULL,
	fraction   REAL NOT NULL,
	scores     BLOB NOT NULL,
	regions    BLOB NOT NULL
);`

// Store wraps a SQLite connection holding fragility snapshots.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) a SQLite snapshot store at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, risk.Errf(risk.InvalidArgument, "persist: cannot open %q: %v", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, risk.Errf(risk.InvalidArgument, "persist: cannot create schema: %v", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save snapshots m under label, returning a newly generated snapshot id.
func (s *Store) Save(label string, m *fragility.Map) (string, error) {
	if !m.Computed {
		return "", risk.Errf(risk.NotInitialized, "persist: map has not been computed")
	}
	scoresBlob, err := json.Marshal(m.Scores)
	if err != nil {
		return "", risk.Errf(risk.InvalidArgument, "persist: cannot encode scores: %v", err)
	}
	regions := make([]fragility.Region, m.NumFragileRegions())
	for i := range regions {
		r, err := m.GetRegion(i)
		if err != nil {
			return "", err
		}
		regions[i] = *r
	}
	regionsBlob, err := json.Marshal(regions)
	if err != nil {
		return "", risk.Errf(risk.InvalidArgument, "persist: cannot encode regions: %v", err)
	}

	id := uuid.NewString()
	_, err = s.db.Exec(
		`INSERT INTO fragility_snapshots (id, label, max_score, mean_score, fraction, scores, regions)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, label, m.Stats.Max, m.Stats.Mean, m.Stats.FragileFraction, scoresBlob, regionsBlob,
	)
	if err != nil {
		return "", risk.Errf(risk.InvalidArgument, "persist: cannot insert snapshot: %v", err)
	}
	return id, nil
}

// Snapshot is a reloaded, detached copy of a computed Map's results: it has
// no live StateSpace/Surface and cannot be recomputed.
type Snapshot struct {
	ID      string
	Label   string
	Stats   fragility.Stats
	Scores  []float64
	Regions []fragility.Region
}

// Load reloads a snapshot by id.
func (s *Store) Load(id string) (*Snapshot, error) {
	row := s.db.QueryRow(
		`SELECT label, max_score, mean_score, fraction, scores, regions
		 FROM fragility_snapshots WHERE id = ?`, id,
	)
	var snap Snapshot
	snap.ID = id
	var scoresBlob, regionsBlob []byte
	if err := row.Scan(&snap.Label, &snap.Stats.Max, &snap.Stats.Mean, &snap.Stats.FragileFraction, &scoresBlob, &regionsBlob); err != nil {
		return nil, risk.Errf(risk.InvalidArgument, "persist: cannot load snapshot %q: %v", id, err)
	}
	if err := json.Unmarshal(scoresBlob, &snap.Scores); err != nil {
		return nil, risk.Errf(risk.InvalidArgument, "persist: cannot decode scores: %v", err)
	}
	if err := json.Unmarshal(regionsBlob, &snap.Regions); err != nil {
		return nil, risk.Errf(risk.InvalidArgument, "persist: cannot decode regions: %v", err)
	}
	return &snap, nil
}
