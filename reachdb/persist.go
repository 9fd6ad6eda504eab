package reachdb

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// schemaVersion identifies the on-disk layout. Bumped whenever diskRecord's
// shape changes in a way that breaks decoding of older files.
const schemaVersion = 1

// diskFormat is the self-describing, versioned on-disk layout (spec §4.2,
// §6): a schema version plus every record in stable order. Nothing about
// the layout beyond "successful save followed by load reproduces the
// aggregates" (spec §8 invariant 7) is guaranteed across major versions
// (spec §1 non-goals).
type diskFormat struct {
	SchemaVersion int      `json:"schema_version"`
	Records       []Record `json:"records"`
}

// Save writes the database to path atomically: it encodes to a temp file
// in the same directory and renames it over path, so a concurrent reader
// never observes a partially written file (spec §6 "save writes
// atomically (write-to-temp, rename)").
func (db *Database) Save(path string) error {
	df := diskFormat{
		SchemaVersion: schemaVersion,
		Records:       db.Snapshot(),
	}
	data, err := json.MarshalIndent(df, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding database")
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".reachdb-*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	tmpPath := tmp.Name()
	defer func() {
		// Best-effort cleanup; a successful rename makes this a no-op since
		// the path no longer exists under tmpPath.
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "writing temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return errors.Wrap(err, "renaming temp file into place")
	}
	return nil
}

// Load reads a database previously written by Save. It returns a wrapped
// error if the file cannot be read or decoded (Engine.Load reports any
// such error as a CorruptDatabaseError). Load performs no joint-name
// check; LoadAndValidate adds one for hosts that have a bound solver.
func Load(path string) (*Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading database file")
	}
	var df diskFormat
	if err := json.Unmarshal(data, &df); err != nil {
		return nil, errors.Wrap(err, "decoding database file")
	}

	db := New()
	for _, r := range df.Records {
		if err := db.Insert(r); err != nil {
			return nil, errors.Wrapf(err, "loading record %q", r.ID)
		}
	}
	return db, nil
}

// LoadAndValidate is Load followed by a check of every record against
// Record.Valid: every reached record's GoalState must be a superset of
// activeJoints, the current IKSolver's joint_names(), and every unreached
// record must score zero. Joints in a GoalState that are not in
// activeJoints are not rejected.
func LoadAndValidate(path string, activeJoints []string) (*Database, error) {
	db, err := Load(path)
	if err != nil {
		return nil, err
	}
	var invalid []string
	db.Iter(func(r Record) bool {
		if !r.Valid(activeJoints) {
			invalid = append(invalid, r.ID)
		}
		return true
	})
	if len(invalid) > 0 {
		return nil, errors.Errorf("database records fail validation against the current solver's joint_names(): %v", invalid)
	}
	return db, nil
}
