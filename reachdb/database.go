package reachdb

import (
	"sync"

	"github.com/pkg/errors"
)

// ErrDuplicateID is returned by Insert when a record's ID already exists.
var ErrDuplicateID = errors.New("duplicate record id")

// ErrNotFound is returned by Update when no record exists for the given id.
var ErrNotFound = errors.New("record not found")

// entry pairs a Record with the mutex that guards it, giving the Database
// per-record mutual exclusion on write while permitting concurrent reads
// against a consistent snapshot (spec §5 "Shared resources").
type entry struct {
	mu  sync.Mutex
	rec Record
}

// Database is the ordered id -> Record collection described in spec §3/§4.2.
// The zero value is not usable; construct with New.
type Database struct {
	// structureMu guards ids/index, which only change during population
	// (Insert). No insertions happen concurrently with Update/Get/Iter in
	// this engine's lifecycle (population precedes optimization), but the
	// lock makes that assumption enforceable rather than implicit.
	structureMu sync.RWMutex
	ids         []string
	index       map[string]*entry

	resultsMu     sync.Mutex
	cachedResults *StudyResults
}

// New returns an empty Database.
func New() *Database {
	return &Database{index: make(map[string]*entry)}
}

// Insert adds a new record. Returns ErrDuplicateID if r.ID already exists.
func (db *Database) Insert(r Record) error {
	db.structureMu.Lock()
	defer db.structureMu.Unlock()
	if _, ok := db.index[r.ID]; ok {
		return errors.Wrapf(ErrDuplicateID, "id %q", r.ID)
	}
	db.index[r.ID] = &entry{rec: r.Clone()}
	db.ids = append(db.ids, r.ID)
	db.invalidate()
	return nil
}

// Get returns a copy of the record for id.
func (db *Database) Get(id string) (Record, bool) {
	db.structureMu.RLock()
	e, ok := db.index[id]
	db.structureMu.RUnlock()
	if !ok {
		return Record{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rec.Clone(), true
}

// Update replaces the record for id, taking that record's exclusive lock
// for the duration. It is the only mutator (spec §4.2) and invalidates the
// cached StudyResults.
func (db *Database) Update(id string, r Record) error {
	db.structureMu.RLock()
	e, ok := db.index[id]
	db.structureMu.RUnlock()
	if !ok {
		return errors.Wrapf(ErrNotFound, "id %q", id)
	}
	e.mu.Lock()
	e.rec = r.Clone()
	e.mu.Unlock()
	db.invalidate()
	return nil
}

// Size returns the number of records in the database.
func (db *Database) Size() int {
	db.structureMu.RLock()
	defer db.structureMu.RUnlock()
	return len(db.ids)
}

// Iter calls fn for every record, in stable insertion order, stopping early
// if fn returns false. Each Record passed to fn is a snapshot copy.
func (db *Database) Iter(fn func(Record) bool) {
	for _, r := range db.Snapshot() {
		if !fn(r) {
			return
		}
	}
}

// Snapshot returns a copy of every record in stable insertion order. This
// is the "end-of-previous-step snapshot" spec §4.5 requires the
// Optimization Loop's neighbor reads to observe: callers take one Snapshot
// per step and read from it exclusively for that step's neighbor lookups.
func (db *Database) Snapshot() []Record {
	db.structureMu.RLock()
	entries := make([]*entry, len(db.ids))
	for i, id := range db.ids {
		entries[i] = db.index[id]
	}
	db.structureMu.RUnlock()

	out := make([]Record, len(entries))
	for i, e := range entries {
		e.mu.Lock()
		out[i] = e.rec.Clone()
		e.mu.Unlock()
	}
	return out
}

// Results returns the memoized StudyResults, recomputing if the cache has
// been invalidated by an intervening Insert/Update.
func (db *Database) Results() StudyResults {
	db.resultsMu.Lock()
	defer db.resultsMu.Unlock()
	if db.cachedResults != nil {
		return *db.cachedResults
	}
	r := computeResults(db.Snapshot())
	db.cachedResults = &r
	return r
}

func (db *Database) invalidate() {
	db.resultsMu.Lock()
	db.cachedResults = nil
	db.resultsMu.Unlock()
}
