package reachdb

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/collinthornton/reach/referenceframe"
	"github.com/collinthornton/reach/spatialmath"
)

func mkRecord(id string, reached bool, score float64) Record {
	r := Record{
		ID:      id,
		Goal:    spatialmath.NewPoseFromPoint(r3.Vector{}),
		Reached: reached,
		Score:   score,
	}
	if reached {
		r.SeedState = referenceframe.JointPositions{"j1": {Value: 0}}
		r.GoalState = referenceframe.JointPositions{"j1": {Value: 1}}
	}
	return r
}

func TestInsertGetUpdate(t *testing.T) {
	db := New()
	test.That(t, db.Insert(mkRecord("000", true, 1.5)), test.ShouldBeNil)
	test.That(t, db.Size(), test.ShouldEqual, 1)

	r, ok := db.Get("000")
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, r.Score, test.ShouldEqual, 1.5)

	test.That(t, db.Insert(mkRecord("000", true, 2.0)), test.ShouldNotBeNil)

	r.Score = 9
	test.That(t, db.Update("000", r), test.ShouldBeNil)
	r2, _ := db.Get("000")
	test.That(t, r2.Score, test.ShouldEqual, 9.0)

	test.That(t, db.Update("missing", r), test.ShouldNotBeNil)
}

func TestGetReturnsCopyNotAlias(t *testing.T) {
	db := New()
	test.That(t, db.Insert(mkRecord("000", true, 1.0)), test.ShouldBeNil)
	r, _ := db.Get("000")
	r.GoalState["j1"] = referenceframe.Input{Value: 999}

	r2, _ := db.Get("000")
	test.That(t, r2.GoalState["j1"].Value, test.ShouldEqual, 1.0)
}

func TestResultsMemoizationInvalidatesOnUpdate(t *testing.T) {
	db := New()
	test.That(t, db.Insert(mkRecord("000", true, 1.0)), test.ShouldBeNil)
	test.That(t, db.Insert(mkRecord("001", false, 0)), test.ShouldBeNil)

	res := db.Results()
	test.That(t, res.ReachFraction, test.ShouldEqual, 0.5)
	test.That(t, res.TotalPoseScore, test.ShouldEqual, 1.0)

	r, _ := db.Get("001")
	r.Reached = true
	r.Score = 3.0
	r.GoalState = referenceframe.JointPositions{"j1": {Value: 0}}
	test.That(t, db.Update("001", r), test.ShouldBeNil)

	res2 := db.Results()
	test.That(t, res2.ReachFraction, test.ShouldEqual, 1.0)
	test.That(t, res2.TotalPoseScore, test.ShouldEqual, 4.0)
}

func TestJointScoreVariation(t *testing.T) {
	db := New()
	test.That(t, db.Insert(mkRecord("000", true, 2.0)), test.ShouldBeNil)
	test.That(t, db.Insert(mkRecord("001", true, 4.0)), test.ShouldBeNil)
	res := db.Results()
	// population stddev of {2,4}: mean=3, variance=((1)^2+(1)^2)/2=1, std=1
	test.That(t, res.JointScoreVariation, test.ShouldAlmostEqual, 1.0)
}

func TestConcurrentUpdatesArePerRecordSafe(t *testing.T) {
	db := New()
	for i := 0; i < 50; i++ {
		test.That(t, db.Insert(mkRecord(idFor(i), false, 0)), test.ShouldBeNil)
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := idFor(i)
			r, _ := db.Get(id)
			r.Reached = true
			r.Score = float64(i)
			r.GoalState = referenceframe.JointPositions{"j1": {Value: float64(i)}}
			_ = db.Update(id, r)
		}(i)
	}
	wg.Wait()

	res := db.Results()
	test.That(t, res.ReachedCount, test.ShouldEqual, 50)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	db := New()
	for i := 0; i < 10; i++ {
		test.That(t, db.Insert(mkRecord(idFor(i), i%2 == 0, float64(i))), test.ShouldBeNil)
	}
	before := db.Results()

	dir := t.TempDir()
	path := filepath.Join(dir, "db.json")
	test.That(t, db.Save(path), test.ShouldBeNil)

	loaded, err := Load(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, loaded.Size(), test.ShouldEqual, db.Size())

	after := loaded.Results()
	test.That(t, after, test.ShouldResemble, before)
}

func TestSaveIsAtomic(t *testing.T) {
	db := New()
	test.That(t, db.Insert(mkRecord("000", true, 1.0)), test.ShouldBeNil)

	dir := t.TempDir()
	path := filepath.Join(dir, "db.json")
	test.That(t, db.Save(path), test.ShouldBeNil)

	entries, err := os.ReadDir(dir)
	test.That(t, err, test.ShouldBeNil)
	// Only the final file should remain; no leftover temp file.
	test.That(t, len(entries), test.ShouldEqual, 1)
	test.That(t, entries[0].Name(), test.ShouldEqual, "db.json")
}

func TestLoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	test.That(t, os.WriteFile(path, []byte("not json"), 0o600), test.ShouldBeNil)

	_, err := Load(path)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestLoadAndValidateCatchesMissingJoints(t *testing.T) {
	db := New()
	r := mkRecord("000", true, 1.0)
	test.That(t, db.Insert(r), test.ShouldBeNil)

	dir := t.TempDir()
	path := filepath.Join(dir, "db.json")
	test.That(t, db.Save(path), test.ShouldBeNil)

	_, err := LoadAndValidate(path, []string{"j1", "j2"})
	test.That(t, err, test.ShouldNotBeNil)

	loaded, err := LoadAndValidate(path, []string{"j1"})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, loaded.Size(), test.ShouldEqual, 1)
}

func idFor(i int) string {
	return fmt.Sprintf("%04d", i)
}
