package monitor

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/opd-ai/go-goldenseed"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := OpenStore(filepath.Join(t.TempDir(), "samples.db"))
	assert.NilError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func testReport(runID uuid.UUID, seq uint64) Report {
	return Report{
		RunID:          runID,
		Sequence:       seq,
		Time:           time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Protocol:       goldenseed.ProtocolGCP1,
		Start:          seq * 64,
		Blocks:         64,
		Quality:        goldenseed.QualityGood,
		ShannonEntropy: 7.75,
		Metrics: []goldenseed.Metric{
			{Name: goldenseed.MetricChiSquare, Verdict: goldenseed.VerdictInsufficientData},
		},
		Bias: goldenseed.BiasReport{Distinct: 250, Diversity: 0.97, LongestRun: 2},
	}
}

func TestStorePutGet(t *testing.T) {
	st := openTestStore(t)
	runID := uuid.New()

	want := testReport(runID, 7)
	assert.NilError(t, st.Put(want))

	got, err := st.Get(runID, 7)
	assert.NilError(t, err)
	assert.Check(t, is.DeepEqual(want, got))

	_, err = st.Get(runID, 8)
	assert.Check(t, is.ErrorIs(err, ErrReportNotFound))
}

func TestStoreList(t *testing.T) {
	st := openTestStore(t)
	runA, runB := uuid.New(), uuid.New()

	// Out of order on purpose: keys sort by sequence.
	for _, seq := range []uint64{2, 0, 300, 1} {
		assert.NilError(t, st.Put(testReport(runA, seq)))
	}
	assert.NilError(t, st.Put(testReport(runB, 0)))

	reports, err := st.List(runA)
	assert.NilError(t, err)
	assert.Assert(t, is.Len(reports, 4))
	for i, want := range []uint64{0, 1, 2, 300} {
		assert.Check(t, is.Equal(want, reports[i].Sequence))
		assert.Check(t, is.Equal(runA, reports[i].RunID))
	}

	reports, err = st.List(uuid.New())
	assert.NilError(t, err)
	assert.Check(t, is.Len(reports, 0))

	runs, err := st.Runs()
	assert.NilError(t, err)
	assert.Check(t, is.Len(runs, 2))
	assert.Check(t, is.Contains(runs, runA))
	assert.Check(t, is.Contains(runs, runB))
}

func TestStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "samples.db")
	runID := uuid.New()

	st, err := OpenStore(path)
	assert.NilError(t, err)
	assert.NilError(t, st.Put(testReport(runID, 0)))
	assert.NilError(t, st.Close())

	st, err = OpenStore(path)
	assert.NilError(t, err)
	defer st.Close()

	got, err := st.Get(runID, 0)
	assert.NilError(t, err)
	assert.Check(t, is.Equal(goldenseed.QualityGood, got.Quality))
}
