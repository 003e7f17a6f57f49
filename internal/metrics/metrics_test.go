package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderCounters(t *testing.T) {
	r := NewRecorder()

	r.CellsTotal.WithLabelValues("Notes", "Positive").Add(3)
	r.CellsTotal.WithLabelValues("Notes", "Neutral").Inc()
	r.FailuresTotal.WithLabelValues("Notes").Inc()
	r.RowsLoaded.Set(4)

	assert.Equal(t, 3.0, testutil.ToFloat64(r.CellsTotal.WithLabelValues("Notes", "Positive")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.FailuresTotal.WithLabelValues("Notes")))
	assert.Equal(t, 4.0, testutil.ToFloat64(r.RowsLoaded))
	assert.Equal(t, 2, testutil.CollectAndCount(r.CellsTotal))
}

func TestRecordersAreIndependent(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	a.RowsLoaded.Set(10)
	assert.Equal(t, 0.0, testutil.ToFloat64(b.RowsLoaded))
}

func TestWriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.RowsLoaded.Set(7)
	r.RunDuration.Set(1.5)

	path := filepath.Join(t.TempDir(), "sentimentcsv.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "sentimentcsv_rows_loaded 7")
	assert.Contains(t, string(data), "sentimentcsv_run_duration_seconds 1.5")
}
