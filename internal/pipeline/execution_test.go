package pipeline

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/rentroll/internal/calendar"
	"github.com/theirongolddev/rentroll/internal/source"
)

func TestExecution(t *testing.T) {
	r := Execution(parkInput(), 2024)
	require.Len(t, r.Months, 12)
	assert.Equal(t, 131000.0, r.TotalBudget)
	assert.Equal(t, 20500.0, r.TotalActual)
	assert.Equal(t, 37000.0, r.Months[2].Budget)
	assert.Equal(t, 20500.0, r.Months[2].Actual)
	assert.Equal(t, 3, r.Months[2].Month)
	assert.InDelta(t, 15.6489, r.CompletionRate, 1e-3)
}

func TestCompletionRate(t *testing.T) {
	assert.Zero(t, CompletionRate(100, 0))
	assert.Equal(t, 150.0, CompletionRate(150, 100), "over-collection is not capped")
	assert.Equal(t, 100.0, DisplayRate(150))
	assert.Zero(t, DisplayRate(-3))
}

func TestYearRange(t *testing.T) {
	var mu sync.Mutex
	var calls, last int
	years := []int{2023, 2024, 2025}
	got := YearRange(parkInput(), years, func(current, total int) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if current > last {
			last = current
		}
		assert.Equal(t, 3, total)
	})

	require.Len(t, got, 3)
	for i, m := range got {
		assert.Equal(t, years[i], m.Year)
	}
	assert.Equal(t, 131000.0, got[1].TotalRevenue)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, last)
	assert.Empty(t, YearRange(parkInput(), nil, nil))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), source.FileName)
	doc := park()
	require.NoError(t, source.WriteDocument(path, doc, false))

	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	res, err := Load(path, now)
	require.NoError(t, err)
	assert.Equal(t, path, res.Path)
	assert.Equal(t, now, res.LoadedAt)
	assert.Len(t, res.Document.Tenants, 2)
	assert.Empty(t, res.Issues)

	doc.Tenants[0].LeaseEnd = calendar.Date{}
	require.NoError(t, source.WriteDocument(path, doc, false))
	res, err = Load(path, now)
	require.NoError(t, err)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, "leaseEnd", res.Issues[0].Field)
}
