package pipeline

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/theirongolddev/rentroll/internal/model"
	"github.com/theirongolddev/rentroll/internal/source"
)

// LoadResult holds a loaded document and what validation found in it.
type LoadResult struct {
	Path     string
	Document model.Document
	Issues   []source.Issue
	LoadedAt time.Time
}

// ProgressFunc is called during multi-year computations to report progress.
// current is the number of years computed so far, total is the total count.
type ProgressFunc func(current, total int)

// Load reads and validates the data file at path.
func Load(path string, now time.Time) (*LoadResult, error) {
	doc, err := source.ReadDocument(path, now)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return &LoadResult{
		Path:     path,
		Document: doc,
		Issues:   source.Validate(doc),
		LoadedAt: now,
	}, nil
}

// YearRange computes YearMetrics for every year in years. Each year is an
// independent pass over the input, so years run on a bounded worker pool.
// Results keep the order of years.
func YearRange(in Input, years []int, progressFn ProgressFunc) []model.YearMetrics {
	results := make([]model.YearMetrics, len(years))
	if len(years) == 0 {
		return results
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(years) {
		numWorkers = len(years)
	}

	work := make(chan int, len(years))
	for i := range years {
		work <- i
	}
	close(work)

	var wg sync.WaitGroup
	var processed atomic.Int64
	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = YearMetrics(in, years[idx])
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n), len(years))
				}
			}
		}()
	}
	wg.Wait()

	return results
}
