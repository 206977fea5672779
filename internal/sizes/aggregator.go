// Package sizes computes aggregate byte sizes of copied files and folders on
// a shared worker pool, off the coordinator goroutine. Partial sums are
// preferred to failure: unreadable entries contribute zero and the
// aggregation always terminates.
package sizes

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// Result is the one-shot hand-off of a finished aggregation back to the
// coordinating context. Text is the display template with the formatted
// total substituted in.
type Result struct {
	ID   uuid.UUID
	Text string
}

// Aggregator dispatches per-path size tasks onto a shared pool and delivers
// exactly one Result per Start call on the results channel.
type Aggregator struct {
	fs      afero.Fs
	pool    *Pool
	results chan<- Result
}

// NewAggregator returns an aggregator delivering to results. Delivery waits
// for a receiver; the result is never dropped.
func NewAggregator(fs afero.Fs, pool *Pool, results chan<- Result) *Aggregator {
	return &Aggregator{fs: fs, pool: pool, results: results}
}

// Start dispatches one task per top-level path and joins the per-path sums,
// formats the total into template, and hands the final string off keyed by
// id. Start itself never blocks: dispatch and join run on a dedicated
// goroutine, so a saturated pool stalls only that goroutine, never the
// caller. Pool workers carry per-path work exclusively. There is no ordering
// guarantee among per-path completions; only the aggregate delivery is
// observable.
func (a *Aggregator) Start(id uuid.UUID, paths []string, template string) {
	go func() {
		sums := make(chan int64, len(paths))
		for _, path := range paths {
			a.pool.Submit(func() { sums <- a.pathSize(path) })
		}
		var total int64
		for range paths {
			total += <-sums
		}
		a.results <- Result{ID: id, Text: strings.Replace(template, Placeholder, Format(total), 1)}
	}()
}

// pathSize returns the byte size of a file or the recursive sum of a
// directory. Any per-entry error counts as zero.
func (a *Aggregator) pathSize(path string) int64 {
	info, err := a.fs.Stat(path)
	if err != nil {
		slog.Debug("size: stat failed", "path", path, "err", err)
		return 0
	}
	if !info.IsDir() {
		return info.Size()
	}

	entries, err := afero.ReadDir(a.fs, path)
	if err != nil {
		slog.Debug("size: readdir failed", "path", path, "err", err)
		return 0
	}
	var total int64
	for _, e := range entries {
		if e.IsDir() {
			total += a.pathSize(filepath.Join(path, e.Name()))
		} else {
			total += e.Size()
		}
	}
	return total
}
