package directory

import (
	"fmt"
	"sync"
)

// Source fetches raw master directory records from wherever they live
// (postgres table, CSV export, remote API). Implementations belong to the
// collaborator layer; the core only ever sees resolved records.
type Source interface {
	Fetch() ([]PincodeRecord, error)
}

// Loader memoizes the one-time directory load. Concurrent callers awaiting
// the first load all resolve against the same instance instead of triggering
// duplicate fetches. Refresh forces a reload for callers that know the
// underlying source changed.
type Loader struct {
	source Source

	mu     sync.Mutex
	cached *Directory
	err    error
	loaded bool
}

// NewLoader creates a loader over the given source. No fetch happens until
// the first Directory call.
func NewLoader(source Source) *Loader {
	return &Loader{source: source}
}

// Directory returns the loaded directory, fetching from the source exactly
// once. A failed load is also memoized; use Refresh to retry.
func (l *Loader) Directory() (*Directory, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.loaded {
		return l.cached, l.err
	}
	return l.loadLocked()
}

// Refresh discards the cached directory and fetches from the source again.
func (l *Loader) Refresh() (*Directory, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.loaded = false
	l.cached = nil
	l.err = nil
	return l.loadLocked()
}

func (l *Loader) loadLocked() (*Directory, error) {
	records, err := l.source.Fetch()
	if err != nil {
		l.loaded = true
		l.err = fmt.Errorf("failed to fetch master directory: %w", err)
		return nil, l.err
	}

	l.cached, l.err = Load(records)
	l.loaded = true
	return l.cached, l.err
}
