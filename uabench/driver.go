package main

import "fmt"

// bounds selects which fixture indexes a phase visits.
type bounds int

const (
	// zeroBased visits indexes 0 through N-1.
	zeroBased bounds = iota
	// legacyOneBased visits indexes 1 through N, the way the original
	// logstash timing script did: element 0 is never looked up and the
	// final index is out of range.
	legacyOneBased
)

func (b bounds) String() string {
	switch b {
	case zeroBased:
		return "zero"
	case legacyOneBased:
		return "legacy"
	default:
		return fmt.Sprintf("bounds(%d)", int(b))
	}
}

func parseBounds(s string) (bounds, error) {
	switch s {
	case "zero":
		return zeroBased, nil
	case "legacy":
		return legacyOneBased, nil
	default:
		return 0, fmt.Errorf("unknown bounds %q (want zero or legacy)", s)
	}
}

// indexRange returns the first and last (inclusive) index visited over a
// sequence of length n.
func (b bounds) indexRange(n int) (first, last int) {
	if b == legacyOneBased {
		return 1, n
	}
	return 0, n - 1
}

// An indexError reports an access past the end of the fixture sequence.
type indexError struct {
	Index int
	Len   int
}

func (e *indexError) Error() string {
	return fmt.Sprintf("fixture index %d out of range [0:%d]", e.Index, e.Len)
}

type phase struct {
	Label   string
	Adapter parserAdapter
	Reps    int
}

type phaseResult struct {
	Label   string
	Adapter string
	Reps    int
	Lookups int

	// Cache hits and misses during this phase; only set when the
	// adapter keeps a cache.
	Cached bool
	Hits   int
	Misses int

	timing
}

type driver struct {
	lines  []string
	bounds bounds
}

// runPhase looks up every visited fixture p.Reps times in a row and
// discards the results. The first adapter error ends the phase.
func (d *driver) runPhase(p phase) (result phaseResult, err error) {
	result = phaseResult{
		Label:   p.Label,
		Adapter: p.Adapter.Name(),
		Reps:    p.Reps,
	}
	cc, cached := p.Adapter.(cacheCounter)
	var hits0, misses0 int
	if cached {
		hits0, misses0 = cc.cacheStats()
	}
	sw := startStopwatch()
	defer func() {
		result.timing = sw.stop()
		if cached {
			hits, misses := cc.cacheStats()
			result.Cached = true
			result.Hits = hits - hits0
			result.Misses = misses - misses0
		}
	}()

	first, last := d.bounds.indexRange(len(d.lines))
	for i := first; i <= last; i++ {
		if i < 0 || i >= len(d.lines) {
			return result, &indexError{Index: i, Len: len(d.lines)}
		}
		for r := 0; r < p.Reps; r++ {
			if _, err := p.Adapter.Lookup(d.lines[i]); err != nil {
				return result, err
			}
			result.Lookups++
		}
	}
	return result, nil
}
