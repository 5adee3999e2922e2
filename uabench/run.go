package main

import (
	"fmt"
	"io"
	"time"

	"github.com/kr/pretty"
)

// runBenchmark loads the fixtures named by cfg, registers each adapter,
// and times every adapter over the fixtures once per repetition count.
func runBenchmark(cfg config, w io.Writer) ([]phaseResult, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	lines, err := loadFixtures(cfg.fixtureDir, cfg.fixtureFiles)
	if err != nil {
		return nil, err
	}
	var adapters []parserAdapter
	for _, name := range cfg.adapters {
		a, err := newAdapter(name, cfg)
		if err != nil {
			return nil, err
		}
		if err := a.Register(); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		adapters = append(adapters, a)
	}
	results, err := runPhases(w, &driver{lines: lines, bounds: cfg.bounds}, adapters, cfg.reps)
	if err != nil {
		return results, err
	}
	// Dump after timing so that the cached adapter starts cold.
	if cfg.dump > 0 {
		if err := dumpResults(w, lines, adapters, cfg.dump); err != nil {
			return results, err
		}
	}
	return results, nil
}

// runPhases prints a group marker and a timestamp for each repetition
// count, then runs one phase per adapter, printing a timestamp after each.
// The results gathered so far are returned along with the first error.
func runPhases(w io.Writer, d *driver, adapters []parserAdapter, reps []int) ([]phaseResult, error) {
	var results []phaseResult
	for _, n := range reps {
		marker := groupMarker(n)
		fmt.Fprintln(w, marker)
		printTimestamp(w, time.Now())
		for _, a := range adapters {
			r, err := d.runPhase(phase{Label: marker, Adapter: a, Reps: n})
			if err != nil {
				return results, err
			}
			results = append(results, r)
			printTimestamp(w, r.End)
		}
	}
	return results, nil
}

func dumpResults(w io.Writer, lines []string, adapters []parserAdapter, n int) error {
	if n > len(lines) {
		n = len(lines)
	}
	for _, a := range adapters {
		for _, line := range lines[:n] {
			client, err := a.Lookup(line)
			if err != nil {
				return err
			}
			pretty.Fprintf(w, "%s %q:\n%# v\n", a.Name(), line, client)
		}
	}
	return nil
}
