package main

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"strings"
	"testing"
	"time"
)

func testConfig() config {
	cfg := defaultConfig()
	cfg.fixtureDir = "testdata"
	cfg.fixtureFiles = []string{"test_ua.yaml", "test_os.yaml", "test_device.yaml"}
	return cfg
}

func checkTimestamp(t *testing.T, i int, line string) {
	t.Helper()
	if _, err := time.Parse(timestampLayout, line); err != nil {
		t.Errorf("line %d: got %q; want a timestamp", i, line)
	}
}

func TestRunBenchmark(t *testing.T) {
	var buf bytes.Buffer
	results, err := runBenchmark(testConfig(), &buf)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 8 {
		t.Fatalf("got %d output lines; want 8:\n%s", len(lines), buf.String())
	}
	for i, line := range lines {
		switch i {
		case 0:
			if line != "missing" {
				t.Errorf("line %d: got %q; want %q", i, line, "missing")
			}
		case 4:
			if line != "hitting 10x" {
				t.Errorf("line %d: got %q; want %q", i, line, "hitting 10x")
			}
		default:
			checkTimestamp(t, i, line)
		}
	}

	if len(results) != 4 {
		t.Fatalf("got %d results; want 4", len(results))
	}
	for i, want := range []struct {
		adapter string
		reps    int
		lookups int
		cached  bool
		hits    int
		misses  int
	}{
		{"uap", 1, 7, false, 0, 0},
		{"cached", 1, 7, true, 0, 7},
		{"uap", 10, 70, false, 0, 0},
		{"cached", 10, 70, true, 70, 0},
	} {
		r := results[i]
		if r.Adapter != want.adapter || r.Reps != want.reps || r.Lookups != want.lookups {
			t.Errorf("result %d: got %s reps=%d lookups=%d; want %s reps=%d lookups=%d",
				i, r.Adapter, r.Reps, r.Lookups, want.adapter, want.reps, want.lookups)
		}
		if r.Cached != want.cached || r.Hits != want.hits || r.Misses != want.misses {
			t.Errorf("result %d: got cached=%t hits=%d misses=%d; want cached=%t hits=%d misses=%d",
				i, r.Cached, r.Hits, r.Misses, want.cached, want.hits, want.misses)
		}
		if i > 0 && r.Start.Before(results[i-1].End) {
			t.Errorf("result %d started before result %d ended", i, i-1)
		}
	}
}

func TestRunBenchmarkLegacyBounds(t *testing.T) {
	cfg := testConfig()
	cfg.adapters = []string{"cached"}
	cfg.bounds = legacyOneBased
	var buf bytes.Buffer
	results, err := runBenchmark(cfg, &buf)
	var ie *indexError
	if !errors.As(err, &ie) {
		t.Fatalf("got err %v; want an *indexError", err)
	}
	if ie.Index != 7 || ie.Len != 7 {
		t.Errorf("got %+v; want index 7 of 7", *ie)
	}
	if len(results) != 0 {
		t.Errorf("got %d results; want none", len(results))
	}
	if !strings.HasPrefix(buf.String(), "missing\n") {
		t.Errorf("output does not start with the missing marker:\n%s", buf.String())
	}
}

func TestRunBenchmarkErrors(t *testing.T) {
	for _, tt := range []struct {
		name   string
		modify func(*config)
	}{
		{"missing fixture", func(c *config) { c.fixtureFiles = append(c.fixtureFiles, "missing.yaml") }},
		{"unknown adapter", func(c *config) { c.adapters = []string{"uap", "ruby"} }},
		{"bad reps", func(c *config) { c.reps = []int{0} }},
		{"bad regexes", func(c *config) { c.regexesFile = "testdata/missing-regexes.yaml" }},
	} {
		cfg := testConfig()
		tt.modify(&cfg)
		var buf bytes.Buffer
		if _, err := runBenchmark(cfg, &buf); err == nil {
			t.Errorf("%s: got nil error", tt.name)
		}
		if buf.Len() != 0 {
			t.Errorf("%s: got output before failing setup:\n%s", tt.name, buf.String())
		}
	}
}

func TestRunBenchmarkDump(t *testing.T) {
	cfg := testConfig()
	cfg.adapters = []string{"uap"}
	cfg.reps = []int{1}
	cfg.dump = 2
	var buf bytes.Buffer
	if _, err := runBenchmark(cfg, &buf); err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(buf.String(), "uap \""); got != 2 {
		t.Errorf("got %d dumped results; want 2:\n%s", got, buf.String())
	}
	if !strings.Contains(buf.String(), "Chrome") {
		t.Errorf("dump does not mention Chrome:\n%s", buf.String())
	}
}

func TestRunPhasesOrder(t *testing.T) {
	a := &fakeAdapter{name: "a"}
	b := &fakeAdapter{name: "b"}
	d := &driver{lines: fiveLines, bounds: zeroBased}
	var buf bytes.Buffer
	results, err := runPhases(&buf, d, []parserAdapter{a, b}, []int{1, 10})
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, r := range results {
		got = append(got, r.Label+"/"+r.Adapter)
	}
	want := "missing/a missing/b hitting 10x/a hitting 10x/b"
	if strings.Join(got, " ") != want {
		t.Errorf("got phases %q; want %q", strings.Join(got, " "), want)
	}
	if len(a.lookups) != 55 || len(b.lookups) != 55 {
		t.Errorf("got %d and %d lookups; want 55 each", len(a.lookups), len(b.lookups))
	}
}

func TestRunPhasesStopsOnError(t *testing.T) {
	a := &fakeAdapter{name: "a"}
	b := &fakeAdapter{name: "b", failOn: "ua3"}
	d := &driver{lines: fiveLines, bounds: zeroBased}
	var buf bytes.Buffer
	results, err := runPhases(&buf, d, []parserAdapter{a, b}, []int{1, 10})
	if err != errFake {
		t.Fatalf("got err %v; want %v", err, errFake)
	}
	if len(results) != 1 {
		t.Errorf("got %d results; want 1", len(results))
	}
	if len(a.lookups) != 5 {
		t.Errorf("adapter a: got %d lookups; want 5", len(a.lookups))
	}
}

func TestRunBenchmarkRegisterErrorChain(t *testing.T) {
	cfg := testConfig()
	cfg.adapters = []string{"cached"}
	cfg.regexesFile = "testdata/missing-regexes.yaml"
	_, err := runBenchmark(cfg, io.Discard)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("got err %v; want one wrapping %v", err, fs.ErrNotExist)
	}
	if err != nil && !strings.HasPrefix(err.Error(), "cached: ") {
		t.Errorf("got err %q; want it prefixed with the adapter name", err)
	}
}
