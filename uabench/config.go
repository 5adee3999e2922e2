package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vaughan0/go-ini"
)

// The uap-core test files that the logstash useragent filter was
// originally benchmarked against.
var defaultFixtureFiles = []string{
	"additional_os_tests.yaml",
	"firefox_user_agent_strings.yaml",
	"opera_mini_user_agent_strings.yaml",
	"pgts_browser_list.yaml",
	"pgts_browser_list-orig.yaml",
	"test_device.yaml",
	"test_os.yaml",
	"test_ua.yaml",
}

const defaultCacheSize = 1000

type config struct {
	fixtureDir   string
	fixtureFiles []string
	reps         []int
	adapters     []string
	bounds       bounds
	cacheSize    int
	regexesFile  string // empty means the ruleset built into uap-go
	dump         int    // pretty-print this many parse results per adapter
}

func defaultConfig() config {
	return config{
		fixtureDir:   "uap-core/tests",
		fixtureFiles: append([]string(nil), defaultFixtureFiles...),
		reps:         []int{1, 10},
		adapters:     []string{"uap", "cached"},
		bounds:       zeroBased,
		cacheSize:    defaultCacheSize,
	}
}

func (c *config) validate() error {
	if c.fixtureDir == "" {
		return fmt.Errorf("no fixture directory given")
	}
	if len(c.fixtureFiles) == 0 {
		return errNoFixtureFiles
	}
	if len(c.reps) == 0 {
		return fmt.Errorf("no repetition counts given")
	}
	for _, n := range c.reps {
		if n < 1 {
			return fmt.Errorf("bad repetition count %d", n)
		}
	}
	if len(c.adapters) == 0 {
		return fmt.Errorf("no adapters given")
	}
	if c.cacheSize < 1 {
		return fmt.Errorf("bad cache size %d", c.cacheSize)
	}
	return nil
}

// loadConfigFile applies the settings in an INI file on top of c.
//
//	[fixtures]
//	dir = /path/to/uap-core/tests
//	files = test_ua.yaml, test_os.yaml
//
//	[run]
//	reps = 1, 10
//	adapters = uap, cached
//	bounds = zero
//	cache_size = 1000
//	regexes = /path/to/regexes.yaml
func (c *config) loadConfigFile(name string) error {
	f, err := ini.LoadFile(name)
	if err != nil {
		return fmt.Errorf("error loading config (%s): %s", name, err)
	}
	if v, ok := f.Get("fixtures", "dir"); ok {
		c.fixtureDir = v
	}
	if v, ok := f.Get("fixtures", "files"); ok {
		c.fixtureFiles = splitList(v)
	}
	run := f.Section("run")
	if v, ok := run["reps"]; ok {
		if c.reps, err = parseReps(v); err != nil {
			return fmt.Errorf("%s: %s", name, err)
		}
	}
	if v, ok := run["adapters"]; ok {
		c.adapters = splitList(v)
	}
	if v, ok := run["bounds"]; ok {
		if c.bounds, err = parseBounds(v); err != nil {
			return fmt.Errorf("%s: %s", name, err)
		}
	}
	if v, ok := run["cache_size"]; ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: bad cache_size %q", name, v)
		}
		c.cacheSize = n
	}
	if v, ok := run["regexes"]; ok {
		c.regexesFile = v
	}
	return nil
}

func splitList(s string) []string {
	var list []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			list = append(list, f)
		}
	}
	return list
}

func parseReps(s string) ([]int, error) {
	var reps []int
	for _, f := range splitList(s) {
		n, err := strconv.Atoi(f)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("bad repetition count %q", f)
		}
		reps = append(reps, n)
	}
	if len(reps) == 0 {
		return nil, fmt.Errorf("no repetition counts in %q", s)
	}
	return reps, nil
}
