// Command uabench times user agent parsers against the uap-core test
// fixtures.
//
// Each adapter is run over every fixture once (the "missing" group, where
// caches are cold) and then ten times per fixture (the "hitting 10x"
// group). A timestamp is printed before each group and after each phase,
// followed by a summary table.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/felixge/fgprof"
)

func main() {
	log.SetFlags(0)

	cfg := defaultConfig()
	var (
		configFile = flag.String("config", "", "INI file with [fixtures] and [run] settings")
		profile    = flag.String("fgprof", "", "Write a wall-clock profile of the run to this file")
		jsonOut    = flag.String("json", "", "Write a JSON report to this file")
		upload     = flag.String("upload", "", "Upload the JSON report to this s3://bucket/key")
	)
	defineFlags(flag.CommandLine, cfg)
	flag.Parse()

	if *configFile != "" {
		if err := cfg.loadConfigFile(*configFile); err != nil {
			log.Fatal(err)
		}
	}
	if err := applyFlags(&cfg, flag.CommandLine); err != nil {
		log.Fatal(err)
	}
	if err := run(cfg, *profile, *jsonOut, *upload); err != nil {
		log.Fatal(err)
	}
}

// defineFlags adds a flag for each config setting, defaulting to cfg.
func defineFlags(fs *flag.FlagSet, cfg config) {
	reps := make([]string, len(cfg.reps))
	for i, n := range cfg.reps {
		reps[i] = strconv.Itoa(n)
	}
	fs.String("dir", cfg.fixtureDir, "Directory holding the fixture files")
	fs.String("files", strings.Join(cfg.fixtureFiles, ","), "Comma-separated fixture file names")
	fs.String("reps", strings.Join(reps, ","), "Comma-separated repetition counts, one phase group each")
	fs.String("adapters", strings.Join(cfg.adapters, ","), "Comma-separated adapters to compare (uap, cached)")
	fs.String("bounds", cfg.bounds.String(), "Fixture iteration bounds: zero (0..N-1) or legacy (1..N)")
	fs.Int("cachesize", cfg.cacheSize, "LRU size for the cached adapter")
	fs.String("regexes", cfg.regexesFile, "uap-core regexes.yaml to use instead of the built-in ruleset")
	fs.Int("dump", cfg.dump, "After timing, print this many parse results per adapter")
}

// applyFlags copies the config flags that were set on the command line
// into cfg, so that they take precedence over a config file.
func applyFlags(cfg *config, fs *flag.FlagSet) error {
	var err error
	fs.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		v := f.Value.String()
		switch f.Name {
		case "dir":
			cfg.fixtureDir = v
		case "files":
			cfg.fixtureFiles = splitList(v)
		case "reps":
			cfg.reps, err = parseReps(v)
		case "adapters":
			cfg.adapters = splitList(v)
		case "bounds":
			cfg.bounds, err = parseBounds(v)
		case "cachesize":
			cfg.cacheSize, err = strconv.Atoi(v)
		case "regexes":
			cfg.regexesFile = v
		case "dump":
			cfg.dump, err = strconv.Atoi(v)
		}
		if err != nil {
			err = fmt.Errorf("-%s: %w", f.Name, err)
		}
	})
	return err
}

func run(cfg config, profile, jsonOut, upload string) (err error) {
	if profile != "" {
		f, ferr := os.Create(profile)
		if ferr != nil {
			return ferr
		}
		stop := fgprof.Start(f, fgprof.FormatPprof)
		defer func() {
			if err1 := stop(); err == nil && err1 != nil {
				err = fmt.Errorf("error writing profile: %s", err1)
			}
			if err1 := f.Close(); err == nil && err1 != nil {
				err = fmt.Errorf("error writing profile: %s", err1)
			}
		}()
	}

	results, err := runBenchmark(cfg, os.Stdout)
	if err != nil {
		return err
	}
	if err := printSummary(os.Stdout, results); err != nil {
		return err
	}
	if jsonOut == "" && upload == "" {
		return nil
	}
	var buf bytes.Buffer
	if err := writeJSONReport(&buf, results); err != nil {
		return err
	}
	if jsonOut != "" {
		if err := os.WriteFile(jsonOut, buf.Bytes(), 0o644); err != nil {
			return err
		}
	}
	if upload != "" {
		return uploadReport(context.Background(), upload, buf.Bytes())
	}
	return nil
}
