package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

var (
	errNoFixtureFiles = errors.New("no fixture files given")
	errNoTestCases    = errors.New("no test_cases list")
	errNoUserAgent    = errors.New("test case has no user_agent_string")
)

// A fixtureError is a failure to load one fixture file.
type fixtureError struct {
	file string
	err  error
}

func (e *fixtureError) Error() string {
	return fmt.Sprintf("fixture %s: %s", e.file, e.err)
}

func (e *fixtureError) Unwrap() error { return e.err }

type fixtureFile struct {
	TestCases *[]testCase `yaml:"test_cases"`
}

type testCase struct {
	UserAgentString *string `yaml:"user_agent_string"`
}

// loadFixtures reads each of files from dir, in order, and returns the
// user_agent_string of every test case they hold.
func loadFixtures(dir string, files []string) ([]string, error) {
	if len(files) == 0 {
		return nil, errNoFixtureFiles
	}
	var lines []string
	for _, name := range files {
		path := filepath.Join(dir, name)
		uas, err := loadFixtureFile(path)
		if err != nil {
			return nil, &fixtureError{file: path, err: err}
		}
		lines = append(lines, uas...)
	}
	return lines, nil
}

func loadFixtureFile(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f fixtureFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, err
	}
	if f.TestCases == nil {
		return nil, errNoTestCases
	}
	uas := make([]string, len(*f.TestCases))
	for i, tc := range *f.TestCases {
		if tc.UserAgentString == nil {
			return nil, fmt.Errorf("test case %d: %w", i, errNoUserAgent)
		}
		uas[i] = *tc.UserAgentString
	}
	return uas, nil
}
