package main

import (
	"errors"
	"fmt"

	"github.com/golang/groupcache/lru"
	"github.com/ua-parser/uap-go/uaparser"
)

var (
	errNotRegistered     = errors.New("adapter used before Register")
	errAlreadyRegistered = errors.New("adapter already registered")
)

// A parserAdapter turns a user agent string into OS, device, and browser
// fields using some particular parser implementation.
//
// Register must be called exactly once before the first Lookup.
// Lookup must not fail for unrecognized input; it returns a result whose
// families are "Other" instead.
type parserAdapter interface {
	Name() string
	Register() error
	Lookup(agent string) (*uaparser.Client, error)
}

// A cacheCounter is an adapter that caches parse results and counts how
// often lookups were served from the cache.
type cacheCounter interface {
	cacheStats() (hits, misses int)
}

func newAdapter(name string, cfg config) (parserAdapter, error) {
	switch name {
	case "uap":
		return &uapAdapter{regexesFile: cfg.regexesFile}, nil
	case "cached":
		return &cachedAdapter{
			uapAdapter: uapAdapter{regexesFile: cfg.regexesFile},
			size:       cfg.cacheSize,
		}, nil
	default:
		return nil, fmt.Errorf("unknown adapter %q", name)
	}
}

// uapAdapter parses every string from scratch with uap-go.
type uapAdapter struct {
	regexesFile string
	parser      *uaparser.Parser
}

func (a *uapAdapter) Name() string { return "uap" }

func (a *uapAdapter) Register() error {
	if a.parser != nil {
		return errAlreadyRegistered
	}
	if a.regexesFile == "" {
		a.parser = uaparser.NewFromSaved()
		return nil
	}
	p, err := uaparser.New(a.regexesFile)
	if err != nil {
		return fmt.Errorf("error loading regexes from %s: %w", a.regexesFile, err)
	}
	a.parser = p
	return nil
}

func (a *uapAdapter) Lookup(agent string) (*uaparser.Client, error) {
	if a.parser == nil {
		return nil, errNotRegistered
	}
	return a.parser.Parse(agent), nil
}

// cachedAdapter keeps the most recent parse results in an LRU cache so
// that repeated user agents (the common case in a click stream) skip the
// regex matching entirely.
type cachedAdapter struct {
	uapAdapter
	size  int
	cache *lru.Cache

	hits   int
	misses int
}

func (a *cachedAdapter) Name() string { return "cached" }

func (a *cachedAdapter) Register() error {
	if err := a.uapAdapter.Register(); err != nil {
		return err
	}
	a.cache = lru.New(a.size)
	return nil
}

func (a *cachedAdapter) Lookup(agent string) (*uaparser.Client, error) {
	if a.cache == nil {
		return nil, errNotRegistered
	}
	if v, ok := a.cache.Get(agent); ok {
		a.hits++
		return v.(*uaparser.Client), nil
	}
	a.misses++
	client, err := a.uapAdapter.Lookup(agent)
	if err != nil {
		return nil, err
	}
	a.cache.Add(agent, client)
	return client, nil
}

func (a *cachedAdapter) cacheStats() (hits, misses int) { return a.hits, a.misses }
