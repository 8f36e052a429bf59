// Package tz resolves IANA zone names to *time.Location, keeping resolved
// locations in a small LRU cache.
package tz

import (
	"fmt"
	"time"
	_ "time/tzdata" // hosts without a zoneinfo database

	lru "github.com/hashicorp/golang-lru"
)

// UTC is the zone name used when a series does not specify one.
const UTC = "Etc/UTC"

// DefaultCacheSize is the number of zones kept by the package cache.
const DefaultCacheSize = 64

var cache *lru.Cache

func init() {
	if err := InitializeCache(DefaultCacheSize); err != nil {
		panic(err)
	}
}

// InitializeCache replaces the package cache with one holding size zones.
func InitializeCache(size int) error {
	c, err := lru.New(size)
	if err != nil {
		return err
	}
	cache = c
	return nil
}

// Load returns the location for name. An empty name means UTC.
func Load(name string) (*time.Location, error) {
	if name == "" || name == UTC || name == "UTC" {
		return time.UTC, nil
	}
	if loc, ok := cache.Get(name); ok {
		return loc.(*time.Location), nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", name, err)
	}
	cache.Add(name, loc)
	return loc, nil
}

// Cached reports whether name is currently held in the cache.
func Cached(name string) bool {
	return cache.Contains(name)
}
