// Package cache stores rendered page fragments with a time-based expiry.
//
// Entries are never invalidated explicitly; they disappear when their TTL
// runs out. Both stores are safe for concurrent use and last writer wins.
package cache

import (
	"context"
	"strings"
	"time"
)

type Store interface {
	// Get reports a miss with ok == false; err is reserved for store failures.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

const fragmentPrefix = "fragment:"

// FragmentKey builds the key of a named fragment, optionally varied by the
// given values (a page number for instance).
func FragmentKey(name string, varyOn ...string) string {
	if len(varyOn) == 0 {
		return fragmentPrefix + name
	}
	return fragmentPrefix + name + ":" + strings.Join(varyOn, ":")
}
