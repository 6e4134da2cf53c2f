// Package kv provides the durable key-value storage the gallery keeps its
// local state in. Values are opaque strings, the same contract a browser's
// local storage offers.
package kv

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("kv: key not found")

// Store is a string-keyed durable store. Put fully overwrites the key.
type Store interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
)

// Open returns the store for the named backend rooted at path.
func Open(backend, path string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendFile:
		return OpenFile(path)
	case BackendBadger:
		return OpenBadger(BadgerConfig{Path: path, SyncWrites: true})
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
