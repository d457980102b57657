package storage

import "errors"

// ErrNotFound is returned by KV.Get when no value is stored under the key.
var ErrNotFound = errors.New("key not found")

// KV is a durable string key/value store. Values are written whole.
type KV interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Close() error
}
