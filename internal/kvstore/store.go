// Package kvstore provides string-keyed durable stores used to persist the
// settings record.
package kvstore

// Store is a synchronous get/set/remove view over a persistent string store.
// Get reports ok=false when the key is absent.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
}
