package model

// KVStore is the local key-value store holding client state (favorites and
// view settings). Values are opaque strings, usually JSON.
type KVStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
	DeletePrefix(prefix string) (int64, error)
	Keys(prefix string) ([]string, error)
}
