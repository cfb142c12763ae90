package cache

// Cache defines a generic cache interface
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, data T)
	Delete(key string)
	// DeletePrefix drops every entry whose key starts with prefix
	DeletePrefix(prefix string) int
	Purge()
	Size() int
}

var _ Cache[any] = (*LRUCache[any])(nil)
