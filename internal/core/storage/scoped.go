package storage

import "context"

// Scoped namespaces every key of a shared CounterStore under prefix, so that a
// single backing store can hold the isolated counters of many devices.
func Scoped(store CounterStore, prefix string) CounterStore {
	return &scopedStore{inner: store, prefix: prefix + ":"}
}

type scopedStore struct {
	inner  CounterStore
	prefix string
}

func (s *scopedStore) Get(ctx context.Context, key string, dst any) (bool, error) {
	return s.inner.Get(ctx, s.prefix+key, dst)
}

func (s *scopedStore) Set(ctx context.Context, key string, value any) error {
	return s.inner.Set(ctx, s.prefix+key, value)
}
