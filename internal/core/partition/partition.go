package partition

import (
	"hash/fnv"
	"sync"
)

// Count is the fixed number of lock stripes.
const Count = 256

// For returns the stripe for a given device ID.
// Stable and deterministic: same deviceID always maps to the same stripe.
// Uses FNV-32a (stdlib, fast, well-distributed).
func For(deviceID string) int {
	h := fnv.New32a()
	h.Write([]byte(deviceID))
	return int(h.Sum32() % Count)
}

// Locks serializes work per key using a fixed set of striped mutexes.
// Two keys may share a stripe; one key never spans two.
// The zero value is ready to use.
type Locks struct {
	stripes [Count]sync.Mutex
}

// Lock acquires the stripe for key and returns its release func.
//
//	defer locks.Lock(deviceID)()
func (l *Locks) Lock(key string) func() {
	mu := &l.stripes[For(key)]
	mu.Lock()
	return mu.Unlock
}
