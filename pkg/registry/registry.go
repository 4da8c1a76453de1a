// Package registry tracks which user identities currently hold a live push
// channel. Each identity maps to exactly one handle; a new registration for
// the same identity displaces the previous handle.
package registry

import (
	"hash/fnv"
	"sync"

	"github.com/samber/lo"

	"github.com/anushkaaa19/Chatterbox-sub000/pkg/model"
)

// Handle is the push side of a live connection. Implementations must make
// Send safe for concurrent use; a Send on a dead channel returns an error and
// the caller treats it as a miss.
type Handle interface {
	SessionID() string
	Send(ev model.Event) error
	Close(reason string)
}

const shardCount = 16

type shard struct {
	mu    sync.RWMutex
	conns map[string]Handle
}

// Registry is a sharded userID -> Handle map. Registrations for different
// identities never contend on the same lock unless they hash to one shard.
type Registry struct {
	shards [shardCount]*shard
}

func New() *Registry {
	r := &Registry{}
	for i := range r.shards {
		r.shards[i] = &shard{conns: make(map[string]Handle)}
	}
	return r
}

func (r *Registry) shardFor(userID string) *shard {
	h := fnv.New32a()
	h.Write([]byte(userID))
	return r.shards[h.Sum32()%shardCount]
}

// Register installs the handle for userID, unconditionally replacing any
// prior one. The displaced handle is returned so the caller can dispose of
// it; nil when there was none.
func (r *Registry) Register(userID string, h Handle) Handle {
	sh := r.shardFor(userID)
	sh.mu.Lock()
	prev := sh.conns[userID]
	sh.conns[userID] = h
	sh.mu.Unlock()
	return prev
}

// Unregister removes the mapping only if the stored handle is h. A late
// disconnect for a displaced handle therefore never evicts its successor.
// Reports whether a removal happened.
func (r *Registry) Unregister(userID string, h Handle) bool {
	sh := r.shardFor(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	current, ok := sh.conns[userID]
	if !ok || current.SessionID() != h.SessionID() {
		return false
	}
	delete(sh.conns, userID)
	return true
}

// Lookup returns the live handle for userID, if any.
func (r *Registry) Lookup(userID string) (Handle, bool) {
	sh := r.shardFor(userID)
	sh.mu.RLock()
	h, ok := sh.conns[userID]
	sh.mu.RUnlock()
	return h, ok
}

// Online returns a snapshot of all registered identities.
func (r *Registry) Online() []string {
	var roster []string
	for _, sh := range r.shards {
		sh.mu.RLock()
		roster = append(roster, lo.Keys(sh.conns)...)
		sh.mu.RUnlock()
	}
	return roster
}

// Each calls fn for every live connection. The snapshot is taken per shard,
// so handles registered mid-iteration may or may not be visited.
func (r *Registry) Each(fn func(userID string, h Handle)) {
	for _, sh := range r.shards {
		sh.mu.RLock()
		snapshot := make(map[string]Handle, len(sh.conns))
		for id, h := range sh.conns {
			snapshot[id] = h
		}
		sh.mu.RUnlock()
		for id, h := range snapshot {
			fn(id, h)
		}
	}
}
