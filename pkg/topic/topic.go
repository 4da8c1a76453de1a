// Package topic manages named broadcast topics with explicit subscriber sets.
// One topic exists per group; a connection subscribes when its owner has that
// group open, independent of registry presence.
package topic

import (
	"log"
	"sync"

	"github.com/anushkaaa19/Chatterbox-sub000/pkg/model"
	"github.com/anushkaaa19/Chatterbox-sub000/pkg/registry"
)

// Router owns the topic -> subscriber mapping. Join and Leave are idempotent;
// empty topics are dropped.
type Router struct {
	mu       sync.RWMutex
	topics   map[string]map[string]registry.Handle // topicID -> sessionID -> handle
	sessions map[string]map[string]struct{}        // sessionID -> topicIDs
}

func NewRouter() *Router {
	return &Router{
		topics:   make(map[string]map[string]registry.Handle),
		sessions: make(map[string]map[string]struct{}),
	}
}

// Join subscribes the handle to topicID.
func (r *Router) Join(topicID string, h registry.Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	subs := r.topics[topicID]
	if subs == nil {
		subs = make(map[string]registry.Handle)
		r.topics[topicID] = subs
	}
	subs[h.SessionID()] = h

	memberships := r.sessions[h.SessionID()]
	if memberships == nil {
		memberships = make(map[string]struct{})
		r.sessions[h.SessionID()] = memberships
	}
	memberships[topicID] = struct{}{}
}

// Leave removes the handle from topicID. Unknown pairs are a no-op.
func (r *Router) Leave(topicID string, h registry.Handle) {
	r.mu.Lock()
	r.leaveLocked(topicID, h.SessionID())
	r.mu.Unlock()
}

// LeaveAll removes the handle from every topic it joined. Called when the
// transport session ends.
func (r *Router) LeaveAll(h registry.Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for topicID := range r.sessions[h.SessionID()] {
		r.leaveLocked(topicID, h.SessionID())
	}
}

func (r *Router) leaveLocked(topicID, sessionID string) {
	subs := r.topics[topicID]
	if subs == nil {
		return
	}
	delete(subs, sessionID)
	if len(subs) == 0 {
		delete(r.topics, topicID)
	}
	if memberships, ok := r.sessions[sessionID]; ok {
		delete(memberships, topicID)
		if len(memberships) == 0 {
			delete(r.sessions, sessionID)
		}
	}
}

// Broadcast pushes ev to every subscriber of topicID and returns the number
// of successful deliveries. Failed sends are logged and skipped.
func (r *Router) Broadcast(topicID string, ev model.Event) int {
	r.mu.RLock()
	subs := make([]registry.Handle, 0, len(r.topics[topicID]))
	for _, h := range r.topics[topicID] {
		subs = append(subs, h)
	}
	r.mu.RUnlock()

	delivered := 0
	for _, h := range subs {
		if err := h.Send(ev); err != nil {
			log.Printf("topic %s: dropped push to session %s: %v", topicID, h.SessionID(), err)
			continue
		}
		delivered++
	}
	return delivered
}

// Subscribers reports the current subscriber count for topicID.
func (r *Router) Subscribers(topicID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.topics[topicID])
}
