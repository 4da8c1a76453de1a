package registry

import (
	"context"
	"log"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/anushkaaa19/Chatterbox-sub000/pkg/model"
)

const onlineSetKey = "chat:online"

// Presence derives the online roster from the registry, broadcasts it to all
// live connections on every change, and mirrors it into a Redis set for the
// request/response surface. The mirror is advisory: Redis failures are logged
// and never block a connect or disconnect.
type Presence struct {
	reg *Registry
	rdb *redis.Client // nil disables the mirror
}

func NewPresence(reg *Registry, rdb *redis.Client) *Presence {
	return &Presence{reg: reg, rdb: rdb}
}

// Attach registers the handle and announces the new roster. The displaced
// handle (if any) is returned for the caller to close.
func (p *Presence) Attach(ctx context.Context, userID string, h Handle) Handle {
	prev := p.reg.Register(userID, h)

	if p.rdb != nil {
		if err := p.rdb.SAdd(ctx, onlineSetKey, userID).Err(); err != nil {
			log.Printf("presence: failed to mirror connect for %s: %v", userID, err)
		}
	}

	p.BroadcastRoster()
	return prev
}

// Detach unregisters the handle. The roster only changes (and is only
// re-announced) when the handle was still current.
func (p *Presence) Detach(ctx context.Context, userID string, h Handle) bool {
	if !p.reg.Unregister(userID, h) {
		return false
	}

	if p.rdb != nil {
		if err := p.rdb.SRem(ctx, onlineSetKey, userID).Err(); err != nil {
			log.Printf("presence: failed to mirror disconnect for %s: %v", userID, err)
		}
	}

	p.BroadcastRoster()
	return true
}

// BroadcastRoster pushes the full roster to every live connection. Cost is
// O(connections) per change, which is acceptable at the moderate concurrency
// this service targets.
func (p *Presence) BroadcastRoster() {
	roster := p.reg.Online()
	sort.Strings(roster)

	ev := model.Event{Name: model.EventOnlineUsers, Data: roster}
	p.reg.Each(func(userID string, h Handle) {
		if err := h.Send(ev); err != nil {
			log.Printf("presence: dropped roster push to %s: %v", userID, err)
		}
	})
}
