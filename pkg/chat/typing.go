package chat

import (
	"log"

	"github.com/anushkaaa19/Chatterbox-sub000/pkg/model"
	"github.com/anushkaaa19/Chatterbox-sub000/pkg/registry"
)

// TypingSignal is a stateless relay for typing notices. Nothing is buffered
// or persisted: if the recipient has no live channel the notice is dropped.
type TypingSignal struct {
	reg *registry.Registry
}

func NewTypingSignal(reg *registry.Registry) *TypingSignal {
	return &TypingSignal{reg: reg}
}

// Typing forwards a typing notice from fromID to toID, if toID is live.
func (t *TypingSignal) Typing(fromID, toID string) {
	t.relay(model.EventTyping, fromID, toID)
}

// StopTyping forwards a stop-typing notice from fromID to toID, if toID is live.
func (t *TypingSignal) StopTyping(fromID, toID string) {
	t.relay(model.EventStopTyping, fromID, toID)
}

func (t *TypingSignal) relay(name model.EventName, fromID, toID string) {
	h, ok := t.reg.Lookup(toID)
	if !ok {
		return
	}
	ev := model.Event{Name: name, Data: model.TypingPayload{UserID: fromID}}
	if err := h.Send(ev); err != nil {
		log.Printf("typing: dropped %s relay to %s: %v", name, toID, err)
	}
}
