package model

// EventName identifies one logical event on the push channel.
type EventName string

// Server -> client events.
const (
	EventOnlineUsers  EventName = "getOnlineUsers"
	EventNewMessage   EventName = "newMessage"
	EventEdited       EventName = "editedMessage"
	EventLiked        EventName = "likedMessage"
	EventGroupMessage EventName = "receiveGroupMessage"
	EventTyping       EventName = "typing"
	EventStopTyping   EventName = "stopTyping"
)

// Client -> server events.
const (
	EventJoinGroup  EventName = "joinGroup"
	EventLeaveGroup EventName = "leaveGroup"
)

// Event is the envelope carried on the push channel, one event per frame.
type Event struct {
	Name EventName `json:"event"`
	Data any       `json:"data,omitempty"`
}

// GroupMessagePayload wraps a group message with its topic for fan-out.
type GroupMessagePayload struct {
	GroupID string  `json:"groupId"`
	Message Message `json:"message"`
}

// TypingPayload identifies the peer a typing notice refers to. On the
// server -> client leg UserID is the typist; on the client -> server leg
// ToUserID names the recipient.
type TypingPayload struct {
	UserID   string `json:"userId,omitempty"`
	ToUserID string `json:"toUserId,omitempty"`
}

// TopicPayload carries the group a client wants to watch or stop watching.
type TopicPayload struct {
	GroupID string `json:"groupId"`
}
