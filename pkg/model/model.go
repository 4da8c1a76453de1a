package model

import "time"

// Content is the body of a message. At least one field must be set.
type Content struct {
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
	AudioURL string `json:"audioUrl,omitempty"`
}

// Empty reports whether the content carries no payload at all.
func (c Content) Empty() bool {
	return c.Text == "" && c.ImageURL == "" && c.AudioURL == ""
}

// Message is a persisted chat message. Exactly one of ReceiverID or GroupID
// is set: ReceiverID for direct messages, GroupID for group messages.
type Message struct {
	ID         int64     `json:"id"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId,omitempty"`
	GroupID    string    `json:"groupId,omitempty"`
	Content    Content   `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
	Edited     bool      `json:"edited"`
	Likes      []string  `json:"likes"`
}

// LikedBy reports whether userID is in the likes set.
func (m *Message) LikedBy(userID string) bool {
	for _, id := range m.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// Group is a persisted chat group. The admin is always a member.
type Group struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Members   []string  `json:"members"`
	Admin     string    `json:"admin"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// HasMember reports whether userID belongs to the group.
func (g *Group) HasMember(userID string) bool {
	for _, id := range g.Members {
		if id == userID {
			return true
		}
	}
	return false
}
