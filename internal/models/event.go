package models

import (
	"encoding/json"
	"time"
)

// EventType categorizes events published on the in-process bus.
type EventType string

const (
	// Composer events
	EventTypeTyping EventType = "typing.changed"

	// Application state events
	EventTypeStateChanged EventType = "state.changed"

	// Relationship events
	EventTypeConversationStarted EventType = "conversation.started"
	EventTypeFriendRemoved       EventType = "friend.removed"
)

// EntityType identifies the type of entity an event relates to.
type EntityType string

const (
	EntityTypePeer         EntityType = "peer"
	EntityTypeConversation EntityType = "conversation"
	EntityTypeApp          EntityType = "app"
)

// Event is a single notification delivered to bus subscribers.
type Event struct {
	ID         string            `json:"id"`
	Timestamp  time.Time         `json:"timestamp"`
	Type       EventType         `json:"type"`
	EntityType EntityType        `json:"entity_type"`
	EntityID   string            `json:"entity_id"`
	Payload    json.RawMessage   `json:"payload,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// TypingPayload is the payload for typing.changed events.
type TypingPayload struct {
	Signal       string             `json:"signal"`
	Conversation ConversationHandle `json:"conversation,omitempty"`
}

// StateChangedPayload is the payload for state.changed events.
type StateChangedPayload struct {
	Action             string             `json:"action"`
	ActiveConversation ConversationHandle `json:"active_conversation,omitempty"`
	SidebarHidden      bool               `json:"sidebar_hidden"`
	Language           Language           `json:"language"`
}

// ConversationStartedPayload is the payload for conversation.started events.
type ConversationStartedPayload struct {
	Peer    PeerID             `json:"peer"`
	Handle  ConversationHandle `json:"handle"`
	Existed bool               `json:"existed"`
}
