// Package models defines the core data types shared by the chat interaction layer.
package models

import (
	"strings"
	"time"
)

// PeerID is an opaque identity for a remote participant.
type PeerID string

func (p PeerID) String() string { return string(p) }

// Validate reports whether the identity is usable as a backend key.
func (p PeerID) Validate() error {
	if strings.TrimSpace(string(p)) == "" {
		return ErrInvalidPeer
	}
	if strings.ContainsAny(string(p), " \t\r\n") {
		return ErrInvalidPeer
	}
	return nil
}

// ConversationHandle identifies a conversation on the backend.
type ConversationHandle string

func (h ConversationHandle) String() string { return string(h) }

// IsZero reports whether the handle is unset.
func (h ConversationHandle) IsZero() bool { return strings.TrimSpace(string(h)) == "" }

// Position describes where a message sits within a run of consecutive
// messages from the same sender.
type Position struct {
	First  bool `json:"first,omitempty"`
	Middle bool `json:"middle,omitempty"`
	Last   bool `json:"last,omitempty"`
}

// Message is a received chat message. It is never mutated after receipt.
type Message struct {
	ID       string    `json:"id,omitempty"`
	Lines    []string  `json:"lines"`
	Time     time.Time `json:"time"`
	Sender   PeerID    `json:"sender"`
	Position Position  `json:"position"`
}

// Text joins the message lines into the single logical string.
func (m Message) Text() string {
	return strings.Join(m.Lines, "\n")
}

// Validate checks that the message has a sender and content.
func (m Message) Validate() error {
	var v ValidationErrors
	v.Add("sender", m.Sender.Validate())
	if len(m.Lines) == 0 {
		v.AddMessage("lines", "message has no content")
	}
	return v.Err()
}

// NewTextMessage splits text on newlines into a message.
func NewTextMessage(sender PeerID, text string, at time.Time) Message {
	return Message{
		Lines:  strings.Split(text, "\n"),
		Time:   at,
		Sender: sender,
	}
}
