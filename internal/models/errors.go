package models

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPeer indicates an empty or malformed peer identity.
	ErrInvalidPeer = errors.New("invalid peer identity")

	// ErrNotFriends indicates the peer is not in the friend list.
	ErrNotFriends = errors.New("peer is not a friend")

	// ErrEmptyHandle indicates a backend reported success without a
	// conversation handle.
	ErrEmptyHandle = errors.New("backend returned an empty conversation handle")

	// ErrSelfPeer indicates an operation targeted the local identity.
	ErrSelfPeer = errors.New("peer is the local identity")
)

// ConversationExistsError is returned by a backend when a conversation
// with the same participants already exists.
type ConversationExistsError struct {
	Handle ConversationHandle
}

func (e *ConversationExistsError) Error() string {
	return fmt.Sprintf("conversation already exists: %s", e.Handle)
}

// ExistingConversation extracts the handle from a ConversationExistsError
// anywhere in err's chain.
func ExistingConversation(err error) (ConversationHandle, bool) {
	var exists *ConversationExistsError
	if errors.As(err, &exists) && !exists.Handle.IsZero() {
		return exists.Handle, true
	}
	return "", false
}
