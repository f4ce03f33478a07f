package models

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestValidationErrorsIs(t *testing.T) {
	var validation ValidationErrors
	validation.Add("sender", ErrInvalidPeer)

	err := validation.Err()
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidPeer))
}

func TestValidationErrorsNestedFields(t *testing.T) {
	var nested ValidationErrors
	nested.AddMessage("lines", "message has no content")
	nested.Add("sender", ErrInvalidPeer)

	var validation ValidationErrors
	validation.Add("message", nested)

	var list ValidationErrors
	require.True(t, errors.As(validation.Err(), &list))
	require.Len(t, list, 2)
	require.Equal(t, "message.lines", list[0].Field)
	require.ErrorIs(t, validation.Err(), ErrInvalidPeer)
	require.Equal(t, "message.lines: message has no content; message.sender: "+ErrInvalidPeer.Error(), validation.Error())
}

func TestEmptyValidationErrors(t *testing.T) {
	var validation ValidationErrors
	validation.Add("x", nil)
	validation.AddMessage("y", "")
	require.NoError(t, validation.Err())
}

func TestMessageTextJoinsLines(t *testing.T) {
	msg := Message{Lines: []string{"hello", "world"}, Sender: "did:key:abc"}
	require.Equal(t, "hello\nworld", msg.Text())
	require.NoError(t, msg.Validate())
}

func TestMessageValidate(t *testing.T) {
	err := Message{Sender: " "}.Validate()
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidPeer)
	require.Contains(t, err.Error(), "lines")
}

func TestNewTextMessageSplitsLines(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	msg := NewTextMessage("did:key:abc", "a\nb", at)
	require.Equal(t, []string{"a", "b"}, msg.Lines)
	require.Equal(t, at, msg.Time)
}

func TestExistingConversation(t *testing.T) {
	wrapped := fmt.Errorf("create: %w", &ConversationExistsError{Handle: "conv-1"})
	handle, ok := ExistingConversation(wrapped)
	require.True(t, ok)
	require.Equal(t, ConversationHandle("conv-1"), handle)

	_, ok = ExistingConversation(errors.New("boom"))
	require.False(t, ok)

	_, ok = ExistingConversation(&ConversationExistsError{})
	require.False(t, ok)
}

func TestSiteMetaIsEmpty(t *testing.T) {
	require.True(t, SiteMeta{}.IsEmpty())
	require.False(t, SiteMeta{Title: "x"}.IsEmpty())
	require.False(t, SiteMeta{URL: "https://example.com"}.HasFavicon())
}
