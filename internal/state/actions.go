package state

import (
	"strings"

	"github.com/tOgg1/uplink/internal/models"
)

// ActionSetVersion identifies the set of actions understood by Dispatch.
// It is bumped whenever an action is added or its meaning changes.
const ActionSetVersion = 1

// Action is a state transition. The set is closed: only types in this
// package implement it.
type Action interface {
	Name() string
	apply(AppState) AppState
}

// ChatWith makes handle the active conversation.
type ChatWith struct {
	Handle models.ConversationHandle
}

func (ChatWith) Name() string { return "chat_with" }

func (a ChatWith) apply(s AppState) AppState {
	s.ActiveConversation = models.ConversationHandle(strings.TrimSpace(string(a.Handle)))
	return s
}

// ClearActiveConversation deselects the active conversation.
type ClearActiveConversation struct{}

func (ClearActiveConversation) Name() string { return "clear_active_conversation" }

func (ClearActiveConversation) apply(s AppState) AppState {
	s.ActiveConversation = ""
	return s
}

// SetSidebarHidden shows or hides the sidebar.
type SetSidebarHidden struct {
	Hidden bool
}

func (SetSidebarHidden) Name() string { return "set_sidebar_hidden" }

func (a SetSidebarHidden) apply(s AppState) AppState {
	s.SidebarHidden = a.Hidden
	return s
}

// ToggleSidebar flips sidebar visibility.
type ToggleSidebar struct{}

func (ToggleSidebar) Name() string { return "toggle_sidebar" }

func (ToggleSidebar) apply(s AppState) AppState {
	s.SidebarHidden = !s.SidebarHidden
	return s
}

// SetLanguage selects the UI language. An empty language selects the default.
type SetLanguage struct {
	Language models.Language
}

func (SetLanguage) Name() string { return "set_language" }

func (a SetLanguage) apply(s AppState) AppState {
	lang := models.Language(strings.TrimSpace(string(a.Language)))
	if lang == "" {
		lang = models.DefaultLanguage
	}
	s.Language = lang
	return s
}
