package models

// TypingSignal is an ephemeral composing indicator. It is emitted, never stored.
type TypingSignal int

const (
	NotTyping TypingSignal = iota
	Typing
)

func (s TypingSignal) String() string {
	switch s {
	case Typing:
		return "typing"
	case NotTyping:
		return "not_typing"
	default:
		return "unknown"
	}
}

// Language is a locale tag such as "en-US".
type Language string

// DefaultLanguage is used when no language has been selected.
const DefaultLanguage Language = "en-US"

func (l Language) String() string { return string(l) }
