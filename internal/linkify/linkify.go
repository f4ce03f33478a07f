// Package linkify finds URL-like substrings in message text.
package linkify

import (
	"strings"

	"mvdan.cc/xurls/v2"
)

// Kind classifies a detected link.
type Kind int

const (
	KindURL Kind = iota
	KindEmail
)

func (k Kind) String() string {
	if k == KindEmail {
		return "email"
	}
	return "url"
}

// Link is a single detected link and its byte span in the source text.
type Link struct {
	Text  string
	Start int
	End   int
	Kind  Kind
}

// HasScheme reports whether the link carries an explicit scheme.
func (l Link) HasScheme() bool {
	return strings.Contains(l.Text, "://") || strings.HasPrefix(strings.ToLower(l.Text), "mailto:")
}

// Result holds the outcome of one detection pass.
type Result struct {
	links []Link
}

// relaxed matches both scheme-prefixed and bare-domain forms.
var relaxed = xurls.Relaxed()

// Scan runs a single detection pass over text.
func Scan(text string) Result {
	spans := relaxed.FindAllStringIndex(text, -1)
	if len(spans) == 0 {
		return Result{}
	}
	links := make([]Link, 0, len(spans))
	for _, span := range spans {
		s := text[span[0]:span[1]]
		links = append(links, Link{
			Text:  s,
			Start: span[0],
			End:   span[1],
			Kind:  classify(s),
		})
	}
	return Result{links: links}
}

func classify(s string) Kind {
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "mailto:") {
		return KindEmail
	}
	if !strings.Contains(lower, "://") && strings.Contains(lower, "@") {
		at := strings.Index(lower, "@")
		if slash := strings.Index(lower, "/"); slash == -1 || slash > at {
			return KindEmail
		}
	}
	return KindURL
}

// HasLinks reports whether the pass found anything.
func (r Result) HasLinks() bool { return len(r.links) > 0 }

// Len returns the number of detected links.
func (r Result) Len() int { return len(r.links) }

// All returns the detected links in order of first appearance.
func (r Result) All() []Link {
	return append([]Link(nil), r.links...)
}

// Links returns the detected link strings in order of first appearance.
func (r Result) Links() []string {
	out := make([]string, 0, len(r.links))
	for _, l := range r.links {
		out = append(out, l.Text)
	}
	return out
}

// First returns the earliest link.
func (r Result) First() (Link, bool) {
	if len(r.links) == 0 {
		return Link{}, false
	}
	return r.links[0], true
}

// Extract returns the URL-like substrings of text in order of appearance.
func Extract(text string) []string {
	return Scan(text).Links()
}

// HasLinks reports whether text contains at least one URL-like substring.
// It stops at the first match; callers that also need the links should call
// Scan once and use Result.HasLinks instead of running detection twice.
func HasLinks(text string) bool {
	return relaxed.MatchString(text)
}
