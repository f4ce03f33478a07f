// Package markup converts chat message text into HTML.
//
// Rendering follows CommonMark with the strikethrough, table and task list
// extensions enabled. Raw HTML in the source is omitted and dangerous link
// schemes are dropped, so the output is well-formed markup for well-formed
// input. An optional bluemonday policy can be applied on top.
package markup

import (
	"bytes"
	"html"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Renderer turns message text into HTML. It is safe for concurrent use.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithSanitizer runs the rendered markup through policy.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(r *Renderer) {
		r.policy = policy
	}
}

// WithHardWraps renders single newlines as <br>.
func WithHardWraps() Option {
	return func(r *Renderer) {
		r.md.Renderer().AddOptions(gmhtml.WithHardWraps())
	}
}

// New builds a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.Strikethrough,
				extension.Table,
				extension.TaskList,
			),
			goldmark.WithRendererOptions(gmhtml.WithXHTML()),
		),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// UGCPolicy is the sanitizer policy used for untrusted chat content.
func UGCPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("del", "s")
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// Render converts text to markup. It never fails: if conversion errors the
// text is returned escaped inside a paragraph.
func (r *Renderer) Render(text string) string {
	var buf bytes.Buffer
	buf.Grow(len(text) * 3 / 2)
	if err := r.md.Convert([]byte(text), &buf); err != nil {
		return "<p>" + html.EscapeString(text) + "</p>\n"
	}
	if r.policy != nil {
		return r.policy.Sanitize(buf.String())
	}
	return buf.String()
}

var defaultRenderer = New()

// Render converts text using an unsanitized default Renderer.
func Render(text string) string {
	return defaultRenderer.Render(text)
}
