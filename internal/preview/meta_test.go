package preview

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseMeta(t *testing.T) {
	tests := []struct {
		name     string
		pageURL  string
		html     string
		title    string
		desc     string
		favicon  string
		finalURL string
	}{
		{
			name:     "open graph wins",
			pageURL:  "https://example.com/post",
			html:     `<head><title>Fallback</title><meta property="og:title" content="OG"><meta property="og:description" content="OG desc"><meta name="description" content="plain"></head>`,
			title:    "OG",
			desc:     "OG desc",
			finalURL: "https://example.com/post",
		},
		{
			name:     "standard tags",
			pageURL:  "https://example.com/",
			html:     "<head><title>\n  Plain   Title </title><meta name=\"description\" content=\"plain\"><link rel=\"icon\" href=\"/i.ico\"></head>",
			title:    "Plain Title",
			desc:     "plain",
			favicon:  "https://example.com/i.ico",
			finalURL: "https://example.com/",
		},
		{
			name:     "host fallback",
			pageURL:  "https://bare.example.org/a/b",
			html:     `<p>nothing here</p>`,
			title:    "bare.example.org",
			finalURL: "https://bare.example.org/a/b",
		},
		{
			name:     "canonical url and touch icon",
			pageURL:  "http://example.com/x?utm=1",
			html:     `<head><meta property="og:url" content="/x"><link rel="apple-touch-icon" href="https://cdn.example.com/t.png"></head>`,
			title:    "example.com",
			favicon:  "https://cdn.example.com/t.png",
			finalURL: "http://example.com/x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, err := ParseMeta(tt.pageURL, []byte(tt.html))
			require.NoError(t, err)
			require.Equal(t, tt.title, meta.Title)
			require.Equal(t, tt.desc, meta.Description)
			require.Equal(t, tt.favicon, meta.Favicon)
			require.Equal(t, tt.finalURL, meta.URL)
		})
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "https://example.com", want: "https://example.com"},
		{in: "www.foo.org", want: "https://www.foo.org"},
		{in: "example.com/path?q=1", want: "https://example.com/path?q=1"},
		{in: "bob@example.com", wantErr: true},
		{in: "mailto:bob@example.com", wantErr: true},
		{in: "ftp://example.com/file", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeURL(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnfetchable)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
