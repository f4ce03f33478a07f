package preview

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/tOgg1/uplink/internal/models"
)

// ErrUnfetchable is returned for links that cannot be previewed over HTTP.
var ErrUnfetchable = errors.New("link is not fetchable")

// NormalizeURL turns a detected link into an absolute http(s) URL. Bare
// domains get an https scheme.
func NormalizeURL(link string) (string, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return "", ErrUnfetchable
	}
	lower := strings.ToLower(link)
	if strings.HasPrefix(lower, "mailto:") {
		return "", fmt.Errorf("%w: %s", ErrUnfetchable, link)
	}
	if !strings.Contains(link, "://") {
		if strings.Contains(link, "@") && !strings.Contains(link, "/") {
			return "", fmt.Errorf("%w: %s", ErrUnfetchable, link)
		}
		link = "https://" + link
	}
	u, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnfetchable, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: scheme %q", ErrUnfetchable, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host", ErrUnfetchable)
	}
	return u.String(), nil
}

// ParseMeta extracts preview metadata from an HTML page fetched from pageURL.
// Open Graph tags win, then standard meta tags and <title>, then the host.
func ParseMeta(pageURL string, body []byte) (models.SiteMeta, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return models.SiteMeta{}, fmt.Errorf("parse page url: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return models.SiteMeta{}, fmt.Errorf("parse html: %w", err)
	}

	meta := models.SiteMeta{URL: pageURL}
	meta.Title = firstNonEmpty(
		metaContent(doc, "og:title"),
		metaContent(doc, "twitter:title"),
		collapse(doc.Find("head title").First().Text()),
		collapse(doc.Find("title").First().Text()),
		base.Hostname(),
	)
	meta.Description = firstNonEmpty(
		metaContent(doc, "og:description"),
		metaContent(doc, "description"),
		metaContent(doc, "twitter:description"),
	)
	if href := faviconHref(doc); href != "" {
		meta.Favicon = resolve(base, href)
	}
	if canonical := metaContent(doc, "og:url"); canonical != "" {
		if abs := resolve(base, canonical); strings.HasPrefix(abs, "http") {
			meta.URL = abs
		}
	}
	return meta, nil
}

func metaContent(doc *goquery.Document, name string) string {
	sel := fmt.Sprintf(`meta[property=%q], meta[name=%q]`, name, name)
	var out string
	doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		out = collapse(s.AttrOr("content", ""))
		return out == ""
	})
	return out
}

func faviconHref(doc *goquery.Document) string {
	var icon, touch string
	doc.Find("link[rel][href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" {
			return
		}
		for _, rel := range strings.Fields(strings.ToLower(s.AttrOr("rel", ""))) {
			switch rel {
			case "icon":
				if icon == "" {
					icon = href
				}
			case "apple-touch-icon":
				if touch == "" {
					touch = href
				}
			}
		}
	})
	return firstNonEmpty(icon, touch)
}

func resolve(base *url.URL, ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return base.ResolveReference(u).String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
