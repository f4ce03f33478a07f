package models

// SiteMeta summarizes a linked page. The zero value means "no preview".
type SiteMeta struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Favicon     string `json:"favicon,omitempty"`
	URL         string `json:"url"`
}

// IsEmpty reports whether meta carries no preview data.
func (m SiteMeta) IsEmpty() bool {
	return m == SiteMeta{}
}

// HasFavicon reports whether a favicon URL was found.
func (m SiteMeta) HasFavicon() bool {
	return m.Favicon != ""
}
