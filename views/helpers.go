package views

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"

	"folio/store"
)

// buildURL joins path segments onto a base URL.
func buildURL(base string, segments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(segments...))
	return u.String()
}

// PostURL returns the canonical URL for a post.
func PostURL(site Site, p store.Post) string {
	return buildURL(site.URL, "blog", p.Slug)
}

// JoinTags formats a tag slice as a comma-separated string for form fields.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block.
func WebsiteJsonLD(site Site) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     site.Name,
		"url":      site.URL,
	}
	if site.Description != "" {
		data["description"] = site.Description
	}
	if site.Author != "" {
		data["author"] = map[string]string{"@type": "Person", "name": site.Author}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// BlogPostingJsonLD produces a Schema.org BlogPosting JSON-LD block.
func BlogPostingJsonLD(site Site, p store.Post) string {
	postURL := PostURL(site, p)
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      p.Title,
		"datePublished": p.CreatedAt.Format("2006-01-02"),
		"dateModified":  p.UpdatedAt.Format("2006-01-02"),
		"url":           postURL,
		"author":        map[string]string{"@type": "Person", "name": p.Author},
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if p.OGDescription != "" {
		data["description"] = p.OGDescription
	}
	if p.Image != "" {
		data["image"] = p.Image
	}
	if len(p.Tags) > 0 {
		data["keywords"] = strings.Join(p.Tags, ", ")
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
