// Package views renders the site's pages as templ components. Layout is a
// deliberately small skeleton: the interesting rendering (post bodies) is
// delegated to the content package.
package views

// Site holds the site-wide values every page template receives.
type Site struct {
	Name        string
	URL         string
	Description string
	Author      string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the head.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string
}
