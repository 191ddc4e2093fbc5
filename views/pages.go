package views

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"

	"folio/store"
)

func component(render func(buf *bytes.Buffer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		render(&buf)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

func layout(buf *bytes.Buffer, site Site, meta PageMeta, body func(*bytes.Buffer)) {
	buf.WriteString("<!DOCTYPE html><html lang=\"en\"><head><meta charset=\"utf-8\">")
	buf.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
	fmt.Fprintf(buf, "<title>%s</title>", html.EscapeString(meta.Title))
	if meta.Description != "" {
		fmt.Fprintf(buf, `<meta name="description" content="%s">`, html.EscapeString(meta.Description))
		fmt.Fprintf(buf, `<meta property="og:description" content="%s">`, html.EscapeString(meta.Description))
	}
	fmt.Fprintf(buf, `<meta property="og:title" content="%s">`, html.EscapeString(meta.Title))
	if meta.OGType != "" {
		fmt.Fprintf(buf, `<meta property="og:type" content="%s">`, meta.OGType)
	}
	if meta.URL != "" {
		fmt.Fprintf(buf, `<link rel="canonical" href="%s">`, html.EscapeString(meta.URL))
		fmt.Fprintf(buf, `<meta property="og:url" content="%s">`, html.EscapeString(meta.URL))
	}
	if meta.Image != "" {
		fmt.Fprintf(buf, `<meta property="og:image" content="%s">`, html.EscapeString(meta.Image))
	}
	buf.WriteString(`<link rel="stylesheet" href="/public/site.css">`)
	buf.WriteString("</head><body>")
	fmt.Fprintf(buf, `<header class="site-header"><a href="/">%s</a><nav><a href="/blog">Blog</a></nav></header>`,
		html.EscapeString(site.Name))
	buf.WriteString(`<main>`)
	body(buf)
	buf.WriteString("</main>")
	fmt.Fprintf(buf, `<footer class="site-footer">&copy; %s</footer>`, html.EscapeString(site.Author))
	buf.WriteString("</body></html>")
}

func postCard(buf *bytes.Buffer, p store.Post) {
	buf.WriteString(`<article class="post-card">`)
	fmt.Fprintf(buf, `<h2><a href="/blog/%s/?locale=%s">%s</a></h2>`,
		html.EscapeString(p.Slug), html.EscapeString(p.Locale), html.EscapeString(p.Title))
	fmt.Fprintf(buf, `<time datetime="%s">%s</time>`,
		p.CreatedAt.Format("2006-01-02"), p.CreatedAt.Format("Jan 2, 2006"))
	if p.OGDescription != "" {
		fmt.Fprintf(buf, "<p>%s</p>", html.EscapeString(p.OGDescription))
	}
	if len(p.Tags) > 0 {
		buf.WriteString(`<ul class="tags">`)
		for _, t := range p.Tags {
			buf.WriteString("<li>" + html.EscapeString(t) + "</li>")
		}
		buf.WriteString("</ul>")
	}
	buf.WriteString("</article>")
}

// Home renders the landing page with the latest posts.
func Home(site Site, posts []store.Post) templ.Component {
	return component(func(buf *bytes.Buffer) {
		layout(buf, site, PageMeta{
			Title:       site.Name,
			Description: site.Description,
			URL:         site.URL,
			OGType:      "website",
		}, func(buf *bytes.Buffer) {
			fmt.Fprintf(buf, "<h1>%s</h1>", html.EscapeString(site.Name))
			if site.Description != "" {
				fmt.Fprintf(buf, `<p class="tagline">%s</p>`, html.EscapeString(site.Description))
			}
			buf.WriteString(`<section class="latest-posts"><h2>Latest posts</h2>`)
			n := len(posts)
			if n > 3 {
				n = 3
			}
			for _, p := range posts[:n] {
				postCard(buf, p)
			}
			buf.WriteString("</section>")
			fmt.Fprintf(buf, `<script type="application/ld+json">%s</script>`, WebsiteJsonLD(site))
		})
	})
}

// BlogIndex renders the full post listing for a locale.
func BlogIndex(site Site, posts []store.Post, locale string) templ.Component {
	return component(func(buf *bytes.Buffer) {
		layout(buf, site, PageMeta{
			Title:  "Blog — " + site.Name,
			URL:    buildURL(site.URL, "blog"),
			OGType: "website",
		}, func(buf *bytes.Buffer) {
			if locale == "" {
				buf.WriteString("<h1>Blog</h1>")
			} else {
				fmt.Fprintf(buf, `<h1>Blog <span class="locale">(%s)</span></h1>`, html.EscapeString(locale))
			}
			if len(posts) == 0 {
				buf.WriteString(`<p class="empty">No posts yet.</p>`)
				return
			}
			for _, p := range posts {
				postCard(buf, p)
			}
		})
	})
}

// BlogPost renders a single post page; body is the already-rendered post
// content component.
func BlogPost(site Site, p store.Post, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		var renderErr error
		layout(&buf, site, PageMeta{
			Title:       p.Title + " — " + site.Name,
			Description: p.OGDescription,
			URL:         PostURL(site, p),
			OGType:      "article",
			Image:       p.Image,
		}, func(buf *bytes.Buffer) {
			fmt.Fprintf(buf, "<h1>%s</h1>", html.EscapeString(p.Title))
			fmt.Fprintf(buf, `<p class="byline">%s · <time datetime="%s">%s</time></p>`,
				html.EscapeString(p.Author),
				p.CreatedAt.Format("2006-01-02"), p.CreatedAt.Format("Jan 2, 2006"))
			renderErr = body.Render(ctx, buf)
			fmt.Fprintf(buf, `<script type="application/ld+json">%s</script>`, BlogPostingJsonLD(site, p))
		})
		if renderErr != nil {
			return renderErr
		}
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// NotFound renders the 404 page.
func NotFound(site Site) templ.Component {
	return component(func(buf *bytes.Buffer) {
		layout(buf, site, PageMeta{Title: "Not found — " + site.Name}, func(buf *bytes.Buffer) {
			buf.WriteString(`<h1>404</h1><p>That page does not exist.</p><p><a href="/">Back home</a></p>`)
		})
	})
}

// ServerError renders the 500 page.
func ServerError(site Site) templ.Component {
	return component(func(buf *bytes.Buffer) {
		layout(buf, site, PageMeta{Title: "Error — " + site.Name}, func(buf *bytes.Buffer) {
			buf.WriteString(`<h1>Something went wrong</h1><p>Try again in a moment.</p>`)
		})
	})
}
