package content

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// styledClasses maps HTML element names to the class applied when the
// element is rewritten. Elements not listed here pass through unchanged
// (children still rewritten).
var styledClasses = map[string]string{
	"p":          "content-paragraph",
	"blockquote": "content-quote",
	"code":       "content-inline-code",
	"pre":        "content-code",
	"ul":         "content-list",
	"ol":         "content-list",
	"li":         "content-list-item",
	"table":      "content-table",
	"th":         "content-th",
	"td":         "content-td",
	"strong":     "content-strong",
	"em":         "content-em",
	"hr":         "content-divider",
	"a":          "content-link",
	"img":        "content-image",
}

// RenderHTML parses markup into a tree and re-emits it with known elements
// replaced by styled equivalents, preserving nested children through
// recursive rewriting. Empty or unparseable markup resolves to the fallback
// component.
func RenderHTML(markup string, opts Options) templ.Component {
	if strings.TrimSpace(markup) == "" {
		return opts.fallback()
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil || len(nodes) == 0 {
		return opts.fallback()
	}
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		openArticle(&buf, opts)
		for _, n := range nodes {
			rewriteNode(&buf, n, opts)
		}
		buf.WriteString("</article>")
		_, err := w.Write(buf.Bytes())
		return err
	})
}

func rewriteNode(buf *bytes.Buffer, n *html.Node, opts Options) {
	switch n.Type {
	case html.TextNode:
		buf.WriteString(html.EscapeString(n.Data))
		return
	case html.ElementNode:
		// handled below
	default:
		rewriteChildren(buf, n, opts)
		return
	}

	name := n.Data
	switch name {
	case "script", "style", "iframe":
		// Never re-emit active content from stored markup.
		return
	case "h1", "h2", "h3", "h4", "h5", "h6":
		level := clampLevel(int(name[1] - '0'))
		fmt.Fprintf(buf, `<h%d class="content-heading %s">`, level, headingSizes[level])
		rewriteChildren(buf, n, opts)
		fmt.Fprintf(buf, "</h%d>", level)
		return
	case "img":
		src, alt := attr(n, "src"), attr(n, "alt")
		fmt.Fprintf(buf, `<img class="content-image" src="%s" alt="%s" loading="lazy">`,
			html.EscapeString(src), html.EscapeString(alt))
		return
	case "hr":
		buf.WriteString(`<hr class="content-divider">`)
		return
	case "a":
		href := attr(n, "href")
		fmt.Fprintf(buf, `<a class="content-link" href="%s"`, html.EscapeString(href))
		if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
			buf.WriteString(` target="_blank" rel="noopener noreferrer"`)
		}
		buf.WriteString(">")
		rewriteChildren(buf, n, opts)
		buf.WriteString("</a>")
		return
	}

	if class, ok := styledClasses[name]; ok {
		fmt.Fprintf(buf, `<%s class="%s">`, name, class)
	} else {
		buf.WriteString("<" + name + ">")
	}
	if voidElements[name] {
		return
	}
	rewriteChildren(buf, n, opts)
	buf.WriteString("</" + name + ">")
}

// voidElements never take a close tag. img and hr have dedicated rewrite
// rules above; the rest flow through the generic path.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"input": true, "link": true, "meta": true, "param": true,
	"source": true, "track": true, "wbr": true,
}

func rewriteChildren(buf *bytes.Buffer, n *html.Node, opts Options) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteNode(buf, c, opts)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
