package content

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"
	"go.uber.org/zap"
)

// Options controls rendering. The zero value renders left-to-right with the
// default fallback and no logging.
type Options struct {
	// Locale selects text direction and font: "fa" renders right-to-left
	// with the Farsi font class.
	Locale string
	// Fallback is rendered when the body is empty or unparseable. Nil means
	// a neutral placeholder.
	Fallback templ.Component
	// Logger receives dropped-block notices. Nil logs nothing.
	Logger *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

func (o Options) rtl() bool { return o.Locale == "fa" }

func (o Options) fallback() templ.Component {
	if o.Fallback != nil {
		return o.Fallback
	}
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<div class="content-fallback">Content not available</div>`)
		return err
	})
}

// headingSizes maps heading level 1-6 to a monotonically decreasing scale.
var headingSizes = [...]string{
	1: "text-4xl md:text-5xl",
	2: "text-3xl md:text-4xl",
	3: "text-2xl md:text-3xl",
	4: "text-xl md:text-2xl",
	5: "text-lg md:text-xl",
	6: "text-base md:text-lg",
}

// clampLevel forces a heading level into the 1-6 range.
func clampLevel(level int) int {
	if level < 1 {
		return 2
	}
	if level > 6 {
		return 6
	}
	return level
}

// Render returns a component for a classified body. Structured bodies go
// through the per-type block rules; HTML bodies go through the tree
// rewriter. Rendering never fails outward: bad input resolves to the
// fallback component.
func Render(body Body, opts Options) templ.Component {
	switch body.Kind {
	case KindBlocks:
		return renderBlocks(body.Blocks, opts)
	default:
		return RenderHTML(body.HTML, opts)
	}
}

func renderBlocks(blocks []Block, opts Options) templ.Component {
	if len(blocks) == 0 {
		return opts.fallback()
	}
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		openArticle(&buf, opts)
		for _, b := range blocks {
			renderBlock(&buf, b, opts)
		}
		buf.WriteString("</article>")
		_, err := w.Write(buf.Bytes())
		return err
	})
}

func openArticle(buf *bytes.Buffer, opts Options) {
	if opts.rtl() {
		buf.WriteString(`<article class="blog-content font-vazirmatn" dir="rtl">`)
	} else {
		buf.WriteString(`<article class="blog-content">`)
	}
}

func renderBlock(buf *bytes.Buffer, b Block, opts Options) {
	switch b.Type {
	case BlockParagraph:
		buf.WriteString(`<p class="content-paragraph">`)
		buf.WriteString(html.EscapeString(b.Content))
		buf.WriteString("</p>")

	case BlockHeading:
		level := clampLevel(b.Metadata.Level)
		fmt.Fprintf(buf, `<h%d class="content-heading %s">`, level, headingSizes[level])
		buf.WriteString(html.EscapeString(b.Content))
		fmt.Fprintf(buf, "</h%d>", level)

	case BlockImage:
		buf.WriteString(`<figure class="content-image">`)
		fmt.Fprintf(buf, `<img src="%s" alt="%s"`,
			html.EscapeString(b.Content), html.EscapeString(b.Metadata.Caption))
		if b.Metadata.Width != "" {
			fmt.Fprintf(buf, ` width="%s"`, html.EscapeString(b.Metadata.Width))
		}
		if b.Metadata.Height != "" {
			fmt.Fprintf(buf, ` height="%s"`, html.EscapeString(b.Metadata.Height))
		}
		buf.WriteString(` loading="lazy">`)
		if b.Metadata.Caption != "" {
			buf.WriteString(`<figcaption>` + html.EscapeString(b.Metadata.Caption) + `</figcaption>`)
		}
		buf.WriteString("</figure>")

	case BlockCode:
		lang := b.Metadata.Language
		if lang == "" {
			lang = "text"
		}
		fmt.Fprintf(buf, `<pre class="content-code"><code class="language-%s">`, html.EscapeString(lang))
		buf.WriteString(html.EscapeString(b.Content))
		buf.WriteString("</code></pre>")

	case BlockQuote:
		buf.WriteString(`<blockquote class="content-quote">`)
		buf.WriteString(html.EscapeString(b.Content))
		buf.WriteString("</blockquote>")

	case BlockList:
		tag := "ul"
		if b.Metadata.Ordered {
			tag = "ol"
		}
		fmt.Fprintf(buf, `<%s class="content-list">`, tag)
		for _, item := range b.Metadata.Items {
			buf.WriteString("<li>" + html.EscapeString(item) + "</li>")
		}
		fmt.Fprintf(buf, "</%s>", tag)

	case BlockTable:
		renderGrid(buf, b.Metadata.Data, true)

	default:
		// Unknown block types are dropped, never fatal.
		opts.logger().Warn("dropping unknown content block", zap.String("type", b.Type))
	}
}

// renderGrid emits a 2-D string grid as a table. When headerRow is set the
// first row renders as <th> cells.
func renderGrid(buf *bytes.Buffer, data [][]string, headerRow bool) {
	if len(data) == 0 {
		return
	}
	buf.WriteString(`<div class="content-table"><table>`)
	for i, row := range data {
		cell := "td"
		if headerRow && i == 0 {
			buf.WriteString("<thead>")
			cell = "th"
		}
		buf.WriteString("<tr>")
		for _, c := range row {
			buf.WriteString("<" + cell + ">" + html.EscapeString(c) + "</" + cell + ">")
		}
		buf.WriteString("</tr>")
		if headerRow && i == 0 {
			buf.WriteString("</thead>")
		}
	}
	buf.WriteString("</table></div>")
}
