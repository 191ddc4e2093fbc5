package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"
	"go.uber.org/zap"
)

// EditorDocument is the editor-produced document shape: a block list plus
// tool metadata. It carries a richer vocabulary than the plain block model
// and its text fields may contain inline markup produced by the editor.
type EditorDocument struct {
	Time    int64         `json:"time,omitempty"`
	Blocks  []EditorBlock `json:"blocks"`
	Version string        `json:"version,omitempty"`
}

// EditorBlock is one editor block; Data is decoded per type at render time.
type EditorBlock struct {
	ID   string          `json:"id"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type editorHeader struct {
	Text  string `json:"text"`
	Level int    `json:"level"`
}

type editorParagraph struct {
	Text string `json:"text"`
}

type editorList struct {
	Style string   `json:"style"` // "ordered" or "unordered"
	Items []string `json:"items"`
}

type editorChecklist struct {
	Items []struct {
		Text    string `json:"text"`
		Checked bool   `json:"checked"`
	} `json:"items"`
}

type editorQuote struct {
	Text    string `json:"text"`
	Caption string `json:"caption"`
}

type editorCode struct {
	Code string `json:"code"`
}

type editorImage struct {
	File struct {
		URL string `json:"url"`
	} `json:"file"`
	Caption   string `json:"caption"`
	Stretched bool   `json:"stretched"`
}

type editorTable struct {
	WithHeadings bool       `json:"withHeadings"`
	Content      [][]string `json:"content"`
}

type editorLink struct {
	Link string `json:"link"`
	Meta struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Image       struct {
			URL string `json:"url"`
		} `json:"image"`
	} `json:"meta"`
}

type editorEmbed struct {
	Service string `json:"service"`
	Embed   string `json:"embed"`
	Caption string `json:"caption"`
}

// ParseEditor decodes raw into an editor document. A string that is not an
// editor JSON object (no blocks array, or malformed JSON) is wrapped in a
// single paragraph block carrying the original text, never an error.
func ParseEditor(raw string) EditorDocument {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "{") {
		var doc EditorDocument
		if err := json.Unmarshal([]byte(trimmed), &doc); err == nil && doc.Blocks != nil {
			return doc
		}
	}
	data, _ := json.Marshal(editorParagraph{Text: raw})
	return EditorDocument{
		Blocks: []EditorBlock{{ID: "legacy-content", Type: "paragraph", Data: data}},
	}
}

// RenderEditor renders an editor document. Blocks whose data cannot be
// decoded, and blocks of unknown type, are dropped with a log notice.
func RenderEditor(doc EditorDocument, opts Options) templ.Component {
	if len(doc.Blocks) == 0 {
		return opts.fallback()
	}
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		openArticle(&buf, opts)
		for _, b := range doc.Blocks {
			renderEditorBlock(&buf, b, opts)
		}
		buf.WriteString("</article>")
		_, err := w.Write(buf.Bytes())
		return err
	})
}

func renderEditorBlock(buf *bytes.Buffer, b EditorBlock, opts Options) {
	decode := func(v any) bool {
		if err := json.Unmarshal(b.Data, v); err != nil {
			opts.logger().Warn("dropping undecodable editor block",
				zap.String("type", b.Type), zap.String("id", b.ID), zap.Error(err))
			return false
		}
		return true
	}

	switch b.Type {
	case "header":
		var d editorHeader
		if !decode(&d) {
			return
		}
		level := clampLevel(d.Level)
		fmt.Fprintf(buf, `<h%d class="content-heading %s">%s</h%d>`,
			level, headingSizes[level], d.Text, level)

	case "paragraph":
		var d editorParagraph
		if !decode(&d) {
			return
		}
		buf.WriteString(`<p class="content-paragraph">` + d.Text + `</p>`)

	case "list":
		var d editorList
		if !decode(&d) {
			return
		}
		tag := "ul"
		if d.Style == "ordered" {
			tag = "ol"
		}
		fmt.Fprintf(buf, `<%s class="content-list">`, tag)
		for _, item := range d.Items {
			buf.WriteString("<li>" + item + "</li>")
		}
		fmt.Fprintf(buf, "</%s>", tag)

	case "checklist":
		var d editorChecklist
		if !decode(&d) {
			return
		}
		buf.WriteString(`<ul class="content-checklist">`)
		for _, item := range d.Items {
			checked := ""
			if item.Checked {
				checked = " checked"
			}
			fmt.Fprintf(buf,
				`<li><input type="checkbox" disabled%s><span>%s</span></li>`,
				checked, item.Text)
		}
		buf.WriteString("</ul>")

	case "quote":
		var d editorQuote
		if !decode(&d) {
			return
		}
		buf.WriteString(`<blockquote class="content-quote"><p>` + d.Text + `</p>`)
		if d.Caption != "" {
			buf.WriteString(`<footer>&mdash; ` + html.EscapeString(d.Caption) + `</footer>`)
		}
		buf.WriteString("</blockquote>")

	case "code":
		var d editorCode
		if !decode(&d) {
			return
		}
		buf.WriteString(`<pre class="content-code"><code>` + html.EscapeString(d.Code) + `</code></pre>`)

	case "delimiter":
		buf.WriteString(`<div class="content-delimiter">***</div>`)

	case "image":
		var d editorImage
		if !decode(&d) {
			return
		}
		class := "content-image"
		if d.Stretched {
			class += " stretched"
		}
		fmt.Fprintf(buf, `<figure class="%s"><img src="%s" alt="%s" loading="lazy">`,
			class, html.EscapeString(d.File.URL), html.EscapeString(d.Caption))
		if d.Caption != "" {
			buf.WriteString("<figcaption>" + html.EscapeString(d.Caption) + "</figcaption>")
		}
		buf.WriteString("</figure>")

	case "table":
		var d editorTable
		if !decode(&d) {
			return
		}
		renderGrid(buf, d.Content, d.WithHeadings)

	case "linkTool":
		var d editorLink
		if !decode(&d) {
			return
		}
		fmt.Fprintf(buf, `<a class="content-link-preview" href="%s" target="_blank" rel="noopener noreferrer">`,
			html.EscapeString(d.Link))
		if d.Meta.Image.URL != "" {
			fmt.Fprintf(buf, `<img src="%s" alt="">`, html.EscapeString(d.Meta.Image.URL))
		}
		title := d.Meta.Title
		if title == "" {
			title = d.Link
		}
		buf.WriteString(`<span class="title">` + html.EscapeString(title) + `</span>`)
		if d.Meta.Description != "" {
			buf.WriteString(`<span class="description">` + html.EscapeString(d.Meta.Description) + `</span>`)
		}
		buf.WriteString("</a>")

	case "embed":
		var d editorEmbed
		if !decode(&d) {
			return
		}
		// Fixed 16:9 aspect ratio box; the service attribute is informational.
		fmt.Fprintf(buf,
			`<div class="content-embed" data-service="%s"><iframe src="%s" allowfullscreen loading="lazy"></iframe>`,
			html.EscapeString(d.Service), html.EscapeString(d.Embed))
		if d.Caption != "" {
			buf.WriteString("<figcaption>" + html.EscapeString(d.Caption) + "</figcaption>")
		}
		buf.WriteString("</div>")

	default:
		opts.logger().Warn("dropping unknown editor block", zap.String("type", b.Type))
	}
}
