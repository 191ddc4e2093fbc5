package content

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/a-h/templ"
)

func renderToString(t *testing.T, c templ.Component) string {
	t.Helper()
	var b strings.Builder
	if err := c.Render(context.Background(), &b); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	return b.String()
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want BodyKind
	}{
		{"plain text", "just some text", KindHTML},
		{"html markup", "<p>hello</p>", KindHTML},
		{"structured array", `[{"type":"paragraph","content":"hi"}]`, KindBlocks},
		{"structured with whitespace", "  [{\"type\":\"heading\",\"content\":\"t\",\"metadata\":{\"level\":2}}]\n", KindBlocks},
		{"missing type key", `[{"content":"hi"}]`, KindHTML},
		{"missing content key", `[{"type":"paragraph"}]`, KindHTML},
		{"empty type", `[{"type":"","content":"hi"}]`, KindHTML},
		{"one bad element", `[{"type":"paragraph","content":"a"},{"content":"b"}]`, KindHTML},
		{"empty array", `[]`, KindHTML},
		{"array of numbers", `[1,2,3]`, KindHTML},
		{"malformed json", `[{"type":"paragraph","content":}]`, KindHTML},
		{"json object", `{"type":"paragraph","content":"hi"}`, KindHTML},
		{"empty string", "", KindHTML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.raw)
			if got.Kind != tt.want {
				t.Errorf("Classify(%q).Kind = %v, want %v", tt.raw, got.Kind, tt.want)
			}
			if got.Kind == KindHTML && got.HTML != tt.raw {
				t.Errorf("HTML body altered: %q -> %q", tt.raw, got.HTML)
			}
		})
	}
}

func TestRenderParagraphEscapes(t *testing.T) {
	body := Body{Kind: KindBlocks, Blocks: []Block{
		{Type: BlockParagraph, Content: `a <b> & "c"`},
	}}
	out := renderToString(t, Render(body, Options{}))
	if strings.Contains(out, "<b>") {
		t.Errorf("markup not escaped: %s", out)
	}
	if !strings.Contains(out, "&lt;b&gt;") {
		t.Errorf("expected escaped markup in %s", out)
	}
}

func TestRenderHeadingLevels(t *testing.T) {
	tests := []struct {
		level int
		want  string
	}{
		{1, "<h1"},
		{3, "<h3"},
		{6, "<h6"},
		{0, "<h2"},
		{-2, "<h2"},
		{7, "<h6"},
		{42, "<h6"},
	}
	for _, tt := range tests {
		body := Body{Kind: KindBlocks, Blocks: []Block{
			{Type: BlockHeading, Content: "Title", Metadata: Meta{Level: tt.level}},
		}}
		out := renderToString(t, Render(body, Options{}))
		if !strings.Contains(out, tt.want) {
			t.Errorf("level %d: output %q does not contain %q", tt.level, out, tt.want)
		}
	}
}

func TestRenderList(t *testing.T) {
	body := Body{Kind: KindBlocks, Blocks: []Block{
		{Type: BlockList, Metadata: Meta{Items: []string{"one", "two"}}},
		{Type: BlockList, Metadata: Meta{Items: []string{"a"}, Ordered: true}},
	}}
	out := renderToString(t, Render(body, Options{}))
	if !strings.Contains(out, "<ul class=\"content-list\"><li>one</li><li>two</li></ul>") {
		t.Errorf("unordered list missing in %s", out)
	}
	if !strings.Contains(out, "<ol class=\"content-list\"><li>a</li></ol>") {
		t.Errorf("ordered list missing in %s", out)
	}
}

func TestRenderCodeDefaultsLanguage(t *testing.T) {
	body := Body{Kind: KindBlocks, Blocks: []Block{
		{Type: BlockCode, Content: "x := 1"},
	}}
	out := renderToString(t, Render(body, Options{}))
	if !strings.Contains(out, `class="language-text"`) {
		t.Errorf("missing default language class in %s", out)
	}
}

func TestRenderTableHeaderRow(t *testing.T) {
	body := Body{Kind: KindBlocks, Blocks: []Block{
		{Type: BlockTable, Metadata: Meta{Data: [][]string{{"Name", "Age"}, {"Ada", "36"}}}},
	}}
	out := renderToString(t, Render(body, Options{}))
	if !strings.Contains(out, "<thead><tr><th>Name</th><th>Age</th></tr></thead>") {
		t.Errorf("header row missing in %s", out)
	}
	if !strings.Contains(out, "<td>Ada</td>") {
		t.Errorf("data row missing in %s", out)
	}
}

func TestRenderDropsUnknownBlocks(t *testing.T) {
	body := Body{Kind: KindBlocks, Blocks: []Block{
		{Type: "hologram", Content: "beep"},
		{Type: BlockParagraph, Content: "kept"},
	}}
	out := renderToString(t, Render(body, Options{}))
	if strings.Contains(out, "beep") {
		t.Errorf("unknown block leaked into output: %s", out)
	}
	if !strings.Contains(out, "kept") {
		t.Errorf("known block missing from output: %s", out)
	}
}

func TestRenderDirection(t *testing.T) {
	body := Body{Kind: KindBlocks, Blocks: []Block{{Type: BlockParagraph, Content: "متن"}}}

	out := renderToString(t, Render(body, Options{Locale: "fa"}))
	if !strings.Contains(out, `dir="rtl"`) || !strings.Contains(out, "font-vazirmatn") {
		t.Errorf("fa output missing rtl attributes: %s", out)
	}

	out = renderToString(t, Render(body, Options{Locale: "en"}))
	if strings.Contains(out, `dir="rtl"`) {
		t.Errorf("en output should not be rtl: %s", out)
	}
}

func TestRenderHTMLFallback(t *testing.T) {
	out := renderToString(t, RenderHTML("   ", Options{}))
	if !strings.Contains(out, "Content not available") {
		t.Errorf("expected fallback, got %s", out)
	}

	custom := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<p>nothing here</p>")
		return err
	})
	out = renderToString(t, RenderHTML("", Options{Fallback: custom}))
	if !strings.Contains(out, "nothing here") {
		t.Errorf("expected custom fallback, got %s", out)
	}
}

func TestRenderHTMLRewritesElements(t *testing.T) {
	out := renderToString(t, RenderHTML(`<h1>Big</h1><p>body <strong>text</strong></p>`, Options{}))
	if !strings.Contains(out, `<h1 class="content-heading`) {
		t.Errorf("heading not rewritten: %s", out)
	}
	if !strings.Contains(out, `<p class="content-paragraph">`) {
		t.Errorf("paragraph not rewritten: %s", out)
	}
	if !strings.Contains(out, `<strong class="content-strong">text</strong>`) {
		t.Errorf("nested element lost: %s", out)
	}
}

func TestRenderHTMLVoidElements(t *testing.T) {
	out := renderToString(t, RenderHTML(`<p>line<br>break<wbr>here</p>`, Options{}))
	if !strings.Contains(out, "<br>") {
		t.Errorf("br missing: %s", out)
	}
	if strings.Contains(out, "</br>") || strings.Contains(out, "</wbr>") {
		t.Errorf("void element got a close tag: %s", out)
	}
	if !strings.Contains(out, "break") || !strings.Contains(out, "here") {
		t.Errorf("text after void element lost: %s", out)
	}
}

func TestRenderHTMLStripsActiveContent(t *testing.T) {
	out := renderToString(t, RenderHTML(`<p>safe</p><script>alert(1)</script><iframe src="x"></iframe>`, Options{}))
	if strings.Contains(out, "script") || strings.Contains(out, "iframe") || strings.Contains(out, "alert") {
		t.Errorf("active content survived rewrite: %s", out)
	}
	if !strings.Contains(out, "safe") {
		t.Errorf("safe content missing: %s", out)
	}
}

func TestRenderHTMLExternalLinks(t *testing.T) {
	out := renderToString(t, RenderHTML(`<a href="https://example.com">out</a><a href="/blog/x/">in</a>`, Options{}))
	if !strings.Contains(out, `href="https://example.com" target="_blank" rel="noopener noreferrer"`) {
		t.Errorf("external link not hardened: %s", out)
	}
	if strings.Contains(out, `href="/blog/x/" target=`) {
		t.Errorf("internal link should not open a new tab: %s", out)
	}
}

func TestParseEditorWrapsLegacyContent(t *testing.T) {
	doc := ParseEditor("<p>old html post</p>")
	if len(doc.Blocks) != 1 {
		t.Fatalf("len(Blocks) = %d, want 1", len(doc.Blocks))
	}
	if doc.Blocks[0].Type != "paragraph" || doc.Blocks[0].ID != "legacy-content" {
		t.Errorf("unexpected wrapper block: %+v", doc.Blocks[0])
	}
}

func TestParseEditorDocument(t *testing.T) {
	raw := `{"time":1700000000,"blocks":[{"id":"a1","type":"header","data":{"text":"Hi","level":2}}],"version":"2.28.0"}`
	doc := ParseEditor(raw)
	if len(doc.Blocks) != 1 || doc.Blocks[0].Type != "header" {
		t.Fatalf("unexpected document: %+v", doc)
	}
}

func TestRenderEditorBlocks(t *testing.T) {
	raw := `{"blocks":[
		{"id":"1","type":"header","data":{"text":"Title","level":9}},
		{"id":"2","type":"paragraph","data":{"text":"with <em>markup</em>"}},
		{"id":"3","type":"checklist","data":{"items":[{"text":"done","checked":true},{"text":"todo","checked":false}]}},
		{"id":"4","type":"delimiter","data":{}},
		{"id":"5","type":"table","data":{"withHeadings":true,"content":[["A","B"],["1","2"]]}},
		{"id":"6","type":"warp-drive","data":{}}
	]}`
	out := renderToString(t, RenderEditor(ParseEditor(raw), Options{}))

	if !strings.Contains(out, "<h6") {
		t.Errorf("header level not clamped: %s", out)
	}
	if !strings.Contains(out, "with <em>markup</em>") {
		t.Errorf("inline editor markup should pass through: %s", out)
	}
	if !strings.Contains(out, `<input type="checkbox" disabled checked>`) {
		t.Errorf("checked item missing: %s", out)
	}
	if !strings.Contains(out, `<input type="checkbox" disabled><span>todo</span>`) {
		t.Errorf("unchecked item missing: %s", out)
	}
	if !strings.Contains(out, "content-delimiter") {
		t.Errorf("delimiter missing: %s", out)
	}
	if !strings.Contains(out, "<thead><tr><th>A</th><th>B</th></tr></thead>") {
		t.Errorf("table headings missing: %s", out)
	}
	if strings.Contains(out, "warp-drive") {
		t.Errorf("unknown editor block leaked: %s", out)
	}
}

func TestRenderEditorSkipsUndecodableBlock(t *testing.T) {
	raw := `{"blocks":[
		{"id":"1","type":"header","data":"not an object"},
		{"id":"2","type":"paragraph","data":{"text":"still here"}}
	]}`
	out := renderToString(t, RenderEditor(ParseEditor(raw), Options{}))
	if !strings.Contains(out, "still here") {
		t.Errorf("good block missing: %s", out)
	}
	if strings.Contains(out, "not an object") {
		t.Errorf("bad block leaked: %s", out)
	}
}
