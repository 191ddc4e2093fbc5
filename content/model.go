// Package content models a post body as a tagged union: either raw HTML
// markup or an ordered sequence of typed blocks. Classification is an
// explicit parse step done once; renderers consume the resulting variant and
// never re-infer the representation downstream.
package content

import (
	"encoding/json"
	"strings"
)

// BodyKind discriminates the two body representations.
type BodyKind int

const (
	// KindHTML marks a body that is raw HTML markup.
	KindHTML BodyKind = iota
	// KindBlocks marks a body that is an ordered sequence of blocks.
	KindBlocks
)

// Body is the classified form of a post body.
type Body struct {
	Kind   BodyKind
	HTML   string  // set when Kind == KindHTML
	Blocks []Block // set when Kind == KindBlocks
}

// Block is one unit of structured document content. Metadata fields are only
// meaningful for their owning type; renderers treat absent metadata as
// "use defaults".
type Block struct {
	Type     string `json:"type"`
	Content  string `json:"content"`
	Metadata Meta   `json:"metadata,omitempty"`
}

// Meta is the kind-specific metadata record attached to a block.
type Meta struct {
	Level    int        `json:"level,omitempty"`    // heading: 1-6
	Language string     `json:"language,omitempty"` // code
	Caption  string     `json:"caption,omitempty"`  // image
	Width    string     `json:"width,omitempty"`    // image
	Height   string     `json:"height,omitempty"`   // image
	Items    []string   `json:"items,omitempty"`    // list
	Ordered  bool       `json:"ordered,omitempty"`  // list
	Data     [][]string `json:"data,omitempty"`     // table: row-major grid
}

// Block types understood by the renderer.
const (
	BlockParagraph = "paragraph"
	BlockHeading   = "heading"
	BlockImage     = "image"
	BlockCode      = "code"
	BlockQuote     = "quote"
	BlockList      = "list"
	BlockTable     = "table"
)

// rawBlock is the shape checked during classification: both keys must be
// present and type must be a non-empty string for an element to count as a
// structured block.
type rawBlock struct {
	Type    *string          `json:"type"`
	Content *json.RawMessage `json:"content"`
}

// Classify determines which representation raw holds. A string that parses
// as a JSON array of objects each carrying `type` and `content` is
// reclassified as structured; anything else, malformed JSON included, is
// treated as HTML markup with the original string intact. Classify never
// fails.
func Classify(raw string) Body {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "[") || !strings.HasSuffix(trimmed, "]") {
		return Body{Kind: KindHTML, HTML: raw}
	}
	var elems []rawBlock
	if err := json.Unmarshal([]byte(trimmed), &elems); err != nil || len(elems) == 0 {
		return Body{Kind: KindHTML, HTML: raw}
	}
	for _, b := range elems {
		if b.Type == nil || *b.Type == "" || b.Content == nil {
			return Body{Kind: KindHTML, HTML: raw}
		}
	}
	var blocks []Block
	if err := json.Unmarshal([]byte(trimmed), &blocks); err != nil {
		return Body{Kind: KindHTML, HTML: raw}
	}
	return Body{Kind: KindBlocks, Blocks: blocks}
}
