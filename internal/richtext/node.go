// Package richtext parses CMS rich-text documents into a closed set of node
// types and renders them to HTML.
package richtext

// Node is one element of a rich-text document. The set of implementations
// is closed: Text, Block, Link, Asset and Unknown.
type Node interface {
	isNode()
}

// BlockKind identifies a block-level element.
type BlockKind int

const (
	Paragraph BlockKind = iota + 1
	Heading1
	Heading2
	Heading3
	Heading4
	Heading5
	Heading6
	BulletedList
	NumberedList
	ListItem
	ListItemChild
	CodeBlock
	BlockQuote
)

var blockKindsByType = map[string]BlockKind{
	"paragraph":       Paragraph,
	"heading-one":     Heading1,
	"heading-two":     Heading2,
	"heading-three":   Heading3,
	"heading-four":    Heading4,
	"heading-five":    Heading5,
	"heading-six":     Heading6,
	"bulleted-list":   BulletedList,
	"numbered-list":   NumberedList,
	"list-item":       ListItem,
	"list-item-child": ListItemChild,
	"code-block":      CodeBlock,
	"block-quote":     BlockQuote,
}

// Text is a leaf run of characters with inline marks.
type Text struct {
	Value     string
	Bold      bool
	Italic    bool
	Underline bool
	Code      bool
}

// Block is a block-level container such as a paragraph, heading or list.
type Block struct {
	Kind     BlockKind
	Children []Node
}

// Link is a hyperlink around inline content.
type Link struct {
	Href         string
	OpenInNewTab bool
	Children     []Node
}

// Asset is an embedded file (image, PDF, anything else).
type Asset struct {
	ID       string
	URL      string
	MimeType string
	FileName string
}

// Unknown is any node type this package does not recognise. Its children
// are still rendered.
type Unknown struct {
	Type     string
	Children []Node
}

func (Text) isNode()    {}
func (Block) isNode()   {}
func (Link) isNode()    {}
func (Asset) isNode()   {}
func (Unknown) isNode() {}

// Document is a parsed rich-text tree.
type Document struct {
	Children []Node
}

// IsEmpty reports whether the document has no visible content.
func (d *Document) IsEmpty() bool {
	if d == nil {
		return true
	}
	for _, child := range d.Children {
		if hasContent(child) {
			return false
		}
	}
	return true
}

func hasContent(n Node) bool {
	switch n := n.(type) {
	case Text:
		return n.Value != ""
	case Asset:
		return true
	case Block:
		return anyContent(n.Children)
	case Link:
		return anyContent(n.Children)
	case Unknown:
		return anyContent(n.Children)
	}
	return false
}

func anyContent(nodes []Node) bool {
	for _, n := range nodes {
		if hasContent(n) {
			return true
		}
	}
	return false
}

// Clone returns a copy of the document that shares no child slices with d.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	return &Document{Children: cloneNodes(d.Children)}
}

func cloneNodes(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		switch n := n.(type) {
		case Block:
			n.Children = cloneNodes(n.Children)
			out[i] = n
		case Link:
			n.Children = cloneNodes(n.Children)
			out[i] = n
		case Unknown:
			n.Children = cloneNodes(n.Children)
			out[i] = n
		default:
			out[i] = n
		}
	}
	return out
}
