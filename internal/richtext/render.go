package richtext

import (
	"bytes"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	pdfMimeType = "application/pdf"

	linkClass = "text-link"
)

var blockElements = map[BlockKind]struct {
	atom  atom.Atom
	class string
}{
	Paragraph:    {atom.P, "mb-4 leading-relaxed"},
	Heading1:     {atom.H1, "text-3xl font-bold mb-4 mt-6"},
	Heading2:     {atom.H2, "text-2xl font-semibold mb-3 mt-5"},
	Heading3:     {atom.H3, "text-xl font-semibold mb-2 mt-4"},
	Heading4:     {atom.H4, ""},
	Heading5:     {atom.H5, ""},
	Heading6:     {atom.H6, ""},
	BulletedList: {atom.Ul, "list-disc list-inside mb-4 space-y-1"},
	NumberedList: {atom.Ol, "list-decimal list-inside mb-4 space-y-1"},
	ListItem:     {atom.Li, "ml-4"},
	BlockQuote:   {atom.Blockquote, "border-l-2 pl-4 mb-4"},
}

// Render converts a document into HTML nodes. A nil document renders to
// nothing.
func Render(doc *Document) []*html.Node {
	if doc == nil {
		return nil
	}
	return renderAll(doc.Children)
}

// RenderHTML writes the rendered document to w.
func RenderHTML(w io.Writer, doc *Document) error {
	for _, n := range Render(doc) {
		if err := html.Render(w, n); err != nil {
			return err
		}
	}
	return nil
}

// ToHTML renders the document to a string.
func ToHTML(doc *Document) (string, error) {
	var buf bytes.Buffer
	if err := RenderHTML(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderPlain renders a plain-text description as literal, escaped text.
// Blank lines separate paragraphs and single newlines become <br>.
func RenderPlain(text string) (string, error) {
	var buf bytes.Buffer
	for _, p := range plainParagraphs(text) {
		if err := html.Render(&buf, p); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func plainParagraphs(text string) []*html.Node {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var (
		out   []*html.Node
		lines []string
	)
	flush := func() {
		if len(lines) == 0 {
			return
		}
		p := element(atom.P, nil)
		for i, line := range lines {
			if i > 0 {
				p.AppendChild(element(atom.Br, nil))
			}
			p.AppendChild(textNode(line))
		}
		out = append(out, p)
		lines = nil
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		lines = append(lines, strings.TrimRight(line, " \t"))
	}
	flush()
	return out
}

// PlainText flattens a document into text, one line per block.
func PlainText(doc *Document) string {
	if doc == nil {
		return ""
	}
	var b strings.Builder
	writePlain(&b, doc.Children)
	return strings.TrimSpace(b.String())
}

func writePlain(b *strings.Builder, nodes []Node) {
	for _, n := range nodes {
		switch n := n.(type) {
		case Text:
			b.WriteString(n.Value)
		case Link:
			writePlain(b, n.Children)
		case Unknown:
			writePlain(b, n.Children)
		case Block:
			writePlain(b, n.Children)
			if n.Kind != ListItemChild {
				b.WriteByte('\n')
			}
		}
	}
}

func renderAll(nodes []Node) []*html.Node {
	var out []*html.Node
	for _, n := range nodes {
		out = append(out, renderNode(n)...)
	}
	return out
}

func renderNode(n Node) []*html.Node {
	switch n := n.(type) {
	case Text:
		return []*html.Node{renderText(n)}
	case Block:
		return renderBlock(n)
	case Link:
		return []*html.Node{renderLink(n)}
	case Asset:
		return []*html.Node{renderAsset(n)}
	case Unknown:
		return renderAll(n.Children)
	}
	return nil
}

func renderText(t Text) *html.Node {
	var node *html.Node
	lines := strings.Split(t.Value, "\n")
	if len(lines) == 1 {
		node = textNode(t.Value)
	} else {
		// Soft line breaks inside a run become <br>.
		node = element(atom.Span, nil)
		for i, line := range lines {
			if i > 0 {
				node.AppendChild(element(atom.Br, nil))
			}
			node.AppendChild(textNode(line))
		}
	}

	if t.Code {
		node = element(atom.Code, classAttr("bg-gray-100 px-1 py-0.5 rounded text-sm font-mono"), node)
	}
	if t.Underline {
		node = element(atom.U, nil, node)
	}
	if t.Italic {
		node = element(atom.Em, classAttr("italic"), node)
	}
	if t.Bold {
		node = element(atom.Strong, classAttr("font-semibold"), node)
	}
	return node
}

func renderBlock(b Block) []*html.Node {
	children := renderAll(b.Children)

	switch b.Kind {
	case ListItemChild:
		return children
	case CodeBlock:
		code := element(atom.Code, nil, children...)
		return []*html.Node{element(atom.Pre, classAttr("bg-gray-100 p-4 rounded mb-4 overflow-x-auto"), code)}
	}

	el, ok := blockElements[b.Kind]
	if !ok {
		return children
	}
	return []*html.Node{element(el.atom, classAttr(el.class), children...)}
}

func renderLink(l Link) *html.Node {
	href := safeHref(l.Href)
	attrs := []html.Attribute{
		{Key: "href", Val: href},
		{Key: "class", Val: linkClass},
	}
	if isInternal(href) {
		attrs = append(attrs, html.Attribute{Key: "hx-boost", Val: "true"})
	}
	if l.OpenInNewTab {
		attrs = append(attrs, newTabAttrs()...)
	}
	return element(atom.A, attrs, renderAll(l.Children)...)
}

func renderAsset(a Asset) *html.Node {
	href := safeHref(a.URL)
	mime := strings.ToLower(strings.TrimSpace(a.MimeType))

	switch {
	case mime == pdfMimeType:
		attrs := append([]html.Attribute{
			{Key: "href", Val: href},
			{Key: "class", Val: "inline-flex items-center gap-2 px-4 py-2 bg-blue-600 text-white rounded hover:bg-blue-700 transition-colors"},
			{Key: "download", Val: ""},
		}, newTabAttrs()...)
		link := element(atom.A, attrs, textNode("Download PDF: "+labelOr(a.FileName, "Document")))
		return element(atom.Div, classAttr("my-4"), link)

	case strings.HasPrefix(mime, "image/"):
		return element(atom.Img, []html.Attribute{
			{Key: "src", Val: href},
			{Key: "alt", Val: a.FileName},
			{Key: "class", Val: "my-4 rounded-lg max-w-full h-auto"},
			{Key: "loading", Val: "lazy"},
		})
	}

	attrs := append([]html.Attribute{
		{Key: "href", Val: href},
		{Key: "class", Val: linkClass},
	}, newTabAttrs()...)
	link := element(atom.A, attrs, textNode(labelOr(a.FileName, "Download file")))
	return element(atom.Div, classAttr("my-4"), link)
}

// safeHref drops schemes that would execute script. Empty links point at "#".
func safeHref(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return "#"
	}
	u, err := url.Parse(href)
	if err != nil {
		return "#"
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https", "mailto", "tel":
		return href
	}
	return "#"
}

// isInternal reports whether href is a site-relative path. Protocol-relative
// URLs ("//host/...") leave the site and are external.
func isInternal(href string) bool {
	return strings.HasPrefix(href, "/") && !strings.HasPrefix(href, "//")
}

func newTabAttrs() []html.Attribute {
	return []html.Attribute{
		{Key: "target", Val: "_blank"},
		{Key: "rel", Val: "noopener noreferrer"},
	}
}

func labelOr(label, fallback string) string {
	if strings.TrimSpace(label) == "" {
		return fallback
	}
	return label
}

func classAttr(class string) []html.Attribute {
	if class == "" {
		return nil
	}
	return []html.Attribute{{Key: "class", Val: class}}
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func element(a atom.Atom, attrs []html.Attribute, children ...*html.Node) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}
