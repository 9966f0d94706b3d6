package richtext

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidDocument is returned when the input is neither a node array nor
// an object with a children array.
var ErrInvalidDocument = errors.New("invalid rich text document")

type rawNode struct {
	Type         string    `json:"type"`
	Text         *string   `json:"text"`
	Bold         bool      `json:"bold"`
	Italic       bool      `json:"italic"`
	Underline    bool      `json:"underline"`
	Code         bool      `json:"code"`
	Href         string    `json:"href"`
	OpenInNewTab bool      `json:"openInNewTab"`
	NodeID       string    `json:"nodeId"`
	NodeType     string    `json:"nodeType"`
	URL          string    `json:"url"`
	Src          string    `json:"src"`
	MimeType     string    `json:"mimeType"`
	FileName     string    `json:"fileName"`
	Title        string    `json:"title"`
	Children     []rawNode `json:"children"`
}

// Parse decodes a CMS rich-text document. Both the wrapped form
// {"children": [...]} and a bare node array are accepted. Embedded assets
// that only carry a node id are completed from refs.
//
// A nil or JSON null input yields a nil document and no error.
func Parse(raw []byte, refs ...Asset) (*Document, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	var nodes []rawNode
	switch raw[0] {
	case '[':
		if err := json.Unmarshal(raw, &nodes); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
	case '{':
		var wrapped struct {
			Children []rawNode `json:"children"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
		nodes = wrapped.Children
	default:
		return nil, ErrInvalidDocument
	}

	byID := make(map[string]Asset, len(refs))
	for _, ref := range refs {
		if ref.ID != "" {
			byID[ref.ID] = ref
		}
	}

	return &Document{Children: convertAll(nodes, byID)}, nil
}

func convertAll(nodes []rawNode, refs map[string]Asset) []Node {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, convert(n, refs))
	}
	return out
}

func convert(n rawNode, refs map[string]Asset) Node {
	// Leaves have no type, only text and marks.
	if n.Type == "" && n.Text != nil {
		return Text{
			Value:     *n.Text,
			Bold:      n.Bold,
			Italic:    n.Italic,
			Underline: n.Underline,
			Code:      n.Code,
		}
	}

	if kind, ok := blockKindsByType[n.Type]; ok {
		return Block{Kind: kind, Children: convertAll(n.Children, refs)}
	}

	switch n.Type {
	case "link":
		return Link{
			Href:         n.Href,
			OpenInNewTab: n.OpenInNewTab,
			Children:     convertAll(n.Children, refs),
		}
	case "embed":
		if n.NodeType != "" && n.NodeType != "Asset" {
			break
		}
		asset := Asset{ID: n.NodeID, URL: n.URL, MimeType: n.MimeType, FileName: n.FileName}
		if ref, ok := refs[n.NodeID]; ok {
			asset = mergeAsset(asset, ref)
		}
		return asset
	case "image":
		asset := Asset{URL: n.Src, MimeType: n.MimeType, FileName: n.Title}
		if asset.URL == "" {
			asset.URL = n.URL
		}
		if asset.FileName == "" {
			asset.FileName = n.FileName
		}
		if asset.MimeType == "" {
			asset.MimeType = "image/*"
		}
		return asset
	}

	return Unknown{Type: n.Type, Children: convertAll(n.Children, refs)}
}

func mergeAsset(a, ref Asset) Asset {
	if a.URL == "" {
		a.URL = ref.URL
	}
	if a.MimeType == "" {
		a.MimeType = ref.MimeType
	}
	if a.FileName == "" {
		a.FileName = ref.FileName
	}
	return a
}
