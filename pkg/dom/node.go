package dom

import (
	"fmt"
	"sort"
	"strings"
)

// NodeType distinguishes element nodes from text nodes.
type NodeType string

const (
	NodeTypeElement NodeType = "element"
	NodeTypeText    NodeType = "text"
)

// DomTreeNode is one node of the interaction-ready DOM snapshot.
//
// HighlightIndex values are unique within one extraction only. They are
// meaningless after the page mutates and must not be reused across snapshots.
type DomTreeNode struct {
	Type           NodeType          `json:"type"`
	Text           string            `json:"text"`
	TagName        *string           `json:"tagName"`
	XPath          *string           `json:"xpath"`
	Attributes     map[string]string `json:"attributes"`
	IsVisible      bool              `json:"isVisible"`
	IsInteractive  bool              `json:"isInteractive"`
	IsTopElement   bool              `json:"isTopElement"`
	IsEditable     bool              `json:"isEditable"`
	HighlightIndex *int              `json:"highlightIndex"`
	ShadowRoot     bool              `json:"shadowRoot"`
	Children       []*DomTreeNode    `json:"children"`
}

// Walk visits n and its descendants depth-first in document order.
// Returning false from fn skips the node's children.
func (n *DomTreeNode) Walk(fn func(*DomTreeNode) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// FindByHighlightIndex returns the node carrying index within this tree.
func (n *DomTreeNode) FindByHighlightIndex(index int) *DomTreeNode {
	var found *DomTreeNode
	n.Walk(func(node *DomTreeNode) bool {
		if found != nil {
			return false
		}
		if node.HighlightIndex != nil && *node.HighlightIndex == index {
			found = node
			return false
		}
		return true
	})
	return found
}

// Interactive returns the highlighted nodes ordered by highlight index.
func (n *DomTreeNode) Interactive() []*DomTreeNode {
	var nodes []*DomTreeNode
	n.Walk(func(node *DomTreeNode) bool {
		if node.HighlightIndex != nil {
			nodes = append(nodes, node)
		}
		return true
	})
	sort.SliceStable(nodes, func(i, j int) bool {
		return *nodes[i].HighlightIndex < *nodes[j].HighlightIndex
	})
	return nodes
}

// InnerText concatenates the text of all text descendants, stopping at
// nested highlighted elements so that each listed element carries its own label.
func (n *DomTreeNode) InnerText() string {
	var parts []string
	for _, child := range n.Children {
		child.Walk(func(node *DomTreeNode) bool {
			if node.HighlightIndex != nil {
				return false
			}
			if node.Type == NodeTypeText {
				if text := strings.TrimSpace(node.Text); text != "" {
					parts = append(parts, text)
				}
			}
			return true
		})
	}
	return strings.Join(parts, " ")
}

// renderedAttributes are the attributes worth showing to an agent.
var renderedAttributes = []string{
	"id", "name", "type", "role", "aria-label", "placeholder", "value", "title", "alt", "href",
}

// Render lists the interactive elements one per line as
// "[index]<tag attr=value>text</tag>".
func Render(root *DomTreeNode) string {
	var b strings.Builder
	for _, node := range root.Interactive() {
		tag := "unknown"
		if node.TagName != nil {
			tag = strings.ToLower(*node.TagName)
		}
		fmt.Fprintf(&b, "[%d]<%s", *node.HighlightIndex, tag)
		for _, attr := range renderedAttributes {
			if v, ok := node.Attributes[attr]; ok && v != "" {
				fmt.Fprintf(&b, " %s=%q", attr, truncate(v, 80))
			}
		}
		fmt.Fprintf(&b, ">%s</%s>\n", truncate(node.InnerText(), 120), tag)
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
