package documents

import "strings"

// DocumentSection is one titled block of a document.
type DocumentSection struct {
	Title       string            `json:"title" yaml:"title"`
	Intro       string            `json:"intro,omitempty" yaml:"intro,omitempty"`
	Items       []string          `json:"items" yaml:"items"`
	Subsections []DocumentSection `json:"subsections,omitempty" yaml:"subsections,omitempty"`
}

// NodeKind is the role of a node in the assembled tree.
type NodeKind string

const (
	NodeHeading    NodeKind = "heading"
	NodeSubheading NodeKind = "subheading"
	NodeBullet     NodeKind = "bullet"
	NodeParagraph  NodeKind = "paragraph"
)

// Node is a format-agnostic document element.
type Node struct {
	Kind NodeKind `json:"kind"`
	Text string   `json:"text"`
}

// Assemble flattens sections into an ordered node list. Section titles become
// headings, items become bullets and subsections are expanded one level deep.
func Assemble(sections []DocumentSection) []Node {
	nodes := make([]Node, 0, len(sections)*4)
	for _, section := range sections {
		nodes = append(nodes, Node{Kind: NodeHeading, Text: section.Title})
		nodes = appendBody(nodes, section)
		for _, sub := range section.Subsections {
			nodes = append(nodes, Node{Kind: NodeSubheading, Text: sub.Title})
			nodes = appendBody(nodes, sub)
		}
	}
	return nodes
}

func appendBody(nodes []Node, section DocumentSection) []Node {
	if intro := strings.TrimSpace(section.Intro); intro != "" {
		nodes = append(nodes, Node{Kind: NodeParagraph, Text: intro})
	}
	for _, item := range section.Items {
		nodes = append(nodes, Node{Kind: NodeBullet, Text: item})
	}
	return nodes
}

// Count returns how many nodes of the given kind the tree holds.
func Count(nodes []Node, kind NodeKind) int {
	n := 0
	for _, node := range nodes {
		if node.Kind == kind {
			n++
		}
	}
	return n
}
