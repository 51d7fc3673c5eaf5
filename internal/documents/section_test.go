package documents

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAssembleTwoSectionsThreeItems(t *testing.T) {
	sections := []DocumentSection{
		{Title: "A", Items: []string{"a1", "a2", "a3"}},
		{Title: "B", Items: []string{"b1", "b2", "b3"}},
	}

	nodes := Assemble(sections)

	want := []Node{
		{Kind: NodeHeading, Text: "A"},
		{Kind: NodeBullet, Text: "a1"},
		{Kind: NodeBullet, Text: "a2"},
		{Kind: NodeBullet, Text: "a3"},
		{Kind: NodeHeading, Text: "B"},
		{Kind: NodeBullet, Text: "b1"},
		{Kind: NodeBullet, Text: "b2"},
		{Kind: NodeBullet, Text: "b3"},
	}
	if diff := cmp.Diff(want, nodes); diff != "" {
		t.Fatalf("unexpected nodes (-want +got):\n%s", diff)
	}
	if got := Count(nodes, NodeHeading); got != 2 {
		t.Fatalf("expected 2 headings, got %d", got)
	}
	if got := Count(nodes, NodeBullet); got != 6 {
		t.Fatalf("expected 6 bullets, got %d", got)
	}
}

func TestAssembleSubsectionsOneLevel(t *testing.T) {
	sections := []DocumentSection{
		{
			Title: "Top",
			Intro: "intro",
			Items: []string{"t1"},
			Subsections: []DocumentSection{
				{
					Title: "Sub",
					Items: []string{"s1"},
					Subsections: []DocumentSection{
						{Title: "Deep", Items: []string{"d1"}},
					},
				},
			},
		},
	}

	nodes := Assemble(sections)

	want := []Node{
		{Kind: NodeHeading, Text: "Top"},
		{Kind: NodeParagraph, Text: "intro"},
		{Kind: NodeBullet, Text: "t1"},
		{Kind: NodeSubheading, Text: "Sub"},
		{Kind: NodeBullet, Text: "s1"},
	}
	if diff := cmp.Diff(want, nodes); diff != "" {
		t.Fatalf("unexpected nodes (-want +got):\n%s", diff)
	}
}

func TestAssembleEmpty(t *testing.T) {
	if nodes := Assemble(nil); len(nodes) != 0 {
		t.Fatalf("expected no nodes, got %d", len(nodes))
	}
}
