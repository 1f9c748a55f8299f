package core

import (
	"strings"
	"testing"
)

const sampleGraphText = `# id osm-id lat lon elevation
# src tgt dist type speed

5
6
0 100 48.1 9.1 0
1 101 48.2 9.2 0
2 102 48.3 9.0 0
3 103 48.0 9.3 0
4 104 48.5 9.5 0
0 1 2 0 0
0 2 4 0 0
1 2 1 0 0
1 3 7 0 0
2 4 3 0 0
3 4 1 0 0
`

func parseSample(t *testing.T) *Graph {
	t.Helper()
	g, err := ParseGraph(strings.NewReader(sampleGraphText))
	if err != nil {
		t.Fatalf("ParseGraph failed: %v", err)
	}
	return g
}

func TestParseGraph_CountsAndOffsets(t *testing.T) {
	g := parseSample(t)

	if g.NumNodes != 5 || len(g.Nodes) != 5 {
		t.Errorf("expected 5 nodes, got NumNodes=%d len=%d", g.NumNodes, len(g.Nodes))
	}
	if g.NumEdges != 6 || len(g.Edges) != 6 {
		t.Errorf("expected 6 edges, got NumEdges=%d len=%d", g.NumEdges, len(g.Edges))
	}

	if len(g.Offsets) != g.NumNodes+1 {
		t.Fatalf("expected %d offsets, got %d", g.NumNodes+1, len(g.Offsets))
	}
	if g.Offsets[0] != 0 {
		t.Errorf("expected Offsets[0]=0, got %d", g.Offsets[0])
	}
	if g.Offsets[g.NumNodes] != g.NumEdges {
		t.Errorf("expected Offsets[%d]=%d, got %d", g.NumNodes, g.NumEdges, g.Offsets[g.NumNodes])
	}
	for v := 0; v < g.NumNodes; v++ {
		if g.Offsets[v] > g.Offsets[v+1] {
			t.Errorf("offsets must be non-decreasing, Offsets[%d]=%d > Offsets[%d]=%d",
				v, g.Offsets[v], v+1, g.Offsets[v+1])
		}
		for _, e := range g.OutEdges(v) {
			if e.Src != v {
				t.Errorf("edge in range of node %d has src %d", v, e.Src)
			}
		}
	}

	want := []int{0, 2, 4, 5, 6, 6}
	for i, o := range want {
		if g.Offsets[i] != o {
			t.Errorf("Offsets[%d]: expected %d, got %d", i, o, g.Offsets[i])
		}
	}
}

func TestParseGraph_NodeFields(t *testing.T) {
	g := parseSample(t)

	if g.Nodes[2].ID != 2 {
		t.Errorf("node ids must be positional, got %d", g.Nodes[2].ID)
	}
	if g.Nodes[2].Lat != 48.3 || g.Nodes[2].Lon != 9.0 {
		t.Errorf("unexpected node 2 position: (%v, %v)", g.Nodes[2].Lat, g.Nodes[2].Lon)
	}
}

func TestParseGraph_Degree(t *testing.T) {
	g := parseSample(t)

	wantDegrees := []int{2, 2, 1, 1, 0}
	for v, want := range wantDegrees {
		if got := g.Degree(v); got != want {
			t.Errorf("Degree(%d): expected %d, got %d", v, want, got)
		}
	}
}

func TestParseGraph_SourceGapsFillOffsets(t *testing.T) {
	text := `4
2
0 0 1.0 1.0
1 0 1.0 1.0
2 0 1.0 1.0
3 0 1.0 1.0
0 1 5
3 0 2
`
	g, err := ParseGraph(strings.NewReader(text))
	if err != nil {
		t.Fatalf("ParseGraph failed: %v", err)
	}

	want := []int{0, 1, 1, 1, 2}
	for i, o := range want {
		if g.Offsets[i] != o {
			t.Errorf("Offsets[%d]: expected %d, got %d", i, o, g.Offsets[i])
		}
	}
	if g.Degree(1) != 0 || g.Degree(2) != 0 {
		t.Errorf("expected nodes 1 and 2 to have no outgoing edges")
	}
}

func TestParseGraph_Errors(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{"empty input", ""},
		{"comments only", "# a\n# b\n"},
		{"bad node count", "x\n0\n"},
		{"bad edge count", "1\ny\n0 0 1.0 1.0\n"},
		{"truncated nodes", "2\n0\n0 0 1.0 1.0\n"},
		{"short node line", "1\n0\n0 0 1.0\n"},
		{"bad latitude", "1\n0\n0 0 abc 1.0\n"},
		{"bad longitude", "1\n0\n0 0 1.0 abc\n"},
		{"truncated edges", "1\n1\n0 0 1.0 1.0\n"},
		{"short edge line", "1\n1\n0 0 1.0 1.0\n0 0\n"},
		{"bad edge weight", "1\n1\n0 0 1.0 1.0\n0 0 x\n"},
		{"negative edge weight", "1\n1\n0 0 1.0 1.0\n0 0 -3\n"},
		{"edge target out of range", "1\n1\n0 0 1.0 1.0\n0 7 1\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseGraph(strings.NewReader(tc.text)); err == nil {
				t.Errorf("expected parse error, got nil")
			}
		})
	}
}

func TestLoadGraph_MissingFile(t *testing.T) {
	if _, err := LoadGraph("does/not/exist.fmi"); err == nil {
		t.Errorf("expected error for missing graph file")
	}
}
