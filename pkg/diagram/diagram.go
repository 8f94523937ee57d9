// Package diagram charts screen transitions across flow tests.
// Supports Mermaid flowchart and ASCII formats.
package diagram

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Tai-Kimura/jsonui-test-runner/pkg/logging"
	"github.com/Tai-Kimura/jsonui-test-runner/pkg/resolve"
	"github.com/Tai-Kimura/jsonui-test-runner/pkg/schema"
)

// Format represents the output diagram format.
type Format string

const (
	FormatMermaid Format = "mermaid"
	FormatASCII   Format = "ascii"
)

// Node is one screen in the transition graph.
type Node struct {
	ID    string
	Label string
	Entry bool
	Group string
}

// Edge is a transition between two screens. Flows lists every flow that
// takes it, in scan order.
type Edge struct {
	From  string
	To    string
	Flows []string
}

// Path is the screen sequence of one flow with consecutive duplicates
// collapsed.
type Path struct {
	Flow  string
	Nodes []string
}

// Graph is the screen transition graph built from a flows directory.
type Graph struct {
	Nodes map[string]*Node
	Edges []Edge
	Paths []Path
}

// Scan reads every *.test.json below flowsDir and collects the screens its
// file steps visit. References are located with r, the same resolver the
// validator uses; a resolved screen test supplies the node's label, entry
// flag and group. Files that cannot be read or are not flows are skipped.
func Scan(r resolve.Resolver, flowsDir string) (*Graph, error) {
	if _, err := os.Stat(flowsDir); err != nil {
		return nil, fmt.Errorf("scan flows: %w", err)
	}

	var files []string
	err := filepath.WalkDir(flowsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".test.json") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan flows: %w", err)
	}
	sort.Strings(files)

	g := &Graph{Nodes: make(map[string]*Node)}
	edgeIndex := make(map[[2]string]int)
	for _, f := range files {
		doc, err := schema.LoadDocument(f)
		if err != nil {
			logging.Debug("diagram", "skipping %s: %v", f, err)
			continue
		}
		if !doc.IsFlow() {
			continue
		}
		flow := doc.Title(resolve.Stem(f))

		var seq []string
		prev := ""
		for _, s := range doc.Steps {
			ref, ok := s.(*schema.FileRefStep)
			if !ok {
				continue
			}
			screen := resolve.RefName(ref.File)
			resolved, found := r.Resolve(filepath.Dir(f), ref.File)
			if found {
				screen = resolve.Stem(resolved)
			}
			if screen == prev {
				continue
			}
			prev = screen
			id := safeID(screen)
			if _, ok := g.Nodes[id]; !ok {
				g.Nodes[id] = screenNode(id, screen, resolved)
			}
			seq = append(seq, id)
		}
		if len(seq) == 0 {
			continue
		}
		g.Paths = append(g.Paths, Path{Flow: flow, Nodes: seq})

		for i := 0; i+1 < len(seq); i++ {
			key := [2]string{seq[i], seq[i+1]}
			idx, ok := edgeIndex[key]
			if !ok {
				idx = len(g.Edges)
				edgeIndex[key] = idx
				g.Edges = append(g.Edges, Edge{From: key[0], To: key[1]})
			}
			e := &g.Edges[idx]
			if len(e.Flows) == 0 || e.Flows[len(e.Flows)-1] != flow {
				e.Flows = append(e.Flows, flow)
			}
		}
	}
	sort.Slice(g.Edges, func(i, j int) bool {
		if g.Edges[i].From != g.Edges[j].From {
			return g.Edges[i].From < g.Edges[j].From
		}
		return g.Edges[i].To < g.Edges[j].To
	})
	return g, nil
}

// Generate produces a diagram string from a scanned graph.
func Generate(g *Graph, format Format) (string, error) {
	if g == nil {
		return "", fmt.Errorf("nil graph")
	}
	switch format {
	case FormatMermaid:
		return generateMermaid(g), nil
	case FormatASCII:
		return generateASCII(g), nil
	default:
		return "", fmt.Errorf("unsupported diagram format: %s", format)
	}
}

var titleCaser = cases.Title(language.Und)

// screenNode builds the node for screen, reading metadata from the resolved
// test file when there is one.
func screenNode(id, screen, resolved string) *Node {
	n := &Node{ID: id, Label: titleCaser.String(strings.ReplaceAll(screen, "_", " "))}
	if resolved == "" {
		return n
	}
	doc, err := schema.LoadDocument(resolved)
	if err != nil {
		logging.Debug("diagram", "screen metadata for %s unavailable: %v", screen, err)
		return n
	}
	if doc.Metadata.Name != "" {
		n.Label = doc.Metadata.Name
	}
	n.Entry = doc.Metadata.EntryScreen
	n.Group = doc.Metadata.Group
	return n
}

// --- Mermaid flowchart ---

func generateMermaid(g *Graph) string {
	if len(g.Paths) == 0 {
		return "flowchart LR\n    NO_FLOWS[No flow tests found]"
	}

	var entry, other []string
	groups := make(map[string][]string)
	for id, n := range g.Nodes {
		switch {
		case n.Entry:
			entry = append(entry, id)
		case n.Group != "":
			groups[n.Group] = append(groups[n.Group], id)
		default:
			other = append(other, id)
		}
	}

	lines := []string{"flowchart LR"}
	if len(entry) > 0 {
		lines = append(lines, "", "    %% Entry screens")
		for _, id := range sorted(entry) {
			lines = append(lines, "    "+nodeDefinition(g.Nodes[id]))
		}
	}

	groupNames := make([]string, 0, len(groups))
	for name := range groups {
		groupNames = append(groupNames, name)
	}
	sort.Strings(groupNames)
	for _, name := range groupNames {
		lines = append(lines, "", fmt.Sprintf("    subgraph %s[\"%s\"]", groupID(name), escMermaid(name)))
		for _, id := range sorted(groups[name]) {
			lines = append(lines, "        "+nodeDefinition(g.Nodes[id]))
		}
		lines = append(lines, "    end")
	}

	if len(other) > 0 {
		lines = append(lines, "", "    %% Other screens")
		for _, id := range sorted(other) {
			lines = append(lines, "    "+nodeDefinition(g.Nodes[id]))
		}
	}

	lines = append(lines, "", "    %% Transitions")
	for _, e := range g.Edges {
		lines = append(lines, fmt.Sprintf("    %s --> %s", e.From, e.To))
	}
	return strings.Join(lines, "\n")
}

func nodeDefinition(n *Node) string {
	return fmt.Sprintf(`%s["%s"]`, n.ID, escMermaid(n.Label))
}

func sorted(ids []string) []string {
	sort.Strings(ids)
	return ids
}

func safeID(id string) string {
	r := strings.NewReplacer("-", "_", " ", "_", ".", "_", "/", "_")
	return r.Replace(id)
}

func groupID(name string) string {
	return strings.NewReplacer(" ", "_", "-", "_").Replace(name)
}

func escMermaid(s string) string {
	s = strings.ReplaceAll(s, `"`, "'")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}

// --- ASCII ---

// generateASCII draws each flow as a vertical chain of screen boxes.
func generateASCII(g *Graph) string {
	if len(g.Paths) == 0 {
		return "No flow tests found\n"
	}

	const indent = 4
	pad := strings.Repeat(" ", indent)

	var b strings.Builder
	for pi, p := range g.Paths {
		if pi > 0 {
			b.WriteString("\n")
		}
		labels := make([]string, len(p.Nodes))
		for i, id := range p.Nodes {
			labels[i] = g.Nodes[id].Label
			if g.Nodes[id].Entry {
				labels[i] = "▶ " + labels[i]
			}
		}

		boxWidth := uniformBoxWidth(p.Flow, labels)
		mid := boxWidth / 2
		connPad := strings.Repeat(" ", indent+1+mid)

		b.WriteString(pad + "╔" + strings.Repeat("═", boxWidth) + "╗\n")
		b.WriteString(pad + "║" + centerPad(p.Flow, boxWidth) + "║\n")
		b.WriteString(pad + "╚" + strings.Repeat("═", mid) + "╤" + strings.Repeat("═", boxWidth-mid-1) + "╝\n")
		b.WriteString(connPad + "│\n")

		for i, label := range labels {
			content := " " + label + " "
			b.WriteString(pad + "┌" + strings.Repeat("─", boxWidth) + "┐\n")
			b.WriteString(pad + "│" + content + strings.Repeat(" ", boxWidth-runewidth.StringWidth(content)) + "│\n")
			if i < len(labels)-1 {
				b.WriteString(pad + "└" + strings.Repeat("─", mid) + "┬" + strings.Repeat("─", boxWidth-mid-1) + "┘\n")
				b.WriteString(connPad + "▼\n")
			} else {
				b.WriteString(pad + "└" + strings.Repeat("─", boxWidth) + "┘\n")
			}
		}
	}
	return b.String()
}

// uniformBoxWidth returns the widest interior width needed across the
// flow name and every screen label.
func uniformBoxWidth(name string, labels []string) int {
	w := 22
	if nw := runewidth.StringWidth(name) + 4; nw > w {
		w = nw
	}
	for _, l := range labels {
		if lw := runewidth.StringWidth(l) + 2; lw > w {
			w = lw
		}
	}
	return w
}

// centerPad centers s within width using spaces, based on display width.
func centerPad(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	total := width - sw
	left := total / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", total-left)
}
