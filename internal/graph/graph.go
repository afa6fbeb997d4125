package graph

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/emicklei/dot"

	"github.com/commentgraph/commentgraph/internal/config"
	"github.com/commentgraph/commentgraph/internal/links"
)

// Header prepended to the emitted file so the graph can be re-rendered by
// hand after manual edits.
const header = "// Render with: dot -Tsvg graph.gv -o graph.svg\n\n"

// Builder turns a finished link tally into a Graphviz DOT description:
// one node per domain, one node per linking author, one edge per link
// occurrence colored by author.
type Builder struct {
	cfg    config.GraphConfig
	logger *slog.Logger
}

// NewBuilder creates a graph builder.
func NewBuilder(cfg config.GraphConfig, logger *slog.Logger) *Builder {
	return &Builder{
		cfg:    cfg,
		logger: logger.With("component", "graph_builder"),
	}
}

// Build renders the DOT source for a tally. Output is deterministic:
// nodes are created in sorted order and edges in tally insertion order.
func (b *Builder) Build(t *links.Tally) string {
	g := dot.NewGraph(dot.Directed)
	g.Attr("fontname", "Helvetica")
	g.Attr("bgcolor", "#252525")
	g.Attr("ranksep", "2")
	g.Attr("nodesep", "1.2")
	g.Attr("rankdir", "LR")
	g.Attr("splines", "line")
	g.Attr("newrank", "true")
	g.Attr("overlap", "prism")

	g.NodeInitializer(func(n dot.Node) {
		n.Attr("color", "#4bc9c8")
		n.Attr("fontcolor", "#dddddd")
	})
	g.EdgeInitializer(func(e dot.Edge) {
		e.Attr("penwidth", fmt.Sprintf("%g", b.cfg.BaseEdgeWidth))
	})

	authors := b.addAuthorNodes(g, t)
	domains := b.addDomainNodes(g, t)
	b.addEdges(g, t, authors, domains)

	return header + g.String()
}

// addAuthorNodes creates one node per author who produced at least one
// link, colored with the author's edge color.
func (b *Builder) addAuthorNodes(g *dot.Graph, t *links.Tally) map[string]dot.Node {
	colors := make(map[string]string)
	for _, e := range t.Edges() {
		colors[e.Author] = e.Color
	}

	names := make([]string, 0, len(colors))
	for name := range colors {
		names = append(names, name)
	}
	sort.Strings(names)

	nodes := make(map[string]dot.Node, len(names))
	for _, name := range names {
		n := g.Node("author:" + name)
		n.Attr("label", name)
		n.Attr("shape", "box")
		n.Attr("style", "filled")
		n.Attr("color", colors[name])
		n.Attr("fontcolor", "#252525")
		nodes[name] = n
	}
	return nodes
}

// addDomainNodes creates one node per linked domain, grouping styled
// domains into cluster subgraphs and chaining the rest into columns so
// the layout stays readable with many nodes.
func (b *Builder) addDomainNodes(g *dot.Graph, t *links.Tally) map[string]dot.Node {
	nodes := make(map[string]dot.Node)
	var ungrouped []dot.Node

	for _, dc := range t.Domains() {
		name, style, clustered := b.clusterFor(dc.Domain)

		parent := g
		if clustered {
			parent = g.Subgraph(name, dot.ClusterOption{})
			parent.Attr("style", "invis")
		}

		n := parent.Node(dc.Domain)
		n.Attr("label", wrap(dc.Domain, b.cfg.MaxNodeLineLength))
		n.Attr("tooltip", fmt.Sprintf("%s (%d)", dc.Domain, dc.Count))
		if clustered {
			n.Attr("style", "filled")
			if style.Color != "" {
				n.Attr("color", style.Color)
			}
			if style.FontColor != "" {
				n.Attr("fontcolor", style.FontColor)
			}
		} else {
			ungrouped = append(ungrouped, n)
		}
		nodes[dc.Domain] = n
	}

	b.chainColumns(g, ungrouped)
	return nodes
}

// clusterFor matches a domain against the configured cluster map. Keys
// hold "|"-separated aliases; the first alias names the cluster.
func (b *Builder) clusterFor(domain string) (string, config.ClusterStyle, bool) {
	keys := make([]string, 0, len(b.cfg.Clusters))
	for k := range b.cfg.Clusters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		for _, alias := range strings.Split(key, "|") {
			if alias != "" && strings.Contains(domain, alias) {
				name, _, _ := strings.Cut(key, "|")
				return clusterName(name), b.cfg.Clusters[key], true
			}
		}
	}
	return "", config.ClusterStyle{}, false
}

var nonIdentRE = regexp.MustCompile(`[^A-Za-z0-9]+`)

func clusterName(s string) string {
	return nonIdentRE.ReplaceAllString(s, "")
}

// chainColumns joins unclustered domain nodes row by row with invisible
// edges, capping each column at the configured height.
func (b *Builder) chainColumns(g *dot.Graph, nodes []dot.Node) {
	height := b.cfg.MaxNodesInColumn
	if height < 1 || len(nodes) <= height {
		return
	}

	var columns [][]dot.Node
	for start := 0; start < len(nodes); start += height {
		end := min(start+height, len(nodes))
		columns = append(columns, nodes[start:end])
	}

	for row := 0; row < height; row++ {
		for col := 0; col+1 < len(columns); col++ {
			if row >= len(columns[col]) || row >= len(columns[col+1]) {
				continue
			}
			g.Edge(columns[col][row], columns[col+1][row]).Attr("style", "invis")
		}
	}
}

// addEdges draws the author->domain connections, either one edge per
// occurrence or one width-scaled edge per distinct pair.
func (b *Builder) addEdges(g *dot.Graph, t *links.Tally, authors, domains map[string]dot.Node) {
	if !b.cfg.MinimizeEdges {
		for _, e := range t.Edges() {
			edge := g.Edge(authors[e.Author], domains[e.Domain])
			edge.Attr("color", e.Color)
			edge.Attr("constraint", "false")
		}
		return
	}

	type pair struct{ author, domain, color string }
	counts := make(map[pair]int)
	var order []pair
	for _, e := range t.Edges() {
		p := pair{e.Author, e.Domain, e.Color}
		if counts[p] == 0 {
			order = append(order, p)
		}
		counts[p]++
	}

	for _, p := range order {
		edge := g.Edge(authors[p.author], domains[p.domain])
		edge.Attr("color", p.color)
		edge.Attr("constraint", "false")
		if n := counts[p]; n > 1 {
			edge.Attr("penwidth", fmt.Sprintf("%g", b.cfg.BaseEdgeWidth+0.5*float64(n)))
		}
	}
}

// wrap breaks a label into lines of at most width characters. Domains
// have no spaces, so this is a plain fixed-width split.
func wrap(s string, width int) string {
	if width < 1 || len(s) <= width {
		return s
	}
	var lines []string
	for len(s) > width {
		lines = append(lines, s[:width])
		s = s[width:]
	}
	lines = append(lines, s)
	return strings.Join(lines, "\n")
}
