package analysis

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// DefaultGroupThreshold is the |r| above which features count as redundant.
const DefaultGroupThreshold = 0.8

// FeatureGroup is an alphabetically sorted set of transitively correlated features.
type FeatureGroup []string

// GroupFeatures links every pair found by FindCorrelatedPairs and returns the
// connected components, so A~B and B~C land in one group even when A and C
// fall below threshold. Features without a qualifying pair are omitted.
// Groups are ordered by their first member.
func GroupFeatures(m *CorrMatrix, threshold float64) ([]FeatureGroup, error) {
	pairs, err := FindCorrelatedPairs(m, threshold)
	if err != nil {
		return nil, err
	}
	groups := []FeatureGroup{}
	if len(pairs) == 0 {
		return groups, nil
	}

	g := simple.NewUndirectedGraph()
	ids := map[string]int64{}
	names := map[int64]string{}
	node := func(name string) simple.Node {
		id, ok := ids[name]
		if !ok {
			id = int64(len(ids))
			ids[name] = id
			names[id] = name
		}
		return simple.Node(id)
	}
	for _, p := range pairs {
		g.SetEdge(g.NewEdge(node(p.A), node(p.B)))
	}

	for _, comp := range topo.ConnectedComponents(g) {
		grp := make(FeatureGroup, 0, len(comp))
		for _, n := range comp {
			grp = append(grp, names[n.ID()])
		}
		sort.Strings(grp)
		groups = append(groups, grp)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i][0] < groups[j][0] })
	return groups, nil
}
