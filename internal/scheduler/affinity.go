package scheduler

import (
	"sort"

	"github.com/jimelj/machine-scheduler/internal/model"
)

// affinityGraph holds pairwise co-occurrence counts between stores:
// graph[a][b] is the number of zip codes in which both a and b appear.
// The graph is symmetric.
type affinityGraph map[string]map[string]int

// buildAffinityGraph counts store co-occurrence across zip codes.
// Every store in the input appears as a key, even with no neighbors.
func buildAffinityGraph(records map[string]*model.ZipRecord) affinityGraph {
	graph := make(affinityGraph)

	ensure := func(store string) map[string]int {
		if graph[store] == nil {
			graph[store] = make(map[string]int)
		}
		return graph[store]
	}

	for _, rec := range records {
		names := uniqueStoreNames(rec.Stores)
		for i, a := range names {
			ensure(a)
			for _, b := range names[i+1:] {
				ensure(a)[b]++
				ensure(b)[a]++
			}
		}
	}

	return graph
}

// commonality is the sum of a store's co-occurrence counts. It measures how
// strongly the store clusters with others; high-commonality stores are
// assigned first so their neighbors can follow them.
func (g affinityGraph) commonality(store string) int {
	total := 0
	for _, count := range g[store] {
		total += count
	}
	return total
}

// storesByCommonality orders stores by descending commonality score,
// breaking ties by name.
func (g affinityGraph) storesByCommonality() []string {
	stores := make([]string, 0, len(g))
	for s := range g {
		stores = append(stores, s)
	}
	sort.Slice(stores, func(i, j int) bool {
		ci, cj := g.commonality(stores[i]), g.commonality(stores[j])
		if ci != cj {
			return ci > cj
		}
		return stores[i] < stores[j]
	})
	return stores
}

// neighborsByCount orders a store's co-occurring stores by descending count,
// breaking ties by name.
func (g affinityGraph) neighborsByCount(store string) []string {
	neighbors := make([]string, 0, len(g[store]))
	for n := range g[store] {
		neighbors = append(neighbors, n)
	}
	counts := g[store]
	sort.Slice(neighbors, func(i, j int) bool {
		if counts[neighbors[i]] != counts[neighbors[j]] {
			return counts[neighbors[i]] > counts[neighbors[j]]
		}
		return neighbors[i] < neighbors[j]
	})
	return neighbors
}

// storeQuantities sums each store's quantity across all zip codes.
func storeQuantities(records map[string]*model.ZipRecord) map[string]int {
	totals := make(map[string]int)
	for _, rec := range records {
		for _, line := range rec.Stores {
			totals[line.StoreName] += line.Quantity
		}
	}
	return totals
}

func uniqueStoreNames(lines []model.StoreLine) []string {
	seen := make(map[string]bool, len(lines))
	names := make([]string, 0, len(lines))
	for _, line := range lines {
		if seen[line.StoreName] {
			continue
		}
		seen[line.StoreName] = true
		names = append(names, line.StoreName)
	}
	sort.Strings(names)
	return names
}
