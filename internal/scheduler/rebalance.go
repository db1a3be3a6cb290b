package scheduler

import "sort"

// Post-hoc rebalance thresholds: a machine above overloadRatio times the
// mean load donates whole stores to a machine below underloadRatio times
// the mean.
const (
	overloadRatio  = 1.3
	underloadRatio = 0.7
)

// rebalanceOverloaded moves whole stores from overloaded machines to
// underloaded ones. A move is accepted only if it leaves the two machines'
// loads within a 0.7-1.3 ratio of each other. Single pass; this trims the
// worst outliers rather than seeking a global optimum. Both the placement
// map and the loads slice are mutated in place.
func (e *Engine) rebalanceOverloaded(placement map[string]int, loads []int, quantities map[string]int) {
	if e.machines < 2 {
		return
	}

	total := 0
	for _, load := range loads {
		total += load
	}
	mean := float64(total) / float64(e.machines)
	if mean == 0 {
		return
	}

	for over := 0; over < e.machines; over++ {
		if float64(loads[over]) <= overloadRatio*mean {
			continue
		}

		under := findUnderloaded(loads, mean, over)
		if under < 0 {
			continue
		}

		for _, store := range storesOnMachine(placement, quantities, over+1) {
			if float64(loads[over]) <= overloadRatio*mean {
				break
			}
			quantity := quantities[store]
			newOver := loads[over] - quantity
			newUnder := loads[under] + quantity
			if !withinRatio(newOver, newUnder) {
				continue
			}
			placement[store] = under + 1
			loads[over] = newOver
			loads[under] = newUnder
		}
	}
}

// findUnderloaded returns the least-loaded machine below the underload
// threshold, or -1.
func findUnderloaded(loads []int, mean float64, exclude int) int {
	best := -1
	for i, load := range loads {
		if i == exclude || float64(load) >= underloadRatio*mean {
			continue
		}
		if best < 0 || load < loads[best] {
			best = i
		}
	}
	return best
}

// storesOnMachine lists a machine's stores by descending quantity.
func storesOnMachine(placement map[string]int, quantities map[string]int, machine int) []string {
	stores := []string{}
	for store, m := range placement {
		if m == machine {
			stores = append(stores, store)
		}
	}
	sort.Slice(stores, func(i, j int) bool {
		if quantities[stores[i]] != quantities[stores[j]] {
			return quantities[stores[i]] > quantities[stores[j]]
		}
		return stores[i] < stores[j]
	})
	return stores
}

// withinRatio reports whether the smaller of the two loads is at least 0.7
// of the larger, the acceptance window for a rebalancing move.
func withinRatio(a, b int) bool {
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	if hi == 0 {
		return true
	}
	return float64(lo) >= underloadRatio*float64(hi)
}
