package scheduler

import (
	"sort"

	"github.com/jimelj/machine-scheduler/internal/model"
)

// colocationCap is the soft limit on a machine's store count during the
// affinity pass, as a multiple of the current average. A machine past the
// cap stops attracting neighbors but can still receive forced placements.
const colocationCap = 1.2

// assignByStore implements the store-affinity strategy: stores are placed
// globally (one machine per store across all mail dates) by clustering
// co-occurring stores, then the placement is rebalanced by actual quantity.
func (e *Engine) assignByStore(records map[string]*model.ZipRecord, dates MailDateLookup) *model.Schedule {
	sched := e.newSchedule()
	if len(records) == 0 {
		return sched
	}

	graph := buildAffinityGraph(records)
	quantities := storeQuantities(records)

	affinityPlacement := e.placeByAffinity(graph)
	placement, loads := e.rebalanceByQuantity(affinityPlacement, quantities)
	e.rebalanceOverloaded(placement, loads, quantities)

	sched.MachineLoads = loads
	e.buildStoreAssignments(sched, records, dates, placement)
	return sched
}

// placeByAffinity assigns every store to a machine, clustering stores that
// co-occur across zip codes. Machine load here is the count of assigned
// stores, not quantity.
func (e *Engine) placeByAffinity(graph affinityGraph) map[string]int {
	placement := make(map[string]int)
	loads := make([]int, e.machines)
	placed := 0

	for _, store := range graph.storesByCommonality() {
		if _, ok := placement[store]; ok {
			continue
		}
		machine := leastLoaded(loads)
		placement[store] = machine + 1
		loads[machine]++
		placed++

		// Pull the store's strongest unplaced neighbors onto the same
		// machine until it passes the soft cap.
		for _, neighbor := range graph.neighborsByCount(store) {
			if _, ok := placement[neighbor]; ok {
				continue
			}
			capLoad := colocationCap * float64(placed) / float64(e.machines)
			if float64(loads[machine]+1) > capLoad {
				break
			}
			placement[neighbor] = machine + 1
			loads[machine]++
			placed++
		}
	}

	return placement
}

// rebalanceByQuantity reassigns every store to the machine with the lowest
// cumulative quantity, heaviest stores first. This pass overrides the
// affinity placement entirely; the affinity pass only motivates it.
func (e *Engine) rebalanceByQuantity(placement map[string]int, quantities map[string]int) (map[string]int, []int) {
	stores := make([]string, 0, len(placement))
	for s := range placement {
		stores = append(stores, s)
	}
	sort.Slice(stores, func(i, j int) bool {
		if quantities[stores[i]] != quantities[stores[j]] {
			return quantities[stores[i]] > quantities[stores[j]]
		}
		return stores[i] < stores[j]
	})

	final := make(map[string]int, len(stores))
	loads := make([]int, e.machines)
	for _, store := range stores {
		machine := leastLoaded(loads)
		final[store] = machine + 1
		loads[machine] += quantities[store]
	}

	return final, loads
}

// buildStoreAssignments creates one Assignment per (store, mail date) pair
// with at least one zip-code appearance that day, and the zip-to-machine map.
func (e *Engine) buildStoreAssignments(sched *model.Schedule, records map[string]*model.ZipRecord, dates MailDateLookup, placement map[string]int) {
	grouped := groupRecordsByDate(records, dates)

	dateSet := make(map[string]bool, len(grouped))
	for d := range grouped {
		dateSet[d] = true
	}

	zipMachines := make(map[string]map[int]bool)

	for _, mailDate := range sortedMailDates(dateSet) {
		dayRecords := grouped[mailDate]

		// store -> that day's zip appearances
		appearances := make(map[string][]string)
		dayQuantity := make(map[string]int)
		for _, zip := range sortedZipcodes(dayRecords) {
			for _, line := range dayRecords[zip].Stores {
				appearances[line.StoreName] = append(appearances[line.StoreName], zip)
				dayQuantity[line.StoreName] += line.Quantity
			}
		}

		stores := make([]string, 0, len(appearances))
		for s := range appearances {
			stores = append(stores, s)
		}
		sort.Strings(stores)

		for _, store := range stores {
			machine := placement[store]
			zips := dedupe(appearances[store])

			for _, zip := range zips {
				if zipMachines[zip] == nil {
					zipMachines[zip] = make(map[int]bool)
				}
				zipMachines[zip][machine] = true
			}

			sched.MachineSchedule[machine] = append(sched.MachineSchedule[machine], model.Assignment{
				Store:         store,
				Machine:       machine,
				MailDate:      mailDate,
				ZipCodes:      zips,
				ZipCodeCount:  len(zips),
				TotalQuantity: dayQuantity[store],
			})
		}
	}

	for zip, machines := range zipMachines {
		ids := make([]int, 0, len(machines))
		for m := range machines {
			ids = append(ids, m)
		}
		sort.Ints(ids)
		sched.ZipcodeSchedule[zip] = model.ZipAssignment{
			Machines: ids,
			MailDate: dates.Lookup(zip),
		}
	}
	sched.ZipCodeCount = len(records)
}

func dedupe(zips []string) []string {
	seen := make(map[string]bool, len(zips))
	out := zips[:0]
	for _, z := range zips {
		if seen[z] {
			continue
		}
		seen[z] = true
		out = append(out, z)
	}
	return out
}
