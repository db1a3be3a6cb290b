package scheduler

import (
	"sort"

	"github.com/jimelj/machine-scheduler/internal/model"
)

// Scoring weights for placing a zip code on a machine: shared stores pull a
// zip toward a machine, new inserts push it away (half weight), and the
// machine's share of the total load so far applies a strong balance penalty.
const (
	newInsertPenalty = 0.5
	loadSharePenalty = 5.0
)

// assignByZipcode implements the zip-code containment strategy: each zip
// code lands whole on exactly one machine, and all of its stores inherit
// that machine for its mail date. Each mail date is scheduled independently;
// overlap state does not carry across days.
func (e *Engine) assignByZipcode(records map[string]*model.ZipRecord, dates MailDateLookup) *model.Schedule {
	sched := e.newSchedule()
	if len(records) == 0 {
		return sched
	}

	grouped := groupRecordsByDate(records, dates)
	dateSet := make(map[string]bool, len(grouped))
	for d := range grouped {
		dateSet[d] = true
	}

	for _, mailDate := range sortedMailDates(dateSet) {
		e.scheduleDay(sched, grouped[mailDate], mailDate)
	}

	sched.ZipCodeCount = len(records)
	return sched
}

// scheduleDay places one mail date's zip codes and derives its assignments.
func (e *Engine) scheduleDay(sched *model.Schedule, dayRecords map[string]*model.ZipRecord, mailDate string) {
	zipMachine := e.placeZipcodes(sched, dayRecords, mailDate)
	storeMachine := e.deriveStoreMachines(dayRecords, zipMachine)
	e.buildZipAssignments(sched, dayRecords, mailDate, zipMachine, storeMachine)
}

// placeZipcodes greedily assigns the day's zip codes, heaviest first, to the
// best-scoring machine. Machine state (store sets, loads) is fresh per day.
func (e *Engine) placeZipcodes(sched *model.Schedule, dayRecords map[string]*model.ZipRecord, mailDate string) map[string]int {
	zips := sortedZipcodes(dayRecords)
	sort.SliceStable(zips, func(i, j int) bool {
		return dayRecords[zips[i]].Weight() > dayRecords[zips[j]].Weight()
	})

	machineStores := make([]map[string]bool, e.machines)
	for i := range machineStores {
		machineStores[i] = make(map[string]bool)
	}
	loads := make([]int, e.machines)
	totalLoad := 0

	zipMachine := make(map[string]int, len(zips))

	for _, zip := range zips {
		rec := dayRecords[zip]
		names := uniqueStoreNames(rec.Stores)

		best := 0
		bestScore := machineScore(machineStores[0], names, loads[0], totalLoad)
		for m := 1; m < e.machines; m++ {
			score := machineScore(machineStores[m], names, loads[m], totalLoad)
			if score > bestScore || (score == bestScore && loads[m] < loads[best]) {
				best = m
				bestScore = score
			}
		}

		zipMachine[zip] = best + 1
		for _, name := range names {
			machineStores[best][name] = true
		}
		weight := rec.Weight()
		loads[best] += weight
		totalLoad += weight

		sched.ZipcodeSchedule[zip] = model.ZipAssignment{
			Machines: []int{best + 1},
			MailDate: mailDate,
		}
	}

	for m := 0; m < e.machines; m++ {
		sched.MachineLoads[m] += loads[m]
	}

	return zipMachine
}

// machineScore rates how well a zip code's stores fit a machine. A machine
// with no stores yet pays no new-insert penalty and scores zero minus the
// load penalty, so untouched machines are claimed early.
func machineScore(assigned map[string]bool, names []string, load, totalLoad int) float64 {
	loadFraction := 0.0
	if totalLoad > 0 {
		loadFraction = float64(load) / float64(totalLoad)
	}

	if len(assigned) == 0 {
		return -loadSharePenalty * loadFraction
	}

	overlap := 0
	for _, name := range names {
		if assigned[name] {
			overlap++
		}
	}
	newInserts := len(names) - overlap

	return float64(overlap) - newInsertPenalty*float64(newInserts) - loadSharePenalty*loadFraction
}

// deriveStoreMachines picks each store's machine: the one holding the
// largest quantity-weighted share of its zip-code appearances. Stores with
// no owned appearances fall back to the least-loaded machine.
func (e *Engine) deriveStoreMachines(dayRecords map[string]*model.ZipRecord, zipMachine map[string]int) map[string]int {
	quantityByMachine := make(map[string][]int)
	loads := make([]int, e.machines)

	for _, zip := range sortedZipcodes(dayRecords) {
		machine := zipMachine[zip]
		for _, line := range dayRecords[zip].Stores {
			if quantityByMachine[line.StoreName] == nil {
				quantityByMachine[line.StoreName] = make([]int, e.machines)
			}
			quantityByMachine[line.StoreName][machine-1] += line.Quantity
			loads[machine-1] += line.Quantity
		}
	}

	storeMachine := make(map[string]int, len(quantityByMachine))
	for store, perMachine := range quantityByMachine {
		best, bestQty := -1, 0
		for m, qty := range perMachine {
			if qty > bestQty {
				best = m
				bestQty = qty
			}
		}
		if best < 0 {
			best = leastLoaded(loads)
		}
		storeMachine[store] = best + 1
	}

	return storeMachine
}

// buildZipAssignments creates the day's per-store assignments, keeping only
// zip codes actually owned by the store's machine.
func (e *Engine) buildZipAssignments(sched *model.Schedule, dayRecords map[string]*model.ZipRecord, mailDate string, zipMachine, storeMachine map[string]int) {
	appearances := make(map[string][]string)
	quantities := make(map[string]map[string]int)

	for _, zip := range sortedZipcodes(dayRecords) {
		for _, line := range dayRecords[zip].Stores {
			appearances[line.StoreName] = append(appearances[line.StoreName], zip)
			if quantities[line.StoreName] == nil {
				quantities[line.StoreName] = make(map[string]int)
			}
			quantities[line.StoreName][zip] += line.Quantity
		}
	}

	stores := make([]string, 0, len(appearances))
	for s := range appearances {
		stores = append(stores, s)
	}
	sort.Strings(stores)

	for _, store := range stores {
		machine := storeMachine[store]

		zips := []string{}
		quantity := 0
		for _, zip := range dedupe(appearances[store]) {
			if zipMachine[zip] != machine {
				continue
			}
			zips = append(zips, zip)
			quantity += quantities[store][zip]
		}
		if len(zips) == 0 {
			continue
		}

		sched.MachineSchedule[machine] = append(sched.MachineSchedule[machine], model.Assignment{
			Store:         store,
			Machine:       machine,
			MailDate:      mailDate,
			ZipCodes:      zips,
			ZipCodeCount:  len(zips),
			TotalQuantity: quantity,
		})
	}
}
