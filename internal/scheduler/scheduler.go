// Package scheduler assigns pick-list print jobs to machines.
//
// Two strategies are available: by_store balances individual stores across
// machines using co-occurrence affinity, by_zipcode keeps each zip code
// whole on a single machine. Both balance total print volume and order each
// machine's run by mail day. The engine is a pure function of its inputs;
// no state survives between runs.
package scheduler

import (
	"errors"
	"fmt"
	"sort"

	"github.com/jimelj/machine-scheduler/internal/model"
)

// MailDateLookup resolves a zip code to its mail-day label ("" if unknown).
type MailDateLookup interface {
	Lookup(zipcode string) string
}

// ErrNoMachines is returned for a machine count below 1.
var ErrNoMachines = errors.New("machine count must be at least 1")

// Engine runs one scheduling strategy over a parsed pick list.
type Engine struct {
	method   model.Method
	machines int
}

// New validates the configuration and creates an engine.
func New(method model.Method, machines int) (*Engine, error) {
	if machines < 1 {
		return nil, ErrNoMachines
	}
	if !method.Valid() {
		return nil, fmt.Errorf("unknown scheduling method %q", method)
	}
	return &Engine{method: method, machines: machines}, nil
}

// Run produces the full schedule for the given records.
// An empty input yields an empty schedule with zero loads.
func (e *Engine) Run(records map[string]*model.ZipRecord, dates MailDateLookup) (*model.Schedule, error) {
	var sched *model.Schedule
	switch e.method {
	case model.MethodByZipcode:
		sched = e.assignByZipcode(records, dates)
	case model.MethodByStore:
		sched = e.assignByStore(records, dates)
	default:
		return nil, fmt.Errorf("unknown scheduling method %q", e.method)
	}

	e.finish(sched)
	return sched, nil
}

// finish orders each machine's run sequence and fills the derived totals.
func (e *Engine) finish(sched *model.Schedule) {
	loadsByDate := make(map[string][]int)
	dateSet := make(map[string]bool)

	for machine := 1; machine <= e.machines; machine++ {
		sched.MachineSchedule[machine] = orderRunSequence(sched.MachineSchedule[machine])

		for _, a := range sched.MachineSchedule[machine] {
			dateSet[a.MailDate] = true
			if _, ok := loadsByDate[a.MailDate]; !ok {
				loadsByDate[a.MailDate] = make([]int, e.machines)
			}
			loadsByDate[a.MailDate][machine-1] += a.ZipCodeCount
		}
	}

	sched.MachineLoadsByDate = loadsByDate
	sched.MailDates = sortedMailDates(dateSet)

	total := 0
	for _, load := range sched.MachineLoads {
		total += load
	}
	sched.TotalLoad = total
}

// newSchedule allocates an empty schedule with one slot per machine.
func (e *Engine) newSchedule() *model.Schedule {
	sched := &model.Schedule{
		MachineSchedule: make(map[int][]model.Assignment),
		ZipcodeSchedule: make(map[string]model.ZipAssignment),
		MachineLoads:    make([]int, e.machines),
	}
	for machine := 1; machine <= e.machines; machine++ {
		sched.MachineSchedule[machine] = []model.Assignment{}
	}
	return sched
}

// groupRecordsByDate buckets records by their mail-day label.
func groupRecordsByDate(records map[string]*model.ZipRecord, dates MailDateLookup) map[string]map[string]*model.ZipRecord {
	grouped := make(map[string]map[string]*model.ZipRecord)
	for zip, rec := range records {
		day := dates.Lookup(zip)
		if grouped[day] == nil {
			grouped[day] = make(map[string]*model.ZipRecord)
		}
		grouped[day][zip] = rec
	}
	return grouped
}

// sortedMailDates orders labels by the canonical run order, unknowns last.
func sortedMailDates(set map[string]bool) []string {
	dates := make([]string, 0, len(set))
	for d := range set {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool {
		ri, rj := model.MailDayRank(dates[i]), model.MailDayRank(dates[j])
		if ri != rj {
			return ri < rj
		}
		return dates[i] < dates[j]
	})
	return dates
}

// sortedZipcodes returns the record keys in ascending order.
func sortedZipcodes(records map[string]*model.ZipRecord) []string {
	zips := make([]string, 0, len(records))
	for z := range records {
		zips = append(zips, z)
	}
	sort.Strings(zips)
	return zips
}

// leastLoaded returns the index of the machine with the lowest load,
// preferring the lowest index on ties.
func leastLoaded(loads []int) int {
	best := 0
	for i, load := range loads {
		if load < loads[best] {
			best = i
		}
	}
	return best
}
