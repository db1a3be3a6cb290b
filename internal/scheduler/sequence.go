package scheduler

import (
	"sort"

	"github.com/jimelj/machine-scheduler/internal/model"
)

// changeCostPenalty weights the cost of switching inserts between adjacent
// jobs in the run sequence.
const changeCostPenalty = 0.5

// orderRunSequence orders one machine's assignments for the run: mail dates
// in canonical day order, and within each day a greedy nearest-neighbor walk
// that starts from the largest job and prefers the candidate with the most
// insert overlap against the current one. Insert overlap is approximated by
// store identity, the only signal tracked at this stage.
func orderRunSequence(assignments []model.Assignment) []model.Assignment {
	byDate := make(map[string][]model.Assignment)
	dateSet := make(map[string]bool)
	for _, a := range assignments {
		byDate[a.MailDate] = append(byDate[a.MailDate], a)
		dateSet[a.MailDate] = true
	}

	ordered := make([]model.Assignment, 0, len(assignments))
	for _, mailDate := range sortedMailDates(dateSet) {
		ordered = append(ordered, orderDay(byDate[mailDate])...)
	}
	return ordered
}

// orderDay runs the nearest-neighbor walk over a single day's assignments.
func orderDay(day []model.Assignment) []model.Assignment {
	if len(day) < 2 {
		return day
	}

	remaining := make([]model.Assignment, len(day))
	copy(remaining, day)
	sort.Slice(remaining, func(i, j int) bool {
		if remaining[i].TotalQuantity != remaining[j].TotalQuantity {
			return remaining[i].TotalQuantity > remaining[j].TotalQuantity
		}
		return remaining[i].Store < remaining[j].Store
	})

	// Start with the heaviest job; after the sort above it is first, and the
	// quantity/name ordering also settles all score ties deterministically.
	sequence := []model.Assignment{remaining[0]}
	remaining = remaining[1:]

	for len(remaining) > 0 {
		current := sequence[len(sequence)-1]
		best := 0
		bestScore := similarity(current, remaining[0])
		for i := 1; i < len(remaining); i++ {
			if score := similarity(current, remaining[i]); score > bestScore {
				best = i
				bestScore = score
			}
		}
		sequence = append(sequence, remaining[best])
		remaining = append(remaining[:best], remaining[best+1:]...)
	}

	return sequence
}

// similarity scores a candidate as the next job after current: insert
// overlap minus weighted changeover cost, both over the job's store.
func similarity(current, candidate model.Assignment) float64 {
	if current.Store == candidate.Store {
		return 1
	}
	return -changeCostPenalty
}
