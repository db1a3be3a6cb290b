package scheduler

import (
	"reflect"
	"testing"

	"github.com/jimelj/machine-scheduler/internal/model"
)

func assignment(storeName, mailDate string, quantity int) model.Assignment {
	return model.Assignment{
		Store:         storeName,
		Machine:       1,
		MailDate:      mailDate,
		ZipCodes:      []string{"11501"},
		ZipCodeCount:  1,
		TotalQuantity: quantity,
	}
}

func sequenceStores(assignments []model.Assignment) []string {
	names := make([]string, len(assignments))
	for i, a := range assignments {
		names[i] = a.Store
	}
	return names
}

func TestOrderRunSequenceStartsWithHeaviest(t *testing.T) {
	day := []model.Assignment{
		assignment("STORE Y", "MON", 100),
		assignment("STORE X", "MON", 300),
		assignment("STORE Z", "MON", 200),
	}

	got := sequenceStores(orderRunSequence(day))
	// All candidates are equally dissimilar, so the walk falls back to the
	// quantity ordering.
	want := []string{"STORE X", "STORE Z", "STORE Y"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sequence = %v, want %v", got, want)
	}
}

func TestOrderRunSequenceGroupsDays(t *testing.T) {
	assignments := []model.Assignment{
		assignment("LATE", "", 500),
		assignment("FRIDAY", "FRI", 50),
		assignment("MONDAY", "MON", 10),
	}

	got := sequenceStores(orderRunSequence(assignments))
	want := []string{"MONDAY", "FRIDAY", "LATE"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sequence = %v, want %v", got, want)
	}
}

func TestOrderRunSequencePrefersSameStore(t *testing.T) {
	// A repeated store is the only candidate with positive similarity, so
	// it follows its twin immediately despite a lower quantity.
	day := []model.Assignment{
		assignment("STORE X", "MON", 300),
		assignment("STORE Y", "MON", 250),
		assignment("STORE X", "MON", 10),
	}

	got := sequenceStores(orderRunSequence(day))
	want := []string{"STORE X", "STORE X", "STORE Y"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sequence = %v, want %v", got, want)
	}
}

func TestOrderRunSequenceTieBreakIsDeterministic(t *testing.T) {
	day := []model.Assignment{
		assignment("B", "MON", 100),
		assignment("A", "MON", 100),
		assignment("C", "MON", 100),
	}

	want := sequenceStores(orderRunSequence(day))
	for i := 0; i < 5; i++ {
		if got := sequenceStores(orderRunSequence(day)); !reflect.DeepEqual(got, want) {
			t.Fatalf("sequence changed between runs: %v vs %v", got, want)
		}
	}
	if want[0] != "A" {
		t.Errorf("equal quantities should order by store name, got %v", want)
	}
}

func TestOrderRunSequenceSmallInputs(t *testing.T) {
	if got := orderRunSequence(nil); len(got) != 0 {
		t.Errorf("nil input produced %v", got)
	}

	one := []model.Assignment{assignment("ONLY", "MON", 10)}
	if got := orderRunSequence(one); len(got) != 1 || got[0].Store != "ONLY" {
		t.Errorf("single input = %v, want unchanged", got)
	}
}
