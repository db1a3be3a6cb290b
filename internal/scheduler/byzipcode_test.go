package scheduler

import (
	"testing"

	"github.com/jimelj/machine-scheduler/internal/model"
)

func TestByZipcodeContainment(t *testing.T) {
	records := sampleRecords()

	engine, err := New(model.MethodByZipcode, 2)
	if err != nil {
		t.Fatal(err)
	}
	sched, err := engine.Run(records, sampleDates())
	if err != nil {
		t.Fatal(err)
	}

	if len(sched.ZipcodeSchedule) != len(records) {
		t.Fatalf("ZipcodeSchedule has %d zips, want %d", len(sched.ZipcodeSchedule), len(records))
	}
	for zip, za := range sched.ZipcodeSchedule {
		if len(za.Machines) != 1 {
			t.Errorf("zip %s assigned to machines %v, want exactly one", zip, za.Machines)
		}
	}
}

func TestByZipcodeStoreOverlapWinsAtScale(t *testing.T) {
	// With enough zip codes spreading the load, a recurring store pulls a
	// later zip code onto the machine that already prints its inserts.
	records := map[string]*model.ZipRecord{
		"11501": zipRecord("11501", store("STORE A", 100), store("STORE B", 50)),
		"11502": zipRecord("11502", store("STORE C", 140)),
		"11503": zipRecord("11503", store("STORE D", 130)),
		"11504": zipRecord("11504", store("STORE E", 120)),
		"11801": zipRecord("11801", store("STORE A", 80)),
	}

	engine, err := New(model.MethodByZipcode, 2)
	if err != nil {
		t.Fatal(err)
	}
	sched, err := engine.Run(records, staticDates{})
	if err != nil {
		t.Fatal(err)
	}

	first := sched.ZipcodeSchedule["11501"]
	second := sched.ZipcodeSchedule["11801"]
	if len(first.Machines) != 1 || len(second.Machines) != 1 {
		t.Fatalf("containment violated: 11501=%v 11801=%v", first.Machines, second.Machines)
	}
	if first.Machines[0] != second.Machines[0] {
		t.Errorf("11801 on machine %d, want machine %d (shared STORE A)", second.Machines[0], first.Machines[0])
	}
}

func TestByZipcodeEmptyMachineFavoredOverWeakOverlap(t *testing.T) {
	// An untouched machine pays no new-insert penalty, so a light zip code
	// with only a weak store overlap elsewhere claims the empty machine
	// instead of piling onto a loaded one.
	records := map[string]*model.ZipRecord{
		"00001": zipRecord("00001", store("STORE D", 1000)),
		"00002": zipRecord("00002", store("STORE A", 200), store("STORE B", 200)),
		"00003": zipRecord("00003", store("STORE A", 10), store("STORE C", 10)),
	}

	engine, err := New(model.MethodByZipcode, 3)
	if err != nil {
		t.Fatal(err)
	}
	sched, err := engine.Run(records, staticDates{})
	if err != nil {
		t.Fatal(err)
	}

	if got := sched.ZipcodeSchedule["00002"].Machines[0]; got != 2 {
		t.Errorf("zip 00002 on machine %d, want 2", got)
	}
	if got := sched.ZipcodeSchedule["00003"].Machines[0]; got != 3 {
		t.Errorf("zip 00003 on machine %d, want 3 (empty machine)", got)
	}
}

func TestByZipcodeHeaviestPlacedFirst(t *testing.T) {
	// With two machines and two zip codes of unequal weight and no shared
	// stores, the heavier zip claims the first machine and the lighter one
	// lands on the other, so loads end up [heavy, light].
	records := map[string]*model.ZipRecord{
		"11501": zipRecord("11501", store("STORE A", 150)),
		"11801": zipRecord("11801", store("STORE B", 80)),
	}

	engine, err := New(model.MethodByZipcode, 2)
	if err != nil {
		t.Fatal(err)
	}
	sched, err := engine.Run(records, staticDates{})
	if err != nil {
		t.Fatal(err)
	}

	if sched.MachineLoads[0] != 150 || sched.MachineLoads[1] != 80 {
		t.Errorf("MachineLoads = %v, want [150 80]", sched.MachineLoads)
	}
	if got := sched.ZipcodeSchedule["11501"].Machines[0]; got != 1 {
		t.Errorf("11501 on machine %d, want 1", got)
	}
	if got := sched.ZipcodeSchedule["11801"].Machines[0]; got != 2 {
		t.Errorf("11801 on machine %d, want 2", got)
	}
}

func TestByZipcodeDaysScheduledIndependently(t *testing.T) {
	// Machine state resets per mail date: the same single-zip day on two
	// dates always starts from empty machines, so each day's zip goes to
	// machine 1 regardless of what the other day placed.
	records := map[string]*model.ZipRecord{
		"11501": zipRecord("11501", store("STORE A", 100)),
		"11801": zipRecord("11801", store("STORE B", 100)),
	}
	dates := staticDates{"11501": "MON", "11801": "TUES"}

	engine, err := New(model.MethodByZipcode, 2)
	if err != nil {
		t.Fatal(err)
	}
	sched, err := engine.Run(records, dates)
	if err != nil {
		t.Fatal(err)
	}

	if got := sched.ZipcodeSchedule["11501"].Machines[0]; got != 1 {
		t.Errorf("MON zip on machine %d, want 1", got)
	}
	if got := sched.ZipcodeSchedule["11801"].Machines[0]; got != 1 {
		t.Errorf("TUES zip on machine %d, want 1 (fresh machine state)", got)
	}
	if sched.ZipcodeSchedule["11501"].MailDate != "MON" {
		t.Errorf("11501 mail date = %q, want MON", sched.ZipcodeSchedule["11501"].MailDate)
	}
}

func TestByZipcodeStoresInheritZipMachine(t *testing.T) {
	records := sampleRecords()

	engine, err := New(model.MethodByZipcode, 2)
	if err != nil {
		t.Fatal(err)
	}
	sched, err := engine.Run(records, sampleDates())
	if err != nil {
		t.Fatal(err)
	}

	// Every assignment's zip codes are owned by that assignment's machine.
	for machine, assignments := range sched.MachineSchedule {
		for _, a := range assignments {
			for _, zip := range a.ZipCodes {
				za := sched.ZipcodeSchedule[zip]
				if len(za.Machines) != 1 || za.Machines[0] != machine {
					t.Errorf("assignment %q on machine %d includes zip %s owned by %v",
						a.Store, machine, zip, za.Machines)
				}
			}
		}
	}
}
