package exporter

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/jimelj/machine-scheduler/internal/model"
)

func sampleSchedule() *model.Schedule {
	return &model.Schedule{
		MachineSchedule: map[int][]model.Assignment{
			1: {
				{Store: "STORE A", Machine: 1, MailDate: "MON", ZipCodes: []string{"11501", "11801"}, ZipCodeCount: 2, TotalQuantity: 180},
			},
			2: {
				{Store: "STORE B", Machine: 2, MailDate: "MON", ZipCodes: []string{"11501"}, ZipCodeCount: 1, TotalQuantity: 50},
				{Store: "STORE C", Machine: 2, MailDate: "", ZipCodes: []string{"11601"}, ZipCodeCount: 1, TotalQuantity: 60},
			},
		},
		ZipcodeSchedule: map[string]model.ZipAssignment{
			"11501": {Machines: []int{1, 2}, MailDate: "MON"},
			"11801": {Machines: []int{1}, MailDate: "MON"},
			"11601": {Machines: []int{2}, MailDate: ""},
		},
		MachineLoads:       []int{180, 110},
		MachineLoadsByDate: map[string][]int{"MON": {2, 1}, "": {0, 1}},
		TotalLoad:          290,
		ZipCodeCount:       3,
		MailDates:          []string{"MON", ""},
	}
}

func TestExportSheets(t *testing.T) {
	workbook, err := NewExporter().Export(sampleSchedule())
	if err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(workbook))
	if err != nil {
		t.Fatalf("exported bytes are not a valid workbook: %v", err)
	}
	defer f.Close()

	want := []string{"Machine Schedule", "MON Schedule", "Zipcode Schedule", "Daily Machine Loads"}
	sheets := f.GetSheetList()
	for _, name := range want {
		if !contains(sheets, name) {
			t.Errorf("missing sheet %q, got %v", name, sheets)
		}
	}
}

func TestExportMachineScheduleRows(t *testing.T) {
	workbook, err := NewExporter().Export(sampleSchedule())
	if err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(workbook))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := f.GetRows("Machine Schedule")
	if err != nil {
		t.Fatal(err)
	}

	// Header + two MON rows + one UNASSIGNED row.
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4: %v", len(rows), rows)
	}
	if rows[0][0] != "Mail Date" || rows[0][4] != "Quantity" {
		t.Errorf("unexpected header row %v", rows[0])
	}
	if rows[1][0] != "MON" || rows[1][1] != "Machine 1" || rows[1][2] != "STORE A" {
		t.Errorf("unexpected first data row %v", rows[1])
	}
	if rows[1][3] != "11501, 11801 2" {
		t.Errorf("zip codes cell = %q, want %q", rows[1][3], "11501, 11801 2")
	}
	// Jobs without a mail date come last, labeled UNASSIGNED.
	last := rows[len(rows)-1]
	if last[0] != "UNASSIGNED" || last[2] != "STORE C" {
		t.Errorf("unexpected trailing row %v", last)
	}
}

func TestExportDailyLoads(t *testing.T) {
	workbook, err := NewExporter().Export(sampleSchedule())
	if err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(workbook))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := f.GetRows("Daily Machine Loads")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3: %v", len(rows), rows)
	}
	if rows[1][0] != "MON" || rows[1][1] != "2" || rows[1][2] != "1" {
		t.Errorf("unexpected MON loads row %v", rows[1])
	}
	if rows[2][0] != "UNASSIGNED" {
		t.Errorf("trailing loads row label = %q, want UNASSIGNED", rows[2][0])
	}
}

func contains(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}
