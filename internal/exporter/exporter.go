// Package exporter renders a schedule into the multi-sheet Excel report
// handed to the production floor.
package exporter

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jimelj/machine-scheduler/internal/model"
)

// ReportFileName is the download name of the generated workbook.
const ReportFileName = "machine_schedule.xlsx"

const unassignedLabel = "UNASSIGNED"

// Exporter writes schedule workbooks.
type Exporter struct{}

// NewExporter creates an exporter.
func NewExporter() *Exporter {
	return &Exporter{}
}

// Export renders the schedule to an in-memory xlsx workbook.
//
// Sheets: "Machine Schedule" (everything, mail dates in run order,
// unassigned rows last), one "<DAY> Schedule" sheet per mail date, a
// "Zipcode Schedule" mapping sheet and a "Daily Machine Loads" summary.
func (e *Exporter) Export(sched *model.Schedule) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := e.writeMachineScheduleSheet(f, sched); err != nil {
		return nil, err
	}
	if err := e.writeDailySheets(f, sched); err != nil {
		return nil, err
	}
	if err := e.writeZipcodeSheet(f, sched); err != nil {
		return nil, err
	}
	if err := e.writeLoadsSheet(f, sched); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *Exporter) writeMachineScheduleSheet(f *excelize.File, sched *model.Schedule) error {
	const sheet = "Machine Schedule"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	row := 1
	if err := setRow(f, sheet, row, "Mail Date", "Machine", "Store", "Zip Codes", "Quantity"); err != nil {
		return err
	}

	writeDate := func(mailDate string, label string) error {
		for _, machine := range machineIDs(sched) {
			for _, a := range sched.MachineSchedule[machine] {
				if a.MailDate != mailDate {
					continue
				}
				row++
				if err := setRow(f, sheet, row,
					label,
					fmt.Sprintf("Machine %d", machine),
					a.Store,
					zipCodesCell(a),
					a.TotalQuantity,
				); err != nil {
					return err
				}
			}
		}
		return nil
	}

	for _, mailDate := range sched.MailDates {
		if mailDate == "" {
			continue
		}
		if err := writeDate(mailDate, mailDate); err != nil {
			return err
		}
	}
	// Jobs with no mail date go last.
	return writeDate("", unassignedLabel)
}

func (e *Exporter) writeDailySheets(f *excelize.File, sched *model.Schedule) error {
	for _, mailDate := range sched.MailDates {
		if mailDate == "" {
			continue
		}
		sheet := fmt.Sprintf("%s Schedule", mailDate)
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}

		row := 1
		if err := setRow(f, sheet, row, "Machine", "Store", "Zip Codes", "Quantity"); err != nil {
			return err
		}

		for _, machine := range machineIDs(sched) {
			for _, a := range sched.MachineSchedule[machine] {
				if a.MailDate != mailDate {
					continue
				}
				row++
				if err := setRow(f, sheet, row,
					fmt.Sprintf("Machine %d", machine),
					a.Store,
					zipCodesCell(a),
					a.TotalQuantity,
				); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (e *Exporter) writeZipcodeSheet(f *excelize.File, sched *model.Schedule) error {
	const sheet = "Zipcode Schedule"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	row := 1
	if err := setRow(f, sheet, row, "Mail Date", "Zipcode", "Machines"); err != nil {
		return err
	}

	byDate := make(map[string][]string)
	for zip, za := range sched.ZipcodeSchedule {
		label := za.MailDate
		if label == "" {
			label = unassignedLabel
		}
		byDate[label] = append(byDate[label], zip)
	}

	labels := append([]string{}, sched.MailDates...)
	labels = append(labels, unassignedLabel)
	seen := make(map[string]bool)
	for _, label := range labels {
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true

		zips := byDate[label]
		sort.Strings(zips)
		for _, zip := range zips {
			machines := make([]string, 0, len(sched.ZipcodeSchedule[zip].Machines))
			for _, m := range sched.ZipcodeSchedule[zip].Machines {
				machines = append(machines, fmt.Sprintf("%d", m))
			}
			row++
			if err := setRow(f, sheet, row, label, zip, strings.Join(machines, ", ")); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Exporter) writeLoadsSheet(f *excelize.File, sched *model.Schedule) error {
	const sheet = "Daily Machine Loads"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := []interface{}{"Mail Date"}
	for i := range sched.MachineLoads {
		header = append(header, fmt.Sprintf("Machine %d", i+1))
	}
	row := 1
	if err := setRow(f, sheet, row, header...); err != nil {
		return err
	}

	for _, mailDate := range sched.MailDates {
		loads, ok := sched.MachineLoadsByDate[mailDate]
		if !ok {
			continue
		}
		values := []interface{}{mailDate}
		if mailDate == "" {
			values[0] = unassignedLabel
		}
		for _, load := range loads {
			values = append(values, load)
		}
		row++
		if err := setRow(f, sheet, row, values...); err != nil {
			return err
		}
	}
	return nil
}

func machineIDs(sched *model.Schedule) []int {
	ids := make([]int, 0, len(sched.MachineSchedule))
	for id := range sched.MachineSchedule {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func zipCodesCell(a model.Assignment) string {
	return fmt.Sprintf("%s %d", strings.Join(a.ZipCodes, ", "), a.ZipCodeCount)
}

func setRow(f *excelize.File, sheet string, row int, values ...interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
