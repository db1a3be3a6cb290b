// Package maildate loads the zip-to-mail-day reference table.
//
// The table is maintained outside this system ("Zips by Address" workbook);
// column naming varies between versions, so lookup is heuristic. Any failure
// to locate or read the table degrades to an empty mapping: every zip code
// then lands in the unassigned mail-date bucket instead of failing the run.
package maildate

import (
	"encoding/csv"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Known file names for the reference table, checked in order.
var knownFileNames = []string{
	"Zips by Address File Group.xlsx",
	"Zips by address.xlsx",
	"Zips by address.xls",
	"zips by address.xlsx",
	"zips_by_address.xlsx",
	"Zips_by_address.xlsx",
	"Zips by address.csv",
	"zips_by_address.csv",
}

var (
	zipColumnNames  = []string{"zip", "zipcode", "zip code"}
	dateColumnNames = []string{"mailday", "mail date", "mail day", "maildate"}
)

// Resolver maps zip codes to mail-day labels.
type Resolver struct {
	dates map[string]string
}

// NewResolver wraps an already-loaded mapping.
func NewResolver(dates map[string]string) *Resolver {
	if dates == nil {
		dates = map[string]string{}
	}
	return &Resolver{dates: dates}
}

// Load reads the mail-date table at path. An explicit path is used as-is;
// an empty path searches the given directories for the known file names.
// Errors are logged and degrade to an empty resolver.
func Load(path string, searchDirs ...string) *Resolver {
	if path == "" {
		path = findTable(searchDirs)
	}
	if path == "" {
		log.Println("mail-date table not found, all zip codes will be unassigned")
		return NewResolver(nil)
	}

	rows, err := readRows(path)
	if err != nil {
		log.Printf("failed to read mail-date table %s: %v", path, err)
		return NewResolver(nil)
	}

	return NewResolver(buildMapping(rows))
}

// Lookup returns the mail-day label for a zip code, or "" if unknown.
func (r *Resolver) Lookup(zipcode string) string {
	return r.dates[zipcode]
}

// Len returns the number of zip codes in the table.
func (r *Resolver) Len() int {
	return len(r.dates)
}

func findTable(dirs []string) string {
	for _, dir := range dirs {
		for _, name := range knownFileNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

func readRows(path string) ([][]string, error) {
	if strings.HasSuffix(strings.ToLower(path), ".csv") {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		reader := csv.NewReader(f)
		reader.FieldsPerRecord = -1
		return reader.ReadAll()
	}

	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	return wb.GetRows(sheets[0])
}

// buildMapping locates the zip and mail-day columns and extracts the table.
// Column names are matched case-insensitively against a small vocabulary,
// then by substring, with a final positional fallback (first column = zip,
// third column = mail day).
func buildMapping(rows [][]string) map[string]string {
	dates := make(map[string]string)
	if len(rows) < 2 {
		return dates
	}

	header := rows[0]
	zipCol := findColumn(header, zipColumnNames, "zip")
	dateCol := findColumn(header, dateColumnNames, "mail", "day", "date")

	if zipCol < 0 && len(header) >= 1 {
		zipCol = 0
	}
	if dateCol < 0 && len(header) >= 3 {
		dateCol = 2
	}
	if zipCol < 0 || dateCol < 0 {
		log.Println("could not identify zip/mail-day columns in mail-date table")
		return dates
	}

	for _, row := range rows[1:] {
		zip := cellValue(row, zipCol)
		day := cellValue(row, dateCol)
		if zip == "" || day == "" || strings.EqualFold(zip, "nan") || strings.EqualFold(day, "nan") {
			continue
		}
		// Numeric cells sometimes surface as floats ("11501.0").
		if i := strings.Index(zip, "."); i >= 0 {
			zip = zip[:i]
		}
		for len(zip) < 5 {
			zip = "0" + zip
		}
		dates[zip] = day
	}

	return dates
}

func findColumn(header []string, exact []string, substrings ...string) int {
	for i, col := range header {
		name := strings.ToLower(strings.TrimSpace(col))
		for _, want := range exact {
			if name == want {
				return i
			}
		}
	}
	for i, col := range header {
		name := strings.ToLower(strings.TrimSpace(col))
		for _, sub := range substrings {
			if strings.Contains(name, sub) {
				return i
			}
		}
	}
	return -1
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
