package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jimelj/machine-scheduler/internal/model"
)

// sectionDelimiter starts each zip code's material-pick sub-list.
const sectionDelimiter = "Material Pick List"

var (
	reZipcode = regexp.MustCompile(`Zipcode - (\d+)`)
	reInserts = regexp.MustCompile(`Inserts - (\d+)`)

	// Store row with a trailing weight column: name, quantity, weight.
	reStoreQtyWeight = regexp.MustCompile(`^(.*?)\s+(\d{1,3}(?:,\d{3})?)\s+\d+$`)
	// Store row ending in a bare quantity.
	reStoreQty = regexp.MustCompile(`^(.*?)\s+(\d{1,3}(?:,\d{3})?)$`)
	// Route-code tokens that leak into the store name on the second pattern,
	// e.g. "SHOPRITE BETHPAGE LI Z5 13,550".
	reRouteCodeTail = regexp.MustCompile(`\s+(?:Z\d+|ABR|[A-Z]-Z\d+|1-Z\d+)\s+\d{1,3}(?:,\d{3})?$`)
)

// ParsePickLists turns raw extracted pick-list text into zip-code records.
// Malformed lines and sections are dropped, never reported: the parser
// degrades to fewer parsed stores and does not fail.
func ParsePickLists(data string) map[string]*model.ZipRecord {
	sections := strings.Split(data, sectionDelimiter)

	records := make(map[string]*model.ZipRecord)

	for _, section := range sections {
		zipMatch := reZipcode.FindStringSubmatch(section)
		if zipMatch == nil {
			continue
		}
		zipcode := padZip(zipMatch[1])

		inserts := 0
		if m := reInserts.FindStringSubmatch(section); m != nil {
			inserts, _ = strconv.Atoi(m[1])
		}

		stores := parseStoreTable(section)
		if len(stores) == 0 {
			continue
		}

		records[zipcode] = &model.ZipRecord{
			Zipcode:     zipcode,
			InsertCount: inserts,
			Stores:      stores,
		}
	}

	return records
}

// parseStoreTable scans one section for the store table and parses its rows.
func parseStoreTable(section string) []model.StoreLine {
	stores := []model.StoreLine{}
	inTable := false

	for _, line := range strings.Split(section, "\n") {
		if isTableHeader(line) {
			inTable = true
			continue
		}
		if !inTable {
			continue
		}
		if strings.Contains(line, "Page:") || strings.TrimSpace(line) == "0" {
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		// Footer/separator artifacts inside the table body.
		if strings.Contains(line, "Total -") || strings.Contains(line, "Machine#") || strings.Contains(line, "Day#") {
			continue
		}

		clean := strings.Join(strings.Fields(line), " ")

		if m := reStoreQtyWeight.FindStringSubmatch(clean); m != nil {
			stores = append(stores, model.StoreLine{
				StoreName: strings.TrimSpace(m[1]),
				Quantity:  parseQuantity(m[2]),
			})
			continue
		}

		if m := reStoreQty.FindStringSubmatch(clean); m != nil {
			name := reRouteCodeTail.ReplaceAllString(strings.TrimSpace(m[1]), "")
			stores = append(stores, model.StoreLine{
				StoreName: strings.TrimSpace(name),
				Quantity:  parseQuantity(m[2]),
			})
		}
		// Anything else is an unparseable row; skip it.
	}

	return stores
}

func isTableHeader(line string) bool {
	if !strings.Contains(line, "Store") {
		return false
	}
	return strings.Contains(line, "Qty") ||
		strings.Contains(line, "Wght") ||
		strings.Contains(line, "Quantity")
}

func parseQuantity(s string) int {
	n, _ := strconv.Atoi(strings.ReplaceAll(s, ",", ""))
	return n
}

// padZip left-pads a zip code to 5 digits.
func padZip(zip string) string {
	for len(zip) < 5 {
		zip = "0" + zip
	}
	return zip
}
