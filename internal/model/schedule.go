package model

// Method selects the assignment strategy.
type Method string

const (
	// MethodByStore balances stores across machines using co-occurrence affinity.
	MethodByStore Method = "by_store"
	// MethodByZipcode keeps each zip code whole on a single machine.
	MethodByZipcode Method = "by_zipcode"
)

// Valid reports whether the method is one of the known strategies.
func (m Method) Valid() bool {
	return m == MethodByStore || m == MethodByZipcode
}

// StoreLine is one store row inside a zip-code pick list.
type StoreLine struct {
	StoreName string `json:"store_name"`
	Quantity  int    `json:"quantity"`
}

// ZipRecord is one parsed zip-code section of the pick list.
// Zipcode is always 5 digits, zero-padded.
type ZipRecord struct {
	Zipcode     string      `json:"zipcode"`
	InsertCount int         `json:"insert_count"`
	Stores      []StoreLine `json:"stores"`
}

// Weight is the total quantity across the record's stores.
func (r *ZipRecord) Weight() int {
	total := 0
	for _, s := range r.Stores {
		total += s.Quantity
	}
	return total
}

// Assignment is one (store, mail date) job on a machine.
type Assignment struct {
	Store         string   `json:"store"`
	Machine       int      `json:"machine"`
	MailDate      string   `json:"mail_date"`
	ZipCodes      []string `json:"zip_codes"`
	ZipCodeCount  int      `json:"zip_code_count"`
	TotalQuantity int      `json:"total_quantity"`
}

// ZipAssignment records which machines handle a zip code on its mail date.
type ZipAssignment struct {
	Machines []int  `json:"machines"`
	MailDate string `json:"mail_date"`
}

// Schedule is the full scheduling result handed to the report assembler.
type Schedule struct {
	MachineSchedule    map[int][]Assignment     `json:"machine_schedule"`
	ZipcodeSchedule    map[string]ZipAssignment `json:"zipcode_schedule"`
	MachineLoads       []int                    `json:"machine_loads"`
	MachineLoadsByDate map[string][]int         `json:"machine_loads_by_date"`
	TotalLoad          int                      `json:"total_load"`
	ZipCodeCount       int                      `json:"zip_code_count"`
	MailDates          []string                 `json:"mail_dates"`
}

// MailDayOrder is the canonical run ordering of mail-day labels.
// The empty label (zip codes with no known mail date) always sorts last.
var MailDayOrder = []string{"MON", "TUES", "WED", "THURS", "FRI", "SAT", "SUN", ""}

// MailDayRank returns the position of a mail-day label in MailDayOrder.
// Labels outside the vocabulary sort after everything, including the empty label.
func MailDayRank(day string) int {
	for i, d := range MailDayOrder {
		if d == day {
			return i
		}
	}
	return len(MailDayOrder)
}
