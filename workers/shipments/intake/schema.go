package intake

import "strings"

// SheetSchema maps logical shipment fields to column indexes in one intake
// source. An index of -1 means the source has no such column and the field
// defaults to its zero value.
type SheetSchema struct {
	Timestamp int
	Name      int
	Email     int
	Street1   int
	Street2   int
	City      int
	State     int
	Zipcode   int
	Country   int
	Phone     int
	Sent      int

	HoodieSize      int
	FleeceSize      int
	WomensShirtSize int
	UnisexShirtSize int
	KidsShirtSize   int
}

// columnMatchers pairs a header substring with the schema slot it fills.
// Matching is case-insensitive and the first matching column wins per field.
var columnMatchers = []struct {
	substring string
	assign    func(*SheetSchema, int)
}{
	{"timestamp", func(s *SheetSchema, i int) { s.Timestamp = i }},
	{"email address", func(s *SheetSchema, i int) { s.Email = i }},
	{"street address line 1", func(s *SheetSchema, i int) { s.Street1 = i }},
	{"street address line 2", func(s *SheetSchema, i int) { s.Street2 = i }},
	{"city", func(s *SheetSchema, i int) { s.City = i }},
	{"state", func(s *SheetSchema, i int) { s.State = i }},
	{"zipcode", func(s *SheetSchema, i int) { s.Zipcode = i }},
	{"country", func(s *SheetSchema, i int) { s.Country = i }},
	{"phone", func(s *SheetSchema, i int) { s.Phone = i }},
	{"sent", func(s *SheetSchema, i int) { s.Sent = i }},
	{"hoodie", func(s *SheetSchema, i int) { s.HoodieSize = i }},
	{"fleece", func(s *SheetSchema, i int) { s.FleeceSize = i }},
	{"women's tee", func(s *SheetSchema, i int) { s.WomensShirtSize = i }},
	{"unisex tee", func(s *SheetSchema, i int) { s.UnisexShirtSize = i }},
	{"onesie", func(s *SheetSchema, i int) { s.KidsShirtSize = i }},
	// "name" is a substring of several other headers, so it is matched last
	// and only fills the slot when nothing longer already claimed the column.
	{"name", func(s *SheetSchema, i int) { s.Name = i }},
}

// DiscoverSchema scans a header row for known column names. Column headers
// are free text typed by humans, so matching is by substring rather than
// equality.
func DiscoverSchema(header []string) SheetSchema {
	schema := SheetSchema{
		Timestamp: -1, Name: -1, Email: -1,
		Street1: -1, Street2: -1, City: -1, State: -1, Zipcode: -1, Country: -1,
		Phone: -1, Sent: -1,
		HoodieSize: -1, FleeceSize: -1, WomensShirtSize: -1, UnisexShirtSize: -1, KidsShirtSize: -1,
	}

	claimed := make([]bool, len(header))
	for _, m := range columnMatchers {
		for index, col := range header {
			if claimed[index] {
				continue
			}
			if strings.Contains(strings.ToLower(col), m.substring) {
				m.assign(&schema, index)
				claimed[index] = true
				break
			}
		}
	}
	return schema
}

// cell returns the trimmed cell at index, or "" when the column is absent or
// the row is short.
func cell(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}
