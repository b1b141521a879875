package intake

import (
	"fmt"
	"strings"
	"time"

	"shipment-sync-service/workers/shipments/models"
)

// RowSource is a row-oriented intake source, e.g. a spreadsheet of form
// responses.
type RowSource interface {
	Header() []string
	Rows() [][]string
}

// Intake timestamps are written by the form without a zone, in Pacific
// standard time.
var intakeZone = time.FixedZone("PST", -8*60*60)

// sizedItem pairs a contents line label with the schema column holding its
// size.
type sizedItem struct {
	label string
	size  func(SheetSchema, []string) string
}

var sizedItems = []sizedItem{
	{"Hoodie", func(s SheetSchema, r []string) string { return cell(r, s.HoodieSize) }},
	{"Fleece", func(s SheetSchema, r []string) string { return cell(r, s.FleeceSize) }},
	{"Women's Shirt", func(s SheetSchema, r []string) string { return cell(r, s.WomensShirtSize) }},
	{"Unisex Shirt", func(s SheetSchema, r []string) string { return cell(r, s.UnisexShirtSize) }},
	{"Kids Shirt", func(s SheetSchema, r []string) string { return cell(r, s.KidsShirtSize) }},
}

// ParseRow maps one raw spreadsheet row to a candidate outbound shipment
// plus the source's own "already fulfilled" flag. It never touches the
// network; fields with no column come back as zero values so the merge
// gap-fill rule applies.
func ParseRow(schema SheetSchema, row []string) (models.OutboundShipment, bool, error) {
	timestamp := cell(row, schema.Timestamp)
	createdTime, err := ParseIntakeTimestamp(timestamp)
	if err != nil {
		return models.OutboundShipment{}, false, fmt.Errorf("parsing intake timestamp %q: %w", timestamp, err)
	}

	fulfilled := strings.Contains(strings.ToLower(cell(row, schema.Sent)), "true")

	var contents []string
	for _, item := range sizedItems {
		size := strings.ToUpper(item.size(schema, row))
		if size == "" || strings.Contains(size, "N/A") {
			continue
		}
		contents = append(contents, fmt.Sprintf("1 x %s, Size: %s", item.label, size))
	}

	shipment := models.OutboundShipment{
		CreatedTime: createdTime,
		Name:        cell(row, schema.Name),
		Email:       strings.ToLower(cell(row, schema.Email)),
		Phone:       strings.ToLower(cell(row, schema.Phone)),
		Street1:     strings.ToUpper(cell(row, schema.Street1)),
		Street2:     strings.ToUpper(cell(row, schema.Street2)),
		City:        strings.ToUpper(cell(row, schema.City)),
		State:       strings.ToUpper(cell(row, schema.State)),
		Zipcode:     strings.ToUpper(cell(row, schema.Zipcode)),
		Country:     strings.ToUpper(cell(row, schema.Country)),
		Contents:    strings.Join(contents, "\n"),
	}
	shipment.NormalizeCountry()

	return shipment, fulfilled, nil
}

// Layouts the form has been seen to emit, tried in order.
var timestampLayouts = []string{
	"1/2/2006 15:04:05",
	"2006-01-02T15:04:05",
}

// ParseIntakeTimestamp parses a form timestamp, written without a zone in
// Pacific standard time.
func ParseIntakeTimestamp(s string) (time.Time, error) {
	trimmed := strings.TrimSpace(s)
	var err error
	for _, layout := range timestampLayouts {
		var t time.Time
		t, err = time.ParseInLocation(layout, trimmed, intakeZone)
		if err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, err
}
