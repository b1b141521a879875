package models

import "time"

// MergePolicy decides which side of a merge wins for one field.
type MergePolicy int

const (
	// PreferIncoming takes the incoming value, falling back to the existing
	// value when the incoming one is empty.
	PreferIncoming MergePolicy = iota
	// PreferExisting keeps a populated existing value no matter what the
	// intake produced; the incoming value only ever fills a gap. Used for
	// sticky fields, where carrier-confirmed or human-edited data is more
	// trustworthy than intake data.
	PreferExisting
	// AlwaysExisting keeps the existing value unconditionally. Used for
	// fields the mirror is the sole writer of.
	AlwaysExisting
)

// OutboundFieldPolicies is the per-field merge policy table for outbound
// shipments. Fields not listed default to PreferIncoming.
var OutboundFieldPolicies = map[string]MergePolicy{
	"name":     PreferIncoming,
	"contents": PreferIncoming,
	"email":    PreferIncoming,
	"phone":    PreferIncoming,
	"street_1": PreferIncoming,
	"street_2": PreferIncoming,
	"city":     PreferIncoming,
	"state":    PreferIncoming,
	"zipcode":  PreferIncoming,
	"country":  PreferIncoming,

	"status":                PreferExisting,
	"carrier":               PreferExisting,
	"tracking_number":       PreferExisting,
	"tracking_link":         PreferExisting,
	"branded_tracking_link": PreferExisting,
	"tracking_status":       PreferExisting,
	"label_link":            PreferExisting,
	"cost":                  PreferExisting,
	"carrier_shipment_id":   PreferExisting,
	"pickup_date":           PreferExisting,
	"shipped_time":          PreferExisting,
	"delivered_time":        PreferExisting,
	"eta":                   PreferExisting,
	"messages":              PreferExisting,
	"notes":                 PreferExisting,

	"address_formatted": AlwaysExisting,
	"latitude":          AlwaysExisting,
	"longitude":         AlwaysExisting,
	"local_pickup":      AlwaysExisting,
	"pickup_links":      AlwaysExisting,
	"mirror_record_id":  AlwaysExisting,
}

// InboundFieldPolicies is the per-field merge policy table for inbound
// shipments.
var InboundFieldPolicies = map[string]MergePolicy{
	"carrier":               PreferIncoming,
	"tracking_number":       PreferIncoming,
	"tracking_link":         PreferExisting,
	"branded_tracking_link": PreferExisting,
	"tracking_status":       PreferExisting,
	"shipped_time":          PreferExisting,
	"delivered_time":        PreferExisting,
	"eta":                   PreferExisting,
	"messages":              PreferExisting,
	"name":                  AlwaysExisting,
	"notes":                 AlwaysExisting,
	"mirror_record_id":      AlwaysExisting,
}

// MergeOutbound merges an intake candidate against the previously stored
// record field by field. It is pure and total: unset fields are the zero
// value, and merging the same candidate twice yields the same record.
func MergeOutbound(incoming, existing OutboundShipment) OutboundShipment {
	p := OutboundFieldPolicies
	out := OutboundShipment{
		ID:          existing.ID,
		CreatedTime: incoming.CreatedTime,

		Name:     mergeString(p["name"], incoming.Name, existing.Name),
		Contents: mergeString(p["contents"], incoming.Contents, existing.Contents),
		Email:    mergeString(p["email"], incoming.Email, existing.Email),
		Phone:    mergeString(p["phone"], incoming.Phone, existing.Phone),
		Street1:  mergeString(p["street_1"], incoming.Street1, existing.Street1),
		Street2:  mergeString(p["street_2"], incoming.Street2, existing.Street2),
		City:     mergeString(p["city"], incoming.City, existing.City),
		State:    mergeString(p["state"], incoming.State, existing.State),
		Zipcode:  mergeString(p["zipcode"], incoming.Zipcode, existing.Zipcode),
		Country:  mergeString(p["country"], incoming.Country, existing.Country),

		Status:              Status(mergeString(p["status"], string(incoming.Status), string(existing.Status))),
		Carrier:             mergeString(p["carrier"], incoming.Carrier, existing.Carrier),
		TrackingNumber:      mergeString(p["tracking_number"], incoming.TrackingNumber, existing.TrackingNumber),
		TrackingLink:        mergeString(p["tracking_link"], incoming.TrackingLink, existing.TrackingLink),
		BrandedTrackingLink: mergeString(p["branded_tracking_link"], incoming.BrandedTrackingLink, existing.BrandedTrackingLink),
		TrackingStatus:      mergeString(p["tracking_status"], incoming.TrackingStatus, existing.TrackingStatus),
		LabelLink:           mergeString(p["label_link"], incoming.LabelLink, existing.LabelLink),
		Cost:                mergeFloat(p["cost"], incoming.Cost, existing.Cost),
		CarrierShipmentId:   mergeString(p["carrier_shipment_id"], incoming.CarrierShipmentId, existing.CarrierShipmentId),
		PickupDate:          mergeTime(p["pickup_date"], incoming.PickupDate, existing.PickupDate),
		ShippedTime:         mergeTime(p["shipped_time"], incoming.ShippedTime, existing.ShippedTime),
		DeliveredTime:       mergeTime(p["delivered_time"], incoming.DeliveredTime, existing.DeliveredTime),
		Eta:                 mergeTime(p["eta"], incoming.Eta, existing.Eta),
		Messages:            mergeString(p["messages"], incoming.Messages, existing.Messages),
		Notes:               mergeString(p["notes"], incoming.Notes, existing.Notes),

		AddressFormatted: existing.AddressFormatted,
		Latitude:         existing.Latitude,
		Longitude:        existing.Longitude,
		LocalPickup:      existing.LocalPickup,
		PickupLinks:      existing.PickupLinks,
		MirrorRecordId:   existing.MirrorRecordId,
	}
	return out
}

// MergeInbound merges a mirror candidate against the previously stored
// inbound record.
func MergeInbound(incoming, existing InboundShipment) InboundShipment {
	p := InboundFieldPolicies
	return InboundShipment{
		ID: existing.ID,

		Carrier:        mergeString(p["carrier"], incoming.Carrier, existing.Carrier),
		TrackingNumber: mergeString(p["tracking_number"], incoming.TrackingNumber, existing.TrackingNumber),

		TrackingLink:        mergeString(p["tracking_link"], incoming.TrackingLink, existing.TrackingLink),
		BrandedTrackingLink: mergeString(p["branded_tracking_link"], incoming.BrandedTrackingLink, existing.BrandedTrackingLink),
		TrackingStatus:      mergeString(p["tracking_status"], incoming.TrackingStatus, existing.TrackingStatus),
		ShippedTime:         mergeTime(p["shipped_time"], incoming.ShippedTime, existing.ShippedTime),
		DeliveredTime:       mergeTime(p["delivered_time"], incoming.DeliveredTime, existing.DeliveredTime),
		Eta:                 mergeTime(p["eta"], incoming.Eta, existing.Eta),
		Messages:            mergeString(p["messages"], incoming.Messages, existing.Messages),

		Name:           mergeString(p["name"], incoming.Name, existing.Name),
		Notes:          mergeString(p["notes"], incoming.Notes, existing.Notes),
		MirrorRecordId: mergeString(p["mirror_record_id"], incoming.MirrorRecordId, existing.MirrorRecordId),
	}
}

func mergeString(policy MergePolicy, incoming, existing string) string {
	switch policy {
	case AlwaysExisting:
		return existing
	case PreferExisting:
		if existing != "" {
			return existing
		}
		return incoming
	default:
		if incoming != "" {
			return incoming
		}
		return existing
	}
}

func mergeFloat(policy MergePolicy, incoming, existing float64) float64 {
	switch policy {
	case AlwaysExisting:
		return existing
	case PreferExisting:
		if existing != 0 {
			return existing
		}
		return incoming
	default:
		if incoming != 0 {
			return incoming
		}
		return existing
	}
}

func mergeTime(policy MergePolicy, incoming, existing *time.Time) *time.Time {
	switch policy {
	case AlwaysExisting:
		return existing
	case PreferExisting:
		if existing != nil {
			return existing
		}
		return incoming
	default:
		if incoming != nil {
			return incoming
		}
		return existing
	}
}
