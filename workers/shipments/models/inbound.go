package models

import (
	"fmt"
	"time"
)

// InboundShipment is a package on its way to us. Inbound rows are created by
// humans in the mirror, so the natural key is (carrier, tracking_number) and
// the lifecycle is carrier-reported free text rather than a Status enum.
type InboundShipment struct {
	ID uint `gorm:"primaryKey;autoIncrement"`

	Carrier        string `gorm:"size:50;not null;uniqueIndex:idx_inbound_key"`
	TrackingNumber string `gorm:"size:100;not null;uniqueIndex:idx_inbound_key"`

	TrackingLink        string `gorm:"size:256"`
	BrandedTrackingLink string `gorm:"size:256"`
	TrackingStatus      string `gorm:"size:100"`

	ShippedTime   *time.Time
	DeliveredTime *time.Time
	Eta           *time.Time

	Messages string

	// Name and Notes are filled in on the mirror and never edited here.
	Name  string `gorm:"size:256"`
	Notes string

	MirrorRecordId string `gorm:"size:100"`
}

// Key returns the natural key used for mutual exclusion and lookups.
func (s *InboundShipment) Key() string {
	return fmt.Sprintf("%s/%s", s.Carrier, s.TrackingNumber)
}

// PopulateTrackingLinks recomputes both tracking links from the current
// carrier and tracking number. Carriers without a known URL template keep
// whatever link was already set.
func (s *InboundShipment) PopulateTrackingLinks(trackingDomain string) {
	if link := CarrierTrackingLink(s.Carrier, s.TrackingNumber); link != "" {
		s.TrackingLink = link
	}
	s.BrandedTrackingLink = BrandedTrackingLink(trackingDomain, s.Carrier, s.TrackingNumber)
}

// SetShippedTime records when the package entered transit. Once set the
// timestamp only ever moves earlier.
func (s *InboundShipment) SetShippedTime(t time.Time) {
	if s.ShippedTime == nil || t.Before(*s.ShippedTime) {
		s.ShippedTime = &t
	}
}
