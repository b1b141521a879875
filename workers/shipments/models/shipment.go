package models

import (
	"fmt"
	"strings"
	"time"
)

// OutboundShipment is a package we send out. The natural key is
// (email, created_time); the row is created on first intake and mutated by
// every reconciliation pass until the status is terminal.
type OutboundShipment struct {
	ID uint `gorm:"primaryKey;autoIncrement"`

	Name        string    `gorm:"size:256"`
	Contents    string
	Email       string    `gorm:"size:256;not null;uniqueIndex:idx_outbound_key"`
	Phone       string    `gorm:"size:50"`
	CreatedTime time.Time `gorm:"not null;uniqueIndex:idx_outbound_key"`

	Street1          string `gorm:"size:256"`
	Street2          string `gorm:"size:256"`
	City             string `gorm:"size:100"`
	State            string `gorm:"size:100"`
	Zipcode          string `gorm:"size:50"`
	Country          string `gorm:"size:50"`
	AddressFormatted string
	Latitude         float64
	Longitude        float64

	Status              Status `gorm:"size:50"`
	Carrier             string `gorm:"size:50"`
	TrackingNumber      string `gorm:"size:100"`
	TrackingLink        string `gorm:"size:256"`
	BrandedTrackingLink string `gorm:"size:256"`
	TrackingStatus      string `gorm:"size:100"`
	LabelLink           string `gorm:"size:256"`
	Cost                float64
	CarrierShipmentId   string `gorm:"size:100"`

	PickupDate    *time.Time
	ShippedTime   *time.Time
	DeliveredTime *time.Time
	Eta           *time.Time

	Messages string
	Notes    string

	// LocalPickup and PickupLinks are owned by the mirror; humans edit them
	// there and this service only reads them back.
	LocalPickup    bool
	PickupLinks    []string `gorm:"serializer:json"`
	MirrorRecordId string   `gorm:"size:100"`
}

// Key returns the natural key used for mutual exclusion and lookups.
func (s *OutboundShipment) Key() string {
	return fmt.Sprintf("%s/%d", s.Email, s.CreatedTime.UTC().Unix())
}

// FormatAddress renders the destination as a multi-line postal address.
func (s *OutboundShipment) FormatAddress() string {
	street := s.Street1
	if s.Street2 != "" {
		street = fmt.Sprintf("%s\n%s", s.Street1, s.Street2)
	}
	formatted := fmt.Sprintf("%s\n%s, %s %s %s", street, s.City, s.State, s.Zipcode, s.Country)
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(formatted), ","))
}

// PopulateTrackingLinks recomputes both tracking links from the current
// carrier and tracking number. Carriers without a known URL template keep
// whatever link was already set, e.g. the provider-supplied one.
func (s *OutboundShipment) PopulateTrackingLinks(trackingDomain string) {
	if link := CarrierTrackingLink(s.Carrier, s.TrackingNumber); link != "" {
		s.TrackingLink = link
	}
	s.BrandedTrackingLink = BrandedTrackingLink(trackingDomain, s.Carrier, s.TrackingNumber)
}

// SetShippedTime records when the package entered transit. Once set the
// timestamp only ever moves earlier.
func (s *OutboundShipment) SetShippedTime(t time.Time) {
	if s.ShippedTime == nil || t.Before(*s.ShippedTime) {
		s.ShippedTime = &t
	}
}

// NormalizeCountry maps spelled-out country names onto the codes the carrier
// accepts and defaults empty values to US. Intake rows arrive uppercased, so
// the match ignores case.
func (s *OutboundShipment) NormalizeCountry() {
	switch strings.ToUpper(strings.TrimSpace(s.Country)) {
	case "GREAT BRITAIN":
		s.Country = "GB"
	case "UNITED STATES", "US", "":
		s.Country = "US"
	}
}
